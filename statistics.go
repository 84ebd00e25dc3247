package investstat

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Account is one brokerage account known to the broker.
type Account struct {
	ID   string
	Name string
	Type string
}

// Broker supplies raw, unconverted and unmerged records. Every call is
// scoped to an explicit account id: there is no shared "current account"
// state anywhere, so per-account fetches are free to run concurrently.
type Broker interface {
	Accounts(ctx context.Context) ([]Account, error)
	Positions(ctx context.Context, accountID string) ([]Position, error)
	Operations(ctx context.Context, accountID string, from, to time.Time) ([]Operation, error)
}

// Statistics builds portfolio reports from a broker and a rate provider.
// It recomputes everything per call: there is no cached state besides the
// rate table it primes.
type Statistics struct {
	broker   Broker
	rates    RateProvider
	currency string // reporting currency; "" leaves values in their native currency
}

func NewStatistics(broker Broker, rates RateProvider, reportingCurrency string) *Statistics {
	return &Statistics{broker: broker, rates: rates, currency: reportingCurrency}
}

// fetchPositions concatenates the raw positions of every account. Fetches
// run concurrently; the combined list is stabilized by instrument id so that
// network completion order never changes downstream merge order.
func (s *Statistics) fetchPositions(ctx context.Context) ([]Position, error) {
	accounts, err := s.broker.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make([][]Position, len(accounts))
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			positions, err := s.broker.Positions(ctx, account.ID)
			results[i] = positions
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []Position
	for _, positions := range results {
		combined = append(combined, positions...)
	}
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].InstrumentID < combined[j].InstrumentID
	})
	return combined, nil
}

// Positions reports the portfolio across all accounts: raw positions are
// priced, converted to the reporting currency and merged per instrument.
func (s *Statistics) Positions(ctx context.Context) ([]Position, error) {
	raw, err := s.fetchPositions(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.preloadPositionRates(ctx, raw); err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(raw))
	for _, p := range raw {
		p.TotalPrice = p.AveragePositionPrice.Mul(p.Balance)
		if s.currency != "" {
			if p.AveragePositionPrice, err = Convert(s.currency, p.AveragePositionPrice, s.rates); err != nil {
				return nil, err
			}
			if p.TotalPrice, err = Convert(s.currency, p.TotalPrice, s.rates); err != nil {
				return nil, err
			}
			if p.ExpectedYield.Value, err = Convert(s.currency, p.ExpectedYield.Value, s.rates); err != nil {
				return nil, err
			}
		}
		p.ExpectedYield = p.ExpectedYield.withPercent(p.TotalPrice)
		positions = append(positions, p)
	}
	return MergeByInstrument(positions)
}

// preloadPositionRates primes every currency pair a conversion might need.
func (s *Statistics) preloadPositionRates(ctx context.Context, positions []Position) error {
	if s.currency == "" {
		return nil
	}
	for _, p := range positions {
		for _, cur := range []string{p.AveragePositionPrice.Currency(), p.ExpectedYield.Value.Currency()} {
			if cur == "" {
				continue
			}
			if err := s.rates.Preload(ctx, cur, s.currency); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stocks reports security positions (everything but cash) by descending
// total price.
func (s *Statistics) Stocks(ctx context.Context) ([]Position, error) {
	positions, err := s.Positions(ctx)
	if err != nil {
		return nil, err
	}
	stocks := make([]Position, 0, len(positions))
	for _, p := range positions {
		if p.InstrumentType != Currency {
			stocks = append(stocks, p)
		}
	}
	sort.SliceStable(stocks, func(i, j int) bool {
		return stocks[i].TotalPrice.GreaterThan(stocks[j].TotalPrice)
	})
	return stocks, nil
}

// Drawdowns reports the positions currently in the red, worst first.
func (s *Statistics) Drawdowns(ctx context.Context) ([]Position, error) {
	positions, err := s.Positions(ctx)
	if err != nil {
		return nil, err
	}
	var losing []Position
	for _, p := range positions {
		if p.InstrumentType != Currency && !p.ExpectedYield.Percent.IsNaN() && p.ExpectedYield.Percent < 0 {
			losing = append(losing, p)
		}
	}
	sort.SliceStable(losing, func(i, j int) bool {
		return losing[i].ExpectedYield.Percent < losing[j].ExpectedYield.Percent
	})
	return losing, nil
}

// ConsolidateBy reports the portfolio grouped by an arbitrary key. When no
// predicate is given, cash positions are excluded, as the original report
// listed them separately.
func (s *Statistics) ConsolidateBy(ctx context.Context, key KeyFunc, pred Predicate) ([]Entry, error) {
	positions, err := s.Positions(ctx)
	if err != nil {
		return nil, err
	}
	if pred == nil {
		pred = NotCurrency
	}
	return ConsolidateBy(key, positions, pred)
}

// Consolidate reports the portfolio grouped by named compositions.
func (s *Statistics) Consolidate(ctx context.Context, compositions []Composition, pred Predicate) ([]Entry, error) {
	positions, err := s.Positions(ctx)
	if err != nil {
		return nil, err
	}
	if pred == nil {
		pred = NotCurrency
	}
	return Consolidate(compositions, positions, pred)
}

// fetchOperations concatenates the raw operations of every account over a
// window and annotates them with ticker and name from the portfolio, which
// the operations feed does not carry.
func (s *Statistics) fetchOperations(ctx context.Context, from, to time.Time) ([]Operation, error) {
	accounts, err := s.broker.Accounts(ctx)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([][]Operation, len(accounts))
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			operations, err := s.broker.Operations(gctx, account.ID, from, to)
			results[i] = operations
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []Operation
	for _, operations := range results {
		combined = append(combined, operations...)
	}
	sort.SliceStable(combined, func(i, j int) bool {
		if !combined[i].Date.Equal(combined[j].Date) {
			return combined[i].Date.Before(combined[j].Date)
		}
		return combined[i].InstrumentID < combined[j].InstrumentID
	})

	names, err := s.instrumentNames(ctx)
	if err != nil {
		return nil, err
	}
	for i := range combined {
		if n, ok := names[combined[i].InstrumentID]; ok {
			combined[i].Ticker = n.ticker
			combined[i].Name = n.name
		}
	}
	return combined, nil
}

type instrumentName struct{ ticker, name string }

func (s *Statistics) instrumentNames(ctx context.Context) (map[string]instrumentName, error) {
	positions, err := s.fetchPositions(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]instrumentName, len(positions))
	for _, p := range positions {
		names[p.InstrumentID] = instrumentName{ticker: p.Ticker, name: p.Name}
	}
	return names, nil
}

// PurchasesByInstrument reports completed buys over a window, aggregated per
// instrument class and currency.
func (s *Statistics) PurchasesByInstrument(ctx context.Context, from, to time.Time) ([]PurchaseGroup, error) {
	operations, err := s.fetchOperations(ctx, from, to)
	if err != nil {
		return nil, err
	}
	// commissions may be charged in a currency other than the traded one
	for _, op := range operations {
		if cur := op.Commission.Currency(); cur != "" && cur != op.Currency {
			if err := s.rates.Preload(ctx, cur, op.Currency); err != nil {
				return nil, err
			}
		}
	}
	return AggregatePurchases(operations, from, to, s.rates)
}

// CurrencySellSummary totals the currency sell operations of a window.
type CurrencySellSummary struct {
	Quantity     decimal.Decimal
	Payment      Money
	Commission   Money
	AveragePrice Money
}

// CurrencySells reports how much foreign currency was sold over a window:
// quantity sold, payment received, commission paid and the mean price.
func (s *Statistics) CurrencySells(ctx context.Context, from, to time.Time) (CurrencySellSummary, error) {
	operations, err := s.fetchOperations(ctx, from, to)
	if err != nil {
		return CurrencySellSummary{}, err
	}

	var sells []Operation
	for _, op := range operations {
		if op.Type == Sell && op.Status == Done && op.InstrumentType == Currency {
			sells = append(sells, op)
		}
	}
	if len(sells) == 0 {
		return CurrencySellSummary{}, nil
	}

	cur := sells[0].Currency
	summary := CurrencySellSummary{
		Payment:      M(0, cur),
		Commission:   M(0, cur),
		AveragePrice: M(0, cur),
	}
	price := decimal.Zero
	for _, op := range sells {
		summary.Quantity = summary.Quantity.Add(op.Quantity)
		if summary.Payment, err = mergeMoney("payment", "currency sells", summary.Payment, M(op.Payment, op.Currency)); err != nil {
			return CurrencySellSummary{}, err
		}
		if ccur := op.Commission.Currency(); ccur != "" && ccur != cur {
			if err := s.rates.Preload(ctx, ccur, cur); err != nil {
				return CurrencySellSummary{}, err
			}
		}
		converted, err := Convert(cur, op.Commission, s.rates)
		if err != nil {
			return CurrencySellSummary{}, err
		}
		if summary.Commission, err = mergeMoney("commission", "currency sells", summary.Commission, converted); err != nil {
			return CurrencySellSummary{}, err
		}
		price = price.Add(op.Price)
	}
	summary.Commission = summary.Commission.Abs()
	summary.AveragePrice = M(price.Div(newDecimal(len(sells))), cur)
	return summary, nil
}

// Dividends reports the dividend operations of a year, annotated with the
// ticker and name of the paying instrument.
func (s *Statistics) Dividends(ctx context.Context, year int) ([]Operation, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	operations, err := s.fetchOperations(ctx, from, to)
	if err != nil {
		return nil, err
	}
	var dividends []Operation
	for _, op := range operations {
		if op.Type == Dividend {
			dividends = append(dividends, op)
		}
	}
	return dividends, nil
}
