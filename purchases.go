package investstat

import (
	"errors"
	"sort"
	"time"
)

// PurchaseGroup aggregates the buy operations of one (instrument type,
// currency) bucket over a time window. Payment and Commission are normalized
// positive, and Commission is expressed in the group's currency.
type PurchaseGroup struct {
	InstrumentType InstrumentType
	Currency       string
	Payment        Money
	Commission     Money
	Members        []Operation
}

// Key identifies the group in reports, e.g. "Stock RUB".
func (g PurchaseGroup) Key() string { return string(g.InstrumentType) + " " + g.Currency }

// AggregatePurchases reports what was bought over a window, grouped by
// instrument type and currency.
//
// Only completed buys within the window count. The broker reports buy
// payments as negative; they are normalized to the positive sign the report
// expects before aggregation. Within each group, repeated purchases of the
// same instrument are merged with the position fold rule: payment, quantity
// and commission sum, the price becomes the true mean over the merged
// operations. Commissions are converted to the group's currency through the
// rate provider, which must have the needed pairs primed.
//
// Groups are sorted by instrument type rank then currency, and members by
// ticker ascending.
func AggregatePurchases(operations []Operation, from, to time.Time, rates RateProvider) ([]PurchaseGroup, error) {
	var order []string
	buckets := make(map[string][]Operation)
	for _, op := range operations {
		if op.Type != Buy || op.Status != Done {
			continue
		}
		if op.Date.Before(from) || op.Date.After(to) {
			continue
		}
		op.Payment = op.Payment.Abs()
		op.Commission = op.Commission.Abs()
		key := string(op.InstrumentType) + " " + op.Currency
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], op)
	}

	groups := make([]PurchaseGroup, 0, len(order))
	for _, key := range order {
		g, err := totalPurchases(buckets[key], rates)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return less(groups[i].InstrumentType, groups[i].Currency,
			groups[j].InstrumentType, groups[j].Currency)
	})
	return groups, nil
}

func totalPurchases(ops []Operation, rates RateProvider) (PurchaseGroup, error) {
	g := PurchaseGroup{
		InstrumentType: ops[0].InstrumentType,
		Currency:       ops[0].Currency,
	}

	members, err := mergeOperations(ops)
	if err != nil {
		return PurchaseGroup{}, err
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].Ticker < members[j].Ticker })
	g.Members = members

	// grouped by currency already, so a stray member is an upstream bug:
	// assert instead of producing a silently mixed total
	payment := M(0, g.Currency)
	commission := M(0, g.Currency)
	for _, op := range members {
		if op.Currency != g.Currency {
			return PurchaseGroup{}, &CurrencyMismatchError{
				Field: "payment", Key: g.Key(), Have: op.Currency, Want: g.Currency,
			}
		}
		if payment, err = payment.Add(M(op.Payment, op.Currency)); err != nil {
			return PurchaseGroup{}, err
		}
		converted, err := Convert(g.Currency, op.Commission, rates)
		if err != nil {
			return PurchaseGroup{}, err
		}
		if commission, err = mergeMoney("commission", g.Key(), commission, converted); err != nil {
			return PurchaseGroup{}, err
		}
	}
	g.Payment = payment
	g.Commission = commission
	return g, nil
}

// mergeOperations folds operations on the same instrument into one, in order
// of first appearance: payment, quantity and commission sum, the price is the
// mean over the merged operations.
func mergeOperations(ops []Operation) ([]Operation, error) {
	var order []string
	groups := make(map[string][]Operation)
	for _, op := range ops {
		if _, ok := groups[op.InstrumentID]; !ok {
			order = append(order, op.InstrumentID)
		}
		groups[op.InstrumentID] = append(groups[op.InstrumentID], op)
	}

	merged := make([]Operation, 0, len(order))
	for _, id := range order {
		group := groups[id]
		result := group[0]
		for _, op := range group[1:] {
			result.Payment = result.Payment.Add(op.Payment)
			result.Quantity = result.Quantity.Add(op.Quantity)
			result.Price = result.Price.Add(op.Price)
			sum, err := result.Commission.Add(op.Commission)
			if err != nil {
				var mismatch *CurrencyMismatchError
				if errors.As(err, &mismatch) {
					mismatch.Field = "commission"
					mismatch.Key = id
				}
				return nil, err
			}
			result.Commission = sum
		}
		if n := len(group); n > 1 {
			result.Price = result.Price.Div(newDecimal(n))
		}
		merged = append(merged, result)
	}
	return merged, nil
}
