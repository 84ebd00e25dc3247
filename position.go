package investstat

import "github.com/shopspring/decimal"

// InstrumentType classifies an instrument as the broker reports it.
// The set is open: unknown types flow through untouched.
type InstrumentType string

const (
	Stock    InstrumentType = "Stock"
	Etf      InstrumentType = "Etf"
	Bond     InstrumentType = "Bond"
	Currency InstrumentType = "Currency"
)

// rank orders instrument types for display: stocks first, then ETFs, then
// everything else alphabetically, with cash positions last.
func (t InstrumentType) rank() int {
	switch t {
	case Stock:
		return 0
	case Etf:
		return 1
	case Currency:
		return 3
	default:
		return 2
	}
}

// less is the presentation order used by every report: instrument type by
// rank (alphabetical within the open middle tier), then currency ascending,
// which puts the domestic RUB before USD.
func less(aType InstrumentType, aCur string, bType InstrumentType, bCur string) bool {
	ra, rb := aType.rank(), bType.rank()
	if ra != rb {
		return ra < rb
	}
	if ra == 2 && aType != bType {
		return aType < bType
	}
	return aCur < bCur
}

// Yield is an expected gain or loss, with its share of the position's total
// price. The percent is derived data: it is recomputed after every merge or
// conversion that changes either side of the ratio, never carried over.
type Yield struct {
	Value   Money
	Percent Percent
}

// withPercent recomputes the yield percent against a total price.
func (y Yield) withPercent(totalPrice Money) Yield {
	y.Percent = PercentOf(y.Value, totalPrice)
	return y
}

// Position is one brokerage holding: the aggregate of one instrument within
// one account. Positions are immutable value records; every transformation
// (conversion, merge, grouping) produces a new one.
type Position struct {
	InstrumentID         string // stable identifier shared across accounts (FIGI)
	Ticker               string
	Name                 string
	InstrumentType       InstrumentType
	Balance              decimal.Decimal
	AveragePositionPrice Money
	TotalPrice           Money
	ExpectedYield        Yield
}

func (p Position) entryType() InstrumentType { return p.InstrumentType }
func (p Position) entryCurrency() string     { return p.TotalPrice.Currency() }
