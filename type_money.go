package investstat

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value tagged with its currency.
//
// A Money produced by Convert also remembers the currency it was converted
// from, so that reports can show where a value came from. That provenance is
// deliberately weak: when two converted values with different origins are
// added, the origin becomes ambiguous and is discarded.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
	orig  string // currency before conversion, "" when native
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// currency returns the full go-money currency for formatting.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the value formatted with the currency's own symbol and
// fraction digits.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string            { return m.cur }
func (m Money) OriginalCurrency() string    { return m.orig }
func (m Money) Amount() decimal.Decimal     { return m.value }
func (m Money) AsFloat() float64            { return m.value.InexactFloat64() }
func (m Money) IsZero() bool                { return m.value.IsZero() }
func (m Money) IsPositive() bool            { return m.value.IsPositive() }
func (m Money) IsNegative() bool            { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool       { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool    { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                  { m.value = m.value.Neg(); return m }
func (m Money) Abs() Money                  { m.value = m.value.Abs(); return m }
func (m Money) Mul(q decimal.Decimal) Money { m.value = m.value.Mul(q); return m }
func (m Money) DivInt(n int) Money {
	m.value = m.value.Div(decimal.NewFromInt(int64(n)))
	return m
}

// Equal compares value and currency; conversion provenance is ignored.
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }

// Add returns m+n. Adding two values in different currencies is a usage
// error and fails with *CurrencyMismatchError: callers must Convert first.
// The "" currency is weak and adopts the other operand's, so zero-valued
// accumulators fold cleanly. The conversion origin survives only when both
// operands agree on it.
func (m Money) Add(n Money) (Money, error) {
	cur := m.cur
	switch {
	case m.cur == "":
		cur = n.cur
	case n.cur == "":
		// keep m.cur
	case m.cur != n.cur:
		return Money{}, &CurrencyMismatchError{Have: n.cur, Want: m.cur}
	}
	orig := m.orig
	if m.orig != n.orig {
		orig = ""
	}
	return Money{value: m.value.Add(n.value), cur: cur, orig: orig}, nil
}

// Convert returns m expressed in the target currency, using a rate primed in
// the provider. Converting a value already in the target currency is the
// identity, so repeated conversion is safe.
func Convert(target string, m Money, rates RateProvider) (Money, error) {
	if m.cur == target || m.cur == "" {
		return m, nil
	}
	rate, err := rates.Rate(m.cur, target)
	if err != nil {
		return Money{}, err
	}
	return Money{
		value: m.value.Mul(decimal.NewFromFloat(rate)),
		cur:   target,
		orig:  m.cur,
	}, nil
}

// PercentOf returns part as a percentage of whole. A zero whole yields NaN:
// the share of an empty total is undefined and the renderer prints it as "-".
func PercentOf(part, whole Money) Percent {
	if whole.value.IsZero() {
		return Percent(math.NaN())
	}
	return Percent(part.value.Mul(decimal.NewFromInt(100)).Div(whole.value).InexactFloat64())
}
