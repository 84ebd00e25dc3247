package investstat

import "fmt"

// CurrencyMismatchError reports an attempt to add two monetary values in
// different currencies. Field and Key are filled in by the merge that
// triggered the addition, naming the money field and the merge group.
//
// It is a usage error: the caller grouped values of different currencies
// together, or skipped conversion. Retrying cannot fix it.
type CurrencyMismatchError struct {
	Field string // money field being folded, e.g. "totalPrice"
	Key   string // merge group, e.g. an instrument id or a group name
	Have  string
	Want  string
}

func (e *CurrencyMismatchError) Error() string {
	msg := fmt.Sprintf("cannot add %s to %s", e.Have, e.Want)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Key != "" {
		msg = fmt.Sprintf("merging %q: %s", e.Key, msg)
	}
	return msg + "; convert to a single currency first"
}

// MissingRateError reports a conversion for a currency pair that was never
// primed with Preload. There is no silent identity fallback: a run with a
// missing rate fails loudly instead of reporting wrong numbers.
type MissingRateError struct {
	From string
	To   string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no rate primed for %s/%s", e.From, e.To)
}
