package investstat

import "errors"

// mergeMoney folds one money field of a merge group, annotating a currency
// mismatch with the field and group it happened in.
func mergeMoney(field, key string, a, b Money) (Money, error) {
	sum, err := a.Add(b)
	if err != nil {
		var mismatch *CurrencyMismatchError
		if errors.As(err, &mismatch) {
			mismatch.Field = field
			mismatch.Key = key
		}
		return Money{}, err
	}
	return sum, nil
}

// MergeByInstrument merges positions that refer to the identical instrument
// (the same holding reported separately per account) into one position each.
//
// The fold rule: numeric fields sum, money fields add currency-safely,
// identity fields (ticker, name, type) come from the first record. The
// average position price is the true arithmetic mean over all merged
// records, and the yield percent is recomputed from the merged totals.
//
// Output keeps one position per distinct instrument id, in order of first
// appearance in the input.
func MergeByInstrument(positions []Position) ([]Position, error) {
	var order []string
	groups := make(map[string][]Position)
	for _, p := range positions {
		if _, ok := groups[p.InstrumentID]; !ok {
			order = append(order, p.InstrumentID)
		}
		groups[p.InstrumentID] = append(groups[p.InstrumentID], p)
	}

	merged := make([]Position, 0, len(order))
	for _, id := range order {
		p, err := mergePositions(groups[id])
		if err != nil {
			return nil, err
		}
		merged = append(merged, p)
	}
	return merged, nil
}

func mergePositions(group []Position) (Position, error) {
	result := group[0]
	for _, p := range group[1:] {
		var err error
		result.Balance = result.Balance.Add(p.Balance)
		if result.AveragePositionPrice, err = mergeMoney("averagePositionPrice", result.InstrumentID, result.AveragePositionPrice, p.AveragePositionPrice); err != nil {
			return Position{}, err
		}
		if result.TotalPrice, err = mergeMoney("totalPrice", result.InstrumentID, result.TotalPrice, p.TotalPrice); err != nil {
			return Position{}, err
		}
		if result.ExpectedYield.Value, err = mergeMoney("expectedYield", result.InstrumentID, result.ExpectedYield.Value, p.ExpectedYield.Value); err != nil {
			return Position{}, err
		}
	}
	// true mean over however many records were merged, in one division
	if n := len(group); n > 1 {
		result.AveragePositionPrice = result.AveragePositionPrice.DivInt(n)
	}
	result.ExpectedYield = result.ExpectedYield.withPercent(result.TotalPrice)
	return result, nil
}
