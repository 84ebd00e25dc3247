package investstat

import "context"

// RateProvider supplies point-in-time conversion rates for currency pairs.
// A pair must be primed with Preload before Rate is called for it: priming
// is the only operation allowed to touch the network. Rate is synchronous
// and fails with *MissingRateError for a pair that was never primed.
type RateProvider interface {
	Preload(ctx context.Context, from, to string) error
	Rate(from, to string) (float64, error)
}

// RateSource fetches a single conversion rate from an external service.
// It is consumed by Rates, which caches the answer for the rest of the run.
type RateSource interface {
	FetchRate(ctx context.Context, from, to string) (float64, error)
}

type pair struct{ from, to string }

// Rates is an in-memory rate table over a RateSource. Each distinct pair is
// fetched at most once per run and treated as constant afterwards: there is
// no refresh and no staleness check. Priming happens before reports are
// built, on a single goroutine, so the table needs no locking.
type Rates struct {
	source RateSource
	table  map[pair]float64
}

func NewRates(source RateSource) *Rates {
	return &Rates{source: source, table: make(map[pair]float64)}
}

// Preload fetches and caches the rate for a pair. Identity pairs and pairs
// already in the table are a no-op.
func (r *Rates) Preload(ctx context.Context, from, to string) error {
	if from == to {
		return nil
	}
	if _, ok := r.table[pair{from, to}]; ok {
		return nil
	}
	rate, err := r.source.FetchRate(ctx, from, to)
	if err != nil {
		return err
	}
	r.table[pair{from, to}] = rate
	return nil
}

// Rate returns the primed rate for a pair. Identity pairs always rate 1.
func (r *Rates) Rate(from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}
	rate, ok := r.table[pair{from, to}]
	if !ok {
		return 0, &MissingRateError{From: from, To: to}
	}
	return rate, nil
}
