package investstat

import (
	"context"
	"errors"
	"testing"
)

// countingSource records how often each pair was fetched.
type countingSource struct {
	rates   map[string]float64
	fetches map[string]int
}

func newCountingSource(rates map[string]float64) *countingSource {
	return &countingSource{rates: rates, fetches: make(map[string]int)}
}

func (s *countingSource) FetchRate(_ context.Context, from, to string) (float64, error) {
	key := from + "/" + to
	s.fetches[key]++
	rate, ok := s.rates[key]
	if !ok {
		return 0, errors.New("no such pair upstream")
	}
	return rate, nil
}

func TestRates_UnprimedPairFails(t *testing.T) {
	rates := NewRates(newCountingSource(nil))

	_, err := rates.Rate("USD", "RUB")
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Fatalf("Rate() error = %v, want *MissingRateError", err)
	}
	if missing.From != "USD" || missing.To != "RUB" {
		t.Errorf("missing pair = %s/%s, want USD/RUB", missing.From, missing.To)
	}
}

func TestRates_IdentityPair(t *testing.T) {
	rates := NewRates(newCountingSource(nil))
	rate, err := rates.Rate("RUB", "RUB")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if rate != 1 {
		t.Errorf("Rate() = %v, want 1", rate)
	}
}

func TestRates_PreloadThenRate(t *testing.T) {
	source := newCountingSource(map[string]float64{"USD/RUB": 75})
	rates := NewRates(source)

	if err := rates.Preload(context.Background(), "USD", "RUB"); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}
	rate, err := rates.Rate("USD", "RUB")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if rate != 75 {
		t.Errorf("Rate() = %v, want 75", rate)
	}
}

func TestRates_FetchesOncePerPair(t *testing.T) {
	source := newCountingSource(map[string]float64{"USD/RUB": 75})
	rates := NewRates(source)

	for i := 0; i < 3; i++ {
		if err := rates.Preload(context.Background(), "USD", "RUB"); err != nil {
			t.Fatalf("Preload() error = %v", err)
		}
	}
	if err := rates.Preload(context.Background(), "RUB", "RUB"); err != nil {
		t.Fatalf("Preload() identity error = %v", err)
	}

	if source.fetches["USD/RUB"] != 1 {
		t.Errorf("fetches = %d, want 1", source.fetches["USD/RUB"])
	}
	if source.fetches["RUB/RUB"] != 0 {
		t.Errorf("identity pair was fetched %d times, want 0", source.fetches["RUB/RUB"])
	}
}
