package investstat

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func position(id, ticker string, typ InstrumentType, totalPrice Money) Position {
	p := Position{
		InstrumentID:         id,
		Ticker:               ticker,
		Name:                 ticker,
		InstrumentType:       typ,
		Balance:              decimal.NewFromInt(1),
		AveragePositionPrice: totalPrice,
		TotalPrice:           totalPrice,
		ExpectedYield:        Yield{Value: M(0, totalPrice.Currency())},
	}
	p.ExpectedYield = p.ExpectedYield.withPercent(p.TotalPrice)
	return p
}

func byTypeAndCurrency(p Position) (string, bool) {
	return string(p.InstrumentType) + " " + p.TotalPrice.Currency(), true
}

func TestConsolidateBy_GroupsAndShares(t *testing.T) {
	positions := []Position{
		position("BBG001", "AAA", Stock, RUB(100)),
		position("BBG002", "BBB", Stock, RUB(300)),
	}

	entries, err := ConsolidateBy(byTypeAndCurrency, positions, nil)
	if err != nil {
		t.Fatalf("ConsolidateBy() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	group, ok := entries[0].(*ConsolidatedGroup)
	if !ok {
		t.Fatalf("entries[0] = %T, want *ConsolidatedGroup", entries[0])
	}
	if group.Name != "Stock RUB" {
		t.Errorf("Name = %q, want %q", group.Name, "Stock RUB")
	}
	if !group.TotalPrice.Equal(RUB(400)) {
		t.Errorf("TotalPrice = %v, want %v", group.TotalPrice, RUB(400))
	}
	if len(group.Members) != 2 {
		t.Fatalf("len(Members) = %d, want 2", len(group.Members))
	}
	if !group.Members[0].PercentOfGroup.Equal(25) || !group.Members[1].PercentOfGroup.Equal(75) {
		t.Errorf("shares = [%v %v], want [25 75]",
			group.Members[0].PercentOfGroup, group.Members[1].PercentOfGroup)
	}
}

func TestConsolidate_AbsentCompositionPassesThrough(t *testing.T) {
	positions := []Position{
		position("BBG001", "AAA", Stock, RUB(100)),
		position("BBG002", "BBB", Etf, RUB(300)),
	}
	compositions := []Composition{{Name: "IT", InstrumentIDs: []string{"BBG00FXIT000", "BBG00TECH000"}}}

	entries, err := Consolidate(compositions, positions, nil)
	if err != nil {
		t.Fatalf("Consolidate() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 pass-through positions", len(entries))
	}
	for _, e := range entries {
		if _, ok := e.(Position); !ok {
			t.Errorf("entry = %T, want plain Position", e)
		}
	}
}

func TestConsolidate_ByComposition(t *testing.T) {
	positions := []Position{
		position("BBG00FXIT000", "FXIT", Etf, RUB(100)),
		position("BBG00SBER000", "SBER", Stock, RUB(500)),
		position("BBG00TECH000", "TECH", Etf, RUB(300)),
	}
	compositions := []Composition{{Name: "IT", InstrumentIDs: []string{"BBG00FXIT000", "BBG00TECH000"}}}

	entries, err := Consolidate(compositions, positions, nil)
	if err != nil {
		t.Fatalf("Consolidate() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	// Stock sorts before Etf
	if p, ok := entries[0].(Position); !ok || p.Ticker != "SBER" {
		t.Errorf("entries[0] = %+v, want the SBER position", entries[0])
	}
	group, ok := entries[1].(*ConsolidatedGroup)
	if !ok || group.Name != "IT" {
		t.Fatalf("entries[1] = %+v, want the IT group", entries[1])
	}
	if !group.TotalPrice.Equal(RUB(400)) {
		t.Errorf("TotalPrice = %v, want %v", group.TotalPrice, RUB(400))
	}
	if group.Members[0].Ticker != "FXIT" || group.Members[1].Ticker != "TECH" {
		t.Errorf("members = [%s %s], want input order [FXIT TECH]",
			group.Members[0].Ticker, group.Members[1].Ticker)
	}
}

func TestConsolidateBy_Predicate(t *testing.T) {
	positions := []Position{
		position("BBG001", "AAA", Stock, RUB(100)),
		position("USD000UTSTOM", "USD000UTSTOM", Currency, RUB(700)),
	}

	entries, err := ConsolidateBy(byTypeAndCurrency, positions, NotCurrency)
	if err != nil {
		t.Fatalf("ConsolidateBy() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1 (cash filtered out)", len(entries))
	}
}

func TestConsolidateBy_GroupCompleteness(t *testing.T) {
	positions := []Position{
		position("BBG001", "AAA", Stock, RUB(10)),
		position("BBG002", "BBB", Stock, RUB(20.5)),
		position("BBG003", "CCC", Stock, RUB(69.5)),
	}

	entries, err := ConsolidateBy(byTypeAndCurrency, positions, nil)
	if err != nil {
		t.Fatalf("ConsolidateBy() error = %v", err)
	}
	group := entries[0].(*ConsolidatedGroup)

	sum := 0.0
	percents := 0.0
	for _, m := range group.Members {
		sum += m.TotalPrice.AsFloat()
		percents += float64(m.PercentOfGroup)
	}
	if math.Abs(sum-group.TotalPrice.AsFloat()) > 1e-9*math.Abs(sum) {
		t.Errorf("sum of member totals = %v, group total = %v", sum, group.TotalPrice.AsFloat())
	}
	if math.Abs(percents-100) > 1e-9 {
		t.Errorf("sum of member shares = %v, want 100", percents)
	}
}

func TestConsolidateBy_OrderStability(t *testing.T) {
	positions := []Position{
		position("BBG001", "AAA", Etf, RUB(100)),
		position("BBG002", "BBB", Stock, USD(50)),
		position("BBG003", "CCC", Stock, RUB(300)),
		position("BBG004", "DDD", Etf, RUB(10)),
	}

	first, err := ConsolidateBy(byTypeAndCurrency, positions, nil)
	if err != nil {
		t.Fatalf("ConsolidateBy() error = %v", err)
	}
	second, err := ConsolidateBy(byTypeAndCurrency, positions, nil)
	if err != nil {
		t.Fatalf("ConsolidateBy() error = %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("reruns disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		g1, ok1 := first[i].(*ConsolidatedGroup)
		g2, ok2 := second[i].(*ConsolidatedGroup)
		if ok1 != ok2 {
			t.Fatalf("entry %d kind differs between runs", i)
		}
		if !ok1 {
			continue
		}
		if g1.Name != g2.Name {
			t.Errorf("entry %d group = %q vs %q", i, g1.Name, g2.Name)
		}
		for j := range g1.Members {
			if g1.Members[j].Ticker != g2.Members[j].Ticker {
				t.Errorf("group %q member %d = %q vs %q", g1.Name, j,
					g1.Members[j].Ticker, g2.Members[j].Ticker)
			}
		}
	}
}

func TestConsolidateBy_SortOrder(t *testing.T) {
	positions := []Position{
		position("BBG005", "CASH", Currency, RUB(1)),
		position("BBG001", "BOND", Bond, RUB(1)),
		position("BBG002", "ETFU", Etf, USD(1)),
		position("BBG003", "STKU", Stock, USD(1)),
		position("BBG004", "STKR", Stock, RUB(1)),
	}
	keep := func(Position) bool { return true }
	passthrough := func(Position) (string, bool) { return "", false }

	entries, err := ConsolidateBy(passthrough, positions, keep)
	if err != nil {
		t.Fatalf("ConsolidateBy() error = %v", err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, e.(Position).Ticker)
	}
	// stocks first with the domestic currency leading, cash last
	want := []string{"STKR", "STKU", "ETFU", "BOND", "CASH"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestConsolidateBy_MixedCurrencyGroupFails(t *testing.T) {
	positions := []Position{
		position("BBG001", "AAA", Stock, RUB(100)),
		position("BBG002", "BBB", Stock, USD(50)),
	}
	sameGroup := func(Position) (string, bool) { return "all", true }

	_, err := ConsolidateBy(sameGroup, positions, nil)
	var mismatch *CurrencyMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("ConsolidateBy() error = %v, want *CurrencyMismatchError", err)
	}
	if mismatch.Key != "all" {
		t.Errorf("mismatch.Key = %q, want the group name", mismatch.Key)
	}
}
