package investstat

import (
	"slices"
	"sort"
)

// KeyFunc assigns a position to a logical group. The second return reports
// whether the position belongs to a group at all: false means it passes
// through the consolidation untouched. An empty string is never a group key.
type KeyFunc func(Position) (string, bool)

// Predicate filters positions before consolidation. nil keeps everything.
type Predicate func(Position) bool

// NotCurrency is the predicate most reports use: cash positions are listed
// separately, not consolidated with securities.
func NotCurrency(p Position) bool { return p.InstrumentType != Currency }

// GroupMember is a position inside a consolidated group, annotated with its
// share of the group total.
type GroupMember struct {
	Position
	PercentOfGroup Percent
}

// ConsolidatedGroup is a caller-defined bucket of positions with recomputed
// aggregate totals. Members are owned copies, in first-contribution order.
type ConsolidatedGroup struct {
	Name           string
	InstrumentType InstrumentType
	Currency       string
	TotalPrice     Money
	ExpectedYield  Yield
	Members        []GroupMember
}

func (g *ConsolidatedGroup) entryType() InstrumentType { return g.InstrumentType }
func (g *ConsolidatedGroup) entryCurrency() string     { return g.Currency }

// Entry is one line of a consolidated report: either a plain Position that
// participated in no group, or a *ConsolidatedGroup.
type Entry interface {
	entryType() InstrumentType
	entryCurrency() string
}

// ConsolidateBy folds positions into logical groups chosen by key.
//
// The fold is order-stable: a group sits in the output where its first
// contributing member sat in the input, and members keep their input order.
// Group totals are folded over all members in one pass, the yield percent is
// recomputed from the folded totals, and every member is annotated with its
// percent of the group. The output is then sorted by the fixed presentation
// order (instrument type rank, then currency, RUB first).
//
// A key that groups positions of different currencies together is a usage
// error and fails with *CurrencyMismatchError naming the group.
func ConsolidateBy(key KeyFunc, positions []Position, pred Predicate) ([]Entry, error) {
	var entries []Entry
	open := make(map[string]*ConsolidatedGroup)

	for _, p := range positions {
		if pred != nil && !pred(p) {
			continue
		}
		name, ok := key(p)
		if !ok {
			entries = append(entries, p)
			continue
		}
		if g, found := open[name]; found {
			g.Members = append(g.Members, GroupMember{Position: p})
			continue
		}
		g := &ConsolidatedGroup{
			Name:           name,
			InstrumentType: p.InstrumentType,
			Currency:       p.TotalPrice.Currency(),
			Members:        []GroupMember{{Position: p}},
		}
		open[name] = g
		entries = append(entries, g)
	}

	for _, g := range open {
		if err := g.total(); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i].entryType(), entries[i].entryCurrency(),
			entries[j].entryType(), entries[j].entryCurrency())
	})
	return entries, nil
}

// total folds the group's money fields over all members in one pass and
// derives the dependent metrics.
func (g *ConsolidatedGroup) total() error {
	totalPrice := g.Members[0].TotalPrice
	yield := g.Members[0].ExpectedYield.Value
	for _, m := range g.Members[1:] {
		var err error
		if totalPrice, err = mergeMoney("totalPrice", g.Name, totalPrice, m.TotalPrice); err != nil {
			return err
		}
		if yield, err = mergeMoney("expectedYield", g.Name, yield, m.ExpectedYield.Value); err != nil {
			return err
		}
	}
	g.TotalPrice = totalPrice
	g.ExpectedYield = Yield{Value: yield}.withPercent(totalPrice)
	for i := range g.Members {
		g.Members[i].PercentOfGroup = PercentOf(g.Members[i].TotalPrice, g.TotalPrice)
	}
	return nil
}

// Composition names a user-defined bucket of instruments, e.g. all the ETFs
// tracking one index.
type Composition struct {
	Name          string   `json:"name"`
	InstrumentIDs []string `json:"instrumentIds"`
}

// Consolidate groups positions by named compositions: a position joins the
// composition whose instrument list contains it, and passes through when no
// composition claims it.
func Consolidate(compositions []Composition, positions []Position, pred Predicate) ([]Entry, error) {
	return ConsolidateBy(func(p Position) (string, bool) {
		for _, c := range compositions {
			if slices.Contains(c.InstrumentIDs, p.InstrumentID) {
				return c.Name, true
			}
		}
		return "", false
	}, positions, pred)
}
