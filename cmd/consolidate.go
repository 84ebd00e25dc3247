package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ekozlenko/investstat"
	"github.com/ekozlenko/investstat/renderer"
)

// consolidateCmd holds the flags for the 'consolidate' subcommand.
type consolidateCmd struct {
	compositions string
	by           string
	all          bool
}

func (*consolidateCmd) Name() string     { return "consolidate" }
func (*consolidateCmd) Synopsis() string { return "display positions folded into logical groups" }
func (*consolidateCmd) Usage() string {
	return `invst consolidate [-compositions <file.json>] [-by type|currency|type-currency] [-all]

  Groups positions either by named compositions from a JSON file, or by a
  built-in key. Positions claimed by no group pass through unchanged.
`
}

func (c *consolidateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.compositions, "compositions", "", "JSON file of named compositions ({name, instrumentIds}).")
	f.StringVar(&c.by, "by", "type", "Built-in grouping key when no compositions file is given.")
	f.BoolVar(&c.all, "all", false, "Include cash positions in the grouping.")
}

func (c *consolidateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stats, err := newStatistics()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	var pred investstat.Predicate // nil: the service excludes cash by default
	if c.all {
		pred = func(investstat.Position) bool { return true }
	}

	var entries []investstat.Entry
	if c.compositions != "" {
		compositions, err := loadCompositions(c.compositions)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		entries, err = stats.Consolidate(ctx, compositions, pred)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error consolidating positions: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		key, err := builtinKey(c.by)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		entries, err = stats.ConsolidateBy(ctx, key, pred)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error consolidating positions: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.ConsolidatedMarkdown(entries))
	return subcommands.ExitSuccess
}

func builtinKey(by string) (investstat.KeyFunc, error) {
	switch by {
	case "type":
		return func(p investstat.Position) (string, bool) {
			return string(p.InstrumentType), true
		}, nil
	case "currency":
		return func(p investstat.Position) (string, bool) {
			return p.TotalPrice.Currency(), true
		}, nil
	case "type-currency":
		return func(p investstat.Position) (string, bool) {
			return string(p.InstrumentType) + " " + p.TotalPrice.Currency(), true
		}, nil
	default:
		return nil, fmt.Errorf("unknown -by key %q (want type, currency or type-currency)", by)
	}
}
