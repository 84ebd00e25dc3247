package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/ekozlenko/investstat/renderer"
)

// purchasesCmd holds the flags for the 'purchases' subcommand.
type purchasesCmd struct {
	from string
	to   string
}

func (*purchasesCmd) Name() string     { return "purchases" }
func (*purchasesCmd) Synopsis() string { return "aggregate buys of a period per instrument class" }
func (*purchasesCmd) Usage() string {
	return `invst purchases [-from <yyyy-mm-dd>] [-to <yyyy-mm-dd>]

  Aggregates completed buy operations of the window, grouped by instrument
  type and currency. Defaults to the current month.
`
}

func (c *purchasesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the window (defaults to the first of the month).")
	f.StringVar(&c.to, "to", "", "Last day of the window (defaults to today).")
}

func (c *purchasesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, to, err := parseWindow(c.from, c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	stats, err := newStatistics()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	groups, err := stats.PurchasesByInstrument(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building purchases report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PurchasesMarkdown(groups))
	return subcommands.ExitSuccess
}

// sellsCmd holds the flags for the 'sells' subcommand.
type sellsCmd struct {
	from string
	to   string
}

func (*sellsCmd) Name() string     { return "sells" }
func (*sellsCmd) Synopsis() string { return "summarize currency sells of a period" }
func (*sellsCmd) Usage() string {
	return `invst sells [-from <yyyy-mm-dd>] [-to <yyyy-mm-dd>]

  Summarizes the currency sell operations of the window: quantity sold,
  payment received, commission and mean price.
`
}

func (c *sellsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the window (defaults to the first of the month).")
	f.StringVar(&c.to, "to", "", "Last day of the window (defaults to today).")
}

func (c *sellsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, to, err := parseWindow(c.from, c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	stats, err := newStatistics()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	summary, err := stats.CurrencySells(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building sells report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CurrencySellsMarkdown(summary))
	return subcommands.ExitSuccess
}

// dividendsCmd holds the flags for the 'dividends' subcommand.
type dividendsCmd struct {
	year int
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "list dividends received in a year" }
func (*dividendsCmd) Usage() string {
	return `invst dividends [-year <yyyy>]

  Lists the dividend operations of the year, with the paying instrument.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().Year(), "Year to report dividends for.")
}

func (c *dividendsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stats, err := newStatistics()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	dividends, err := stats.Dividends(ctx, c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building dividends report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.DividendsMarkdown(dividends))
	return subcommands.ExitSuccess
}
