package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ekozlenko/investstat/renderer"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the merged positions of all accounts" }
func (*positionsCmd) Usage() string {
	return `invst positions [-currency <code>]

  Displays every portfolio position, merged across accounts per instrument.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stats, err := newStatistics()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	positions, err := stats.Positions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building positions report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionsMarkdown(positions))
	return subcommands.ExitSuccess
}

// stocksCmd holds the flags for the 'stocks' subcommand.
type stocksCmd struct{}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "display security positions by descending total price" }
func (*stocksCmd) Usage() string {
	return `invst stocks [-currency <code>]

  Displays security positions (everything but cash), biggest first.
`
}

func (c *stocksCmd) SetFlags(f *flag.FlagSet) {}

func (c *stocksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stats, err := newStatistics()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	stocks, err := stats.Stocks(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building stocks report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionsMarkdown(stocks))
	return subcommands.ExitSuccess
}

// drawdownsCmd holds the flags for the 'drawdowns' subcommand.
type drawdownsCmd struct{}

func (*drawdownsCmd) Name() string     { return "drawdowns" }
func (*drawdownsCmd) Synopsis() string { return "display losing positions, worst first" }
func (*drawdownsCmd) Usage() string {
	return `invst drawdowns [-currency <code>]

  Displays the positions with a negative expected yield.
`
}

func (c *drawdownsCmd) SetFlags(f *flag.FlagSet) {}

func (c *drawdownsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	stats, err := newStatistics()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	losing, err := stats.Drawdowns(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building drawdowns report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionsMarkdown(losing))
	return subcommands.ExitSuccess
}
