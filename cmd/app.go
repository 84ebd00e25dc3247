// Package cmd implements the CLI application to report on a brokerage
// portfolio.
package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ekozlenko/investstat"
	"github.com/ekozlenko/investstat/exchangerate"
	"github.com/ekozlenko/investstat/tinkoff"
)

// Commands lists every subcommand. A main package registers them all and
// executes the user-selected one.
var Commands = []subcommands.Command{
	&positionsCmd{},
	&stocksCmd{},
	&drawdownsCmd{},
	&consolidateCmd{},
	&purchasesCmd{},
	&sellsCmd{},
	&dividendsCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

const tokenEnv = "TINKOFF_TOKEN"

var tokenFlag = flag.String("token", "", "Tinkoff OpenAPI token.\n If missing it will read the environment variable \""+tokenEnv+"\" (a .env file is loaded first if present).")
var currencyFlag = flag.String("currency", "", "Reporting currency to convert all monetary values into, e.g. RUB. Empty keeps native currencies.")

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if os.Getenv("INVST_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newStatistics wires the report service to the live broker and rate
// collaborators from flags and environment.
func newStatistics() (*investstat.Statistics, error) {
	// ignore a missing .env: flags and real environment still apply
	_ = godotenv.Load()

	token := *tokenFlag
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	if token == "" {
		return nil, errors.New("no broker token: pass -token or set " + tokenEnv)
	}

	log := newLogger()
	broker := tinkoff.New(token, tinkoff.WithLogger(log))
	rates := investstat.NewRates(exchangerate.New(exchangerate.WithLogger(log)))
	return investstat.NewStatistics(broker, rates, *currencyFlag), nil
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot be initialized.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// loadCompositions reads named compositions from a JSON file.
func loadCompositions(path string) ([]investstat.Composition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read compositions file: %w", err)
	}
	var compositions []investstat.Composition
	if err := json.Unmarshal(content, &compositions); err != nil {
		return nil, fmt.Errorf("cannot parse compositions file %q: %w", path, err)
	}
	return compositions, nil
}

// parseWindow parses -from/-to day flags into a window. An empty from
// defaults to the first day of the current month, an empty to defaults to
// now.
func parseWindow(from, to string) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	end := now
	var err error
	if from != "" {
		if start, err = time.ParseInLocation("2006-01-02", from, time.Local); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("cannot parse -from: %w", err)
		}
	}
	if to != "" {
		if end, err = time.ParseInLocation("2006-01-02", to, time.Local); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("cannot parse -to: %w", err)
		}
		end = end.Add(24*time.Hour - time.Second)
	}
	return start, end, nil
}
