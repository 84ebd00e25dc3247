// Package renderer turns report structures into markdown, one function per
// report. The CLI pipes the result through a terminal markdown renderer.
package renderer

import (
	"fmt"
	"strings"

	"github.com/ekozlenko/investstat"
)

// money renders a monetary value, keeping the conversion origin visible.
func money(m investstat.Money) string {
	if orig := m.OriginalCurrency(); orig != "" {
		return fmt.Sprintf("%s (from %s)", m.String(), orig)
	}
	return m.String()
}

// PositionsMarkdown renders the merged portfolio positions.
func PositionsMarkdown(positions []investstat.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Positions\n\n")
	fmt.Fprintln(&b, "| Ticker | Name | Type | Balance | Avg. price | Total | Yield | Yield %% |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|")
	for _, p := range positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Ticker,
			p.Name,
			p.InstrumentType,
			p.Balance,
			money(p.AveragePositionPrice),
			money(p.TotalPrice),
			money(p.ExpectedYield.Value),
			p.ExpectedYield.Percent.SignedString(),
		)
	}
	return b.String()
}

// ConsolidatedMarkdown renders a consolidated report: plain positions as
// single rows, groups as a summary row followed by their members with each
// member's share of the group.
func ConsolidatedMarkdown(entries []investstat.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Consolidated positions\n\n")
	fmt.Fprintln(&b, "| Group | Ticker | Type | Total | Yield | Yield %% | Share |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")
	for _, e := range entries {
		switch v := e.(type) {
		case investstat.Position:
			fmt.Fprintf(&b, "| | %s | %s | %s | %s | %s | |\n",
				v.Ticker, v.InstrumentType, money(v.TotalPrice),
				money(v.ExpectedYield.Value), v.ExpectedYield.Percent.SignedString())
		case *investstat.ConsolidatedGroup:
			fmt.Fprintf(&b, "| **%s** | | %s | %s | %s | %s | |\n",
				v.Name, v.InstrumentType, money(v.TotalPrice),
				money(v.ExpectedYield.Value), v.ExpectedYield.Percent.SignedString())
			for _, m := range v.Members {
				fmt.Fprintf(&b, "| | %s | %s | %s | %s | %s | %s |\n",
					m.Ticker, m.InstrumentType, money(m.TotalPrice),
					money(m.ExpectedYield.Value), m.ExpectedYield.Percent.SignedString(),
					m.PercentOfGroup)
			}
		}
	}
	return b.String()
}

// PurchasesMarkdown renders aggregated buys per instrument class.
func PurchasesMarkdown(groups []investstat.PurchaseGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Purchases\n\n")
	for _, g := range groups {
		fmt.Fprintf(&b, "## %s\n\n", g.Key())
		fmt.Fprintf(&b, "Payment: %s, commission: %s\n\n", money(g.Payment), money(g.Commission))
		fmt.Fprintln(&b, "| Ticker | Name | Quantity | Avg. price | Payment | Commission |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
		for _, op := range g.Members {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				op.Ticker, op.Name, op.Quantity, op.Price, op.Payment, money(op.Commission))
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

// CurrencySellsMarkdown renders the currency sell summary of a window.
func CurrencySellsMarkdown(s investstat.CurrencySellSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Currency sells\n\n")
	fmt.Fprintln(&b, "| Quantity | Payment | Commission | Avg. price |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
		s.Quantity, money(s.Payment), money(s.Commission), money(s.AveragePrice))
	return b.String()
}

// DividendsMarkdown renders the dividend operations of a year.
func DividendsMarkdown(operations []investstat.Operation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dividends\n\n")
	fmt.Fprintln(&b, "| Date | Ticker | Name | Payment | Currency |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|:---|")
	for _, op := range operations {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			op.Date.Format("2006-01-02"), op.Ticker, op.Name, op.Payment, op.Currency)
	}
	return b.String()
}
