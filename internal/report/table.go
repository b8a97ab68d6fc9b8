package report

import (
	"fmt"
	"io"
	"strconv"

	"cryptofactor/internal/domain"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func formatPct(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *f*100)
}

func formatRatio(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *f)
}

func newTable(w io.Writer, numCols int) *tablewriter.Table {
	alignments := []tw.Align{tw.AlignLeft}
	for len(alignments) < numCols {
		alignments = append(alignments, tw.AlignRight)
	}
	config := tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
		},
	})
	return tablewriter.NewTable(w, config, tablewriter.WithAlignment(alignments))
}

func render(table *tablewriter.Table, header []string, rows [][]string) error {
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to add rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func SummaryRows(result *domain.BacktestResult) [][]string {
	s := result.Summary
	d := result.Diagnostics
	return [][]string{
		{"factor", fmt.Sprintf("%s (%d)", result.Params.Factor.Type, result.Params.Factor.Window)},
		{"period", fmt.Sprintf("%s to %s", result.Params.StartDate.Format("2006-01-02"), result.Params.EndDate.Format("2006-01-02"))},
		{"total return", formatPct(s.TotalReturn)},
		{"annualized return", formatPct(s.AnnualizedReturn)},
		{"annualized volatility", formatPct(s.AnnualizedVolatility)},
		{"sharpe", formatRatio(s.Sharpe)},
		{"sortino", formatRatio(s.Sortino)},
		{"max drawdown", formatPct(s.MaxDrawdown)},
		{"win rate", formatPct(s.WinRate)},
		{"avg turnover", formatRatio(s.AvgTurnover)},
		{"rebalances", strconv.Itoa(s.NumRebalances)},
		{"final value", fmt.Sprintf("%.2f", s.FinalValue)},
		{"insufficient history", strconv.Itoa(d.InsufficientHistory)},
		{"stale snapshots", strconv.Itoa(d.StaleSnapshots)},
		{"missing returns", strconv.Itoa(d.MissingReturns)},
		{"inverse vol exclusions", strconv.Itoa(d.InverseVolExclusions)},
		{"insufficient universe dates", strconv.Itoa(len(d.InsufficientUniverseDates))},
	}
}

// WriteSummary prints one metric per row.
func WriteSummary(w io.Writer, result *domain.BacktestResult) error {
	return render(newTable(w, 2), []string{"metric", "value"}, SummaryRows(result))
}

// WriteSweep prints one row per sweep entry, in sweep order.
func WriteSweep(w io.Writer, result domain.SweepResult) error {
	header := []string{"label", "total", "ann. return", "ann. vol", "sharpe", "max dd", "turnover", "error"}
	rows := [][]string{}
	for _, e := range result.Entries {
		if e.Summary == nil {
			rows = append(rows, []string{e.Label, "", "", "", "", "", "", e.Err})
			continue
		}
		s := e.Summary
		rows = append(rows, []string{
			e.Label,
			formatPct(s.TotalReturn),
			formatPct(s.AnnualizedReturn),
			formatPct(s.AnnualizedVolatility),
			formatRatio(s.Sharpe),
			formatPct(s.MaxDrawdown),
			formatRatio(s.AvgTurnover),
			e.Err,
		})
	}
	return render(newTable(w, len(header)), header, rows)
}
