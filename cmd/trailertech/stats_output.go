package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"trailertech/internal/trailer"
)

// printStats renders the end-of-run counters: a rounded table on
// terminals, plain key/value lines when piped.
func printStats(out io.Writer, stats *trailer.Stats) {
	scanned := strconv.FormatInt(stats.Scanned(), 10)
	downloaded := strconv.FormatInt(stats.Downloaded(), 10)
	found := strconv.FormatInt(stats.Found(), 10)
	missing := strconv.FormatInt(stats.Missing(), 10)
	elapsed := fmt.Sprintf("%ds", int64(stats.Elapsed().Seconds()))

	if isTerminal(out) {
		fmt.Fprintln(out, renderStatsTable(
			[]string{"Scanned", "Downloaded", "Already Present", "Missing", "Elapsed"},
			[]string{scanned, downloaded, found, missing, elapsed},
		))
		return
	}

	fmt.Fprintf(out, "scanned: %s\n", scanned)
	fmt.Fprintf(out, "downloaded: %s\n", downloaded)
	fmt.Fprintf(out, "already present: %s\n", found)
	fmt.Fprintf(out, "missing: %s\n", missing)
	fmt.Fprintf(out, "elapsed: %s\n", elapsed)
}

// renderStatsTable lays the counters out as a single rounded-style row,
// headers left-aligned over right-aligned values.
func renderStatsTable(headers, values []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	row := make(table.Row, len(headers))
	for i := range headers {
		if i < len(values) {
			row[i] = values[i]
		}
	}
	tw.AppendRow(row)

	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
