package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	formatJSONName  = "json"
	formatTableName = "table"
	formatQuietName = "quiet"
)

func formatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatTable(out io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

// table is a lazily built tabular rendering of a result.
type table struct {
	headers []string
	rows    [][]string
}

// output renders v in the selected format. quiet lists the bare values
// printed by --format quiet; tbl builds the --format table view.
func output(w io.Writer, v any, quiet []string, tbl func() table) error {
	switch flagFmt {
	case formatQuietName:
		formatQuiet(w, quiet)
	case formatTableName:
		t := tbl()
		formatTable(w, t.headers, t.rows)
	default:
		return formatJSON(w, v)
	}
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
