package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"resume-screener/internal/screener"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"

	tableTextWidth = 60
)

func writeRows(w io.Writer, format string, rows []screener.Row) error {
	if rows == nil {
		rows = []screener.Row{}
	}
	switch strings.ToLower(format) {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case outputTable:
		return writeTable(w, rows)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTable(w io.Writer, rows []screener.Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tRESUME INDEX\tSIMILARITY SCORE\tRESUME TEXT")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%v\t%s\n", row.Rank, row.ResumeIndex, row.SimilarityScore, preview(row.ResumeText))
	}
	return tw.Flush()
}

// preview flattens resume text onto one line and shortens it for the table.
func preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= tableTextWidth {
		return flat
	}
	return string(runes[:tableTextWidth-3]) + "..."
}
