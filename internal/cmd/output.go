package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"ghdeclare/pkg/github"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

var (
	changedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// writeResult prints a run's result. JSON carries the full result including
// the final state; the table lists the changes followed by a summary line.
func writeResult(w io.Writer, format string, result github.Reportable) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	summary := result.Summary()

	rows := changeRows(summary)
	if len(rows) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Change", "Item"})
		table.SetAutoWrapText(false)
		table.AppendBulk(rows)
		table.Render()
	}

	if summary.Changed {
		fmt.Fprintln(w, changedStyle.Render(fmt.Sprintf("changed: %s (%s)", summary.Resource, summary.Op)))
	} else {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("ok: %s is up to date", summary.Resource)))
	}
	return nil
}

func changeRows(s github.Summary) [][]string {
	var rows [][]string
	for _, item := range s.Added {
		rows = append(rows, []string{"+ added", item})
	}
	for _, item := range s.Updated {
		rows = append(rows, []string{"~ updated", item})
	}
	for _, item := range s.Removed {
		rows = append(rows, []string{"- removed", item})
	}
	return rows
}
