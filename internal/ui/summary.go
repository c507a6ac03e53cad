package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SummaryRow is one resource kind's line in the end-of-run summary.
type SummaryRow struct {
	Kind       string
	Downloaded int
	Uploaded   int
	Skipped    int
}

var titleCaser = cases.Title(language.English)

// Title returns label in title case ("saved resources" -> "Saved Resources").
func Title(label string) string {
	return titleCaser.String(label)
}

// RenderSummary renders rows as a bordered table.
func RenderSummary(rows []SummaryRow) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numberStyle := cellStyle.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Resource", "Downloaded", "Uploaded", "Skipped").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	for _, r := range rows {
		t.Row(Title(r.Kind), strconv.Itoa(r.Downloaded), strconv.Itoa(r.Uploaded), strconv.Itoa(r.Skipped))
	}
	return t.String()
}
