package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1) // cyan
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray

	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// cellWidth caps free-text columns.
const cellWidth = 32

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

// statusCell colours a status word by whether it means the unit is usable.
func statusCell(status string, ok bool) string {
	if ok {
		return onlineStyle.Render(status)
	}
	return offlineStyle.Render(status)
}
