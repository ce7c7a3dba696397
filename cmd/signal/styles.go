package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rxtech-lab/argo-signal/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// BuyStyle marks BUY signals.
	BuyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

	// SellStyle marks SELL signals.
	SellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	// ActiveStyle marks the loaded strategy.
	ActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// FormatSignal renders one signal as a single human readable line.
func FormatSignal(signal types.Signal) string {
	style := BuyStyle
	if signal.Type == types.SignalTypeSell {
		style = SellStyle
	}

	return fmt.Sprintf("%s %s %s @ %.4f  %s  %s",
		style.Render(strings.ToUpper(string(signal.Type))),
		TitleStyle.Render(signal.Symbol),
		HelpStyle.Render(signal.Time.Format("2006-01-02 15:04:05Z07:00")),
		signal.Price,
		signal.Reason,
		HelpStyle.Render(formatSnapshot(signal.Snapshot)))
}

func formatSnapshot(snapshot map[string]float64) string {
	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s=%.4f", key, snapshot[key])
	}

	return strings.Join(parts, " ")
}

// RenderTable draws rows under headers with a rounded border.
func RenderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(HelpStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TitleStyle.Padding(0, 1)
			}

			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
