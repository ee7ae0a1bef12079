package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)
)

// field is one label/value line of a summary box.
type field struct {
	label string
	value any
}

// summary renders a titled box of label/value lines.
func summary(title string, fields []field) string {
	lines := []string{titleStyle.Render(title)}
	for _, f := range fields {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(f.label),
			valueStyle.Render(fmt.Sprint(f.value)),
		))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// status renders a pass/fail marker.
func status(ok bool, text string) string {
	if ok {
		return okStyle.Render("ok") + "   " + text
	}
	return failStyle.Render("FAIL") + " " + text
}
