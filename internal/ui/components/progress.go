package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/ui/theme"
)

const minBarCells = 4

// ProgressBar draws Value out of Total as a row of cells, e.g. questions
// answered in a session or one day's count against the busiest day.
type ProgressBar struct {
	Label string
	Value int
	Total int
	Width int

	// Suffix is printed after the bar, typically the raw count.
	Suffix string
}

// NewProgressBar creates a bar for value out of total that fits width
// columns including its label and suffix.
func NewProgressBar(label string, value, total, width int) ProgressBar {
	return ProgressBar{Label: label, Value: value, Total: total, Width: width}
}

// WithCount shows the value after the bar.
func (p ProgressBar) WithCount() ProgressBar {
	p.Suffix = fmt.Sprintf("%d", p.Value)
	return p
}

// Filled returns how many of n cells represent Value.
func (p ProgressBar) Filled(n int) int {
	if p.Total <= 0 || p.Value <= 0 || n <= 0 {
		return 0
	}
	if p.Value >= p.Total {
		return n
	}
	f := p.Value * n / p.Total
	if f == 0 {
		// any activity stays visible
		f = 1
	}
	return f
}

// View renders the bar.
func (p ProgressBar) View() string {
	var label, suffix string
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + " "
	}
	if p.Suffix != "" {
		suffix = " " + theme.Hint.Render(p.Suffix)
	}

	cells := max(p.Width-lipgloss.Width(label)-lipgloss.Width(suffix), minBarCells)
	filled := p.Filled(cells)

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", cells-filled)) +
		suffix
}
