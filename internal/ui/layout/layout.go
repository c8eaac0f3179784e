package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/ui/theme"
)

// Below this size the app shows a resize notice instead of the frame.
const (
	MinWidth  = 80
	MinHeight = 24
)

// CompactHeight is the body height under which screens drop secondary
// panels such as the recent-practice list.
const CompactHeight = 24

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal cannot fit the frame.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// IsCompact reports whether a screen body of the given height should use
// its condensed rendering.
func IsCompact(bodyHeight int) bool {
	return bodyHeight < CompactHeight
}

// BodyHeight is what remains of height once header and footer are drawn.
func BodyHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// RenderResizeNotice asks the user to enlarge the terminal.
func RenderResizeNotice(width, height int) string {
	msg := theme.Heading.Render("终端窗口太小") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("请调整到至少 %d × %d", MinWidth, MinHeight)) + "\n" +
		theme.Hint.Render(fmt.Sprintf("当前 %d × %d", width, height))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader draws the app name on the left, the screen title centred
// and the practice total and streak on the right.
func RenderHeader(title string, practices, streak int, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" Methodo")
	stats := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("✎ %d 次  ★ %d 天 ", practices, streak))

	// two columns for the border
	middle := width - 4 - lipgloss.Width(brand) - lipgloss.Width(stats)
	center := " " + theme.Body.Render(title) + " "
	if middle > lipgloss.Width(center) {
		center = lipgloss.PlaceHorizontal(middle, lipgloss.Center, center)
	}
	return bar(width).Render(brand + center + stats)
}

// RenderFooter draws the key hints separated by dots.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " + theme.Hint.Render(h.Description)
	}
	sep := theme.Hint.Render("  ·  ")
	return bar(width).Render(" " + strings.Join(parts, sep))
}

// RenderFrame stacks header, body and footer, padding the body so the
// footer stays on the last rows.
func RenderFrame(header, body, footer string, width, height int) string {
	body = lipgloss.NewStyle().
		Width(width).
		Height(BodyHeight(header, footer, height)).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
