package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/ui/theme"
)

// Choice is a single-select list. Number keys pick an option directly.
type Choice struct {
	Prompt   string
	Options  []string
	Details  []string // optional dim text per option
	Selected int
	chosen   int
}

// NewChoice creates a choice list with nothing chosen yet.
func NewChoice(prompt string, options []string) Choice {
	return Choice{
		Prompt:  prompt,
		Options: options,
		chosen:  -1,
	}
}

// Update handles keyboard navigation and selection.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.Options) == 0 {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.chosen = c.Selected
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(c.Options) {
			c.Selected = n - 1
			c.chosen = c.Selected
		}
	}
	return c, nil
}

// Chosen returns the picked option index. ok is false until the user
// confirms a choice.
func (c Choice) Chosen() (i int, ok bool) {
	return c.chosen, c.chosen >= 0
}

// Reset clears the confirmed choice and keeps the selection.
func (c Choice) Reset() Choice {
	c.chosen = -1
	return c
}

// View renders the prompt and options.
func (c Choice) View() string {
	var b strings.Builder
	if c.Prompt != "" {
		b.WriteString(theme.Body.Bold(true).Render(c.Prompt))
		b.WriteString("\n\n")
	}
	for i, opt := range c.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		if i == c.Selected {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		if i < len(c.Details) && c.Details[i] != "" {
			b.WriteString("  " + theme.Hint.Render(c.Details[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}
