package detail

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen"
	practicescreen "github.com/abhisek/methodo/internal/screens/practice"
	"github.com/abhisek/methodo/internal/ui/components"
	"github.com/abhisek/methodo/internal/ui/layout"
	"github.com/abhisek/methodo/internal/ui/theme"
)

type countLoadedMsg struct {
	Count int
	Err   error
}

// DetailScreen shows one methodology and starts a practice session on Enter.
type DetailScreen struct {
	svc       *screen.Services
	m         catalog.Methodology
	practiced int
	offset    int
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// New creates a DetailScreen for m.
func New(svc *screen.Services, m catalog.Methodology) *DetailScreen {
	return &DetailScreen{svc: svc, m: m}
}

func (d *DetailScreen) Init() tea.Cmd {
	ps, key := d.svc.Practice, d.m.Key
	return func() tea.Msg {
		records, err := ps.GetByMethodology(context.Background(), key)
		return countLoadedMsg{Count: len(records), Err: err}
	}
}

func (d *DetailScreen) Title() string {
	return d.m.Name
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "开始练习"},
		{Key: "↑↓", Description: "滚动"},
		{Key: "Esc", Description: "返回"},
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case countLoadedMsg:
		if msg.Err != nil {
			d.svc.Log.Warn("load practice count failed", "methodology", d.m.Key, "error", msg.Err)
			return d, nil
		}
		d.practiced = msg.Count
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "p":
			s := practicescreen.New(d.svc, d.m)
			return d, func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		case "up", "k":
			if d.offset > 0 {
				d.offset--
			}
		case "down", "j":
			d.offset++
		}
	}
	return d, nil
}

func (d *DetailScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(d.m.Name))
	b.WriteString("  ")
	b.WriteString(components.Badge(d.m.Category))
	b.WriteString("  ")
	b.WriteString(theme.Tag.Render(d.m.Difficulty))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(cw).Render(d.m.Description))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("#" + strings.Join(d.m.Tags, "  #")))
	if d.practiced > 0 {
		b.WriteString("   ")
		b.WriteString(theme.SuccessText.Render(fmt.Sprintf("已练习 %d 次", d.practiced)))
	}
	if d.m.SupportsVisualization {
		b.WriteString("   ")
		b.WriteString(theme.Tag.Render("◇ 支持图表"))
	}
	b.WriteString("\n\n")

	var qs strings.Builder
	for i, q := range d.m.Questions {
		fmt.Fprintf(&qs, "%d. %s\n", i+1, q.Text)
	}
	b.WriteString(components.Card("问题清单", strings.TrimRight(qs.String(), "\n"), cw))

	if d.m.Example != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Card("示例", d.m.Example, cw))
	}

	lines := strings.Split(b.String(), "\n")
	if d.offset > len(lines)-1 {
		d.offset = len(lines) - 1
	}
	content := strings.Join(lines[d.offset:], "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(content)
}
