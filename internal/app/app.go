package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screens/home"
	"github.com/abhisek/methodo/internal/screens/welcome"
	"github.com/abhisek/methodo/internal/ui/layout"
)

// Options holds the dependencies for the TUI.
type Options struct {
	Services *screen.Services
}

type headerStatsMsg struct {
	Stats practice.Stats
	Err   error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router    *router.Router
	svc       *screen.Services
	width     int
	height    int
	practices int
	streak    int
}

// newAppModel creates an AppModel that opens on the welcome splash and then
// replaces it with the home screen.
func newAppModel(opts Options) AppModel {
	svc := opts.Services
	splash := welcome.New(func() screen.Screen { return home.New(svc) })
	return AppModel{
		router: router.New(splash),
		svc:    svc,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadHeaderStats())
}

func (m AppModel) loadHeaderStats() tea.Cmd {
	users := m.svc.Users
	return func() tea.Msg {
		stats, err := users.Stats(context.Background())
		return headerStatsMsg{Stats: stats, Err: err}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerStatsMsg:
		if msg.Err != nil {
			m.svc.Log.Warn("load header stats failed", "error", msg.Err)
			return m, nil
		}
		m.practices = msg.Stats.TotalPractices
		m.streak = msg.Stats.PracticeStreak
		return m, nil

	case screen.StatsChangedMsg:
		return m, tea.Batch(m.loadHeaderStats(), m.router.Broadcast(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscHandler); ok && h.HandlesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderResizeNotice(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.practices, m.streak, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	content := m.router.View(m.width, layout.BodyHeight(header, footer, m.height))
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "退出"}
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), quit)
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "返回"},
			quit,
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "移动"},
		{Key: "Enter", Description: "选择"},
		quit,
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
