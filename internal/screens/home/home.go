package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screens/browse"
	"github.com/abhisek/methodo/internal/screens/dashboard"
	guidescreen "github.com/abhisek/methodo/internal/screens/guide"
	"github.com/abhisek/methodo/internal/screens/history"
	"github.com/abhisek/methodo/internal/screens/scenarios"
	"github.com/abhisek/methodo/internal/screens/tree"
	"github.com/abhisek/methodo/internal/ui/components"
)

type homeLoadedMsg struct {
	Username string
	Stats    practice.Stats
	Err      error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	svc        *screen.Services
	menu       components.Menu
	menuLabels []string
	username   string
	stats      practice.Stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(svc *screen.Services) *HomeScreen {
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	menuLabels := []string{"浏览方法论", "场景选择", "决策向导", "AI 引导", "练习统计", "历史记录", "退出"}
	items := []components.MenuItem{
		{Label: menuLabels[0], Action: push(func() screen.Screen { return browse.New(svc) })},
		{Label: menuLabels[1], Action: push(func() screen.Screen { return scenarios.New(svc) })},
		{Label: menuLabels[2], Action: push(func() screen.Screen { return tree.New(svc) })},
		{Label: menuLabels[3], Action: push(func() screen.Screen { return guidescreen.New(svc) })},
		{Label: menuLabels[4], Action: push(func() screen.Screen { return dashboard.New(svc) })},
		{Label: menuLabels[5], Action: push(func() screen.Screen { return history.New(svc) })},
		{Label: menuLabels[6], Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		svc:        svc,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	users := h.svc.Users
	return func() tea.Msg {
		ctx := context.Background()
		u, err := users.Current(ctx)
		if err != nil {
			return homeLoadedMsg{Err: err}
		}
		stats, err := users.Stats(ctx)
		return homeLoadedMsg{Username: u.Username, Stats: stats, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		if msg.Err != nil {
			h.svc.Log.Warn("load home stats failed", "error", msg.Err)
			return h, nil
		}
		h.username = msg.Username
		h.stats = msg.Stats
		return h, nil
	case screen.StatsChangedMsg:
		return h, h.Init()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100
	tiny := termHeight < 24

	cw := contentWidth(width)

	sections := []string{renderTitle(h.username, cw, compact)}
	if !compact {
		sections = append(sections, renderMascotBox(MascotFor(h.stats), cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if tiny {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
