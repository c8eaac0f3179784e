package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screen/screentest"
	"github.com/abhisek/methodo/internal/screens/home"
)

// escScreen is a stub screen that optionally consumes Esc.
type escScreen struct {
	handles bool
	escs    int
}

func (s *escScreen) Init() tea.Cmd { return nil }
func (s *escScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		s.escs++
	}
	return s, nil
}
func (s *escScreen) View(int, int) string { return "stub" }
func (s *escScreen) Title() string        { return "stub" }
func (s *escScreen) HandlesEsc() bool     { return s.handles }

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestWelcomeReplacedByHome(t *testing.T) {
	svc, _ := screentest.Services(t)
	m := newAppModel(Options{Services: svc})

	m, cmd := update(t, m, screentest.KeyPress('x'))
	if cmd == nil {
		t.Fatal("expected transition command")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	m, _ = update(t, m, replace)

	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Errorf("active = %T, want home", m.router.Active())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestStatsChangedRefreshesHeader(t *testing.T) {
	svc, _ := screentest.Services(t)
	rec, err := practice.NewRecord(screentest.Methodology(t, "MECE"), "拆解", []string{"维度"}, "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Practice.Save(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	m := newAppModel(Options{Services: svc})
	m, cmd := update(t, m, screen.StatsChangedMsg{})
	for _, msg := range screentest.Drain(cmd) {
		if _, ok := msg.(headerStatsMsg); ok {
			m, _ = update(t, m, msg)
		}
	}

	if m.practices != 1 {
		t.Errorf("practices = %d, want 1", m.practices)
	}
	if m.streak != 1 {
		t.Errorf("streak = %d, want 1", m.streak)
	}
}

func TestEscPopsUnlessScreenHandlesIt(t *testing.T) {
	svc, _ := screentest.Services(t)
	m := newAppModel(Options{Services: svc})

	handler := &escScreen{handles: true}
	m, _ = update(t, m, router.PushScreenMsg{Screen: handler})

	m, cmd := update(t, m, screentest.SpecialKey(tea.KeyEscape))
	if handler.escs != 1 {
		t.Errorf("screen saw %d escs, want 1", handler.escs)
	}
	if cmd != nil {
		t.Error("esc consumed by screen should not pop")
	}

	handler.handles = false
	_, cmd = update(t, m, screentest.SpecialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if handler.escs != 1 {
		t.Error("esc should not reach a screen that does not handle it")
	}
}

func TestFooterUsesScreenHints(t *testing.T) {
	svc, _ := screentest.Services(t)
	m := newAppModel(Options{Services: svc})
	hints := m.footerHints(m.router.Active())
	if hints[len(hints)-1].Key != "Ctrl+C" {
		t.Error("footer should always end with quit")
	}
	for _, h := range hints {
		if strings.ContainsAny(h.Description, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz") {
			t.Errorf("hint %q is not localized", h.Description)
		}
	}
}
