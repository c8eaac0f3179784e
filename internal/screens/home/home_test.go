package home

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
	"github.com/abhisek/methodo/internal/screens/browse"
	"github.com/abhisek/methodo/internal/screens/history"
)

func TestInitLoadsGreetingAndStats(t *testing.T) {
	svc, _ := screentest.Services(t)
	m := screentest.Methodology(t, "PREP")
	rec, err := practice.NewRecord(m, "周会发言", []string{"观点"}, "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Practice.Save(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	h := New(svc)
	h.Update(h.Init()())

	if h.username == "" {
		t.Error("expected a username")
	}
	if h.stats.TotalPractices != 1 {
		t.Errorf("TotalPractices = %d, want 1", h.stats.TotalPractices)
	}
	view := h.View(120, 40)
	if !strings.Contains(view, "你好，"+h.username) {
		t.Error("view should greet the user")
	}
	if !strings.Contains(view, "1 次练习") {
		t.Error("view should show the practice count")
	}
}

func TestMenuPushesScreens(t *testing.T) {
	svc, _ := screentest.Services(t)
	h := New(svc)

	_, cmd := h.Update(screentest.SpecialKey(tea.KeyEnter))
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*browse.BrowseScreen); !ok {
		t.Errorf("first item opened %T, want browse", push.Screen)
	}

	for i := 0; i < 5; i++ {
		h.Update(screentest.SpecialKey(tea.KeyDown))
	}
	_, cmd = h.Update(screentest.SpecialKey(tea.KeyEnter))
	push, ok = cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("sixth item opened %T, want history", push.Screen)
	}
}

func TestExitQuits(t *testing.T) {
	svc, _ := screentest.Services(t)
	h := New(svc)
	for i := 0; i < len(h.menuLabels); i++ {
		h.Update(screentest.SpecialKey(tea.KeyDown))
	}
	_, cmd := h.Update(screentest.SpecialKey(tea.KeyEnter))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("exit should quit")
	}
}

func TestStatsChangedReloads(t *testing.T) {
	svc, _ := screentest.Services(t)
	h := New(svc)
	_, cmd := h.Update(screen.StatsChangedMsg{})
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	if _, ok := cmd().(homeLoadedMsg); !ok {
		t.Error("reload should produce homeLoadedMsg")
	}
}

func TestMascotFor(t *testing.T) {
	tests := []struct {
		stats practice.Stats
		want  MascotVariant
	}{
		{practice.Stats{}, MascotIdle},
		{practice.Stats{RecentActivity: 2, PracticeStreak: 1}, MascotThinking},
		{practice.Stats{RecentActivity: 5, PracticeStreak: StreakToCelebrate}, MascotCelebrating},
	}
	for _, tt := range tests {
		if got := MascotFor(tt.stats); got != tt.want {
			t.Errorf("MascotFor(%+v) = %d, want %d", tt.stats, got, tt.want)
		}
	}
}
