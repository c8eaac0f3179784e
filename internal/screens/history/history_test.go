package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screen/screentest"
	"github.com/abhisek/methodo/internal/store"
)

func seeded(t *testing.T, n int) (*HistoryScreen, *store.MemoryKV) {
	t.Helper()
	svc, kv := screentest.Services(t)
	m := screentest.Methodology(t, "5W2H")
	for i := 0; i < n; i++ {
		rec, err := practice.NewRecord(m, "周报", []string{"进度"}, "", time.Date(2026, 3, 1, 9, i, 0, 0, time.UTC))
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.Practice.Save(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}
	s := New(svc)
	s.Update(s.Init()())
	return s, kv
}

func TestLoadNewestFirst(t *testing.T) {
	s, _ := seeded(t, 3)
	if len(s.records) != 3 {
		t.Fatalf("records = %d, want 3", len(s.records))
	}
	if s.records[0].Timestamp < s.records[2].Timestamp {
		t.Error("expected newest record first")
	}
}

func TestEmptyHistory(t *testing.T) {
	s, _ := seeded(t, 0)
	view := s.View(100, 30)
	if !strings.Contains(view, "还没有练习记录") {
		t.Error("expected empty-state message")
	}
	s.Update(screentest.KeyPress('d'))
	if s.confirming {
		t.Error("d should do nothing without records")
	}
}

func TestEnterTogglesExpand(t *testing.T) {
	s, _ := seeded(t, 2)
	s.Update(screentest.SpecialKey(tea.KeyDown))
	s.Update(screentest.SpecialKey(tea.KeyEnter))

	ts := s.records[1].Timestamp
	if !s.expanded[ts] {
		t.Fatal("enter should expand the selected record")
	}
	if !strings.Contains(s.View(120, 40), "问题背景") {
		t.Error("expanded record should show its context")
	}
	s.Update(screentest.SpecialKey(tea.KeyEnter))
	if s.expanded[ts] {
		t.Error("second enter should collapse")
	}
}

func TestDeleteWithConfirmation(t *testing.T) {
	s, _ := seeded(t, 2)
	target := s.records[0].Timestamp

	s.Update(screentest.KeyPress('d'))
	if !s.HandlesEsc() {
		t.Fatal("confirmation should capture esc")
	}
	s.Update(screentest.SpecialKey(tea.KeyEscape))
	if s.confirming {
		t.Fatal("esc should cancel the confirmation")
	}

	s.Update(screentest.KeyPress('d'))
	_, cmd := s.Update(screentest.KeyPress('y'))
	_, cmd = s.Update(cmd())

	var changed bool
	for _, msg := range screentest.Drain(cmd) {
		switch msg.(type) {
		case screen.StatsChangedMsg:
			changed = true
		case historyLoadedMsg:
			s.Update(msg)
		}
	}
	if !changed {
		t.Error("expected StatsChangedMsg after delete")
	}
	if len(s.records) != 1 || s.records[0].Timestamp == target {
		t.Errorf("record %s should be gone, have %d records", target, len(s.records))
	}
}

func TestDeleteFailureShowsError(t *testing.T) {
	s, kv := seeded(t, 1)
	kv.FailSet = errors.New("disk full")

	s.Update(screentest.KeyPress('d'))
	_, cmd := s.Update(screentest.KeyPress('y'))
	s.Update(cmd())

	if !strings.Contains(s.errMsg, "disk full") {
		t.Errorf("errMsg = %q, want disk full", s.errMsg)
	}
	if len(s.records) != 1 {
		t.Error("record list should be unchanged")
	}
}
