package tree

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/decisiontree"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen/screentest"
	"github.com/abhisek/methodo/internal/screens/detail"
)

func press(s *TreeScreen, key tea.KeyPressMsg) tea.Msg {
	_, cmd := s.Update(key)
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if _, ok := msg.(recommendedMsg); ok {
		s.Update(msg)
	}
	return msg
}

func hasHint(s *TreeScreen, key string) bool {
	for _, h := range s.KeyHints() {
		if h.Key == key {
			return true
		}
	}
	return false
}

func TestWalkToRecommendation(t *testing.T) {
	svc, _ := screentest.Services(t)
	s := New(svc)
	if hasHint(s, "r") {
		t.Error("restart hint should be hidden at the start node")
	}

	press(s, screentest.KeyPress('3')) // 向他人表达和汇报
	if s.engine.Current() != "express" {
		t.Fatalf("current = %q, want express", s.engine.Current())
	}
	if !hasHint(s, "r") {
		t.Error("restart hint should show off the start node")
	}

	press(s, screentest.KeyPress('1')) // 向领导汇报工作
	if s.result == nil {
		t.Fatal("expected a recommendation")
	}
	if s.result.Key != "SCQA" {
		t.Errorf("recommended %q, want SCQA", s.result.Key)
	}

	msg := press(s, screentest.SpecialKey(tea.KeyEnter))
	push, ok := msg.(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	if _, ok := push.Screen.(*detail.DetailScreen); !ok {
		t.Errorf("expected detail screen, got %T", push.Screen)
	}
}

func TestRestart(t *testing.T) {
	svc, _ := screentest.Services(t)
	s := New(svc)
	press(s, screentest.KeyPress('2'))
	press(s, screentest.KeyPress('1'))
	if s.result == nil || s.result.Key != "5Why" {
		t.Fatalf("expected 5Why recommendation, got %+v", s.result)
	}

	press(s, screentest.KeyPress('r'))
	if s.result != nil || !s.engine.AtStart() {
		t.Error("r should reset to the start node")
	}
	if len(s.choice.Options) != 5 {
		t.Errorf("start options = %d, want 5", len(s.choice.Options))
	}
}

func TestUnknownMethodShowsError(t *testing.T) {
	svc, _ := screentest.Services(t)
	g := decisiontree.NewGraph("start", []decisiontree.Node{
		{ID: "start", Question: "?", Options: []decisiontree.Option{{Text: "a", Method: "NOPE"}}},
	})
	s := NewWithGraph(svc, g)

	press(s, screentest.SpecialKey(tea.KeyEnter))
	if s.err == nil {
		t.Fatal("expected an error for an unknown methodology")
	}
	press(s, screentest.KeyPress('r'))
	if s.err != nil {
		t.Error("restart should clear the error")
	}
}
