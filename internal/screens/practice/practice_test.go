package practice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/catalog"
	prac "github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screen/screentest"
	"github.com/abhisek/methodo/internal/store"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestScreen(t *testing.T) (*PracticeScreen, *screen.Services, *store.MemoryKV) {
	t.Helper()
	svc, kv := screentest.Services(t)
	s := New(svc, screentest.Methodology(t, "5W2H"))
	s.Now = func() time.Time { return fixedNow }
	return s, svc, kv
}

func enter(t *testing.T, s *PracticeScreen) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(screentest.SpecialKey(tea.KeyEnter))
	return cmd
}

func TestBlankContextShowsInlineError(t *testing.T) {
	s, _, _ := newTestScreen(t)

	s.input.SetValue("   ")
	enter(t, s)

	assert.Equal(t, phaseContext, s.phase)
	assert.Equal(t, prac.MsgContextRequired, s.input.Err())
	assert.Contains(t, s.View(100, 40), prac.MsgContextRequired)
}

func TestMethodologyWithoutQuestionsStaysOnContext(t *testing.T) {
	svc, _ := screentest.Services(t)
	s := New(svc, catalog.Methodology{Key: "X", Name: "X"})

	s.input.SetValue("ctx")
	cmd := enter(t, s)

	assert.Nil(t, cmd)
	assert.Equal(t, phaseContext, s.phase)
	assert.Equal(t, prac.MsgNoQuestions, s.input.Err())
	assert.Contains(t, s.View(100, 40), prac.MsgNoQuestions)
}

func TestFullSessionSavesRecord(t *testing.T) {
	s, svc, _ := newTestScreen(t)

	s.input.SetValue("项目总是延期")
	enter(t, s)
	require.Equal(t, phaseQuestions, s.phase)

	// Tab picks the first quick option.
	s.Update(screentest.SpecialKey(tea.KeyTab))
	assert.Equal(t, "技术问题", s.input.Value())
	for range s.m.Questions {
		enter(t, s)
	}
	require.Equal(t, phaseReflection, s.phase)

	s.input.SetValue("要更早暴露风险")
	cmd := enter(t, s)
	require.Equal(t, phaseSaving, s.phase)

	msgs := screentest.Drain(cmd)
	require.Len(t, msgs, 1)
	saved, ok := msgs[0].(savedMsg)
	require.True(t, ok, "got %T", msgs[0])
	require.NoError(t, saved.Err)

	_, cmd = s.Update(saved)
	assert.Equal(t, phaseDone, s.phase)
	assert.True(t, s.diagramLoading, "5W2H supports diagrams")

	var gotStats, gotDiagram bool
	for _, m := range screentest.Drain(cmd) {
		switch m := m.(type) {
		case screen.StatsChangedMsg:
			gotStats = true
		case diagramMsg:
			gotDiagram = true
			require.NoError(t, m.Err)
			s.Update(m)
		}
	}
	assert.True(t, gotStats)
	assert.True(t, gotDiagram)
	require.NotNil(t, s.diagram)
	assert.Equal(t, assist.SourceExample, s.diagram.Source)

	records, err := svc.Practice.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, fixedNow.Format(time.RFC3339Nano), r.Timestamp)
	assert.Equal(t, "项目总是延期", r.Context)
	assert.Equal(t, "技术问题", r.QuestionAnswers[0].Answer)
	assert.Equal(t, 1, r.Answered())
	assert.Equal(t, "要更早暴露风险", r.Reflection)

	view := s.View(100, 60)
	assert.Contains(t, view, "练习已保存")
	assert.Contains(t, view, "Mermaid")
}

func TestNoAnswersReturnsToFirstQuestion(t *testing.T) {
	s, svc, _ := newTestScreen(t)

	s.input.SetValue("会议太多")
	enter(t, s)
	for range s.m.Questions {
		enter(t, s)
	}
	enter(t, s) // empty reflection, submit

	assert.Equal(t, phaseQuestions, s.phase)
	assert.Equal(t, 0, s.current)
	assert.Equal(t, prac.MsgAnswerRequired, s.input.Err())

	records, err := svc.Practice.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records, "nothing persisted on validation failure")
}

func TestSuggestionsJoinTabCycle(t *testing.T) {
	s, _, _ := newTestScreen(t)
	s.input.SetValue("需求变更频繁")
	enter(t, s)
	enter(t, s) // to the Why question

	_, cmd := s.Update(screentest.CtrlKey('g'))
	require.True(t, s.suggestLoading)
	msgs := screentest.Drain(cmd)
	require.Len(t, msgs, 1)
	s.Update(msgs[0])

	require.False(t, s.suggestLoading)
	require.Len(t, s.suggestions, 3)
	assert.True(t, strings.HasPrefix(s.suggestions[0].Text, "从需求变更频繁的情况来看"))

	quick := len(s.m.Questions[1].QuickOptions)
	for i := 0; i <= quick; i++ {
		s.Update(screentest.SpecialKey(tea.KeyTab))
	}
	assert.Equal(t, s.suggestions[0].Text, s.input.Value())
	assert.Contains(t, s.View(100, 50), "AI 建议")
}

func TestEscStepsBack(t *testing.T) {
	s, _, _ := newTestScreen(t)
	assert.False(t, s.HandlesEsc(), "context phase leaves Esc to the app")

	s.input.SetValue("问题")
	enter(t, s)
	s.input.SetValue("第一条")
	enter(t, s)
	require.Equal(t, 1, s.current)
	require.True(t, s.HandlesEsc())

	s.Update(screentest.SpecialKey(tea.KeyEscape))
	assert.Equal(t, 0, s.current)
	assert.Equal(t, "第一条", s.input.Value())

	s.Update(screentest.SpecialKey(tea.KeyEscape))
	assert.Equal(t, phaseContext, s.phase)
	assert.Equal(t, "问题", s.input.Value())
}

func TestSaveFailureKeepsAnswers(t *testing.T) {
	s, _, kv := newTestScreen(t)
	kv.FailSet = errors.New("disk full")

	s.input.SetValue("问题")
	enter(t, s)
	s.input.SetValue("回答")
	enter(t, s)
	for i := 1; i < len(s.m.Questions); i++ {
		enter(t, s)
	}
	cmd := enter(t, s)
	msgs := screentest.Drain(cmd)
	require.Len(t, msgs, 1)
	s.Update(msgs[0])

	assert.Equal(t, phaseReflection, s.phase)
	assert.Contains(t, s.errMsg, "保存失败")
	assert.Equal(t, "回答", s.answers[0])
}

func TestKeyHintsPerPhase(t *testing.T) {
	s, _, _ := newTestScreen(t)
	for _, p := range []phase{phaseContext, phaseQuestions, phaseReflection, phaseDone} {
		s.phase = p
		hints := s.KeyHints()
		assert.NotEmpty(t, hints, "phase %d", p)
		for _, h := range hints {
			assert.False(t, strings.ContainsAny(h.Description, latinLetters), "phase %d hint %q", p, h.Description)
		}
	}
}

const latinLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
