package practice

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/methodo/internal/assist"
	"github.com/abhisek/methodo/internal/catalog"
	prac "github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/ui/components"
	"github.com/abhisek/methodo/internal/ui/layout"
)

type phase int

const (
	phaseContext phase = iota
	phaseQuestions
	phaseReflection
	phaseSaving
	phaseDone
)

const inputWidth = 60

// PracticeScreen walks one methodology: problem description, each question,
// reflection, then saves the record and shows a diagram when supported.
type PracticeScreen struct {
	svc *screen.Services
	m   catalog.Methodology

	phase      phase
	input      components.TextInput
	context    string
	answers    []string
	reflection string
	current    int

	// tab cycles through quick options followed by suggestions
	suggestions    []assist.Suggestion
	suggestFor     int
	suggestLoading bool
	suggestErr     string
	candidate      int

	errMsg         string
	saved          prac.Record
	diagram        *assist.Diagram
	diagramLoading bool
	diagramErr     string

	// Now stamps the record; tests replace it.
	Now func() time.Time
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.EscHandler = (*PracticeScreen)(nil)

// New creates a PracticeScreen for m.
func New(svc *screen.Services, m catalog.Methodology) *PracticeScreen {
	return &PracticeScreen{
		svc:        svc,
		m:          m,
		answers:    make([]string, len(m.Questions)),
		input:      components.NewTextInput("描述你想思考的问题…", 0, inputWidth),
		suggestFor: -1,
		candidate:  -1,
		Now:        time.Now,
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *PracticeScreen) Title() string {
	return s.m.Name
}

func (s *PracticeScreen) HandlesEsc() bool {
	return s.phase == phaseQuestions || s.phase == phaseReflection
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseContext:
		return []layout.KeyHint{
			{Key: "Enter", Description: "开始"},
			{Key: "Esc", Description: "返回"},
		}
	case phaseQuestions:
		return []layout.KeyHint{
			{Key: "Enter", Description: "下一题"},
			{Key: "Tab", Description: "快捷选项"},
			{Key: "Ctrl+G", Description: "获取建议"},
			{Key: "Esc", Description: "上一步"},
		}
	case phaseReflection:
		return []layout.KeyHint{
			{Key: "Enter", Description: "提交"},
			{Key: "Esc", Description: "上一步"},
		}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "回到首页"},
			{Key: "Esc", Description: "返回"},
		}
	}
	return nil
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionsMsg:
		return s.handleSuggestions(msg)
	case savedMsg:
		return s.handleSaved(msg)
	case diagramMsg:
		s.diagramLoading = false
		if msg.Err != nil {
			s.svc.Log.Warn("diagram generation failed", "methodology", s.m.Key, "error", msg.Err)
			s.diagramErr = assist.UserMessage
			return s, nil
		}
		s.diagram = &msg.Diagram
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseSaving:
		return s, nil
	case phaseDone:
		if msg.String() == "enter" {
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
		return s, nil
	}

	switch msg.String() {
	case "enter":
		return s.advance()
	case "esc":
		return s.back()
	case "tab":
		if s.phase == phaseQuestions {
			s.cycleCandidate()
		}
		return s, nil
	case "ctrl+g":
		if s.phase == phaseQuestions && !s.suggestLoading {
			return s, s.requestSuggestions()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// advance commits the input and moves to the next step.
func (s *PracticeScreen) advance() (screen.Screen, tea.Cmd) {
	value := s.input.Value()
	switch s.phase {
	case phaseContext:
		s.context = value
		if len(s.m.Questions) == 0 {
			s.input.SetError(prac.MsgNoQuestions)
			return s, nil
		}
		if strings.TrimSpace(value) == "" {
			s.input.SetError(prac.MsgContextRequired)
			return s, nil
		}
		return s, s.showQuestion(0)

	case phaseQuestions:
		s.answers[s.current] = assist.RefineAnswer(value)
		if s.current < len(s.answers)-1 {
			return s, s.showQuestion(s.current + 1)
		}
		return s, s.showReflection()

	case phaseReflection:
		s.reflection = value
		return s.submit()
	}
	return s, nil
}

// back keeps the input and steps to the previous question.
func (s *PracticeScreen) back() (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseQuestions:
		s.answers[s.current] = s.input.Value()
		if s.current == 0 {
			return s, s.showContext()
		}
		return s, s.showQuestion(s.current - 1)
	case phaseReflection:
		s.reflection = s.input.Value()
		if len(s.answers) == 0 {
			return s, s.showContext()
		}
		return s, s.showQuestion(len(s.answers) - 1)
	}
	return s, nil
}

func (s *PracticeScreen) showContext() tea.Cmd {
	s.phase = phaseContext
	s.input = components.NewTextInput("描述你想思考的问题…", 0, inputWidth)
	s.input.SetValue(s.context)
	return s.input.Init()
}

func (s *PracticeScreen) showQuestion(i int) tea.Cmd {
	s.phase = phaseQuestions
	s.current = i
	s.candidate = -1
	if s.suggestFor != i {
		s.suggestions = nil
		s.suggestErr = ""
	}
	q := s.m.Questions[i]
	placeholder := q.Placeholder
	if placeholder == "" {
		placeholder = "你的回答…"
	}
	s.input = components.NewTextInput(placeholder, 0, inputWidth)
	s.input.SetValue(s.answers[i])
	return s.input.Init()
}

func (s *PracticeScreen) showReflection() tea.Cmd {
	s.phase = phaseReflection
	s.input = components.NewTextInput("可选", 0, inputWidth)
	s.input.SetValue(s.reflection)
	return s.input.Init()
}

// candidates lists quick options, then suggestions for the current question.
func (s *PracticeScreen) candidates() []string {
	var out []string
	if s.phase != phaseQuestions {
		return out
	}
	out = append(out, s.m.Questions[s.current].QuickOptions...)
	if s.suggestFor == s.current {
		for _, sg := range s.suggestions {
			out = append(out, sg.Text)
		}
	}
	return out
}

func (s *PracticeScreen) cycleCandidate() {
	c := s.candidates()
	if len(c) == 0 {
		return
	}
	s.candidate = (s.candidate + 1) % len(c)
	s.input.SetValue(c[s.candidate])
}

func (s *PracticeScreen) requestSuggestions() tea.Cmd {
	s.suggestLoading = true
	s.suggestErr = ""
	idx := s.current
	prev := append([]string(nil), s.answers[:idx]...)
	req := assist.SuggestionRequest{
		Context:         s.context,
		Question:        s.m.Questions[idx].Text,
		MethodologyName: s.m.Name,
		PreviousAnswers: prev,
	}
	svc := s.svc.Assist
	return func() tea.Msg {
		got, err := svc.Suggestions(context.Background(), req)
		return suggestionsMsg{Question: idx, Suggestions: got, Err: err}
	}
}

func (s *PracticeScreen) handleSuggestions(msg suggestionsMsg) (screen.Screen, tea.Cmd) {
	s.suggestLoading = false
	if msg.Err != nil {
		s.svc.Log.Warn("suggestions failed", "methodology", s.m.Key, "error", msg.Err)
		s.suggestErr = assist.UserMessage
		return s, nil
	}
	s.suggestFor = msg.Question
	s.suggestions = msg.Suggestions
	return s, nil
}

// submit validates the session. Validation failures move back to the step
// that needs fixing and show the message under its input.
func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	rec, err := prac.NewRecord(s.m, s.context, s.answers, s.reflection, s.Now())
	var verr *prac.ValidationError
	if errors.As(err, &verr) {
		var cmd tea.Cmd
		if verr.Field == "context" || len(s.answers) == 0 {
			cmd = s.showContext()
		} else {
			cmd = s.showQuestion(0)
		}
		s.input.SetError(verr.Message)
		return s, cmd
	}
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}

	s.phase = phaseSaving
	store := s.svc.Practice
	return s, func() tea.Msg {
		err := store.Save(context.Background(), rec)
		return savedMsg{Record: rec, Err: err}
	}
}

func (s *PracticeScreen) handleSaved(msg savedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.svc.Log.Error("practice save failed", "methodology", s.m.Key, "error", msg.Err)
		s.errMsg = "保存失败：" + msg.Err.Error()
		s.phase = phaseReflection
		return s, nil
	}
	s.phase = phaseDone
	s.errMsg = ""
	s.saved = msg.Record
	s.svc.Log.Info("practice saved", "methodology", s.m.Key, "answered", msg.Record.Answered())

	cmds := []tea.Cmd{func() tea.Msg { return screen.StatsChangedMsg{} }}
	if s.m.SupportsVisualization {
		s.diagramLoading = true
		svc := s.svc.Assist
		prompt := assist.RecordPrompt(msg.Record)
		cmds = append(cmds, func() tea.Msg {
			d, err := svc.Diagram(context.Background(), prompt)
			return diagramMsg{Diagram: d, Err: err}
		})
	}
	return s, tea.Batch(cmds...)
}
