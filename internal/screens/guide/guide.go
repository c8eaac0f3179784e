package guide

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/catalog"
	gd "github.com/abhisek/methodo/internal/guide"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screens/detail"
	"github.com/abhisek/methodo/internal/ui/components"
	"github.com/abhisek/methodo/internal/ui/layout"
	"github.com/abhisek/methodo/internal/ui/theme"
)

type methodsMsg struct {
	Methods []catalog.Methodology
	Err     error
}

// GuideScreen runs the scripted guide conversation and ends with a list of
// recommended methodologies.
type GuideScreen struct {
	svc     *screen.Services
	guide   *gd.Guide
	conv    gd.Conversation
	current gd.Question
	choice  components.Choice

	// set once the conversation ends
	done       bool
	confidence float64
	reasoning  string
	methods    []catalog.Methodology
	loading    bool
	err        error
}

var _ screen.Screen = (*GuideScreen)(nil)
var _ screen.KeyHintProvider = (*GuideScreen)(nil)

// New creates a GuideScreen over the shipped question set.
func New(svc *screen.Services) *GuideScreen {
	return NewWithGuide(svc, gd.Default())
}

// NewWithGuide creates a GuideScreen over g.
func NewWithGuide(svc *screen.Services, g *gd.Guide) *GuideScreen {
	s := &GuideScreen{svc: svc, guide: g}
	s.ask(g.Start())
	return s
}

func (s *GuideScreen) Init() tea.Cmd {
	return nil
}

func (s *GuideScreen) Title() string {
	return "AI 引导"
}

func (s *GuideScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "选择"},
		{Key: "Enter", Description: "确认"},
	}
	if len(s.conv.Answers) > 0 {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "重新开始"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "返回"})
}

func (s *GuideScreen) ask(q gd.Question) {
	s.current = q
	opts := make([]string, len(q.Options))
	details := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Text
		details[i] = o.Description
	}
	s.choice = components.NewChoice(q.Text, opts)
	s.choice.Details = details
}

func (s *GuideScreen) restart() {
	*s = GuideScreen{svc: s.svc, guide: s.guide}
	s.ask(s.guide.Start())
}

func (s *GuideScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case methodsMsg:
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.methods = msg.Methods
		names := make([]string, len(msg.Methods))
		details := make([]string, len(msg.Methods))
		for i, m := range msg.Methods {
			names[i] = m.Name
			details[i] = m.Category
		}
		s.choice = components.NewChoice(gd.RecommendationText, names)
		s.choice.Details = details
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		if msg.String() == "r" && len(s.conv.Answers) > 0 {
			s.restart()
			return s, nil
		}

		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		i, ok := s.choice.Chosen()
		if !ok {
			return s, cmd
		}
		if s.done {
			d := detail.New(s.svc, s.methods[i])
			s.choice = s.choice.Reset()
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: d} }
		}
		return s, s.answer(s.current.Options[i])
	}
	return s, nil
}

// answer records o and moves to the next question or the recommendation.
// An option that leads nowhere falls back to the rule-based recommendation.
func (s *GuideScreen) answer(o gd.Option) tea.Cmd {
	s.conv.Add(s.current, o)

	next, ok := s.guide.Next(s.current.ID, o.ID, s.conv)
	if ok && next.Type != gd.TypeRecommendation {
		s.ask(next)
		return nil
	}

	var keys []catalog.Key
	if ok {
		keys, s.confidence = next.Methods, next.Confidence
	} else {
		rec := gd.Recommend(s.conv)
		keys, s.confidence, s.reasoning = rec.Methods, rec.Confidence, rec.Reasoning
		s.svc.Log.Debug("guide fell back to rule recommendation", "option", o.ID)
	}
	s.done = true
	s.loading = true

	c, log := s.svc.Catalog, s.svc.Log
	return func() tea.Msg {
		var ms []catalog.Methodology
		for _, key := range keys {
			m, err := c.GetByKey(context.Background(), key)
			if errors.Is(err, catalog.ErrNotFound) {
				log.Warn("guide recommends unknown methodology", "key", key)
				continue
			}
			if err != nil {
				return methodsMsg{Err: err}
			}
			ms = append(ms, m)
		}
		return methodsMsg{Methods: ms}
	}
}

func (s *GuideScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(s.transcript())

	switch {
	case s.err != nil:
		b.WriteString(theme.ErrorText.Render("加载失败：" + s.err.Error()))
	case s.loading:
		b.WriteString(theme.Hint.Render("正在整理推荐…"))
	case s.done && len(s.methods) == 0:
		b.WriteString(theme.Hint.Render("暂无可推荐的方法论，按 r 重新开始"))
	case s.done:
		if s.reasoning != "" {
			b.WriteString(theme.Body.Width(cw).Render(s.reasoning))
			b.WriteString("\n")
		}
		b.WriteString(theme.Hint.Render(fmt.Sprintf("匹配度 %d%%", int(s.confidence*100+0.5))))
		b.WriteString("\n\n")
		b.WriteString(s.choice.View())
	default:
		b.WriteString(s.choice.View())
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(b.String())
}

func (s *GuideScreen) transcript() string {
	if len(s.conv.Answers) == 0 {
		return theme.Hint.Render(s.guide.Metadata().Description) + "\n\n"
	}
	var b strings.Builder
	for _, a := range s.conv.Answers {
		b.WriteString(theme.Hint.Render("问：" + a.Question))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("答：" + a.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}
