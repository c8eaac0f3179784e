package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/ui/components"
	"github.com/abhisek/methodo/internal/ui/layout"
	"github.com/abhisek/methodo/internal/ui/theme"
)

type historyLoadedMsg struct {
	Records []practice.Record
	Err     error
}

type deletedMsg struct {
	Timestamp string
	Err       error
}

// HistoryScreen lists practice records, newest first.
type HistoryScreen struct {
	svc        *screen.Services
	records    []practice.Record
	selected   int
	expanded   map[string]bool // by timestamp
	confirming bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.EscHandler = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc *screen.Services) *HistoryScreen {
	return &HistoryScreen{
		svc:      svc,
		expanded: make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	ps := s.svc.Practice
	return func() tea.Msg {
		records, err := ps.GetAll(context.Background())
		return historyLoadedMsg{Records: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "历史记录"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "y", Description: "删除"},
			{Key: "n/Esc", Description: "取消"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "展开"},
		{Key: "↑↓", Description: "移动"},
		{Key: "d", Description: "删除"},
		{Key: "Esc", Description: "返回"},
	}
}

// HandlesEsc is true while a delete confirmation is pending.
func (s *HistoryScreen) HandlesEsc() bool {
	return s.confirming
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.records = msg.Records
			if s.selected >= len(s.records) {
				s.selected = max(len(s.records)-1, 0)
			}
		}
		s.loaded = true
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.errMsg = "删除失败：" + msg.Err.Error()
			return s, nil
		}
		delete(s.expanded, msg.Timestamp)
		return s, tea.Batch(s.load(), func() tea.Msg { return screen.StatsChangedMsg{} })

	case tea.KeyMsg:
		if s.confirming {
			switch msg.String() {
			case "y":
				s.confirming = false
				return s, s.deleteSelected()
			case "n", "esc":
				s.confirming = false
			}
			return s, nil
		}

		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.records) > 0 {
				ts := s.records[s.selected].Timestamp
				s.expanded[ts] = !s.expanded[ts]
			}
			return s, nil
		case "d":
			if len(s.records) > 0 {
				s.confirming = true
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) deleteSelected() tea.Cmd {
	ps, ts := s.svc.Practice, s.records[s.selected].Timestamp
	return func() tea.Msg {
		return deletedMsg{Timestamp: ts, Err: ps.Delete(context.Background(), ts)}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" && !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n加载失败：%s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  加载中…")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  还没有练习记录，选一个方法论开始吧！")
	}

	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s  %d/%d 已回答",
			prefix, formatTime(r), r.MethodologyName, r.Answered(), len(r.QuestionAnswers))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Width(cw).Render(line)))
		b.WriteString("\n")

		if s.expanded[r.Timestamp] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderRecord(r, cw)))
			b.WriteString("\n")
		}
	}

	if s.confirming {
		r := s.records[s.selected]
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.ErrorText.Render(fmt.Sprintf("删除 %s 的这条记录？(y/n)", r.MethodologyName))))
	} else if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.ErrorText.Render(s.errMsg)))
	}

	return b.String()
}

func renderRecord(r practice.Record, cw int) string {
	var b strings.Builder
	if r.ContextTitle != "" {
		b.WriteString(theme.Body.Bold(true).Render(r.ContextTitle))
		b.WriteString("\n")
	}
	b.WriteString(theme.Hint.Render("问题背景："))
	b.WriteString(r.Context)
	for _, qa := range r.QuestionAnswers {
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", qa.QuestionNumber, qa.Question)))
		b.WriteString("\n")
		if qa.Answer == "" {
			b.WriteString(theme.Hint.Render("（未回答）"))
		} else {
			b.WriteString(qa.Answer)
		}
	}
	if r.Reflection != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("反思："))
		b.WriteString(r.Reflection)
	}
	return components.Card("", b.String(), cw)
}

// formatTime shows the record's local time, or the raw timestamp when it
// does not parse.
func formatTime(r practice.Record) string {
	t, ok := r.Time()
	if !ok {
		return r.Timestamp
	}
	return t.Local().Format("2006-01-02 15:04")
}
