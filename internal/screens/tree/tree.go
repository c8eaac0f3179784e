package tree

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/decisiontree"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screens/detail"
	"github.com/abhisek/methodo/internal/ui/components"
	"github.com/abhisek/methodo/internal/ui/layout"
	"github.com/abhisek/methodo/internal/ui/theme"
)

type recommendedMsg struct {
	Methodology catalog.Methodology
	Err         error
}

// TreeScreen walks the decision tree one question at a time until it
// recommends a methodology.
type TreeScreen struct {
	svc     *screen.Services
	engine  *decisiontree.Engine
	node    decisiontree.Node
	choice  components.Choice
	result  *catalog.Methodology
	loading bool
	err     error
}

var _ screen.Screen = (*TreeScreen)(nil)
var _ screen.KeyHintProvider = (*TreeScreen)(nil)

// New creates a TreeScreen over the built-in decision tree.
func New(svc *screen.Services) *TreeScreen {
	return NewWithGraph(svc, decisiontree.Default())
}

// NewWithGraph creates a TreeScreen over g.
func NewWithGraph(svc *screen.Services, g *decisiontree.Graph) *TreeScreen {
	t := &TreeScreen{svc: svc, engine: decisiontree.NewEngine(g)}
	t.showNode()
	return t
}

func (t *TreeScreen) Init() tea.Cmd {
	return nil
}

func (t *TreeScreen) Title() string {
	return "决策向导"
}

func (t *TreeScreen) KeyHints() []layout.KeyHint {
	if t.result != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "查看"},
			{Key: "r", Description: "重新开始"},
			{Key: "Esc", Description: "返回"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "选择"},
		{Key: "Enter", Description: "确认"},
	}
	if !t.engine.AtStart() {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "重新开始"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "返回"})
}

func (t *TreeScreen) showNode() {
	n, err := t.engine.CurrentNode()
	if err != nil {
		t.err = err
		return
	}
	t.node = n
	opts := make([]string, len(n.Options))
	for i, o := range n.Options {
		opts[i] = o.Text
	}
	t.choice = components.NewChoice(n.Question, opts)
}

func (t *TreeScreen) restart() {
	t.engine.Reset()
	t.result = nil
	t.err = nil
	t.showNode()
}

func (t *TreeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recommendedMsg:
		t.loading = false
		if msg.Err != nil {
			t.err = msg.Err
			return t, nil
		}
		m := msg.Methodology
		t.result = &m
		return t, nil

	case tea.KeyMsg:
		if t.loading {
			return t, nil
		}
		key := msg.String()
		if key == "r" && (t.result != nil || !t.engine.AtStart() || t.err != nil) {
			t.restart()
			return t, nil
		}
		if t.result != nil {
			if key == "enter" {
				d := detail.New(t.svc, *t.result)
				return t, func() tea.Msg { return router.PushScreenMsg{Screen: d} }
			}
			return t, nil
		}
		if t.err != nil {
			return t, nil
		}

		var cmd tea.Cmd
		t.choice, cmd = t.choice.Update(msg)
		if i, ok := t.choice.Chosen(); ok {
			return t, t.choose(i)
		}
		return t, cmd
	}
	return t, nil
}

func (t *TreeScreen) choose(i int) tea.Cmd {
	res, err := t.engine.Choose(i)
	if err != nil {
		t.err = err
		return nil
	}
	if res.Kind == decisiontree.Advance {
		t.showNode()
		return nil
	}

	t.svc.Log.Debug("decision tree recommendation", "method", res.Method, "path", t.engine.Path())
	t.loading = true
	c, key := t.svc.Catalog, res.Method
	return func() tea.Msg {
		m, err := c.GetByKey(context.Background(), key)
		return recommendedMsg{Methodology: m, Err: err}
	}
}

func (t *TreeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(t.progress())
	b.WriteString("\n\n")

	switch {
	case t.err != nil:
		b.WriteString(theme.ErrorText.Render("出错了：" + t.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("按 r 重新开始"))
	case t.loading:
		b.WriteString(theme.Hint.Render("正在查找推荐…"))
	case t.result != nil:
		m := t.result
		b.WriteString(theme.SuccessText.Render("推荐你使用："))
		b.WriteString("\n\n")
		body := m.Description + "\n\n" + theme.Hint.Render(m.Category+" · "+m.Difficulty)
		b.WriteString(components.Card(m.Name, body, cw))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("按 Enter 查看详情并开始练习"))
	default:
		b.WriteString(t.choice.View())
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(b.String())
}

func (t *TreeScreen) progress() string {
	steps := len(t.engine.Path())
	return theme.Hint.Render(fmt.Sprintf("第 %d 步  ", steps)) +
		theme.ProgressFilled.Render(strings.TrimSpace(strings.Repeat("● ", steps)))
}
