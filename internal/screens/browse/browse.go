package browse

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/router"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screens/detail"
	"github.com/abhisek/methodo/internal/ui/components"
	"github.com/abhisek/methodo/internal/ui/layout"
	"github.com/abhisek/methodo/internal/ui/theme"
)

type categoriesMsg struct {
	Categories []string
	Err        error
}

type resultsMsg struct {
	Term     string
	Category string
	Results  []catalog.Methodology
	Err      error
}

// BrowseScreen searches the catalog by keyword and category.
type BrowseScreen struct {
	svc        *screen.Services
	input      components.TextInput
	categories []string // AllCategories first
	catIdx     int
	term       string
	results    []catalog.Methodology
	selected   int
	loaded     bool
	err        error
}

var _ screen.Screen = (*BrowseScreen)(nil)
var _ screen.KeyHintProvider = (*BrowseScreen)(nil)
var _ screen.EscHandler = (*BrowseScreen)(nil)

// New creates a BrowseScreen showing the whole catalog.
func New(svc *screen.Services) *BrowseScreen {
	return &BrowseScreen{
		svc:        svc,
		input:      components.NewTextInput("搜索名称、描述或标签…", 40, 40),
		categories: []string{catalog.AllCategories},
	}
}

func (b *BrowseScreen) Init() tea.Cmd {
	c := b.svc.Catalog
	loadCategories := func() tea.Msg {
		cats, err := c.Categories(context.Background())
		return categoriesMsg{Categories: cats, Err: err}
	}
	return tea.Batch(b.input.Init(), loadCategories, b.search())
}

func (b *BrowseScreen) Title() string {
	return "浏览方法论"
}

func (b *BrowseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "选择"},
		{Key: "Tab", Description: "切换分类"},
		{Key: "Enter", Description: "查看"},
		{Key: "Esc", Description: "清除/返回"},
	}
}

// HandlesEsc is true while a filter is active so Esc clears it first.
func (b *BrowseScreen) HandlesEsc() bool {
	return b.term != "" || b.catIdx != 0
}

func (b *BrowseScreen) category() string {
	return b.categories[b.catIdx]
}

func (b *BrowseScreen) search() tea.Cmd {
	c, term, cat := b.svc.Catalog, b.term, b.category()
	return func() tea.Msg {
		ms, err := c.Search(context.Background(), term, cat)
		return resultsMsg{Term: term, Category: cat, Results: ms, Err: err}
	}
}

func (b *BrowseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesMsg:
		if msg.Err != nil {
			b.svc.Log.Warn("load categories failed", "error", msg.Err)
			return b, nil
		}
		b.categories = append([]string{catalog.AllCategories}, msg.Categories...)
		return b, nil

	case resultsMsg:
		if msg.Term != b.term || msg.Category != b.category() {
			return b, nil // stale
		}
		b.loaded = true
		b.err = msg.Err
		b.results = msg.Results
		if b.selected >= len(b.results) {
			b.selected = max(len(b.results)-1, 0)
		}
		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			if b.selected > 0 {
				b.selected--
			}
			return b, nil
		case "down":
			if b.selected < len(b.results)-1 {
				b.selected++
			}
			return b, nil
		case "tab":
			b.catIdx = (b.catIdx + 1) % len(b.categories)
			b.selected = 0
			return b, b.search()
		case "shift+tab":
			b.catIdx = (b.catIdx + len(b.categories) - 1) % len(b.categories)
			b.selected = 0
			return b, b.search()
		case "esc":
			b.input.SetValue("")
			b.term = ""
			b.catIdx = 0
			b.selected = 0
			return b, b.search()
		case "enter":
			if len(b.results) == 0 {
				return b, nil
			}
			d := detail.New(b.svc, b.results[b.selected])
			return b, func() tea.Msg { return router.PushScreenMsg{Screen: d} }
		}
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if term := strings.TrimSpace(b.input.Value()); term != b.term {
		b.term = term
		b.selected = 0
		return b, tea.Batch(cmd, b.search())
	}
	return b, cmd
}

func (b *BrowseScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var s strings.Builder
	s.WriteString(theme.Hint.Render("搜索 "))
	s.WriteString(b.input.View())
	s.WriteString("\n")
	s.WriteString(b.renderCategories())
	s.WriteString("\n\n")

	switch {
	case b.err != nil:
		s.WriteString(theme.ErrorText.Render("加载失败：" + b.err.Error()))
	case !b.loaded:
		s.WriteString(theme.Hint.Render("加载中…"))
	case len(b.results) == 0:
		s.WriteString(theme.Hint.Render("没有找到匹配的方法论"))
	default:
		s.WriteString(b.renderList(cw, height-8))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(s.String())
}

func (b *BrowseScreen) renderCategories() string {
	parts := make([]string, len(b.categories))
	for i, c := range b.categories {
		label := c
		if c == catalog.AllCategories {
			label = "全部"
		}
		if i == b.catIdx {
			parts[i] = theme.Selected.Render("[" + label + "]")
		} else {
			parts[i] = theme.Unselected.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

// renderList shows a window of results around the selection, two lines each.
func (b *BrowseScreen) renderList(cw, rows int) string {
	visible := max(rows/2, 1)
	start := 0
	if b.selected >= visible {
		start = b.selected - visible + 1
	}
	end := min(start+visible, len(b.results))

	var s strings.Builder
	for i := start; i < end; i++ {
		m := b.results[i]
		title := fmt.Sprintf("%s  %s  %s", m.Name, components.Badge(m.Category), theme.Hint.Render(m.Difficulty))
		if i == b.selected {
			s.WriteString(theme.Selected.Render("▸ ") + title)
		} else {
			s.WriteString("  " + title)
		}
		s.WriteString("\n")
		s.WriteString("    " + theme.Hint.Render(truncate(m.Description, cw-4)))
		s.WriteString("\n")
	}
	s.WriteString(theme.Hint.Render(fmt.Sprintf("\n共 %d 个", len(b.results))))
	return s.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if lipgloss.Width(s) <= width || width <= 1 {
		return s
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
