package scenarios

import (
	"context"
	"errors"
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

type level int

const (
	levelScenario level = iota
	levelNeed
	levelMethod
)

// allMethodsLabel is appended to the needs list to show every methodology
// tagged for the scenario.
const allMethodsLabel = "查看该场景的全部方法"

type needsMsg struct {
	Needs []catalog.ScenarioNeed
	Err   error
}

type methodsMsg struct {
	Title   string
	Methods []catalog.Methodology
	Err     error
}

// ScenariosScreen narrows the catalog from a usage scenario to a concrete
// need and then to the methodologies that serve it.
type ScenariosScreen struct {
	svc       *screen.Services
	scenarios []catalog.Scenario
	level     level
	scenario  catalog.Scenario
	needs     []catalog.ScenarioNeed
	methods   []catalog.Methodology
	title     string
	choice    components.Choice
	loading   bool
	err       error
}

var _ screen.Screen = (*ScenariosScreen)(nil)
var _ screen.KeyHintProvider = (*ScenariosScreen)(nil)
var _ screen.EscHandler = (*ScenariosScreen)(nil)

// New creates a ScenariosScreen at the scenario list.
func New(svc *screen.Services) *ScenariosScreen {
	s := &ScenariosScreen{svc: svc, scenarios: catalog.Scenarios()}
	s.showScenarios(0)
	return s
}

func (s *ScenariosScreen) Init() tea.Cmd {
	return nil
}

func (s *ScenariosScreen) Title() string {
	return "场景选择"
}

func (s *ScenariosScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "选择"},
		{Key: "Enter", Description: "确认"},
		{Key: "Esc", Description: "返回"},
	}
}

// HandlesEsc is true below the top level so Esc steps back one level.
func (s *ScenariosScreen) HandlesEsc() bool {
	return s.level > levelScenario
}

func (s *ScenariosScreen) showScenarios(selected int) {
	names := make([]string, len(s.scenarios))
	for i, sc := range s.scenarios {
		names[i] = sc.Name
	}
	s.level = levelScenario
	s.choice = components.NewChoice("你现在处于什么场景？", names)
	s.choice.Selected = selected
}

func (s *ScenariosScreen) showNeeds(selected int) {
	names := make([]string, 0, len(s.needs)+1)
	for _, n := range s.needs {
		names = append(names, n.Name)
	}
	names = append(names, allMethodsLabel)
	s.level = levelNeed
	s.choice = components.NewChoice(s.scenario.Name+" · 你想解决什么问题？", names)
	s.choice.Selected = selected
}

func (s *ScenariosScreen) showMethods() {
	names := make([]string, len(s.methods))
	details := make([]string, len(s.methods))
	for i, m := range s.methods {
		names[i] = m.Name
		details[i] = m.Category + " · " + m.Difficulty
	}
	s.level = levelMethod
	s.choice = components.NewChoice(s.title, names)
	s.choice.Details = details
}

func (s *ScenariosScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case needsMsg:
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.needs = msg.Needs
		s.showNeeds(0)
		return s, nil

	case methodsMsg:
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.methods = msg.Methods
		s.title = msg.Title
		s.showMethods()
		return s, nil

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		if msg.String() == "esc" {
			s.back()
			return s, nil
		}
		s.err = nil
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if i, ok := s.choice.Chosen(); ok {
			return s, s.choose(i)
		}
		return s, cmd
	}
	return s, nil
}

func (s *ScenariosScreen) back() {
	s.err = nil
	switch s.level {
	case levelMethod:
		s.showNeeds(0)
	case levelNeed:
		s.showScenarios(indexOf(s.scenarios, s.scenario.ID))
	}
}

func (s *ScenariosScreen) choose(i int) tea.Cmd {
	switch s.level {
	case levelScenario:
		s.scenario = s.scenarios[i]
		s.loading = true
		c, id := s.svc.Catalog, s.scenario.ID
		return func() tea.Msg {
			needs, err := c.NeedsFor(context.Background(), id)
			return needsMsg{Needs: needs, Err: err}
		}

	case levelNeed:
		s.loading = true
		if i == len(s.needs) {
			return s.loadScenarioMethods()
		}
		return s.loadNeedMethods(s.needs[i])

	default:
		d := detail.New(s.svc, s.methods[i])
		s.choice = s.choice.Reset()
		return func() tea.Msg { return router.PushScreenMsg{Screen: d} }
	}
}

func (s *ScenariosScreen) loadScenarioMethods() tea.Cmd {
	c, sc := s.svc.Catalog, s.scenario
	return func() tea.Msg {
		ms, err := c.ByScenario(context.Background(), sc.ID)
		return methodsMsg{Title: sc.Name + " · 全部方法", Methods: ms, Err: err}
	}
}

// loadNeedMethods resolves the need's keys, skipping keys no longer in the
// catalog.
func (s *ScenariosScreen) loadNeedMethods(need catalog.ScenarioNeed) tea.Cmd {
	c, log := s.svc.Catalog, s.svc.Log
	return func() tea.Msg {
		var ms []catalog.Methodology
		for _, key := range need.Methods {
			m, err := c.GetByKey(context.Background(), key)
			if errors.Is(err, catalog.ErrNotFound) {
				log.Warn("scenario need references unknown methodology", "need", need.ID, "key", key)
				continue
			}
			if err != nil {
				return methodsMsg{Err: err}
			}
			ms = append(ms, m)
		}
		return methodsMsg{Title: need.Name + " · 推荐方法", Methods: ms}
	}
}

func (s *ScenariosScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(s.breadcrumb())
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(theme.Hint.Render("加载中…"))
	case s.level == levelMethod && len(s.methods) == 0:
		b.WriteString(theme.Body.Bold(true).Render(s.title))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("暂无可用的方法论"))
	default:
		b.WriteString(s.choice.View())
	}
	if s.err != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render("加载失败：" + s.err.Error()))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(b.String())
}

func (s *ScenariosScreen) breadcrumb() string {
	parts := []string{"场景"}
	if s.level >= levelNeed {
		parts = append(parts, s.scenario.Name)
	}
	if s.level == levelMethod {
		parts = append(parts, "方法")
	}
	return theme.Hint.Render(strings.Join(parts, " › "))
}

func indexOf(scenarios []catalog.Scenario, id string) int {
	for i, sc := range scenarios {
		if sc.ID == id {
			return i
		}
	}
	return 0
}
