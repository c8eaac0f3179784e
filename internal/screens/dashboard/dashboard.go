package dashboard

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

type statsLoadedMsg struct {
	Stats  practice.Stats
	Recent []practice.Record
	Err    error
}

// DashboardScreen shows practice statistics: totals, the last seven days,
// the most practiced methodologies and recent records.
type DashboardScreen struct {
	svc    *screen.Services
	stats  practice.Stats
	recent []practice.Record
	loaded bool
	err    error
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates a DashboardScreen.
func New(svc *screen.Services) *DashboardScreen {
	return &DashboardScreen{svc: svc}
}

func (d *DashboardScreen) Init() tea.Cmd {
	users, ps, limit := d.svc.Users, d.svc.Practice, d.svc.RecentLimit
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := users.Stats(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		recent, err := ps.GetRecent(ctx, limit)
		return statsLoadedMsg{Stats: stats, Recent: recent, Err: err}
	}
}

func (d *DashboardScreen) Title() string {
	return "练习统计"
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		d.loaded = true
		d.err = msg.Err
		if msg.Err == nil {
			d.stats = msg.Stats
			d.recent = msg.Recent
		}
	case screen.StatsChangedMsg:
		return d, d.Init()
	}
	return d, nil
}

func (d *DashboardScreen) View(width, height int) string {
	style := lipgloss.NewStyle().Width(width).Height(height).Padding(1, 2)
	switch {
	case d.err != nil:
		return style.Render(theme.ErrorText.Render("加载失败：" + d.err.Error()))
	case !d.loaded:
		return style.Render(theme.Hint.Render("加载中…"))
	case d.stats.TotalPractices == 0:
		return style.Render(theme.Hint.Italic(true).Render("还没有练习记录，完成一次练习后这里会显示统计。"))
	}

	cw := components.ContentWidth(width)
	compact := layout.IsCompact(height)

	var b strings.Builder
	b.WriteString(d.renderTotals())
	b.WriteString("\n\n")
	b.WriteString(components.Card("最近 7 天", d.renderDaily(cw-4), cw))
	b.WriteString("\n")
	b.WriteString(components.Card("最常练习", d.renderTop(), cw))
	if !compact && len(d.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(components.Card("最近练习", d.renderRecent(), cw))
	}
	return style.Render(b.String())
}

func (d *DashboardScreen) renderTotals() string {
	s := d.stats
	items := []string{
		stat("练习次数", s.TotalPractices),
		stat("方法论", s.TotalMethodologies),
		stat("近 7 天", s.RecentActivity),
		stat("连续天数", s.PracticeStreak),
	}
	return strings.Join(items, "    ")
}

func stat(label string, n int) string {
	return theme.Heading.Render(fmt.Sprintf("%d", n)) + " " + theme.Hint.Render(label)
}

// renderDaily draws one bar per day scaled to the busiest day.
func (d *DashboardScreen) renderDaily(width int) string {
	peak := 0
	for _, dc := range d.stats.DailyActivity {
		peak = max(peak, dc.Count)
	}
	lines := make([]string, 0, len(d.stats.DailyActivity))
	for _, dc := range d.stats.DailyActivity {
		label := dc.Date
		if len(label) >= 10 {
			label = label[5:] // MM-DD
		}
		bar := components.NewProgressBar(label, dc.Count, peak, width-4).WithCount()
		lines = append(lines, bar.View())
	}
	return strings.Join(lines, "\n")
}

func (d *DashboardScreen) renderTop() string {
	if len(d.stats.TopMethodologies) == 0 {
		return theme.Hint.Render("暂无")
	}
	lines := make([]string, len(d.stats.TopMethodologies))
	for i, tm := range d.stats.TopMethodologies {
		name := tm.Name
		if tm.Key == d.stats.FavoriteMethodology {
			name = "★ " + name
		}
		lines[i] = fmt.Sprintf("%d. %s  %s  %s", i+1, name, components.Badge(tm.Category), theme.Hint.Render(fmt.Sprintf("%d 次", tm.Count)))
	}
	return strings.Join(lines, "\n")
}

func (d *DashboardScreen) renderRecent() string {
	lines := make([]string, len(d.recent))
	for i, r := range d.recent {
		when := r.Timestamp
		if t, ok := r.Time(); ok {
			when = t.Local().Format("01-02 15:04")
		}
		lines[i] = theme.Hint.Render(when) + "  " + r.MethodologyName
	}
	return strings.Join(lines, "\n")
}
