package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/methodo/internal/catalog"
	"github.com/abhisek/methodo/internal/practice"
	"github.com/abhisek/methodo/internal/screen"
	"github.com/abhisek/methodo/internal/screen/screentest"
)

func TestEmptyState(t *testing.T) {
	svc, _ := screentest.Services(t)
	d := New(svc)
	d.Update(d.Init()())

	if !strings.Contains(d.View(100, 30), "还没有练习记录") {
		t.Error("expected empty-state message")
	}
}

func TestShowsTotalsAndTop(t *testing.T) {
	svc, _ := screentest.Services(t)
	now := time.Now()
	for i, key := range []string{"5Why", "5Why", "MECE"} {
		m := screentest.Methodology(t, catalog.Key(key))
		rec, err := practice.NewRecord(m, "复盘", []string{"原因"}, "", now.Add(-time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.Practice.Save(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}

	d := New(svc)
	d.Update(d.Init()())

	if d.stats.TotalPractices != 3 {
		t.Errorf("TotalPractices = %d, want 3", d.stats.TotalPractices)
	}
	if len(d.recent) != 3 {
		t.Errorf("recent = %d, want 3", len(d.recent))
	}
	view := d.View(120, 60)
	for _, want := range []string{"最近 7 天", "最常练习", "★ 5 Why"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReloadsOnStatsChanged(t *testing.T) {
	svc, _ := screentest.Services(t)
	d := New(svc)
	d.Update(d.Init()())

	m := screentest.Methodology(t, "STAR")
	rec, err := practice.NewRecord(m, "面试", []string{"情境"}, "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Practice.Save(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	_, cmd := d.Update(screen.StatsChangedMsg{})
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	d.Update(cmd())
	if d.stats.TotalPractices != 1 {
		t.Errorf("TotalPractices = %d, want 1", d.stats.TotalPractices)
	}
}
