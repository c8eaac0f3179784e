package practice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/methodo/internal/catalog"
)

func TestStats_Empty(t *testing.T) {
	s, _ := newTestStore(t)
	st, err := s.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, st.TotalPractices)
	assert.Equal(t, 0, st.TotalMethodologies)
	assert.Equal(t, 0, st.RecentActivity)
	assert.Equal(t, catalog.Key(""), st.FavoriteMethodology)
	assert.Equal(t, 0, st.PracticeStreak)
	assert.Empty(t, st.TopMethodologies)
	for _, d := range st.DailyActivity {
		assert.Zero(t, d.Count)
	}
}

func TestStats_Streak(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 00:30 local is still the previous day in UTC.
	now := time.Date(2026, 5, 10, 0, 30, 0, 0, loc)
	day := func(offset int) time.Time {
		return time.Date(2026, 5, 10+offset, 0, 10, 0, 0, loc)
	}

	tests := []struct {
		name    string
		records []Record
		want    int
	}{
		{"none", nil, 0},
		{"today only", []Record{rec(day(0), "A")}, 1},
		{"three consecutive", []Record{rec(day(0), "A"), rec(day(-1), "A"), rec(day(-2), "B")}, 3},
		{"gap at today", []Record{rec(day(-1), "A"), rec(day(-2), "A")}, 0},
		{"gap in the middle", []Record{rec(day(0), "A"), rec(day(-2), "A"), rec(day(-3), "A")}, 1},
		{"many on one day", []Record{rec(day(0), "A"), rec(day(0).Add(time.Minute), "A")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.records, now).PracticeStreak)
		})
	}
}

func TestStats_Aggregates(t *testing.T) {
	records := []Record{
		rec(fixedNow.Add(-1*time.Hour), "MECE"),
		rec(fixedNow.Add(-2*time.Hour), "5W2H"),
		rec(fixedNow.Add(-3*time.Hour), "MECE"),
		rec(fixedNow.Add(-10*24*time.Hour), "5W2H"),
		rec(fixedNow.Add(-7*24*time.Hour), "STAR"),
	}
	st := ComputeStats(records, fixedNow)

	assert.Equal(t, 5, st.TotalPractices)
	assert.Equal(t, 3, st.TotalMethodologies)
	assert.Equal(t, map[catalog.Key]int{"MECE": 2, "5W2H": 2, "STAR": 1}, st.ByMethodology)
	assert.Equal(t, 2, st.ByCategory["cat-MECE"])
	assert.Equal(t, 3, st.RecentActivity, "exactly seven days old is outside the window")

	// MECE and 5W2H tie at 2; "5W2H" sorts first.
	assert.Equal(t, catalog.Key("5W2H"), st.FavoriteMethodology)
	require.Len(t, st.TopMethodologies, 3)
	assert.Equal(t, catalog.Key("5W2H"), st.TopMethodologies[0].Key)
	assert.Equal(t, "5W2H name", st.TopMethodologies[0].Name)
	assert.Equal(t, catalog.Key("MECE"), st.TopMethodologies[1].Key)
	assert.Equal(t, 1, st.TopMethodologies[2].Count)

	last := st.DailyActivity[len(st.DailyActivity)-1]
	assert.Equal(t, "2026-03-14", last.Date)
	assert.Equal(t, 3, last.Count)
	assert.Equal(t, "2026-03-08", st.DailyActivity[0].Date)
}

func TestStats_TotalMethodologiesMatchesDistinct(t *testing.T) {
	keys := []catalog.Key{"A", "B", "A", "C", "B", "A"}
	var records []Record
	distinct := map[catalog.Key]bool{}
	for i, k := range keys {
		records = append(records, rec(fixedNow.Add(-time.Duration(i)*time.Minute), k))
		distinct[k] = true
	}
	assert.Equal(t, len(distinct), ComputeStats(records, fixedNow).TotalMethodologies)
}

func TestStats_TopLimit(t *testing.T) {
	var records []Record
	for i, k := range []catalog.Key{"A", "B", "C", "D", "E", "F", "G"} {
		records = append(records, rec(fixedNow.Add(-time.Duration(i)*time.Minute), k))
	}
	st := ComputeStats(records, fixedNow)
	assert.Len(t, st.TopMethodologies, TopLimit)
	assert.Equal(t, catalog.Key("A"), st.FavoriteMethodology)
}

func TestStats_MalformedTimestampCountsOnlyInTotals(t *testing.T) {
	bad := rec(fixedNow, "A")
	bad.Timestamp = "yesterday-ish"
	st := ComputeStats([]Record{bad}, fixedNow)
	assert.Equal(t, 1, st.TotalPractices)
	assert.Equal(t, 0, st.RecentActivity)
	assert.Equal(t, 0, st.PracticeStreak)
}
