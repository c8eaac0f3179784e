package practice

import (
	"sort"
	"time"

	"github.com/abhisek/methodo/internal/catalog"
)

// RecentWindow is the trailing window counted by Stats.RecentActivity.
const RecentWindow = 7 * 24 * time.Hour

// TopLimit is the number of entries in Stats.TopMethodologies.
const TopLimit = 5

const dateLayout = "2006-01-02"

// ComputeStats derives Stats from records (newest first) as of now.
// Calendar days are taken in now's location. Records with malformed
// timestamps count toward totals but not toward any time-based figure.
func ComputeStats(records []Record, now time.Time) Stats {
	st := Stats{
		TotalPractices:   len(records),
		ByMethodology:    make(map[catalog.Key]int),
		ByCategory:       make(map[string]int),
		TopMethodologies: []TopMethodology{},
	}

	loc := now.Location()
	cutoff := now.Add(-RecentWindow)
	days := make(map[string]int)
	latest := make(map[catalog.Key]Record)

	for _, r := range records {
		st.ByMethodology[r.Methodology]++
		st.ByCategory[r.MethodologyCategory]++
		if _, ok := latest[r.Methodology]; !ok {
			latest[r.Methodology] = r
		}

		t, ok := r.Time()
		if !ok {
			continue
		}
		if t.After(cutoff) {
			st.RecentActivity++
		}
		days[t.In(loc).Format(dateLayout)]++
	}
	st.TotalMethodologies = len(st.ByMethodology)

	for i := range st.DailyActivity {
		d := now.AddDate(0, 0, i-(len(st.DailyActivity)-1)).Format(dateLayout)
		st.DailyActivity[i] = DayCount{Date: d, Count: days[d]}
	}

	ranked := rankMethodologies(st.ByMethodology)
	if len(ranked) > 0 {
		st.FavoriteMethodology = ranked[0]
	}
	for i, key := range ranked {
		if i == TopLimit {
			break
		}
		r := latest[key]
		st.TopMethodologies = append(st.TopMethodologies, TopMethodology{
			Key:      key,
			Name:     r.MethodologyName,
			Category: r.MethodologyCategory,
			Tags:     r.MethodologyTags,
			Count:    st.ByMethodology[key],
		})
	}

	st.PracticeStreak = streak(days, now)
	return st
}

// rankMethodologies orders keys by descending count, breaking ties by the
// lexicographically smallest key.
func rankMethodologies(counts map[catalog.Key]int) []catalog.Key {
	keys := make([]catalog.Key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// streak counts consecutive calendar days with a record, ending today.
// It is 0 when there is no record today.
func streak(days map[string]int, now time.Time) int {
	n := 0
	for {
		d := now.AddDate(0, 0, -n).Format(dateLayout)
		if days[d] == 0 {
			return n
		}
		n++
	}
}
