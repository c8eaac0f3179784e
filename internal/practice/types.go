package practice

import (
	"time"

	"github.com/abhisek/methodo/internal/catalog"
)

// QuestionAnswer is the user's answer to one methodology question.
type QuestionAnswer struct {
	QuestionNumber int    `json:"questionNumber"` // 1-based
	Question       string `json:"question"`
	Answer         string `json:"answer"`
}

// Record is one completed practice session. Timestamp is its unique key.
type Record struct {
	Timestamp              string           `json:"timestamp"`
	Methodology            catalog.Key      `json:"methodology"`
	MethodologyName        string           `json:"methodologyName"`
	MethodologyCategory    string           `json:"methodologyCategory"`
	MethodologyDescription string           `json:"methodologyDescription"`
	MethodologyTags        []string         `json:"methodologyTags"`
	ContextTitle           string           `json:"contextTitle,omitempty"`
	Context                string           `json:"context"`
	QuestionAnswers        []QuestionAnswer `json:"questionAnswers"`
	Reflection             string           `json:"reflection"`
}

// Time parses the record timestamp. ok is false for malformed timestamps.
func (r Record) Time() (t time.Time, ok bool) {
	t, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Answered returns the number of non-empty answers.
func (r Record) Answered() int {
	n := 0
	for _, qa := range r.QuestionAnswers {
		if qa.Answer != "" {
			n++
		}
	}
	return n
}

// DayCount is the number of records on one local calendar day.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// TopMethodology is a frequently practiced methodology with display fields
// taken from its most recent record.
type TopMethodology struct {
	Key      catalog.Key `json:"key"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Tags     []string    `json:"tags"`
	Count    int         `json:"count"`
}

// Stats is derived from the full record collection on every read.
type Stats struct {
	TotalPractices      int                 `json:"totalPractices"`
	TotalMethodologies  int                 `json:"totalMethodologies"`
	ByMethodology       map[catalog.Key]int `json:"byMethodology"`
	ByCategory          map[string]int      `json:"byCategory"`
	RecentActivity      int                 `json:"recentActivity"`
	DailyActivity       [7]DayCount         `json:"dailyActivity"`
	FavoriteMethodology catalog.Key         `json:"favoriteMethodology,omitempty"` // "" when there are no records
	TopMethodologies    []TopMethodology    `json:"topMethodologies"`
	PracticeStreak      int                 `json:"practiceStreak"`
}
