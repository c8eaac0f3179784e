package practice

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/methodo/internal/catalog"
)

var sampleMethodology = catalog.Methodology{
	Key:         "STAR",
	Name:        "STAR 法",
	Category:    "结构化提问",
	Description: "d",
	Tags:        []string{"复盘"},
	Questions:   []catalog.Question{{Text: "S?"}, {Text: "T?"}, {Text: "A?"}},
}

func TestNewRecord_Validation(t *testing.T) {
	tests := []struct {
		name    string
		context string
		answers []string
		want    string
	}{
		{"blank context", "   ", []string{"a"}, MsgContextRequired},
		{"no answers", "ctx", nil, MsgAnswerRequired},
		{"whitespace answers", "ctx", []string{" ", "\n"}, MsgAnswerRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord(sampleMethodology, tt.context, tt.answers, "", fixedNow)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Message != tt.want {
				t.Errorf("Message = %q, want %q", ve.Message, tt.want)
			}
		})
	}
}

func TestNewRecord_NoQuestions(t *testing.T) {
	empty := catalog.Methodology{Key: "X", Name: "X"}
	_, err := NewRecord(empty, "ctx", []string{"a"}, "", fixedNow)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "err = %v", err)
	assert.Equal(t, "questions", ve.Field)
	assert.Equal(t, MsgNoQuestions, ve.Message)
}

func TestNewRecord_Builds(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 600, time.FixedZone("x", 3600))
	r, err := NewRecord(sampleMethodology, "  team slipped  ", []string{"", " did it "}, " learned ", now)
	require.NoError(t, err)

	assert.Equal(t, "2026-01-02T02:04:05.0000006Z", r.Timestamp)
	assert.Equal(t, catalog.Key("STAR"), r.Methodology)
	assert.Equal(t, "team slipped", r.Context)
	assert.Equal(t, "learned", r.Reflection)
	require.Len(t, r.QuestionAnswers, 3)
	assert.Equal(t, QuestionAnswer{QuestionNumber: 2, Question: "T?", Answer: "did it"}, r.QuestionAnswers[1])
	assert.Equal(t, "", r.QuestionAnswers[2].Answer)
	assert.Equal(t, 1, r.Answered())

	parsed, ok := r.Time()
	require.True(t, ok)
	assert.True(t, parsed.Equal(now))
}

func TestRecord_JSONFieldNames(t *testing.T) {
	r, err := NewRecord(sampleMethodology, "c", []string{"a"}, "", fixedNow)
	require.NoError(t, err)
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, k := range []string{"timestamp", "methodology", "methodologyName", "methodologyCategory",
		"methodologyDescription", "methodologyTags", "context", "questionAnswers", "reflection"} {
		assert.Contains(t, m, k)
	}
	qa := m["questionAnswers"].([]any)[0].(map[string]any)
	assert.Contains(t, qa, "questionNumber")
}

func TestFilenames(t *testing.T) {
	now := time.Date(2026, 7, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "methodology-practice-2026-07-09.json", ExportFilename(now))
	assert.Equal(t, "STAR 法-2026-07-09.json", RecordFilename(Record{MethodologyName: "STAR 法"}, now))
}

func TestExportRecord(t *testing.T) {
	r, err := NewRecord(sampleMethodology, "c", []string{"a"}, "", fixedNow)
	require.NoError(t, err)
	out, err := ExportRecord(r)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	assert.Equal(t, r, back)
	assert.Contains(t, out, "\n  \"timestamp\"")
}
