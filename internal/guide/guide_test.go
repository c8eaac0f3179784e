package guide

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/methodo/internal/catalog"
)

func TestDefault_Validates(t *testing.T) {
	if err := Default().Validate(catalog.BuiltinKeys()); err != nil {
		t.Fatalf("shipped guide validation failed: %v", err)
	}
	assert.Equal(t, "start", Default().Start().ID)
	assert.NotEmpty(t, Default().Metadata().Version)
}

func TestNext(t *testing.T) {
	g := Default()

	q, ok := g.Next("start", "analyze_problem", Conversation{})
	require.True(t, ok)
	assert.Equal(t, "analyze_depth", q.ID)
	assert.Equal(t, TypeSingle, q.Type)

	rec, ok := g.Next("analyze_depth", "analyze_root", Conversation{})
	require.True(t, ok)
	assert.Equal(t, "recommend_5Why", rec.ID)
	assert.Equal(t, TypeRecommendation, rec.Type)
	assert.Equal(t, []catalog.Key{"5Why"}, rec.Methods)
	assert.Equal(t, DirectConfidence, rec.Confidence)
	assert.Equal(t, RecommendationText, rec.Text)

	_, ok = g.Next("nope", "analyze_problem", Conversation{})
	assert.False(t, ok)
	_, ok = g.Next("start", "nope", Conversation{})
	assert.False(t, ok)
}

func TestEveryConversationEndsInRecommendation(t *testing.T) {
	g := Default()
	var walk func(q Question, depth int)
	walk = func(q Question, depth int) {
		if depth > 10 {
			t.Fatalf("conversation too deep at %q", q.ID)
		}
		for _, o := range q.Options {
			next, ok := g.Next(q.ID, o.ID, Conversation{})
			if !ok {
				t.Errorf("%s/%s leads nowhere", q.ID, o.ID)
				continue
			}
			if next.Type == TypeRecommendation {
				continue
			}
			walk(next, depth+1)
		}
	}
	walk(g.Start(), 0)
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name     string
		optionID string
		want     []catalog.Key
		conf     float64
	}{
		{"analyze", "analyze_root", []catalog.Key{"5W2H", "MECE"}, 0.85},
		{"decide", "decide_risk", []catalog.Key{"权衡矩阵", "逆向提问"}, 0.82},
		{"default", "express_leader", []catalog.Key{"5W2H"}, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Conversation
			c.Add(Question{ID: "q"}, Option{ID: tt.optionID, Text: "x"})
			got := Recommend(c)
			assert.Equal(t, tt.want, got.Methods)
			assert.Equal(t, tt.conf, got.Confidence)
			assert.NotEmpty(t, got.Reasoning)
		})
	}

	assert.Equal(t, []catalog.Key{"5W2H"}, Recommend(Conversation{}).Methods, "empty conversation gets the default")
}

func TestConversation(t *testing.T) {
	var c Conversation
	_, ok := c.Last()
	assert.False(t, ok)

	start := Default().Start()
	c.Add(start, start.Options[1])
	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "start", last.QuestionID)
	assert.Equal(t, start.Options[1].ID, last.OptionID)
	assert.Equal(t, start.Text, last.Question)
}

func TestValidate_Detects(t *testing.T) {
	src := `
start: begin
questions:
- id: start
  question: q
  options:
  - id: a
    text: a
    next: ghost
  - id: b
    text: b
  - id: c
    text: c
    method: Z
  - id: a
    text: dup
    method: X
`
	g, err := Parse([]byte(src))
	require.NoError(t, err)
	err = g.Validate(map[catalog.Key]bool{"X": true})
	require.Error(t, err)
	for _, want := range []string{`start question "begin"`, "ghost", "neither", `unknown methodology "Z"`, "duplicated"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}
