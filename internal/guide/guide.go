package guide

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/methodo/internal/catalog"
)

// QuestionType distinguishes asked questions from the final recommendation.
type QuestionType string

const (
	TypeSingle         QuestionType = "single"
	TypeRecommendation QuestionType = "recommendation"
)

// RecommendationText is the prompt shown with a direct recommendation.
const RecommendationText = "根据你的需求，推荐以下方法："

// DirectConfidence is the confidence attached to a direct recommendation.
const DirectConfidence = 0.9

// Option is one answer to a guide question. At most one of Next and Method
// is set.
type Option struct {
	ID          string      `yaml:"id"`
	Text        string      `yaml:"text"`
	Description string      `yaml:"description"`
	Next        string      `yaml:"next,omitempty"`
	Method      catalog.Key `yaml:"method,omitempty"`
}

// Question is a step in the conversation. Recommendation questions carry
// Methods and Confidence instead of Options.
type Question struct {
	ID         string        `yaml:"id"`
	Text       string        `yaml:"question"`
	Type       QuestionType  `yaml:"type"`
	Options    []Option      `yaml:"options,omitempty"`
	Methods    []catalog.Key `yaml:"methods,omitempty"`
	Confidence float64       `yaml:"confidence,omitempty"`
}

// Option returns the option with the given id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Metadata describes the question set.
type Metadata struct {
	Version            string `yaml:"version"`
	Description        string `yaml:"description"`
	EstimatedQuestions int    `yaml:"estimatedQuestions"`
}

// Guide is an immutable question graph.
type Guide struct {
	meta      Metadata
	start     string
	questions []Question
	byID      map[string]int
}

type guideFile struct {
	Metadata  Metadata   `yaml:"metadata"`
	Start     string     `yaml:"start"`
	Questions []Question `yaml:"questions"`
}

//go:embed data/questions.yaml
var questionsYAML []byte

var defaultGuide *Guide

func init() {
	g, err := Parse(questionsYAML)
	if err != nil {
		panic(err)
	}
	defaultGuide = g
}

// Default returns the shipped guide.
func Default() *Guide { return defaultGuide }

// Parse decodes a YAML question set.
func Parse(data []byte) (*Guide, error) {
	var f guideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse guide: %w", err)
	}
	if f.Start == "" {
		f.Start = "start"
	}
	g := &Guide{
		meta:      f.Metadata,
		start:     f.Start,
		questions: f.Questions,
		byID:      make(map[string]int, len(f.Questions)),
	}
	for i, q := range g.questions {
		if q.Type == "" {
			g.questions[i].Type = TypeSingle
		}
		if _, dup := g.byID[q.ID]; !dup {
			g.byID[q.ID] = i
		}
	}
	return g, nil
}

// Metadata returns the question set description.
func (g *Guide) Metadata() Metadata { return g.meta }

// Question returns the question with the given id.
func (g *Guide) Question(id string) (Question, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Question{}, false
	}
	return g.questions[i], true
}

// Start returns the opening question.
func (g *Guide) Start() Question {
	q, _ := g.Question(g.start)
	return q
}

// Next returns the question that follows choosing optionID on currentID.
// An option naming a method yields a recommendation question. ok is false
// for unknown questions or options, and for options leading nowhere.
func (g *Guide) Next(currentID, optionID string, _ Conversation) (q Question, ok bool) {
	cur, ok := g.Question(currentID)
	if !ok {
		return Question{}, false
	}
	opt, ok := cur.Option(optionID)
	if !ok {
		return Question{}, false
	}
	if opt.Method != "" {
		return Question{
			ID:         "recommend_" + string(opt.Method),
			Text:       RecommendationText,
			Type:       TypeRecommendation,
			Methods:    []catalog.Key{opt.Method},
			Confidence: DirectConfidence,
		}, true
	}
	if opt.Next != "" {
		return g.Question(opt.Next)
	}
	return Question{}, false
}

// Answer records one choice in a conversation.
type Answer struct {
	QuestionID string
	Question   string
	OptionID   string
	Text       string
}

// Conversation is the list of choices made so far.
type Conversation struct {
	Answers []Answer
}

// Add appends a choice.
func (c *Conversation) Add(q Question, o Option) {
	c.Answers = append(c.Answers, Answer{QuestionID: q.ID, Question: q.Text, OptionID: o.ID, Text: o.Text})
}

// Last returns the most recent choice.
func (c Conversation) Last() (Answer, bool) {
	if len(c.Answers) == 0 {
		return Answer{}, false
	}
	return c.Answers[len(c.Answers)-1], true
}

// Recommendation is a rule-based suggestion derived from a conversation.
type Recommendation struct {
	Methods    []catalog.Key
	Confidence float64
	Reasoning  string
}

// Recommend picks methodologies from the last answer in the conversation.
func Recommend(c Conversation) Recommendation {
	last, _ := c.Last()
	switch {
	case strings.Contains(last.OptionID, "analyze"):
		return Recommendation{
			Methods:    []catalog.Key{"5W2H", "MECE"},
			Confidence: 0.85,
			Reasoning:  "基于你的分析需求，这些方法能帮助你系统化地梳理问题",
		}
	case strings.Contains(last.OptionID, "decide"):
		return Recommendation{
			Methods:    []catalog.Key{"权衡矩阵", "逆向提问"},
			Confidence: 0.82,
			Reasoning:  "这些方法能帮助你理性地做出决策",
		}
	default:
		return Recommendation{
			Methods:    []catalog.Key{"5W2H"},
			Confidence: 0.7,
			Reasoning:  "5W2H 是一个通用且易上手的分析方法",
		}
	}
}
