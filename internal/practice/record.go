package practice

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/methodo/internal/catalog"
)

// Messages shown when a submission is incomplete.
const (
	MsgContextRequired = "请填写问题描述！"
	MsgAnswerRequired  = "请至少回答一个问题！"
	MsgNoQuestions     = "此方法论没有问题"
)

// NewRecord builds a record from a finished practice session. answers is
// indexed like m.Questions; missing entries are recorded as empty answers.
// Context and answers are trimmed. A methodology without questions, a blank
// context or a session with no answered question fails with *ValidationError.
func NewRecord(m catalog.Methodology, context string, answers []string, reflection string, now time.Time) (Record, error) {
	if len(m.Questions) == 0 {
		return Record{}, &ValidationError{Field: "questions", Message: MsgNoQuestions}
	}
	context = strings.TrimSpace(context)
	if context == "" {
		return Record{}, &ValidationError{Field: "context", Message: MsgContextRequired}
	}

	qas := make([]QuestionAnswer, len(m.Questions))
	answered := 0
	for i, q := range m.Questions {
		var a string
		if i < len(answers) {
			a = strings.TrimSpace(answers[i])
		}
		if a != "" {
			answered++
		}
		qas[i] = QuestionAnswer{QuestionNumber: i + 1, Question: q.Text, Answer: a}
	}
	if answered == 0 {
		return Record{}, &ValidationError{Field: "answers", Message: MsgAnswerRequired}
	}

	tags := append([]string{}, m.Tags...)
	return Record{
		Timestamp:              now.UTC().Format(time.RFC3339Nano),
		Methodology:            m.Key,
		MethodologyName:        m.Name,
		MethodologyCategory:    m.Category,
		MethodologyDescription: m.Description,
		MethodologyTags:        tags,
		Context:                context,
		QuestionAnswers:        qas,
		Reflection:             strings.TrimSpace(reflection),
	}, nil
}

// ExportFilename is the download name for the full history.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("methodology-practice-%s.json", now.Format(dateLayout))
}

// RecordFilename is the download name for a single record.
func RecordFilename(r Record, now time.Time) string {
	return fmt.Sprintf("%s-%s.json", r.MethodologyName, now.Format(dateLayout))
}

// ExportRecord serializes a single record as indented JSON.
func ExportRecord(r Record) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return string(data), nil
}
