package assist

import (
	"errors"
	"fmt"
)

// Suggestion is a candidate answer with a confidence in [0, 1].
type Suggestion struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// SuggestionRequest carries the practice state a suggestion is made for.
type SuggestionRequest struct {
	Context         string
	Question        string
	MethodologyName string
	PreviousAnswers []string
}

// Diagram is generated Mermaid source.
type Diagram struct {
	Code         string `json:"code"`
	Source       string `json:"source"`
	DetectedType string `json:"detectedType"`
}

// QA is a question with its answer, used to build diagram prompts.
type QA struct {
	Question string
	Answer   string
}

// ErrEmptyPrompt is returned when a diagram is requested without a prompt.
var ErrEmptyPrompt = errors.New("请提供有效的提示词")

// GenerationError wraps any failure to produce suggestions or a diagram.
// Callers show it as a retryable failure; nothing is retried automatically.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage is the text shown for a GenerationError.
const UserMessage = "生成失败，请重试"
