package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/methodo/internal/llm"
	"github.com/abhisek/methodo/internal/logging"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 5 * time.Second

// Provider names accepted by NewProvider.
const (
	ProviderScripted = "scripted"
	ProviderMock     = "mock"
)

// NewProvider builds the named provider wrapped with validation and logging.
func NewProvider(name string, log *logging.Logger) (llm.Provider, error) {
	var base llm.Provider
	switch name {
	case ProviderScripted, "":
		base = NewScriptedProvider()
	case ProviderMock:
		base = llm.NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown assist provider: %q", name)
	}
	// caller → logging → validation → base
	return llm.WithLogging(llm.WithValidation(base), log), nil
}

// Service generates answer suggestions and diagrams through a Provider.
type Service struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewService creates a Service. timeout <= 0 means DefaultTimeout.
func NewService(provider llm.Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{provider: provider, timeout: timeout}
}

// Suggestions returns candidate answers for a practice question.
func (s *Service) Suggestions(ctx context.Context, req SuggestionRequest) ([]Suggestion, error) {
	ctx, cancel := s.callContext(ctx, "answer-suggestions")
	defer cancel()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:   "为方法论练习中的问题给出三条候选回答。",
		Messages: llm.UserMessage(req.Question),
		Schema:   suggestionsSchema,
		Params: map[string]string{
			ParamContext:         req.Context,
			ParamQuestion:        req.Question,
			ParamMethodologyName: req.MethodologyName,
		},
	})
	if err != nil {
		return nil, &GenerationError{Op: "suggestions", Err: err}
	}

	var out suggestionsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &GenerationError{Op: "suggestions", Err: fmt.Errorf("decode: %w", err)}
	}
	return out.Suggestions, nil
}

// Diagram generates Mermaid source for prompt. A blank prompt fails with
// ErrEmptyPrompt before any generation is attempted.
func (s *Service) Diagram(ctx context.Context, prompt string) (Diagram, error) {
	if strings.TrimSpace(prompt) == "" {
		return Diagram{}, ErrEmptyPrompt
	}
	ctx, cancel := s.callContext(ctx, "mermaid-diagram")
	defer cancel()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:   "根据问答内容生成 Mermaid 图形代码。",
		Messages: llm.UserMessage(prompt),
		Schema:   diagramSchema,
	})
	if err != nil {
		return Diagram{}, &GenerationError{Op: "diagram", Err: err}
	}

	var out diagramOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Diagram{}, &GenerationError{Op: "diagram", Err: fmt.Errorf("decode: %w", err)}
	}
	return Diagram{Code: out.MermaidCode, Source: out.Source, DetectedType: out.DetectedType}, nil
}

func (s *Service) callContext(ctx context.Context, purpose string) (context.Context, context.CancelFunc) {
	ctx = llm.WithRequestID(llm.WithPurpose(ctx, purpose))
	return context.WithTimeout(ctx, s.timeout)
}
