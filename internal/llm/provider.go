package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured content for a request. Implementations in
// this module are deterministic and local; none talk to a model service.
type Provider interface {
	// Generate returns content for req. When req.Schema is set, Content is
	// a JSON value expected to conform to it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the generator, used in logs.
	ModelID() string
}

// Request describes what to generate.
type Request struct {
	// System sets the generator's role and constraints.
	System string

	// Messages is the conversation. Single-shot generation uses one user
	// message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	Schema *Schema

	// Params carries structured inputs alongside the prompt text, for
	// generators that branch on fields rather than free text.
	Params map[string]string
}

// Prompt returns the content of the last user message.
func (r Request) Prompt() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema defines the JSON structure expected in a response.
type Schema struct {
	// Name identifies the schema and keys the compiled-schema cache.
	// Kebab-case, e.g. "answer-suggestions".
	Name string

	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds generated output.
type Response struct {
	// Content is the generated JSON.
	Content json.RawMessage

	// Model is the generator that served the request.
	Model string

	// StopReason is "end" or "error".
	StopReason string
}
