package assist

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/methodo/internal/llm"
)

// Request parameter names understood by ScriptedProvider.
const (
	ParamContext         = "context"
	ParamQuestion        = "question"
	ParamMethodologyName = "methodologyName"
)

// SourceExample tags diagrams taken from the built-in examples.
const SourceExample = "example"

// ScriptedProvider answers assist requests from keyword rules and a fixed
// diagram table. It needs no network and is deterministic.
type ScriptedProvider struct{}

// NewScriptedProvider creates a ScriptedProvider.
func NewScriptedProvider() *ScriptedProvider { return &ScriptedProvider{} }

func (p *ScriptedProvider) ModelID() string { return "scripted" }

func (p *ScriptedProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Schema == nil {
		return nil, fmt.Errorf("scripted provider requires a schema")
	}

	var out any
	switch req.Schema.Name {
	case suggestionsSchema.Name:
		out = suggestionsOutput{Suggestions: ScriptedSuggestions(SuggestionRequest{
			Context:         req.Params[ParamContext],
			Question:        req.Params[ParamQuestion],
			MethodologyName: req.Params[ParamMethodologyName],
		})}
	case diagramSchema.Name:
		t := MatchDiagram(req.Prompt())
		out = diagramOutput{MermaidCode: t.Code, Source: SourceExample, DetectedType: t.Type}
	default:
		return nil, fmt.Errorf("scripted provider has no rules for schema %q", req.Schema.Name)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal scripted output: %w", err)
	}
	return &llm.Response{Content: data, Model: p.ModelID(), StopReason: "end"}, nil
}

// ScriptedSuggestions returns three suggestions chosen by keywords in the
// question text.
func ScriptedSuggestions(req SuggestionRequest) []Suggestion {
	q := req.Question
	switch {
	case strings.Contains(q, "为什么") || strings.Contains(q, "原因"):
		return []Suggestion{
			{Text: fmt.Sprintf("从%s的情况来看，可能是沟通不畅导致的", truncateRunes(req.Context, 20)), Confidence: 0.8},
			{Text: "资源分配不合理可能是关键因素", Confidence: 0.75},
			{Text: "流程设计存在瓶颈，需要优化", Confidence: 0.7},
		}
	case strings.Contains(q, "如何") || strings.Contains(q, "怎么"):
		return []Suggestion{
			{Text: "建议先梳理现有流程，找出痛点", Confidence: 0.85},
			{Text: "可以尝试引入敏捷方法，提高响应速度", Confidence: 0.75},
			{Text: "加强团队协作，定期同步进度", Confidence: 0.8},
		}
	case strings.Contains(q, "什么") || strings.Contains(q, "哪些"):
		return []Suggestion{
			{Text: "关键要素包括：目标明确、资源充足、执行到位", Confidence: 0.8},
			{Text: "需要考虑时间、成本、质量三个维度", Confidence: 0.75},
			{Text: "团队能力、工具支持、管理机制都很重要", Confidence: 0.7},
		}
	default:
		return []Suggestion{
			{Text: fmt.Sprintf("基于%s的思路，建议从系统角度分析", req.MethodologyName), Confidence: 0.75},
			{Text: "可以参考行业最佳实践，结合实际情况调整", Confidence: 0.7},
			{Text: "建议分阶段实施，先做小范围试点", Confidence: 0.8},
		}
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// DiagramTemplate is an example diagram and the prompt keywords that select it.
type DiagramTemplate struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
	Code     string   `yaml:"code"`
}

//go:embed data/diagrams.yaml
var diagramFS embed.FS

var diagramTemplates []DiagramTemplate

func init() {
	raw, err := diagramFS.ReadFile("data/diagrams.yaml")
	if err != nil {
		panic(err)
	}
	var f struct {
		Diagrams []DiagramTemplate `yaml:"diagrams"`
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		panic(fmt.Errorf("parse diagrams: %w", err))
	}
	diagramTemplates = f.Diagrams
}

// MatchDiagram returns the first template whose keyword occurs in prompt,
// or the fallback template.
func MatchDiagram(prompt string) DiagramTemplate {
	var fallback DiagramTemplate
	for _, t := range diagramTemplates {
		if len(t.Keywords) == 0 {
			fallback = t
			continue
		}
		for _, kw := range t.Keywords {
			if strings.Contains(prompt, kw) {
				return t
			}
		}
	}
	return fallback
}

// DiagramTemplates returns the built-in examples in match order.
func DiagramTemplates() []DiagramTemplate {
	return append([]DiagramTemplate(nil), diagramTemplates...)
}
