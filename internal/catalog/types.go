package catalog

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Key uniquely identifies a methodology (e.g. "5W2H"). Keys are chosen by the
// content author and never regenerated.
type Key string

// Question is the canonical form of a methodology prompt.
//
// Authored data may write a question as a bare string or as an object; both
// decode into Question so nothing downstream needs to care which was used.
type Question struct {
	Text         string   `json:"text" yaml:"text"`
	QuickOptions []string `json:"quickOptions,omitempty" yaml:"quickOptions,omitempty"`
	Placeholder  string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// questionFields avoids recursing into the custom unmarshalers.
type questionFields Question

func (q *Question) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*q = Question{Text: value.Value}
		return nil
	}
	var f questionFields
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("decode question: %w", err)
	}
	*q = Question(f)
	return nil
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = Question{Text: s}
		return nil
	}
	var f questionFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode question: %w", err)
	}
	*q = Question(f)
	return nil
}

// Methodology is a named, fixed question template.
type Methodology struct {
	Key                   Key        `json:"key,omitempty" yaml:"key"`
	Name                  string     `json:"name" yaml:"name"`
	Category              string     `json:"category" yaml:"category"`
	Description           string     `json:"description" yaml:"description"`
	Scenarios             []string   `json:"scenarios" yaml:"scenarios"`
	Difficulty            string     `json:"difficulty" yaml:"difficulty"`
	Tags                  []string   `json:"tags" yaml:"tags"`
	Questions             []Question `json:"questions" yaml:"questions"`
	Example               string     `json:"example" yaml:"example"`
	SupportsVisualization bool       `json:"supportsVisualization" yaml:"supportsVisualization"`
}

// HasScenario reports whether the methodology is tagged for the scenario id.
func (m Methodology) HasScenario(id string) bool {
	for _, s := range m.Scenarios {
		if s == id {
			return true
		}
	}
	return false
}

// clone returns m with every slice copied so callers cannot write through
// to the shipped data.
func (m Methodology) clone() Methodology {
	m.Scenarios = slices.Clone(m.Scenarios)
	m.Tags = slices.Clone(m.Tags)
	if m.Questions != nil {
		qs := make([]Question, len(m.Questions))
		for i, q := range m.Questions {
			q.QuickOptions = slices.Clone(q.QuickOptions)
			qs[i] = q
		}
		m.Questions = qs
	}
	return m
}

// Scenario is a coarse usage context used to pre-filter methodologies.
type Scenario struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ScenarioNeed is a concrete need within a scenario and the methodologies
// that serve it.
type ScenarioNeed struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Methods []Key  `json:"methods" yaml:"methods"`
}

func (n ScenarioNeed) clone() ScenarioNeed {
	n.Methods = slices.Clone(n.Methods)
	return n
}

// Stats summarizes the catalog contents.
type Stats struct {
	Total        int
	ByCategory   map[string]int
	ByDifficulty map[string]int
}
