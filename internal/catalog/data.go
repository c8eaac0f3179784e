package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

type methodologyFile struct {
	Methodologies []Methodology `yaml:"methodologies"`
}

type scenarioFile struct {
	Scenarios []Scenario                `yaml:"scenarios"`
	Needs     map[string][]ScenarioNeed `yaml:"needs"`
}

// builtin holds the shipped data, set by init().
var builtin struct {
	methodologies []Methodology
	scenarios     []Scenario
	needs         map[string][]ScenarioNeed
}

func init() {
	ms, err := loadMethodologies()
	if err != nil {
		panic(err)
	}
	sf, err := loadScenarios()
	if err != nil {
		panic(err)
	}
	builtin.methodologies = ms
	builtin.scenarios = sf.Scenarios
	builtin.needs = sf.Needs
}

func loadMethodologies() ([]Methodology, error) {
	raw, err := dataFS.ReadFile("data/methodologies.yaml")
	if err != nil {
		return nil, fmt.Errorf("read methodologies: %w", err)
	}
	var f methodologyFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse methodologies: %w", err)
	}
	seen := make(map[Key]bool, len(f.Methodologies))
	for _, m := range f.Methodologies {
		if m.Key == "" {
			return nil, fmt.Errorf("methodology %q has no key", m.Name)
		}
		if seen[m.Key] {
			return nil, fmt.Errorf("duplicate methodology key %q", m.Key)
		}
		seen[m.Key] = true
	}
	return f.Methodologies, nil
}

func loadScenarios() (scenarioFile, error) {
	raw, err := dataFS.ReadFile("data/scenarios.yaml")
	if err != nil {
		return scenarioFile{}, fmt.Errorf("read scenarios: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return scenarioFile{}, fmt.Errorf("parse scenarios: %w", err)
	}
	return f, nil
}

// Builtin returns a deep copy of the shipped methodologies in catalog order.
func Builtin() []Methodology {
	out := make([]Methodology, len(builtin.methodologies))
	for i, m := range builtin.methodologies {
		out[i] = m.clone()
	}
	return out
}

// Scenarios returns the fixed scenario list.
func Scenarios() []Scenario {
	out := make([]Scenario, len(builtin.scenarios))
	copy(out, builtin.scenarios)
	return out
}

// BuiltinKeys returns the set of shipped methodology keys.
func BuiltinKeys() map[Key]bool {
	keys := make(map[Key]bool, len(builtin.methodologies))
	for _, m := range builtin.methodologies {
		keys[m.Key] = true
	}
	return keys
}
