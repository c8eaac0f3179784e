package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/methodo/internal/logging"
	"github.com/abhisek/methodo/internal/store"
)

// AllCategories is the category filter value that disables filtering.
const AllCategories = "all"

// Catalog serves methodology content. The shipped data can be replaced by an
// edited copy persisted under store.KeyMethodologies, and the scenario needs
// by store.KeyScenarioNeeds.
type Catalog struct {
	kv  store.KV
	log *logging.Logger
}

// New creates a Catalog reading overrides from kv. A nil kv serves only the
// built-in data.
func New(kv store.KV, log *logging.Logger) *Catalog {
	return &Catalog{kv: kv, log: logging.OrNop(log).With("component", "catalog")}
}

// GetAll returns every methodology in catalog order.
func (c *Catalog) GetAll(ctx context.Context) ([]Methodology, error) {
	override, ok, err := c.loadOverride(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Builtin(), nil
	}
	return orderOverride(override), nil
}

// GetByKey returns the methodology with the given key, or ErrNotFound.
func (c *Catalog) GetByKey(ctx context.Context, key Key) (Methodology, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return Methodology{}, err
	}
	for _, m := range all {
		if m.Key == key {
			return m, nil
		}
	}
	return Methodology{}, fmt.Errorf("%w: %q", ErrNotFound, key)
}

// Search matches term case-insensitively against name, description and tags.
// An empty term matches everything. category "" or AllCategories disables
// the category filter; any other value must match exactly.
func (c *Catalog) Search(ctx context.Context, term, category string) ([]Methodology, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	var out []Methodology
	for _, m := range all {
		if category != "" && category != AllCategories && m.Category != category {
			continue
		}
		if needle != "" && !matches(m, needle) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func matches(m Methodology, needle string) bool {
	if strings.Contains(strings.ToLower(m.Name), needle) ||
		strings.Contains(strings.ToLower(m.Description), needle) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Categories returns the distinct categories in catalog order.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range all {
		if !seen[m.Category] {
			seen[m.Category] = true
			out = append(out, m.Category)
		}
	}
	return out, nil
}

// Stats counts methodologies by category and difficulty.
func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		Total:        len(all),
		ByCategory:   make(map[string]int),
		ByDifficulty: make(map[string]int),
	}
	for _, m := range all {
		st.ByCategory[m.Category]++
		st.ByDifficulty[m.Difficulty]++
	}
	return st, nil
}

// Visualizable returns the methodologies that support diagram generation.
func (c *Catalog) Visualizable(ctx context.Context) ([]Methodology, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []Methodology
	for _, m := range all {
		if m.SupportsVisualization {
			out = append(out, m)
		}
	}
	return out, nil
}

// ByScenario returns the methodologies tagged with the scenario id.
func (c *Catalog) ByScenario(ctx context.Context, scenarioID string) ([]Methodology, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []Methodology
	for _, m := range all {
		if m.HasScenario(scenarioID) {
			out = append(out, m)
		}
	}
	return out, nil
}

// ScenarioNeeds returns the needs for every scenario.
func (c *Catalog) ScenarioNeeds(ctx context.Context) (map[string][]ScenarioNeed, error) {
	if c.kv != nil {
		raw, ok, err := c.kv.Get(ctx, store.KeyScenarioNeeds)
		if err != nil {
			return nil, err
		}
		if ok {
			var needs map[string][]ScenarioNeed
			err := json.Unmarshal([]byte(raw), &needs)
			if err == nil {
				return needs, nil
			}
			c.log.Warn("ignoring corrupt scenario needs override", "error", err)
		}
	}
	out := make(map[string][]ScenarioNeed, len(builtin.needs))
	for id, needs := range builtin.needs {
		cp := make([]ScenarioNeed, len(needs))
		for i, n := range needs {
			cp[i] = n.clone()
		}
		out[id] = cp
	}
	return out, nil
}

// NeedsFor returns the needs of a single scenario. Unknown ids yield nil.
func (c *Catalog) NeedsFor(ctx context.Context, scenarioID string) ([]ScenarioNeed, error) {
	all, err := c.ScenarioNeeds(ctx)
	if err != nil {
		return nil, err
	}
	return all[scenarioID], nil
}

// Save persists an edited copy of the full catalog with m inserted or
// replaced. Subsequent reads use the edited copy. A methodology without
// questions is rejected with ErrNoQuestions.
func (c *Catalog) Save(ctx context.Context, m Methodology) error {
	if m.Key == "" {
		return fmt.Errorf("save methodology: empty key")
	}
	if len(m.Questions) == 0 {
		return fmt.Errorf("save methodology %q: %w", m.Key, ErrNoQuestions)
	}
	all, err := c.GetAll(ctx)
	if err != nil {
		return err
	}
	byKey := make(map[Key]Methodology, len(all)+1)
	for _, existing := range all {
		byKey[existing.Key] = existing
	}
	byKey[m.Key] = m
	return c.writeOverride(ctx, byKey)
}

// Delete removes a methodology from the persisted copy. Deleting an unknown
// key returns ErrNotFound.
func (c *Catalog) Delete(ctx context.Context, key Key) error {
	all, err := c.GetAll(ctx)
	if err != nil {
		return err
	}
	byKey := make(map[Key]Methodology, len(all))
	for _, m := range all {
		byKey[m.Key] = m
	}
	if _, ok := byKey[key]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	delete(byKey, key)
	return c.writeOverride(ctx, byKey)
}

// Reset drops any persisted override so the shipped data is served again.
func (c *Catalog) Reset(ctx context.Context) error {
	if c.kv == nil {
		return nil
	}
	return c.kv.Delete(ctx, store.KeyMethodologies)
}

func (c *Catalog) writeOverride(ctx context.Context, byKey map[Key]Methodology) error {
	if c.kv == nil {
		return fmt.Errorf("save catalog: no store configured")
	}
	data, err := json.Marshal(byKey)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := c.kv.Set(ctx, store.KeyMethodologies, string(data)); err != nil {
		return err
	}
	c.log.Info("catalog override saved", "methodologies", len(byKey))
	return nil
}

// loadOverride reads the persisted catalog. ok is false when no usable
// override exists; a corrupt blob is logged and treated as absent.
func (c *Catalog) loadOverride(ctx context.Context) (map[Key]Methodology, bool, error) {
	if c.kv == nil {
		return nil, false, nil
	}
	raw, ok, err := c.kv.Get(ctx, store.KeyMethodologies)
	if err != nil || !ok {
		return nil, false, err
	}
	var byKey map[Key]Methodology
	if err := json.Unmarshal([]byte(raw), &byKey); err != nil {
		c.log.Warn("ignoring corrupt catalog override", "error", err)
		return nil, false, nil
	}
	for k, m := range byKey {
		m.Key = k
		byKey[k] = m
	}
	return byKey, true, nil
}

// orderOverride lists the override in built-in order, followed by keys that
// are not shipped, sorted.
func orderOverride(byKey map[Key]Methodology) []Methodology {
	out := make([]Methodology, 0, len(byKey))
	placed := make(map[Key]bool, len(byKey))
	for _, m := range builtin.methodologies {
		if o, ok := byKey[m.Key]; ok {
			out = append(out, o)
			placed[m.Key] = true
		}
	}
	var extra []Key
	for k := range byKey {
		if !placed[k] {
			extra = append(extra, k)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, k := range extra {
		out = append(out, byKey[k])
	}
	return out
}
