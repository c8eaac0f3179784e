package guide

import (
	"fmt"
	"strings"

	"github.com/abhisek/methodo/internal/catalog"
)

// Validate checks the question graph. knownKeys, when non-nil, is the set of
// methodology keys options may recommend.
func (g *Guide) Validate(knownKeys map[catalog.Key]bool) error {
	var errs []string

	if _, ok := g.byID[g.start]; !ok {
		errs = append(errs, fmt.Sprintf("start question %q does not exist", g.start))
	}

	seen := make(map[string]bool, len(g.questions))
	for _, q := range g.questions {
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
		}
		seen[q.ID] = true

		if q.Type == TypeSingle && len(q.Options) == 0 {
			errs = append(errs, fmt.Sprintf("question %q has no options", q.ID))
		}
		optIDs := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			prefix := fmt.Sprintf("question %q option %q", q.ID, o.ID)
			if optIDs[o.ID] {
				errs = append(errs, fmt.Sprintf("%s is duplicated", prefix))
			}
			optIDs[o.ID] = true

			switch {
			case o.Next != "" && o.Method != "":
				errs = append(errs, fmt.Sprintf("%s sets both next and method", prefix))
			case o.Next == "" && o.Method == "":
				errs = append(errs, fmt.Sprintf("%s sets neither next nor method", prefix))
			case o.Next != "":
				if _, ok := g.byID[o.Next]; !ok {
					errs = append(errs, fmt.Sprintf("%s references nonexistent question %q", prefix, o.Next))
				}
			case knownKeys != nil && !knownKeys[o.Method]:
				errs = append(errs, fmt.Sprintf("%s recommends unknown methodology %q", prefix, o.Method))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("guide validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
