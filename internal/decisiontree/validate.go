package decisiontree

import (
	"fmt"
	"strings"

	"github.com/abhisek/methodo/internal/catalog"
)

// Validate performs all structural checks on g. knownKeys, when non-nil,
// is the set of methodology keys recommendations may name.
// Returns a combined error describing all problems found, or nil if valid.
func Validate(g *Graph, knownKeys map[catalog.Key]bool) error {
	var errs []string
	nodes := g.Nodes()

	seen := make(map[NodeID]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node ID: %q", n.ID))
		}
		seen[n.ID] = true
	}

	if _, ok := g.Node(g.Start()); !ok {
		errs = append(errs, fmt.Sprintf("start node %q does not exist", g.Start()))
	}

	// Option shape and references
	for _, n := range nodes {
		if len(n.Options) == 0 {
			errs = append(errs, fmt.Sprintf("node %q has no options", n.ID))
		}
		for i, opt := range n.Options {
			prefix := fmt.Sprintf("node %q option %d", n.ID, i)
			switch {
			case opt.Next != "" && opt.Method != "":
				errs = append(errs, fmt.Sprintf("%s sets both next and method", prefix))
			case opt.Next == "" && opt.Method == "":
				errs = append(errs, fmt.Sprintf("%s sets neither next nor method", prefix))
			case opt.Next != "" && !seen[opt.Next]:
				errs = append(errs, fmt.Sprintf("%s references nonexistent node %q", prefix, opt.Next))
			case opt.Method != "" && knownKeys != nil && !knownKeys[opt.Method]:
				errs = append(errs, fmt.Sprintf("%s recommends unknown methodology %q", prefix, opt.Method))
			}
		}
	}

	// Reachability from start
	reached := map[NodeID]bool{}
	if _, ok := g.Node(g.Start()); ok {
		queue := []NodeID{g.Start()}
		reached[g.Start()] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			n, _ := g.Node(id)
			for _, opt := range n.Options {
				if opt.Next == "" || reached[opt.Next] || !seen[opt.Next] {
					continue
				}
				reached[opt.Next] = true
				queue = append(queue, opt.Next)
			}
		}
		for _, n := range nodes {
			if !reached[n.ID] {
				errs = append(errs, fmt.Sprintf("node %q is unreachable from %q", n.ID, g.Start()))
			}
		}
	}

	if cycle := cycleNodes(g); len(cycle) > 0 {
		ids := make([]string, len(cycle))
		for i, id := range cycle {
			ids[i] = string(id)
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving nodes: %s", strings.Join(ids, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("decision tree validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// cycleNodes returns the nodes left over after Kahn's algorithm, i.e. the
// nodes on or behind a cycle, in authoring order.
func cycleNodes(g *Graph) []NodeID {
	nodes := g.Nodes()
	inDegree := make(map[NodeID]int, len(nodes))
	adj := make(map[NodeID][]NodeID)
	for _, n := range nodes {
		if _, ok := inDegree[n.ID]; !ok {
			inDegree[n.ID] = 0
		}
		for _, opt := range n.Options {
			if opt.Next == "" {
				continue
			}
			if _, ok := g.Node(opt.Next); !ok {
				continue
			}
			adj[n.ID] = append(adj[n.ID], opt.Next)
			inDegree[opt.Next]++
		}
	}

	var queue []NodeID
	for _, n := range nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adj[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	var out []NodeID
	for _, n := range nodes {
		if inDegree[n.ID] > 0 {
			out = append(out, n.ID)
		}
	}
	return out
}

// MaxDepth returns the largest number of Choose calls needed to reach a
// recommendation from the start node. It fails on a cyclic graph.
func MaxDepth(g *Graph) (int, error) {
	if cycle := cycleNodes(g); len(cycle) > 0 {
		return 0, fmt.Errorf("decision tree has a cycle through %q", cycle[0])
	}
	memo := make(map[NodeID]int)
	var depth func(id NodeID) int
	depth = func(id NodeID) int {
		if d, ok := memo[id]; ok {
			return d
		}
		n, ok := g.Node(id)
		if !ok {
			return 0
		}
		best := 0
		for _, opt := range n.Options {
			d := 1
			if !opt.Terminal() {
				d += depth(opt.Next)
			}
			if d > best {
				best = d
			}
		}
		memo[id] = best
		return best
	}
	return depth(g.Start()), nil
}
