package decisiontree

import (
	"errors"
	"fmt"

	"github.com/abhisek/methodo/internal/catalog"
)

var (
	// ErrNotFound is returned when the current node id is absent from the graph.
	ErrNotFound = errors.New("decisiontree: node not found")

	// ErrInvalidOption is returned when an option index is out of range.
	ErrInvalidOption = errors.New("decisiontree: invalid option")
)

// ResultKind distinguishes the two outcomes of Choose.
type ResultKind int

const (
	// Advance moves the walk to Result.Next.
	Advance ResultKind = iota
	// Recommend ends the walk with Result.Method.
	Recommend
)

func (k ResultKind) String() string {
	switch k {
	case Advance:
		return "advance"
	case Recommend:
		return "recommend"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the outcome of choosing an option.
type Result struct {
	Kind   ResultKind
	Next   NodeID
	Method catalog.Key
}

// Engine walks a Graph from its start node. It is not safe for concurrent use.
type Engine struct {
	graph   *Graph
	current NodeID
	path    []NodeID
}

// NewEngine creates an engine positioned at the graph's start node.
func NewEngine(g *Graph) *Engine {
	e := &Engine{graph: g}
	e.Reset()
	return e
}

// Current returns the id of the node being asked.
func (e *Engine) Current() NodeID {
	return e.current
}

// AtStart reports whether the engine is at the start node.
func (e *Engine) AtStart() bool {
	return e.current == e.graph.Start()
}

// CurrentNode returns the node being asked, or ErrNotFound when the graph
// has no node with the current id.
func (e *Engine) CurrentNode() (Node, error) {
	n, ok := e.graph.Node(e.current)
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrNotFound, e.current)
	}
	return n, nil
}

// Choose selects option i of the current node. A recommendation leaves the
// engine where it is; the caller decides whether to Reset.
func (e *Engine) Choose(i int) (Result, error) {
	n, err := e.CurrentNode()
	if err != nil {
		return Result{}, err
	}
	if i < 0 || i >= len(n.Options) {
		return Result{}, fmt.Errorf("%w: %d not in [0, %d) at node %q", ErrInvalidOption, i, len(n.Options), n.ID)
	}

	opt := n.Options[i]
	if opt.Terminal() {
		return Result{Kind: Recommend, Method: opt.Method}, nil
	}
	e.current = opt.Next
	e.path = append(e.path, opt.Next)
	return Result{Kind: Advance, Next: opt.Next}, nil
}

// Reset returns the engine to the start node.
func (e *Engine) Reset() {
	e.current = e.graph.Start()
	e.path = []NodeID{e.current}
}

// Path returns the node ids visited since the last reset, start first.
func (e *Engine) Path() []NodeID {
	return append([]NodeID(nil), e.path...)
}
