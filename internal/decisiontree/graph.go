package decisiontree

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/methodo/internal/catalog"
)

// NodeID identifies a question node in the tree.
type NodeID string

// StartID is the conventional id of the initial node.
const StartID NodeID = "start"

// Option is one answer to a node's question. Exactly one of Next and Method
// is set: Next continues the walk, Method ends it with a recommendation.
type Option struct {
	Text   string      `yaml:"text"`
	Next   NodeID      `yaml:"next,omitempty"`
	Method catalog.Key `yaml:"method,omitempty"`
}

// Terminal reports whether choosing the option ends the walk.
func (o Option) Terminal() bool {
	return o.Method != ""
}

// Node is a multiple-choice question.
type Node struct {
	ID       NodeID   `yaml:"id"`
	Question string   `yaml:"question"`
	Options  []Option `yaml:"options"`
}

// Graph is an immutable decision tree indexed by node id.
type Graph struct {
	start NodeID
	nodes []Node
	byID  map[NodeID]int
}

// NewGraph builds a graph from nodes in authoring order. Duplicate ids keep
// the first occurrence; Validate reports them.
func NewGraph(start NodeID, nodes []Node) *Graph {
	g := &Graph{
		start: start,
		nodes: append([]Node(nil), nodes...),
		byID:  make(map[NodeID]int, len(nodes)),
	}
	for i, n := range g.nodes {
		if _, dup := g.byID[n.ID]; !dup {
			g.byID[n.ID] = i
		}
	}
	return g
}

// Start returns the initial node id.
func (g *Graph) Start() NodeID { return g.start }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns all nodes in authoring order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

//go:embed data/tree.yaml
var treeYAML []byte

type treeFile struct {
	Start NodeID `yaml:"start"`
	Nodes []Node `yaml:"nodes"`
}

// Parse decodes a YAML tree definition.
func Parse(data []byte) (*Graph, error) {
	var f treeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse decision tree: %w", err)
	}
	if f.Start == "" {
		f.Start = StartID
	}
	return NewGraph(f.Start, f.Nodes), nil
}

// defaultGraph is the shipped tree, set by init().
var defaultGraph *Graph

func init() {
	g, err := Parse(treeYAML)
	if err != nil {
		panic(err)
	}
	defaultGraph = g
}

// Default returns the shipped decision tree.
func Default() *Graph {
	return defaultGraph
}
