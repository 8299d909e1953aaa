// Package concept models the learnable units extracted from study
// material and the relations between them.
package concept

import (
	"sort"
	"strings"
)

// Node is a single learnable unit. Names are unique within a graph and
// serve as keys everywhere else in the system.
type Node struct {
	Name       string   `json:"name"`
	Definition string   `json:"definition"`
	Relations  []string `json:"relations,omitempty"`
	Difficulty int      `json:"difficulty"` // ordinal, 1 (easiest) to 5
}

// Graph is the per-session concept graph. The zero value is empty and
// ready to use.
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// Len reports the number of concepts in the graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Nodes)
}

// Empty reports whether the graph holds no concepts.
func (g *Graph) Empty() bool { return g.Len() == 0 }

// Add inserts a node, merging with any existing node of the same name:
// relations are unioned, the longer definition wins, and difficulty
// keeps the maximum of the two estimates.
func (g *Graph) Add(n Node) {
	if g.Nodes == nil {
		g.Nodes = make(map[string]*Node)
	}
	name := strings.TrimSpace(n.Name)
	if name == "" {
		return
	}
	n.Name = name

	existing, ok := g.Nodes[name]
	if !ok {
		copied := n
		copied.Relations = dedupe(n.Relations, name)
		g.Nodes[name] = &copied
		return
	}

	if len(n.Definition) > len(existing.Definition) {
		existing.Definition = n.Definition
	}
	if n.Difficulty > existing.Difficulty {
		existing.Difficulty = n.Difficulty
	}
	existing.Relations = dedupe(append(existing.Relations, n.Relations...), name)
}

// Merge adds every node of other into g.
func (g *Graph) Merge(nodes []Node) {
	for _, n := range nodes {
		g.Add(n)
	}
}

// Get returns the node with the exact given name.
func (g *Graph) Get(name string) (*Node, bool) {
	if g == nil || g.Nodes == nil {
		return nil, false
	}
	n, ok := g.Nodes[name]
	return n, ok
}

// Names returns all concept names in sorted order. Iteration over
// Nodes is randomized by the runtime, so everything that needs a
// stable ordering goes through Names.
func (g *Graph) Names() []string {
	if g == nil {
		return nil
	}
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all nodes ordered by name.
func (g *Graph) All() []*Node {
	names := g.Names()
	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, g.Nodes[name])
	}
	return nodes
}

// minPartialLen is the shortest message that may match as a prefix or
// fragment of a concept name. Shorter messages ("ok", "no") would match
// unrelated concepts by coincidence.
const minPartialLen = 4

// Resolve finds the concepts a free-form message refers to. A concept
// matches when its name appears in the message. A short message that is
// itself a fragment of a name (a partially typed concept) also matches,
// but only past minPartialLen. Results are ordered by name.
func (g *Graph) Resolve(message string) []string {
	if g == nil || message == "" {
		return nil
	}
	lower := strings.ToLower(message)
	fragment := strings.TrimSpace(lower)
	var matched []string
	for _, name := range g.Names() {
		ln := strings.ToLower(name)
		if strings.Contains(lower, ln) ||
			(len(fragment) >= minPartialLen && strings.Contains(ln, fragment)) {
			matched = append(matched, name)
		}
	}
	return matched
}

// Related returns the relation targets of name that exist as nodes in
// the graph, ordered by name.
func (g *Graph) Related(name string) []string {
	n, ok := g.Get(name)
	if !ok {
		return nil
	}
	var related []string
	for _, r := range n.Relations {
		if _, exists := g.Nodes[r]; exists {
			related = append(related, r)
		}
	}
	sort.Strings(related)
	return related
}

// dedupe removes duplicates, blanks, and self-references, preserving
// first-seen order.
func dedupe(relations []string, self string) []string {
	seen := make(map[string]struct{}, len(relations))
	var out []string
	for _, r := range relations {
		r = strings.TrimSpace(r)
		if r == "" || r == self {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
