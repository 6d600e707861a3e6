// Package graph implements the node-and-edge container for generation
// pipelines. Nodes are typed records with free-form fields; edges are
// directed, field-typed data-dependency links.
//
// A Graph is exclusively owned by the single in-flight build that created
// it, so operations are not synchronized.
package graph

import "fmt"

// Fields holds the typed configuration values of a node, keyed by field name.
type Fields map[string]any

// Node is a single unit of computation in the pipeline.
type Node struct {
	ID     string
	Type   string
	Fields Fields
}

// FieldRef addresses one field of one node. Callers use it to patch scalar
// fields (seed, prompt) after a build without re-deriving node identifiers.
type FieldRef struct {
	NodeID string `json:"node_id"`
	Field  string `json:"field"`
}

// Edge is a directed data dependency from a source node's output field to a
// destination node's input field.
type Edge struct {
	Source      FieldRef `json:"source"`
	Destination FieldRef `json:"destination"`
}

// Graph is a mutable collection of nodes and edges. Every edge references
// nodes currently present; deleting a node also removes its incident edges.
type Graph struct {
	nodes map[string]*Node
	edges []Edge
}

// New creates an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Add creates a node of the given type with a freshly generated ID, inserts
// it, and returns it. Fields may be nil.
func (g *Graph) Add(nodeType string, fields Fields) *Node {
	if fields == nil {
		fields = make(Fields)
	}
	n := &Node{ID: NewID(nodeType), Type: nodeType, Fields: fields}
	g.nodes[n.ID] = n
	return n
}

// AddNode inserts an existing node. An error is returned if a node with the
// same ID is already present.
func (g *Graph) AddNode(n *Node) error {
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("duplicate node ID: %s", n.ID)
	}
	if n.Fields == nil {
		n.Fields = make(Fields)
	}
	g.nodes[n.ID] = n
	return nil
}

// Node returns the node with the given ID, or nil if absent.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// HasNode reports whether a node with the given ID is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodesOfType returns all nodes whose Type equals nodeType.
func (g *Graph) NodesOfType(nodeType string) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Type == nodeType {
			out = append(out, n)
		}
	}
	return out
}

// Connect creates a directed edge from one node's output field to another
// node's input field. An error is returned if either node is absent, the
// edge would be self-referential, or an identical edge already exists.
func (g *Graph) Connect(fromID, fromField, toID, toField string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, toID)
	}
	if _, ok := g.nodes[fromID]; !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	if _, ok := g.nodes[toID]; !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	e := Edge{
		Source:      FieldRef{NodeID: fromID, Field: fromField},
		Destination: FieldRef{NodeID: toID, Field: toField},
	}
	for _, existing := range g.edges {
		if existing == e {
			return fmt.Errorf("duplicate edge: %s.%s -> %s.%s", fromID, fromField, toID, toField)
		}
	}
	g.edges = append(g.edges, e)
	return nil
}

// DeleteNode removes the node with the given ID along with every incident
// edge. Deleting an absent node is a no-op.
func (g *Graph) DeleteNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Source.NodeID == id || e.Destination.NodeID == id {
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
}

// EdgesTo returns every edge whose destination is the given node.
func (g *Graph) EdgesTo(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Destination.NodeID == id {
			out = append(out, e)
		}
	}
	return out
}

// EdgesFrom returns every edge whose source is the given node.
func (g *Graph) EdgesFrom(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source.NodeID == id {
			out = append(out, e)
		}
	}
	return out
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Validate checks structural invariants: every edge endpoint references a
// present node, and the edge relation is acyclic.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.Source.NodeID]; !ok {
			return fmt.Errorf("edge references missing source node: %s", e.Source.NodeID)
		}
		if _, ok := g.nodes[e.Destination.NodeID]; !ok {
			return fmt.Errorf("edge references missing destination node: %s", e.Destination.NodeID)
		}
	}
	return g.detectCycles()
}

// detectCycles checks for circular dependencies in the graph using DFS.
func (g *Graph) detectCycles() error {
	next := make(map[string][]string, len(g.nodes))
	for _, e := range g.edges {
		next[e.Source.NodeID] = append(next[e.Source.NodeID], e.Destination.NodeID)
	}

	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		visiting[id] = true
		for _, dep := range next[id] {
			if visiting[dep] {
				return fmt.Errorf("cycle detected involving '%s'", dep)
			}
			if !visited[dep] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, id)
		visited[id] = true
		return nil
	}

	for id := range g.nodes {
		if !visited[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
