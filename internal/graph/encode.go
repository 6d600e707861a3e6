package graph

import "encoding/json"

// wireNode is the submission-contract shape of one node: the id and type
// keys flattened alongside the node's fields.
type wireNode map[string]any

// wireGraph is the submission-contract shape of the whole graph. Node type
// strings and field names are a versioned protocol contract with the
// inference service; mismatches surface as backend-side validation errors.
type wireGraph struct {
	ID    string              `json:"id,omitempty"`
	Nodes map[string]wireNode `json:"nodes"`
	Edges []Edge              `json:"edges"`
}

// MarshalJSON encodes the graph in the wire format expected by the
// inference-execution service.
func (g *Graph) MarshalJSON() ([]byte, error) {
	w := wireGraph{
		Nodes: make(map[string]wireNode, len(g.nodes)),
		Edges: g.edges,
	}
	if w.Edges == nil {
		w.Edges = []Edge{}
	}
	for id, n := range g.nodes {
		wn := make(wireNode, len(n.Fields)+2)
		for k, v := range n.Fields {
			wn[k] = v
		}
		wn["id"] = n.ID
		wn["type"] = n.Type
		w.Nodes[id] = wn
	}
	return json.Marshal(w)
}
