// Package canvas implements the preview-overlay controller: the transient
// visual layers (bounding-box editor, tool cursor, document bounds,
// staging-area preview) rendered above the persistent document.
//
// Overlay state is ephemeral and fully recomputed from the value snapshots
// passed into each render method; nothing here is persisted. All methods
// run on the single render goroutine.
package canvas

import "fmt"

// Kind discriminates the retained overlay node types the external renderer
// understands.
type Kind string

const (
	KindGroup  Kind = "group"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindRing   Kind = "ring"
	KindImage  Kind = "image"
)

// CompositeOp selects how a node's pixels combine with what is beneath it.
type CompositeOp string

const (
	// CompositeSourceOver is normal painting.
	CompositeSourceOver CompositeOp = "source-over"
	// CompositeDestinationOut subtracts the node's shape from the pixels
	// beneath it; used for erase previews and inverse masks.
	CompositeDestinationOut CompositeOp = "destination-out"
)

// Node is one addressable overlay node. External layout and z-order logic
// reference nodes directly by their stable string IDs; z-order within a
// parent is child order.
type Node struct {
	ID      string
	Kind    Kind
	Visible bool

	X, Y          float64
	Width, Height float64
	Radius        float64

	Fill        string
	Stroke      string
	StrokeWidth float64
	Composite   CompositeOp

	// Image is the identity of the displayed bitmap for KindImage nodes.
	Image string

	children []*Node
}

// Children returns the node's children in z-order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Scene is the tree of overlay nodes, indexed by ID.
type Scene struct {
	root  *Node
	index map[string]*Node
}

// NewScene creates a scene with an empty root group.
func NewScene() *Scene {
	root := &Node{ID: "root", Kind: KindGroup, Visible: true}
	return &Scene{
		root:  root,
		index: map[string]*Node{root.ID: root},
	}
}

// Root returns the root group.
func (s *Scene) Root() *Node { return s.root }

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id string) *Node { return s.index[id] }

// Attach adds a node as the last child of the parent. IDs are unique
// across the scene.
func (s *Scene) Attach(parentID string, n *Node) (*Node, error) {
	parent, ok := s.index[parentID]
	if !ok {
		return nil, fmt.Errorf("parent node not found: %s", parentID)
	}
	if parent.Kind != KindGroup {
		return nil, fmt.Errorf("parent node %s is not a group", parentID)
	}
	if _, exists := s.index[n.ID]; exists {
		return nil, fmt.Errorf("duplicate node ID: %s", n.ID)
	}
	parent.children = append(parent.children, n)
	s.index[n.ID] = n
	return n, nil
}

// Remove detaches the node and its subtree from the scene. Removing an
// absent node is a no-op; the root cannot be removed.
func (s *Scene) Remove(id string) {
	if id == s.root.ID {
		return
	}
	n, ok := s.index[id]
	if !ok {
		return
	}
	var unindex func(*Node)
	unindex = func(x *Node) {
		delete(s.index, x.ID)
		for _, c := range x.children {
			unindex(c)
		}
	}
	var detach func(parent *Node) bool
	detach = func(parent *Node) bool {
		for i, c := range parent.children {
			if c == n {
				parent.children = append(parent.children[:i], parent.children[i+1:]...)
				return true
			}
			if detach(c) {
				return true
			}
		}
		return false
	}
	detach(s.root)
	unindex(n)
}
