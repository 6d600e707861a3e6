package canvas

import (
	"context"

	"github.com/easelai/easel/internal/geom"
)

// Stable overlay node identifiers. External z-order logic references these
// directly.
const (
	IDBboxGroup   = "overlay.bbox"
	IDBboxRect    = "overlay.bbox.rect"
	IDCursorGroup = "overlay.cursor"
	IDCursorFill  = "overlay.cursor.fill"
	IDCursorInner = "overlay.cursor.ring-inner"
	IDCursorOuter = "overlay.cursor.ring-outer"
	IDCursorRect  = "overlay.cursor.rect"
	IDBoundsGroup = "overlay.bounds"
	IDBoundsOuter = "overlay.bounds.outer"
	IDBoundsInner = "overlay.bounds.inner"
	IDStaging     = "overlay.staging"
	IDStagingImg  = "overlay.staging.image"
)

// ImageLoader resolves an image identity to a ready-to-display source. The
// staging preview awaits it before making a swapped image visible, so
// stale content never flashes.
type ImageLoader interface {
	Load(ctx context.Context, name string) error
}

// Controller owns the four overlay groups layered above the document. It
// is a single stateful component; every render method takes plain value
// snapshots so behavior never depends on closure capture timing.
type Controller struct {
	scene  *Scene
	loader ImageLoader

	// aspectRatio is the cached proportion for aspect-locked resize,
	// refreshed continuously while the lock modifier is not held.
	aspectRatio float64

	// displayedImage is the identity of the staging image currently shown.
	displayedImage string
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithImageLoader installs the loader awaited during staging image swaps.
func WithImageLoader(l ImageLoader) ControllerOption {
	return func(c *Controller) { c.loader = l }
}

// NewController builds the overlay node tree with all groups hidden.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{scene: NewScene(), aspectRatio: 1}
	for _, opt := range opts {
		opt(c)
	}

	mustAttach := func(parentID string, n *Node) {
		if _, err := c.scene.Attach(parentID, n); err != nil {
			panic(err)
		}
	}

	mustAttach("root", &Node{ID: IDBoundsGroup, Kind: KindGroup})
	mustAttach(IDBoundsGroup, &Node{ID: IDBoundsOuter, Kind: KindRect, Visible: true, Fill: boundsFill})
	mustAttach(IDBoundsGroup, &Node{ID: IDBoundsInner, Kind: KindRect, Visible: true, Composite: CompositeDestinationOut})

	mustAttach("root", &Node{ID: IDStaging, Kind: KindGroup})

	mustAttach("root", &Node{ID: IDBboxGroup, Kind: KindGroup})
	mustAttach(IDBboxGroup, &Node{ID: IDBboxRect, Kind: KindRect, Visible: true, Stroke: bboxStroke})
	for _, anchor := range bboxAnchors {
		mustAttach(IDBboxGroup, &Node{
			ID:      bboxHandleID(anchor),
			Kind:    KindRect,
			Visible: true,
			Fill:    handleFill,
			Stroke:  bboxStroke,
		})
	}

	mustAttach("root", &Node{ID: IDCursorGroup, Kind: KindGroup})
	mustAttach(IDCursorGroup, &Node{ID: IDCursorFill, Kind: KindCircle, Visible: true})
	mustAttach(IDCursorGroup, &Node{ID: IDCursorInner, Kind: KindRing, Visible: true, Stroke: ringInnerStroke})
	mustAttach(IDCursorGroup, &Node{ID: IDCursorOuter, Kind: KindRing, Visible: true, Stroke: ringOuterStroke})
	mustAttach(IDCursorGroup, &Node{ID: IDCursorRect, Kind: KindRect, Stroke: bboxStroke})

	return c
}

// Scene exposes the overlay node tree for external layout and z-order
// logic.
func (c *Controller) Scene() *Scene { return c.scene }

// node returns a tree node the controller itself created.
func (c *Controller) node(id string) *Node {
	n := c.scene.Get(id)
	if n == nil {
		panic("canvas: controller node missing: " + id)
	}
	return n
}

var bboxAnchors = []geom.Anchor{
	geom.AnchorTopLeft, geom.AnchorTop, geom.AnchorTopRight,
	geom.AnchorRight, geom.AnchorBottomRight, geom.AnchorBottom,
	geom.AnchorBottomLeft, geom.AnchorLeft,
}

func bboxHandleID(a geom.Anchor) string {
	return IDBboxGroup + ".handle." + string(a)
}

// Overlay colors.
const (
	boundsFill      = "rgba(0,0,0,0.7)"
	bboxStroke      = "rgb(42,117,255)"
	handleFill      = "rgb(255,255,255)"
	ringInnerStroke = "rgb(0,0,0)"
	ringOuterStroke = "rgb(255,255,255)"
)
