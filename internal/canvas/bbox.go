package canvas

import "github.com/easelai/easel/internal/geom"

// Grid cell sizes for bounding-box snapping.
const (
	GridCoarse = 64
	GridFine   = 8
)

// Modifiers are the pressed modifier keys relevant to bbox editing.
type Modifiers struct {
	// Precision switches snapping from the coarse to the fine grid.
	Precision bool
	// LockAspect keeps width/height at the cached pre-drag ratio during
	// corner resize.
	LockAspect bool
	// Centered scales symmetrically around the bbox center.
	Centered bool
}

// GridSize returns the effective snap grid. Centered scaling doubles the
// cell so the center itself stays grid-aligned during symmetric resize.
func (m Modifiers) GridSize() int {
	grid := GridCoarse
	if m.Precision {
		grid = GridFine
	}
	if m.Centered {
		grid *= 2
	}
	return grid
}

// SyncAspectCache refreshes the cached aspect ratio from the current bbox
// whenever the lock modifier is not held. Re-engaging the lock therefore
// resumes from the most recent free-form ratio.
func (c *Controller) SyncAspectCache(bbox geom.Rect, m Modifiers) {
	if !m.LockAspect {
		if r := bbox.AspectRatio(); r > 0 {
			c.aspectRatio = r
		}
	}
}

// DragBbox moves the bbox body to the raw drag position, snapped to the
// active grid.
func (c *Controller) DragBbox(bbox geom.Rect, rawX, rawY int, m Modifiers) geom.Rect {
	grid := m.GridSize()
	bbox.X = geom.SnapToGrid(rawX, grid)
	bbox.Y = geom.SnapToGrid(rawY, grid)
	return bbox
}

// ResizeBbox resizes from the given handle to the raw drag dimensions,
// snapped to the active grid. With the aspect lock held on a corner
// handle, width and height are jointly refitted to the cached ratio, and
// the origin correction keeps the opposite corner stationary. With the
// centered modifier held the resize is symmetric instead: the pre-drag
// center stays stationary, and the doubled grid keeps it grid-aligned.
func (c *Controller) ResizeBbox(bbox geom.Rect, anchor geom.Anchor, rawWidth, rawHeight int, m Modifiers) geom.Rect {
	grid := m.GridSize()

	var w, h int
	if m.LockAspect && anchor.IsCorner() {
		w, h = geom.AspectFit(rawWidth, rawHeight, c.aspectRatio, grid)
	} else {
		w = geom.SnapToGrid(rawWidth, grid)
		h = geom.SnapToGrid(rawHeight, grid)
	}
	if w < grid {
		w = grid
	}
	if h < grid {
		h = grid
	}
	if m.Centered {
		return geom.ApplyCenteredResize(bbox, w, h)
	}
	return geom.ApplyAnchoredResize(bbox, anchor, w, h)
}

// handleScreenSize is the edge length of a resize handle in screen space.
const handleScreenSize = 8.0

// RenderBbox positions the editor rectangle and its eight handles. Handle
// sizes and stroke widths divide by zoom so they stay constant in screen
// space.
func (c *Controller) RenderBbox(bbox geom.Rect, zoom float64, visible bool) {
	group := c.node(IDBboxGroup)
	group.Visible = visible
	if !visible {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}

	rect := c.node(IDBboxRect)
	rect.X = float64(bbox.X)
	rect.Y = float64(bbox.Y)
	rect.Width = float64(bbox.Width)
	rect.Height = float64(bbox.Height)
	rect.StrokeWidth = 1 / zoom

	size := handleScreenSize / zoom
	for _, anchor := range bboxAnchors {
		h := c.node(bboxHandleID(anchor))
		cx, cy := handleCenter(bbox, anchor)
		h.X = cx - size/2
		h.Y = cy - size/2
		h.Width = size
		h.Height = size
		h.StrokeWidth = 1 / zoom
	}
}

// handleCenter returns the document-space center of an anchor's handle.
func handleCenter(bbox geom.Rect, anchor geom.Anchor) (float64, float64) {
	left := float64(bbox.X)
	top := float64(bbox.Y)
	right := float64(bbox.Right())
	bottom := float64(bbox.Bottom())
	midX := left + float64(bbox.Width)/2
	midY := top + float64(bbox.Height)/2

	switch anchor {
	case geom.AnchorTopLeft:
		return left, top
	case geom.AnchorTop:
		return midX, top
	case geom.AnchorTopRight:
		return right, top
	case geom.AnchorRight:
		return right, midY
	case geom.AnchorBottomRight:
		return right, bottom
	case geom.AnchorBottom:
		return midX, bottom
	case geom.AnchorBottomLeft:
		return left, bottom
	case geom.AnchorLeft:
		return left, midY
	}
	return midX, midY
}
