package canvas

import "github.com/easelai/easel/internal/geom"

// CursorState is the value snapshot the cursor preview renders from.
type CursorState struct {
	Tool    Tool
	Pointer geom.Point
	// PointerDown is the last pointer-down position, set while a drag is in
	// progress; the rect tool previews between it and Pointer.
	PointerDown *geom.Point

	// Radius is the active brush/eraser radius in document space.
	Radius float64
	// Zoom is the current view scale; screen-space constants divide by it.
	Zoom float64

	InsideCanvas        bool
	LayerCount          int
	ActiveLayerDrawable bool
}

// Screen-space ring widths of the brush preview.
const (
	ringInnerWidth = 1.5
	ringOuterWidth = 0.5
)

// RenderCursor updates the tool cursor preview. The preview hides entirely
// when no editable layer is selected, no layers exist, or the pointer is
// outside the canvas.
func (c *Controller) RenderCursor(s CursorState) {
	group := c.node(IDCursorGroup)

	visible := s.InsideCanvas && s.LayerCount > 0 && s.ActiveLayerDrawable
	group.Visible = visible
	if !visible {
		return
	}
	zoom := s.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	fill := c.node(IDCursorFill)
	inner := c.node(IDCursorInner)
	outer := c.node(IDCursorOuter)
	rect := c.node(IDCursorRect)

	brushLike := s.Tool == ToolBrush || s.Tool == ToolEraser
	fill.Visible = brushLike
	inner.Visible = brushLike
	outer.Visible = brushLike

	if brushLike {
		fill.X, fill.Y = s.Pointer.X, s.Pointer.Y
		fill.Radius = s.Radius
		if s.Tool == ToolEraser {
			fill.Composite = CompositeDestinationOut
			fill.Fill = "rgba(255,255,255,1)"
		} else {
			fill.Composite = CompositeSourceOver
			fill.Fill = "rgba(255,255,255,0.3)"
		}

		// Two concentric border rings, constant-width on screen.
		inner.X, inner.Y = s.Pointer.X, s.Pointer.Y
		inner.Radius = s.Radius
		inner.StrokeWidth = ringInnerWidth / zoom

		outer.X, outer.Y = s.Pointer.X, s.Pointer.Y
		outer.Radius = s.Radius + ringInnerWidth/zoom
		outer.StrokeWidth = ringOuterWidth / zoom
	}

	rect.Visible = s.Tool == ToolRect && s.PointerDown != nil
	if rect.Visible {
		down := *s.PointerDown
		rect.X = min(down.X, s.Pointer.X)
		rect.Y = min(down.Y, s.Pointer.Y)
		rect.Width = abs(s.Pointer.X - down.X)
		rect.Height = abs(s.Pointer.Y - down.Y)
		rect.StrokeWidth = 1 / zoom
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
