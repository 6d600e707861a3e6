package geom

import "math"

// Anchor names the handle a resize is driven from. The opposite edge or
// corner stays stationary during the resize.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTop         Anchor = "top"
	AnchorTopRight    Anchor = "top-right"
	AnchorRight       Anchor = "right"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorBottom      Anchor = "bottom"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorLeft        Anchor = "left"
)

// IsCorner reports whether the anchor is one of the four corner handles.
func (a Anchor) IsCorner() bool {
	switch a {
	case AnchorTopLeft, AnchorTopRight, AnchorBottomRight, AnchorBottomLeft:
		return true
	}
	return false
}

// AspectFit adjusts raw drag dimensions so width/height equals ratio. The
// width is derived first unless the height-derived candidate deviates less
// from the raw drag, then both are snapped to the grid with height re-derived
// from the snapped width so the lock holds across snapping.
func AspectFit(width, height int, ratio float64, grid int) (int, int) {
	if ratio <= 0 || width <= 0 || height <= 0 {
		return SnapToGrid(width, grid), SnapToGrid(height, grid)
	}

	// Candidate from width vs candidate from height: keep whichever moves
	// the rectangle least from the raw drag.
	fromWidthH := float64(width) / ratio
	fromHeightW := float64(height) * ratio
	devW := math.Abs(fromWidthH - float64(height))
	devH := math.Abs(fromHeightW - float64(width))

	var w float64
	if devH < devW {
		w = fromHeightW
	} else {
		w = float64(width)
	}

	snappedW := SnapToGrid(int(math.Round(w)), grid)
	snappedH := SnapToGrid(int(math.Round(float64(snappedW)/ratio)), grid)
	return snappedW, snappedH
}

// ApplyAnchoredResize resizes rect to the new dimensions, holding the edge
// or corner opposite the anchor stationary. Dragging the bottom-right
// corner keeps the top-left fixed; dragging the top edge keeps the bottom
// edge fixed, and so on.
func ApplyAnchoredResize(rect Rect, anchor Anchor, newWidth, newHeight int) Rect {
	out := rect
	out.Width = newWidth
	out.Height = newHeight

	switch anchor {
	case AnchorTopLeft:
		out.X = rect.Right() - newWidth
		out.Y = rect.Bottom() - newHeight
	case AnchorTop:
		out.Y = rect.Bottom() - newHeight
	case AnchorTopRight:
		out.Y = rect.Bottom() - newHeight
	case AnchorLeft:
		out.X = rect.Right() - newWidth
	case AnchorBottomLeft:
		out.X = rect.Right() - newWidth
	case AnchorRight, AnchorBottom, AnchorBottomRight:
		// Origin already fixed at the top-left.
	}
	return out
}

// ApplyCenteredResize resizes rect symmetrically around its center. Callers
// snapping the dimensions to a doubled grid keep the center itself
// grid-aligned.
func ApplyCenteredResize(rect Rect, newWidth, newHeight int) Rect {
	return Rect{
		X:      rect.X + rect.Width/2 - newWidth/2,
		Y:      rect.Y + rect.Height/2 - newHeight/2,
		Width:  newWidth,
		Height: newHeight,
	}
}

// latentGrid is the pixel granularity the model's latent space requires of
// any dimension handed to it.
const latentGrid = 8

// ScaledDimensions derives the model-input-space size for a document-space
// region: an aspect-preserving resize whose area approximates
// optimal*optimal, with both dimensions rounded to the latent granularity.
func ScaledDimensions(width, height, optimal int) (int, int) {
	if width <= 0 || height <= 0 {
		return optimal, optimal
	}
	aspect := float64(width) / float64(height)
	area := float64(optimal) * float64(optimal)

	w := SnapToGrid(int(math.Round(math.Sqrt(area*aspect))), latentGrid)
	if w < latentGrid {
		w = latentGrid
	}
	h := SnapToGrid(int(math.Round(area/float64(w))), latentGrid)
	if h < latentGrid {
		h = latentGrid
	}
	return w, h
}
