// Package geom provides the integer-rectangle and pointer-space math used
// by the bounding-box editor and overlay renderers.
package geom

import "math"

// Point is a position in canvas space.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an integer rectangle in document space.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// AspectRatio returns width/height, or 0 for a degenerate rectangle.
func (r Rect) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= float64(r.X) && p.X < float64(r.Right()) &&
		p.Y >= float64(r.Y) && p.Y < float64(r.Bottom())
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// SnapToGrid rounds v to the nearest multiple of grid. A grid of zero or
// less returns v unchanged.
func SnapToGrid(v, grid int) int {
	if grid <= 0 {
		return v
	}
	return int(math.Round(float64(v)/float64(grid))) * grid
}

// SnapRect snaps all four rectangle components to the grid.
func SnapRect(r Rect, grid int) Rect {
	return Rect{
		X:      SnapToGrid(r.X, grid),
		Y:      SnapToGrid(r.Y, grid),
		Width:  SnapToGrid(r.Width, grid),
		Height: SnapToGrid(r.Height, grid),
	}
}
