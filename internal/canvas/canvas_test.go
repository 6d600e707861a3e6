package canvas

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easelai/easel/internal/geom"
)

func TestSceneAttachAndGet(t *testing.T) {
	s := NewScene()

	n, err := s.Attach("root", &Node{ID: "g", Kind: KindGroup})
	require.NoError(t, err)
	assert.Same(t, n, s.Get("g"))

	_, err = s.Attach("g", &Node{ID: "r", Kind: KindRect})
	require.NoError(t, err)
	assert.Len(t, s.Get("g").Children(), 1)

	t.Run("duplicate ID rejected", func(t *testing.T) {
		_, err := s.Attach("root", &Node{ID: "g", Kind: KindGroup})
		assert.ErrorContains(t, err, "duplicate node ID")
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		_, err := s.Attach("dne", &Node{ID: "x", Kind: KindRect})
		assert.ErrorContains(t, err, "parent node not found")
	})

	t.Run("non-group parent rejected", func(t *testing.T) {
		_, err := s.Attach("r", &Node{ID: "x", Kind: KindRect})
		assert.ErrorContains(t, err, "not a group")
	})
}

func TestSceneRemove(t *testing.T) {
	s := NewScene()
	_, err := s.Attach("root", &Node{ID: "g", Kind: KindGroup})
	require.NoError(t, err)
	_, err = s.Attach("g", &Node{ID: "child", Kind: KindRect})
	require.NoError(t, err)

	s.Remove("g")
	assert.Nil(t, s.Get("g"))
	assert.Nil(t, s.Get("child"), "subtree is unindexed with its root")
	assert.Empty(t, s.Root().Children())

	// No-ops.
	s.Remove("dne")
	s.Remove("root")
	assert.NotNil(t, s.Get("root"))
}

func TestNewControllerTree(t *testing.T) {
	c := NewController()

	for _, id := range []string{IDBboxGroup, IDCursorGroup, IDBoundsGroup, IDStaging} {
		group := c.Scene().Get(id)
		require.NotNil(t, group, id)
		assert.False(t, group.Visible, "groups start hidden")
	}

	// Eight handles plus the body rectangle.
	assert.Len(t, c.Scene().Get(IDBboxGroup).Children(), 9)

	inner := c.Scene().Get(IDBoundsInner)
	require.NotNil(t, inner)
	assert.Equal(t, CompositeDestinationOut, inner.Composite)
}

func TestCursorStyle(t *testing.T) {
	tests := []struct {
		name     string
		tool     Tool
		layers   int
		drawable bool
		grabbing bool
		want     string
	}{
		{"view idle", ToolView, 1, true, false, "grab"},
		{"view dragging", ToolView, 1, true, true, "grabbing"},
		{"move", ToolMove, 1, true, false, "default"},
		{"bbox", ToolBbox, 1, true, false, "default"},
		{"rect", ToolRect, 1, true, false, "crosshair"},
		{"rect no layers", ToolRect, 0, false, false, "not-allowed"},
		{"brush", ToolBrush, 1, true, false, "none"},
		{"eraser", ToolEraser, 2, true, false, "none"},
		{"brush non-drawable layer", ToolBrush, 1, false, false, "not-allowed"},
		{"unknown tool", Tool("lasso"), 1, true, false, "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CursorStyle(tt.tool, tt.layers, tt.drawable, tt.grabbing))
		})
	}
}

func TestModifiersGridSize(t *testing.T) {
	assert.Equal(t, 64, Modifiers{}.GridSize())
	assert.Equal(t, 8, Modifiers{Precision: true}.GridSize())
	assert.Equal(t, 128, Modifiers{Centered: true}.GridSize())
	assert.Equal(t, 16, Modifiers{Precision: true, Centered: true}.GridSize())
}

func TestDragBboxSnapping(t *testing.T) {
	c := NewController()
	bbox := geom.Rect{X: 0, Y: 0, Width: 512, Height: 512}

	moved := c.DragBbox(bbox, 100, 250, Modifiers{})
	assert.Equal(t, 128, moved.X)
	assert.Equal(t, 256, moved.Y)
	assert.Zero(t, moved.X%64)
	assert.Zero(t, moved.Y%64)

	fine := c.DragBbox(bbox, 100, 250, Modifiers{Precision: true})
	assert.Equal(t, 104, fine.X)
	assert.Equal(t, 248, fine.Y)
}

func TestResizeBboxAspectLock(t *testing.T) {
	c := NewController()
	start := geom.Rect{X: 0, Y: 0, Width: 512, Height: 512}

	// The ratio cache refreshes while the lock is not held.
	c.SyncAspectCache(start, Modifiers{})

	got := c.ResizeBbox(start, geom.AnchorBottomRight, 600, 900, Modifiers{LockAspect: true})
	assert.Equal(t, 0, got.X, "bottom-right resize keeps top-left fixed")
	assert.Equal(t, 0, got.Y)
	assert.Equal(t, got.Width, got.Height, "locked ratio was 1.0")
	assert.Equal(t, 576, got.Width)
	assert.Zero(t, got.Width%64)
}

func TestResizeBboxAspectCacheResumesFreeFormRatio(t *testing.T) {
	c := NewController()
	start := geom.Rect{X: 0, Y: 0, Width: 512, Height: 512}

	// Free-form resize to 2:1, cache keeps following.
	wide := c.ResizeBbox(start, geom.AnchorBottomRight, 1024, 512, Modifiers{})
	c.SyncAspectCache(wide, Modifiers{})

	// Re-engaging the lock resumes from the most recent free-form ratio.
	got := c.ResizeBbox(wide, geom.AnchorBottomRight, 1500, 1500, Modifiers{LockAspect: true})
	assert.InDelta(t, 2.0, float64(got.Width)/float64(got.Height), 1e-9)
}

func TestResizeBboxLockCacheFrozenWhileHeld(t *testing.T) {
	c := NewController()
	start := geom.Rect{X: 0, Y: 0, Width: 512, Height: 512}
	c.SyncAspectCache(start, Modifiers{})

	// While the lock is held the cache must not follow intermediate rects.
	mid := c.ResizeBbox(start, geom.AnchorBottomRight, 640, 640, Modifiers{LockAspect: true})
	c.SyncAspectCache(mid, Modifiers{LockAspect: true})

	got := c.ResizeBbox(mid, geom.AnchorBottomRight, 700, 900, Modifiers{LockAspect: true})
	assert.Equal(t, got.Width, got.Height, "cached ratio still 1.0")
}

func TestResizeBboxCenteredKeepsCenterStationary(t *testing.T) {
	c := NewController()
	start := geom.Rect{X: 0, Y: 0, Width: 512, Height: 512}

	got := c.ResizeBbox(start, geom.AnchorBottomRight, 768, 768, Modifiers{Centered: true})

	assert.Equal(t, 256, got.X+got.Width/2, "center must not move during symmetric resize")
	assert.Equal(t, 256, got.Y+got.Height/2)
	assert.Equal(t, geom.Rect{X: -128, Y: -128, Width: 768, Height: 768}, got)
	assert.Zero(t, got.Width%128, "centered resize snaps to the doubled grid")

	// An off-grid drag still lands the center on the coarse grid.
	rough := c.ResizeBbox(start, geom.AnchorBottomRight, 700, 700, Modifiers{Centered: true})
	assert.Zero(t, rough.Width%128)
	assert.Equal(t, 256, rough.X+rough.Width/2)
}

func TestResizeBboxSnapsAllEdges(t *testing.T) {
	c := NewController()
	start := geom.Rect{X: 128, Y: 128, Width: 512, Height: 512}

	got := c.ResizeBbox(start, geom.AnchorTopLeft, 400, 300, Modifiers{})
	assert.Zero(t, got.Width%64)
	assert.Zero(t, got.Height%64)
	assert.Equal(t, 640, got.Right(), "top-left resize keeps bottom-right fixed")
	assert.Equal(t, 640, got.Bottom())

	fine := c.ResizeBbox(start, geom.AnchorRight, 401, 512, Modifiers{Precision: true})
	assert.Zero(t, fine.Width%8)
	assert.Equal(t, 400, fine.Width)
}

func TestRenderBbox(t *testing.T) {
	c := NewController()
	bbox := geom.Rect{X: 64, Y: 64, Width: 512, Height: 256}

	c.RenderBbox(bbox, 2.0, true)

	group := c.Scene().Get(IDBboxGroup)
	assert.True(t, group.Visible)

	rect := c.Scene().Get(IDBboxRect)
	assert.Equal(t, 64.0, rect.X)
	assert.Equal(t, 512.0, rect.Width)
	assert.Equal(t, 0.5, rect.StrokeWidth, "stroke is constant in screen space")

	br := c.Scene().Get(bboxHandleID(geom.AnchorBottomRight))
	require.NotNil(t, br)
	assert.Equal(t, 4.0, br.Width, "handle size divides by zoom")
	assert.Equal(t, 576.0-2, br.X, "handle centered on the corner")
	assert.Equal(t, 320.0-2, br.Y)

	c.RenderBbox(bbox, 2.0, false)
	assert.False(t, group.Visible)
}

func TestRenderCursorVisibility(t *testing.T) {
	c := NewController()
	base := CursorState{
		Tool:                ToolBrush,
		Pointer:             geom.Pt(100, 100),
		Radius:              25,
		Zoom:                1,
		InsideCanvas:        true,
		LayerCount:          1,
		ActiveLayerDrawable: true,
	}

	c.RenderCursor(base)
	assert.True(t, c.Scene().Get(IDCursorGroup).Visible)

	t.Run("hides outside canvas", func(t *testing.T) {
		s := base
		s.InsideCanvas = false
		c.RenderCursor(s)
		assert.False(t, c.Scene().Get(IDCursorGroup).Visible)
	})

	t.Run("hides with no layers", func(t *testing.T) {
		s := base
		s.LayerCount = 0
		c.RenderCursor(s)
		assert.False(t, c.Scene().Get(IDCursorGroup).Visible)
	})

	t.Run("hides with non-drawable layer", func(t *testing.T) {
		s := base
		s.ActiveLayerDrawable = false
		c.RenderCursor(s)
		assert.False(t, c.Scene().Get(IDCursorGroup).Visible)
	})
}

func TestRenderCursorBrushAndEraser(t *testing.T) {
	c := NewController()
	s := CursorState{
		Tool:                ToolBrush,
		Pointer:             geom.Pt(40, 60),
		Radius:              25,
		Zoom:                2,
		InsideCanvas:        true,
		LayerCount:          1,
		ActiveLayerDrawable: true,
	}

	c.RenderCursor(s)
	fill := c.Scene().Get(IDCursorFill)
	inner := c.Scene().Get(IDCursorInner)
	outer := c.Scene().Get(IDCursorOuter)

	assert.True(t, fill.Visible)
	assert.Equal(t, CompositeSourceOver, fill.Composite)
	assert.Equal(t, 25.0, fill.Radius)
	assert.Equal(t, 40.0, fill.X)

	// Ring widths divide by zoom.
	assert.Equal(t, 0.75, inner.StrokeWidth)
	assert.Equal(t, 0.25, outer.StrokeWidth)
	assert.Equal(t, 25.75, outer.Radius, "outer ring hugs the inner ring")

	s.Tool = ToolEraser
	c.RenderCursor(s)
	assert.Equal(t, CompositeDestinationOut, fill.Composite, "eraser subtracts")
}

func TestRenderCursorRectPreview(t *testing.T) {
	c := NewController()
	down := geom.Pt(200, 300)
	s := CursorState{
		Tool:                ToolRect,
		Pointer:             geom.Pt(120, 350),
		PointerDown:         &down,
		Zoom:                1,
		InsideCanvas:        true,
		LayerCount:          1,
		ActiveLayerDrawable: true,
	}

	c.RenderCursor(s)

	rect := c.Scene().Get(IDCursorRect)
	assert.True(t, rect.Visible)
	assert.Equal(t, 120.0, rect.X, "rect normalizes to top-left")
	assert.Equal(t, 300.0, rect.Y)
	assert.Equal(t, 80.0, rect.Width)
	assert.Equal(t, 50.0, rect.Height)

	// Circle preview hidden for the rect tool.
	assert.False(t, c.Scene().Get(IDCursorFill).Visible)

	s.PointerDown = nil
	c.RenderCursor(s)
	assert.False(t, rect.Visible, "no drag in progress, no preview")
}

func TestRenderDocumentBounds(t *testing.T) {
	c := NewController()
	doc := geom.Rect{X: 0, Y: 0, Width: 1024, Height: 768}
	viewport := geom.Rect{X: -512, Y: -512, Width: 4096, Height: 4096}

	c.RenderDocumentBounds(doc, viewport, true)

	assert.True(t, c.Scene().Get(IDBoundsGroup).Visible)
	outer := c.Scene().Get(IDBoundsOuter)
	assert.Equal(t, -512.0, outer.X)
	assert.Equal(t, 4096.0, outer.Width)

	inner := c.Scene().Get(IDBoundsInner)
	assert.Equal(t, 1024.0, inner.Width)
	assert.Equal(t, CompositeDestinationOut, inner.Composite, "inner rect cuts out of the darkening")
}

// countingLoader records Load calls and optionally fails.
type countingLoader struct {
	loads []string
	err   error
}

func (l *countingLoader) Load(_ context.Context, name string) error {
	l.loads = append(l.loads, name)
	return l.err
}

func stagingState(selected int, names ...string) StagingState {
	s := StagingState{Selected: &selected}
	for _, n := range names {
		s.Candidates = append(s.Candidates, Candidate{
			ImageName: n,
			Bounds:    geom.Rect{Width: 512, Height: 512},
		})
	}
	return s
}

func TestRenderStagingSwapSemantics(t *testing.T) {
	c := NewController()
	ctx := context.Background()

	swapped, err := c.RenderStaging(ctx, stagingState(1, "a.png", "b.png", "c.png"))
	require.NoError(t, err)
	assert.True(t, swapped, "first display is a swap from empty")

	img := c.Scene().Get(IDStagingImg)
	require.NotNil(t, img, "image node created lazily")
	assert.Equal(t, "b.png", img.Image)

	// Selecting a different candidate swaps the source in place.
	swapped, err = c.RenderStaging(ctx, stagingState(2, "a.png", "b.png", "c.png"))
	require.NoError(t, err)
	assert.True(t, swapped)
	assert.Same(t, img, c.Scene().Get(IDStagingImg), "no node recreation")
	assert.Equal(t, "c.png", img.Image)

	// Re-rendering the same identity is not a swap.
	swapped, err = c.RenderStaging(ctx, stagingState(2, "a.png", "b.png", "c.png"))
	require.NoError(t, err)
	assert.False(t, swapped)
}

func TestRenderStagingIndexZeroIsValid(t *testing.T) {
	c := NewController()

	swapped, err := c.RenderStaging(context.Background(), stagingState(0, "first.png"))
	require.NoError(t, err)
	assert.True(t, swapped, "candidate 0 must not be skipped")
	assert.Equal(t, "first.png", c.Scene().Get(IDStagingImg).Image)
	assert.True(t, c.Scene().Get(IDStaging).Visible)
}

func TestRenderStagingNilSelectionHidesAndClears(t *testing.T) {
	c := NewController()
	ctx := context.Background()

	_, err := c.RenderStaging(ctx, stagingState(0, "first.png"))
	require.NoError(t, err)

	swapped, err := c.RenderStaging(ctx, StagingState{Candidates: []Candidate{{ImageName: "first.png"}}})
	require.NoError(t, err)
	assert.False(t, swapped)
	assert.False(t, c.Scene().Get(IDStaging).Visible)
	assert.Empty(t, c.Scene().Get(IDStagingImg).Image, "displayed image reference cleared")
}

func TestRenderStagingOutOfRange(t *testing.T) {
	c := NewController()
	_, err := c.RenderStaging(context.Background(), stagingState(5, "a.png"))
	assert.ErrorContains(t, err, "out of range")
}

func TestRenderStagingAwaitsLoader(t *testing.T) {
	loader := &countingLoader{}
	c := NewController(WithImageLoader(loader))
	ctx := context.Background()

	_, err := c.RenderStaging(ctx, stagingState(0, "a.png", "b.png"))
	require.NoError(t, err)
	_, err = c.RenderStaging(ctx, stagingState(1, "a.png", "b.png"))
	require.NoError(t, err)
	// Same identity again: no further load.
	_, err = c.RenderStaging(ctx, stagingState(1, "a.png", "b.png"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.png", "b.png"}, loader.loads)

	t.Run("loader failure keeps previous image", func(t *testing.T) {
		loader.err = errors.New("gone")
		_, err := c.RenderStaging(ctx, stagingState(0, "a.png", "b.png"))
		assert.ErrorContains(t, err, "gone")
		assert.Equal(t, "b.png", c.Scene().Get(IDStagingImg).Image)
	})
}
