package canvas

import (
	"context"
	"fmt"

	"github.com/easelai/easel/internal/geom"
)

// Candidate is one in-progress or completed generation result shown in the
// staging area.
type Candidate struct {
	ImageName string
	Bounds    geom.Rect
}

// StagingState is the value snapshot the staging preview renders from.
// Selected is nil when no candidate is chosen; index 0 is a valid
// selection.
type StagingState struct {
	Candidates []Candidate
	Selected   *int
}

// RenderStaging shows the selected candidate image. The image node is
// created lazily on first use and its source is swapped in place when the
// selected candidate's identity changes; identical identities re-render
// without a swap. A nil selection hides the group and clears the displayed
// image reference.
//
// When an ImageLoader is installed, the new source is awaited before the
// node becomes visible, so stale content never flashes. Returns whether a
// source swap occurred.
func (c *Controller) RenderStaging(ctx context.Context, s StagingState) (bool, error) {
	group := c.node(IDStaging)

	if s.Selected == nil {
		group.Visible = false
		if img := c.scene.Get(IDStagingImg); img != nil {
			img.Image = ""
			img.Visible = false
		}
		c.displayedImage = ""
		return false, nil
	}

	idx := *s.Selected
	if idx < 0 || idx >= len(s.Candidates) {
		return false, fmt.Errorf("staging: selected candidate %d out of range (%d candidates)", idx, len(s.Candidates))
	}
	candidate := s.Candidates[idx]

	img := c.scene.Get(IDStagingImg)
	if img == nil {
		var err error
		img, err = c.scene.Attach(IDStaging, &Node{ID: IDStagingImg, Kind: KindImage})
		if err != nil {
			return false, err
		}
	}

	group.Visible = true
	img.X = float64(candidate.Bounds.X)
	img.Y = float64(candidate.Bounds.Y)
	img.Width = float64(candidate.Bounds.Width)
	img.Height = float64(candidate.Bounds.Height)

	if candidate.ImageName == c.displayedImage {
		img.Visible = candidate.ImageName != ""
		return false, nil
	}

	if c.loader != nil && candidate.ImageName != "" {
		if err := c.loader.Load(ctx, candidate.ImageName); err != nil {
			return false, fmt.Errorf("staging: loading %s: %w", candidate.ImageName, err)
		}
	}
	img.Image = candidate.ImageName
	img.Visible = candidate.ImageName != ""
	c.displayedImage = candidate.ImageName
	return true, nil
}
