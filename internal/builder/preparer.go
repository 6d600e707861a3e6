package builder

import (
	"context"

	"github.com/easelai/easel/internal/state"
)

// ImagePreparer fetches and transforms bitmaps for the per-entity
// sub-builders (control adapters, region masks). Prepare returns the ref of
// the ready-to-use image; width/height of zero means fetch without resizing.
//
// A Prepare failure aborts the whole build; there is no partial-failure
// isolation at this layer.
type ImagePreparer interface {
	Prepare(ctx context.Context, ref state.ImageRef, width, height int) (state.ImageRef, error)
}

// nopPreparer passes image refs through untouched. Used when the caller has
// already prepared all entity images.
type nopPreparer struct{}

func (nopPreparer) Prepare(_ context.Context, ref state.ImageRef, _, _ int) (state.ImageRef, error) {
	return ref, nil
}
