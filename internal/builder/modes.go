package builder

import (
	"context"
	"fmt"

	"github.com/easelai/easel/internal/graph"
	"github.com/easelai/easel/internal/state"
)

// addModeSubgraph attaches the per-generation-mode subgraph. Exactly one
// mode is selected; an unhandled variant is a programmer error.
func (b *builder) addModeSubgraph(ctx context.Context) error {
	switch b.snap.Mode {
	case state.ModeTextToImage:
		// Pure noise-to-image: the base pipeline already covers it.
		return nil
	case state.ModeImageToImage:
		return b.addImageToImage(ctx)
	case state.ModeInpaint:
		return b.addInpaint(ctx)
	case state.ModeOutpaint:
		return b.addOutpaint(ctx)
	}
	panic(fmt.Sprintf("builder: unhandled generation mode %q", b.snap.Mode))
}

// initialImage returns the snapshot's source image. Every image-conditioned
// mode requires one; absence is a state invariant the UI gates, not a user
// error.
func (b *builder) initialImage() state.ImageRef {
	if b.snap.InitialImage == nil {
		panic(fmt.Sprintf("builder: %s mode without an initial image", b.snap.Mode))
	}
	return *b.snap.InitialImage
}

// maskImage returns the snapshot's mask, required by inpaint and outpaint.
func (b *builder) maskImage() state.ImageRef {
	if b.snap.MaskImage == nil {
		panic(fmt.Sprintf("builder: %s mode without a mask image", b.snap.Mode))
	}
	return *b.snap.MaskImage
}

// addInitialLatents encodes the source image into latents feeding the
// primary denoise, and rebases the noise schedule start on the denoising
// strength.
func (b *builder) addInitialLatents(imageSource graph.FieldRef, imageRef *state.ImageRef) *graph.Node {
	fields := graph.Fields{}
	if imageRef != nil {
		fields[fieldImage] = imageRef.Name
	}
	i2l := b.g.Add(TypeImageToLatents, fields)
	if imageSource != (graph.FieldRef{}) {
		b.connect(imageSource, i2l.ID, fieldImage)
	}
	b.connect(b.vaeSource, i2l.ID, fieldVAE)
	b.connect(graph.FieldRef{NodeID: i2l.ID, Field: fieldLatents}, b.denoise.ID, fieldLatents)

	b.denoise.Fields["denoising_start"] = 1 - b.snap.DenoisingStrength
	return i2l
}

func (b *builder) addImageToImage(ctx context.Context) error {
	scaledW, scaledH := b.snap.ScaledBbox()
	initial, err := b.images.Prepare(ctx, b.initialImage(), scaledW, scaledH)
	if err != nil {
		return fmt.Errorf("preparing initial image: %w", err)
	}
	b.addInitialLatents(graph.FieldRef{}, &initial)
	return nil
}

func (b *builder) addInpaint(ctx context.Context) error {
	scaledW, scaledH := b.snap.ScaledBbox()
	initial, err := b.images.Prepare(ctx, b.initialImage(), scaledW, scaledH)
	if err != nil {
		return fmt.Errorf("preparing initial image: %w", err)
	}
	mask, err := b.images.Prepare(ctx, b.maskImage(), scaledW, scaledH)
	if err != nil {
		return fmt.Errorf("preparing mask image: %w", err)
	}

	b.addInitialLatents(graph.FieldRef{}, &initial)
	b.addDenoiseMask(mask)
	b.addCompositeOutput(initial, mask)
	return nil
}

func (b *builder) addOutpaint(ctx context.Context) error {
	scaledW, scaledH := b.snap.ScaledBbox()
	initial, err := b.images.Prepare(ctx, b.initialImage(), scaledW, scaledH)
	if err != nil {
		return fmt.Errorf("preparing initial image: %w", err)
	}
	mask, err := b.images.Prepare(ctx, b.maskImage(), scaledW, scaledH)
	if err != nil {
		return fmt.Errorf("preparing mask image: %w", err)
	}

	// The uncovered area is synthesized before encoding so the denoise
	// starts from plausible content instead of transparent pixels.
	infill := b.g.Add(TypeInfill, graph.Fields{
		fieldImage: initial.Name,
		"method":   b.snap.InfillMethod,
	})
	b.addInitialLatents(graph.FieldRef{NodeID: infill.ID, Field: fieldImage}, nil)
	b.addDenoiseMask(mask)
	b.addCompositeOutput(initial, mask)
	return nil
}

// addDenoiseMask scopes the denoise to the masked area.
func (b *builder) addDenoiseMask(mask state.ImageRef) {
	n := b.g.Add(TypeDenoiseMask, graph.Fields{fieldImage: mask.Name})
	b.connect(graph.FieldRef{NodeID: n.ID, Field: fieldDenoiseMask}, b.denoise.ID, fieldDenoiseMask)
}

// addCompositeOutput pastes the generated region back over the source
// pixels outside the mask and takes over as the terminal output node.
func (b *builder) addCompositeOutput(source, mask state.ImageRef) {
	paste := b.g.Add(TypeCanvasPaste, graph.Fields{
		"source_image": source.Name,
		"mask_image":   mask.Name,
	})
	b.connect(graph.FieldRef{NodeID: b.output.ID, Field: fieldImage}, paste.ID, fieldImage)
	b.setOutput(paste)
}
