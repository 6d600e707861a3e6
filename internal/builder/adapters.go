package builder

import (
	"context"
	"fmt"

	"github.com/easelai/easel/internal/graph"
	"github.com/easelai/easel/internal/state"
)

// addControlAdapters attaches one adapter node per control entity, feeding
// a collector that aggregates into the denoise. Image-conditioned modes
// only. Two-phase: the collector is tentatively added, contributions are
// counted, and the collector is removed again if nothing fed it, so the
// final graph never carries a dangling empty aggregator.
func (b *builder) addControlAdapters(ctx context.Context) error {
	if !b.snap.Mode.ImageConditioned() {
		return nil
	}

	collector := b.g.Add(TypeControlCollect, nil)
	added := 0

	for i, ca := range b.snap.ControlAdapters {
		prepared, err := b.images.Prepare(ctx, *ca.Image, b.snap.Bbox.Width, b.snap.Bbox.Height)
		if err != nil {
			return fmt.Errorf("preparing control adapter %d image: %w", i, err)
		}
		n := b.g.Add(TypeControlAdapter, graph.Fields{
			fieldImage:      prepared.Name,
			"model":         ca.Model,
			"weight":        ca.Weight,
			"begin_percent": ca.BeginPercent,
			"end_percent":   ca.EndPercent,
			"control_mode":  ca.ControlMode,
		})
		b.connect(graph.FieldRef{NodeID: n.ID, Field: fieldControl}, collector.ID, fieldItem)
		added++
	}

	if added == 0 {
		b.g.DeleteNode(collector.ID)
		return nil
	}
	b.connect(graph.FieldRef{NodeID: collector.ID, Field: fieldCollection}, b.denoise.ID, fieldControl)
	return nil
}

// refCollect returns the shared reference-image collector, tentatively
// creating it on first use. Regional reference images feed the same
// collector as global ones.
func (b *builder) refCollect() *graph.Node {
	if b.refCollector == nil {
		b.refCollector = b.g.Add(TypeRefCollect, nil)
	}
	return b.refCollector
}

// addReferenceImages attaches identity/style adapter nodes for the given
// entities. maskSource, when set, scopes each adapter to a region mask.
func (b *builder) addReferenceImages(ctx context.Context, refs []state.ReferenceImage, maskSource graph.FieldRef) error {
	for i, ref := range refs {
		prepared, err := b.images.Prepare(ctx, *ref.Image, 0, 0)
		if err != nil {
			return fmt.Errorf("preparing reference image %d: %w", i, err)
		}
		n := b.g.Add(TypeRefImage, graph.Fields{
			fieldImage:      prepared.Name,
			"model":         ref.Model,
			"weight":        ref.Weight,
			"begin_percent": ref.BeginPercent,
			"end_percent":   ref.EndPercent,
		})
		if maskSource != (graph.FieldRef{}) {
			b.connect(maskSource, n.ID, fieldMask)
		}
		b.connect(graph.FieldRef{NodeID: n.ID, Field: "ref_image"}, b.refCollect().ID, fieldItem)
		b.refAdded++
	}
	return nil
}

// finalizeRefCollect applies the second phase of the reference collector:
// wire it into the denoise if anything fed it, remove it otherwise. Runs
// after both the global pass and the region passes.
func (b *builder) finalizeRefCollect() {
	if b.refCollector == nil {
		return
	}
	if b.refAdded == 0 {
		b.g.DeleteNode(b.refCollector.ID)
		b.refCollector = nil
		return
	}
	b.connect(graph.FieldRef{NodeID: b.refCollector.ID, Field: fieldCollection}, b.denoise.ID, fieldRefImages)
}
