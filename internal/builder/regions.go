package builder

import (
	"context"
	"fmt"

	"github.com/easelai/easel/internal/graph"
)

// addRegions attaches one regional-guidance subgraph per region entity.
// Image-conditioned modes only. Each region may contribute masked prompt
// conditioning into the base collect aggregators and masked reference
// images into the shared reference collector.
func (b *builder) addRegions(ctx context.Context) error {
	if !b.snap.Mode.ImageConditioned() {
		return nil
	}

	for i, region := range b.snap.Regions {
		if region.Mask == nil {
			return fmt.Errorf("region %d has no mask", i)
		}
		mask, err := b.images.Prepare(ctx, *region.Mask, b.snap.Bbox.Width, b.snap.Bbox.Height)
		if err != nil {
			return fmt.Errorf("preparing region %d mask: %w", i, err)
		}

		maskNode := b.g.Add(TypeRegionMask, graph.Fields{fieldImage: mask.Name})
		maskSource := graph.FieldRef{NodeID: maskNode.ID, Field: fieldMask}

		if region.PositivePrompt != "" {
			cond := b.g.Add(TypePromptEncode, graph.Fields{"prompt": region.PositivePrompt})
			b.connect(b.clipSource, cond.ID, fieldCLIP)
			b.connect(maskSource, cond.ID, fieldMask)
			b.connect(graph.FieldRef{NodeID: cond.ID, Field: fieldCond}, b.posCollect.ID, fieldItem)

			// Auto-negative: the region's positive prompt conditions the
			// rest of the canvas negatively, via the inverted mask.
			if region.AutoNegative {
				neg := b.g.Add(TypePromptEncode, graph.Fields{
					"prompt":      region.PositivePrompt,
					"invert_mask": true,
				})
				b.connect(b.clipSource, neg.ID, fieldCLIP)
				b.connect(maskSource, neg.ID, fieldMask)
				b.connect(graph.FieldRef{NodeID: neg.ID, Field: fieldCond}, b.negCollect.ID, fieldItem)
			}
		}

		if region.NegativePrompt != "" {
			cond := b.g.Add(TypePromptEncode, graph.Fields{"prompt": region.NegativePrompt})
			b.connect(b.clipSource, cond.ID, fieldCLIP)
			b.connect(maskSource, cond.ID, fieldMask)
			b.connect(graph.FieldRef{NodeID: cond.ID, Field: fieldCond}, b.negCollect.ID, fieldItem)
		}

		if err := b.addReferenceImages(ctx, region.ReferenceImages, maskSource); err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
	}
	return nil
}
