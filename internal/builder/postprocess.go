package builder

import "github.com/easelai/easel/internal/graph"

// Post-processing passes run in a fixed order after the mode subgraph:
// NSFW classification, then watermarking. Each forwards the upstream
// image, so the last one attached owns the terminal output.

func (b *builder) addNSFWChecker() {
	if !b.snap.NSFWFilter {
		return
	}
	n := b.g.Add(TypeNSFWChecker, nil)
	b.connect(graph.FieldRef{NodeID: b.output.ID, Field: fieldImage}, n.ID, fieldImage)
	b.setOutput(n)
}

func (b *builder) addWatermarker() {
	if !b.snap.Watermark {
		return
	}
	n := b.g.Add(TypeWatermark, nil)
	b.connect(graph.FieldRef{NodeID: b.output.ID, Field: fieldImage}, n.ID, fieldImage)
	b.setOutput(n)
}
