package builder

import "github.com/easelai/easel/internal/graph"

// addSeamless wraps the model's unet and the current vae source so
// generated content tiles edge-to-edge. When enabled, the seamless node
// becomes the vae source for decode, taking precedence over any custom
// VAE loader.
func (b *builder) addSeamless() {
	if !b.snap.SeamlessX && !b.snap.SeamlessY {
		return
	}

	seamless := b.g.Add(TypeSeamless, graph.Fields{
		"seamless_x": b.snap.SeamlessX,
		"seamless_y": b.snap.SeamlessY,
	})
	b.connect(b.unetSource, seamless.ID, fieldUNet)
	b.connect(b.vaeSource, seamless.ID, fieldVAE)

	b.unetSource = graph.FieldRef{NodeID: seamless.ID, Field: fieldUNet}
	b.vaeSource = graph.FieldRef{NodeID: seamless.ID, Field: fieldVAE}
}

// addLoRAs chains weight-application nodes between the model loader and the
// denoise/conditioning consumers, in the order the snapshot lists them.
func (b *builder) addLoRAs() {
	for _, lora := range b.snap.LoRAs {
		n := b.g.Add(TypeLoRA, graph.Fields{
			"lora":   lora.Key,
			"weight": lora.Weight,
		})
		b.connect(b.unetSource, n.ID, fieldUNet)
		b.connect(b.clipSource, n.ID, fieldCLIP)

		b.unetSource = graph.FieldRef{NodeID: n.ID, Field: fieldUNet}
		b.clipSource = graph.FieldRef{NodeID: n.ID, Field: fieldCLIP}
	}
}

// addRefiner attaches the refiner sub-pipeline: the primary denoise stops
// at the handoff point of the noise schedule and a second denoise, driven
// by the refiner model, carries it to completion. The refiner's output
// becomes the latents source for decode.
func (b *builder) addRefiner() {
	snap := b.snap
	if snap.RefinerModel == nil {
		return
	}

	b.denoise.Fields["denoising_end"] = snap.RefinerStart

	loader := b.g.Add(TypeModelLoader, graph.Fields{
		"model":  snap.RefinerModel.Key,
		"family": string(snap.RefinerModel.Family),
	})
	refine := b.g.Add(TypeDenoise, graph.Fields{
		"steps":           snap.Steps,
		"cfg_scale":       snap.CFGScale,
		"scheduler":       snap.Scheduler,
		"denoising_start": snap.RefinerStart,
		"denoising_end":   1.0,
	})

	b.connect(graph.FieldRef{NodeID: loader.ID, Field: fieldUNet}, refine.ID, fieldUNet)
	b.connect(graph.FieldRef{NodeID: b.posCollect.ID, Field: fieldCollection}, refine.ID, fieldPositive)
	b.connect(graph.FieldRef{NodeID: b.negCollect.ID, Field: fieldCollection}, refine.ID, fieldNegative)
	b.connect(graph.FieldRef{NodeID: b.denoise.ID, Field: fieldLatents}, refine.ID, fieldLatents)

	b.latentsSource = graph.FieldRef{NodeID: refine.ID, Field: fieldLatents}
}
