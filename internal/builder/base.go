package builder

import "github.com/easelai/easel/internal/graph"

// addBaseNodes creates the nodes every generation shares: model loader,
// prompt conditioning with collect aggregators, noise source, denoise,
// latents decode, and the optional custom VAE loader.
func (b *builder) addBaseNodes() {
	snap := b.snap

	b.modelLoader = b.g.Add(TypeModelLoader, graph.Fields{
		"model":  snap.Model.Key,
		"family": string(snap.Model.Family),
	})

	b.posCond = b.g.Add(TypePromptEncode, graph.Fields{"prompt": snap.PositivePrompt})
	b.negCond = b.g.Add(TypePromptEncode, graph.Fields{"prompt": snap.NegativePrompt})
	b.posCollect = b.g.Add(TypeCollect, nil)
	b.negCollect = b.g.Add(TypeCollect, nil)

	scaledW, scaledH := snap.ScaledBbox()
	b.noise = b.g.Add(TypeNoise, graph.Fields{
		"seed":   snap.Seed,
		"width":  scaledW,
		"height": scaledH,
	})

	b.denoise = b.g.Add(TypeDenoise, graph.Fields{
		"steps":           snap.Steps,
		"cfg_scale":       snap.CFGScale,
		"scheduler":       snap.Scheduler,
		"denoising_start": 0.0,
		"denoising_end":   1.0,
	})

	b.decode = b.g.Add(TypeLatentsDecode, nil)

	b.unetSource = graph.FieldRef{NodeID: b.modelLoader.ID, Field: fieldUNet}
	b.clipSource = graph.FieldRef{NodeID: b.modelLoader.ID, Field: fieldCLIP}
	b.latentsSource = graph.FieldRef{NodeID: b.denoise.ID, Field: fieldLatents}

	// VAE-source resolution, lowest precedence first: the model's built-in
	// VAE, then an explicit custom loader when its family matches. A
	// seamless pass may still take over as the final source.
	b.vaeSource = graph.FieldRef{NodeID: b.modelLoader.ID, Field: fieldVAE}
	if snap.VAE != nil && snap.VAE.Family == snap.Model.Family {
		vaeLoader := b.g.Add(TypeVAELoader, graph.Fields{"vae_model": snap.VAE.Key})
		b.vaeSource = graph.FieldRef{NodeID: vaeLoader.ID, Field: fieldVAE}
	}

	b.output = b.decode
}

// wireBasePipeline connects the mandatory edges once the optional passes
// have settled the unet/clip/vae/latents sources.
func (b *builder) wireBasePipeline() {
	b.connect(b.unetSource, b.denoise.ID, fieldUNet)
	b.connect(b.clipSource, b.posCond.ID, fieldCLIP)
	b.connect(b.clipSource, b.negCond.ID, fieldCLIP)

	b.connect(graph.FieldRef{NodeID: b.posCond.ID, Field: fieldCond}, b.posCollect.ID, fieldItem)
	b.connect(graph.FieldRef{NodeID: b.negCond.ID, Field: fieldCond}, b.negCollect.ID, fieldItem)
	b.connect(graph.FieldRef{NodeID: b.posCollect.ID, Field: fieldCollection}, b.denoise.ID, fieldPositive)
	b.connect(graph.FieldRef{NodeID: b.negCollect.ID, Field: fieldCollection}, b.denoise.ID, fieldNegative)

	b.connect(graph.FieldRef{NodeID: b.noise.ID, Field: fieldNoise}, b.denoise.ID, fieldNoise)
	b.connect(b.latentsSource, b.decode.ID, fieldLatents)
	b.connect(b.vaeSource, b.decode.ID, fieldVAE)
}
