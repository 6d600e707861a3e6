package builder

import "github.com/easelai/easel/internal/state"

// accumulateMetadata records the resolved generation parameters. The
// record is merged progressively with last-write-wins per key and bound to
// the terminal output node, so any produced image traces back to its full
// parameters.
func (b *builder) accumulateMetadata() {
	snap := b.snap

	b.meta.Set("generation_mode", snap.Mode.String())
	b.meta.Set("positive_prompt", snap.PositivePrompt)
	b.meta.Set("negative_prompt", snap.NegativePrompt)
	b.meta.Set("model", snap.Model.Key)
	b.meta.Set("model_family", string(snap.Model.Family))
	b.meta.Set("seed", snap.Seed)
	b.meta.Set("steps", snap.Steps)
	b.meta.Set("cfg_scale", snap.CFGScale)
	b.meta.Set("scheduler", snap.Scheduler)
	b.meta.Set("width", snap.Bbox.Width)
	b.meta.Set("height", snap.Bbox.Height)

	if snap.VAE != nil && snap.VAE.Family == snap.Model.Family {
		b.meta.Set("vae", snap.VAE.Key)
	} else {
		b.meta.Set("vae", "builtin")
	}

	if snap.SeamlessX || snap.SeamlessY {
		b.meta.Set("seamless_x", snap.SeamlessX)
		b.meta.Set("seamless_y", snap.SeamlessY)
	}
	if len(snap.LoRAs) > 0 {
		loras := make([]map[string]any, 0, len(snap.LoRAs))
		for _, l := range snap.LoRAs {
			loras = append(loras, map[string]any{"lora": l.Key, "weight": l.Weight})
		}
		b.meta.Set("loras", loras)
	}
	if snap.RefinerModel != nil {
		b.meta.Set("refiner_model", snap.RefinerModel.Key)
		b.meta.Set("refiner_start", snap.RefinerStart)
	}
	if snap.Mode.ImageConditioned() {
		b.meta.Set("denoising_strength", snap.DenoisingStrength)
	}
	if snap.Mode == state.ModeOutpaint {
		b.meta.Set("infill_method", snap.InfillMethod)
	}
}
