package builder

// Node type strings are a versioned protocol contract with the inference
// service. Renaming one here is a wire-format change, not a refactor.
const (
	TypeModelLoader   = "model_loader"
	TypeVAELoader     = "vae_loader"
	TypeSeamless      = "seamless"
	TypeLoRA          = "lora_apply"
	TypePromptEncode  = "prompt_encode"
	TypeCollect       = "collect"
	TypeNoise         = "noise"
	TypeDenoise       = "denoise"
	TypeLatentsDecode = "l2i"

	TypeImageToLatents = "i2l"
	TypeInfill         = "infill"
	TypeDenoiseMask    = "denoise_mask"
	TypeCanvasPaste    = "canvas_paste"

	TypeControlAdapter = "control_adapter"
	TypeControlCollect = "control_collect"
	TypeRefImage       = "ref_image"
	TypeRefCollect     = "ref_collect"
	TypeRegionMask     = "region_mask"

	TypeNSFWChecker = "nsfw_checker"
	TypeWatermark   = "watermark"
)

// Shared field names of the protocol contract.
const (
	fieldUNet        = "unet"
	fieldCLIP        = "clip"
	fieldVAE         = "vae"
	fieldNoise       = "noise"
	fieldLatents     = "latents"
	fieldImage       = "image"
	fieldMask        = "mask"
	fieldItem        = "item"
	fieldCollection  = "collection"
	fieldControl     = "control"
	fieldRefImages   = "ref_images"
	fieldDenoiseMask = "denoise_mask"
	fieldPositive    = "positive_conditioning"
	fieldNegative    = "negative_conditioning"
	fieldCond        = "conditioning"
	fieldMetadata    = "metadata"
)
