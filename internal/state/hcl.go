package state

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/easelai/easel/internal/geom"
)

// document is the HCL schema of a generation-state file.
type document struct {
	Model    *Model    `hcl:"model,block"`
	Refiner  *refiner  `hcl:"refiner,block"`
	VAE      *Model    `hcl:"vae,block"`
	Prompts  *prompts  `hcl:"prompts,block"`
	Settings *settings `hcl:"settings,block"`
	Bbox     *bbox     `hcl:"bbox,block"`

	LoRAs           []LoRA           `hcl:"lora,block"`
	ControlAdapters []ControlAdapter `hcl:"control_adapter,block"`
	ReferenceImages []ReferenceImage `hcl:"reference_image,block"`
	Regions         []Region         `hcl:"region,block"`
}

type refiner struct {
	Key    string      `hcl:"key"`
	Name   string      `hcl:"name,optional"`
	Family ModelFamily `hcl:"family"`
	Start  float64     `hcl:"start,optional"`
}

type prompts struct {
	Positive string `hcl:"positive"`
	Negative string `hcl:"negative,optional"`
}

type settings struct {
	Mode              string    `hcl:"mode"`
	Seed              int64     `hcl:"seed,optional"`
	Steps             int       `hcl:"steps,optional"`
	CFGScale          float64   `hcl:"cfg_scale,optional"`
	Scheduler         string    `hcl:"scheduler,optional"`
	SeamlessX         bool      `hcl:"seamless_x,optional"`
	SeamlessY         bool      `hcl:"seamless_y,optional"`
	DenoisingStrength float64   `hcl:"denoising_strength,optional"`
	InfillMethod      string    `hcl:"infill_method,optional"`
	NSFWFilter        bool      `hcl:"nsfw_filter,optional"`
	Watermark         bool      `hcl:"watermark,optional"`
	InitialImage      *ImageRef `hcl:"initial_image,block"`
	MaskImage         *ImageRef `hcl:"mask_image,block"`
}

type bbox struct {
	X      int `hcl:"x"`
	Y      int `hcl:"y"`
	Width  int `hcl:"width"`
	Height int `hcl:"height"`
}

// defaults applied when the document omits optional settings.
const (
	defaultSteps        = 30
	defaultCFGScale     = 7.5
	defaultScheduler    = "euler"
	defaultRefinerStart = 0.8
	defaultInfillMethod = "patchmatch"
)

// LoadFile parses and decodes a generation-state document from disk.
func LoadFile(path string) (*Snapshot, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}
	return decode(file.Body)
}

// Parse decodes a generation-state document from an in-memory buffer. The
// filename is used only in diagnostics.
func Parse(src []byte, filename string) (*Snapshot, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", filename, diags)
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Snapshot, error) {
	var doc document
	if diags := gohcl.DecodeBody(body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("decoding generation document: %w", diags)
	}

	if doc.Model == nil {
		return nil, fmt.Errorf("generation document needs a model block")
	}
	if doc.Prompts == nil {
		return nil, fmt.Errorf("generation document needs a prompts block")
	}
	if doc.Settings == nil {
		return nil, fmt.Errorf("generation document needs a settings block")
	}
	if doc.Bbox == nil {
		return nil, fmt.Errorf("generation document needs a bbox block")
	}

	mode, err := ParseGenerationMode(doc.Settings.Mode)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Model:          doc.Model,
		VAE:            doc.VAE,
		PositivePrompt: doc.Prompts.Positive,
		NegativePrompt: doc.Prompts.Negative,
		Seed:           doc.Settings.Seed,
		Steps:          doc.Settings.Steps,
		CFGScale:       doc.Settings.CFGScale,
		Scheduler:      doc.Settings.Scheduler,
		Mode:           mode,
		Bbox: geom.Rect{
			X:      doc.Bbox.X,
			Y:      doc.Bbox.Y,
			Width:  doc.Bbox.Width,
			Height: doc.Bbox.Height,
		},
		SeamlessX:         doc.Settings.SeamlessX,
		SeamlessY:         doc.Settings.SeamlessY,
		DenoisingStrength: doc.Settings.DenoisingStrength,
		InfillMethod:      doc.Settings.InfillMethod,
		InitialImage:      doc.Settings.InitialImage,
		MaskImage:         doc.Settings.MaskImage,
		LoRAs:             doc.LoRAs,
		ControlAdapters:   doc.ControlAdapters,
		ReferenceImages:   doc.ReferenceImages,
		Regions:           doc.Regions,
		NSFWFilter:        doc.Settings.NSFWFilter,
		Watermark:         doc.Settings.Watermark,
	}

	if doc.Refiner != nil {
		snap.RefinerModel = &Model{Key: doc.Refiner.Key, Name: doc.Refiner.Name, Family: doc.Refiner.Family}
		snap.RefinerStart = doc.Refiner.Start
		if snap.RefinerStart == 0 {
			snap.RefinerStart = defaultRefinerStart
		}
	}
	if snap.Steps == 0 {
		snap.Steps = defaultSteps
	}
	if snap.CFGScale == 0 {
		snap.CFGScale = defaultCFGScale
	}
	if snap.Scheduler == "" {
		snap.Scheduler = defaultScheduler
	}
	if snap.Mode == ModeOutpaint && snap.InfillMethod == "" {
		snap.InfillMethod = defaultInfillMethod
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}
