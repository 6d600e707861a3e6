// Package state defines the read-only snapshot of application state a
// graph build consumes: model selection, prompts, the canvas bounding box,
// and the ordered entity collections that contribute optional subgraphs.
package state

import (
	"errors"
	"fmt"

	"github.com/easelai/easel/internal/geom"
)

// ModelFamily identifies the architecture a model belongs to. The refiner
// sub-pipeline and custom-VAE compatibility are family-gated.
type ModelFamily string

const (
	FamilySD   ModelFamily = "sd"
	FamilySDXL ModelFamily = "sdxl"
)

// OptimalDimension returns the training-resolution edge length for the
// family, used to derive the model-input-space size of the bounding box.
func (f ModelFamily) OptimalDimension() int {
	if f == FamilySDXL {
		return 1024
	}
	return 512
}

// Model identifies an installed model by its stable key.
type Model struct {
	Key    string      `hcl:"key"`
	Name   string      `hcl:"name,optional"`
	Family ModelFamily `hcl:"family"`
}

// ImageRef names a server-side image together with its pixel dimensions.
type ImageRef struct {
	Name   string `hcl:"name"`
	Width  int    `hcl:"width,optional"`
	Height int    `hcl:"height,optional"`
}

// LoRA is one weight-adjustment model applied to the base model before
// denoising. Order matters: chains are applied in sequence.
type LoRA struct {
	Key    string  `hcl:"key,label"`
	Weight float64 `hcl:"weight,optional"`
}

// ControlAdapter conditions the denoise with a control image (edges, depth,
// pose). Zero adapters is the common case.
type ControlAdapter struct {
	Model        string    `hcl:"model,label"`
	Image        *ImageRef `hcl:"image,block"`
	Weight       float64   `hcl:"weight,optional"`
	BeginPercent float64   `hcl:"begin_percent,optional"`
	EndPercent   float64   `hcl:"end_percent,optional"`
	ControlMode  string    `hcl:"control_mode,optional"`
}

// ReferenceImage conditions generation on the identity or style of an
// existing image.
type ReferenceImage struct {
	Model        string    `hcl:"model,label"`
	Image        *ImageRef `hcl:"image,block"`
	Weight       float64   `hcl:"weight,optional"`
	BeginPercent float64   `hcl:"begin_percent,optional"`
	EndPercent   float64   `hcl:"end_percent,optional"`
}

// Region scopes prompt conditioning and reference images to a masked area
// of the bounding box.
type Region struct {
	PositivePrompt  string           `hcl:"positive_prompt,optional"`
	NegativePrompt  string           `hcl:"negative_prompt,optional"`
	AutoNegative    bool             `hcl:"auto_negative,optional"`
	Mask            *ImageRef        `hcl:"mask,block"`
	ReferenceImages []ReferenceImage `hcl:"reference_image,block"`
}

// Snapshot is everything a single build reads. It is a plain value: the
// builder never mutates it and never observes state changes mid-build.
type Snapshot struct {
	Model        *Model
	RefinerModel *Model
	// RefinerStart is the noise-schedule point where the base denoise hands
	// off to the refiner, in [0,1].
	RefinerStart float64
	VAE          *Model

	PositivePrompt string
	NegativePrompt string

	Seed      int64
	Steps     int
	CFGScale  float64
	Scheduler string

	Mode GenerationMode
	Bbox geom.Rect

	SeamlessX bool
	SeamlessY bool

	// DenoisingStrength applies to image-conditioned modes only.
	DenoisingStrength float64
	InfillMethod      string
	InitialImage      *ImageRef
	MaskImage         *ImageRef

	LoRAs           []LoRA
	ControlAdapters []ControlAdapter
	ReferenceImages []ReferenceImage
	Regions         []Region

	NSFWFilter bool
	Watermark  bool
}

// ScaledBbox returns the model-input-space dimensions for the bounding box:
// an aspect-preserving resize toward the model family's training resolution.
func (s *Snapshot) ScaledBbox() (int, int) {
	optimal := 512
	if s.Model != nil {
		optimal = s.Model.Family.OptimalDimension()
	}
	return geom.ScaledDimensions(s.Bbox.Width, s.Bbox.Height, optimal)
}

// Validate checks the user-recoverable preconditions of a snapshot. Model
// presence and family agreement are deliberately not checked here: those
// are build-time invariants the UI gates, enforced by the builder itself.
func (s *Snapshot) Validate() error {
	if s.Bbox.Empty() {
		return errors.New("bounding box has no area")
	}
	if s.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", s.Steps)
	}
	if s.Mode.ImageConditioned() && s.InitialImage == nil {
		return fmt.Errorf("mode %s requires an initial image", s.Mode)
	}
	if (s.Mode == ModeInpaint || s.Mode == ModeOutpaint) && s.MaskImage == nil {
		return fmt.Errorf("mode %s requires a mask image", s.Mode)
	}
	if s.RefinerModel != nil && (s.RefinerStart <= 0 || s.RefinerStart >= 1) {
		return fmt.Errorf("refiner start must be in (0,1), got %v", s.RefinerStart)
	}
	for i, ca := range s.ControlAdapters {
		if ca.Image == nil {
			return fmt.Errorf("control adapter %d has no image", i)
		}
	}
	for i, ref := range s.ReferenceImages {
		if ref.Image == nil {
			return fmt.Errorf("reference image %d has no image", i)
		}
	}
	return nil
}
