package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easelai/easel/internal/geom"
)

func validSnapshot() *Snapshot {
	return &Snapshot{
		Model:          &Model{Key: "sd15", Family: FamilySD},
		PositivePrompt: "a lighthouse at dusk",
		Steps:          30,
		CFGScale:       7.5,
		Mode:           ModeTextToImage,
		Bbox:           geom.Rect{Width: 512, Height: 512},
	}
}

func TestParseGenerationMode(t *testing.T) {
	for _, s := range []string{"txt2img", "img2img", "inpaint", "outpaint"} {
		m, err := ParseGenerationMode(s)
		require.NoError(t, err)
		assert.Equal(t, s, m.String())
	}

	_, err := ParseGenerationMode("sideways")
	assert.ErrorContains(t, err, "unknown generation mode")
}

func TestImageConditioned(t *testing.T) {
	assert.False(t, ModeTextToImage.ImageConditioned())
	assert.True(t, ModeImageToImage.ImageConditioned())
	assert.True(t, ModeInpaint.ImageConditioned())
	assert.True(t, ModeOutpaint.ImageConditioned())

	assert.Panics(t, func() {
		GenerationMode("sideways").ImageConditioned()
	})
}

func TestOptimalDimension(t *testing.T) {
	assert.Equal(t, 512, FamilySD.OptimalDimension())
	assert.Equal(t, 1024, FamilySDXL.OptimalDimension())
}

func TestScaledBbox(t *testing.T) {
	s := validSnapshot()
	s.Bbox = geom.Rect{Width: 256, Height: 256}
	w, h := s.ScaledBbox()
	assert.Equal(t, 512, w)
	assert.Equal(t, 512, h)

	s.Model.Family = FamilySDXL
	w, h = s.ScaledBbox()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 1024, h)
}

func TestValidate(t *testing.T) {
	t.Run("valid snapshot passes", func(t *testing.T) {
		assert.NoError(t, validSnapshot().Validate())
	})

	t.Run("empty bbox", func(t *testing.T) {
		s := validSnapshot()
		s.Bbox = geom.Rect{}
		assert.ErrorContains(t, s.Validate(), "bounding box")
	})

	t.Run("image-conditioned mode without initial image", func(t *testing.T) {
		s := validSnapshot()
		s.Mode = ModeImageToImage
		assert.ErrorContains(t, s.Validate(), "requires an initial image")
	})

	t.Run("inpaint without mask", func(t *testing.T) {
		s := validSnapshot()
		s.Mode = ModeInpaint
		s.InitialImage = &ImageRef{Name: "canvas.png"}
		assert.ErrorContains(t, s.Validate(), "requires a mask image")
	})

	t.Run("refiner start out of range", func(t *testing.T) {
		s := validSnapshot()
		s.RefinerModel = &Model{Key: "sdxl-refiner", Family: FamilySDXL}
		s.RefinerStart = 1.5
		assert.ErrorContains(t, s.Validate(), "refiner start")
	})

	t.Run("control adapter without image", func(t *testing.T) {
		s := validSnapshot()
		s.ControlAdapters = []ControlAdapter{{Model: "canny"}}
		assert.ErrorContains(t, s.Validate(), "control adapter 0 has no image")
	})
}

const sampleDoc = `
model {
  key    = "juggernaut-xl"
  name   = "Juggernaut XL"
  family = "sdxl"
}

refiner {
  key    = "sdxl-refiner"
  family = "sdxl"
  start  = 0.85
}

vae {
  key    = "sdxl-vae-fp16"
  family = "sdxl"
}

prompts {
  positive = "a lighthouse at dusk"
  negative = "blurry"
}

settings {
  mode       = "txt2img"
  seed       = 1234
  seamless_x = true
  watermark  = true
}

bbox {
  x      = 0
  y      = 0
  width  = 1024
  height = 1024
}

lora "detail-tweaker" {
  weight = 0.75
}
`

func TestParseDocument(t *testing.T) {
	snap, err := Parse([]byte(sampleDoc), "sample.hcl")
	require.NoError(t, err)

	assert.Equal(t, "juggernaut-xl", snap.Model.Key)
	assert.Equal(t, FamilySDXL, snap.Model.Family)
	require.NotNil(t, snap.RefinerModel)
	assert.Equal(t, 0.85, snap.RefinerStart)
	require.NotNil(t, snap.VAE)
	assert.Equal(t, "a lighthouse at dusk", snap.PositivePrompt)
	assert.Equal(t, int64(1234), snap.Seed)
	assert.True(t, snap.SeamlessX)
	assert.False(t, snap.SeamlessY)
	assert.True(t, snap.Watermark)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 1024, Height: 1024}, snap.Bbox)
	require.Len(t, snap.LoRAs, 1)
	assert.Equal(t, "detail-tweaker", snap.LoRAs[0].Key)
	assert.Equal(t, 0.75, snap.LoRAs[0].Weight)

	// Omitted optionals pick up defaults.
	assert.Equal(t, defaultSteps, snap.Steps)
	assert.Equal(t, defaultCFGScale, snap.CFGScale)
	assert.Equal(t, defaultScheduler, snap.Scheduler)
}

func TestParseDocumentErrors(t *testing.T) {
	t.Run("missing model block", func(t *testing.T) {
		_, err := Parse([]byte("prompts {\n  positive = \"x\"\n}\n"), "bad.hcl")
		assert.ErrorContains(t, err, "model block")
	})

	t.Run("bad mode", func(t *testing.T) {
		doc := `
model {
  key    = "m"
  family = "sd"
}
prompts {
  positive = "x"
}
settings {
  mode = "sideways"
}
bbox {
  x      = 0
  y      = 0
  width  = 512
  height = 512
}
`
		_, err := Parse([]byte(doc), "bad.hcl")
		assert.ErrorContains(t, err, "unknown generation mode")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := Parse([]byte(`model {`), "bad.hcl")
		assert.Error(t, err)
	})
}
