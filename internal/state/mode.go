package state

import "fmt"

// GenerationMode selects which per-mode subgraph the builder attaches.
// Exactly one mode is active per build; modes are never mixed.
type GenerationMode string

const (
	ModeTextToImage  GenerationMode = "txt2img"
	ModeImageToImage GenerationMode = "img2img"
	ModeInpaint      GenerationMode = "inpaint"
	ModeOutpaint     GenerationMode = "outpaint"
)

// ParseGenerationMode converts a document string into a GenerationMode.
func ParseGenerationMode(s string) (GenerationMode, error) {
	switch GenerationMode(s) {
	case ModeTextToImage, ModeImageToImage, ModeInpaint, ModeOutpaint:
		return GenerationMode(s), nil
	}
	return "", fmt.Errorf("unknown generation mode %q", s)
}

// ImageConditioned reports whether the mode consumes existing canvas pixels.
// An unrecognized mode is a programmer error and panics; every mode added to
// this package must be handled here.
func (m GenerationMode) ImageConditioned() bool {
	switch m {
	case ModeTextToImage:
		return false
	case ModeImageToImage, ModeInpaint, ModeOutpaint:
		return true
	}
	panic(fmt.Sprintf("unhandled generation mode %q", m))
}

func (m GenerationMode) String() string { return string(m) }
