package backend

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/easelai/easel/internal/state"

	_ "image/jpeg"
)

// ResizeImage scales src to the exact target dimensions with bilinear
// interpolation.
func ResizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// Preparer implements the builder's image sub-builder contract against the
// service: entity images that need resizing are fetched, scaled locally,
// and re-uploaded; everything else passes through untouched.
type Preparer struct {
	client *Client
}

// NewPreparer creates a Preparer over the given client.
func NewPreparer(client *Client) *Preparer {
	return &Preparer{client: client}
}

// Prepare returns a ref for an image matching the requested dimensions.
// Width/height of zero means the caller needs the image as-is.
func (p *Preparer) Prepare(ctx context.Context, ref state.ImageRef, width, height int) (state.ImageRef, error) {
	if width == 0 && height == 0 {
		return ref, nil
	}
	if ref.Width == width && ref.Height == height {
		return ref, nil
	}

	raw, err := p.client.FetchImage(ctx, ref.Name)
	if err != nil {
		return state.ImageRef{}, err
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return state.ImageRef{}, fmt.Errorf("decoding image %s: %w", ref.Name, err)
	}

	resized := ResizeImage(src, width, height)
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return state.ImageRef{}, fmt.Errorf("encoding resized image %s: %w", ref.Name, err)
	}

	name, err := p.client.UploadImage(ctx, buf.Bytes())
	if err != nil {
		return state.ImageRef{}, err
	}
	return state.ImageRef{Name: name, Width: width, Height: height}, nil
}
