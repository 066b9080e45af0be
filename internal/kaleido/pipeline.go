package kaleido

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmptyImage is returned by Build when cropping leaves no pixels, which
// happens for any image narrower or shorter than 2 pixels.
var ErrEmptyImage = errors.New("image has no pixels after cropping")

// Options controls the pipeline. The zero value is not ready for use because
// its background is transparent; start from DefaultOptions.
type Options struct {
	// Triangle is the half of the cropped square that is kept and reflected.
	Triangle Triangle

	// Background fills the discarded triangle before compositing and is what
	// transparent source pixels are flattened against.
	Background color.NRGBA
}

// DefaultOptions keeps the lower triangle on a white background.
func DefaultOptions() Options {
	return Options{
		Triangle:   LowerTriangle,
		Background: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

// ParseBackground parses a "#RRGGBB" hex string into an opaque color.
func ParseBackground(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid background color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Build runs the full pipeline on img:
//
//	CropSquare -> MirrorTriangle (with TileQuadrants) -> ExtendSides
//
// For a source cropped to an s×s square the result is 4s wide and 2s tall.
// Build is deterministic: the same input and options always produce the same
// pixels.
func Build(img image.Image, opts Options) (*image.NRGBA, error) {
	square := CropSquare(img)
	if square.Bounds().Empty() {
		b := img.Bounds()
		return nil, fmt.Errorf("crop %dx%d source: %w", b.Dx(), b.Dy(), ErrEmptyImage)
	}

	tiled, err := MirrorTriangle(square, opts.Triangle, opts.Background)
	if err != nil {
		return nil, err
	}

	return ExtendSides(tiled), nil
}
