package kaleido

import (
	"image"

	"github.com/disintegration/imaging"
)

// CropSquare extracts the largest centered square from img with both sides even.
//
// Width and height are first truncated to even values by dropping the last
// column or row, so the centering offsets below are always whole pixels. The
// longer dimension is then trimmed equally from both ends.
//
// A 1-pixel-wide or 1-pixel-tall image truncates to an empty result; callers are
// expected to reject such inputs before building.
func CropSquare(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	w := toEven(bounds.Dx())
	h := toEven(bounds.Dy())

	var rect image.Rectangle
	if w > h {
		offset := (w - h) / 2
		rect = image.Rect(offset, 0, w-offset, h)
	} else {
		offset := (h - w) / 2
		rect = image.Rect(0, offset, w, h-offset)
	}

	return imaging.Crop(img, rect.Add(bounds.Min))
}

// toEven rounds n down to the nearest even number.
func toEven(n int) int {
	return n - n%2
}
