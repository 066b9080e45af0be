package kaleido

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ExtendSides widens a square into a rectangle by mirroring its left edge.
//
// The left half of img (w/2 columns) is the side strip. The output is
// w + 2*(w/2) wide: the reflected strip, then img, then the strip as-is. The
// outer edges therefore continue the square's own left edge without a seam.
func ExtendSides(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	side := imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+w/2, b.Max.Y))
	sw := side.Bounds().Dx()

	dst := imaging.New(w+2*sw, h, color.NRGBA{})
	dst = imaging.Paste(dst, Mirror(side, LeftRight), image.Pt(0, 0))
	dst = imaging.Paste(dst, img, image.Pt(sw, 0))
	dst = imaging.Paste(dst, side, image.Pt(sw+w, 0))
	return dst
}
