package kaleido

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// TileQuadrants arranges four copies of img into a mosaic twice its size:
//
//	+----------+------------+
//	| identity | left-right |
//	+----------+------------+
//	| top-bot  | both       |
//	+----------+------------+
//
// Quadrant boundaries fall exactly at x = w and y = h, and no quadrant overlaps
// another, so the result is symmetric about both of its midlines.
func TileQuadrants(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	dst := imaging.New(2*w, 2*h, color.NRGBA{})
	dst = imaging.Paste(dst, img, image.Pt(0, 0))
	dst = imaging.Paste(dst, Mirror(img, LeftRight), image.Pt(w, 0))
	dst = imaging.Paste(dst, Mirror(img, TopBottom), image.Pt(0, h))
	dst = imaging.Paste(dst, Mirror(img, Both), image.Pt(w, h))
	return dst
}
