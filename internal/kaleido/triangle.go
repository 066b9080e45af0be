package kaleido

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrNotSquare is returned when a diagonal mirror is requested on a non-square image.
var ErrNotSquare = errors.New("image is not square")

// Triangle selects which half of the square, split along the main diagonal
// (top-left to bottom-right), is kept and reflected onto the other half.
type Triangle int

const (
	// LowerTriangle keeps the lower-left half (pixels with y >= x).
	LowerTriangle Triangle = iota
	// UpperTriangle keeps the upper-right half (pixels with x >= y).
	UpperTriangle
)

// String returns the canonical configuration name of the triangle.
func (t Triangle) String() string {
	switch t {
	case LowerTriangle:
		return "lower"
	case UpperTriangle:
		return "upper"
	default:
		return fmt.Sprintf("Triangle(%d)", int(t))
	}
}

// ParseTriangle converts a configuration value into a Triangle.
// Accepted values (case-insensitive): "lower", "bottom", "upper", "top".
// An empty string selects LowerTriangle.
func ParseTriangle(s string) (Triangle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lower", "bottom":
		return LowerTriangle, nil
	case "upper", "top":
		return UpperTriangle, nil
	default:
		return 0, fmt.Errorf("unknown triangle %q (want lower or upper)", s)
	}
}

// TriangleMask returns a side×side mask that is opaque over the selected
// triangle and transparent elsewhere. The diagonal itself belongs to both
// triangles, so a mask and its transpose together cover every pixel.
func TriangleMask(side int, t Triangle) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+side]
		for x := range row {
			if inTriangle(x, y, t) {
				row[x] = 0xff
			}
		}
	}
	return mask
}

func inTriangle(x, y int, t Triangle) bool {
	switch t {
	case LowerTriangle:
		return y >= x
	case UpperTriangle:
		return x >= y
	default:
		panic(fmt.Sprintf("kaleido: unknown triangle %v", t))
	}
}

// MirrorDiagonal makes square symmetric about its main diagonal.
//
// The selected triangle is isolated on a background canvas and given the mask
// as its alpha channel. A copy reflected left-right and rotated 90°
// counter-clockwise (together a transpose) is then alpha-composited over it:
// wherever the copy is opaque it wins, elsewhere the masked triangle shows.
// Any transparency in the source is flattened against background first.
func MirrorDiagonal(square image.Image, t Triangle, background color.Color) (*image.NRGBA, error) {
	bounds := square.Bounds()
	side := bounds.Dx()
	if side != bounds.Dy() {
		return nil, fmt.Errorf("diagonal mirror of %dx%d image: %w", bounds.Dx(), bounds.Dy(), ErrNotSquare)
	}

	mask := TriangleMask(side, t)

	flat := imaging.Overlay(imaging.New(side, side, background), square, image.Pt(0, 0), 1.0)
	triangle := imaging.New(side, side, background)
	draw.DrawMask(triangle, triangle.Bounds(), flat, image.Point{}, mask, image.Point{}, draw.Over)
	putAlpha(triangle, mask)

	reflected := imaging.Rotate90(Mirror(triangle, LeftRight))
	return imaging.Overlay(triangle, reflected, image.Pt(0, 0), 1.0), nil
}

// MirrorTriangle is the published triangle-mirror stage: the diagonally
// symmetric square from MirrorDiagonal, tiled into four quadrants.
func MirrorTriangle(square image.Image, t Triangle, background color.Color) (*image.NRGBA, error) {
	diagonal, err := MirrorDiagonal(square, t, background)
	if err != nil {
		return nil, err
	}
	return TileQuadrants(diagonal), nil
}

// putAlpha replaces the alpha channel of img with the mask values.
// Both images must share bounds starting at (0,0).
func putAlpha(img *image.NRGBA, mask *image.Alpha) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			img.Pix[img.PixOffset(x, y)+3] = mask.Pix[mask.PixOffset(x, y)]
		}
	}
}
