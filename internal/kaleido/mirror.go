package kaleido

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Axis selects the reflection applied by Mirror.
type Axis int

const (
	// LeftRight reflects about the vertical midline.
	LeftRight Axis = iota
	// TopBottom reflects about the horizontal midline.
	TopBottom
	// Both reflects about both midlines (a 180° rotation).
	Both
)

// String returns the axis name used in logs and errors.
func (a Axis) String() string {
	switch a {
	case LeftRight:
		return "left-right"
	case TopBottom:
		return "top-bottom"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Mirror returns a reflected copy of img.
//
// Both is TopBottom followed by LeftRight; the two commute. Mirror panics on an
// axis outside the declared constants, since that can only come from a bug in
// the caller.
func Mirror(img image.Image, axis Axis) *image.NRGBA {
	switch axis {
	case LeftRight:
		return imaging.FlipH(img)
	case TopBottom:
		return imaging.FlipV(img)
	case Both:
		return imaging.FlipH(imaging.FlipV(img))
	default:
		panic(fmt.Sprintf("kaleido: unknown mirror axis %v", axis))
	}
}
