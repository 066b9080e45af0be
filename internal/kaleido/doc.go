// Package kaleido implements the kaleidoscope transform pipeline.
//
// A source photo is turned into a symmetric composite by four stages, each of
// which allocates a new *image.NRGBA and leaves its input untouched:
//
//  1. CropSquare: the largest centered square with even sides
//  2. MirrorTriangle: one triangular half reflected across the main diagonal,
//     then tiled into four mirrored quadrants (TileQuadrants)
//  3. ExtendSides: mirrored edge strips appended left and right
//
// Build runs the whole pipeline.
//
// # Coordinate System
//
// As elsewhere in this module, (0,0) is the top-left pixel, X grows rightward
// and Y grows downward. Every stage returns an image whose bounds start at (0,0)
// regardless of the input's bounds.
//
// # Symmetry
//
// For a square side s, the output of MirrorDiagonal satisfies p(x,y) == p(y,x).
// TileQuadrants adds reflection about both midlines, so the tiled image is
// symmetric under horizontal flip, vertical flip and transposition.
//
// # Thread Safety
//
// All functions are pure and hold no package state; they can be called
// concurrently on different images.
package kaleido
