// Package store keeps source images and rendered results as flat files.
//
// Uploads live in one directory and results in another, both addressed by a
// plain file name. Names are validated, never rewritten: anything containing a
// path separator, or that is empty, "." or "..", is rejected with ErrInvalidName.
//
// # Formats
//
// Decoding supports PNG, JPEG and GIF from the standard library plus BMP, TIFF
// and WebP from golang.org/x/image. Results are encoded by extension: PNG, JPEG
// and BMP through bild's imgio encoders, TIFF through x/image. A source whose
// format has no encoder (GIF, WebP) produces a .png result of the same base name.
//
// # Concurrent Writes
//
// Every write lands in a uniquely named temporary file in the target directory
// and is renamed into place, so two writers of the same name never interleave
// bytes; the last rename wins.
package store
