package store

import (
	"fmt"
	"image"
	"os"
)

// ImageInfo contains metadata about a stored image file.
type ImageInfo struct {
	// Name is the file name within its directory.
	Name string `json:"name"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif", "bmp", "tiff", "webp", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Info returns metadata for the uploaded image called name. Unlike Load it
// does not enforce the minimum dimension, so undersized uploads can still be
// inspected.
func (s *Store) Info(name string) (*ImageInfo, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return loadImageInfo(s.UploadPath(name), name)
}

// OutputInfo returns metadata for the stored result of the source called name.
func (s *Store) OutputInfo(name string) (*ImageInfo, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return loadImageInfo(s.OutputPath(name), OutputName(name))
}

func loadImageInfo(path, name string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if fi, ok := lookupFormat(name); ok {
		format = fi.name
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	b := img.Bounds()
	return &ImageInfo{
		Name:          name,
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
