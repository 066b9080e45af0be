package store

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ironsheep/kaleido-mcp/internal/config"
)

var (
	// ErrInvalidName is returned for names that are empty, "." or "..", or that
	// contain a path separator.
	ErrInvalidName = errors.New("invalid image name")

	// ErrUnsupportedFormat is returned for names whose extension is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrFormatMismatch is returned when an upload's contents decode as a
	// different format than its extension names.
	ErrFormatMismatch = errors.New("image contents do not match extension")

	// ErrTooLarge is returned when an upload exceeds the configured size limit.
	ErrTooLarge = errors.New("image exceeds upload size limit")

	// ErrImageTooSmall is returned when a decoded image is below the minimum
	// dimension in either direction.
	ErrImageTooSmall = errors.New("image below minimum dimensions")
)

// Store reads uploads from one directory and writes results to another.
type Store struct {
	uploadDir    string
	outputDir    string
	maxBytes     int64
	minDimension int
	jpegQuality  int
}

// New creates a Store for cfg, creating both directories if needed.
func New(cfg *config.Config) (*Store, error) {
	for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &Store{
		uploadDir:    cfg.UploadDir,
		outputDir:    cfg.OutputDir,
		maxBytes:     cfg.MaxUploadBytes,
		minDimension: cfg.MinDimension,
		jpegQuality:  cfg.JPEGQuality,
	}, nil
}

// UploadPath returns where the source image called name is stored.
func (s *Store) UploadPath(name string) string {
	return filepath.Join(s.uploadDir, name)
}

// OutputPath returns where the result for the source called name is stored.
func (s *Store) OutputPath(name string) string {
	return filepath.Join(s.outputDir, OutputName(name))
}

// Put stores an uploaded image under name after checking its name, extension
// and size. The bytes must decode as the format the extension names (a PNG
// uploaded as x.jpg is rejected); anything else is rejected before it reaches
// the upload directory.
func (s *Store) Put(name string, r io.Reader) error {
	if err := validateName(name); err != nil {
		return err
	}
	want, ok := lookupFormat(name)
	if !ok {
		return fmt.Errorf("%s: %w (allowed: %s)", name, ErrUnsupportedFormat, strings.Join(Extensions(), ", "))
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, s.maxBytes)
	}
	_, got, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode upload %s: %w", name, err)
	}
	if got != want.name {
		return fmt.Errorf("%s: %w (contents are %s)", name, ErrFormatMismatch, got)
	}

	return writeAtomic(s.uploadDir, name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Load decodes the source image called name and rejects images smaller than
// the configured minimum dimension.
func (s *Store) Load(name string) (image.Image, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(s.UploadPath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() < s.minDimension || b.Dy() < s.minDimension {
		return nil, fmt.Errorf("%s is %dx%d, minimum is %d: %w",
			name, b.Dx(), b.Dy(), s.minDimension, ErrImageTooSmall)
	}
	return img, nil
}

// Save encodes img as the result for the source called name and returns the
// path it was written to.
func (s *Store) Save(name string, img image.Image) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	out := OutputName(name)
	encode := encoderFor(out, s.jpegQuality)
	if err := writeAtomic(s.outputDir, out, func(w io.Writer) error {
		return encode(w, img)
	}); err != nil {
		return "", err
	}
	return filepath.Join(s.outputDir, out), nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

// writeAtomic writes through a uniquely named temp file in dir and renames it
// to name once write succeeds.
func writeAtomic(dir, name string, write func(io.Writer) error) error {
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.NewString()))

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}
