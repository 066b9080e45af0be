// Package studio is the pipeline entry point: it turns a stored upload into a
// stored kaleidoscope.
package studio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/kaleido-mcp/internal/kaleido"
	"github.com/ironsheep/kaleido-mcp/internal/store"
)

// Result describes one rendered kaleidoscope.
type Result struct {
	Name         string `json:"name"`
	OutputPath   string `json:"output_path"`
	SourceWidth  int    `json:"source_width"`
	SourceHeight int    `json:"source_height"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Triangle     string `json:"triangle"`
}

// PreviewResult contains a rendered kaleidoscope encoded as base64 PNG.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Studio runs the pipeline against a store.
type Studio struct {
	store *store.Store
	opts  kaleido.Options
	log   *zap.Logger
}

// New creates a Studio. A nil logger disables logging.
func New(st *store.Store, opts kaleido.Options, log *zap.Logger) *Studio {
	if log == nil {
		log = zap.NewNop()
	}
	return &Studio{store: st, opts: opts, log: log}
}

// Create renders the upload called name and writes the result to the output
// directory under the corresponding name. Errors from loading, building or
// saving are returned unchanged apart from context.
func (s *Studio) Create(name string) (*Result, error) {
	log := s.log.With(zap.String("run_id", uuid.NewString()), zap.String("name", name))
	start := time.Now()

	src, out, err := s.render(name, log)
	if err != nil {
		return nil, err
	}

	path, err := s.store.Save(name, out)
	if err != nil {
		log.Error("failed to save kaleidoscope", zap.Error(err))
		return nil, err
	}

	sb, ob := src.Bounds(), out.Bounds()
	log.Info("kaleidoscope created",
		zap.String("output", path),
		zap.Int("width", ob.Dx()),
		zap.Int("height", ob.Dy()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Name:         store.OutputName(name),
		OutputPath:   path,
		SourceWidth:  sb.Dx(),
		SourceHeight: sb.Dy(),
		Width:        ob.Dx(),
		Height:       ob.Dy(),
		Triangle:     s.opts.Triangle.String(),
	}, nil
}

// Preview renders the upload called name without storing it and returns the
// result as base64 PNG. A scale other than 1.0 resizes the result with a
// Lanczos filter; non-positive scales are treated as 1.0.
func (s *Studio) Preview(name string, scale float64) (*PreviewResult, error) {
	log := s.log.With(zap.String("name", name))

	_, out, err := s.render(name, log)
	if err != nil {
		return nil, err
	}

	var img image.Image = out
	if scale != 1.0 && scale > 0 {
		w := int(float64(out.Bounds().Dx()) * scale)
		h := int(float64(out.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %.3f leaves no pixels", scale)
		}
		img = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func (s *Studio) render(name string, log *zap.Logger) (image.Image, *image.NRGBA, error) {
	src, err := s.store.Load(name)
	if err != nil {
		log.Warn("failed to load source image", zap.Error(err))
		return nil, nil, err
	}

	b := src.Bounds()
	log.Debug("building kaleidoscope",
		zap.Int("source_width", b.Dx()),
		zap.Int("source_height", b.Dy()),
		zap.Stringer("triangle", s.opts.Triangle),
	)

	out, err := kaleido.Build(src, s.opts)
	if err != nil {
		log.Warn("failed to build kaleidoscope", zap.Error(err))
		return nil, nil, fmt.Errorf("build %s: %w", name, err)
	}
	return src, out, nil
}
