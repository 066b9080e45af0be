package studio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ironsheep/kaleido-mcp/internal/config"
	"github.com/ironsheep/kaleido-mcp/internal/kaleido"
	"github.com/ironsheep/kaleido-mcp/internal/store"
)

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// newTestStudio creates a Studio over a temp store with the given upload
// already stored, and an observer capturing its log output.
func newTestStudio(t *testing.T, name string, img image.Image) (*Studio, *config.Config, *observer.ObservedLogs) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.UploadDir = filepath.Join(root, "images")
	cfg.OutputDir = filepath.Join(root, "output")

	st, err := store.New(&cfg)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}

	if img != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("failed to encode image: %v", err)
		}
		if err := st.Put(name, &buf); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	core, logs := observer.New(zapcore.DebugLevel)
	return New(st, kaleido.DefaultOptions(), zap.New(core)), &cfg, logs
}

func TestCreate(t *testing.T) {
	s, cfg, logs := newTestStudio(t, "photo.png", createPatternImage(101, 57))

	result, err := s.Create("photo.png")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if result.SourceWidth != 101 || result.SourceHeight != 57 {
		t.Errorf("source: got %dx%d, want 101x57", result.SourceWidth, result.SourceHeight)
	}
	if result.Width != 224 || result.Height != 112 {
		t.Errorf("output: got %dx%d, want 224x112", result.Width, result.Height)
	}
	if result.OutputPath != filepath.Join(cfg.OutputDir, "photo.png") {
		t.Errorf("OutputPath: got %s", result.OutputPath)
	}
	if result.Triangle != "lower" {
		t.Errorf("Triangle: got %s, want lower", result.Triangle)
	}

	f, err := os.Open(result.OutputPath)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 224 || b.Dy() != 112 {
		t.Errorf("decoded output: got %dx%d, want 224x112", b.Dx(), b.Dy())
	}

	if logs.FilterMessage("kaleidoscope created").Len() != 1 {
		t.Error("expected one 'kaleidoscope created' log entry")
	}
}

func TestCreate_Deterministic(t *testing.T) {
	s, _, _ := newTestStudio(t, "photo.png", createPatternImage(64, 64))

	first, err := s.Create("photo.png")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	a, _ := os.ReadFile(first.OutputPath)

	second, err := s.Create("photo.png")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, _ := os.ReadFile(second.OutputPath)

	if first.Width != 256 || first.Height != 128 {
		t.Errorf("output: got %dx%d, want 256x128", first.Width, first.Height)
	}
	if !bytes.Equal(a, b) {
		t.Error("two runs produced different output bytes")
	}
}

func TestCreate_MissingUpload(t *testing.T) {
	s, _, logs := newTestStudio(t, "", nil)

	if _, err := s.Create("nothing.png"); err == nil {
		t.Fatal("Create should fail for a missing upload")
	}
	if logs.FilterMessage("failed to load source image").Len() != 1 {
		t.Error("expected a load failure log entry")
	}
}

func TestCreate_TooSmall(t *testing.T) {
	s, _, _ := newTestStudio(t, "line.png", createPatternImage(1, 30))

	_, err := s.Create("line.png")
	if !errors.Is(err, store.ErrImageTooSmall) {
		t.Errorf("expected ErrImageTooSmall, got %v", err)
	}
}

func TestCreate_NilLogger(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.UploadDir = filepath.Join(root, "in")
	cfg.OutputDir = filepath.Join(root, "out")
	st, err := store.New(&cfg)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}

	s := New(st, kaleido.DefaultOptions(), nil)
	if _, err := s.Create("absent.png"); err == nil {
		t.Error("Create should fail for a missing upload")
	}
}

func TestPreview(t *testing.T) {
	s, cfg, _ := newTestStudio(t, "photo.png", createPatternImage(40, 40))

	tests := []struct {
		name         string
		scale        float64
		wantW, wantH int
	}{
		{"full size", 1.0, 160, 80},
		{"zero means full size", 0, 160, 80},
		{"half", 0.5, 80, 40},
		{"double", 2.0, 320, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.Preview("photo.png", tt.scale)
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
			if result.MimeType != "image/png" {
				t.Errorf("MimeType: got %s, want image/png", result.MimeType)
			}

			data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
			if err != nil {
				t.Fatalf("failed to decode base64: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("failed to decode PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("decoded dimensions: got %dx%d", b.Dx(), b.Dy())
			}
		})
	}

	// Previews never touch the output directory.
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "photo.png")); !os.IsNotExist(err) {
		t.Error("Preview should not write output")
	}
}

func TestPreview_TinyScale(t *testing.T) {
	s, _, _ := newTestStudio(t, "photo.png", createPatternImage(10, 10))

	if _, err := s.Preview("photo.png", 0.001); err == nil {
		t.Error("Preview should fail when scaling leaves no pixels")
	}
}
