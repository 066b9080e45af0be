package store

import (
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	"golang.org/x/image/tiff"   // TIFF decoder and encoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// formatInfo describes one accepted file extension.
type formatInfo struct {
	// name is the format reported by Info.
	name string
	// encodable is false for formats that can be read but not written.
	encodable bool
}

var formats = map[string]formatInfo{
	".png":  {name: "png", encodable: true},
	".jpg":  {name: "jpeg", encodable: true},
	".jpeg": {name: "jpeg", encodable: true},
	".bmp":  {name: "bmp", encodable: true},
	".tif":  {name: "tiff", encodable: true},
	".tiff": {name: "tiff", encodable: true},
	".gif":  {name: "gif"},
	".webp": {name: "webp"},
}

// Extensions returns the accepted upload extensions, sorted and without the
// leading dot.
func Extensions() []string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(exts)
	return exts
}

func lookupFormat(name string) (formatInfo, bool) {
	f, ok := formats[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

// OutputName maps a source name onto the name its result is stored under.
// Names in a format without an encoder keep their extension and gain ".png",
// so a.gif, a.webp and a.png never share a result file.
func OutputName(name string) string {
	if f, ok := lookupFormat(name); ok && f.encodable {
		return name
	}
	return name + ".png"
}

// encoderFor picks the encoder for name's extension. Callers resolve the name
// with OutputName first, so every extension reaching here is encodable.
func encoderFor(name string, jpegQuality int) imgio.Encoder {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(jpegQuality)
	case ".bmp":
		return imgio.BMPEncoder()
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return imgio.PNGEncoder()
	}
}
