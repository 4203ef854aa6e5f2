// Package encode writes rendered plots in the raster formats the CLI
// offers.
package encode

import (
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultQuality applies to lossy formats when no quality is given.
const DefaultQuality = 85

// Encoder writes an image in one format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	// Format returns the canonical name, e.g. "png".
	Format() string
	MediaType() string
	FileExtension() string
}

// New returns the encoder for format. quality applies to JPEG and WebP and
// falls back to DefaultQuality outside 1..100.
func New(format string, quality int) (Encoder, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	switch strings.ToLower(format) {
	case "png":
		return PNGEncoder{}, nil
	case "jpeg", "jpg":
		return JPEGEncoder{Quality: quality}, nil
	case "webp":
		return WebPEncoder{Quality: quality}, nil
	default:
		return nil, errors.Newf("unsupported image format %q (supported: png, jpeg, webp)", format)
	}
}

// ForPath picks the encoder from the file extension of path.
func ForPath(path string, quality int) (Encoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, errors.Newf("%s: no file extension to pick an image format", path)
	}
	return New(ext, quality)
}

// Formats lists the supported format names.
func Formats() []string { return []string{"png", "jpeg", "webp"} }
