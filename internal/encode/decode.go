package encode

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gen2brain/webp"
)

// Decode reads an image written by one of the encoders.
func Decode(r io.Reader, format string) (image.Image, error) {
	switch strings.ToLower(format) {
	case "png":
		return png.Decode(r)
	case "jpeg", "jpg":
		return jpeg.Decode(r)
	case "webp":
		return webp.Decode(r)
	default:
		return nil, errors.Newf("unsupported image format %q", format)
	}
}
