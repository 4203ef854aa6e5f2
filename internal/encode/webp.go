package encode

import (
	"image"
	"io"

	"github.com/gen2brain/webp"
)

// WebPEncoder writes lossy WebP through github.com/gen2brain/webp, which
// runs libwebp as WASM unless a system library is found.
type WebPEncoder struct {
	Quality int
}

func (e WebPEncoder) Encode(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, webp.Options{Quality: e.Quality})
}

func (WebPEncoder) Format() string        { return "webp" }
func (WebPEncoder) MediaType() string     { return "image/webp" }
func (WebPEncoder) FileExtension() string { return ".webp" }
