package encode

import (
	"image"
	"image/draw"
	"image/jpeg"
	"io"
)

// JPEGEncoder writes JPEG. Transparent pixels are flattened onto white.
type JPEGEncoder struct {
	Quality int
}

func (e JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	flat := image.NewRGBA(img.Bounds())
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
	return jpeg.Encode(w, flat, &jpeg.Options{Quality: e.Quality})
}

func (JPEGEncoder) Format() string        { return "jpeg" }
func (JPEGEncoder) MediaType() string     { return "image/jpeg" }
func (JPEGEncoder) FileExtension() string { return ".jpg" }
