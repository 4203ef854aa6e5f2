package encode

import (
	"image"
	"image/png"
	"io"
)

// PNGEncoder writes lossless PNG, keeping transparency.
type PNGEncoder struct{}

func (PNGEncoder) Encode(w io.Writer, img image.Image) error {
	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

func (PNGEncoder) Format() string        { return "png" }
func (PNGEncoder) MediaType() string     { return "image/png" }
func (PNGEncoder) FileExtension() string { return ".png" }
