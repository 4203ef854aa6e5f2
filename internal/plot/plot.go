// Package plot draws a transformed sample cloud together with envelopes, to
// check by eye that a reprojected envelope contains the image of its source.
package plot

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Colors used by the CLI.
var (
	Background    = color.RGBA{255, 255, 255, 255}
	CloudColor    = color.RGBA{90, 90, 90, 255}
	ResultColor   = color.RGBA{220, 30, 30, 255}
	BaselineColor = color.RGBA{30, 90, 220, 255}
)

// padding is the fraction of the view added on each side.
const padding = 0.05

// Box is an envelope outline.
type Box struct {
	Envelope *geom.Envelope
	Color    color.RGBA
}

// Scene is everything to draw, in target coordinates. Only the first two
// ordinates are used.
type Scene struct {
	Points []geom.Point
	Boxes  []Box
}

// Cloud transforms an n x n grid over env, edges included. Points that fail
// to transform are counted and skipped.
func Cloud(mt transform.MathTransform, env *geom.Envelope, n int) (points []geom.Point, failed int) {
	if n < 2 {
		n = 2
	}
	src := env.LowerCorner()
	for j := range n {
		for i := range n {
			src[0] = env.Minimum(0) + env.Span(0)*float64(i)/float64(n-1)
			if env.Dimension() > 1 {
				src[1] = env.Minimum(1) + env.Span(1)*float64(j)/float64(n-1)
			}
			p, err := mt.Transform(src, nil)
			if err != nil || len(p) < 2 {
				failed++
				continue
			}
			points = append(points, p)
		}
	}
	return points, failed
}

// view maps target coordinates to pixels with square pixels and y up.
type view struct {
	minX, maxY float64
	scale      float64
	offX, offY float64
}

func newView(s Scene, size int) (*view, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(x, y float64) {
		if math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsNaN(x) || math.IsNaN(y) {
			return
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, p := range s.Points {
		add(p[0], p[1])
	}
	for _, b := range s.Boxes {
		if b.Envelope.Dimension() < 2 {
			return nil, errors.Newf("cannot plot %d-D envelope", b.Envelope.Dimension())
		}
		add(b.Envelope.Minimum(0), b.Envelope.Minimum(1))
		add(b.Envelope.Maximum(0), b.Envelope.Maximum(1))
	}
	if minX > maxX {
		return nil, errors.New("nothing to plot")
	}
	w, h := math.Max(maxX-minX, 1e-9), math.Max(maxY-minY, 1e-9)
	minX, maxX = minX-w*padding, maxX+w*padding
	minY, maxY = minY-h*padding, maxY+h*padding
	w, h = maxX-minX, maxY-minY

	v := &view{minX: minX, maxY: maxY, scale: float64(size-1) / math.Max(w, h)}
	v.offX = (float64(size-1) - w*v.scale) / 2
	v.offY = (float64(size-1) - h*v.scale) / 2
	return v, nil
}

func (v *view) pixel(x, y float64) (int, int) {
	px := v.offX + (x-v.minX)*v.scale
	py := v.offY + (v.maxY-y)*v.scale
	return int(math.Round(px)), int(math.Round(py))
}

// Render draws the scene into a size x size image: the cloud as dots, then
// the boxes as outlines in order.
func Render(s Scene, size int) (*image.RGBA, error) {
	if size < 16 {
		return nil, errors.Newf("image size %d is too small", size)
	}
	v, err := newView(s, size)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	for _, p := range s.Points {
		x, y := v.pixel(p[0], p[1])
		dot(img, x, y, CloudColor)
	}
	for _, b := range s.Boxes {
		x0, y1 := v.pixel(b.Envelope.Minimum(0), b.Envelope.Minimum(1))
		x1, y0 := v.pixel(b.Envelope.Maximum(0), b.Envelope.Maximum(1))
		hline(img, x0, x1, y0, b.Color)
		hline(img, x0, x1, y1, b.Color)
		vline(img, x0, y0, y1, b.Color)
		vline(img, x1, y0, y1, b.Color)
	}
	return img, nil
}

func dot(img *image.RGBA, x, y int, c color.RGBA) {
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			img.SetRGBA(x+dx, y+dy, c)
		}
	}
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}
