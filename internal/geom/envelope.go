// Package geom holds the N-dimensional point and envelope types shared by the
// transform and reprojection packages.
package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/pspoerri/envreproject/internal/crs"
)

// Point is a coordinate vector. Points are mutable scratch buffers; callers
// that keep one must Clone it.
type Point []float64

// NewPoint returns a zeroed point of dimension n.
func NewPoint(n int) Point { return make(Point, n) }

// Dimension returns the number of ordinates.
func (p Point) Dimension() int { return len(p) }

// Clone returns a copy of p.
func (p Point) Clone() Point {
	if p == nil {
		return nil
	}
	c := make(Point, len(p))
	copy(c, p)
	return c
}

func (p Point) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Envelope is an axis-aligned box with an optional CRS. The zero-size
// envelope created from a single point grows through Add; it never shrinks.
type Envelope struct {
	lower, upper Point
	crs          *crs.CRS
}

// NewEnvelope builds an envelope from its corners. Each lower ordinate must
// not exceed the matching upper one.
func NewEnvelope(lower, upper Point, c *crs.CRS) (*Envelope, error) {
	if len(lower) != len(upper) {
		return nil, errors.Newf("corner dimensions differ: %d and %d", len(lower), len(upper))
	}
	for i := range lower {
		if lower[i] > upper[i] {
			return nil, errors.Newf("lower[%d]=%g exceeds upper[%d]=%g", i, lower[i], i, upper[i])
		}
	}
	if c != nil && c.Dimension() != len(lower) {
		return nil, errors.Newf("CRS %s has dimension %d, envelope %d", c, c.Dimension(), len(lower))
	}
	return &Envelope{lower: lower.Clone(), upper: upper.Clone(), crs: c}, nil
}

// MustEnvelope is NewEnvelope that panics on invalid corners. Used for
// literals in tests and tables.
func MustEnvelope(lower, upper Point, c *crs.CRS) *Envelope {
	e, err := NewEnvelope(lower, upper, c)
	if err != nil {
		panic(err)
	}
	return e
}

// EnvelopeFromPoint returns a degenerate envelope containing only p.
func EnvelopeFromPoint(p Point, c *crs.CRS) *Envelope {
	return &Envelope{lower: p.Clone(), upper: p.Clone(), crs: c}
}

// Dimension returns the number of axes.
func (e *Envelope) Dimension() int { return len(e.lower) }

// Minimum returns the lower bound on axis i.
func (e *Envelope) Minimum(i int) float64 { return e.lower[i] }

// Maximum returns the upper bound on axis i.
func (e *Envelope) Maximum(i int) float64 { return e.upper[i] }

// Median returns the midpoint on axis i.
func (e *Envelope) Median(i int) float64 { return (e.lower[i] + e.upper[i]) / 2 }

// Span returns the extent on axis i.
func (e *Envelope) Span(i int) float64 { return e.upper[i] - e.lower[i] }

// LowerCorner returns a copy of the lower corner.
func (e *Envelope) LowerCorner() Point { return e.lower.Clone() }

// UpperCorner returns a copy of the upper corner.
func (e *Envelope) UpperCorner() Point { return e.upper.Clone() }

// Center returns the median point.
func (e *Envelope) Center() Point {
	c := make(Point, len(e.lower))
	for i := range c {
		c[i] = e.Median(i)
	}
	return c
}

// CRS returns the envelope's reference system, which may be nil.
func (e *Envelope) CRS() *crs.CRS { return e.crs }

// SetCRS tags the envelope with c without touching its ordinates.
func (e *Envelope) SetCRS(c *crs.CRS) { e.crs = c }

// Add grows the envelope to include p. The values are copied so p may be
// reused afterwards. NaN ordinates are ignored.
func (e *Envelope) Add(p Point) {
	for i := range e.lower {
		v := p[i]
		if math.IsNaN(v) {
			continue
		}
		if v < e.lower[i] {
			e.lower[i] = v
		}
		if v > e.upper[i] {
			e.upper[i] = v
		}
	}
}

// AddEnvelope grows e to include o.
func (e *Envelope) AddEnvelope(o *Envelope) {
	e.Add(o.lower)
	e.Add(o.upper)
}

// Contains reports whether p lies inside e, boundaries included.
func (e *Envelope) Contains(p Point) bool {
	if len(p) != len(e.lower) {
		return false
	}
	for i, v := range p {
		if !(v >= e.lower[i] && v <= e.upper[i]) {
			return false
		}
	}
	return true
}

// ContainsWithin is Contains with a per-axis slack of tol times the span
// (at least tol in absolute terms).
func (e *Envelope) ContainsWithin(p Point, tol float64) bool {
	if len(p) != len(e.lower) {
		return false
	}
	for i, v := range p {
		slack := tol * math.Max(1, e.Span(i))
		if v < e.lower[i]-slack || v > e.upper[i]+slack {
			return false
		}
	}
	return true
}

// ContainsEnvelope reports whether o lies entirely inside e.
func (e *Envelope) ContainsEnvelope(o *Envelope) bool {
	return e.Contains(o.lower) && e.Contains(o.upper)
}

// Intersects reports whether the two envelopes share at least one point.
func (e *Envelope) Intersects(o *Envelope) bool {
	if o.Dimension() != e.Dimension() {
		return false
	}
	for i := range e.lower {
		if o.upper[i] < e.lower[i] || o.lower[i] > e.upper[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy sharing the CRS descriptor.
func (e *Envelope) Clone() *Envelope {
	return &Envelope{lower: e.lower.Clone(), upper: e.upper.Clone(), crs: e.crs}
}

// ApproxEqual compares ordinates with a relative tolerance of eps times the
// larger span on each axis.
func (e *Envelope) ApproxEqual(o *Envelope, eps float64) bool {
	if o == nil || o.Dimension() != e.Dimension() {
		return false
	}
	for i := range e.lower {
		tol := eps * math.Max(1, math.Max(e.Span(i), o.Span(i)))
		if math.Abs(e.lower[i]-o.lower[i]) > tol || math.Abs(e.upper[i]-o.upper[i]) > tol {
			return false
		}
	}
	return true
}

// Rect converts a 2-D envelope to an r2.Rect.
func (e *Envelope) Rect() (r2.Rect, error) {
	if e.Dimension() != 2 {
		return r2.EmptyRect(), errors.Newf("envelope has dimension %d, want 2", e.Dimension())
	}
	return r2.Rect{
		X: r1.Interval{Lo: e.lower[0], Hi: e.upper[0]},
		Y: r1.Interval{Lo: e.lower[1], Hi: e.upper[1]},
	}, nil
}

// EnvelopeFromRect converts r to a 2-D envelope tagged with c.
func EnvelopeFromRect(r r2.Rect, c *crs.CRS) *Envelope {
	return &Envelope{
		lower: Point{r.X.Lo, r.Y.Lo},
		upper: Point{r.X.Hi, r.Y.Hi},
		crs:   c,
	}
}

func (e *Envelope) String() string {
	s := fmt.Sprintf("ENVELOPE[%v, %v]", e.lower, e.upper)
	if e.crs != nil {
		s += " " + e.crs.String()
	}
	return s
}
