package proj4

import (
	"github.com/cockroachdb/errors"
	"github.com/ctessum/geom/proj"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Transform is a 2-D transform between two proj4 definitions. Geographic
// ordinates are longitude/latitude in degrees.
type Transform struct {
	source, target string
	forward        proj.Transformer
}

// New parses both definitions and builds the forward transform.
func New(source, target string) (*Transform, error) {
	src, err := proj.Parse(source)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", source)
	}
	dst, err := proj.Parse(target)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", target)
	}
	fwd, err := src.NewTransform(dst)
	if err != nil {
		return nil, errors.Wrapf(err, "%q to %q", source, target)
	}
	return &Transform{source: source, target: target, forward: fwd}, nil
}

func (t *Transform) SourceDimensions() int { return 2 }
func (t *Transform) TargetDimensions() int { return 2 }
func (t *Transform) IsIdentity() bool      { return t.source == t.target }

// Transform writes into dst when it holds two ordinates. The library
// returns NaN or infinite values for some points outside the domain; those
// are reported as transform.ErrOutOfDomain.
func (t *Transform) Transform(src, dst geom.Point) (geom.Point, error) {
	if len(src) != 2 {
		return nil, errors.Newf("point has dimension %d, transform expects 2", len(src))
	}
	x, y, err := t.forward(src[0], src[1])
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "(%g, %g)", src[0], src[1]), transform.ErrOutOfDomain)
	}
	if !finite(x) || !finite(y) {
		return nil, errors.Wrapf(transform.ErrOutOfDomain, "(%g, %g)", src[0], src[1])
	}
	if len(dst) != 2 {
		dst = geom.NewPoint(2)
	}
	dst[0], dst[1] = x, y
	return dst, nil
}

func (t *Transform) Inverse() (transform.MathTransform, error) {
	return New(t.target, t.source)
}

// Find builds the operation between two 2-D descriptors through their proj4
// definitions. Latitude-first geographic systems are swapped on the way in
// and out.
func Find(source, target *crs.CRS) (*transform.Operation, error) {
	if source == nil || target == nil {
		return nil, errors.New("source and target CRS are required")
	}
	if crs.Equal(source, target) {
		return transform.NewOperation(source, target, transform.Identity(source.Dimension()))
	}
	from, err := Definition(source)
	if err != nil {
		return nil, err
	}
	to, err := Definition(target)
	if err != nil {
		return nil, err
	}
	t, err := New(from, to)
	if err != nil {
		return nil, err
	}
	mt, err := WithAxisOrder(source, target, t)
	if err != nil {
		return nil, err
	}
	return transform.NewOperation(source, target, mt)
}

// WithAxisOrder wraps a longitude/latitude based 2-D transform with the
// axis swaps that latitude-first geographic descriptors need.
func WithAxisOrder(source, target *crs.CRS, mt transform.MathTransform) (transform.MathTransform, error) {
	steps := make([]transform.MathTransform, 0, 3)
	if latFirst(source) {
		swap, err := transform.Permutation(1, 0)
		if err != nil {
			return nil, err
		}
		steps = append(steps, swap)
	}
	steps = append(steps, mt)
	if latFirst(target) {
		swap, err := transform.Permutation(1, 0)
		if err != nil {
			return nil, err
		}
		steps = append(steps, swap)
	}
	return transform.Concatenate(steps...)
}

func latFirst(c *crs.CRS) bool {
	return c.IsGeographic() && c.CS.LatitudeAxis() == 0
}

func finite(v float64) bool {
	return v == v && v-v == 0
}
