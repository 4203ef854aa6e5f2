package reproject

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

const selfCheckTolerance = 1e-9

// Rectangle reprojects a 2-D rectangle with a default Reprojector.
func Rectangle(mt transform.MathTransform, rect r2.Rect) (r2.Rect, error) {
	return New().Rectangle(mt, rect)
}

// Rectangle transforms the four corners, the four edge midpoints and the
// center of rect through a 2-D transform, reusing one point for every
// sample. It does none of the CRS specific expansions of Envelope.
func (r *Reprojector) Rectangle(mt transform.MathTransform, rect r2.Rect) (r2.Rect, error) {
	if mt.SourceDimensions() != 2 {
		return r2.EmptyRect(), &MismatchedDimensionError{Want: 2, Got: mt.SourceDimensions()}
	}
	if mt.TargetDimensions() != 2 {
		return r2.EmptyRect(), &MismatchedDimensionError{Want: 2, Got: mt.TargetDimensions()}
	}
	if rect.IsEmpty() {
		return rect, nil
	}
	if mt.IsIdentity() {
		return rect, nil
	}

	p := geom.NewPoint(2)
	out, err := rectangleSamples(rect, func(x, y float64) (geom.Point, error) {
		p[0], p[1] = x, y
		got, err := apply(mt, p, p)
		if err != nil {
			return nil, err
		}
		if !sameBuffer(got, p) {
			return nil, errors.Wrapf(ErrUnsupportedImplementation, "%T", mt)
		}
		return got, nil
	})
	if err != nil || !r.selfCheck {
		return out, err
	}

	check, err := rectangleSamples(rect, func(x, y float64) (geom.Point, error) {
		return apply(mt, geom.Point{x, y}, geom.NewPoint(2))
	})
	if err != nil {
		return r2.EmptyRect(), errors.Wrap(err, "self-check")
	}
	if !rectApproxEqual(out, check, selfCheckTolerance) {
		return r2.EmptyRect(), errors.Wrapf(ErrSelfCheck, "%T: got %v, fresh buffers give %v", mt, out, check)
	}
	return out, nil
}

// rectangleSamples visits the nine sample points in this order, the center
// last:
//
//	(2)----(6)----(3)
//	 |             |
//	(4)    (8)    (7)
//	 |             |
//	(0)----(5)----(1)
func rectangleSamples(rect r2.Rect, fn func(x, y float64) (geom.Point, error)) (r2.Rect, error) {
	center := rect.Center()
	out := r2.EmptyRect()
	for i := range 9 {
		x, y := rect.X.Lo, rect.Y.Lo
		if i&1 != 0 {
			x = rect.X.Hi
		}
		if i&2 != 0 {
			y = rect.Y.Hi
		}
		switch i {
		case 5, 6:
			x = center.X
		case 8:
			x, y = center.X, center.Y
		case 4, 7:
			y = center.Y
		}
		got, err := fn(x, y)
		if err != nil {
			return r2.EmptyRect(), errors.Wrapf(err, "sampling (%g, %g)", x, y)
		}
		out = out.AddPoint(r2.Point{X: got[0], Y: got[1]})
	}
	return out, nil
}

func rectApproxEqual(a, b r2.Rect, tol float64) bool {
	return intervalApproxEqual(a.X, b.X, tol) && intervalApproxEqual(a.Y, b.Y, tol)
}

func intervalApproxEqual(a, b r1.Interval, tol float64) bool {
	return closeRel(a.Lo, b.Lo, tol) && closeRel(a.Hi, b.Hi, tol)
}

func closeRel(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
