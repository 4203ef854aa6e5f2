package transform

import (
	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/coord"
	"github.com/pspoerri/envreproject/internal/geom"
)

// Project returns the transform from longitude/latitude (degrees) to the
// projected coordinates of p. Ordinates beyond the first two are copied
// unchanged; dim is the total dimension (at least 2).
func Project(p coord.Projection, dim int) MathTransform {
	return &projection{proj: p, dim: max(dim, 2)}
}

// Unproject is the inverse of Project.
func Unproject(p coord.Projection, dim int) MathTransform {
	return &projection{proj: p, dim: max(dim, 2), inverse: true}
}

type projection struct {
	proj    coord.Projection
	dim     int
	inverse bool
}

func (t *projection) SourceDimensions() int { return t.dim }
func (t *projection) TargetDimensions() int { return t.dim }

func (t *projection) IsIdentity() bool {
	_, ok := t.proj.(*coord.WGS84Identity)
	return ok
}

func (t *projection) Transform(src, dst geom.Point) (geom.Point, error) {
	if err := checkSource(src, t.dim); err != nil {
		return nil, err
	}
	var (
		x, y float64
		err  error
	)
	if t.inverse {
		x, y, err = t.proj.ToWGS84(src[0], src[1])
	} else {
		x, y, err = t.proj.FromWGS84(src[0], src[1])
	}
	if err != nil {
		return nil, errors.Wrapf(err, "transforming %v", src)
	}
	dst = output(dst, t.dim)
	copy(dst[2:], src[2:])
	dst[0], dst[1] = x, y
	return dst, nil
}

func (t *projection) Inverse() (MathTransform, error) {
	return &projection{proj: t.proj, dim: t.dim, inverse: !t.inverse}, nil
}

// Func2D adapts a pair of plain functions to a 2-D MathTransform. Backward
// may be nil, in which case the transform has no inverse.
type Func2D struct {
	Forward  func(x, y float64) (float64, float64, error)
	Backward func(x, y float64) (float64, float64, error)
}

func (f Func2D) SourceDimensions() int { return 2 }
func (f Func2D) TargetDimensions() int { return 2 }
func (f Func2D) IsIdentity() bool      { return false }

func (f Func2D) Transform(src, dst geom.Point) (geom.Point, error) {
	if err := checkSource(src, 2); err != nil {
		return nil, err
	}
	x, y, err := f.Forward(src[0], src[1])
	if err != nil {
		return nil, err
	}
	dst = output(dst, 2)
	dst[0], dst[1] = x, y
	return dst, nil
}

func (f Func2D) Inverse() (MathTransform, error) {
	if f.Backward == nil {
		return nil, ErrNoninvertible
	}
	return Func2D{Forward: f.Backward, Backward: f.Forward}, nil
}
