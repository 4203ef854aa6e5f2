// Package transform provides coordinate operations between reference
// systems: fallible N-dimensional point transforms, their composition, and
// the lookup of an operation between two CRS descriptors.
package transform

import (
	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/coord"
	"github.com/pspoerri/envreproject/internal/geom"
)

var (
	// ErrOutOfDomain marks a point outside the valid domain of a transform.
	ErrOutOfDomain = coord.ErrOutOfDomain
	// ErrNoninvertible is returned by Inverse when no inverse exists.
	ErrNoninvertible = errors.New("transform is not invertible")
)

// MathTransform maps points of SourceDimensions ordinates to points of
// TargetDimensions ordinates.
//
// Transform writes its result into dst and returns it. When dst is nil or has
// the wrong length a new point is allocated. Implementations must not retain
// src or dst.
type MathTransform interface {
	SourceDimensions() int
	TargetDimensions() int
	IsIdentity() bool
	Transform(src, dst geom.Point) (geom.Point, error)
	Inverse() (MathTransform, error)
}

// output returns dst when it can hold n ordinates, or a new point.
func output(dst geom.Point, n int) geom.Point {
	if len(dst) == n {
		return dst
	}
	return geom.NewPoint(n)
}

func checkSource(src geom.Point, n int) error {
	if len(src) != n {
		return errors.Newf("point has dimension %d, transform expects %d", len(src), n)
	}
	return nil
}

// Identity returns the identity transform of the given dimension.
func Identity(dim int) MathTransform { return identity(dim) }

type identity int

func (t identity) SourceDimensions() int { return int(t) }
func (t identity) TargetDimensions() int { return int(t) }
func (t identity) IsIdentity() bool      { return true }

func (t identity) Transform(src, dst geom.Point) (geom.Point, error) {
	if err := checkSource(src, int(t)); err != nil {
		return nil, err
	}
	dst = output(dst, int(t))
	copy(dst, src)
	return dst, nil
}

func (t identity) Inverse() (MathTransform, error) { return t, nil }

// Permutation reorders ordinates: dst[i] = src[order[i]]. It is used for
// axis order changes such as latitude/longitude to longitude/latitude.
func Permutation(order ...int) (MathTransform, error) {
	seen := make([]bool, len(order))
	for _, o := range order {
		if o < 0 || o >= len(order) || seen[o] {
			return nil, errors.Newf("invalid permutation %v", order)
		}
		seen[o] = true
	}
	p := permutation(append([]int(nil), order...))
	if p.IsIdentity() {
		return Identity(len(order)), nil
	}
	return p, nil
}

type permutation []int

func (p permutation) SourceDimensions() int { return len(p) }
func (p permutation) TargetDimensions() int { return len(p) }

func (p permutation) IsIdentity() bool {
	for i, o := range p {
		if i != o {
			return false
		}
	}
	return true
}

func (p permutation) Transform(src, dst geom.Point) (geom.Point, error) {
	if err := checkSource(src, len(p)); err != nil {
		return nil, err
	}
	dst = output(dst, len(p))
	// src and dst may alias.
	var buf [4]float64
	tmp := buf[:0]
	tmp = append(tmp, src...)
	for i, o := range p {
		dst[i] = tmp[o]
	}
	return dst, nil
}

func (p permutation) Inverse() (MathTransform, error) {
	inv := make(permutation, len(p))
	for i, o := range p {
		inv[o] = i
	}
	return inv, nil
}

// SelectDimensions keeps the listed ordinates of a source-dimensional point,
// dropping the rest. Dropping ordinates cannot be undone, so the result has
// no inverse.
func SelectDimensions(source int, keep ...int) (MathTransform, error) {
	for _, k := range keep {
		if k < 0 || k >= source {
			return nil, errors.Newf("dimension %d out of range [0, %d)", k, source)
		}
	}
	if len(keep) == source {
		return Permutation(keep...)
	}
	return &dimensionFilter{source: source, keep: append([]int(nil), keep...)}, nil
}

type dimensionFilter struct {
	source int
	keep   []int
}

func (f *dimensionFilter) SourceDimensions() int { return f.source }
func (f *dimensionFilter) TargetDimensions() int { return len(f.keep) }
func (f *dimensionFilter) IsIdentity() bool      { return false }

func (f *dimensionFilter) Transform(src, dst geom.Point) (geom.Point, error) {
	if err := checkSource(src, f.source); err != nil {
		return nil, err
	}
	dst = output(dst, len(f.keep))
	for i, k := range f.keep {
		dst[i] = src[k]
	}
	return dst, nil
}

func (f *dimensionFilter) Inverse() (MathTransform, error) {
	return nil, errors.Wrapf(ErrNoninvertible, "dropping %d of %d dimensions", f.source-len(f.keep), f.source)
}

// Pad appends constant ordinates, for example a zero height when going from
// a 2-D to a 3-D geographic CRS. Its inverse drops them again.
func Pad(source int, values ...float64) MathTransform {
	if len(values) == 0 {
		return Identity(source)
	}
	return &pad{source: source, values: append([]float64(nil), values...)}
}

type pad struct {
	source int
	values []float64
}

func (p *pad) SourceDimensions() int { return p.source }
func (p *pad) TargetDimensions() int { return p.source + len(p.values) }
func (p *pad) IsIdentity() bool      { return false }

func (p *pad) Transform(src, dst geom.Point) (geom.Point, error) {
	if err := checkSource(src, p.source); err != nil {
		return nil, err
	}
	dst = output(dst, p.TargetDimensions())
	copy(dst, src)
	copy(dst[p.source:], p.values)
	return dst, nil
}

func (p *pad) Inverse() (MathTransform, error) {
	keep := make([]int, p.source)
	for i := range keep {
		keep[i] = i
	}
	return &dimensionFilter{source: p.TargetDimensions(), keep: keep}, nil
}
