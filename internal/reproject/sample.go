package reproject

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Transform reprojects env through mt by sampling alone, without any CRS
// specific expansion. The result has no CRS.
func Transform(mt transform.MathTransform, env *geom.Envelope) (*geom.Envelope, error) {
	if env == nil {
		return nil, errors.New("nil envelope")
	}
	out, _, err := sample(mt, env, nil)
	return out, err
}

// sample evaluates mt on a 5-division grid over every source axis: minimum,
// maximum, the two quarter points and the median. The envelope center is
// always visited last; when center is non-nil it receives the transformed
// center. It returns the bounding box of the images and the number of
// transformed points.
func sample(mt transform.MathTransform, env *geom.Envelope, center geom.Point) (*geom.Envelope, int, error) {
	dim := mt.SourceDimensions()
	if env.Dimension() != dim {
		return nil, 0, &MismatchedDimensionError{Want: dim, Got: env.Dimension()}
	}
	if mt.IsIdentity() {
		out := env.Clone()
		out.SetCRS(nil)
		for i := range center {
			center[i] = env.Median(i)
		}
		return out, 0, nil
	}

	src := env.LowerCorner()
	dst := geom.NewPoint(mt.TargetDimensions())
	var out *geom.Envelope
	samples := 0
	for counter := 0; ; {
		got, err := apply(mt, src, dst)
		if err != nil {
			return nil, samples, errors.Wrapf(err, "sampling %v", src)
		}
		if !sameBuffer(got, dst) {
			return nil, samples, errors.Wrapf(ErrUnsupportedImplementation, "%T", mt)
		}
		samples++
		if out == nil {
			out = geom.EnvelopeFromPoint(dst, nil)
		} else {
			out.Add(dst)
		}

		// Advance the base-5 counter; the last axis is the least significant
		// digit. A full carry means every point was visited.
		counter++
		n := counter
		advanced := false
		for i := dim - 1; i >= 0 && !advanced; i-- {
			lo, hi, med := env.Minimum(i), env.Maximum(i), env.Median(i)
			advanced = true
			switch n % 5 {
			case 0:
				src[i] = lo
				n /= 5
				advanced = false
			case 1:
				src[i] = hi
			case 2:
				src[i] = (lo + med) / 2
			case 3:
				src[i] = (med + hi) / 2
			case 4:
				src[i] = med
			}
		}
		if !advanced {
			break
		}
	}
	if center != nil {
		copy(center, dst)
	}
	return out, samples, nil
}

// apply transforms src and rejects results with NaN or infinite ordinates.
func apply(mt transform.MathTransform, src, dst geom.Point) (geom.Point, error) {
	got, err := mt.Transform(src, dst)
	if err != nil {
		return nil, err
	}
	for _, v := range got {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(transform.ErrOutOfDomain, "non-finite result %v", got)
		}
	}
	return got, nil
}

// sameBuffer reports whether a and b share their backing storage.
func sameBuffer(a, b geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
