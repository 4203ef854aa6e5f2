package reproject

import (
	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Cells of the 3x3 sample grid, row by row from the lower left:
//
//	6 7 8
//	3 4 5
//	0 1 2
var bisectQuadrants = [4][4]int{
	{0, 1, 3, 4}, // lower left
	{1, 2, 4, 5}, // lower right
	{3, 4, 6, 7}, // upper left
	{4, 5, 7, 8}, // upper right
}

// canBisect reports whether a failed baseline may be retried by bisection.
// Contract violations are never retried.
func (r *Reprojector) canBisect(mt transform.MathTransform, env *geom.Envelope, err error) bool {
	if r.bisectDepth <= 0 || env.Dimension() != 2 || mt.SourceDimensions() != 2 {
		return false
	}
	return !errors.Is(err, ErrMismatchedDimension) && !errors.Is(err, ErrUnsupportedImplementation)
}

// bisect transforms a 2-D envelope that the baseline could not, by sampling
// a 3x3 grid per cell and splitting the quadrants whose samples partly
// failed. Points are never dropped from the result.
func (r *Reprojector) bisect(mt transform.MathTransform, env *geom.Envelope) (*geom.Envelope, error) {
	stats := probeStats{stage: StageBisection}
	defer r.report(&stats)

	b := &bisector{mt: mt, stats: &stats, dst: geom.NewPoint(mt.TargetDimensions())}
	ok := b.cell(env.Minimum(0), env.Minimum(1), env.Maximum(0), env.Maximum(1), r.bisectDepth)
	if !ok {
		return nil, errors.Wrap(stats.lastErr, "bisection: every sample of the envelope failed")
	}
	return b.out, nil
}

// bisectCenter fills center with the transformed envelope median, falling
// back to the median of the bisected result.
func (r *Reprojector) bisectCenter(mt transform.MathTransform, env, out *geom.Envelope, center geom.Point) {
	if got, err := apply(mt, env.Center(), center); err == nil {
		copy(center, got)
		return
	}
	for i := range center {
		center[i] = out.Median(i)
	}
}

type bisector struct {
	mt    transform.MathTransform
	stats *probeStats
	dst   geom.Point
	out   *geom.Envelope
}

// cell samples one cell and recurses into its mixed quadrants. It reports
// false when every sample failed.
func (b *bisector) cell(minX, minY, maxX, maxY float64, depth int) bool {
	if depth <= 0 {
		return true
	}
	midX := minX + (maxX-minX)/2
	midY := minY + (maxY-minY)/2
	xs := [3]float64{minX, midX, maxX}
	ys := [3]float64{minY, midY, maxY}

	var failed [9]bool
	nfailed := 0
	src := geom.NewPoint(2)
	for i := range failed {
		src[0], src[1] = xs[i%3], ys[i/3]
		got, err := apply(b.mt, src, b.dst)
		if err != nil {
			failed[i] = true
			nfailed++
			b.stats.fail(err)
			continue
		}
		b.stats.succeeded++
		if b.out == nil {
			b.out = geom.EnvelopeFromPoint(got, nil)
		} else {
			b.out.Add(got)
		}
	}
	if nfailed == len(failed) {
		return false
	}
	// With every sample valid there is no failure boundary left to refine.
	if nfailed == 0 {
		return true
	}
	for _, q := range bisectQuadrants {
		if !mixed(failed, q) {
			continue
		}
		lo, hi := q[0], q[3]
		b.cell(xs[lo%3], ys[lo/3], xs[hi%3], ys[hi/3], depth-1)
	}
	return true
}

func mixed(failed [9]bool, idx [4]int) bool {
	n := 0
	for _, i := range idx {
		if failed[i] {
			n++
		}
	}
	return n > 0 && n < len(idx)
}
