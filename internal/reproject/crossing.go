package reproject

import (
	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

// expandOnAxisCrossing samples the envelope center pinned to every finite
// source axis bound that lies strictly inside the envelope. An envelope from
// 150°E to 200°E crosses the 180° wrap, and transforms that normalise 200°
// to -160° would otherwise never produce the 180° extremum.
func (r *Reprojector) expandOnAxisCrossing(env *geom.Envelope, source *crs.CRS, mt transform.MathTransform, out *geom.Envelope) error {
	if source == nil || mt.IsIdentity() {
		return nil
	}
	var src, dst geom.Point
	probes := 0
	for i, axis := range source.CS.Axes {
		lo, hi := env.Minimum(i), env.Maximum(i)
		crossMin := axis.Min > lo && axis.Min < hi
		crossMax := axis.Max > lo && axis.Max < hi
		if !crossMin && !crossMax {
			continue
		}
		if src == nil {
			src = env.Center()
			dst = geom.NewPoint(mt.TargetDimensions())
		}
		for _, bound := range []struct {
			cross bool
			value float64
		}{{crossMin, axis.Min}, {crossMax, axis.Max}} {
			if !bound.cross {
				continue
			}
			src[i] = bound.value
			got, err := apply(mt, src, dst)
			if err != nil {
				return errors.Wrapf(err, "axis %s crossing at %g", axis.Abbreviation, bound.value)
			}
			out.Add(got)
			probes++
		}
		src[i] = env.Median(i)
	}
	if probes > 0 {
		r.observer.ObserveProbes(StageAxisCrossing, probes, 0)
	}
	return nil
}
