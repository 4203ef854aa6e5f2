package reproject

import (
	"math"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

// expandSingularities handles target axis bounds that forward sampling cannot
// see, such as latitude ±90 in a geographic target: the bound is placed on the
// transformed center, mapped back to the source and, when it falls inside the
// source envelope, added to the result.
//
// Without an inverse the step is skipped. That is expected when the target
// has fewer dimensions than the source, so it is only logged otherwise.
func (r *Reprojector) expandSingularities(mt transform.MathTransform, center geom.Point, out, env *geom.Envelope, target *crs.CRS) {
	dim := target.Dimension()
	if dim != len(center) {
		return
	}
	var (
		inv       transform.MathTransform
		targetPt  geom.Point
		sourcePt  geom.Point
		forwardPt geom.Point
		stats     = probeStats{stage: StageSingularity}
	)
	defer r.report(&stats)
	for i, axis := range target.CS.Axes {
		for _, extremum := range []float64{axis.Min, axis.Max} {
			if math.IsInf(extremum, 0) || math.IsNaN(extremum) {
				continue
			}
			if inv == nil {
				var err error
				inv, err = mt.Inverse()
				if err != nil {
					if dim >= mt.SourceDimensions() {
						r.log().Debug("singularity expansion skipped", "stage", StageSingularity, "error", err)
					}
					return
				}
				targetPt = center.Clone()
				sourcePt = geom.NewPoint(inv.TargetDimensions())
				forwardPt = geom.NewPoint(mt.TargetDimensions())
			}
			targetPt[i] = extremum
			s, err := inv.Transform(targetPt, sourcePt)
			if err != nil {
				// Unreachable bounds, such as the poles under Mercator, are normal.
				stats.failed++
				continue
			}
			if !env.Contains(s) {
				stats.succeeded++
				continue
			}
			if f, err := apply(mt, s, forwardPt); err == nil {
				out.Add(f)
			}
			out.Add(targetPt)
			stats.succeeded++
		}
		if targetPt != nil {
			targetPt[i] = center[i]
		}
	}
}
