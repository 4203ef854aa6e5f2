package reproject

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/coord"
	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

const (
	poleEpsilon        = 1e-6
	antimeridianPoints = 50
	antimeridianOffset = 1e-6
)

var quadrantLongitudes = []float64{-180, -90, 0, 90, 180}

// expandOnPolarOrigin handles azimuthal sources whose natural origin is a
// pole. When the envelope contains the origin the image spans every
// longitude; otherwise the envelope edge points closest to the origin are
// added.
func (r *Reprojector) expandOnPolarOrigin(env *geom.Envelope, source, target *crs.CRS, mt transform.MathTransform, out *geom.Envelope) {
	proj := crs.MapProjection(source)
	if proj == nil || !proj.Kind.Azimuthal() || env.Dimension() < 2 {
		return
	}
	ox, oy := proj.Origin()
	if !r.isProjectedPole(source, ox, oy) {
		return
	}
	stats := probeStats{stage: StagePolarOrigin}
	defer r.report(&stats)

	containsOrigin := env.Minimum(0) <= ox && ox <= env.Maximum(0) &&
		env.Minimum(1) <= oy && oy <= env.Maximum(1)
	if !containsOrigin {
		dst := geom.NewPoint(mt.TargetDimensions())
		for axis, v := range []float64{ox, oy} {
			if !(env.Minimum(axis) < v && v < env.Maximum(axis)) {
				continue
			}
			for _, corner := range []geom.Point{env.LowerCorner(), env.UpperCorner()} {
				corner[axis] = v
				r.probe(&stats, mt, corner, dst, out)
			}
		}
		return
	}

	if target.IsGeographic() {
		lon := target.CS.LongitudeAxis()
		if lon < 0 {
			return
		}
		p := out.LowerCorner()
		for _, v := range []float64{-180, 180} {
			p[lon] = v
			out.Add(p)
		}
		stats.succeeded += 2
		return
	}

	// The target may not accept every longitude, so the full circle is
	// sampled at 1° through both corners of the result so far.
	toGeo, err := transform.ToLonLat(target)
	if err != nil {
		stats.fail(err)
		return
	}
	fromGeo, err := toGeo.Inverse()
	if err != nil {
		stats.fail(err)
		return
	}
	dst := geom.NewPoint(fromGeo.TargetDimensions())
	for _, corner := range []geom.Point{out.LowerCorner(), out.UpperCorner()} {
		geo, err := toGeo.Transform(corner, nil)
		if err != nil {
			stats.fail(err)
			continue
		}
		for lon := -180; lon < 180; lon++ {
			geo[0] = float64(lon)
			r.probe(&stats, fromGeo, geo, dst, out)
		}
	}
}

// expandOnPolarQuadrants adds the corners of the envelope at the quadrant
// longitudes, which are the extreme points of a polar stereographic circle.
func (r *Reprojector) expandOnPolarQuadrants(env *geom.Envelope, source *crs.CRS, mt transform.MathTransform, out *geom.Envelope) {
	i := source.CS.LongitudeAxis()
	if i < 0 {
		return
	}
	stats := probeStats{stage: StageQuadrants}
	defer r.report(&stats)

	minLon, maxLon := env.Minimum(i), env.Maximum(i)
	world := maxLon-minLon >= 360
	dst := geom.NewPoint(mt.TargetDimensions())
	lower, upper := env.LowerCorner(), env.UpperCorner()
	for _, lon := range quadrantLongitudes {
		if !world && !(minLon < lon && lon < maxLon) {
			continue
		}
		lower[i], upper[i] = lon, lon
		r.probe(&stats, mt, lower, dst, out)
		r.probe(&stats, mt, upper, dst, out)
	}
}

// expandOnOrthographicQuadrants samples the meridian and parallel through
// the projection center, clipped to the visible hemisphere.
func (r *Reprojector) expandOnOrthographicQuadrants(env *geom.Envelope, source *crs.CRS, proj *crs.Projection, mt transform.MathTransform, out *geom.Envelope) {
	li, bi := source.CS.LongitudeAxis(), source.CS.LatitudeAxis()
	if li < 0 || bi < 0 {
		return
	}
	stats := probeStats{stage: StageOrthographic}
	defer r.report(&stats)

	lon0, lat0 := proj.Center()
	src := env.Center()
	dst := geom.NewPoint(mt.TargetDimensions())
	if env.Minimum(li) <= lon0 && lon0 <= env.Maximum(li) {
		src[li] = lon0
		for _, lat := range []float64{
			math.Max(env.Minimum(bi), lat0-90),
			math.Min(lat0+90, env.Maximum(bi)),
		} {
			src[bi] = lat
			r.probe(&stats, mt, src, dst, out)
		}
		src[li], src[bi] = env.Median(li), env.Median(bi)
	}
	if env.Minimum(bi) <= lat0 && lat0 <= env.Maximum(bi) {
		src[bi] = lat0
		for _, lon := range []float64{
			math.Max(env.Minimum(li), lon0-90),
			math.Min(lon0+90, env.Maximum(li)),
		} {
			src[li] = lon
			r.probe(&stats, mt, src, dst, out)
		}
	}
}

// includePoles adds the points where the center meridian and the pole
// parallel cross the source envelope, for targets centered on a pole.
// Azimuthal targets also get the three meridians rotated by 90°.
func (r *Reprojector) includePoles(env *geom.Envelope, source, target *crs.CRS, kind crs.ProjectionKind, lon, lat float64, out *geom.Envelope) {
	stats := probeStats{stage: StagePoles}
	defer r.report(&stats)

	geo, err := r.geographic(env, source, target)
	if err != nil {
		stats.fail(err)
		return
	}
	geo.extremePoints(r, &stats, lon, lat, out)
	if kind.Azimuthal() {
		for range 3 {
			lon = rollLongitude(lon - 90)
			geo.extremePoints(r, &stats, lon, lat, out)
		}
	}
}

// expandOnAntimeridian samples the parallel at the negated center latitude,
// where azimuthal equidistant distortion peaks, just either side of it.
func (r *Reprojector) expandOnAntimeridian(env *geom.Envelope, source, target *crs.CRS, centerLat float64, out *geom.Envelope) {
	stats := probeStats{stage: StageAntimeridian}
	defer r.report(&stats)

	geo, err := r.geographic(env, source, target)
	if err != nil {
		stats.fail(err)
		return
	}
	lat := -centerLat
	if !(geo.env.Minimum(1) <= lat && lat <= geo.env.Maximum(1)) {
		return
	}
	geo.parallel(r, &stats, lat-antimeridianOffset, antimeridianPoints, out)
	geo.parallel(r, &stats, lat+antimeridianOffset, antimeridianPoints, out)
}

// geoContext is the source envelope in WGS84 longitude/latitude together
// with the transform from WGS84 to the target.
type geoContext struct {
	env      *geom.Envelope
	toTarget transform.MathTransform
	work     geom.Point
	dst      geom.Point
}

func (r *Reprojector) geographic(env *geom.Envelope, source, target *crs.CRS) (*geoContext, error) {
	op, err := r.finder.Find(crs.WGS84, target)
	if err != nil {
		return nil, errors.Wrapf(err, "WGS84 to %s", target)
	}
	g := &geoContext{
		toTarget: op.Transform,
		work:     geom.NewPoint(2),
		dst:      geom.NewPoint(op.Transform.TargetDimensions()),
	}
	if source.IsGeographic() {
		li, bi := source.CS.LongitudeAxis(), source.CS.LatitudeAxis()
		if li < 0 || bi < 0 {
			return nil, errors.Newf("%s has no longitude/latitude axes", source)
		}
		g.env, err = geom.NewEnvelope(
			geom.Point{env.Minimum(li), env.Minimum(bi)},
			geom.Point{env.Maximum(li), env.Maximum(bi)},
			crs.WGS84)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	toWGS84, err := r.finder.Find(source, crs.WGS84)
	if err != nil {
		return nil, errors.Wrapf(err, "%s to WGS84", source)
	}
	g.env, _, err = sample(toWGS84.Transform, env, nil)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// extremePoints adds the envelope boundary points on the given meridian and
// parallel.
func (g *geoContext) extremePoints(r *Reprojector, stats *probeStats, lon, lat float64, out *geom.Envelope) {
	minLon, maxLon := g.env.Minimum(0), g.env.Maximum(0)
	minLat, maxLat := g.env.Minimum(1), g.env.Maximum(1)
	if minLon <= lon && lon <= maxLon {
		g.include(r, stats, lon, minLat, out)
		g.include(r, stats, lon, maxLat, out)
	}
	if minLat <= lat && lat <= maxLat {
		g.include(r, stats, minLon, lat, out)
		g.include(r, stats, maxLon, lat, out)
	}
}

// parallel adds n points evenly spaced over the longitude range at lat.
func (g *geoContext) parallel(r *Reprojector, stats *probeStats, lat float64, n int, out *geom.Envelope) {
	minLon, maxLon := g.env.Minimum(0), g.env.Maximum(0)
	delta := (maxLon - minLon) / float64(n-1)
	for i := range n {
		g.include(r, stats, minLon+delta*float64(i), lat, out)
	}
}

func (g *geoContext) include(r *Reprojector, stats *probeStats, lon, lat float64, out *geom.Envelope) {
	g.work[0], g.work[1] = lon, lat
	r.probe(stats, g.toTarget, g.work, g.dst, out)
}

// probe transforms src and adds the result to out, counting the outcome.
func (r *Reprojector) probe(stats *probeStats, mt transform.MathTransform, src, dst geom.Point, out *geom.Envelope) {
	got, err := apply(mt, src, dst)
	if err != nil {
		stats.fail(err)
		return
	}
	out.Add(got)
	stats.succeeded++
}

// isProjectedPole reports whether the projected point (x, y) of c maps to
// one of the poles.
func (r *Reprojector) isProjectedPole(c *crs.CRS, x, y float64) bool {
	p, err := coord.ForCRS(crs.ProjectedCRS(c))
	if err != nil {
		return false
	}
	_, lat, err := p.ToWGS84(x, y)
	if err != nil {
		return false
	}
	return isPoleLatitude(lat)
}

func isPoleLatitude(lat float64) bool {
	return math.Abs(lat-90) < poleEpsilon || math.Abs(lat+90) < poleEpsilon
}

// rollLongitude folds x back into [-180, 180].
func rollLongitude(x float64) float64 {
	var sign float64
	switch {
	case x > 0:
		sign = 1
	case x < 0:
		sign = -1
	}
	return x - float64(int(x+sign*180)/360)*360
}
