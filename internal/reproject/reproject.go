// Package reproject transforms envelopes between coordinate reference
// systems so that the result contains the image of every point of the
// source envelope.
//
// Sampling alone underestimates the image whenever the transform bends the
// envelope edges, wraps around the antimeridian or maps a pole to a line.
// Envelope therefore runs the baseline sampler and then a series of
// expansions that can only grow the result: axis wrap crossings, target axis
// singularities, and dedicated handling of the polar and azimuthal
// projection families.
package reproject

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Reprojector transforms envelopes. It is immutable and safe for concurrent
// use; each call allocates its own scratch points.
type Reprojector struct {
	logger      *slog.Logger
	finder      OperationFinder
	observer    Observer
	bisectDepth int
	selfCheck   bool
}

// New returns a Reprojector. Without options it uses transform.Find, no
// bisection fallback and no self-check.
func New(opts ...Option) *Reprojector {
	r := &Reprojector{
		finder:   FinderFunc(transform.Find),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Envelope reprojects env with a default Reprojector.
func Envelope(op *transform.Operation, env *geom.Envelope) (*geom.Envelope, error) {
	return New().Envelope(op, env)
}

// CRS reprojects env from its own CRS to target with a default Reprojector.
func CRS(env *geom.Envelope, target *crs.CRS) (*geom.Envelope, error) {
	return New().CRS(env, target)
}

// CRS looks up the operation from env's CRS to target and reprojects env.
// An identity operation returns a copy tagged with target.
func (r *Reprojector) CRS(env *geom.Envelope, target *crs.CRS) (*geom.Envelope, error) {
	if env == nil {
		return nil, errors.New("nil envelope")
	}
	if env.CRS() == nil {
		return nil, errors.New("envelope has no CRS")
	}
	op, err := r.finder.Find(env.CRS(), target)
	if err != nil {
		return nil, errors.Wrapf(err, "finding operation %s to %s", env.CRS(), target)
	}
	if op.Transform.IsIdentity() {
		out := env.Clone()
		out.SetCRS(target)
		return out, nil
	}
	return r.Envelope(op, env)
}

// Envelope transforms env with op. The result may have a different dimension
// than env and is tagged with op.Target. It may be larger than the exact
// image but never smaller, up to the heuristics of the polar expanders.
//
// Failures while sampling the envelope are returned; failures of the
// best-effort probes are logged at debug level and skipped.
func (r *Reprojector) Envelope(op *transform.Operation, env *geom.Envelope) (out *geom.Envelope, err error) {
	if op == nil || op.Transform == nil {
		return nil, errors.New("nil operation")
	}
	if env == nil {
		return nil, errors.New("nil envelope")
	}
	source, target, mt := op.Source, op.Target, op.Transform
	if source != nil && env.CRS() != nil && !crs.Equal(env.CRS(), source) {
		return nil, errors.Wrapf(ErrMismatchedCRS, "envelope in %s, operation from %s", env.CRS(), source)
	}

	samples := 0
	defer func() { r.observer.ObserveReprojection(samples, err) }()

	center := geom.NewPoint(mt.TargetDimensions())
	out, samples, err = sample(mt, env, center)
	if err != nil {
		if !r.canBisect(mt, env, err) {
			return nil, err
		}
		r.log().Debug("baseline sampling failed, bisecting", "error", err, "depth", r.bisectDepth)
		if out, err = r.bisect(mt, env); err != nil {
			return nil, err
		}
		r.bisectCenter(mt, env, out, center)
	}

	if err = r.expandOnAxisCrossing(env, source, mt, out); err != nil {
		return nil, err
	}
	if target == nil {
		return out, nil
	}

	if source != nil {
		r.expandOnPolarOrigin(env, source, target, mt, out)
	}
	targetProj := crs.MapProjection(target)
	if targetProj != nil && source.IsGeographic() {
		_, centerLat := targetProj.Center()
		switch {
		case targetProj.Kind == crs.ProjectionOrthographic:
			r.expandOnOrthographicQuadrants(env, source, targetProj, mt, out)
		case targetProj.Kind == crs.ProjectionPolarStereographic,
			targetProj.Kind.Azimuthal() && isPoleLatitude(centerLat):
			r.expandOnPolarQuadrants(env, source, mt, out)
		}
	}

	out.SetCRS(target)
	r.expandSingularities(mt, center, out, env, target)

	if targetProj != nil && source != nil {
		lon, lat := targetProj.Center()
		if isPoleLatitude(lat) {
			r.includePoles(env, source, target, targetProj.Kind, lon, lat, out)
		}
		if targetProj.Kind == crs.ProjectionAzimuthalEquidistant {
			r.expandOnAntimeridian(env, source, target, lat, out)
		}
	}
	return out, nil
}

func (r *Reprojector) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// probeStats counts best-effort probe outcomes of one stage.
type probeStats struct {
	stage     string
	succeeded int
	failed    int
	lastErr   error
}

func (s *probeStats) fail(err error) {
	s.failed++
	s.lastErr = err
}

// report logs skipped probes once per stage and forwards the counts.
func (r *Reprojector) report(s *probeStats) {
	if s.succeeded == 0 && s.failed == 0 {
		return
	}
	if s.lastErr != nil {
		r.log().Debug("probes skipped", "stage", s.stage, "failed", s.failed, "error", s.lastErr)
	}
	r.observer.ObserveProbes(s.stage, s.succeeded, s.failed)
}
