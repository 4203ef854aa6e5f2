package reproject

import (
	"log/slog"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/transform"
)

// MaxBisectDepth bounds the recursion of the bisection fallback.
const MaxBisectDepth = 6

// Probe stages reported to an Observer.
const (
	StageAxisCrossing = "axis_crossing"
	StageSingularity  = "singularity"
	StagePolarOrigin  = "polar_origin"
	StageQuadrants    = "quadrants"
	StageOrthographic = "orthographic"
	StagePoles        = "poles"
	StageAntimeridian = "antimeridian"
	StageBisection    = "bisection"
)

// OperationFinder looks up the operation between two reference systems. The
// polar expanders use it to reach WGS84 from either side.
type OperationFinder interface {
	Find(source, target *crs.CRS) (*transform.Operation, error)
}

// FinderFunc adapts a function to OperationFinder.
type FinderFunc func(source, target *crs.CRS) (*transform.Operation, error)

func (f FinderFunc) Find(source, target *crs.CRS) (*transform.Operation, error) {
	return f(source, target)
}

// Observer receives counts from every reprojection. Implementations must be
// safe for concurrent use.
type Observer interface {
	// ObserveReprojection is called once per call with the number of
	// baseline samples and the final error, if any.
	ObserveReprojection(samples int, err error)
	// ObserveProbes reports best-effort probe outcomes for one stage.
	ObserveProbes(stage string, succeeded, failed int)
}

type nopObserver struct{}

func (nopObserver) ObserveReprojection(int, error) {}
func (nopObserver) ObserveProbes(string, int, int) {}

// Option configures a Reprojector.
type Option func(*Reprojector)

// WithLogger sets the logger for skipped probes. The default is slog.Default()
// at call time.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reprojector) { r.logger = l }
}

// WithFinder replaces transform.Find for the operations the polar
// expanders need.
func WithFinder(f OperationFinder) Option {
	return func(r *Reprojector) {
		if f != nil {
			r.finder = f
		}
	}
}

// WithObserver installs an Observer, for example a metrics collector.
func WithObserver(o Observer) Option {
	return func(r *Reprojector) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithBisection enables the bisection fallback for 2-D envelopes whose
// baseline sampling fails. depth is clamped to [0, MaxBisectDepth]; 0
// disables the fallback.
func WithBisection(depth int) Option {
	return func(r *Reprojector) { r.bisectDepth = min(max(depth, 0), MaxBisectDepth) }
}

// WithSelfCheck enables the rectangle fast path self-check.
func WithSelfCheck(enabled bool) Option {
	return func(r *Reprojector) { r.selfCheck = enabled }
}
