//go:build proj

package libproj

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/pebbe/proj/v5"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/proj4"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Available reports whether PROJ was linked in.
const Available = true

// pipeline owns one PROJ context and object. PROJ objects are not safe for
// concurrent use, so every call holds mu.
type pipeline struct {
	mu  sync.Mutex
	ctx *proj.Context
	pj  *proj.PJ
}

// Transform is a 2-D transform running a PROJ pipeline in one direction.
type Transform struct {
	p   *pipeline
	dir proj.Direction
}

// New creates the pipeline for source to target.
func New(source, target *crs.CRS) (*Transform, error) {
	def, err := Pipeline(source, target)
	if err != nil {
		return nil, err
	}
	ctx := proj.NewContext()
	pj, err := ctx.Create(def)
	if err != nil {
		ctx.Close()
		return nil, errors.Wrapf(err, "creating %q", def)
	}
	return &Transform{p: &pipeline{ctx: ctx, pj: pj}, dir: proj.Fwd}, nil
}

// Close releases the PROJ objects shared by the transform and its inverse.
func (t *Transform) Close() {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	t.p.pj.Close()
	t.p.ctx.Close()
}

func (t *Transform) SourceDimensions() int { return 2 }
func (t *Transform) TargetDimensions() int { return 2 }
func (t *Transform) IsIdentity() bool      { return false }

func (t *Transform) Transform(src, dst geom.Point) (geom.Point, error) {
	if len(src) != 2 {
		return nil, errors.Newf("point has dimension %d, transform expects 2", len(src))
	}
	t.p.mu.Lock()
	x, y, _, _, err := t.p.pj.Trans(t.dir, src[0], src[1], 0, 0)
	t.p.mu.Unlock()
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "(%g, %g)", src[0], src[1]), transform.ErrOutOfDomain)
	}
	if x != x || y != y || x-x != 0 || y-y != 0 {
		return nil, errors.Wrapf(transform.ErrOutOfDomain, "(%g, %g)", src[0], src[1])
	}
	if len(dst) != 2 {
		dst = geom.NewPoint(2)
	}
	dst[0], dst[1] = x, y
	return dst, nil
}

func (t *Transform) Inverse() (transform.MathTransform, error) {
	dir := proj.Inv
	if t.dir == proj.Inv {
		dir = proj.Fwd
	}
	return &Transform{p: t.p, dir: dir}, nil
}

// Find builds the operation between two 2-D descriptors through PROJ.
func Find(source, target *crs.CRS) (*transform.Operation, error) {
	if source == nil || target == nil {
		return nil, errors.New("source and target CRS are required")
	}
	if crs.Equal(source, target) {
		return transform.NewOperation(source, target, transform.Identity(source.Dimension()))
	}
	t, err := New(source, target)
	if err != nil {
		return nil, err
	}
	mt, err := proj4.WithAxisOrder(source, target, t)
	if err != nil {
		return nil, err
	}
	return transform.NewOperation(source, target, mt)
}
