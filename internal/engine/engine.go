// Package engine selects the projection implementation behind operation
// lookup.
package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/libproj"
	"github.com/pspoerri/envreproject/internal/proj4"
	"github.com/pspoerri/envreproject/internal/reproject"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Engine names.
const (
	Builtin = "builtin"
	Proj4   = "proj4"
	LibProj = "libproj"
)

// Names lists the engines in order of preference.
func Names() []string { return []string{Builtin, Proj4, LibProj} }

// Finder returns the operation lookup for the named engine.
func Finder(name string) (reproject.OperationFinder, error) {
	switch name {
	case "", Builtin:
		return reproject.FinderFunc(transform.Find), nil
	case Proj4:
		return reproject.FinderFunc(proj4.Find), nil
	case LibProj:
		if !libproj.Available {
			return nil, libproj.ErrUnavailable
		}
		return reproject.FinderFunc(libproj.Find), nil
	default:
		return nil, errors.Newf("unknown projection engine %q", name)
	}
}
