//go:build !proj

package libproj

import (
	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Available reports whether PROJ was linked in.
const Available = false

// Find reports ErrUnavailable; rebuild with -tags proj to use PROJ.
func Find(source, target *crs.CRS) (*transform.Operation, error) {
	return nil, ErrUnavailable
}
