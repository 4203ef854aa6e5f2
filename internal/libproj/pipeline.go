// Package libproj runs coordinate operations through the PROJ C library.
// Building it requires the proj build tag and a PROJ installation; without
// the tag Find reports ErrUnavailable.
package libproj

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/proj4"
)

// ErrUnavailable is returned when the binary was built without PROJ.
var ErrUnavailable = errors.New("libproj: built without the proj build tag")

// Pipeline returns the PROJ pipeline from source to target. Geographic ends
// are converted between degrees and the radians PROJ works in.
func Pipeline(source, target *crs.CRS) (string, error) {
	from, err := proj4.Definition(source)
	if err != nil {
		return "", err
	}
	to, err := proj4.Definition(target)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("+proj=pipeline")
	if source.IsGeographic() {
		b.WriteString(" +step +proj=unitconvert +xy_in=deg +xy_out=rad")
	} else {
		b.WriteString(" +step +inv " + step(from))
	}
	if target.IsGeographic() {
		b.WriteString(" +step +proj=unitconvert +xy_in=rad +xy_out=deg")
	} else {
		b.WriteString(" +step " + step(to))
	}
	return b.String(), nil
}

func step(def string) string {
	return strings.TrimSuffix(def, " +no_defs")
}
