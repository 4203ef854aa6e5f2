// Package proj4 builds transforms from proj4 definition strings with the
// pure Go port in github.com/ctessum/geom/proj.
package proj4

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/coord"
	"github.com/pspoerri/envreproject/internal/crs"
)

// ErrUnsupported is returned for descriptors without a proj4 equivalent.
var ErrUnsupported = errors.New("no proj4 definition")

// sphere matches the radius used by the built-in formulas.
var sphere = "+a=" + num(coord.EarthRadius) + " +b=" + num(coord.EarthRadius)

// Definition returns the proj4 string for a 2-D descriptor, on the sphere
// used by the built-in projection formulas.
func Definition(c *crs.CRS) (string, error) {
	if c == nil {
		return "", errors.Wrap(ErrUnsupported, "nil CRS")
	}
	if c.Dimension() != 2 {
		return "", errors.Wrapf(ErrUnsupported, "%s has %d dimensions", c, c.Dimension())
	}
	if c.IsGeographic() {
		return "+proj=longlat " + sphere + " +no_defs", nil
	}
	p := crs.MapProjection(c)
	if p == nil {
		return "", errors.Wrapf(ErrUnsupported, "%s", c)
	}
	lon, lat := p.Center()
	fe, fn := p.Origin()
	var b strings.Builder
	switch p.Kind {
	case crs.ProjectionMercator:
		fmt.Fprintf(&b, "+proj=merc +lat_ts=0 +lon_0=%s +k=1", num(lon))
	case crs.ProjectionSwissObliqueMercator:
		fmt.Fprintf(&b, "+proj=somerc +lat_0=%s +lon_0=%s +k_0=1", num(lat), num(lon))
	case crs.ProjectionPolarStereographic:
		latTS := p.Parameters.Value(crs.StandardParallel1, lat)
		fmt.Fprintf(&b, "+proj=stere +lat_0=%s +lat_ts=%s +lon_0=%s", num(lat), num(latTS), num(lon))
	case crs.ProjectionLambertAzimuthalEqualArea:
		fmt.Fprintf(&b, "+proj=laea +lat_0=%s +lon_0=%s", num(lat), num(lon))
	case crs.ProjectionAzimuthalEquidistant:
		fmt.Fprintf(&b, "+proj=aeqd +lat_0=%s +lon_0=%s", num(lat), num(lon))
	case crs.ProjectionOrthographic:
		fmt.Fprintf(&b, "+proj=ortho +lat_0=%s +lon_0=%s", num(lat), num(lon))
	default:
		return "", errors.Wrapf(ErrUnsupported, "%s: projection %s", c, p.Kind)
	}
	fmt.Fprintf(&b, " +x_0=%s +y_0=%s %s +units=m +no_defs", num(fe), num(fn), sphere)
	return b.String(), nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
