// Package coord implements the analytic forward and inverse formulas of the
// map projections the library knows about. All formulas work on a sphere of
// radius EarthRadius except the Swiss LV95 polynomial.
package coord

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/crs"
)

// ErrOutOfDomain is returned when a coordinate cannot be projected, for
// example a pole under Mercator or the antipode under an azimuthal projection.
var ErrOutOfDomain = errors.New("coordinate outside projection domain")

// Projection converts between a projected CRS and WGS84 longitude/latitude.
type Projection interface {
	// ToWGS84 converts projected coordinates to WGS84 longitude/latitude (degrees).
	ToWGS84(x, y float64) (lon, lat float64, err error)

	// FromWGS84 converts WGS84 longitude/latitude (degrees) to projected coordinates.
	FromWGS84(lon, lat float64) (x, y float64, err error)

	// EPSG returns the authority code, or 0 for ad-hoc definitions.
	EPSG() int
}

// ForEPSG returns a Projection for the given code.
// Returns nil if the code is not supported.
func ForEPSG(epsg int) Projection {
	c, err := crs.ForEPSG(epsg)
	if err != nil {
		return nil
	}
	p, err := ForCRS(c)
	if err != nil {
		return nil
	}
	return p
}

// ForCRS builds the projection formulas for a projected (or derived
// projected) CRS from its descriptor parameters.
func ForCRS(c *crs.CRS) (Projection, error) {
	if c.IsGeographic() {
		return &WGS84Identity{}, nil
	}
	pc := crs.ProjectedCRS(c)
	if pc == nil || pc.Projection == nil {
		return nil, errors.Newf("%s has no map projection", c)
	}
	params := pc.Projection.Parameters
	fe, fn := pc.Projection.Origin()
	lon0, lat0 := pc.Projection.Center()
	switch pc.Projection.Kind {
	case crs.ProjectionMercator:
		return &WebMercatorProj{CentralMeridian: lon0, FalseEasting: fe, FalseNorthing: fn, Code: pc.Code}, nil
	case crs.ProjectionSwissObliqueMercator:
		return &SwissLV95{}, nil
	case crs.ProjectionPolarStereographic:
		lats := params.Value(crs.StandardParallel1, lat0)
		if lats == 0 {
			return nil, errors.Newf("%s: polar stereographic needs a non-zero latitude of true scale", c)
		}
		return &PolarStereographic{
			LatTrueScale:    lats,
			CentralMeridian: lon0,
			FalseEasting:    fe,
			FalseNorthing:   fn,
			Code:            pc.Code,
		}, nil
	case crs.ProjectionLambertAzimuthalEqualArea:
		return &LambertAzimuthal{azimuthal: newAzimuthal(lon0, lat0, fe, fn, pc.Code)}, nil
	case crs.ProjectionAzimuthalEquidistant:
		return &AzimuthalEquidistant{azimuthal: newAzimuthal(lon0, lat0, fe, fn, pc.Code)}, nil
	case crs.ProjectionOrthographic:
		return &Orthographic{azimuthal: newAzimuthal(lon0, lat0, fe, fn, pc.Code)}, nil
	default:
		return nil, errors.Newf("%s: unsupported projection %v", c, pc.Projection.Kind)
	}
}

// WGS84Identity is a no-op projection for data already in EPSG:4326.
type WGS84Identity struct{}

func (w *WGS84Identity) ToWGS84(x, y float64) (lon, lat float64, err error)   { return x, y, nil }
func (w *WGS84Identity) FromWGS84(lon, lat float64) (x, y float64, err error) { return lon, lat, nil }
func (w *WGS84Identity) EPSG() int                                            { return 4326 }

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// NormalizeLon wraps a longitude into [-180, 180].
func NormalizeLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func outOfDomain(format string, args ...interface{}) error {
	return errors.Wrapf(ErrOutOfDomain, format, args...)
}

func checkLonLat(lon, lat float64) error {
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return outOfDomain("non-finite coordinate (%g, %g)", lon, lat)
	}
	if lat < -90-1e-9 || lat > 90+1e-9 {
		return outOfDomain("latitude %g outside [-90, 90]", lat)
	}
	return nil
}
