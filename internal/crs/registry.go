package crs

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// ErrUnknownCode is returned for authority codes missing from the registry.
var ErrUnknownCode = errors.New("unknown CRS code")

// Built-in geographic systems.
var (
	// WGS84 is EPSG:4326 with longitude first.
	WGS84 = &CRS{
		Name: "WGS 84",
		Code: 4326,
		Kind: KindGeographic,
		CS:   CoordinateSystem{Axes: []Axis{Longitude, Latitude}},
	}
	// WGS84NorthEast is EPSG:4326 in authority axis order (latitude first).
	WGS84NorthEast = &CRS{
		Name: "WGS 84 (lat/lon)",
		Code: 4326,
		Kind: KindGeographic,
		CS:   CoordinateSystem{Axes: []Axis{Latitude, Longitude}},
	}
	// WGS84_3D is EPSG:4979, longitude, latitude and ellipsoidal height.
	WGS84_3D = &CRS{
		Name: "WGS 84 (3D)",
		Code: 4979,
		Kind: KindGeographic,
		CS:   CoordinateSystem{Axes: []Axis{Longitude, Latitude, Height}},
	}
)

// NewProjected builds a 2-D projected CRS (easting, northing) on base.
func NewProjected(name string, code int, base *CRS, kind ProjectionKind, params Parameters) *CRS {
	if base == nil {
		base = WGS84
	}
	return &CRS{
		Name:       name,
		Code:       code,
		Kind:       KindProjected,
		CS:         CoordinateSystem{Axes: []Axis{Easting, Northing}},
		Base:       base,
		Projection: &Projection{Kind: kind, Parameters: params},
	}
}

// NewDerived wraps base with extra axes appended to its coordinate system.
func NewDerived(name string, base *CRS, extra ...Axis) *CRS {
	axes := make([]Axis, 0, base.Dimension()+len(extra))
	axes = append(axes, base.CS.Axes...)
	axes = append(axes, extra...)
	return &CRS{
		Name: name,
		Kind: KindDerived,
		CS:   CoordinateSystem{Axes: axes},
		Base: base,
	}
}

// PolarStereographic builds a polar stereographic (variant B) CRS. The pole
// is chosen from the sign of the latitude of true scale.
func PolarStereographic(name string, code int, latTrueScale, centralMeridian, falseEasting, falseNorthing float64) *CRS {
	pole := 90.0
	if latTrueScale < 0 {
		pole = -90
	}
	return NewProjected(name, code, WGS84, ProjectionPolarStereographic, Parameters{
		LatitudeOfOrigin:  pole,
		StandardParallel1: latTrueScale,
		CentralMeridian:   centralMeridian,
		FalseEasting:      falseEasting,
		FalseNorthing:     falseNorthing,
	})
}

// LambertAzimuthalEqualArea builds a Lambert azimuthal equal-area CRS.
func LambertAzimuthalEqualArea(name string, code int, lonCenter, latCenter, falseEasting, falseNorthing float64) *CRS {
	return NewProjected(name, code, WGS84, ProjectionLambertAzimuthalEqualArea, Parameters{
		LatitudeOfCenter:  latCenter,
		LongitudeOfCenter: lonCenter,
		FalseEasting:      falseEasting,
		FalseNorthing:     falseNorthing,
	})
}

// AzimuthalEquidistant builds an azimuthal equidistant CRS.
func AzimuthalEquidistant(name string, code int, lonCenter, latCenter float64) *CRS {
	return NewProjected(name, code, WGS84, ProjectionAzimuthalEquidistant, Parameters{
		LatitudeOfCenter:  latCenter,
		LongitudeOfCenter: lonCenter,
		FalseEasting:      0,
		FalseNorthing:     0,
	})
}

// Orthographic builds an orthographic CRS centred on (lon, lat).
func Orthographic(name string, lonCenter, latCenter float64) *CRS {
	return NewProjected(name, 0, WGS84, ProjectionOrthographic, Parameters{
		LatitudeOfOrigin: latCenter,
		CentralMeridian:  lonCenter,
		FalseEasting:     0,
		FalseNorthing:    0,
	})
}

var registry = map[int]*CRS{
	4326: WGS84,
	4979: WGS84_3D,
	3857: NewProjected("WGS 84 / Pseudo-Mercator", 3857, WGS84, ProjectionMercator, Parameters{
		CentralMeridian: 0,
		FalseEasting:    0,
		FalseNorthing:   0,
	}),
	2056: NewProjected("CH1903+ / LV95", 2056, WGS84, ProjectionSwissObliqueMercator, Parameters{
		LatitudeOfCenter:  46.95240555555556,
		LongitudeOfCenter: 7.439583333333333,
		FalseEasting:      2_600_000,
		FalseNorthing:     1_200_000,
	}),
	3031:   PolarStereographic("WGS 84 / Antarctic Polar Stereographic", 3031, -71, 0, 0, 0),
	3032:   PolarStereographic("WGS 84 / Australian Antarctic Polar Stereographic", 3032, -71, 70, 6_000_000, 6_000_000),
	3413:   PolarStereographic("WGS 84 / NSIDC Sea Ice Polar Stereographic North", 3413, 70, -45, 0, 0),
	3995:   PolarStereographic("WGS 84 / Arctic Polar Stereographic", 3995, 71, 0, 0, 0),
	3035:   LambertAzimuthalEqualArea("ETRS89-extended / LAEA Europe", 3035, 10, 52, 4_321_000, 3_210_000),
	3574:   LambertAzimuthalEqualArea("WGS 84 / North Pole LAEA Atlantic", 3574, -40, 90, 0, 0),
	3575:   LambertAzimuthalEqualArea("WGS 84 / North Pole LAEA Europe", 3575, 10, 90, 0, 0),
	54032:  AzimuthalEquidistant("World_Azimuthal_Equidistant", 54032, 0, 0),
	102016: AzimuthalEquidistant("North_Pole_Azimuthal_Equidistant", 102016, 0, 90),
}

// ForEPSG returns the built-in descriptor for an authority code.
func ForEPSG(code int) (*CRS, error) {
	c, ok := registry[code]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCode, "%s:%d", authority(code), code)
	}
	return c, nil
}

// Parse resolves strings such as "EPSG:3031", "ESRI:54032" or "3857".
func Parse(s string) (*CRS, error) {
	code, err := strconv.Atoi(normalizeCode(s))
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownCode, "parsing %q", s)
	}
	return ForEPSG(code)
}

// Codes returns the registered authority codes.
func Codes() []int {
	codes := make([]int, 0, len(registry))
	for c := range registry {
		codes = append(codes, c)
	}
	return codes
}
