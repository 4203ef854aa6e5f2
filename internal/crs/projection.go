package crs

import "math"

// ProjectionKind is the closed set of map projection families the library
// distinguishes. Families that need no special envelope handling share
// ProjectionOther.
type ProjectionKind int

const (
	ProjectionOther ProjectionKind = iota
	ProjectionMercator
	ProjectionSwissObliqueMercator
	ProjectionPolarStereographic
	ProjectionLambertAzimuthalEqualArea
	ProjectionAzimuthalEquidistant
	ProjectionOrthographic
)

func (k ProjectionKind) String() string {
	switch k {
	case ProjectionMercator:
		return "mercator"
	case ProjectionSwissObliqueMercator:
		return "swiss_oblique_mercator"
	case ProjectionPolarStereographic:
		return "polar_stereographic"
	case ProjectionLambertAzimuthalEqualArea:
		return "lambert_azimuthal_equal_area"
	case ProjectionAzimuthalEquidistant:
		return "azimuthal_equidistant"
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return "other"
	}
}

// Azimuthal reports whether the family is one of the azimuthal projections
// whose extreme points lie on rays from the projection center.
func (k ProjectionKind) Azimuthal() bool {
	switch k {
	case ProjectionPolarStereographic, ProjectionLambertAzimuthalEqualArea,
		ProjectionAzimuthalEquidistant, ProjectionOrthographic:
		return true
	}
	return false
}

// Parameter names, following the OGC WKT vocabulary.
const (
	FalseEasting      = "false_easting"
	FalseNorthing     = "false_northing"
	LatitudeOfOrigin  = "latitude_of_origin"
	CentralMeridian   = "central_meridian"
	LatitudeOfCenter  = "latitude_of_center"
	LongitudeOfCenter = "longitude_of_center"
	StandardParallel1 = "standard_parallel_1"
	ScaleFactor       = "scale_factor"
	SemiMajor         = "semi_major"
)

// Parameters is a read-only set of named projection parameters.
type Parameters map[string]float64

// Get returns the named value and whether it is present.
func (p Parameters) Get(name string) (float64, bool) {
	v, ok := p[name]
	return v, ok
}

// Value returns the named value or def when absent.
func (p Parameters) Value(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Projection is the classification of a projected CRS plus its parameters.
type Projection struct {
	Kind       ProjectionKind
	Parameters Parameters
}

// Origin returns the projected coordinates of the natural origin, that is
// the false easting and northing.
func (p *Projection) Origin() (x, y float64) {
	return p.Parameters.Value(FalseEasting, 0), p.Parameters.Value(FalseNorthing, 0)
}

// Center returns the geographic center of the projection. Latitude comes
// from latitude_of_origin or latitude_of_center, longitude from
// central_meridian or longitude_of_center; missing values default to 0.
func (p *Projection) Center() (lon, lat float64) {
	if p == nil {
		return 0, 0
	}
	for _, name := range []string{LatitudeOfOrigin, LatitudeOfCenter} {
		if v, ok := p.Parameters[name]; ok {
			lat = v
		}
	}
	for _, name := range []string{CentralMeridian, LongitudeOfCenter} {
		if v, ok := p.Parameters[name]; ok {
			lon = v
		}
	}
	return lon, lat
}

// Equal compares kind and parameters.
func (p *Projection) Equal(o *Projection) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Kind != o.Kind || len(p.Parameters) != len(o.Parameters) {
		return false
	}
	for k, v := range p.Parameters {
		w, ok := o.Parameters[k]
		if !ok || math.Abs(v-w) > 1e-12*math.Max(1, math.Abs(v)) {
			return false
		}
	}
	return true
}
