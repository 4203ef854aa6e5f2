// Package crs describes coordinate reference systems: their axes, their kind
// and, for projected systems, the map projection family and its parameters.
//
// Descriptors are immutable after construction and carry no transformation
// math; see package coord for the formulas and package transform for the
// operations built from descriptors.
package crs

import (
	"fmt"
	"math"
	"strings"
)

// Direction is the direction of a coordinate system axis.
type Direction int

const (
	DirectionOther Direction = iota
	DirectionEast
	DirectionWest
	DirectionNorth
	DirectionSouth
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionEast:
		return "east"
	case DirectionWest:
		return "west"
	case DirectionNorth:
		return "north"
	case DirectionSouth:
		return "south"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "other"
	}
}

// Unit is the unit of measure of an axis.
type Unit int

const (
	UnitUnknown Unit = iota
	UnitDegree
	UnitMetre
)

// Axis describes one coordinate system axis. Min and Max are ±Inf for
// unbounded axes.
type Axis struct {
	Name         string
	Abbreviation string
	Direction    Direction
	Unit         Unit
	Min, Max     float64
}

// Bounded reports whether either end of the axis range is finite.
func (a Axis) Bounded() bool {
	return isFinite(a.Min) || isFinite(a.Max)
}

// IsLongitude reports whether the axis is an east-pointing angular axis.
func (a Axis) IsLongitude() bool {
	return a.Unit == UnitDegree && (a.Direction == DirectionEast || a.Direction == DirectionWest)
}

// IsLatitude reports whether the axis is a north-pointing angular axis.
func (a Axis) IsLatitude() bool {
	return a.Unit == UnitDegree && (a.Direction == DirectionNorth || a.Direction == DirectionSouth)
}

// Standard axes.
var (
	Longitude = Axis{Name: "Geodetic longitude", Abbreviation: "Lon", Direction: DirectionEast, Unit: UnitDegree, Min: -180, Max: 180}
	Latitude  = Axis{Name: "Geodetic latitude", Abbreviation: "Lat", Direction: DirectionNorth, Unit: UnitDegree, Min: -90, Max: 90}
	Height    = Axis{Name: "Ellipsoidal height", Abbreviation: "h", Direction: DirectionUp, Unit: UnitMetre, Min: math.Inf(-1), Max: math.Inf(1)}
	Easting   = Axis{Name: "Easting", Abbreviation: "E", Direction: DirectionEast, Unit: UnitMetre, Min: math.Inf(-1), Max: math.Inf(1)}
	Northing  = Axis{Name: "Northing", Abbreviation: "N", Direction: DirectionNorth, Unit: UnitMetre, Min: math.Inf(-1), Max: math.Inf(1)}
)

// CoordinateSystem is an ordered list of axes.
type CoordinateSystem struct {
	Axes []Axis
}

// Dimension returns the number of axes.
func (cs CoordinateSystem) Dimension() int { return len(cs.Axes) }

// Axis returns the i-th axis.
func (cs CoordinateSystem) Axis(i int) Axis { return cs.Axes[i] }

// LongitudeAxis returns the index of the longitude axis, or -1.
func (cs CoordinateSystem) LongitudeAxis() int {
	for i, a := range cs.Axes {
		if a.IsLongitude() {
			return i
		}
	}
	return -1
}

// LatitudeAxis returns the index of the latitude axis, or -1.
func (cs CoordinateSystem) LatitudeAxis() int {
	for i, a := range cs.Axes {
		if a.IsLatitude() {
			return i
		}
	}
	return -1
}

// Kind classifies a CRS.
type Kind int

const (
	KindGeographic Kind = iota
	KindProjected
	// KindDerived wraps another CRS (for example a projected CRS with an extra
	// vertical axis). MapProjection looks through it.
	KindDerived
)

func (k Kind) String() string {
	switch k {
	case KindGeographic:
		return "geographic"
	case KindProjected:
		return "projected"
	case KindDerived:
		return "derived"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// CRS is a coordinate reference system descriptor.
type CRS struct {
	Name string
	// Code is the authority code (EPSG or ESRI), 0 when unknown.
	Code int
	Kind Kind
	CS   CoordinateSystem
	// Base is the geographic base of a projected CRS, or the wrapped CRS of a
	// derived one.
	Base *CRS
	// Projection is set for projected CRSs.
	Projection *Projection
}

// Dimension returns the coordinate system dimension.
func (c *CRS) Dimension() int { return c.CS.Dimension() }

// IsGeographic reports whether c is a geographic CRS.
func (c *CRS) IsGeographic() bool { return c != nil && c.Kind == KindGeographic }

// LonLatOrder reports whether a 2-D geographic CRS stores longitude first.
func (c *CRS) LonLatOrder() bool {
	return c.CS.LongitudeAxis() == 0
}

func (c *CRS) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.Code != 0 {
		return fmt.Sprintf("%s (%s:%d)", c.Name, authority(c.Code), c.Code)
	}
	return c.Name
}

// Equal reports whether two descriptors describe the same system, ignoring
// names and authority codes.
func Equal(a, b *CRS) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.CS.Dimension() != b.CS.Dimension() {
		return false
	}
	for i := range a.CS.Axes {
		x, y := a.CS.Axes[i], b.CS.Axes[i]
		if x.Direction != y.Direction || x.Unit != y.Unit {
			return false
		}
	}
	if !a.Projection.Equal(b.Projection) {
		return false
	}
	if a.Kind == KindGeographic {
		return true
	}
	return Equal(a.Base, b.Base)
}

// MapProjection returns the map projection underlying c, looking through
// derived CRSs. It returns nil for geographic systems.
func MapProjection(c *CRS) *Projection {
	for c != nil {
		if c.Projection != nil {
			return c.Projection
		}
		if c.Kind != KindDerived {
			return nil
		}
		c = c.Base
	}
	return nil
}

// ProjectedCRS returns the first projected CRS found in c or its bases.
func ProjectedCRS(c *CRS) *CRS {
	for c != nil {
		if c.Kind == KindProjected {
			return c
		}
		if c.Kind != KindDerived {
			return nil
		}
		c = c.Base
	}
	return nil
}

// GeographicBase returns the geographic CRS c is ultimately based on.
func GeographicBase(c *CRS) *CRS {
	for c != nil {
		if c.Kind == KindGeographic {
			return c
		}
		c = c.Base
	}
	return nil
}

func authority(code int) string {
	if code >= 50000 && code < 200000 {
		return "ESRI"
	}
	return "EPSG"
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// normalizeCode strips an optional authority prefix.
func normalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}
