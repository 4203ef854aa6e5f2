package coord

import "math"

// azimuthal holds the center and false origin shared by the oblique
// azimuthal projections.
type azimuthal struct {
	lon0, lat0                  float64 // degrees
	sinLat0, cosLat0            float64
	falseEasting, falseNorthing float64
	code                        int
}

func newAzimuthal(lon0, lat0, fe, fn float64, code int) azimuthal {
	return azimuthal{
		lon0:          lon0,
		lat0:          lat0,
		sinLat0:       math.Sin(lat0 * deg2rad),
		cosLat0:       math.Cos(lat0 * deg2rad),
		falseEasting:  fe,
		falseNorthing: fn,
		code:          code,
	}
}

func (a *azimuthal) EPSG() int { return a.code }

// Center returns the projection center in degrees.
func (a *azimuthal) Center() (lon, lat float64) { return a.lon0, a.lat0 }

// angles returns the trigonometric terms of (lon, lat) relative to the center
// along with cos c, the cosine of the angular distance from the center.
func (a *azimuthal) angles(lon, lat float64) (sinPhi, cosPhi, sinDl, cosDl, cosC float64) {
	phi := lat * deg2rad
	dl := (lon - a.lon0) * deg2rad
	sinPhi, cosPhi = math.Sincos(phi)
	sinDl, cosDl = math.Sincos(dl)
	cosC = a.sinLat0*sinPhi + a.cosLat0*cosPhi*cosDl
	return sinPhi, cosPhi, sinDl, cosDl, math.Max(-1, math.Min(1, cosC))
}

// project scales the unit direction from the center by k.
func (a *azimuthal) project(k, sinPhi, cosPhi, sinDl, cosDl float64) (x, y float64) {
	x = EarthRadius * k * cosPhi * sinDl
	y = EarthRadius * k * (a.cosLat0*sinPhi - a.sinLat0*cosPhi*cosDl)
	return x + a.falseEasting, y + a.falseNorthing
}

// offset returns the distance from the false origin.
func (a *azimuthal) offset(x, y float64) (dx, dy, rho float64, err error) {
	dx, dy = x-a.falseEasting, y-a.falseNorthing
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return 0, 0, 0, outOfDomain("non-finite coordinate (%g, %g)", x, y)
	}
	return dx, dy, math.Hypot(dx, dy), nil
}

// unproject inverts a point at angular distance c from the center.
func (a *azimuthal) unproject(dx, dy, rho, c float64) (lon, lat float64) {
	if rho < 1e-9 {
		return a.lon0, a.lat0
	}
	sinC, cosC := math.Sincos(c)
	s := cosC*a.sinLat0 + dy*sinC*a.cosLat0/rho
	phi := math.Asin(math.Max(-1, math.Min(1, s)))
	dl := math.Atan2(dx*sinC, rho*a.cosLat0*cosC-dy*a.sinLat0*sinC)
	return NormalizeLon(a.lon0 + dl*rad2deg), phi * rad2deg
}

// LambertAzimuthal is the spherical Lambert azimuthal equal-area projection.
type LambertAzimuthal struct{ azimuthal }

// FromWGS84 fails at the antipode of the center.
func (l *LambertAzimuthal) FromWGS84(lon, lat float64) (x, y float64, err error) {
	if err := checkLonLat(lon, lat); err != nil {
		return 0, 0, err
	}
	sinPhi, cosPhi, sinDl, cosDl, cosC := l.angles(lon, lat)
	if 1+cosC < 1e-12 {
		return 0, 0, outOfDomain("lambert azimuthal: (%g, %g) is the antipode of the center", lon, lat)
	}
	x, y = l.project(math.Sqrt(2/(1+cosC)), sinPhi, cosPhi, sinDl, cosDl)
	return x, y, nil
}

func (l *LambertAzimuthal) ToWGS84(x, y float64) (lon, lat float64, err error) {
	dx, dy, rho, err := l.offset(x, y)
	if err != nil {
		return 0, 0, err
	}
	if rho > 2*EarthRadius*(1+1e-12) {
		return 0, 0, outOfDomain("lambert azimuthal: (%g, %g) outside the projected disk", x, y)
	}
	c := 2 * math.Asin(math.Min(1, rho/(2*EarthRadius)))
	lon, lat = l.unproject(dx, dy, rho, c)
	return lon, lat, nil
}

// AzimuthalEquidistant is the spherical azimuthal equidistant projection.
type AzimuthalEquidistant struct{ azimuthal }

// FromWGS84 fails at the antipode of the center, which maps to a circle.
func (e *AzimuthalEquidistant) FromWGS84(lon, lat float64) (x, y float64, err error) {
	if err := checkLonLat(lon, lat); err != nil {
		return 0, 0, err
	}
	sinPhi, cosPhi, sinDl, cosDl, cosC := e.angles(lon, lat)
	c := math.Acos(cosC)
	if math.Pi-c < 1e-9 {
		return 0, 0, outOfDomain("azimuthal equidistant: (%g, %g) is the antipode of the center", lon, lat)
	}
	k := 1.0
	if c > 1e-12 {
		k = c / math.Sin(c)
	}
	x, y = e.project(k, sinPhi, cosPhi, sinDl, cosDl)
	return x, y, nil
}

func (e *AzimuthalEquidistant) ToWGS84(x, y float64) (lon, lat float64, err error) {
	dx, dy, rho, err := e.offset(x, y)
	if err != nil {
		return 0, 0, err
	}
	c := rho / EarthRadius
	if c > math.Pi*(1+1e-12) {
		return 0, 0, outOfDomain("azimuthal equidistant: (%g, %g) farther than the antipode", x, y)
	}
	lon, lat = e.unproject(dx, dy, rho, math.Min(c, math.Pi))
	return lon, lat, nil
}

// Orthographic is the spherical orthographic projection; only the
// hemisphere facing the center is defined.
type Orthographic struct{ azimuthal }

func (o *Orthographic) FromWGS84(lon, lat float64) (x, y float64, err error) {
	if err := checkLonLat(lon, lat); err != nil {
		return 0, 0, err
	}
	sinPhi, cosPhi, sinDl, cosDl, cosC := o.angles(lon, lat)
	if cosC < -1e-12 {
		return 0, 0, outOfDomain("orthographic: (%g, %g) is on the far hemisphere", lon, lat)
	}
	x, y = o.project(1, sinPhi, cosPhi, sinDl, cosDl)
	return x, y, nil
}

func (o *Orthographic) ToWGS84(x, y float64) (lon, lat float64, err error) {
	dx, dy, rho, err := o.offset(x, y)
	if err != nil {
		return 0, 0, err
	}
	if rho > EarthRadius*(1+1e-12) {
		return 0, 0, outOfDomain("orthographic: (%g, %g) outside the visible disk", x, y)
	}
	c := math.Asin(math.Min(1, rho/EarthRadius))
	lon, lat = o.unproject(dx, dy, rho, c)
	return lon, lat, nil
}
