package coord

import "math"

// PolarStereographic is the spherical polar stereographic projection with a
// latitude of true scale (EPSG method 9829, variant B). The hemisphere
// follows the sign of LatTrueScale.
type PolarStereographic struct {
	LatTrueScale                float64
	CentralMeridian             float64
	FalseEasting, FalseNorthing float64
	Code                        int
}

func (p *PolarStereographic) EPSG() int { return p.Code }

func (p *PolarStereographic) north() bool { return p.LatTrueScale > 0 }

// twoRk0 is 2·R·k0 with k0 = (1 + sin|φc|) / 2.
func (p *PolarStereographic) twoRk0() float64 {
	return EarthRadius * (1 + math.Sin(math.Abs(p.LatTrueScale)*deg2rad))
}

// FromWGS84 fails at the pole opposite the projection center.
func (p *PolarStereographic) FromWGS84(lon, lat float64) (x, y float64, err error) {
	if err := checkLonLat(lon, lat); err != nil {
		return 0, 0, err
	}
	if (p.north() && lat <= -90+1e-10) || (!p.north() && lat >= 90-1e-10) {
		return 0, 0, outOfDomain("polar stereographic: latitude %g is the opposite pole", lat)
	}
	phi := lat * deg2rad
	dl := (lon - p.CentralMeridian) * deg2rad
	if p.north() {
		rho := p.twoRk0() * math.Tan(math.Pi/4-phi/2)
		return p.FalseEasting + rho*math.Sin(dl), p.FalseNorthing - rho*math.Cos(dl), nil
	}
	rho := p.twoRk0() * math.Tan(math.Pi/4+phi/2)
	return p.FalseEasting + rho*math.Sin(dl), p.FalseNorthing + rho*math.Cos(dl), nil
}

func (p *PolarStereographic) ToWGS84(x, y float64) (lon, lat float64, err error) {
	dx, dy := x-p.FalseEasting, y-p.FalseNorthing
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return 0, 0, outOfDomain("non-finite coordinate (%g, %g)", x, y)
	}
	rho := math.Hypot(dx, dy)
	t := 2 * math.Atan(rho/p.twoRk0())
	var phi, dl float64
	if p.north() {
		phi = math.Pi/2 - t
		dl = math.Atan2(dx, -dy)
	} else {
		phi = -math.Pi/2 + t
		dl = math.Atan2(dx, dy)
	}
	if rho == 0 {
		dl = 0
	}
	return NormalizeLon(p.CentralMeridian + dl*rad2deg), phi * rad2deg, nil
}
