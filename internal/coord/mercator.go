package coord

import "math"

const (
	// EarthRadius is the WGS84 semi-major axis used by the spherical formulas.
	EarthRadius = 6378137.0
	// EarthCircumference is the equatorial circumference in meters at zoom 0.
	EarthCircumference = 2 * math.Pi * EarthRadius
	// OriginShift is half the earth's circumference.
	OriginShift = EarthCircumference / 2.0
	// DefaultTileSize is the standard web map tile dimension.
	DefaultTileSize = 256
)

// WebMercatorProj implements spherical Mercator (EPSG:3857 when zero).
type WebMercatorProj struct {
	CentralMeridian             float64
	FalseEasting, FalseNorthing float64
	Code                        int
}

func (w *WebMercatorProj) EPSG() int {
	if w.Code == 0 {
		return 3857
	}
	return w.Code
}

func (w *WebMercatorProj) ToWGS84(x, y float64) (lon, lat float64, err error) {
	x -= w.FalseEasting
	y -= w.FalseNorthing
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, outOfDomain("non-finite coordinate (%g, %g)", x, y)
	}
	lon = NormalizeLon((x/OriginShift)*180.0 + w.CentralMeridian)
	lat = (y / OriginShift) * 180.0
	lat = 180.0 / math.Pi * (2.0*math.Atan(math.Exp(lat*math.Pi/180.0)) - math.Pi/2.0)
	return lon, lat, nil
}

// FromWGS84 fails at the poles, which Mercator maps to infinity.
func (w *WebMercatorProj) FromWGS84(lon, lat float64) (x, y float64, err error) {
	if err := checkLonLat(lon, lat); err != nil {
		return 0, 0, err
	}
	if math.Abs(lat) >= 90 {
		return 0, 0, outOfDomain("mercator: latitude %g is a pole", lat)
	}
	x = (lon - w.CentralMeridian) * OriginShift / 180.0
	y = math.Log(math.Tan((90.0+lat)*math.Pi/360.0)) / (math.Pi / 180.0)
	y = y * OriginShift / 180.0
	return x + w.FalseEasting, y + w.FalseNorthing, nil
}

// Tile addresses a web map tile.
type Tile struct {
	Z, X, Y int
}

// LonLatToTile converts WGS84 lon/lat to tile coordinates at the given zoom level.
func LonLatToTile(lon, lat float64, zoom int) (x, y int) {
	n := math.Pow(2, float64(zoom))
	x = int(math.Floor((lon + 180.0) / 360.0 * n))
	latRad := lat * math.Pi / 180.0
	y = int(math.Floor((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n))

	maxTile := int(n) - 1
	x = clampInt(x, 0, maxTile)
	y = clampInt(y, 0, maxTile)
	return
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TileBounds returns the WGS84 bounding box of a tile.
func TileBounds(t Tile) (minLon, minLat, maxLon, maxLat float64) {
	n := math.Pow(2, float64(t.Z))
	minLon = float64(t.X)/n*360.0 - 180.0
	maxLon = float64(t.X+1)/n*360.0 - 180.0
	minLat = math.Atan(math.Sinh(math.Pi*(1.0-2.0*float64(t.Y+1)/n))) * 180.0 / math.Pi
	maxLat = math.Atan(math.Sinh(math.Pi*(1.0-2.0*float64(t.Y)/n))) * 180.0 / math.Pi
	return
}

// ResolutionAtLat returns the ground resolution in meters/pixel at the given latitude and zoom level.
func ResolutionAtLat(lat float64, zoom int) float64 {
	return EarthCircumference * math.Cos(lat*math.Pi/180.0) / math.Pow(2, float64(zoom)) / float64(DefaultTileSize)
}

// MaxZoomForResolution calculates the maximum zoom level that matches a given ground resolution.
func MaxZoomForResolution(pixelSize float64, centerLat float64) int {
	for z := 30; z >= 0; z-- {
		if ResolutionAtLat(centerLat, z) >= pixelSize {
			return z
		}
	}
	return 0
}

// TilesInBounds returns all tiles at the given zoom level that intersect the
// given WGS84 bounds, in row-major order.
func TilesInBounds(zoom int, minLon, minLat, maxLon, maxLat float64) []Tile {
	minTX, minTY := LonLatToTile(minLon, maxLat, zoom) // maxLat -> minTY
	maxTX, maxTY := LonLatToTile(maxLon, minLat, zoom)

	tiles := make([]Tile, 0, (maxTX-minTX+1)*(maxTY-minTY+1))
	for ty := minTY; ty <= maxTY; ty++ {
		for tx := minTX; tx <= maxTX; tx++ {
			tiles = append(tiles, Tile{Z: zoom, X: tx, Y: ty})
		}
	}
	return tiles
}
