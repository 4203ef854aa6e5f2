package geotiff

// GeoKey IDs.
const (
	keyModelType      = 1024
	keyRasterType     = 1025
	keyGeographicType = 2048
	keyProjectedType  = 3072
)

// Model types.
const (
	modelProjected  = 1
	modelGeographic = 2
)

// RasterPixelIsPoint places the tiepoint on the pixel center rather than its
// corner.
const rasterPixelIsPoint = 2

// userDefined marks a GeoKey whose value is given by other keys.
const userDefined = 32767

// geoKeys is the decoded key directory. Only keys stored inline in the
// directory (location 0) are kept.
type geoKeys map[uint16]uint16

func parseGeoKeys(dir []uint16) geoKeys {
	if len(dir) < 4 {
		return nil
	}
	keys := make(geoKeys, dir[3])
	for i := range int(dir[3]) {
		base := 4 + i*4
		if base+3 >= len(dir) {
			break
		}
		if dir[base+1] != 0 {
			continue
		}
		keys[dir[base]] = dir[base+3]
	}
	return keys
}

// epsg returns the projected or geographic code, preferring the one that
// matches the model type.
func (k geoKeys) epsg() int {
	projected := valid(k[keyProjectedType])
	geographic := valid(k[keyGeographicType])
	switch k[keyModelType] {
	case modelGeographic:
		if geographic != 0 {
			return geographic
		}
	case modelProjected:
		if projected != 0 {
			return projected
		}
	}
	if projected != 0 {
		return projected
	}
	return geographic
}

func (k geoKeys) pixelIsPoint() bool {
	return k[keyRasterType] == rasterPixelIsPoint
}

func valid(code uint16) int {
	if code == 0 || code == userDefined {
		return 0
	}
	return int(code)
}
