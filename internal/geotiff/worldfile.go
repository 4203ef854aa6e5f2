package geotiff

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// worldFile holds the six affine parameters of a .tfw sidecar. The origin
// is the center of the upper-left pixel.
type worldFile struct {
	scaleX, rotY, rotX, scaleY float64
	centerX, centerY           float64
}

func readWorldFile(path string) (*worldFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading world file")
	}
	fields := strings.Fields(string(data))
	if len(fields) < 6 {
		return nil, errors.Newf("world file %s: expected 6 values, got %d", path, len(fields))
	}
	var v [6]float64
	for i := range v {
		if v[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
			return nil, errors.Wrapf(err, "world file %s line %d", path, i+1)
		}
	}
	w := &worldFile{scaleX: v[0], rotY: v[1], rotX: v[2], scaleY: v[3], centerX: v[4], centerY: v[5]}
	if w.rotX != 0 || w.rotY != 0 {
		return nil, errors.Newf("world file %s: rotation (%g, %g) is not supported", path, w.rotX, w.rotY)
	}
	return w, nil
}

// findWorldFile returns the sidecar next to a TIFF, or "".
func findWorldFile(tiffPath string) string {
	base := strings.TrimSuffix(tiffPath, filepath.Ext(tiffPath))
	for _, ext := range []string{".tfw", ".TFW", ".tifw", ".TIFW"} {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext
		}
	}
	return ""
}

// apply fills the upper-left corner and pixel size of info.
func (w *worldFile) apply(info *Info) {
	info.PixelSizeX = math.Abs(w.scaleX)
	info.PixelSizeY = math.Abs(w.scaleY)
	info.OriginX = w.centerX - info.PixelSizeX/2
	info.OriginY = w.centerY + info.PixelSizeY/2
}

// guessEPSG picks a code from the coordinate ranges when the file carries
// none: geographic when the extent fits in degrees, then Swiss LV95, then
// Web Mercator.
func guessEPSG(info *Info) int {
	minX, minY, maxX, maxY := info.bounds()
	if minX >= -180 && maxX <= 360 && minY >= -90 && maxY <= 90 {
		return 4326
	}
	if minX >= 2_400_000 && minX <= 2_900_000 && maxY >= 1_000_000 && maxY <= 1_400_000 {
		return 2056
	}
	const mercatorMax = 20037508.342789244
	if math.Abs(minX) <= mercatorMax && math.Abs(maxX) <= mercatorMax {
		return 3857
	}
	return 4326
}
