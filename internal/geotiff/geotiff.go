// Package geotiff reads the georeferencing of GeoTIFF and Cloud Optimized
// GeoTIFF files: image size, the upper-left corner, pixel size and the
// EPSG code. Pixel data is not decoded.
package geotiff

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
)

// ErrNotGeoreferenced is returned when neither GeoTIFF tags nor a world file
// locate the image.
var ErrNotGeoreferenced = errors.New("image is not georeferenced")

// Info is the georeferencing of the full-resolution image.
type Info struct {
	Path          string
	EPSG          int
	Width, Height int
	// OriginX and OriginY are the outer corner of the upper-left pixel.
	OriginX, OriginY       float64
	PixelSizeX, PixelSizeY float64
	TileWidth, TileHeight  int
	Overviews              int
	// EPSGGuessed is set when the code was inferred from coordinate ranges.
	EPSGGuessed bool
}

// Open reads the georeferencing of a file. A .tfw sidecar overrides the
// GeoTIFF tags, as GDAL does.
func Open(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	info, err := Read(f)
	if err != nil && !errors.Is(err, ErrNotGeoreferenced) {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	info.Path = path
	if tfw := findWorldFile(path); tfw != "" {
		w, werr := readWorldFile(tfw)
		if werr != nil {
			return nil, werr
		}
		w.apply(info)
		err = nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	if info.EPSG == 0 {
		info.EPSG = guessEPSG(info)
		info.EPSGGuessed = true
	}
	return info, nil
}

// Read parses the first image directory of a TIFF stream. When the stream
// has no tiepoint or pixel scale the returned Info carries the image layout
// and the error is ErrNotGeoreferenced.
func Read(r io.ReadSeeker) (*Info, error) {
	d, err := readDirectory(r)
	if err != nil {
		return nil, err
	}
	if d.width == 0 || d.height == 0 {
		return nil, errors.New("image has no size")
	}
	keys := parseGeoKeys(d.geoKeys)
	info := &Info{
		EPSG:       keys.epsg(),
		Width:      int(d.width),
		Height:     int(d.height),
		TileWidth:  int(d.tileW),
		TileHeight: int(d.tileH),
		Overviews:  d.overviews,
	}
	if len(d.pixelScale) < 2 || len(d.tiepoint) < 6 {
		return info, ErrNotGeoreferenced
	}
	info.PixelSizeX = d.pixelScale[0]
	info.PixelSizeY = d.pixelScale[1]
	// The tiepoint maps raster (I, J) to model (X, Y).
	i, j := d.tiepoint[0], d.tiepoint[1]
	if keys.pixelIsPoint() {
		i, j = i+0.5, j+0.5
	}
	info.OriginX = d.tiepoint[3] - i*info.PixelSizeX
	info.OriginY = d.tiepoint[4] + j*info.PixelSizeY
	return info, nil
}

// Tiled reports whether the image uses a tiled layout, as COGs do.
func (i *Info) Tiled() bool { return i.TileWidth > 0 && i.TileHeight > 0 }

func (i *Info) bounds() (minX, minY, maxX, maxY float64) {
	minX = i.OriginX
	maxY = i.OriginY
	maxX = minX + float64(i.Width)*i.PixelSizeX
	minY = maxY - float64(i.Height)*i.PixelSizeY
	return minX, minY, maxX, maxY
}

// CRS returns the descriptor for the EPSG code.
func (i *Info) CRS() (*crs.CRS, error) {
	return crs.ForEPSG(i.EPSG)
}

// Envelope returns the image extent in its native CRS.
func (i *Info) Envelope() (*geom.Envelope, error) {
	c, err := i.CRS()
	if err != nil {
		return nil, err
	}
	minX, minY, maxX, maxY := i.bounds()
	return geom.NewEnvelope(geom.Point{minX, minY}, geom.Point{maxX, maxY}, c)
}
