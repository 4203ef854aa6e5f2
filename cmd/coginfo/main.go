package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/pspoerri/envreproject/internal/catalog"
	"github.com/pspoerri/envreproject/internal/config"
	"github.com/pspoerri/envreproject/internal/coord"
	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/engine"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/geotiff"
	"github.com/pspoerri/envreproject/internal/logging"
	"github.com/pspoerri/envreproject/internal/reproject"
)

func main() {
	fs := config.Flags("coginfo", config.CatalogFlags)
	var query string
	fs.StringVar(&query, "query", "", "List files whose extent intersects minX,minY,maxX,maxY (catalog CRS)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coginfo [flags] <file.tif|dir>...\n\n")
		fmt.Fprintf(os.Stderr, "Print GeoTIFF georeferencing and the reprojected extent of each file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	paths, err := collectTIFFs(fs.Args())
	if err != nil {
		log.Fatalf("Collecting input files: %v", err)
	}
	if len(paths) == 0 {
		log.Fatal("No GeoTIFF files found in the specified inputs")
	}

	finder, err := engine.Finder(cfg.Reproject.Engine)
	if err != nil {
		log.Fatalf("Engine: %v", err)
	}
	r := reproject.New(append(cfg.Reproject.Options(),
		reproject.WithLogger(logger), reproject.WithFinder(finder))...)
	target, err := crs.Parse(cfg.Catalog.CRS)
	if err != nil {
		log.Fatalf("Catalog CRS: %v", err)
	}
	cat, err := catalog.New(target, r)
	if err != nil {
		log.Fatalf("Catalog: %v", err)
	}

	var items []catalog.Item
	for _, path := range paths {
		info, err := geotiff.Open(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		printInfo(info)
		env, err := info.Envelope()
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		if z, err := suggestZoom(r, info, env); err == nil {
			fmt.Printf("  Suggested max zoom: %d\n", z)
		}
		items = append(items, catalog.Item{Name: path, Envelope: env})
	}

	if err := cat.AddAll(context.Background(), items, cfg.Catalog.Concurrency); err != nil {
		log.Fatalf("Reprojecting extents: %v", err)
	}
	fmt.Printf("\nExtents in %s:\n", target)
	for _, e := range cat.Entries() {
		fmt.Printf("  %s: %s\n", e.Name, bounds(e.Extent))
	}
	if b := cat.Bounds(); b != nil && cat.Len() > 1 {
		fmt.Printf("Merged (%d files): %s\n", cat.Len(), bounds(b))
	}

	if query != "" {
		q, err := parseBounds(query, target)
		if err != nil {
			log.Fatalf("Query: %v", err)
		}
		hits, err := cat.Query(q)
		if err != nil {
			log.Fatalf("Query: %v", err)
		}
		fmt.Printf("\nQuery %s: %d file(s)\n", bounds(q), len(hits))
		for _, e := range hits {
			fmt.Printf("  %s\n", e.Name)
		}
	}
}

func printInfo(info *geotiff.Info) {
	fmt.Printf("File: %s\n", info.Path)
	if info.EPSGGuessed {
		fmt.Printf("  EPSG: %d (guessed from coordinates)\n", info.EPSG)
	} else {
		fmt.Printf("  EPSG: %d\n", info.EPSG)
	}
	fmt.Printf("  Size: %d x %d\n", info.Width, info.Height)
	if info.Tiled() {
		fmt.Printf("  Tiles: %d x %d, %d overview(s)\n", info.TileWidth, info.TileHeight, info.Overviews)
	}
	fmt.Printf("  Pixel size (CRS units): %f x %f\n", info.PixelSizeX, info.PixelSizeY)
	fmt.Printf("  Origin: X=%f, Y=%f\n", info.OriginX, info.OriginY)
}

// suggestZoom picks the deepest web map zoom level whose ground resolution
// does not exceed the raster's pixel size at its center latitude.
func suggestZoom(r *reproject.Reprojector, info *geotiff.Info, env *geom.Envelope) (int, error) {
	geo, err := r.CRS(env, crs.WGS84)
	if err != nil {
		return 0, err
	}
	lat := geo.Median(1)
	pixel := math.Min(math.Abs(info.PixelSizeX), math.Abs(info.PixelSizeY))
	if env.CRS().IsGeographic() {
		pixel *= coord.EarthCircumference / 360 * math.Cos(lat*math.Pi/180)
	}
	return coord.MaxZoomForResolution(pixel, lat), nil
}

func parseBounds(s string, c *crs.CRS) (*geom.Envelope, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%q: want minX,minY,maxX,maxY", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		v[i] = f
	}
	return geom.NewEnvelope(geom.Point{v[0], v[1]}, geom.Point{v[2], v[3]}, c)
}

func bounds(e *geom.Envelope) string {
	return fmt.Sprintf("X=[%f, %f], Y=[%f, %f]", e.Minimum(0), e.Maximum(0), e.Minimum(1), e.Maximum(1))
}

// collectTIFFs resolves input paths to a list of .tif files.
func collectTIFFs(paths []string) ([]string, error) {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			result = append(result, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("readdir %s: %w", p, err)
		}
		for _, e := range entries {
			if !e.IsDir() && isTIFF(e.Name()) {
				result = append(result, filepath.Join(p, e.Name()))
			}
		}
	}
	return result, nil
}

func isTIFF(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tif") || strings.HasSuffix(lower, ".tiff")
}
