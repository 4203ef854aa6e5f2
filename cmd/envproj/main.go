package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/pspoerri/envreproject/internal/config"
	"github.com/pspoerri/envreproject/internal/coord"
	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/encode"
	"github.com/pspoerri/envreproject/internal/engine"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/logging"
	"github.com/pspoerri/envreproject/internal/metrics"
	"github.com/pspoerri/envreproject/internal/plot"
	"github.com/pspoerri/envreproject/internal/proj4"
	"github.com/pspoerri/envreproject/internal/reproject"
	"github.com/pspoerri/envreproject/internal/transform"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	fs := config.Flags("envproj", config.OutputFlags)
	var (
		baseline    bool
		plotPath    string
		tileZoom    int
		maxTiles    int
		showMetrics bool
		showVersion bool
	)
	fs.BoolVar(&baseline, "baseline", false, "Also print the sampled envelope without expansions")
	fs.StringVar(&plotPath, "plot", "", "Write a plot of the sample cloud and envelopes to this file")
	fs.IntVar(&tileZoom, "tiles", -1, "List the web map tiles covering the result at this zoom level")
	fs.IntVar(&maxTiles, "max-tiles", 1000, "Refuse to list more tiles than this")
	fs.BoolVar(&showMetrics, "metrics", false, "Print reprojection metrics in Prometheus text format")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: envproj [flags] <source> <target> <minX,minY,maxX,maxY>\n\n")
		fmt.Fprintf(os.Stderr, "Reproject an envelope. Source and target are CRS codes such as EPSG:3031,\n")
		fmt.Fprintf(os.Stderr, "or proj4 definitions starting with +proj=.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if showVersion {
		fmt.Printf("envproj %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	args := fs.Args()
	if len(args) != 3 {
		fs.Usage()
		os.Exit(1)
	}

	finder, err := engine.Finder(cfg.Reproject.Engine)
	if err != nil {
		log.Fatalf("Engine: %v", err)
	}
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	if err != nil {
		log.Fatalf("Metrics: %v", err)
	}
	opts := append(cfg.Reproject.Options(),
		reproject.WithLogger(logger),
		reproject.WithFinder(finder),
		reproject.WithObserver(collector))
	r := reproject.New(opts...)

	op, err := operation(finder, args[0], args[1])
	if err != nil {
		log.Fatalf("Operation: %v", err)
	}
	env, err := parseEnvelope(args[2], op.Source)
	if err != nil {
		log.Fatalf("Envelope: %v", err)
	}
	logger.Debug("reprojecting", slog.String("source", args[0]), slog.String("target", args[1]),
		slog.String("engine", cfg.Reproject.Engine), slog.String("envelope", env.String()))

	result, err := reprojectEnvelope(r, op, env)
	if err != nil {
		log.Fatalf("Reprojecting: %v", err)
	}
	fmt.Printf("  %-10s %s\n", "Source:", describe(op.Source, args[0]))
	fmt.Printf("  %-10s %s\n", "Target:", describe(op.Target, args[1]))
	fmt.Printf("  %-10s %s\n", "Input:", bounds(env))
	fmt.Printf("  %-10s %s\n", "Result:", bounds(result))

	var base *geom.Envelope
	if baseline {
		base, err = reproject.Transform(op.Transform, env)
		if err != nil {
			fmt.Printf("  %-10s failed: %v\n", "Baseline:", err)
		} else {
			fmt.Printf("  %-10s %s\n", "Baseline:", bounds(base))
		}
	}

	if plotPath != "" {
		if err := writePlot(plotPath, cfg.Output, op.Transform, env, result, base); err != nil {
			log.Fatalf("Plot: %v", err)
		}
		fmt.Printf("  %-10s %s\n", "Plot:", plotPath)
	}

	if tileZoom >= 0 {
		if err := listTiles(r, result, tileZoom, maxTiles); err != nil {
			log.Fatalf("Tiles: %v", err)
		}
	}

	if showMetrics {
		if err := metrics.Write(os.Stdout, reg); err != nil {
			log.Fatalf("Metrics: %v", err)
		}
	}
}

// operation resolves two CRS codes through the engine, or two proj4
// definitions directly. A proj4 operation carries no descriptors.
func operation(finder reproject.OperationFinder, source, target string) (*transform.Operation, error) {
	if isProj4(source) || isProj4(target) {
		if !isProj4(source) || !isProj4(target) {
			return nil, fmt.Errorf("mixing a CRS code with a proj4 definition is not supported")
		}
		t, err := proj4.New(source, target)
		if err != nil {
			return nil, err
		}
		return transform.NewOperation(nil, nil, t)
	}
	src, err := crs.Parse(source)
	if err != nil {
		return nil, err
	}
	dst, err := crs.Parse(target)
	if err != nil {
		return nil, err
	}
	return finder.Find(src, dst)
}

// reprojectEnvelope runs the full envelope engine for operations between
// known CRSs. A bare 2-D transform built from proj4 definitions takes the
// rectangle path, which honors --self-check.
func reprojectEnvelope(r *reproject.Reprojector, op *transform.Operation, env *geom.Envelope) (*geom.Envelope, error) {
	if op.Source != nil || op.Target != nil || env.Dimension() != 2 {
		return r.Envelope(op, env)
	}
	rect, err := env.Rect()
	if err != nil {
		return nil, err
	}
	out, err := r.Rectangle(op.Transform, rect)
	if err != nil {
		return nil, err
	}
	return geom.EnvelopeFromRect(out, nil), nil
}

func isProj4(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "+proj=")
}

// parseEnvelope reads "minX,minY,maxX,maxY"; more ordinates are allowed as
// long as they split evenly into two corners.
func parseEnvelope(s string, c *crs.CRS) (*geom.Envelope, error) {
	parts := strings.Split(s, ",")
	if len(parts)%2 != 0 || len(parts) < 4 {
		return nil, fmt.Errorf("%q: want minX,minY,maxX,maxY", s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		vals[i] = v
	}
	n := len(vals) / 2
	return geom.NewEnvelope(geom.Point(vals[:n]), geom.Point(vals[n:]), c)
}

func describe(c *crs.CRS, arg string) string {
	if c == nil {
		return arg
	}
	return c.String()
}

func bounds(e *geom.Envelope) string {
	var b strings.Builder
	for i := 0; i < e.Dimension(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "[%.6f, %.6f]", e.Minimum(i), e.Maximum(i))
	}
	return b.String()
}

func writePlot(path string, out config.OutputConfig, mt transform.MathTransform, env, result, base *geom.Envelope) error {
	enc, err := encode.ForPath(path, out.Quality)
	if err != nil {
		enc, err = encode.New(out.Format, out.Quality)
		if err != nil {
			return err
		}
	}
	points, failed := plot.Cloud(mt, env, 64)
	if failed > 0 {
		log.Printf("Plot: %d of %d cloud points failed to transform", failed, 64*64)
	}
	scene := plot.Scene{Points: points, Boxes: []plot.Box{{Envelope: result, Color: plot.ResultColor}}}
	if base != nil {
		scene.Boxes = append(scene.Boxes, plot.Box{Envelope: base, Color: plot.BaselineColor})
	}
	img, err := plot.Render(scene, out.Size)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// listTiles prints the web map tiles covering result, in Hilbert order.
func listTiles(r *reproject.Reprojector, result *geom.Envelope, zoom, limit int) error {
	if result.CRS() == nil {
		return fmt.Errorf("result has no CRS")
	}
	geo := result
	if !crs.Equal(result.CRS(), crs.WGS84) {
		var err error
		if geo, err = r.CRS(result, crs.WGS84); err != nil {
			return err
		}
	}
	tiles := coord.TilesInBounds(zoom, geo.Minimum(0), geo.Minimum(1), geo.Maximum(0), geo.Maximum(1))
	if len(tiles) > limit {
		return fmt.Errorf("%d tiles at zoom %d exceed --max-tiles %d", len(tiles), zoom, limit)
	}
	coord.SortTilesByHilbert(tiles)
	fmt.Printf("  %-10s %d at zoom %d\n", "Tiles:", len(tiles), zoom)
	for _, t := range tiles {
		fmt.Printf("%d/%d/%d\n", t.Z, t.X, t.Y)
	}
	return nil
}
