// Package config loads CLI settings from defaults, an optional envproj.yaml,
// ENVPROJ_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/reproject"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Reproject ReprojectConfig `mapstructure:"reproject"`
	Output    OutputConfig    `mapstructure:"output"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ReprojectConfig struct {
	Engine      string `mapstructure:"engine"`
	BisectDepth int    `mapstructure:"bisect_depth"`
	SelfCheck   bool   `mapstructure:"self_check"`
}

// Options translates the settings into reprojector options.
func (c ReprojectConfig) Options() []reproject.Option {
	return []reproject.Option{
		reproject.WithBisection(c.BisectDepth),
		reproject.WithSelfCheck(c.SelfCheck),
	}
}

// OutputConfig controls plot rendering.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	Quality int    `mapstructure:"quality"`
	Size    int    `mapstructure:"size"`
}

// CatalogConfig controls the extent catalog built by coginfo.
type CatalogConfig struct {
	CRS         string `mapstructure:"crs"`
	Concurrency int    `mapstructure:"concurrency"`
}

// flag name → config key
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"engine":       "reproject.engine",
	"bisect-depth": "reproject.bisect_depth",
	"self-check":   "reproject.self_check",
	"format":       "output.format",
	"quality":      "output.quality",
	"size":         "output.size",
	"catalog-crs":  "catalog.crs",
	"concurrency":  "catalog.concurrency",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("reproject.engine", "builtin")
	v.SetDefault("reproject.bisect_depth", 0)
	v.SetDefault("reproject.self_check", false)
	v.SetDefault("output.format", "png")
	v.SetDefault("output.quality", 85)
	v.SetDefault("output.size", 512)
	v.SetDefault("catalog.crs", "EPSG:4326")
	v.SetDefault("catalog.concurrency", 4)
}

// FlagGroup selects optional flags a tool registers on top of the common
// ones.
type FlagGroup int

const (
	// OutputFlags adds --format, --quality and --size.
	OutputFlags FlagGroup = iota + 1
	// CatalogFlags adds --catalog-crs and --concurrency.
	CatalogFlags
)

// Flags returns a flag set with --config, the logging and reprojection
// flags, and the flags of the requested groups. Settings without a flag
// still load from the config file and the environment.
func Flags(name string, groups ...FlagGroup) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "Path to a YAML config file (default: ./envproj.yaml if present)")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
	fs.String("log-format", "text", "Log format: text or json")
	fs.String("engine", "builtin", "Projection engine: builtin, proj4 or libproj")
	fs.Int("bisect-depth", 0, "Bisection fallback depth for envelopes the sampler cannot transform (0 disables, max 6)")
	fs.Bool("self-check", false, "Re-run rectangle sampling with fresh buffers and compare")
	for _, g := range groups {
		switch g {
		case OutputFlags:
			fs.String("format", "png", "Plot image format: png, jpeg, webp")
			fs.Int("quality", 85, "Plot quality for lossy formats (1-100)")
			fs.Int("size", 512, "Plot width and height in pixels")
		case CatalogFlags:
			fs.String("catalog-crs", "EPSG:4326", "CRS of the extent catalog")
			fs.Int("concurrency", 4, "Number of files reprojected in parallel")
		}
	}
	return fs
}

// Load reads configuration. fs may be nil; otherwise it must come from
// Flags and have been parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var explicit string
	if fs != nil {
		explicit, _ = fs.GetString("config")
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "binding --%s", flag)
				}
			}
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading %s", explicit)
		}
	} else {
		v.SetConfigName("envproj")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "reading envproj.yaml")
			}
		}
	}

	// ENVPROJ_REPROJECT_BISECT_DEPTH → reproject.bisect_depth
	v.SetEnvPrefix("ENVPROJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	switch c.Reproject.Engine {
	case "builtin", "proj4", "libproj":
	default:
		errs = append(errs, fmt.Sprintf("reproject.engine must be builtin, proj4 or libproj, got %q", c.Reproject.Engine))
	}
	if c.Reproject.BisectDepth < 0 || c.Reproject.BisectDepth > reproject.MaxBisectDepth {
		errs = append(errs, fmt.Sprintf("reproject.bisect_depth must be 0-%d, got %d",
			reproject.MaxBisectDepth, c.Reproject.BisectDepth))
	}
	switch strings.ToLower(c.Output.Format) {
	case "png", "jpeg", "jpg", "webp":
	default:
		errs = append(errs, fmt.Sprintf("output.format must be png, jpeg or webp, got %q", c.Output.Format))
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		errs = append(errs, fmt.Sprintf("output.quality must be 1-100, got %d", c.Output.Quality))
	}
	if c.Output.Size < 16 || c.Output.Size > 8192 {
		errs = append(errs, fmt.Sprintf("output.size must be 16-8192, got %d", c.Output.Size))
	}
	if _, err := crs.Parse(c.Catalog.CRS); err != nil {
		errs = append(errs, "catalog.crs: "+err.Error())
	}
	if c.Catalog.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("catalog.concurrency must be positive, got %d", c.Catalog.Concurrency))
	}

	if len(errs) > 0 {
		return errors.Newf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
