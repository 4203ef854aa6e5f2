package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "builtin", cfg.Reproject.Engine)
	assert.Equal(t, 0, cfg.Reproject.BisectDepth)
	assert.False(t, cfg.Reproject.SelfCheck)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, 85, cfg.Output.Quality)
	assert.Equal(t, 512, cfg.Output.Size)
	assert.Equal(t, "EPSG:4326", cfg.Catalog.CRS)
	assert.Equal(t, 4, cfg.Catalog.Concurrency)
	assert.Len(t, cfg.Reproject.Options(), 2)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("ENVPROJ_REPROJECT_BISECT_DEPTH", "4")
	t.Setenv("ENVPROJ_LOG_FORMAT", "json")
	t.Setenv("ENVPROJ_CATALOG_CRS", "EPSG:3031")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Reproject.BisectDepth)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "EPSG:3031", cfg.Catalog.CRS)
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("ENVPROJ_OUTPUT_SIZE", "256")
	fs := Flags("test", OutputFlags)
	require.NoError(t, fs.Parse([]string{"--size", "1024", "--self-check", "--format", "webp", "--engine", "proj4"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Output.Size)
	assert.True(t, cfg.Reproject.SelfCheck)
	assert.Equal(t, "webp", cfg.Output.Format)
	assert.Equal(t, "proj4", cfg.Reproject.Engine)
	assert.Equal(t, 85, cfg.Output.Quality, "unset flag keeps the default")
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envproj.yaml")
	yaml := "reproject:\n  bisect_depth: 6\noutput:\n  quality: 40\ncatalog:\n  crs: EPSG:3413\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	fs := Flags("test", OutputFlags)
	require.NoError(t, fs.Parse([]string{"--config", path, "--quality", "70"}))
	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Reproject.BisectDepth)
	assert.Equal(t, 70, cfg.Output.Quality)
	assert.Equal(t, "EPSG:3413", cfg.Catalog.CRS)
}

func TestLoadMissingConfigFile(t *testing.T) {
	fs := Flags("test", OutputFlags)
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	_, err := Load(fs)
	assert.Error(t, err)
}

func TestFlagGroups(t *testing.T) {
	fs := Flags("coginfo", CatalogFlags)
	assert.NotNil(t, fs.Lookup("engine"))
	assert.NotNil(t, fs.Lookup("self-check"))
	assert.NotNil(t, fs.Lookup("concurrency"))
	for _, name := range []string{"format", "quality", "size"} {
		assert.Nil(t, fs.Lookup(name), "--%s", name)
	}
	require.Error(t, fs.Parse([]string{"--size", "1024"}))

	fs = Flags("envproj", OutputFlags)
	assert.NotNil(t, fs.Lookup("size"))
	assert.Nil(t, fs.Lookup("catalog-crs"))

	t.Setenv("ENVPROJ_OUTPUT_SIZE", "256")
	fs = Flags("coginfo", CatalogFlags)
	require.NoError(t, fs.Parse([]string{"--concurrency", "8"}))
	cfg, err := Load(fs)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Catalog.Concurrency)
	assert.Equal(t, 256, cfg.Output.Size, "settings without a flag still load")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Log:       LogConfig{Level: "loud", Format: "xml"},
		Reproject: ReprojectConfig{Engine: "gdal", BisectDepth: 9},
		Output:    OutputConfig{Format: "gif", Quality: 0, Size: 4},
		Catalog:   CatalogConfig{CRS: "EPSG:1", Concurrency: 0},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{
		"log.level", "log.format", "reproject.engine", "reproject.bisect_depth", "output.format",
		"output.quality", "output.size", "catalog.crs", "catalog.concurrency",
	} {
		assert.Contains(t, err.Error(), key)
	}
}
