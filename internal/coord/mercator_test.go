package coord

import (
	"errors"
	"math"
	"testing"
)

// TestWebMercatorProj_KnownValues checks against well-known Web Mercator values.
func TestWebMercatorProj_KnownValues(t *testing.T) {
	wm := &WebMercatorProj{}

	if wm.EPSG() != 3857 {
		t.Errorf("zero WebMercatorProj.EPSG() = %d, want 3857", wm.EPSG())
	}

	lon, lat, err := wm.ToWGS84(0, 0)
	if err != nil || math.Abs(lon) > 1e-10 || math.Abs(lat) > 1e-10 {
		t.Errorf("ToWGS84(0, 0) = (%v, %v, %v), want (0, 0, nil)", lon, lat, err)
	}

	x, y, err := wm.FromWGS84(0, 0)
	if err != nil || math.Abs(x) > 1e-6 || math.Abs(y) > 1e-6 {
		t.Errorf("FromWGS84(0, 0) = (%v, %v, %v), want (0, ~0, nil)", x, y, err)
	}

	x, _, _ = wm.FromWGS84(180, 0)
	if math.Abs(x-OriginShift) > 1 {
		t.Errorf("FromWGS84(180, 0).x = %v, want ~%v", x, OriginShift)
	}
	x, _, _ = wm.FromWGS84(-180, 0)
	if math.Abs(x+OriginShift) > 1 {
		t.Errorf("FromWGS84(-180, 0).x = %v, want ~%v", x, -OriginShift)
	}
}

func TestWebMercatorProj_Poles(t *testing.T) {
	wm := &WebMercatorProj{}
	for _, lat := range []float64{90, -90} {
		if _, _, err := wm.FromWGS84(0, lat); !errors.Is(err, ErrOutOfDomain) {
			t.Errorf("FromWGS84(0, %v) error = %v, want ErrOutOfDomain", lat, err)
		}
	}
	if _, _, err := wm.FromWGS84(0, 89.9); err != nil {
		t.Errorf("FromWGS84(0, 89.9) error = %v, want nil", err)
	}
}

func TestLonLatToTile(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		zoom     int
		wantX    int
		wantY    int
	}{
		{"origin z0", 0, 0, 0, 0, 0},
		{"london z10", -0.1278, 51.5074, 10, 511, 340},
		{"zurich z10", 8.5417, 47.3769, 10, 536, 358},
		{"nyc z10", -74.0060, 40.7128, 10, 301, 385},
		{"tokyo z10", 139.6917, 35.6895, 10, 909, 403},
		{"south pole clamped", 0, -89.9, 1, 1, 1},
		{"north pole clamped", 0, 89.9, 1, 1, 0},
		{"west clamped", -200, 0, 5, 0, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := LonLatToTile(tt.lon, tt.lat, tt.zoom)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("LonLatToTile(%.4f, %.4f, %d) = (%d, %d), want (%d, %d)",
					tt.lon, tt.lat, tt.zoom, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestTileBounds(t *testing.T) {
	minLon, minLat, maxLon, maxLat := TileBounds(Tile{0, 0, 0})

	if math.Abs(minLon-(-180)) > 1e-6 {
		t.Errorf("z0 minLon = %v, want -180", minLon)
	}
	if math.Abs(maxLon-180) > 1e-6 {
		t.Errorf("z0 maxLon = %v, want 180", maxLon)
	}
	// Web Mercator latitude range: ~-85.05 to ~85.05
	if minLat < -85.1 || minLat > -85.0 {
		t.Errorf("z0 minLat = %v, want ~-85.05", minLat)
	}
	if maxLat < 85.0 || maxLat > 85.1 {
		t.Errorf("z0 maxLat = %v, want ~85.05", maxLat)
	}
}

func TestTileBounds_AdjacentTilesShare(t *testing.T) {
	_, _, maxLon0, _ := TileBounds(Tile{2, 0, 0})
	minLon1, _, _, _ := TileBounds(Tile{2, 1, 0})
	if math.Abs(maxLon0-minLon1) > 1e-10 {
		t.Errorf("Adjacent tile edge mismatch: maxLon(0)=%v, minLon(1)=%v", maxLon0, minLon1)
	}

	_, minLat0, _, _ := TileBounds(Tile{2, 0, 0})
	_, _, _, maxLat1 := TileBounds(Tile{2, 0, 1})
	if math.Abs(minLat0-maxLat1) > 1e-10 {
		t.Errorf("Adjacent tile edge mismatch: minLat(row0)=%v, maxLat(row1)=%v", minLat0, maxLat1)
	}
}

func TestResolutionAtLat(t *testing.T) {
	res0 := ResolutionAtLat(0, 0)
	expected0 := EarthCircumference / 256
	if math.Abs(res0-expected0)/expected0 > 1e-6 {
		t.Errorf("ResolutionAtLat(0, 0) = %v, want ~%v", res0, expected0)
	}

	res1 := ResolutionAtLat(0, 1)
	if math.Abs(res1-res0/2)/res0 > 1e-6 {
		t.Errorf("ResolutionAtLat(0, 1) = %v, want ~%v", res1, res0/2)
	}

	res60 := ResolutionAtLat(60, 0)
	if math.Abs(res60-res0*0.5)/res0 > 1e-6 {
		t.Errorf("ResolutionAtLat(60, 0) = %v, want ~%v", res60, res0*0.5)
	}
}

func TestMaxZoomForResolution(t *testing.T) {
	tests := []struct {
		name      string
		pixelSize float64
		lat       float64
		wantZoom  int
	}{
		{"10m equator", 10, 0, 13},
		{"1m equator", 1, 0, 17},
		{"100m equator", 100, 0, 10},
		{"coarser than z0", 1e6, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxZoomForResolution(tt.pixelSize, tt.lat); got != tt.wantZoom {
				t.Errorf("MaxZoomForResolution(%v, %v) = %d, want %d", tt.pixelSize, tt.lat, got, tt.wantZoom)
			}
		})
	}
}

func TestTilesInBounds(t *testing.T) {
	tiles := TilesInBounds(10, 8.4, 47.3, 8.6, 47.5)
	if len(tiles) == 0 {
		t.Fatal("TilesInBounds returned no tiles for Zurich area")
	}
	for _, tile := range tiles {
		if tile.Z != 10 {
			t.Errorf("expected zoom 10, got %d", tile.Z)
		}
		// Zurich is roughly at tile (535, 358) at z10.
		if tile.X < 530 || tile.X > 540 {
			t.Errorf("tile x=%d outside expected range for Zurich", tile.X)
		}
		if tile.Y < 355 || tile.Y > 360 {
			t.Errorf("tile y=%d outside expected range for Zurich", tile.Y)
		}
	}
}

func TestSortTilesByHilbert(t *testing.T) {
	tiles := TilesInBounds(2, -180, -85, 180, 85)
	if len(tiles) != 16 {
		t.Fatalf("TilesInBounds(z2, world) = %d tiles, want 16", len(tiles))
	}
	SortTilesByHilbert(tiles)
	seen := make(map[Tile]bool)
	for i, tl := range tiles {
		seen[tl] = true
		if i == 0 {
			continue
		}
		// Consecutive cells on a Hilbert curve are grid neighbours.
		prev := tiles[i-1]
		d := abs(tl.X-prev.X) + abs(tl.Y-prev.Y)
		if d != 1 {
			t.Errorf("tiles %v and %v are not adjacent", prev, tl)
		}
	}
	if len(seen) != 16 {
		t.Errorf("sorting lost tiles: %d unique", len(seen))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
