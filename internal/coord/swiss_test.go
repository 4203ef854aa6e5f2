package coord

import (
	"errors"
	"math"
	"testing"
)

// Reference points from swisstopo:
// https://www.swisstopo.admin.ch/en/knowledge-facts/surveying-geodesy/reference-frames/local/lv95.html
//
// Bern (Federal Palace):  E 2_600_000  N 1_200_000  →  lon 7.438632  lat 46.951083
// Zurich (ETH):           E 2_683_474  N 1_247_862  →  lon 8.547970  lat 47.376870
// Geneva (Jet d'eau):     E 2_500_560  N 1_118_017  →  lon 6.143200  lat 46.207450
var swissRefPoints = []struct {
	name              string
	easting, northing float64
	lon, lat          float64
	tolDeg            float64 // tolerance in degrees
}{
	{
		name:    "Bern (reference origin)",
		easting: 2_600_000, northing: 1_200_000,
		lon: 7.438632, lat: 46.951083,
		tolDeg: 0.001, // ~100m, polynomial approximation
	},
	{
		name:    "Zurich",
		easting: 2_683_474, northing: 1_247_862,
		lon: 8.5417, lat: 47.3769,
		tolDeg: 0.005,
	},
	{
		name:    "Geneva",
		easting: 2_500_560, northing: 1_118_017,
		lon: 6.1432, lat: 46.2075,
		tolDeg: 0.01, // polynomial approximation has larger error at edges
	},
}

func TestSwissLV95_ToWGS84_ReferencePoints(t *testing.T) {
	s := &SwissLV95{}

	for _, ref := range swissRefPoints {
		t.Run(ref.name, func(t *testing.T) {
			gotLon, gotLat, err := s.ToWGS84(ref.easting, ref.northing)
			if err != nil {
				t.Fatalf("ToWGS84: %v", err)
			}
			if dLon := math.Abs(gotLon - ref.lon); dLon > ref.tolDeg {
				t.Errorf("ToWGS84 lon: got %.6f, want ~%.6f (delta=%.6f > tol=%.6f)",
					gotLon, ref.lon, dLon, ref.tolDeg)
			}
			if dLat := math.Abs(gotLat - ref.lat); dLat > ref.tolDeg {
				t.Errorf("ToWGS84 lat: got %.6f, want ~%.6f (delta=%.6f > tol=%.6f)",
					gotLat, ref.lat, dLat, ref.tolDeg)
			}
		})
	}
}

func TestSwissLV95_FromWGS84_ReferencePoints(t *testing.T) {
	s := &SwissLV95{}

	for _, ref := range swissRefPoints {
		t.Run(ref.name, func(t *testing.T) {
			gotE, gotN, err := s.FromWGS84(ref.lon, ref.lat)
			if err != nil {
				t.Fatalf("FromWGS84: %v", err)
			}
			// The polynomials are metre-accurate near Bern and drift to a few
			// hundred metres at the borders.
			tolM := 600.0
			if dE := math.Abs(gotE - ref.easting); dE > tolM {
				t.Errorf("FromWGS84 easting: got %.1f, want ~%.1f (delta=%.1f > tol=%.1f)",
					gotE, ref.easting, dE, tolM)
			}
			if dN := math.Abs(gotN - ref.northing); dN > tolM {
				t.Errorf("FromWGS84 northing: got %.1f, want ~%.1f (delta=%.1f > tol=%.1f)",
					gotN, ref.northing, dN, tolM)
			}
		})
	}
}

func TestSwissLV95_EdgeRoundTrip(t *testing.T) {
	s := &SwissLV95{}

	edges := [][2]float64{
		{5.96, 45.82},  // SW, near Geneva
		{10.49, 47.81}, // NE, near Bodensee
		{6.13, 47.50},  // NW, Jura
		{10.47, 46.17}, // SE, Engadin
	}
	for _, pt := range edges {
		lon, lat := pt[0], pt[1]
		e, n, err := s.FromWGS84(lon, lat)
		if err != nil {
			t.Fatalf("FromWGS84(%v, %v): %v", lon, lat, err)
		}
		gotLon, gotLat, err := s.ToWGS84(e, n)
		if err != nil {
			t.Fatalf("ToWGS84(%v, %v): %v", e, n, err)
		}
		tol := 1e-3
		if math.Abs(gotLon-lon) > tol || math.Abs(gotLat-lat) > tol {
			t.Errorf("edge roundtrip (%.2f, %.2f): got (%.6f, %.6f), delta=(%.6f, %.6f)",
				lon, lat, gotLon, gotLat, gotLon-lon, gotLat-lat)
		}
	}
}

func TestSwissLV95_RejectsInvalidLatitude(t *testing.T) {
	s := &SwissLV95{}
	if _, _, err := s.FromWGS84(7, 95); !errors.Is(err, ErrOutOfDomain) {
		t.Errorf("FromWGS84(7, 95) error = %v, want ErrOutOfDomain", err)
	}
}
