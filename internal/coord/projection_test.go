package coord

import (
	"errors"
	"math"
	"testing"

	"github.com/pspoerri/envreproject/internal/crs"
)

func TestForEPSG(t *testing.T) {
	tests := []struct {
		epsg     int
		wantNil  bool
		wantEPSG int
	}{
		{2056, false, 2056},
		{4326, false, 4326},
		{3857, false, 3857},
		{3031, false, 3031},
		{3035, false, 3035},
		{54032, false, 54032},
		{32632, true, 0}, // UTM 32N, unsupported
		{0, true, 0},
	}
	for _, tt := range tests {
		p := ForEPSG(tt.epsg)
		if tt.wantNil {
			if p != nil {
				t.Errorf("ForEPSG(%d) = %v, want nil", tt.epsg, p)
			}
			continue
		}
		if p == nil {
			t.Fatalf("ForEPSG(%d) = nil, want non-nil", tt.epsg)
		}
		if got := p.EPSG(); got != tt.wantEPSG {
			t.Errorf("ForEPSG(%d).EPSG() = %d, want %d", tt.epsg, got, tt.wantEPSG)
		}
	}
}

func TestForCRS(t *testing.T) {
	if _, err := ForCRS(crs.NewProjected("unknown", 0, nil, crs.ProjectionOther, nil)); err == nil {
		t.Error("ForCRS(ProjectionOther) succeeded, want error")
	}
	p, err := ForCRS(crs.Orthographic("ortho", 10, 45))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*Orthographic); !ok {
		t.Errorf("ForCRS(orthographic) = %T, want *Orthographic", p)
	}
	ps, _ := crs.ForEPSG(3413)
	derived := crs.NewDerived("3413+h", ps, crs.Height)
	p, err = ForCRS(derived)
	if err != nil {
		t.Fatal(err)
	}
	if p.EPSG() != 3413 {
		t.Errorf("ForCRS(derived 3413).EPSG() = %d, want 3413", p.EPSG())
	}
}

func TestWGS84Identity(t *testing.T) {
	w := &WGS84Identity{}
	lon, lat := 8.5417, 47.3769 // Zurich
	gotLon, gotLat, err := w.ToWGS84(lon, lat)
	if err != nil || gotLon != lon || gotLat != lat {
		t.Errorf("ToWGS84(%v, %v) = (%v, %v, %v), want (%v, %v, nil)", lon, lat, gotLon, gotLat, err, lon, lat)
	}
	gotLon, gotLat, err = w.FromWGS84(lon, lat)
	if err != nil || gotLon != lon || gotLat != lat {
		t.Errorf("FromWGS84(%v, %v) = (%v, %v, %v), want (%v, %v, nil)", lon, lat, gotLon, gotLat, err, lon, lat)
	}
}

// TestProjectionRoundTrip verifies that ToWGS84(FromWGS84(lon, lat)) ≈ (lon, lat).
func TestProjectionRoundTrip(t *testing.T) {
	tests := []struct {
		code   int
		points [][2]float64
	}{
		{3857, [][2]float64{{8.5417, 47.3769}, {-74.006, 40.7128}, {179, -80}}},
		{2056, [][2]float64{{8.5417, 47.3769}, {6.6323, 46.5197}, {8.9511, 46.0037}}},
		{3031, [][2]float64{{0, -71}, {135, -60}, {-170, -89.5}, {45, 10}}},
		{3032, [][2]float64{{70, -80}, {-110, -65}, {0, -50}}},
		{3413, [][2]float64{{-45, 80}, {100, 60}, {179.5, 89}}},
		{3035, [][2]float64{{10, 52}, {-20, 35}, {40, 70}}},
		{3574, [][2]float64{{-40, 60}, {140, 10}, {0, -60}}},
		{54032, [][2]float64{{0, 0}, {120, 45}, {-170, -30}}},
		{102016, [][2]float64{{0, 80}, {-90, 0}, {170, -80}}},
	}
	for _, tt := range tests {
		p := ForEPSG(tt.code)
		if p == nil {
			t.Fatalf("ForEPSG(%d) = nil", tt.code)
		}
		for _, pt := range tt.points {
			lon, lat := pt[0], pt[1]
			x, y, err := p.FromWGS84(lon, lat)
			if err != nil {
				t.Errorf("EPSG:%d FromWGS84(%v, %v): %v", tt.code, lon, lat, err)
				continue
			}
			gotLon, gotLat, err := p.ToWGS84(x, y)
			if err != nil {
				t.Errorf("EPSG:%d ToWGS84(%v, %v): %v", tt.code, x, y, err)
				continue
			}
			// LV95 is a polynomial approximation; everything else is exact.
			tol := 1e-7
			if tt.code == 2056 {
				tol = 1e-4
			}
			if dLon := math.Abs(NormalizeLon(gotLon - lon)); dLon > tol {
				t.Errorf("EPSG:%d roundtrip lon for (%.4f, %.4f): got %.8f (delta=%.2e)", tt.code, lon, lat, gotLon, dLon)
			}
			if dLat := math.Abs(gotLat - lat); dLat > tol {
				t.Errorf("EPSG:%d roundtrip lat for (%.4f, %.4f): got %.8f (delta=%.2e)", tt.code, lon, lat, gotLat, dLat)
			}
		}
	}
}

func TestPolarStereographic_TrueScale(t *testing.T) {
	p := &PolarStereographic{LatTrueScale: -71}
	x, y, err := p.FromWGS84(0, -90)
	if err != nil || math.Abs(x) > 1e-6 || math.Abs(y) > 1e-6 {
		t.Errorf("FromWGS84(0, -90) = (%v, %v, %v), want origin", x, y, err)
	}
	// Along the parallel of true scale the projected radius equals the
	// parallel's radius on the sphere.
	x, y, _ = p.FromWGS84(90, -71)
	rho := math.Hypot(x, y)
	want := EarthRadius * math.Cos(71*deg2rad)
	if math.Abs(rho-want)/want > 1e-9 {
		t.Errorf("rho at true scale = %v, want %v", rho, want)
	}
	if x <= 0 || math.Abs(y) > 1e-6 {
		t.Errorf("FromWGS84(90, -71) = (%v, %v), want on the +x axis", x, y)
	}
}

func TestPolarStereographic_NorthAxes(t *testing.T) {
	p := &PolarStereographic{LatTrueScale: 71}
	// Central meridian points down (-y) from the north pole.
	x, y, _ := p.FromWGS84(0, 80)
	if math.Abs(x) > 1e-6 || y >= 0 {
		t.Errorf("FromWGS84(0, 80) = (%v, %v), want on the -y axis", x, y)
	}
	lon, lat, _ := p.ToWGS84(0, 0)
	if math.Abs(lat-90) > 1e-12 || lon != 0 {
		t.Errorf("ToWGS84(0, 0) = (%v, %v), want (0, 90)", lon, lat)
	}
}

func TestOutOfDomain(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"stereographic opposite pole", func() error {
			_, _, err := ForEPSG(3031).FromWGS84(0, 90)
			return err
		}},
		{"laea antipode", func() error {
			_, _, err := ForEPSG(3574).FromWGS84(0, -90)
			return err
		}},
		{"laea outside disk", func() error {
			_, _, err := ForEPSG(3574).ToWGS84(2.1*EarthRadius, 0)
			return err
		}},
		{"aeqd antipode", func() error {
			_, _, err := ForEPSG(54032).FromWGS84(180, 0)
			return err
		}},
		{"aeqd beyond antipode", func() error {
			_, _, err := ForEPSG(54032).ToWGS84(3.2*EarthRadius, 0)
			return err
		}},
		{"orthographic far side", func() error {
			p, _ := ForCRS(crs.Orthographic("o", 0, 0))
			_, _, err := p.FromWGS84(120, 0)
			return err
		}},
		{"orthographic outside disk", func() error {
			p, _ := ForCRS(crs.Orthographic("o", 0, 0))
			_, _, err := p.ToWGS84(0, 1.01*EarthRadius)
			return err
		}},
		{"latitude range", func() error {
			_, _, err := ForEPSG(3035).FromWGS84(0, 91)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrOutOfDomain) {
				t.Errorf("error = %v, want ErrOutOfDomain", err)
			}
		})
	}
}

func TestAzimuthalEquidistant_Distance(t *testing.T) {
	p := ForEPSG(54032)
	x, y, err := p.FromWGS84(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := EarthRadius * 10 * deg2rad
	if math.Abs(x) > 1e-6 || math.Abs(y-want) > 1e-6 {
		t.Errorf("FromWGS84(0, 10) = (%v, %v), want (0, %v)", x, y, want)
	}
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0}, {180, 180}, {-180, -180}, {190, -170}, {-190, 170}, {540, -180}, {725, 5},
	}
	for _, tt := range tests {
		if got := NormalizeLon(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NormalizeLon(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
