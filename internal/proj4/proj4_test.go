package proj4

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/reproject"
	"github.com/pspoerri/envreproject/internal/transform"
)

func TestDefinition(t *testing.T) {
	tests := []struct {
		code int
		want []string
	}{
		{4326, []string{"+proj=longlat", "+a=6378137 +b=6378137"}},
		{3857, []string{"+proj=merc", "+lon_0=0", "+x_0=0"}},
		{3031, []string{"+proj=stere", "+lat_0=-90", "+lat_ts=-71"}},
		{3032, []string{"+proj=stere", "+lon_0=70", "+x_0=6000000", "+y_0=6000000"}},
		{3575, []string{"+proj=laea", "+lat_0=90", "+lon_0=10"}},
		{102016, []string{"+proj=aeqd", "+lat_0=90"}},
		{2056, []string{"+proj=somerc", "+x_0=2600000"}},
	}
	for _, tt := range tests {
		c, err := crs.ForEPSG(tt.code)
		if err != nil {
			t.Fatal(err)
		}
		def, err := Definition(c)
		if err != nil {
			t.Errorf("EPSG:%d: %v", tt.code, err)
			continue
		}
		for _, w := range tt.want {
			if !strings.Contains(def, w) {
				t.Errorf("EPSG:%d: %q lacks %q", tt.code, def, w)
			}
		}
	}

	ortho, err := Definition(crs.Orthographic("ortho", 20, 40))
	if err != nil || !strings.Contains(ortho, "+proj=ortho +lat_0=40 +lon_0=20") {
		t.Errorf("orthographic = %q, %v", ortho, err)
	}
	if _, err := Definition(crs.WGS84_3D); !errors.Is(err, ErrUnsupported) {
		t.Errorf("3-D: err = %v, want ErrUnsupported", err)
	}
	if _, err := Definition(nil); !errors.Is(err, ErrUnsupported) {
		t.Errorf("nil: err = %v, want ErrUnsupported", err)
	}
}

func TestMercatorMatchesBuiltin(t *testing.T) {
	merc, err := crs.ForEPSG(3857)
	if err != nil {
		t.Fatal(err)
	}
	op, err := Find(crs.WGS84, merc)
	if err != nil {
		t.Fatal(err)
	}
	builtin, err := transform.Find(crs.WGS84, merc)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []geom.Point{{0, 0}, {8.5, 47.3}, {-120, -60}, {179, 80}} {
		got, err := op.Transform.Transform(p, nil)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		want, err := builtin.Transform.Transform(p, nil)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got[0]-want[0]) > 1e-3 || math.Abs(got[1]-want[1]) > 1e-3 {
			t.Errorf("%v: proj4 %v, builtin %v", p, got, want)
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	lcc := "+proj=lcc +lat_1=33 +lat_2=45 +lat_0=40 +lon_0=-97 +x_0=0 +y_0=0 " + sphere + " +units=m +no_defs"
	geo := "+proj=longlat " + sphere + " +no_defs"
	fwd, err := New(geo, lcc)
	if err != nil {
		t.Fatal(err)
	}
	inv, err := fwd.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	p := geom.Point{-100, 38}
	xy, err := fwd.Transform(p, geom.NewPoint(2))
	if err != nil {
		t.Fatal(err)
	}
	back, err := inv.Transform(xy, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(back[0]-p[0]) > 1e-7 || math.Abs(back[1]-p[1]) > 1e-7 {
		t.Errorf("round trip = %v, want %v", back, p)
	}
	if fwd.IsIdentity() {
		t.Error("lcc transform reports identity")
	}
}

func TestAxisOrder(t *testing.T) {
	merc, _ := crs.ForEPSG(3857)
	lonFirst, err := Find(crs.WGS84, merc)
	if err != nil {
		t.Fatal(err)
	}
	latFirst, err := Find(crs.WGS84NorthEast, merc)
	if err != nil {
		t.Fatal(err)
	}
	a, err := lonFirst.Transform.Transform(geom.Point{10, 50}, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := latFirst.Transform.Transform(geom.Point{50, 10}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("lon/lat %v != lat/lon %v", a, b)
	}
}

func TestOutOfDomain(t *testing.T) {
	merc, _ := crs.ForEPSG(3857)
	op, err := Find(crs.WGS84, merc)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := op.Transform.Transform(geom.Point{0, 90}, nil); !errors.Is(err, transform.ErrOutOfDomain) {
		t.Errorf("pole: err = %v, want ErrOutOfDomain", err)
	}
}

func TestReprojectorWithFinder(t *testing.T) {
	merc, _ := crs.ForEPSG(3857)
	env := geom.MustEnvelope(geom.Point{-10, 35}, geom.Point{30, 60}, crs.WGS84)
	r := reproject.New(reproject.WithFinder(reproject.FinderFunc(Find)))
	op, err := Find(crs.WGS84, merc)
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Envelope(op, env)
	if err != nil {
		t.Fatal(err)
	}
	want, err := reproject.CRS(env, merc)
	if err != nil {
		t.Fatal(err)
	}
	if !got.ApproxEqual(want, 1e-3) {
		t.Errorf("proj4 envelope %v, builtin %v", got, want)
	}
}
