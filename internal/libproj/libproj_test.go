//go:build proj

package libproj

import (
	"math"
	"testing"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/transform"
)

func TestMatchesBuiltin(t *testing.T) {
	for _, code := range []int{3857, 3031, 3575, 102016} {
		target, err := crs.ForEPSG(code)
		if err != nil {
			t.Fatal(err)
		}
		op, err := Find(crs.WGS84, target)
		if err != nil {
			t.Fatalf("EPSG:%d: %v", code, err)
		}
		builtin, err := transform.Find(crs.WGS84, target)
		if err != nil {
			t.Fatal(err)
		}
		p := geom.Point{10, 70}
		if code == 3031 {
			p[1] = -70
		}
		got, err := op.Transform.Transform(p, nil)
		if err != nil {
			t.Fatalf("EPSG:%d: %v", code, err)
		}
		want, err := builtin.Transform.Transform(p, nil)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got[0]-want[0]) > 1e-3 || math.Abs(got[1]-want[1]) > 1e-3 {
			t.Errorf("EPSG:%d: PROJ %v, builtin %v", code, got, want)
		}
		inv, err := op.Transform.Inverse()
		if err != nil {
			t.Fatal(err)
		}
		back, err := inv.Transform(got, nil)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(back[0]-p[0]) > 1e-9 || math.Abs(back[1]-p[1]) > 1e-9 {
			t.Errorf("EPSG:%d: round trip %v, want %v", code, back, p)
		}
	}
}
