package plot

import (
	"bytes"
	"testing"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/encode"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/reproject"
	"github.com/pspoerri/envreproject/internal/transform"
)

func TestCloud(t *testing.T) {
	env := geom.MustEnvelope(geom.Point{0, 0}, geom.Point{10, 20}, nil)
	pts, failed := Cloud(transform.Identity(2), env, 5)
	if failed != 0 || len(pts) != 25 {
		t.Fatalf("Cloud = %d points, %d failed; want 25, 0", len(pts), failed)
	}
	if pts[0][0] != 0 || pts[0][1] != 0 || pts[24][0] != 10 || pts[24][1] != 20 {
		t.Errorf("corners = %v, %v", pts[0], pts[24])
	}

	merc, err := crs.ForEPSG(3857)
	if err != nil {
		t.Fatal(err)
	}
	op, err := transform.Find(crs.WGS84, merc)
	if err != nil {
		t.Fatal(err)
	}
	// The top row lies on the pole.
	polar := geom.MustEnvelope(geom.Point{0, 80}, geom.Point{10, 90}, crs.WGS84)
	pts, failed = Cloud(op.Transform, polar, 4)
	if failed != 4 || len(pts) != 12 {
		t.Errorf("Cloud = %d points, %d failed; want 12, 4", len(pts), failed)
	}
}

func TestRender(t *testing.T) {
	south, err := crs.ForEPSG(3031)
	if err != nil {
		t.Fatal(err)
	}
	env := geom.MustEnvelope(geom.Point{-180, -90}, geom.Point{180, -60}, crs.WGS84)
	op, err := transform.Find(crs.WGS84, south)
	if err != nil {
		t.Fatal(err)
	}
	result, err := reproject.Envelope(op, env)
	if err != nil {
		t.Fatal(err)
	}
	pts, _ := Cloud(op.Transform, env, 32)

	img, err := Render(Scene{Points: pts, Boxes: []Box{{result, ResultColor}}}, 200)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("size = %v", b)
	}
	// The result is square, so its outline spans the padded view: the
	// padding is 5% of the side on each end.
	edge := int(0.05 / 1.1 * 199)
	var hits int
	for x := 0; x < 200; x++ {
		for _, y := range []int{edge, edge + 1, 199 - edge, 199 - edge - 1} {
			if img.RGBAAt(x, y) == ResultColor {
				hits++
				break
			}
		}
	}
	if hits < 150 {
		t.Errorf("found the outline in %d columns, want most of 200", hits)
	}
	if img.RGBAAt(0, 0) != Background {
		t.Errorf("corner pixel = %v, want background", img.RGBAAt(0, 0))
	}

	var buf bytes.Buffer
	enc, err := encode.New("png", 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("encoded plot is empty")
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(Scene{}, 100); err == nil {
		t.Error("empty scene rendered")
	}
	box := Box{Envelope: geom.MustEnvelope(geom.Point{0, 0}, geom.Point{1, 1}, nil)}
	if _, err := Render(Scene{Boxes: []Box{box}}, 4); err == nil {
		t.Error("tiny image rendered")
	}
	flat := Box{Envelope: geom.MustEnvelope(geom.Point{0}, geom.Point{1}, nil)}
	if _, err := Render(Scene{Boxes: []Box{flat}}, 100); err == nil {
		t.Error("1-D envelope rendered")
	}
}
