package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/reproject"
)

func lonLat(minLon, minLat, maxLon, maxLat float64) *geom.Envelope {
	return geom.MustEnvelope(geom.Point{minLon, minLat}, geom.Point{maxLon, maxLat}, crs.WGS84)
}

func TestAddAndQuery(t *testing.T) {
	c, err := New(crs.WGS84, nil)
	require.NoError(t, err)

	south, err := crs.ForEPSG(3031)
	require.NoError(t, err)
	pole := geom.MustEnvelope(geom.Point{-1e6, -1e6}, geom.Point{1e6, 1e6}, south)

	_, err = c.Add("alps", lonLat(5, 45, 15, 48))
	require.NoError(t, err)
	e, err := c.Add("antarctica", pole)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	// The stereographic cap around the pole spans every longitude.
	assert.Equal(t, -180.0, e.Extent.Minimum(0))
	assert.Equal(t, 180.0, e.Extent.Maximum(0))
	assert.InDelta(t, -90, e.Extent.Minimum(1), 1e-9)
	assert.Same(t, crs.WGS84, e.Extent.CRS())

	got, err := c.Query(lonLat(8, 46, 9, 47))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alps", got[0].Name)

	got, err = c.Query(lonLat(100, -89, 101, -88))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "antarctica", got[0].Name)

	got, err = c.Query(lonLat(-60, 10, -50, 20))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryReprojectsEnvelope(t *testing.T) {
	merc, err := crs.ForEPSG(3857)
	require.NoError(t, err)
	c, err := New(merc, nil)
	require.NoError(t, err)

	_, err = c.Add("zurich", lonLat(8, 47, 9, 48))
	require.NoError(t, err)

	got, err := c.Query(lonLat(8.5, 47.5, 8.6, 47.6))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Same(t, merc, got[0].Extent.CRS())
}

func TestBounds(t *testing.T) {
	c, err := New(crs.WGS84, nil)
	require.NoError(t, err)
	assert.Nil(t, c.Bounds())

	_, err = c.Add("a", lonLat(0, 0, 10, 10))
	require.NoError(t, err)
	_, err = c.Add("b", lonLat(-20, 5, 5, 30))
	require.NoError(t, err)

	b := c.Bounds()
	require.NotNil(t, b)
	assert.Equal(t, []float64{-20, 0}, []float64(b.LowerCorner()))
	assert.Equal(t, []float64{10, 30}, []float64(b.UpperCorner()))

	// The returned envelope is a copy.
	b.Add(geom.Point{100, 100})
	assert.Equal(t, 10.0, c.Bounds().Maximum(0))
}

func TestDegenerateExtent(t *testing.T) {
	c, err := New(crs.WGS84, nil)
	require.NoError(t, err)
	_, err = c.Add("point", lonLat(3, 4, 3, 4))
	require.NoError(t, err)

	got, err := c.Query(lonLat(2, 3, 3, 4))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAddAll(t *testing.T) {
	c, err := New(crs.WGS84, reproject.New(reproject.WithBisection(2)))
	require.NoError(t, err)

	merc, err := crs.ForEPSG(3857)
	require.NoError(t, err)
	var items []Item
	for i := range 20 {
		x := float64(i) * 1e5
		items = append(items, Item{
			Name:     fmt.Sprintf("tile-%d", i),
			Envelope: geom.MustEnvelope(geom.Point{x, 0}, geom.Point{x + 1e5, 1e5}, merc),
		})
	}
	require.NoError(t, c.AddAll(context.Background(), items, 4))
	assert.Equal(t, 20, c.Len())

	b := c.Bounds()
	require.NotNil(t, b)
	assert.InDelta(t, 0, b.Minimum(0), 1e-9)
	assert.InDelta(t, 2e6/6378137*180/3.141592653589793, b.Maximum(0), 1e-6)
}

func TestAddAllStopsOnError(t *testing.T) {
	c, err := New(crs.WGS84, nil)
	require.NoError(t, err)
	items := []Item{
		{Name: "ok", Envelope: lonLat(0, 0, 1, 1)},
		{Name: "flat", Envelope: geom.MustEnvelope(geom.Point{0, 0, 0}, geom.Point{1, 1, 1}, nil)},
	}
	err = c.AddAll(context.Background(), items, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flat")
}

func TestNewRejects3D(t *testing.T) {
	_, err := New(crs.WGS84_3D, nil)
	assert.Error(t, err)
	_, err = New(nil, nil)
	assert.Error(t, err)
}
