package coord

import "slices"

// xyToHilbert converts (x, y) to a Hilbert curve index for an n x n grid.
// n must be a power of two.
func xyToHilbert(x, y, n uint64) uint64 {
	var d uint64
	for s := n / 2; s > 0; s /= 2 {
		var rx, ry uint64
		if x&s > 0 {
			rx = 1
		}
		if y&s > 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		if ry == 0 {
			if rx == 1 {
				x = s*2 - 1 - x
				y = s*2 - 1 - y
			}
			x, y = y, x
		}
	}
	return d
}

// SortTilesByHilbert orders tiles by zoom, then by Hilbert index within the
// zoom level, so that neighbouring entries of a coverage listing are
// neighbours on the map.
func SortTilesByHilbert(tiles []Tile) {
	if len(tiles) <= 1 {
		return
	}
	type keyed struct {
		t Tile
		h uint64
	}
	ks := make([]keyed, len(tiles))
	for i, t := range tiles {
		ks[i] = keyed{t, xyToHilbert(uint64(t.X), uint64(t.Y), uint64(1)<<uint(t.Z))}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if a.t.Z != b.t.Z {
			return a.t.Z - b.t.Z
		}
		switch {
		case a.h < b.h:
			return -1
		case a.h > b.h:
			return 1
		}
		return 0
	})
	for i := range ks {
		tiles[i] = ks[i].t
	}
}
