// Package catalog indexes the extents of many source envelopes in one
// reference system. Each envelope is reprojected on insertion and stored in
// an R-tree, so queries and the merged extent never need to revisit the
// sources.
package catalog

import (
	"context"
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dhconnelly/rtreego"
	"golang.org/x/sync/errgroup"

	"github.com/pspoerri/envreproject/internal/crs"
	"github.com/pspoerri/envreproject/internal/geom"
	"github.com/pspoerri/envreproject/internal/reproject"
)

// minSpan keeps degenerate extents insertable; rtreego rejects zero-length
// rectangles.
const minSpan = 1e-9

// Item is a named source envelope waiting to be indexed.
type Item struct {
	Name     string
	Envelope *geom.Envelope
}

// Entry is an indexed item with its extent in the catalog CRS.
type Entry struct {
	Name   string
	Source *geom.Envelope
	Extent *geom.Envelope
}

// Bounds implements rtreego.Spatial.
func (e *Entry) Bounds() rtreego.Rect {
	return rect(e.Extent)
}

// Catalog is a spatial index of reprojected extents. It is safe for
// concurrent use.
type Catalog struct {
	crs *crs.CRS
	r   *reproject.Reprojector

	mu      sync.RWMutex
	tree    *rtreego.Rtree
	entries []*Entry
	bounds  *geom.Envelope
}

// New returns an empty catalog in the 2-D reference system c. A nil
// Reprojector uses the defaults.
func New(c *crs.CRS, r *reproject.Reprojector) (*Catalog, error) {
	if c == nil || c.Dimension() != 2 {
		return nil, errors.Newf("catalog CRS must be 2-D, got %v", c)
	}
	if r == nil {
		r = reproject.New()
	}
	return &Catalog{
		crs:  c,
		r:    r,
		tree: rtreego.NewTree(2, 25, 50),
	}, nil
}

// CRS returns the catalog reference system.
func (c *Catalog) CRS() *crs.CRS { return c.crs }

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Add reprojects env into the catalog CRS and indexes it.
func (c *Catalog) Add(name string, env *geom.Envelope) (*Entry, error) {
	extent, err := c.extent(env)
	if err != nil {
		return nil, errors.Wrapf(err, "indexing %s", name)
	}
	e := &Entry{Name: name, Source: env, Extent: extent}
	c.insert(e)
	return e, nil
}

// AddAll indexes items concurrently with at most concurrency reprojections
// in flight. The first failure cancels the remaining items; entries added
// before it stay in the catalog.
func (c *Catalog) AddAll(ctx context.Context, items []Item, concurrency int) error {
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for _, it := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.Add(it.Name, it.Envelope)
			return err
		})
	}
	return g.Wait()
}

// Query returns the entries whose extent intersects env. env is reprojected
// into the catalog CRS first when it is tagged with another system.
func (c *Catalog) Query(env *geom.Envelope) ([]*Entry, error) {
	q, err := c.extent(env)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Entry
	for _, s := range c.tree.SearchIntersect(rect(q)) {
		e := s.(*Entry)
		// The R-tree pads degenerate extents.
		if e.Extent.Intersects(q) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Bounds returns the union of all extents, or nil for an empty catalog.
func (c *Catalog) Bounds() *geom.Envelope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bounds == nil {
		return nil
	}
	return c.bounds.Clone()
}

// Entries returns the entries in insertion order.
func (c *Catalog) Entries() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Entry(nil), c.entries...)
}

func (c *Catalog) extent(env *geom.Envelope) (*geom.Envelope, error) {
	if env == nil {
		return nil, errors.New("nil envelope")
	}
	if env.CRS() == nil || crs.Equal(env.CRS(), c.crs) {
		if env.Dimension() != 2 {
			return nil, errors.Newf("envelope has dimension %d, catalog expects 2", env.Dimension())
		}
		out := env.Clone()
		out.SetCRS(c.crs)
		return out, nil
	}
	return c.r.CRS(env, c.crs)
}

func (c *Catalog) insert(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree.Insert(e)
	c.entries = append(c.entries, e)
	if c.bounds == nil {
		c.bounds = e.Extent.Clone()
	} else {
		c.bounds.AddEnvelope(e.Extent)
	}
}

func rect(env *geom.Envelope) rtreego.Rect {
	point := rtreego.Point{env.Minimum(0), env.Minimum(1)}
	lengths := []float64{
		math.Max(env.Span(0), minSpan),
		math.Max(env.Span(1), minSpan),
	}
	r, _ := rtreego.NewRect(point, lengths)
	return r
}
