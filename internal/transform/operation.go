package transform

import (
	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/coord"
	"github.com/pspoerri/envreproject/internal/crs"
)

// Operation is a transform between two reference systems.
type Operation struct {
	Source, Target *crs.CRS
	Transform      MathTransform
}

// NewOperation checks that the transform dimensions match the descriptors.
// Either CRS may be nil when unknown.
func NewOperation(source, target *crs.CRS, mt MathTransform) (*Operation, error) {
	if mt == nil {
		return nil, errors.New("nil transform")
	}
	if source != nil && source.Dimension() != mt.SourceDimensions() {
		return nil, errors.Newf("source %s has dimension %d, transform expects %d",
			source, source.Dimension(), mt.SourceDimensions())
	}
	if target != nil && target.Dimension() != mt.TargetDimensions() {
		return nil, errors.Newf("target %s has dimension %d, transform produces %d",
			target, target.Dimension(), mt.TargetDimensions())
	}
	return &Operation{Source: source, Target: target, Transform: mt}, nil
}

// Find builds the operation from source to target with the built-in
// projection formulas. Both systems must share the WGS84 datum; the path
// goes through longitude/latitude with any extra ordinates (such as height)
// carried along, padded with zeros or dropped as the target requires.
func Find(source, target *crs.CRS) (*Operation, error) {
	if source == nil || target == nil {
		return nil, errors.New("source and target CRS are required")
	}
	if crs.Equal(source, target) {
		return NewOperation(source, target, Identity(source.Dimension()))
	}
	toGeo, err := ToLonLat(source)
	if err != nil {
		return nil, err
	}
	fromGeo, err := ToLonLat(target)
	if err != nil {
		return nil, err
	}
	fromGeo, err = fromGeo.Inverse()
	if err != nil {
		return nil, errors.Wrapf(err, "inverting %s", target)
	}
	steps := []MathTransform{toGeo}
	sd, td := source.Dimension(), target.Dimension()
	switch {
	case sd > td:
		keep := make([]int, td)
		for i := range keep {
			keep[i] = i
		}
		filter, err := SelectDimensions(sd, keep...)
		if err != nil {
			return nil, err
		}
		steps = append(steps, filter)
	case sd < td:
		steps = append(steps, Pad(sd, make([]float64, td-sd)...))
	}
	steps = append(steps, fromGeo)
	mt, err := Concatenate(steps...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s to %s", source, target)
	}
	return NewOperation(source, target, mt)
}

// ToLonLat returns the transform from c to longitude/latitude in degrees,
// followed by c's remaining ordinates in their original order.
func ToLonLat(c *crs.CRS) (MathTransform, error) {
	dim := c.Dimension()
	if dim < 2 {
		return nil, errors.Newf("%s: need at least 2 dimensions", c)
	}
	if crs.MapProjection(c) != nil {
		p, err := coord.ForCRS(c)
		if err != nil {
			return nil, err
		}
		return Unproject(p, dim), nil
	}
	lon, lat := c.CS.LongitudeAxis(), c.CS.LatitudeAxis()
	if lon < 0 || lat < 0 {
		return nil, errors.Newf("%s: no longitude/latitude axes", c)
	}
	order := []int{lon, lat}
	for i := 0; i < dim; i++ {
		if i != lon && i != lat {
			order = append(order, i)
		}
	}
	return Permutation(order...)
}
