package transform

import (
	"github.com/cockroachdb/errors"

	"github.com/pspoerri/envreproject/internal/geom"
)

// Concatenate chains transforms so that the output of each feeds the next.
// Identity steps are dropped; a chain of only identities collapses to one.
func Concatenate(steps ...MathTransform) (MathTransform, error) {
	if len(steps) == 0 {
		return nil, errors.New("no transforms to concatenate")
	}
	var kept []MathTransform
	for i, s := range steps {
		if i > 0 && steps[i-1].TargetDimensions() != s.SourceDimensions() {
			return nil, errors.Newf("step %d outputs %d dimensions, step %d expects %d",
				i-1, steps[i-1].TargetDimensions(), i, s.SourceDimensions())
		}
		if c, ok := s.(*concatenated); ok {
			kept = append(kept, c.steps...)
			continue
		}
		if !s.IsIdentity() {
			kept = append(kept, s)
		}
	}
	switch len(kept) {
	case 0:
		return Identity(steps[0].SourceDimensions()), nil
	case 1:
		return kept[0], nil
	}
	return &concatenated{steps: kept}, nil
}

type concatenated struct {
	steps []MathTransform
}

func (c *concatenated) SourceDimensions() int { return c.steps[0].SourceDimensions() }
func (c *concatenated) TargetDimensions() int { return c.steps[len(c.steps)-1].TargetDimensions() }
func (c *concatenated) IsIdentity() bool      { return false }

func (c *concatenated) Transform(src, dst geom.Point) (geom.Point, error) {
	cur := src
	last := len(c.steps) - 1
	for i, s := range c.steps {
		var out geom.Point
		if i == last {
			out = dst
		}
		next, err := s.Transform(cur, out)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Inverse inverts every step in reverse order.
func (c *concatenated) Inverse() (MathTransform, error) {
	inv := make([]MathTransform, len(c.steps))
	for i, s := range c.steps {
		si, err := s.Inverse()
		if err != nil {
			return nil, err
		}
		inv[len(c.steps)-1-i] = si
	}
	return &concatenated{steps: inv}, nil
}
