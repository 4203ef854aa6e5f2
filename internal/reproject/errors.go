package reproject

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMismatchedDimension is matched by *MismatchedDimensionError.
	ErrMismatchedDimension = errors.New("mismatched dimension")
	// ErrMismatchedCRS is returned when an envelope is tagged with a CRS other
	// than the operation's source.
	ErrMismatchedCRS = errors.New("envelope CRS does not match operation source")
	// ErrUnsupportedImplementation is returned when a transform does not
	// write its result into the caller's point buffer.
	ErrUnsupportedImplementation = errors.New("transform ignored the output buffer")
	// ErrSelfCheck is returned by the rectangle self-check when two runs of
	// the same sampling disagree.
	ErrSelfCheck = errors.New("rectangle self-check failed")
)

// MismatchedDimensionError reports an envelope whose dimension differs from
// the transform's source dimension.
type MismatchedDimensionError struct {
	Want, Got int
}

func (e *MismatchedDimensionError) Error() string {
	return fmt.Sprintf("envelope has dimension %d, transform expects %d", e.Got, e.Want)
}

// Is makes errors.Is(err, ErrMismatchedDimension) hold.
func (e *MismatchedDimensionError) Is(target error) bool {
	return target == ErrMismatchedDimension
}
