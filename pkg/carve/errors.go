package carve

import "errors"

var (
	// ErrInvalidDimensions is returned when an image is empty or too small to carve in the requested direction.
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	// ErrUnsupportedOperator is returned for an energy operator outside the known set.
	ErrUnsupportedOperator = errors.New("unsupported energy operator")
	// ErrUnsupportedDirection is returned for a carve direction outside the known set.
	ErrUnsupportedDirection = errors.New("unsupported carve direction")
	// ErrInvalidSeam is returned when a seam does not match the image it is applied to.
	ErrInvalidSeam = errors.New("invalid seam")
)
