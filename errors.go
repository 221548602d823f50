package ggview

import "errors"

// Common errors returned by Canvas and Surface operations.
var (
	// ErrInvalidSize is returned when a width or height is not positive.
	ErrInvalidSize = errors.New("ggview: invalid size")

	// ErrNilElement is returned when a canvas is created without a host element.
	ErrNilElement = errors.New("ggview: nil element")
)
