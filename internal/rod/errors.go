package rod

import "errors"

var (
	// ErrInvalidState indicates NaN or Inf in a rod array.
	ErrInvalidState = errors.New("rod: invalid state (NaN or Inf detected)")

	// ErrInvalidElements indicates a non-positive element count.
	ErrInvalidElements = errors.New("rod: element count must be positive")

	// ErrDegenerateAxis indicates a zero-length direction, a normal parallel to
	// the direction, or a non-positive length.
	ErrDegenerateAxis = errors.New("rod: degenerate rod axis")
)
