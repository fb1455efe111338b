package boundary

import "errors"

var (
	// ErrNonPositiveDuration indicates a twisting time that is zero, negative
	// or NaN.
	ErrNonPositiveDuration = errors.New("boundary: twisting time must be positive")

	// ErrCoincidentEnds indicates end positions too close to define a rod axis.
	ErrCoincidentEnds = errors.New("boundary: rod ends coincide")

	// ErrUnknownKind indicates an unrecognized boundary condition name.
	ErrUnknownKind = errors.New("boundary: unknown condition kind")
)
