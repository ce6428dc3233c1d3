package corr

import "errors"

// Error kinds surfaced at the operator boundary. All validation runs
// eagerly, before any numeric work, and a failure always indicates caller
// misuse; there is no transient state and no retry policy.
var (
	// ErrInvalidLayout reports an unrecognized tensor layout tag.
	ErrInvalidLayout = errors.New("correlation: invalid layout")

	// ErrShapeMismatch reports disagreeing input shapes, a wrong input
	// arity, or an upstream gradient whose shape does not match the cost
	// volume the forward pass would produce.
	ErrShapeMismatch = errors.New("correlation: shape mismatch")

	// ErrInvalidGeometry reports a parameter combination that cannot
	// produce a valid cost volume: even or non-positive kernel size,
	// stride < 1, negative pad or displacement, or a non-positive output
	// extent.
	ErrInvalidGeometry = errors.New("correlation: invalid geometry")
)
