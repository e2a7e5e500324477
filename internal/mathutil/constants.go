package mathutil

import "errors"

// ErrDivideByZero is returned when a scalar divisor is exactly zero.
var ErrDivideByZero = errors.New("mathutil: divide by zero")

// Epsilon is float64 machine epsilon (2^-52).
const Epsilon = 2.220446049250313e-16

var (
	// WorldUp is the up vector used by the look-at camera.
	WorldUp = Vec3{0, 1, 0}

	// Forward is the default camera look direction.
	Forward = Vec3{0, 0, 1}
)
