package terrain

import "errors"

var (
	// ErrInvalidConfig is returned when build parameters fail eager
	// validation, before any geometry work is done.
	ErrInvalidConfig = errors.New("terrain: invalid config")

	// ErrDegenerateGeometry is returned when the geometric construction
	// cannot produce a usable mesh. Retrying with identical inputs cannot
	// change the outcome; callers must vary the seed or config.
	ErrDegenerateGeometry = errors.New("terrain: degenerate geometry")
)
