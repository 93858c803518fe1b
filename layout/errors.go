package layout

import "errors"

var (
	// ErrInvalidTable indicates a layout table that fails validation.
	ErrInvalidTable = errors.New("layout: invalid table")

	// ErrUnsupportedVersion indicates a table whose version this package
	// does not understand.
	ErrUnsupportedVersion = errors.New("layout: unsupported table version")

	// ErrBootstrap indicates that a validated table still could not be laid
	// out (no room for a randomized region, arena exhausted, ...).
	ErrBootstrap = errors.New("layout: bootstrap failed")
)
