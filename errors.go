package flyingedges

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDims is returned for a grid with a zero or negative dimension.
	ErrInvalidDims = errors.New("invalid grid dimensions")
	// ErrFieldSize is returned when the sample count does not match the grid.
	ErrFieldSize = errors.New("sample count does not match grid dimensions")
	// ErrNilField is returned when a field or its samples are missing.
	ErrNilField = errors.New("nil scalar field")
	// ErrTooLarge is returned when a grid or mesh exceeds the index types.
	ErrTooLarge = errors.New("extraction too large")
	// ErrNoMesh is returned when exporting before a successful Execute.
	ErrNoMesh = errors.New("no mesh extracted")
)

// PassError reports a failure inside one of the extraction passes.
// No partial mesh is produced when a PassError is returned.
type PassError struct {
	Pass int    // Pass number, 1 through 4.
	Op   string // Failing operation.
	Err  error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("flyingedges: pass %d: %s: %v", e.Pass, e.Op, e.Err)
}

func (e *PassError) Unwrap() error { return e.Err }
