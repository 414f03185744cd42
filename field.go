package flyingedges

import (
	"fmt"
	"math"

	"github.com/soypat/glgl/math/ms3"
)

// Field is a dense scalar field sampled on an NX by NY by NZ grid.
// Samples are stored x-fastest: the sample at grid point (i,j,k) is
// Data[i + NX*(j + NY*k)].
//
// A Field must not be modified while an extraction reads it.
type Field struct {
	NX, NY, NZ int
	Data       []float32
	// Origin is the physical position of grid point (0,0,0).
	Origin ms3.Vec
	// Spacing is the physical distance between neighbouring grid points
	// along each axis. The zero value means unit spacing.
	Spacing ms3.Vec
}

// NewField returns a field over data with the given grid dimensions.
// data is not copied.
func NewField(nx, ny, nz int, data []float32) (*Field, error) {
	f := &Field{NX: nx, NY: ny, NZ: nz, Data: data}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the grid dimensions against the sample buffer.
func (f *Field) Validate() error {
	if f == nil {
		return ErrNilField
	}
	n, err := GridLen(f.NX, f.NY, f.NZ)
	if err != nil {
		return err
	}
	if f.Data == nil {
		return ErrNilField
	}
	if len(f.Data) != n {
		return fmt.Errorf("%w: want %d samples for %dx%dx%d grid, got %d", ErrFieldSize, n, f.NX, f.NY, f.NZ, len(f.Data))
	}
	return nil
}

// Len returns the number of grid points.
func (f *Field) Len() int { return f.NX * f.NY * f.NZ }

// Index returns the position of grid point (i,j,k) in Data.
func (f *Field) Index(i, j, k int) int { return i + f.NX*(j+f.NY*k) }

// At returns the sample at grid point (i,j,k).
func (f *Field) At(i, j, k int) float32 { return f.Data[f.Index(i, j, k)] }

// Bounds returns the physical box spanned by the grid.
func (f *Field) Bounds() ms3.Box {
	return ms3.Box{
		Min: f.Position(ms3.Vec{}),
		Max: f.Position(ms3.Vec{X: float32(f.NX - 1), Y: float32(f.NY - 1), Z: float32(f.NZ - 1)}),
	}
}

// Position maps a point given in grid index coordinates to physical space.
func (f *Field) Position(p ms3.Vec) ms3.Vec {
	if f.Spacing == (ms3.Vec{}) {
		return ms3.Add(f.Origin, p)
	}
	return ms3.Add(f.Origin, ms3.MulElem(f.Spacing, p))
}

// numEdges returns the number of x-edges per row.
func (f *Field) numEdges() int { return f.NX - 1 }

// numEdgeRows returns the number of rows of x-edges, one per (j,k).
func (f *Field) numEdgeRows() int { return f.NY * f.NZ }

// numVoxelRows returns the number of rows of voxels, one per (j,k) with
// j < NY-1 and k < NZ-1.
func (f *Field) numVoxelRows() int { return (f.NY - 1) * (f.NZ - 1) }

// numVoxels returns the number of voxels in the grid.
func (f *Field) numVoxels() int { return f.numEdges() * f.numVoxelRows() }

// degenerate reports whether the grid is too thin along some axis to
// contain any voxel.
func (f *Field) degenerate() bool { return f.NX < 2 || f.NY < 2 || f.NZ < 2 }

// GridLen returns the number of samples of an nx by ny by nz grid. It fails
// for non-positive dimensions and for grids whose size overflows int.
func GridLen(nx, ny, nz int) (int, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return 0, fmt.Errorf("%w: %dx%dx%d", ErrInvalidDims, nx, ny, nz)
	}
	if nx > math.MaxInt/ny || nx*ny > math.MaxInt/nz {
		return 0, fmt.Errorf("%w: %dx%dx%d grid overflows int", ErrTooLarge, nx, ny, nz)
	}
	return nx * ny * nz, nil
}
