package flyingedges

import (
	"fmt"
	"math"

	"github.com/soypat/flyingedges/internal/scan"
)

// computeOffsets runs pass 3: an exclusive prefix sum of triangle counts
// over every voxel in index order. The total sizes the output mesh.
func (r *run) computeOffsets() error {
	r.total = scan.Exclusive(r.sched, r.offsets, r.triCounts)
	if r.total > math.MaxInt32/3 {
		return &PassError{Pass: 3, Op: "size output", Err: fmt.Errorf("%w: %d triangles overflow int32 vertex indices", ErrTooLarge, r.total)}
	}
	return nil
}
