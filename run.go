package flyingedges

import (
	"errors"
	"sync/atomic"

	"github.com/soypat/flyingedges/internal/parallel"
)

// run holds the state of a single extraction. Its buffers are acquired
// from the Extractor's pool in acquire and must be handed back with release
// on every exit path.
type run struct {
	field      *Field
	isovalue   float32
	sched      parallel.Dispatcher
	classifier EdgeClassifier
	pool       *runPool

	edges     []EdgeCase  // Pass 1: one per x-edge.
	edgeTrims []TrimRange // Pass 1: one per x-edge row.
	spans     []TrimRange // Pass 2: candidate span per voxel row.
	voxTrims  []TrimRange // Pass 2: one per voxel row.
	cubeCases []uint8     // Pass 2: one per voxel.
	triCounts []uint8     // Pass 2: one per voxel.
	offsets   []int       // Pass 3: one per voxel.
	total     int         // Pass 3: total triangle count.
	mesh      *Mesh       // Pass 4.

	cutEdges   atomic.Int64
	visited    atomic.Int64
	surface    atomic.Int64
	degenerate atomic.Int64
}

func (r *run) acquire() {
	f := r.field
	nvox := f.numVoxels()
	r.edges = r.pool.edges.Acquire(f.numEdges() * f.numEdgeRows())
	r.edgeTrims = r.pool.trims.Acquire(f.numEdgeRows())
	r.spans = r.pool.trims.Acquire(f.numVoxelRows())
	r.voxTrims = r.pool.trims.Acquire(f.numVoxelRows())
	r.cubeCases = r.pool.bytes.Acquire(nvox)
	r.triCounts = r.pool.bytes.Acquire(nvox)
	r.offsets = r.pool.offsets.Acquire(nvox)
}

// release returns every intermediate buffer to the pool. The mesh is not
// pooled since it outlives the run.
func (r *run) release() error {
	err := errors.Join(
		r.pool.edges.Release(r.edges),
		r.pool.trims.Release(r.edgeTrims),
		r.pool.trims.Release(r.spans),
		r.pool.trims.Release(r.voxTrims),
		r.pool.bytes.Release(r.cubeCases),
		r.pool.bytes.Release(r.triCounts),
		r.pool.offsets.Release(r.offsets),
	)
	r.edges, r.edgeTrims, r.spans, r.voxTrims = nil, nil, nil, nil
	r.cubeCases, r.triCounts, r.offsets = nil, nil, nil
	return err
}

func (r *run) stats() Stats {
	return Stats{
		CutEdges:      int(r.cutEdges.Load()),
		VisitedVoxels: int(r.visited.Load()),
		SurfaceVoxels: int(r.surface.Load()),
		Triangles:     r.total,
		Vertices:      3 * r.total,
		Degenerate:    int(r.degenerate.Load()),
	}
}
