package flyingedges

import (
	"fmt"

	"github.com/soypat/flyingedges/internal/parallel"
)

// EdgeClassifier computes the edge case of every x-edge of a field.
//
// ClassifyEdges writes the case of the edge between grid points (i,j,k) and
// (i+1,j,k) to dst[i + (NX-1)*(j + NY*k)] for every edge of f. len(dst) is
// (NX-1)*NY*NZ. Implementations must follow the rule of [EdgeCaseOf].
type EdgeClassifier interface {
	ClassifyEdges(dst []EdgeCase, f *Field, isovalue float32) error
}

// CPUClassifier classifies edges on the CPU, one row of edges per unit of
// work.
type CPUClassifier struct {
	// Workers is the number of goroutines used. 0 uses GOMAXPROCS.
	Workers int
	sched   *parallel.Dispatcher
}

var _ EdgeClassifier = (*CPUClassifier)(nil)

// ClassifyEdges implements [EdgeClassifier].
func (c *CPUClassifier) ClassifyEdges(dst []EdgeCase, f *Field, isovalue float32) error {
	nxe := f.numEdges()
	if len(dst) != nxe*f.numEdgeRows() {
		return fmt.Errorf("edge buffer length %d, want %d", len(dst), nxe*f.numEdgeRows())
	}
	if nxe == 0 {
		return nil
	}
	sched := parallel.New(c.Workers)
	if c.sched != nil {
		sched = *c.sched
	}
	sched.For(f.numEdgeRows(), func(row int) {
		samples := f.Data[row*f.NX : (row+1)*f.NX]
		edges := dst[row*nxe : (row+1)*nxe]
		for i := range edges {
			edges[i] = EdgeCaseOf(samples[i], samples[i+1], isovalue)
		}
	})
	return nil
}

// classifyEdges runs pass 1: edge classification followed by the per-row
// trim reduction.
func (r *run) classifyEdges() error {
	err := r.classifier.ClassifyEdges(r.edges, r.field, r.isovalue)
	if err != nil {
		return &PassError{Pass: 1, Op: "ClassifyEdges", Err: err}
	}
	nxe := r.field.numEdges()
	r.sched.For(len(r.edgeTrims), func(row int) {
		edges := r.edges[row*nxe : (row+1)*nxe]
		tr := emptyTrim(nxe)
		cut := 0
		for i, ec := range edges {
			if ec.Cut() {
				tr.include(i)
				cut++
			}
		}
		r.edgeTrims[row] = tr
		if cut > 0 {
			r.cutEdges.Add(int64(cut))
		}
	})
	return nil
}
