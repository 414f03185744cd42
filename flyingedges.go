// Package flyingedges extracts triangulated iso-surfaces from dense 3D
// scalar fields using the Flying Edges algorithm.
//
// Extraction runs four passes over the field, each fully data parallel and
// separated from the next by a barrier:
//
//  1. Every x-edge is classified by which of its endpoints lie at or above
//     the isovalue, and each row of x-edges gets the tightest range of
//     indices holding a cut edge (its trim).
//  2. Every voxel inside its row's candidate span is assigned a cube case
//     from its four x-edges. The triangle count of the case is recorded and
//     the row's trim is tightened to the voxels that produce triangles.
//  3. An exclusive prefix sum over triangle counts gives each voxel a
//     disjoint slice of the output buffers and sizes them.
//  4. Surface voxels interpolate a fresh vertex per triangle corner and
//     write their triangles into their slice.
//
// The output [Mesh] is a triangle soup: vertices are never shared between
// triangles. Output order follows voxel index so repeated runs over the
// same field produce identical meshes regardless of scheduling.
package flyingedges

import (
	"github.com/chewxy/math32"
)

// EdgeCase classifies a grid edge along x by which of its endpoints are at
// or above the isovalue. Bit 0 stands for the left (lower x) endpoint and
// bit 1 for the right endpoint.
type EdgeCase uint8

const (
	Below      EdgeCase = iota // Both endpoints below isovalue.
	LeftAbove                  // Only the left endpoint is at or above isovalue.
	RightAbove                 // Only the right endpoint is at or above isovalue.
	BothAbove                  // Both endpoints at or above isovalue.
)

// Cut reports whether the surface crosses the edge.
func (ec EdgeCase) Cut() bool { return ec == LeftAbove || ec == RightAbove }

func (ec EdgeCase) left() uint8  { return uint8(ec) & 1 }
func (ec EdgeCase) right() uint8 { return uint8(ec) >> 1 & 1 }

// EdgeCaseOf classifies an edge with endpoint values left and right.
// A value equal to the isovalue counts as above it. NaN counts as below.
func EdgeCaseOf(left, right, isovalue float32) EdgeCase {
	var ec EdgeCase
	if left >= isovalue {
		ec |= LeftAbove
	}
	if right >= isovalue {
		ec |= RightAbove
	}
	return ec
}

// CubeCaseOf packs the edge cases of a voxel's four x-edges into its
// marching cubes case index. The edges are given at (y,z) offsets
// (0,0), (1,0), (0,1) and (1,1) from the voxel's lowest corner.
// See package cases for the corner numbering.
func CubeCaseOf(ec0, ec1, ec2, ec3 EdgeCase) uint8 {
	return ec0.left() | ec0.right()<<1 |
		ec1.right()<<2 | ec1.left()<<3 |
		ec2.left()<<4 | ec2.right()<<5 |
		ec3.right()<<6 | ec3.left()<<7
}

// TrimRange is an inclusive index range [Min, Max] along a row.
// A range with Min > Max is empty.
type TrimRange struct {
	Min, Max int
}

// emptyTrim is the empty marker for a row with n elements.
func emptyTrim(n int) TrimRange { return TrimRange{Min: n, Max: n - 1} }

// Empty reports whether the range contains no indices.
func (tr TrimRange) Empty() bool { return tr.Min > tr.Max }

// Len returns the number of indices in the range.
func (tr TrimRange) Len() int {
	if tr.Empty() {
		return 0
	}
	return tr.Max - tr.Min + 1
}

// Contains reports whether i lies within the range.
func (tr TrimRange) Contains(i int) bool { return i >= tr.Min && i <= tr.Max }

// include widens the range to contain i.
func (tr *TrimRange) include(i int) {
	if tr.Empty() {
		tr.Min, tr.Max = i, i
		return
	}
	tr.Min = min(tr.Min, i)
	tr.Max = max(tr.Max, i)
}

// Interpolate returns the parameter t in [0,1] at which the line between
// values v1 and v2 crosses isovalue. When v1 == v2 or the result is not a
// number t is 0 and degenerate is true.
func Interpolate(v1, v2, isovalue float32) (t float32, degenerate bool) {
	den := v2 - v1
	if den == 0 {
		return 0, true
	}
	t = (isovalue - v1) / den
	if math32.IsNaN(t) {
		return 0, true
	}
	return math32.Min(math32.Max(t, 0), 1), false
}
