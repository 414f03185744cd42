// Package cases holds the marching cubes lookup tables shared by every
// pass of the flying edges pipeline.
//
// Corners of a voxel are numbered as follows, with offsets given in
// (x, y, z) grid steps from the voxel's lowest corner:
//
//	0:(0,0,0) 1:(1,0,0) 2:(1,1,0) 3:(0,1,0)
//	4:(0,0,1) 5:(1,0,1) 6:(1,1,1) 7:(0,1,1)
//
// Bit i of a cube case is set when corner i is at or above the isovalue.
// Triangles are wound so their normals point toward the corners that are
// set, i.e. toward increasing scalar values.
//
// The tables are a versioned constant: any change to them changes extracted
// meshes and must bump Version.
package cases

// Version identifies the triangle table revision.
const Version = "bourke-1994.1"

// MaxTriangles is the largest number of triangles a single cube case emits.
const MaxTriangles = 5

// CornerOffsets gives each corner's offset from the voxel origin in grid steps.
var CornerOffsets = [8][3]uint8{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// EdgeCorners gives the two corners joined by each of the 12 cube edges.
// The first corner always has the lower coordinate along the edge's axis
// so that neighbouring voxels interpolate a shared edge identically.
var EdgeCorners = [12][2]uint8{
	{0, 1}, {1, 2}, {3, 2}, {0, 3},
	{4, 5}, {5, 6}, {7, 6}, {4, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

var (
	numTriangles [256]uint8
	cutEdges     [256]uint16
)

func init() {
	for c := range triangleTable {
		n := 0
		for n < len(triangleTable[c]) && triangleTable[c][n] >= 0 {
			n++
		}
		if n%3 != 0 {
			panic("bug: triangle table row not a multiple of 3")
		}
		numTriangles[c] = uint8(n / 3)
		for e, corners := range EdgeCorners {
			a := c>>corners[0]&1 != 0
			b := c>>corners[1]&1 != 0
			if a != b {
				cutEdges[c] |= 1 << e
			}
		}
	}
}

// NumTriangles returns the number of triangles generated by cube case c.
func NumTriangles(c uint8) int { return int(numTriangles[c]) }

// Triangles returns the cube edges of cube case c's triangles, three per triangle.
// The returned slice must not be modified.
func Triangles(c uint8) []int8 {
	return triangleTable[c][:3*int(numTriangles[c])]
}

// IsCut reports whether the surface crosses edge e of a voxel with cube case c.
func IsCut(c uint8, e int) bool { return cutEdges[c]>>e&1 != 0 }

// CutEdges returns a bitmask of the edges crossed by the surface for cube case c.
func CutEdges(c uint8) uint16 { return cutEdges[c] }
