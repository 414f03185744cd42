package flyingedges

import (
	"github.com/soypat/flyingedges/cases"
	"github.com/soypat/glgl/math/ms3"
)

// emit runs pass 4. Each surface voxel writes 3 fresh vertices per triangle
// into the slice of the output given by its offset.
func (r *run) emit() {
	f := r.field
	nxv := f.numEdges()
	nyv := f.NY - 1
	verts := make([]ms3.Vec, 3*r.total)
	tris := make([]Triangle, r.total)
	var cornerIdx [8]int
	for c, off := range cases.CornerOffsets {
		cornerIdx[c] = f.Index(int(off[0]), int(off[1]), int(off[2]))
	}
	r.sched.For(len(r.voxTrims), func(vrow int) {
		tr := r.voxTrims[vrow]
		if tr.Empty() {
			return
		}
		j, k := vrow%nyv, vrow/nyv
		base := vrow * nxv
		degenerate := 0
		var vals [8]float32
		for i := tr.Min; i <= tr.Max; i++ {
			n := int(r.triCounts[base+i])
			if n == 0 {
				continue
			}
			cube := r.cubeCases[base+i]
			if n != cases.NumTriangles(cube) {
				panic("bug: triangle count does not match cube case")
			}
			origin := f.Index(i, j, k)
			for c := range vals {
				vals[c] = f.Data[origin+cornerIdx[c]]
			}
			edges := cases.Triangles(cube)
			off := r.offsets[base+i]
			for t := 0; t < n; t++ {
				vi := 3 * (off + t)
				for c := 0; c < 3; c++ {
					p, deg := edgeVertex(int(edges[3*t+c]), i, j, k, &vals, r.isovalue)
					if deg {
						degenerate++
					}
					verts[vi+c] = f.Position(p)
				}
				tris[off+t] = Triangle{int32(vi), int32(vi + 1), int32(vi + 2)}
			}
		}
		if degenerate > 0 {
			r.degenerate.Add(int64(degenerate))
		}
	})
	r.mesh = &Mesh{Vertices: verts, Triangles: tris}
}

// edgeVertex interpolates the surface crossing on cube edge e of voxel
// (i,j,k) in grid index coordinates. Edges are always walked from their
// lower corner so neighbouring voxels produce identical positions.
func edgeVertex(e, i, j, k int, vals *[8]float32, isovalue float32) (ms3.Vec, bool) {
	a, b := cases.EdgeCorners[e][0], cases.EdgeCorners[e][1]
	t, deg := Interpolate(vals[a], vals[b], isovalue)
	pa, pb := cases.CornerOffsets[a], cases.CornerOffsets[b]
	return ms3.Vec{
		X: float32(i+int(pa[0])) + t*float32(int(pb[0])-int(pa[0])),
		Y: float32(j+int(pa[1])) + t*float32(int(pb[1])-int(pa[1])),
		Z: float32(k+int(pa[2])) + t*float32(int(pb[2])-int(pa[2])),
	}, deg
}
