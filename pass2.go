package flyingedges

import "github.com/soypat/flyingedges/cases"

// assignCubeCases runs pass 2. For every voxel row it derives a candidate
// span from the trims of the row's four x-edge rows, computes the cube case
// and triangle count of the voxels in the span and tightens the row's trim
// to the voxels that produce triangles. Voxels outside the candidate span
// are never visited and keep a zero triangle count.
func (r *run) assignCubeCases() {
	f := r.field
	nxv := f.numEdges()
	nyv := f.NY - 1
	r.sched.For(len(r.voxTrims), func(vrow int) {
		j, k := vrow%nyv, vrow/nyv
		rows := [4]int{
			j + f.NY*k,
			j + 1 + f.NY*k,
			j + f.NY*(k+1),
			j + 1 + f.NY*(k+1),
		}
		var ecs [4][]EdgeCase
		var trims [4]TrimRange
		for n, row := range rows {
			ecs[n] = r.edges[row*nxv : (row+1)*nxv]
			trims[n] = r.edgeTrims[row]
		}
		span := candidateSpan(&ecs, &trims, nxv)
		r.spans[vrow] = span
		tr := emptyTrim(nxv)
		if span.Empty() {
			r.voxTrims[vrow] = tr
			return
		}
		base := vrow * nxv
		cubes := r.cubeCases[base : base+nxv]
		counts := r.triCounts[base : base+nxv]
		surface := 0
		for i := span.Min; i <= span.Max; i++ {
			cube := CubeCaseOf(ecs[0][i], ecs[1][i], ecs[2][i], ecs[3][i])
			n := cases.NumTriangles(cube)
			cubes[i] = cube
			counts[i] = uint8(n)
			if n > 0 {
				tr.include(i)
				surface++
			}
		}
		r.voxTrims[vrow] = tr
		r.visited.Add(int64(span.Len()))
		if surface > 0 {
			r.surface.Add(int64(surface))
		}
	})
}

// candidateSpan returns the voxels of a row that may produce triangles given
// the edge cases and trims of its four x-edge rows.
//
// Outside the union of the edge trims no x-edge of the four rows is cut so
// every row keeps a constant corner state there. The voxels in those end
// segments produce triangles exactly when the four states differ, which
// happens when the surface passes between the rows without cutting an x-edge.
// In that case the span is widened to the end of the row.
func candidateSpan(ecs *[4][]EdgeCase, trims *[4]TrimRange, nxv int) TrimRange {
	span := emptyTrim(nxv)
	for _, tr := range trims {
		if !tr.Empty() {
			span.include(tr.Min)
			span.include(tr.Max)
		}
	}
	if span.Empty() {
		if statesDiffer(ecs, 0) {
			return TrimRange{Min: 0, Max: nxv - 1}
		}
		return span
	}
	if span.Min > 0 && statesDiffer(ecs, span.Min) {
		span.Min = 0
	}
	if span.Max < nxv-1 && statesDiffer(ecs, span.Max+1) {
		span.Max = nxv - 1
	}
	return span
}

// statesDiffer reports whether the four rows disagree on whether grid
// point p along x is at or above the isovalue.
func statesDiffer(ecs *[4][]EdgeCase, p int) bool {
	s := cornerState(ecs[0], p)
	for _, row := range ecs[1:] {
		if cornerState(row, p) != s {
			return true
		}
	}
	return false
}

// cornerState returns 1 if grid point p of an edge row is at or above the
// isovalue. The last point of the row is only the right end of an edge.
func cornerState(row []EdgeCase, p int) uint8 {
	if p < len(row) {
		return row[p].left()
	}
	return row[len(row)-1].right()
}
