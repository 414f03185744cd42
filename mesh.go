package flyingedges

import (
	"io"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Triangle holds three indices into a Mesh's vertices.
type Triangle [3]int32

// Mesh is a triangle soup: every triangle owns its three vertices.
type Mesh struct {
	Vertices  []ms3.Vec
	Triangles []Triangle
}

// NumTriangles returns the number of triangles in the mesh.
func (m *Mesh) NumTriangles() int { return len(m.Triangles) }

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool { return len(m.Triangles) == 0 }

// Triangle returns the vertex positions of the i'th triangle.
func (m *Mesh) Triangle(i int) ms3.Triangle {
	t := m.Triangles[i]
	return ms3.Triangle{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]}
}

// Bounds returns the smallest box containing every vertex. An empty mesh
// has a zero box.
func (m *Mesh) Bounds() ms3.Box {
	if len(m.Vertices) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		bb.Min.X = math32.Min(bb.Min.X, v.X)
		bb.Min.Y = math32.Min(bb.Min.Y, v.Y)
		bb.Min.Z = math32.Min(bb.Min.Z, v.Z)
		bb.Max.X = math32.Max(bb.Max.X, v.X)
		bb.Max.Y = math32.Max(bb.Max.Y, v.Y)
		bb.Max.Z = math32.Max(bb.Max.Z, v.Z)
	}
	return bb
}

// WriteOBJ writes the mesh to w in Wavefront OBJ format: one "v x y z"
// line per vertex followed by one "f a b c" line per triangle with
// 1-based indices. Floats use the shortest representation that round-trips.
func (m *Mesh) WriteOBJ(w io.Writer) (int, error) {
	const flushAt = 32 * 1024
	buf := make([]byte, 0, flushAt+128)
	written := 0
	flush := func() error {
		n, err := w.Write(buf)
		written += n
		buf = buf[:0]
		return err
	}
	for _, v := range m.Vertices {
		buf = append(buf, 'v', ' ')
		buf = strconv.AppendFloat(buf, float64(v.X), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(v.Y), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(v.Z), 'g', -1, 32)
		buf = append(buf, '\n')
		if len(buf) >= flushAt {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	for _, t := range m.Triangles {
		buf = append(buf, 'f', ' ')
		buf = strconv.AppendInt(buf, int64(t[0])+1, 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(t[1])+1, 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(t[2])+1, 10)
		buf = append(buf, '\n')
		if len(buf) >= flushAt {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if len(buf) > 0 {
		if err := flush(); err != nil {
			return written, err
		}
	}
	return written, nil
}
