// Package render consumes extracted meshes: it streams their triangles,
// writes and reads STL and OBJ files and rasterizes previews.
package render

import (
	"io"

	"github.com/soypat/flyingedges"
	"github.com/soypat/glgl/math/ms3"
)

// Renderer streams triangles. ReadTriangles returns io.EOF once every
// triangle has been read.
type Renderer interface {
	ReadTriangles(dst []ms3.Triangle) (n int, err error)
}

// NewMeshReader returns a Renderer over the triangles of m in order.
func NewMeshReader(m *flyingedges.Mesh) Renderer {
	return &meshReader{m: m}
}

type meshReader struct {
	m    *flyingedges.Mesh
	next int
}

func (r *meshReader) ReadTriangles(dst []ms3.Triangle) (n int, err error) {
	nt := r.m.NumTriangles()
	if r.next >= nt {
		return 0, io.EOF
	}
	for n < len(dst) && r.next < nt {
		dst[n] = r.m.Triangle(r.next)
		n++
		r.next++
	}
	return n, nil
}

// NewTriangleReader returns a Renderer over a triangle slice, such as the
// output of ReadBinarySTL.
func NewTriangleReader(model []ms3.Triangle) Renderer {
	return &triangleReader{buf: model}
}

type triangleReader struct {
	buf []ms3.Triangle
}

func (r *triangleReader) ReadTriangles(dst []ms3.Triangle) (int, error) {
	if len(r.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(dst, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.RenderAll implementation.
func RenderAll(r Renderer) ([]ms3.Triangle, error) {
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, 1<<12)
	buf := make([]ms3.Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}
