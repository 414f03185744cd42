// Package sample builds scalar fields for extraction from implicit
// functions, signed distance objects and raw volume files.
package sample

import (
	"errors"
	"fmt"

	"github.com/soypat/flyingedges"
	"github.com/soypat/flyingedges/internal/d3"
	"github.com/soypat/flyingedges/internal/parallel"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDF3 is a signed distance function over r3. It matches the SDF3
// interface of github.com/soypat/sdf.
type SDF3 interface {
	Evaluate(p r3.Vec) float64
	Bounds() r3.Box
}

// FromFunc samples fn over box bb on a regular grid with a spacing of at
// most res along every axis. The grid includes samples on the faces of bb.
// fn is called concurrently and must be safe for concurrent use.
func FromFunc(bb r3.Box, res float64, fn func(r3.Vec) float64) (*flyingedges.Field, error) {
	box := d3.Box(bb)
	if box.Empty() {
		return nil, fmt.Errorf("sample: empty or invalid bounding box %+v", bb)
	}
	if !(res > 0) {
		return nil, errors.New("sample: resolution must be positive")
	}
	nx, ny, nz := box.Grid(res)
	n, err := flyingedges.GridLen(nx, ny, nz)
	if err != nil {
		return nil, err
	}
	spacing := r3.Vec{
		X: (bb.Max.X - bb.Min.X) / float64(nx-1),
		Y: (bb.Max.Y - bb.Min.Y) / float64(ny-1),
		Z: (bb.Max.Z - bb.Min.Z) / float64(nz-1),
	}
	data := make([]float32, n)
	parallel.New(0).For(ny*nz, func(row int) {
		j, k := row%ny, row/ny
		p := r3.Vec{Y: bb.Min.Y + float64(j)*spacing.Y, Z: bb.Min.Z + float64(k)*spacing.Z}
		samples := data[row*nx : (row+1)*nx]
		for i := range samples {
			p.X = bb.Min.X + float64(i)*spacing.X
			samples[i] = float32(fn(p))
		}
	})
	f, err := flyingedges.NewField(nx, ny, nz, data)
	if err != nil {
		return nil, err
	}
	f.Origin = d3.ToMS3(bb.Min)
	f.Spacing = d3.ToMS3(spacing)
	return f, nil
}

// FromSDF3 samples s with spacing of at most res. The bounding box is
// enlarged slightly so the surface does not lie on the grid boundary.
// Extract the result at isovalue 0.
func FromSDF3(s SDF3, res float64) (*flyingedges.Field, error) {
	bb := d3.Box(s.Bounds()).ScaleAboutCenter(1.01)
	return FromFunc(r3.Box(bb), res, s.Evaluate)
}
