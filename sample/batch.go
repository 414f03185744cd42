package sample

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/flyingedges"
	"github.com/soypat/glgl/math/ms3"
)

// BatchSDF3 evaluates distances of many positions per call. GPU backed
// evaluators from the glgl ecosystem implement it.
type BatchSDF3 interface {
	Evaluate(pos []ms3.Vec, dist []float32, userData any) error
	Bounds() ms3.Box
}

// FromBatch samples s one z-slice per Evaluate call with a spacing of at
// most res. Evaluate is never called concurrently. userData is passed
// through to s.
func FromBatch(s BatchSDF3, res float32, userData any) (*flyingedges.Field, error) {
	if !(res > 0) {
		return nil, errors.New("sample: resolution must be positive")
	}
	bb := s.Bounds().Scale(ms3.Vec{X: 1.01, Y: 1.01, Z: 1.01})
	size := bb.Size()
	if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
		return nil, errors.New("sample: empty or invalid bounding box")
	}
	nx := int(math32.Ceil(size.X/res)) + 1
	ny := int(math32.Ceil(size.Y/res)) + 1
	nz := int(math32.Ceil(size.Z/res)) + 1
	n, err := flyingedges.GridLen(nx, ny, nz)
	if err != nil {
		return nil, err
	}
	spacing := ms3.Vec{
		X: size.X / float32(nx-1),
		Y: size.Y / float32(ny-1),
		Z: size.Z / float32(nz-1),
	}
	data := make([]float32, n)
	pos := make([]ms3.Vec, nx*ny)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				pos[i+nx*j] = ms3.Add(bb.Min, ms3.MulElem(spacing, ms3.Vec{X: float32(i), Y: float32(j), Z: float32(k)}))
			}
		}
		err = s.Evaluate(pos, data[k*nx*ny:(k+1)*nx*ny], userData)
		if err != nil {
			return nil, err
		}
	}
	f, err := flyingedges.NewField(nx, ny, nz, data)
	if err != nil {
		return nil, err
	}
	f.Origin = bb.Min
	f.Spacing = spacing
	return f, nil
}
