package sample

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/flyingedges"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromSDFX samples an sdfx solid with a spacing of at most res.
// Extract the result at isovalue 0.
func FromSDFX(s sdf.SDF3, res float64) (*flyingedges.Field, error) {
	return FromSDF3(sdfxSDF3{s: s}, res)
}

type sdfxSDF3 struct {
	s sdf.SDF3
}

func (s sdfxSDF3) Evaluate(p r3.Vec) float64 {
	return s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (s sdfxSDF3) Bounds() r3.Box {
	bb := s.s.BoundingBox()
	return r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}
