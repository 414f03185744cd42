package d3

import (
	"math"

	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// d3.Box is a 3d bounding box.
type Box r3.Box

// NewBox creates a 3d box with a given center and size.
func NewBox(center, size r3.Vec) Box {
	half := r3.Scale(0.5, size)
	return Box{Min: r3.Sub(center, half), Max: r3.Add(center, half)}
}

// Equals test the equality of 3d boxes.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// ScaleAboutCenter returns a new 3d box scaled about the center of a box.
func (a Box) ScaleAboutCenter(k float64) Box {
	return NewBox(a.Center(), r3.Scale(k, a.Size()))
}

// Empty reports whether the box has no volume or is malformed.
func (a Box) Empty() bool {
	return LTEZero(a.Size()) || math.IsNaN(a.Min.X+a.Min.Y+a.Min.Z+a.Max.X+a.Max.Y+a.Max.Z)
}

// Grid returns the number of samples along each axis needed to cover the
// box with a sample spacing of at most res, counting both end samples.
func (a Box) Grid(res float64) (nx, ny, nz int) {
	n := CeilElem(r3.Scale(1/res, a.Size()))
	return int(n.X) + 1, int(n.Y) + 1, int(n.Z) + 1
}

// ToMS3 converts a gonum vector to a single precision glgl vector.
func ToMS3(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
