package sample

import (
	"github.com/gmlewis/stldice/v4/binvox"
	"github.com/soypat/flyingedges"
)

// WriteBinvox voxelizes f into a binvox file at path. A grid point becomes
// a filled voxel when its sample is at or above isovalue, the same rule the
// extractor uses to decide which side of the surface a point lies on.
func WriteBinvox(path string, f *flyingedges.Field, isovalue float32) error {
	if err := f.Validate(); err != nil {
		return err
	}
	spacing := f.Spacing
	if spacing.Z == 0 {
		spacing.Z = 1
	}
	scale := float64(spacing.Z) * float64(f.NZ-1)
	b := binvox.New(f.NX, f.NY, f.NZ, float64(f.Origin.X), float64(f.Origin.Y), float64(f.Origin.Z), scale, false)
	for k := 0; k < f.NZ; k++ {
		for j := 0; j < f.NY; j++ {
			for i := 0; i < f.NX; i++ {
				if f.At(i, j, k) >= isovalue {
					b.Add(i, j, k)
				}
			}
		}
	}
	return b.Write(path, 0, 0, 0, b.NX, b.NY, b.NZ)
}
