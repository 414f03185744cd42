package sample_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/flyingedges"
	"github.com/soypat/flyingedges/sample"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

type sphere struct{ r float64 }

func (s sphere) Evaluate(p r3.Vec) float64 { return r3.Norm(p) - s.r }
func (s sphere) Bounds() r3.Box {
	return r3.Box{Min: r3.Vec{X: -s.r, Y: -s.r, Z: -s.r}, Max: r3.Vec{X: s.r, Y: s.r, Z: s.r}}
}

// batchSphere evaluates a sphere on the CPU through the batch interface.
type batchSphere struct {
	r      float32
	center ms3.Vec
	calls  int
}

func (s *batchSphere) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errors.New("length mismatch")
	}
	s.calls++
	for i, p := range pos {
		dist[i] = ms3.Norm(ms3.Sub(p, s.center)) - s.r
	}
	return nil
}

func (s *batchSphere) Bounds() ms3.Box {
	half := ms3.Vec{X: s.r, Y: s.r, Z: s.r}
	return ms3.Box{Min: ms3.Sub(s.center, half), Max: ms3.Add(s.center, half)}
}

func checkSphereMesh(t *testing.T, f *flyingedges.Field, r float32) {
	t.Helper()
	m, err := flyingedges.Extract(f, 0)
	if err != nil {
		t.Fatal(err)
	}
	if m.IsEmpty() {
		t.Fatal("empty mesh")
	}
	tol := 2 * math32.Max(f.Spacing.X, math32.Max(f.Spacing.Y, f.Spacing.Z))
	for _, v := range m.Vertices {
		if d := math32.Abs(ms3.Norm(v) - r); d > tol {
			t.Fatalf("vertex %v is %g away from sphere surface", v, d)
		}
	}
}

func TestFromFunc(t *testing.T) {
	bb := r3.Box{Max: r3.Vec{X: 1, Y: 2, Z: 3}}
	f, err := sample.FromFunc(bb, 0.5, func(p r3.Vec) float64 { return p.X + 10*p.Y + 100*p.Z })
	if err != nil {
		t.Fatal(err)
	}
	if f.NX != 3 || f.NY != 5 || f.NZ != 7 {
		t.Fatalf("got grid %dx%dx%d, want 3x5x7", f.NX, f.NY, f.NZ)
	}
	if f.Spacing != (ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) || f.Origin != (ms3.Vec{}) {
		t.Fatalf("got spacing %v origin %v", f.Spacing, f.Origin)
	}
	if got := f.At(2, 4, 6); got != 1+20+300 {
		t.Errorf("corner sample %v, want 321", got)
	}
	if got := f.At(1, 2, 3); got != 0.5+10+150 {
		t.Errorf("inner sample %v, want 160.5", got)
	}
	if _, err := sample.FromFunc(r3.Box{}, 0.5, nil); err == nil {
		t.Error("expected error for empty box")
	}
	if _, err := sample.FromFunc(bb, 0, nil); err == nil {
		t.Error("expected error for zero resolution")
	}
}

func TestFromSDF3(t *testing.T) {
	f, err := sample.FromSDF3(sphere{r: 2}, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	checkSphereMesh(t, f, 2)
}

func TestFromSDFX(t *testing.T) {
	s, err := sdf.Sphere3D(1.5)
	if err != nil {
		t.Fatal(err)
	}
	f, err := sample.FromSDFX(s, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	checkSphereMesh(t, f, 1.5)
}

func TestFromBatch(t *testing.T) {
	s := &batchSphere{r: 1}
	f, err := sample.FromBatch(s, 0.1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.calls != f.NZ {
		t.Errorf("got %d Evaluate calls, want one per z-slice (%d)", s.calls, f.NZ)
	}
	checkSphereMesh(t, f, 1)
}

func TestFromBatchOffCenter(t *testing.T) {
	s := &batchSphere{r: 1, center: ms3.Vec{X: 10, Y: -4, Z: 2.5}}
	f, err := sample.FromBatch(s, 0.1, nil)
	if err != nil {
		t.Fatal(err)
	}
	// The sampled box must stay centered on the object and enclose it.
	far := f.Position(ms3.Vec{X: float32(f.NX - 1), Y: float32(f.NY - 1), Z: float32(f.NZ - 1)})
	mid := ms3.Scale(0.5, ms3.Add(f.Origin, far))
	if d := ms3.Norm(ms3.Sub(mid, s.center)); d > 1e-4 {
		t.Errorf("sampled box centered at %v, want %v", mid, s.center)
	}
	bb := s.Bounds()
	if f.Origin.X > bb.Min.X || f.Origin.Y > bb.Min.Y || f.Origin.Z > bb.Min.Z {
		t.Errorf("origin %v does not enclose bounds min %v", f.Origin, bb.Min)
	}
	m, err := flyingedges.Extract(f, 0)
	if err != nil {
		t.Fatal(err)
	}
	if m.IsEmpty() {
		t.Fatal("empty mesh")
	}
	for _, v := range m.Vertices {
		if d := math32.Abs(ms3.Norm(ms3.Sub(v, s.center)) - s.r); d > 0.2 {
			t.Fatalf("vertex %v is %g away from sphere surface", v, d)
		}
	}
}

func TestReadRaw(t *testing.T) {
	const nx, ny, nz = 4, 3, 2
	want := make([]float32, nx*ny*nz)
	for i := range want {
		want[i] = float32(i) - 7.5
	}
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		var buf bytes.Buffer
		binary.Write(&buf, order, want)
		f, err := sample.ReadRaw(&buf, nx, ny, nz, order)
		if err != nil {
			t.Fatal(err)
		}
		for i := range want {
			if f.Data[i] != want[i] {
				t.Fatalf("%v: sample %d got %v, want %v", order, i, f.Data[i], want[i])
			}
		}
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, want[:5])
	if _, err := sample.ReadRaw(&buf, nx, ny, nz, binary.LittleEndian); !errors.Is(err, flyingedges.ErrFieldSize) {
		t.Errorf("short volume: got %v, want ErrFieldSize", err)
	}
	if _, err := sample.ReadRaw(&buf, 0, ny, nz, binary.LittleEndian); !errors.Is(err, flyingedges.ErrInvalidDims) {
		t.Errorf("bad dims: got %v, want ErrInvalidDims", err)
	}
}

func TestLoadRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.raw")
	data := make([]float32, 27)
	for i := range data {
		data[i] = float32(math.Abs(float64(i - 13)))
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, data)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := sample.LoadRaw(path, 3, 3, 3, binary.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	if f.At(1, 1, 1) != 0 {
		t.Errorf("center sample %v, want 0", f.At(1, 1, 1))
	}
	if _, err := sample.LoadRaw(filepath.Join(t.TempDir(), "missing.raw"), 3, 3, 3, binary.LittleEndian); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteBinvox(t *testing.T) {
	f, err := sample.FromSDF3(sphere{r: 1}, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sphere.binvox")
	if err := sample.WriteBinvox(path, f, 0); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty binvox file")
	}
}
