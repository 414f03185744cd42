//go:build gltest

package glpass

import (
	"log"
	"math/rand"
	"os"
	"runtime"
	"slices"
	"testing"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/soypat/flyingedges"
)

func init() {
	runtime.LockOSThread() // For GL.
}

func TestMain(m *testing.M) {
	terminate, err := InitContext()
	if err != nil {
		log.Fatal(err)
	}
	code := m.Run()
	terminate()
	os.Exit(code)
}

func randomField(t *testing.T, rng *rand.Rand, nx, ny, nz int) *flyingedges.Field {
	data := make([]float32, nx*ny*nz)
	for i := range data {
		data[i] = float32(rng.Intn(5)) * 0.25
	}
	f, err := flyingedges.NewField(nx, ny, nz, data)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestClassifyEdgesCPUvsGPU(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	gpu := NewEdgeClassifier()
	var cpu flyingedges.CPUClassifier
	for _, iso := range []float32{0.5, 0.3, -1} {
		f := randomField(t, rng, 17, 9, 6)
		n := (f.NX - 1) * f.NY * f.NZ
		want := make([]flyingedges.EdgeCase, n)
		got := make([]flyingedges.EdgeCase, n)
		if err := cpu.ClassifyEdges(want, f, iso); err != nil {
			t.Fatal(err)
		}
		if err := gpu.ClassifyEdges(got, f, iso); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("iso %v: GPU edge cases differ from CPU", iso)
		}
	}
	if len(gpu.progs) != 3 {
		t.Errorf("cached %d programs, want 3", len(gpu.progs))
	}
	gpu.Delete()
	if len(gpu.progs) != 0 {
		t.Errorf("%d programs left after Delete", len(gpu.progs))
	}
}

func TestClassifyEdgesReleasesTextures(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	gpu := NewEdgeClassifier()
	defer gpu.Delete()
	f := randomField(t, rng, 9, 7, 5)
	dst := make([]flyingedges.EdgeCase, (f.NX-1)*f.NY*f.NZ)
	if err := gpu.ClassifyEdges(dst, f, 0.5); err != nil {
		t.Fatal(err)
	}
	// Texture names are recycled once deleted, so a leak shows up as a
	// growing name on each call.
	var first uint32
	gl.GenTextures(1, &first)
	gl.DeleteTextures(1, &first)
	for i := 0; i < 50; i++ {
		if err := gpu.ClassifyEdges(dst, f, 0.5); err != nil {
			t.Fatal(err)
		}
	}
	var last uint32
	gl.GenTextures(1, &last)
	gl.DeleteTextures(1, &last)
	if last > first+2 {
		t.Errorf("texture names grew from %d to %d over repeated calls", first, last)
	}
	if len(gpu.progs) != 1 {
		t.Errorf("cached %d programs for a single isovalue, want 1", len(gpu.progs))
	}
}

func TestExtractWithGPU(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	f := randomField(t, rng, 12, 10, 8)
	want, err := flyingedges.Extract(f, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	gpu := NewEdgeClassifier()
	defer gpu.Delete()
	e, err := flyingedges.New(f, 0.5, &flyingedges.Config{Classifier: gpu})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Execute()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Vertices, want.Vertices) || !slices.Equal(got.Triangles, want.Triangles) {
		t.Fatal("mesh with GPU pass 1 differs from CPU mesh")
	}
}
