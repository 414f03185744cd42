package flyingedges

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/flyingedges/cases"
)

// randomField returns a field whose samples are drawn from levels so that
// ties with the isovalue are common.
func randomField(rng *rand.Rand, nx, ny, nz int, levels []float32) *Field {
	data := make([]float32, nx*ny*nz)
	for i := range data {
		data[i] = levels[rng.Intn(len(levels))]
	}
	return &Field{NX: nx, NY: ny, NZ: nz, Data: data}
}

// marchingCubes is a straightforward reference that visits every voxel in
// index order.
func marchingCubes(f *Field, iso float32) *Mesh {
	m := &Mesh{}
	for k := 0; k < f.NZ-1; k++ {
		for j := 0; j < f.NY-1; j++ {
			for i := 0; i < f.NX-1; i++ {
				var vals [8]float32
				var cube uint8
				for c, off := range cases.CornerOffsets {
					vals[c] = f.At(i+int(off[0]), j+int(off[1]), k+int(off[2]))
					if vals[c] >= iso {
						cube |= 1 << c
					}
				}
				for _, e := range cases.Triangles(cube) {
					p, _ := edgeVertex(int(e), i, j, k, &vals, iso)
					m.Vertices = append(m.Vertices, f.Position(p))
				}
				for t := 0; t < cases.NumTriangles(cube); t++ {
					vi := int32(len(m.Triangles) * 3)
					m.Triangles = append(m.Triangles, Triangle{vi, vi + 1, vi + 2})
				}
			}
		}
	}
	return m
}

// sphereField samples the signed distance to a sphere of radius r centered
// slightly off the middle of an n^3 grid.
func sphereField(n int, r float32) *Field {
	c := float32(n-1)/2 + 0.137
	data := make([]float32, n*n*n)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				dx, dy, dz := float32(i)-c, float32(j)-c, float32(k)-c
				data[i+n*(j+n*k)] = math32.Sqrt(dx*dx+dy*dy+dz*dz) - r
			}
		}
	}
	return &Field{NX: n, NY: n, NZ: n, Data: data}
}

func newTestRun(e *Extractor) *run {
	sched := e.cfg.dispatcher()
	r := &run{
		field:      e.field,
		isovalue:   e.isovalue,
		sched:      sched,
		classifier: e.cfg.classifier(sched),
		pool:       &e.pool,
	}
	r.acquire()
	return r
}

func TestMatchesMarchingCubes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, test := range []struct {
		nx, ny, nz int
		levels     []float32
		iso        float32
	}{
		{2, 2, 2, []float32{0, 1}, 0.5},
		{5, 4, 3, []float32{0, 1, 2}, 1},
		{7, 6, 5, []float32{-1, 0, 1}, 0},
		{13, 3, 9, []float32{0, 0, 0, 0, 1}, 0.5},
		{3, 11, 8, []float32{0.25, 0.5, 0.75}, 0.5},
		{16, 16, 16, []float32{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, 1},
	} {
		for trial := 0; trial < 8; trial++ {
			f := randomField(rng, test.nx, test.ny, test.nz, test.levels)
			want := marchingCubes(f, test.iso)
			got, err := Extract(f, test.iso)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got.Triangles, want.Triangles) {
				t.Fatalf("%dx%dx%d trial %d: got %d triangles, want %d", test.nx, test.ny, test.nz, trial, len(got.Triangles), len(want.Triangles))
			}
			if !slices.Equal(got.Vertices, want.Vertices) {
				t.Fatalf("%dx%dx%d trial %d: vertex mismatch", test.nx, test.ny, test.nz, trial)
			}
		}
	}
}

func TestPassInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 20; trial++ {
		f := randomField(rng, 3+rng.Intn(12), 2+rng.Intn(8), 2+rng.Intn(8), []float32{0, 0, 0, 1, 2})
		e, err := New(f, 1, &Config{Workers: 1 + trial%4})
		if err != nil {
			t.Fatal(err)
		}
		r := newTestRun(e)
		if err := r.classifyEdges(); err != nil {
			t.Fatal(err)
		}
		nxe := f.numEdges()
		for row, tr := range r.edgeTrims {
			for i := 0; i < nxe; i++ {
				if r.edges[row*nxe+i].Cut() && !tr.Contains(i) {
					t.Fatalf("row %d: cut edge %d outside edge trim %+v", row, i, tr)
				}
			}
			if !tr.Empty() && (!r.edges[row*nxe+tr.Min].Cut() || !r.edges[row*nxe+tr.Max].Cut()) {
				t.Fatalf("row %d: edge trim %+v not tight", row, tr)
			}
		}
		r.assignCubeCases()
		for vrow, tr := range r.voxTrims {
			span := r.spans[vrow]
			if !tr.Empty() && (tr.Min < span.Min || tr.Max > span.Max) {
				t.Fatalf("voxel row %d: trim %+v not within candidate span %+v", vrow, tr, span)
			}
			if tr.Min > tr.Max+1 {
				t.Fatalf("voxel row %d: malformed trim %+v", vrow, tr)
			}
			for i := 0; i < nxe; i++ {
				n := r.triCounts[vrow*nxe+i]
				if n > 0 && !tr.Contains(i) {
					t.Fatalf("voxel row %d: surface voxel %d outside trim %+v", vrow, i, tr)
				}
			}
		}
		if err := r.computeOffsets(); err != nil {
			t.Fatal(err)
		}
		last := len(r.offsets) - 1
		if r.offsets[0] != 0 {
			t.Fatalf("first offset %d, want 0", r.offsets[0])
		}
		for i := 0; i < last; i++ {
			if r.offsets[i+1] != r.offsets[i]+int(r.triCounts[i]) {
				t.Fatalf("offset %d: %d != %d + %d", i+1, r.offsets[i+1], r.offsets[i], r.triCounts[i])
			}
		}
		if r.offsets[last]+int(r.triCounts[last]) != r.total {
			t.Fatalf("offsets do not add up to total %d", r.total)
		}
		r.emit()
		if len(r.mesh.Vertices) != 3*r.total || len(r.mesh.Triangles) != r.total {
			t.Fatalf("mesh sized %d vertices %d triangles, want %d triangles", len(r.mesh.Vertices), len(r.mesh.Triangles), r.total)
		}
		if err := r.release(); err != nil {
			t.Fatal(err)
		}
		if err := e.pool.assertAllReleased(); err != nil {
			t.Fatal(err)
		}
	}
}

// The surface crosses between rows without cutting any x-edge. The
// candidate span must still cover the row.
func TestSurfaceBetweenRows(t *testing.T) {
	const nx, ny, nz = 6, 2, 2
	data := make([]float32, nx*ny*nz)
	for k := 0; k < nz; k++ {
		for i := 0; i < nx; i++ {
			data[i+nx*(1+ny*k)] = 1 // rows at j=1 above.
		}
	}
	f, err := NewField(nx, ny, nz, data)
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(f, 0.5, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, err := e.Execute()
	if err != nil {
		t.Fatal(err)
	}
	st := e.Stats()
	if st.CutEdges != 0 {
		t.Errorf("got %d cut x-edges, want 0", st.CutEdges)
	}
	if m.NumTriangles() != 2*(nx-1) {
		t.Errorf("got %d triangles, want %d", m.NumTriangles(), 2*(nx-1))
	}
	for _, v := range m.Vertices {
		if v.Y != 0.5 {
			t.Fatalf("vertex %v off the y=0.5 plane", v)
		}
	}
}

func TestShuffledScheduling(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	f := randomField(rng, 20, 17, 9, []float32{0, 0.5, 1, 2})
	want, err := Extract(f, 0.75)
	if err != nil {
		t.Fatal(err)
	}
	for seed := int64(1); seed < 6; seed++ {
		e, err := New(f, 0.75, &Config{Workers: int(seed), shuffleSeed: seed})
		if err != nil {
			t.Fatal(err)
		}
		got, err := e.Execute()
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(got.Vertices, want.Vertices) || !slices.Equal(got.Triangles, want.Triangles) {
			t.Fatalf("seed %d: mesh depends on scheduling order", seed)
		}
	}
}

func TestPoolReuse(t *testing.T) {
	f := sphereField(12, 4.3)
	e, err := New(f, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := e.Execute(); err != nil {
			t.Fatal(err)
		}
		if err := e.pool.assertAllReleased(); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(e.pool.trims._ins); n != 3 {
		t.Errorf("trim pool grew to %d buffers across runs, want 3", n)
	}
	if n := len(e.pool.bytes._ins); n != 2 {
		t.Errorf("byte pool grew to %d buffers across runs, want 2", n)
	}
}

type failingClassifier struct{}

var errDevice = errors.New("device lost")

func (failingClassifier) ClassifyEdges([]EdgeCase, *Field, float32) error { return errDevice }

func TestClassifierFailure(t *testing.T) {
	f := sphereField(8, 2.5)
	e, err := New(f, 0, &Config{Classifier: failingClassifier{}})
	if err != nil {
		t.Fatal(err)
	}
	m, err := e.Execute()
	if m != nil {
		t.Error("got partial mesh on failure")
	}
	var perr *PassError
	if !errors.As(err, &perr) || perr.Pass != 1 || !errors.Is(err, errDevice) {
		t.Fatalf("got error %v, want pass 1 error wrapping %v", err, errDevice)
	}
	if e.Mesh() != nil {
		t.Error("extractor kept a mesh after failure")
	}
	if err := e.pool.assertAllReleased(); err != nil {
		t.Fatal(err)
	}
}

func TestBufPool(t *testing.T) {
	var bp bufPool[int]
	a := bp.Acquire(10)
	a[3] = 7
	if err := bp.Release(a); err != nil {
		t.Fatal(err)
	}
	if err := bp.Release(a); err == nil {
		t.Error("expected error on double release")
	}
	b := bp.Acquire(5)
	if &b[0] != &a[0] {
		t.Error("expected buffer to be reused")
	}
	if b[3] != 0 {
		t.Error("reused buffer not zeroed")
	}
	if err := bp.assertAllReleased(); err == nil {
		t.Error("expected leak to be reported")
	}
	if bp.Acquire(0) != nil {
		t.Error("expected nil for zero length")
	}
	if err := bp.Release(nil); err != nil {
		t.Error(err)
	}
	if err := bp.Release(make([]int, 3)); err == nil {
		t.Error("expected error releasing foreign buffer")
	}
}
