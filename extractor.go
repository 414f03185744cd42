package flyingedges

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/chewxy/math32"
)

// Stats describes the work done by the last run of an Extractor.
type Stats struct {
	CutEdges      int // x-edges crossed by the surface.
	VisitedVoxels int // Voxels visited by pass 2.
	SurfaceVoxels int // Voxels producing at least one triangle.
	Triangles     int
	Vertices      int
	Degenerate    int // Interpolations clamped to an edge endpoint.
	PassTimes     [4]time.Duration
}

// Extractor extracts the iso-surface of a field at a fixed isovalue.
// It owns the intermediate buffers of its runs and reuses them across
// calls to Execute. An Extractor is safe for concurrent use but runs are
// serialized.
type Extractor struct {
	mu       sync.Mutex
	field    *Field
	isovalue float32
	cfg      Config
	pool     runPool
	mesh     *Mesh
	stats    Stats
}

// New validates the field and returns an Extractor for isovalue.
// cfg may be nil to use defaults.
func New(f *Field, isovalue float32, cfg *Config) (*Extractor, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if math32.IsNaN(isovalue) {
		return nil, errors.New("isovalue is NaN")
	}
	e := &Extractor{field: f, isovalue: isovalue}
	if cfg != nil {
		e.cfg = *cfg
	}
	return e, nil
}

// Extract is shorthand for creating an Extractor with default
// configuration and executing it once.
func Extract(f *Field, isovalue float32) (*Mesh, error) {
	e, err := New(f, isovalue, nil)
	if err != nil {
		return nil, err
	}
	return e.Execute()
}

// Execute runs the four passes in order and returns the extracted mesh.
// Intermediate buffers are derived from scratch on each call. On error no
// mesh is kept and every intermediate buffer is released.
func (e *Extractor) Execute() (m *Mesh, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mesh = nil
	e.stats = Stats{}
	if e.field.degenerate() {
		e.mesh = &Mesh{}
		return e.mesh, nil
	}
	sched := e.cfg.dispatcher()
	r := &run{
		field:      e.field,
		isovalue:   e.isovalue,
		sched:      sched,
		classifier: e.cfg.classifier(sched),
		pool:       &e.pool,
	}
	r.acquire()
	defer func() {
		if rerr := r.release(); rerr != nil && err == nil {
			m, e.mesh = nil, nil
			err = fmt.Errorf("bug: releasing run buffers: %w", rerr)
		}
	}()
	log := Logger()
	var times [4]time.Duration

	start := time.Now()
	if err = r.classifyEdges(); err != nil {
		return nil, err
	}
	times[0] = time.Since(start)
	log.Debug("flyingedges: pass 1", slog.Duration("took", times[0]), slog.Int64("cutEdges", r.cutEdges.Load()))

	start = time.Now()
	r.assignCubeCases()
	times[1] = time.Since(start)
	log.Debug("flyingedges: pass 2", slog.Duration("took", times[1]), slog.Int64("visited", r.visited.Load()), slog.Int64("surface", r.surface.Load()))

	start = time.Now()
	if err = r.computeOffsets(); err != nil {
		return nil, err
	}
	times[2] = time.Since(start)
	log.Debug("flyingedges: pass 3", slog.Duration("took", times[2]), slog.Int("triangles", r.total))

	start = time.Now()
	r.emit()
	times[3] = time.Since(start)
	log.Debug("flyingedges: pass 4", slog.Duration("took", times[3]), slog.Int("vertices", len(r.mesh.Vertices)))

	e.stats = r.stats()
	e.stats.PassTimes = times
	if e.stats.Degenerate > 0 {
		log.Warn("flyingedges: clamped degenerate interpolations", slog.Int("count", e.stats.Degenerate))
	}
	e.mesh = r.mesh
	return e.mesh, nil
}

// Mesh returns the mesh of the last successful Execute or nil.
func (e *Extractor) Mesh() *Mesh {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mesh
}

// Stats returns counters of the last successful Execute.
func (e *Extractor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// SaveOBJ writes the last extracted mesh to path in Wavefront OBJ format.
// A failed write leaves the in-memory mesh untouched.
func (e *Extractor) SaveOBJ(path string) error {
	m := e.Mesh()
	if m == nil {
		return ErrNoMesh
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fp)
	_, err = m.WriteOBJ(w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("saving OBJ to %s: %w", path, err)
	}
	return nil
}
