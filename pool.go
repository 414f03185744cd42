package flyingedges

import (
	"errors"
	"fmt"
)

// bufPool hands out reusable slices so repeated runs of an Extractor do not
// regenerate garbage proportional to the grid. It is not safe for
// concurrent use.
type bufPool[T any] struct {
	_ins      [][]T
	_acquired []bool
}

// Acquire returns a zeroed slice of length n. A zero n yields nil.
func (bp *bufPool[T]) Acquire(n int) []T {
	if n == 0 {
		return nil
	}
	for i, locked := range bp._acquired {
		if !locked && cap(bp._ins[i]) >= n {
			bp._acquired[i] = true
			buf := bp._ins[i][:n]
			clear(buf)
			return buf
		}
	}
	newSlice := make([]T, n)
	bp._ins = append(bp._ins, newSlice)
	bp._acquired = append(bp._acquired, true)
	return newSlice
}

// Release returns buf to the pool. Releasing nil is a no-op.
func (bp *bufPool[T]) Release(buf []T) error {
	if cap(buf) == 0 {
		return nil
	}
	for i, instance := range bp._ins {
		if &instance[:1][0] == &buf[:1][0] {
			if !bp._acquired[i] {
				return errors.New("release of unacquired resource")
			}
			bp._acquired[i] = false
			return nil
		}
	}
	return errors.New("release of nonexistent resource")
}

func (bp *bufPool[T]) assertAllReleased() error {
	for _, locked := range bp._acquired {
		if locked {
			return fmt.Errorf("locked %T resource found in bufPool.assertAllReleased, memory leak?", *new(T))
		}
	}
	return nil
}

// runPool holds the intermediate buffers of the passes.
type runPool struct {
	edges   bufPool[EdgeCase]
	trims   bufPool[TrimRange]
	bytes   bufPool[uint8]
	offsets bufPool[int]
}

// assertAllReleased checks no buffer is in use. Called after a run to
// find leaks.
func (rp *runPool) assertAllReleased() error {
	if err := rp.edges.assertAllReleased(); err != nil {
		return err
	}
	if err := rp.trims.assertAllReleased(); err != nil {
		return err
	}
	if err := rp.bytes.assertAllReleased(); err != nil {
		return err
	}
	return rp.offsets.assertAllReleased()
}
