// Package parallel fans independent units of work out to goroutines.
//
// Every call blocks until all of its work has completed, so consecutive
// calls are separated by a barrier.
package parallel

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
)

// Dispatcher runs data-parallel loops. The zero value uses GOMAXPROCS workers.
type Dispatcher struct {
	workers int
	// seed, when non-zero, permutes the order in which units are handed out.
	seed int64
}

// New returns a Dispatcher with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) Dispatcher {
	return Dispatcher{workers: workers}
}

// Shuffled returns a Dispatcher that hands out units in a pseudo-random
// order derived from seed. It exists to check that results do not depend
// on scheduling order.
func Shuffled(workers int, seed int64) Dispatcher {
	if seed == 0 {
		seed = 1
	}
	return Dispatcher{workers: workers, seed: seed}
}

// Workers returns the number of goroutines a call may use.
func (d Dispatcher) Workers() int {
	if d.workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return d.workers
}

// For calls fn(i) for every i in [0, n). Units are claimed dynamically so
// fn must not rely on any ordering between units.
func (d Dispatcher) For(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	var perm []int
	if d.seed != 0 {
		perm = rand.New(rand.NewSource(d.seed)).Perm(n)
	}
	workers := min(d.Workers(), n)
	if workers == 1 && perm == nil {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				if perm != nil {
					i = perm[i]
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
}

// Blocks splits [0, n) into at most Workers() contiguous blocks and calls
// fn(block, lo, hi) for each one. It returns the number of blocks.
// Block boundaries depend only on n and Workers(), never on scheduling.
func (d Dispatcher) Blocks(n int, fn func(block, lo, hi int)) int {
	if n <= 0 {
		return 0
	}
	nb := min(d.Workers(), n)
	d.For(nb, func(b int) {
		lo, hi := BlockRange(n, nb, b)
		fn(b, lo, hi)
	})
	return nb
}

// BlockRange returns the half-open range of block b when n units are split
// into nb near-equal contiguous blocks.
func BlockRange(n, nb, b int) (lo, hi int) {
	size, rem := n/nb, n%nb
	lo = b*size + min(b, rem)
	hi = lo + size
	if b < rem {
		hi++
	}
	return lo, hi
}
