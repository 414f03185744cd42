// Package scan implements an exact, deterministic parallel exclusive prefix sum.
package scan

import "github.com/soypat/flyingedges/internal/parallel"

// Integer is the set of element types the scan accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Exclusive writes the exclusive prefix sum of src into dst and returns
// the total sum, so that dst[i+1] == dst[i] + src[i] and
// dst[len-1] + src[len-1] == total. dst and src must have equal length.
//
// The input is split into contiguous blocks, one per worker. Block sums
// are computed in parallel, scanned serially and then used as the base of
// a second parallel pass. Block boundaries do not depend on scheduling so
// the result is identical for any worker interleaving.
func Exclusive[D, S Integer](d parallel.Dispatcher, dst []D, src []S) (total D) {
	if len(dst) != len(src) {
		panic("scan: length mismatch between dst and src")
	}
	n := len(src)
	if n == 0 {
		return 0
	}
	nb := min(d.Workers(), n)
	sums := make([]D, nb)
	d.For(nb, func(b int) {
		lo, hi := parallel.BlockRange(n, nb, b)
		var s D
		for _, v := range src[lo:hi] {
			s += D(v)
		}
		sums[b] = s
	})
	for b, s := range sums {
		sums[b] = total
		total += s
	}
	d.For(nb, func(b int) {
		lo, hi := parallel.BlockRange(n, nb, b)
		acc := sums[b]
		for i := lo; i < hi; i++ {
			dst[i] = acc
			acc += D(src[i])
		}
	})
	return total
}
