package scan

import (
	"math/rand"
	"testing"

	"github.com/soypat/flyingedges/internal/parallel"
)

func serialExclusive(src []int32) ([]int, int) {
	dst := make([]int, len(src))
	acc := 0
	for i, v := range src {
		dst[i] = acc
		acc += int(v)
	}
	return dst, acc
}

func TestExclusiveMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 2, 3, 17, 1000, 4099} {
		src := make([]int32, n)
		for i := range src {
			if rng.Intn(3) == 0 {
				src[i] = int32(rng.Intn(6))
			}
		}
		want, wantTotal := serialExclusive(src)
		for _, d := range []parallel.Dispatcher{parallel.New(1), parallel.New(5), parallel.Shuffled(8, 3)} {
			got := make([]int, n)
			total := Exclusive(d, got, src)
			if total != wantTotal {
				t.Fatalf("n=%d workers=%d: total %d, want %d", n, d.Workers(), total, wantTotal)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("n=%d workers=%d: dst[%d]=%d, want %d", n, d.Workers(), i, got[i], want[i])
				}
			}
		}
	}
}

func TestExclusiveInvariants(t *testing.T) {
	src := []uint8{0, 0, 2, 5, 0, 1, 0, 0, 4}
	dst := make([]int, len(src))
	total := Exclusive(parallel.New(4), dst, src)
	for i := 0; i+1 < len(dst); i++ {
		if dst[i+1] != dst[i]+int(src[i]) {
			t.Errorf("dst[%d]=%d, want dst[%d]+src[%d]=%d", i+1, dst[i+1], i, i, dst[i]+int(src[i]))
		}
	}
	last := len(src) - 1
	if dst[last]+int(src[last]) != total {
		t.Errorf("last offset %d + count %d != total %d", dst[last], src[last], total)
	}
	if total != 12 {
		t.Errorf("got total %d, want 12", total)
	}
}

func TestExclusiveLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	Exclusive(parallel.New(1), make([]int, 2), make([]int32, 3))
}

func BenchmarkExclusive(b *testing.B) {
	src := make([]int32, 1<<22)
	for i := range src {
		src[i] = int32(i % 5)
	}
	dst := make([]int, len(src))
	d := parallel.New(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Exclusive(d, dst, src)
	}
}
