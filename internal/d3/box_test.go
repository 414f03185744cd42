package d3

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestScaleAboutCenter(t *testing.T) {
	b := Box{Min: r3.Vec{X: -1, Y: 0, Z: 2}, Max: r3.Vec{X: 1, Y: 4, Z: 3}}
	got := b.ScaleAboutCenter(2)
	want := Box{Min: r3.Vec{X: -2, Y: -2, Z: 1.5}, Max: r3.Vec{X: 2, Y: 6, Z: 3.5}}
	if !got.Equals(want, 1e-12) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !EqualWithin(got.Center(), b.Center(), 1e-12) {
		t.Errorf("center moved: %v -> %v", b.Center(), got.Center())
	}
}

func TestGrid(t *testing.T) {
	b := Box{Max: r3.Vec{X: 1, Y: 2, Z: 0.25}}
	nx, ny, nz := b.Grid(0.5)
	if nx != 3 || ny != 5 || nz != 2 {
		t.Errorf("got grid %d,%d,%d want 3,5,2", nx, ny, nz)
	}
}

func TestEmpty(t *testing.T) {
	for _, test := range []struct {
		b    Box
		want bool
	}{
		{Box{Max: Elem(1)}, false},
		{Box{Max: r3.Vec{X: 1, Y: 1}}, true},
		{Box{Min: Elem(1)}, true},
	} {
		if got := test.b.Empty(); got != test.want {
			t.Errorf("%+v: got Empty()=%v, want %v", test.b, got, test.want)
		}
	}
}
