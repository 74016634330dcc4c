package eq

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestGeneric(t *testing.T) {
	tests := []struct{
		x, y interface{}
		res bool
	} {
		{[]int{1, 2, 3}, []int{1, 2, 3}, true},
		{[]int{1, 2, 3}, []int{1, 2}, false},
		{[]int{1, 2, 3}, []float64{1, 2, 3}, false},
		{[]float64{1, 2}, []float64{1, 2}, true},
		{[]string{"a"}, []string{"b"}, false},
		{[]byte{4, 5}, []byte{4, 5}, true},
		{[]r2.Vec{{X: 1, Y: 2}}, []r2.Vec{{X: 1, Y: 2}}, true},
		{[]r2.Vec{{X: 1, Y: 2}}, []r2.Vec{{X: 2, Y: 1}}, false},
		{[]uint8{1}, "meow", false},
		{"meow", "meow", false},
	}

	for i := range tests {
		if res := Generic(tests[i].x, tests[i].y); res != tests[i].res {
			t.Errorf("%d) Expected Generic(%v, %v) = %v, got %v.",
				i, tests[i].x, tests[i].y, tests[i].res, res)
		}
	}
}

func TestVecsRelEps(t *testing.T) {
	x := []r2.Vec{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 100, Y: 100}}
	y := []r2.Vec{{X: 1.001, Y: 0}, {X: 0, Y: 0}, {X: 100.1, Y: 99.9}}

	if !VecsRelEps(x, y, 1e-2) {
		t.Errorf("Expected %v and %v to match to 1e-2.", x, y)
	}
	if VecsRelEps(x, y, 1e-4) {
		t.Errorf("Expected %v and %v not to match to 1e-4.", x, y)
	}
	if !VecsEps(x, y, 0.2) || VecsEps(x, y, 1e-4) {
		t.Errorf("VecsEps gave the wrong result for %v and %v.", x, y)
	}
	if Float64sEps([]float64{1, 2}, []float64{1.5, 2}, 0.1) {
		t.Errorf("Expected Float64sEps to reject a difference of 0.5.")
	}
}
