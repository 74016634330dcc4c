package particles

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/eq"
)

var (
	testFrom = []int{ 5, 4, 3, 2, 1, 0 }
	testTo = []int{ 0, 2, 4, 6, 8, 10 }
)

func vecs(x []float64) []r2.Vec {
	out := make([]r2.Vec, len(x))
	for i := range x { out[i] = r2.Vec{ X: x[i], Y: -x[i] } }
	return out
}

func TestTransfer(t *testing.T) {
	name := "test_value"
	tests := []struct{
		x Field
		data, out interface{}
	} {
		{
			NewUint64(name, []uint64{4, 8, 15, 16, 23, 42}),
			[]uint64{4, 8, 15, 16, 23, 42},
			[]uint64{42, 0, 23, 0, 16, 0, 15, 0, 8, 0, 4, 0},
		},
		{
			NewFloat64(name, []float64{4, 8, 15, 16, 23, 42}),
			[]float64{4, 8, 15, 16, 23, 42},
			[]float64{42, 0, 23, 0, 16, 0, 15, 0, 8, 0, 4, 0},
		},
		{
			NewVec2(name, vecs([]float64{4, 8, 15, 16, 23, 42})),
			vecs([]float64{4, 8, 15, 16, 23, 42}),
			vecs([]float64{42, 0, 23, 0, 16, 0, 15, 0, 8, 0, 4, 0}),
		},
	}

	for i := range tests {
		x := tests[i].x
		if x.Name() != name {
			t.Errorf("%d) Expected x.Name() = '%s', got '%s'.",
				i, name, x.Name())
		} else if x.Len() != 6 {
			t.Errorf("%d) Expected x.Len() = 6, got %d.", i, x.Len())
			continue
		} else if !eq.Generic(tests[i].data, x.Data()) {
			t.Errorf("%d) Expected x.Data() = %v, got %v.",
				i, tests[i].data, x.Data())
			continue
		}

		p := Particles{ }
		x.CreateDestination(p, 12)
		if _, ok := p[name]; !ok {
			t.Errorf("%d) Expected Particles to gain '%s' field, but it " +
				"wasn't added.", i, name)
			continue
		}

		if err := x.Transfer(p, testFrom, testTo); err != nil {
			t.Errorf("%d) Expected Transfer to succeed, but got error '%s'.",
				i, err.Error())
		} else if !eq.Generic(tests[i].out, p[name].Data()) {
			t.Errorf("%d) Expected p['%s'] = %v, got %v.",
				i, name, tests[i].out, p[name].Data())
		}
	}
}

func TestTransferErrors(t *testing.T) {
	x := NewFloat64("m", []float64{ 1, 2, 3 })

	tests := []struct{
		dest Particles
		from, to []int
	} {
		{Particles{ }, []int{ 0 }, []int{ 0 }},
		{Particles{ "m": NewUint64("m", make([]uint64, 3)) },
			[]int{ 0 }, []int{ 0 }},
		{Particles{ "m": NewFloat64("m", make([]float64, 3)) },
			[]int{ 0, 1 }, []int{ 0 }},
		{Particles{ "m": NewFloat64("m", make([]float64, 3)) },
			[]int{ 3 }, []int{ 0 }},
		{Particles{ "m": NewFloat64("m", make([]float64, 3)) },
			[]int{ 0 }, []int{ -1 }},
	}

	for i := range tests {
		err := x.Transfer(tests[i].dest, tests[i].from, tests[i].to)
		if err == nil {
			t.Errorf("%d) Expected Transfer to fail, but it succeeded.", i)
		}
	}
}

func TestLen(t *testing.T) {
	tests := []struct{
		p Particles
		n int
		ok bool
	} {
		{Particles{ }, 0, true},
		{Particles{
			"x": NewVec2("x", make([]r2.Vec, 4)),
			"m": NewFloat64("m", make([]float64, 4)),
		}, 4, true},
		{Particles{
			"x": NewVec2("x", make([]r2.Vec, 4)),
			"m": NewFloat64("m", make([]float64, 5)),
		}, 0, false},
	}

	for i := range tests {
		n, err := tests[i].p.Len()
		if (err == nil) != tests[i].ok {
			t.Errorf("%d) Expected ok = %v, got error %v.", i, tests[i].ok, err)
		} else if n != tests[i].n {
			t.Errorf("%d) Expected Len() = %d, got %d.", i, tests[i].n, n)
		}
	}
}

func TestSubset(t *testing.T) {
	p := Particles{
		"id": NewUint64("id", []uint64{ 10, 11, 12, 13 }),
		"m": NewFloat64("m", []float64{ 1, 2, 3, 4 }),
		"x": NewVec2("x", vecs([]float64{ 1, 2, 3, 4 })),
	}

	out, err := Subset(p, []int{ 3, 1 })
	if err != nil {
		t.Fatalf("Expected Subset to succeed, but got error '%s'.", err)
	}

	names := out.Names()
	if !eq.Strings(names, []string{ "id", "m", "x" }) {
		t.Errorf("Expected names %v, got %v.", []string{ "id", "m", "x" }, names)
	}
	if !eq.Generic([]uint64{ 13, 11 }, out["id"].Data()) {
		t.Errorf("Expected id = [13 11], got %v.", out["id"].Data())
	}
	if !eq.Generic([]float64{ 4, 2 }, out["m"].Data()) {
		t.Errorf("Expected m = [4 2], got %v.", out["m"].Data())
	}
	if !eq.Generic(vecs([]float64{ 4, 2 }), out["x"].Data()) {
		t.Errorf("Expected x = %v, got %v.",
			vecs([]float64{ 4, 2 }), out["x"].Data())
	}

	if _, err := Subset(p, []int{ 4 }); err == nil {
		t.Errorf("Expected out-of-range Subset to fail.")
	}
}
