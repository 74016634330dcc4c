package fmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestGravity(t *testing.T) {
	tests := []struct{
		a, b r2.Vec
		w float64
		res r2.Vec
	} {
		{r2.Vec{ X: 0, Y: 0 }, r2.Vec{ X: 2, Y: 0 }, 1, r2.Vec{ X: 0.25 }},
		{r2.Vec{ X: 0, Y: 0 }, r2.Vec{ X: 0, Y: -1 }, 3, r2.Vec{ Y: -3 }},
		{r2.Vec{ X: 1, Y: 1 }, r2.Vec{ X: 1, Y: 1 }, 5, r2.Vec{ }},
		{r2.Vec{ X: 1, Y: 1 }, r2.Vec{ X: 4, Y: 5 }, 25,
			r2.Vec{ X: 25*3.0/125, Y: 25*4.0/125 }},
	}

	for i := range tests {
		res := Gravity(tests[i].a, tests[i].b, tests[i].w)
		assert.InDelta(t, tests[i].res.X, res.X, 1e-12, "%d) X", i)
		assert.InDelta(t, tests[i].res.Y, res.Y, 1e-12, "%d) Y", i)

		swapped := Gravity(tests[i].b, tests[i].a, tests[i].w)
		assert.InDelta(t, -res.X, swapped.X, 1e-12, "%d) swapped X", i)
		assert.InDelta(t, -res.Y, swapped.Y, 1e-12, "%d) swapped Y", i)

		c := Coulomb(tests[i].a, tests[i].b, tests[i].w)
		assert.InDelta(t, -res.X, c.X, 1e-12, "%d) Coulomb X", i)
		assert.InDelta(t, -res.Y, c.Y, 1e-12, "%d) Coulomb Y", i)
	}
}

func TestSoftened(t *testing.T) {
	a, b := r2.Vec{ X: 0, Y: 0 }, r2.Vec{ X: 0.3, Y: 0.4 }
	assert.Equal(t, Gravity(a, b, 2), Softened(0)(a, b, 2))

	k := Softened(0.1)
	near := k(a, r2.Vec{ X: 1e-9 }, 1)
	assert.False(t, math.IsInf(near.X, 0) || math.IsNaN(near.X))
	assert.True(t, near.X < 1e-5)
	assert.Equal(t, r2.Vec{ }, k(a, a, 1))

	soft, hard := k(a, b, 1), Gravity(a, b, 1)
	assert.True(t, math.Hypot(soft.X, soft.Y) < math.Hypot(hard.X, hard.Y))
}

func TestPotential(t *testing.T) {
	k := Potential(0)
	res := k(r2.Vec{ X: 0, Y: 0 }, r2.Vec{ X: 3, Y: 4 }, 10)
	assert.InDelta(t, -2.0, res.X, 1e-12)
	assert.Equal(t, 0.0, res.Y)
	assert.Equal(t, r2.Vec{ }, k(r2.Vec{ }, r2.Vec{ }, 1))

	res = Potential(1)(r2.Vec{ }, r2.Vec{ }, 2)
	assert.InDelta(t, -2.0, res.X, 1e-12)
}
