package integrate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/fmm"
	"github.com/phil-mansfield/nbfmm/lib/model"
)

var unitBox = r2.Box{ Max: r2.Vec{ X: 1, Y: 1 } }

func binary() *model.Set {
	// Two unit weights 0.2 apart, each on a circular orbit of radius 0.1
	// about their center of mass: v^2/r = 1/d^2.
	s := model.NewSet(2)
	v := math.Sqrt(0.1 / (0.2*0.2))
	s.Position[0], s.Position[1] = r2.Vec{ X: 0.4, Y: 0.5 }, r2.Vec{ X: 0.6, Y: 0.5 }
	s.Velocity[0], s.Velocity[1] = r2.Vec{ Y: -v }, r2.Vec{ Y: v }
	s.Weight[0], s.Weight[1] = 1, 1
	return s
}

func TestCircularOrbit(t *testing.T) {
	solver, err := fmm.NewSolver(2, 2, unitBox, fmm.Gravity)
	require.NoError(t, err)
	set := binary()
	st, err := NewStepper(solver, set)
	require.NoError(t, err)

	// Roughly one period.
	dt, steps := 1e-3, 400
	for i := 0; i < steps; i++ {
		require.NoError(t, st.Step(dt))

		x := set.Position
		d := x[1].Sub(x[0])
		sep := math.Hypot(d.X, d.Y)
		if math.Abs(sep - 0.2) > 2e-3 {
			t.Fatalf("Step %d) Expected separation 0.2, got %g.", i, sep)
		}
		com := x[0].Add(x[1]).Scale(0.5)
		assert.InDelta(t, 0.5, com.X, 1e-9)
		assert.InDelta(t, 0.5, com.Y, 1e-9)
	}

	assert.Equal(t, steps, st.Steps())
	assert.InDelta(t, float64(steps)*dt, st.Time(), 1e-9)
	assert.Equal(t, 2, st.N())
	assert.Equal(t, 0, st.Escaped())
}

func TestEscape(t *testing.T) {
	solver, err := fmm.NewSolver(1, 3, unitBox, fmm.Softened(0.1))
	require.NoError(t, err)

	set := model.NewSet(3)
	set.Position = []r2.Vec{ {X: 0.2, Y: 0.2}, {X: 0.8, Y: 0.8}, {X: 0.5, Y: 0.95} }
	set.Velocity[2] = r2.Vec{ Y: 100 }
	set.Weight = []float64{ 1e-6, 1e-6, 1e-6 }
	set.ID = []uint64{ 7, 8, 9 }

	st, err := NewStepper(solver, set)
	require.NoError(t, err)
	require.NoError(t, st.Step(0.01))

	assert.Equal(t, 2, st.N())
	assert.Equal(t, 1, st.Escaped())
	assert.Equal(t, []uint64{ 7, 8 }, st.Set().ID)
	assert.Equal(t, 2, len(st.Acceleration()))
}

func TestEmptyStepper(t *testing.T) {
	solver, err := fmm.NewSolver(1, 10, unitBox, nil)
	require.NoError(t, err)

	st, err := NewStepper(solver, model.NewSet(0))
	require.NoError(t, err)
	for i := 0; i < 3; i++ { require.NoError(t, st.Step(0.5)) }

	assert.Equal(t, 0, st.N())
	assert.Equal(t, 3, st.Steps())
	assert.Equal(t, 1.5, st.Time())
}

func TestNewStepperErrors(t *testing.T) {
	solver, err := fmm.NewSolver(1, 1, unitBox, nil)
	require.NoError(t, err)

	_, err = NewStepper(solver, binary())
	assert.Error(t, err)
	_, err = NewStepper(nil, binary())
	assert.Error(t, err)
	_, err = NewStepper(solver, nil)
	assert.Error(t, err)
}

func TestInitialEscapees(t *testing.T) {
	solver, err := fmm.NewSolver(1, 2, unitBox, nil)
	require.NoError(t, err)

	set := binary()
	set.Position[1] = r2.Vec{ X: 2, Y: 2 }
	st, err := NewStepper(solver, set)
	require.NoError(t, err)
	assert.Equal(t, 1, st.N())
	assert.Equal(t, 1, st.Escaped())
}
