package lib

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/model"
	"github.com/phil-mansfield/nbfmm/lib/snapio"
)

func TestTextRoundTrip(t *testing.T) {
	rng := model.NewRNG(4)
	set, err := model.Disk(rng, 50, r2.Vec{ X: 0.5, Y: 0.5 }, 0.2, 1e-2)
	require.NoError(t, err)

	fname := filepath.Join(t.TempDir(), "disk.TXT")
	require.NoError(t, WriteParticles(fname, snapio.Header{ }, set.Particles()))

	_, p, err := ReadParticles(fname)
	require.NoError(t, err)
	res, err := model.FromParticles(p)
	require.NoError(t, err)
	assert.Equal(t, set, res)
}

func TestTextLargeID(t *testing.T) {
	rng := model.NewRNG(5)
	set, err := model.Disk(rng, 3, r2.Vec{ X: 0.5, Y: 0.5 }, 0.2, 1e-2)
	require.NoError(t, err)
	set.ID = []uint64{ 1<<53 + 1, math.MaxUint64, 7 }

	fname := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, WriteParticles(fname, snapio.Header{ }, set.Particles()))

	_, p, err := ReadParticles(fname)
	require.NoError(t, err)
	res, err := model.FromParticles(p)
	require.NoError(t, err)
	assert.Equal(t, set.ID, res.ID)
}

func TestHeaderlessText(t *testing.T) {
	dir := t.TempDir()
	tests := []struct{
		text string
		valid bool
		velocity r2.Vec
	} {
		{"0.25 0.5 1\n0.75 0.5 2\n", true, r2.Vec{ }},
		{"0.25 0.5 1 3 4\n0.75 0.5 2 3 4\n", true, r2.Vec{ X: 3, Y: 4 }},
		{"0.25 0.5\n", false, r2.Vec{ }},
		{"0.25 0.5 1 3\n", false, r2.Vec{ }},
		{"1 2 3 4 5 6\n", false, r2.Vec{ }},
	}

	for i := range tests {
		fname := filepath.Join(dir, "cat.txt")
		require.NoError(t, os.WriteFile(fname, []byte(tests[i].text), 0644))

		_, p, err := ReadParticles(fname)
		if !tests[i].valid {
			if err == nil {
				t.Errorf("%d) Expected %q to fail, got no error.",
					i, tests[i].text)
			}
			continue
		}
		require.NoError(t, err, "%d", i)

		set, err := model.FromParticles(p)
		require.NoError(t, err, "%d", i)
		assert.Equal(t, []uint64{ 0, 1 }, set.ID)
		assert.Equal(t, []r2.Vec{ { X: 0.25, Y: 0.5 }, { X: 0.75, Y: 0.5 } },
			set.Position)
		assert.Equal(t, []float64{ 1, 2 }, set.Weight)
		assert.Equal(t, tests[i].velocity, set.Velocity[1])
	}
}

func TestTextErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []string{
		"# id x_x x_y m\n-1 0.5 0.5 1\n",
		"# id x_x x_y m\n1.5 0.5 0.5 1\n",
		"# x_x m\n0.5 1\n",
		"# x x_x x_y m\n0.5 0.5 0.5 1\n",
	}

	for i := range tests {
		fname := filepath.Join(dir, "bad.txt")
		require.NoError(t, os.WriteFile(fname, []byte(tests[i]), 0644))
		if _, _, err := ReadParticles(fname); err == nil {
			t.Errorf("%d) Expected %q to fail, got no error.", i, tests[i])
		}
	}
}

func TestTextSolve(t *testing.T) {
	c := testConfig(t)
	dir := filepath.Dir(c.Model.Output)
	c.Model.Output = filepath.Join(dir, "model.txt")
	c.Solve.Input = c.Model.Output
	c.Solve.Output = filepath.Join(dir, "solved.txt")

	set, err := Model(c)
	require.NoError(t, err)
	require.NoError(t, Solve(c))

	_, p, err := ReadParticles(c.Solve.Output)
	require.NoError(t, err)
	acc, ok := p[AccelerationField].Data().([]r2.Vec)
	require.True(t, ok)
	require.Equal(t, set.Len(), len(acc))

	solver, err := NewSolver(c, set.Len())
	require.NoError(t, err)
	exact := make([]r2.Vec, set.Len())
	require.NoError(t, solver.Solve(set.Position, set.Weight, exact))
	assert.Equal(t, exact, acc)
}
