package lib

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/config"
	"github.com/phil-mansfield/nbfmm/lib/fmm"
	"github.com/phil-mansfield/nbfmm/lib/snapio"
)

func TestParseRunMode(t *testing.T) {
	for i, name := range modeNames {
		mode, err := ParseRunMode(name)
		require.NoError(t, err)
		assert.Equal(t, RunMode(i), mode)
		assert.Equal(t, name, mode.String())
	}

	mode, err := ParseRunMode("Simulate")
	require.NoError(t, err)
	assert.Equal(t, SimulateMode, mode)

	_, err = ParseRunMode("convert")
	assert.Error(t, err)
	assert.Equal(t, "RunMode(99)", RunMode(99).String())
}

func TestParseCommandLine(t *testing.T) {
	mode, file, over, err := ParseCommandLine(nil)
	require.NoError(t, err)
	assert.Equal(t, HelpMode, mode)
	assert.Equal(t, "", file)

	mode, _, _, err = ParseCommandLine([]string{ "example" })
	require.NoError(t, err)
	assert.Equal(t, ExampleMode, mode)

	mode, file, over, err = ParseCommandLine([]string{
		"solve", "run.config", "--Threads", "2", "--Levels", "6",
	})
	require.NoError(t, err)
	assert.Equal(t, SolveMode, mode)
	assert.Equal(t, "run.config", file)

	c := config.Default()
	over.Apply(c)
	assert.Equal(t, 2, c.Solver.Threads)
	assert.Equal(t, 6, c.Solver.Levels)

	_, _, over, err = ParseCommandLine([]string{ "check", "run.config" })
	require.NoError(t, err)
	c = config.Default()
	over.Apply(c)
	assert.Equal(t, config.Default(), c)

	bad := [][]string{
		{ "convert", "run.config" },
		{ "solve" },
		{ "solve", "run.config", "--Bogus", "1" },
		{ "solve", "run.config", "--Levels", "many" },
		{ "solve", "run.config", "extra" },
	}
	for i := range bad {
		if _, _, _, err := ParseCommandLine(bad[i]); err == nil {
			t.Errorf("%d) Expected %v to fail, but it succeeded.", i, bad[i])
		}
	}
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	c := config.Default()
	c.Solver.Levels = 3
	c.Model.N = 300
	c.Model.Radius = 0.1
	c.Model.Output = filepath.Join(dir, "model.nbf")
	c.Solve.Input = c.Model.Output
	c.Solve.Output = filepath.Join(dir, "solved.nbf")
	c.Simulate.Output = filepath.Join(dir, "snap_%03d.nbf")
	c.Simulate.Steps = 4
	c.Simulate.OutputEvery = 3
	return c
}

func TestCheck(t *testing.T) {
	c := testConfig(t)
	assert.NoError(t, Check(ModelMode, c))
	assert.NoError(t, Check(SimulateMode, c))
	// The model hasn't been written yet.
	assert.Error(t, Check(SolveMode, c))

	c.Model.Output = ""
	assert.Error(t, Check(ModelMode, c))
	c.Simulate.Output = "snap.nbf"
	assert.Error(t, Check(SimulateMode, c))
	c.Solver.Levels = 0
	assert.Error(t, Check(CheckMode, c))
}

func TestReadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run.config")
	require.NoError(t, os.WriteFile(fname, []byte(config.ExampleFile), 0644))

	over := &Overrides{ Levels: 2, set: map[string]bool{ "Levels": true } }
	c, err := ReadConfig(fname, over)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Solver.Levels)

	over = &Overrides{ Levels: 0, set: map[string]bool{ "Levels": true } }
	_, err = ReadConfig(fname, over)
	assert.Error(t, err)
}

func TestNewSolver(t *testing.T) {
	c := config.Default()
	s, err := NewSolver(c, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, s.MaxParticles())

	c.Solver.MaxParticles = 5
	_, err = NewSolver(c, 10)
	assert.Error(t, err)
}

func TestModelSolve(t *testing.T) {
	c := testConfig(t)
	set, err := Model(c)
	require.NoError(t, err)
	require.NoError(t, Check(SolveMode, c))
	require.NoError(t, Solve(c))

	hd, p, err := snapio.ReadFile(c.Solve.Output)
	require.NoError(t, err)
	assert.Equal(t, c.Limits(), hd.Limits)

	acc, ok := p[AccelerationField].Data().([]r2.Vec)
	require.True(t, ok)
	require.Equal(t, set.Len(), len(acc))

	solver, err := fmm.NewSolver(3, set.Len(), c.Limits(), fmm.Gravity)
	require.NoError(t, err)
	exact := make([]r2.Vec, set.Len())
	require.NoError(t, solver.Solve(set.Position, set.Weight, exact))
	assert.Equal(t, exact, acc)
}

func TestSimulate(t *testing.T) {
	c := testConfig(t)
	names, err := Simulate(c)
	require.NoError(t, err)

	dir := filepath.Dir(c.Simulate.Output)
	assert.Equal(t, []string{
		filepath.Join(dir, "snap_000.nbf"),
		filepath.Join(dir, "snap_003.nbf"),
		filepath.Join(dir, "snap_004.nbf"),
	}, names)

	hd, p, err := snapio.ReadFile(names[2])
	require.NoError(t, err)
	assert.Equal(t, int64(4), hd.Step)
	assert.InDelta(t, 4*c.Simulate.Dt, hd.Time, 1e-12)
	n, err := p.Len()
	require.NoError(t, err)
	assert.True(t, n > 0 && n <= c.Model.N)

	// Restart from the last snapshot.
	c.Simulate.Input = names[2]
	c.Simulate.Steps = 1
	c.Simulate.Output = filepath.Join(dir, "restart_%03d.nbf")
	names, err = Simulate(c)
	require.NoError(t, err)
	assert.Equal(t, 2, len(names))
}

func TestCompare(t *testing.T) {
	c := testConfig(t)
	out, err := Compare(c)
	require.NoError(t, err)
	require.Equal(t, 1, len(out))
	assert.Equal(t, c.Solver.Levels, out[0].Levels)
	assert.Equal(t, c.Model.N, out[0].Effect.N)
	assert.False(t, math.IsNaN(out[0].Effect.Mean))
	assert.True(t, out[0].SolverPotential < 0)

	c.Compare.Reference = "barnes-hut"
	c.Compare.Levels = "1..3 - 2"
	out, err = Compare(c)
	require.NoError(t, err)
	require.Equal(t, 2, len(out))
	assert.Equal(t, 1, out[0].Levels)
	assert.Equal(t, 3, out[1].Levels)
	for i := range out {
		assert.Equal(t, c.Model.N, out[i].Effect.N)
		assert.Equal(t, out[0].TreePotential, out[i].TreePotential)
	}
}
