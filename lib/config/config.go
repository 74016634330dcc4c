/*package config reads nbfmm's gcfg config files.*/
package config

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/nbfmm/lib/fmm"
	"github.com/phil-mansfield/nbfmm/lib/format"
	"github.com/phil-mansfield/nbfmm/lib/model"
)

// Kernels lists the recognized values of the Solver.Kernel variable.
var Kernels = []string{ "gravity", "coulomb", "potential" }

// SolverConfig is the [Solver] section.
type SolverConfig struct {
	Levels int
	// MaxParticles = 0 means "exactly as many particles as there are."
	MaxParticles int
	XMin, YMin, XMax, YMax float64
	Kernel string
	Softening float64
	// Threads = -1 means "every core."
	Threads int
}

// ModelConfig is the [Model] section.
type ModelConfig struct {
	Type string
	N int
	Seed int64
	XCenter, YCenter float64
	Radius, InnerRadius, Separation float64
	Weight, CentralWeight float64
	Output string
}

// SimulateConfig is the [Simulate] section.
type SimulateConfig struct {
	// Input is an optional snapshot. If it is empty, the [Model] section is
	// used to generate the initial conditions.
	Input string
	Steps int
	Dt float64
	// OutputEvery = 0 means only the final snapshot is written.
	OutputEvery int
	// Output is a step format, like snap_%04d.nbf.
	Output string
}

// SolveConfig is the [Solve] section.
type SolveConfig struct {
	Input, Output string
}

// CompareConfig is the [Compare] section.
type CompareConfig struct {
	// Reference is either "direct" or "barnes-hut".
	Reference string
	Theta float64
	// Levels is a sequence format listing the level counts to compare. If
	// it is empty, only Solver.Levels is compared.
	Levels string
}

// Config is the contents of a config file.
type Config struct {
	Solver SolverConfig
	Model ModelConfig
	Simulate SimulateConfig
	Solve SolveConfig
	Compare CompareConfig
}

// Default returns a Config with every variable set to its default value.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Levels: 4, XMax: 1, YMax: 1, Kernel: "gravity", Threads: -1,
		},
		Model: ModelConfig{
			Type: "disk", N: 1000, XCenter: 0.5, YCenter: 0.5,
			Radius: 0.2, InnerRadius: 0.1, Separation: 0.5,
			Weight: 1e-3, CentralWeight: 1,
		},
		Simulate: SimulateConfig{ Steps: 100, Dt: 1e-3, OutputEvery: 10 },
		Compare: CompareConfig{ Reference: "direct", Theta: 0.5 },
	}
}

// ReadFile reads the named config file. Variables which aren't in the file
// keep their default values.
func ReadFile(fname string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(c, fname); err != nil { return nil, err }
	return c, nil
}

// ReadString reads a config from a string. Variables which aren't in the
// string keep their default values.
func ReadString(s string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(c, s); err != nil { return nil, err }
	return c, nil
}

func contains(list []string, s string) bool {
	for i := range list {
		if list[i] == strings.ToLower(s) { return true }
	}
	return false
}

func finite(x ...float64) bool {
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) { return false }
	}
	return true
}

// Validate checks that every variable has a legal value.
func (c *Config) Validate() error {
	s := &c.Solver
	if s.Levels < 1 || s.Levels > fmm.MaxLevels {
		return fmt.Errorf("Solver.Levels is %d, but must be in the range " +
			"[1, %d].", s.Levels, fmm.MaxLevels)
	} else if s.MaxParticles < 0 {
		return fmt.Errorf("Solver.MaxParticles is %d, but cannot be " +
			"negative.", s.MaxParticles)
	} else if !finite(s.XMin, s.YMin, s.XMax, s.YMax) ||
		s.XMin >= s.XMax || s.YMin >= s.YMax {
		return fmt.Errorf("Solver limits [%g, %g] x [%g, %g] are not a " +
			"valid box.", s.XMin, s.XMax, s.YMin, s.YMax)
	} else if !contains(Kernels, s.Kernel) {
		return fmt.Errorf("Solver.Kernel is '%s', but must be one of %s.",
			s.Kernel, strings.Join(Kernels, ", "))
	} else if !(s.Softening >= 0) || !finite(s.Softening) {
		return fmt.Errorf("Solver.Softening is %g, but must be " +
			"non-negative.", s.Softening)
	} else if s.Threads != -1 && s.Threads <= 0 {
		return fmt.Errorf("Solver.Threads is %d, but must be positive or " +
			"-1.", s.Threads)
	}

	m := &c.Model
	if !contains(model.Types, m.Type) {
		return fmt.Errorf("Model.Type is '%s', but must be one of %s.",
			m.Type, strings.Join(model.Types, ", "))
	} else if m.N < 0 {
		return fmt.Errorf("Model.N is %d, but cannot be negative.", m.N)
	}

	sim := &c.Simulate
	if sim.Steps < 0 {
		return fmt.Errorf("Simulate.Steps is %d, but cannot be negative.",
			sim.Steps)
	} else if !(sim.Dt > 0) || !finite(sim.Dt) {
		return fmt.Errorf("Simulate.Dt is %g, but must be positive.", sim.Dt)
	} else if sim.OutputEvery < 0 {
		return fmt.Errorf("Simulate.OutputEvery is %d, but cannot be " +
			"negative.", sim.OutputEvery)
	}

	cmp := &c.Compare
	switch strings.ToLower(cmp.Reference) {
	case "direct", "barnes-hut":
	default:
		return fmt.Errorf("Compare.Reference is '%s', but must be either " +
			"'direct' or 'barnes-hut'.", cmp.Reference)
	}
	if !(cmp.Theta >= 0) || !finite(cmp.Theta) {
		return fmt.Errorf("Compare.Theta is %g, but must be non-negative.",
			cmp.Theta)
	}
	if _, err := c.CompareLevels(); err != nil { return err }

	return nil
}

// CompareLevels returns the level counts the compare mode runs the Solver
// with.
func (c *Config) CompareLevels() ([]int, error) {
	if strings.TrimSpace(c.Compare.Levels) == "" {
		return []int{ c.Solver.Levels }, nil
	}

	levels, err := format.ExpandSequenceFormat(c.Compare.Levels)
	if err != nil {
		return nil, fmt.Errorf("Compare.Levels, '%s', is not a valid " +
			"sequence format. %s", c.Compare.Levels, err.Error())
	}
	for _, l := range levels {
		if l < 1 || l > fmm.MaxLevels {
			return nil, fmt.Errorf("Compare.Levels includes %d, but levels " +
				"must be in the range [1, %d].", l, fmm.MaxLevels)
		}
	}
	return levels, nil
}

// Limits returns the Solver's limits.
func (c *Config) Limits() r2.Box {
	return r2.Box{
		Min: r2.Vec{ X: c.Solver.XMin, Y: c.Solver.YMin },
		Max: r2.Vec{ X: c.Solver.XMax, Y: c.Solver.YMax },
	}
}

// Kernel returns the Solver's kernel.
func (c *Config) Kernel() (fmm.Kernel, error) {
	eps := c.Solver.Softening
	switch strings.ToLower(c.Solver.Kernel) {
	case "gravity":
		if eps == 0 { return fmm.Gravity, nil }
		return fmm.Softened(eps), nil
	case "coulomb":
		if eps == 0 { return fmm.Coulomb, nil }
		soft := fmm.Softened(eps)
		return func(a, b r2.Vec, wb float64) r2.Vec {
			return soft(a, b, -wb)
		}, nil
	case "potential":
		return fmm.Potential(eps), nil
	}
	return nil, fmt.Errorf("Solver.Kernel '%s' not recognized.",
		c.Solver.Kernel)
}

// ModelParams returns the parameters of the [Model] section. Rectangle
// models fill the Solver's limits.
func (c *Config) ModelParams() model.Params {
	m := &c.Model
	return model.Params{
		Type: m.Type, N: m.N, Seed: uint64(m.Seed),
		Box: c.Limits(),
		Center: r2.Vec{ X: m.XCenter, Y: m.YCenter },
		Radius: m.Radius, InnerRadius: m.InnerRadius,
		Separation: m.Separation,
		Weight: m.Weight, CentralWeight: m.CentralWeight,
	}
}

// ExampleFile is an example config file with every variable documented.
const ExampleFile = `[Solver]
# Number of grid levels. The finest grid has 2^(Levels+1) cells on a side.
Levels = 4
# Largest number of particles the solver needs to handle. 0 means exactly as
# many as there are.
MaxParticles = 0
# Every particle must lie in [XMin, XMax] x [YMin, YMax].
XMin = 0
YMin = 0
XMax = 1
YMax = 1
# One of gravity, coulomb, or potential.
Kernel = gravity
Softening = 0
# -1 means every core.
Threads = -1

[Model]
# One of rectangle, disk, double-disk, or ring. Rectangles fill the solver
# limits.
Type = disk
N = 1000
Seed = 0
XCenter = 0.5
YCenter = 0.5
Radius = 0.2
# Only used by rings.
InnerRadius = 0.1
CentralWeight = 1
# Only used by double disks.
Separation = 0.5
Weight = 0.001
Output = model.nbf

[Solve]
Input = model.nbf
Output = solved.nbf

[Compare]
# Either direct or barnes-hut.
Reference = direct
# Opening angle of the Barnes-Hut reference.
Theta = 0.5
# Optional sequence of level counts to compare, e.g. 2..6 - 4. If it isn't
# set, only Solver.Levels is compared.
# Levels = 2..5

[Simulate]
# Optional initial snapshot. If it isn't set, the initial conditions come
# from [Model].
# Input = model.nbf
Steps = 100
Dt = 0.001
# 0 means only the final snapshot is written.
OutputEvery = 10
# Must contain exactly one integer verb, which is replaced by the step.
Output = snap_%04d.nbf
`
