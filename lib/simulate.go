package lib

/* simulate.go contains the core functions of nbfmm's "simulate" mode. */

import (
	"log"

	"github.com/phil-mansfield/nbfmm/lib/config"
	"github.com/phil-mansfield/nbfmm/lib/format"
	"github.com/phil-mansfield/nbfmm/lib/integrate"
	"github.com/phil-mansfield/nbfmm/lib/model"
	"github.com/phil-mansfield/nbfmm/lib/particles"
)

// InitialConditions returns the particles a simulation starts from: the
// Simulate.Input snapshot if it is set, and the [Model] section otherwise.
func InitialConditions(c *config.Config) (*model.Set, error) {
	if c.Simulate.Input == "" { return model.Generate(c.ModelParams()) }

	_, p, err := ReadParticles(c.Simulate.Input)
	if err != nil { return nil, err }
	return model.FromParticles(p)
}

// Simulate runs the "simulate" mode. It integrates the initial conditions
// for Simulate.Steps steps and writes a snapshot every Simulate.OutputEvery
// steps, plus the initial and final ones. It returns the names of the
// snapshots written.
func Simulate(c *config.Config) ([]string, error) {
	set, err := InitialConditions(c)
	if err != nil { return nil, err }
	solver, err := NewSolver(c, set.Len())
	if err != nil { return nil, err }
	defer solver.Close()

	st, err := integrate.NewStepper(solver, set)
	if err != nil { return nil, err }

	names := []string{ }
	write := func() error {
		fname := format.StepName(c.Simulate.Output, st.Steps())
		p := st.Set().Particles()
		p[AccelerationField] = particles.NewVec2(
			AccelerationField, st.Acceleration(),
		)
		hd := header(c, st.Time(), st.Steps())
		if err := WriteParticles(fname, hd, p); err != nil { return err }
		names = append(names, fname)
		return nil
	}

	if err := write(); err != nil { return nil, err }
	for i := 1; i <= c.Simulate.Steps; i++ {
		if err := st.Step(c.Simulate.Dt); err != nil { return nil, err }

		every := c.Simulate.OutputEvery
		if (every > 0 && i % every == 0) || i == c.Simulate.Steps {
			if err := write(); err != nil { return nil, err }
			log.Printf("Step %d, t = %.4g: %d particles, %d escaped.",
				st.Steps(), st.Time(), st.N(), st.Escaped())
		}
	}

	return names, nil
}
