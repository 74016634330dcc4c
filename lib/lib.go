/*package lib contains the core functions of nbfmm's run modes. The functions
in this particular package mainly glue the config file to the subpackages.
Almost all of the heavy lifting is done by lib/'s subpackages.
*/
package lib

import (
	"fmt"
	"log"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/config"
	"github.com/phil-mansfield/nbfmm/lib/fmm"
	"github.com/phil-mansfield/nbfmm/lib/model"
	"github.com/phil-mansfield/nbfmm/lib/particles"
	"github.com/phil-mansfield/nbfmm/lib/snapio"
	"github.com/phil-mansfield/nbfmm/lib/thread"
)

const (
	// Version is the version of the software.
	Version = "1.0.0"
	// AccelerationField is the name of the field the solve mode writes
	// effects to.
	AccelerationField = "a"
)

// Setup sets the number of threads used by the Go runtime.
func Setup(c *config.Config) error {
	n, err := thread.Set(c.Solver.Threads)
	if err != nil { return err }
	log.Printf("Running nbfmm %s on %d threads.", Version, n)
	return nil
}

// NewSolver creates the Solver described by c which can handle n particles.
func NewSolver(c *config.Config, n int) (*fmm.Solver, error) {
	maxParticles := c.Solver.MaxParticles
	if maxParticles == 0 {
		maxParticles = n
	} else if n > maxParticles {
		return nil, fmt.Errorf("There are %d particles, but " +
			"Solver.MaxParticles is %d.", n, maxParticles)
	}

	kernel, err := c.Kernel()
	if err != nil { return nil, err }
	return fmm.NewSolver(c.Solver.Levels, maxParticles, c.Limits(), kernel)
}

// header returns the snapshot header of a simulation in state c.
func header(c *config.Config, t float64, step int) snapio.Header {
	return snapio.Header{ Time: t, Step: int64(step), Limits: c.Limits() }
}

// Model runs the "model" mode: it generates the initial conditions described
// by c and writes them to Model.Output.
func Model(c *config.Config) (*model.Set, error) {
	set, err := model.Generate(c.ModelParams())
	if err != nil { return nil, err }

	err = WriteParticles(c.Model.Output, header(c, 0, 0), set.Particles())
	if err != nil { return nil, err }

	b := set.Bounds()
	log.Printf("Wrote %d %s particles spanning [%.3g, %.3g] x " +
		"[%.3g, %.3g] to %s.", set.Len(), c.Model.Type,
		b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, c.Model.Output)
	return set, nil
}

// Solve runs the "solve" mode: it reads Solve.Input, computes the effect on
// every particle, and writes the input fields plus the effects to
// Solve.Output.
func Solve(c *config.Config) error {
	hd, p, err := ReadParticles(c.Solve.Input)
	if err != nil { return err }
	set, err := model.FromParticles(p)
	if err != nil { return err }

	solver, err := NewSolver(c, set.Len())
	if err != nil { return err }
	defer solver.Close()

	acc := make([]r2.Vec, set.Len())
	t0 := time.Now()
	if err := solver.Solve(set.Position, set.Weight, acc); err != nil {
		return err
	}
	log.Printf("Solved %d particles with %d levels in %s.",
		set.Len(), solver.Levels(), time.Since(t0))

	p[AccelerationField] = particles.NewVec2(AccelerationField, acc)
	hd.Limits = c.Limits()
	return WriteParticles(c.Solve.Output, hd, p)
}
