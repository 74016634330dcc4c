package lib

/* compare.go contains the core functions of nbfmm's "compare" mode. */

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/nbfmm/lib/config"
	"github.com/phil-mansfield/nbfmm/lib/fmm"
	"github.com/phil-mansfield/nbfmm/lib/model"
	"github.com/phil-mansfield/nbfmm/lib/reference"
)

// Comparison is the result of the "compare" mode for one level count.
type Comparison struct {
	Levels int
	// Effect compares the Solver's effects against the reference solver.
	Effect reference.Stats
	// SolverTime and ReferenceTime are the wall-clock times taken by each.
	SolverTime, ReferenceTime time.Duration
	// SolverPotential and TreePotential are the mean potentials of
	// unit-weight particles computed by the Solver and by gravitree.
	SolverPotential, TreePotential float64
}

// Compare runs the "compare" mode: it generates the model described by c and
// compares the Solver's results against the reference solver named by
// Compare.Reference. There is one Comparison for each level count in
// Compare.Levels. The reference is only computed once.
func Compare(c *config.Config) ([]Comparison, error) {
	levels, err := c.CompareLevels()
	if err != nil { return nil, err }
	set, err := model.Generate(c.ModelParams())
	if err != nil { return nil, err }
	kernel, err := c.Kernel()
	if err != nil { return nil, err }

	t0 := time.Now()
	exact, err := referenceEffects(c, kernel, set)
	if err != nil { return nil, err }
	refTime := time.Since(t0)
	log.Printf("The %s reference took %s.", c.Compare.Reference, refTime)

	tree, err := reference.Potential(set.Position, c.Solver.Softening)
	if err != nil { return nil, err }

	out := make([]Comparison, len(levels))
	for i, l := range levels {
		lc := *c
		lc.Solver.Levels = l
		err = compareLevel(&lc, set, exact, tree, &out[i])
		if err != nil { return nil, err }
		out[i].ReferenceTime = refTime

		log.Printf("%d levels: solver took %s. Relative errors: %s", l,
			out[i].SolverTime, out[i].Effect)
		log.Printf("%d levels: mean potential of unit weights: solver " +
			"%.5g, gravitree %.5g.", l, out[i].SolverPotential,
			out[i].TreePotential)
	}

	return out, nil
}

// referenceEffects computes the effects of the Compare.Reference solver.
func referenceEffects(
	c *config.Config, kernel fmm.Kernel, set *model.Set,
) ([]r2.Vec, error) {
	switch strings.ToLower(c.Compare.Reference) {
	case "direct":
		exact := make([]r2.Vec, set.Len())
		err := reference.Direct(kernel, set.Position, set.Weight, exact, 0)
		if err != nil { return nil, err }
		return exact, nil
	case "barnes-hut":
		return reference.BarnesHut(kernel, set.Position, set.Weight,
			c.Compare.Theta, 0)
	}
	return nil, fmt.Errorf("Compare.Reference '%s' not recognized.",
		c.Compare.Reference)
}

// compareLevel runs the Solver described by c and fills in out.
func compareLevel(
	c *config.Config, set *model.Set, exact []r2.Vec, tree []float64,
	out *Comparison,
) error {
	solver, err := NewSolver(c, set.Len())
	if err != nil { return err }
	defer solver.Close()

	out.Levels = solver.Levels()
	approx := make([]r2.Vec, set.Len())
	t0 := time.Now()
	if err := solver.Solve(set.Position, set.Weight, approx); err != nil {
		return err
	}
	out.SolverTime = time.Since(t0)

	out.Effect, err = reference.Compare(approx, exact)
	if err != nil { return err }

	return comparePotentials(c, solver, set, tree, out)
}

// comparePotentials fills in the potential fields of out using a second
// Solver on the same grid with a potential kernel.
func comparePotentials(
	c *config.Config, solver *fmm.Solver, set *model.Set, tree []float64,
	out *Comparison,
) error {
	if set.Len() == 0 { return nil }

	potSolver, err := fmm.NewSolver(solver.Levels(), set.Len(),
		solver.Limits(), fmm.Potential(c.Solver.Softening))
	if err != nil { return err }
	defer potSolver.Close()

	unit := make([]float64, set.Len())
	for i := range unit { unit[i] = 1 }
	phi := make([]r2.Vec, set.Len())
	if err := potSolver.Solve(set.Position, unit, phi); err != nil {
		return err
	}
	phiX := make([]float64, len(phi))
	for i := range phi { phiX[i] = phi[i].X }

	out.SolverPotential = stat.Mean(phiX, nil)
	out.TreePotential = stat.Mean(tree, nil)
	return nil
}
