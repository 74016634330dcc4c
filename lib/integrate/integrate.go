/*package integrate advances a model.Set through time with kick-drift-kick
leapfrog steps, using an fmm.Solver for accelerations.*/
package integrate

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/fmm"
	"github.com/phil-mansfield/nbfmm/lib/model"
	"github.com/phil-mansfield/nbfmm/lib/particles"
)

// Stepper integrates the orbits of a set of particles. Particles which leave
// the Solver's limits are removed.
type Stepper struct {
	solver *fmm.Solver
	set *model.Set
	acc []r2.Vec

	time float64
	steps, escaped int
}

// NewStepper creates a Stepper for set and computes the initial
// accelerations. set is modified by every call to Step.
func NewStepper(solver *fmm.Solver, set *model.Set) (*Stepper, error) {
	if solver == nil || set == nil {
		return nil, fmt.Errorf("A Stepper needs both a Solver and a Set.")
	} else if set.Len() > solver.MaxParticles() {
		return nil, fmt.Errorf("The Set has %d particles, but the Solver " +
			"can only handle %d.", set.Len(), solver.MaxParticles())
	}

	st := &Stepper{
		solver: solver, set: set, acc: make([]r2.Vec, set.Len()),
	}

	if err := st.removeEscaped(); err != nil { return nil, err }
	if err := st.accelerate(); err != nil { return nil, err }
	return st, nil
}

// Step advances the particles by dt. The clock advances even if no
// particles are left.
func (st *Stepper) Step(dt float64) error {
	st.kick(dt / 2)
	st.drift(dt)
	if err := st.removeEscaped(); err != nil { return err }
	if err := st.accelerate(); err != nil { return err }
	st.kick(dt / 2)

	st.time += dt
	st.steps++
	return nil
}

func (st *Stepper) kick(dt float64) {
	v := st.set.Velocity
	for i := range v {
		v[i] = v[i].Add(st.acc[i].Scale(dt))
	}
}

func (st *Stepper) drift(dt float64) {
	x, v := st.set.Position, st.set.Velocity
	for i := range x {
		x[i] = x[i].Add(v[i].Scale(dt))
	}
}

func (st *Stepper) accelerate() error {
	st.acc = st.acc[:st.set.Len()]
	return st.solver.Solve(st.set.Position, st.set.Weight, st.acc)
}

// removeEscaped compacts the set so that it only contains particles inside
// the Solver's limits.
func (st *Stepper) removeEscaped() error {
	limits := st.solver.Limits()
	keep := make([]int, 0, st.set.Len())
	for i, x := range st.set.Position {
		if x.X >= limits.Min.X && x.X <= limits.Max.X &&
			x.Y >= limits.Min.Y && x.Y <= limits.Max.Y {
			keep = append(keep, i)
		}
	}
	if len(keep) == st.set.Len() { return nil }

	p, err := particles.Subset(st.set.Particles(), keep)
	if err != nil { return err }
	set, err := model.FromParticles(p)
	if err != nil { return err }

	st.escaped += st.set.Len() - len(keep)
	*st.set = *set
	return nil
}

// Set returns the particles being integrated.
func (st *Stepper) Set() *model.Set { return st.set }

// Acceleration returns the accelerations of the particles at the current
// positions.
func (st *Stepper) Acceleration() []r2.Vec { return st.acc }

// Time returns the total time integrated.
func (st *Stepper) Time() float64 { return st.time }

// Steps returns the number of calls to Step.
func (st *Stepper) Steps() int { return st.steps }

// N returns the number of particles left.
func (st *Stepper) N() int { return st.set.Len() }

// Escaped returns the number of particles which have left the Solver's
// limits.
func (st *Stepper) Escaped() int { return st.escaped }
