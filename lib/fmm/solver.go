/*package fmm evaluates pairwise interactions among two-dimensional particles
with a fast multipole method.

A Solver bins particles into a uniform finest-level grid, computes exact
interactions between particles in neighbouring cells, and approximates
everything farther away by the weighted centroids and total weights of
progressively coarser cells. A call to Solve runs eight bulk phases in a
fixed order:

   predo -> p2p -> p2m -> m2m -> m2l -> l2l -> l2p -> postdo

Each phase is a parallel loop over particles or cells, and no phase starts
until the previous one has completely finished. Within a phase every worker
only writes to the elements it owns.
*/
package fmm

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// MaxLevels is the largest number of levels a Solver can be built with.
	// The finest grid of such a solver already has 2^28 cells.
	MaxLevels = 13
)

var (
	// ErrCapacity is returned when Solve is given more particles than the
	// Solver was built for.
	ErrCapacity = errors.New("fmm: particle count exceeds solver capacity")
	// ErrOutOfDomain is wrapped by every DomainError.
	ErrOutOfDomain = errors.New("fmm: position outside solver limits")
	// ErrClosed is returned when a Solver is used after Close.
	ErrClosed = errors.New("fmm: solver has been closed")
)

// DomainError reports a particle whose position is outside the Solver's
// limits (or is NaN). Solve rejects the whole call when it finds one.
type DomainError struct {
	Index int
	Position r2.Vec
	Limits r2.Box
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("fmm: particle %d is at (%g, %g), which is outside " +
		"the solver limits [%g, %g] x [%g, %g]", e.Index,
		e.Position.X, e.Position.Y, e.Limits.Min.X, e.Limits.Max.X,
		e.Limits.Min.Y, e.Limits.Max.Y)
}

func (e *DomainError) Unwrap() error { return ErrOutOfDomain }

// arena holds every buffer a Solver uses. It is allocated once by NewSolver
// and reused by each call to Solve.
type arena struct {
	// Particle data in sorted order.
	position []r2.Vec
	weight []float64
	effect []r2.Vec
	cell []int

	// cellOrig holds finest-level cell indices in the caller's order.
	cellOrig []int
	// perm[sorted] = original.
	perm []int
	// Particles in finest cell k occupy sorted indices [head[k], head[k+1]).
	head []int
	cursor []int

	pyramid *Pyramid
}

func newArena(maxParticles, baseDim, levels int, limits r2.Box) *arena {
	cells := baseDim*baseDim
	return &arena{
		position: make([]r2.Vec, maxParticles),
		weight: make([]float64, maxParticles),
		effect: make([]r2.Vec, maxParticles),
		cell: make([]int, maxParticles),
		cellOrig: make([]int, maxParticles),
		perm: make([]int, maxParticles),
		head: make([]int, cells + 1),
		cursor: make([]int, cells),
		pyramid: NewPyramid(levels, baseDim, limits),
	}
}

// Solver computes the effect of every particle on every other particle. A
// Solver is not safe for concurrent use: calls to Solve must be serialized by
// the caller.
type Solver struct {
	levels, baseDim, maxParticles int
	limits r2.Box
	scale r2.Vec
	kernel Kernel
	workers int

	*arena
}

// NewSolver creates a Solver with the given number of grid levels which can
// handle up to maxParticles particles inside limits. The finest grid has
// 2^(levels+1) cells on a side. A nil kernel means Gravity. All buffers are
// allocated here.
func NewSolver(
	levels, maxParticles int, limits r2.Box, kernel Kernel,
) (*Solver, error) {
	if levels < 1 || levels > MaxLevels {
		return nil, fmt.Errorf("fmm: %d levels requested, but the level " +
			"count must be in the range [1, %d].", levels, MaxLevels)
	} else if maxParticles < 0 {
		return nil, fmt.Errorf("fmm: maximum particle count is %d, but it " +
			"cannot be negative.", maxParticles)
	}

	baseDim := 1 << uint(levels + 1)
	if !validBox(limits, baseDim) {
		return nil, fmt.Errorf("fmm: position limits [%g, %g] x [%g, %g] " +
			"do not describe a non-empty, finite box.", limits.Min.X,
			limits.Max.X, limits.Min.Y, limits.Max.Y)
	}
	if kernel == nil { kernel = Gravity }

	s := &Solver{
		levels: levels, baseDim: baseDim, maxParticles: maxParticles,
		limits: limits, kernel: kernel,
		scale: r2.Vec{
			X: float64(baseDim) / (limits.Max.X - limits.Min.X),
			Y: float64(baseDim) / (limits.Max.Y - limits.Min.Y),
		},
		arena: newArena(maxParticles, baseDim, levels, limits),
	}
	return s, nil
}

// validBox returns true if b has finite corners, a finite non-zero width,
// and a finite cell-to-position scale on a baseDim grid.
func validBox(b r2.Box, baseDim int) bool {
	span := b.Max.Sub(b.Min)
	scale := r2.Vec{ X: float64(baseDim) / span.X, Y: float64(baseDim) / span.Y }
	for _, x := range []float64{
		b.Min.X, b.Min.Y, b.Max.X, b.Max.Y, span.X, span.Y, scale.X, scale.Y,
	} {
		if math.IsNaN(x) || math.IsInf(x, 0) { return false }
	}
	return span.X > 0 && span.Y > 0
}

// SetWorkers sets the number of goroutines used by each phase. Non-positive
// values mean one per thread, which is the default.
func (s *Solver) SetWorkers(n int) { s.workers = n }

// Levels returns the number of grid levels.
func (s *Solver) Levels() int { return s.levels }

// BaseDim returns the number of finest-level cells on one side of the grid.
func (s *Solver) BaseDim() int { return s.baseDim }

// MaxParticles returns the largest particle count Solve accepts.
func (s *Solver) MaxParticles() int { return s.maxParticles }

// Limits returns the box that all particles must lie in.
func (s *Solver) Limits() r2.Box { return s.limits }

// Pyramid returns the grid pyramid. Its contents are only meaningful after a
// successful call to Solve with at least one particle, and are overwritten by
// the next call.
func (s *Solver) Pyramid() *Pyramid {
	if s.arena == nil { return nil }
	return s.pyramid
}

// Close releases the Solver's buffers. Solve returns ErrClosed afterwards.
func (s *Solver) Close() { s.arena = nil }

// Solve computes the effect on each particle from all other particles.
// position, weight and effect must have the same length, which may not exceed
// MaxParticles. All three are in the caller's order. If an error is returned,
// effect has not been written to.
func (s *Solver) Solve(position []r2.Vec, weight []float64, effect []r2.Vec) error {
	if s.arena == nil { return ErrClosed }

	n := len(position)
	if len(weight) != n || len(effect) != n {
		return fmt.Errorf("fmm: position, weight, and effect have lengths " +
			"%d, %d, and %d, but must all be the same.",
			n, len(weight), len(effect))
	} else if n > s.maxParticles {
		return fmt.Errorf("%w: %d particles given, but the solver was built " +
			"for at most %d.", ErrCapacity, n, s.maxParticles)
	} else if n == 0 {
		return nil
	}

	if err := s.predo(position, weight); err != nil { return err }
	s.p2p(n)
	s.p2m()
	s.m2m()
	s.m2l()
	s.l2l()
	s.l2p(n)
	s.postdo(effect)

	return nil
}
