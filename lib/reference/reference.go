/*package reference contains slow but trusted solvers which fmm.Solver results
can be checked against, along with functions for summarizing the differences.
*/
package reference

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/gravitree"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/nbfmm/lib/fmm"
	"github.com/phil-mansfield/nbfmm/lib/thread"
)

func checkLengths(position []r2.Vec, weight []float64) error {
	if len(position) != len(weight) {
		return fmt.Errorf("%d positions were given, but %d weights.",
			len(position), len(weight))
	}
	return nil
}

// Direct computes the effect of every particle on every other particle by
// summing over all pairs. It uses the given number of workers.
func Direct(
	kernel fmm.Kernel, position []r2.Vec, weight []float64, effect []r2.Vec,
	workers int,
) error {
	if err := checkLengths(position, weight); err != nil { return err }
	if len(effect) != len(position) {
		return fmt.Errorf("%d positions were given, but %d effects.",
			len(position), len(effect))
	}

	thread.SplitArray(len(position), workers, func(start, end, step int) {
		for i := start; i < end; i += step {
			sum := r2.Vec{ }
			for j := range position {
				if i == j { continue }
				sum = sum.Add(kernel(position[i], position[j], weight[j]))
			}
			effect[i] = sum
		}
	}, thread.Jump())
	return nil
}

// body is a particle in a barneshut.Plane. Bodies have unit mass: a
// Plane's cell centers are only correct when every mass is 1, so weights
// are applied outside the tree.
type body struct {
	x r2.Vec
}

func (b *body) Coord2() r2.Vec { return b.x }
func (b *body) Mass() float64 { return 1 }

// weightGroups returns the indices of the particles with each distinct
// non-zero weight, in increasing order of weight.
func weightGroups(weight []float64) ([]float64, [][]int) {
	idx := map[float64][]int{ }
	for i, w := range weight {
		if w == 0 { continue }
		idx[w] = append(idx[w], i)
	}

	ws := make([]float64, 0, len(idx))
	for w := range idx { ws = append(ws, w) }
	sort.Float64s(ws)

	groups := make([][]int, len(ws))
	for i := range ws { groups[i] = idx[ws[i]] }
	return ws, groups
}

// BarnesHut computes the effect of every particle on every other particle
// with gonum's Barnes-Hut tree and opening angle theta. theta = 0 sums over
// all pairs. Particles are split into one tree per distinct weight, so
// the cost grows with the number of weights.
func BarnesHut(
	kernel fmm.Kernel, position []r2.Vec, weight []float64, theta float64,
	workers int,
) ([]r2.Vec, error) {
	if err := checkLengths(position, weight); err != nil { return nil, err }
	if theta < 0 || math.IsNaN(theta) {
		return nil, fmt.Errorf("Opening angle is %g, but must be " +
			"non-negative.", theta)
	}

	bodies := make([]barneshut.Particle2, len(position))
	for i := range position { bodies[i] = &body{ position[i] } }

	ws, groups := weightGroups(weight)
	planes := make([]*barneshut.Plane, len(groups))
	for g := range groups {
		members := make([]barneshut.Particle2, len(groups[g]))
		for j, i := range groups[g] { members[j] = bodies[i] }
		plane, err := barneshut.NewPlane(members)
		if err != nil { return nil, err }
		planes[g] = plane
	}

	// The effect on p1 from p2, which has the weight w. p2 is nil for
	// aggregate cells and m2 is the number of particles they hold.
	force := func(w float64) barneshut.Force2 {
		return func(
			p1, p2 barneshut.Particle2, m1, m2 float64, v r2.Vec,
		) r2.Vec {
			if p2 != nil && p1 == p2 { return r2.Vec{ } }
			a := p1.Coord2()
			return kernel(a, a.Add(v), w*m2)
		}
	}
	forces := make([]barneshut.Force2, len(ws))
	for g := range ws { forces[g] = force(ws[g]) }

	effect := make([]r2.Vec, len(position))
	thread.SplitArray(len(bodies), workers, func(start, end, step int) {
		for i := start; i < end; i += step {
			sum := r2.Vec{ }
			for g := range planes {
				sum = sum.Add(planes[g].ForceOn(bodies[i], theta, forces[g]))
			}
			effect[i] = sum
		}
	}, thread.Jump())
	return effect, nil
}

// Potential computes the softened gravitational potential of unit-mass
// particles at each position with a gravitree tree. The particles are
// placed in the z = 0 plane.
func Potential(position []r2.Vec, eps float64) ([]float64, error) {
	if !(eps >= 0) || math.IsInf(eps, 0) {
		return nil, fmt.Errorf("Softening length is %g, but must be " +
			"non-negative and finite.", eps)
	}
	phi := make([]float64, len(position))
	if len(position) == 0 { return phi, nil }

	x := make([][3]float64, len(position))
	for i := range position {
		x[i] = [3]float64{ position[i].X, position[i].Y, 0 }
	}

	tree := gravitree.NewTree(x)
	tree.Potential(eps, phi)
	return phi, nil
}

// Stats summarizes the relative errors of an approximate solution.
type Stats struct {
	// N is the number of particles compared.
	N int
	// Mean, RMS, Median, and Max summarize |approx - exact| / |exact|.
	// Particles with exact = 0 use the absolute error instead.
	Mean, RMS, Median, Max float64
}

func (s Stats) String() string {
	return fmt.Sprintf("N = %d, mean = %.3g, rms = %.3g, median = %.3g, " +
		"max = %.3g", s.N, s.Mean, s.RMS, s.Median, s.Max)
}

// Errors returns the relative error of each element of approx.
func Errors(approx, exact []r2.Vec) ([]float64, error) {
	if len(approx) != len(exact) {
		return nil, fmt.Errorf("The approximate solution has %d elements, " +
			"but the exact one has %d.", len(approx), len(exact))
	}

	errs := make([]float64, len(approx))
	for i := range approx {
		d := approx[i].Sub(exact[i])
		errs[i] = math.Hypot(d.X, d.Y)
		if norm := math.Hypot(exact[i].X, exact[i].Y); norm > 0 {
			errs[i] /= norm
		}
	}
	return errs, nil
}

// Compare computes error statistics for approx relative to exact.
func Compare(approx, exact []r2.Vec) (Stats, error) {
	errs, err := Errors(approx, exact)
	if err != nil { return Stats{ }, err }
	if len(errs) == 0 { return Stats{ }, nil }

	sorted := append([]float64{ }, errs...)
	sort.Float64s(sorted)

	sq := make([]float64, len(errs))
	floats.MulTo(sq, errs, errs)

	return Stats{
		N: len(errs),
		Mean: stat.Mean(errs, nil),
		RMS: math.Sqrt(stat.Mean(sq, nil)),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Max: floats.Max(errs),
	}, nil
}
