package fmm

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/thread"
)

// p2p sums the exact effect of every particle in the 3x3 block of
// finest-level cells around each particle, excluding the particle itself.
//
// Pre: position, weight, cell (sorted), head.
// Post: effect (sorted, near field only).
func (s *Solver) p2p(n int) {
	base := &s.pyramid.Levels[0]
	thread.SplitArray(n, s.workers, func(start, end, step int) {
		for i := start; i < end; i += step {
			cx, cy := base.Coords(s.cell[i])
			xLo, xHi := window(cx, base.Dim)
			yLo, yHi := window(cy, base.Dim)
			xi := s.position[i]

			sum := r2.Vec{ }
			for y := yLo; y <= yHi; y++ {
				for x := xLo; x <= xHi; x++ {
					k := base.Idx(x, y)
					for j := s.head[k]; j < s.head[k + 1]; j++ {
						if j == i { continue }
						sum = sum.Add(s.kernel(xi, s.position[j], s.weight[j]))
					}
				}
			}
			s.effect[i] = sum
		}
	}, thread.Jump())
}
