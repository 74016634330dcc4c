package fmm

/* upward.go contains the phases which build cell aggregates from the finest
level up to the coarsest. */

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/thread"
)

// p2m computes the weighted centroid and total weight of every finest-level
// cell. Cells without weight get their geometric center.
//
// Pre: position, weight (sorted), head.
// Post: pyramid Position and Weight (level 0 only).
func (s *Solver) p2m() {
	base := &s.pyramid.Levels[0]
	thread.SplitArray(base.Cells(), s.workers, func(start, end, step int) {
		for k := start; k < end; k += step {
			sum, w := r2.Vec{ }, 0.0
			for j := s.head[k]; j < s.head[k + 1]; j++ {
				sum = sum.Add(s.position[j].Scale(s.weight[j]))
				w += s.weight[j]
			}

			base.Weight[k] = w
			if w != 0 {
				base.Position[k] = sum.Scale(1 / w)
			} else {
				base.Position[k] = base.Center(k)
			}
		}
	}, thread.Block())
}

// m2m builds each coarser level from the four children of every cell.
// Children without weight are skipped, so empty cells never contribute to
// centroids.
//
// Pre: pyramid Position and Weight (level 0 only).
// Post: pyramid Position and Weight (all levels).
func (s *Solver) m2m() {
	levels := s.pyramid.Levels
	for l := 1; l < len(levels); l++ {
		child, parent := &levels[l - 1], &levels[l]
		thread.SplitArray(parent.Cells(), s.workers, func(start, end, step int) {
			for k := start; k < end; k += step {
				px, py := parent.Coords(k)
				sum, w := r2.Vec{ }, 0.0
				for dy := 0; dy < 2; dy++ {
					for dx := 0; dx < 2; dx++ {
						c := child.Idx(2*px + dx, 2*py + dy)
						wc := child.Weight[c]
						if wc == 0 { continue }
						sum = sum.Add(child.Position[c].Scale(wc))
						w += wc
					}
				}

				parent.Weight[k] = w
				if w != 0 {
					parent.Position[k] = sum.Scale(1 / w)
				} else {
					parent.Position[k] = parent.Center(k)
				}
			}
		}, thread.Block())
	}
}
