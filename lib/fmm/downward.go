package fmm

/* downward.go contains the phases which push far-field effects from the
coarsest level down to the particles. */

import (
	"github.com/phil-mansfield/nbfmm/lib/thread"
)

// l2l adds each cell's effect to its children, coarsest level first, so
// that every finest-level cell ends up with the far field from every level.
//
// Pre: pyramid Effect (all levels, not yet summed).
// Post: pyramid Effect (summed down to level 0).
func (s *Solver) l2l() {
	levels := s.pyramid.Levels
	for l := len(levels) - 2; l >= 0; l-- {
		child, parent := &levels[l], &levels[l + 1]
		thread.SplitArray(child.Cells(), s.workers, func(start, end, step int) {
			for k := start; k < end; k += step {
				cx, cy := child.Coords(k)
				p := parent.Idx(cx / 2, cy / 2)
				child.Effect[k] = child.Effect[k].Add(parent.Effect[p])
			}
		}, thread.Block())
	}
}

// l2p adds the far-field effect of each particle's finest-level cell to its
// near-field effect.
//
// Pre: effect (sorted, near field only), cell (sorted), pyramid Effect
// (summed down to level 0).
// Post: effect (sorted, complete).
func (s *Solver) l2p(n int) {
	base := &s.pyramid.Levels[0]
	thread.SplitArray(n, s.workers, func(start, end, step int) {
		for i := start; i < end; i += step {
			s.effect[i] = s.effect[i].Add(base.Effect[s.cell[i]])
		}
	}, thread.Block())
}
