package fmm

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/thread"
)

// m2l computes the far-field effect on every cell of every level. On the
// coarsest level a cell sees every cell which isn't adjacent to it. On finer
// levels it sees the children of its parent's neighbours which aren't
// adjacent to it; everything farther away was already handled by an ancestor.
// Cells without weight are never used as sources.
//
// Pre: pyramid Position and Weight (all levels).
// Post: pyramid Effect (all levels, not yet summed).
func (s *Solver) m2l() {
	levels := s.pyramid.Levels
	top := s.pyramid.Top()

	for l := range levels {
		lvl := &levels[l]
		var sources func(cx, cy int, target r2.Vec) r2.Vec
		if l == top {
			sources = func(cx, cy int, target r2.Vec) r2.Vec {
				return s.interact(lvl, cx, cy, target, 0, lvl.Dim - 1, 0, lvl.Dim - 1)
			}
		} else {
			parentDim := levels[l + 1].Dim
			sources = func(cx, cy int, target r2.Vec) r2.Vec {
				pxLo, pxHi := window(cx / 2, parentDim)
				pyLo, pyHi := window(cy / 2, parentDim)
				return s.interact(lvl, cx, cy, target,
					2*pxLo, 2*pxHi + 1, 2*pyLo, 2*pyHi + 1)
			}
		}

		thread.SplitArray(lvl.Cells(), s.workers, func(start, end, step int) {
			for k := start; k < end; k += step {
				cx, cy := lvl.Coords(k)
				lvl.Effect[k] = sources(cx, cy, lvl.anchor(k))
			}
		}, thread.Jump())
	}
}

// interact sums the effect on target of every weighted cell in the
// inclusive coordinate range [xLo, xHi] x [yLo, yHi] of lvl which isn't
// adjacent to (cx, cy).
func (s *Solver) interact(
	lvl *Level, cx, cy int, target r2.Vec, xLo, xHi, yLo, yHi int,
) r2.Vec {
	sum := r2.Vec{ }
	for y := yLo; y <= yHi; y++ {
		for x := xLo; x <= xHi; x++ {
			if adjacent(cx, cy, x, y) { continue }
			k := lvl.Idx(x, y)
			if lvl.Weight[k] == 0 { continue }
			sum = sum.Add(s.kernel(target, lvl.Position[k], lvl.Weight[k]))
		}
	}
	return sum
}
