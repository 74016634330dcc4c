package fmm

/* index.go contains the phases which move particles into and out of
finest-level cell order. */

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/cuckoo"
	"github.com/phil-mansfield/nbfmm/lib/thread"
)

// cellOf returns the finest-level cell index of a position, or -1 if the
// position is outside the limits. The box is closed, so positions on the
// upper edges belong to the last row/column of cells.
func (s *Solver) cellOf(x r2.Vec) int {
	lim := s.limits
	// Written so that NaN fails both comparisons.
	if !(x.X >= lim.Min.X && x.X <= lim.Max.X) ||
		!(x.Y >= lim.Min.Y && x.Y <= lim.Max.Y) {
		return -1
	}

	cx := int((x.X - lim.Min.X)*s.scale.X)
	cy := int((x.Y - lim.Min.Y)*s.scale.Y)
	if cx >= s.baseDim { cx = s.baseDim - 1 }
	if cy >= s.baseDim { cy = s.baseDim - 1 }

	return cx + cy*s.baseDim
}

// predo sorts particles by finest-level cell.
//
// Post: position, weight, cell (sorted), perm, head.
func (s *Solver) predo(position []r2.Vec, weight []float64) error {
	n := len(position)
	cellOrig := s.cellOrig[:n]

	thread.SplitArray(n, s.workers, func(start, end, step int) {
		for i := start; i < end; i += step {
			cellOrig[i] = s.cellOf(position[i])
		}
	}, thread.Block())

	if i := cuckoo.Check(cellOrig, s.baseDim*s.baseDim); i >= 0 {
		return &DomainError{ Index: i, Position: position[i],
			Limits: s.limits }
	}
	perm := s.perm[:n]
	cuckoo.Bin(cellOrig, s.head, s.cursor, perm)

	thread.SplitArray(n, s.workers, func(start, end, step int) {
		for j := start; j < end; j += step {
			i := perm[j]
			s.position[j] = position[i]
			s.weight[j] = weight[i]
			s.cell[j] = cellOrig[i]
		}
	}, thread.Block())

	return nil
}

// postdo writes sorted effects back to the caller's order.
//
// Pre: effect (sorted, complete), perm.
func (s *Solver) postdo(effect []r2.Vec) {
	n := len(effect)
	thread.SplitArray(n, s.workers, func(start, end, step int) {
		for j := start; j < end; j += step {
			effect[s.perm[j]] = s.effect[j]
		}
	}, thread.Block())
}
