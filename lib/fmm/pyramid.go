package fmm

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Level is one square grid of the Pyramid. Every level owns right-sized
// arrays, so cell (cx, cy) of any level lives at Idx(cx, cy) of that level's
// arrays and nowhere else.
type Level struct {
	// Dim is the number of cells on one side of the level.
	Dim int
	// Position is the weighted centroid of each cell and Weight is its
	// total weight. Position is only meaningful where Weight != 0.
	Position []r2.Vec
	Weight []float64
	// Effect is the far-field effect accumulated at each cell.
	Effect []r2.Vec

	origin, width r2.Vec
}

// Pyramid is the stack of grids used by the multipole phases. Levels[0] is
// the finest level and each following level halves the side length.
type Pyramid struct {
	Levels []Level
}

// NewPyramid allocates a pyramid with the given number of levels whose
// finest level has baseDim cells on a side and covers limits.
func NewPyramid(levels, baseDim int, limits r2.Box) *Pyramid {
	p := &Pyramid{ Levels: make([]Level, levels) }
	span := limits.Max.Sub(limits.Min)
	for l := range p.Levels {
		dim := baseDim >> uint(l)
		n := dim*dim
		p.Levels[l] = Level{
			Dim: dim,
			Position: make([]r2.Vec, n),
			Weight: make([]float64, n),
			Effect: make([]r2.Vec, n),
			origin: limits.Min,
			width: r2.Vec{ X: span.X / float64(dim), Y: span.Y / float64(dim) },
		}
	}
	return p
}

// Top returns the index of the coarsest level.
func (p *Pyramid) Top() int { return len(p.Levels) - 1 }

// Cells returns the number of cells in the level.
func (lvl *Level) Cells() int { return lvl.Dim*lvl.Dim }

// Idx returns the array index of the cell at (cx, cy).
func (lvl *Level) Idx(cx, cy int) int { return cx + cy*lvl.Dim }

// Coords returns the cell coordinates of an array index.
func (lvl *Level) Coords(idx int) (cx, cy int) {
	return idx % lvl.Dim, idx / lvl.Dim
}

// BoundsCheck returns true if (cx, cy) is inside the level and false
// otherwise.
func (lvl *Level) BoundsCheck(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < lvl.Dim && cy < lvl.Dim
}

// Center returns the geometric center of the cell at idx.
func (lvl *Level) Center(idx int) r2.Vec {
	cx, cy := lvl.Coords(idx)
	return r2.Vec{
		X: lvl.origin.X + (float64(cx) + 0.5)*lvl.width.X,
		Y: lvl.origin.Y + (float64(cy) + 0.5)*lvl.width.Y,
	}
}

// anchor returns the point where the far-field effect of a cell is
// evaluated: its centroid when it has weight, its geometric center otherwise.
func (lvl *Level) anchor(idx int) r2.Vec {
	if lvl.Weight[idx] != 0 { return lvl.Position[idx] }
	return lvl.Center(idx)
}

// window returns the inclusive range of coordinates within one cell of c on
// a level with side dim.
func window(c, dim int) (lo, hi int) {
	lo, hi = c - 1, c + 1
	if lo < 0 { lo = 0 }
	if hi > dim - 1 { hi = dim - 1 }
	return lo, hi
}

// adjacent returns true if the two cells are the same cell or touch one
// another.
func adjacent(ax, ay, bx, by int) bool {
	dx, dy := ax - bx, ay - by
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}
