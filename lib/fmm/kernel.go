package fmm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kernel returns the effect that a source at b with weight wb has on a
// target at a. Kernels must be pure: they are called concurrently from every
// worker and must not depend on anything besides their arguments.
type Kernel func(a, b r2.Vec, wb float64) r2.Vec

// Gravity is the inverse-square attraction wb*(b - a)/|b - a|^3. It is the
// same law as gonum's barneshut.Gravity2 for a unit-mass target and returns
// a zero vector for coincident points.
func Gravity(a, b r2.Vec, wb float64) r2.Vec {
	dx, dy := b.X - a.X, b.Y - a.Y
	d2 := dx*dx + dy*dy
	if d2 == 0 { return r2.Vec{ } }
	f := wb / (d2*math.Sqrt(d2))
	return r2.Vec{ X: dx*f, Y: dy*f }
}

// Coulomb is the repulsive counterpart of Gravity: like-signed weights push
// each other apart.
func Coulomb(a, b r2.Vec, wb float64) r2.Vec {
	return Gravity(a, b, -wb)
}

// Softened returns a Plummer-softened Gravity kernel with softening length
// eps.
func Softened(eps float64) Kernel {
	eps2 := eps*eps
	return func(a, b r2.Vec, wb float64) r2.Vec {
		dx, dy := b.X - a.X, b.Y - a.Y
		d2 := dx*dx + dy*dy
		if d2 == 0 { return r2.Vec{ } }
		d2 += eps2
		f := wb / (d2*math.Sqrt(d2))
		return r2.Vec{ X: dx*f, Y: dy*f }
	}
}

// Potential returns a kernel which computes the softened gravitational
// potential -wb/sqrt(|b - a|^2 + eps^2). The potential is stored in the X
// component and Y is always zero.
func Potential(eps float64) Kernel {
	eps2 := eps*eps
	return func(a, b r2.Vec, wb float64) r2.Vec {
		dx, dy := b.X - a.X, b.Y - a.Y
		d2 := dx*dx + dy*dy + eps2
		if d2 == 0 { return r2.Vec{ } }
		return r2.Vec{ X: -wb / math.Sqrt(d2) }
	}
}
