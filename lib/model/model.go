/*package model generates initial conditions for nbfmm simulations.*/
package model

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phil-mansfield/nbfmm/lib/particles"
)

// Names of the fields used by Set.Particles and FromParticles.
const (
	IDField = "id"
	PositionField = "x"
	VelocityField = "v"
	WeightField = "m"
)

// Set is a collection of particles with weights and velocities.
type Set struct {
	ID []uint64
	Position, Velocity []r2.Vec
	Weight []float64
}

// NewSet allocates a Set with n particles whose IDs are 0 through n-1.
func NewSet(n int) *Set {
	s := &Set{
		ID: make([]uint64, n),
		Position: make([]r2.Vec, n),
		Velocity: make([]r2.Vec, n),
		Weight: make([]float64, n),
	}
	for i := range s.ID { s.ID[i] = uint64(i) }
	return s
}

// Len returns the number of particles in the set.
func (s *Set) Len() int { return len(s.Position) }

// Particles returns the fields of s. The fields share memory with s.
func (s *Set) Particles() particles.Particles {
	return particles.Particles{
		IDField: particles.NewUint64(IDField, s.ID),
		PositionField: particles.NewVec2(PositionField, s.Position),
		VelocityField: particles.NewVec2(VelocityField, s.Velocity),
		WeightField: particles.NewFloat64(WeightField, s.Weight),
	}
}

// FromParticles creates a Set which shares memory with the fields of p.
// Position and weight fields are required. Missing IDs default to 0 through
// n-1 and missing velocities default to zero.
func FromParticles(p particles.Particles) (*Set, error) {
	n, err := p.Len()
	if err != nil { return nil, err }
	s := NewSet(n)

	x, err := vec2Field(p, PositionField)
	if err != nil { return nil, err }
	w, err := float64Field(p, WeightField)
	if err != nil { return nil, err }
	s.Position, s.Weight = x, w

	if _, ok := p[VelocityField]; ok {
		v, err := vec2Field(p, VelocityField)
		if err != nil { return nil, err }
		s.Velocity = v
	}
	if f, ok := p[IDField]; ok {
		id, ok := f.Data().([]uint64)
		if !ok { return nil, fieldTypeError(IDField, "[]uint64", f) }
		s.ID = id
	}

	return s, nil
}

func vec2Field(p particles.Particles, name string) ([]r2.Vec, error) {
	f, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("The particles do not contain the field " +
			"'%s'.", name)
	}
	x, ok := f.Data().([]r2.Vec)
	if !ok { return nil, fieldTypeError(name, "[]r2.Vec", f) }
	return x, nil
}

func float64Field(p particles.Particles, name string) ([]float64, error) {
	f, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("The particles do not contain the field " +
			"'%s'.", name)
	}
	x, ok := f.Data().([]float64)
	if !ok { return nil, fieldTypeError(name, "[]float64", f) }
	return x, nil
}

func fieldTypeError(name, typeName string, f particles.Field) error {
	return fmt.Errorf("The field '%s' has type %T, but should have type %s.",
		name, f.Data(), typeName)
}

// Params describes a model. Which members are used depends on Type.
type Params struct {
	// Type is one of "rectangle", "disk", "double-disk", or "ring".
	Type string
	N int
	Seed uint64
	// Box is the region filled by "rectangle" models.
	Box r2.Box
	// Center is the center of "disk", "double-disk", and "ring" models.
	Center r2.Vec
	// Radius is the radius of each disk and the outer radius of rings.
	Radius float64
	// InnerRadius is the inner radius of rings.
	InnerRadius float64
	// Separation is the initial distance between the centers of the two
	// disks in a "double-disk" model.
	Separation float64
	// Weight is the weight of each particle and CentralWeight is the weight
	// of the central particle of a ring.
	Weight, CentralWeight float64
}

// Types lists the recognized values of Params.Type.
var Types = []string{ "rectangle", "disk", "double-disk", "ring" }

// Generate creates the model described by p.
func Generate(p Params) (*Set, error) {
	rng := NewRNG(p.Seed)
	switch strings.ToLower(p.Type) {
	case "rectangle": return Rectangle(rng, p.N, p.Box, p.Weight)
	case "disk": return Disk(rng, p.N, p.Center, p.Radius, p.Weight)
	case "double-disk":
		return DoubleDisk(rng, p.N, p.Center, p.Radius, p.Separation, p.Weight)
	case "ring":
		return Ring(rng, p.N, p.Center, p.InnerRadius, p.Radius,
			p.CentralWeight, p.Weight)
	}
	return nil, fmt.Errorf("Model type '%s' not recognized. The valid " +
		"types are %s.", p.Type, strings.Join(Types, ", "))
}

func checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("The particle count is %d, but must be " +
			"non-negative.", n)
	}
	return nil
}

func checkPositive(name string, x float64) error {
	if !(x > 0) || math.IsInf(x, 0) {
		return fmt.Errorf("%s is %g, but must be positive and finite.",
			name, x)
	}
	return nil
}

// Rectangle places n particles with weight w uniformly inside box. The
// particles are at rest.
func Rectangle(rng *RNG, n int, box r2.Box, w float64) (*Set, error) {
	if err := checkCount(n); err != nil { return nil, err }
	if err := checkPositive("Weight", w); err != nil { return nil, err }
	span := box.Max.Sub(box.Min)
	if err := checkPositive("Box width", span.X); err != nil { return nil, err }
	if err := checkPositive("Box height", span.Y); err != nil {
		return nil, err
	}

	s := NewSet(n)
	for i := 0; i < n; i++ {
		s.Position[i] = r2.Vec{
			X: rng.Range(box.Min.X, box.Max.X),
			Y: rng.Range(box.Min.Y, box.Max.Y),
		}
		s.Weight[i] = w
	}
	return s, nil
}

// Disk places n particles with weight w uniformly inside a disk. Each
// particle moves counter-clockwise on the circular orbit set by the weight
// interior to it.
func Disk(
	rng *RNG, n int, center r2.Vec, radius, w float64,
) (*Set, error) {
	if err := checkCount(n); err != nil { return nil, err }
	if err := checkPositive("Radius", radius); err != nil { return nil, err }
	if err := checkPositive("Weight", w); err != nil { return nil, err }

	s := NewSet(n)
	fillDisk(rng, s.Position, s.Velocity, center, radius, float64(n)*w)
	for i := range s.Weight { s.Weight[i] = w }
	return s, nil
}

// fillDisk writes a rotating disk with total weight m into x and v.
func fillDisk(
	rng *RNG, x, v []r2.Vec, center r2.Vec, radius, m float64,
) {
	for i := range x {
		r := radius*math.Sqrt(rng.Uniform())
		theta := 2*math.Pi*rng.Uniform()
		sin, cos := math.Sincos(theta)
		x[i] = r2.Vec{ X: center.X + r*cos, Y: center.Y + r*sin }

		if r == 0 { continue }
		interior := m*(r*r)/(radius*radius)
		vc := math.Sqrt(interior / r)
		v[i] = r2.Vec{ X: -vc*sin, Y: vc*cos }
	}
}

// DoubleDisk creates two rotating disks, each with half of the n particles,
// whose centers are separation apart on either side of center along the x
// axis. The disks fall towards each other with an impact offset of half a
// radius.
func DoubleDisk(
	rng *RNG, n int, center r2.Vec, radius, separation, w float64,
) (*Set, error) {
	if err := checkCount(n); err != nil { return nil, err }
	if err := checkPositive("Radius", radius); err != nil { return nil, err }
	if err := checkPositive("Separation", separation); err != nil {
		return nil, err
	}
	if err := checkPositive("Weight", w); err != nil { return nil, err }

	s := NewSet(n)
	nLeft := n / 2
	mLeft, mRight := float64(nLeft)*w, float64(n - nLeft)*w

	// Half the relative speed a test particle would have at this
	// separation on a circular orbit.
	vBulk := 0.5*math.Sqrt((mLeft + mRight) / separation)

	offset := r2.Vec{ X: separation / 2, Y: radius / 4 }
	left, right := center.Sub(offset), center.Add(offset)
	fillDisk(rng, s.Position[:nLeft], s.Velocity[:nLeft], left, radius, mLeft)
	fillDisk(rng, s.Position[nLeft:], s.Velocity[nLeft:], right, radius,
		mRight)

	for i := range s.Velocity {
		if i < nLeft {
			s.Velocity[i].X += vBulk
		} else {
			s.Velocity[i].X -= vBulk
		}
		s.Weight[i] = w
	}
	return s, nil
}

// Ring creates a central particle with weight centralWeight and n - 1
// particles with weight w on circular orbits around it at radii uniformly
// distributed between inner and outer.
func Ring(
	rng *RNG, n int, center r2.Vec, inner, outer, centralWeight, w float64,
) (*Set, error) {
	if n < 1 {
		return nil, fmt.Errorf("A ring needs at least one particle, but " +
			"the particle count is %d.", n)
	}
	if err := checkPositive("Radius", outer); err != nil { return nil, err }
	if err := checkPositive("CentralWeight", centralWeight); err != nil {
		return nil, err
	}
	if err := checkPositive("Weight", w); err != nil { return nil, err }
	if !(inner > 0) || inner > outer {
		return nil, fmt.Errorf("InnerRadius is %g, but must be in the " +
			"range (0, %g].", inner, outer)
	}

	s := NewSet(n)
	s.Position[0], s.Weight[0] = center, centralWeight
	for i := 1; i < n; i++ {
		r := rng.Range(inner, outer)
		theta := 2*math.Pi*rng.Uniform()
		sin, cos := math.Sincos(theta)
		vc := math.Sqrt(centralWeight / r)
		s.Position[i] = r2.Vec{ X: center.X + r*cos, Y: center.Y + r*sin }
		s.Velocity[i] = r2.Vec{ X: -vc*sin, Y: vc*cos }
		s.Weight[i] = w
	}
	return s, nil
}

// Bounds returns the smallest box containing every particle in s. The box
// is empty if s is.
func (s *Set) Bounds() r2.Box {
	if s.Len() == 0 { return r2.Box{ } }
	b := r2.Box{ Min: s.Position[0], Max: s.Position[0] }
	for _, x := range s.Position[1:] {
		b.Min.X, b.Min.Y = math.Min(b.Min.X, x.X), math.Min(b.Min.Y, x.Y)
		b.Max.X, b.Max.Y = math.Max(b.Max.X, x.X), math.Max(b.Max.Y, x.Y)
	}
	return b
}
