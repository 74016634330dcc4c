/*package particles contains named, generically-typed particle fields and
functions for moving particles between sets of them.*/
package particles

/* This file contains functions for managing particles and their fields. */

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particles represents a set of particles. It maps the name of each field
// (e.g. 'id', 'x', 'm', 'a') to a Field.
type Particles map[string]Field

// Field is a generic interface around a named array of per-particle data.
type Field interface {
	// Name returns the name of the field.
	Name() string
	// Len returns the length of the underlying array.
	Len() int
	// Data returns the underlying array as an interface{}.
	Data() interface{}
	// Transfer transfers data from the Field to the appropriately named field
	// in dest. Particles are transfer from the indices 'from' to the indices
	// 'to'. These indices are passed as arrays to amortize the cost of error
	// handling and type conversion.
	Transfer(dest Particles, from, to []int) error
	// CreateDestination creates an output field in p with the specified size
	// that has the correct name and type.
	CreateDestination(p Particles, n int)
}

// Type assertions
var (
	_ Field = &Uint64{ }
	_ Field = &Float64{ }
	_ Field = &Vec2{ }
)

// Uint64 implements the Field interface for []uint64 data. See the Field
// interface for documentation of this struct's methods.
type Uint64 struct {
	name string
	data []uint64
}

// NewUint64 creates a field with a given name associated with a given array.
func NewUint64(name string, x []uint64) *Uint64 {
	return &Uint64{ name, x }
}

func (x *Uint64) Name() string { return x.name }
func (x *Uint64) Len() int { return len(x.data) }
func (x *Uint64) Data() interface{} { return x.data }

func (x *Uint64) CreateDestination(p Particles, n int) {
	p[x.name] = NewUint64(x.name, make([]uint64, n))
}

func (x *Uint64) Transfer(dest Particles, from, to []int) error {
	destField, err := destination(dest, x.name, from, to)
	if err != nil { return err }

	destData, ok := destField.Data().([]uint64)
	if !ok { return typeError(x.name, "[]uint64") }
	err = checkIndices(from, to, len(x.data), len(destData))
	if err != nil { return err }

	for i := range from {
		destData[to[i]] = x.data[from[i]]
	}
	return nil
}

// Float64 implements the Field interface for []float64 data. See the Field
// interface for documentation of this struct's methods.
type Float64 struct {
	name string
	data []float64
}

// NewFloat64 creates a field with a given name associated with a given array.
func NewFloat64(name string, x []float64) *Float64 {
	return &Float64{ name, x }
}

func (x *Float64) Name() string { return x.name }
func (x *Float64) Len() int { return len(x.data) }
func (x *Float64) Data() interface{} { return x.data }

func (x *Float64) CreateDestination(p Particles, n int) {
	p[x.name] = NewFloat64(x.name, make([]float64, n))
}

func (x *Float64) Transfer(dest Particles, from, to []int) error {
	destField, err := destination(dest, x.name, from, to)
	if err != nil { return err }

	destData, ok := destField.Data().([]float64)
	if !ok { return typeError(x.name, "[]float64") }
	err = checkIndices(from, to, len(x.data), len(destData))
	if err != nil { return err }

	for i := range from {
		destData[to[i]] = x.data[from[i]]
	}
	return nil
}

// Vec2 implements the Field interface for []r2.Vec data. See the Field
// interface for documentation of this struct's methods.
type Vec2 struct {
	name string
	data []r2.Vec
}

// NewVec2 creates a field with a given name associated with a given array.
func NewVec2(name string, x []r2.Vec) *Vec2 {
	return &Vec2{ name, x }
}

func (x *Vec2) Name() string { return x.name }
func (x *Vec2) Len() int { return len(x.data) }
func (x *Vec2) Data() interface{} { return x.data }

func (x *Vec2) CreateDestination(p Particles, n int) {
	p[x.name] = NewVec2(x.name, make([]r2.Vec, n))
}

func (x *Vec2) Transfer(dest Particles, from, to []int) error {
	destField, err := destination(dest, x.name, from, to)
	if err != nil { return err }

	destData, ok := destField.Data().([]r2.Vec)
	if !ok { return typeError(x.name, "[]r2.Vec") }
	err = checkIndices(from, to, len(x.data), len(destData))
	if err != nil { return err }

	for i := range from {
		destData[to[i]] = x.data[from[i]]
	}
	return nil
}

func destination(dest Particles, name string, from, to []int) (Field, error) {
	destField, ok := dest[name]
	if !ok {
		return nil, fmt.Errorf("Destination Particles object does not contain the field '%s'.", name)
	}
	if len(from) != len(to) {
		return nil, fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}
	return destField, nil
}

func typeError(name, typeName string) error {
	return fmt.Errorf("Field '%s' in destination Particles object does not have %s type, as expected.", name, typeName)
}

func checkIndices(from, to []int, nFrom, nTo int) error {
	for i := range from {
		if from[i] < 0 || from[i] >= nFrom {
			return fmt.Errorf("'from' index %d is %d, but the source field only has %d elements.", i, from[i], nFrom)
		} else if to[i] < 0 || to[i] >= nTo {
			return fmt.Errorf("'to' index %d is %d, but the destination field only has %d elements.", i, to[i], nTo)
		}
	}
	return nil
}

// Names returns the names of the fields in p in sorted order.
func (p Particles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p { names = append(names, name) }
	sort.Strings(names)
	return names
}

// Len returns the number of particles in p. An error is returned if the
// fields do not all have the same length. An empty Particles has length 0.
func (p Particles) Len() (int, error) {
	names := p.Names()
	if len(names) == 0 { return 0, nil }

	n := p[names[0]].Len()
	for _, name := range names[1:] {
		if p[name].Len() != n {
			return 0, fmt.Errorf("Field '%s' has %d particles, but field '%s' has %d.", names[0], n, name, p[name].Len())
		}
	}
	return n, nil
}

// Subset returns a new Particles containing the particles of p at the
// indices in idx, in that order.
func Subset(p Particles, idx []int) (Particles, error) {
	out := Particles{ }
	to := make([]int, len(idx))
	for i := range to { to[i] = i }

	for _, name := range p.Names() {
		p[name].CreateDestination(out, len(idx))
		if err := p[name].Transfer(out, idx, to); err != nil {
			return nil, err
		}
	}
	return out, nil
}
