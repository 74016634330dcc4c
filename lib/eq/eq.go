/*package eq is a simple package for telling whether two arrays are equal to
one another.*/
package eq

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Generic returns true if two arrays are the same type and have the same values
// and false otherwise. Only []byte, []int, []uint64, []string, []float64, and
// []r2.Vec are supported.
func Generic(x, y interface{}) bool {
	switch xx := x.(type) {
	case []byte:
		yy, ok := y.([]byte)
		if !ok { return false }
		return Bytes(xx, yy)
	case []int:
		yy, ok := y.([]int)
		if !ok { return false }
		return Ints(xx, yy)
	case []uint64:
		yy, ok := y.([]uint64)
		if !ok { return false }
		return Uint64s(xx, yy)
	case []string:
		yy, ok := y.([]string)
		if !ok { return false }
		return Strings(xx, yy)
	case []float64:
		yy, ok := y.([]float64)
		if !ok { return false }
		return Float64s(xx, yy)
	case []r2.Vec:
		yy, ok := y.([]r2.Vec)
		if !ok { return false }
		return Vecs(xx, yy)
	}
	return false
}

// Strings returns true if two []string arrays are the same and false otherwise.
func Strings(x, y []string) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Bytes returns true if two []byte arrays are the same and false otherwise.
func Bytes(x, y []byte) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Uint64s returns true if two []uint64 arrays are the same and false otherwise.
func Uint64s(x, y []uint64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64s returns true if two []float64 arrays are the same and false
// otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Vecs returns true if two []r2.Vec arrays are the same and false otherwise.
func Vecs(x, y []r2.Vec) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] + eps < y[i] || x[i] - eps > y[i] {
			return false
		}
	}
	return true
}

// VecsEps returns true if every component of the two []r2.Vec arrays is
// within eps of the other array and false otherwise.
func VecsEps(x, y []r2.Vec, eps float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if math.Abs(x[i].X - y[i].X) > eps || math.Abs(x[i].Y - y[i].Y) > eps {
			return false
		}
	}
	return true
}

// VecsRelEps returns true if |x[i] - y[i]| <= eps*|y[i]| for every element,
// and false otherwise. Elements where y[i] is the zero vector must match
// exactly.
func VecsRelEps(x, y []r2.Vec, eps float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		dx, dy := x[i].X - y[i].X, x[i].Y - y[i].Y
		if math.Hypot(dx, dy) > eps*math.Hypot(y[i].X, y[i].Y) {
			return false
		}
	}
	return true
}
