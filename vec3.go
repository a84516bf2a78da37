package rt

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 represents a 3D vector: a point, a direction or an RGB intensity triple.
//
// Vec3 is a plain value. Methods with a value receiver return a new vector
// and leave the receiver untouched; the *Assign methods mutate in place.
// Components are not validated: NaN and Inf inputs are accepted and flow
// through every operation following IEEE-754 rules.
type Vec3 struct {
	X, Y, Z float64
}

// Zero3 is the zero vector.
var Zero3 = Vec3{}

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// At returns component i: 0 is X, 1 is Y, 2 is Z.
// Any other index is a programming error and panics.
func (v Vec3) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(indexPanic(i))
}

// Ref returns a pointer to component i for read-write access.
// Any index outside [0,2] panics.
func (v *Vec3) Ref(i int) *float64 {
	switch i {
	case 0:
		return &v.X
	case 1:
		return &v.Y
	case 2:
		return &v.Z
	}
	panic(indexPanic(i))
}

// Set assigns component i. Any index outside [0,2] panics.
func (v *Vec3) Set(i int, x float64) {
	*v.Ref(i) = x
}

func indexPanic(i int) string {
	return fmt.Sprintf("rt: vector index %d out of range [0,2]", i)
}

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns v + (-w).
func (v Vec3) Sub(w Vec3) Vec3 {
	return v.Add(w.Neg())
}

// MulVec returns the component-wise product of two vectors.
func (v Vec3) MulVec(w Vec3) Vec3 {
	return Vec3{X: v.X * w.X, Y: v.Y * w.Y, Z: v.Z * w.Z}
}

// Mul returns the vector scaled by a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Scale returns v scaled by s. It is Mul with the operands swapped.
func Scale(s float64, v Vec3) Vec3 {
	return v.Mul(s)
}

// Div returns the vector multiplied by the reciprocal of s.
// A zero divisor is not guarded: components become ±Inf, or NaN where the
// component itself is zero.
func (v Vec3) Div(s float64) Vec3 {
	return v.Mul(1 / s)
}

// Neg returns the negation of the vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// AddAssign adds w to v in place.
func (v *Vec3) AddAssign(w Vec3) {
	v.X += w.X
	v.Y += w.Y
	v.Z += w.Z
}

// MulAssign scales v in place.
func (v *Vec3) MulAssign(s float64) {
	v.X *= s
	v.Y *= s
	v.Z *= s
}

// DivAssign scales v in place by the reciprocal of s.
func (v *Vec3) DivAssign(s float64) {
	v.MulAssign(1 / s)
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the Euclidean length of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// LengthSq returns the squared length of the vector.
// Prefer it over Length when only comparing magnitudes.
func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Unit returns v divided by its length.
//
// A zero vector is not special-cased: the division yields NaN in every
// component. Callers that may pass a zero vector should test IsZero first.
func (v Vec3) Unit() Vec3 {
	return v.Div(v.Length())
}

// Lerp performs linear interpolation between two vectors.
// t=0 returns v, t=1 returns w.
func (v Vec3) Lerp(w Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
		Z: v.Z + (w.Z-v.Z)*t,
	}
}

// IsZero returns true if the vector is the zero vector.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite reports whether no component is NaN or ±Inf.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Approx returns true if two vectors are approximately equal within epsilon.
func (v Vec3) Approx(w Vec3, epsilon float64) bool {
	return math.Abs(v.X-w.X) < epsilon &&
		math.Abs(v.Y-w.Y) < epsilon &&
		math.Abs(v.Z-w.Z) < epsilon
}

// String formats the vector as "(x, y, z)" with the shortest exact
// representation of each component. It is meant for debugging output.
func (v Vec3) String() string {
	b := make([]byte, 0, 48)
	b = append(b, '(')
	b = strconv.AppendFloat(b, v.X, 'g', -1, 64)
	b = append(b, ", "...)
	b = strconv.AppendFloat(b, v.Y, 'g', -1, 64)
	b = append(b, ", "...)
	b = strconv.AppendFloat(b, v.Z, 'g', -1, 64)
	b = append(b, ')')
	return string(b)
}

// Mgl converts v to a mathgl vector.
func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromMgl converts a mathgl vector to Vec3.
func FromMgl(m mgl64.Vec3) Vec3 {
	return Vec3{X: m[0], Y: m[1], Z: m[2]}
}
