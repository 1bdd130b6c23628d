// Package vec provides the small 3-component vector type shared by the
// field, current and species packages.
package vec

import "math"

// Vec3 is a 3-component vector of field or momentum components.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// AddScaled returns v + w*s, the common "accumulate a weighted sample" op.
func (v Vec3) AddScaled(w Vec3, s float64) Vec3 {
	return Vec3{v.X + w.X*s, v.Y + w.Y*s, v.Z + w.Z*s}
}

// Dot returns the scalar product v . w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the vector product v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm2 returns |v|^2.
func (v Vec3) Norm2() float64 { return v.Dot(v) }

// Gamma returns the Lorentz factor for v interpreted as a proper velocity
// u = gamma*beta. gamma >= 1 always, so this never underflows.
func (v Vec3) Gamma() float64 {
	return math.Sqrt(1 + v.Norm2())
}
