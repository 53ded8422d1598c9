package types

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/math/f32"
)

type Vec3 f32.Vec3

// Subtract two Vec3.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Get Vec3 length.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
}

// Normalize vector.
func (v Vec3) Normalize() Vec3 {
	l := 1.0 / v.Len()
	return Vec3{v[0] * l, v[1] * l, v[2] * l}
}

// Calc cross product.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Check whether all components are zero.
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Convert to a mathgl vector.
func (v Vec3) Mgl() mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// Format the vector the way scene description formats expect it: "x, y, z".
func (v Vec3) String() string {
	return fmt.Sprintf("%g, %g, %g", v[0], v[1], v[2])
}

func vec3FromMgl(v mgl32.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
