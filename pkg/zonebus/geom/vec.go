// Package geom provides the small amount of 3D geometry the zone watcher
// needs: integer and float vectors, axis-aligned boxes, and a forward-only
// ray–box intersection test.
package geom

import (
	"fmt"
	"math"
)

// Vec3i is an integer world coordinate.
type Vec3i struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// V3i is shorthand for constructing a Vec3i.
func V3i(x, y, z int) Vec3i {
	return Vec3i{X: x, Y: y, Z: z}
}

// Axis returns the component for axis 0 (X), 1 (Y) or 2 (Z).
func (v Vec3i) Axis(i int) int {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("geom: axis %d out of range", i))
}

// Float converts to a float vector.
func (v Vec3i) Float() Vec3f {
	return Vec3f{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func (v Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// Vec3f is a floating-point direction or position.
type Vec3f struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// V3f is shorthand for constructing a Vec3f.
func V3f(x, y, z float64) Vec3f {
	return Vec3f{X: x, Y: y, Z: z}
}

// Axis returns the component for axis 0 (X), 1 (Y) or 2 (Z).
func (v Vec3f) Axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("geom: axis %d out of range", i))
}

// IsZero reports whether every component is exactly zero.
func (v Vec3f) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3f) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Length returns the Euclidean length.
func (v Vec3f) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vec3f) Normalize() Vec3f {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec3f{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

func (v Vec3f) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Observer is the viewer state sampled once per poll tick.
type Observer struct {
	Origin    Vec3i `json:"origin"`
	Direction Vec3f `json:"direction"`
}

// HasDirection reports whether the observer has a usable look direction:
// finite and not zero.
func (o Observer) HasDirection() bool {
	return o.Direction.IsFinite() && !o.Direction.IsZero()
}
