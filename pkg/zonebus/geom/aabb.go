package geom

import (
	"fmt"
	"math"
)

// Epsilon is the float64 machine epsilon. Direction components with a
// smaller magnitude are treated as parallel to the slab.
const Epsilon = 0x1p-52

// AABB is an axis-aligned bounding box in integer world coordinates.
type AABB struct {
	Min Vec3i `json:"min" yaml:"min"`
	Max Vec3i `json:"max" yaml:"max"`
}

// Box builds an AABB from its two corners, ordering components so that
// Min <= Max on every axis.
func Box(a, b Vec3i) AABB {
	return AABB{
		Min: Vec3i{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: Vec3i{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// Valid reports whether Min <= Max on every axis.
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Contains reports whether p lies inside the box, borders included.
func (b AABB) Contains(p Vec3i) bool {
	for axis := 0; axis < 3; axis++ {
		c := p.Axis(axis)
		if c < b.Min.Axis(axis) || c > b.Max.Axis(axis) {
			return false
		}
	}
	return true
}

func (b AABB) String() string {
	return fmt.Sprintf("[%s..%s]", b.Min, b.Max)
}

// RayIntersectsAABB reports whether the ray starting at origin and heading
// along dir touches box at or in front of the origin.
//
// This is the slab method with the parametric interval starting at 0, so
// points behind the origin never count. dir is expected to be a unit vector
// but only its sign and relative magnitudes matter. A direction with a NaN
// or infinite component hits nothing.
func RayIntersectsAABB(origin Vec3i, dir Vec3f, box AABB) bool {
	if !dir.IsFinite() {
		return false
	}
	tMin, tMax := 0.0, math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o := float64(origin.Axis(axis))
		d := dir.Axis(axis)
		lo := float64(box.Min.Axis(axis))
		hi := float64(box.Max.Axis(axis))

		if math.Abs(d) < Epsilon {
			// Parallel: the ray stays in this slab only if it starts there.
			if o < lo || o > hi {
				return false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMax < tMin {
			return false
		}
	}

	// Whole hit interval lies behind the origin.
	if tMax < 0 {
		return false
	}
	return true
}

// Intersects is RayIntersectsAABB for an observer.
func (o Observer) Intersects(box AABB) bool {
	return RayIntersectsAABB(o.Origin, o.Direction, box)
}
