package geom_test

import (
	"math"
	"testing"

	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
	"github.com/stretchr/testify/assert"
)

func TestRayIntersectsAABB(t *testing.T) {
	unitBox := geom.AABB{Min: geom.V3i(5, -1, -1), Max: geom.V3i(10, 1, 1)}

	tests := []struct {
		name   string
		origin geom.Vec3i
		dir    geom.Vec3f
		box    geom.AABB
		want   bool
	}{
		{"hit straight ahead", geom.V3i(0, 0, 0), geom.V3f(1, 0, 0), unitBox, true},
		{"box behind origin", geom.V3i(0, 0, 0), geom.V3f(-1, 0, 0), unitBox, false},
		{
			"perpendicular ray, box below on Y",
			geom.V3i(0, 0, 0), geom.V3f(0, 1, 0),
			geom.AABB{Min: geom.V3i(-1, -10, -1), Max: geom.V3i(1, -5, 1)},
			false,
		},
		{
			"perpendicular ray, box above on Y",
			geom.V3i(0, 0, 0), geom.V3f(0, 1, 0),
			geom.AABB{Min: geom.V3i(-1, 5, -1), Max: geom.V3i(1, 10, 1)},
			true,
		},
		{
			"parallel ray outside slab",
			geom.V3i(0, 3, 0), geom.V3f(1, 0, 0), unitBox,
			false,
		},
		{
			"parallel ray on slab border",
			geom.V3i(0, 1, 0), geom.V3f(1, 0, 0), unitBox,
			true,
		},
		{
			"origin inside box",
			geom.V3i(7, 0, 0), geom.V3f(-1, 0, 0), unitBox,
			true,
		},
		{
			"diagonal hit",
			geom.V3i(0, 0, 0), geom.V3f(1, 1, 0).Normalize(),
			geom.AABB{Min: geom.V3i(4, 4, -1), Max: geom.V3i(6, 6, 1)},
			true,
		},
		{
			"diagonal miss",
			geom.V3i(0, 0, 0), geom.V3f(1, 1, 0).Normalize(),
			geom.AABB{Min: geom.V3i(4, -6, -1), Max: geom.V3i(6, -4, 1)},
			false,
		},
		{
			"tiny component counts as parallel",
			geom.V3i(0, 3, 0), geom.V3f(1, 1e-20, 0), unitBox,
			false,
		},
		{
			"degenerate box touched at a point",
			geom.V3i(0, 0, 0), geom.V3f(1, 0, 0),
			geom.AABB{Min: geom.V3i(3, 0, 0), Max: geom.V3i(3, 0, 0)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geom.RayIntersectsAABB(tt.origin, tt.dir, tt.box))
		})
	}
}

func TestRayIntersectsAABB_NonFiniteDirection(t *testing.T) {
	behind := geom.Box(geom.V3i(-10, -1, -1), geom.V3i(-5, 1, 1))
	around := geom.Box(geom.V3i(-1, -1, -1), geom.V3i(1, 1, 1))

	dirs := map[string]geom.Vec3f{
		"NaN x":          geom.V3f(math.NaN(), 0, 0),
		"NaN all":        geom.V3f(math.NaN(), math.NaN(), math.NaN()),
		"+Inf x":         geom.V3f(math.Inf(1), 0, 0),
		"-Inf z":         geom.V3f(0, 0, math.Inf(-1)),
		"normalized Inf": geom.V3f(math.Inf(1), 0, 0).Normalize(),
	}
	for name, dir := range dirs {
		t.Run(name, func(t *testing.T) {
			assert.False(t, geom.RayIntersectsAABB(geom.V3i(0, 0, 0), dir, behind))
			assert.False(t, geom.RayIntersectsAABB(geom.V3i(0, 0, 0), dir, around))
			assert.False(t, geom.Observer{Direction: dir}.HasDirection())
		})
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, geom.V3f(1, -2, 3).IsFinite())
	assert.True(t, geom.Vec3f{}.IsFinite())
	assert.False(t, geom.V3f(0, math.NaN(), 0).IsFinite())
	assert.False(t, geom.V3f(0, 0, math.Inf(1)).IsFinite())
}

func TestObserverIntersects(t *testing.T) {
	obs := geom.Observer{Origin: geom.V3i(0, 0, 0), Direction: geom.V3f(0, 0, 1)}
	assert.True(t, obs.Intersects(geom.Box(geom.V3i(-1, -1, 4), geom.V3i(1, 1, 8))))
	assert.False(t, obs.Intersects(geom.Box(geom.V3i(-1, -1, -8), geom.V3i(1, 1, -4))))
	assert.True(t, obs.HasDirection())
	assert.False(t, geom.Observer{}.HasDirection())
}

func TestBoxOrdersCorners(t *testing.T) {
	b := geom.Box(geom.V3i(3, -2, 9), geom.V3i(-1, 4, 0))
	assert.Equal(t, geom.V3i(-1, -2, 0), b.Min)
	assert.Equal(t, geom.V3i(3, 4, 9), b.Max)
	assert.True(t, b.Valid())
	assert.False(t, geom.AABB{Min: geom.V3i(1, 0, 0), Max: geom.V3i(0, 0, 0)}.Valid())
}

func TestAABBContains(t *testing.T) {
	b := geom.Box(geom.V3i(0, 0, 0), geom.V3i(2, 2, 2))
	assert.True(t, b.Contains(geom.V3i(1, 1, 1)))
	assert.True(t, b.Contains(geom.V3i(2, 0, 2)))
	assert.False(t, b.Contains(geom.V3i(3, 1, 1)))
}

func TestNormalize(t *testing.T) {
	v := geom.V3f(3, 0, 4).Normalize()
	assert.InDelta(t, 1.0, v.Length(), 1e-12)
	assert.InDelta(t, 0.6, v.X, 1e-12)
	assert.Equal(t, geom.Vec3f{}, geom.Vec3f{}.Normalize())
	assert.False(t, math.IsNaN(geom.Vec3f{}.Normalize().X))
}
