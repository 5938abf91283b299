package benchmarks

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/zonebus/pkg/zonebus/geom"
	"github.com/randalmurphal/zonebus/pkg/zonebus/zonestore"
)

// BenchmarkRayIntersectsAABB measures the slab test for a hit and a miss.
func BenchmarkRayIntersectsAABB(b *testing.B) {
	box := geom.Box(geom.V3i(5, -1, -1), geom.V3i(10, 1, 1))
	origin := geom.V3i(0, 0, 0)

	cases := map[string]geom.Vec3f{
		"hit":      geom.V3f(1, 0, 0),
		"behind":   geom.V3f(-1, 0, 0),
		"diagonal": geom.V3f(1, 1, 1).Normalize(),
	}
	for name, dir := range cases {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = geom.RayIntersectsAABB(origin, dir, box)
			}
		})
	}
}

func zoneRecord(i int) zonestore.Record {
	return zonestore.Record{
		ID:  fmt.Sprintf("zone-%03d", i%100),
		Min: geom.V3i(i, 0, 0),
		Max: geom.V3i(i+1, 1, 1),
	}
}

// BenchmarkMemoryStore_Put measures in-memory zone upserts.
func BenchmarkMemoryStore_Put(b *testing.B) {
	store := zonestore.NewMemoryStore()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Put(zoneRecord(i))
	}
}

// BenchmarkSQLiteStore_Put measures SQLite zone upserts.
func BenchmarkSQLiteStore_Put(b *testing.B) {
	store, err := zonestore.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Put(zoneRecord(i))
	}
}

// BenchmarkSQLiteStore_List measures loading a 100-zone catalogue.
func BenchmarkSQLiteStore_List(b *testing.B) {
	store, err := zonestore.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	for i := 0; i < 100; i++ {
		_ = store.Put(zoneRecord(i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.List()
	}
}
