// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package mem

import (
	"slices"
	"testing"
)

func TestSortedMap(t *testing.T) {
	a := NewArena()
	var m SortedMap[uint64, string]

	if _, ok := m.Get(1); ok {
		t.Fatal("zero value map should be empty")
	}

	m.Set(a, 5, "five")
	m.Set(a, 1, "one")
	m.Set(a, 3, "three")
	m.Set(a, 1, "ONE")

	if m.Len() != 3 {
		t.Fatalf("Len = %d, want 3", m.Len())
	}
	if v, ok := m.Get(1); !ok || v != "ONE" {
		t.Errorf("Get(1) = %q, %v; want ONE, true", v, ok)
	}

	var keys []uint64
	var vals []string
	for k, v := range m.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	if !slices.Equal(keys, []uint64{1, 3, 5}) {
		t.Errorf("iteration order %v, want ascending", keys)
	}
	if !slices.Equal(vals, []string{"ONE", "three", "five"}) {
		t.Errorf("iteration values %v", vals)
	}

	if !m.Delete(3) {
		t.Error("Delete(3) = false for present key")
	}
	if m.Delete(3) {
		t.Error("Delete(3) = true for absent key")
	}
	if _, ok := m.Get(3); ok {
		t.Error("key 3 still present after delete")
	}
	if keys := slices.Collect(m.Keys()); !slices.Equal(keys, []uint64{1, 5}) {
		t.Errorf("keys after delete: %v", keys)
	}
}
