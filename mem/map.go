// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package mem

import (
	"iter"
	"sort"

	"golang.org/x/exp/constraints"
)

// SortedMap is a small ordered map backed by arena slices. It targets the
// handful-of-entries case (per-frame resource tables keyed by resource ID),
// where binary search over a compact slice beats a hash map.
//
// The zero value is an empty map.
type SortedMap[K constraints.Ordered, V any] struct {
	keys []K
	vals []V
}

func (m *SortedMap[K, V]) search(key K) (int, bool) {
	idx := sort.Search(len(m.keys), func(i int) bool {
		return m.keys[i] >= key
	})
	return idx, idx < len(m.keys) && m.keys[idx] == key
}

// Set inserts or replaces the value for key.
func (m *SortedMap[K, V]) Set(a *Arena, key K, value V) {
	idx, ok := m.search(key)
	if ok {
		m.vals[idx] = value
		return
	}
	m.keys = Append(a, m.keys, key)
	m.vals = Append(a, m.vals, value)
	copy(m.keys[idx+1:], m.keys[idx:])
	copy(m.vals[idx+1:], m.vals[idx:])
	m.keys[idx] = key
	m.vals[idx] = value
}

// Get returns the value for key.
func (m *SortedMap[K, V]) Get(key K) (V, bool) {
	if idx, ok := m.search(key); ok {
		return m.vals[idx], true
	}
	var zero V
	return zero, false
}

// Delete removes key and reports whether it was present.
func (m *SortedMap[K, V]) Delete(key K) bool {
	idx, ok := m.search(key)
	if !ok {
		return false
	}
	copy(m.keys[idx:], m.keys[idx+1:])
	copy(m.vals[idx:], m.vals[idx+1:])
	m.keys = m.keys[:len(m.keys)-1]
	m.vals = m.vals[:len(m.vals)-1]
	return true
}

func (m *SortedMap[K, V]) Len() int { return len(m.keys) }

// All iterates entries in ascending key order.
func (m *SortedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// Keys iterates keys in ascending order.
func (m *SortedMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, k := range m.keys {
			if !yield(k) {
				return
			}
		}
	}
}
