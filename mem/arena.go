// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package mem provides frame-scoped allocation.
//
// A single Arena backs all transient state of one frame: the command
// recording, the engine's bind tables, and anything else that must not leak
// across frame boundaries. The scheduler resets the arena at the start of
// every frame; resetting drops all pointers held in slab memory so the GC
// can reclaim what they referenced.
package mem

import (
	"reflect"
	"unsafe"
)

// Slabs are sized so that even large per-frame recordings fit in a handful
// of allocations.
const slabBytes = 1 << 20

type slab struct {
	data     unsafe.Pointer
	elemSize uintptr
	cap      int // in elements
	used     int // in elements
}

// Arena is a slab allocator for frame-transient values. All memory is typed
// (allocated through reflect.MakeSlice), so values containing Go pointers
// are safe to store; Reset zeroes used memory to release them.
//
// An Arena is not safe for concurrent use, matching the single-threaded
// frame model.
type Arena struct {
	slabs map[reflect.Type][]slab
}

func NewArena() *Arena {
	return &Arena{slabs: make(map[reflect.Type][]slab)}
}

func (a *Arena) alloc(typ reflect.Type, n int) unsafe.Pointer {
	slabs := a.slabs[typ]
	for i := range slabs {
		sl := &slabs[i]
		if sl.cap-sl.used >= n {
			ptr := unsafe.Add(sl.data, uintptr(sl.used)*sl.elemSize)
			sl.used += n
			return ptr
		}
	}

	capElems := 1
	if sz := int(typ.Size()); sz > 0 {
		capElems = slabBytes / sz
	}
	capElems = max(capElems, n, 1)
	v := reflect.MakeSlice(reflect.SliceOf(typ), capElems, capElems)
	a.slabs[typ] = append(slabs, slab{
		data:     v.UnsafePointer(),
		elemSize: typ.Size(),
		cap:      capElems,
		used:     n,
	})
	return a.slabs[typ][len(a.slabs[typ])-1].data
}

// Reset makes all slab memory available for reuse. Previously returned
// pointers and slices become invalid; the memory behind them is zeroed so
// that stale frame state cannot keep heap objects alive.
func (a *Arena) Reset() {
	if a.slabs == nil {
		a.slabs = make(map[reflect.Type][]slab)
	}
	for _, slabs := range a.slabs {
		for i := range slabs {
			sl := &slabs[i]
			clear(unsafe.Slice((*byte)(sl.data), uintptr(sl.used)*sl.elemSize))
			sl.used = 0
		}
	}
}

// New allocates a zeroed T in the arena.
func New[T any](a *Arena) *T {
	// reflect.TypeOf on a value of type T breaks down when T is an
	// interface type; go through a pointer instead.
	typ := reflect.TypeOf((*T)(nil)).Elem()
	return (*T)(a.alloc(typ, 1))
}

// Make allocates a T in the arena and initializes it to v.
func Make[T any](a *Arena, v T) *T {
	ptr := New[T](a)
	*ptr = v
	return ptr
}

// NewSlice allocates a slice of the given length and capacity in the arena.
func NewSlice[T ~[]E, E any](a *Arena, length, capacity int) T {
	if capacity == 0 {
		return nil
	}
	typ := reflect.TypeOf((*E)(nil)).Elem()
	ptr := a.alloc(typ, capacity)
	return T(unsafe.Slice((*E)(ptr), capacity)[:length])
}

// MakeSlice copies values into a fresh arena-backed slice.
func MakeSlice[T ~[]E, E any](a *Arena, values T) T {
	s := NewSlice[T, E](a, len(values), len(values))
	copy(s, values)
	return s
}

// Append appends to an arena-backed slice, growing through the arena when
// capacity is exhausted. The input slice must not be used afterwards.
func Append[T ~[]E, E any](a *Arena, s T, values ...E) T {
	need := len(s) + len(values)
	if need > cap(s) {
		newCap := cap(s)
		if newCap == 0 {
			newCap = need
		}
		for newCap < need {
			if newCap < 512 {
				newCap *= 2
			} else {
				newCap += newCap / 2
			}
		}
		grown := NewSlice[T, E](a, len(s), newCap)
		copy(grown, s)
		s = grown
	}
	return append(s, values...)
}
