// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package renderer defines the backend-agnostic resource and command model
// shared by render stages and execution backends.
//
// Stages describe GPU work as a Recording referencing persistent resources
// (BufferArray, UniformBlock) owned by a Registry. A backend (see
// engine/wgpu_engine) materializes the resources and executes recordings.
// Nothing in this package touches a GPU API.
package renderer

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// BufferSize returns the byte size of T as laid out for GPU upload. T should
// embed structs.HostLayout so the Go layout matches the shader's.
func BufferSize[T any]() int {
	return int(unsafe.Sizeof(*new(T)))
}

var resourceID atomic.Uint64

func nextResourceID() ResourceID {
	return ResourceID(resourceID.Add(1))
}

// ResourceID uniquely identifies a resource across all registries for the
// lifetime of the process.
type ResourceID uint64

// Format is the element type of a buffer array. It must match the
// corresponding declaration in the shader that binds the array.
type Format int

const (
	FormatInt32 Format = iota + 1
	FormatFloat32
	FormatFloat32x4
)

// SizeBytes returns the byte size of one element.
func (f Format) SizeBytes() int {
	switch f {
	case FormatInt32, FormatFloat32:
		return 4
	case FormatFloat32x4:
		return 16
	default:
		panic(fmt.Sprintf("unhandled format %d", f))
	}
}

func (f Format) String() string {
	switch f {
	case FormatInt32:
		return "int32"
	case FormatFloat32:
		return "float32"
	case FormatFloat32x4:
		return "float32x4"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// BufferArray is a persistent, resizable GPU storage buffer measured in
// elements of a fixed Format. The host side only tracks the requested
// length; backends materialize and grow the actual GPU allocation when the
// generation changes.
//
// A BufferArray has a single owner (the stage that allocated it through a
// Registry). Other stages receive references via the frame context and must
// not resize it.
type BufferArray struct {
	id         ResourceID
	role       string
	format     Format
	length     int
	generation uint64
}

func (b *BufferArray) ID() ResourceID { return b.id }

// Role is the well-known name collaborating shaders use for this array.
func (b *BufferArray) Role() string { return b.role }

func (b *BufferArray) Format() Format { return b.format }

// Len returns the current length in elements. A freshly allocated array has
// length zero and no backing GPU memory.
func (b *BufferArray) Len() int { return b.length }

// SizeBytes returns the byte size of the current allocation request.
func (b *BufferArray) SizeBytes() int { return b.length * b.format.SizeBytes() }

// Generation increments on every effective resize. Backends compare it
// against the generation of their materialized buffer to decide whether to
// reallocate.
func (b *BufferArray) Generation() uint64 { return b.generation }

// Resize sets the length in elements. Setting the current length is a
// no-op; any other value invalidates the backing GPU allocation.
func (b *BufferArray) Resize(length int) {
	if length == b.length {
		return
	}
	b.length = length
	b.generation++
}

// UniformBlock is a small fixed-size uniform buffer. Contents are staged on
// the host through Registry.AddSource and uploaded at the next flush point
// (Registry.Commit), not immediately.
type UniformBlock struct {
	id    ResourceID
	role  string
	size  int
	data  []byte
	dirty bool
}

func (u *UniformBlock) ID() ResourceID { return u.id }

func (u *UniformBlock) Role() string { return u.role }

// SizeBytes returns the fixed byte size of the block.
func (u *UniformBlock) SizeBytes() int { return u.size }

// Data returns the currently staged contents, or nil if no source has been
// added yet.
func (u *UniformBlock) Data() []byte { return u.data }

// Dirty reports whether staged contents await upload at the next flush
// point.
func (u *UniformBlock) Dirty() bool { return u.dirty }

// Registry owns all persistent resources of one pipeline. It is the only
// place where buffer arrays and uniform blocks are created; stages hold
// pointers and collaborators receive read-only references through the frame
// context.
type Registry struct {
	buffers  []*BufferArray
	uniforms []*UniformBlock
	pending  []*UniformBlock
}

func NewRegistry() *Registry {
	return &Registry{}
}

// AllocateBufferArray creates an empty buffer array for the given role.
func (r *Registry) AllocateBufferArray(role string, format Format) *BufferArray {
	b := &BufferArray{
		id:     nextResourceID(),
		role:   role,
		format: format,
	}
	r.buffers = append(r.buffers, b)
	return b
}

// AllocateUniformBlock creates a uniform block of the given byte size.
func (r *Registry) AllocateUniformBlock(role string, size int) *UniformBlock {
	u := &UniformBlock{
		id:   nextResourceID(),
		role: role,
		size: size,
	}
	r.uniforms = append(r.uniforms, u)
	return u
}

// AddSource stages new contents for a uniform block. The upload happens at
// the next flush point; staging the same block twice before a flush keeps
// only the latest contents.
func (r *Registry) AddSource(u *UniformBlock, data []byte) error {
	if len(data) != u.size {
		return fmt.Errorf("renderer: source for uniform %q is %d bytes, block is %d", u.role, len(data), u.size)
	}
	if u.data == nil {
		u.data = make([]byte, u.size)
	}
	copy(u.data, data)
	if !u.dirty {
		u.dirty = true
		r.pending = append(r.pending, u)
	}
	return nil
}

// Commit is the resource flush point: it records uploads for all uniform
// blocks staged since the previous commit. The scheduler calls it once per
// frame, between the prepare and execute phases.
func (r *Registry) Commit(rec *Recording) {
	for _, u := range r.pending {
		rec.UploadUniform(u, u.data)
		u.dirty = false
	}
	r.pending = r.pending[:0]
}

// BufferArrays returns all arrays allocated so far, for diagnostics.
func (r *Registry) BufferArrays() []*BufferArray {
	return r.buffers
}
