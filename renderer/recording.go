// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"github.com/gpukit/oit/mem"
)

// Recording is an ordered command stream produced by render stages during
// one frame and consumed by an execution backend. Commands and their
// payloads live in the frame arena; a recording must not outlive the frame
// it was recorded in.
type Recording struct {
	arena    *mem.Arena
	Commands []Command
}

func NewRecording(arena *mem.Arena) *Recording {
	return mem.Make(arena, Recording{arena: arena})
}

// Arena returns the frame arena backing this recording, for callers that
// need to allocate command payloads with matching lifetime.
func (rec *Recording) Arena() *mem.Arena { return rec.arena }

func (rec *Recording) push(cmd Command) {
	rec.Commands = mem.Append(rec.arena, rec.Commands, cmd)
}

// Clear records zeroing the full contents of a buffer array.
func (rec *Recording) Clear(buf *BufferArray) {
	rec.push(mem.Make(rec.arena, Clear{buf}))
}

// UploadUniform records uploading staged contents into a uniform block.
// Usually reached through Registry.Commit rather than called directly.
func (rec *Recording) UploadUniform(u *UniformBlock, data []byte) {
	rec.push(mem.Make(rec.arena, UploadUniform{u, data}))
}

// Draw records a full-screen draw through the given pass state. The binding
// order defines the shader's binding indices within group 0.
func (rec *Recording) Draw(state *PassState, shader ShaderSource, bindings []Binding) {
	rec.push(mem.Make(rec.arena, FullscreenDraw{
		State:    state,
		Shader:   shader,
		Bindings: mem.MakeSlice(rec.arena, bindings),
	}))
}

// ShaderSource is a named shader asset. Backends use Name as the cache key
// for the compiled module, so sources must be immutable per name.
type ShaderSource struct {
	Name string
	WGSL []byte
}

type Command interface {
	isCommand()
}

func (*Clear) isCommand()          {}
func (*UploadUniform) isCommand()  {}
func (*FullscreenDraw) isCommand() {}

type Clear struct {
	Buffer *BufferArray
}

type UploadUniform struct {
	Uniform *UniformBlock
	Data    []byte
}

type FullscreenDraw struct {
	State    *PassState
	Shader   ShaderSource
	Bindings []Binding
}

type BindingKind int

const (
	BindBuffer BindingKind = iota + 1
	BindUniform
)

// Binding attaches one resource to a draw. Exactly one of Buffer and
// Uniform is set, according to Kind.
type Binding struct {
	Kind    BindingKind
	Buffer  *BufferArray
	Uniform *UniformBlock
}

// BufferBinding wraps a buffer array as a draw binding.
func BufferBinding(b *BufferArray) Binding {
	return Binding{Kind: BindBuffer, Buffer: b}
}

// UniformBinding wraps a uniform block as a draw binding.
func UniformBinding(u *UniformBlock) Binding {
	return Binding{Kind: BindUniform, Uniform: u}
}
