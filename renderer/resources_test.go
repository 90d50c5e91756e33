// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpukit/oit/mem"
)

func TestBufferArrayResize(t *testing.T) {
	reg := NewRegistry()
	b := reg.AllocateBufferArray("test", FormatFloat32x4)

	assert.Equal(t, 0, b.Len())
	gen := b.Generation()

	b.Resize(100)
	assert.Equal(t, 100, b.Len())
	assert.Equal(t, 1600, b.SizeBytes())
	assert.Equal(t, gen+1, b.Generation())

	// Same length must not invalidate the backing allocation.
	b.Resize(100)
	assert.Equal(t, gen+1, b.Generation())

	b.Resize(50)
	assert.Equal(t, gen+2, b.Generation())
}

func TestResourceIDsUnique(t *testing.T) {
	reg := NewRegistry()
	a := reg.AllocateBufferArray("a", FormatInt32)
	b := reg.AllocateBufferArray("b", FormatInt32)
	u := reg.AllocateUniformBlock("u", 16)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), u.ID())
}

func TestUniformStaging(t *testing.T) {
	arena := mem.NewArena()
	reg := NewRegistry()
	u := reg.AllocateUniformBlock("screen", 8)

	err := reg.AddSource(u, []byte{1, 2, 3})
	require.Error(t, err, "short source must be rejected")
	assert.False(t, u.Dirty())

	require.NoError(t, reg.AddSource(u, []byte{1, 2, 3, 4, 5, 6, 7, 8}))
	assert.True(t, u.Dirty())

	// Staging twice before a flush keeps only the latest contents and
	// produces a single upload.
	require.NoError(t, reg.AddSource(u, []byte{8, 7, 6, 5, 4, 3, 2, 1}))

	rec := NewRecording(arena)
	reg.Commit(rec)
	require.Len(t, rec.Commands, 1)
	up, ok := rec.Commands[0].(*UploadUniform)
	require.True(t, ok, "expected an upload, got %T", rec.Commands[0])
	assert.Equal(t, u, up.Uniform)
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, up.Data)
	assert.False(t, u.Dirty())

	// Nothing staged, nothing uploaded.
	rec2 := NewRecording(arena)
	reg.Commit(rec2)
	assert.Empty(t, rec2.Commands)
}

func TestUniformSourceIsCopied(t *testing.T) {
	reg := NewRegistry()
	u := reg.AllocateUniformBlock("screen", 4)
	src := []byte{1, 2, 3, 4}
	require.NoError(t, reg.AddSource(u, src))
	src[0] = 99
	assert.Equal(t, []byte{1, 2, 3, 4}, u.Data(), "staged contents must not alias the caller's slice")
}

func TestRecordingDrawCopiesBindings(t *testing.T) {
	arena := mem.NewArena()
	reg := NewRegistry()
	b := reg.AllocateBufferArray("b", FormatInt32)
	rec := NewRecording(arena)

	bindings := []Binding{BufferBinding(b)}
	rec.Draw(&PassState{}, ShaderSource{Name: "s"}, bindings)
	bindings[0] = Binding{}

	draw := rec.Commands[0].(*FullscreenDraw)
	require.Len(t, draw.Bindings, 1)
	assert.Equal(t, BindBuffer, draw.Bindings[0].Kind)
	assert.Equal(t, b, draw.Bindings[0].Buffer)
}
