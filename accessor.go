// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package oit

import (
	"github.com/gpukit/oit/renderer"
	"github.com/gpukit/oit/task"
)

// BufferAccessor is the accumulation side's view of the fragment-list
// buffers. Accumulation stages use it to request the buffers during the
// prepare phase, coordinate the once-per-frame clear, and bind the buffers
// to their shaders; the resolve stage's buffer manager is the single owner.
//
// It is stateless over the frame context and can be shared by any number of
// stages.
type BufferAccessor struct{}

// RequestBuffers signals that this frame writes fragment data and needs the
// buffers prepared and resolved. Must be called during the prepare phase of
// a stage scheduled before the resolve stage.
func (BufferAccessor) RequestBuffers(ctx *task.Context) {
	ctx.OitRequest = true
}

// HasBuffers reports whether the buffer references were published this
// frame, which holds on every prepared frame after the first request.
func (BufferAccessor) HasBuffers(ctx *task.Context) bool {
	return ctx.OitCounter != nil
}

// IsCleared reports whether an earlier pass already cleared the buffers this
// frame.
func (BufferAccessor) IsCleared(ctx *task.Context) bool {
	return ctx.OitCleared
}

// MarkCleared records that the buffers were cleared, so later passes in the
// same frame skip their clear.
func (BufferAccessor) MarkCleared(ctx *task.Context) {
	ctx.OitCleared = true
}

// Clear records zeroing of the counter buffer unless a pass already did so
// this frame, and marks the buffers cleared. Zeroing resets the allocation
// cursor and empties every per-pixel list (list links are slot+1, zero
// terminates), so the sample buffers need no clear of their own.
func (a BufferAccessor) Clear(ctx *task.Context) {
	if !a.HasBuffers(ctx) || a.IsCleared(ctx) {
		return
	}
	ctx.Recording.Clear(ctx.OitCounter)
	a.MarkCleared(ctx)
}

// BufferBindings returns the draw bindings for the fragment-list buffers in
// shader binding order: counters, indices, data, depths, screen size. ok is
// false when the buffers were not published this frame.
func (a BufferAccessor) BufferBindings(ctx *task.Context) (bindings []renderer.Binding, ok bool) {
	if !a.HasBuffers(ctx) {
		return nil, false
	}
	return []renderer.Binding{
		renderer.BufferBinding(ctx.OitCounter),
		renderer.BufferBinding(ctx.OitIndex),
		renderer.BufferBinding(ctx.OitData),
		renderer.BufferBinding(ctx.OitDepth),
		renderer.UniformBinding(ctx.OitUniform),
	}, true
}
