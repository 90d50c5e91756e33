// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package oit

import (
	"github.com/gpukit/oit/renderer"
	"github.com/gpukit/oit/task"
)

type stageState int

const (
	stageUninitialized stageState = iota
	stageDisabled
	stageReady
)

// ResolveStage composites accumulated fragment lists into the frame's color
// targets. It must be scheduled after every accumulation stage.
//
// The stage is idle until an accumulation stage requests work through
// BufferAccessor.RequestBuffers. The first requested frame initializes it:
// an executor without buffer-array support disables the stage permanently
// (reported once); otherwise the pass state and shader are set up and the
// stage is ready. Buffers are retained across idle frames; they are released
// only with the stage itself.
type ResolveStage struct {
	state     stageState
	buffers   bufferManager
	accessor  BufferAccessor
	passState *renderer.PassState
	shader    renderer.ShaderSource
}

// NewResolveStage returns an idle stage; initialization happens on the
// first frame that requests a resolve.
func NewResolveStage() *ResolveStage {
	return &ResolveStage{}
}

// Prepare sizes the fragment-list buffers for the frame's viewport and
// republishes their references. A frame without a resolve request does
// nothing.
func (r *ResolveStage) Prepare(ctx *task.Context) {
	if !ctx.OitRequest {
		return
	}

	// A stale cleared flag would make the first accumulation pass skip its
	// clear and composite onto last frame's lists.
	ctx.OitCleared = false

	if r.state == stageUninitialized {
		r.initialize(ctx)
	}
	if r.state == stageDisabled {
		return
	}

	// Composite onto whatever the opaque passes produced; a clear value on
	// an output binding must not survive into this pass.
	r.passState.AovBindings = r.passState.AovBindings[:0]
	for _, aov := range ctx.AovBindings {
		aov.ClearValue = nil
		r.passState.AovBindings = append(r.passState.AovBindings, aov)
	}

	var size ScreenSize
	if len(ctx.AovBindings) > 0 {
		w, h := ctx.AovBindings[0].Target.Dimensions()
		size = ScreenSize{Width: int32(w), Height: int32(h)}
	} else {
		if r.buffers.size.Width != fallbackScreenSize {
			Logger().Warn("no output bindings to derive a viewport from, using fallback",
				"width", fallbackScreenSize, "height", fallbackScreenSize)
		}
		size = ScreenSize{Width: fallbackScreenSize, Height: fallbackScreenSize}
	}

	r.buffers.prepare(ctx, size)
}

func (r *ResolveStage) initialize(ctx *task.Context) {
	backend, ok := ctx.Executor.(renderer.BufferArrayBackend)
	if !ok || !backend.SupportsBufferArrays() {
		Logger().Error("executor cannot bind buffer arrays to graphics shaders, transparency resolve disabled")
		r.state = stageDisabled
		return
	}

	r.passState = &renderer.PassState{
		DepthTestEnabled:  false,
		DepthWriteEnabled: false,
		ColorMask:         renderer.ColorMaskRGBA,
		BlendEnabled:      true,
		Blend:             renderer.PremulOver(),
	}
	r.shader = ResolveShader()
	r.state = stageReady
}

// Execute records the full-screen resolve draw. The frame's request and
// cleared flags are consumed regardless of outcome so the next frame starts
// clean.
func (r *ResolveStage) Execute(ctx *task.Context) {
	if !ctx.OitRequest {
		return
	}
	ctx.OitRequest = false
	ctx.OitCleared = false

	if r.state != stageReady {
		return
	}
	if r.passState == nil || r.shader.Name == "" {
		Logger().Error("resolve stage ready without pass state or shader")
		return
	}

	bindings, ok := r.accessor.BufferBindings(ctx)
	if !ok {
		Logger().Error("resolve executed without prepared fragment-list buffers, scheduling-order bug")
		return
	}

	// On the fallback-viewport path there is no target to composite into.
	// The buffers were still sized and published for collaborators; the
	// draw itself has nowhere to go, which is not an error.
	if len(r.passState.AovBindings) == 0 {
		return
	}

	ctx.Recording.Draw(r.passState, r.shader, bindings)
}
