// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package task runs a fixed pipeline of render tasks once per frame.
//
// Each frame has two phases: every task's Prepare runs in pipeline order
// (resource sizing, inter-stage signaling), then staged resource sources
// are flushed, then every task's Execute runs (command recording). The
// scheduler finally submits the frame's recording to the executor. All of
// this is single-threaded and frame-synchronous.
package task

import (
	"github.com/gpukit/oit/mem"
	"github.com/gpukit/oit/renderer"
)

// Context carries the frame-scoped state exchanged between tasks. It is
// rebuilt for every frame: signals and references never leak across frame
// boundaries, so stages that publish references must republish them each
// frame.
//
// Fields are statically named per collaborator contract; a nil reference or
// false flag means "absent this frame".
type Context struct {
	Arena     *mem.Arena
	Registry  *renderer.Registry
	Recording *renderer.Recording
	Executor  renderer.Executor

	// AovBindings is written by the render-setup stage and read by every
	// downstream pass that renders into the frame's output targets.
	AovBindings []renderer.AovBinding

	// OitRequest is set by the transparency-accumulation stage to signal
	// that it wrote fragment data and wants a resolve this frame. The
	// resolve stage consumes it.
	OitRequest bool

	// OitCleared is set by the first accumulation pass after it cleared
	// the fragment-list buffers, so that later passes in the same frame do
	// not clear again. The resolve stage erases it.
	OitCleared bool

	// OIT buffer references, republished by the resolve stage's buffer
	// manager on every prepared frame so accumulation shaders can bind
	// them. Nil until the first frame that requests OIT.
	OitCounter *renderer.BufferArray
	OitIndex   *renderer.BufferArray
	OitData    *renderer.BufferArray
	OitDepth   *renderer.BufferArray
	OitUniform *renderer.UniformBlock
}
