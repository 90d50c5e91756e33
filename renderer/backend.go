// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import "github.com/gpukit/oit/mem"

// Executor runs a frame's recording on some backend.
type Executor interface {
	// Execute submits the recording. The arena is the frame arena the
	// recording was built from; executors may use it for transient
	// submission state.
	Execute(arena *mem.Arena, rec *Recording, label string) error
}

// BufferArrayBackend marks executors that can bind general-purpose buffer
// arrays to graphics shaders. Stages that depend on buffer arrays check for
// this interface once at initialization and disable themselves permanently
// when the active executor does not satisfy it.
type BufferArrayBackend interface {
	Executor
	SupportsBufferArrays() bool
}
