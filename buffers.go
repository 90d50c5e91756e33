// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package oit

import (
	"honnef.co/go/safeish"

	"github.com/gpukit/oit/renderer"
	"github.com/gpukit/oit/task"
)

// bufferManager owns the fragment-list buffers and the screen-size uniform.
// Sizes only grow: the tracked extent is the component-wise maximum of all
// extents seen, so alternating between two viewports never reallocates.
type bufferManager struct {
	counter *renderer.BufferArray
	index   *renderer.BufferArray
	data    *renderer.BufferArray
	depth   *renderer.BufferArray
	uniform *renderer.UniformBlock

	size ScreenSize
}

// prepare sizes the buffers for the given extent and publishes references
// into the frame context. It is called once per requested frame; references
// must be republished every time because the context does not survive the
// frame.
func (m *bufferManager) prepare(ctx *task.Context, size ScreenSize) {
	// Zero is a valid extent (a minimized window still prepares); only
	// negative dimensions are a coding error.
	if size.Width < 0 || size.Height < 0 {
		Logger().Error("invalid viewport for fragment-list buffers",
			"width", size.Width, "height", size.Height)
		return
	}

	created := m.counter == nil
	if created {
		m.counter = ctx.Registry.AllocateBufferArray(roleCounter, renderer.FormatInt32)
		m.index = ctx.Registry.AllocateBufferArray(roleIndex, renderer.FormatInt32)
		m.data = ctx.Registry.AllocateBufferArray(roleData, renderer.FormatFloat32x4)
		m.depth = ctx.Registry.AllocateBufferArray(roleDepth, renderer.FormatFloat32)
		m.uniform = ctx.Registry.AllocateUniformBlock(roleUniform,
			renderer.BufferSize[screenSizeUniform]())
	}

	grown := ScreenSize{
		Width:  max(m.size.Width, size.Width),
		Height: max(m.size.Height, size.Height),
	}
	if created || grown != m.size {
		m.size = grown

		pixels := int(grown.Width) * int(grown.Height)
		// Slot 0 of the counter buffer is the shared allocation cursor;
		// per-pixel list heads start at slot 1.
		m.counter.Resize(pixels + 1)
		m.index.Resize(pixels * NumSamples)
		m.data.Resize(pixels * NumSamples)
		m.depth.Resize(pixels * NumSamples)

		u := screenSizeUniform{Width: grown.Width, Height: grown.Height}
		if err := ctx.Registry.AddSource(m.uniform, safeish.AsBytes(&u)); err != nil {
			Logger().Error("staging screen-size uniform", "err", err)
		}
	}

	ctx.OitCounter = m.counter
	ctx.OitIndex = m.index
	ctx.OitData = m.data
	ctx.OitDepth = m.depth
	ctx.OitUniform = m.uniform
}
