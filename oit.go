// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package oit implements the resolve stage of order-independent
// transparency: per-pixel fragment lists accumulated by an upstream
// transparency pass are composited into the frame's color targets by a
// full-screen draw.
//
// The stage owns four screen-sized buffer arrays (counter, index, data,
// depth) and a screen-size uniform block, grows them with the viewport, and
// publishes references into the frame context for the accumulation shaders
// to bind. See ResolveStage for the per-frame protocol.
package oit

import "structs"

// NumSamples is the per-pixel fragment-list capacity. It must match
// num_samples in the resolve shader and in the accumulation shader; the
// buffers carry no self-describing layout.
const NumSamples = 8

// Viewport used when no AOV bindings are available to derive one from.
const fallbackScreenSize = 2048

// Well-known buffer roles, used as labels and shared with collaborating
// shaders.
const (
	roleCounter = "oitCounter"
	roleIndex   = "oitIndices"
	roleData    = "oitData"
	roleDepth   = "oitDepth"
	roleUniform = "oitUniforms"
)

// ScreenSize is a 2D integer extent in pixels.
type ScreenSize struct {
	Width  int32
	Height int32
}

// screenSizeUniform mirrors the ScreenSize uniform block in
// oit_resolve.wgsl.
type screenSizeUniform struct {
	_ structs.HostLayout

	Width  int32
	Height int32
}
