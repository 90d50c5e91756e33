// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package oit

import "github.com/gpukit/oit/renderer"

// resolveWGSL composites per-pixel fragment lists front to back. Binding
// order matches BufferAccessor.BufferBindings; num_samples must match
// NumSamples.
//
// counters[0] is the shared allocation cursor written by the accumulation
// shader; counters[1 + pixel] holds the head of that pixel's list. Links are
// stored as slot+1 so that a zero-filled buffer reads as all lists empty.
// indices holds the next-pointers, data and depths the per-fragment
// payloads, all indexed by slot.
const resolveWGSL = `
		const num_samples = 8;

		struct ScreenSize {
			width: i32,
			height: i32,
		}

		@group(0) @binding(0)
		var<storage, read> counters: array<i32>;
		@group(0) @binding(1)
		var<storage, read> indices: array<i32>;
		@group(0) @binding(2)
		var<storage, read> data: array<vec4<f32>>;
		@group(0) @binding(3)
		var<storage, read> depths: array<f32>;
		@group(0) @binding(4)
		var<uniform> screen_size: ScreenSize;

		@vertex
		fn vs_main(@builtin(vertex_index) ix: u32) -> @builtin(position) vec4<f32> {
			// Generate a full screen quad in normalized device coordinates
			var vertex = vec2(-1.0, 1.0);
			switch ix {
				case 1u: {
					vertex = vec2(-1.0, -1.0);
				}
				case 2u, 4u: {
					vertex = vec2(1.0, -1.0);
				}
				case 5u: {
					vertex = vec2(1.0, 1.0);
				}
				default: {}
			}
			return vec4(vertex, 0.0, 1.0);
		}

		@fragment
		fn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
			let x = i32(pos.x);
			let y = i32(pos.y);
			if x >= screen_size.width || y >= screen_size.height {
				discard;
			}
			let pixel = y * screen_size.width + x;

			// Gather this pixel's list, capped at num_samples. Links are
			// slot+1; zero terminates.
			var sample_depth: array<f32, num_samples>;
			var sample_color: array<vec4<f32>, num_samples>;
			var count = 0;
			var node = counters[1 + pixel];
			while node != 0 && count < num_samples {
				let slot = node - 1;
				sample_depth[count] = depths[slot];
				sample_color[count] = data[slot];
				count = count + 1;
				node = indices[slot];
			}
			if count == 0 {
				discard;
			}

			// Insertion sort, nearest first.
			for (var i = 1; i < count; i = i + 1) {
				let d = sample_depth[i];
				let c = sample_color[i];
				var j = i;
				while j > 0 && sample_depth[j - 1] > d {
					sample_depth[j] = sample_depth[j - 1];
					sample_color[j] = sample_color[j - 1];
					j = j - 1;
				}
				sample_depth[j] = d;
				sample_color[j] = c;
			}

			// Composite front to back under the running premultiplied color.
			// The fixed-function blend then lays the result over the opaque
			// pass.
			var color = vec4(0.0);
			for (var i = 0; i < count; i = i + 1) {
				color = color + (1.0 - color.a) * sample_color[i];
			}
			return color;
		}`

// ResolveShader returns the fragment-list resolve shader. The name keys the
// backend's compiled-module cache.
func ResolveShader() renderer.ShaderSource {
	return renderer.ShaderSource{Name: "oit_resolve", WGSL: []byte(resolveWGSL)}
}
