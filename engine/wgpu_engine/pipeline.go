// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package wgpu_engine

import (
	"fmt"

	"honnef.co/go/wgpu"

	"github.com/gpukit/oit/renderer"
)

// pipelineKey identifies a cached render pipeline. Everything that feeds
// pipeline creation must be part of the key.
type pipelineKey struct {
	shader       string
	format       wgpu.TextureFormat
	numTargets   int
	colorMask    renderer.ColorMask
	blendEnabled bool
	blend        renderer.BlendState
}

type renderPipeline struct {
	pipeline   *wgpu.RenderPipeline
	bindLayout *wgpu.BindGroupLayout
}

func (eng *Engine) shaderModule(src renderer.ShaderSource) *wgpu.ShaderModule {
	if module, ok := eng.modules[src.Name]; ok {
		return module
	}
	module := eng.Device.CreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  src.Name,
		Source: wgpu.ShaderSourceWGSL(src.WGSL),
	})
	eng.modules[src.Name] = module
	return module
}

func (eng *Engine) renderPipeline(shader renderer.ShaderSource, state *renderer.PassState, format wgpu.TextureFormat) (*renderPipeline, error) {
	if state.DepthTestEnabled || state.DepthWriteEnabled {
		// Needs a depth attachment plumbed through AovBinding first.
		return nil, fmt.Errorf("wgpu_engine: draw %q requires depth state, not supported", shader.Name)
	}

	key := pipelineKey{
		shader:       shader.Name,
		format:       format,
		numTargets:   len(state.AovBindings),
		colorMask:    state.ColorMask,
		blendEnabled: state.BlendEnabled,
	}
	if state.BlendEnabled {
		key.blend = state.Blend
	}
	if p, ok := eng.pipelines[key]; ok {
		return p, nil
	}

	module := eng.shaderModule(shader)
	bindLayout := eng.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   shader.Name,
		Entries: bindGroupLayoutEntries(shader),
	})
	pipelineLayout := eng.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            shader.Name,
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindLayout},
	})
	defer pipelineLayout.Release()

	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: colorMaskToWGPU(state.ColorMask),
	}
	if state.BlendEnabled {
		target.Blend = &wgpu.BlendState{
			Color: blendComponentToWGPU(state.Blend.Color),
			Alpha: blendComponentToWGPU(state.Blend.Alpha),
		}
	}
	targets := make([]wgpu.ColorTargetState, key.numTargets)
	for i := range targets {
		targets[i] = target
	}

	pipeline := eng.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  shader.Name,
		Layout: pipelineLayout,
		Vertex: &wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets:    targets,
		},
		Primitive: &wgpu.PrimitiveState{
			Topology:         wgpu.PrimitiveTopologyTriangleList,
			StripIndexFormat: ^wgpu.IndexFormat(0),
			FrontFace:        wgpu.FrontFaceCCW,
			CullMode:         wgpu.CullModeBack,
		},
		Multisample: &wgpu.MultisampleState{
			Count:                  1,
			Mask:                   ^uint32(0),
			AlphaToCoverageEnabled: false,
		},
	})

	p := &renderPipeline{pipeline: pipeline, bindLayout: bindLayout}
	eng.pipelines[key] = p
	return p, nil
}

// bindGroupLayoutEntries derives the bind group layout from the shader's
// binding contract: storage buffers followed by a trailing uniform, matching
// the binding order recorded with the draw.
//
// TODO(engine): reflect the layout out of the WGSL with naga instead of
// hardcoding the resolve shader's shape, once a second graphics shader
// exists.
func bindGroupLayoutEntries(src renderer.ShaderSource) []wgpu.BindGroupLayoutEntry {
	switch src.Name {
	case "oit_resolve":
		entries := make([]wgpu.BindGroupLayoutEntry, 5)
		for i := range 4 {
			entries[i] = wgpu.BindGroupLayoutEntry{
				Binding:    uint32(i),
				Visibility: wgpu.ShaderStageFragment,
				Buffer: &wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeReadOnlyStorage,
				},
			}
		}
		entries[4] = wgpu.BindGroupLayoutEntry{
			Binding:    4,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: &wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeUniform,
			},
		}
		return entries
	default:
		panic(fmt.Sprintf("unhandled shader %q", src.Name))
	}
}

func colorMaskToWGPU(mask renderer.ColorMask) wgpu.ColorWriteMask {
	var out wgpu.ColorWriteMask
	if mask&renderer.ColorMaskRed != 0 {
		out |= wgpu.ColorWriteMaskRed
	}
	if mask&renderer.ColorMaskGreen != 0 {
		out |= wgpu.ColorWriteMaskGreen
	}
	if mask&renderer.ColorMaskBlue != 0 {
		out |= wgpu.ColorWriteMaskBlue
	}
	if mask&renderer.ColorMaskAlpha != 0 {
		out |= wgpu.ColorWriteMaskAlpha
	}
	return out
}

func blendComponentToWGPU(c renderer.BlendComponent) wgpu.BlendComponent {
	return wgpu.BlendComponent{
		Operation: blendOpToWGPU(c.Op),
		SrcFactor: blendFactorToWGPU(c.SrcFactor),
		DstFactor: blendFactorToWGPU(c.DstFactor),
	}
}

func blendOpToWGPU(op renderer.BlendOp) wgpu.BlendOperation {
	switch op {
	case renderer.BlendOpAdd:
		return wgpu.BlendOperationAdd
	case renderer.BlendOpSubtract:
		return wgpu.BlendOperationSubtract
	case renderer.BlendOpReverseSubtract:
		return wgpu.BlendOperationReverseSubtract
	case renderer.BlendOpMin:
		return wgpu.BlendOperationMin
	case renderer.BlendOpMax:
		return wgpu.BlendOperationMax
	default:
		panic(fmt.Sprintf("unhandled blend op %d", op))
	}
}

func blendFactorToWGPU(f renderer.BlendFactor) wgpu.BlendFactor {
	switch f {
	case renderer.BlendFactorZero:
		return wgpu.BlendFactorZero
	case renderer.BlendFactorOne:
		return wgpu.BlendFactorOne
	case renderer.BlendFactorSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case renderer.BlendFactorOneMinusSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	case renderer.BlendFactorDstAlpha:
		return wgpu.BlendFactorDstAlpha
	case renderer.BlendFactorOneMinusDstAlpha:
		return wgpu.BlendFactorOneMinusDstAlpha
	default:
		panic(fmt.Sprintf("unhandled blend factor %d", f))
	}
}
