// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package wgpu_engine executes renderer recordings on a WebGPU device.
//
// The engine materializes buffer arrays and uniform blocks lazily, on the
// first command that touches them, and reallocates when a resource's
// generation moved past the materialized copy. Retired allocations go back
// into a size-classed pool. Render pipelines are cached per shader, output
// format and fixed-function state.
package wgpu_engine

import (
	"fmt"

	"honnef.co/go/wgpu"

	"github.com/gpukit/oit/mem"
	"github.com/gpukit/oit/renderer"
)

type Engine struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	// arena backs the engine's resource tables. It lives as long as the
	// engine and is never reset.
	arena     *mem.Arena
	pool      resourcePool
	buffers   mem.SortedMap[renderer.ResourceID, *gpuBuffer]
	uniforms  mem.SortedMap[renderer.ResourceID, *wgpu.Buffer]
	modules   map[string]*wgpu.ShaderModule
	pipelines map[pipelineKey]*renderPipeline
}

// gpuBuffer is a materialized buffer array. generation is the array's
// generation at materialization time; a mismatch means the host resized the
// array and the allocation is stale.
type gpuBuffer struct {
	buf        *wgpu.Buffer
	generation uint64
}

func New(dev *wgpu.Device, queue *wgpu.Queue) *Engine {
	return &Engine{
		Device: dev,
		Queue:  queue,
		arena:  mem.NewArena(),
		pool: resourcePool{
			bufs: make(map[bufferProperties][]*wgpu.Buffer),
		},
		modules:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[pipelineKey]*renderPipeline),
	}
}

// SupportsBufferArrays reports that graphics shaders can bind storage
// buffers. True on every WebGPU implementation; the minimum device limits
// already include storage buffers in the fragment stage.
func (eng *Engine) SupportsBufferArrays() bool { return true }

// Execute materializes the recording's resources and submits its commands
// as a single command buffer.
func (eng *Engine) Execute(arena *mem.Arena, rec *renderer.Recording, label string) error {
	encoder := eng.Device.CreateCommandEncoder(mem.Make(arena, wgpu.CommandEncoderDescriptor{Label: label}))
	defer encoder.Release()

	for _, cmd := range rec.Commands {
		switch cmd := cmd.(type) {
		case *renderer.Clear:
			buf, err := eng.materializeBuffer(encoder, cmd.Buffer)
			if err != nil {
				return err
			}
			encoder.ClearBuffer(buf, 0, buf.Size())

		case *renderer.UploadUniform:
			buf := eng.materializeUniform(cmd.Uniform)
			eng.Queue.WriteBuffer(buf, 0, cmd.Data)

		case *renderer.FullscreenDraw:
			if err := eng.draw(arena, encoder, cmd); err != nil {
				return err
			}

		default:
			panic(fmt.Sprintf("unhandled command %T", cmd))
		}
	}

	cmdBuf := encoder.Finish(nil)
	eng.Queue.Submit(cmdBuf)
	cmdBuf.Release()
	return nil
}

// materializeBuffer returns the GPU allocation backing a buffer array,
// (re)creating it when the array was resized since. Pool reuse can hand out
// an allocation with stale contents, so fresh buffers are zeroed.
func (eng *Engine) materializeBuffer(encoder *wgpu.CommandEncoder, b *renderer.BufferArray) (*wgpu.Buffer, error) {
	if b.Len() == 0 {
		return nil, fmt.Errorf("wgpu_engine: buffer %q has no allocated length", b.Role())
	}
	if got, ok := eng.buffers.Get(b.ID()); ok {
		if got.generation == b.Generation() {
			return got.buf, nil
		}
		eng.pool.put(got.buf)
		eng.buffers.Delete(b.ID())
	}

	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	buf := eng.pool.get(eng.Device, uint64(b.SizeBytes()), b.Role(), usage)
	encoder.ClearBuffer(buf, 0, buf.Size())
	eng.buffers.Set(eng.arena, b.ID(), &gpuBuffer{buf: buf, generation: b.Generation()})
	return buf, nil
}

func (eng *Engine) materializeUniform(u *renderer.UniformBlock) *wgpu.Buffer {
	if buf, ok := eng.uniforms.Get(u.ID()); ok {
		return buf
	}
	buf := eng.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: u.Role(),
		Size:  uint64(u.SizeBytes()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	eng.uniforms.Set(eng.arena, u.ID(), buf)
	return buf
}

func (eng *Engine) draw(arena *mem.Arena, encoder *wgpu.CommandEncoder, cmd *renderer.FullscreenDraw) error {
	state := cmd.State
	if len(state.AovBindings) == 0 {
		return fmt.Errorf("wgpu_engine: draw %q has no output bindings", cmd.Shader.Name)
	}
	target, ok := state.AovBindings[0].Target.(*Target)
	if !ok {
		return fmt.Errorf("wgpu_engine: draw %q targets %T, want *wgpu_engine.Target",
			cmd.Shader.Name, state.AovBindings[0].Target)
	}

	pipeline, err := eng.renderPipeline(cmd.Shader, state, target.Format)
	if err != nil {
		return err
	}

	entries := mem.NewSlice[[]wgpu.BindGroupEntry](arena, len(cmd.Bindings), len(cmd.Bindings))
	for i, binding := range cmd.Bindings {
		switch binding.Kind {
		case renderer.BindBuffer:
			buf, err := eng.materializeBuffer(encoder, binding.Buffer)
			if err != nil {
				return err
			}
			entries[i] = wgpu.BindGroupEntry{
				Binding: uint32(i),
				Buffer:  buf,
				Size:    ^uint64(0),
			}
		case renderer.BindUniform:
			entries[i] = wgpu.BindGroupEntry{
				Binding: uint32(i),
				Buffer:  eng.materializeUniform(binding.Uniform),
				Size:    ^uint64(0),
			}
		default:
			panic(fmt.Sprintf("unhandled binding kind %d", binding.Kind))
		}
	}
	bindGroup := eng.Device.CreateBindGroup(mem.Make(arena, wgpu.BindGroupDescriptor{
		Layout:  pipeline.bindLayout,
		Entries: entries,
	}))
	defer bindGroup.Release()

	attachments := mem.NewSlice[[]wgpu.RenderPassColorAttachment](arena, 0, len(state.AovBindings))
	for _, aov := range state.AovBindings {
		t, ok := aov.Target.(*Target)
		if !ok {
			return fmt.Errorf("wgpu_engine: output binding %q targets %T, want *wgpu_engine.Target",
				aov.Name, aov.Target)
		}
		// The cached pipeline assumes one format across all attachments.
		if t.Format != target.Format {
			return fmt.Errorf("wgpu_engine: output binding %q has format %d, first binding has %d",
				aov.Name, t.Format, target.Format)
		}
		attachment := wgpu.RenderPassColorAttachment{
			View:    t.View,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}
		if aov.ClearValue != nil {
			attachment.LoadOp = wgpu.LoadOpClear
			attachment.ClearValue = wgpu.Color{
				R: float64(aov.ClearValue[0]),
				G: float64(aov.ClearValue[1]),
				B: float64(aov.ClearValue[2]),
				A: float64(aov.ClearValue[3]),
			}
		}
		attachments = mem.Append(arena, attachments, attachment)
	}

	renderPass := encoder.BeginRenderPass(mem.Make(arena, wgpu.RenderPassDescriptor{
		Label:            cmd.Shader.Name,
		ColorAttachments: attachments,
	}))
	defer renderPass.Release()

	renderPass.SetPipeline(pipeline.pipeline)
	renderPass.SetBindGroup(0, bindGroup, nil)
	renderPass.Draw(6, 1, 0, 0)
	renderPass.End()
	return nil
}

// Release frees all materialized resources. The engine must not be used
// afterwards.
func (eng *Engine) Release() {
	for _, b := range eng.buffers.All() {
		b.buf.Release()
	}
	for _, b := range eng.uniforms.All() {
		b.Release()
	}
	eng.pool.release()
	for _, p := range eng.pipelines {
		p.pipeline.Release()
		p.bindLayout.Release()
	}
	for _, m := range eng.modules {
		m.Release()
	}
}
