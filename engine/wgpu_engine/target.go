// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package wgpu_engine

import (
	"honnef.co/go/wgpu"
)

// Target is a render-attachable color texture. It satisfies
// renderer.RenderTarget; draws executed by this engine require their output
// bindings to carry *Target values.
type Target struct {
	View   *wgpu.TextureView
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32

	texture *wgpu.Texture
}

// NewTarget creates a color target that can also be sampled by later passes.
func NewTarget(dev *wgpu.Device, label string, width, height uint32, format wgpu.TextureFormat) *Target {
	tex := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		Format:        format,
	})
	view := tex.CreateView(nil)
	return &Target{
		View:    view,
		Format:  format,
		Width:   width,
		Height:  height,
		texture: tex,
	}
}

// WrapView adapts an externally owned texture view, such as a surface
// texture's, into a target. Release is a no-op for wrapped views.
func WrapView(view *wgpu.TextureView, format wgpu.TextureFormat, width, height uint32) *Target {
	return &Target{
		View:   view,
		Format: format,
		Width:  width,
		Height: height,
	}
}

func (t *Target) Dimensions() (width, height uint32) {
	return t.Width, t.Height
}

func (t *Target) Release() {
	t.View.Release()
	if t.texture != nil {
		t.texture.Release()
	}
}
