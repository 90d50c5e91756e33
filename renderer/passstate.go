// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

import "fmt"

// RenderTarget is an output color target owned by an external render-setup
// stage. Backends type-assert to their concrete target; stages only need
// the dimensions.
type RenderTarget interface {
	Dimensions() (width, height uint32)
}

// AovBinding attaches a named output target to a pass. A nil ClearValue
// means the pass loads and composites onto the target's existing contents.
type AovBinding struct {
	Name       string
	Target     RenderTarget
	ClearValue *[4]float32
}

// PassState bundles the fixed-function state of a draw submission: depth
// test and write, color write mask, blending, and the output bindings.
type PassState struct {
	DepthTestEnabled  bool
	DepthWriteEnabled bool
	ColorMask         ColorMask
	BlendEnabled      bool
	Blend             BlendState
	AovBindings       []AovBinding
}

type ColorMask uint8

const (
	ColorMaskRed ColorMask = 1 << iota
	ColorMaskGreen
	ColorMaskBlue
	ColorMaskAlpha

	ColorMaskNone ColorMask = 0
	ColorMaskRGBA ColorMask = ColorMaskRed | ColorMaskGreen | ColorMaskBlue | ColorMaskAlpha
)

type BlendOp int

const (
	BlendOpAdd BlendOp = iota + 1
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota + 1
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

// BlendComponent is the equation for one channel group:
// result = src*SrcFactor Op dst*DstFactor.
type BlendComponent struct {
	Op        BlendOp
	SrcFactor BlendFactor
	DstFactor BlendFactor
}

// BlendState configures blending for the color channels and the alpha
// channel separately, mirroring the fixed-function GPU state.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// PremulOver is the compositing equation for premultiplied inputs:
// src*One + dst*(1-srcAlpha) on both channel groups. The source RGB already
// carries its alpha, so the source factor is One; alpha accumulates with
// the same survive-the-occluder semantics as light through stacked
// translucent layers (two 50% layers leave 25% unoccluded).
func PremulOver() BlendState {
	comp := BlendComponent{
		Op:        BlendOpAdd,
		SrcFactor: BlendFactorOne,
		DstFactor: BlendFactorOneMinusSrcAlpha,
	}
	return BlendState{Color: comp, Alpha: comp}
}

// Blend evaluates the fixed-function equation on the host for premultiplied
// RGBA values. It is the reference semantics of the GPU blend unit
// configured from this state, used to validate pass configurations.
func (bs BlendState) Blend(src, dst [4]float32) [4]float32 {
	var out [4]float32
	for i := range 3 {
		out[i] = applyOp(bs.Color.Op,
			src[i]*factorValue(bs.Color.SrcFactor, src[3], dst[3]),
			dst[i]*factorValue(bs.Color.DstFactor, src[3], dst[3]))
	}
	out[3] = applyOp(bs.Alpha.Op,
		src[3]*factorValue(bs.Alpha.SrcFactor, src[3], dst[3]),
		dst[3]*factorValue(bs.Alpha.DstFactor, src[3], dst[3]))
	return out
}

func factorValue(f BlendFactor, srcAlpha, dstAlpha float32) float32 {
	switch f {
	case BlendFactorZero:
		return 0
	case BlendFactorOne:
		return 1
	case BlendFactorSrcAlpha:
		return srcAlpha
	case BlendFactorOneMinusSrcAlpha:
		return 1 - srcAlpha
	case BlendFactorDstAlpha:
		return dstAlpha
	case BlendFactorOneMinusDstAlpha:
		return 1 - dstAlpha
	default:
		panic(fmt.Sprintf("unhandled blend factor %d", f))
	}
}

func applyOp(op BlendOp, src, dst float32) float32 {
	switch op {
	case BlendOpAdd:
		return src + dst
	case BlendOpSubtract:
		return src - dst
	case BlendOpReverseSubtract:
		return dst - src
	case BlendOpMin:
		return min(src, dst)
	case BlendOpMax:
		return max(src, dst)
	default:
		panic(fmt.Sprintf("unhandled blend op %d", op))
	}
}
