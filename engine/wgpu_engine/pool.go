// Copyright 2026 The gpukit Authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package wgpu_engine

import (
	"math"
	"math/bits"

	"honnef.co/go/wgpu"
)

type bufferProperties struct {
	size   uint64
	usages wgpu.BufferUsage
}

// resourcePool recycles retired buffer allocations. Sizes are rounded up to
// a size class so that repeated viewport growth reuses allocations instead
// of creating near-duplicates.
type resourcePool struct {
	bufs map[bufferProperties][]*wgpu.Buffer
}

func (pool *resourcePool) get(
	dev *wgpu.Device,
	size uint64,
	name string,
	usage wgpu.BufferUsage,
) *wgpu.Buffer {
	const sizeClassBits = 1

	roundedSize := poolSizeClass(size, sizeClassBits)
	props := bufferProperties{
		size:   roundedSize,
		usages: usage,
	}
	if bufVec := pool.bufs[props]; len(bufVec) > 0 {
		buf := bufVec[len(bufVec)-1]
		pool.bufs[props] = bufVec[:len(bufVec)-1]
		return buf
	}
	return dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  roundedSize,
		Usage: usage,
	})
}

func (pool *resourcePool) put(buf *wgpu.Buffer) {
	props := bufferProperties{
		size:   buf.Size(),
		usages: buf.Usage(),
	}
	pool.bufs[props] = append(pool.bufs[props], buf)
}

func (pool *resourcePool) release() {
	for _, bufVec := range pool.bufs {
		for _, buf := range bufVec {
			buf.Release()
		}
	}
	clear(pool.bufs)
}

// poolSizeClass rounds x up to the next power of two with numBits
// significant bits, the pool's allocation granularity.
func poolSizeClass(x uint64, numBits uint32) uint64 {
	if x > 1<<numBits {
		a := bits.LeadingZeros64(x - 1)
		b := (x - 1) | (((math.MaxUint64 / 2) >> numBits) >> a)
		return b + 1
	} else {
		return 1 << numBits
	}
}
