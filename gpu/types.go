// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// BufferUsages are bit flags for the roles of a [Buffer].
type BufferUsages uint32

const (
	// VertexBuffer holds packed vertices.
	VertexBuffer BufferUsages = 1 << iota

	// IndexBuffer holds uint32 indices.
	IndexBuffer

	// UniformBuffer holds shader uniforms.
	UniformBuffer
)

// usageNames are in bit order.
var usageNames = []string{"Vertex", "Index", "Uniform"}

// Has returns whether all of the given flags are set.
func (bu BufferUsages) Has(flag BufferUsages) bool {
	return bu&flag == flag
}

func (bu BufferUsages) String() string {
	var names []string
	for i, nm := range usageNames {
		if bu.Has(1 << i) {
			names = append(names, nm)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

// usageToWGPU maps each usage flag to WebGPU buffer usage.
var usageToWGPU = map[BufferUsages]wgpu.BufferUsage{
	VertexBuffer:  wgpu.BufferUsageVertex,
	IndexBuffer:   wgpu.BufferUsageIndex,
	UniformBuffer: wgpu.BufferUsageUniform,
}

// WGPU returns the WebGPU buffer usage for these usages.
// CopyDst is always included so buffers can be rewritten.
func (bu BufferUsages) WGPU() wgpu.BufferUsage {
	us := wgpu.BufferUsageCopyDst
	for fl, wu := range usageToWGPU {
		if bu.Has(fl) {
			us |= wu
		}
	}
	return us
}

// VertexLayout returns the WebGPU layout of packed vertices:
// position, normal, uv and color at shader locations 0 to 3.
func VertexLayout() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{{
		ArrayStride: VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 32, ShaderLocation: 3},
		},
	}}
}
