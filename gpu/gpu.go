// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu defines the [Backend] interface through which
// meshes are uploaded and drawn, and provides the [WGPU]
// implementation of it on top of WebGPU.
//
// A Backend only deals in opaque [Buffer] handles and per draw
// [PushConstants]; device, surface, pipeline and synchronization
// details stay inside the implementation.
package gpu

import (
	"encoding/binary"
	"math"

	"github.com/vkhuman/human3d/base/errors"
	"github.com/vkhuman/human3d/math32"
)

// ErrBackend is wrapped by all errors reported by a [Backend].
var ErrBackend = errors.New("graphics backend error")

// Debug turns on extra logging of GPU resource use.
var Debug = false

const (
	// PushConstantsSize is the size in bytes of encoded [PushConstants].
	PushConstantsSize = 80

	// VertexStride is the size in bytes of one packed vertex:
	// position, normal, uv and color as float32.
	VertexStride = 44
)

// Buffer is an opaque handle to a GPU buffer.
// The zero Buffer is no buffer.
type Buffer uint64

// Backend is the graphics device used to render frames.
// Calls are made from a single goroutine.
type Backend interface {

	// UploadBuffer creates a GPU buffer holding exactly the given data.
	UploadBuffer(data []byte, usage BufferUsages) (Buffer, error)

	// ReleaseBuffer frees a buffer made by UploadBuffer.
	// Each buffer must be released at most once.
	ReleaseBuffer(buf Buffer) error

	// Begin starts recording a new frame.
	Begin() error

	// SubmitDraw records one draw in the current frame.
	SubmitDraw(dr Draw) error

	// End finishes and presents the current frame.
	End() error
}

// Draw is one draw call.
type Draw struct {

	// Vertex buffer, packed with [VertexStride] bytes per vertex.
	Vertex Buffer

	// Index buffer of uint32 indices; zero if not indexed.
	Index Buffer

	// VertexCount is the number of vertices in Vertex.
	VertexCount int

	// IndexCount is the number of indices to draw; zero if not indexed.
	IndexCount int

	// Push has the per draw constants.
	Push PushConstants
}

// IsIndexed returns whether the draw uses an index buffer.
func (dr *Draw) IsIndexed() bool {
	return dr.IndexCount > 0
}

// PushConstants are the per draw values given to the shader.
type PushConstants struct {

	// Data has the elapsed time in seconds and the frame index
	// in X and Y, with Z and W unused.
	Data math32.Vector4

	// MVP is the model view projection matrix.
	MVP math32.Matrix4
}

// Bytes returns the [PushConstantsSize] byte encoding of the
// constants, as little-endian float32: Data then MVP in column order.
func (pc *PushConstants) Bytes() []byte {
	return pc.AppendBytes(make([]byte, 0, PushConstantsSize))
}

// AppendBytes appends the encoding of the constants to b.
func (pc *PushConstants) AppendBytes(b []byte) []byte {
	for _, f := range pc.Data.Array() {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	for _, f := range pc.MVP {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}
