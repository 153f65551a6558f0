// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/math32"
)

// VisualID is the [ecs.ComponentID] of [Visual].
var VisualID = ecs.NewComponentID("Visual")

const (
	// VertexFloats is the number of float32 values in a packed [Vertex]:
	// position (3), normal (3), uv (2), color (3).
	VertexFloats = 11

	// VertexStride is the size in bytes of a packed [Vertex].
	VertexStride = VertexFloats * 4
)

// Vertex is one mesh vertex.
type Vertex struct {
	Position math32.Vector3
	Normal   math32.Vector3
	UV       math32.Vector2
	Color    math32.Vector3
}

// MeshKey identifies a mesh instance for GPU caching.
// Zero is never a valid key.
type MeshKey uint64

// lastKey is the last MeshKey handed out.
var lastKey atomic.Uint64

// Visual holds the CPU side mesh data of an entity.
// Two entities sharing the same *Visual share one GPU mesh.
// Two separate Visuals always have different keys,
// even if their content is identical.
type Visual struct {

	// Vertices in order.
	Vertices []Vertex

	// Indices into Vertices, three per triangle.
	// If empty, Vertices are drawn in order.
	Indices []uint32

	// Source is the file the mesh was loaded from, or
	// the name of the built-in mesh. Used for logging.
	Source string

	key MeshKey
}

func (*Visual) ComponentID() ecs.ComponentID { return VisualID }

// NewVisual returns a new [Visual] with the given mesh data.
func NewVisual(vertices []Vertex, indices []uint32) *Visual {
	return &Visual{Vertices: vertices, Indices: indices}
}

// Key returns the identity key of this Visual,
// assigning it on first use.
func (vi *Visual) Key() MeshKey {
	if vi.key == 0 {
		vi.key = MeshKey(lastKey.Add(1))
	}
	return vi.key
}

// IsIndexed returns whether the mesh has indices.
func (vi *Visual) IsIndexed() bool {
	return len(vi.Indices) > 0
}

// Validate checks that the mesh is not empty and that
// every index is in range.
func (vi *Visual) Validate() error {
	return ValidateMesh(vi.Vertices, vi.Indices)
}

// ValidateMesh checks that the given mesh data is not empty
// and that every index refers to one of the vertices.
func ValidateMesh(vertices []Vertex, indices []uint32) error {
	if len(vertices) == 0 {
		return fmt.Errorf("%w: mesh has no vertices", ErrConfig)
	}
	n := uint32(len(vertices))
	for i, ix := range indices {
		if ix >= n {
			return fmt.Errorf("%w: index %d at position %d, with %d vertices", ErrIndexRange, ix, i, n)
		}
	}
	return nil
}

// ContentHash returns a fingerprint of the mesh data.
// It is only meant for diagnostics: mesh caching uses [Visual.Key].
func (vi *Visual) ContentHash() uint64 {
	d := xxhash.New()
	d.Write(EncodeVertices(vi.Vertices))
	d.Write(EncodeIndices(vi.Indices))
	return d.Sum64()
}

// CopyComponent returns a copy of the Visual with its own
// mesh data and a new identity.
func (vi *Visual) CopyComponent() ecs.Component {
	return &Visual{Vertices: slices.Clone(vi.Vertices), Indices: slices.Clone(vi.Indices), Source: vi.Source}
}

// EncodeVertices packs the given vertices into [VertexStride]
// bytes each, as little-endian float32.
func EncodeVertices(vertices []Vertex) []byte {
	b := make([]byte, 0, len(vertices)*VertexStride)
	for _, v := range vertices {
		b = appendFloats(b, v.Position.X, v.Position.Y, v.Position.Z)
		b = appendFloats(b, v.Normal.X, v.Normal.Y, v.Normal.Z)
		b = appendFloats(b, v.UV.X, v.UV.Y)
		b = appendFloats(b, v.Color.X, v.Color.Y, v.Color.Z)
	}
	return b
}

// EncodeIndices packs the given indices as little-endian uint32.
func EncodeIndices(indices []uint32) []byte {
	b := make([]byte, 0, len(indices)*4)
	for _, ix := range indices {
		b = binary.LittleEndian.AppendUint32(b, ix)
	}
	return b
}

func appendFloats(b []byte, fs ...float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}
