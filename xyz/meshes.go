// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import "github.com/vkhuman/human3d/math32"

// NewTriangle returns a new [Visual] with a single triangle
// in the Z = 0 plane, with red, green and blue corners.
func NewTriangle() *Visual {
	vs := []Vertex{
		{Position: math32.Vec3(1, 1, 0), Normal: math32.Vec3(1, 0, 0), Color: math32.Vec3(1, 0, 0)},
		{Position: math32.Vec3(-1, 1, 0), Normal: math32.Vec3(0, 1, 0), Color: math32.Vec3(0, 1, 0)},
		{Position: math32.Vec3(0, -1, 0), Normal: math32.Vec3(0, 0, 1), Color: math32.Vec3(0, 0, 1)},
	}
	vi := NewVisual(vs, []uint32{0, 1, 2})
	vi.Source = "triangle"
	return vi
}

// cube faces: normal, then the two in-plane axes u and v
// such that u x v = normal, for counter-clockwise winding.
var cubeFaces = [6][3]math32.Vector3{
	{{X: 1}, {Y: 1}, {Z: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {Z: 1}, {X: 1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {Y: 1}, {X: 1}},
}

// NewCube returns a new [Visual] with an axis aligned cube
// of the given edge size centered on the origin. Each face has
// its own four vertices, so normals are flat, and each face
// is colored by its normal.
func NewCube(size float32) *Visual {
	h := size / 2
	vs := make([]Vertex, 0, 24)
	ixs := make([]uint32, 0, 36)
	uvs := [4]math32.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		col := math32.Vec3(math32.Abs(n.X), math32.Abs(n.Y), math32.Abs(n.Z))
		center := n.MulScalar(h)
		base := uint32(len(vs))
		for i, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := center.Add(u.MulScalar(c[0] * h)).Add(v.MulScalar(c[1] * h))
			vs = append(vs, Vertex{Position: p, Normal: n, UV: uvs[i], Color: col})
		}
		ixs = append(ixs, base, base+1, base+2, base, base+2, base+3)
	}
	vi := NewVisual(vs, ixs)
	vi.Source = "cube"
	return vi
}
