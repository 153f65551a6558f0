// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gltf loads single mesh glTF 2.0 files (*.gltf, *.glb)
// as [xyz.Vertex] and index data. Only files with exactly one mesh
// holding one triangle primitive with non-interleaved attributes
// are supported.
package gltf

import (
	"fmt"
	"log/slog"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/vkhuman/human3d/math32"
	"github.com/vkhuman/human3d/xyz"
)

// Attribute names read by the loader.
const (
	AttrPosition = "POSITION"
	AttrNormal   = "NORMAL"
	AttrTexCoord = "TEXCOORD_0"
	AttrColor    = "COLOR_0"
)

// DefaultColor is the vertex color used when the file has none.
var DefaultColor = math32.Vec3(1, 0, 1)

// Loader implements [xyz.MeshLoader] for glTF files.
type Loader struct{}

// LoadFromFile opens the given glTF file and decodes its mesh.
func (Loader) LoadFromFile(path string) ([]xyz.Vertex, []uint32, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: gltf.LoadFromFile %s: %w", xyz.ErrConfig, path, err)
	}
	vs, ixs, err := Decode(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("gltf.LoadFromFile %s: %w", path, err)
	}
	slog.Debug("gltf mesh", "file", path, "vertices", len(vs), "indices", len(ixs))
	return vs, ixs, nil
}

// Decode returns the mesh data of the given document.
// All errors wrap [xyz.ErrConfig].
func Decode(doc *gltf.Document) ([]xyz.Vertex, []uint32, error) {
	if n := len(doc.Meshes); n != 1 {
		return nil, nil, fmt.Errorf("%w: file has %d meshes, only 1 is supported", xyz.ErrConfig, n)
	}
	mesh := doc.Meshes[0]
	if n := len(mesh.Primitives); n != 1 {
		return nil, nil, fmt.Errorf("%w: mesh %q has %d primitives, only 1 is supported", xyz.ErrConfig, mesh.Name, n)
	}
	prim := mesh.Primitives[0]
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil, fmt.Errorf("%w: primitive mode %v, only triangles are supported", xyz.ErrConfig, prim.Mode)
	}

	dec := decoder{doc: doc}
	pacc, err := dec.accessor(prim.Attributes, AttrPosition, true)
	if err != nil {
		return nil, nil, err
	}
	pos, err := modeler.ReadPosition(doc, pacc, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading %s: %w", xyz.ErrConfig, AttrPosition, err)
	}
	nv := len(pos)
	vs := make([]xyz.Vertex, nv)
	for i, p := range pos {
		vs[i].Position = math32.Vector3FromArray(p)
		vs[i].Color = DefaultColor
	}

	if acc, err := dec.accessor(prim.Attributes, AttrNormal, false); err != nil {
		return nil, nil, err
	} else if acc != nil {
		norms, err := modeler.ReadNormal(doc, acc, nil)
		if err := dec.checkCount(AttrNormal, len(norms), nv, err); err != nil {
			return nil, nil, err
		}
		for i, n := range norms {
			vs[i].Normal = math32.Vector3FromArray(n)
		}
	}

	if acc, err := dec.accessor(prim.Attributes, AttrTexCoord, false); err != nil {
		return nil, nil, err
	} else if acc != nil {
		uvs, err := modeler.ReadTextureCoord(doc, acc, nil)
		if err := dec.checkCount(AttrTexCoord, len(uvs), nv, err); err != nil {
			return nil, nil, err
		}
		for i, uv := range uvs {
			vs[i].UV = math32.Vec2(uv[0], uv[1])
		}
	}

	if acc, err := dec.accessor(prim.Attributes, AttrColor, false); err != nil {
		return nil, nil, err
	} else if acc != nil {
		cols, err := modeler.ReadColor(doc, acc, nil)
		if err := dec.checkCount(AttrColor, len(cols), nv, err); err != nil {
			return nil, nil, err
		}
		for i, c := range cols {
			vs[i].Color = math32.Vec3(float32(c[0])/255, float32(c[1])/255, float32(c[2])/255)
		}
	}

	var ixs []uint32
	if prim.Indices != nil {
		idx := int(*prim.Indices)
		if idx < 0 || idx >= len(doc.Accessors) {
			return nil, nil, fmt.Errorf("%w: index accessor %d does not exist", xyz.ErrConfig, idx)
		}
		ixs, err = modeler.ReadIndices(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reading indices: %w", xyz.ErrConfig, err)
		}
	}
	if err := xyz.ValidateMesh(vs, ixs); err != nil {
		return nil, nil, err
	}
	return vs, ixs, nil
}

type decoder struct {
	doc *gltf.Document
}

// accessor returns the accessor for the given attribute, checking that
// its data is tightly packed. It returns nil if the attribute is absent
// and not required.
func (dec *decoder) accessor(attrs map[string]int, name string, required bool) (*gltf.Accessor, error) {
	idx, ok := attrs[name]
	if !ok {
		if required {
			return nil, fmt.Errorf("%w: primitive has no %s attribute", xyz.ErrConfig, name)
		}
		return nil, nil
	}
	if idx < 0 || idx >= len(dec.doc.Accessors) {
		return nil, fmt.Errorf("%w: %s accessor %d does not exist", xyz.ErrConfig, name, idx)
	}
	acc := dec.doc.Accessors[idx]
	if acc.BufferView != nil {
		bv := int(*acc.BufferView)
		if bv < 0 || bv >= len(dec.doc.BufferViews) {
			return nil, fmt.Errorf("%w: %s buffer view %d does not exist", xyz.ErrConfig, name, bv)
		}
		stride := int(dec.doc.BufferViews[bv].ByteStride)
		size := int(gltf.SizeOfElement(acc.ComponentType, acc.Type))
		if stride != 0 && stride != size {
			return nil, fmt.Errorf("%w: %s is interleaved (stride %d, element size %d), which is not supported", xyz.ErrConfig, name, stride, size)
		}
	}
	return acc, nil
}

// checkCount checks a read error and that an attribute has one
// element per vertex.
func (dec *decoder) checkCount(name string, n, nv int, err error) error {
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", xyz.ErrConfig, name, err)
	}
	if n != nv {
		return fmt.Errorf("%w: %s has %d elements for %d vertices", xyz.ErrConfig, name, n, nv)
	}
	return nil
}
