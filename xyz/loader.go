// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

// MeshLoader reads a single mesh from a file.
// Files with more than one mesh or primitive, or with
// attribute layouts the loader cannot read, must result
// in an error wrapping [ErrConfig].
type MeshLoader interface {
	LoadFromFile(path string) ([]Vertex, []uint32, error)
}

// MeshLoaderFunc is a function adapter for [MeshLoader].
type MeshLoaderFunc func(path string) ([]Vertex, []uint32, error)

func (f MeshLoaderFunc) LoadFromFile(path string) ([]Vertex, []uint32, error) {
	return f(path)
}
