// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/vkhuman/human3d/base/errors"
	"github.com/vkhuman/human3d/base/ordmap"
	"github.com/vkhuman/human3d/gpu"
	"github.com/vkhuman/human3d/xyz"
)

var (
	// ErrEmptyMesh is returned when resolving a mesh with no vertices.
	ErrEmptyMesh = fmt.Errorf("%w: cannot upload an empty mesh", xyz.ErrConfig)

	// ErrClosed is returned when using a [MeshCache] after [MeshCache.Teardown].
	ErrClosed = errors.New("mesh cache is closed")
)

// MeshKey identifies a cached mesh. See [xyz.Visual.Key].
type MeshKey = xyz.MeshKey

// CachedMesh is a mesh resident on the GPU.
type CachedMesh struct {

	// Key of the mesh in its cache.
	Key MeshKey

	// Vertex buffer.
	Vertex gpu.Buffer

	// Index buffer; zero if the mesh is not indexed.
	Index gpu.Buffer

	// VertexCount is the number of vertices in Vertex.
	VertexCount int

	// IndexCount is the number of indices in Index.
	IndexCount int

	// Hash is the content fingerprint of the uploaded data,
	// matching [xyz.Visual.ContentHash].
	Hash uint64

	// Source is where the mesh came from, for logging.
	Source string
}

// IsIndexed returns whether the mesh has an index buffer.
func (cm *CachedMesh) IsIndexed() bool {
	return cm.IndexCount > 0
}

// Draw returns the draw call for this mesh with the given constants.
func (cm *CachedMesh) Draw(push gpu.PushConstants) gpu.Draw {
	return gpu.Draw{Vertex: cm.Vertex, Index: cm.Index, VertexCount: cm.VertexCount, IndexCount: cm.IndexCount, Push: push}
}

// MeshCache keeps one [CachedMesh] per [MeshKey], uploading
// each mesh to the [gpu.Backend] the first time it is resolved.
// Meshes are released in the order they were created.
//
// MeshCache is not safe for concurrent use.
type MeshCache struct {

	// Backend that buffers are uploaded to.
	Backend gpu.Backend

	meshes  ordmap.Map[MeshKey, *CachedMesh]
	uploads int
	closed  bool
}

// NewMeshCache returns a new empty cache uploading to the given backend.
func NewMeshCache(backend gpu.Backend) *MeshCache {
	return &MeshCache{Backend: backend}
}

// Resolve returns the cached mesh for the given key, uploading
// the given mesh data if there is no entry for it yet. The data
// is ignored once the key is cached.
func (mc *MeshCache) Resolve(key MeshKey, vertices []xyz.Vertex, indices []uint32) (*CachedMesh, error) {
	return mc.resolve(key, "", vertices, indices)
}

// ResolveVisual resolves the mesh of the given Visual, keyed by [xyz.Visual.Key].
func (mc *MeshCache) ResolveVisual(vi *xyz.Visual) (*CachedMesh, error) {
	return mc.resolve(vi.Key(), vi.Source, vi.Vertices, vi.Indices)
}

func (mc *MeshCache) resolve(key MeshKey, source string, vertices []xyz.Vertex, indices []uint32) (*CachedMesh, error) {
	if mc.closed {
		return nil, ErrClosed
	}
	if cm, ok := mc.meshes.ValueByKeyTry(key); ok {
		return cm, nil
	}
	if key == 0 {
		return nil, fmt.Errorf("%w: invalid mesh key 0", xyz.ErrConfig)
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("render.MeshCache: mesh %d %q: %w", key, source, ErrEmptyMesh)
	}
	if err := xyz.ValidateMesh(vertices, indices); err != nil {
		return nil, fmt.Errorf("render.MeshCache: mesh %d %q: %w", key, source, err)
	}
	vb := xyz.EncodeVertices(vertices)
	ib := xyz.EncodeIndices(indices)
	cm := &CachedMesh{Key: key, VertexCount: len(vertices), IndexCount: len(indices), Source: source}

	var err error
	cm.Vertex, err = mc.Backend.UploadBuffer(vb, gpu.VertexBuffer)
	if err != nil {
		return nil, backendError("uploading vertices", key, err)
	}
	mc.uploads++
	if len(ib) > 0 {
		cm.Index, err = mc.Backend.UploadBuffer(ib, gpu.IndexBuffer)
		if err != nil {
			errors.Log(backendError("releasing vertices", key, mc.Backend.ReleaseBuffer(cm.Vertex)))
			return nil, backendError("uploading indices", key, err)
		}
		mc.uploads++
	}

	d := xxhash.New()
	d.Write(vb)
	d.Write(ib)
	cm.Hash = d.Sum64()
	for _, kv := range mc.meshes.Order {
		if kv.Value.Hash == cm.Hash {
			slog.Debug("render.MeshCache: uploaded duplicate mesh content", "key", key, "source", source, "sameAs", kv.Key, "sameAsSource", kv.Value.Source)
			break
		}
	}
	if gpu.Debug {
		slog.Info("render.MeshCache: uploaded mesh", "key", key, "source", source, "vertices", cm.VertexCount, "indices", cm.IndexCount)
	}
	mc.meshes.Add(key, cm)
	return cm, nil
}

// backendError wraps err, if non-nil, making sure it is a [gpu.ErrBackend].
func backendError(op string, key MeshKey, err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, gpu.ErrBackend) {
		err = fmt.Errorf("%w: %w", gpu.ErrBackend, err)
	}
	return fmt.Errorf("render.MeshCache: %s of mesh %d: %w", op, key, err)
}

// Get returns the cached mesh for the given key, if any.
func (mc *MeshCache) Get(key MeshKey) (*CachedMesh, bool) {
	return mc.meshes.ValueByKeyTry(key)
}

// Has returns whether there is a cached mesh for the given key.
func (mc *MeshCache) Has(key MeshKey) bool {
	return mc.meshes.Has(key)
}

// Len returns the number of cached meshes.
func (mc *MeshCache) Len() int {
	return mc.meshes.Len()
}

// Keys returns the cached keys in the order they were created.
func (mc *MeshCache) Keys() []MeshKey {
	return mc.meshes.Keys()
}

// Uploads returns the total number of buffers uploaded.
func (mc *MeshCache) Uploads() int {
	return mc.uploads
}

// Release releases the buffers of the given key and removes it
// from the cache. It does nothing for a key that is not cached.
// The entry is removed even if releasing fails, so that
// buffers are never released twice.
func (mc *MeshCache) Release(key MeshKey) error {
	cm, ok := mc.meshes.ValueByKeyTry(key)
	if !ok {
		return nil
	}
	mc.meshes.DeleteKey(key)
	return mc.release(cm)
}

func (mc *MeshCache) release(cm *CachedMesh) error {
	var errs []error
	if cm.Index != 0 {
		errs = append(errs, backendError("releasing indices", cm.Key, mc.Backend.ReleaseBuffer(cm.Index)))
	}
	errs = append(errs, backendError("releasing vertices", cm.Key, mc.Backend.ReleaseBuffer(cm.Vertex)))
	return errors.Join(errs...)
}

// Prune releases every cached mesh whose key is not in live.
func (mc *MeshCache) Prune(live map[MeshKey]bool) error {
	var errs []error
	for _, key := range mc.meshes.Keys() {
		if !live[key] {
			errs = append(errs, mc.Release(key))
		}
	}
	return errors.Join(errs...)
}

// Teardown releases every cached mesh and closes the cache:
// any later Resolve returns [ErrClosed]. Calling Teardown
// again does nothing.
func (mc *MeshCache) Teardown() error {
	if mc.closed {
		return nil
	}
	mc.closed = true
	var errs []error
	for _, cm := range mc.meshes.Values() {
		errs = append(errs, mc.release(cm))
	}
	mc.meshes.Reset()
	return errors.Join(errs...)
}
