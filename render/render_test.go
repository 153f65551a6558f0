// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/gpu"
	"github.com/vkhuman/human3d/gpu/gputest"
	"github.com/vkhuman/human3d/math32"
	"github.com/vkhuman/human3d/xyz"
)

var errTest = errors.New("test failure")

func TestVertexLayout(t *testing.T) {
	assert.Equal(t, gpu.VertexStride, xyz.VertexStride)
}

func TestResolveIdempotent(t *testing.T) {
	rc := gputest.New()
	mc := NewMeshCache(rc)
	vi := xyz.NewTriangle()

	cm, err := mc.ResolveVisual(vi)
	require.NoError(t, err)
	cm2, err := mc.ResolveVisual(vi)
	require.NoError(t, err)
	assert.Same(t, cm, cm2)
	assert.Equal(t, 1, mc.Len())
	assert.Equal(t, 2, mc.Uploads())
	assert.Equal(t, 1, rc.UploadsOf(gpu.VertexBuffer))
	assert.Equal(t, 1, rc.UploadsOf(gpu.IndexBuffer))

	assert.Equal(t, 3, cm.VertexCount)
	assert.Equal(t, 3, cm.IndexCount)
	assert.Equal(t, vi.ContentHash(), cm.Hash)
	assert.Equal(t, "triangle", cm.Source)
	assert.Len(t, rc.Uploads[0].Data, 3*xyz.VertexStride)
	assert.Len(t, rc.Uploads[1].Data, 3*4)
}

func TestResolveDistinct(t *testing.T) {
	rc := gputest.New()
	mc := NewMeshCache(rc)
	a, b := xyz.NewTriangle(), xyz.NewTriangle()

	ca, err := mc.ResolveVisual(a)
	require.NoError(t, err)
	cb, err := mc.ResolveVisual(b)
	require.NoError(t, err)
	assert.NotSame(t, ca, cb)
	assert.NotEqual(t, ca.Vertex, cb.Vertex)
	assert.Equal(t, ca.Hash, cb.Hash)
	assert.Equal(t, 2, mc.Len())
	assert.Equal(t, 4, len(rc.Uploads))
	assert.Equal(t, []MeshKey{a.Key(), b.Key()}, mc.Keys())
}

func TestResolveNonIndexed(t *testing.T) {
	rc := gputest.New()
	mc := NewMeshCache(rc)
	vi := xyz.NewTriangle()
	vi.Indices = nil

	cm, err := mc.ResolveVisual(vi)
	require.NoError(t, err)
	assert.False(t, cm.IsIndexed())
	assert.Equal(t, gpu.Buffer(0), cm.Index)
	assert.Equal(t, 1, len(rc.Uploads))
	assert.Equal(t, 0, rc.UploadsOf(gpu.IndexBuffer))
}

func TestResolveInvalid(t *testing.T) {
	rc := gputest.New()
	mc := NewMeshCache(rc)

	empty := xyz.NewVisual(nil, nil)
	_, err := mc.ResolveVisual(empty)
	assert.ErrorIs(t, err, ErrEmptyMesh)
	assert.ErrorIs(t, err, xyz.ErrConfig)

	bad := xyz.NewTriangle()
	bad.Indices = []uint32{0, 1, 3}
	_, err = mc.ResolveVisual(bad)
	assert.ErrorIs(t, err, xyz.ErrIndexRange)
	assert.ErrorIs(t, err, xyz.ErrConfig)

	_, err = mc.Resolve(0, xyz.NewTriangle().Vertices, nil)
	assert.ErrorIs(t, err, xyz.ErrConfig)

	assert.Equal(t, 0, mc.Len())
	assert.Empty(t, rc.Uploads)
}

func TestResolveUploadFailure(t *testing.T) {
	rc := gputest.New()
	mc := NewMeshCache(rc)
	vi := xyz.NewTriangle()

	rc.FailUpload = errTest
	rc.FailUploadAt = 1
	_, err := mc.ResolveVisual(vi)
	assert.ErrorIs(t, err, gpu.ErrBackend)
	assert.ErrorIs(t, err, errTest)
	assert.False(t, mc.Has(vi.Key()))

	// the index upload fails: the vertex buffer must not leak
	rc.FailUploadAt = 3
	_, err = mc.ResolveVisual(vi)
	assert.ErrorIs(t, err, gpu.ErrBackend)
	assert.False(t, mc.Has(vi.Key()))
	require.Len(t, rc.Uploads, 1)
	assert.Equal(t, []gpu.Buffer{rc.Uploads[0].Buffer}, rc.Released)
	assert.Equal(t, 0, rc.Live())

	rc.FailUpload = nil
	cm, err := mc.ResolveVisual(vi)
	require.NoError(t, err)
	assert.True(t, rc.IsLive(cm.Vertex))
	assert.True(t, rc.IsLive(cm.Index))
}

func TestTeardown(t *testing.T) {
	rc := gputest.New()
	mc := NewMeshCache(rc)
	a, b := xyz.NewTriangle(), xyz.NewCube(1)
	b.Indices = nil
	_, err := mc.ResolveVisual(a)
	require.NoError(t, err)
	_, err = mc.ResolveVisual(b)
	require.NoError(t, err)
	assert.Equal(t, 3, rc.Live())

	require.NoError(t, mc.Teardown())
	assert.Equal(t, 0, rc.Live())
	assert.Len(t, rc.Released, 3)
	assert.Equal(t, 0, mc.Len())

	require.NoError(t, mc.Teardown())
	assert.Len(t, rc.Released, 3)

	_, err = mc.ResolveVisual(a)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTeardownFailure(t *testing.T) {
	rc := gputest.New()
	mc := NewMeshCache(rc)
	_, err := mc.ResolveVisual(xyz.NewTriangle())
	require.NoError(t, err)

	rc.FailRelease = errTest
	err = mc.Teardown()
	assert.ErrorIs(t, err, gpu.ErrBackend)
	assert.ErrorIs(t, err, errTest)
	assert.Equal(t, 0, mc.Len())

	rc.FailRelease = nil
	assert.NoError(t, mc.Teardown())
	assert.Empty(t, rc.Released)
}

func TestReleasePrune(t *testing.T) {
	rc := gputest.New()
	mc := NewMeshCache(rc)
	a, b, c := xyz.NewTriangle(), xyz.NewTriangle(), xyz.NewTriangle()
	for _, vi := range []*xyz.Visual{a, b, c} {
		_, err := mc.ResolveVisual(vi)
		require.NoError(t, err)
	}

	require.NoError(t, mc.Release(a.Key()))
	assert.False(t, mc.Has(a.Key()))
	assert.Len(t, rc.Released, 2)
	require.NoError(t, mc.Release(a.Key()))
	assert.Len(t, rc.Released, 2)

	live := LiveKeys([]*ecs.Entity{ecs.NewEntity("c", c), ecs.NewEntity("none")})
	assert.Equal(t, map[MeshKey]bool{c.Key(): true}, live)
	require.NoError(t, mc.Prune(live))
	assert.Equal(t, []MeshKey{c.Key()}, mc.Keys())
	assert.Len(t, rc.Released, 4)
	assert.Equal(t, 2, rc.Live())
}

// scenarioA returns a triangle at the origin and a camera
// at (0, 1, -2) pitched down by 30 degrees.
func scenarioA() (*ecs.Entity, *ecs.Entity) {
	tri := ecs.NewEntity("triangle", xyz.NewCoordSys(math32.Vector3{}), xyz.NewTriangle())
	cam := xyz.NewCamera(4.0/3.0, 60)
	cam.Position = math32.Vec3(0, 1, -2)
	cam.Pitch = math32.DegToRad(-30)
	return tri, ecs.NewEntity("camera", cam)
}

func TestRenderScenarioA(t *testing.T) {
	for _, indexed := range []bool{true, false} {
		rc := gputest.New()
		pr := NewProcessor(rc)
		tri, camEnt := scenarioA()
		if !indexed {
			ecs.Get[*xyz.Visual](tri).Indices = nil
		}

		require.NoError(t, pr.Render([]*ecs.Entity{tri, camEnt}, 1500*time.Millisecond))
		assert.Equal(t, 1, pr.Meshes.Len())
		draws := rc.LastFrameDraws()
		require.Len(t, draws, 1)
		dr := draws[0]
		if indexed {
			assert.Equal(t, 3, dr.IndexCount)
		} else {
			assert.Equal(t, 0, dr.IndexCount)
		}
		assert.Equal(t, 3, dr.VertexCount)

		cam := ecs.Get[*xyz.Camera](camEnt)
		want := cam.Projection().Mul(cam.View()).Mul(math32.Identity4())
		assert.True(t, want.IsEqualTol(dr.Push.MVP, 1e-5))
		assert.Equal(t, math32.Vec4(1.5, 0, 0, 0), dr.Push.Data)

		assert.Equal(t, FrameStats{Frame: 0, Entities: 2, Resolved: 1, Draws: 1, Cameras: 1}, pr.Stats())
		assert.Equal(t, 1, rc.Begins)
		assert.Equal(t, 1, rc.Ends)

		require.NoError(t, pr.Teardown())
		assert.Equal(t, 0, rc.Live())
	}
}

func TestRenderScenarioD(t *testing.T) {
	rc := gputest.New()
	pr := NewProcessor(rc)
	_, camEnt := scenarioA()
	a := ecs.NewEntity("a", xyz.NewTriangle())
	b := ecs.NewEntity("b", xyz.NewTriangle())

	require.NoError(t, pr.Render([]*ecs.Entity{a, b, camEnt}, 0))
	assert.Equal(t, 2, pr.Meshes.Len())
	draws := rc.LastFrameDraws()
	require.Len(t, draws, 2)
	assert.NotEqual(t, draws[0].Vertex, draws[1].Vertex)
}

func TestRenderSharedVisual(t *testing.T) {
	rc := gputest.New()
	pr := NewProcessor(rc)
	_, camEnt := scenarioA()
	a := ecs.NewEntity("a", xyz.NewTriangle(), xyz.NewCoordSys(math32.Vec3(1, 0, 0)))
	b := a.Clone()
	b.Name = "b"
	b.Set(xyz.NewCoordSys(math32.Vec3(-1, 0, 0)))

	for range 3 {
		require.NoError(t, pr.Render([]*ecs.Entity{a, b, camEnt}, 0))
	}
	assert.Equal(t, 1, pr.Meshes.Len())
	assert.Equal(t, 2, len(rc.Uploads))
	assert.Equal(t, []int{2, 2, 2}, rc.FrameDraws)
	assert.Equal(t, uint64(2), pr.Stats().Frame)

	draws := rc.LastFrameDraws()
	assert.Equal(t, float32(2), draws[0].Push.Data.Y)
	vp := ecs.Get[*xyz.Camera](camEnt).ViewProjection()
	assert.True(t, vp.Mul(math32.Translation4(math32.Vec3(1, 0, 0))).IsEqualTol(draws[0].Push.MVP, 1e-5))
	assert.True(t, vp.Mul(math32.Translation4(math32.Vec3(-1, 0, 0))).IsEqualTol(draws[1].Push.MVP, 1e-5))
}

func TestRenderLastCameraWins(t *testing.T) {
	rc := gputest.New()
	pr := NewProcessor(rc)
	tri, first := scenarioA()
	cam := xyz.NewCamera(1, 45)
	cam.Position = math32.Vec3(0, 0, -5)
	last := ecs.NewEntity("last", cam)

	require.NoError(t, pr.Render([]*ecs.Entity{first, tri, last}, 0))
	draws := rc.LastFrameDraws()
	require.Len(t, draws, 1)
	assert.True(t, cam.ViewProjection().IsEqualTol(draws[0].Push.MVP, 1e-5))
	assert.Equal(t, 2, pr.Stats().Cameras)
}

func TestRenderNoCamera(t *testing.T) {
	rc := gputest.New()
	pr := NewProcessor(rc)
	tri, _ := scenarioA()
	plain := ecs.NewEntity("plain")

	for range 2 {
		require.NoError(t, pr.Render([]*ecs.Entity{tri, plain}, 0))
	}
	assert.Empty(t, rc.Draws)
	assert.Equal(t, 2, rc.Ends)
	assert.Equal(t, 1, pr.Meshes.Len())
	assert.Equal(t, FrameStats{Frame: 1, Entities: 2, Resolved: 1, Skipped: 1}, pr.Stats())
}

func TestRenderEmptyScene(t *testing.T) {
	rc := gputest.New()
	pr := NewProcessor(rc)
	require.NoError(t, pr.Render(nil, 0))
	assert.Equal(t, []int{0}, rc.FrameDraws)
}

func TestRenderResolveFailure(t *testing.T) {
	rc := gputest.New()
	pr := NewProcessor(rc)
	tri, camEnt := scenarioA()
	empty := ecs.NewEntity("empty", xyz.NewVisual(nil, nil))

	err := pr.Render([]*ecs.Entity{tri, empty, camEnt}, 0)
	assert.ErrorIs(t, err, ErrEmptyMesh)
	assert.ErrorContains(t, err, `"empty"`)
	assert.Empty(t, rc.Draws)
	assert.False(t, rc.InFrame())
	assert.Equal(t, 1, rc.Ends)
}

func TestRenderBackendFailure(t *testing.T) {
	rc := gputest.New()
	pr := NewProcessor(rc)
	tri, camEnt := scenarioA()
	ents := []*ecs.Entity{tri, camEnt}

	rc.FailBegin = errTest
	err := pr.Render(ents, 0)
	assert.ErrorIs(t, err, gpu.ErrBackend)
	assert.Equal(t, 0, rc.Begins)
	assert.Equal(t, 0, pr.Meshes.Len())
	rc.FailBegin = nil

	rc.FailDraw = errTest
	err = pr.Render(ents, 0)
	assert.ErrorIs(t, err, gpu.ErrBackend)
	assert.False(t, rc.InFrame())
	assert.Equal(t, 1, rc.Ends)
	rc.FailDraw = nil

	rc.FailEnd = errTest
	err = pr.Render(ents, 0)
	assert.ErrorIs(t, err, errTest)
	assert.False(t, rc.InFrame())
	rc.FailEnd = nil

	require.NoError(t, pr.Render(ents, 0))
	assert.Equal(t, uint64(2), pr.Stats().Frame)
}
