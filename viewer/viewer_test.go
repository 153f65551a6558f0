// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkhuman/human3d/config"
	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/events/key"
	"github.com/vkhuman/human3d/gpu/gputest"
	"github.com/vkhuman/human3d/math32"
	"github.com/vkhuman/human3d/render"
	"github.com/vkhuman/human3d/xyz"
	"github.com/vkhuman/human3d/xyz/io/gltf"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const twoMeshScene = `
entities:
  - name: triangle
    coordsys: {position: [0, 0, 0], rotation: [0, 0, 0]}
    mesh: triangle
    spin: [0, 0, 90]
  - name: cube
    coordsys: {position: [2, 0, 0]}
    mesh: cube
  - name: camera
    camera: {position: [0, 1, -4], pitch: -10}
`

const oneMeshScene = `
entities:
  - name: triangle
    mesh: triangle
  - name: camera
    camera: {position: [0, 0, -3]}
`

func writeScene(t *testing.T, fn, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(fn, []byte(content), 0666))
}

func newSession(t *testing.T, cfg *config.Config) (*Session, *gputest.Recorder) {
	t.Helper()
	rc := gputest.New()
	s, err := NewSession(cfg, rc, gltf.Loader{}, 800, 600)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close()) })
	return s, rc
}

func TestDefaultScene(t *testing.T) {
	cfg := config.Defaults()
	cfg.Camera.FOV = 45
	cfg.Camera.Speed = 3
	s, rc := newSession(t, cfg)

	cam, n := render.ActiveCamera(s.Entities)
	require.Equal(t, 1, n)
	assert.Equal(t, float32(45), cam.FOV())
	assert.Equal(t, float32(3), cam.Sensitivity)
	assert.InDelta(t, 800.0/600.0, cam.Aspect(), 1e-6)

	require.NoError(t, s.Frame(t0))
	assert.Len(t, rc.LastFrameDraws(), 1)
	assert.Equal(t, render.FrameStats{Entities: 2, Resolved: 1, Draws: 1, Cameras: 1}, s.Processor.Stats())
}

func TestInput(t *testing.T) {
	s, _ := newSession(t, config.Defaults())
	cam, _ := render.ActiveCamera(s.Entities)
	start := cam.Position
	fwd := cam.Forward()

	h := s.Handler()
	h.OnKey(key.CodeW, true)
	require.NoError(t, s.Frame(t0))
	require.NoError(t, s.Frame(t0.Add(time.Second)))
	assert.True(t, start.Add(fwd.MulScalar(2)).IsEqualTol(cam.Position, 1e-5))
	assert.False(t, s.QuitRequested())

	h.OnKey(key.CodeEscape, false)
	assert.False(t, s.QuitRequested())
	h.OnKey(key.CodeEscape, true)
	assert.True(t, s.QuitRequested())
}

func TestSceneReload(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "scene.yaml")
	writeScene(t, fn, twoMeshScene)
	cfg := config.Defaults()
	cfg.Scene = fn
	cfg.Watch = false
	s, rc := newSession(t, cfg)
	require.Len(t, s.Entities, 3)

	require.NoError(t, s.Frame(t0))
	require.NoError(t, s.Frame(t0.Add(time.Second)))
	assert.Equal(t, 2, s.Processor.Meshes.Len())
	assert.Equal(t, []int{2, 2}, rc.FrameDraws)
	cs := ecs.Get[*xyz.CoordSys](s.Entities[0])
	assert.InDelta(t, math32.Pi/2, cs.Rotation.Z, 1e-5)
	draws := rc.LastFrameDraws()
	assert.Equal(t, float32(1), draws[0].Push.Data.X)

	writeScene(t, fn, oneMeshScene)
	require.NoError(t, s.Reload())
	assert.Len(t, s.Entities, 2)
	assert.Equal(t, 0, s.Processor.Meshes.Len())
	assert.Equal(t, 0, rc.Live())

	require.NoError(t, s.Frame(t0.Add(2*time.Second)))
	assert.Equal(t, 1, s.Processor.Meshes.Len())
	cam, _ := render.ActiveCamera(s.Entities)
	assert.InDelta(t, 800.0/600.0, cam.Aspect(), 1e-6)

	// a broken scene keeps the current one
	writeScene(t, fn, "entities:\n  - name: x\n    mesh: pyramid\n")
	assert.ErrorIs(t, s.Reload(), xyz.ErrConfig)
	assert.Len(t, s.Entities, 2)
	assert.Equal(t, 1, s.Processor.Meshes.Len())
}

func TestSceneWatch(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "scene.yaml")
	writeScene(t, fn, twoMeshScene)
	cfg := config.Defaults()
	cfg.Scene = fn
	s, _ := newSession(t, cfg)
	require.Len(t, s.Entities, 3)

	writeScene(t, fn, oneMeshScene)
	now := t0
	require.Eventually(t, func() bool {
		now = now.Add(10 * time.Millisecond)
		if err := s.Frame(now); err != nil {
			return false
		}
		return len(s.Entities) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestNewSessionErrors(t *testing.T) {
	cfg := config.Defaults()
	cfg.Scene = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewSession(cfg, gputest.New(), gltf.Loader{}, 800, 600)
	assert.ErrorIs(t, err, xyz.ErrConfig)

	cfg = config.Defaults()
	cfg.Keys.Forward = "nope"
	_, err = NewSession(cfg, gputest.New(), gltf.Loader{}, 800, 600)
	assert.ErrorIs(t, err, xyz.ErrConfig)
}

func TestViewport(t *testing.T) {
	s, _ := newSession(t, config.Defaults())
	cam, _ := render.ActiveCamera(s.Entities)
	s.SetViewport(0, 0)
	assert.InDelta(t, 800.0/600.0, cam.Aspect(), 1e-6)
	s.SetViewport(1000, 500)
	assert.InDelta(t, 2, cam.Aspect(), 1e-6)
	assert.Equal(t, math32.Vec2(1000, 500), s.Controller.Viewport())
}
