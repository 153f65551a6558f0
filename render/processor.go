// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render draws the entities of a scene through a
// [gpu.Backend], keeping their meshes resident in a [MeshCache].
package render

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vkhuman/human3d/base/errors"
	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/gpu"
	"github.com/vkhuman/human3d/math32"
	"github.com/vkhuman/human3d/xyz"
)

// FrameStats describes the last rendered frame.
type FrameStats struct {

	// Frame is the index of the frame, counting from 0.
	Frame uint64

	// Entities is the number of entities given.
	Entities int

	// Resolved is the number of Visual meshes resolved.
	Resolved int

	// Draws is the number of draws submitted.
	Draws int

	// Skipped is the number of Visuals not drawn for lack of a camera.
	Skipped int

	// Cameras is the number of entities with a Camera.
	Cameras int
}

// Processor renders frames of entities.
// Every entity with an [xyz.Visual] is drawn once per frame
// from the point of view of the last entity with an [xyz.Camera],
// placed by its [xyz.CoordSys], if any.
type Processor struct {

	// Backend the frames are drawn with.
	Backend gpu.Backend

	// Meshes has the GPU meshes of all Visuals drawn so far.
	Meshes *MeshCache

	frame          uint64
	stats          FrameStats
	warnedNoCamera bool
}

// NewProcessor returns a new Processor drawing with the given backend.
func NewProcessor(backend gpu.Backend) *Processor {
	return &Processor{Backend: backend, Meshes: NewMeshCache(backend)}
}

// Render draws one frame of the given entities.
// elapsed is the total running time, given to the shader.
// If anything fails after the frame has begun, the frame
// is still ended before the error is returned.
func (pr *Processor) Render(entities []*ecs.Entity, elapsed time.Duration) error {
	if err := pr.Backend.Begin(); err != nil {
		return fmt.Errorf("render.Processor: beginning frame %d: %w", pr.frame, err)
	}
	st := FrameStats{Frame: pr.frame, Entities: len(entities)}
	err := pr.renderFrame(entities, elapsed, &st)
	if eerr := pr.Backend.End(); eerr != nil {
		err = errors.Join(err, fmt.Errorf("render.Processor: ending frame %d: %w", pr.frame, eerr))
	}
	pr.stats = st
	pr.frame++
	return err
}

func (pr *Processor) renderFrame(entities []*ecs.Entity, elapsed time.Duration, st *FrameStats) error {
	meshes := make([]*CachedMesh, len(entities))
	for i, e := range entities {
		vi := ecs.Get[*xyz.Visual](e)
		if vi == nil {
			continue
		}
		cm, err := pr.Meshes.ResolveVisual(vi)
		if err != nil {
			return fmt.Errorf("render.Processor: entity %q: %w", e.Name, err)
		}
		meshes[i] = cm
		st.Resolved++
	}

	var cam *xyz.Camera
	cam, st.Cameras = ActiveCamera(entities)
	if cam == nil {
		if st.Resolved > 0 && !pr.warnedNoCamera {
			slog.Warn("render.Processor: no camera in scene; nothing will be drawn", "visuals", st.Resolved)
			pr.warnedNoCamera = true
		}
		st.Skipped = st.Resolved
		return nil
	}
	pr.warnedNoCamera = false

	vp := cam.ViewProjection()
	data := math32.Vec4(float32(elapsed.Seconds()), float32(st.Frame), 0, 0)
	for i, e := range entities {
		cm := meshes[i]
		if cm == nil {
			continue
		}
		world := ecs.Get[*xyz.CoordSys](e).World()
		push := gpu.PushConstants{Data: data, MVP: vp.Mul(world)}
		if err := pr.Backend.SubmitDraw(cm.Draw(push)); err != nil {
			return fmt.Errorf("render.Processor: drawing entity %q: %w", e.Name, err)
		}
		st.Draws++
	}
	return nil
}

// Stats returns the stats of the last rendered frame.
func (pr *Processor) Stats() FrameStats {
	return pr.stats
}

// Teardown releases all GPU meshes. It must be called
// before the backend itself is released.
func (pr *Processor) Teardown() error {
	return pr.Meshes.Teardown()
}

// ActiveCamera returns the camera of the last entity that has one,
// and the number of entities with a camera.
func ActiveCamera(entities []*ecs.Entity) (*xyz.Camera, int) {
	var cam *xyz.Camera
	n := 0
	ecs.Each(entities, func(e *ecs.Entity, c *xyz.Camera) {
		cam = c
		n++
	})
	return cam, n
}

// LiveKeys returns the mesh keys of all Visuals among the entities,
// for use with [MeshCache.Prune].
func LiveKeys(entities []*ecs.Entity) map[MeshKey]bool {
	live := make(map[MeshKey]bool)
	ecs.Each(entities, func(e *ecs.Entity, vi *xyz.Visual) {
		live[vi.Key()] = true
	})
	return live
}
