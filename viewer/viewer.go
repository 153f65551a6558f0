// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewer runs an interactive scene: it owns the entities,
// renders them each frame, moves their cameras from user input,
// and reloads the scene when its files change.
package viewer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vkhuman/human3d/base/errors"
	"github.com/vkhuman/human3d/base/fswatch"
	"github.com/vkhuman/human3d/config"
	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/events"
	"github.com/vkhuman/human3d/events/key"
	"github.com/vkhuman/human3d/gpu"
	"github.com/vkhuman/human3d/input"
	"github.com/vkhuman/human3d/render"
	"github.com/vkhuman/human3d/xyz"
)

// Session is one run of the viewer on a backend.
// All methods, and the event handler, must be called
// from the goroutine running the frame loop.
type Session struct {

	// Config is the viewer configuration.
	Config *config.Config

	// Loader loads the mesh files of the scene.
	Loader xyz.MeshLoader

	// Processor renders the entities.
	Processor *render.Processor

	// Controller moves the cameras.
	Controller *input.Controller

	// Entities of the current scene.
	Entities []*ecs.Entity

	quit    key.Codes
	quitReq bool
	watcher *fswatch.Watcher
	start   time.Time
	last    time.Time
	width   int
	height  int
}

// NewSession returns a new Session rendering to the given backend,
// with the scene of the config loaded. width and height are the
// size of the viewport in pixels.
func NewSession(cfg *config.Config, backend gpu.Backend, loader xyz.MeshLoader, width, height int) (*Session, error) {
	bindings, quit, err := cfg.Keys.Bindings()
	if err != nil {
		return nil, err
	}
	s := &Session{
		Config:     cfg,
		Loader:     loader,
		Processor:  render.NewProcessor(backend),
		Controller: input.NewController(bindings),
		quit:       quit,
	}
	s.Controller.MouseSensitivity = cfg.Camera.MouseSensitivity
	if cfg.Watch && cfg.Scene != "" {
		s.watcher, err = fswatch.New()
		if err != nil {
			return nil, fmt.Errorf("viewer: watching scene: %w", err)
		}
	}
	s.width, s.height = width, height
	s.Controller.SetViewport(width, height)
	if err := s.Reload(); err != nil {
		errors.Log(s.Close())
		return nil, err
	}
	return s, nil
}

// Handler returns the handler for the input events of the window.
func (s *Session) Handler() events.Handler {
	return events.Multi{s.Controller, events.Funcs{Key: func(code key.Codes, pressed bool) {
		if pressed && code == s.quit {
			s.quitReq = true
		}
	}}}
}

// QuitRequested returns whether the quit key has been pressed.
func (s *Session) QuitRequested() bool {
	return s.quitReq
}

// Reload loads the scene of the config, replacing the entities,
// and releases the meshes that are no longer used. On error the
// current entities are kept.
func (s *Session) Reload() error {
	var ents []*ecs.Entity
	var files []string
	if s.Config.Scene == "" {
		ents = s.defaultScene()
	} else {
		sc, err := xyz.OpenScene(s.Config.Scene, s.Loader)
		if err != nil {
			return err
		}
		ents, files = sc.Entities, sc.Files
	}
	if s.watcher != nil {
		errors.Log(s.watcher.SetFiles(files...))
	}
	s.Entities = ents
	s.SetViewport(s.width, s.height)
	if err := s.Processor.Meshes.Prune(render.LiveKeys(ents)); err != nil {
		return err
	}
	_, ncam := render.ActiveCamera(ents)
	slog.Info("viewer: loaded scene", "scene", s.Config.Scene, "entities", len(ents), "cameras", ncam)
	return nil
}

func (s *Session) defaultScene() []*ecs.Entity {
	ents := xyz.DefaultScene(xyz.DefaultAspect)
	ecs.Each(ents, func(e *ecs.Entity, cam *xyz.Camera) {
		cam.SetFOV(s.Config.Camera.FOV)
		cam.Sensitivity = s.Config.Camera.Speed
	})
	return ents
}

// SetViewport sets the size of the viewport in pixels, updating
// the aspect ratio of all cameras. An empty viewport is ignored
// by the cameras, as when the window is minimized.
func (s *Session) SetViewport(width, height int) {
	s.width, s.height = width, height
	s.Controller.SetViewport(width, height)
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float32(width) / float32(height)
	ecs.Each(s.Entities, func(e *ecs.Entity, cam *xyz.Camera) {
		cam.SetAspect(aspect)
	})
}

// Frame runs one frame at the given time: it reloads the scene
// if its files have changed, applies input and spins, and renders.
func (s *Session) Frame(now time.Time) error {
	if s.start.IsZero() {
		s.start, s.last = now, now
	}
	if s.watcher != nil {
		if changed := s.watcher.Changed(); len(changed) > 0 {
			slog.Info("viewer: scene files changed", "files", changed)
			errors.Log(s.Reload())
		}
	}
	dt := now.Sub(s.last)
	s.last = now
	s.Controller.Advance(s.Entities, dt)
	xyz.AdvanceSpins(s.Entities, dt)
	return s.Processor.Render(s.Entities, now.Sub(s.start))
}

// Close releases all meshes and stops watching files.
// The backend must be released after Close.
func (s *Session) Close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
	}
	errs = append(errs, s.Processor.Teardown())
	return errors.Join(errs...)
}
