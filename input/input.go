// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package input turns key and pointer events into free flying
// camera motion. A [Controller] records the input state as
// events arrive and applies it to every camera once per frame
// in [Controller.Advance].
package input

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/events/key"
	"github.com/vkhuman/human3d/math32"
	"github.com/vkhuman/human3d/xyz"
)

// DefaultMouseSensitivity is the default rotation, in radians,
// for a pointer move across the whole viewport.
const DefaultMouseSensitivity = 1

// Bindings are the keys that move the camera.
type Bindings struct {

	// Forward moves along the view direction.
	Forward key.Codes

	// Back moves against the view direction.
	Back key.Codes

	// Left moves to the left of the view.
	Left key.Codes

	// Right moves to the right of the view.
	Right key.Codes

	// Reset moves the camera back to the origin.
	Reset key.Codes
}

// DefaultBindings returns the W / S / A / D movement bindings, with R to reset.
func DefaultBindings() Bindings {
	return Bindings{Forward: key.CodeW, Back: key.CodeS, Left: key.CodeA, Right: key.CodeD, Reset: key.CodeR}
}

// Validate returns an error if any binding is unset or
// if a key is bound more than once.
func (b Bindings) Validate() error {
	seen := map[key.Codes]string{}
	for _, kb := range []struct {
		name string
		code key.Codes
	}{{"Forward", b.Forward}, {"Back", b.Back}, {"Left", b.Left}, {"Right", b.Right}, {"Reset", b.Reset}} {
		if !kb.code.IsValid() {
			return fmt.Errorf("input.Bindings: %s is not bound to a valid key", kb.name)
		}
		if other, has := seen[kb.code]; has {
			return fmt.Errorf("input.Bindings: key %v is bound to both %s and %s", kb.code, other, kb.name)
		}
		seen[kb.code] = kb.name
	}
	return nil
}

// Controller is an [events.Handler] moving cameras.
// Events and Advance must be called from the same goroutine.
type Controller struct {

	// Bindings are the movement keys.
	Bindings Bindings

	// MouseSensitivity is the rotation, in radians, for a
	// pointer move across the whole viewport.
	MouseSensitivity float32

	// viewport size in pixels
	viewport math32.Vector2

	// held keys
	held map[key.Codes]bool

	// last pointer position
	pointer math32.Vector2

	// whether there has been a pointer sample yet
	hasPointer bool

	// pointer movement since the last Advance
	delta math32.Vector2
}

// NewController returns a new Controller with the given bindings
// and the [DefaultMouseSensitivity].
func NewController(b Bindings) *Controller {
	return &Controller{Bindings: b, MouseSensitivity: DefaultMouseSensitivity, held: map[key.Codes]bool{}}
}

// SetViewport sets the size of the viewport in pixels, which
// scales pointer movement. Pointer rotation is off while
// the viewport is empty.
func (ic *Controller) SetViewport(width, height int) {
	ic.viewport = math32.Vec2(float32(width), float32(height))
}

// Viewport returns the size of the viewport in pixels.
func (ic *Controller) Viewport() math32.Vector2 {
	return ic.viewport
}

// OnKey records the given key as held while pressed.
func (ic *Controller) OnKey(code key.Codes, pressed bool) {
	if ic.held == nil {
		ic.held = map[key.Codes]bool{}
	}
	if pressed {
		ic.held[code] = true
	} else {
		delete(ic.held, code)
	}
}

// IsHeld returns whether the given key is held down.
func (ic *Controller) IsHeld(code key.Codes) bool {
	return ic.held[code]
}

// OnPointerMove records the pointer position, accumulating the movement
// since the previous position. The first position only sets the start.
func (ic *Controller) OnPointerMove(pos math32.Vector2) {
	if ic.hasPointer {
		ic.delta = ic.delta.Add(pos.Sub(ic.pointer))
	}
	ic.pointer = pos
	ic.hasPointer = true
}

// PointerDelta returns the pointer movement accumulated since the last Advance.
func (ic *Controller) PointerDelta() math32.Vector2 {
	return ic.delta
}

// Advance moves and turns every camera among the entities
// by the input received since the last call, over elapsed time.
func (ic *Controller) Advance(entities []*ecs.Entity, elapsed time.Duration) {
	dt := float32(elapsed.Seconds())
	var yaw, pitch float32
	if ic.viewport.X > 0 && ic.viewport.Y > 0 {
		yaw = -ic.delta.X / ic.viewport.X * ic.MouseSensitivity
		pitch = -ic.delta.Y / ic.viewport.Y * ic.MouseSensitivity
	}
	ic.delta = math32.Vector2{}

	ecs.Each(entities, func(e *ecs.Entity, cam *xyz.Camera) {
		step := cam.Sensitivity * dt
		if ic.held[ic.Bindings.Forward] {
			cam.Move(cam.Forward().MulScalar(step))
		}
		if ic.held[ic.Bindings.Back] {
			cam.Move(cam.Forward().MulScalar(-step))
		}
		if ic.held[ic.Bindings.Right] {
			cam.Move(cam.Right().MulScalar(step))
		}
		if ic.held[ic.Bindings.Left] {
			cam.Move(cam.Right().MulScalar(-step))
		}
		if ic.held[ic.Bindings.Reset] {
			cam.Reset()
			slog.Debug("input.Controller: camera reset", "entity", e.Name)
		}
		if yaw != 0 || pitch != 0 {
			cam.Rotate(yaw, pitch)
		}
	})
}
