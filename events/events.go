// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the input callbacks that a window
// delivers to the code that reacts to user input.
package events

import (
	"github.com/vkhuman/human3d/events/key"
	"github.com/vkhuman/human3d/math32"
)

// Handler receives input events from a window.
// Events are delivered on the goroutine that polls the window,
// so a Handler needs no locking when that goroutine also runs
// the frame loop.
type Handler interface {

	// OnKey is called when a physical key is pressed or released.
	// Key repeats are reported as presses.
	OnKey(code key.Codes, pressed bool)

	// OnPointerMove is called with the new pointer position,
	// in window pixels from the top left.
	OnPointerMove(pos math32.Vector2)
}

// Funcs is a [Handler] made of optional functions.
type Funcs struct {
	Key         func(code key.Codes, pressed bool)
	PointerMove func(pos math32.Vector2)
}

func (fs Funcs) OnKey(code key.Codes, pressed bool) {
	if fs.Key != nil {
		fs.Key(code, pressed)
	}
}

func (fs Funcs) OnPointerMove(pos math32.Vector2) {
	if fs.PointerMove != nil {
		fs.PointerMove(pos)
	}
}

// Multi is a [Handler] forwarding every event to all of its handlers, in order.
type Multi []Handler

func (m Multi) OnKey(code key.Codes, pressed bool) {
	for _, h := range m {
		h.OnKey(code, pressed)
	}
}

func (m Multi) OnPointerMove(pos math32.Vector2) {
	for _, h := range m {
		h.OnPointerMove(pos)
	}
}
