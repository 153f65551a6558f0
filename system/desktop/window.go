// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

// Package desktop provides a glfw window that renders with
// WebGPU and delivers key and pointer input to an [events.Handler].
package desktop

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/vkhuman/human3d/base/errors"
	"github.com/vkhuman/human3d/events"
	"github.com/vkhuman/human3d/math32"
)

// Init initializes glfw. It must be called before making any window.
// IMPORTANT: must be called on the main initial thread!
func Init() error {
	return errors.Log(glfw.Init())
}

// Terminate shuts down glfw; call as last thing before quitting.
// IMPORTANT: must be called on the main initial thread!
func Terminate() {
	glfw.Terminate()
}

// Window is a desktop window rendered to with WebGPU.
// All methods must be called on the main thread.
type Window struct {

	// Glw is the glfw window.
	Glw *glfw.Window

	// Title of the window.
	Title string

	resize func(width, height int)
}

// NewWindow opens a new window with the given title and size in
// screen coordinates. [Init] must have been called.
func NewWindow(title string, width, height int) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glw, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("desktop.NewWindow: %w", err)
	}
	w := &Window{Glw: glw, Title: title}
	glw.SetFramebufferSizeCallback(func(gw *glfw.Window, width, height int) {
		if w.resize != nil {
			w.resize(width, height)
		}
	})
	slog.Info("desktop: opened window", "title", title, "width", width, "height", height)
	return w, nil
}

// SurfaceDescriptor returns the descriptor of the WebGPU surface of the window.
func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.Glw)
}

// Size returns the size of the window in screen coordinates,
// the space of pointer positions.
func (w *Window) Size() (width, height int) {
	return w.Glw.GetSize()
}

// FramebufferSize returns the size of the window surface in pixels.
func (w *Window) FramebufferSize() (width, height int) {
	return w.Glw.GetFramebufferSize()
}

// SetResizeFunc sets the function called with the new
// surface size in pixels whenever the window is resized.
func (w *Window) SetResizeFunc(fun func(width, height int)) {
	w.resize = fun
}

// BindInput delivers the key and pointer events of the window
// to the given handler, replacing any earlier handler.
// Events are delivered during [Window.PollEvents].
func (w *Window) BindInput(h events.Handler) {
	w.Glw.SetKeyCallback(func(gw *glfw.Window, ky glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		code := GlfwKeyCode(ky)
		if !code.IsValid() {
			return
		}
		h.OnKey(code, KeyPressed(action))
	})
	w.Glw.SetCursorPosCallback(func(gw *glfw.Window, x, y float64) {
		h.OnPointerMove(math32.Vec2(float32(x), float32(y)))
	})
}

// CapturePointer hides the pointer and frees it from the window
// bounds, for free look.
func (w *Window) CapturePointer() {
	w.Glw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		w.Glw.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
}

// PollEvents processes pending window events, returning
// false once the window has been asked to close.
func (w *Window) PollEvents() bool {
	glfw.PollEvents()
	return !w.Glw.ShouldClose()
}

// Close asks the window to close at the next [Window.PollEvents].
func (w *Window) Close() {
	w.Glw.SetShouldClose(true)
}

// Destroy destroys the window.
func (w *Window) Destroy() {
	w.Glw.Destroy()
}

// KeyPressed returns whether the given key action leaves the key held.
// Repeats count as presses.
func KeyPressed(action glfw.Action) bool {
	return action != glfw.Release
}
