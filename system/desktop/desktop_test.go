// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

package desktop

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/vkhuman/human3d/events/key"
)

func TestGlfwKeyCode(t *testing.T) {
	assert.Equal(t, key.CodeW, GlfwKeyCode(glfw.KeyW))
	assert.Equal(t, key.CodeEscape, GlfwKeyCode(glfw.KeyEscape))
	assert.Equal(t, key.CodeUpArrow, GlfwKeyCode(glfw.KeyUp))
	assert.Equal(t, key.Code0, GlfwKeyCode(glfw.Key0))
	assert.Equal(t, key.CodeUnknown, GlfwKeyCode(glfw.KeyPrintScreen))
	assert.Equal(t, key.CodeUnknown, GlfwKeyCode(glfw.KeyUnknown))

	seen := map[key.Codes]glfw.Key{}
	for gk, c := range glfwKeys {
		assert.True(t, c.IsValid(), "%v", gk)
		_, dup := seen[c]
		assert.False(t, dup, "%v mapped twice", c)
		seen[c] = gk
	}
}

func TestKeyPressed(t *testing.T) {
	assert.True(t, KeyPressed(glfw.Press))
	assert.True(t, KeyPressed(glfw.Repeat))
	assert.False(t, KeyPressed(glfw.Release))
}
