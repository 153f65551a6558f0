// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkhuman/human3d/events/key"
	"github.com/vkhuman/human3d/input"
	"github.com/vkhuman/human3d/xyz"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "human3d.toml")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0666))
	return fn
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.True(t, cfg.Watch)
	assert.Equal(t, "human3d", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, float32(60), cfg.Camera.FOV)
	assert.Equal(t, float32(2), cfg.Camera.Speed)
	assert.Equal(t, float32(1), cfg.Camera.MouseSensitivity)
	assert.Equal(t, "Escape", cfg.Keys.Quit)
	assert.Equal(t, [4]float32{0.05, 0.05, 0.08, 1}, cfg.Render.ClearColor)
	assert.Equal(t, 1024, cfg.Render.MaxDraws)
	require.NoError(t, cfg.Validate())

	b, quit, err := cfg.Keys.Bindings()
	require.NoError(t, err)
	assert.Equal(t, input.DefaultBindings(), b)
	assert.Equal(t, key.CodeEscape, quit)
}

func TestLoad(t *testing.T) {
	fn := writeConfig(t, `
Scene = "scene.yaml"
Watch = false
LogLevel = "debug"

[Window]
Width = 640

[Keys]
Forward = "up"
Back = "down"
Quit = "q"

[Render]
ClearColor = [0.0, 0.0, 0.0, 1.0]
`)
	cfg, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, "scene.yaml", cfg.Scene)
	assert.False(t, cfg.Watch)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.Render.ClearColor)

	b, quit, err := cfg.Keys.Bindings()
	require.NoError(t, err)
	assert.Equal(t, key.CodeUpArrow, b.Forward)
	assert.Equal(t, key.CodeDownArrow, b.Back)
	assert.Equal(t, key.CodeA, b.Left)
	assert.Equal(t, key.CodeQ, quit)
}

func TestLoadEmptyName(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", "Bogus = 1\n", "Bogus"},
		{"syntax", "Scene = \n", "config.Load"},
		{"window", "[Window]\nWidth = 0\n", "window size"},
		{"fov", "[Camera]\nFOV = 180\n", "FOV"},
		{"speed", "[Camera]\nSpeed = -1\n", "speed"},
		{"max draws", "[Render]\nMaxDraws = 0\n", "max draws"},
		{"color", "[Render]\nClearColor = [0.0, 0.0, 2.0, 1.0]\n", "clear color component 2"},
		{"log level", "LogLevel = \"loud\"\n", "loud"},
		{"key name", "[Keys]\nForward = \"Hyper\"\n", "key Forward"},
		{"duplicate key", "[Keys]\nBack = \"W\"\n", "bound to both"},
		{"quit key", "[Keys]\nQuit = \"R\"\n", "Quit"},
	}
	for _, test := range tests {
		_, err := Load(writeConfig(t, test.content))
		assert.ErrorIs(t, err, xyz.ErrConfig, test.name)
		assert.ErrorContains(t, err, test.want, test.name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, xyz.ErrConfig)
}

func TestSave(t *testing.T) {
	cfg := Defaults()
	cfg.Scene = "other.yaml"
	cfg.Keys.Reset = "Home"
	fn := filepath.Join(t.TempDir(), "saved.toml")
	require.NoError(t, cfg.Save(fn))

	got, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
