// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration
// structs for the human3d viewer, read from TOML.
package config

import (
	"fmt"
	"log/slog"

	"github.com/vkhuman/human3d/base/errors"
	"github.com/vkhuman/human3d/base/iox/tomlx"
	"github.com/vkhuman/human3d/base/logx"
	"github.com/vkhuman/human3d/base/reflectx"
	"github.com/vkhuman/human3d/events/key"
	"github.com/vkhuman/human3d/input"
	"github.com/vkhuman/human3d/xyz"
)

// Config is the main config struct
// that contains all of the configuration
// options for the viewer.
type Config struct {

	// Scene is the scene file to open.
	// If empty, a built-in scene with a triangle and a camera is shown.
	Scene string

	// Watch reloads the scene when its file or its mesh files change.
	Watch bool `default:"true"`

	// LogLevel is the level to log at: debug, info, warn or error.
	// If empty, the level comes from the command line flags.
	LogLevel string

	// Window has the window options.
	Window Window

	// Camera has the options of the built-in scene camera,
	// and of camera control.
	Camera Camera

	// Keys has the key bindings, by key name.
	Keys Keys

	// Render has the renderer options.
	Render Render
}

// Window has the window options.
type Window struct {

	// Title of the window.
	Title string `default:"human3d"`

	// Width of the window in screen coordinates.
	Width int `default:"1280"`

	// Height of the window in screen coordinates.
	Height int `default:"720"`
}

// Camera has the camera options.
type Camera struct {

	// FOV is the vertical field of view of the built-in scene camera, in degrees.
	FOV float32 `default:"60"`

	// Speed is the movement speed of the built-in scene camera,
	// in world units per second.
	Speed float32 `default:"2"`

	// MouseSensitivity is the rotation, in radians, for a
	// pointer move across the whole window.
	MouseSensitivity float32 `default:"1"`
}

// Keys has the key bindings, as key names such as "W" or "Escape".
type Keys struct {
	Forward string `default:"W"`
	Back    string `default:"S"`
	Left    string `default:"A"`
	Right   string `default:"D"`
	Reset   string `default:"R"`

	// Quit closes the viewer.
	Quit string `default:"Escape"`
}

// Render has the renderer options.
type Render struct {

	// ClearColor is the background color as RGBA in [0, 1].
	ClearColor [4]float32 `default:"[0.05, 0.05, 0.08, 1]"`

	// MaxDraws is the maximum number of draws per frame.
	MaxDraws int `default:"1024"`

	// Debug logs GPU resource use.
	Debug bool
}

// Defaults returns a new Config with all default values.
func Defaults() *Config {
	cfg := &Config{}
	errors.Must(reflectx.SetFromDefaultTags(cfg))
	return cfg
}

// Load returns the [Defaults] overridden by the given TOML file,
// if it is not empty, and checks the result with [Config.Validate].
// Unknown keys in the file are errors.
func Load(filename string) (*Config, error) {
	cfg := Defaults()
	if filename != "" {
		if err := tomlx.Open(cfg, filename); err != nil {
			return nil, fmt.Errorf("%w: config.Load: %w", xyz.ErrConfig, err)
		}
		slog.Debug("config.Load: loaded config", "file", filename)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the given TOML file.
func (cfg *Config) Save(filename string) error {
	return tomlx.Save(cfg, filename)
}

// Validate checks that all values are in range and that all
// key names are known. All errors wrap [xyz.ErrConfig].
func (cfg *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: config: "+format, append([]any{xyz.ErrConfig}, args...)...))
		}
	}
	check(cfg.Window.Width > 0 && cfg.Window.Height > 0, "window size %dx%d must be positive", cfg.Window.Width, cfg.Window.Height)
	check(cfg.Camera.FOV > 0 && cfg.Camera.FOV < 180, "camera FOV %g must be between 0 and 180 degrees", cfg.Camera.FOV)
	check(cfg.Camera.Speed >= 0, "camera speed %g must not be negative", cfg.Camera.Speed)
	check(cfg.Camera.MouseSensitivity >= 0, "mouse sensitivity %g must not be negative", cfg.Camera.MouseSensitivity)
	check(cfg.Render.MaxDraws > 0, "max draws %d must be positive", cfg.Render.MaxDraws)
	for i, c := range cfg.Render.ClearColor {
		check(c >= 0 && c <= 1, "clear color component %d = %g must be in [0, 1]", i, c)
	}
	if cfg.LogLevel != "" {
		_, err := logx.ParseLevel(cfg.LogLevel)
		check(err == nil, "%v", err)
	}
	if _, _, err := cfg.Keys.Bindings(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Bindings returns the movement bindings and the quit key.
func (ks *Keys) Bindings() (input.Bindings, key.Codes, error) {
	var b input.Bindings
	var quit key.Codes
	var errs []error
	for _, kb := range []struct {
		name string
		text string
		code *key.Codes
	}{
		{"Forward", ks.Forward, &b.Forward},
		{"Back", ks.Back, &b.Back},
		{"Left", ks.Left, &b.Left},
		{"Right", ks.Right, &b.Right},
		{"Reset", ks.Reset, &b.Reset},
		{"Quit", ks.Quit, &quit},
	} {
		if err := kb.code.SetString(kb.text); err != nil {
			errs = append(errs, fmt.Errorf("%w: config: key %s: %w", xyz.ErrConfig, kb.name, err))
		}
	}
	if len(errs) > 0 {
		return b, quit, errors.Join(errs...)
	}
	if err := b.Validate(); err != nil {
		return b, quit, fmt.Errorf("%w: config: %w", xyz.ErrConfig, err)
	}
	for _, c := range []key.Codes{b.Forward, b.Back, b.Left, b.Right, b.Reset} {
		if c == quit {
			return b, quit, fmt.Errorf("%w: config: key %v is bound to both Quit and movement", xyz.ErrConfig, quit)
		}
	}
	return b, quit, nil
}
