// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

// Command human3d shows a scene of meshes in a window, with a
// free flying camera moved by the W, A, S and D keys and the mouse.
//
//	human3d [scene.yaml] [--config human3d.toml] [-v | --vv | -q]
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/vkhuman/human3d/base/errors"
	"github.com/vkhuman/human3d/base/iox/tomlx"
	"github.com/vkhuman/human3d/base/logx"
	"github.com/vkhuman/human3d/config"
	"github.com/vkhuman/human3d/gpu"
	"github.com/vkhuman/human3d/system/desktop"
	"github.com/vkhuman/human3d/viewer"
	"github.com/vkhuman/human3d/xyz/io/gltf"
)

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

// flags are the command line flags.
type flags struct {
	config      string
	verbose     bool
	veryVerbose bool
	quiet       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	fl := &flags{}
	root := &cobra.Command{
		Use:           "human3d [scene.yaml]",
		Short:         "Show a 3D scene in a window",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(fl, args)
			if err != nil {
				return err
			}
			return errors.Log(run(cfg))
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&fl.config, "config", "", "TOML config file")
	pf.BoolVarP(&fl.verbose, "verbose", "v", false, "log info messages")
	pf.BoolVar(&fl.veryVerbose, "vv", false, "log debug messages")
	pf.BoolVarP(&fl.quiet, "quiet", "q", false, "only log errors")

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the config, with defaults for unset values, as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(fl, nil)
			if err != nil {
				return err
			}
			return tomlx.Write(cfg, cmd.OutOrStdout())
		},
	})
	return root
}

// loadConfig loads the config and sets up logging.
// A scene given as argument overrides the config.
func loadConfig(fl *flags, args []string) (*config.Config, error) {
	logx.UserLevel = logx.LevelFromFlags(fl.veryVerbose, fl.verbose, fl.quiet)
	logx.SetDefaultLogger()
	cfg, err := config.Load(fl.config)
	if err != nil {
		return nil, errors.Log(err)
	}
	if cfg.LogLevel != "" && !fl.veryVerbose && !fl.verbose && !fl.quiet {
		logx.UserLevel = errors.Log1(logx.ParseLevel(cfg.LogLevel))
		logx.SetDefaultLogger()
	}
	if len(args) > 0 {
		cfg.Scene = args[0]
	}
	gpu.Debug = cfg.Render.Debug
	return cfg, nil
}

// run opens the window and runs the frame loop until the
// window is closed or the quit key is pressed.
func run(cfg *config.Config) error {
	if err := desktop.Init(); err != nil {
		return err
	}
	defer desktop.Terminate()

	win, err := desktop.NewWindow(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer win.Destroy()

	fw, fh := win.FramebufferSize()
	backend, err := gpu.NewWGPU(win.SurfaceDescriptor(), gpu.Options{
		Width:      fw,
		Height:     fh,
		ClearColor: cfg.Render.ClearColor,
		MaxDraws:   cfg.Render.MaxDraws,
	})
	if err != nil {
		return err
	}
	defer backend.Release()

	ww, wh := win.Size()
	s, err := viewer.NewSession(cfg, backend, gltf.Loader{}, ww, wh)
	if err != nil {
		return err
	}
	// meshes are released before the backend
	defer func() { errors.Log(s.Close()) }()

	win.BindInput(s.Handler())
	win.CapturePointer()
	win.SetResizeFunc(func(width, height int) {
		errors.Log(backend.SetSize(width, height))
		s.SetViewport(win.Size())
	})

	frames := 0
	fpsStart := time.Now()
	for win.PollEvents() && !s.QuitRequested() {
		if err := s.Frame(time.Now()); err != nil {
			return fmt.Errorf("human3d: frame: %w", err)
		}
		frames++
		if dur := time.Since(fpsStart); dur > 10*time.Second {
			slog.Info("human3d: frame rate", "fps", fmt.Sprintf("%.0f", float64(frames)/dur.Seconds()))
			frames = 0
			fpsStart = time.Now()
		}
	}
	return nil
}
