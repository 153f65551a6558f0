// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UseColor is whether to use color in log messages.
// It is on by default; it has no effect when the
// output is not a terminal.
var UseColor = true

// level colors, as ANSI 256 color codes
var levelColors = map[slog.Level]string{
	slog.LevelDebug: "244",
	slog.LevelInfo:  "39",
	slog.LevelWarn:  "214",
	slog.LevelError: "196",
}

// NewHandler returns a new text [slog.Handler] writing to w at
// the given level, with level names colored through termenv
// when w is a terminal and [UseColor] is on.
func NewHandler(w io.Writer, level slog.Leveler) slog.Handler {
	out := termenv.NewOutput(w)
	color := UseColor && out.Profile != termenv.Ascii
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.LevelKey || !color {
				return a
			}
			lvl, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			a.Value = slog.StringValue(ColorLevel(out, lvl))
			return a
		},
	}
	return slog.NewTextHandler(w, opts)
}

// ColorLevel returns the name of the given level styled
// with its color for the given output.
func ColorLevel(out *termenv.Output, lvl slog.Level) string {
	code, ok := levelColors[lvl]
	if !ok {
		return lvl.String()
	}
	st := out.String(lvl.String()).Foreground(out.Color(code))
	if lvl >= slog.LevelError {
		st = st.Bold()
	}
	return st.String()
}

// SetDefaultLogger sets the default logger to one writing to
// [os.Stderr] at [UserLevel].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, UserLevel)))
}
