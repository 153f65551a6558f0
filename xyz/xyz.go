// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xyz provides the 3D scene components that are attached to
// [ecs.Entity] values: [CoordSys] for placement, [Visual] for mesh data,
// [Camera] for the view, and [Spin] for simple animation.
// It also has the built-in meshes, the [MeshLoader] interface used to
// read mesh files, and [LoadScene] for YAML scene descriptions.
package xyz

import (
	"fmt"

	"github.com/vkhuman/human3d/base/errors"
)

// ErrConfig is wrapped by all configuration errors:
// bad mesh data, unsupported mesh files, and bad scene files.
var ErrConfig = errors.New("configuration error")

// ErrIndexRange is returned when a mesh index refers
// past the end of its vertex list. It wraps [ErrConfig].
var ErrIndexRange = fmt.Errorf("%w: mesh index out of range", ErrConfig)
