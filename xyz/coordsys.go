// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/math32"
)

// CoordSysID is the [ecs.ComponentID] of [CoordSys].
var CoordSysID = ecs.NewComponentID("CoordSys")

// CoordSys places an entity in the world.
type CoordSys struct {

	// Position is the translation of the entity.
	Position math32.Vector3

	// Rotation holds Euler angles in radians, applied
	// about X, then Y, then Z.
	Rotation math32.Vector3
}

func (*CoordSys) ComponentID() ecs.ComponentID { return CoordSysID }

// NewCoordSys returns a new [CoordSys] at the given position
// with no rotation.
func NewCoordSys(pos math32.Vector3) *CoordSys {
	return &CoordSys{Position: pos}
}

// World returns the world matrix T * Rx * Ry * Rz.
// It is computed from the current fields on every call.
func (cs *CoordSys) World() math32.Matrix4 {
	if cs == nil {
		return math32.Identity4()
	}
	rx := math32.RotationX4(cs.Rotation.X)
	ry := math32.RotationY4(cs.Rotation.Y)
	rz := math32.RotationZ4(cs.Rotation.Z)
	return math32.Translation4(cs.Position).Mul(rx).Mul(ry).Mul(rz)
}
