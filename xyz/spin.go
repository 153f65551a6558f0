// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"time"

	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/math32"
)

// SpinID is the [ecs.ComponentID] of [Spin].
var SpinID = ecs.NewComponentID("Spin")

// Spin rotates the [CoordSys] of its entity at a constant rate.
type Spin struct {

	// Rate in radians per second about each axis.
	Rate math32.Vector3
}

func (*Spin) ComponentID() ecs.ComponentID { return SpinID }

// AdvanceSpins adds Rate * elapsed to the rotation of every
// entity that has both a [Spin] and a [CoordSys].
func AdvanceSpins(entities []*ecs.Entity, elapsed time.Duration) {
	secs := float32(elapsed.Seconds())
	ecs.Each(entities, func(e *ecs.Entity, sp *Spin) {
		cs := ecs.Get[*CoordSys](e)
		if cs == nil {
			return
		}
		cs.Rotation.SetAdd(sp.Rate.MulScalar(secs))
	})
}
