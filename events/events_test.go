// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vkhuman/human3d/events/key"
	"github.com/vkhuman/human3d/math32"
)

func TestMulti(t *testing.T) {
	var keys []key.Codes
	var moves int
	rec := Funcs{
		Key:         func(code key.Codes, pressed bool) { keys = append(keys, code) },
		PointerMove: func(pos math32.Vector2) { moves++ },
	}
	h := Multi{rec, Funcs{}, rec}
	h.OnKey(key.CodeW, true)
	h.OnPointerMove(math32.Vec2(1, 2))
	assert.Equal(t, []key.Codes{key.CodeW, key.CodeW}, keys)
	assert.Equal(t, 2, moves)
}
