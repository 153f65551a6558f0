// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errBase = New("base")

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	err := fmt.Errorf("wrapped: %w", errBase)
	assert.Equal(t, err, Log(err))
	assert.True(t, Is(Log(err), errBase))
}

func TestLog1(t *testing.T) {
	assert.Equal(t, 3, Log1(3, nil))
	assert.Equal(t, 0, Log1(0, errBase))
	assert.Equal(t, "x", Ignore1("x", errBase))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(errBase) })
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join(nil, nil))
	other := New("other")
	err := Join(errBase, nil, other)
	assert.True(t, Is(err, errBase))
	assert.True(t, Is(err, other))
}
