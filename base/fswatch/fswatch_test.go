// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fswatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.yaml")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(scene, []byte("entities: []\n"), 0666))

	w, err := New()
	require.NoError(t, err)
	defer w.Close()
	w.Delay = 0
	require.NoError(t, w.SetFiles(scene))
	assert.Equal(t, []string{scene}, w.Files())
	assert.Nil(t, w.Changed())

	require.NoError(t, os.WriteFile(other, []byte("x"), 0666))
	require.NoError(t, os.WriteFile(scene, []byte("entities: [{name: a}]\n"), 0666))

	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Changed()...)
		return len(got) > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{scene}, got)
}

func TestWatcherDelay(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(scene, nil, 0666))

	w, err := New()
	require.NoError(t, err)
	defer w.Close()
	w.Delay = time.Hour
	require.NoError(t, w.SetFiles(scene))
	require.NoError(t, os.WriteFile(scene, []byte("a"), 0666))

	// the change is seen but held back by the delay
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending) > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Nil(t, w.Changed())

	// dropped when the file is no longer watched
	require.NoError(t, w.SetFiles())
	w.Delay = 0
	assert.Nil(t, w.Changed())
	assert.Empty(t, w.Files())
}

func TestWatcherErrors(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	err = w.SetFiles(filepath.Join(t.TempDir(), "missing", "scene.yaml"))
	assert.Error(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
