// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fswatch watches a set of files for changes, for polling
// from a frame loop without blocking.
package fswatch

import (
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vkhuman/human3d/base/errors"
)

// DefaultDelay is the default time that a file must be left
// alone after a change before the change is reported.
const DefaultDelay = 100 * time.Millisecond

// Watcher reports changes to a set of files.
// The directories of the files are watched, so that files that
// are replaced by renaming, as many editors do, keep being seen.
type Watcher struct {

	// Delay is the time that must pass after the last change
	// before [Watcher.Changed] reports it, so that a file
	// being written is only reported once.
	Delay time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]bool
	pending map[string]bool
	last    time.Time
}

// New returns a new Watcher watching no files.
// It must be closed with [Watcher.Close].
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		Delay:   DefaultDelay,
		watcher: fw,
		done:    make(chan struct{}),
		files:   map[string]bool{},
		dirs:    map[string]bool{},
		pending: map[string]bool{},
	}
	w.wg.Add(1)
	go w.watch()
	return w, nil
}

// watch monitors the watcher channels until the Watcher is closed.
func (w *Watcher) watch() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.update(filepath.Clean(ev.Name))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("fswatch: watch error", "err", err)
		}
	}
}

func (w *Watcher) update(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[path] {
		return
	}
	w.pending[path] = true
	w.last = time.Now()
}

// SetFiles replaces the set of watched files with the given ones.
// Pending changes to files that are no longer watched are dropped.
func (w *Watcher) SetFiles(files ...string) error {
	nfiles := map[string]bool{}
	ndirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		nfiles[abs] = true
		ndirs[filepath.Dir(abs)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for d := range w.dirs {
		if !ndirs[d] {
			errs = append(errs, w.watcher.Remove(d))
		}
	}
	for d := range ndirs {
		if !w.dirs[d] {
			if err := w.watcher.Add(d); err != nil {
				errs = append(errs, err)
				delete(ndirs, d)
			}
		}
	}
	w.files = nfiles
	w.dirs = ndirs
	maps.DeleteFunc(w.pending, func(p string, _ bool) bool { return !nfiles[p] })
	return errors.Join(errs...)
}

// Files returns the watched files as sorted absolute paths.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.files))
}

// Changed returns the sorted absolute paths of the watched files
// that have changed since the last call, once no change has
// happened for [Watcher.Delay]. It returns nil otherwise.
// It never blocks on file system activity.
func (w *Watcher) Changed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 || time.Since(w.last) < w.Delay {
		return nil
	}
	ch := slices.Sorted(maps.Keys(w.pending))
	clear(w.pending)
	return ch
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
