// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// debounceDelay coalesces the editor write-rename-chmod bursts into a single
// reload.
const debounceDelay = 250 * time.Millisecond

// Watcher reloads the configuration when its file changes on disk and hands
// each valid reload to a callback. Invalid intermediate states (a half-saved
// file) are skipped; the last good configuration stays in effect.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(*Config)
	cancel   context.CancelFunc
}

// Watch starts watching path. The callback runs on the watcher's goroutine.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace the file, which would drop a
	// watch on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		watcher:  fw,
		onChange: onChange,
		cancel:   cancel,
	}
	go w.loop(ctx)
	return w, nil
}

// loop consumes fsnotify events until the watcher closes.
func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			cfg, err := LoadFrom(w.path)
			if err != nil {
				continue // keep the last good config
			}
			w.onChange(cfg)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching. Safe to call once the watcher is no longer needed.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}
