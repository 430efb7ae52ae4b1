// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// Watch hot-reloads the Settings from the YAML file at path whenever it
// changes. The containing directory is watched rather than the file itself,
// so editors that replace the file by rename are handled. The initial load
// happens synchronously; a failed reload after that is logged and the
// previous settings stay in effect.
//
// The returned stop function releases the watcher. Watching is optional; a
// Settings used without Watch simply never changes on its own.
func (s *Settings) Watch(path string, logger Logger) (stop func(), _ error) {
	if err := s.LoadFile(path); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "timemark: creating settings watcher")
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, errors.Wrapf(err, "timemark: watching %q", dir)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := s.LoadFile(path); err != nil {
					logger.Errorf("settings reload failed: %v", err)
					continue
				}
				logger.Infof("settings reloaded: enabled=%t failure_mode=%s", s.Enabled(), s.FailureMode())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Errorf("settings watcher: %v", err)
			}
		}
	}()

	return func() {
		close(done)
		_ = watcher.Close()
	}, nil
}
