// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"os"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FailureMode decides what a Recorder does with usage errors raised by the
// core. The core itself always returns them.
type FailureMode int32

const (
	// FailPropagate returns core errors to the caller unchanged.
	FailPropagate FailureMode = iota
	// FailLog logs core errors through the Recorder's Logger and otherwise
	// swallows them.
	FailLog
	// FailPanic panics on core errors. Meant for tests and development,
	// where a protocol violation should be loud.
	FailPanic
)

func (m FailureMode) String() string {
	switch m {
	case FailPropagate:
		return "propagate"
	case FailLog:
		return "log"
	case FailPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Settings gates instrumentation and selects the failure mode. The zero
// value is enabled with FailPropagate. Settings may be shared by any number
// of Recorders and updated concurrently; readers see updates atomically.
type Settings struct {
	disabled atomic.Bool
	mode     atomic.Int32
}

// Enabled reports whether timing is enabled. Callers consult this before
// touching a Marker at all; when disabled, no tree is produced.
func (s *Settings) Enabled() bool {
	return !s.disabled.Load()
}

// SetEnabled flips the enablement flag. It does not affect trees already
// being built.
func (s *Settings) SetEnabled(enabled bool) {
	s.disabled.Store(!enabled)
}

// FailureMode returns the configured failure mode.
func (s *Settings) FailureMode() FailureMode {
	return FailureMode(s.mode.Load())
}

// SetFailureMode sets the failure mode.
func (s *Settings) SetFailureMode(m FailureMode) {
	s.mode.Store(int32(m))
}

// settingsFile is the on-disk YAML shape:
//
//	enabled: true
//	failure_mode: propagate | log | panic
type settingsFile struct {
	Enabled     *bool  `yaml:"enabled"`
	FailureMode string `yaml:"failure_mode"`
}

// LoadFile applies the YAML settings file at path. Omitted fields keep
// their current values. A malformed file leaves the Settings unchanged.
func (s *Settings) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "timemark: reading settings %q", path)
	}
	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return errors.Wrapf(err, "timemark: parsing settings %q", path)
	}
	var mode FailureMode
	switch f.FailureMode {
	case "":
		mode = s.FailureMode()
	case "propagate":
		mode = FailPropagate
	case "log":
		mode = FailLog
	case "panic":
		mode = FailPanic
	default:
		return errors.Errorf("timemark: unknown failure_mode %q in %q", f.FailureMode, path)
	}
	if f.Enabled != nil {
		s.SetEnabled(*f.Enabled)
	}
	s.SetFailureMode(mode)
	return nil
}
