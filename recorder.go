// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

// Recorder is the failure-policy facade over a Marker. It consults a
// Settings once, at creation: when timing is disabled the core is never
// invoked and no tree is produced. Snapshotting at creation rather than per
// call means a flag flip mid-tree cannot corrupt an in-progress
// measurement.
//
// Usage errors raised by the core are handled per the Settings' failure
// mode; the core itself never swallows them.
type Recorder struct {
	marker   *Marker
	settings *Settings
	logger   Logger
}

// NewRecorder creates a Recorder for an activity tree rooted at name. A nil
// settings means always enabled with FailPropagate; a nil logger falls back
// to DefaultLogger.
func NewRecorder(name string, settings *Settings, logger Logger) *Recorder {
	if settings == nil {
		settings = &Settings{}
	}
	if logger == nil {
		logger = DefaultLogger
	}
	r := &Recorder{settings: settings, logger: logger}
	if settings.Enabled() {
		r.marker = NewMarker(name)
	}
	return r
}

// Enabled reports whether this Recorder is producing a tree.
func (r *Recorder) Enabled() bool {
	return r.marker != nil
}

// Root returns the root activity, or nil when disabled.
func (r *Recorder) Root() *Activity {
	if r.marker == nil {
		return nil
	}
	return r.marker.Root()
}

// Start opens an activity; see Marker.Start.
func (r *Recorder) Start(name string) error {
	if r.marker == nil {
		return nil
	}
	return r.handle(r.marker.Start(name))
}

// End closes an activity; see Marker.End.
func (r *Recorder) End(name string) error {
	if r.marker == nil {
		return nil
	}
	return r.handle(r.marker.End(name))
}

// Finish closes the root activity; see Marker.Finish.
func (r *Recorder) Finish() error {
	if r.marker == nil {
		return nil
	}
	return r.handle(r.marker.Finish())
}

func (r *Recorder) handle(err error) error {
	if err == nil {
		return nil
	}
	switch r.settings.FailureMode() {
	case FailLog:
		r.logger.Errorf("%v", err)
		return nil
	case FailPanic:
		panic(err)
	default:
		return err
	}
}
