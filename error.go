// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import "github.com/cockroachdb/errors"

// All errors returned by this package are usage errors: the calling code
// violated the marker protocol. The core never repairs or drops timing data
// on its own, because doing so would falsify the measurement; recovering is
// the job of the caller (see Recorder).
var (
	// ErrUnmatchedEnd is returned by End when no open activity carries the
	// given name.
	ErrUnmatchedEnd = errors.New("timemark: no open activity matches end")

	// ErrUnclosedChildren is returned when an activity is ended while one of
	// its descendants is still open, or by Finish while any activity besides
	// the root is still open.
	ErrUnclosedChildren = errors.New("timemark: open child activities remain")

	// ErrDuplicateOpen is returned by Start when the innermost open scope
	// already carries the given name.
	ErrDuplicateOpen = errors.New("timemark: activity already open in this scope")

	// ErrFinalized is returned by Start, End and Finish after the root
	// activity has been closed.
	ErrFinalized = errors.New("timemark: tree is finalized")

	// ErrNotFinalized is returned when rendering a tree whose root activity
	// is still open.
	ErrNotFinalized = errors.New("timemark: tree is not finalized")
)
