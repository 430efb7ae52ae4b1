// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"time"

	"github.com/cockroachdb/crlib/crtime"
)

// Activity is one instance of a named, timed unit of work. Activities form a
// tree: the parent owns its children, children hold a non-owning back
// reference to the parent. Timestamps are monotonic (crtime.Mono), so
// durations are immune to wall clock adjustments.
//
// An Activity is mutated only through its Marker; once the Marker is
// finished the whole tree is read-only.
type Activity struct {
	name   string
	start  crtime.Mono
	end    crtime.Mono
	closed bool

	parent   *Activity
	children []*Activity
}

// Name returns the activity's name. Names are not required to be unique
// among siblings; repeated siblings are what the report summarizes.
func (a *Activity) Name() string {
	return a.name
}

// Closed reports whether the activity has ended.
func (a *Activity) Closed() bool {
	return a.closed
}

// Duration returns the activity's total duration. It returns 0 while the
// activity is still open.
func (a *Activity) Duration() time.Duration {
	if !a.closed {
		return 0
	}
	return time.Duration(a.end - a.start)
}

// HiddenTime returns the part of the activity's duration not accounted for
// by any direct child:
//
//	hidden = duration - Σ child.Duration()
//
// The result can be negative when measurement overhead makes the children
// sum to more than the parent; it is reported as-is rather than clamped,
// since the report must surface measurement gaps, not hide them.
func (a *Activity) HiddenTime() time.Duration {
	hidden := a.Duration()
	for _, c := range a.children {
		hidden -= c.Duration()
	}
	return hidden
}

// Children returns the activity's direct children in start order. The
// returned slice is owned by the activity and must not be modified.
func (a *Activity) Children() []*Activity {
	return a.children
}

// Parent returns the parent activity, or nil for the root.
func (a *Activity) Parent() *Activity {
	return a.parent
}
