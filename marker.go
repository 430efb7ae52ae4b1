// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
)

// Marker builds an activity tree. It owns the root activity and an explicit
// stack of open scopes; Start pushes a new activity under the innermost open
// scope and End pops it. Finish closes the root, after which the tree is
// frozen and can be rendered.
//
// Start and End are O(1) in the size of the tree; no aggregation happens on
// this path. Summaries are recomputed from the raw tree at render time.
//
// A Marker is not safe for concurrent use: exactly one goroutine may call
// Start/End/Finish on it at any time. Rendering a finished tree is read-only
// and may run concurrently with mutation of other, independent trees.
type Marker struct {
	root *Activity
	// stack holds the open scopes, root at index 0, innermost last.
	stack    []*Activity
	nowFn    func() crtime.Mono
	finished bool
}

// NewMarker creates a Marker whose root activity carries the given name.
// The root starts timing immediately.
func NewMarker(name string) *Marker {
	return newMarker(name, crtime.NowMono)
}

func newMarker(name string, nowFn func() crtime.Mono) *Marker {
	root := &Activity{name: name, start: nowFn()}
	return &Marker{
		root:  root,
		stack: []*Activity{root},
		nowFn: nowFn,
	}
}

// Root returns the root activity. It is only fully populated once Finish has
// been called.
func (m *Marker) Root() *Activity {
	return m.root
}

// Finished reports whether Finish has been called.
func (m *Marker) Finished() bool {
	return m.finished
}

// Start opens a new activity under the innermost open scope. Starting a name
// that is already the innermost open scope fails with ErrDuplicateOpen; the
// same name open at a different depth (separated by another activity) is
// allowed. A failed Start mutates nothing.
func (m *Marker) Start(name string) error {
	if m.finished {
		return errors.Wrapf(ErrFinalized, "starting %q", name)
	}
	top := m.stack[len(m.stack)-1]
	if top.name == name {
		return errors.Wrapf(ErrDuplicateOpen, "starting %q", name)
	}
	a := &Activity{name: name, start: m.nowFn(), parent: top}
	top.children = append(top.children, a)
	m.stack = append(m.stack, a)
	return nil
}

// End closes the innermost open activity carrying the given name, which must
// be the current scope. Ending an activity whose descendants are still open
// fails with ErrUnclosedChildren: stragglers are never auto-closed, since
// that would silently corrupt their timing. Ending a name with no open
// activity fails with ErrUnmatchedEnd. A failed End mutates nothing.
func (m *Marker) End(name string) error {
	if m.finished {
		return errors.Wrapf(ErrFinalized, "ending %q", name)
	}
	top := m.stack[len(m.stack)-1]
	if len(m.stack) > 1 && top.name == name {
		top.end = m.nowFn()
		top.closed = true
		m.stack = m.stack[:len(m.stack)-1]
		return nil
	}
	// The top of the stack doesn't match. If the name is open further down,
	// this is an out-of-order end; otherwise it is unmatched. The walk is
	// bounded by nesting depth, not tree size, and only runs on the error
	// path.
	for i := len(m.stack) - 2; i >= 1; i-- {
		if m.stack[i].name == name {
			return errors.Wrapf(ErrUnclosedChildren, "ending %q while %q is open", name, top.name)
		}
	}
	return errors.Wrapf(ErrUnmatchedEnd, "ending %q", name)
}

// Finish closes the root activity and freezes the tree. It fails with
// ErrUnclosedChildren if any descendant activity is still open, and with
// ErrFinalized if the tree was already finished. After a successful Finish
// the Marker accepts no further mutation and the tree can be rendered.
func (m *Marker) Finish() error {
	if m.finished {
		return errors.Wrap(ErrFinalized, "finishing")
	}
	if n := len(m.stack) - 1; n > 0 {
		top := m.stack[len(m.stack)-1]
		return errors.Wrapf(ErrUnclosedChildren, "finishing with %d still open, innermost %q", n, top.name)
	}
	m.root.end = m.nowFn()
	m.root.closed = true
	m.finished = true
	return nil
}
