// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import "github.com/cockroachdb/errors"

// emitter is the serialization shell of a report. The traversal in render
// is the single source of truth for aggregation and ordering in every
// format; emitters only shape bytes. depth is the logical depth of the
// activity being rendered (0 for the root).
type emitter interface {
	openActivity(depth int, a *Activity)
	// summaries emits the aggregated rows for the activity's direct
	// children, in first-occurrence order.
	summaries(depth int, groups []Summary)
	// openSubtrees/closeSubtrees bracket the fully recursed sub-activities;
	// n is the number of direct children that are themselves subtrees.
	openSubtrees(depth, n int)
	closeSubtrees(depth, n int)
	closeActivity(depth int, a *Activity)
	// error returns the first write error encountered, if any.
	error() error
}

// render walks a finished tree and drives the emitter. Rendering is
// read-only and idempotent: rendering the same tree twice yields
// byte-identical output.
func render(root *Activity, e emitter) error {
	if !root.closed {
		return errors.Wrapf(ErrNotFinalized, "rendering %q", root.name)
	}
	renderNode(root, 0, e)
	return e.error()
}

func renderNode(a *Activity, depth int, e emitter) {
	e.openActivity(depth, a)
	e.summaries(depth, Summarize(a.children))

	// Every direct child that is itself a subtree gets a full recursive
	// report, even if its name also appears in the summaries above. Leaf
	// occurrences appear only in their summary row, which is what keeps a
	// report over huge repetition counts compact.
	n := 0
	for _, c := range a.children {
		if len(c.children) > 0 {
			n++
		}
	}
	e.openSubtrees(depth, n)
	for _, c := range a.children {
		if len(c.children) > 0 {
			renderNode(c, depth+1, e)
		}
	}
	e.closeSubtrees(depth, n)
	e.closeActivity(depth, a)
}
