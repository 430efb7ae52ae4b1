// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package timemark provides in-process instrumentation of named activities.
//
// Application code demarcates units of work with explicit Start/End calls
// on a Marker, producing a tree of timed spans rooted at the Marker's name.
// Finishing the Marker freezes the tree; rendering then aggregates repeated
// sibling activities into count/total/avg/max/min summaries and reports the
// "hidden" time at every level (duration not accounted for by any direct
// child), as indented text, XML, or a table:
//
//	m := timemark.NewMarker("request")
//	for _, q := range queries {
//		_ = m.Start("query")
//		run(q)
//		_ = m.End("query")
//	}
//	_ = m.Finish()
//	report, _ := timemark.RenderText(m.Root())
//
// Aggregation happens only at render time, so Start/End stay O(1) and a
// tree of a hundred thousand repeated activities renders as a handful of
// summary lines.
//
// Enablement gating and error-handling policy live in Settings and
// Recorder; the Marker itself always records and always reports usage
// errors.
package timemark
