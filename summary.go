// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"time"

	"github.com/cockroachdb/redact"
	"github.com/timemark/timemark/internal/durfmt"
)

// Summary holds aggregated statistics for all sibling occurrences of one
// activity name. Summaries are derived at render time and never stored on
// the tree, which keeps the tree's memory proportional to node count and
// the Start/End path free of aggregation work.
type Summary struct {
	Name  string
	Count int64
	Total time.Duration
	Max   time.Duration
	Min   time.Duration
	// Avg is Total/Count in fractional milliseconds. It is kept as a float
	// rather than a truncated Duration so that display rounding is the only
	// rounding applied.
	Avg float64
}

// Summarize groups the given sibling activities by name and computes one
// Summary per distinct name, preserving first-occurrence order (what
// happened first appears first in the report). A group of size 1 still
// yields a full Summary; whether to display it differently is the
// renderer's decision.
//
// Summarize is a pure function over closed activities and never mutates its
// input.
func Summarize(activities []*Activity) []Summary {
	byName := make(map[string]int)
	summaries := make([]Summary, 0, len(activities))
	for _, a := range activities {
		d := a.Duration()
		i, ok := byName[a.name]
		if !ok {
			byName[a.name] = len(summaries)
			summaries = append(summaries, Summary{
				Name:  a.name,
				Count: 1,
				Total: d,
				Max:   d,
				Min:   d,
			})
			continue
		}
		s := &summaries[i]
		s.Count++
		s.Total += d
		if d > s.Max {
			s.Max = d
		}
		if d < s.Min {
			s.Min = d
		}
	}
	for i := range summaries {
		s := &summaries[i]
		s.Avg = float64(s.Total) / float64(time.Millisecond) / float64(s.Count)
	}
	return summaries
}

// String implements fmt.Stringer.
func (s Summary) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter. Activity names are
// caller-provided and treated as unsafe; the statistics are safe.
func (s Summary) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s [count: %d; total: %s ms; avg: %s; max: %s; min: %s]",
		s.Name, redact.Safe(s.Count),
		redact.Safe(durfmt.Millis(s.Total, 1)),
		redact.Safe(durfmt.Float(s.Avg, 3)),
		redact.Safe(durfmt.Millis(s.Max, 1)),
		redact.Safe(durfmt.Millis(s.Min, 1)))
}
