// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
)

// Histogram value bounds, in microseconds. Occurrence durations are clamped
// into this range before recording so that out-of-range values are never
// dropped.
const (
	minHistValue = 1                                               // 1µs
	maxHistValue = int64(10*time.Minute) / int64(time.Microsecond) // 10m
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minHistValue, maxHistValue, 3)
}

// Histograms walks a finished tree and records every occurrence's duration,
// in microseconds, into one HDR histogram per activity name (occurrences of
// the same name at different depths share a histogram). Unlike the
// per-parent Summaries in a report, histograms answer distribution
// questions (p50/p95/p99) over arbitrarily large repetition counts in
// constant memory per name.
//
// Histograms returns ErrNotFinalized if the root activity is still open.
func Histograms(root *Activity) (map[string]*hdrhistogram.Histogram, error) {
	if !root.closed {
		return nil, errors.Wrapf(ErrNotFinalized, "histograms for %q", root.name)
	}
	hists := make(map[string]*hdrhistogram.Histogram)
	var walk func(a *Activity)
	walk = func(a *Activity) {
		h, ok := hists[a.name]
		if !ok {
			h = newHistogram()
			hists[a.name] = h
		}
		v := a.Duration().Microseconds()
		if v < minHistValue {
			v = minHistValue
		} else if v > maxHistValue {
			v = maxHistValue
		}
		// Values are clamped to the configured range above, so recording
		// cannot fail.
		_ = h.RecordValue(v)
		for _, c := range a.children {
			walk(c)
		}
	}
	walk(root)
	return hists, nil
}
