// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"fmt"
	"strings"

	"github.com/timemark/timemark/internal/durfmt"
)

// RenderText renders a finished tree as an indented plain-text report.
//
// Each activity contributes a header line with its total and hidden time,
// followed by one "+" line per distinct child name with that name's
// aggregated statistics, followed by the full sub-report of every child
// that is itself a subtree:
//
//	App [total: 100.0 ms; hidden: 60.0 ms]
//	  + Q [count: 2; total: 40.0 ms; avg: 20.000; max: 30.0; min: 10.0]
//	  Txn [total: 30.0 ms; hidden: 10.0 ms]
//	    + commit [count: 1; total: 20.0 ms; avg: 20.000; max: 20.0; min: 20.0]
//
// RenderText returns ErrNotFinalized if the root activity is still open.
func RenderText(root *Activity) (string, error) {
	var b strings.Builder
	if err := render(root, &textEmitter{b: &b}); err != nil {
		return "", err
	}
	return b.String(), nil
}

type textEmitter struct {
	b *strings.Builder
}

func textIndent(level int) string {
	return strings.Repeat("  ", level)
}

func (e *textEmitter) openActivity(depth int, a *Activity) {
	fmt.Fprintf(e.b, "%s%s [total: %s ms; hidden: %s ms]\n",
		textIndent(depth), a.name,
		durfmt.Millis(a.Duration(), 1),
		durfmt.Millis(a.HiddenTime(), 1))
}

func (e *textEmitter) summaries(depth int, groups []Summary) {
	for _, s := range groups {
		fmt.Fprintf(e.b, "%s+ %s [count: %d; total: %s ms; avg: %s; max: %s; min: %s]\n",
			textIndent(depth+1), s.Name, s.Count,
			durfmt.Millis(s.Total, 1),
			durfmt.Float(s.Avg, 3),
			durfmt.Millis(s.Max, 1),
			durfmt.Millis(s.Min, 1))
	}
}

func (e *textEmitter) openSubtrees(int, int)        {}
func (e *textEmitter) closeSubtrees(int, int)       {}
func (e *textEmitter) closeActivity(int, *Activity) {}

func (e *textEmitter) error() error {
	return nil
}
