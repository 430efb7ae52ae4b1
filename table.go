// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/timemark/timemark/internal/durfmt"
)

// RenderTable renders a finished tree as a flat table for terminal
// consumption. Activity rows carry total and hidden time; summary rows
// carry the aggregated statistics, indented under their parent. Numbers use
// the same formatting as the other report formats.
//
// RenderTable returns ErrNotFinalized if the root activity is still open.
func RenderTable(root *Activity) (string, error) {
	var b strings.Builder
	t := tablewriter.NewWriter(&b)
	t.SetHeader([]string{"Activity", "Count", "Total ms", "Avg ms", "Max ms", "Min ms", "Hidden ms"})
	t.SetAutoFormatHeaders(false)
	if err := render(root, &tableEmitter{t: t}); err != nil {
		return "", err
	}
	t.Render()
	return b.String(), nil
}

type tableEmitter struct {
	t *tablewriter.Table
}

func (e *tableEmitter) openActivity(depth int, a *Activity) {
	e.t.Append([]string{
		textIndent(depth) + a.name,
		"",
		durfmt.Millis(a.Duration(), 1),
		"", "", "",
		durfmt.Millis(a.HiddenTime(), 1),
	})
}

func (e *tableEmitter) summaries(depth int, groups []Summary) {
	for _, s := range groups {
		e.t.Append([]string{
			textIndent(depth+1) + "+ " + s.Name,
			strconv.FormatInt(s.Count, 10),
			durfmt.Millis(s.Total, 1),
			durfmt.Float(s.Avg, 3),
			durfmt.Millis(s.Max, 1),
			durfmt.Millis(s.Min, 1),
			"",
		})
	}
}

func (e *tableEmitter) openSubtrees(int, int)        {}
func (e *tableEmitter) closeSubtrees(int, int)       {}
func (e *tableEmitter) closeActivity(int, *Activity) {}

func (e *tableEmitter) error() error {
	return nil
}
