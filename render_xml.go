// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/timemark/timemark/internal/durfmt"
)

// RenderXML renders a finished tree as nested XML. Attribute values carry
// exactly the same formatted numeric strings as the text report, so the two
// formats are interchangeable for downstream tooling:
//
//	<activity name="App" total="100.0" hidden="60.0">
//	  <summaries count="2">
//	    <summary name="Q" count="2" total="40.0" max="30.0" avg="20.000" min="10.0"/>
//	    ...
//	  </summaries>
//	  <activities>
//	    <activity name="Txn" ...> ... </activity>
//	  </activities>
//	</activity>
//
// RenderXML returns ErrNotFinalized if the root activity is still open.
func RenderXML(root *Activity) (string, error) {
	var b strings.Builder
	if err := WriteXML(root, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteXML is the streaming variant of RenderXML: it writes the report
// directly to w without building the document in memory, which matters when
// a report summarizes hundreds of thousands of occurrences. It returns the
// first write error encountered.
func WriteXML(root *Activity, w io.Writer) error {
	return render(root, &xmlEmitter{w: w})
}

// xmlEmitter hand-builds the document instead of going through
// encoding/xml marshaling: the format requires byte-stable attribute order,
// the exact numeric strings of the text report, and streaming output.
// Escaping is still encoding/xml's.
type xmlEmitter struct {
	w   io.Writer
	err error
}

// An activity at logical depth d sits at XML nesting level 2d: each level
// of recursion adds the <activities> container plus the <activity> element.
func (e *xmlEmitter) printf(level int, format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	if _, err := io.WriteString(e.w, strings.Repeat("  ", level)); err != nil {
		e.err = err
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func escape(s string) string {
	var b strings.Builder
	// EscapeText only fails on a failing writer; strings.Builder never does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (e *xmlEmitter) openActivity(depth int, a *Activity) {
	e.printf(2*depth, "<activity name=\"%s\" total=\"%s\" hidden=\"%s\">\n",
		escape(a.name),
		durfmt.Millis(a.Duration(), 1),
		durfmt.Millis(a.HiddenTime(), 1))
}

func (e *xmlEmitter) summaries(depth int, groups []Summary) {
	if len(groups) == 0 {
		e.printf(2*depth+1, "<summaries count=\"0\"/>\n")
		return
	}
	e.printf(2*depth+1, "<summaries count=\"%d\">\n", len(groups))
	for _, s := range groups {
		e.printf(2*depth+2, "<summary name=\"%s\" count=\"%d\" total=\"%s\" max=\"%s\" avg=\"%s\" min=\"%s\"/>\n",
			escape(s.Name), s.Count,
			durfmt.Millis(s.Total, 1),
			durfmt.Millis(s.Max, 1),
			durfmt.Float(s.Avg, 3),
			durfmt.Millis(s.Min, 1))
	}
	e.printf(2*depth+1, "</summaries>\n")
}

func (e *xmlEmitter) openSubtrees(depth, n int) {
	if n == 0 {
		e.printf(2*depth+1, "<activities/>\n")
		return
	}
	e.printf(2*depth+1, "<activities>\n")
}

func (e *xmlEmitter) closeSubtrees(depth, n int) {
	if n == 0 {
		return
	}
	e.printf(2*depth+1, "</activities>\n")
}

func (e *xmlEmitter) closeActivity(depth int, _ *Activity) {
	e.printf(2*depth, "</activity>\n")
}

func (e *xmlEmitter) error() error {
	return e.err
}
