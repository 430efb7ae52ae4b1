// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// errorAfterWriter collects writes, failing once more than limit bytes have
// been written (limit 0 means never fail).
type errorAfterWriter struct {
	b     strings.Builder
	limit int
	n     int
}

func (w *errorAfterWriter) Write(p []byte) (int, error) {
	if w.limit > 0 {
		w.n += len(p)
		if w.n > w.limit {
			return 0, errors.New("sink failed")
		}
	}
	return w.b.Write(p)
}

// fakeClock is an injectable clock; advance moves it forward.
type fakeClock struct {
	now crtime.Mono
}

func (c *fakeClock) advance(d time.Duration) {
	c.now += crtime.Mono(d)
}

func (c *fakeClock) nowFn() crtime.Mono {
	return c.now
}

func TestMarkerTree(t *testing.T) {
	clock := &fakeClock{}
	m := newMarker("job", clock.nowFn)

	require.NoError(t, m.Start("load"))
	clock.advance(10 * time.Millisecond)
	require.NoError(t, m.Start("parse"))
	clock.advance(5 * time.Millisecond)
	require.NoError(t, m.End("parse"))
	clock.advance(5 * time.Millisecond)
	require.NoError(t, m.End("load"))
	clock.advance(20 * time.Millisecond)
	require.NoError(t, m.Finish())
	require.True(t, m.Finished())

	root := m.Root()
	require.Equal(t, "job", root.Name())
	require.Equal(t, 40*time.Millisecond, root.Duration())
	require.Equal(t, 20*time.Millisecond, root.HiddenTime())
	require.Nil(t, root.Parent())

	require.Len(t, root.Children(), 1)
	load := root.Children()[0]
	require.Equal(t, "load", load.Name())
	require.Equal(t, 20*time.Millisecond, load.Duration())
	require.Equal(t, 15*time.Millisecond, load.HiddenTime())
	require.Equal(t, root, load.Parent())

	require.Len(t, load.Children(), 1)
	parse := load.Children()[0]
	require.Equal(t, 5*time.Millisecond, parse.Duration())
	require.Equal(t, 5*time.Millisecond, parse.HiddenTime())
	require.Empty(t, parse.Children())
}

func TestMarkerUsageErrors(t *testing.T) {
	t.Run("unmatched-end", func(t *testing.T) {
		m := newMarker("job", (&fakeClock{}).nowFn)
		require.ErrorIs(t, m.End("query"), ErrUnmatchedEnd)
		// Ending the root by name is also unmatched; only Finish closes it.
		require.ErrorIs(t, m.End("job"), ErrUnmatchedEnd)
	})

	t.Run("duplicate-open", func(t *testing.T) {
		m := newMarker("job", (&fakeClock{}).nowFn)
		require.NoError(t, m.Start("x"))
		require.ErrorIs(t, m.Start("x"), ErrDuplicateOpen)
		// Starting a child named like the root is directly nested too.
		m2 := newMarker("job", (&fakeClock{}).nowFn)
		require.ErrorIs(t, m2.Start("job"), ErrDuplicateOpen)
	})

	t.Run("out-of-order-end", func(t *testing.T) {
		m := newMarker("job", (&fakeClock{}).nowFn)
		require.NoError(t, m.Start("outer"))
		require.NoError(t, m.Start("inner"))
		require.ErrorIs(t, m.End("outer"), ErrUnclosedChildren)
	})

	t.Run("finish-with-open-children", func(t *testing.T) {
		m := newMarker("job", (&fakeClock{}).nowFn)
		require.NoError(t, m.Start("x"))
		require.ErrorIs(t, m.Finish(), ErrUnclosedChildren)
	})

	t.Run("finalized", func(t *testing.T) {
		m := newMarker("job", (&fakeClock{}).nowFn)
		require.NoError(t, m.Finish())
		require.ErrorIs(t, m.Start("x"), ErrFinalized)
		require.ErrorIs(t, m.End("x"), ErrFinalized)
		require.ErrorIs(t, m.Finish(), ErrFinalized)
	})
}

// A failed operation must not mutate the tree or the open-scope stack.
func TestMarkerFailedOpsDontMutate(t *testing.T) {
	clock := &fakeClock{}
	m := newMarker("job", clock.nowFn)
	require.NoError(t, m.Start("x"))

	require.Error(t, m.Start("x"))
	require.Error(t, m.End("y"))
	require.Error(t, m.Finish())

	require.Len(t, m.Root().Children(), 1)
	require.Len(t, m.stack, 2)
	require.NoError(t, m.End("x"))
	require.NoError(t, m.Finish())
	require.Len(t, m.Root().Children(), 1)
}

func TestMarkerSameNameAtDifferentDepths(t *testing.T) {
	clock := &fakeClock{}
	m := newMarker("job", clock.nowFn)
	require.NoError(t, m.Start("x"))
	require.NoError(t, m.Start("y"))
	// "x" is open two levels up, but not the innermost scope.
	require.NoError(t, m.Start("x"))
	clock.advance(time.Millisecond)
	require.NoError(t, m.End("x"))
	require.NoError(t, m.End("y"))
	require.NoError(t, m.End("x"))
	require.NoError(t, m.Finish())

	outer := m.Root().Children()[0]
	inner := outer.Children()[0].Children()[0]
	require.Equal(t, "x", outer.Name())
	require.Equal(t, "x", inner.Name())
}

func TestMarkerReopenAfterClose(t *testing.T) {
	clock := &fakeClock{}
	m := newMarker("job", clock.nowFn)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Start("q"))
		clock.advance(time.Millisecond)
		require.NoError(t, m.End("q"))
	}
	require.NoError(t, m.Finish())
	require.Len(t, m.Root().Children(), 3)
}

func TestActivityOpenDuration(t *testing.T) {
	clock := &fakeClock{}
	m := newMarker("job", clock.nowFn)
	require.NoError(t, m.Start("x"))
	clock.advance(time.Millisecond)
	// Still open: duration is undefined and reported as 0.
	x := m.Root().Children()[0]
	require.False(t, x.Closed())
	require.Equal(t, time.Duration(0), x.Duration())
}

func TestHiddenTimeNegative(t *testing.T) {
	// Children summing to more than the parent (e.g. measurement overhead)
	// must be surfaced as negative hidden time, not clamped.
	parent := &Activity{name: "p", start: 0, end: crtime.Mono(10 * time.Millisecond), closed: true}
	child := &Activity{name: "c", start: 0, end: crtime.Mono(12 * time.Millisecond), closed: true, parent: parent}
	parent.children = []*Activity{child}
	require.Equal(t, -2*time.Millisecond, parent.HiddenTime())
}

func TestRenderNotFinalized(t *testing.T) {
	m := newMarker("job", (&fakeClock{}).nowFn)

	_, err := RenderText(m.Root())
	require.ErrorIs(t, err, ErrNotFinalized)
	_, err = RenderXML(m.Root())
	require.ErrorIs(t, err, ErrNotFinalized)
	_, err = RenderTable(m.Root())
	require.ErrorIs(t, err, ErrNotFinalized)
	_, err = Histograms(m.Root())
	require.ErrorIs(t, err, ErrNotFinalized)
	require.ErrorIs(t, NewCollector().Observe(m.Root()), ErrNotFinalized)
}

func TestRenderIdempotent(t *testing.T) {
	m := NewMarker("job")
	require.NoError(t, m.Start("q"))
	require.NoError(t, m.Start("sub"))
	require.NoError(t, m.End("sub"))
	require.NoError(t, m.End("q"))
	require.NoError(t, m.Start("q"))
	require.NoError(t, m.End("q"))
	require.NoError(t, m.Finish())

	text1, err := RenderText(m.Root())
	require.NoError(t, err)
	text2, err := RenderText(m.Root())
	require.NoError(t, err)
	require.Equal(t, text1, text2)

	xml1, err := RenderXML(m.Root())
	require.NoError(t, err)
	xml2, err := RenderXML(m.Root())
	require.NoError(t, err)
	require.Equal(t, xml1, xml2)
}

// The streaming XML writer and the in-memory variant must produce the same
// bytes; wrapping one emits the report without buffering the document.
func TestWriteXMLMatchesRender(t *testing.T) {
	clock := &fakeClock{}
	m := newMarker("job", clock.nowFn)
	require.NoError(t, m.Start("q"))
	clock.advance(time.Millisecond)
	require.NoError(t, m.End("q"))
	require.NoError(t, m.Finish())

	s, err := RenderXML(m.Root())
	require.NoError(t, err)

	var sink errorAfterWriter
	err = WriteXML(m.Root(), &sink)
	require.NoError(t, err)
	require.Equal(t, s, sink.b.String())

	// A failing sink surfaces the write error.
	sink = errorAfterWriter{limit: 10}
	err = WriteXML(m.Root(), &sink)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFinalized))
}
