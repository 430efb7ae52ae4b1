// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package durfmt formats durations as fractional milliseconds for reports.
//
// The contract is shared by every report format: fixed decimal places
// (one for totals and extrema, three for averages), and comma grouping of
// the integer part for absolute values of 1000 and above, e.g. "1,234.5".
// Keeping the strings identical across formats keeps the formats
// interchangeable for downstream tooling.
package durfmt

import (
	"strconv"
	"strings"
	"time"
)

// Millis formats d as fractional milliseconds with the given number of
// decimal places.
func Millis(d time.Duration, decimals int) string {
	return Float(float64(d)/float64(time.Millisecond), decimals)
}

// Float formats a value already expressed in milliseconds with the given
// number of decimal places.
func Float(ms float64, decimals int) string {
	return group(strconv.FormatFloat(ms, 'f', decimals, 64))
}

// group inserts comma thousands separators into the integer part of a
// fixed-point decimal string, preserving any leading sign.
func group(s string) string {
	start := 0
	if strings.HasPrefix(s, "-") {
		start = 1
	}
	end := strings.IndexByte(s, '.')
	if end == -1 {
		end = len(s)
	}
	if end-start <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + (end-start-1)/3)
	b.WriteString(s[:start])
	for i := start; i < end; i++ {
		if i > start && (end-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	b.WriteString(s[end:])
	return b.String()
}
