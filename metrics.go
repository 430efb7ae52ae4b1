// Copyright 2025 The Timemark Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package timemark

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector accumulates per-name statistics from finished activity trees
// and exposes them as Prometheus metrics. It lives entirely off the hot
// path: trees are handed over via Observe after Finish, never during
// mutation.
//
// Collector implements prometheus.Collector and is safe for concurrent use.
type Collector struct {
	occurrences *prometheus.CounterVec
	duration    *prometheus.CounterVec
}

// NewCollector creates a Collector. Register it with a
// prometheus.Registerer to expose the metrics.
func NewCollector() *Collector {
	return &Collector{
		occurrences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timemark_activity_occurrences_total",
			Help: "Number of finished occurrences per activity name.",
		}, []string{"activity"}),
		duration: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timemark_activity_duration_seconds_total",
			Help: "Cumulative duration per activity name.",
		}, []string{"activity"}),
	}
}

// Observe accumulates every occurrence in a finished tree. It returns
// ErrNotFinalized if the root activity is still open.
func (c *Collector) Observe(root *Activity) error {
	if !root.closed {
		return errors.Wrapf(ErrNotFinalized, "observing %q", root.name)
	}
	var walk func(a *Activity)
	walk = func(a *Activity) {
		c.occurrences.WithLabelValues(a.name).Inc()
		c.duration.WithLabelValues(a.name).Add(a.Duration().Seconds())
		for _, child := range a.children {
			walk(child)
		}
	}
	walk(root)
	return nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.occurrences.Describe(ch)
	c.duration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.occurrences.Collect(ch)
	c.duration.Collect(ch)
}
