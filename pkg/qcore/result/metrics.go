// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package result

import "github.com/prometheus/client_golang/prometheus"

const namespace = "qcore_result"

// Package-level counters instrumenting the accumulator's concurrent
// mutation path (spec §5): datapoints/bytes appended, is_full trips, and
// latched errors. Grounded on the style of the pack's standalone
// prometheus.NewCounter/NewCounterVec instrumentation (e.g. tempo-vulture's
// metrics.go) rather than the teacher's own metric surface, which has none
// of its own to ground this on.
var (
	metricDatapointsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datapoints_appended_total",
			Help:      "total datapoints accepted by AddSequence across all results",
		},
	)

	metricBytesAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_appended_total",
			Help:      "total sequence bytes accepted by AddSequence across all results",
		},
	)

	metricFullTrips = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "full_trips_total",
			Help:      "number of times a result's is_full flag tripped",
		},
	)

	metricErrorsLatched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_latched_total",
			Help:      "number of first-writer-wins errors latched onto a result",
		},
	)
)

func init() {
	prometheus.MustRegister(metricDatapointsAppended, metricBytesAppended, metricFullTrips, metricErrorsLatched)
}
