// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

// DedupPolicy selects which of a run of duplicate-timestamp points Dedup
// keeps (spec §4.6 — "planner-chosen").
type DedupPolicy int

const (
	DedupKeepEarliest DedupPolicy = iota
	DedupKeepLatest
)

// Dedup folds duplicate-timestamp points within an already timestamp-
// ordered series, keeping the first or last occurrence of each run per
// policy. The input order is preserved for the surviving points.
func Dedup(points []Point, policy DedupPolicy) []Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]Point, 0, len(points))
	i := 0
	for i < len(points) {
		j := i
		for j < len(points) && points[j].Timestamp == points[i].Timestamp {
			j++
		}
		kept := points[i]
		if policy == DedupKeepLatest {
			kept = points[j-1]
		}
		out = append(out, kept)
		i = j
	}
	return out
}
