// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import "sort"

// Aggregator reduces a series' values to a single scalar, the form
// Top-N ranks by (spec §4.6).
type Aggregator func(values []float64) float64

// AggregatorSum is the Top-N ranking aggregator that sums a series.
func AggregatorSum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// AggregatorMax is the Top-N ranking aggregator that takes a series' max.
func AggregatorMax(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// RankedSeries is one input to Top-N: an id (used for the lexicographic
// tie-break) and the series' full value range.
type RankedSeries struct {
	ID     string
	Values []float64
}

// TopN reduces each series to a scalar via agg, then keeps the top count
// (bottom count when isTop is false) by that scalar. Ties are broken by
// ID, lexicographically ascending (spec §4.6).
func TopN(series []RankedSeries, agg Aggregator, count int, isTop bool) []RankedSeries {
	type scored struct {
		series RankedSeries
		score  float64
	}
	scoredAll := make([]scored, len(series))
	for i, s := range series {
		scoredAll[i] = scored{series: s, score: agg(s.Values)}
	}

	sort.Slice(scoredAll, func(i, j int) bool {
		if scoredAll[i].score != scoredAll[j].score {
			if isTop {
				return scoredAll[i].score > scoredAll[j].score
			}
			return scoredAll[i].score < scoredAll[j].score
		}
		return scoredAll[i].series.ID < scoredAll[j].series.ID
	})

	if count > len(scoredAll) {
		count = len(scoredAll)
	}
	out := make([]RankedSeries, count)
	for i := 0; i < count; i++ {
		out[i] = scoredAll[i].series
	}
	return out
}
