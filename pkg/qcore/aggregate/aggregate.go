// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package aggregate implements the reducer library (spec §4.3): slice-based
// primitive reductions with a NaN-handling mode, no per-element boxing.
// Reducers never mutate the caller's input slice — percentile reducers sort
// a scratch copy, matching how the teacher treats buffer.data as read-only
// in buffer.read().
package aggregate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/clustercockpit-labs/qcore/pkg/qcore/numeric"
)

// ErrEmptyInput is raised when end <= start.
var ErrEmptyInput = errors.New("aggregate: empty input range")

// NaNMode controls how NaN values in the input are treated.
type NaNMode int

const (
	// NaNSkip ignores NaNs in the input.
	NaNSkip NaNMode = iota
	// NaNInfectious propagates — if any input is NaN, the result is NaN.
	NaNInfectious
)

// Reducer is the name of a supported reduction.
type Reducer string

const (
	Sum   Reducer = "sum"
	Count Reducer = "count"
	Avg   Reducer = "avg"
	Min   Reducer = "min"
	Max   Reducer = "max"
	First Reducer = "first"
	Last  Reducer = "last"
	P50   Reducer = "p50"
	P75   Reducer = "p75"
	P90   Reducer = "p90"
	P95   Reducer = "p95"
	P99   Reducer = "p99"
	P999  Reducer = "p999"
)

// RunFloat64 reduces values[start:end] per reducer and nanMode, returning
// the result as a Numeric: Count is integer-encoded, every other reducer
// is float-encoded (aggregates widen to double, matching the teacher's
// buffer.data ([]schema.Float) pipeline).
func RunFloat64(reducer Reducer, values []float64, start, end int, nanMode NaNMode) (numeric.Numeric, error) {
	if end <= start {
		return numeric.Numeric{}, ErrEmptyInput
	}
	return runFloat64(reducer, values[start:end], nanMode)
}

// RunInt64 reduces values[start:end], widening integers to float64 before
// reduction (the aggregator library is float-based; integer inputs are a
// convenience entry point for codec-decoded integer points).
func RunInt64(reducer Reducer, values []int64, start, end int, nanMode NaNMode) (numeric.Numeric, error) {
	if end <= start {
		return numeric.Numeric{}, ErrEmptyInput
	}
	widened := make([]float64, end-start)
	for i, v := range values[start:end] {
		widened[i] = float64(v)
	}
	return runFloat64(reducer, widened, nanMode)
}

func runFloat64(reducer Reducer, values []float64, nanMode NaNMode) (numeric.Numeric, error) {
	switch reducer {
	case Sum:
		return numeric.NewFloat(reduceSum(values, nanMode)), nil
	case Count:
		return numeric.NewInt(int64(reduceCount(values, nanMode))), nil
	case Avg:
		return numeric.NewFloat(reduceAvg(values, nanMode)), nil
	case Min:
		return numeric.NewFloat(reduceMinMax(values, nanMode, false)), nil
	case Max:
		return numeric.NewFloat(reduceMinMax(values, nanMode, true)), nil
	case First:
		return numeric.NewFloat(values[0]), nil
	case Last:
		return numeric.NewFloat(values[len(values)-1]), nil
	case P50, P75, P90, P95, P99, P999:
		return numeric.NewFloat(reducePercentile(values, nanMode, percentileOf(reducer))), nil
	default:
		return numeric.Numeric{}, fmt.Errorf("aggregate: unknown reducer %q", reducer)
	}
}

func percentileOf(r Reducer) float64 {
	switch r {
	case P50:
		return 0.50
	case P75:
		return 0.75
	case P90:
		return 0.90
	case P95:
		return 0.95
	case P99:
		return 0.99
	case P999:
		return 0.999
	default:
		return 0.5
	}
}

func reduceSum(values []float64, mode NaNMode) float64 {
	sum := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			if mode == NaNInfectious {
				return math.NaN()
			}
			continue
		}
		sum += v
	}
	return sum
}

func reduceCount(values []float64, mode NaNMode) int {
	if mode == NaNInfectious {
		for _, v := range values {
			if math.IsNaN(v) {
				return 0
			}
		}
		return len(values)
	}
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

func reduceAvg(values []float64, mode NaNMode) float64 {
	if mode == NaNInfectious {
		for _, v := range values {
			if math.IsNaN(v) {
				return math.NaN()
			}
		}
	}
	sum := 0.0
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func reduceMinMax(values []float64, mode NaNMode, wantMax bool) float64 {
	if mode == NaNInfectious {
		for _, v := range values {
			if math.IsNaN(v) {
				return math.NaN()
			}
		}
	}
	result := math.NaN()
	found := false
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !found {
			result = v
			found = true
			continue
		}
		if wantMax && v > result {
			result = v
		} else if !wantMax && v < result {
			result = v
		}
	}
	return result
}

// reducePercentile sorts a scratch copy of values (never the caller's
// slice) and picks the nearest-rank element at quantile q.
func reducePercentile(values []float64, mode NaNMode, q float64) float64 {
	scratch := make([]float64, 0, len(values))
	sawNaN := false
	for _, v := range values {
		if math.IsNaN(v) {
			sawNaN = true
			continue
		}
		scratch = append(scratch, v)
	}
	if mode == NaNInfectious && sawNaN {
		return math.NaN()
	}
	if len(scratch) == 0 {
		return math.NaN()
	}
	sort.Float64s(scratch)
	idx := int(math.Ceil(q*float64(len(scratch)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scratch) {
		idx = len(scratch) - 1
	}
	return scratch[idx]
}
