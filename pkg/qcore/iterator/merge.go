// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import (
	"context"
	"sort"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"golang.org/x/time/rate"
)

// MergeMode selects the merge processor's topology (spec §6).
type MergeMode int

const (
	ModeSplit MergeMode = iota
	ModeHA
)

// Point is a single timestamp/value pair on a merge source.
type Point struct {
	Timestamp int64
	Value     float64
}

// Reducer combines two values observed for the same timestamp across
// overlapping merge sources.
type Reducer func(a, b float64) float64

// ReducerLast keeps the later-listed source's value, the default reducer
// when a query names none.
func ReducerLast(a, b float64) float64 { return b }

// ReducerSum adds overlapping values.
func ReducerSum(a, b float64) float64 { return a + b }

// DataSource is one HA/SPLIT merge input: a name for deterministic
// ordering (spec's `sortedDataSources`) plus its points and a per-source
// timeout budget for HA mode.
type DataSource struct {
	Name    string
	Points  []Point
	Timeout time.Duration
}

// sortedDataSources returns srcs ordered deterministically by Name, the
// tie-break the spec requires for HA source promotion (spec §4.6).
func sortedDataSources(srcs []DataSource) []DataSource {
	out := make([]DataSource, len(srcs))
	copy(out, srcs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// fetchFn supplies a DataSource's points; in production this performs the
// underlying storage read, gated by ctx's deadline. Tests substitute a
// stub that blocks past its source's timeout to exercise the HA failover
// path deterministically.
type fetchFn func(ctx context.Context, src DataSource) ([]Point, error)

// fetchWithBackoff retries a single source fetch once, pacing the retry
// through a rate.Limiter so a source that errs transiently doesn't
// immediately consume its whole timeout budget on a tight retry loop.
// Both the initial attempt and the backoff wait are bound by ctx, so a
// source that is simply slow (rather than erroring) still gets closed at
// its configured Timeout.
func fetchWithBackoff(ctx context.Context, src DataSource, fetch fetchFn) ([]Point, error) {
	limiter := rate.NewLimiter(rate.Every(src.Timeout/4), 1)
	if err := limiter.Wait(ctx); err != nil {
		return nil, err // timeout budget exhausted before the first attempt
	}

	pts, err := fetch(ctx, src)
	if err == nil {
		return pts, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, err // timeout budget exhausted during backoff
	}
	return fetch(ctx, src)
}

// MergeHA implements the HA merge mode (spec §4.6, scenario 6): sources
// are tried in sortedDataSources order; the first source to produce
// within its own Timeout wins. Timed-out sources are treated as closed
// and excluded. Overlapping timestamps across an already-won source and
// any source that nonetheless completes are combined via reduce.
func MergeHA(ctx context.Context, srcs []DataSource, reduce Reducer, fetch fetchFn) ([]Point, error) {
	if reduce == nil {
		reduce = ReducerLast
	}
	ordered := sortedDataSources(srcs)

	byTS := make(map[int64]float64)
	var order []int64

	for _, src := range ordered {
		cctx, cancel := context.WithTimeout(ctx, src.Timeout)
		pts, err := fetchWithBackoff(cctx, src, fetch)
		cancel()
		if err != nil {
			cclog.Warnf("merge: source %q closed after %s without producing: %v", src.Name, src.Timeout, err)
			continue // source closed on timeout, or exhausted its retry budget
		}
		for _, p := range pts {
			if _, ok := byTS[p.Timestamp]; ok {
				byTS[p.Timestamp] = reduce(byTS[p.Timestamp], p.Value)
			} else {
				byTS[p.Timestamp] = p.Value
				order = append(order, p.Timestamp)
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]Point, len(order))
	for i, ts := range order {
		out[i] = Point{Timestamp: ts, Value: byTS[ts]}
	}
	return out, nil
}

// MergeSplit implements the SPLIT merge mode (spec §4.6): sources carry
// disjoint time slices and are concatenated in time order, with any
// timestamp collision reduced via reduce.
func MergeSplit(srcs []DataSource, reduce Reducer) []Point {
	if reduce == nil {
		reduce = ReducerLast
	}
	byTS := make(map[int64]float64)
	var order []int64
	for _, src := range sortedDataSources(srcs) {
		for _, p := range src.Points {
			if _, ok := byTS[p.Timestamp]; ok {
				byTS[p.Timestamp] = reduce(byTS[p.Timestamp], p.Value)
			} else {
				byTS[p.Timestamp] = p.Value
				order = append(order, p.Timestamp)
			}
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]Point, len(order))
	for i, ts := range order {
		out[i] = Point{Timestamp: ts, Value: byTS[ts]}
	}
	return out
}
