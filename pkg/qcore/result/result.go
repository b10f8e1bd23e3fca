// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package result implements the query result accumulator (spec §4.7/§5):
// a concurrent put-if-absent series map with atomic byte/dp counters,
// monotone-tightening resolution, and first-writer-wins error latching.
// Grounded on the teacher's Level double-checked-locking creation path
// (pkg/metricstore/level.go findLevelOrCreate) — here a flat map keyed by
// tsuid hash rather than a selector tree, since the result's series set is
// not hierarchical.
package result

import (
	"fmt"
	"sync"
	"sync/atomic"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/google/uuid"

	"github.com/clustercockpit-labs/qcore/pkg/qcore/span"
)

// Resolution is the coarseness of a series' underlying rows; lower values
// are finer. Promotion via AddSequence always moves toward the finer
// (lower) value, per spec §4.7 step 4 and the monotone-tightening rule.
type Resolution int32

const (
	ResolutionUnset Resolution = iota
	ResolutionNanosecond
	ResolutionMillisecond
	ResolutionSecond
)

// finer reports whether a is strictly finer-grained than b (or b is
// unset, in which case any concrete resolution wins).
func finer(a, b Resolution) bool {
	if b == ResolutionUnset {
		return a != ResolutionUnset
	}
	return a != ResolutionUnset && a < b
}

// Sequence is one appended row-derived chunk of a series.
type Sequence struct {
	Row       span.Row
	SizeBytes int64
	DPCount   int64
}

// TimeSeries accumulates the sequences for a single series (identified by
// its tsuid hash) in the order they are appended, or prepended when the
// result is reversed. There is no keep-earliest option: every appended
// sequence is kept. Its own mutex guards Sequences, separate
// from the Result-level map lock that only protects series creation.
type TimeSeries struct {
	RowKey    string
	mu        sync.Mutex
	Sequences []Sequence
}

func (ts *TimeSeries) append(seq Sequence, reversed bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if reversed {
		ts.Sequences = append([]Sequence{seq}, ts.Sequences...)
		return
	}
	ts.Sequences = append(ts.Sequences, seq)
}

// Result is the concurrent accumulator for one query's output (spec §4.7).
// byte_count/dp_count are true atomics (the teacher's equivalent counters
// are plain ints guarded informally by caller discipline; here they are
// made genuinely atomic per the concurrency model in spec §5).
type Result struct {
	id        uuid.UUID
	byteLimit int64
	dpLimit   int64
	reversed  bool

	mu     sync.RWMutex
	series map[uint64]*TimeSeries

	byteCount  atomic.Int64
	dpCount    atomic.Int64
	isFull     atomic.Bool
	resolution atomic.Int32

	errOnce sync.Once
	errMu   sync.Mutex
	err     error
	cause   error

	snapshotOnce sync.Once
	snapshot     []*TimeSeries
}

// New builds an empty Result with the given byte/datapoint caps (0
// disables the corresponding cap). reversed controls the order newly
// appended sequences are inserted within each series.
func New(byteLimit, dpLimit int64, reversed bool) *Result {
	return &Result{
		id:        uuid.New(),
		byteLimit: byteLimit,
		dpLimit:   dpLimit,
		reversed:  reversed,
		series:    make(map[uint64]*TimeSeries),
	}
}

// ID returns the result's correlation id, used in logging/tracing fields
// (never in the plan hash — see pkg/qcore/plan/hash.go).
func (r *Result) ID() uuid.UUID { return r.id }

// AddSequence implements spec §4.7's four-step contract: put-if-absent the
// series, append the sequence respecting the reversed flag, atomically add
// counters and trip is_full, and promote resolution to the finer value.
func (r *Result) AddSequence(tsuidHash uint64, rowKey string, seq Sequence, seqResolution Resolution) {
	ts := r.findOrCreate(tsuidHash, rowKey)
	ts.append(seq, r.reversed)

	newBytes := r.byteCount.Add(seq.SizeBytes)
	newDPs := r.dpCount.Add(seq.DPCount)
	metricDatapointsAppended.Add(float64(seq.DPCount))
	metricBytesAppended.Add(float64(seq.SizeBytes))
	if (r.byteLimit > 0 && newBytes > r.byteLimit) || (r.dpLimit > 0 && newDPs > r.dpLimit) {
		if !r.isFull.Swap(true) {
			metricFullTrips.Inc()
		}
	}

	r.promoteResolution(seqResolution)
}

// findOrCreate is the put-if-absent path: RLock fast path, then a
// double-checked Lock/create identical in shape to the teacher's
// findLevelOrCreate (pkg/metricstore/level.go).
func (r *Result) findOrCreate(tsuidHash uint64, rowKey string) *TimeSeries {
	r.mu.RLock()
	ts, ok := r.series[tsuidHash]
	r.mu.RUnlock()
	if ok {
		return ts
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ts, ok = r.series[tsuidHash]; ok {
		return ts
	}
	ts = &TimeSeries{RowKey: rowKey}
	r.series[tsuidHash] = ts
	return ts
}

func (r *Result) promoteResolution(seqResolution Resolution) {
	for {
		cur := Resolution(r.resolution.Load())
		if !finer(seqResolution, cur) {
			return
		}
		if r.resolution.CompareAndSwap(int32(cur), int32(seqResolution)) {
			return
		}
	}
}

// Resolution returns the result's current (finest-seen) resolution.
func (r *Result) Resolution() Resolution { return Resolution(r.resolution.Load()) }

// ByteCount and DPCount return the current atomic totals.
func (r *Result) ByteCount() int64 { return r.byteCount.Load() }
func (r *Result) DPCount() int64   { return r.dpCount.Load() }

// IsFull reports whether either cap has been exceeded.
func (r *Result) IsFull() bool { return r.isFull.Load() }

// SetError latches the first error/cause under first-writer-wins
// semantics (spec §5); subsequent calls are no-ops.
func (r *Result) SetError(err, cause error) {
	r.errOnce.Do(func() {
		r.errMu.Lock()
		r.err, r.cause = err, cause
		r.errMu.Unlock()
		metricErrorsLatched.Inc()
		cclog.Errorf("result %s: latched error: %v (cause: %v)", r.id, err, cause)
	})
}

// Error and Cause return the latched first error, if any.
func (r *Result) Error() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

func (r *Result) Cause() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.cause
}

// LimitError formats the cap-exceeded error in MB when the byte cap
// tripped, per spec §5's backpressure note.
func (r *Result) LimitError() error {
	if !r.IsFull() {
		return nil
	}
	if r.byteLimit > 0 && r.byteCount.Load() > r.byteLimit {
		return fmt.Errorf("result: byte cap exceeded: %.2fMB > %.2fMB",
			float64(r.byteCount.Load())/1e6, float64(r.byteLimit)/1e6)
	}
	return fmt.Errorf("result: datapoint cap exceeded: %d > %d", r.dpCount.Load(), r.dpLimit)
}

// TimeSeries returns a stable snapshot of the accumulated series, frozen
// across calls after the first (spec §4.7 finalization: "memoized after
// first call").
func (r *Result) TimeSeries() []*TimeSeries {
	r.snapshotOnce.Do(func() {
		r.mu.RLock()
		defer r.mu.RUnlock()
		r.snapshot = make([]*TimeSeries, 0, len(r.series))
		for _, ts := range r.series {
			r.snapshot = append(r.snapshot, ts)
		}
	})
	return r.snapshot
}
