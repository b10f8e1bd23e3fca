// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package interpolate

import "github.com/clustercockpit-labs/qcore/pkg/qcore/numeric"

// SummaryPoint is a single upstream (timestamp, summary) pair.
type SummaryPoint struct {
	Timestamp numeric.TimeStamp
	Value     numeric.NumericSummary
}

// SummarySource is anything a NumericSummaryInterpolator can pull from.
type SummarySource interface {
	HasNext() bool
	Next() (*SummaryPoint, error)
}

// NumericSummaryInterpolator aligns a NumericSummary-valued source to a
// requested timestamp in one of two modes (spec §4.5):
//
//   - unsynced: each summary id is resolved independently — a point missing
//     an id simply falls back to that id's own fill, without holding back
//     ids the point does provide.
//   - synced: only points that carry every id in Expected, with non-NaN
//     values, are considered real; all others are skipped entirely before
//     they ever enter the read-ahead buffer.
type NumericSummaryInterpolator struct {
	src      SummarySource
	sync     bool
	expected []uint8

	realFillPolicy FillWithRealPolicy
	scalarFill     ScalarFill

	havePrev, haveNext bool
	prev, next         SummaryPoint
	exhausted          bool

	hasLast bool
	lastTs  numeric.TimeStamp
	lastVal numeric.NumericSummary
}

// NewNumericSummaryInterpolator builds an interpolator over src. expected
// is the set of summary ids downstream consumers require.
func NewNumericSummaryInterpolator(src SummarySource, sync bool, expected []uint8, policy FillWithRealPolicy, fill ScalarFill) *NumericSummaryInterpolator {
	return &NumericSummaryInterpolator{src: src, sync: sync, expected: expected, realFillPolicy: policy, scalarFill: fill}
}

// isComplete reports whether p carries a non-NaN value for every expected
// summary id.
func (it *NumericSummaryInterpolator) isComplete(p SummaryPoint) bool {
	for _, id := range it.expected {
		v, ok := p.Value[id]
		if !ok || v.IsNaN() {
			return false
		}
	}
	return true
}

func (it *NumericSummaryInterpolator) pull() (*SummaryPoint, error) {
	for {
		if !it.src.HasNext() {
			return nil, nil
		}
		p, err := it.src.Next()
		if err != nil {
			return nil, err
		}
		if it.sync && !it.isComplete(*p) {
			continue
		}
		return p, nil
	}
}

// advanceTo pulls (skipping incomplete points under sync mode) until the
// buffered "next" point is strictly after ts.
func (it *NumericSummaryInterpolator) advanceTo(ts numeric.TimeStamp) error {
	for {
		if !it.haveNext {
			if it.exhausted {
				return nil
			}
			p, err := it.pull()
			if err != nil {
				return err
			}
			if p == nil {
				it.exhausted = true
				return nil
			}
			it.next = *p
			it.haveNext = true
		}
		if it.next.Timestamp.After(ts) {
			return nil
		}
		it.prev, it.havePrev = it.next, true
		it.haveNext = false
	}
}

// Next returns the summary at ts, resolving each expected id
// independently in unsynced mode (the per-id fill may come from a
// neighboring point that lacks other expected ids). In synced mode every
// buffered point is complete, so each expected id resolves from the same
// exact or neighboring point. The result holds only the expected ids.
func (it *NumericSummaryInterpolator) Next(ts numeric.TimeStamp) (numeric.NumericSummary, error) {
	if it.hasLast && it.lastTs.Equal(ts) {
		return it.lastVal, nil
	}
	if err := it.advanceTo(ts); err != nil {
		return nil, err
	}

	out := make(numeric.NumericSummary, len(it.expected))
	if it.havePrev && it.prev.Timestamp.Equal(ts) {
		for _, id := range it.expected {
			if v, ok := it.prev.Value[id]; ok {
				out[id] = v
				continue
			}
			if v, ok := it.resolveID(id); ok {
				out[id] = v
			}
		}
	} else {
		for _, id := range it.expected {
			if v, ok := it.resolveID(id); ok {
				out[id] = v
			}
		}
	}

	it.hasLast, it.lastTs, it.lastVal = true, ts, out
	return out, nil
}

// resolveID resolves a single expected summary id's fill using whichever
// of prev/next carries that id, per the real-fill policy, falling back to
// the scalar fill.
func (it *NumericSummaryInterpolator) resolveID(id uint8) (numeric.Numeric, bool) {
	prevVal, havePrev := numeric.Numeric{}, false
	if it.havePrev {
		prevVal, havePrev = it.prev.Value[id]
	}
	nextVal, haveNext := numeric.Numeric{}, false
	if it.haveNext {
		nextVal, haveNext = it.next.Value[id]
	}

	switch it.realFillPolicy {
	case RealFillPreviousOnly:
		if havePrev {
			return prevVal, true
		}
	case RealFillNextOnly:
		if haveNext {
			return nextVal, true
		}
	case RealFillPreferPrevious:
		if havePrev {
			return prevVal, true
		}
		if haveNext {
			return nextVal, true
		}
	case RealFillPreferNext:
		if haveNext {
			return nextVal, true
		}
		if havePrev {
			return prevVal, true
		}
	}
	v, ok := it.scalarFill.Resolve()
	if !ok {
		return numeric.Numeric{}, false
	}
	return numeric.NewFloat(v), true
}
