// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package interpolate

import "github.com/clustercockpit-labs/qcore/pkg/qcore/numeric"

// RealPoint is a single upstream (timestamp, value) pair. Sources recycle
// their yielded pointer the same way span.Iterator does; callers that need
// to retain a RealPoint past the next Next() call must copy it out — this
// package always copies on receipt.
type RealPoint struct {
	Timestamp numeric.TimeStamp
	Value     numeric.Numeric
}

// Source is anything a ReadAheadNumericInterpolator can pull real points
// from. span.Iterator satisfies this shape; see SpanSource in adapter.go.
type Source interface {
	HasNext() bool
	Next() (*RealPoint, error)
}

// ReadAheadNumericInterpolator keeps at most two real points (prev, next)
// surrounding the most recently requested timestamp, filling the gap per
// a FillWithRealPolicy / ScalarFill pair (spec §4.5 table).
type ReadAheadNumericInterpolator struct {
	src            Source
	realFillPolicy FillWithRealPolicy
	scalarFill     ScalarFill

	havePrev, haveNext bool
	prev, next         RealPoint
	exhausted          bool

	hasLast bool
	lastTs  numeric.TimeStamp
	lastVal numeric.Numeric
	lastOk  bool
}

// NewReadAheadNumericInterpolator builds an interpolator over src.
func NewReadAheadNumericInterpolator(src Source, policy FillWithRealPolicy, fill ScalarFill) *ReadAheadNumericInterpolator {
	return &ReadAheadNumericInterpolator{src: src, realFillPolicy: policy, scalarFill: fill}
}

// Next returns the value at ts: an exact real point, a neighbor-derived
// fill, or a scalar fill — and ok=false when the resolved policy is one of
// the null-producing scalar fills. Calling Next twice with the same ts is
// idempotent: the second call returns the cached result without touching
// the source (spec §8 interpolator idempotence property).
func (it *ReadAheadNumericInterpolator) Next(ts numeric.TimeStamp) (numeric.Numeric, bool, error) {
	if it.hasLast && it.lastTs.Equal(ts) {
		return it.lastVal, it.lastOk, nil
	}

	if err := it.advanceTo(ts); err != nil {
		return numeric.Numeric{}, false, err
	}

	var val numeric.Numeric
	var ok bool
	if it.havePrev && it.prev.Timestamp.Equal(ts) {
		val, ok = it.prev.Value, true
	} else {
		val, ok = it.resolveFill()
	}

	it.hasLast, it.lastTs, it.lastVal, it.lastOk = true, ts, val, ok
	return val, ok, nil
}

// advanceTo pulls from src until the buffered "next" point is strictly
// after ts (or the source is exhausted), shifting consumed points down
// into "prev" — including an exact match at ts, which becomes prev and is
// detected by the caller.
func (it *ReadAheadNumericInterpolator) advanceTo(ts numeric.TimeStamp) error {
	for {
		if !it.haveNext {
			if it.exhausted || !it.src.HasNext() {
				it.exhausted = true
				return nil
			}
			p, err := it.src.Next()
			if err != nil {
				return err
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

func (it *ReadAheadNumericInterpolator) resolveFill() (numeric.Numeric, bool) {
	switch it.realFillPolicy {
	case RealFillPreviousOnly:
		if it.havePrev {
			return it.prev.Value, true
		}
	case RealFillNextOnly:
		if it.haveNext {
			return it.next.Value, true
		}
	case RealFillPreferPrevious:
		if it.havePrev {
			return it.prev.Value, true
		}
		if it.haveNext {
			return it.next.Value, true
		}
	case RealFillPreferNext:
		if it.haveNext {
			return it.next.Value, true
		}
		if it.havePrev {
			return it.prev.Value, true
		}
	}
	v, ok := it.scalarFill.Resolve()
	if !ok {
		return numeric.Numeric{}, false
	}
	return numeric.NewFloat(v), true
}

// NextReal returns the timestamp of the next real (non-fill) upstream
// point not yet passed, pulling one point ahead if necessary. Pipelines
// use this to compute the minimum "next real" timestamp across sources
// (spec §4.6 expression fan-in).
func (it *ReadAheadNumericInterpolator) NextReal() (numeric.TimeStamp, bool, error) {
	if !it.haveNext && !it.exhausted {
		if !it.src.HasNext() {
			it.exhausted = true
		} else {
			p, err := it.src.Next()
			if err != nil {
				return numeric.TimeStamp{}, false, err
			}
			it.next = *p
			it.haveNext = true
		}
	}
	if it.haveNext {
		return it.next.Timestamp, true, nil
	}
	return numeric.TimeStamp{}, false, nil
}
