// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package numeric

import "time"

// TimeStamp orders on (seconds, nanos). The MS flag distinguishes
// second- from millisecond-resolution raw inputs, carried through so
// downstream re-encoding (e.g. a merge or shift node) can preserve the
// original row's qualifier width.
type TimeStamp struct {
	Seconds int64
	Nanos   int32
	Zone    *time.Location
	MS      bool
}

// Unix builds a second-resolution TimeStamp in UTC.
func Unix(sec int64) TimeStamp {
	return TimeStamp{Seconds: sec, Zone: time.UTC}
}

// UnixMilli builds a millisecond-resolution TimeStamp in UTC.
func UnixMilli(ms int64) TimeStamp {
	return TimeStamp{
		Seconds: ms / 1000,
		Nanos:   int32(ms%1000) * 1e6,
		Zone:    time.UTC,
		MS:      true,
	}
}

// Before reports whether ts is strictly earlier than other.
func (ts TimeStamp) Before(other TimeStamp) bool {
	if ts.Seconds != other.Seconds {
		return ts.Seconds < other.Seconds
	}
	return ts.Nanos < other.Nanos
}

// After reports whether ts is strictly later than other.
func (ts TimeStamp) After(other TimeStamp) bool {
	return other.Before(ts)
}

// Equal reports whether ts and other denote the same instant.
func (ts TimeStamp) Equal(other TimeStamp) bool {
	return ts.Seconds == other.Seconds && ts.Nanos == other.Nanos
}

// Compare returns -1, 0 or 1 per the usual ordering convention.
func (ts TimeStamp) Compare(other TimeStamp) int {
	switch {
	case ts.Before(other):
		return -1
	case ts.After(other):
		return 1
	default:
		return 0
	}
}

// UnixNanos widens the timestamp to a single nanosecond count, the unit
// qualifier offsets are computed in.
func (ts TimeStamp) UnixNanos() int64 {
	return ts.Seconds*1e9 + int64(ts.Nanos)
}

// Clone returns a value-copy, safe to retain past the next iterator pull
// (see the aliasing contract in spec §5/§9 — cursors recycle a single
// TimeStamp object and callers needing to keep one must copy it out).
func (ts TimeStamp) Clone() TimeStamp { return ts }
