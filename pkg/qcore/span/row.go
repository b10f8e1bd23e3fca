// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package span implements the row sequence and span types (spec §3/§4.2):
// an ordered, read-only collection of decoded rows with forward and
// reverse iteration, grounded on the teacher's buffer chain
// (pkg/metricstore/buffer.go) — a singly-linked list of fixed time-ordered
// chunks traversed by a recycled cursor, here decoding bit-packed rows
// instead of a flat float ring.
package span

import (
	"errors"
	"fmt"

	"github.com/clustercockpit-labs/qcore/pkg/qcore/codec"
	"github.com/clustercockpit-labs/qcore/pkg/qcore/numeric"
)

// ErrOutOfOrder is raised when a row is appended whose base timestamp
// precedes the span's last accepted row.
var ErrOutOfOrder = errors.New("span: out-of-order row insertion")

// Row is a single wide-column cell: a base timestamp plus the
// concatenated qualifier/value byte stream described in spec §3.
type Row struct {
	BaseTimestamp int64
	Data          []byte
}

// InvariantError wraps the §3/§4.2 insertion-order invariant violation
// with the offending row for diagnostics.
type InvariantError struct {
	Row    Row
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("span: invariant violated for row base=%d: %s", e.Row.BaseTimestamp, e.Reason)
}

func (e *InvariantError) Unwrap() error { return ErrOutOfOrder }

// Span is an ordered, read-only (once frozen) collection of rows for one
// time series. Rows are appended in non-decreasing base_timestamp order
// (a row with the same base as the last accepted one is accepted);
// empty-data rows are skipped per spec §3.
type Span struct {
	rows   []Row
	frozen bool
}

// New returns an empty Span.
func New() *Span { return &Span{} }

// AddSequence appends row to the span. Rows with empty Data are skipped.
// Returns InvariantError if row.BaseTimestamp is strictly less than the
// last accepted row's, or if the span has already been frozen.
func (s *Span) AddSequence(row Row) error {
	if s.frozen {
		return &InvariantError{Row: row, Reason: "span is frozen"}
	}
	if len(row.Data) == 0 {
		return nil
	}
	if n := len(s.rows); n > 0 && row.BaseTimestamp < s.rows[n-1].BaseTimestamp {
		return &InvariantError{Row: row, Reason: "base_timestamp precedes last accepted row"}
	}
	s.rows = append(s.rows, row)
	return nil
}

// Freeze finalizes the span: no further AddSequence calls are accepted.
// Mirrors the teacher's checkpoint "snapshot" pattern — a span is built
// up as rows arrive from storage, then frozen when the result surfaces.
func (s *Span) Freeze() { s.frozen = true }

// Len returns the number of rows in the span.
func (s *Span) Len() int { return len(s.rows) }

// Point pairs a decoded point with its absolute timestamp.
type Point struct {
	Timestamp numeric.TimeStamp
	Value     numeric.Numeric
}

// cursorState is the explicit state machine from spec §4.2:
// Start -> InRow(r,b) -> Advance -> EndOfRow -> InRow(r+1,0) | End.
type cursorState int

const (
	cursorStart cursorState = iota
	cursorInRow
	cursorEnd
)

// Iterator walks a Span's decoded points in one direction. It recycles a
// single Point value across calls (the aliasing contract, spec §5/§9):
// callers must read fields before the next Next() call, or Clone() the
// payload if they need to retain it.
type Iterator struct {
	span     *Span
	forward  bool
	rowIdx   int
	byteIdx  int
	state    cursorState
	current  Point
	rowPoint *codec.Point
	rowBase  int64
	err      error
}

// Iter returns a forward (true) or reverse (false) iterator over s.
// Per-row qualifier order is always ascending within the row — reverse
// iteration walks rows in descending order but does not reorder a row's
// own qualifiers (dedup/reverse-row logic is a downstream pass, spec §4.2).
func (s *Span) Iter(forward bool) *Iterator {
	it := &Iterator{span: s, forward: forward, state: cursorStart}
	if forward {
		it.rowIdx = 0
	} else {
		it.rowIdx = len(s.rows) - 1
	}
	return it
}

// HasNext reports whether another point is available without consuming it.
func (it *Iterator) HasNext() bool {
	return it.peekOrAdvance()
}

// peekOrAdvance decodes the next point (if not already buffered) and
// reports whether one is available, advancing rowIdx/byteIdx as rows are
// exhausted.
func (it *Iterator) peekOrAdvance() bool {
	if it.state == cursorEnd {
		return false
	}
	if it.rowPoint != nil {
		return true
	}

	for {
		if it.rowIdx < 0 || it.rowIdx >= len(it.span.rows) {
			it.state = cursorEnd
			return false
		}
		row := it.span.rows[it.rowIdx]
		if it.state == cursorStart {
			// Reverse iteration only reverses row order; within a row,
			// qualifiers still decode in ascending offset order (spec §4.2).
			it.byteIdx = 0
			it.state = cursorInRow
		}
		if it.byteIdx >= len(row.Data) {
			// EndOfRow -> InRow(r+1,0) | End
			if it.forward {
				it.rowIdx++
			} else {
				it.rowIdx--
			}
			it.state = cursorStart
			continue
		}

		p, next, err := codec.DecodeAt(row.Data, it.byteIdx)
		if err != nil {
			it.state = cursorEnd
			it.err = err
			return false
		}
		it.byteIdx = next
		it.rowPoint = &p
		it.rowBase = row.BaseTimestamp
		return true
	}
}

// Next advances and returns the recycled current Point. Callers must not
// retain the returned pointer's payload across the following Next() call.
func (it *Iterator) Next() (*Point, error) {
	if !it.peekOrAdvance() {
		if it.err != nil {
			return nil, it.err
		}
		return nil, nil
	}

	base := numeric.Unix(it.rowBase)
	ts := numeric.TimeStamp{
		Seconds: base.Seconds + it.rowPoint.OffsetNanos/1e9,
		Nanos:   int32(it.rowPoint.OffsetNanos % 1e9),
		Zone:    base.Zone,
		MS:      it.rowPoint.Resolution == codec.ResolutionMillisecond,
	}
	it.current = Point{Timestamp: ts, Value: it.rowPoint.Value}
	it.rowPoint = nil
	return &it.current, nil
}

// Err returns the first decode error encountered, if any.
func (it *Iterator) Err() error { return it.err }
