// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package span

import (
	"testing"

	"github.com/clustercockpit-labs/qcore/pkg/qcore/codec"
	"github.com/clustercockpit-labs/qcore/pkg/qcore/numeric"
)

// ─── Helpers ───────────────────────────────────────────────────────────────

func encodeOnePointRow(t *testing.T, base int64, offsetSec int64, v numeric.Numeric) Row {
	t.Helper()
	buf, err := codec.EncodePoint(numeric.Unix(base), numeric.Unix(base+offsetSec), v, nil)
	if err != nil {
		t.Fatalf("EncodePoint error = %v", err)
	}
	return Row{BaseTimestamp: base, Data: buf}
}

// ─── Insertion invariants ──────────────────────────────────────────────────

func TestAddSequenceRejectsOutOfOrder(t *testing.T) {
	s := New()
	if err := s.AddSequence(encodeOnePointRow(t, 100, 0, numeric.NewInt(1))); err != nil {
		t.Fatalf("first AddSequence error = %v", err)
	}
	err := s.AddSequence(encodeOnePointRow(t, 50, 0, numeric.NewInt(2)))
	if err == nil {
		t.Fatal("expected InvariantError for out-of-order row")
	}
	var invErr *InvariantError
	if !asInvariantError(err, &invErr) {
		t.Errorf("expected *InvariantError, got %T: %v", err, err)
	}
}

func asInvariantError(err error, target **InvariantError) bool {
	ie, ok := err.(*InvariantError)
	if ok {
		*target = ie
	}
	return ok
}

func TestAddSequenceSkipsEmptyRows(t *testing.T) {
	s := New()
	if err := s.AddSequence(Row{BaseTimestamp: 10, Data: nil}); err != nil {
		t.Fatalf("AddSequence(empty) error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after empty row", s.Len())
	}
}

func TestAddSequenceAfterFreezeFails(t *testing.T) {
	s := New()
	s.Freeze()
	err := s.AddSequence(encodeOnePointRow(t, 100, 0, numeric.NewInt(1)))
	if err == nil {
		t.Fatal("expected error appending to a frozen span")
	}
}

// ─── Span order property (spec §8) ─────────────────────────────────────────
//
// Forward iteration yields non-decreasing timestamps for any accepted row
// sequence. Reverse iteration walks rows in descending order but keeps
// ascending qualifier order within a row (spec §4.2) — the global
// non-increasing property only holds when each row carries a single point,
// which is how this test is constructed.

func TestSpanOrderForward(t *testing.T) {
	s := New()
	bases := []int64{100, 200, 300, 400}
	for _, b := range bases {
		if err := s.AddSequence(encodeOnePointRow(t, b, 0, numeric.NewInt(b))); err != nil {
			t.Fatalf("AddSequence(%d) error = %v", b, err)
		}
	}
	s.Freeze()

	it := s.Iter(true)
	var last int64 = -1
	count := 0
	for it.HasNext() {
		p, err := it.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if p.Timestamp.Seconds < last {
			t.Errorf("forward iteration not non-decreasing: %d after %d", p.Timestamp.Seconds, last)
		}
		last = p.Timestamp.Seconds
		count++
	}
	if count != len(bases) {
		t.Errorf("count = %d, want %d", count, len(bases))
	}
}

func TestSpanOrderReverse(t *testing.T) {
	s := New()
	bases := []int64{100, 200, 300, 400}
	for _, b := range bases {
		if err := s.AddSequence(encodeOnePointRow(t, b, 0, numeric.NewInt(b))); err != nil {
			t.Fatalf("AddSequence(%d) error = %v", b, err)
		}
	}
	s.Freeze()

	it := s.Iter(false)
	var last int64 = 1 << 62
	count := 0
	for it.HasNext() {
		p, err := it.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if p.Timestamp.Seconds > last {
			t.Errorf("reverse iteration not non-increasing: %d after %d", p.Timestamp.Seconds, last)
		}
		last = p.Timestamp.Seconds
		count++
	}
	if count != len(bases) {
		t.Errorf("count = %d, want %d", count, len(bases))
	}
}

func TestIteratorAliasingRecycled(t *testing.T) {
	s := New()
	s.AddSequence(encodeOnePointRow(t, 100, 0, numeric.NewInt(1)))
	s.AddSequence(encodeOnePointRow(t, 200, 0, numeric.NewInt(2)))
	s.Freeze()

	it := s.Iter(true)
	it.HasNext()
	p1, _ := it.Next()
	it.HasNext()
	p2, _ := it.Next()
	// Both calls recycle the same underlying struct; p1 now reflects p2's
	// data unless the caller copied it out first.
	if p1 != p2 {
		t.Error("expected the iterator to recycle the same Point pointer")
	}
	if p2.Value.Int() != 2 {
		t.Errorf("p2.Value = %d, want 2", p2.Value.Int())
	}
}
