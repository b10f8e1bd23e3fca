// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package result

import (
	"errors"
	"sync"
	"testing"

	"github.com/clustercockpit-labs/qcore/pkg/qcore/span"
)

func TestAddSequencePutIfAbsent(t *testing.T) {
	r := New(0, 0, false)
	seq := Sequence{Row: span.Row{BaseTimestamp: 1}, SizeBytes: 10, DPCount: 1}
	r.AddSequence(42, "host=a", seq, ResolutionSecond)
	r.AddSequence(42, "host=a", seq, ResolutionSecond)

	series := r.TimeSeries()
	if len(series) != 1 {
		t.Fatalf("len(TimeSeries()) = %d, want 1 (put-if-absent should reuse the series)", len(series))
	}
	if len(series[0].Sequences) != 2 {
		t.Errorf("len(Sequences) = %d, want 2", len(series[0].Sequences))
	}
}

func TestAddSequenceConcurrent(t *testing.T) {
	r := New(0, 0, false)
	seq := Sequence{SizeBytes: 1, DPCount: 1}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.AddSequence(7, "same-series", seq, ResolutionSecond)
		}()
	}
	wg.Wait()

	if r.DPCount() != 100 {
		t.Errorf("DPCount() = %d, want 100", r.DPCount())
	}
	series := r.TimeSeries()
	if len(series) != 1 {
		t.Fatalf("len(TimeSeries()) = %d, want 1", len(series))
	}
	if len(series[0].Sequences) != 100 {
		t.Errorf("len(Sequences) = %d, want 100", len(series[0].Sequences))
	}
}

func TestIsFullTripsOnByteLimit(t *testing.T) {
	r := New(100, 0, false)
	r.AddSequence(1, "x", Sequence{SizeBytes: 50}, ResolutionSecond)
	if r.IsFull() {
		t.Fatal("expected not full yet")
	}
	r.AddSequence(1, "x", Sequence{SizeBytes: 60}, ResolutionSecond)
	if !r.IsFull() {
		t.Error("expected is_full after exceeding byte cap")
	}
	if r.LimitError() == nil {
		t.Error("expected a non-nil LimitError once full")
	}
}

func TestResolutionPromotesToFiner(t *testing.T) {
	r := New(0, 0, false)
	r.AddSequence(1, "x", Sequence{}, ResolutionSecond)
	if r.Resolution() != ResolutionSecond {
		t.Fatalf("Resolution() = %v, want ResolutionSecond", r.Resolution())
	}
	r.AddSequence(1, "x", Sequence{}, ResolutionMillisecond)
	if r.Resolution() != ResolutionMillisecond {
		t.Errorf("Resolution() = %v, want ResolutionMillisecond after a finer sequence", r.Resolution())
	}
	// A coarser sequence must not demote the resolution back.
	r.AddSequence(1, "x", Sequence{}, ResolutionSecond)
	if r.Resolution() != ResolutionMillisecond {
		t.Errorf("Resolution() = %v, want it to stay ResolutionMillisecond", r.Resolution())
	}
}

func TestSetErrorFirstWriterWins(t *testing.T) {
	r := New(0, 0, false)
	first := errors.New("first")
	second := errors.New("second")
	r.SetError(first, nil)
	r.SetError(second, nil)
	if r.Error() != first {
		t.Errorf("Error() = %v, want the first-latched error", r.Error())
	}
}

func TestTimeSeriesSnapshotIsMemoized(t *testing.T) {
	r := New(0, 0, false)
	r.AddSequence(1, "x", Sequence{}, ResolutionSecond)
	first := r.TimeSeries()
	r.AddSequence(2, "y", Sequence{}, ResolutionSecond)
	second := r.TimeSeries()
	if len(second) != len(first) {
		t.Errorf("snapshot changed after first call: len=%d, want %d (memoized)", len(second), len(first))
	}
}
