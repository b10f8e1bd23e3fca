// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import (
	"testing"
	"time"
)

func TestShiftSecondsPrevious(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano()
	got := Shift(base, ShiftConfig{Unit: ShiftSeconds, Amount: 60, Previous: true})
	want := base - 60*int64(time.Second)
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestShiftMonthsCalendarSemantics(t *testing.T) {
	jan31 := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC).UnixNano()
	got := Shift(jan31, ShiftConfig{Unit: ShiftMonths, Amount: 1, Previous: true})
	gotTime := time.Unix(0, got).UTC()
	want := time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC)
	if !gotTime.Equal(want) {
		t.Errorf("got %v, want %v", gotTime, want)
	}
}

func TestShiftYearsForward(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixNano()
	got := Shift(start, ShiftConfig{Unit: ShiftYears, Amount: 2, Previous: false})
	gotTime := time.Unix(0, got).UTC()
	want := time.Date(2028, 3, 1, 0, 0, 0, 0, time.UTC)
	if !gotTime.Equal(want) {
		t.Errorf("got %v, want %v", gotTime, want)
	}
}

func TestShiftAllPreservesOrder(t *testing.T) {
	tss := []int64{1, 2, 3}
	got := ShiftAll(tss, ShiftConfig{Unit: ShiftSeconds, Amount: 10})
	for i, v := range tss {
		want := v + 10*int64(time.Second)
		if got[i] != want {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want)
		}
	}
}
