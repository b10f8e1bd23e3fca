// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import (
	"context"
	"errors"
	"testing"
	"time"
)

// ─── HA merge timeout scenario (spec §8 scenario 6) ─────────────────────────

func TestScenarioHAMergeTimeout(t *testing.T) {
	srcs := []DataSource{
		{Name: "A", Timeout: 50 * time.Millisecond},
		{Name: "B", Timeout: 200 * time.Millisecond, Points: []Point{{Timestamp: 10, Value: 1}, {Timestamp: 20, Value: 2}}},
	}

	fetch := func(ctx context.Context, src DataSource) ([]Point, error) {
		if src.Name == "A" {
			<-ctx.Done() // A never produces within its budget
			return nil, ctx.Err()
		}
		return src.Points, nil
	}

	got, err := MergeHA(context.Background(), srcs, nil, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2 (solely from B): %v", len(got), got)
	}
	if got[0].Value != 1 || got[1].Value != 2 {
		t.Errorf("got %v, want B's points", got)
	}
}

func TestMergeHAOverlapReduced(t *testing.T) {
	srcs := []DataSource{
		{Name: "A", Timeout: 50 * time.Millisecond, Points: []Point{{Timestamp: 10, Value: 1}}},
		{Name: "B", Timeout: 50 * time.Millisecond, Points: []Point{{Timestamp: 10, Value: 9}}},
	}
	fetch := func(ctx context.Context, src DataSource) ([]Point, error) { return src.Points, nil }

	got, err := MergeHA(context.Background(), srcs, ReducerSum, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Value != 10 {
		t.Errorf("got %v, want a single point summed to 10", got)
	}
}

func TestMergeHARetriesThenDropsFailingSource(t *testing.T) {
	srcs := []DataSource{
		{Name: "A", Timeout: 50 * time.Millisecond},
	}
	wantErr := errors.New("boom")
	calls := 0
	fetch := func(ctx context.Context, src DataSource) ([]Point, error) {
		calls++
		return nil, wantErr
	}

	got, err := MergeHA(context.Background(), srcs, nil, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no points (source retried and still failed)", got)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (initial attempt + one backoff retry)", calls)
	}
}

// ─── SPLIT merge mode ────────────────────────────────────────────────────────

func TestMergeSplitConcatenatesDisjointSlices(t *testing.T) {
	srcs := []DataSource{
		{Name: "older", Points: []Point{{Timestamp: 1, Value: 1}, {Timestamp: 2, Value: 2}}},
		{Name: "newer", Points: []Point{{Timestamp: 3, Value: 3}}},
	}
	got := MergeSplit(srcs, nil)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	for i, want := range []int64{1, 2, 3} {
		if got[i].Timestamp != want {
			t.Errorf("got[%d].Timestamp = %d, want %d", i, got[i].Timestamp, want)
		}
	}
}

func TestMergeSplitReducesOverlap(t *testing.T) {
	srcs := []DataSource{
		{Name: "a", Points: []Point{{Timestamp: 5, Value: 1}}},
		{Name: "b", Points: []Point{{Timestamp: 5, Value: 2}}},
	}
	got := MergeSplit(srcs, ReducerSum)
	if len(got) != 1 || got[0].Value != 3 {
		t.Errorf("got %v, want a single point summed to 3", got)
	}
}

func TestSortedDataSourcesDeterministicByName(t *testing.T) {
	srcs := []DataSource{{Name: "z"}, {Name: "a"}, {Name: "m"}}
	got := sortedDataSources(srcs)
	if got[0].Name != "a" || got[1].Name != "m" || got[2].Name != "z" {
		t.Errorf("got order %v, want a,m,z", got)
	}
}
