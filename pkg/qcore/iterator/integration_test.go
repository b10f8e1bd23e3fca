// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestPipelineRateThenTopN exercises a small multi-stage pipeline: two
// counter sources are rated, then ranked by Top-N.
func TestPipelineRateThenTopN(t *testing.T) {
	a := Rate([]float64{0, 10, 20}, RateConfig{IntervalNs: 1e9}, 1)
	b := Rate([]float64{0, 5, 5}, RateConfig{IntervalNs: 1e9}, 1)
	require.Len(t, a, 3)
	require.Len(t, b, 3)

	series := []RankedSeries{
		{ID: "a", Values: a[1:]},
		{ID: "b", Values: b[1:]},
	}
	top := TopN(series, AggregatorSum, 1, true)
	require.Len(t, top, 1)
	require.Equal(t, "a", top[0].ID, "a's rate sums higher and should rank first")
}

func TestPipelineMergeHAIntegration(t *testing.T) {
	srcs := []DataSource{
		{Name: "primary", Timeout: 20 * time.Millisecond},
		{Name: "secondary", Timeout: 100 * time.Millisecond, Points: []Point{{Timestamp: 1, Value: 42}}},
	}
	fetch := func(ctx context.Context, src DataSource) ([]Point, error) {
		if src.Name == "primary" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return src.Points, nil
	}

	got, err := MergeHA(context.Background(), srcs, nil, fetch)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, float64(42), got[0].Value)
}
