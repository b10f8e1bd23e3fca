// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import "math"

// RateConfig configures the Rate processor (spec §4.6).
type RateConfig struct {
	// IntervalNs is the target rate unit, in nanoseconds (e.g. 1e9 for a
	// per-second rate).
	IntervalNs int64
	Counter    bool
	CounterMax float64
	// ResetValue, when greater than the zero default, caps a computed
	// rate: values above it are treated as a spurious jump and zeroed.
	ResetValue     float64
	DropResets     bool
	DeltaOnly      bool
	RateToCount    bool
	DataIntervalMs int64
}

// denom computes `(result.interval_sec * 1e9) / rate_config.interval_ns`
// (spec §4.6), the normalization factor converting a raw delta between
// consecutive array slots into the configured rate unit.
func denom(resultIntervalSec int64, cfg RateConfig) float64 {
	return float64(resultIntervalSec) * 1e9 / float64(cfg.IntervalNs)
}

// Rate computes the per-slot rate of a numeric array (spec §4.6). The
// first output slot is NaN (no predecessor), except in RateToCount mode,
// which scales every slot including the first. resultIntervalSec is
// the duration, in seconds, between consecutive array slots.
func Rate(src []float64, cfg RateConfig, resultIntervalSec int64) []float64 {
	out := make([]float64, len(src))
	if len(src) == 0 {
		return out
	}
	out[0] = math.NaN()

	if cfg.DeltaOnly {
		for i := 1; i < len(src); i++ {
			d := src[i] - src[i-1]
			if cfg.DropResets && d < 0 {
				d = 0
			}
			out[i] = d
		}
		return out
	}

	if cfg.RateToCount {
		ticks := float64(cfg.DataIntervalMs) / 1000
		for i := range src {
			out[i] = src[i] * ticks
		}
		out[0] = src[0] * ticks
		return out
	}

	d := denom(resultIntervalSec, cfg)
	for i := 1; i < len(src); i++ {
		delta := src[i] - src[i-1]
		if delta < 0 && cfg.Counter {
			if cfg.DropResets {
				out[i] = 0
				continue
			}
			delta = cfg.CounterMax + src[i] - src[i-1]
		}
		r := delta / d
		if cfg.ResetValue > 0 && r > cfg.ResetValue {
			r = 0
		}
		out[i] = r
	}
	return out
}
