// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import "time"

// ShiftUnit is the calendar granularity of a time-shift amount. Day and
// finer units are fixed-duration; Month and Year follow calendar
// semantics (spec §4.6's "preserving calendar semantics for month/year
// amounts") so that shifting Jan 31 back a month lands on the last day
// of December rather than overflowing into January.
type ShiftUnit int

const (
	ShiftSeconds ShiftUnit = iota
	ShiftDays
	ShiftMonths
	ShiftYears
)

// ShiftConfig configures the time-shift processor (spec §4.6).
type ShiftConfig struct {
	Unit ShiftUnit
	// Amount is the magnitude of the shift in Unit's granularity.
	Amount int
	// Previous, when true, subtracts the shift (looks into the past);
	// otherwise it adds (looks into the future).
	Previous bool
}

// Shift applies cfg to ts, a unix-nanosecond timestamp.
func Shift(ts int64, cfg ShiftConfig) int64 {
	amount := cfg.Amount
	if cfg.Previous {
		amount = -amount
	}

	switch cfg.Unit {
	case ShiftSeconds:
		return ts + int64(amount)*int64(time.Second)
	case ShiftDays:
		return ts + int64(amount)*int64(24*time.Hour)
	case ShiftMonths:
		t := time.Unix(0, ts).UTC()
		return t.AddDate(0, amount, 0).UnixNano()
	case ShiftYears:
		t := time.Unix(0, ts).UTC()
		return t.AddDate(amount, 0, 0).UnixNano()
	default:
		return ts
	}
}

// ShiftAll applies cfg to every timestamp in tss, preserving order.
func ShiftAll(tss []int64, cfg ShiftConfig) []int64 {
	out := make([]int64, len(tss))
	for i, ts := range tss {
		out[i] = Shift(ts, cfg)
	}
	return out
}
