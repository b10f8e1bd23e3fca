// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package interpolate implements the per-type, fill-aware alignment
// primitive (spec §4.5), grounded on the teacher's buffer.read() read-ahead
// walk (pkg/metricstore/buffer.go): both keep a small bounded look-around
// window and fill gaps using the "NaN + anything = NaN" propagation trick
// the teacher's own doc comment calls out.
package interpolate

import "math"

// FillPolicy is the scalar fallback used when no real-fill policy (below)
// produces a value.
type FillPolicy int

const (
	FillNone FillPolicy = iota
	FillNull
	FillNaN
	FillZero
	FillMin
	FillMax
	FillScalar
)

// ScalarFill pairs a FillPolicy with the literal value for FillScalar.
type ScalarFill struct {
	Policy FillPolicy
	Value  float64
}

// Resolve returns the fill value and true, or (zero, false) for the
// null-producing policies (NONE, NULL) — callers must treat false as "no
// value emitted", not as a zero value.
func (s ScalarFill) Resolve() (float64, bool) {
	switch s.Policy {
	case FillNone, FillNull:
		return 0, false
	case FillNaN:
		return math.NaN(), true
	case FillZero:
		return 0, true
	case FillMin:
		return math.Inf(-1), true
	case FillMax:
		return math.Inf(1), true
	case FillScalar:
		return s.Value, true
	default:
		return 0, false
	}
}

// FillWithRealPolicy controls whether a neighboring real point is
// preferred over the scalar fallback when there is no exact match.
type FillWithRealPolicy int

const (
	RealFillNone FillWithRealPolicy = iota
	RealFillPreviousOnly
	RealFillNextOnly
	RealFillPreferPrevious
	RealFillPreferNext
)
