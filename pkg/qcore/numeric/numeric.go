// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package numeric defines the closed set of data-type variants the query
// execution core operates on: a single scalar (Numeric), an offset-bounded
// array of scalars sharing one encoding (NumericArray), and a map from
// summary id to scalar (NumericSummary).
//
// Numeric mirrors the pattern of the teacher's schema.Float: a small value
// type with a NaN sentinel, but widened to carry the "integer or double,
// mutually exclusive" discriminator the wire format requires.
package numeric

import "math"

// NaN is the canonical double-valued missing marker, matching schema.NaN's
// role in the teacher's buffer chain.
var NaN = Numeric{isFloat: true, d: math.NaN()}

// Well-known summary ids. The gap at 4 is intentional: it mirrors the
// upstream summary-id space, which reserves 4 for a percentile extension
// never wired into this core.
const (
	SummarySum   uint8 = 0
	SummaryCount uint8 = 1
	SummaryMin   uint8 = 2
	SummaryMax   uint8 = 3
	SummaryAvg   uint8 = 5
)

// Numeric is a scalar value that is either an integer or a double, never
// both. This is the "Numeric" variant from the spec's data model.
type Numeric struct {
	isFloat bool
	i       int64
	d       float64
}

// NewInt builds an integer-valued Numeric.
func NewInt(v int64) Numeric { return Numeric{isFloat: false, i: v} }

// NewFloat builds a double-valued Numeric.
func NewFloat(v float64) Numeric { return Numeric{isFloat: true, d: v} }

// IsFloat reports whether the value is double-encoded.
func (n Numeric) IsFloat() bool { return n.isFloat }

// IsInteger reports whether the value is integer-encoded.
func (n Numeric) IsInteger() bool { return !n.isFloat }

// Int returns the raw integer value. Only valid when IsFloat() is false.
func (n Numeric) Int() int64 { return n.i }

// Float returns the raw double value. Only valid when IsFloat() is true.
func (n Numeric) Float() float64 { return n.d }

// ToFloat widens the value to float64 regardless of encoding, the form
// every aggregator and processor iterator computes on.
func (n Numeric) ToFloat() float64 {
	if n.isFloat {
		return n.d
	}
	return float64(n.i)
}

// IsNaN reports whether the value is the double NaN sentinel.
func (n Numeric) IsNaN() bool {
	return n.isFloat && math.IsNaN(n.d)
}

// Clone returns a value-copy safe to retain past the next iterator pull.
// Numeric is already immutable by value, so Clone is the identity — it
// exists to make the aliasing contract (spec §5/§9) explicit at call
// sites that copy out of a recycled iterator value.
func (n Numeric) Clone() Numeric { return n }

// NumericArray is an offset+end view over either an int64 or float64
// backing slice — the "integer or double" discriminator is per-array,
// not per-point.
type NumericArray struct {
	Offset  int
	End     int
	IsFloat bool
	Longs   []int64
	Doubles []float64
}

// Len returns the number of in-range elements.
func (a NumericArray) Len() int { return a.End - a.Offset }

// At returns the value at logical index i (0-based, relative to Offset)
// widened to float64.
func (a NumericArray) At(i int) float64 {
	idx := a.Offset + i
	if a.IsFloat {
		return a.Doubles[idx]
	}
	return float64(a.Longs[idx])
}

// NumericSummary maps a summary id (sum=0, count=1, min=2, max=3, avg=5,
// ...) to its scalar value.
type NumericSummary map[uint8]Numeric

// SummariesAvailable returns the set of summary ids present, used by the
// expression processor to union operand summary sets.
func (s NumericSummary) SummariesAvailable() []uint8 {
	ids := make([]uint8, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// Clone deep-copies the summary map so it survives past the next pull.
func (s NumericSummary) Clone() NumericSummary {
	out := make(NumericSummary, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
