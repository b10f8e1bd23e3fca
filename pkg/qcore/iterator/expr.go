// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package iterator

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Op is a binary operator recognized by the expression processor (spec
// §4.6). Logical operators treat a 0 or NaN operand as false and any other
// value as true; logical and relational operators yield 1 or 0.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

// exprSource of a compiled program, one per Op. Compiling once per Op (not
// once per query) keeps expr's compile cost off the hot path — the
// teacher's own query.go hoists its regex compilation the same way, out
// of the per-point loop and into construction.
var opPrograms = map[Op]*vm.Program{}

func init() {
	exprs := map[Op]string{
		OpAnd: "(left != 0 && !isNaN(left)) && (right != 0 && !isNaN(right))",
		OpOr:  "(left != 0 && !isNaN(left)) || (right != 0 && !isNaN(right))",
		OpEQ:  "left == right",
		OpNE:  "left != right",
		OpLT:  "left < right",
		OpLE:  "left <= right",
		OpGT:  "left > right",
		OpGE:  "left >= right",
		OpAdd: "left + right",
		OpSub: "left - right",
		OpMul: "left * right",
		OpDiv: "left / right",
		OpMod: "mod(left, right)",
	}
	env := map[string]any{
		"left":  0.0,
		"right": 0.0,
		"isNaN": math.IsNaN,
		"mod":   math.Mod,
	}
	for op, src := range exprs {
		prog, err := expr.Compile(src, expr.Env(env))
		if err != nil {
			panic(fmt.Sprintf("iterator: expression op %d failed to compile: %v", op, err))
		}
		opPrograms[op] = prog
	}
}

func isLogicalOrRelational(op Op) bool {
	switch op {
	case OpAnd, OpOr, OpEQ, OpNE, OpLT, OpLE, OpGT, OpGE:
		return true
	default:
		return false
	}
}

// ExpressionConfig configures a binary expression node (spec §4.6).
type ExpressionConfig struct {
	Op Op
	// InfectiousNaN propagates NaN through arithmetic operators when set;
	// otherwise a NaN operand yields the other operand's value.
	InfectiousNaN bool
}

// ApplyBinary evaluates cfg.Op against (left, right), honoring division by
// zero (-> NaN), the infectious_nan toggle, and the logical/relational
// 0-vs-non-zero convention.
func ApplyBinary(cfg ExpressionConfig, left, right float64) float64 {
	if cfg.Op == OpDiv && right == 0 {
		return math.NaN()
	}

	lNaN, rNaN := math.IsNaN(left), math.IsNaN(right)
	if (lNaN || rNaN) && !isLogicalOrRelational(cfg.Op) {
		if cfg.InfectiousNaN {
			return math.NaN()
		}
		switch {
		case lNaN && rNaN:
			return math.NaN()
		case lNaN:
			return right
		case rNaN:
			return left
		}
	}

	prog := opPrograms[cfg.Op]
	out, err := expr.Run(prog, map[string]any{"left": left, "right": right})
	if err != nil {
		return math.NaN()
	}
	switch v := out.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return v
	default:
		return math.NaN()
	}
}

// ApplySummary applies cfg over the union of summary ids available on
// either side, producing a summary keyed the same way (spec §8's
// Expression-per-summary property). Missing ids on one side are treated
// as NaN, subject to the same infectious_nan/fallback rule as ApplyBinary.
func ApplySummary(cfg ExpressionConfig, left, right map[uint8]float64) map[uint8]float64 {
	ids := make(map[uint8]bool, len(left)+len(right))
	for id := range left {
		ids[id] = true
	}
	for id := range right {
		ids[id] = true
	}
	out := make(map[uint8]float64, len(ids))
	for id := range ids {
		lv, lok := left[id]
		rv, rok := right[id]
		if !lok {
			lv = math.NaN()
		}
		if !rok {
			rv = math.NaN()
		}
		out[id] = ApplyBinary(cfg, lv, rv)
	}
	return out
}

// TernaryConfig configures the ternary (cond ? a : b) processor (spec
// §4.6). A condition is "true" when it is non-zero, non-NaN, and at or
// above CondThreshold (the zero-valued default treats any non-zero,
// non-NaN value as true).
type TernaryConfig struct {
	CondThreshold float64
}

// ApplyTernary selects a when cond clears cfg.CondThreshold, else b.
func ApplyTernary(cfg TernaryConfig, cond, a, b float64) float64 {
	if math.IsNaN(cond) || cond == 0 || (cfg.CondThreshold != 0 && cond < cfg.CondThreshold) {
		return b
	}
	return a
}

// RealSource is the scalar interpolator surface the expression processor
// fans in over: the minimum of Literal/Source next_real() timestamps
// drives evaluation, with literal operands bypassing interpolation
// entirely (spec §4.6).
type RealSource interface {
	// NextReal returns the timestamp of the next real upstream point and
	// whether one remains.
	NextReal() (int64, bool, error)
	// Next evaluates the source at ts (through its interpolator's fill
	// policy) and returns the resolved value.
	Next(ts int64) (float64, error)
}

// LiteralSource is a constant RealSource: it never advances and always
// resolves to the same value, matching the spec's "literals bypass
// interpolation" rule.
type LiteralSource struct {
	Value float64
}

func (l LiteralSource) NextReal() (int64, bool, error) { return 0, false, nil }
func (l LiteralSource) Next(ts int64) (float64, error) { return l.Value, nil }

// Expression evaluates cfg over left/right at every point-in-time driven
// by the minimum of their next_real() timestamps, stopping when neither
// side has a further real point. Each source advances only when its own
// next_real() equals the chosen timestamp (spec §4.6), so a slower
// operand keeps contributing its last fill value without re-pulling.
type Expression struct {
	cfg         ExpressionConfig
	left, right RealSource
}

// NewExpression builds a binary-expression processor over left/right.
func NewExpression(cfg ExpressionConfig, left, right RealSource) *Expression {
	return &Expression{cfg: cfg, left: left, right: right}
}

// Run evaluates the expression at every driving timestamp until both
// operands are exhausted, returning timestamp/value pairs in order.
func (e *Expression) Run() ([]int64, []float64, error) {
	var tss []int64
	var vals []float64
	for {
		lts, lok, err := e.left.NextReal()
		if err != nil {
			return nil, nil, err
		}
		rts, rok, err := e.right.NextReal()
		if err != nil {
			return nil, nil, err
		}
		if !lok && !rok {
			break
		}
		ts := minReal(lts, lok, rts, rok)
		lv, err := e.left.Next(ts)
		if err != nil {
			return nil, nil, err
		}
		rv, err := e.right.Next(ts)
		if err != nil {
			return nil, nil, err
		}
		tss = append(tss, ts)
		vals = append(vals, ApplyBinary(e.cfg, lv, rv))
	}
	return tss, vals, nil
}

func minReal(a int64, aok bool, b int64, bok bool) int64 {
	switch {
	case aok && bok:
		if a < b {
			return a
		}
		return b
	case aok:
		return a
	default:
		return b
	}
}
