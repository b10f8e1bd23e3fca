// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package interpolate

import "github.com/clustercockpit-labs/qcore/pkg/qcore/span"

// SpanSource adapts a span.Iterator to the Source interface, copying each
// recycled *span.Point out immediately — the interpolator's own read-ahead
// buffer is the only thing allowed to hold a point across pulls.
type SpanSource struct {
	it *span.Iterator
}

// NewSpanSource wraps it.
func NewSpanSource(it *span.Iterator) *SpanSource { return &SpanSource{it: it} }

func (s *SpanSource) HasNext() bool { return s.it.HasNext() }

func (s *SpanSource) Next() (*RealPoint, error) {
	p, err := s.it.Next()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return &RealPoint{Timestamp: p.Timestamp.Clone(), Value: p.Value.Clone()}, nil
}
