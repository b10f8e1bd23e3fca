// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package span

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Pool tracks live Spans by key (typically a tsuid hash) and periodically
// evicts ones that have gone untouched past a retention window. Query
// plans hold onto spans across a result's lifetime, but a long-running
// process needs a backstop against spans whose owning query was abandoned
// without an explicit release.
type Pool struct {
	mu    sync.Mutex
	spans map[uint64]*pooledSpan

	sched gocron.Scheduler
}

type pooledSpan struct {
	span      *Span
	lastTouch time.Time
}

// NewPool starts a Pool whose retention sweep runs every interval,
// evicting spans untouched for longer than retention. Grounded on the
// pack's go-co-op/gocron/v2 scheduled-job style (the teacher schedules
// its own health/retention sweeps the same way).
func NewPool(interval, retention time.Duration) (*Pool, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	p := &Pool{spans: make(map[uint64]*pooledSpan), sched: sched}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { p.sweep(retention) }),
	)
	if err != nil {
		return nil, err
	}
	sched.Start()
	return p, nil
}

// Put registers or refreshes span under key, resetting its retention
// clock.
func (p *Pool) Put(key uint64, s *Span) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spans[key] = &pooledSpan{span: s, lastTouch: time.Now()}
}

// Get returns the span registered under key, refreshing its retention
// clock, and whether one was present.
func (p *Pool) Get(key uint64) (*Span, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ps, ok := p.spans[key]
	if !ok {
		return nil, false
	}
	ps.lastTouch = time.Now()
	return ps.span, true
}

// Evict removes key unconditionally.
func (p *Pool) Evict(key uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.spans, key)
}

// Len reports the number of currently pooled spans.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.spans)
}

func (p *Pool) sweep(retention time.Duration) {
	cutoff := time.Now().Add(-retention)
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, ps := range p.spans {
		if ps.lastTouch.Before(cutoff) {
			delete(p.spans, key)
		}
	}
}

// Close stops the retention sweep job.
func (p *Pool) Close() error {
	return p.sched.Shutdown()
}
