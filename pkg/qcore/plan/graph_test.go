// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package plan

import (
	"errors"
	"testing"
)

func TestAddEdgeRejectsCycle(t *testing.T) {
	g := NewGraph()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()

	if err := g.AddEdge(a, b); err != nil {
		t.Fatalf("AddEdge(a,b) error = %v", err)
	}
	if err := g.AddEdge(b, c); err != nil {
		t.Fatalf("AddEdge(b,c) error = %v", err)
	}
	err := g.AddEdge(c, a)
	if err == nil {
		t.Fatal("expected cycle rejection for c->a")
	}
	if !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}

	// The rejected edge must have been rolled back.
	preds, succs := g.ConfigGraph()
	if len(succs[c]) != 0 {
		t.Errorf("successors[c] = %v, want empty after rollback", succs[c])
	}
	if len(preds[a]) != 0 {
		t.Errorf("predecessors[a] = %v, want empty after rollback", preds[a])
	}
}

func TestAddEdgeSelfLoopRejected(t *testing.T) {
	g := NewGraph()
	a := g.AddNode()
	if err := g.AddEdge(a, a); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle for a self-loop, got %v", err)
	}
}

func TestRemoveNodeClearsEdges(t *testing.T) {
	g := NewGraph()
	a, b := g.AddNode(), g.AddNode()
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.RemoveNode(a); err != nil {
		t.Fatal(err)
	}
	_, succs := g.ConfigGraph()
	if len(succs[a]) != 0 {
		t.Errorf("successors[a] after removal = %v, want empty", succs[a])
	}
}

func TestReplaceRewiresEdges(t *testing.T) {
	g := NewGraph()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(b, c); err != nil {
		t.Fatal(err)
	}

	newB := g.AddNode()
	if err := g.Replace(b, newB); err != nil {
		t.Fatalf("Replace error = %v", err)
	}

	preds, succs := g.ConfigGraph()
	if len(succs[a]) != 1 || succs[a][0] != newB {
		t.Errorf("successors[a] = %v, want [newB]", succs[a])
	}
	if len(preds[c]) != 1 || preds[c][0] != newB {
		t.Errorf("predecessors[c] = %v, want [newB]", preds[c])
	}
}

func TestConfigGraphReturnsIndependentCopies(t *testing.T) {
	g := NewGraph()
	a, b := g.AddNode(), g.AddNode()
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	_, succs := g.ConfigGraph()
	succs[a][0] = 999 // mutating the returned copy must not affect the graph
	_, succs2 := g.ConfigGraph()
	if succs2[a][0] != b {
		t.Error("ConfigGraph leaked internal slice — mutation of a snapshot affected the graph")
	}
}
