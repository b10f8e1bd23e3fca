// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package plan implements the consumed planner contract (spec §6/§9): a
// DAG arena of nodes addressed by integer id, adjacency tracked as two
// id->ids mappings, and cycle detection via a stack-based DFS run after
// every edge addition. Grounded on the teacher's sentinel-error + typed
// taxonomy style (buffer.go's ErrNoData/ErrDataDoesNotAlign), here named
// PlanError per spec §7.
package plan

import (
	"errors"
	"fmt"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
)

// PlanError reports an operation referencing a node that doesn't exist.
// A rejected cycle is not a PlanError: it is reported as an error
// wrapping ErrCycle.
type PlanError struct {
	Reason string
}

func (e *PlanError) Error() string { return "plan: " + e.Reason }

// ErrCycle is the sentinel identifying a cycle-detection failure,
// returned wrapped via fmt.Errorf's %w (match it with errors.Is).
var ErrCycle = errors.New("plan: cycle detected")

// NodeID addresses a node in the arena.
type NodeID int

// Graph is an arena of node ids with adjacency tracked as two mappings
// (id -> out-edges, id -> in-edges), per spec §9's cyclic-reference note.
// A planner mutates one Graph per query plan; mutation is single-threaded
// like the rest of the pull pipeline (spec §5).
type Graph struct {
	nextID NodeID
	exists map[NodeID]bool
	out    map[NodeID][]NodeID
	in     map[NodeID][]NodeID
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		exists: make(map[NodeID]bool),
		out:    make(map[NodeID][]NodeID),
		in:     make(map[NodeID][]NodeID),
	}
}

// AddNode allocates and returns a new node id.
func (g *Graph) AddNode() NodeID {
	id := g.nextID
	g.nextID++
	g.exists[id] = true
	return id
}

// RemoveNode deletes n and every edge touching it.
func (g *Graph) RemoveNode(n NodeID) error {
	if !g.exists[n] {
		return &PlanError{Reason: fmt.Sprintf("remove_node: unknown node %d", n)}
	}
	for _, succ := range append([]NodeID(nil), g.out[n]...) {
		g.unlink(n, succ)
	}
	for _, pred := range append([]NodeID(nil), g.in[n]...) {
		g.unlink(pred, n)
	}
	delete(g.out, n)
	delete(g.in, n)
	delete(g.exists, n)
	return nil
}

// AddEdge adds a directed edge a->b. If the resulting graph contains a
// cycle, the edge is rolled back and an error wrapping ErrCycle is
// returned — the planner must reject the mutation, per spec §6. Unknown
// node ids yield a *PlanError.
func (g *Graph) AddEdge(a, b NodeID) error {
	if !g.exists[a] || !g.exists[b] {
		return &PlanError{Reason: fmt.Sprintf("add_edge: unknown node in (%d,%d)", a, b)}
	}
	if g.hasEdge(a, b) {
		return nil
	}
	g.link(a, b)
	if g.hasCycleFrom(a) {
		g.unlink(a, b)
		cclog.Warnf("plan: rejecting edge (%d,%d), would introduce a cycle", a, b)
		return fmt.Errorf("add_edge(%d,%d): %w", a, b, ErrCycle)
	}
	return nil
}

// RemoveEdge removes a directed edge a->b if present.
func (g *Graph) RemoveEdge(a, b NodeID) error {
	if !g.exists[a] || !g.exists[b] {
		return &PlanError{Reason: fmt.Sprintf("remove_edge: unknown node in (%d,%d)", a, b)}
	}
	g.unlink(a, b)
	return nil
}

// Replace rewires every edge touching old onto new, then removes old.
// new must already exist in the graph (callers add it before replacing).
func (g *Graph) Replace(old, new NodeID) error {
	if !g.exists[old] || !g.exists[new] {
		return &PlanError{Reason: fmt.Sprintf("replace: unknown node in (%d,%d)", old, new)}
	}
	for _, succ := range append([]NodeID(nil), g.out[old]...) {
		g.unlink(old, succ)
		if succ != new {
			if err := g.AddEdge(new, succ); err != nil {
				return err
			}
		}
	}
	for _, pred := range append([]NodeID(nil), g.in[old]...) {
		g.unlink(pred, old)
		if pred != new {
			if err := g.AddEdge(pred, new); err != nil {
				return err
			}
		}
	}
	delete(g.exists, old)
	delete(g.out, old)
	delete(g.in, old)
	return nil
}

// ConfigGraph returns copies of the predecessor and successor mappings,
// the planner contract's read surface (spec §6).
func (g *Graph) ConfigGraph() (predecessors, successors map[NodeID][]NodeID) {
	predecessors = make(map[NodeID][]NodeID, len(g.in))
	for id, preds := range g.in {
		predecessors[id] = append([]NodeID(nil), preds...)
	}
	successors = make(map[NodeID][]NodeID, len(g.out))
	for id, succs := range g.out {
		successors[id] = append([]NodeID(nil), succs...)
	}
	return predecessors, successors
}

func (g *Graph) link(a, b NodeID) {
	g.out[a] = append(g.out[a], b)
	g.in[b] = append(g.in[b], a)
}

func (g *Graph) unlink(a, b NodeID) {
	g.out[a] = removeID(g.out[a], b)
	g.in[b] = removeID(g.in[b], a)
}

func (g *Graph) hasEdge(a, b NodeID) bool {
	for _, succ := range g.out[a] {
		if succ == b {
			return true
		}
	}
	return false
}

func removeID(ids []NodeID, target NodeID) []NodeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// hasCycleFrom runs a stack-based DFS from start, reporting whether it can
// reach itself — the check run after every edge addition (spec §9).
func (g *Graph) hasCycleFrom(start NodeID) bool {
	visited := make(map[NodeID]bool)
	stack := []NodeID{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, succ := range g.out[n] {
			if succ == start {
				return true
			}
			if !visited[succ] {
				visited[succ] = true
				stack = append(stack, succ)
			}
		}
	}
	return false
}
