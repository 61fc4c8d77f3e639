// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package igraph builds the interference graph register allocation
// colors (spec §4.7): a node per temporary (plus every machine
// register, which mutually interfere), undirected interference edges
// derived from liveness, and a move list recording every candidate for
// coalescing. Graph construction is spec-original (Appel ch. 11); its
// neighbour-set/move-list bookkeeping mirrors the node/neighbours shape
// of the vslc lir regalloc.go RIG builder, generalized from its
// single-pass simplify scheme to the fuller iterated-coalescing
// bookkeeping spec §4.8 needs on top of it.
package igraph

import (
	"tigerc/internal/assem"
	"tigerc/internal/flowgraph"
	"tigerc/internal/frame"
	"tigerc/internal/liveness"
	"tigerc/internal/temp"
)

// Move records one move instruction's (src, dst) temp pair, a
// coalescing candidate so long as neither has been proven to
// interfere.
type Move struct {
	Src, Dst temp.Temp
}

// Graph is the interference graph for one procedure, plus the move
// list the colorer's coalescing passes consume.
type Graph struct {
	adj        map[temp.Temp]map[temp.Temp]bool
	moveList   map[temp.Temp][]Move
	allMoves   []Move
	precolored map[temp.Temp]bool
}

// Nodes returns every temporary (including machine registers) the
// graph has an entry for.
func (g *Graph) Nodes() []temp.Temp {
	out := make([]temp.Temp, 0, len(g.adj))
	for t := range g.adj {
		out = append(out, t)
	}
	return out
}

// Neighbors returns t's interference neighbors.
func (g *Graph) Neighbors(t temp.Temp) []temp.Temp {
	out := make([]temp.Temp, 0, len(g.adj[t]))
	for n := range g.adj[t] {
		out = append(out, n)
	}
	return out
}

// Interferes reports whether a and b share an edge.
func (g *Graph) Interferes(a, b temp.Temp) bool {
	return g.adj[a][b]
}

// Degree returns t's current interference degree.
func (g *Graph) Degree(t temp.Temp) int {
	return len(g.adj[t])
}

// IsPrecolored reports whether t is a machine register.
func (g *Graph) IsPrecolored(t temp.Temp) bool {
	return g.precolored[t]
}

// MoveList returns every move instruction mentioning t, as a
// coalescing candidate.
func (g *Graph) MoveList(t temp.Temp) []Move {
	return g.moveList[t]
}

// WorklistMoves returns every move in the graph.
func (g *Graph) WorklistMoves() []Move {
	out := make([]Move, len(g.allMoves))
	copy(out, g.allMoves)
	return out
}

// AddEdge records an interference between a and b (both directions,
// skipping self-loops). Exported so the colorer's coalesce step can add
// edges for a newly-unified node.
func (g *Graph) AddEdge(a, b temp.Temp) {
	if a == b {
		return
	}
	if g.adj[a] == nil {
		g.adj[a] = make(map[temp.Temp]bool)
	}
	if g.adj[b] == nil {
		g.adj[b] = make(map[temp.Temp]bool)
	}
	g.adj[a][b] = true
	g.adj[b][a] = true
}

// RemoveNode deletes t and every edge touching it. The colorer does
// not call it; it tracks simplified and coalesced nodes on its own.
func (g *Graph) RemoveNode(t temp.Temp) {
	for n := range g.adj[t] {
		delete(g.adj[n], t)
	}
	delete(g.adj, t)
}

// EnsureNode adds t with no neighbors if it is not already present
// (used by Build).
func (g *Graph) EnsureNode(t temp.Temp) {
	if g.adj[t] == nil {
		g.adj[t] = make(map[temp.Temp]bool)
	}
}

// Build constructs the interference graph for a procedure's flow graph
// and liveness result (spec §4.7's three edge rules).
func Build(g *flowgraph.Graph, live *liveness.Result, rm *frame.RegManager) *Graph {
	ig := &Graph{
		adj:        make(map[temp.Temp]map[temp.Temp]bool),
		moveList:   make(map[temp.Temp][]Move),
		precolored: make(map[temp.Temp]bool),
	}

	for _, reg := range rm.AllRegisters() {
		ig.EnsureNode(reg)
		ig.precolored[reg] = true
	}
	// All machine registers mutually interfere (rule 3).
	regs := rm.AllRegisters()
	for i := range regs {
		for j := i + 1; j < len(regs); j++ {
			ig.AddEdge(regs[i], regs[j])
		}
	}

	for _, node := range g.Nodes {
		for _, t := range node.Instr.Uses() {
			ig.EnsureNode(t)
		}
		for _, t := range node.Instr.Defs() {
			ig.EnsureNode(t)
		}
	}

	for _, node := range g.Nodes {
		out := live.Out[node.Index]

		if mi, ok := node.Instr.(*assem.MoveInstr); ok {
			// Rule 2: for a move d <- s, the source is not interfered
			// with, enabling coalescing.
			m := Move{Src: mi.Src, Dst: mi.Dst}
			ig.allMoves = append(ig.allMoves, m)
			ig.moveList[mi.Src] = append(ig.moveList[mi.Src], m)
			ig.moveList[mi.Dst] = append(ig.moveList[mi.Dst], m)

			for o := range out {
				if o == mi.Dst || o == mi.Src {
					continue
				}
				ig.AddEdge(mi.Dst, o)
			}
			continue
		}

		// Rule 1: every non-move def interferes with everything live
		// out of it (other than itself). This only adds edges against
		// out(n), not against the instruction's other defs (Appel's
		// out ∪ def formulation) — safe here because the only
		// multi-def instruction is call, whose defs are all precolored
		// caller-saves that already mutually interfere via rule 3.
		for _, d := range node.Instr.Defs() {
			for o := range out {
				if o == d {
					continue
				}
				ig.AddEdge(d, o)
			}
		}
	}

	return ig
}
