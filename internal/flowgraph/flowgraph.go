// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flowgraph builds the control-flow graph a procedure's
// selected instructions form (spec §4.5): one node per instruction,
// predecessor/successor edges from fall-through and explicit jump
// targets. Node shape (explicit predecessor/successor slices rather
// than a separate edge list) follows cmd/internal/gc/popt.go's Flow
// struct.
package flowgraph

import (
	"strings"

	"tigerc/internal/assem"
	"tigerc/internal/label"
)

// Node is one instruction's position in the flow graph.
type Node struct {
	Instr assem.Instr
	Index int

	Succ []*Node
	Pred []*Node
}

// Graph is a procedure's flow graph: one Node per instruction, in the
// same order the instructions were selected.
type Graph struct {
	Nodes []*Node
}

func addEdge(from, to *Node) {
	from.Succ = append(from.Succ, to)
	to.Pred = append(to.Pred, from)
}

// Build constructs the flow graph for instrs. A LabelInstr is the
// unique entry point for jumps targeting its label (spec §4.5); every
// non-jumping instruction falls through to its successor, and every
// instruction with Jumps targets gets an edge to each of those labels'
// nodes. An OperInstr with Jumps falls through to its successor only
// if its own mnemonic is not an unconditional jump (a CJump's branch
// instruction still falls through to the false case; an unconditional
// jmp does not).
func Build(instrs []assem.Instr) *Graph {
	g := &Graph{Nodes: make([]*Node, len(instrs))}
	byLabel := make(map[label.Label]*Node)

	for i, instr := range instrs {
		n := &Node{Instr: instr, Index: i}
		g.Nodes[i] = n
		if li, ok := instr.(*assem.LabelInstr); ok {
			byLabel[li.L] = n
		}
	}

	for i, n := range g.Nodes {
		jumps, unconditional := jumpTargets(n.Instr)
		for _, l := range jumps {
			if target, ok := byLabel[l]; ok {
				addEdge(n, target)
			}
		}
		if !unconditional && i+1 < len(g.Nodes) {
			addEdge(n, g.Nodes[i+1])
		}
	}

	return g
}

// jumpTargets returns the labels instr may transfer control to, and
// whether that transfer is unconditional (so the selector emitting an
// unconditional `jmp` must suppress the ordinary fall-through edge; a
// conditional branch still falls through to the next instruction for
// the untaken case).
func jumpTargets(instr assem.Instr) (targets []label.Label, unconditional bool) {
	oi, ok := instr.(*assem.OperInstr)
	if !ok || len(oi.Jumps) == 0 {
		return nil, false
	}
	return oi.Jumps, strings.HasPrefix(oi.Assem, "jmp ")
}
