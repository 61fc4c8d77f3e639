// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package liveness computes, for every flow-graph node, the set of
// temporaries live immediately before and immediately after it: classic
// backward dataflow to a fixed point (spec §4.6). The convergence loop
// (repeat over all nodes until no set grows) follows the
// reverse-postorder scaffolding cmd/internal/gc/popt.go's flowrpo-driven
// passes use, generalized from Go's own opt-pass bitsets to a
// temp.Temp-keyed set.
package liveness

import (
	"tigerc/internal/flowgraph"
	"tigerc/internal/temp"
)

// Set is an unordered collection of temporaries.
type Set map[temp.Temp]bool

func (s Set) clone() Set {
	out := make(Set, len(s))
	for t := range s {
		out[t] = true
	}
	return out
}

func (s Set) equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if !other[t] {
			return false
		}
	}
	return true
}

func union(a, b Set) Set {
	out := make(Set, len(a)+len(b))
	for t := range a {
		out[t] = true
	}
	for t := range b {
		out[t] = true
	}
	return out
}

// Result holds the in/out sets for every node of a flow graph, indexed
// by the node's Index.
type Result struct {
	In  []Set
	Out []Set
}

// Analyze runs liveness to a fixed point over g. Move instructions
// report use = {src} and def = {dst} (spec §4.6), which assem.MoveInstr
// and assem.OperInstr's Uses/Defs already encode uniformly, so this
// package need not special-case the instruction kind.
func Analyze(g *flowgraph.Graph) *Result {
	n := len(g.Nodes)
	res := &Result{In: make([]Set, n), Out: make([]Set, n)}
	for i := range g.Nodes {
		res.In[i] = Set{}
		res.Out[i] = Set{}
	}

	use := make([]Set, n)
	def := make([]Set, n)
	for i, node := range g.Nodes {
		use[i] = toSet(node.Instr.Uses())
		def[i] = toSet(node.Instr.Defs())
	}

	for changed := true; changed; {
		changed = false
		for i := n - 1; i >= 0; i-- {
			node := g.Nodes[i]

			newOut := Set{}
			for _, succ := range node.Succ {
				for t := range res.In[succ.Index] {
					newOut[t] = true
				}
			}

			outMinusDef := make(Set, len(newOut))
			for t := range newOut {
				if !def[i][t] {
					outMinusDef[t] = true
				}
			}
			newIn := union(use[i], outMinusDef)

			if !newIn.equal(res.In[i]) || !newOut.equal(res.Out[i]) {
				changed = true
			}
			res.In[i] = newIn
			res.Out[i] = newOut
		}
	}

	return res
}

func toSet(ts []temp.Temp) Set {
	s := make(Set, len(ts))
	for _, t := range ts {
		s[t] = true
	}
	return s
}
