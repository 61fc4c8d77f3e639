// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flowgraph

import (
	"testing"

	"tigerc/internal/assem"
	"tigerc/internal/label"
)

func TestFallThroughChainsSequentialInstructions(t *testing.T) {
	a := &assem.OperInstr{Assem: "movq $1, 'd0"}
	b := &assem.OperInstr{Assem: "movq $2, 'd0"}
	g := Build([]assem.Instr{a, b})

	if len(g.Nodes[0].Succ) != 1 || g.Nodes[0].Succ[0] != g.Nodes[1] {
		t.Fatalf("node 0 should fall through to node 1")
	}
	if len(g.Nodes[1].Pred) != 1 || g.Nodes[1].Pred[0] != g.Nodes[0] {
		t.Fatalf("node 1 should have node 0 as its sole predecessor")
	}
}

func TestUnconditionalJumpSuppressesFallThrough(t *testing.T) {
	lf := label.NewFactory()
	target := lf.Named("target")

	jmp := &assem.OperInstr{Assem: "jmp 'j0", Jumps: []label.Label{target}}
	skipped := &assem.OperInstr{Assem: "movq $0, 'd0"}
	lbl := &assem.LabelInstr{Assem: "target:", L: target}

	g := Build([]assem.Instr{jmp, skipped, lbl})

	if len(g.Nodes[0].Succ) != 1 {
		t.Fatalf("jmp node should have exactly one successor, got %d", len(g.Nodes[0].Succ))
	}
	if g.Nodes[0].Succ[0] != g.Nodes[2] {
		t.Fatalf("jmp node should jump to the label node, not fall through")
	}
}

func TestConditionalJumpHasBothSuccessors(t *testing.T) {
	lf := label.NewFactory()
	trueL := lf.Named("t")

	jcc := &assem.OperInstr{Assem: "je 'j0", Jumps: []label.Label{trueL}}
	fallThrough := &assem.OperInstr{Assem: "movq $0, 'd0"}
	lbl := &assem.LabelInstr{Assem: "t:", L: trueL}

	g := Build([]assem.Instr{jcc, fallThrough, lbl})

	if len(g.Nodes[0].Succ) != 2 {
		t.Fatalf("conditional jump should have 2 successors (taken + fall-through), got %d", len(g.Nodes[0].Succ))
	}
}
