// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package igraph

import (
	"testing"

	"tigerc/internal/assem"
	"tigerc/internal/flowgraph"
	"tigerc/internal/frame"
	"tigerc/internal/liveness"
	"tigerc/internal/temp"
)

// T3: two temporaries simultaneously live interfere.
func TestNonMoveDefInterferesWithLiveOut(t *testing.T) {
	tf := temp.NewFactory()
	rm := frame.NewRegManager(tf.New())
	a := tf.New()
	b := tf.New()

	// def a; use a, b (so a and b are simultaneously live at the second
	// instruction, and a is defined while b is live-out of the first).
	defA := &assem.OperInstr{Assem: "movq $1, 'd0", Dst: []temp.Temp{a}}
	useBoth := &assem.OperInstr{Assem: "addq 's0, 's1", Src: []temp.Temp{a, b}}
	useB := &assem.OperInstr{Assem: "movq 's0, 'd0", Src: []temp.Temp{b}, Dst: []temp.Temp{b}}

	g := flowgraph.Build([]assem.Instr{defA, useBoth, useB})
	live := liveness.Analyze(g)
	ig := Build(g, live, rm)

	if !ig.Interferes(a, b) {
		t.Fatalf("a and b are simultaneously live but do not interfere")
	}
}

func TestMoveSourceDoesNotInterfereWithOwnDestination(t *testing.T) {
	tf := temp.NewFactory()
	rm := frame.NewRegManager(tf.New())
	s := tf.New()
	d := tf.New()

	move := &assem.MoveInstr{Assem: "movq 's0, 'd0", Src: s, Dst: d}
	useD := &assem.OperInstr{Assem: "movq 's0, 'd0", Src: []temp.Temp{d}, Dst: []temp.Temp{d}}

	g := flowgraph.Build([]assem.Instr{move, useD})
	live := liveness.Analyze(g)
	ig := Build(g, live, rm)

	if ig.Interferes(s, d) {
		t.Fatalf("move source should not interfere with its own destination")
	}

	for _, mv := range ig.WorklistMoves() {
		if mv.Src == s && mv.Dst == d {
			return
		}
	}
	t.Fatalf("move (s -> d) missing from WorklistMoves")
}

func TestMachineRegistersMutuallyInterfere(t *testing.T) {
	tf := temp.NewFactory()
	rm := frame.NewRegManager(tf.New())
	g := flowgraph.Build(nil)
	live := liveness.Analyze(g)
	ig := Build(g, live, rm)

	regs := rm.AllRegisters()
	for i := range regs {
		for j := i + 1; j < len(regs); j++ {
			if !ig.Interferes(regs[i], regs[j]) {
				t.Fatalf("machine registers %v and %v do not interfere", regs[i], regs[j])
			}
		}
	}
}
