// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regalloc

import (
	"strings"
	"testing"

	"tigerc/internal/assem"
	"tigerc/internal/frame"
	"tigerc/internal/label"
	"tigerc/internal/temp"
)

func allTemps(instrs []assem.Instr) []temp.Temp {
	var out []temp.Temp
	for _, instr := range instrs {
		out = append(out, instr.Uses()...)
		out = append(out, instr.Defs()...)
	}
	return out
}

// Every temp in the allocated output must be a precolored machine
// register: rewriteColors (or a spill-round rewrite that introduced a
// fresh not_spill temp, itself re-colored on the next round) leaves
// nothing uncolored behind.
func TestAllocateColorsEveryTemp(t *testing.T) {
	temps := temp.NewFactory()
	lf := label.NewFactory()
	rm := frame.NewRegManager(temps.New())
	f := frame.NewFrame(lf.Named("f"), []bool{true}, temps)

	a := temps.New()
	b := temps.New()
	c := temps.New()

	instrs := []assem.Instr{
		&assem.OperInstr{Assem: "movq $1, 'd0", Dst: []temp.Temp{a}},
		&assem.OperInstr{Assem: "movq $2, 'd0", Dst: []temp.Temp{b}},
		&assem.OperInstr{Assem: "addq 's0, 's1", Src: []temp.Temp{a, b}, Dst: []temp.Temp{c}},
		&assem.OperInstr{Assem: "movq 's0, 'd0", Src: []temp.Temp{c}},
	}

	out := Allocate(instrs, f, rm, temps)

	for _, tmp := range allTemps(out) {
		if !tmp.IsPrecolored() {
			t.Fatalf("temp %v survived allocation uncolored", tmp)
		}
	}
}

// S5: 20 simultaneously live temps (more than K=15) forces at least one
// spill round; the rewritten output must contain load/store
// instructions addressing the grown frame, and the frame must actually
// have grown past its pre-allocation size.
func TestAllocateRewritesSpillsAndGrowsFrame(t *testing.T) {
	temps := temp.NewFactory()
	lf := label.NewFactory()
	rm := frame.NewRegManager(temps.New())
	f := frame.NewFrame(lf.Named("f"), []bool{true}, temps)
	before := f.Size()

	const n = 20
	ts := make([]temp.Temp, n)
	for i := range ts {
		ts[i] = temps.New()
	}
	var instrs []assem.Instr
	for _, tmp := range ts {
		instrs = append(instrs, &assem.OperInstr{Assem: "movq $0, 'd0", Dst: []temp.Temp{tmp}})
	}
	for _, tmp := range ts {
		instrs = append(instrs, &assem.OperInstr{Assem: "movq 's0, %rax", Src: []temp.Temp{tmp}})
	}

	out := Allocate(instrs, f, rm, temps)

	if f.Size() <= before {
		t.Fatalf("frame did not grow to hold spill slots: before=%d after=%d", before, f.Size())
	}

	var sawLoadOrStore bool
	for _, instr := range out {
		if oi, ok := instr.(*assem.OperInstr); ok && strings.Contains(oi.Assem, f.FrameSizeSymbol()) {
			sawLoadOrStore = true
		}
	}
	if !sawLoadOrStore {
		t.Fatalf("no spill load/store instruction referencing %s found", f.FrameSizeSymbol())
	}

	for _, tmp := range allTemps(out) {
		if !tmp.IsPrecolored() {
			t.Fatalf("temp %v survived allocation uncolored after spill rewriting", tmp)
		}
	}
}
