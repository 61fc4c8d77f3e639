// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regalloc drives one procedure's register allocation to
// completion (spec §4.9): build the flow graph, compute liveness, build
// the interference graph, color it, and either finish or rewrite every
// spilled temp to a memory access and retry. The retry-until-no-spills
// shape follows the vslc lir regalloc.go allocator's `retry` constant,
// which here becomes a round cap of one more than the number of
// distinct non-precolored temps in the input; an allocation that still
// spills past that cap is a fatal error.
package regalloc

import (
	"fmt"

	"tigerc/internal/assem"
	"tigerc/internal/color"
	"tigerc/internal/diag"
	"tigerc/internal/flowgraph"
	"tigerc/internal/frame"
	"tigerc/internal/igraph"
	"tigerc/internal/liveness"
	"tigerc/internal/temp"
)

// Allocate assigns a machine register to every temp instrs mentions,
// growing f with spill slots as needed, and returns the final
// instruction list with every temp operand rewritten to its assigned
// register's own precolored temp (so assem.Format's names callback can
// simply be rm.Name).
func Allocate(instrs []assem.Instr, f *frame.Frame, rm *frame.RegManager, temps *temp.Factory) []assem.Instr {
	notSpill := make(map[temp.Temp]bool)

	initial := make(map[temp.Temp]bool)
	for _, instr := range instrs {
		for _, ts := range [][]temp.Temp{instr.Uses(), instr.Defs()} {
			for _, t := range ts {
				if !t.IsPrecolored() {
					initial[t] = true
				}
			}
		}
	}
	maxRounds := len(initial) + 1

	for round := 1; ; round++ {
		if round > maxRounds {
			diag.Fatalf("regalloc: still spilling after %d rounds", maxRounds)
		}
		g := flowgraph.Build(instrs)
		live := liveness.Analyze(g)
		ig := igraph.Build(g, live, rm)
		result := color.Color(ig, rm, notSpill)

		if len(result.Spills) == 0 {
			return rewriteColors(instrs, result.Color)
		}

		instrs, notSpill = rewriteSpills(instrs, result.Spills, f, temps, notSpill)
	}
}

// rewriteColors substitutes every temp operand for its assigned
// register, leaving assem.Format with nothing left to resolve besides
// reading off each (now-precolored) temp's fixed name.
func rewriteColors(instrs []assem.Instr, colorOf map[temp.Temp]temp.Temp) []assem.Instr {
	out := make([]assem.Instr, len(instrs))
	for i, instr := range instrs {
		out[i] = recolor(instr, colorOf)
	}
	return out
}

func recolor(instr assem.Instr, colorOf map[temp.Temp]temp.Temp) assem.Instr {
	lookup := func(t temp.Temp) temp.Temp {
		if c, ok := colorOf[t]; ok {
			return c
		}
		return t
	}
	switch n := instr.(type) {
	case *assem.OperInstr:
		return &assem.OperInstr{Assem: n.Assem, Dst: recolorAll(n.Dst, lookup), Src: recolorAll(n.Src, lookup), Jumps: n.Jumps}
	case *assem.MoveInstr:
		return &assem.MoveInstr{Assem: n.Assem, Dst: lookup(n.Dst), Src: lookup(n.Src)}
	case *assem.LabelInstr:
		return n
	default:
		return n
	}
}

func recolorAll(ts []temp.Temp, lookup func(temp.Temp) temp.Temp) []temp.Temp {
	if ts == nil {
		return nil
	}
	out := make([]temp.Temp, len(ts))
	for i, t := range ts {
		out[i] = lookup(t)
	}
	return out
}

// rewriteSpills implements spec §4.9's rewriter: every spilled temp
// gets one fresh frame slot; every instruction mentioning it is
// rewritten to use a fresh temp loaded from (uses) or stored to (defs)
// that slot instead.
func rewriteSpills(instrs []assem.Instr, spills []temp.Temp, f *frame.Frame, temps *temp.Factory, notSpill map[temp.Temp]bool) ([]assem.Instr, map[temp.Temp]bool) {
	offsets := make(map[temp.Temp]int, len(spills))
	for _, t := range spills {
		access := f.AllocLocal(true)
		in, ok := access.(frame.InFrame)
		if !ok {
			panic("regalloc: AllocLocal(true) did not return an InFrame access")
		}
		offsets[t] = in.Offset
	}

	nextNotSpill := make(map[temp.Temp]bool, len(notSpill))
	for t := range notSpill {
		nextNotSpill[t] = true
	}

	var out []assem.Instr
	for _, instr := range instrs {
		out = append(out, rewriteOne(instr, offsets, f, temps, nextNotSpill)...)
	}
	return out, nextNotSpill
}

func rewriteOne(instr assem.Instr, offsets map[temp.Temp]int, f *frame.Frame, temps *temp.Factory, notSpill map[temp.Temp]bool) []assem.Instr {
	uses := instr.Uses()
	defs := instr.Defs()

	spilledHere := make(map[temp.Temp]bool)
	for _, t := range uses {
		if _, ok := offsets[t]; ok {
			spilledHere[t] = true
		}
	}
	for _, t := range defs {
		if _, ok := offsets[t]; ok {
			spilledHere[t] = true
		}
	}
	if len(spilledHere) == 0 {
		return []assem.Instr{instr}
	}

	fresh := make(map[temp.Temp]temp.Temp, len(spilledHere))
	for t := range spilledHere {
		nt := temps.New()
		fresh[t] = nt
		notSpill[nt] = true
	}

	replaced := recolor(instr, fresh)

	var sequence []assem.Instr
	for _, t := range uses {
		if nt, ok := fresh[t]; ok {
			sequence = append(sequence, loadInstr(nt, offsets[t], f))
		}
	}
	sequence = append(sequence, replaced)
	for _, t := range defs {
		if nt, ok := fresh[t]; ok {
			sequence = append(sequence, storeInstr(nt, offsets[t], f))
		}
	}
	return sequence
}

func loadInstr(dst temp.Temp, offset int, f *frame.Frame) assem.Instr {
	return &assem.OperInstr{
		Assem: fmt.Sprintf("movq %s%+d(%%rsp), 'd0", f.FrameSizeSymbol(), offset),
		Dst:   []temp.Temp{dst},
	}
}

func storeInstr(src temp.Temp, offset int, f *frame.Frame) assem.Instr {
	return &assem.OperInstr{
		Assem: fmt.Sprintf("movq 's0, %s%+d(%%rsp)", f.FrameSizeSymbol(), offset),
		Src:   []temp.Temp{src},
	}
}
