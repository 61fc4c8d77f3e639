// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package color

import (
	"testing"

	"tigerc/internal/assem"
	"tigerc/internal/flowgraph"
	"tigerc/internal/frame"
	"tigerc/internal/igraph"
	"tigerc/internal/liveness"
	"tigerc/internal/temp"
)

// S5 / T5: 20 simultaneously live temporaries with K=15 colorable
// registers must leave exactly 5 uncolorable, and every pair of
// temporaries that actually interfere must receive distinct colors.
func TestSpillScenarioAndColoringValidity(t *testing.T) {
	tf := temp.NewFactory()
	rm := frame.NewRegManager(tf.New())

	const n = 20
	temps := make([]temp.Temp, n)
	for i := range temps {
		temps[i] = tf.New()
	}

	defAll := &assem.OperInstr{Assem: "", Dst: append([]temp.Temp{}, temps...)}
	useAll := &assem.OperInstr{Assem: "", Src: append([]temp.Temp{}, temps...)}

	g := flowgraph.Build([]assem.Instr{defAll, useAll})
	live := liveness.Analyze(g)
	ig := igraph.Build(g, live, rm)

	res := Color(ig, rm, nil)

	if len(res.Spills) != n-rm.K() {
		t.Fatalf("got %d spills, want %d (20 mutually-interfering temps, %d colors)", len(res.Spills), n-rm.K(), rm.K())
	}

	spilled := make(map[temp.Temp]bool, len(res.Spills))
	for _, s := range res.Spills {
		spilled[s] = true
	}
	colorsUsed := make(map[temp.Temp]temp.Temp)
	for _, tmp := range temps {
		if spilled[tmp] {
			continue
		}
		col, ok := res.Color[tmp]
		if !ok {
			t.Fatalf("temp %v is neither colored nor spilled", tmp)
		}
		for other, otherCol := range colorsUsed {
			if other != tmp && otherCol == col {
				t.Fatalf("interfering temps %v and %v were both assigned color %v", tmp, other, col)
			}
		}
		colorsUsed[tmp] = col
	}
}

// A move between two temps that never interfere should be coalesced
// into a single color, eliminating the need for two separate
// registers.
func TestNonInterferingMoveCoalesces(t *testing.T) {
	tf := temp.NewFactory()
	rm := frame.NewRegManager(tf.New())
	s := tf.New()
	d := tf.New()

	move := &assem.MoveInstr{Assem: "movq 's0, 'd0", Src: s, Dst: d}
	useD := &assem.OperInstr{Assem: "movq 's0, 'd0", Src: []temp.Temp{d}, Dst: []temp.Temp{d}}

	g := flowgraph.Build([]assem.Instr{move, useD})
	live := liveness.Analyze(g)
	ig := igraph.Build(g, live, rm)

	res := Color(ig, rm, nil)

	if len(res.Spills) != 0 {
		t.Fatalf("got %d spills, want 0 for a trivially small graph", len(res.Spills))
	}
	if res.Color[s] != res.Color[d] {
		t.Fatalf("coalesced temps s=%v (color %v) and d=%v (color %v) should share a color",
			s, res.Color[s], d, res.Color[d])
	}
}

// T4: with all of a spill round's fresh temps marked not_spill, the
// colorer must still make progress by choosing its fallback candidate
// rather than looping forever with an unspillable worklist.
func TestSelectSpillFallsBackWhenEveryCandidateIsNotSpill(t *testing.T) {
	tf := temp.NewFactory()
	rm := frame.NewRegManager(tf.New())

	const n = 20
	temps := make([]temp.Temp, n)
	for i := range temps {
		temps[i] = tf.New()
	}
	notSpill := make(map[temp.Temp]bool, n)
	for _, tmp := range temps {
		notSpill[tmp] = true
	}

	defAll := &assem.OperInstr{Assem: "", Dst: append([]temp.Temp{}, temps...)}
	useAll := &assem.OperInstr{Assem: "", Src: append([]temp.Temp{}, temps...)}

	g := flowgraph.Build([]assem.Instr{defAll, useAll})
	live := liveness.Analyze(g)
	ig := igraph.Build(g, live, rm)

	res := Color(ig, rm, notSpill)
	if len(res.Spills) != n-rm.K() {
		t.Fatalf("got %d spills, want %d even with every candidate in not_spill", len(res.Spills), n-rm.K())
	}
}
