// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package translate lowers a typed ast.Exp tree into the tree-shaped
// ir.Stm/ir.Exp representation plus a list of fragment.Fragment,
// threading static links for non-local variable access across nested
// functions (spec §4.2). Per spec §9's cyclic-ownership design note,
// Level owns its Frame directly (no back-pointer cycle through a
// separate FunEntry/Frame pair); Entry values hold a *Level handle
// instead.
package translate

import (
	"tigerc/internal/diag"
	"tigerc/internal/frame"
	"tigerc/internal/ir"
	"tigerc/internal/label"
	"tigerc/internal/temp"
)

// Level is one static lexical-nesting record: a frame plus a pointer to
// the lexically enclosing level, used to chase static links.
type Level struct {
	Parent *Level
	Frame  *frame.Frame
}

// NewLevel builds the Level for a function nested directly inside
// parent, prepending the static-link formal (always escaping — a
// nested function may call arbitrarily deep before using it, so it
// must survive in memory) ahead of formalEscapes.
func NewLevel(parent *Level, name label.Label, formalEscapes []bool, temps *temp.Factory) *Level {
	withLink := make([]bool, 0, len(formalEscapes)+1)
	withLink = append(withLink, true)
	withLink = append(withLink, formalEscapes...)
	return &Level{Parent: parent, Frame: frame.NewFrame(name, withLink, temps)}
}

// NewOutermostLevel builds the Level for the top-level program, which
// has no lexical parent and (per spec §4.2) is always named
// "tigermain".
func NewOutermostLevel(name label.Label, temps *temp.Factory) *Level {
	return &Level{Parent: nil, Frame: frame.NewFrame(name, []bool{true}, temps)}
}

// Formals returns lvl's user-visible formal accesses, excluding the
// leading static-link slot.
func (lvl *Level) Formals() []frame.Access {
	return lvl.Frame.Formals()[1:]
}

// staticLink builds the IR expression that, evaluated in a procedure
// running at level cur, yields the frame pointer of level target (an
// ancestor of cur, or cur itself). Each hop chases one Mem indirection
// through a static-link slot (spec T7), starting from cur's own,
// currently-executing frame pointer.
func staticLink(target, cur *Level, rm *frame.RegManager) ir.Exp {
	fp := ir.Exp(&ir.TempExp{T: rm.FP})
	lvl := cur
	for lvl != target {
		if lvl == nil {
			diag.Fatalf("translate: static link chase ran past the outermost level")
		}
		fp = lvl.Frame.StaticLink().Exp(fp)
		lvl = lvl.Parent
	}
	return fp
}
