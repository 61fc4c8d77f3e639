// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canon

import (
	"testing"

	"tigerc/internal/ir"
	"tigerc/internal/label"
	"tigerc/internal/temp"
)

func hasEseq(e ir.Exp) bool {
	switch n := e.(type) {
	case *ir.EseqExp:
		return true
	case *ir.BinopExp:
		return hasEseq(n.L) || hasEseq(n.R)
	case *ir.MemExp:
		return hasEseq(n.Addr)
	case *ir.CallExp:
		if hasEseq(n.Fn) {
			return true
		}
		for _, a := range n.Args {
			if hasEseq(a) {
				return true
			}
		}
	}
	return false
}

func stmHasEseq(s ir.Stm) bool {
	switch n := s.(type) {
	case *ir.Seq:
		return stmHasEseq(n.S1) || stmHasEseq(n.S2)
	case *ir.Move:
		return hasEseq(n.Dst) || hasEseq(n.Src)
	case *ir.ExpStm:
		return hasEseq(n.Exp)
	case *ir.Jump:
		return hasEseq(n.Exp)
	case *ir.CJump:
		return hasEseq(n.L) || hasEseq(n.R)
	}
	return false
}

// callNestedIn reports whether e contains a CallExp anywhere, e itself
// included.
func callNestedIn(e ir.Exp) bool {
	switch n := e.(type) {
	case *ir.CallExp:
		return true
	case *ir.BinopExp:
		return callNestedIn(n.L) || callNestedIn(n.R)
	case *ir.MemExp:
		return callNestedIn(n.Addr)
	}
	return false
}

func TestCanonicalizeEliminatesEseq(t *testing.T) {
	temps := temp.NewFactory()
	t1 := temps.New()
	t2 := temps.New()

	// Move(Temp t2, Eseq(Move(Temp t1, Const 5), Binop(+, Temp t1, Const 1)))
	src := &ir.EseqExp{
		Stm: &ir.Move{Dst: &ir.TempExp{T: t1}, Src: &ir.ConstExp{Value: 5}},
		Exp: &ir.BinopExp{Op: ir.Plus, L: &ir.TempExp{T: t1}, R: &ir.ConstExp{Value: 1}},
	}
	prog := &ir.Move{Dst: &ir.TempExp{T: t2}, Src: src}

	stmts := Canonicalize(temps, prog)
	for _, s := range stmts {
		if stmHasEseq(s) {
			t.Fatalf("canonicalized statement still contains an Eseq: %#v", s)
		}
	}
	if len(stmts) < 2 {
		t.Fatalf("got %d statements, want at least 2 (hoisted Move plus final assignment)", len(stmts))
	}
}

func TestCanonicalizeIsolatesCalls(t *testing.T) {
	temps := temp.NewFactory()

	// ExpStm(Binop(+, Call(f), Const 1)) -- a call buried inside an
	// arithmetic expression must be hoisted to its own Move.
	fn := &ir.NameExp{L: label.NewFactory().Named("f")}
	call := &ir.CallExp{Fn: fn, Args: nil}
	expr := &ir.BinopExp{Op: ir.Plus, L: call, R: &ir.ConstExp{Value: 1}}
	prog := &ir.ExpStm{Exp: expr}

	stmts := Canonicalize(temps, prog)
	for _, s := range stmts {
		switch n := s.(type) {
		case *ir.Move:
			if callNestedIn(n.Src) && func() bool { _, ok := n.Src.(*ir.CallExp); return !ok }() {
				t.Fatalf("call still nested inside a non-Move expression: %#v", n.Src)
			}
		case *ir.ExpStm:
			if callNestedIn(n.Exp) {
				if _, ok := n.Exp.(*ir.CallExp); !ok {
					t.Fatalf("call still nested inside ExpStm operand: %#v", n.Exp)
				}
			}
		}
	}
}

func TestLinearizeFlattensNestedSeq(t *testing.T) {
	a := &ir.LabelStm{L: label.NewFactory().Named("a")}
	b := &ir.LabelStm{L: label.NewFactory().Named("b")}
	c := &ir.LabelStm{L: label.NewFactory().Named("c")}
	nested := &ir.Seq{S1: &ir.Seq{S1: a, S2: b}, S2: c}

	out := linearize(nested)
	if len(out) != 3 {
		t.Fatalf("got %d statements, want 3", len(out))
	}
	if out[0] != ir.Stm(a) || out[1] != ir.Stm(b) || out[2] != ir.Stm(c) {
		t.Fatalf("linearize did not preserve program order: %#v", out)
	}
}
