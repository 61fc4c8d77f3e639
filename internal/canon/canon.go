// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canon implements canonicalization (spec GLOSSARY: "hoists
// Eseq out of expressions and isolates Calls to statement position").
// It is the standard Appel reorder/do_exp/do_stm/linearize algorithm:
// every expression list is processed left to right, extracting any
// statement-with-side-effects ahead of a temp that holds the
// expression's value whenever a later expression in the same list
// might not commute with it, and rewriting any CallExp so it is always
// the direct RHS of a Move. Sequencing style (a fold building up a
// flat statement list from nested structure) follows
// cmd/internal/gc/gen.go's Genlist, generalized from a list of
// already-flat statements to the translator's arbitrarily nested Seq
// trees.
package canon

import (
	"tigerc/internal/diag"
	"tigerc/internal/ir"
	"tigerc/internal/temp"
)

// Canonicalize flattens stm into a list of Eseq-free, Call-isolated
// statements in program order.
func Canonicalize(temps *temp.Factory, stm ir.Stm) []ir.Stm {
	c := &canonicalizer{temps: temps}
	return linearize(c.doStm(stm))
}

type canonicalizer struct {
	temps *temp.Factory
}

func seq(s1, s2 ir.Stm) ir.Stm {
	if s1 == nil {
		return s2
	}
	if s2 == nil {
		return s1
	}
	return &ir.Seq{S1: s1, S2: s2}
}

// commute reports whether evaluating s for effect, then e for value, is
// indistinguishable from evaluating e first: true whenever at least one
// side plainly cannot have a side effect worth reordering around.
func commute(s ir.Stm, e ir.Exp) bool {
	if s == nil {
		return true
	}
	switch e.(type) {
	case *ir.ConstExp, *ir.NameExp:
		return true
	}
	return false
}

// reorder extracts, in order, every statement with a side effect from
// exps, returning that prefix statement plus a parallel list of
// expressions (each a Temp read or otherwise side-effect-free) that can
// be substituted for the originals in any order.
func (c *canonicalizer) reorder(exps []ir.Exp) (ir.Stm, []ir.Exp) {
	if len(exps) == 0 {
		return nil, nil
	}
	if call, ok := exps[0].(*ir.CallExp); ok {
		t := c.temps.New()
		rewritten := &ir.EseqExp{Stm: &ir.Move{Dst: &ir.TempExp{T: t}, Src: call}, Exp: &ir.TempExp{T: t}}
		rest := append([]ir.Exp{rewritten}, exps[1:]...)
		return c.reorder(rest)
	}

	hStm, hExp := c.doExp(exps[0])
	tStm, tExps := c.reorder(exps[1:])

	if commute(tStm, hExp) {
		return seq(hStm, tStm), append([]ir.Exp{hExp}, tExps...)
	}

	t := c.temps.New()
	combined := seq(hStm, seq(&ir.Move{Dst: &ir.TempExp{T: t}, Src: hExp}, tStm))
	return combined, append([]ir.Exp{&ir.TempExp{T: t}}, tExps...)
}

func (c *canonicalizer) reorderExp(exps []ir.Exp, build func([]ir.Exp) ir.Exp) (ir.Stm, ir.Exp) {
	stm, exps2 := c.reorder(exps)
	return stm, build(exps2)
}

func (c *canonicalizer) reorderStm(exps []ir.Exp, build func([]ir.Exp) ir.Stm) ir.Stm {
	stm, exps2 := c.reorder(exps)
	return seq(stm, build(exps2))
}

func (c *canonicalizer) doStm(s ir.Stm) ir.Stm {
	switch n := s.(type) {
	case nil:
		return nil
	case *ir.Seq:
		return seq(c.doStm(n.S1), c.doStm(n.S2))
	case *ir.LabelStm:
		return n
	case *ir.Jump:
		return c.reorderStm([]ir.Exp{n.Exp}, func(e []ir.Exp) ir.Stm {
			return &ir.Jump{Exp: e[0], Targets: n.Targets}
		})
	case *ir.CJump:
		return c.reorderStm([]ir.Exp{n.L, n.R}, func(e []ir.Exp) ir.Stm {
			return &ir.CJump{Relop: n.Relop, L: e[0], R: e[1], TLabel: n.TLabel, FLabel: n.FLabel}
		})
	case *ir.Move:
		return c.doMove(n)
	case *ir.ExpStm:
		if call, ok := n.Exp.(*ir.CallExp); ok {
			args := append([]ir.Exp{call.Fn}, call.Args...)
			return c.reorderStm(args, func(e []ir.Exp) ir.Stm {
				return &ir.ExpStm{Exp: &ir.CallExp{Fn: e[0], Args: e[1:]}}
			})
		}
		return c.reorderStm([]ir.Exp{n.Exp}, func(e []ir.Exp) ir.Stm {
			return &ir.ExpStm{Exp: e[0]}
		})
	default:
		diag.Fatalf("canon: unhandled statement %T", s)
		panic("unreachable")
	}
}

func (c *canonicalizer) doMove(n *ir.Move) ir.Stm {
	switch dst := n.Dst.(type) {
	case *ir.TempExp:
		if call, ok := n.Src.(*ir.CallExp); ok {
			args := append([]ir.Exp{call.Fn}, call.Args...)
			return c.reorderStm(args, func(e []ir.Exp) ir.Stm {
				return &ir.Move{Dst: n.Dst, Src: &ir.CallExp{Fn: e[0], Args: e[1:]}}
			})
		}
		return c.reorderStm([]ir.Exp{n.Src}, func(e []ir.Exp) ir.Stm {
			return &ir.Move{Dst: n.Dst, Src: e[0]}
		})
	case *ir.MemExp:
		return c.reorderStm([]ir.Exp{dst.Addr, n.Src}, func(e []ir.Exp) ir.Stm {
			return &ir.Move{Dst: &ir.MemExp{Addr: e[0]}, Src: e[1]}
		})
	default:
		diag.Fatalf("canon: Move to non-lvalue %T is an invariant violation", n.Dst)
		panic("unreachable")
	}
}

func (c *canonicalizer) doExp(e ir.Exp) (ir.Stm, ir.Exp) {
	switch n := e.(type) {
	case *ir.ConstExp, *ir.NameExp, *ir.TempExp:
		return nil, n
	case *ir.BinopExp:
		return c.reorderExp([]ir.Exp{n.L, n.R}, func(e []ir.Exp) ir.Exp {
			return &ir.BinopExp{Op: n.Op, L: e[0], R: e[1]}
		})
	case *ir.MemExp:
		return c.reorderExp([]ir.Exp{n.Addr}, func(e []ir.Exp) ir.Exp {
			return &ir.MemExp{Addr: e[0]}
		})
	case *ir.EseqExp:
		stm1 := c.doStm(n.Stm)
		stm2, exp2 := c.doExp(n.Exp)
		return seq(stm1, stm2), exp2
	case *ir.CallExp:
		args := append([]ir.Exp{n.Fn}, n.Args...)
		return c.reorderExp(args, func(e []ir.Exp) ir.Exp {
			return &ir.CallExp{Fn: e[0], Args: e[1:]}
		})
	default:
		diag.Fatalf("canon: unhandled expression %T", e)
		panic("unreachable")
	}
}

// linearize flattens a canonical (Eseq-free) Seq tree into a flat,
// program-order statement list.
func linearize(s ir.Stm) []ir.Stm {
	var out []ir.Stm
	var walk func(ir.Stm)
	walk = func(s ir.Stm) {
		switch n := s.(type) {
		case nil:
		case *ir.Seq:
			walk(n.S1)
			walk(n.S2)
		default:
			out = append(out, n)
		}
	}
	walk(s)
	return out
}
