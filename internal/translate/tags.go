// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package translate

import (
	"tigerc/internal/diag"
	"tigerc/internal/ir"
	"tigerc/internal/label"
)

// ExpTag is the translator's intermediate result for one AST
// expression: Ex (value-producing), Nx (statement, no value), or Cx
// (branching). Per spec §9's design note, Cx is parameterized over a
// continuation that receives the true/false label pair and produces
// the completed IR, rather than exposing the source's pointer-to-
// pointer label back-patching.
type ExpTag interface {
	isExpTag()
}

// Ex wraps a value-producing IR expression.
type Ex struct {
	E ir.Exp
}

func (Ex) isExpTag() {}

// Nx wraps a no-value IR statement.
type Nx struct {
	S ir.Stm
}

func (Nx) isExpTag() {}

// Cx wraps a branching computation: Gen, given the true and false
// target labels, returns the IR statement that jumps to one or the
// other according to the condition.
type Cx struct {
	Gen func(t, f label.Label) ir.Stm
}

func (Cx) isExpTag() {}

// unEx converts any ExpTag into a value-producing ir.Exp.
func unEx(tr *Translator, tag ExpTag) ir.Exp {
	switch t := tag.(type) {
	case Ex:
		return t.E
	case Nx:
		return &ir.EseqExp{Stm: t.S, Exp: &ir.ConstExp{Value: 0}}
	case Cx:
		r := tr.temps.New()
		trueL := tr.labels.NewAnonymous()
		falseL := tr.labels.NewAnonymous()
		stm := t.Gen(trueL, falseL)
		body := &ir.Seq{
			S1: &ir.Move{Dst: &ir.TempExp{T: r}, Src: &ir.ConstExp{Value: 1}},
			S2: &ir.Seq{
				S1: stm,
				S2: &ir.Seq{
					S1: &ir.LabelStm{L: falseL},
					S2: &ir.Seq{
						S1: &ir.Move{Dst: &ir.TempExp{T: r}, Src: &ir.ConstExp{Value: 0}},
						S2: &ir.LabelStm{L: trueL},
					},
				},
			},
		}
		return &ir.EseqExp{Stm: body, Exp: &ir.TempExp{T: r}}
	default:
		diag.Fatalf("translate: unEx of unknown ExpTag %T", tag)
		panic("unreachable")
	}
}

// unNx converts any ExpTag into a no-value ir.Stm.
func unNx(tr *Translator, tag ExpTag) ir.Stm {
	switch t := tag.(type) {
	case Ex:
		return &ir.ExpStm{Exp: t.E}
	case Nx:
		return t.S
	case Cx:
		l := tr.labels.NewAnonymous()
		return &ir.Seq{S1: t.Gen(l, l), S2: &ir.LabelStm{L: l}}
	default:
		diag.Fatalf("translate: unNx of unknown ExpTag %T", tag)
		panic("unreachable")
	}
}

// unCx converts any ExpTag into a branch generator. Nx is illegal here
// (per spec §7: a translator bug, an invariant violation, never a
// recoverable condition) since a pure-effect statement carries no
// condition to branch on.
func unCx(tr *Translator, tag ExpTag) func(t, f label.Label) ir.Stm {
	switch t := tag.(type) {
	case Cx:
		return t.Gen
	case Ex:
		e := t.E
		return func(trueL, falseL label.Label) ir.Stm {
			return &ir.CJump{Relop: ir.NE, L: e, R: &ir.ConstExp{Value: 0}, TLabel: trueL, FLabel: falseL}
		}
	case Nx:
		diag.Fatalf("translate: unCx of Nx is an invariant violation")
		panic("unreachable")
	default:
		diag.Fatalf("translate: unCx of unknown ExpTag %T", tag)
		panic("unreachable")
	}
}

// seq appends s2 after s1, treating a nil s1 as the empty statement so
// callers can fold over a list without special-casing the first
// iteration.
func seq(s1, s2 ir.Stm) ir.Stm {
	if s1 == nil {
		return s2
	}
	return &ir.Seq{S1: s1, S2: s2}
}
