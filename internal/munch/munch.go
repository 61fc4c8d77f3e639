// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package munch implements maximal-munch instruction selection (spec
// §4.3): each canonicalized ir.Stm/ir.Exp is recursively matched against
// the largest x86-64 tile it fits, producing assem.Instr values still
// addressed by unbounded temp.Temp operands. Call lowering (argument-
// register assignment, stack push/pop for extra arguments, caller-save
// marking) is modeled on x86/obj6.go's call sequencing and on the
// falcon asm_x86 backend's operand-emission shape, generalized to
// abstract-assembly templates instead of directly-encoded machine code.
package munch

import (
	"fmt"

	"tigerc/internal/assem"
	"tigerc/internal/diag"
	"tigerc/internal/frame"
	"tigerc/internal/ir"
	"tigerc/internal/label"
	"tigerc/internal/temp"
)

// Select tiles stmts (the canonicalized statement list for one
// procedure) into abstract assembly instructions.
func Select(stmts []ir.Stm, f *frame.Frame, rm *frame.RegManager, temps *temp.Factory) []assem.Instr {
	s := &selector{frame: f, rm: rm, temps: temps}
	for _, stm := range stmts {
		s.munchStm(stm)
	}
	return s.instrs
}

type selector struct {
	instrs []assem.Instr
	frame  *frame.Frame
	rm     *frame.RegManager
	temps  *temp.Factory
}

func (s *selector) emit(i assem.Instr) {
	s.instrs = append(s.instrs, i)
}

func relopJcc(r ir.RelOp) string {
	switch r {
	case ir.EQ:
		return "je"
	case ir.NE:
		return "jne"
	case ir.LT:
		return "jl"
	case ir.GT:
		return "jg"
	case ir.LE:
		return "jle"
	case ir.GE:
		return "jge"
	default:
		diag.Fatalf("munch: unknown RelOp %d", r)
		panic("unreachable")
	}
}

func (s *selector) munchStm(stm ir.Stm) {
	switch n := stm.(type) {
	case *ir.Seq:
		s.munchStm(n.S1)
		s.munchStm(n.S2)

	case *ir.LabelStm:
		s.emit(&assem.LabelInstr{Assem: n.L.Name() + ":", L: n.L})

	case *ir.Jump:
		name, ok := n.Exp.(*ir.NameExp)
		if !ok {
			diag.Fatalf("munch: Jump target is not a Name after canonicalization")
		}
		s.emit(&assem.OperInstr{Assem: "jmp 'j0", Jumps: []label.Label{name.L}})

	case *ir.CJump:
		l := s.munchExp(n.L)
		r := s.munchExp(n.R)
		s.emit(&assem.OperInstr{Assem: "cmpq 's1, 's0", Src: []temp.Temp{l, r}})
		// The conditional jump targets the true label; an unconditional
		// jmp to the false label follows it, since canon does not
		// reorder blocks to place FLabel right after the CJump.
		s.emit(&assem.OperInstr{
			Assem: relopJcc(n.Relop) + " 'j0",
			Jumps: []label.Label{n.TLabel},
		})
		s.emit(&assem.OperInstr{Assem: "jmp 'j0", Jumps: []label.Label{n.FLabel}})

	case *ir.Move:
		s.munchMove(n)

	case *ir.ExpStm:
		if call, ok := n.Exp.(*ir.CallExp); ok {
			s.munchCall(call)
			return
		}
		s.munchExp(n.Exp)

	default:
		diag.Fatalf("munch: unhandled statement %T", stm)
	}
}

func (s *selector) munchMove(n *ir.Move) {
	switch dst := n.Dst.(type) {
	case *ir.TempExp:
		if call, ok := n.Src.(*ir.CallExp); ok {
			result := s.munchCall(call)
			if dst.T != result {
				s.emit(&assem.MoveInstr{Assem: "movq 's0, 'd0", Dst: dst.T, Src: result})
			}
			return
		}
		src := s.munchExp(n.Src)
		s.emit(&assem.MoveInstr{Assem: "movq 's0, 'd0", Dst: dst.T, Src: src})

	case *ir.MemExp:
		addr := s.munchExp(dst.Addr)
		src := s.munchExp(n.Src)
		s.emit(&assem.OperInstr{Assem: "movq 's1, ('s0)", Src: []temp.Temp{addr, src}})

	default:
		diag.Fatalf("munch: Move to non-lvalue %T is an invariant violation", n.Dst)
	}
}

// munchExp tiles e, returning the temp that holds its value.
func (s *selector) munchExp(e ir.Exp) temp.Temp {
	switch n := e.(type) {
	case *ir.ConstExp:
		t := s.temps.New()
		s.emit(&assem.OperInstr{Assem: fmt.Sprintf("movq $%d, 'd0", n.Value), Dst: []temp.Temp{t}})
		return t

	case *ir.NameExp:
		t := s.temps.New()
		s.emit(&assem.OperInstr{Assem: fmt.Sprintf("leaq %s(%%rip), 'd0", n.L.Name()), Dst: []temp.Temp{t}})
		return t

	case *ir.TempExp:
		if n.T == s.rm.FP {
			t := s.temps.New()
			s.emit(&assem.OperInstr{
				Assem: fmt.Sprintf("leaq %s('s0), 'd0", s.frame.FrameSizeSymbol()),
				Dst:   []temp.Temp{t},
				Src:   []temp.Temp{s.rm.SP()},
			})
			return t
		}
		return n.T

	case *ir.MemExp:
		addr := s.munchExp(n.Addr)
		t := s.temps.New()
		s.emit(&assem.OperInstr{Assem: "movq ('s0), 'd0", Dst: []temp.Temp{t}, Src: []temp.Temp{addr}})
		return t

	case *ir.BinopExp:
		return s.munchBinop(n)

	case *ir.CallExp:
		return s.munchCall(n)

	default:
		diag.Fatalf("munch: unhandled expression %T", e)
		panic("unreachable")
	}
}

func (s *selector) munchBinop(n *ir.BinopExp) temp.Temp {
	l := s.munchExp(n.L)
	r := s.munchExp(n.R)

	switch n.Op {
	case ir.Plus, ir.Minus, ir.And, ir.Or:
		mnemonic := map[ir.BinOp]string{ir.Plus: "addq", ir.Minus: "subq", ir.And: "andq", ir.Or: "orq"}[n.Op]
		t := s.temps.New()
		s.emit(&assem.MoveInstr{Assem: "movq 's0, 'd0", Dst: t, Src: l})
		s.emit(&assem.OperInstr{Assem: mnemonic + " 's0, 'd0", Dst: []temp.Temp{t}, Src: []temp.Temp{r, t}})
		return t

	case ir.Times:
		s.emit(&assem.MoveInstr{Assem: "movq 's0, 'd0", Dst: s.rm.RV, Src: l})
		s.emit(&assem.OperInstr{Assem: "imulq 's0", Src: []temp.Temp{r, s.rm.RV}, Dst: []temp.Temp{s.rm.RV}})
		t := s.temps.New()
		s.emit(&assem.MoveInstr{Assem: "movq 's0, 'd0", Dst: t, Src: s.rm.RV})
		return t

	case ir.Div:
		s.emit(&assem.MoveInstr{Assem: "movq 's0, 'd0", Dst: s.rm.RV, Src: l})
		s.emit(&assem.OperInstr{Assem: "cqto", Dst: []temp.Temp{s.rm.RV}, Src: []temp.Temp{s.rm.RV}})
		s.emit(&assem.OperInstr{Assem: "idivq 's0", Src: []temp.Temp{r, s.rm.RV}, Dst: []temp.Temp{s.rm.RV}})
		t := s.temps.New()
		s.emit(&assem.MoveInstr{Assem: "movq 's0, 'd0", Dst: t, Src: s.rm.RV})
		return t

	default:
		diag.Fatalf("munch: unknown BinOp %d", n.Op)
		panic("unreachable")
	}
}

// munchCall lowers a call: the first six arguments go into argument
// registers in order, any further arguments are pushed right to left
// and popped back off after the call (spec §4.3). The instruction's
// Defs list every caller-save register so liveness treats them as
// killed across the call; the return value is the RV register
// afterward.
func (s *selector) munchCall(n *ir.CallExp) temp.Temp {
	name, ok := n.Fn.(*ir.NameExp)
	if !ok {
		diag.Fatalf("munch: Call target is not a Name after canonicalization")
	}

	argRegs := s.rm.ArgRegs()
	argVals := make([]temp.Temp, len(n.Args))
	for i, a := range n.Args {
		argVals[i] = s.munchExp(a)
	}

	regArgs := argVals
	var stackArgs []temp.Temp
	if len(argVals) > len(argRegs) {
		regArgs = argVals[:len(argRegs)]
		stackArgs = argVals[len(argRegs):]
	}

	for i, v := range regArgs {
		s.emit(&assem.MoveInstr{Assem: "movq 's0, 'd0", Dst: argRegs[i], Src: v})
	}

	for i := len(stackArgs) - 1; i >= 0; i-- {
		s.emit(&assem.OperInstr{Assem: "pushq 's0", Src: []temp.Temp{stackArgs[i]}})
	}

	callSrc := append([]temp.Temp{}, argRegs[:len(regArgs)]...)
	s.emit(&assem.OperInstr{
		Assem: fmt.Sprintf("call %s", name.L.Name()),
		Src:   callSrc,
		Dst:   s.rm.CallerSaves(),
	})

	if len(stackArgs) > 0 {
		bytes := len(stackArgs) * frame.WordSize
		s.emit(&assem.OperInstr{
			Assem: fmt.Sprintf("addq $%d, 's0", bytes),
			Dst:   []temp.Temp{s.rm.SP()},
			Src:   []temp.Temp{s.rm.SP()},
		})
	}

	return s.rm.RV
}
