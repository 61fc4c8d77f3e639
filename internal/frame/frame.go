// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"

	"tigerc/internal/assem"
	"tigerc/internal/ir"
	"tigerc/internal/label"
	"tigerc/internal/temp"
)

// Access describes where one variable lives: a frame-relative memory
// slot or a register.
type Access interface {
	isAccess()
	// Exp returns the IR expression that reads (or, as a Move
	// destination, writes) the variable, given the expression for the
	// frame pointer of the frame that owns this access. For InReg this
	// ignores fp entirely; for InFrame it is Mem(fp + Offset).
	Exp(fp ir.Exp) ir.Exp
}

// InFrame is a memory-resident access at a fixed, frame-relative
// negative offset (an escaping variable, or a spill slot).
type InFrame struct {
	Offset int
}

func (InFrame) isAccess() {}

func (a InFrame) Exp(fp ir.Exp) ir.Exp {
	return &ir.MemExp{Addr: &ir.BinopExp{Op: ir.Plus, L: fp, R: &ir.ConstExp{Value: int64(a.Offset)}}}
}

// InReg is a register-resident access (a non-escaping variable).
type InReg struct {
	Temp temp.Temp
}

func (InReg) isAccess() {}

func (a InReg) Exp(ir.Exp) ir.Exp {
	return &ir.TempExp{T: a.Temp}
}

// Frame is one procedure's activation record: its entry label, its
// formal-parameter accesses (formal 0 is always the static link for a
// non-top-level frame), and the growing negative offset locals and
// spill slots are allocated from.
type Frame struct {
	Name    label.Label
	formals []Access

	stackOffset int // next free offset is always <= this; starts at 0.
	temps       *temp.Factory
}

// NewFrame builds a frame for a procedure named by name. formalEscapes
// gives one escape flag per formal *including* the leading static link,
// which the caller must always mark escaping==true: nested procedures
// reach an enclosing frame's static link only through memory, never a
// register, since the link must survive across whatever calls happen
// inside the body.
func NewFrame(name label.Label, formalEscapes []bool, temps *temp.Factory) *Frame {
	f := &Frame{Name: name, temps: temps}
	for _, esc := range formalEscapes {
		f.formals = append(f.formals, f.AllocLocal(esc))
	}
	return f
}

// Formals returns the frame's formal-parameter accesses in declaration
// order, formals[0] being the static link.
func (f *Frame) Formals() []Access {
	out := make([]Access, len(f.formals))
	copy(out, f.formals)
	return out
}

// StaticLink is shorthand for Formals()[0].
func (f *Frame) StaticLink() Access {
	return f.formals[0]
}

// AllocLocal allocates one new local slot (spec §4.4): an escaping
// local grows the frame by one word and returns an InFrame access; a
// non-escaping local is simply a fresh temp.
func (f *Frame) AllocLocal(escape bool) Access {
	if escape {
		f.stackOffset -= WordSize
		return InFrame{Offset: f.stackOffset}
	}
	return InReg{Temp: f.temps.New()}
}

// Size returns the frame's size in bytes as currently known: the
// negation of the most negative offset handed out so far. It grows
// monotonically as AllocLocal is called by translation and, later, by
// the spill rewriter (spec §4.9).
func (f *Frame) Size() int {
	return -f.stackOffset
}

// FrameSizeSymbol returns the assembler `.set` symbol name for f's
// frame size, e.g. "tigermain_framesize" (spec §4.4, §6).
func (f *Frame) FrameSizeSymbol() string {
	return fmt.Sprintf("%s_framesize", f.Name.Name())
}

// ProcEntryExit1 performs the view shift: it prepends, to body, moves
// from each incoming argument (register for the first six formals,
// stack slot for the rest) into that formal's Access, and appends a
// move of bodyResult into the return-value register. fp is the IR
// expression for this frame's own frame pointer (an abstract FP temp
// read, before instruction selection rewrites it to a %rsp-relative
// leaq).
func ProcEntryExit1(f *Frame, rm *RegManager, fp ir.Exp, bodyResult ir.Exp) ir.Stm {
	argRegs := rm.ArgRegs()

	var shift ir.Stm
	for i, formal := range f.formals {
		var src ir.Exp
		if i < len(argRegs) {
			src = &ir.TempExp{T: argRegs[i]}
		} else {
			beyond := i - len(argRegs)
			offset := int64((beyond+2)*WordSize)
			src = &ir.MemExp{Addr: &ir.BinopExp{Op: ir.Plus, L: fp, R: &ir.ConstExp{Value: offset}}}
		}
		move := &ir.Move{Dst: formal.Exp(fp), Src: src}
		if shift == nil {
			shift = move
		} else {
			shift = &ir.Seq{S1: shift, S2: move}
		}
	}

	result := &ir.Move{Dst: &ir.TempExp{T: rm.RV}, Src: bodyResult}
	if shift == nil {
		return result
	}
	return &ir.Seq{S1: shift, S2: result}
}

// ProcEntryExit2 appends the ReturnSink: a use-only OperInstr whose
// operands are the callee-save registers plus the return-value and
// stack-pointer registers, so the allocator treats them as live to the
// very end of the procedure and never frees them for reuse before the
// epilog reads them back (spec §4.4, §9's resolved open question).
func ProcEntryExit2(rm *RegManager, body []assem.Instr) []assem.Instr {
	uses := append([]temp.Temp{}, rm.CalleeSaves()...)
	uses = append(uses, rm.RV, rm.SP())
	sink := &assem.OperInstr{Assem: "", Src: uses}
	return append(body, sink)
}
