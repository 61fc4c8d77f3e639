// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir defines the tree-shaped intermediate representation the
// translator produces and the instruction selector consumes: two
// mutually recursive sum types, Stm (statements) and Exp (expressions),
// per spec §3's data model. Node kinds are tagged variants (interfaces
// implemented by pointer types, dispatched with type switches), the
// same restructuring cmd/internal/gc/gen.go's Op-tag switch receives
// here, generalized from Go's own statement/expression set to Tiger's.
package ir

import (
	"tigerc/internal/label"
	"tigerc/internal/temp"
)

// Stm is implemented by every IR statement variant.
type Stm interface {
	stmNode()
}

// Exp is implemented by every IR expression variant.
type Exp interface {
	expNode()
}

// BinOp is an arithmetic or bitwise binary operator.
type BinOp int

const (
	Plus BinOp = iota
	Minus
	Times
	Div
	And
	Or
)

// RelOp is a comparison relation used by CJump.
type RelOp int

const (
	EQ RelOp = iota
	NE
	LT
	GT
	LE
	GE
)

// Negate returns the relation that holds exactly when r does not, used
// when the instruction selector or translator needs to flip a branch
// (e.g. to fall through to the true case instead of the false case).
func (r RelOp) Negate() RelOp {
	switch r {
	case EQ:
		return NE
	case NE:
		return EQ
	case LT:
		return GE
	case GE:
		return LT
	case LE:
		return GT
	case GT:
		return LE
	default:
		panic("ir: Negate of unknown RelOp")
	}
}

// --- Statements ---

// Seq sequences S1 then S2. Canonicalization flattens and ultimately
// eliminates nested Seqs in favor of a flat statement list, but Seq
// itself remains the translator's natural output form.
type Seq struct {
	S1, S2 Stm
}

func (*Seq) stmNode() {}

// LabelStm marks the current position with L, the sole entry point
// addressable by that name.
type LabelStm struct {
	L label.Label
}

func (*LabelStm) stmNode() {}

// Jump transfers control to the address computed by Exp. Targets lists
// every label Exp may evaluate to — a single entry for a direct jump,
// multiple only for switch-style lowering, which this back end does not
// generate but which the type preserves for fidelity to the source
// specification.
type Jump struct {
	Exp     Exp
	Targets []label.Label
}

func (*Jump) stmNode() {}

// CJump transfers control to TLabel if L Relop R holds, else to
// FLabel. Both labels are always present after translation; the
// instruction selector tiles the false branch as an explicit jmp to
// FLabel.
type CJump struct {
	Relop  RelOp
	L, R   Exp
	TLabel label.Label
	FLabel label.Label
}

func (*CJump) stmNode() {}

// Move evaluates Src and stores it into Dst, which must be a Temp or a
// Mem (an invariant the translator and canonicalizer must preserve; a
// violation is an invariant-violation error, never silently tolerated).
type Move struct {
	Dst, Src Exp
}

func (*Move) stmNode() {}

// ExpStm evaluates Exp and discards its value, keeping only its side
// effects (used for e.g. a bare CallExp in statement position).
type ExpStm struct {
	Exp Exp
}

func (*ExpStm) stmNode() {}

// --- Expressions ---

// ConstExp is an integer literal.
type ConstExp struct {
	Value int64
}

func (*ConstExp) expNode() {}

// NameExp is a reference to a label's address (e.g. a string literal's
// location, or a called function's entry point before call lowering).
type NameExp struct {
	L label.Label
}

func (*NameExp) expNode() {}

// TempExp reads T's current value. The distinguished frame-pointer temp
// is never colored directly; the instruction selector rewrites it to a
// `%rsp`-relative leaq (spec §4.3).
type TempExp struct {
	T temp.Temp
}

func (*TempExp) expNode() {}

// BinopExp applies Op to L and R.
type BinopExp struct {
	Op   BinOp
	L, R Exp
}

func (*BinopExp) expNode() {}

// MemExp dereferences the address computed by Addr, reading (as an Exp)
// or writing (as a Move destination) one word at that address.
type MemExp struct {
	Addr Exp
}

func (*MemExp) expNode() {}

// CallExp invokes the procedure addressed by Fn with Args evaluated
// left-to-right; its value is the callee's return value in %rax. After
// canonicalization a CallExp appears only as a Move's source or an
// ExpStm's operand (spec §3 invariant).
type CallExp struct {
	Fn   Exp
	Args []Exp
}

func (*CallExp) expNode() {}

// EseqExp evaluates Stm for effect, then yields Exp's value.
// Canonicalization eliminates every EseqExp; it is legal only before
// that pass runs.
type EseqExp struct {
	Stm Stm
	Exp Exp
}

func (*EseqExp) expNode() {}
