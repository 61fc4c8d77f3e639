// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assem defines abstract assembly: the maximal-munch
// instruction selector's output, still in terms of unbounded
// temp.Temp values rather than machine registers. The three-kind shape
// (Oper, Move, Label) mirrors cmd/internal/obj.Prog's As/From/To fields
// generalized to a target-agnostic instruction record, and the
// Assembly-template-plus-operand-list representation is the one Appel's
// book uses for maximal munch so that a later pass can substitute
// assigned register names without re-parsing text.
package assem

import (
	"strings"

	"tigerc/internal/label"
	"tigerc/internal/temp"
)

// Instr is implemented by every abstract instruction kind.
type Instr interface {
	instrNode()
	// Uses returns the temps this instruction reads.
	Uses() []temp.Temp
	// Defs returns the temps this instruction writes.
	Defs() []temp.Temp
}

// OperInstr is an ordinary operation: an assembly template with `s`
// (source) and `d` (destination) operand placeholders, plus the jump
// targets it may fall through to or branch to (nil for non-control-flow
// instructions).
type OperInstr struct {
	Assem string
	Dst   []temp.Temp
	Src   []temp.Temp
	Jumps []label.Label // nil unless this instruction can transfer control.
}

func (*OperInstr) instrNode()          {}
func (o *OperInstr) Uses() []temp.Temp { return o.Src }
func (o *OperInstr) Defs() []temp.Temp { return o.Dst }

// MoveInstr is a register-to-register move between two temps: the
// only instruction kind eligible for coalescing (spec §4.3), since
// coalescing a move into nothing is only sound when src and dst could
// have shared one temp in the first place.
type MoveInstr struct {
	Assem string
	Dst   temp.Temp
	Src   temp.Temp
}

func (*MoveInstr) instrNode()          {}
func (m *MoveInstr) Uses() []temp.Temp { return []temp.Temp{m.Src} }
func (m *MoveInstr) Defs() []temp.Temp { return []temp.Temp{m.Dst} }

// LabelInstr marks a code address with L. It neither uses nor defines
// any temp.
type LabelInstr struct {
	Assem string
	L     label.Label
}

func (*LabelInstr) instrNode()        {}
func (*LabelInstr) Uses() []temp.Temp { return nil }
func (*LabelInstr) Defs() []temp.Temp { return nil }

// Format substitutes each `'sN` / `'dN` placeholder in an OperInstr or
// MoveInstr's Assem template with the machine name names provides for
// that operand's temp, and each `'jN` placeholder (OperInstr only) with
// the Nth jump target's label name. It is the emitter's sole use of
// this package after allocation: by that point every temp in names has
// a machine color.
func Format(i Instr, names func(temp.Temp) string) string {
	switch instr := i.(type) {
	case *OperInstr:
		return format(instr.Assem, instr.Dst, instr.Src, instr.Jumps, names)
	case *MoveInstr:
		return format(instr.Assem, []temp.Temp{instr.Dst}, []temp.Temp{instr.Src}, nil, names)
	case *LabelInstr:
		return instr.Assem
	default:
		panic("assem: Format of unknown instruction kind")
	}
}

func format(template string, dst, src []temp.Temp, jumps []label.Label, names func(temp.Temp) string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\'' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		kind := template[i+1]
		j := i + 2
		start := j
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			j++
		}
		n := atoi(template[start:j])
		switch kind {
		case 's':
			b.WriteString("%" + names(src[n]))
		case 'd':
			b.WriteString("%" + names(dst[n]))
		case 'j':
			b.WriteString(jumps[n].Name())
		default:
			b.WriteByte(c)
			b.WriteByte(kind)
			j = i + 2
		}
		i = j - 1
	}
	return b.String()
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
