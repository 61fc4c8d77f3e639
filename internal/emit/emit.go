// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit renders a compiled procedure list and string fragments
// as a single AT&T-syntax `.s` text file (spec §6): a `.text` section
// with each procedure's prolog, allocated body, and epilog, and a
// `.data` section with each string literal as a length-prefixed byte
// block. Prolog/epilog shape (the `.set framesize` symbol, the
// subq/addq stack-adjustment pair) is modeled on x86/obj6.go's
// preprocess, stripped of Go's stack-split check and g register (this
// target has neither).
package emit

import (
	"fmt"
	"strings"

	"tigerc/internal/assem"
	"tigerc/internal/frame"
)

// Proc is one procedure ready for emission: its frame (final size known
// only after register allocation's spill rewriting) and its fully
// allocated instruction list (every temp operand precolored).
type Proc struct {
	Frame  *frame.Frame
	Instrs []assem.Instr
}

// StringLiteral is one string fragment ready for emission.
type StringLiteral struct {
	Label string
	Value string
}

// Program renders every proc and string literal into one `.s` file.
func Program(procs []Proc, strLits []StringLiteral, rm *frame.RegManager) string {
	var b strings.Builder

	b.WriteString(".text\n")
	for _, p := range procs {
		writeProc(&b, p, rm)
	}

	if len(strLits) > 0 {
		b.WriteString(".data\n")
		for _, s := range strLits {
			writeString(&b, s)
		}
	}

	return b.String()
}

func writeProc(b *strings.Builder, p Proc, rm *frame.RegManager) {
	name := p.Frame.Name.Name()
	sym := p.Frame.FrameSizeSymbol()

	fmt.Fprintf(b, ".set %s, %d\n", sym, p.Frame.Size())
	fmt.Fprintf(b, "%s:\n", name)
	fmt.Fprintf(b, "\tsubq $%s, %%rsp\n", sym)

	for _, instr := range p.Instrs {
		line := formatInstr(instr, rm)
		if line == "" {
			continue
		}
		switch instr.(type) {
		case *assem.LabelInstr:
			fmt.Fprintf(b, "%s\n", line)
		default:
			fmt.Fprintf(b, "\t%s\n", line)
		}
	}

	fmt.Fprintf(b, "\taddq $%s, %%rsp\n", sym)
	b.WriteString("\tretq\n")
}

func formatInstr(instr assem.Instr, rm *frame.RegManager) string {
	return assem.Format(instr, rm.Name)
}

func writeString(b *strings.Builder, s StringLiteral) {
	fmt.Fprintf(b, "%s:\n", s.Label)
	fmt.Fprintf(b, "\t.quad %d\n", len(s.Value))
	fmt.Fprintf(b, "\t.ascii %q\n", s.Value)
}
