// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler wires the back end's passes into one pipeline:
// escape analysis, translate, canonicalize, select, allocate, emit, one
// procedure
// fragment at a time. Context bundles the process-wide factories and
// ABI description the spec's Design Notes call for (§5, §9) as an
// ordinary value rather than package-level state; the per-procedure
// dispatch loop below follows cmd/internal/gc/gen.go's top-level
// per-function compilation order, generalized from Go's function list
// to the translator's fragment list.
package compiler

import (
	"tigerc/internal/ast"
	"tigerc/internal/canon"
	"tigerc/internal/emit"
	"tigerc/internal/escape"
	"tigerc/internal/fragment"
	"tigerc/internal/frame"
	"tigerc/internal/label"
	"tigerc/internal/munch"
	"tigerc/internal/regalloc"
	"tigerc/internal/symbol"
	"tigerc/internal/temp"
	"tigerc/internal/translate"
)

// Context bundles the factories and ABI description every pass needs,
// threaded explicitly instead of held in package-level variables.
type Context struct {
	Temps      *temp.Factory
	Labels     *label.Factory
	Syms       *symbol.Table
	RegManager *frame.RegManager
}

// NewContext builds a fresh Context: a temp factory, a label factory,
// an empty symbol table, and a RegManager seeded with a fresh abstract
// frame-pointer temp.
func NewContext() *Context {
	temps := temp.NewFactory()
	fp := temps.New()
	return &Context{
		Temps:      temps,
		Labels:     label.NewFactory(),
		Syms:       symbol.NewTable(),
		RegManager: frame.NewRegManager(fp),
	}
}

// CompileProgram translates prog, runs every procedure fragment
// through selection and allocation, and renders the result as one `.s`
// text file.
func CompileProgram(ctx *Context, prog ast.Exp) string {
	escape.Analyze(prog)

	tr := translate.NewTranslator(ctx.Temps, ctx.Labels, ctx.Syms, ctx.RegManager)
	frags := translate.TranslateProgram(tr, prog)

	var procs []emit.Proc
	var strs []emit.StringLiteral

	for _, frag := range frags {
		switch f := frag.(type) {
		case *fragment.ProcFrag:
			procs = append(procs, compileProc(ctx, f))
		case *fragment.StringFrag:
			strs = append(strs, emit.StringLiteral{Label: f.L.Name(), Value: f.Value})
		}
	}

	return emit.Program(procs, strs, ctx.RegManager)
}

// compileProc runs one procedure fragment through canonicalization,
// instruction selection, the return sink, and iterated register
// allocation.
func compileProc(ctx *Context, f *fragment.ProcFrag) emit.Proc {
	stmts := canon.Canonicalize(ctx.Temps, f.Body)
	instrs := munch.Select(stmts, f.Frame, ctx.RegManager, ctx.Temps)
	instrs = frame.ProcEntryExit2(ctx.RegManager, instrs)
	instrs = regalloc.Allocate(instrs, f.Frame, ctx.RegManager, ctx.Temps)
	return emit.Proc{Frame: f.Frame, Instrs: instrs}
}
