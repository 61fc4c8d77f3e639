// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package escape implements the escape analysis pass (spec §4.1): a
// recursive AST traversal carrying two inherited attributes, the
// current lexical depth and a scoped symbol->declaration-site map, that
// marks every variable and parameter declaration escaping iff some use
// of it occurs strictly deeper than where it was declared. The flag is
// only ever set, never cleared (spec T6), mirroring the monotone
// escalation cmd/internal/gc/esc.go performs for Go's own (far richer)
// escape analysis, generalized here to the spec's much simpler
// lexical-depth rule.
package escape

import (
	"tigerc/internal/ast"
	"tigerc/internal/diag"
	"tigerc/internal/symtab"
)

// decl records where a variable was declared: its lexical depth and a
// pointer back to the AST field that should be set to true once a
// deeper use is found.
type decl struct {
	depth  int
	escape *bool
}

// Analyze walks prog, setting the Escape field of every VarDec, ForExp,
// and function Field (parameter) it reaches, in place.
func Analyze(prog ast.Exp) {
	tab := symtab.New[decl]()
	traverseExp(prog, 0, tab)
}

func traverseExp(e ast.Exp, depth int, tab *symtab.Table[decl]) {
	switch n := e.(type) {
	case *ast.VarExp:
		traverseVar(n.V, depth, tab)
	case *ast.IntExp, *ast.NilExp, *ast.StringExp, *ast.BreakExp:
		// No variable references.
	case *ast.CallExp:
		for _, arg := range n.Args {
			traverseExp(arg, depth, tab)
		}
	case *ast.OpExp:
		traverseExp(n.Left, depth, tab)
		traverseExp(n.Right, depth, tab)
	case *ast.RecordExp:
		for _, f := range n.Fields {
			traverseExp(f.Value, depth, tab)
		}
	case *ast.ArrayExp:
		traverseExp(n.Size, depth, tab)
		traverseExp(n.Init, depth, tab)
	case *ast.SeqExp:
		for _, s := range n.Exps {
			traverseExp(s, depth, tab)
		}
	case *ast.AssignExp:
		traverseVar(n.Var, depth, tab)
		traverseExp(n.Value, depth, tab)
	case *ast.IfExp:
		traverseExp(n.Cond, depth, tab)
		traverseExp(n.Then, depth, tab)
		if n.Else != nil {
			traverseExp(n.Else, depth, tab)
		}
	case *ast.WhileExp:
		traverseExp(n.Cond, depth, tab)
		traverseExp(n.Body, depth, tab)
	case *ast.ForExp:
		traverseExp(n.Lo, depth, tab)
		traverseExp(n.Hi, depth, tab)
		n.Escape = false
		tab.BeginScope()
		tab.Enter(n.Var, decl{depth: depth, escape: &n.Escape})
		traverseExp(n.Body, depth, tab)
		tab.EndScope()
	case *ast.LetExp:
		tab.BeginScope()
		for _, d := range n.Decs {
			traverseDec(d, depth, tab)
		}
		traverseExp(n.Body, depth, tab)
		tab.EndScope()
	default:
		diag.Fatalf("escape: unhandled expression node %T", e)
	}
}

func traverseVar(v ast.Var, depth int, tab *symtab.Table[decl]) {
	switch n := v.(type) {
	case *ast.SimpleVar:
		if d, ok := tab.Look(n.Sym); ok && depth > d.depth {
			*d.escape = true
		}
	case *ast.FieldVar:
		traverseVar(n.Base, depth, tab)
	case *ast.SubscriptVar:
		traverseVar(n.Base, depth, tab)
		traverseExp(n.Index, depth, tab)
	default:
		diag.Fatalf("escape: unhandled var node %T", v)
	}
}

func traverseDec(d ast.Dec, depth int, tab *symtab.Table[decl]) {
	switch n := d.(type) {
	case *ast.VarDec:
		traverseExp(n.Init, depth, tab)
		n.Escape = false
		tab.Enter(n.Name, decl{depth: depth, escape: &n.Escape})
	case *ast.FunctionDec:
		for _, fn := range n.Functions {
			tab.BeginScope()
			for _, p := range fn.Params {
				p.Escape = false
				tab.Enter(p.Name, decl{depth: depth + 1, escape: &p.Escape})
			}
			traverseExp(fn.Body, depth+1, tab)
			tab.EndScope()
		}
	case *ast.TypeDec:
		// Type declarations introduce no variables.
	default:
		diag.Fatalf("escape: unhandled declaration node %T", d)
	}
}
