// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package escape

import (
	"testing"

	"tigerc/internal/ast"
	"tigerc/internal/symbol"
)

// let var x := 0 in let function f() : int = x in f() end end
// x is declared at depth 0 and read inside f's body at depth 1, so it
// must escape.
func TestVariableCapturedByNestedFunctionEscapes(t *testing.T) {
	syms := symbol.NewTable()
	x := syms.Intern("x")
	f := syms.Intern("f")

	xDec := &ast.VarDec{Name: x, Init: &ast.IntExp{Value: 0}}
	fDec := &ast.FunctionDec{Functions: []*ast.FunDec{{
		Name: f,
		Body: &ast.VarExp{V: &ast.SimpleVar{Sym: x}},
	}}}

	prog := &ast.LetExp{
		Decs: []ast.Dec{xDec, fDec},
		Body: &ast.CallExp{Func: f},
	}

	Analyze(prog)

	if !xDec.Escape {
		t.Fatalf("x.Escape = false, want true (captured by nested function f)")
	}
}

// let var x := 0 in x + 1 end
// x is used at the same depth it was declared at, so it must not
// escape.
func TestLocalOnlyUseDoesNotEscape(t *testing.T) {
	syms := symbol.NewTable()
	x := syms.Intern("x")

	xDec := &ast.VarDec{Name: x, Init: &ast.IntExp{Value: 0}}
	prog := &ast.LetExp{
		Decs: []ast.Dec{xDec},
		Body: &ast.OpExp{
			Op:    ast.OpPlus,
			Left:  &ast.VarExp{V: &ast.SimpleVar{Sym: x}},
			Right: &ast.IntExp{Value: 1},
		},
	}

	Analyze(prog)

	if xDec.Escape {
		t.Fatalf("x.Escape = true, want false (only referenced at its own depth)")
	}
}

// for i := 1 to 10 do (function body reading i escapes i).
func TestForLoopVariableCapturedByNestedFunctionEscapes(t *testing.T) {
	syms := symbol.NewTable()
	i := syms.Intern("i")
	g := syms.Intern("g")

	forExp := &ast.ForExp{
		Var: i,
		Lo:  &ast.IntExp{Value: 1},
		Hi:  &ast.IntExp{Value: 10},
		Body: &ast.LetExp{
			Decs: []ast.Dec{&ast.FunctionDec{Functions: []*ast.FunDec{{
				Name: g,
				Body: &ast.VarExp{V: &ast.SimpleVar{Sym: i}},
			}}}},
			Body: &ast.CallExp{Func: g},
		},
	}

	Analyze(forExp)

	if !forExp.Escape {
		t.Fatalf("for-loop variable did not escape despite nested-function capture")
	}
}
