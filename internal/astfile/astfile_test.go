// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astfile

import (
	"testing"

	"tigerc/internal/ast"
	"tigerc/internal/symbol"
)

func TestEncodeDecodeRoundTripsArithmeticProgram(t *testing.T) {
	syms := symbol.NewTable()
	x := syms.Intern("x")

	prog := &ast.LetExp{
		Decs: []ast.Dec{
			&ast.VarDec{Name: x, Init: &ast.IntExp{Value: 41}},
		},
		Body: &ast.OpExp{
			Op:    ast.OpPlus,
			Left:  &ast.VarExp{V: &ast.SimpleVar{Sym: x}},
			Right: &ast.IntExp{Value: 1},
		},
	}

	data, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data, syms)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	let, ok := got.(*ast.LetExp)
	if !ok {
		t.Fatalf("decoded root is %T, want *ast.LetExp", got)
	}
	if len(let.Decs) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(let.Decs))
	}
	vd, ok := let.Decs[0].(*ast.VarDec)
	if !ok {
		t.Fatalf("decoded decl is %T, want *ast.VarDec", let.Decs[0])
	}
	if vd.Name.String() != "x" {
		t.Fatalf("decoded var name = %q, want x", vd.Name.String())
	}
	op, ok := let.Body.(*ast.OpExp)
	if !ok {
		t.Fatalf("decoded body is %T, want *ast.OpExp", let.Body)
	}
	if op.Op != ast.OpPlus {
		t.Fatalf("decoded op = %v, want OpPlus", op.Op)
	}
}

func TestEncodeDecodeRoundTripsFunctionAndCall(t *testing.T) {
	syms := symbol.NewTable()
	fact := syms.Intern("fact")
	n := syms.Intern("n")
	intTy := syms.Intern("int")

	prog := &ast.LetExp{
		Decs: []ast.Dec{
			&ast.FunctionDec{Functions: []*ast.FunDec{
				{
					Name:       fact,
					Params:     []*ast.Field{{Name: n, Type: intTy}},
					ResultType: &intTy,
					Body: &ast.IfExp{
						Cond: &ast.OpExp{Op: ast.OpEq, Left: &ast.VarExp{V: &ast.SimpleVar{Sym: n}}, Right: &ast.IntExp{Value: 0}},
						Then: &ast.IntExp{Value: 1},
						Else: &ast.OpExp{
							Op:   ast.OpTimes,
							Left: &ast.VarExp{V: &ast.SimpleVar{Sym: n}},
							Right: &ast.CallExp{Func: fact, Args: []ast.Exp{
								&ast.OpExp{Op: ast.OpMinus, Left: &ast.VarExp{V: &ast.SimpleVar{Sym: n}}, Right: &ast.IntExp{Value: 1}},
							}},
						},
					},
				},
			}},
		},
		Body: &ast.CallExp{Func: fact, Args: []ast.Exp{&ast.IntExp{Value: 5}}},
	}

	data, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data, symbol.NewTable())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	let := got.(*ast.LetExp)
	fd := let.Decs[0].(*ast.FunctionDec)
	if len(fd.Functions) != 1 || fd.Functions[0].Name.String() != "fact" {
		t.Fatalf("decoded function group does not round-trip: %+v", fd)
	}
	if fd.Functions[0].ResultType == nil || fd.Functions[0].ResultType.String() != "int" {
		t.Fatalf("result type did not round-trip: %+v", fd.Functions[0].ResultType)
	}
	call, ok := let.Body.(*ast.CallExp)
	if !ok || call.Func.String() != "fact" {
		t.Fatalf("decoded body is not a call to fact: %+v", let.Body)
	}
}

func TestEncodeDecodeRoundTripsRecordAndArrayTypes(t *testing.T) {
	syms := symbol.NewTable()
	point := syms.Intern("point")
	intTy := syms.Intern("int")
	intArray := syms.Intern("intArray")
	xField := syms.Intern("x")

	prog := &ast.LetExp{
		Decs: []ast.Dec{
			&ast.TypeDec{Types: []ast.TypeDecEntry{
				{Name: point, Ty: &ast.RecordTy{Fields: []*ast.Field{{Name: xField, Type: intTy}}}},
				{Name: intArray, Ty: &ast.ArrayTy{Elem: intTy}},
			}},
		},
		Body: &ast.RecordExp{Type: point, Fields: []ast.RecordField{{Name: xField, Value: &ast.IntExp{Value: 3}}}},
	}

	data, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data, syms)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	let := got.(*ast.LetExp)
	td := let.Decs[0].(*ast.TypeDec)
	if len(td.Types) != 2 {
		t.Fatalf("expected 2 type decl entries, got %d", len(td.Types))
	}
	rt, ok := td.Types[0].Ty.(*ast.RecordTy)
	if !ok || len(rt.Fields) != 1 || rt.Fields[0].Type.String() != "int" {
		t.Fatalf("record type did not round-trip: %+v", td.Types[0].Ty)
	}
	at, ok := td.Types[1].Ty.(*ast.ArrayTy)
	if !ok || at.Elem.String() != "int" {
		t.Fatalf("array type did not round-trip: %+v", td.Types[1].Ty)
	}
	rec, ok := let.Body.(*ast.RecordExp)
	if !ok || rec.Type.String() != "point" {
		t.Fatalf("record literal did not round-trip: %+v", let.Body)
	}
}

func TestEncodeDecodeRoundTripsForWhileAndBreak(t *testing.T) {
	syms := symbol.NewTable()
	i := syms.Intern("i")

	prog := &ast.ForExp{
		Var: i,
		Lo:  &ast.IntExp{Value: 0},
		Hi:  &ast.IntExp{Value: 10},
		Body: &ast.IfExp{
			Cond: &ast.OpExp{Op: ast.OpEq, Left: &ast.VarExp{V: &ast.SimpleVar{Sym: i}}, Right: &ast.IntExp{Value: 5}},
			Then: &ast.BreakExp{},
		},
	}

	data, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data, syms)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	fe, ok := got.(*ast.ForExp)
	if !ok || fe.Var.String() != "i" {
		t.Fatalf("for loop did not round-trip: %+v", got)
	}
	ie, ok := fe.Body.(*ast.IfExp)
	if !ok {
		t.Fatalf("for body is %T, want *ast.IfExp", fe.Body)
	}
	if _, ok := ie.Then.(*ast.BreakExp); !ok {
		t.Fatalf("if-then is %T, want *ast.BreakExp", ie.Then)
	}
}
