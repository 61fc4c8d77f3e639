// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astfile reads and writes the typed-AST JSON fixture format
// `cmd/tigerc` consumes in place of a real semantic analyzer's output
// (spec "Driver & AST fixture format"). JSON is a system boundary, not
// an internal data-interchange choice the rest of the back end gets a
// say in, so this package uses only encoding/json: no pack repository
// shows a third-party JSON library used for a compiler's own test
// fixtures, and every JSON library in the retrieved manifests belongs to
// an HTTP or config-file concern unrelated to this one.
package astfile

import (
	"encoding/json"
	"fmt"

	"tigerc/internal/ast"
	"tigerc/internal/symbol"
)

// node is the on-disk shape of one tree node. Kind selects which of the
// remaining, mostly-omitempty fields are meaningful; this mirrors the
// single tagged-union-with-exhaustive-switch style the ast package
// itself uses, just serialized.
type node struct {
	Kind string `json:"kind"`
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`

	IntValue      *int64  `json:"int_value,omitempty"`
	StrValue      string  `json:"str_value,omitempty"`
	Sym           string  `json:"sym,omitempty"`
	Func          string  `json:"func,omitempty"`
	TypeName      string  `json:"type_name,omitempty"`
	Field         string  `json:"field,omitempty"`
	Index         int     `json:"index,omitempty"`
	Op            string  `json:"op,omitempty"`
	StringCompare bool    `json:"string_compare,omitempty"`
	ResultType    *string `json:"result_type,omitempty"`

	Base  *node `json:"base,omitempty"`
	Left  *node `json:"left,omitempty"`
	Right *node `json:"right,omitempty"`
	Cond  *node `json:"cond,omitempty"`
	Then  *node `json:"then,omitempty"`
	Else  *node `json:"else,omitempty"`
	Lo    *node `json:"lo,omitempty"`
	Hi    *node `json:"hi,omitempty"`
	Body  *node `json:"body,omitempty"`
	Init  *node `json:"init,omitempty"`
	Var   *node `json:"var,omitempty"`
	Value *node `json:"value,omitempty"`
	Size  *node `json:"size,omitempty"`

	Args      []*node          `json:"args,omitempty"`
	Exps      []*node          `json:"exps,omitempty"`
	Decs      []*node          `json:"decs,omitempty"`
	Fields    []recordFieldRaw `json:"fields,omitempty"`
	Functions []funDecRaw      `json:"functions,omitempty"`
	Params    []fieldRaw       `json:"params,omitempty"`
	Types     []typeEntryRaw   `json:"types,omitempty"`
}

type recordFieldRaw struct {
	Name  string `json:"name"`
	Value *node  `json:"value"`
}

type fieldRaw struct {
	Name   string `json:"name"`
	Escape bool   `json:"escape,omitempty"`
	Type   string `json:"type"`
}

type funDecRaw struct {
	Name       string     `json:"name"`
	Params     []fieldRaw `json:"params"`
	ResultType *string    `json:"result_type,omitempty"`
	Body       *node      `json:"body"`
}

type typeEntryRaw struct {
	Name string `json:"name"`
	Ty   *node  `json:"ty"`
}

// Encode renders prog as a JSON fixture.
func Encode(prog ast.Exp) ([]byte, error) {
	return json.MarshalIndent(encodeExp(prog), "", "  ")
}

// Decode parses a JSON fixture into an ast.Exp, interning every name it
// mentions in syms.
func Decode(data []byte, syms *symbol.Table) (ast.Exp, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("astfile: %w", err)
	}
	d := &decoder{syms: syms}
	return d.exp(&n), nil
}

func pos(n *node) ast.Pos { return ast.Pos{Line: n.Line, Col: n.Col} }

// --- decode ---

type decoder struct {
	syms *symbol.Table
}

func (d *decoder) sym(name string) symbol.Symbol { return d.syms.Intern(name) }

func (d *decoder) exp(n *node) ast.Exp {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case "simplevar", "fieldvar", "subscriptvar":
		return &ast.VarExp{Pos: pos(n), V: d.varNode(n)}
	case "int":
		v := int64(0)
		if n.IntValue != nil {
			v = *n.IntValue
		}
		return &ast.IntExp{Pos: pos(n), Value: v}
	case "nil":
		return &ast.NilExp{Pos: pos(n)}
	case "string":
		return &ast.StringExp{Pos: pos(n), Value: n.StrValue}
	case "call":
		return &ast.CallExp{Pos: pos(n), Func: d.sym(n.Func), Args: d.exps(n.Args)}
	case "op":
		return &ast.OpExp{
			Pos: pos(n), Op: opFromString(n.Op),
			Left: d.exp(n.Left), Right: d.exp(n.Right),
			StringCompare: n.StringCompare,
		}
	case "record":
		fields := make([]ast.RecordField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = ast.RecordField{Name: d.sym(f.Name), Value: d.exp(f.Value)}
		}
		return &ast.RecordExp{Pos: pos(n), Type: d.sym(n.TypeName), Fields: fields}
	case "array":
		return &ast.ArrayExp{Pos: pos(n), Type: d.sym(n.TypeName), Size: d.exp(n.Size), Init: d.exp(n.Init)}
	case "seq":
		return &ast.SeqExp{Pos: pos(n), Exps: d.exps(n.Exps)}
	case "assign":
		return &ast.AssignExp{Pos: pos(n), Var: d.varNode(n.Var), Value: d.exp(n.Value)}
	case "if":
		return &ast.IfExp{Pos: pos(n), Cond: d.exp(n.Cond), Then: d.exp(n.Then), Else: d.exp(n.Else)}
	case "while":
		return &ast.WhileExp{Pos: pos(n), Cond: d.exp(n.Cond), Body: d.exp(n.Body)}
	case "for":
		return &ast.ForExp{Pos: pos(n), Var: d.sym(n.Sym), Lo: d.exp(n.Lo), Hi: d.exp(n.Hi), Body: d.exp(n.Body)}
	case "break":
		return &ast.BreakExp{Pos: pos(n)}
	case "let":
		decs := make([]ast.Dec, len(n.Decs))
		for i, dn := range n.Decs {
			decs[i] = d.dec(dn)
		}
		return &ast.LetExp{Pos: pos(n), Decs: decs, Body: d.exp(n.Body)}
	default:
		panic(fmt.Sprintf("astfile: unknown expression kind %q", n.Kind))
	}
}

func (d *decoder) exps(ns []*node) []ast.Exp {
	if ns == nil {
		return nil
	}
	out := make([]ast.Exp, len(ns))
	for i, n := range ns {
		out[i] = d.exp(n)
	}
	return out
}

func (d *decoder) varNode(n *node) ast.Var {
	switch n.Kind {
	case "simplevar":
		return &ast.SimpleVar{Pos: pos(n), Sym: d.sym(n.Sym)}
	case "fieldvar":
		return &ast.FieldVar{Pos: pos(n), Base: d.varNode(n.Base), Field: d.sym(n.Field), Index: n.Index}
	case "subscriptvar":
		return &ast.SubscriptVar{Pos: pos(n), Base: d.varNode(n.Base), Index: d.exp(n.Value)}
	default:
		panic(fmt.Sprintf("astfile: expected a var kind, got %q", n.Kind))
	}
}

func (d *decoder) dec(n *node) ast.Dec {
	switch n.Kind {
	case "vardec":
		var tySym *symbol.Symbol
		if n.TypeName != "" {
			s := d.sym(n.TypeName)
			tySym = &s
		}
		return &ast.VarDec{Pos: pos(n), Name: d.sym(n.Sym), Type: tySym, Init: d.exp(n.Init)}
	case "functiondec":
		funcs := make([]*ast.FunDec, len(n.Functions))
		for i, f := range n.Functions {
			funcs[i] = d.funDec(f)
		}
		return &ast.FunctionDec{Pos: pos(n), Functions: funcs}
	case "typedec":
		entries := make([]ast.TypeDecEntry, len(n.Types))
		for i, te := range n.Types {
			entries[i] = ast.TypeDecEntry{Pos: pos(te.Ty), Name: d.sym(te.Name), Ty: d.ty(te.Ty)}
		}
		return &ast.TypeDec{Pos: pos(n), Types: entries}
	default:
		panic(fmt.Sprintf("astfile: unknown declaration kind %q", n.Kind))
	}
}

func (d *decoder) funDec(f funDecRaw) *ast.FunDec {
	params := make([]*ast.Field, len(f.Params))
	for i, p := range f.Params {
		params[i] = &ast.Field{Name: d.sym(p.Name), Escape: p.Escape, Type: d.sym(p.Type)}
	}
	var result *symbol.Symbol
	if f.ResultType != nil {
		s := d.sym(*f.ResultType)
		result = &s
	}
	return &ast.FunDec{Name: d.sym(f.Name), Params: params, ResultType: result, Body: d.exp(f.Body)}
}

func (d *decoder) ty(n *node) ast.Ty {
	switch n.Kind {
	case "nametype":
		return &ast.NameTy{Pos: pos(n), Name: d.sym(n.TypeName)}
	case "recordtype":
		fields := make([]*ast.Field, len(n.Fields))
		for i, rf := range n.Fields {
			// RecordTy reuses recordFieldRaw's Name but its Value node
			// is actually a one-field fieldRaw-shaped payload; record
			// field types are carried via the enclosing Fields[i].Value
			// node's TypeName, a NameTy-shaped encoding of the field's
			// declared type.
			fields[i] = &ast.Field{Name: d.sym(rf.Name), Type: d.sym(rf.Value.TypeName)}
		}
		return &ast.RecordTy{Pos: pos(n), Fields: fields}
	case "arraytype":
		return &ast.ArrayTy{Pos: pos(n), Elem: d.sym(n.TypeName)}
	default:
		panic(fmt.Sprintf("astfile: unknown type kind %q", n.Kind))
	}
}

func opFromString(s string) ast.Op {
	switch s {
	case "+":
		return ast.OpPlus
	case "-":
		return ast.OpMinus
	case "*":
		return ast.OpTimes
	case "/":
		return ast.OpDivide
	case "=":
		return ast.OpEq
	case "<>":
		return ast.OpNeq
	case "<":
		return ast.OpLt
	case "<=":
		return ast.OpLe
	case ">":
		return ast.OpGt
	case ">=":
		return ast.OpGe
	case "&":
		return ast.OpAnd
	case "|":
		return ast.OpOr
	default:
		panic(fmt.Sprintf("astfile: unknown operator %q", s))
	}
}

// --- encode ---

func encodeExp(e ast.Exp) *node {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.VarExp:
		return encodeVar(n.V)
	case *ast.IntExp:
		v := n.Value
		return &node{Kind: "int", Line: n.Pos.Line, Col: n.Pos.Col, IntValue: &v}
	case *ast.NilExp:
		return &node{Kind: "nil", Line: n.Pos.Line, Col: n.Pos.Col}
	case *ast.StringExp:
		return &node{Kind: "string", Line: n.Pos.Line, Col: n.Pos.Col, StrValue: n.Value}
	case *ast.CallExp:
		return &node{Kind: "call", Line: n.Pos.Line, Col: n.Pos.Col, Func: n.Func.String(), Args: encodeExps(n.Args)}
	case *ast.OpExp:
		return &node{
			Kind: "op", Line: n.Pos.Line, Col: n.Pos.Col, Op: n.Op.String(),
			Left: encodeExp(n.Left), Right: encodeExp(n.Right), StringCompare: n.StringCompare,
		}
	case *ast.RecordExp:
		fields := make([]recordFieldRaw, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = recordFieldRaw{Name: f.Name.String(), Value: encodeExp(f.Value)}
		}
		return &node{Kind: "record", Line: n.Pos.Line, Col: n.Pos.Col, TypeName: n.Type.String(), Fields: fields}
	case *ast.ArrayExp:
		return &node{Kind: "array", Line: n.Pos.Line, Col: n.Pos.Col, TypeName: n.Type.String(), Size: encodeExp(n.Size), Init: encodeExp(n.Init)}
	case *ast.SeqExp:
		return &node{Kind: "seq", Line: n.Pos.Line, Col: n.Pos.Col, Exps: encodeExps(n.Exps)}
	case *ast.AssignExp:
		return &node{Kind: "assign", Line: n.Pos.Line, Col: n.Pos.Col, Var: encodeVar(n.Var), Value: encodeExp(n.Value)}
	case *ast.IfExp:
		return &node{Kind: "if", Line: n.Pos.Line, Col: n.Pos.Col, Cond: encodeExp(n.Cond), Then: encodeExp(n.Then), Else: encodeExp(n.Else)}
	case *ast.WhileExp:
		return &node{Kind: "while", Line: n.Pos.Line, Col: n.Pos.Col, Cond: encodeExp(n.Cond), Body: encodeExp(n.Body)}
	case *ast.ForExp:
		return &node{Kind: "for", Line: n.Pos.Line, Col: n.Pos.Col, Sym: n.Var.String(), Lo: encodeExp(n.Lo), Hi: encodeExp(n.Hi), Body: encodeExp(n.Body)}
	case *ast.BreakExp:
		return &node{Kind: "break", Line: n.Pos.Line, Col: n.Pos.Col}
	case *ast.LetExp:
		decs := make([]*node, len(n.Decs))
		for i, d := range n.Decs {
			decs[i] = encodeDec(d)
		}
		return &node{Kind: "let", Line: n.Pos.Line, Col: n.Pos.Col, Decs: decs, Body: encodeExp(n.Body)}
	default:
		panic(fmt.Sprintf("astfile: unknown expression type %T", e))
	}
}

func encodeExps(es []ast.Exp) []*node {
	if es == nil {
		return nil
	}
	out := make([]*node, len(es))
	for i, e := range es {
		out[i] = encodeExp(e)
	}
	return out
}

func encodeVar(v ast.Var) *node {
	switch n := v.(type) {
	case *ast.SimpleVar:
		return &node{Kind: "simplevar", Line: n.Pos.Line, Col: n.Pos.Col, Sym: n.Sym.String()}
	case *ast.FieldVar:
		return &node{Kind: "fieldvar", Line: n.Pos.Line, Col: n.Pos.Col, Base: encodeVar(n.Base), Field: n.Field.String(), Index: n.Index}
	case *ast.SubscriptVar:
		return &node{Kind: "subscriptvar", Line: n.Pos.Line, Col: n.Pos.Col, Base: encodeVar(n.Base), Value: encodeExp(n.Index)}
	default:
		panic(fmt.Sprintf("astfile: unknown var type %T", v))
	}
}

func encodeDec(d ast.Dec) *node {
	switch n := d.(type) {
	case *ast.VarDec:
		var tn string
		if n.Type != nil {
			tn = n.Type.String()
		}
		return &node{Kind: "vardec", Line: n.Pos.Line, Col: n.Pos.Col, Sym: n.Name.String(), TypeName: tn, Init: encodeExp(n.Init)}
	case *ast.FunctionDec:
		funcs := make([]funDecRaw, len(n.Functions))
		for i, f := range n.Functions {
			funcs[i] = encodeFunDec(f)
		}
		return &node{Kind: "functiondec", Line: n.Pos.Line, Col: n.Pos.Col, Functions: funcs}
	case *ast.TypeDec:
		entries := make([]typeEntryRaw, len(n.Types))
		for i, te := range n.Types {
			entries[i] = typeEntryRaw{Name: te.Name.String(), Ty: encodeTy(te.Ty)}
		}
		return &node{Kind: "typedec", Line: n.Pos.Line, Col: n.Pos.Col, Types: entries}
	default:
		panic(fmt.Sprintf("astfile: unknown declaration type %T", d))
	}
}

func encodeFunDec(f *ast.FunDec) funDecRaw {
	params := make([]fieldRaw, len(f.Params))
	for i, p := range f.Params {
		params[i] = fieldRaw{Name: p.Name.String(), Escape: p.Escape, Type: p.Type.String()}
	}
	var result *string
	if f.ResultType != nil {
		s := f.ResultType.String()
		result = &s
	}
	return funDecRaw{Name: f.Name.String(), Params: params, ResultType: result, Body: encodeExp(f.Body)}
}

func encodeTy(t ast.Ty) *node {
	switch n := t.(type) {
	case *ast.NameTy:
		return &node{Kind: "nametype", Line: n.Pos.Line, Col: n.Pos.Col, TypeName: n.Name.String()}
	case *ast.RecordTy:
		fields := make([]recordFieldRaw, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = recordFieldRaw{Name: f.Name.String(), Value: &node{Kind: "nametype", TypeName: f.Type.String()}}
		}
		return &node{Kind: "recordtype", Line: n.Pos.Line, Col: n.Pos.Col, Fields: fields}
	case *ast.ArrayTy:
		return &node{Kind: "arraytype", Line: n.Pos.Line, Col: n.Pos.Col, TypeName: n.Elem.String()}
	default:
		panic(fmt.Sprintf("astfile: unknown type type %T", t))
	}
}
