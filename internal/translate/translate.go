// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package translate

import (
	"fmt"

	"tigerc/internal/ast"
	"tigerc/internal/diag"
	"tigerc/internal/fragment"
	"tigerc/internal/frame"
	"tigerc/internal/ir"
	"tigerc/internal/label"
	"tigerc/internal/symbol"
	"tigerc/internal/symtab"
	"tigerc/internal/temp"
	"tigerc/internal/types"
)

// Entry is implemented by VarEntry and FunEntry, the translator's own
// minimal symbol environment (spec §6's "symbol environment
// collaborator", stood in here since this back end has no separate
// semantic-analysis phase to own it).
type Entry interface {
	isEntry()
}

// VarEntry records where a variable lives and at which lexical level it
// was declared. Type is the declared or inferred static type, used only
// by staticType's narrow nil/record equality check below; it is nil
// when a variable's type could not be determined (formals always carry
// one, since a Field's type annotation is mandatory).
type VarEntry struct {
	Access frame.Access
	Level  *Level
	Type   types.Type
}

func (VarEntry) isEntry() {}

// FunEntry records a function's level (for static-link chasing at call
// sites) and entry label. Mutual recursion is supported by entering
// every function in a group before translating any of their bodies
// (spec §4.2). ResultType is types.Unit{} for a Unit-returning function.
type FunEntry struct {
	Level      *Level
	Label      label.Label
	ResultType types.Type
}

func (FunEntry) isEntry() {}

// Translator holds everything the spec calls out as process-wide
// (factories, the ABI description, the accumulating fragment list),
// threaded explicitly as a value rather than held in package state
// (spec §9 Design Notes).
type Translator struct {
	temps  *temp.Factory
	labels *label.Factory
	syms   *symbol.Table
	rm     *frame.RegManager

	venv  *symtab.Table[Entry]
	tenv  *symtab.Table[types.Type]
	frags []fragment.Fragment

	synthetic int
}

// standardLibrary lists the I/O and utility primitives spec §6 calls
// out as "standard I/O primitives referenced by the source language",
// linked externally rather than implemented by this back end.
var standardLibrary = []string{
	"print", "flush", "getchar", "ord", "chr",
	"size", "substring", "concat", "not", "exit",
}

// NewTranslator builds a Translator ready to translate a whole program,
// with the standard library preregistered as external calls (spec §6:
// they use the System V ABI directly, without a static link). The
// runtime-allocation primitives are not registered; the translator
// calls them by label directly.
func NewTranslator(temps *temp.Factory, labels *label.Factory, syms *symbol.Table, rm *frame.RegManager) *Translator {
	tr := &Translator{
		temps:  temps,
		labels: labels,
		syms:   syms,
		rm:     rm,
		venv:   symtab.New[Entry](),
		tenv:   symtab.New[types.Type](),
	}
	for _, name := range standardLibrary {
		tr.DeclarePrimitive(name)
	}
	tr.tenv.Enter(tr.syms.Intern("int"), types.Int{})
	tr.tenv.Enter(tr.syms.Intern("string"), types.String{})
	return tr
}

// DeclarePrimitive registers name as an external, static-link-free
// call target: a runtime library routine (or other System-V-ABI-direct
// collaborator) rather than a function this program's translator
// itself produces a ProcFrag for.
func (tr *Translator) DeclarePrimitive(name string) {
	tr.venv.Enter(tr.syms.Intern(name), FunEntry{Level: &Level{Parent: nil}, Label: tr.labels.Named(name)})
}

// Fragments returns every fragment accumulated so far.
func (tr *Translator) Fragments() []fragment.Fragment {
	out := make([]fragment.Fragment, len(tr.frags))
	copy(out, tr.frags)
	return out
}

func (tr *Translator) freshSymbol(prefix string) symbol.Symbol {
	tr.synthetic++
	return tr.syms.Intern(fmt.Sprintf("$%s%d", prefix, tr.synthetic))
}

// lookupType resolves sym against tenv, fatal on an unknown type name.
func (tr *Translator) lookupType(sym symbol.Symbol) types.Type {
	ty, ok := tr.tenv.Look(sym)
	if !ok {
		diag.Fatalf("translate: undefined type %s", sym)
	}
	return ty
}

// recordType resolves sym to its declared *types.Record, fatal if sym
// does not name a record type (including a named alias that merely
// resolves to one).
func (tr *Translator) recordType(sym symbol.Symbol) *types.Record {
	ty, err := types.ActualTy(tr.lookupType(sym))
	if err != nil {
		diag.Fatalf("translate: %v", err)
	}
	rt, ok := ty.(*types.Record)
	if !ok {
		diag.Fatalf("translate: %s is not a record type", sym)
	}
	return rt
}

// ctx is the inherited state threaded through every recursive call: the
// level the code being translated will execute in, and the label to
// jump to on a BreakExp (nil outside any loop).
type ctx struct {
	lvl *Level
	brk *label.Label
}

// TranslateProgram translates the whole program as a single outermost
// procedure named "tigermain" (spec §4.2), returning the accumulated
// fragment list.
func TranslateProgram(tr *Translator, prog ast.Exp) []fragment.Fragment {
	outer := NewOutermostLevel(tr.labels.Named("tigermain"), tr.temps)
	bodyTag := tr.translateExp(prog, ctx{lvl: outer, brk: nil})
	bodyResult := unEx(tr, bodyTag)
	fp := &ir.TempExp{T: tr.rm.FP}
	wrapped := frame.ProcEntryExit1(outer.Frame, tr.rm, fp, bodyResult)
	tr.frags = append(tr.frags, &fragment.ProcFrag{Body: wrapped, Frame: outer.Frame})
	return tr.Fragments()
}

func (tr *Translator) translateExp(e ast.Exp, c ctx) ExpTag {
	switch n := e.(type) {
	case *ast.VarExp:
		return Ex{E: tr.lvalue(n.V, c)}
	case *ast.IntExp:
		return Ex{E: &ir.ConstExp{Value: n.Value}}
	case *ast.NilExp:
		return Ex{E: &ir.ConstExp{Value: 0}}
	case *ast.StringExp:
		l := tr.labels.NewAnonymous()
		tr.frags = append(tr.frags, &fragment.StringFrag{L: l, Value: n.Value})
		return Ex{E: &ir.NameExp{L: l}}
	case *ast.CallExp:
		return tr.translateCall(n, c)
	case *ast.OpExp:
		return tr.translateOp(n, c)
	case *ast.RecordExp:
		return tr.translateRecord(n, c)
	case *ast.ArrayExp:
		size := unEx(tr, tr.translateExp(n.Size, c))
		init := unEx(tr, tr.translateExp(n.Init, c))
		call := &ir.CallExp{Fn: &ir.NameExp{L: tr.labels.Named("init_array")}, Args: []ir.Exp{size, init}}
		return Ex{E: call}
	case *ast.SeqExp:
		return tr.translateSeq(n.Exps, c)
	case *ast.AssignExp:
		dst := tr.lvalue(n.Var, c)
		src := unEx(tr, tr.translateExp(n.Value, c))
		return Nx{S: &ir.Move{Dst: dst, Src: src}}
	case *ast.IfExp:
		return tr.translateIf(n, c)
	case *ast.WhileExp:
		return tr.translateWhile(n, c)
	case *ast.ForExp:
		return tr.translateFor(n, c)
	case *ast.BreakExp:
		if c.brk == nil {
			diag.Fatalf("translate: break outside any loop")
		}
		l := *c.brk
		return Nx{S: &ir.Jump{Exp: &ir.NameExp{L: l}, Targets: []label.Label{l}}}
	case *ast.LetExp:
		return tr.translateLet(n, c)
	default:
		diag.Fatalf("translate: unhandled expression node %T", e)
		panic("unreachable")
	}
}

// lvalue returns the IR expression that reads, or (as a Move
// destination) writes, the variable v addresses. Per spec §4.2, every
// Var form yields Ex(Mem(...)) (or a register Temp read), so the same
// expression serves as both a read and a write target.
func (tr *Translator) lvalue(v ast.Var, c ctx) ir.Exp {
	switch n := v.(type) {
	case *ast.SimpleVar:
		entry, ok := tr.venv.Look(n.Sym)
		if !ok {
			diag.Fatalf("translate: undefined variable %s", n.Sym)
		}
		ve, ok := entry.(VarEntry)
		if !ok {
			diag.Fatalf("translate: %s does not name a variable", n.Sym)
		}
		fp := staticLink(ve.Level, c.lvl, tr.rm)
		return ve.Access.Exp(fp)
	case *ast.FieldVar:
		base := tr.lvalue(n.Base, c)
		offset := &ir.ConstExp{Value: int64(n.Index) * frame.WordSize}
		return &ir.MemExp{Addr: &ir.BinopExp{Op: ir.Plus, L: base, R: offset}}
	case *ast.SubscriptVar:
		base := tr.lvalue(n.Base, c)
		idx := unEx(tr, tr.translateExp(n.Index, c))
		byteOffset := &ir.BinopExp{Op: ir.Times, L: idx, R: &ir.ConstExp{Value: frame.WordSize}}
		return &ir.MemExp{Addr: &ir.BinopExp{Op: ir.Plus, L: base, R: byteOffset}}
	default:
		diag.Fatalf("translate: unhandled var node %T", v)
		panic("unreachable")
	}
}

// staticType determines e's type from purely syntactic information
// (literal shape, a declared variable's recorded Type, a called
// function's ResultType). It returns nil when the type can't be
// determined this way, which is common: this back end has no general
// inference engine, only the narrow slice the nil/record equality rule
// in translateOp needs.
func (tr *Translator) staticType(e ast.Exp, c ctx) types.Type {
	switch n := e.(type) {
	case *ast.NilExp:
		return types.Nil{}
	case *ast.IntExp:
		return types.Int{}
	case *ast.StringExp:
		return types.String{}
	case *ast.RecordExp:
		return tr.lookupType(n.Type)
	case *ast.ArrayExp:
		return tr.lookupType(n.Type)
	case *ast.VarExp:
		sv, ok := n.V.(*ast.SimpleVar)
		if !ok {
			return nil
		}
		entry, ok := tr.venv.Look(sv.Sym)
		if !ok {
			return nil
		}
		ve, ok := entry.(VarEntry)
		if !ok {
			return nil
		}
		return ve.Type
	case *ast.CallExp:
		entry, ok := tr.venv.Look(n.Func)
		if !ok {
			return nil
		}
		fe, ok := entry.(FunEntry)
		if !ok {
			return nil
		}
		return fe.ResultType
	default:
		return nil
	}
}

func (tr *Translator) translateCall(n *ast.CallExp, c ctx) ExpTag {
	entry, ok := tr.venv.Look(n.Func)
	if !ok {
		diag.Fatalf("translate: call to undefined function %s", n.Func)
	}
	fe, ok := entry.(FunEntry)
	if !ok {
		diag.Fatalf("translate: %s does not name a function", n.Func)
	}

	var args []ir.Exp
	if fe.Level.Parent != nil {
		args = append(args, staticLink(fe.Level.Parent, c.lvl, tr.rm))
	}
	for _, a := range n.Args {
		args = append(args, unEx(tr, tr.translateExp(a, c)))
	}
	return Ex{E: &ir.CallExp{Fn: &ir.NameExp{L: fe.Label}, Args: args}}
}

// foldConst implements the constant-folding SUPPLEMENTED FEATURE: the
// original translate.cc folds Binop(Const, Const) at IR-construction
// time rather than leaving it for a separate optimization pass (which
// the spec's Non-goals exclude).
func foldConst(op ir.BinOp, l, r ir.Exp) (ir.Exp, bool) {
	lc, lok := l.(*ir.ConstExp)
	rc, rok := r.(*ir.ConstExp)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case ir.Plus:
		return &ir.ConstExp{Value: lc.Value + rc.Value}, true
	case ir.Minus:
		return &ir.ConstExp{Value: lc.Value - rc.Value}, true
	case ir.Times:
		return &ir.ConstExp{Value: lc.Value * rc.Value}, true
	case ir.Div:
		if rc.Value == 0 {
			return nil, false
		}
		return &ir.ConstExp{Value: lc.Value / rc.Value}, true
	case ir.And:
		return &ir.ConstExp{Value: lc.Value & rc.Value}, true
	case ir.Or:
		return &ir.ConstExp{Value: lc.Value | rc.Value}, true
	default:
		return nil, false
	}
}

var astOpToIRBinop = map[ast.Op]ir.BinOp{
	ast.OpPlus:   ir.Plus,
	ast.OpMinus:  ir.Minus,
	ast.OpTimes:  ir.Times,
	ast.OpDivide: ir.Div,
	ast.OpAnd:    ir.And,
	ast.OpOr:     ir.Or,
}

var astOpToRelop = map[ast.Op]ir.RelOp{
	ast.OpEq:  ir.EQ,
	ast.OpNeq: ir.NE,
	ast.OpLt:  ir.LT,
	ast.OpLe:  ir.LE,
	ast.OpGt:  ir.GT,
	ast.OpGe:  ir.GE,
}

func (tr *Translator) translateOp(n *ast.OpExp, c ctx) ExpTag {
	l := unEx(tr, tr.translateExp(n.Left, c))
	r := unEx(tr, tr.translateExp(n.Right, c))

	if n.Op.IsComparison() {
		if n.StringCompare && (n.Op == ast.OpEq || n.Op == ast.OpNeq) {
			call := &ir.CallExp{Fn: &ir.NameExp{L: tr.labels.Named("string_equal")}, Args: []ir.Exp{l, r}}
			relop := ir.EQ
			if n.Op == ast.OpNeq {
				relop = ir.NE
			}
			return Cx{Gen: func(t, f label.Label) ir.Stm {
				return &ir.CJump{Relop: relop, L: call, R: &ir.ConstExp{Value: 1}, TLabel: t, FLabel: f}
			}}
		}
		if n.Op == ast.OpEq || n.Op == ast.OpNeq {
			tr.checkEqualityTypes(n, c)
		}
		relop := astOpToRelop[n.Op]
		return Cx{Gen: func(t, f label.Label) ir.Stm {
			return &ir.CJump{Relop: relop, L: l, R: r, TLabel: t, FLabel: f}
		}}
	}

	binop := astOpToIRBinop[n.Op]
	if folded, ok := foldConst(binop, l, r); ok {
		return Ex{E: folded}
	}
	return Ex{E: &ir.BinopExp{Op: binop, L: l, R: r}}
}

// checkEqualityTypes enforces the nil/record assignability rule (spec
// §9 open question): nil compares equal only to a record-typed
// operand. Silently permissive when either side's type can't be
// statically determined, since this back end has no general type
// checker to fall back on.
func (tr *Translator) checkEqualityTypes(n *ast.OpExp, c ctx) {
	lt := tr.staticType(n.Left, c)
	rt := tr.staticType(n.Right, c)
	if lt == nil || rt == nil {
		return
	}
	_, lNil := lt.(types.Nil)
	_, rNil := rt.(types.Nil)
	if !lNil && !rNil {
		return
	}
	nilSide, other := lt, rt
	if rNil {
		nilSide, other = rt, lt
	}
	ok, err := types.AssignableTo(nilSide, other)
	if err != nil {
		diag.Fatalf("translate: %v", err)
	}
	if !ok {
		diag.Fatalf("translate: nil is not comparable to %s", other)
	}
}

func (tr *Translator) translateRecord(n *ast.RecordExp, c ctx) ExpTag {
	rt := tr.recordType(n.Type)
	r := tr.temps.New()
	nBytes := &ir.ConstExp{Value: int64(len(rt.Fields)) * frame.WordSize}
	alloc := &ir.Move{
		Dst: &ir.TempExp{T: r},
		Src: &ir.CallExp{Fn: &ir.NameExp{L: tr.labels.Named("alloc_record")}, Args: []ir.Exp{nBytes}},
	}
	var stm ir.Stm = alloc
	for _, f := range n.Fields {
		idx := rt.FieldIndex(f.Name.String())
		if idx < 0 {
			diag.Fatalf("translate: record type %s has no field %s", n.Type, f.Name)
		}
		val := unEx(tr, tr.translateExp(f.Value, c))
		addr := &ir.BinopExp{Op: ir.Plus, L: &ir.TempExp{T: r}, R: &ir.ConstExp{Value: int64(idx) * frame.WordSize}}
		stm = seq(stm, &ir.Move{Dst: &ir.MemExp{Addr: addr}, Src: val})
	}
	return Ex{E: &ir.EseqExp{Stm: stm, Exp: &ir.TempExp{T: r}}}
}

func (tr *Translator) translateSeq(exps []ast.Exp, c ctx) ExpTag {
	if len(exps) == 0 {
		return Nx{S: &ir.ExpStm{Exp: &ir.ConstExp{Value: 0}}}
	}
	var stm ir.Stm
	for _, e := range exps[:len(exps)-1] {
		stm = seq(stm, unNx(tr, tr.translateExp(e, c)))
	}
	last := tr.translateExp(exps[len(exps)-1], c)
	if stm == nil {
		return last
	}
	switch t := last.(type) {
	case Ex:
		return Ex{E: &ir.EseqExp{Stm: stm, Exp: t.E}}
	case Nx:
		return Nx{S: &ir.Seq{S1: stm, S2: t.S}}
	case Cx:
		prefix := stm
		return Cx{Gen: func(tl, fl label.Label) ir.Stm {
			return &ir.Seq{S1: prefix, S2: t.Gen(tl, fl)}
		}}
	default:
		diag.Fatalf("translate: unhandled ExpTag %T in sequence", last)
		panic("unreachable")
	}
}

func (tr *Translator) translateIf(n *ast.IfExp, c ctx) ExpTag {
	gen := unCx(tr, tr.translateExp(n.Cond, c))
	tLabel := tr.labels.NewAnonymous()
	fLabel := tr.labels.NewAnonymous()

	if n.Else == nil {
		joinLabel := fLabel
		thenStm := unNx(tr, tr.translateExp(n.Then, c))
		stm := &ir.Seq{
			S1: gen(tLabel, joinLabel),
			S2: &ir.Seq{
				S1: &ir.LabelStm{L: tLabel},
				S2: &ir.Seq{S1: thenStm, S2: &ir.LabelStm{L: joinLabel}},
			},
		}
		return Nx{S: stm}
	}

	result := tr.temps.New()
	joinLabel := tr.labels.NewAnonymous()
	thenVal := unEx(tr, tr.translateExp(n.Then, c))
	elseVal := unEx(tr, tr.translateExp(n.Else, c))

	stm := &ir.Seq{
		S1: gen(tLabel, fLabel),
		S2: &ir.Seq{
			S1: &ir.LabelStm{L: tLabel},
			S2: &ir.Seq{
				S1: &ir.Move{Dst: &ir.TempExp{T: result}, Src: thenVal},
				S2: &ir.Seq{
					S1: &ir.Jump{Exp: &ir.NameExp{L: joinLabel}, Targets: []label.Label{joinLabel}},
					S2: &ir.Seq{
						S1: &ir.LabelStm{L: fLabel},
						S2: &ir.Seq{
							S1: &ir.Move{Dst: &ir.TempExp{T: result}, Src: elseVal},
							S2: &ir.LabelStm{L: joinLabel},
						},
					},
				},
			},
		},
	}
	return Ex{E: &ir.EseqExp{Stm: stm, Exp: &ir.TempExp{T: result}}}
}

func (tr *Translator) translateWhile(n *ast.WhileExp, c ctx) ExpTag {
	testLabel := tr.labels.NewAnonymous()
	bodyLabel := tr.labels.NewAnonymous()
	doneLabel := tr.labels.NewAnonymous()

	gen := unCx(tr, tr.translateExp(n.Cond, c))
	bodyStm := unNx(tr, tr.translateExp(n.Body, ctx{lvl: c.lvl, brk: &doneLabel}))

	stm := &ir.Seq{
		S1: &ir.LabelStm{L: testLabel},
		S2: &ir.Seq{
			S1: gen(bodyLabel, doneLabel),
			S2: &ir.Seq{
				S1: &ir.LabelStm{L: bodyLabel},
				S2: &ir.Seq{
					S1: bodyStm,
					S2: &ir.Seq{
						S1: &ir.Jump{Exp: &ir.NameExp{L: testLabel}, Targets: []label.Label{testLabel}},
						S2: &ir.LabelStm{L: doneLabel},
					},
				},
			},
		},
	}
	return Nx{S: stm}
}

// translateFor desugars `for v := lo to hi do body` (spec §4.2) into:
//
//	let var v := lo
//	    var $limit := hi
//	in if v <= $limit then
//	     while 1 do (
//	       body;
//	       if v = $limit then break;
//	       v := v + 1
//	     )
//	   end
//
// The inner "while 1" with a break-before-increment guard never
// computes v+1 once v has reached $limit, so the desugaring cannot
// overflow even when hi is the maximum representable integer — the
// extra guard the spec calls for, compared to the naive
// `while v <= limit do (body; v := v+1)` form that would overflow at
// exactly that boundary.
func (tr *Translator) translateFor(n *ast.ForExp, c ctx) ExpTag {
	limitSym := tr.freshSymbol("limit")

	ivDec := &ast.VarDec{Name: n.Var, Escape: n.Escape, Init: n.Lo}
	limitDec := &ast.VarDec{Name: limitSym, Escape: false, Init: n.Hi}

	ivVar := func() ast.Exp { return &ast.VarExp{V: &ast.SimpleVar{Sym: n.Var}} }
	limitVar := func() ast.Exp { return &ast.VarExp{V: &ast.SimpleVar{Sym: limitSym}} }

	whileBody := &ast.SeqExp{Exps: []ast.Exp{
		n.Body,
		&ast.IfExp{
			Cond: &ast.OpExp{Op: ast.OpEq, Left: ivVar(), Right: limitVar()},
			Then: &ast.BreakExp{},
		},
		&ast.AssignExp{
			Var:   &ast.SimpleVar{Sym: n.Var},
			Value: &ast.OpExp{Op: ast.OpPlus, Left: ivVar(), Right: &ast.IntExp{Value: 1}},
		},
	}}

	loop := &ast.IfExp{
		Cond: &ast.OpExp{Op: ast.OpLe, Left: ivVar(), Right: limitVar()},
		Then: &ast.WhileExp{Cond: &ast.IntExp{Value: 1}, Body: whileBody},
	}

	desugared := &ast.LetExp{Decs: []ast.Dec{ivDec, limitDec}, Body: loop}
	return tr.translateExp(desugared, c)
}

func (tr *Translator) translateLet(n *ast.LetExp, c ctx) ExpTag {
	tr.venv.BeginScope()
	defer tr.venv.EndScope()
	tr.tenv.BeginScope()
	defer tr.tenv.EndScope()

	var stm ir.Stm
	for _, d := range n.Decs {
		if s := tr.translateDec(d, c); s != nil {
			stm = seq(stm, s)
		}
	}
	body := tr.translateExp(n.Body, c)
	if stm == nil {
		return body
	}
	switch t := body.(type) {
	case Ex:
		return Ex{E: &ir.EseqExp{Stm: stm, Exp: t.E}}
	case Nx:
		return Nx{S: &ir.Seq{S1: stm, S2: t.S}}
	case Cx:
		prefix := stm
		return Cx{Gen: func(tl, fl label.Label) ir.Stm {
			return &ir.Seq{S1: prefix, S2: t.Gen(tl, fl)}
		}}
	default:
		diag.Fatalf("translate: unhandled ExpTag %T in let body", body)
		panic("unreachable")
	}
}

func (tr *Translator) translateDec(d ast.Dec, c ctx) ir.Stm {
	switch n := d.(type) {
	case *ast.VarDec:
		access := c.lvl.Frame.AllocLocal(n.Escape)
		var ty types.Type
		if n.Type != nil {
			ty = tr.lookupType(*n.Type)
		} else {
			ty = tr.staticType(n.Init, c)
		}
		tr.venv.Enter(n.Name, VarEntry{Access: access, Level: c.lvl, Type: ty})
		dst := access.Exp(&ir.TempExp{T: tr.rm.FP})
		src := unEx(tr, tr.translateExp(n.Init, c))
		return &ir.Move{Dst: dst, Src: src}
	case *ast.FunctionDec:
		tr.translateFunctionDec(n, c)
		return nil
	case *ast.TypeDec:
		tr.translateTypeDec(n)
		return nil
	default:
		diag.Fatalf("translate: unhandled declaration node %T", d)
		panic("unreachable")
	}
}

func (tr *Translator) translateFunctionDec(n *ast.FunctionDec, c ctx) {
	levels := make([]*Level, len(n.Functions))
	for i, fn := range n.Functions {
		escapes := make([]bool, len(fn.Params))
		for j, p := range fn.Params {
			escapes[j] = p.Escape
		}
		lvl := NewLevel(c.lvl, tr.labels.Named(fn.Name.String()), escapes, tr.temps)
		levels[i] = lvl
		resultTy := types.Type(types.Unit{})
		if fn.ResultType != nil {
			resultTy = tr.lookupType(*fn.ResultType)
		}
		tr.venv.Enter(fn.Name, FunEntry{Level: lvl, Label: lvl.Frame.Name, ResultType: resultTy})
	}

	for i, fn := range n.Functions {
		lvl := levels[i]
		tr.venv.BeginScope()
		formals := lvl.Formals()
		for j, p := range fn.Params {
			tr.venv.Enter(p.Name, VarEntry{Access: formals[j], Level: lvl, Type: tr.lookupType(p.Type)})
		}
		bodyResult := unEx(tr, tr.translateExp(fn.Body, ctx{lvl: lvl, brk: nil}))
		fp := &ir.TempExp{T: tr.rm.FP}
		wrapped := frame.ProcEntryExit1(lvl.Frame, tr.rm, fp, bodyResult)
		tr.frags = append(tr.frags, &fragment.ProcFrag{Body: wrapped, Frame: lvl.Frame})
		tr.venv.EndScope()
	}
}

// translateTypeDec installs every name in a mutually recursive type
// group, in three passes so that a Record or Array field may reference
// another name declared later in the same group: forward-declare a
// types.Name placeholder for each entry, resolve each entry's Ty
// against those placeholders, then call types.ActualTy on every
// placeholder to surface a pure-alias cycle (spec §4.2).
func (tr *Translator) translateTypeDec(n *ast.TypeDec) {
	placeholders := make([]*types.Name, len(n.Types))
	for i, entry := range n.Types {
		ph := &types.Name{Sym: entry.Name.String()}
		placeholders[i] = ph
		tr.tenv.Enter(entry.Name, ph)
	}
	for i, entry := range n.Types {
		placeholders[i].Underlying = tr.resolveTy(entry.Ty)
	}
	for _, ph := range placeholders {
		if _, err := types.ActualTy(ph); err != nil {
			diag.Fatalf("translate: %v", err)
		}
	}
}

// resolveTy lowers one Ty node to a types.Type, looking up NameTy and
// ArrayTy element references in tenv so that a reference to another
// entry in the same TypeDec group resolves to that entry's (possibly
// still-forward-declared) placeholder.
func (tr *Translator) resolveTy(t ast.Ty) types.Type {
	switch n := t.(type) {
	case *ast.NameTy:
		return tr.lookupType(n.Name)
	case *ast.RecordTy:
		fields := make([]types.Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = types.Field{Name: f.Name.String(), Ty: tr.lookupType(f.Type)}
		}
		return &types.Record{Fields: fields}
	case *ast.ArrayTy:
		return &types.Array{Elem: tr.lookupType(n.Elem)}
	default:
		diag.Fatalf("translate: unhandled type node %T", t)
		panic("unreachable")
	}
}
