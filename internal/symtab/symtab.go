// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symtab is the minimal stand-in for the spec's "symbol
// environment collaborator": look/enter/begin_scope/end_scope with LIFO
// scope discipline. The old gc compiler kept this as a single global Sym
// intern table with a push/pop declaration stack walked throughout
// esc.go's Curfn.Func.Dcl traversal; here it is a plain generic value so
// the escape analyzer and translator can each keep their own
// symbol->value table (escape depth, Access, FunEntry, ...) without
// sharing mutable global state, per the threaded-context design note.
package symtab

import "tigerc/internal/symbol"

// entry is one binding together with the scope depth it was entered at,
// so EndScope can pop exactly the bindings introduced since the
// matching BeginScope.
type entry[T any] struct {
	value T
	depth int
}

// Table is a scoped symbol table mapping symbol.Symbol to a value of
// type T, with LIFO (lexical) scope discipline: the most recently
// entered binding for a symbol shadows any earlier one, and EndScope
// removes exactly the bindings entered since the matching BeginScope.
type Table[T any] struct {
	bindings map[symbol.Symbol][]entry[T]
	depth    int
}

// New returns an empty Table at scope depth 0.
func New[T any]() *Table[T] {
	return &Table[T]{bindings: make(map[symbol.Symbol][]entry[T])}
}

// BeginScope opens a new nested scope.
func (t *Table[T]) BeginScope() {
	t.depth++
}

// EndScope closes the innermost scope, discarding every binding entered
// since the matching BeginScope. Calling EndScope with no open scope is
// a caller bug (the back end never recovers from this, per the
// invariant-violation error model), so it panics rather than silently
// doing nothing.
func (t *Table[T]) EndScope() {
	if t.depth == 0 {
		panic("symtab: EndScope with no matching BeginScope")
	}
	for sym, stack := range t.bindings {
		n := len(stack)
		for n > 0 && stack[n-1].depth == t.depth {
			n--
		}
		if n == 0 {
			delete(t.bindings, sym)
		} else if n != len(stack) {
			t.bindings[sym] = stack[:n]
		}
	}
	t.depth--
}

// Enter binds sym to value in the current scope, shadowing any
// outer-scope binding for the same symbol.
func (t *Table[T]) Enter(sym symbol.Symbol, value T) {
	t.bindings[sym] = append(t.bindings[sym], entry[T]{value: value, depth: t.depth})
}

// Look returns the innermost binding for sym and reports whether one
// exists.
func (t *Table[T]) Look(sym symbol.Symbol) (T, bool) {
	stack := t.bindings[sym]
	if len(stack) == 0 {
		var zero T
		return zero, false
	}
	return stack[len(stack)-1].value, true
}

// Depth returns the current scope nesting depth (0 at the outermost
// scope).
func (t *Table[T]) Depth() int { return t.depth }
