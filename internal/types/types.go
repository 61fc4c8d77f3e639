// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types is the minimal stand-in for the spec's "type-analyzer /
// environment collaborator": it models only the structural shape the
// back end needs (record field layout for address arithmetic, array
// element size, the nil/record assignability rule) and the ActualTy /
// IsSameType predicates the back end calls. A real front end's full
// semantic analyzer is explicitly out of scope.
package types

import "fmt"

// Type is implemented by every type-model variant (spec Design Notes:
// "Deep inheritance ... -> tagged variants with exhaustive matching").
type Type interface {
	isType()
	String() string
}

// Int is the language's integer primitive.
type Int struct{}

func (Int) isType()        {}
func (Int) String() string { return "int" }

// String is the language's string primitive.
type String struct{}

func (String) isType()        {}
func (String) String() string { return "string" }

// Unit is the type of expressions evaluated only for effect.
type Unit struct{}

func (Unit) isType()        {}
func (Unit) String() string { return "unit" }

// Nil is NilExp's type: assignable to any Record, comparable only to
// another record-typed operand (spec §9 open question, resolved per
// spec's own stated rule).
type Nil struct{}

func (Nil) isType()        {}
func (Nil) String() string { return "nil" }

// Field is one named, typed slot of a Record, in declaration order
// (order matters: it fixes the field's byte offset).
type Field struct {
	Name string
	Ty   Type
}

// Record is a nominal record type: two Records are the same type iff
// they are the same declared type (pointer identity), never by
// structural comparison, since the language allows distinct record
// declarations with identical field lists to be distinct types.
type Record struct {
	Fields []Field
}

func (*Record) isType()        {}
func (*Record) String() string { return "record" }

// FieldIndex returns the zero-based index of name within r's declared
// field order, or -1 if no such field exists. The translator multiplies
// this by the machine word size to compute a field's byte offset.
func (r *Record) FieldIndex(name string) int {
	for i, f := range r.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Array is a nominal array type over a single element type.
type Array struct {
	Elem Type
}

func (a *Array) isType() {}
func (a *Array) String() string {
	if a.Elem == nil {
		return "array of ?"
	}
	return fmt.Sprintf("array of %s", a.Elem.String())
}

// Name is a named-type alias: `type a = b`. Underlying is filled in once
// the aliased type is resolved; it is nil for a forward-declared name
// whose target has not yet been processed (mutual/cyclic type groups).
type Name struct {
	Sym        string
	Underlying Type
}

func (*Name) isType()        {}
func (n *Name) String() string { return n.Sym }

// ActualTy resolves t through any chain of Name aliases to the first
// non-Name type, per the "actual_type()" predicate the spec assigns to
// the type-analyzer collaborator. It returns an error for a pure-alias
// cycle (a chain of Names that revisits a Name without ever reaching a
// Record, Array, or primitive) and terminates cleanly at any Record or
// Array boundary even if that boundary's element/field types are
// themselves cyclic, since a Record/Array is a box (a pointer-sized
// reference in the runtime layout) rather than a further alias — this
// is the distinction original_source/'s semant.cc draws between legal
// and illegal named-type cycles.
func ActualTy(t Type) (Type, error) {
	seen := make(map[*Name]bool)
	for {
		n, ok := t.(*Name)
		if !ok {
			return t, nil
		}
		if seen[n] {
			return nil, fmt.Errorf("illegal type cycle at %q", n.Sym)
		}
		seen[n] = true
		if n.Underlying == nil {
			return nil, fmt.Errorf("illegal type cycle at %q", n.Sym)
		}
		t = n.Underlying
	}
}

// IsSameType reports whether a and b denote the same type after
// resolving aliases. Records and Arrays are compared by identity
// (nominal typing); primitives by kind; Nil is compatible with any
// Record in the assignability direction only (callers that need
// assignability rather than equality should special-case Nil
// themselves, as the translator's equality lowering does).
func IsSameType(a, b Type) (bool, error) {
	ra, err := ActualTy(a)
	if err != nil {
		return false, err
	}
	rb, err := ActualTy(b)
	if err != nil {
		return false, err
	}
	switch x := ra.(type) {
	case Int:
		_, ok := rb.(Int)
		return ok, nil
	case String:
		_, ok := rb.(String)
		return ok, nil
	case Unit:
		_, ok := rb.(Unit)
		return ok, nil
	case Nil:
		_, ok := rb.(Nil)
		return ok, nil
	case *Record:
		y, ok := rb.(*Record)
		return ok && x == y, nil
	case *Array:
		y, ok := rb.(*Array)
		return ok && x == y, nil
	default:
		return false, fmt.Errorf("unresolved type in IsSameType: %v", ra)
	}
}

// AssignableTo reports whether a value of type src may be assigned to a
// location of type dst, per the spec's nil/record rule: Nil is
// assignable to any Record, in addition to ordinary same-type
// assignability.
func AssignableTo(src, dst Type) (bool, error) {
	rdst, err := ActualTy(dst)
	if err != nil {
		return false, err
	}
	if _, isNil := src.(Nil); isNil {
		_, isRecord := rdst.(*Record)
		return isRecord, nil
	}
	return IsSameType(src, dst)
}
