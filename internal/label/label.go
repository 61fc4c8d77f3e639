// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package label implements symbolic code addresses: stable, interned
// string names attached to IR Label statements, jump targets, and
// procedure entry points.
package label

import "fmt"

// Label is a symbolic code address with a stable string name.
type Label struct {
	name string
}

// String returns the assembler-visible name of l.
func (l Label) String() string { return l.name }

// Name is an alias for String, used where the caller wants to stress
// that the result is the ABI-visible symbol rather than a debug
// representation.
func (l Label) Name() string { return l.name }

// Factory vends Labels, named or anonymous. Like temp.Factory it is
// threaded explicitly through a compilation context rather than kept as
// global state.
type Factory struct {
	next int
}

// NewFactory returns a Factory with no anonymous labels allocated yet.
func NewFactory() *Factory {
	return &Factory{}
}

// Named returns a Label whose assembler name is exactly name, e.g. the
// user-visible entry point "tigermain" or a library routine name such
// as "alloc_record". Named labels are not required to be distinct from
// one another; callers that need interning should keep their own map.
func (f *Factory) Named(name string) Label {
	return Label{name: name}
}

// NewAnonymous returns a fresh Label with a compiler-generated name of
// the form "L<n>", guaranteed distinct from every anonymous label
// previously returned by f.
func (f *Factory) NewAnonymous() Label {
	l := Label{name: fmt.Sprintf("L%d", f.next)}
	f.next++
	return l
}
