// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package temp implements the abstract register identities ("temporaries")
// used throughout the back end, from IR construction through register
// allocation. A Temp carries no meaning beyond its identity; it is either
// colored to a machine register by the allocator or it is precolored from
// the start (see frame.RegManager).
package temp

import "fmt"

// Temp is an abstract register identity: a small dense integer handed out
// by a Factory. Two Temps are the same temporary iff their ids are equal.
type Temp struct {
	id int
}

// String renders a Temp the way the allocator and emitter refer to it in
// diagnostics, e.g. "t13".
func (t Temp) String() string {
	return fmt.Sprintf("t%d", t.id)
}

// ID returns the dense integer identity of t, suitable for use as a map
// or slice index.
func (t Temp) ID() int { return t.id }

// Factory vends fresh Temps. The back end's Design Notes call for a
// process-wide factory threaded explicitly as part of a compilation
// context rather than held in a package-level variable, so a Factory is
// an ordinary value embedded in compiler.Context.
type Factory struct {
	next int
}

// NewFactory returns a Factory with no temps allocated yet.
func NewFactory() *Factory {
	return &Factory{}
}

// New returns a fresh Temp, distinct from every Temp previously returned
// by f.
func (f *Factory) New() Temp {
	t := Temp{id: f.next}
	f.next++
	return t
}

// Precolored wraps an existing machine-register id as a Temp so that
// precolored and ordinary temps share one representation throughout the
// pipeline. Precolored ids are negative so that they can never collide
// with an id produced by New, regardless of allocation order.
func Precolored(machineID int) Temp {
	return Temp{id: -machineID - 1}
}

// IsPrecolored reports whether t was produced by Precolored rather than
// by a Factory.
func (t Temp) IsPrecolored() bool {
	return t.id < 0
}
