// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fragment defines the translator's output unit: either one
// procedure's IR body plus its frame, or one string literal. The
// accumulating fragment list is the spec's process-wide Frags,
// threaded here as a plain slice held by translate.Translator and
// returned by TranslateProgram rather than package-level state (spec
// §9 Design Notes).
package fragment

import (
	"tigerc/internal/frame"
	"tigerc/internal/ir"
	"tigerc/internal/label"
)

// Fragment is implemented by ProcFrag and StringFrag.
type Fragment interface {
	fragmentNode()
}

// ProcFrag is one procedure: its IR body (already wrapped by
// frame.ProcEntryExit1) and the frame that describes its activation
// record.
type ProcFrag struct {
	Body  ir.Stm
	Frame *frame.Frame
}

func (*ProcFrag) fragmentNode() {}

// StringFrag is one string literal, addressable by Label.
type StringFrag struct {
	L     label.Label
	Value string
}

func (*StringFrag) fragmentNode() {}
