// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag centralizes the back end's fatal-error and trace-logging
// conventions, modeled on cmd/internal/gc/esc.go's Debug['m']-gated
// Warnl tracing and its Fatal helper: invariant violations abort the
// compilation immediately, since nothing downstream of a structurally
// broken IR or instruction stream can be trusted.
package diag

import (
	"fmt"
	"os"
)

// Verbose mirrors esc.go's Debug['m'] switch: when true, Trace writes
// its message to stderr; when false, Trace is a no-op. It is a package
// variable, set by the cmd/tigerc driver; no package in this module
// calls Trace.
var Verbose bool

// Trace writes a diagnostic line to stderr when Verbose is set.
func Trace(format string, args ...any) {
	if !Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Fatalf reports an invariant violation and aborts the process. The back
// end assumes well-typed, internally consistent input (spec-level
// structural errors are bugs, not user errors), so there is no recovery
// path: every caller of Fatalf represents a condition that should be
// impossible given a correct front end and a correct pass above it.
func Fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "tigerc: fatal: "+format+"\n", args...)
	os.Exit(2)
}
