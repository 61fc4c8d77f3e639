// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tigerc is the back end's driver: it loads a typed-AST JSON
// fixture (internal/astfile) standing in for a real front end's output,
// runs it through the full compile pipeline (internal/compiler), and
// either writes the resulting assembly or just reports success/failure.
// Subcommand layout is the standard spf13/cobra root-with-subcommands
// shape used throughout the retrieved compiler front ends.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
