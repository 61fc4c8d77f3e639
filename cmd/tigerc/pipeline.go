// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"tigerc/internal/astfile"
	"tigerc/internal/compiler"
	"tigerc/internal/diag"
)

func setVerbose(v bool) { diag.Verbose = v }

// loadAndCompile reads and decodes the fixture at path and runs it
// through the full compile pipeline, returning the rendered `.s` text.
func loadAndCompile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	ctx := compiler.NewContext()
	prog, err := astfile.Decode(data, ctx.Syms)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	return compiler.CompileProgram(ctx, prog), nil
}
