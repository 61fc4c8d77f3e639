// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tigerc/internal/ast"
	"tigerc/internal/astfile"
)

func writeFixture(t *testing.T, prog ast.Exp) string {
	t.Helper()
	data, err := astfile.Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadAndCompileProducesAssembly(t *testing.T) {
	prog := &ast.LetExp{
		Body: &ast.OpExp{Op: ast.OpPlus, Left: &ast.IntExp{Value: 2}, Right: &ast.IntExp{Value: 3}},
	}
	path := writeFixture(t, prog)

	asm, err := loadAndCompile(path)
	if err != nil {
		t.Fatalf("loadAndCompile: %v", err)
	}
	if !strings.Contains(asm, "tigermain:") {
		t.Fatalf("missing tigermain label:\n%s", asm)
	}
}

func TestLoadAndCompileReportsMissingFile(t *testing.T) {
	if _, err := loadAndCompile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected an error for a missing fixture file")
	}
}
