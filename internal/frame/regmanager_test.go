// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"testing"

	"tigerc/internal/temp"
)

func TestKIsFifteen(t *testing.T) {
	tf := temp.NewFactory()
	rm := NewRegManager(tf.New())
	if rm.K() != 15 {
		t.Fatalf("K() = %d, want 15", rm.K())
	}
}

func TestArgRegsOrder(t *testing.T) {
	tf := temp.NewFactory()
	rm := NewRegManager(tf.New())
	want := []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
	got := rm.ArgRegs()
	if len(got) != len(want) {
		t.Fatalf("ArgRegs() has %d entries, want %d", len(got), len(want))
	}
	for i, t2 := range got {
		if rm.Name(t2) != want[i] {
			t.Errorf("ArgRegs()[%d] = %s, want %s", i, rm.Name(t2), want[i])
		}
	}
}

func TestCalleeCallerSavesDisjoint(t *testing.T) {
	tf := temp.NewFactory()
	rm := NewRegManager(tf.New())
	seen := make(map[string]bool)
	for _, r := range rm.CalleeSaves() {
		seen[rm.Name(r)] = true
	}
	for _, r := range rm.CallerSaves() {
		if seen[rm.Name(r)] {
			t.Fatalf("register %s is both callee-save and caller-save", rm.Name(r))
		}
	}
}

func TestNamePanicsForNonRegisterTemp(t *testing.T) {
	tf := temp.NewFactory()
	rm := NewRegManager(tf.New())
	fresh := tf.New()
	defer func() {
		if recover() == nil {
			t.Fatalf("Name did not panic for a non-register temp")
		}
	}()
	rm.Name(fresh)
}
