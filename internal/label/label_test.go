// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package label

import "testing"

func TestNewAnonymousDistinct(t *testing.T) {
	f := NewFactory()
	a := f.NewAnonymous()
	b := f.NewAnonymous()
	if a == b {
		t.Fatalf("NewAnonymous returned the same label twice: %v", a)
	}
}

func TestNamedPreservesName(t *testing.T) {
	f := NewFactory()
	l := f.Named("tigermain")
	if l.Name() != "tigermain" {
		t.Fatalf("Named(%q).Name() = %q", "tigermain", l.Name())
	}
}
