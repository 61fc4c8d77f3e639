// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package temp

import "testing"

func TestFactoryDistinct(t *testing.T) {
	f := NewFactory()
	a := f.New()
	b := f.New()
	if a == b {
		t.Fatalf("New returned the same temp twice: %v", a)
	}
	if a.ID() == b.ID() {
		t.Fatalf("distinct temps share an id: %d", a.ID())
	}
}

func TestPrecoloredNeverCollidesWithFresh(t *testing.T) {
	f := NewFactory()
	for i := 0; i < 100; i++ {
		fresh := f.New()
		pre := Precolored(i)
		if fresh == pre {
			t.Fatalf("fresh temp %v collided with precolored %v", fresh, pre)
		}
		if !pre.IsPrecolored() {
			t.Fatalf("Precolored(%d) reports IsPrecolored() == false", i)
		}
		if fresh.IsPrecolored() {
			t.Fatalf("fresh temp %v reports IsPrecolored() == true", fresh)
		}
	}
}
