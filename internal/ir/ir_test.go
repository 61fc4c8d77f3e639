// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "testing"

func TestRelopNegateInvolution(t *testing.T) {
	for _, r := range []RelOp{EQ, NE, LT, GT, LE, GE} {
		if got := r.Negate().Negate(); got != r {
			t.Errorf("Negate(Negate(%v)) = %v, want %v", r, got, r)
		}
	}
}

func TestRelopNegateDistinct(t *testing.T) {
	for _, r := range []RelOp{EQ, NE, LT, GT, LE, GE} {
		if r.Negate() == r {
			t.Errorf("Negate(%v) == %v, want a different relation", r, r)
		}
	}
}
