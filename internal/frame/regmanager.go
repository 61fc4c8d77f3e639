// Copyright 2024 The Tigerc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame describes the x86-64 System V ABI this back end targets
// (word size, the general-purpose register set, argument-register
// order, callee/caller-save partitioning) and per-procedure activation
// records. Register naming follows cmd/compile/internal/ssa/gen's
// AMD64Ops.go regNamesAMD64 table; prolog/epilog shape follows
// cmd/internal/obj/x86/obj6.go's preprocess, simplified down from Go's
// goroutine-stack ABI (no stack-split prologue, no g register) to the
// spec's plain System V frame.
package frame

import "tigerc/internal/temp"

// WordSize is the machine word size in bytes; every frame offset and
// spill slot is a multiple of it.
const WordSize = 8

// machine register ids, matching the order the allocator treats as
// precolored temp.Precolored(id) values 0..15 (%rsp is id 7 and is
// never colorable). This is not the
// instruction-encoding order x86-64 itself uses; it only has to be a
// stable, distinct id space the RegManager and emitter agree on.
const (
	regRAX = iota
	regRBX
	regRCX
	regRDX
	regRSI
	regRDI
	regRBP
	regRSP
	regR8
	regR9
	regR10
	regR11
	regR12
	regR13
	regR14
	regR15
)

var regName = map[int]string{
	regRAX: "rax",
	regRBX: "rbx",
	regRCX: "rcx",
	regRDX: "rdx",
	regRSI: "rsi",
	regRDI: "rdi",
	regRBP: "rbp",
	regRSP: "rsp",
	regR8:  "r8",
	regR9:  "r9",
	regR10: "r10",
	regR11: "r11",
	regR12: "r12",
	regR13: "r13",
	regR14: "r14",
	regR15: "r15",
}

// RegManager is the immutable-after-construction ABI description: the
// spec's "process-wide RegManager", here an ordinary value held by
// compiler.Context rather than a package variable.
type RegManager struct {
	// FP is the abstract frame-pointer temp; it is never assigned a
	// machine color directly (the selector rewrites every TempExp{FP}
	// to a %rsp-relative leaq instead, per spec §4.3).
	FP temp.Temp
	// RV is the return-value temp, precolored to %rax.
	RV temp.Temp

	allRegs     []temp.Temp
	calleeSaves []temp.Temp
	callerSaves []temp.Temp
	argRegs     []temp.Temp

	names map[temp.Temp]string
}

// NewRegManager builds the fixed System V description. FP is a fresh
// (uncolored) temp the caller's factory supplies, since it never
// receives a machine color but must still be a distinct temp identity.
func NewRegManager(fp temp.Temp) *RegManager {
	rm := &RegManager{FP: fp}
	rm.names = make(map[temp.Temp]string, len(regName))

	colorable := []int{
		regRAX, regRBX, regRCX, regRDX, regRSI, regRDI, regRBP,
		regR8, regR9, regR10, regR11, regR12, regR13, regR14, regR15,
	}
	for _, id := range colorable {
		t := temp.Precolored(id)
		rm.allRegs = append(rm.allRegs, t)
		rm.names[t] = regName[id]
	}
	rm.names[temp.Precolored(regRSP)] = regName[regRSP]

	rm.RV = temp.Precolored(regRAX)

	calleeIDs := []int{regRBX, regRBP, regR12, regR13, regR14, regR15}
	for _, id := range calleeIDs {
		rm.calleeSaves = append(rm.calleeSaves, temp.Precolored(id))
	}

	callerIDs := []int{regRAX, regRDI, regRSI, regRDX, regRCX, regR8, regR9, regR10, regR11}
	for _, id := range callerIDs {
		rm.callerSaves = append(rm.callerSaves, temp.Precolored(id))
	}

	argIDs := []int{regRDI, regRSI, regRDX, regRCX, regR8, regR9}
	for _, id := range argIDs {
		rm.argRegs = append(rm.argRegs, temp.Precolored(id))
	}

	return rm
}

// K is the number of colorable machine registers: 15, every named GPR
// above except %rsp, which is never allocated to a temp since it is
// the live stack pointer; AllRegisters lists exactly the 15 the
// allocator may assign.
func (rm *RegManager) K() int { return len(rm.allRegs) }

// AllRegisters returns the colorable machine registers, the
// "precolored" set the interference graph and colorer seed from.
func (rm *RegManager) AllRegisters() []temp.Temp {
	out := make([]temp.Temp, len(rm.allRegs))
	copy(out, rm.allRegs)
	return out
}

// CalleeSaves returns rbx, rbp, r12-r15.
func (rm *RegManager) CalleeSaves() []temp.Temp {
	out := make([]temp.Temp, len(rm.calleeSaves))
	copy(out, rm.calleeSaves)
	return out
}

// CallerSaves returns rax, rdi, rsi, rdx, rcx, r8-r11.
func (rm *RegManager) CallerSaves() []temp.Temp {
	out := make([]temp.Temp, len(rm.callerSaves))
	copy(out, rm.callerSaves)
	return out
}

// ArgRegs returns rdi, rsi, rdx, rcx, r8, r9 in calling-convention
// order.
func (rm *RegManager) ArgRegs() []temp.Temp {
	out := make([]temp.Temp, len(rm.argRegs))
	copy(out, rm.argRegs)
	return out
}

// SP returns the (non-colorable) stack-pointer temp, used by
// instructions that adjust %rsp directly (call argument spill, prolog
// and epilog) without going through the allocator.
func (rm *RegManager) SP() temp.Temp { return temp.Precolored(regRSP) }

// Name returns the assembler register name for a precolored temp, e.g.
// "rax" for temp.Precolored(regRAX). It panics if t is not precolored,
// since asking for the machine name of an uncolored temp is always a
// caller bug (the emitter only calls this after allocation has assigned
// every temp a color).
func (rm *RegManager) Name(t temp.Temp) string {
	name, ok := rm.names[t]
	if !ok {
		panic("frame: Name of non-register temp " + t.String())
	}
	return name
}
