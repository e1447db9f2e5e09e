// SPDX-License-Identifier: Apache-2.0

// Package memmapbuiltins rewrites calls to the mmap/munmap intrinsic
// lambdas into direct Map/Unmap primops plus a jump to the caller's
// return continuation. The guard below is intentionally written with
// explicit parens around the xor: `(isMap != isUnmap) && signatureOK`.
// The original source computes this as `is_map ^ is_unmap &&
// signature_ok`, and C++'s precedence binds `&&` tighter than `^`, so it
// actually evaluates as `is_map ^ (is_unmap && signature_ok)` — a lambda
// that is a map intrinsic with a bad signature still passes the guard
// whenever is_unmap is false. Go's `!=` and `&&` have the same relative
// precedence, so the bug doesn't reproduce by accident here; the parens
// are kept anyway so the intent reads the same as the fixed C++ would.
package memmapbuiltins

import "thorin/internal/ir"

// expectedMapArgs is mem, ptr, device, address-space, return-continuation.
const expectedMapArgs = 5

// Run rewrites every mmap/munmap call site reachable in scope, returning
// the number of call sites converted.
func Run(world *ir.World, scope *ir.Scope) int {
	converted := 0
	for _, l := range scope.Members() {
		if l.IsMeta() {
			continue
		}
		callee, ok := l.Body.To.(*ir.Lambda)
		if !ok {
			continue
		}
		isMap := callee.Intrinsic == ir.IntrinsicMmap
		isUnmap := callee.Intrinsic == ir.IntrinsicMunmap
		signatureOK := len(l.Body.Args) == expectedMapArgs

		if !((isMap != isUnmap) && signatureOK) {
			continue
		}

		args := l.Body.Args
		mem, ptr, device, space, ret := args[0], args[1], args[2], args[3], args[4]

		var result ir.Def
		if isMap {
			result = world.Map(mem, ptr, device, space, l.Location())
		} else {
			result = world.Unmap(mem, ptr, device, space, l.Location())
		}

		ir.RewireJumpTarget(l, ret)
		newArgs := mapResultArgs(world, result, isMap, l.Location())
		ir.ReplaceJumpArgs(l, newArgs)
		converted++
	}
	return converted
}

// mapResultArgs splits Map's (mem, ptr) tuple result into two jump
// arguments, or passes Unmap's bare mem result through as one.
func mapResultArgs(world *ir.World, result ir.Def, isMap bool, loc ir.Location) []ir.Def {
	if !isMap {
		return []ir.Def{result}
	}
	tt := result.Type().(*ir.TupleType)
	newMem := world.Extract(result, world.LitU64(ir.KindU64, 0), tt.Elems[0], loc)
	newPtr := world.Extract(result, world.LitU64(ir.KindU64, 1), tt.Elems[1], loc)
	return []ir.Def{newMem, newPtr}
}
