// SPDX-License-Identifier: Apache-2.0

// Package inliner splices a single-use internal lambda's body directly
// into its one call site: the callee's jump is rebuilt with its Params
// substituted for the actual call arguments, and the caller jumps
// straight to the result. The callee itself is left in place for
// cleanup (C7) to collect once it has no uses left, rather than deleted
// here — inlining only rewires dataflow, it never mutates the World's
// bookkeeping directly (kanso's inliner pass plays the same role, fed by
// its own call-graph instead of a Scope).
package inliner

import (
	"thorin/internal/ir"
	"thorin/internal/passes/clonebodies"
)

// Run inlines every call site in scope whose callee is internal,
// non-intrinsic, has a body, and is used exactly once (this call),
// and returns how many call sites were inlined.
func Run(world *ir.World, scope *ir.Scope) int {
	inlined := 0
	for _, l := range scope.Members() {
		if l.IsMeta() {
			continue
		}
		callee, ok := l.Body.To.(*ir.Lambda)
		if !ok || !scope.Contains(callee) {
			continue
		}
		if callee.External || callee.Intrinsic != ir.IntrinsicNone || callee.IsMeta() {
			continue
		}
		if len(callee.Uses()) != 1 {
			continue // shared; cloning it first is clonebodies' job, not this pass's
		}
		if callee.NumParams() != len(l.Body.Args) {
			continue
		}

		subst := make(map[ir.Def]ir.Def, callee.NumParams())
		for i := 0; i < callee.NumParams(); i++ {
			subst[callee.Param(i)] = l.Body.Args[i]
		}

		to := clonebodies.Substitute(world, callee.Body.To, subst)
		args := make([]ir.Def, len(callee.Body.Args))
		for i, a := range callee.Body.Args {
			args[i] = clonebodies.Substitute(world, a, subst)
		}

		ir.RewireJumpTarget(l, to)
		ir.ReplaceJumpArgs(l, args)
		inlined++
	}
	return inlined
}
