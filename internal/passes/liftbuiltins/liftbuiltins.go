// SPDX-License-Identifier: Apache-2.0

// Package liftbuiltins threads jumps through trivial forwarding lambdas
// so that a builtin/intrinsic call reached only via a chain of pure
// pass-through continuations ends up called directly from its real
// caller. A lambda is a trivial forwarder when its only parameters are
// exactly the arguments it jumps on, in order: `lambda(a, b) = a(b)`-
// shaped jumps exist purely to name a continuation, not to compute
// anything, and collapsing them shortens the path a later inliner or the
// memmapbuiltins rewrite has to see through.
package liftbuiltins

import "thorin/internal/ir"

// Run rewrites every jump in scope that targets a trivial forwarder to
// jump to the forwarder's own target instead, and returns how many call
// sites were threaded.
func Run(world *ir.World, scope *ir.Scope) int {
	threaded := 0
	for _, l := range scope.Members() {
		if l.IsMeta() {
			continue
		}
		callee, ok := l.Body.To.(*ir.Lambda)
		if !ok || !scope.Contains(callee) {
			continue
		}
		target, newArgs, ok := forwardingTarget(callee, l.Body.Args)
		if !ok {
			continue
		}
		ir.RewireJumpTarget(l, target)
		ir.ReplaceJumpArgs(l, newArgs)
		threaded++
	}
	return threaded
}

// forwardingTarget checks whether callee's body is exactly
// `callee.Params[0](callee.Params[1], callee.Params[2], ...)` and, if
// so, returns what the caller should jump to instead, with callArgs
// substituted in for the forwarder's own params.
func forwardingTarget(callee *ir.Lambda, callArgs []ir.Def) (ir.Def, []ir.Def, bool) {
	if callee.IsMeta() || callee.Intrinsic != ir.IntrinsicNone || callee.External {
		return nil, nil, false
	}
	n := callee.NumParams()
	if n == 0 || len(callee.Body.Args) != n-1 {
		return nil, nil, false
	}
	toParam, ok := callee.Body.To.(*ir.Param)
	if !ok || toParam.Owner != callee || toParam.Index != 0 {
		return nil, nil, false
	}
	for i, a := range callee.Body.Args {
		p, ok := a.(*ir.Param)
		if !ok || p.Owner != callee || p.Index != i+1 {
			return nil, nil, false
		}
	}
	if len(callArgs) != n {
		return nil, nil, false
	}
	return callArgs[0], append([]ir.Def(nil), callArgs[1:]...), true
}
