// SPDX-License-Identifier: Apache-2.0
package ir

// Cleanup is the two-phase mark-and-sweep of §4.7: unreachable-code
// elimination (UCE) marks every lambda transitively reached from roots,
// then dead-code elimination (DCE) marks every primop transitively
// referenced from what survived — and, since a lambda can also be
// reached only as a *value* (e.g. stored in a tuple) rather than jumped
// to, DCE's mark phase can still grow UCE's lambda set. Both marks
// finish before anything is destroyed, so a lambda kept alive only by a
// value reference is never torn down out from under its still-live use
// (§4.7).
func (w *World) Cleanup(roots []*Lambda) {
	live := w.markReachableLambdas(roots)
	liveDefs := w.dce(live)
	w.sweep(live, liveDefs)
}

// markReachableLambdas returns every lambda transitively reached from
// roots via direct control-flow successors, without destroying anything.
func (w *World) markReachableLambdas(roots []*Lambda) map[*Lambda]struct{} {
	live := make(map[*Lambda]struct{})
	var worklist []*Lambda
	for _, r := range roots {
		if _, ok := live[r]; !ok {
			live[r] = struct{}{}
			worklist = append(worklist, r)
		}
	}
	for len(worklist) > 0 {
		l := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, s := range l.successors() {
			if _, ok := live[s]; !ok {
				live[s] = struct{}{}
				worklist = append(worklist, s)
			}
		}
	}
	return live
}

// sweep destroys every lambda not in liveLambdas and unregisters every
// primop not in liveDefs, once both mark phases have settled.
func (w *World) sweep(liveLambdas map[*Lambda]struct{}, liveDefs map[Def]struct{}) {
	for _, l := range w.Lambdas() {
		if _, ok := liveLambdas[l]; !ok {
			w.destroyLambda(l)
		}
	}
	for _, d := range w.primops.all() {
		if _, ok := liveDefs[d]; ok {
			continue
		}
		unlinkOperands(d, d.Ops())
		w.primops.uncse(d)
	}
}

// dce marks every primop reachable from a live lambda's jump, growing
// liveLambdas in place whenever a lambda turns up as a value rather than
// a direct jump target. It returns the set of live primops; it does not
// destroy or unlink anything itself (see sweep).
func (w *World) dce(liveLambdas map[*Lambda]struct{}) map[Def]struct{} {
	liveDefs := make(map[Def]struct{})
	var worklist []Def

	push := func(d Def) {
		if d == nil {
			return
		}
		worklist = append(worklist, d)
	}

	for l := range liveLambdas {
		if l.Body.To != nil {
			push(l.Body.To)
			for _, a := range l.Body.Args {
				push(a)
			}
		}
	}

	for len(worklist) > 0 {
		d := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		switch v := d.(type) {
		case *Lambda:
			// a lambda reached here as a *value* (e.g. stored in a tuple)
			// rather than jumped to directly: UCE only walks direct
			// control-flow successors, so this lambda may not be live yet.
			if _, ok := liveLambdas[v]; !ok {
				liveLambdas[v] = struct{}{}
				if v.Body.To != nil {
					push(v.Body.To)
					for _, a := range v.Body.Args {
						push(a)
					}
				}
			}
		case *Param:
			// a Param is kept alive by its owner; the owner must already
			// be live (it owns this Param and is reachable), but guard the
			// invariant defensively rather than assume it.
			require(func() bool { _, ok := liveLambdas[v.Owner]; return ok }(),
				"dce: live param %s has a dead owner lambda", v)
		default:
			if _, seen := liveDefs[d]; seen {
				continue
			}
			liveDefs[d] = struct{}{}
			for _, op := range d.Ops() {
				push(op)
			}
		}
	}

	return liveDefs
}
