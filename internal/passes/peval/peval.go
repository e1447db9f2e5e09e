// SPDX-License-Identifier: Apache-2.0

// Package peval specializes Run-wrapped values the partial evaluator can
// resolve at compile time: a Run around something that's already a
// constant collapses to that constant, same as the builder's own
// run(hlt(x)) cancellation, but scanning the whole world instead of just
// the two-node case the smart constructor can see locally.
package peval

import "thorin/internal/ir"

// Run scans every live primop reachable from roots and rewrites each use
// of a Run wrapping a Literal to use the Literal directly, then leaves
// dead Run nodes for the next cleanup pass to collect. It reports how
// many specializations it made.
func Run(world *ir.World, roots []*ir.Lambda) int {
	specialized := 0
	visited := make(map[ir.Def]bool)

	var walk func(d ir.Def)
	walk = func(d ir.Def) {
		if d == nil || visited[d] {
			return
		}
		visited[d] = true
		if _, ok := d.(*ir.Lambda); ok {
			return
		}
		for _, op := range d.Ops() {
			walk(op)
		}
	}

	for _, l := range roots {
		if l.Body.To != nil {
			walk(l.Body.To)
			for _, a := range l.Body.Args {
				walk(a)
			}
		}
	}

	for d := range visited {
		for i, op := range d.Ops() {
			if run, ok := op.(*ir.RunDef); ok {
				if lit, ok := run.Op(0).(*ir.Literal); ok {
					ir.RewireOperand(d, i, lit)
					specialized++
				}
			}
		}
	}

	for _, l := range roots {
		if run, ok := l.Body.To.(*ir.RunDef); ok {
			if lit, ok := run.Op(0).(*ir.Literal); ok {
				ir.RewireJumpTarget(l, lit)
				specialized++
			}
		}
		for i, a := range l.Body.Args {
			if run, ok := a.(*ir.RunDef); ok {
				if lit, ok := run.Op(0).(*ir.Literal); ok {
					ir.RewireJumpArg(l, i, lit)
					specialized++
				}
			}
		}
	}
	return specialized
}
