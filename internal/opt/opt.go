// SPDX-License-Identifier: Apache-2.0

// Package opt sequences the optimization passes of internal/passes over
// a World, in the order a PipelineConfig names. It is the only package
// that imports both internal/ir and internal/passes: the kernel package
// itself never knows these passes exist, matching how World::opt in the
// original is a thin, fixed-order driver over otherwise-independent
// transform units.
package opt

import (
	"fmt"

	"thorin/internal/ir"
	"thorin/internal/passes/clonebodies"
	"thorin/internal/passes/deadloadopt"
	"thorin/internal/passes/inliner"
	"thorin/internal/passes/liftbuiltins"
	"thorin/internal/passes/liftenters"
	"thorin/internal/passes/lower2cff"
	"thorin/internal/passes/mem2reg"
	"thorin/internal/passes/memmapbuiltins"
	"thorin/internal/passes/peval"
)

// Stats accumulates a human-readable count of what each pass did, purely
// for diagnostics (e.g. cmd/thorinc's -v output).
type Stats map[string]int

// Run applies every pass cfg names, in order, over every scope rooted at
// roots (the externally reachable entry points). Passes that operate
// per-scope are re-run once per root; uce/dce run World.Cleanup once,
// globally, at the position they appear in the list, and Cleanup runs
// nowhere else.
func Run(world *ir.World, roots []*ir.Lambda, cfg *ir.PipelineConfig) (Stats, error) {
	stats := make(Stats)

	for _, pass := range cfg.Passes {
		switch pass {
		case "peval":
			stats[pass] += peval.Run(world, roots)
		case "lower2cff":
			for _, r := range roots {
				if violations := lower2cff.Check(ir.NewScope(r)); len(violations) > 0 {
					return stats, fmt.Errorf("lower2cff: %d closure-free-form violation(s) in %s: %v", len(violations), r, violations)
				}
			}
		case "clonebodies":
			stats[pass] += cloneSharedLambdas(world, roots)
		case "mem2reg":
			stats[pass] += forEachScope(world, roots, mem2reg.Run)
		case "memmapbuiltins":
			stats[pass] += forEachScope(world, roots, memmapbuiltins.Run)
		case "liftbuiltins":
			stats[pass] += forEachScope(world, roots, liftbuiltins.Run)
		case "liftenters":
			stats[pass] += forEachScope(world, roots, liftenters.Run)
		case "inliner":
			stats[pass] += forEachScope(world, roots, inliner.Run)
		case "deadloadopt":
			stats[pass] += forEachScope(world, roots, deadloadopt.Run)
		case "uce", "dce":
			world.Cleanup(roots)
			stats[pass] = 1
		default:
			return stats, fmt.Errorf("opt: unknown pass %q", pass)
		}
	}

	return stats, nil
}

func forEachScope(world *ir.World, roots []*ir.Lambda, run func(*ir.World, *ir.Scope) int) int {
	total := 0
	for _, r := range roots {
		total += run(world, ir.NewScope(r))
	}
	return total
}

// cloneSharedLambdas gives every lambda used by more than one call site a
// private copy per extra use, so the inliner's "exactly one use" rule can
// make progress instead of permanently skipping shared continuations.
func cloneSharedLambdas(world *ir.World, roots []*ir.Lambda) int {
	cloned := 0
	for _, r := range roots {
		scope := ir.NewScope(r)
		for _, l := range scope.Members() {
			if l.IsMeta() {
				continue
			}
			callee, ok := l.Body.To.(*ir.Lambda)
			if !ok || !scope.Contains(callee) || callee.External {
				continue
			}
			if len(callee.Uses()) <= 1 {
				continue
			}
			clone := clonebodies.Clone(world, callee)
			ir.RewireJumpTarget(l, clone)
			cloned++
		}
	}
	return cloned
}
