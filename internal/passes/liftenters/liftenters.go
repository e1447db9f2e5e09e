// SPDX-License-Identifier: Apache-2.0

// Package liftenters merges redundant Enter calls within a scope: two
// Enter ops both reading the scope entry's own incoming mem parameter
// directly (no effecting op in between) open two frames over what is,
// from the entry's point of view, the same point in time. Only the
// first is kept; every later one's Frame result is replaced by the
// first's.
package liftenters

import "thorin/internal/ir"

// Run merges duplicate top-of-scope Enters and returns how many were
// folded away.
func Run(world *ir.World, scope *ir.Scope) int {
	entryMem := entryMemParam(scope.Entry())
	if entryMem == nil {
		return 0
	}

	var canonical *ir.EnterDef
	folded := 0

	visit(scope, func(d ir.Def) {
		enter, ok := d.(*ir.EnterDef)
		if !ok || enter.Op(0) != ir.Def(entryMem) {
			return
		}
		if canonical == nil {
			canonical = enter
			return
		}
		for _, use := range append([]ir.Use(nil), enter.Uses()...) {
			ir.RewireOperand(use.User, use.Index, canonical)
		}
		folded++
	})

	return folded
}

// entryMemParam returns the entry lambda's first MemType-typed param, if
// it has one.
func entryMemParam(entry *ir.Lambda) *ir.Param {
	for i := 0; i < entry.NumParams(); i++ {
		p := entry.Param(i)
		if _, ok := p.Type().(*ir.MemType); ok {
			return p
		}
	}
	return nil
}

func visit(scope *ir.Scope, fn func(ir.Def)) {
	seen := make(map[ir.Def]bool)
	var walk func(d ir.Def)
	walk = func(d ir.Def) {
		if d == nil || seen[d] {
			return
		}
		if _, ok := d.(*ir.Lambda); ok {
			return
		}
		seen[d] = true
		for i := 0; i < d.NumOps(); i++ {
			walk(d.Op(i))
		}
		fn(d)
	}
	for _, l := range scope.Members() {
		if l.Body.To == nil {
			continue
		}
		walk(l.Body.To)
		for _, a := range l.Body.Args {
			walk(a)
		}
	}
}
