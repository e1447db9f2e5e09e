// SPDX-License-Identifier: Apache-2.0

// Package mem2reg forwards the value most recently Stored to a
// non-escaping Slot directly to every later Load of that slot's pointer,
// in gid order (the operand-gid-less-than-parent-gid invariant makes
// ascending gid a valid program order for this purpose). It only
// rewrites the loaded *value*, leaving the mem token threaded through
// Load/Store exactly as built; the load node itself becomes dead once
// nothing reads its value anymore, and a later dead-code pass collects
// it. This is a conservative, whole-function version of the
// store-to-load forwarding kanso's ConstantFolding pass does locally.
package mem2reg

import (
	"sort"

	"thorin/internal/ir"
)

// Run applies store-to-load forwarding over every def reachable from
// scope's lambda jumps and returns the number of loads rewritten.
func Run(world *ir.World, scope *ir.Scope) int {
	defs := collectOrdered(scope)
	nonEscaping := findNonEscapingSlotPtrs(defs)

	lastValue := make(map[ir.Def]ir.Def) // slot ptr -> most recent stored value
	rewritten := 0

	for _, d := range defs {
		switch v := d.(type) {
		case *ir.StoreDef:
			ptr := v.Op(1)
			if nonEscaping[ptr] {
				lastValue[ptr] = v.Op(2)
			}
		case *ir.ExtractDef:
			// a Load's value component is extract(load_result, 1).
			load, ok := v.Op(0).(*ir.LoadDef)
			if !ok {
				continue
			}
			idx, ok := v.Op(1).(*ir.Literal)
			if !ok || idx.Value.AsU64() != 1 {
				continue
			}
			ptr := load.Op(1)
			val, known := lastValue[ptr]
			if !known || !nonEscaping[ptr] {
				continue
			}
			for _, use := range append([]ir.Use(nil), v.Uses()...) {
				ir.RewireOperand(use.User, use.Index, val)
			}
			rewritten++
		}
	}
	return rewritten
}

// collectOrdered returns every Def reachable from scope's lambda jumps,
// sorted ascending by gid.
func collectOrdered(scope *ir.Scope) []ir.Def {
	seen := make(map[ir.Def]bool)
	var out []ir.Def

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
		out = append(out, d)
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

	sort.Slice(out, func(i, j int) bool { return out[i].GID() < out[j].GID() })
	return out
}

// findNonEscapingSlotPtrs identifies every Slot's pointer result (the
// second component of a SlotDef's result tuple) whose only uses are as
// the address operand of a Load or Store.
func findNonEscapingSlotPtrs(defs []ir.Def) map[ir.Def]bool {
	slotPtrs := make(map[ir.Def]bool)
	for _, d := range defs {
		if ext, ok := d.(*ir.ExtractDef); ok {
			if _, ok := ext.Op(0).(*ir.SlotDef); !ok {
				continue
			}
			if idx, ok := ext.Op(1).(*ir.Literal); ok && idx.Value.AsU64() == 1 {
				slotPtrs[ext] = true
			}
		}
	}

	nonEscaping := make(map[ir.Def]bool, len(slotPtrs))
	for ptr := range slotPtrs {
		escapes := false
		for _, use := range ptr.Uses() {
			switch u := use.User.(type) {
			case *ir.LoadDef:
				if use.Index != 1 {
					escapes = true
				}
			case *ir.StoreDef:
				if use.Index != 1 {
					escapes = true
				}
			default:
				_ = u
				escapes = true
			}
			if escapes {
				break
			}
		}
		if !escapes {
			nonEscaping[ptr] = true
		}
	}
	return nonEscaping
}
