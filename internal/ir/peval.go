// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// RunDef and HltDef are the two partial-evaluation markers: Run flags a
// value the partial evaluator pass (internal/passes/peval) should try to
// specialize at compile time; Hlt flags one it must leave alone. Neither
// changes the wrapped value's type, and both are transparent to every
// other primop — only the peval pass inspects them.
type RunDef struct{ defBase }

func (r *RunDef) Kind() NodeKind    { return NKRun }
func (r *RunDef) structKey() string { return structKeyOfOps(NKRun, r.typ, r.ops) }
func (r *RunDef) String() string    { return fmt.Sprintf("run(%s)", r.ops[0]) }

type HltDef struct{ defBase }

func (h *HltDef) Kind() NodeKind    { return NKHlt }
func (h *HltDef) structKey() string { return structKeyOfOps(NKHlt, h.typ, h.ops) }
func (h *HltDef) String() string    { return fmt.Sprintf("hlt(%s)", h.ops[0]) }

// Run wraps def so the partial evaluator attempts to specialize it.
// run(hlt(x)) collapses to hlt(x) itself: a value explicitly frozen by
// Hlt is never a candidate for specialization, so wrapping it in Run
// again is a no-op (mirrors the original's `if (is_hlt()) return hlt`
// -style cancellation).
func (w *World) Run(def Def, loc Location) Def {
	if h, ok := def.(*HltDef); ok {
		return h
	}
	return w.primops.cse(&RunDef{newDefBase(def.Type(), []Def{def}, loc)})
}

// Hlt wraps def so the partial evaluator never specializes it. hlt(run(x))
// collapses the same way, in the other direction: Hlt always wins.
func (w *World) Hlt(def Def, loc Location) Def {
	if r, ok := def.(*RunDef); ok {
		def = r.ops[0]
	}
	return w.primops.cse(&HltDef{newDefBase(def.Type(), []Def{def}, loc)})
}
