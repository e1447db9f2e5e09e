// SPDX-License-Identifier: Apache-2.0
package ir

// Loop is one natural loop: a header node plus every node that reaches
// it via a back edge without leaving through it.
type Loop struct {
	Header *CFGNode
	Body   map[*CFGNode]struct{}
}

// LoopForest is the set of natural loops of a CFGView, found from its
// dominator tree's back edges (an edge n -> h where h dominates n).
// Like DomTree, it is a pure client of CFGView and DomTree's public
// surface (§4.6).
type LoopForest struct {
	view  *CFGView
	loops []*Loop
}

// NewLoopForest finds every natural loop in view, using dom (the
// dominator tree of the same view) to identify back edges.
func NewLoopForest(view *CFGView, dom *DomTree) *LoopForest {
	f := &LoopForest{view: view}
	for _, n := range view.RPO() {
		for _, s := range view.Succs(n) {
			if dom.Dominates(s, n) {
				f.loops = append(f.loops, buildLoop(view, s, n))
			}
		}
	}
	return f
}

// buildLoop collects header's natural loop body given one back edge
// latch -> header: a reverse BFS from latch over predecessors, stopping
// at header.
func buildLoop(view *CFGView, header, latch *CFGNode) *Loop {
	l := &Loop{Header: header, Body: map[*CFGNode]struct{}{header: {}}}
	if latch == header {
		return l // single-node self-loop
	}
	worklist := []*CFGNode{latch}
	l.Body[latch] = struct{}{}
	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, p := range view.Preds(n) {
			if _, in := l.Body[p]; in {
				continue
			}
			l.Body[p] = struct{}{}
			worklist = append(worklist, p)
		}
	}
	return l
}

// Loops returns every natural loop found, one per back edge (a header
// with multiple back edges yields multiple overlapping Loop entries,
// matching how irreducible-free structured loops are usually reported).
func (f *LoopForest) Loops() []*Loop { return f.loops }

// Contains returns every loop whose body includes n, innermost first is
// not guaranteed — callers that need nesting order should compare body
// sizes.
func (f *LoopForest) Contains(n *CFGNode) []*Loop {
	var out []*Loop
	for _, l := range f.loops {
		if _, ok := l.Body[n]; ok {
			out = append(out, l)
		}
	}
	return out
}
