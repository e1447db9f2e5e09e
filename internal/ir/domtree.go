// SPDX-License-Identifier: Apache-2.0
package ir

// DomTree is the (post-)dominator tree of a CFGView, computed on demand:
// passing a CFG's F_CFG gives the ordinary dominator tree, passing its
// B_CFG gives the post-dominator tree. Both are clients of CFGView's
// public surface only — they never need to know about Scope or Lambda
// directly (§4.6).
type DomTree struct {
	view *CFGView
	idom map[*CFGNode]*CFGNode
}

// NewDomTree computes the dominator tree of view using the standard
// iterative RPO-numbered algorithm (Cooper, Harvey & Kennedy).
func NewDomTree(view *CFGView) *DomTree {
	t := &DomTree{view: view, idom: make(map[*CFGNode]*CFGNode)}
	rpo := view.RPO()
	if len(rpo) == 0 {
		return t
	}
	root := rpo[0]
	t.idom[root] = root

	changed := true
	for changed {
		changed = false
		for _, n := range rpo[1:] {
			var newIdom *CFGNode
			for _, p := range view.Preds(n) {
				if _, ok := t.idom[p]; !ok {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = t.intersect(newIdom, p)
			}
			if newIdom != nil && t.idom[n] != newIdom {
				t.idom[n] = newIdom
				changed = true
			}
		}
	}
	t.idom[root] = nil // the root has no strict dominator
	return t
}

func (t *DomTree) intersect(a, b *CFGNode) *CFGNode {
	for a != b {
		for t.view.Num(a) > t.view.Num(b) {
			a = t.idom[a]
		}
		for t.view.Num(b) > t.view.Num(a) {
			b = t.idom[b]
		}
	}
	return a
}

// IDom returns n's immediate dominator, or nil if n is the root or
// unreachable.
func (t *DomTree) IDom(n *CFGNode) *CFGNode { return t.idom[n] }

// Dominates reports whether a dominates b (every path from the view's
// root to b passes through a), a == b included.
func (t *DomTree) Dominates(a, b *CFGNode) bool {
	if _, ok := t.idom[b]; !ok {
		return false // b unreachable: dominated by nothing
	}
	for n := b; ; {
		if n == a {
			return true
		}
		parent, ok := t.idom[n]
		if !ok || parent == nil || parent == n {
			return n == a
		}
		n = parent
	}
}

// Children returns every node whose immediate dominator is n.
func (t *DomTree) Children(n *CFGNode) []*CFGNode {
	var out []*CFGNode
	for _, m := range t.view.RPO() {
		if t.idom[m] == n && m != n {
			out = append(out, m)
		}
	}
	return out
}
