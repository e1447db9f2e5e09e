// SPDX-License-Identifier: Apache-2.0
package ir

// CFGView is a CFG together with a fixed traversal direction and its
// reverse postorder numbering: F_CFG walks successors from the entry,
// B_CFG walks predecessors from the exit (so "forward" analyses like
// dominance and "backward" ones like post-dominance share one
// implementation parameterized only by which view they're given).
// CFGView is computed lazily and cached by its owning CFG (§4.6).
type CFGView struct {
	cfg     *CFG
	forward bool
	root    *CFGNode
	rpo     []*CFGNode
	num     map[*CFGNode]int
}

func newCFGView(cfg *CFG, forward bool) *CFGView {
	v := &CFGView{cfg: cfg, forward: forward, num: make(map[*CFGNode]int)}
	if forward {
		v.root = cfg.Entry()
	} else {
		v.root = cfg.Exit()
	}
	v.computeRPO()
	return v
}

// Succs returns n's successors as seen from this view's direction.
func (v *CFGView) Succs(n *CFGNode) []*CFGNode {
	if v.forward {
		return v.cfg.Succs(n)
	}
	return v.cfg.Preds(n)
}

// Preds returns n's predecessors as seen from this view's direction.
func (v *CFGView) Preds(n *CFGNode) []*CFGNode {
	if v.forward {
		return v.cfg.Preds(n)
	}
	return v.cfg.Succs(n)
}

// Root returns the view's traversal root (entry for F_CFG, exit for
// B_CFG).
func (v *CFGView) Root() *CFGNode { return v.root }

// RPO returns every node reachable from Root, in reverse postorder. A
// node unreachable in this direction (dead code on the forward view, or
// a node that can never reach the exit on the backward view) is simply
// absent — callers that need "every scope member" should use CFG.Nodes
// instead.
func (v *CFGView) RPO() []*CFGNode { return v.rpo }

// Num returns n's reverse-postorder index, or -1 if n is unreachable
// from Root in this view's direction.
func (v *CFGView) Num(n *CFGNode) int {
	if i, ok := v.num[n]; ok {
		return i
	}
	return -1
}

func (v *CFGView) computeRPO() {
	visited := make(map[*CFGNode]bool)
	var postorder []*CFGNode

	var dfs func(n *CFGNode)
	dfs = func(n *CFGNode) {
		visited[n] = true
		for _, s := range v.Succs(n) {
			if !visited[s] {
				dfs(s)
			}
		}
		postorder = append(postorder, n)
	}
	dfs(v.root)

	v.rpo = make([]*CFGNode, len(postorder))
	for i, n := range postorder {
		idx := len(postorder) - 1 - i
		v.rpo[idx] = n
		v.num[n] = idx
	}
}
