// SPDX-License-Identifier: Apache-2.0
package ir

// CFGNode is one control-flow node: either a member lambda of the scope,
// or the scope's single virtual exit node (Lambda == nil). The virtual
// exit is always allocated, even for a scope with no real exit edges —
// unlike the commented-out optional exit node in the original, every CFG
// here has exactly one, so dominator/post-dominator computation never
// has to special-case its absence.
type CFGNode struct {
	Lambda *Lambda
	id     int
}

func (n *CFGNode) IsVirtualExit() bool { return n.Lambda == nil }

// CFG is the control-flow graph of one Scope: one CFGNode per member
// lambda plus the virtual exit, with an edge l -> succ for every
// control-flow successor (Lambda.successors()), and an edge l -> exit
// for any lambda whose jump leaves the scope (e.g. invoking a free,
// externally-owned return continuation).
type CFG struct {
	scope *Scope
	exit  *CFGNode
	nodes map[*Lambda]*CFGNode
	succs map[*CFGNode][]*CFGNode
	preds map[*CFGNode][]*CFGNode

	fView *CFGView
	bView *CFGView
}

// NewCFG builds the control-flow graph of scope.
func NewCFG(scope *Scope) *CFG {
	cfg := &CFG{
		scope: scope,
		nodes: make(map[*Lambda]*CFGNode),
		succs: make(map[*CFGNode][]*CFGNode),
		preds: make(map[*CFGNode][]*CFGNode),
	}

	id := 0
	for _, l := range scope.Members() {
		cfg.nodes[l] = &CFGNode{Lambda: l, id: id}
		id++
	}
	cfg.exit = &CFGNode{Lambda: nil, id: id}

	for _, l := range scope.Members() {
		n := cfg.nodes[l]
		succLambdas := l.successors()
		if len(succLambdas) == 0 {
			cfg.addEdge(n, cfg.exit)
			continue
		}
		for _, sl := range succLambdas {
			sn, ok := cfg.nodes[sl]
			if !ok {
				// a successor outside the scope's membership (shouldn't
				// normally occur, since Scope's closure already chases
				// every Lambda successor) is treated as an exit edge.
				sn = cfg.exit
			}
			cfg.addEdge(n, sn)
		}
	}

	return cfg
}

func (c *CFG) addEdge(from, to *CFGNode) {
	c.succs[from] = append(c.succs[from], to)
	c.preds[to] = append(c.preds[to], from)
}

// Entry returns the CFG node for the scope's entry lambda.
func (c *CFG) Entry() *CFGNode { return c.nodes[c.scope.entry] }

// Exit returns the CFG's single virtual exit node.
func (c *CFG) Exit() *CFGNode { return c.exit }

// Node returns the CFG node for l, or nil if l is not a scope member.
func (c *CFG) Node(l *Lambda) *CFGNode { return c.nodes[l] }

// Nodes returns every node in the CFG, including the virtual exit, id
// order.
func (c *CFG) Nodes() []*CFGNode {
	out := make([]*CFGNode, 0, len(c.nodes)+1)
	for _, l := range c.scope.Members() {
		out = append(out, c.nodes[l])
	}
	out = append(out, c.exit)
	return out
}

func (c *CFG) Succs(n *CFGNode) []*CFGNode { return c.succs[n] }
func (c *CFG) Preds(n *CFGNode) []*CFGNode { return c.preds[n] }

// F_CFG returns the forward CFGView (successors as given), computed and
// cached on first use.
func (c *CFG) F_CFG() *CFGView {
	if c.fView == nil {
		c.fView = newCFGView(c, true)
	}
	return c.fView
}

// B_CFG returns the backward CFGView (predecessors treated as
// successors, i.e. the transposed graph rooted at the exit), computed
// and cached on first use.
func (c *CFG) B_CFG() *CFGView {
	if c.bView == nil {
		c.bView = newCFGView(c, false)
	}
	return c.bView
}
