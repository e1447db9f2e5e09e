// SPDX-License-Identifier: Apache-2.0
package ir

// Scope is the reachable-lambda closure of a single entry lambda: every
// lambda transitively jumped to (directly, or passed as a continuation
// argument) starting from entry, plus the set of Params referenced from
// within that closure but owned by some lambda outside it (the scope's
// free variables). A Scope is a read-only view over the World at the
// time it was built; it does not track subsequent World mutations.
type Scope struct {
	entry      *Lambda
	members    map[*Lambda]struct{}
	order      []*Lambda // discovery order, entry first
	freeParams []*Param
}

// NewScope computes the scope rooted at entry.
func NewScope(entry *Lambda) *Scope {
	s := &Scope{entry: entry, members: make(map[*Lambda]struct{})}
	s.discoverMembers()
	s.discoverFreeParams()
	return s
}

func (s *Scope) discoverMembers() {
	var worklist []*Lambda
	worklist = append(worklist, s.entry)
	s.members[s.entry] = struct{}{}
	s.order = append(s.order, s.entry)

	for len(worklist) > 0 {
		l := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, succ := range l.successors() {
			if _, seen := s.members[succ]; seen {
				continue
			}
			s.members[succ] = struct{}{}
			s.order = append(s.order, succ)
			worklist = append(worklist, succ)
		}
	}
}

// discoverFreeParams walks the operand DAG of every member lambda's Jump
// (stopping at Lambda nodes, which are control-flow boundaries, not data
// to recurse through) and records every Param whose Owner lambda is not
// itself a member.
func (s *Scope) discoverFreeParams() {
	seen := make(map[Def]struct{})
	var freeSeen map[*Param]struct{} = make(map[*Param]struct{})

	var walk func(d Def)
	walk = func(d Def) {
		if d == nil {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}

		switch v := d.(type) {
		case *Lambda:
			return // control-flow boundary: don't descend into another lambda
		case *Param:
			if _, owned := s.members[v.Owner]; !owned {
				if _, already := freeSeen[v]; !already {
					freeSeen[v] = struct{}{}
					s.freeParams = append(s.freeParams, v)
				}
			}
			return
		default:
			for _, op := range d.Ops() {
				walk(op)
			}
		}
	}

	for l := range s.members {
		if l.Body.To != nil {
			walk(l.Body.To)
			for _, a := range l.Body.Args {
				walk(a)
			}
		}
	}
}

// Entry returns the scope's root lambda.
func (s *Scope) Entry() *Lambda { return s.entry }

// Members returns every lambda in the scope, in discovery order (entry
// first).
func (s *Scope) Members() []*Lambda { return s.order }

// Contains reports whether l belongs to this scope.
func (s *Scope) Contains(l *Lambda) bool {
	_, ok := s.members[l]
	return ok
}

// FreeParams returns every Param referenced from within the scope but
// owned by a lambda outside it.
func (s *Scope) FreeParams() []*Param { return s.freeParams }
