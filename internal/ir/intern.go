// SPDX-License-Identifier: Apache-2.0
package ir

// primopTable is the structural-hashing set for primop Defs (C4),
// mirroring World::cse_base: probe by (kind, type, operand gids); if an
// equal node already exists, discard the candidate and hand back the
// canonical one; otherwise assign it the next gid and register it.
//
// The invariant operand gid < parent gid (bottom-up construction) means a
// candidate's operands are always already-interned by the time it is
// probed here, so structKey() is always safe to call.
type primopTable struct {
	byKey map[string]Def
	next  int
}

func newPrimopTable(startGID int) *primopTable {
	return &primopTable{byKey: make(map[string]Def), next: startGID}
}

// cse interns candidate, returning the canonical representative for its
// structural equivalence class. If candidate is new, it is registered as
// its own representative and its operand use-list entries are installed.
// If an equal node already exists, candidate's would-be use registrations
// are never made (the caller must not have linked them yet) and the
// existing node is returned instead.
func (pt *primopTable) cse(candidate Def) Def {
	require(candidate.GID() < 0, "cse: candidate already has a gid")
	for _, op := range candidate.Ops() {
		require(op != nil, "cse: candidate has a nil operand")
		require(op.GID() >= 0, "cse: operand not yet interned (bottom-up violation)")
	}

	key := candidate.structKey()
	if existing, ok := pt.byKey[key]; ok {
		return existing
	}

	candidate.setGID(pt.next)
	pt.next++
	pt.byKey[key] = candidate
	relinkOperands(candidate, candidate.Ops())
	return candidate
}

// uncse removes d from the table, used when cleanup (C7) determines d is
// unreachable and tears it down for good.
func (pt *primopTable) uncse(d Def) {
	delete(pt.byKey, d.structKey())
}

// all returns every primop currently interned, in no particular order.
func (pt *primopTable) all() []Def {
	out := make([]Def, 0, len(pt.byKey))
	for _, d := range pt.byKey {
		out = append(out, d)
	}
	return out
}
