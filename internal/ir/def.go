// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// NodeKind tags every concrete Def variant: the hash-consed primops of §3.3
// plus the two identity-based node kinds, Param and Lambda (§3.2).
type NodeKind uint8

const (
	NKParam NodeKind = iota
	NKLambda
	NKLiteral
	NKBottom
	NKArithOp
	NKCmp
	NKCast
	NKBitcast
	NKSelect
	NKExtract
	NKInsert
	NKTuple
	NKDefiniteArray
	NKIndefiniteArray
	NKStructAgg
	NKVector
	NKSlot
	NKAlloc
	NKLoad
	NKStore
	NKEnter
	NKLEA
	NKGlobal
	NKMap
	NKUnmap
	NKRun
	NKHlt
)

func (k NodeKind) String() string {
	switch k {
	case NKParam:
		return "param"
	case NKLambda:
		return "lambda"
	case NKLiteral:
		return "lit"
	case NKBottom:
		return "bottom"
	case NKArithOp:
		return "arithop"
	case NKCmp:
		return "cmp"
	case NKCast:
		return "cast"
	case NKBitcast:
		return "bitcast"
	case NKSelect:
		return "select"
	case NKExtract:
		return "extract"
	case NKInsert:
		return "insert"
	case NKTuple:
		return "tuple"
	case NKDefiniteArray:
		return "array"
	case NKIndefiniteArray:
		return "indefinite_array"
	case NKStructAgg:
		return "struct_agg"
	case NKVector:
		return "vector"
	case NKSlot:
		return "slot"
	case NKAlloc:
		return "alloc"
	case NKLoad:
		return "load"
	case NKStore:
		return "store"
	case NKEnter:
		return "enter"
	case NKLEA:
		return "lea"
	case NKGlobal:
		return "global"
	case NKMap:
		return "map"
	case NKUnmap:
		return "unmap"
	case NKRun:
		return "run"
	case NKHlt:
		return "hlt"
	default:
		return "?def"
	}
}

// Use records that user's operand at index Index is some Def; the use-list
// is the inverse of the operand list and is kept in lockstep with it so
// that cleanup (C7) can walk liveness in either direction (§4.7, §7 — a
// use-list/operand-list mismatch is a fail-stop invariant violation).
type Use struct {
	User  Def
	Index int
}

// Def is the common interface over every node in the sea of nodes: both
// the hash-consed, structurally-equal primops/literals and the two
// identity-based kinds, Param and Lambda. Two primop Defs are == (pointer
// identity) iff they are structurally equal, once both have passed
// through World's interning (§4.4); Lambda and Param are never interned
// and compare only by identity (§3.2).
type Def interface {
	GID() int
	setGID(id int)
	Type() Type
	Kind() NodeKind
	String() string
	Op(i int) Def
	Ops() []Def
	NumOps() int
	setOp(i int, v Def)
	Location() Location
	Name() string
	SetName(name string)
	Uses() []Use
	addUse(u Use)
	removeUse(u Use)
	// structKey uniquely determines this Def's hash-consing equivalence
	// class by its kind, type id, and operand gids (§4.4); only valid once
	// every operand has a gid assigned (invariant: operand gid < parent gid).
	structKey() string
}

// defBase is embedded by every concrete Def. gid is -1 until the node
// passes through World's interning/registration, mirroring the Type side.
type defBase struct {
	gid  int
	typ  Type
	ops  []Def
	loc  Location
	name string
	uses []Use
}

func newDefBase(typ Type, ops []Def, loc Location) defBase {
	return defBase{gid: -1, typ: typ, ops: ops, loc: loc}
}

func (d *defBase) GID() int         { return d.gid }
func (d *defBase) setGID(id int)    { d.gid = id }
func (d *defBase) Type() Type       { return d.typ }
func (d *defBase) Op(i int) Def     { return d.ops[i] }
func (d *defBase) Ops() []Def       { return d.ops }
func (d *defBase) NumOps() int      { return len(d.ops) }
func (d *defBase) setOp(i int, v Def) { d.ops[i] = v }
func (d *defBase) Location() Location { return d.loc }
func (d *defBase) Name() string     { return d.name }
func (d *defBase) SetName(n string) { d.name = n }
func (d *defBase) Uses() []Use      { return d.uses }

func (d *defBase) addUse(u Use) {
	d.uses = append(d.uses, u)
}

func (d *defBase) removeUse(u Use) {
	for i, existing := range d.uses {
		if existing.User == u.User && existing.Index == u.Index {
			d.uses[len(d.uses)-1], d.uses[i] = d.uses[i], d.uses[len(d.uses)-1]
			d.uses = d.uses[:len(d.uses)-1]
			return
		}
	}
	require(false, "removeUse: use not present (use-list/operand-list out of sync)")
}

// relinkOperands registers owner as a user of each of ops at its index;
// cse calls it when a candidate is accepted as a new canonical node
// (§4.4). unlinkOperands is its inverse.
func relinkOperands(owner Def, ops []Def) {
	for i, op := range ops {
		if op != nil {
			op.addUse(Use{User: owner, Index: i})
		}
	}
}

func unlinkOperands(owner Def, ops []Def) {
	for i, op := range ops {
		if op != nil {
			op.removeUse(Use{User: owner, Index: i})
		}
	}
}

// RewireOperand replaces owner's operand at index with newOp, keeping
// the use-lists of both the old and new operand consistent. It is the
// only sanctioned way for a pass outside this package to mutate an
// already-interned Def's operand list: passes never get to construct
// Defs directly (only World does), but cleanup-adjacent rewrites like
// peval's constant-propagation need to patch a slot in place rather than
// rebuild the whole owner through World again.
func RewireOperand(owner Def, index int, newOp Def) {
	old := owner.Op(index)
	if old == newOp {
		return
	}
	old.removeUse(Use{User: owner, Index: index})
	owner.setOp(index, newOp)
	newOp.addUse(Use{User: owner, Index: index})
}

func structKeyOfOps(kind NodeKind, typ Type, ops []Def) string {
	s := fmt.Sprintf("%d|%d|", kind, typ.id())
	for _, op := range ops {
		s += fmt.Sprintf("%d,", op.GID())
	}
	return s
}

// Param is the formal parameter of a Lambda: param i of lambda L denotes
// the i-th argument at any call site that jumps to L. Params are never
// interned — they are identity-based and live exactly as long as their
// owning Lambda (§3.2).
type Param struct {
	defBase
	Owner *Lambda
	Index int
}

func (p *Param) Kind() NodeKind   { return NKParam }
func (p *Param) structKey() string {
	require(false, "Param is identity-based and is never interned")
	return ""
}
func (p *Param) String() string {
	if p.name != "" {
		return p.name
	}
	return fmt.Sprintf("param_%d.%d", p.Owner.GID(), p.Index)
}

// Literal is a constant value of some primitive type.
type Literal struct {
	defBase
	Value Box
}

func (l *Literal) Kind() NodeKind    { return NKLiteral }
func (l *Literal) structKey() string { return fmt.Sprintf("lit|%d|%d|%d", l.typ.id(), l.Value.Kind(), l.Value.Bits()) }
func (l *Literal) String() string    { return l.Value.String() }

// Bottom is the modeled-undefined-behavior value of some type: the result
// of precise-overflow, division/remainder by zero, an out-of-range shift,
// or any aggregate op that touches a Bottom operand (§7, §4.5).
type Bottom struct {
	defBase
}

func (b *Bottom) Kind() NodeKind    { return NKBottom }
func (b *Bottom) structKey() string { return fmt.Sprintf("bottom|%d", b.typ.id()) }
func (b *Bottom) String() string    { return "<bottom:" + b.typ.String() + ">" }
