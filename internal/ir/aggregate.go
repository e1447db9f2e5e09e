// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// TupleDef is a fixed-arity heterogeneous aggregate value.
type TupleDef struct{ defBase }

func (t *TupleDef) Kind() NodeKind    { return NKTuple }
func (t *TupleDef) structKey() string { return structKeyOfOps(NKTuple, t.typ, t.ops) }
func (t *TupleDef) String() string    { return "(" + joinDefs(t.ops) + ")" }

// Tuple builds a tuple of elems, interning the result. No algebraic
// simplification applies to a bare tuple construction; simplification
// happens at Extract/Insert time.
func (w *World) Tuple(elems []Def, loc Location) Def {
	types := make([]Type, len(elems))
	for i, e := range elems {
		types[i] = e.Type()
	}
	typ := w.TupleType(types...)
	return w.primops.cse(&TupleDef{newDefBase(typ, append([]Def(nil), elems...), loc)})
}

// DefiniteArrayDef is a fixed-length homogeneous aggregate with literal
// elements.
type DefiniteArrayDef struct{ defBase }

func (a *DefiniteArrayDef) Kind() NodeKind    { return NKDefiniteArray }
func (a *DefiniteArrayDef) structKey() string { return structKeyOfOps(NKDefiniteArray, a.typ, a.ops) }
func (a *DefiniteArrayDef) String() string    { return "[" + joinDefs(a.ops) + "]" }

// DefiniteArray builds a fixed-length array from elems; typ must be a
// DefiniteArrayType whose Dim matches len(elems).
func (w *World) DefiniteArray(typ Type, elems []Def, loc Location) Def {
	dat, ok := typ.(*DefiniteArrayType)
	require(ok, "DefiniteArray: typ is not a DefiniteArrayType")
	require(dat.Dim == uint64(len(elems)), "DefiniteArray: dim %d != %d elems", dat.Dim, len(elems))
	return w.primops.cse(&DefiniteArrayDef{newDefBase(typ, append([]Def(nil), elems...), loc)})
}

// IndefiniteArrayDef is a dynamically-sized homogeneous aggregate: its
// single operand is a Def giving the runtime element count.
type IndefiniteArrayDef struct{ defBase }

func (a *IndefiniteArrayDef) Kind() NodeKind { return NKIndefiniteArray }
func (a *IndefiniteArrayDef) structKey() string {
	return structKeyOfOps(NKIndefiniteArray, a.typ, a.ops)
}
func (a *IndefiniteArrayDef) String() string { return fmt.Sprintf("new[%s]", a.ops[0]) }

// IndefiniteArray allocates a dynamically-sized array of elemType with
// dim elements, dim known only at run time.
func (w *World) IndefiniteArray(elemType Type, dim Def, loc Location) Def {
	typ := w.IndefiniteArrayType(elemType)
	return w.primops.cse(&IndefiniteArrayDef{newDefBase(typ, []Def{dim}, loc)})
}

// StructAggDef is a tagged, named-field aggregate value.
type StructAggDef struct{ defBase }

func (s *StructAggDef) Kind() NodeKind    { return NKStructAgg }
func (s *StructAggDef) structKey() string { return structKeyOfOps(NKStructAgg, s.typ, s.ops) }
func (s *StructAggDef) String() string    { return s.typ.String() + "{" + joinDefs(s.ops) + "}" }

// StructAgg builds a value of the named struct type from elems, in field
// order.
func (w *World) StructAgg(typ Type, elems []Def, loc Location) Def {
	st, ok := typ.(*StructType)
	require(ok, "StructAgg: typ is not a StructType")
	require(len(st.Elems) == len(elems), "StructAgg: %d fields != %d elems", len(st.Elems), len(elems))
	return w.primops.cse(&StructAggDef{newDefBase(typ, append([]Def(nil), elems...), loc)})
}

// VectorDef is an explicit SIMD vector built from scalar lanes.
type VectorDef struct{ defBase }

func (v *VectorDef) Kind() NodeKind    { return NKVector }
func (v *VectorDef) structKey() string { return structKeyOfOps(NKVector, v.typ, v.ops) }
func (v *VectorDef) String() string    { return "<" + joinDefs(v.ops) + ">" }

// Vector builds a vector from lanes; if every lane is the same Literal,
// the result is built as a splatted PrimType instead (a cheap form of the
// builder's constant-folding discipline: never let an equivalent-but-more
// verbose representation through when a simpler canonical one exists).
func (w *World) Vector(lanes []Def, loc Location) Def {
	require(len(lanes) > 0, "Vector: no lanes")
	allSameLit, lit := sameLiteral(lanes)
	if allSameLit {
		return w.Literal(w.VecPrimType(lit.Value.Kind(), uint64(len(lanes))), lit.Value, loc)
	}
	typ := w.VectorType(lanes[0].Type(), uint64(len(lanes)))
	return w.primops.cse(&VectorDef{newDefBase(typ, append([]Def(nil), lanes...), loc)})
}

func sameLiteral(defs []Def) (bool, *Literal) {
	first, ok := defs[0].(*Literal)
	if !ok {
		return false, nil
	}
	for _, d := range defs[1:] {
		if d != Def(first) {
			return false, nil
		}
	}
	return true, first
}

// ExtractDef projects one component out of an aggregate.
type ExtractDef struct{ defBase }

func (e *ExtractDef) Kind() NodeKind    { return NKExtract }
func (e *ExtractDef) structKey() string { return structKeyOfOps(NKExtract, e.typ, e.ops) }
func (e *ExtractDef) String() string    { return fmt.Sprintf("extract(%s, %s)", e.ops[0], e.ops[1]) }

// Extract projects the component of agg named by index (a literal integer
// for tuples/structs/arrays, an arbitrary Def for a vector lane). It
// algebraically simplifies:
//
//	extract(insert(agg, i, v), i) == v
//	extract(insert(agg, j, v), i) == extract(agg, i)   when i, j are distinct literals
//	extract(tuple(e0..en), k)     == ek                when k is a literal
//	extract(array[e0..en], k)     == ek                when k is a literal
//	extract(vector<v repeated>, _) == v
//	extract(bottom, _)            == bottom(resultType)
func (w *World) Extract(agg Def, index Def, resultType Type, loc Location) Def {
	if _, ok := agg.(*Bottom); ok {
		return w.Bottom(resultType, loc)
	}

	if lit, isLit := index.(*Literal); isLit {
		k := lit.Value.AsU64()
		switch a := agg.(type) {
		case *TupleDef:
			if k < uint64(len(a.ops)) {
				return a.ops[k]
			}
		case *DefiniteArrayDef:
			if k < uint64(len(a.ops)) {
				return a.ops[k]
			}
		case *StructAggDef:
			if k < uint64(len(a.ops)) {
				return a.ops[k]
			}
		case *InsertDef:
			if jlit, ok := a.ops[1].(*Literal); ok {
				if jlit.Value.AsU64() == k {
					return a.ops[2]
				}
				return w.Extract(a.ops[0], index, resultType, loc)
			}
		case *VectorDef:
			if allSame, lit := sameLiteral(a.ops); allSame {
				return w.Literal(resultType, lit.Value, loc)
			}
			if k < uint64(len(a.ops)) {
				return a.ops[k]
			}
		}
	}

	return w.primops.cse(&ExtractDef{newDefBase(resultType, []Def{agg, index}, loc)})
}

// InsertDef produces a copy of an aggregate with one component replaced.
type InsertDef struct{ defBase }

func (i *InsertDef) Kind() NodeKind    { return NKInsert }
func (i *InsertDef) structKey() string { return structKeyOfOps(NKInsert, i.typ, i.ops) }
func (i *InsertDef) String() string {
	return fmt.Sprintf("insert(%s, %s, %s)", i.ops[0], i.ops[1], i.ops[2])
}

// Insert produces agg with component index replaced by val. It
// simplifies insert(insert(agg, i, _), i, val) to a single insert.
//
// A Bottom agg only collapses to outright Bottom when val is Bottom too
// (nothing useful can be said about any component then); otherwise a
// Bottom agg is first materialized into a concrete aggregate with every
// component set to Bottom, and val is inserted into that — so the other,
// still-unknown components stay distinguishable from the one just
// written, instead of the whole aggregate becoming a single opaque
// Bottom. This mirrors World::insert.
func (w *World) Insert(agg Def, index Def, val Def, loc Location) Def {
	if _, ok := agg.(*Bottom); ok {
		if _, ok := val.(*Bottom); ok {
			return agg
		}
		agg = w.bottomSeededAggregate(agg.Type(), loc)
	}
	if prior, ok := agg.(*InsertDef); ok {
		if plit, ok1 := prior.ops[1].(*Literal); ok1 {
			if ilit, ok2 := index.(*Literal); ok2 && plit.Value.AsU64() == ilit.Value.AsU64() {
				agg = prior.ops[0]
			}
		}
	}
	return w.primops.cse(&InsertDef{newDefBase(agg.Type(), []Def{agg, index, val}, loc)})
}

// SelectDef is a value-level conditional (distinct from a lambda jump: it
// never transfers control, it picks between two already-computed values).
type SelectDef struct{ defBase }

func (s *SelectDef) Kind() NodeKind    { return NKSelect }
func (s *SelectDef) structKey() string { return structKeyOfOps(NKSelect, s.typ, s.ops) }
func (s *SelectDef) String() string {
	return fmt.Sprintf("select(%s, %s, %s)", s.ops[0], s.ops[1], s.ops[2])
}

// Select picks thenVal when cond is true, elseVal otherwise. It
// propagates a Bottom cond/thenVal/elseVal to Bottom, simplifies
// select(lit, t, e) to the chosen literal branch, pushes a logical not
// out of cond by swapping the branches instead (select(not(c), t, e) ==
// select(c, e, t)), and collapses select(c, t, t) to t regardless of c.
func (w *World) Select(cond, thenVal, elseVal Def, loc Location) Def {
	if isBottom(cond) || isBottom(thenVal) || isBottom(elseVal) {
		return w.Bottom(thenVal.Type(), loc)
	}
	if lit, ok := cond.(*Literal); ok {
		if lit.Value.AsBool() {
			return thenVal
		}
		return elseVal
	}
	if inner, ok := isNot(cond); ok {
		cond, thenVal, elseVal = inner, elseVal, thenVal
	}
	if thenVal == elseVal {
		return thenVal
	}
	return w.primops.cse(&SelectDef{newDefBase(thenVal.Type(), []Def{cond, thenVal, elseVal}, loc)})
}

// bottomSeededAggregate builds a concrete aggregate of typ with every
// component set to Bottom, used by Insert to turn a Bottom agg into
// something a component can actually be inserted into. typ that Insert
// never reaches this way (e.g. an indefinite array, which has no literal
// elements to seed) are returned as Bottom unchanged.
func (w *World) bottomSeededAggregate(typ Type, loc Location) Def {
	switch t := typ.(type) {
	case *DefiniteArrayType:
		elems := make([]Def, t.Dim)
		for i := range elems {
			elems[i] = w.Bottom(t.Elem, loc)
		}
		return w.DefiniteArray(t, elems, loc)
	case *TupleType:
		elems := make([]Def, len(t.Elems))
		for i, et := range t.Elems {
			elems[i] = w.Bottom(et, loc)
		}
		return w.Tuple(elems, loc)
	case *StructType:
		elems := make([]Def, len(t.Elems))
		for i, et := range t.Elems {
			elems[i] = w.Bottom(et, loc)
		}
		return w.StructAgg(t, elems, loc)
	default:
		return w.Bottom(typ, loc)
	}
}

func joinDefs(defs []Def) string {
	s := ""
	for i, d := range defs {
		if i > 0 {
			s += ", "
		}
		s += d.String()
	}
	return s
}
