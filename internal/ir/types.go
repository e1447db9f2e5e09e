// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"fmt"
	"strings"
)

// TypeKind tags the structural type variants of §3 "Types (structural, interned)".
type TypeKind uint8

const (
	TKPrimitive TypeKind = iota
	TKPointer
	TKTuple
	TKFunction
	TKMemory
	TKFrame
	TKDefiniteArray
	TKIndefiniteArray
	TKStruct
	TKVector
	TKTypeVar
)

// Type is the common interface over every structural, interned type
// variant. Two Types are == (pointer identity) iff they are structurally
// equal, once both have been interned by one of World's type constructors
// (typeTable.unify) — that is the whole point of the type graph (§4.2).
type Type interface {
	Kind() TypeKind
	String() string
	// structKey returns a string uniquely determined by this type's shape
	// and the *already-assigned* ids of its transitive components. It is
	// only valid to call once every component is interned (invariant 2).
	structKey() string
	id() int
	setID(id int)
	closed() bool
}

type typeBase struct {
	tid int // -1 until interned; assigned by typeTable.unify
}

// newTypeBase returns a typeBase in its pre-interning state. Every Type
// literal must embed this rather than rely on the zero value: Go's zero
// value for int is 0, which is itself a valid interned id, not a sentinel.
func newTypeBase() typeBase { return typeBase{tid: -1} }

func (b *typeBase) id() int       { return b.tid }
func (b *typeBase) setID(id int)  { b.tid = id }
func (b *typeBase) closed() bool  { return true } // overridden by every composite type to check its components are interned

// PrimType is a scalar or SIMD-splatted primitive type.
type PrimType struct {
	typeBase
	PrimKind Kind
	VecLen   uint64 // 1 for a scalar
}

func (t *PrimType) Kind() TypeKind { return TKPrimitive }
func (t *PrimType) String() string {
	if t.VecLen == 1 {
		return t.PrimKind.String()
	}
	return fmt.Sprintf("<%d x %s>", t.VecLen, t.PrimKind)
}
func (t *PrimType) structKey() string {
	return fmt.Sprintf("prim(%d,%d)", t.PrimKind, t.VecLen)
}

// PtrType points at a ReferencedType living in a given address space.
type PtrType struct {
	typeBase
	Referenced Type
	AddrSpace  AddressSpace
}

func (t *PtrType) Kind() TypeKind { return TKPointer }
func (t *PtrType) String() string { return fmt.Sprintf("*(%d)%s", t.AddrSpace, t.Referenced) }
func (t *PtrType) structKey() string {
	return fmt.Sprintf("ptr(%d,%d)", t.Referenced.id(), t.AddrSpace)
}
func (t *PtrType) closed() bool { return t.Referenced.id() >= 0 }

// TupleType is a fixed-arity, heterogeneous aggregate.
type TupleType struct {
	typeBase
	Elems []Type
}

func (t *TupleType) Kind() TypeKind { return TKTuple }
func (t *TupleType) String() string { return "(" + joinTypes(t.Elems) + ")" }
func (t *TupleType) structKey() string {
	return "tuple(" + joinIDs(t.Elems) + ")"
}
func (t *TupleType) closed() bool { return allClosed(t.Elems) }

// FnType is a continuation's signature: the types of its parameters.
// FnType never "returns" in the usual sense — control leaves via a jump.
type FnType struct {
	typeBase
	Params []Type
	bound  *TypeVar // optional, set by Bind; documents a polymorphic slot
}

func (t *FnType) Kind() TypeKind { return TKFunction }
func (t *FnType) String() string { return "fn(" + joinTypes(t.Params) + ")" }
func (t *FnType) structKey() string {
	return "fn(" + joinIDs(t.Params) + ")"
}
func (t *FnType) closed() bool { return allClosed(t.Params) }

// Bind records that tv is the polymorphic slot this FnType was built
// around (mirrors World's constructor: `f->bind(v)` after building a
// branch-like signature that carries a free continuation-result type).
func (t *FnType) Bind(tv *TypeVar) { t.bound = tv }

// MemType is the singleton type of the memory token threaded through
// memory primops.
type MemType struct{ typeBase }

func (t *MemType) Kind() TypeKind    { return TKMemory }
func (t *MemType) String() string    { return "mem" }
func (t *MemType) structKey() string { return "mem" }

// FrameType is the singleton type of a stack frame handle.
type FrameType struct{ typeBase }

func (t *FrameType) Kind() TypeKind    { return TKFrame }
func (t *FrameType) String() string    { return "frame" }
func (t *FrameType) structKey() string { return "frame" }

// DefiniteArrayType is a fixed-length homogeneous aggregate.
type DefiniteArrayType struct {
	typeBase
	Elem Type
	Dim  uint64
}

func (t *DefiniteArrayType) Kind() TypeKind { return TKDefiniteArray }
func (t *DefiniteArrayType) String() string { return fmt.Sprintf("[%d x %s]", t.Dim, t.Elem) }
func (t *DefiniteArrayType) structKey() string {
	return fmt.Sprintf("defarr(%d,%d)", t.Elem.id(), t.Dim)
}
func (t *DefiniteArrayType) closed() bool { return t.Elem.id() >= 0 }

// IndefiniteArrayType is a dynamically-sized homogeneous aggregate; it
// has no literal elements (an Array primop can't directly construct one).
type IndefiniteArrayType struct {
	typeBase
	Elem Type
}

func (t *IndefiniteArrayType) Kind() TypeKind { return TKIndefiniteArray }
func (t *IndefiniteArrayType) String() string { return fmt.Sprintf("[%s]", t.Elem) }
func (t *IndefiniteArrayType) structKey() string {
	return fmt.Sprintf("indefarr(%d)", t.Elem.id())
}
func (t *IndefiniteArrayType) closed() bool { return t.Elem.id() >= 0 }

// StructType is a tagged, named-field aggregate (the tag, not the field
// names, participates in structural equality: two structs with the same
// tag and element types are the same type).
type StructType struct {
	typeBase
	Tag   string
	Elems []Type
}

func (t *StructType) Kind() TypeKind { return TKStruct }
func (t *StructType) String() string { return t.Tag + "{" + joinTypes(t.Elems) + "}" }
func (t *StructType) structKey() string {
	return "struct(" + t.Tag + ";" + joinIDs(t.Elems) + ")"
}
func (t *StructType) closed() bool { return allClosed(t.Elems) }

// VectorType is an explicit SIMD vector of Len elements (distinct from
// PrimType's VecLen splat, used for aggregate/pointer element vectors).
type VectorType struct {
	typeBase
	Elem Type
	Len  uint64
}

func (t *VectorType) Kind() TypeKind { return TKVector }
func (t *VectorType) String() string { return fmt.Sprintf("<%d x %s>", t.Len, t.Elem) }
func (t *VectorType) structKey() string {
	return fmt.Sprintf("vector(%d,%d)", t.Elem.id(), t.Len)
}
func (t *VectorType) closed() bool { return t.Elem.id() >= 0 }

// scalarize returns the element type of a vector-like type, or the type
// itself if it isn't one. Nothing in the package calls it.
func scalarize(t Type) Type {
	switch v := t.(type) {
	case *PrimType:
		if v.VecLen != 1 {
			return &PrimType{typeBase: newTypeBase(), PrimKind: v.PrimKind, VecLen: 1}
		}
		return t
	case *VectorType:
		return v.Elem
	default:
		return t
	}
}

// TypeVar is an as-yet-unbound type variable: it never has structural
// components, so it is always closed, but each one constructed by
// World.FreshTypeVar is a distinct type with a distinct id.
type TypeVar struct {
	typeBase
	VarID int
}

func (t *TypeVar) Kind() TypeKind    { return TKTypeVar }
func (t *TypeVar) String() string    { return fmt.Sprintf("?%d", t.VarID) }
func (t *TypeVar) structKey() string { return fmt.Sprintf("typevar(%d)", t.VarID) }

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func joinIDs(ts []Type) string {
	var sb strings.Builder
	for i, t := range ts {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", t.id())
	}
	return sb.String()
}

func allClosed(ts []Type) bool {
	for _, t := range ts {
		if t.id() < 0 {
			return false
		}
	}
	return true
}
