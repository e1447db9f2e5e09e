// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// World owns every Type and Def in one compilation unit: the single
// interning authority whose identity *is* the notion of structural
// equality described throughout §3-§4. A World is not safe for concurrent
// use from multiple goroutines; a client that wants parallelism shards
// across independent Worlds rather than sharing one (§7, concurrency
// model).
type World struct {
	Name string

	types   *typeTable
	primops *primopTable

	lambdas map[*Lambda]struct{}

	breakpoints map[int]struct{}

	// globalStrings deduplicates GlobalImmutableString by content so that
	// repeated identical string literals share one Global.
	globalStrings map[string]*Global
}

// NewWorld creates an empty World named name (purely for diagnostics).
func NewWorld(name string) *World {
	return &World{
		Name:          name,
		types:         newTypeTable(),
		primops:       newPrimopTable(0),
		lambdas:       make(map[*Lambda]struct{}),
		breakpoints:   make(map[int]struct{}),
		globalStrings: make(map[string]*Global),
	}
}

// ---- type constructors -----------------------------------------------

func (w *World) PrimType(k Kind) Type {
	return w.types.unify(&PrimType{typeBase: newTypeBase(), PrimKind: k, VecLen: 1})
}

func (w *World) VecPrimType(k Kind, vecLen uint64) Type {
	return w.types.unify(&PrimType{typeBase: newTypeBase(), PrimKind: k, VecLen: vecLen})
}

func (w *World) PtrType(referenced Type, space AddressSpace) Type {
	return w.types.unify(&PtrType{typeBase: newTypeBase(), Referenced: referenced, AddrSpace: space})
}

func (w *World) TupleType(elems ...Type) Type {
	return w.types.unify(&TupleType{typeBase: newTypeBase(), Elems: append([]Type(nil), elems...)})
}

func (w *World) FnType(params ...Type) *FnType {
	return w.types.unify(&FnType{typeBase: newTypeBase(), Params: append([]Type(nil), params...)}).(*FnType)
}

func (w *World) MemType() Type   { return w.types.unify(&MemType{typeBase: newTypeBase()}) }
func (w *World) FrameType() Type { return w.types.unify(&FrameType{typeBase: newTypeBase()}) }

func (w *World) DefiniteArrayType(elem Type, dim uint64) Type {
	return w.types.unify(&DefiniteArrayType{typeBase: newTypeBase(), Elem: elem, Dim: dim})
}

func (w *World) IndefiniteArrayType(elem Type) Type {
	return w.types.unify(&IndefiniteArrayType{typeBase: newTypeBase(), Elem: elem})
}

func (w *World) StructType(tag string, elems ...Type) Type {
	return w.types.unify(&StructType{typeBase: newTypeBase(), Tag: tag, Elems: append([]Type(nil), elems...)})
}

func (w *World) VectorType(elem Type, length uint64) Type {
	return w.types.unify(&VectorType{typeBase: newTypeBase(), Elem: elem, Len: length})
}

// FreshTypeVar allocates a new, distinct type variable. Unlike every
// other type constructor this never returns a previously-seen value —
// each call names a fresh polymorphic slot.
func (w *World) FreshTypeVar() *TypeVar {
	tv := &TypeVar{typeBase: newTypeBase(), VarID: w.types.next}
	return w.types.unify(tv).(*TypeVar)
}

// ---- literal / bottom constructors -------------------------------------

func (w *World) Literal(typ Type, v Box, loc Location) Def {
	lit := &Literal{defBase: newDefBase(typ, nil, loc), Value: v}
	return w.primops.cse(lit)
}

func (w *World) LitBool(v bool) Def {
	return w.Literal(w.PrimType(KindBool), NewBoxBool(v), Location{})
}

func (w *World) LitI64(k Kind, v int64) Def {
	return w.Literal(w.PrimType(k), NewBoxI64(k, v), Location{})
}

func (w *World) LitU64(k Kind, v uint64) Def {
	return w.Literal(w.PrimType(k), NewBoxU64(k, v), Location{})
}

// Bottom yields the canonical "undefined value" node of typ, materialized
// whenever a precise operation would overflow or a modeled-UB condition
// (§7) is hit during construction.
func (w *World) Bottom(typ Type, loc Location) Def {
	b := &Bottom{defBase: newDefBase(typ, nil, loc)}
	return w.primops.cse(b)
}

// ---- lambda / param constructors ---------------------------------------

// Lambda creates a new, empty (meta) lambda with the given signature: it
// has Params but no Body yet. Call SetBody (directly, or via one of the
// builder's jump helpers) exactly once before the lambda is reachable
// from an entry point.
func (w *World) Lambda(fn *FnType, cc CC, external bool, loc Location) *Lambda {
	l := &Lambda{
		defBase:  newDefBase(fn, nil, loc),
		CallConv: cc,
		External: external,
	}
	l.setGID(w.primops.next)
	w.primops.next++
	l.Params = make([]*Param, len(fn.Params))
	for i, pt := range fn.Params {
		p := &Param{defBase: newDefBase(pt, nil, Location{}), Owner: l, Index: i}
		p.setGID(w.primops.next)
		w.primops.next++
		l.Params[i] = p
	}
	w.lambdas[l] = struct{}{}
	return l
}

// IntrinsicLambda creates a lambda tagged with one of the built-in intrinsics
// (branch, end_scope, mmap, munmap) instead of a client-supplied body.
func (w *World) IntrinsicLambda(fn *FnType, which Intrinsic) *Lambda {
	l := w.Lambda(fn, CC_C, false, Location{})
	l.Intrinsic = which
	return l
}

// destroyLambda removes l from the World's bookkeeping after cleanup (C7)
// has established it is unreachable.
func (w *World) destroyLambda(l *Lambda) {
	l.destroy()
	delete(w.lambdas, l)
}

// Lambdas returns every lambda currently alive in the World, in no
// particular order.
func (w *World) Lambdas() []*Lambda {
	out := make([]*Lambda, 0, len(w.lambdas))
	for l := range w.lambdas {
		out = append(out, l)
	}
	return out
}

// ---- globals -------------------------------------------------------------

// Global is a module-level storage cell with a constant initializer (or
// none, for a mutable global) (§3.3's memory primops).
type Global struct {
	defBase
	Init     Def
	Mutable  bool
}

func (g *Global) Kind() NodeKind    { return NKGlobal }
func (g *Global) structKey() string { return fmt.Sprintf("global|%p", g) }
func (g *Global) String() string {
	if g.name != "" {
		return g.name
	}
	return fmt.Sprintf("global_%d", g.gid)
}

// GlobalImmutableString interns a NUL-free byte string as a deduplicated,
// immutable global, mirroring World::global in the original: repeated
// identical literals in source share one backing Global.
func (w *World) GlobalImmutableString(s string) *Global {
	if g, ok := w.globalStrings[s]; ok {
		return g
	}
	elemTy := w.PrimType(KindU8)
	arrTy := w.DefiniteArrayType(elemTy, uint64(len(s)))
	bytes := make([]Def, len(s))
	for i := 0; i < len(s); i++ {
		bytes[i] = w.LitU64(KindU8, uint64(s[i]))
	}
	init := w.DefiniteArray(arrTy, bytes, Location{})
	g := &Global{
		defBase: newDefBase(w.PtrType(arrTy, AddrSpaceGeneric), []Def{init}, Location{}),
		Init:    init,
	}
	g.setGID(w.primops.next)
	w.primops.next++
	relinkOperands(g, g.Ops())
	w.globalStrings[s] = g
	return g
}

// Breakpoint marks gid as a debugging breakpoint for the opt() pipeline's
// clients (e.g. a CLI --break flag); the kernel itself never interprets
// breakpoints, it only records them (config.go's ApplyBreakpoints fills
// them in from a PipelineConfig) and reports them through IsBreakpoint.
func (w *World) Breakpoint(gid int) { w.breakpoints[gid] = struct{}{} }

func (w *World) IsBreakpoint(gid int) bool {
	_, ok := w.breakpoints[gid]
	return ok
}
