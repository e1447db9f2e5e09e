// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// Every memory primop below threads a MemType token: it takes the
// current mem as its first operand and, if it doesn't itself terminate
// the thread (Enter does not consume the old mem, Store and Map/Unmap
// both produce a new one), returns a tuple of (new mem, ...) that the
// client Extracts from. Because the mem token differs after every
// effecting op, two memory ops over the same address never collapse
// under structural hashing unless they really do see the same mem (§4.4,
// §4.6's memory effect taxonomy).

// MemEffect is implemented by every memory primop that has a classifiable
// effect on the memory it threads, for diagnostics and the printer.
type MemEffect interface {
	Effect() MemoryEffectType
}

// SlotDef reserves a stack slot within a frame, yielding (mem, ptr).
type SlotDef struct{ defBase }

func (s *SlotDef) Kind() NodeKind          { return NKSlot }
func (s *SlotDef) structKey() string       { return structKeyOfOps(NKSlot, s.typ, s.ops) }
func (s *SlotDef) String() string          { return fmt.Sprintf("slot(%s, %s)", s.ops[0], s.ops[1]) }
func (s *SlotDef) Effect() MemoryEffectType { return MemEffectAllocate }

// Slot allocates a stack slot of elemType inside frame, returning a tuple
// of (mem, ptr-to-elemType).
func (w *World) Slot(mem, frame Def, elemType Type, loc Location) Def {
	resTy := w.TupleType(w.MemType(), w.PtrType(elemType, AddrSpaceGeneric))
	return w.primops.cse(&SlotDef{newDefBase(resTy, []Def{mem, frame}, loc)})
}

// AllocDef heap-allocates a value of its referenced type, yielding
// (mem, ptr).
type AllocDef struct{ defBase }

func (a *AllocDef) Kind() NodeKind          { return NKAlloc }
func (a *AllocDef) structKey() string       { return structKeyOfOps(NKAlloc, a.typ, a.ops) }
func (a *AllocDef) String() string          { return fmt.Sprintf("alloc(%s, %s)", a.ops[0], a.ops[1]) }
func (a *AllocDef) Effect() MemoryEffectType { return MemEffectAllocate }

// Alloc heap-allocates count elements of elemType, returning a tuple of
// (mem, ptr-to-elemType).
func (w *World) Alloc(mem Def, elemType Type, count Def, loc Location) Def {
	resTy := w.TupleType(w.MemType(), w.PtrType(elemType, AddrSpaceGeneric))
	return w.primops.cse(&AllocDef{newDefBase(resTy, []Def{mem, count}, loc)})
}

// LoadDef reads through a pointer, yielding (mem, value).
type LoadDef struct{ defBase }

func (l *LoadDef) Kind() NodeKind          { return NKLoad }
func (l *LoadDef) structKey() string       { return structKeyOfOps(NKLoad, l.typ, l.ops) }
func (l *LoadDef) String() string          { return fmt.Sprintf("load(%s, %s)", l.ops[0], l.ops[1]) }
func (l *LoadDef) Effect() MemoryEffectType { return MemEffectRead }

// Load reads the value pointed to by ptr, returning a tuple of
// (mem, value). Loading through a Bottom pointer yields Bottom mem and
// Bottom value (aggregate propagation, §4.5/§7).
//
// Three folding rules run before a Load node is ever interned, mirroring
// World::load: a load right after a store to the same pointer forwards
// the stored value instead of re-reading it; a load through an immutable
// global forwards the global's initializer; and a load that chains off
// another load to the same pointer (through the same mem) reuses that
// earlier load rather than building a second one.
func (w *World) Load(mem, ptr Def, loc Location) Def {
	pt := ptr.Type().(*PtrType)
	resTy := w.TupleType(w.MemType(), pt.Referenced)
	if isBottom(ptr) {
		return w.Bottom(resTy, loc)
	}

	if store, ok := mem.(*StoreDef); ok {
		if store.ops[1] == ptr {
			return w.Tuple([]Def{mem, store.ops[2]}, loc)
		}
	}

	if global, ok := ptr.(*Global); ok && !global.Mutable {
		return w.Tuple([]Def{mem, global.Init}, loc)
	}

	if ld, ok := loadOutMem(mem); ok && ld.ops[1] == ptr {
		return ld
	}

	return w.primops.cse(&LoadDef{newDefBase(resTy, []Def{mem, ptr}, loc)})
}

// loadOutMem reports whether mem is the mem projection (component 0) of
// a prior Load's result tuple, the pattern World::load calls
// Load::is_out_mem — a client that extracts the new mem out of a load's
// result and immediately loads through it again should chain off that
// load instead of producing an indistinguishable duplicate.
func loadOutMem(mem Def) (*LoadDef, bool) {
	ext, ok := mem.(*ExtractDef)
	if !ok {
		return nil, false
	}
	lit, ok := ext.ops[1].(*Literal)
	if !ok || lit.Value.AsU64() != 0 {
		return nil, false
	}
	ld, ok := ext.ops[0].(*LoadDef)
	return ld, ok
}

// StoreDef writes a value through a pointer, yielding the new mem.
type StoreDef struct{ defBase }

func (s *StoreDef) Kind() NodeKind    { return NKStore }
func (s *StoreDef) structKey() string { return structKeyOfOps(NKStore, s.typ, s.ops) }
func (s *StoreDef) String() string {
	return fmt.Sprintf("store(%s, %s, %s)", s.ops[0], s.ops[1], s.ops[2])
}
func (s *StoreDef) Effect() MemoryEffectType { return MemEffectWrite }

// Store writes val through ptr, returning the new mem. A Bottom ptr
// still propagates to a Bottom mem (writing through an undefined address
// is itself undefined), but a Bottom val is a no-op: the store can't be
// observed to have any effect, so it simply returns mem unchanged rather
// than poisoning every later read of this mem, matching World::store.
//
// Two further rules mirror the original: re-storing the same value
// already at ptr (detected by mem itself being that earlier Store)
// collapses to that earlier store instead of stacking an identical one,
// and storing an Insert result is split into a store of the untouched
// aggregate followed by a store of just the inserted field through a LEA
// — so later mem2reg/alias analysis never has to see the whole aggregate
// move through memory just to update one field.
func (w *World) Store(mem, ptr, val Def, loc Location) Def {
	if isBottom(ptr) {
		return w.Bottom(w.MemType(), loc)
	}
	if isBottom(val) {
		return mem
	}

	if st, ok := mem.(*StoreDef); ok {
		if st.ops[1] == ptr && st.ops[2] == val {
			return st
		}
	}

	if insert, ok := val.(*InsertDef); ok {
		if useLEA(ptr.Type().(*PtrType).Referenced) {
			peeled := w.Store(mem, ptr, insert.ops[0], loc)
			return w.Store(peeled, w.LEA(ptr, insert.ops[1], loc), insert.ops[2], loc)
		}
	}

	return w.primops.cse(&StoreDef{newDefBase(w.MemType(), []Def{mem, ptr, val}, loc)})
}

// useLEA reports whether t is an aggregate type whose components are
// cheaper to reach through a LEA'd sub-pointer than by reading and
// rewriting the whole value — tuples, structs and arrays, not scalars or
// explicit SIMD vectors.
func useLEA(t Type) bool {
	switch t.(type) {
	case *TupleType, *StructType, *DefiniteArrayType, *IndefiniteArrayType:
		return true
	default:
		return false
	}
}

// EnterDef opens a new stack frame, yielding (mem, frame).
type EnterDef struct{ defBase }

func (e *EnterDef) Kind() NodeKind    { return NKEnter }
func (e *EnterDef) structKey() string { return structKeyOfOps(NKEnter, e.typ, e.ops) }
func (e *EnterDef) String() string    { return fmt.Sprintf("enter(%s)", e.ops[0]) }

// Enter opens a new frame over mem, returning a tuple of (mem, frame).
// If mem already is the mem projection of an earlier Enter, that earlier
// Enter is reused (Enter::is_out_mem in the original): two Enters in a
// row over the same mem chain never produce two distinct frames.
func (w *World) Enter(mem Def, loc Location) Def {
	if e, ok := enterOutMem(mem); ok {
		return e
	}
	resTy := w.TupleType(w.MemType(), w.FrameType())
	return w.primops.cse(&EnterDef{newDefBase(resTy, []Def{mem}, loc)})
}

// enterOutMem reports whether mem is the mem projection (component 0) of
// a prior Enter's result tuple.
func enterOutMem(mem Def) (*EnterDef, bool) {
	ext, ok := mem.(*ExtractDef)
	if !ok {
		return nil, false
	}
	lit, ok := ext.ops[1].(*Literal)
	if !ok || lit.Value.AsU64() != 0 {
		return nil, false
	}
	e, ok := ext.ops[0].(*EnterDef)
	return e, ok
}

// LEADef ("load effective address") computes the address of one element
// of an aggregate pointed to by ptr, without touching memory.
type LEADef struct{ defBase }

func (l *LEADef) Kind() NodeKind    { return NKLEA }
func (l *LEADef) structKey() string { return structKeyOfOps(NKLEA, l.typ, l.ops) }
func (l *LEADef) String() string    { return fmt.Sprintf("lea(%s, %s)", l.ops[0], l.ops[1]) }

// LEA computes &(*ptr)[index] without dereferencing. index indexes the
// aggregate ptr's Referenced type the same way Extract would index a
// value of that type.
func (w *World) LEA(ptr, index Def, loc Location) Def {
	pt := ptr.Type().(*PtrType)
	elemTy := elementTypeOf(pt.Referenced, index)
	resTy := w.PtrType(elemTy, pt.AddrSpace)
	if isBottom(ptr) {
		return w.Bottom(resTy, loc)
	}
	return w.primops.cse(&LEADef{newDefBase(resTy, []Def{ptr, index}, loc)})
}

func elementTypeOf(agg Type, index Def) Type {
	switch a := agg.(type) {
	case *TupleType:
		lit, ok := index.(*Literal)
		require(ok, "LEA: tuple index must be a literal")
		return a.Elems[lit.Value.AsU64()]
	case *StructType:
		lit, ok := index.(*Literal)
		require(ok, "LEA: struct index must be a literal")
		return a.Elems[lit.Value.AsU64()]
	case *DefiniteArrayType:
		return a.Elem
	case *IndefiniteArrayType:
		return a.Elem
	default:
		panic(invariantf("LEA: %T is not an aggregate pointer referent", agg))
	}
}

// MapDef/UnmapDef move data between address spaces (e.g. host<->device).
// A non-literal device or address-space argument is not a fail-stop
// error: it is logged as a non-fatal diagnostic and coerced to an
// implementation-defined value (§7's third error tier), matching
// memmap_builtins.cpp's WLOG.
type MapDef struct {
	defBase
	Device    int64
	AddrSpace AddressSpace
}

func (m *MapDef) Kind() NodeKind          { return NKMap }
func (m *MapDef) structKey() string       { return structKeyOfOps(NKMap, m.typ, m.ops) }
func (m *MapDef) String() string          { return fmt.Sprintf("map(%s, %s)", m.ops[0], m.ops[1]) }
func (m *MapDef) Effect() MemoryEffectType { return MemEffectAllocate }

type UnmapDef struct {
	defBase
	Device    int64
	AddrSpace AddressSpace
}

func (u *UnmapDef) Kind() NodeKind          { return NKUnmap }
func (u *UnmapDef) structKey() string       { return structKeyOfOps(NKUnmap, u.typ, u.ops) }
func (u *UnmapDef) String() string          { return fmt.Sprintf("unmap(%s, %s)", u.ops[0], u.ops[1]) }
func (u *UnmapDef) Effect() MemoryEffectType { return MemEffectFree }

// Map moves the data pointed to by ptr into space on device, returning a
// tuple of (mem, mapped-ptr). deviceArg and spaceArg are expected to be
// literals; if either is not, the op still builds (coerced to device 0 /
// the generic address space) but a diagnostic is logged.
func (w *World) Map(mem, ptr Def, deviceArg Def, spaceArg Def, loc Location) Def {
	device, space := literalDeviceAndSpace(deviceArg, spaceArg, loc)
	pt := ptr.Type().(*PtrType)
	resTy := w.TupleType(w.MemType(), w.PtrType(pt.Referenced, space))
	// deviceArg/spaceArg stay operands (not just the resolved fields) so
	// a non-literal argument remains part of the dataflow graph and
	// clonebodies can rebuild the node faithfully.
	return w.primops.cse(&MapDef{defBase: newDefBase(resTy, []Def{mem, ptr, deviceArg, spaceArg}, loc), Device: device, AddrSpace: space})
}

// Unmap releases a previously-Mapped pointer, returning the new mem.
func (w *World) Unmap(mem, ptr Def, deviceArg Def, spaceArg Def, loc Location) Def {
	device, space := literalDeviceAndSpace(deviceArg, spaceArg, loc)
	return w.primops.cse(&UnmapDef{defBase: newDefBase(w.MemType(), []Def{mem, ptr, deviceArg, spaceArg}, loc), Device: device, AddrSpace: space})
}

func literalDeviceAndSpace(deviceArg, spaceArg Def, loc Location) (int64, AddressSpace) {
	device := int64(0)
	if lit, ok := deviceArg.(*Literal); ok {
		device = lit.Value.AsI64()
	} else {
		warnNonLiteral("map/unmap device", loc)
	}
	space := AddrSpaceGeneric
	if lit, ok := spaceArg.(*Literal); ok {
		space = AddressSpace(lit.Value.AsU64())
	} else {
		warnNonLiteral("map/unmap address space", loc)
	}
	return device, space
}
