// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotAndLoadStoreRoundTrip(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	memTy := w.MemType()
	fn := w.FnType(memTy, w.FrameType())
	l := w.Lambda(fn, CC_C, true, Location{})
	mem, frame := l.Param(0), l.Param(1)

	slot := w.Slot(mem, frame, i32, Location{})
	slotDef, ok := slot.(*SlotDef)
	assert.True(t, ok)
	assert.Equal(t, MemEffectAllocate, slotDef.Effect())

	mem1 := w.Extract(slot, w.LitU64(KindU32, 0), memTy, Location{})
	ptrTy := w.PtrType(i32, AddrSpaceGeneric)
	ptr := w.Extract(slot, w.LitU64(KindU32, 1), ptrTy, Location{})

	val := w.LitI64(KindI32, 7)
	mem2 := w.Store(mem1, ptr, val, Location{})
	storeDef, ok := mem2.(*StoreDef)
	assert.True(t, ok)
	assert.Equal(t, MemEffectWrite, storeDef.Effect())

	// The load immediately follows a store to the same pointer, so it
	// forwards the stored value instead of building a real Load: the
	// result is a tuple of the unchanged mem and the stored literal.
	loaded := w.Load(mem2, ptr, Location{})
	_, isLoad := loaded.(*LoadDef)
	assert.False(t, isLoad, "load right after a matching store should forward, not rebuild")
	loadedTuple, ok := loaded.(*TupleDef)
	assert.True(t, ok)
	assert.Equal(t, mem2, loadedTuple.ops[0])
	assert.Equal(t, val, loadedTuple.ops[1])
}

func TestLoadThroughBottomPointerIsBottom(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	ptrTy := w.PtrType(i32, AddrSpaceGeneric)
	memTy := w.MemType()
	fn := w.FnType(memTy)
	l := w.Lambda(fn, CC_C, true, Location{})

	botPtr := w.Bottom(ptrTy, Location{})
	got := w.Load(l.Param(0), botPtr, Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot)
}

func TestStoreThroughBottomPointerIsBottom(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	ptrTy := w.PtrType(i32, AddrSpaceGeneric)
	memTy := w.MemType()
	fn := w.FnType(memTy)
	l := w.Lambda(fn, CC_C, true, Location{})
	mem := l.Param(0)

	botPtr := w.Bottom(ptrTy, Location{})
	val := w.LitI64(KindI32, 1)
	got := w.Store(mem, botPtr, val, Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot)
}

// TestStoreOfBottomValueIsNoOp checks that storing a Bottom value through
// a real pointer has no observable effect: the store can never be seen
// to have written anything, so it returns mem unchanged instead of
// poisoning the whole mem chain.
func TestStoreOfBottomValueIsNoOp(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	ptrTy := w.PtrType(i32, AddrSpaceGeneric)
	memTy := w.MemType()
	fn := w.FnType(memTy, ptrTy)
	l := w.Lambda(fn, CC_C, true, Location{})
	mem, ptr := l.Param(0), l.Param(1)

	botVal := w.Bottom(i32, Location{})
	got := w.Store(mem, ptr, botVal, Location{})
	assert.Equal(t, mem, got)
}

func TestAllocEffectIsAllocate(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	memTy := w.MemType()
	fn := w.FnType(memTy)
	l := w.Lambda(fn, CC_C, true, Location{})

	got := w.Alloc(l.Param(0), i32, w.LitU64(KindU32, 4), Location{})
	alloc, ok := got.(*AllocDef)
	assert.True(t, ok)
	assert.Equal(t, MemEffectAllocate, alloc.Effect())
}

func TestEnterHasNoMemEffect(t *testing.T) {
	w := NewWorld("t")
	memTy := w.MemType()
	fn := w.FnType(memTy)
	l := w.Lambda(fn, CC_C, true, Location{})

	got := w.Enter(l.Param(0), Location{})
	_, hasEffect := got.(MemEffect)
	assert.False(t, hasEffect, "Enter is not a read/write/allocate/free effect")
}

func TestLEABottomPointerIsBottom(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	tupTy := w.TupleType(i32, i32)
	ptrTy := w.PtrType(tupTy, AddrSpaceGeneric)
	botPtr := w.Bottom(ptrTy, Location{})

	got := w.LEA(botPtr, w.LitU64(KindU32, 0), Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot)
}

func TestLEAComputesElementType(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	f64 := w.PrimType(KindF64)
	tupTy := w.TupleType(i32, f64)
	ptrTy := w.PtrType(tupTy, AddrSpaceGeneric)
	memTy := w.MemType()
	fn := w.FnType(memTy, ptrTy)
	l := w.Lambda(fn, CC_C, true, Location{})

	got := w.LEA(l.Param(1), w.LitU64(KindU32, 1), Location{})
	lea, ok := got.(*LEADef)
	assert.True(t, ok)
	pt, ok := lea.Type().(*PtrType)
	assert.True(t, ok)
	assert.Equal(t, f64, pt.Referenced)
}

func TestMapUnmapLiteralArgsResolveDeviceAndSpace(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	ptrTy := w.PtrType(i32, AddrSpaceGeneric)
	memTy := w.MemType()
	fn := w.FnType(memTy, ptrTy)
	l := w.Lambda(fn, CC_C, true, Location{})

	device := w.LitI64(KindI32, 3)
	space := w.LitU64(KindU32, uint64(AddrSpaceGlobal))

	mapped := w.Map(l.Param(0), l.Param(1), device, space, Location{})
	mapDef, ok := mapped.(*MapDef)
	assert.True(t, ok)
	assert.Equal(t, int64(3), mapDef.Device)
	assert.Equal(t, AddrSpaceGlobal, mapDef.AddrSpace)
	assert.Equal(t, MemEffectAllocate, mapDef.Effect())

	unmapped := w.Unmap(l.Param(0), l.Param(1), device, space, Location{})
	unmapDef, ok := unmapped.(*UnmapDef)
	assert.True(t, ok)
	assert.Equal(t, MemEffectFree, unmapDef.Effect())
}

func TestMapNonLiteralArgsCoerceToDefaults(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	ptrTy := w.PtrType(i32, AddrSpaceGeneric)
	memTy := w.MemType()
	fn := w.FnType(memTy, ptrTy, i32, i32)
	l := w.Lambda(fn, CC_C, true, Location{})

	// non-literal device/space arguments: the op must still build,
	// coerced to the implementation-defined defaults, rather than fail.
	mapped := w.Map(l.Param(0), l.Param(1), l.Param(2), l.Param(3), Location{})
	mapDef, ok := mapped.(*MapDef)
	assert.True(t, ok)
	assert.Equal(t, int64(0), mapDef.Device)
	assert.Equal(t, AddrSpaceGeneric, mapDef.AddrSpace)
}
