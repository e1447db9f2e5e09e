// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTupleConstructionAndExtractLiteralIndex(t *testing.T) {
	w := NewWorld("t")
	e0 := w.LitI64(KindI32, 1)
	e1 := w.LitI64(KindI32, 2)
	tup := w.Tuple([]Def{e0, e1}, Location{})

	i32 := w.PrimType(KindI32)
	got := w.Extract(tup, w.LitU64(KindU32, 0), i32, Location{})
	assert.Equal(t, e0, got)
	got1 := w.Extract(tup, w.LitU64(KindU32, 1), i32, Location{})
	assert.Equal(t, e1, got1)
}

func TestDefiniteArrayDimMismatchPanics(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	arrTy := w.DefiniteArrayType(i32, 3)
	assert.Panics(t, func() {
		w.DefiniteArray(arrTy, []Def{w.LitI64(KindI32, 1)}, Location{})
	})
}

func TestExtractOfInsertSameIndexReturnsValue(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	tup := w.Tuple([]Def{w.LitI64(KindI32, 0), w.LitI64(KindI32, 0)}, Location{})

	idx := w.LitU64(KindU32, 1)
	val := w.LitI64(KindI32, 42)
	ins := w.Insert(tup, idx, val, Location{})

	got := w.Extract(ins, idx, i32, Location{})
	assert.Equal(t, val, got)
}

func TestExtractOfInsertDistinctIndexSkipsThrough(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	e0 := w.LitI64(KindI32, 7)
	tup := w.Tuple([]Def{e0, w.LitI64(KindI32, 0)}, Location{})

	insertIdx := w.LitU64(KindU32, 1)
	val := w.LitI64(KindI32, 42)
	ins := w.Insert(tup, insertIdx, val, Location{})

	extractIdx := w.LitU64(KindU32, 0)
	got := w.Extract(ins, extractIdx, i32, Location{})
	assert.Equal(t, e0, got, "extracting an index the insert didn't touch must see through to the original")
}

func TestInsertCollapsesConsecutiveSameIndex(t *testing.T) {
	w := NewWorld("t")
	tup := w.Tuple([]Def{w.LitI64(KindI32, 0), w.LitI64(KindI32, 0)}, Location{})
	idx := w.LitU64(KindU32, 0)

	first := w.Insert(tup, idx, w.LitI64(KindI32, 1), Location{})
	second := w.Insert(first, idx, w.LitI64(KindI32, 2), Location{})

	ins, ok := second.(*InsertDef)
	assert.True(t, ok)
	assert.Equal(t, tup, ins.Op(0), "a second insert at the same index must fold away the first")
}

func TestExtractBottomAggProducesBottomResult(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	bot := w.Bottom(i32, Location{})
	got := w.Extract(bot, w.LitU64(KindU32, 0), i32, Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot)
}

func TestInsertBottomValueIntoRealAggBuildsInsert(t *testing.T) {
	w := NewWorld("t")
	tup := w.Tuple([]Def{w.LitI64(KindI32, 0)}, Location{})
	i32 := w.PrimType(KindI32)
	bot := w.Bottom(i32, Location{})

	// Only the inserted component is unknown; the rest of the aggregate is
	// still real, so the result must stay a concrete Insert rather than
	// collapsing the whole aggregate to Bottom.
	got := w.Insert(tup, w.LitU64(KindU32, 0), bot, Location{})
	ins, ok := got.(*InsertDef)
	assert.True(t, ok)
	assert.Equal(t, tup, ins.Op(0))
	assert.Equal(t, bot, ins.Op(2))
}

func TestInsertBottomAggAndBottomValueCollapses(t *testing.T) {
	w := NewWorld("t")
	tupTy := w.TupleType(w.PrimType(KindI32))
	botAgg := w.Bottom(tupTy, Location{})
	i32 := w.PrimType(KindI32)
	botVal := w.Bottom(i32, Location{})

	// Nothing is known about any component, so the whole thing collapses.
	got := w.Insert(botAgg, w.LitU64(KindU32, 0), botVal, Location{})
	assert.Equal(t, botAgg, got)
}

func TestInsertIntoBottomAggMaterializesBottomSeededAggregate(t *testing.T) {
	w := NewWorld("t")
	tupTy := w.TupleType(w.PrimType(KindI32), w.PrimType(KindI32))
	botAgg := w.Bottom(tupTy, Location{})
	val := w.LitI64(KindI32, 7)

	// The value being inserted is real, so the other still-unknown
	// component must stay distinguishable instead of being smeared into a
	// single opaque Bottom.
	got := w.Insert(botAgg, w.LitU64(KindU32, 0), val, Location{})
	ins, ok := got.(*InsertDef)
	assert.True(t, ok)
	tup, ok := ins.Op(0).(*TupleDef)
	assert.True(t, ok, "a Bottom agg must be seeded into a concrete aggregate before inserting")
	_, lane0Bot := tup.Op(0).(*Bottom)
	assert.True(t, lane0Bot)
	_, lane1Bot := tup.Op(1).(*Bottom)
	assert.True(t, lane1Bot)
	assert.Equal(t, val, ins.Op(2))
}

func TestVectorSplatOfIdenticalLiteralsCollapses(t *testing.T) {
	w := NewWorld("t")
	lit := w.LitI64(KindI32, 5)
	v := w.Vector([]Def{lit, lit, lit}, Location{})

	vlit, ok := v.(*Literal)
	assert.True(t, ok, "a vector of identical literal lanes must build as a single splatted literal")
	pt, ok := vlit.Type().(*PrimType)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), pt.VecLen)
}

func TestVectorOfDistinctLanesBuildsVectorDef(t *testing.T) {
	w := NewWorld("t")
	v := w.Vector([]Def{w.LitI64(KindI32, 1), w.LitI64(KindI32, 2)}, Location{})
	_, ok := v.(*VectorDef)
	assert.True(t, ok)
}

func TestSelectOnLiteralCondFoldsToChosenBranch(t *testing.T) {
	w := NewWorld("t")
	thenV := w.LitI64(KindI32, 1)
	elseV := w.LitI64(KindI32, 2)

	assert.Equal(t, thenV, w.Select(w.LitBool(true), thenV, elseV, Location{}))
	assert.Equal(t, elseV, w.Select(w.LitBool(false), thenV, elseV, Location{}))
}

func TestSelectSameBranchCollapsesRegardlessOfCond(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(w.PrimType(KindBool))
	l := w.Lambda(fn, CC_C, true, Location{})
	same := w.LitI64(KindI32, 9)

	got := w.Select(l.Param(0), same, same, Location{})
	assert.Equal(t, same, got)
	_ = i32
}
