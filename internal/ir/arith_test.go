// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArithConstantFolding(t *testing.T) {
	w := NewWorld("t")
	a := w.LitI64(KindI32, 3)
	b := w.LitI64(KindI32, 4)

	sum := w.Arithop(ArithAdd, Quick, a, b, Location{})
	lit, ok := sum.(*Literal)
	assert.True(t, ok)
	assert.Equal(t, int64(7), lit.Value.AsI64())
}

func TestArithIdentityAddZero(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, CC_C, true, Location{})
	x := l.Param(0)

	got := w.Arithop(ArithAdd, Quick, x, w.LitI64(KindI32, 0), Location{})
	assert.Equal(t, x, got)
}

func TestArithSubSelfIsZero(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, CC_C, true, Location{})
	x := l.Param(0)

	got := w.Arithop(ArithSub, Quick, x, x, Location{})
	lit, ok := got.(*Literal)
	assert.True(t, ok)
	assert.True(t, lit.Value.IsZero())
}

func TestArithMulByZeroAndOne(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, CC_C, true, Location{})
	x := l.Param(0)

	zero := w.LitI64(KindI32, 0)
	one := w.LitI64(KindI32, 1)
	assert.Equal(t, zero, w.Arithop(ArithMul, Quick, x, zero, Location{}))
	assert.Equal(t, x, w.Arithop(ArithMul, Quick, x, one, Location{}))
}

func TestArithDivByZeroIsBottom(t *testing.T) {
	w := NewWorld("t")
	a := w.LitI64(KindI32, 5)
	zero := w.LitI64(KindI32, 0)

	got := w.Arithop(ArithDiv, Quick, a, zero, Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot)
}

func TestArithRemByZeroIsBottom(t *testing.T) {
	w := NewWorld("t")
	a := w.LitI64(KindI32, 5)
	zero := w.LitI64(KindI32, 0)

	got := w.Arithop(ArithRem, Quick, a, zero, Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot)
}

func TestArithShiftAtOrAboveBitwidthIsBottom(t *testing.T) {
	w := NewWorld("t")
	a := w.LitI64(KindI32, 1)
	wide := w.LitI64(KindI32, 32)

	got := w.Arithop(ArithShl, Quick, a, wide, Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot)
}

func TestArithPreciseOverflowIsBottom(t *testing.T) {
	w := NewWorld("t")
	max := w.LitI64(KindI8, 127)
	one := w.LitI64(KindI8, 1)

	got := w.Arithop(ArithAdd, Precise, max, one, Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot, "127+1 overflows i8 in precise mode")
}

func TestArithQuickOverflowWraps(t *testing.T) {
	w := NewWorld("t")
	max := w.LitI64(KindI8, 127)
	one := w.LitI64(KindI8, 1)

	got := w.Arithop(ArithAdd, Quick, max, one, Location{})
	lit, ok := got.(*Literal)
	assert.True(t, ok, "quick mode must wrap instead of producing Bottom")
	assert.Equal(t, int64(-128), lit.Value.AsI64())
}

func TestArithCommutativeCanonicalizesLiteralToLeft(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, CC_C, true, Location{})
	x := l.Param(0)
	five := w.LitI64(KindI32, 5)

	litFirst := w.Arithop(ArithAdd, Quick, five, x, Location{})
	litSecond := w.Arithop(ArithAdd, Quick, x, five, Location{})
	assert.Same(t, litFirst, litSecond, "5+x and x+5 must canonicalize to the same node")

	arith, ok := litFirst.(*ArithOpDef)
	assert.True(t, ok)
	assert.Equal(t, five, arith.Op(0), "the literal operand canonicalizes to the left")
	assert.Equal(t, x, arith.Op(1))
}

func TestArithBottomOperandPropagates(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	bot := w.Bottom(i32, Location{})
	lit := w.LitI64(KindI32, 1)

	got := w.Arithop(ArithAdd, Quick, bot, lit, Location{})
	_, isBot := got.(*Bottom)
	assert.True(t, isBot)
}

func TestArithAndOrXorSelfIdentities(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, CC_C, true, Location{})
	x := l.Param(0)

	assert.Equal(t, x, w.Arithop(ArithAnd, Quick, x, x, Location{}))
	assert.Equal(t, x, w.Arithop(ArithOr, Quick, x, x, Location{}))

	xorSelf := w.Arithop(ArithXor, Quick, x, x, Location{})
	lit, ok := xorSelf.(*Literal)
	assert.True(t, ok)
	assert.True(t, lit.Value.IsZero())
}

func TestArithOneStepReassociation(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, CC_C, true, Location{})
	x := l.Param(0)

	// (x + 1) + 2 should reassociate to x + 3.
	inner := w.Arithop(ArithAdd, Quick, x, w.LitI64(KindI32, 1), Location{})
	outer := w.Arithop(ArithAdd, Quick, inner, w.LitI64(KindI32, 2), Location{})

	arith, ok := outer.(*ArithOpDef)
	assert.True(t, ok)
	lhsLit, ok := arith.Op(0).(*Literal)
	assert.True(t, ok, "reassociation folds the literals together and canonicalizes the result to the left")
	assert.Equal(t, int64(3), lhsLit.Value.AsI64())
	assert.Equal(t, x, arith.Op(1))
}

func TestArithTypeMismatchPanics(t *testing.T) {
	w := NewWorld("t")
	i32 := w.LitI64(KindI32, 1)
	i64 := w.LitI64(KindI64, 1)
	assert.Panics(t, func() { w.Arithop(ArithAdd, Quick, i32, i64, Location{}) })
}
