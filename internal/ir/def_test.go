// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamStringFallsBackToOwnerGIDAndIndex(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32, i32)
	l := w.Lambda(fn, CC_C, true, Location{})

	assert.Contains(t, l.Param(1).String(), "1")
	l.Param(0).SetName("x")
	assert.Equal(t, "x", l.Param(0).String())
}

func TestBottomStringIncludesType(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	b := w.Bottom(i32, Location{})
	assert.Contains(t, b.String(), "i32")
}

func TestRewireOperandUpdatesUseLists(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, CC_C, true, Location{})

	a := w.LitI64(KindI32, 1)
	b := w.LitI64(KindI32, 2)
	sum := w.Arithop(ArithAdd, Quick, l.Param(0), a, Location{})

	assert.Len(t, a.Uses(), 1)
	assert.Empty(t, b.Uses())

	// the literal operand is canonicalized to index 0 (see Arithop).
	RewireOperand(sum, 0, b)

	assert.Empty(t, a.Uses(), "old operand must lose its use entry")
	assert.Len(t, b.Uses(), 1, "new operand must gain a use entry")
	assert.Equal(t, b, sum.Op(0))
}

func TestRewireOperandNoOpWhenUnchanged(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, CC_C, true, Location{})
	a := w.LitI64(KindI32, 1)
	sum := w.Arithop(ArithAdd, Quick, l.Param(0), a, Location{})

	before := len(a.Uses())
	RewireOperand(sum, 0, a)
	assert.Len(t, a.Uses(), before, "rewiring to the same operand must not double-register a use")
}

func TestLambdaDestroyRequiresZeroUses(t *testing.T) {
	w := NewWorld("t")
	fn := w.FnType()
	used := w.Lambda(fn, CC_C, false, Location{})
	holder := w.Lambda(fn, CC_C, true, Location{})
	holder.SetBody(used, nil)

	assert.Panics(t, func() { w.destroyLambda(used) }, "a lambda still jumped to must not be destroyed")
}
