// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralInterning(t *testing.T) {
	w := NewWorld("t")
	a := w.LitI64(KindI32, 42)
	b := w.LitI64(KindI32, 42)
	assert.Same(t, a, b, "identical literals must intern to one node")

	c := w.LitI64(KindI32, 43)
	assert.NotSame(t, a, c)

	d := w.LitI64(KindI64, 42)
	assert.NotSame(t, a, d, "same bit pattern under a different kind must not collapse")
}

func TestArithOpCSE(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32, w.FnType(i32))
	l := w.Lambda(fn, CC_C, true, Location{})
	x := l.Param(0)

	five := w.LitI64(KindI32, 5)
	sum1 := w.Arithop(ArithAdd, Quick, x, five, Location{})
	sum2 := w.Arithop(ArithAdd, Quick, x, five, Location{})
	assert.Same(t, sum1, sum2, "structurally identical ArithOps must CSE to one node")
}

func TestBottomInterning(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	b1 := w.Bottom(i32, Location{})
	b2 := w.Bottom(i32, Location{})
	assert.Same(t, b1, b2)
}

func TestUseListTracksOperands(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	l := w.Lambda(w.FnType(i32), CC_C, true, Location{})
	five := w.LitI64(KindI32, 5)
	// a non-literal operand keeps the add from constant-folding away.
	sum := w.Arithop(ArithAdd, Quick, five, l.Param(0), Location{})

	assert.Len(t, five.Uses(), 1)
	assert.Equal(t, sum, five.Uses()[0].User)
}

func TestRequireOperandGIDBeforeParentInvariant(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	// a bare, never-interned candidate has gid -1; cse requires every
	// operand to already carry a gid, so probing with a fresh candidate
	// whose operand hasn't been registered yet must panic.
	bad := &Literal{defBase: newDefBase(i32, nil, Location{}), Value: NewBoxI64(KindI32, 1)}
	assert.Panics(t, func() {
		w.primops.cse(&ArithOpDef{defBase: newDefBase(i32, []Def{bad, bad}, Location{}), Op: ArithAdd})
	})
}
