// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeMembersReachableLambdas(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)

	outer := w.Lambda(fn, CC_C, true, Location{})
	inner := w.Lambda(fn, CC_C, false, Location{})
	unrelated := w.Lambda(fn, CC_C, false, Location{})

	outer.SetBody(inner, []Def{outer.Param(0)})
	inner.SetBody(inner.Param(0), nil)
	_ = unrelated

	sc := NewScope(outer)
	assert.True(t, sc.Contains(outer))
	assert.True(t, sc.Contains(inner))
	assert.False(t, sc.Contains(unrelated))
	assert.Equal(t, outer, sc.Members()[0], "entry must be first in discovery order")
}

func TestScopeFreeParamsCrossBoundary(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	outerFn := w.FnType(i32)
	innerFn := w.FnType()

	outer := w.Lambda(outerFn, CC_C, true, Location{})
	inner := w.Lambda(innerFn, CC_C, false, Location{})

	// inner's jump references outer's param, making it a free variable of
	// the scope rooted at inner.
	outer.SetBody(inner, nil)
	five := w.LitI64(KindI32, 5)
	sum := w.Arithop(ArithAdd, Quick, outer.Param(0), five, Location{})
	inner.SetBody(sum, nil)

	scOuter := NewScope(outer)
	assert.Empty(t, scOuter.FreeParams(), "outer's own param is not free within its own scope")

	scInner := NewScope(inner)
	assert.Len(t, scInner.FreeParams(), 1)
	assert.Equal(t, outer.Param(0), scInner.FreeParams()[0])
}

func TestScopeStopsAtLambdaBoundaryForFreeParamWalk(t *testing.T) {
	w := NewWorld("t")
	i32 := w.PrimType(KindI32)
	fn := w.FnType(i32)

	l1 := w.Lambda(fn, CC_C, true, Location{})
	l2 := w.Lambda(fn, CC_C, false, Location{})

	// l1 jumps to l2, passing l2 itself as a (degenerate) argument value;
	// the free-param walk must not recurse through that Lambda operand.
	l1.SetBody(l2, []Def{l2})
	l2.SetBody(l2.Param(0), nil)

	sc := NewScope(l1)
	assert.Empty(t, sc.FreeParams())
}
