// SPDX-License-Identifier: Apache-2.0
package peval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"thorin/internal/ir"
)

func TestRunSpecializesJumpArgWrappingLiteral(t *testing.T) {
	w := ir.NewWorld("t")
	i32 := w.PrimType(ir.KindI32)
	fn := w.FnType(i32)
	callee := w.Lambda(fn, ir.CC_C, false, ir.Location{})
	callee.SetBody(callee.Param(0), nil)

	five := w.LitI64(ir.KindI32, 5)
	wrapped := w.Run(five, ir.Location{})

	entryFn := w.FnType()
	entry := w.Lambda(entryFn, ir.CC_C, true, ir.Location{})
	entry.SetBody(callee, []ir.Def{wrapped})

	n := Run(w, []*ir.Lambda{entry})
	assert.Equal(t, 1, n)
	assert.Equal(t, five, entry.Body.Args[0], "the Run wrapper must be replaced by the literal it wraps")
}

func TestRunSpecializesOperandOfAnotherPrimop(t *testing.T) {
	w := ir.NewWorld("t")
	i32 := w.PrimType(ir.KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, ir.CC_C, true, ir.Location{})
	x := l.Param(0)

	five := w.LitI64(ir.KindI32, 5)
	wrapped := w.Run(five, ir.Location{})

	// build the ArithOp directly around the wrapped value so the pass
	// has an operand slot to rewire (Arithop's own constant-folding
	// would otherwise need both sides literal, and a RunDef isn't one).
	sum := w.Arithop(ir.ArithAdd, ir.Quick, x, wrapped, ir.Location{})
	l.SetBody(l.Param(0), []ir.Def{sum})

	n := Run(w, []*ir.Lambda{l})
	assert.Equal(t, 1, n)
	assert.Equal(t, five, sum.Op(1), "the add's Run operand must be replaced by the literal it wraps")
}

func TestRunLeavesUnwrappedValuesAlone(t *testing.T) {
	w := ir.NewWorld("t")
	i32 := w.PrimType(ir.KindI32)
	fn := w.FnType(i32)
	l := w.Lambda(fn, ir.CC_C, true, ir.Location{})
	l.SetBody(l.Param(0), []ir.Def{w.LitI64(ir.KindI32, 1)})

	n := Run(w, []*ir.Lambda{l})
	assert.Equal(t, 0, n)
}
