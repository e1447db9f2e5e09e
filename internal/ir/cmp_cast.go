// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"fmt"
	"math"
)

// CmpDef compares two operands of the same primitive type, yielding bool.
type CmpDef struct {
	defBase
	Op CmpKind
}

func (c *CmpDef) Kind() NodeKind { return NKCmp }
func (c *CmpDef) structKey() string {
	return fmt.Sprintf("cmp|%d|%d,%d", c.Op, c.ops[0].GID(), c.ops[1].GID())
}
func (c *CmpDef) String() string { return fmt.Sprintf("%s(%s, %s)", c.Op, c.ops[0], c.ops[1]) }

// Cmp builds lhs `op` rhs. gt/ge are normalized to lt/le with swapped
// operands before a node is ever interned, so the primop table only ever
// sees eq/ne/lt/le — this folds what would otherwise be four redundant
// equivalence classes into two (§4.5).
func (w *World) Cmp(op CmpKind, lhs, rhs Def, loc Location) Def {
	require(lhs.Type() == rhs.Type(), "cmp %s: operand type mismatch (%s vs %s)", op, lhs.Type(), rhs.Type())
	boolTy := w.PrimType(KindBool)

	if isBottom(lhs) || isBottom(rhs) {
		return w.Bottom(boolTy, loc)
	}

	if op == CmpGt {
		op, lhs, rhs = CmpLt, rhs, lhs
	} else if op == CmpGe {
		op, lhs, rhs = CmpLe, rhs, lhs
	}

	if llit, lok := lhs.(*Literal); lok {
		if rlit, rok := rhs.(*Literal); rok {
			return w.Literal(boolTy, NewBoxBool(evalCmp(op, llit.Value, rlit.Value)), loc)
		}
	}

	if op == CmpEq && lhs == rhs {
		return w.Literal(boolTy, NewBoxBool(true), loc)
	}
	if op == CmpNe && lhs == rhs {
		return w.Literal(boolTy, NewBoxBool(false), loc)
	}

	return w.primops.cse(&CmpDef{defBase: newDefBase(boolTy, []Def{lhs, rhs}, loc), Op: op})
}

func evalCmp(op CmpKind, l, r Box) bool {
	k := l.Kind()
	switch {
	case k.IsFloat():
		var a, b float64
		if k == KindF32 {
			a, b = float64(l.AsF32()), float64(r.AsF32())
		} else {
			a, b = l.AsF64(), r.AsF64()
		}
		switch op {
		case CmpEq:
			return a == b
		case CmpNe:
			return a != b
		case CmpLt:
			return a < b
		case CmpLe:
			return a <= b
		}
	case k == KindBool:
		a, b := l.AsBool(), r.AsBool()
		switch op {
		case CmpEq:
			return a == b
		case CmpNe:
			return a != b
		}
	case k.IsUnsigned():
		a, b := l.AsU64(), r.AsU64()
		switch op {
		case CmpEq:
			return a == b
		case CmpNe:
			return a != b
		case CmpLt:
			return a < b
		case CmpLe:
			return a <= b
		}
	default:
		a, b := l.AsI64(), r.AsI64()
		switch op {
		case CmpEq:
			return a == b
		case CmpNe:
			return a != b
		case CmpLt:
			return a < b
		case CmpLe:
			return a <= b
		}
	}
	panic(invariantf("evalCmp: unhandled op %s on kind %v", op, k))
}

// CastDef converts a value between primitive kinds of possibly different
// width (truncating, extending with sign/zero, or float<->int).
type CastDef struct{ defBase }

func (c *CastDef) Kind() NodeKind    { return NKCast }
func (c *CastDef) structKey() string { return structKeyOfOps(NKCast, c.typ, c.ops) }
func (c *CastDef) String() string    { return fmt.Sprintf("cast<%s>(%s)", c.typ, c.ops[0]) }

// BitcastDef reinterprets a value's raw bit pattern as another type of
// the same width; it never changes bits, only their type.
type BitcastDef struct{ defBase }

func (b *BitcastDef) Kind() NodeKind    { return NKBitcast }
func (b *BitcastDef) structKey() string { return structKeyOfOps(NKBitcast, b.typ, b.ops) }
func (b *BitcastDef) String() string    { return fmt.Sprintf("bitcast<%s>(%s)", b.typ, b.ops[0]) }

// Cast converts src to dstType, constant-folding when src is a literal.
// A cast to src's own type is a no-op and returns src unchanged. Casting
// a vector applies the scalar conversion lane-wise (the "vector-splat"
// rule): casting <n x T> to <n x U> is casting T to U on each lane.
func (w *World) Cast(src Def, dstType Type, loc Location) Def {
	if src.Type() == dstType {
		return src
	}
	if isBottom(src) {
		return w.Bottom(dstType, loc)
	}
	if vec, ok := src.(*VectorDef); ok {
		if vt, ok := dstType.(*VectorType); ok && vt.Len == uint64(len(vec.ops)) {
			lanes := make([]Def, len(vec.ops))
			for i, lane := range vec.ops {
				lanes[i] = w.Cast(lane, vt.Elem, loc)
			}
			return w.Vector(lanes, loc)
		}
	}
	if lit, ok := src.(*Literal); ok {
		dstPrim, ok := dstType.(*PrimType)
		if ok && dstPrim.VecLen == 1 {
			return w.Literal(dstType, convertBox(lit.Value, dstPrim.PrimKind), loc)
		}
	}
	return w.primops.cse(&CastDef{newDefBase(dstType, []Def{src}, loc)})
}

// Bitcast reinterprets src's bits as dstType; src and dstType must have
// equal bit width (a mismatch is a fail-stop invariant violation, §7).
func (w *World) Bitcast(src Def, dstType Type, loc Location) Def {
	srcWidth, dstWidth := typeBitWidth(src.Type()), typeBitWidth(dstType)
	require(srcWidth == dstWidth, "bitcast: width mismatch (%d vs %d)", srcWidth, dstWidth)
	if src.Type() == dstType {
		return src
	}
	if isBottom(src) {
		return w.Bottom(dstType, loc)
	}
	if lit, ok := src.(*Literal); ok {
		if dstPrim, ok := dstType.(*PrimType); ok && dstPrim.VecLen == 1 {
			return w.Literal(dstType, Box{}.reinterpret(lit.Value, dstPrim.PrimKind), loc)
		}
	}
	return w.primops.cse(&BitcastDef{newDefBase(dstType, []Def{src}, loc)})
}

func typeBitWidth(t Type) int {
	switch v := t.(type) {
	case *PrimType:
		return v.PrimKind.Bits() * int(v.VecLen)
	case *PtrType:
		return 64
	default:
		panic(invariantf("typeBitWidth: %T has no fixed bit width", t))
	}
}

// convertBox performs a value-preserving conversion (as opposed to
// reinterpret's bit-preserving one): int<->int sign/zero-extends or
// truncates, int<->float rounds/truncates, bool widens to 0/1.
func convertBox(src Box, dst Kind) Box {
	switch {
	case dst == KindBool:
		return NewBoxBool(!src.IsZero())
	case dst.IsFloat():
		var f float64
		switch {
		case src.Kind().IsFloat():
			f = asF64(src)
		case src.Kind().IsUnsigned():
			f = float64(src.AsU64())
		default:
			f = float64(src.AsI64())
		}
		if dst == KindF32 {
			return NewBoxF32(float32(f))
		}
		return NewBoxF64(f)
	case src.Kind().IsFloat():
		f := asF64(src)
		if dst.IsUnsigned() {
			return NewBoxU64(dst, uint64(f))
		}
		return NewBoxI64(dst, int64(f))
	case dst.IsUnsigned():
		return NewBoxU64(dst, src.Bits())
	default:
		return NewBoxI64(dst, signExtend(src.Bits(), src.Kind().Bits()))
	}
}

func asF64(b Box) float64 {
	if b.Kind() == KindF32 {
		return float64(b.AsF32())
	}
	return b.AsF64()
}

// reinterpret is Box's bit-preserving conversion, used by Bitcast: the
// raw pattern is kept and only the tag changes (it is a method on the
// zero Box only so it lives next to convertBox; it does not read its
// receiver).
func (Box) reinterpret(src Box, dst Kind) Box {
	if src.Kind().Bits() != dst.Bits() {
		panic(invariantf("bitcast: %v and %v differ in width", src.Kind(), dst))
	}
	switch dst {
	case KindF32:
		return NewBoxF32(math.Float32frombits(uint32(src.Bits())))
	case KindF64:
		return NewBoxF64(math.Float64frombits(src.Bits()))
	case KindBool:
		return NewBoxBool(src.Bits() != 0)
	default:
		if dst.IsUnsigned() {
			return NewBoxU64(dst, src.Bits())
		}
		return NewBoxI64(dst, signExtend(src.Bits(), dst.Bits()))
	}
}

// Convert dispatches on preserveValue alone: true goes through Cast (a
// value-preserving conversion), false through Bitcast (a bit-preserving
// reinterpretation). It does not look at src's or dstType's types to
// choose, so a pointer-to-pointer conversion goes through Cast unless the
// caller passes preserveValue == false.
func (w *World) Convert(src Def, dstType Type, preserveValue bool, loc Location) Def {
	if preserveValue {
		return w.Cast(src, dstType, loc)
	}
	return w.Bitcast(src, dstType, loc)
}
