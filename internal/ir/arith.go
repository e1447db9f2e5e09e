// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"fmt"
	"math/big"
)

// ArithOpDef is a binary arithmetic primop over two operands of the same
// primitive type.
type ArithOpDef struct {
	defBase
	Op        ArithKind
	Precision Precision
}

func (a *ArithOpDef) Kind() NodeKind { return NKArithOp }
func (a *ArithOpDef) structKey() string {
	return fmt.Sprintf("arith|%d|%d|%d|%d,%d", a.Op, a.Precision, a.typ.id(), a.ops[0].GID(), a.ops[1].GID())
}
func (a *ArithOpDef) String() string {
	return fmt.Sprintf("%s(%s, %s)", a.Op, a.ops[0], a.ops[1])
}

// Arithop builds lhs `op` rhs, constant-folding when both operands are
// literals and applying the algebraic identity/absorption/associativity
// cascade described in §4.5 otherwise. lhs and rhs must carry the same
// primitive type (a type/vector-length mismatch is a fail-stop invariant
// violation, §7).
//
// An explicit SIMD vector operand is handled first, lane by lane: if
// both operands are *VectorType, the op is applied element-wise and the
// lanes are reassembled with Vector, so none of the scalar folding below
// ever has to reason about vectors directly.
func (w *World) Arithop(op ArithKind, precision Precision, lhs, rhs Def, loc Location) Def {
	require(lhs.Type() == rhs.Type(), "arithop %s: operand type mismatch (%s vs %s)", op, lhs.Type(), rhs.Type())

	if isBottom(lhs) || isBottom(rhs) {
		return w.Bottom(lhs.Type(), loc)
	}

	if _, isVecTy := lhs.Type().(*VectorType); isVecTy {
		lv, lok := lhs.(*VectorDef)
		rv, rok := rhs.(*VectorDef)
		require(lok && rok, "arithop %s: vector-typed operand is not a Vector node", op)
		lanes := make([]Def, len(lv.ops))
		for i := range lanes {
			lanes[i] = w.Arithop(op, precision, lv.ops[i], rv.ops[i], loc)
		}
		return w.Vector(lanes, loc)
	}

	if llit, lok := lhs.(*Literal); lok {
		if rlit, rok := rhs.(*Literal); rok {
			return w.foldArith(op, precision, lhs.Type(), llit, rlit, loc)
		}
	}

	// canonicalize: for a commutative op, move the literal (or vector)
	// operand to the left, so that e.g. `1+x` and `x+1` intern to the
	// same node and the identity rules below only have to look at lhs.
	if op.IsCommutative() {
		_, rIsLit := rhs.(*Literal)
		_, rIsVec := rhs.(*VectorDef)
		if rIsLit || rIsVec {
			lhs, rhs = rhs, lhs
		}
	}

	if simplified, ok := w.simplifyArith(op, precision, lhs, rhs, loc); ok {
		return simplified
	}

	return w.primops.cse(&ArithOpDef{defBase: newDefBase(lhs.Type(), []Def{lhs, rhs}, loc), Op: op, Precision: precision})
}

// simplifyArith applies the identity, self-inverse, not-detection,
// complementary-comparison, distributivity, absorption and associativity
// rules of §4.5 point 4. It runs after Arithop has already normalized a
// literal/vector operand to lhs, so every rule below reads "lhs" where
// the original reads "a". It never constant-folds (that path is handled
// before this is reached) and never needs to handle both-literal operand
// pairs.
func (w *World) simplifyArith(op ArithKind, precision Precision, lhs, rhs Def, loc Location) (Def, bool) {
	typ := lhs.Type()
	pt := typ.(*PrimType)
	rlit, rIsLit := rhs.(*Literal)

	// identities that only hold over integer/bool operands.
	if isTypeI(pt.PrimKind) && lhs == rhs {
		switch op {
		case ArithAdd:
			return w.Arithop(ArithMul, precision, w.intLiteral(typ, 2, loc), lhs, loc), true
		case ArithSub, ArithXor:
			return w.zeroOf(typ, loc), true
		case ArithAnd, ArithOr:
			return lhs, true
		case ArithDiv:
			if isZeroLiteral(rhs) {
				return w.Bottom(typ, loc), true
			}
			return w.oneOf(typ, loc), true
		case ArithRem:
			if isZeroLiteral(rhs) {
				return w.Bottom(typ, loc), true
			}
			return w.zeroOf(typ, loc), true
		}
	}
	// and/or/xor additionally hold the same self-identities over bool,
	// a separate category from isTypeI in this kernel (§3's Kind split).
	if pt.PrimKind == KindBool && lhs == rhs {
		switch op {
		case ArithAnd, ArithOr:
			return lhs, true
		case ArithXor:
			return w.zeroOf(typ, loc), true
		}
	}

	if isTypeI(pt.PrimKind) {
		if isZeroLiteral(lhs) {
			switch op {
			case ArithMul, ArithDiv, ArithRem, ArithAnd, ArithShl, ArithShr:
				return w.zeroOf(typ, loc), true
			case ArithAdd, ArithOr, ArithXor:
				return rhs, true
			}
		}
		if isOneLiteral(lhs) && op == ArithMul {
			return rhs, true
		}
		if isAllSetLiteral(lhs) {
			switch op {
			case ArithAnd:
				return rhs, true
			case ArithOr:
				return lhs, true
			}
		}
	}

	if rIsLit && rlit.Value.IsZero() {
		switch op {
		case ArithDiv, ArithRem:
			return w.Bottom(typ, loc), true
		case ArithShl, ArithShr:
			return lhs, true
		}
	}
	if rIsLit && rlit.Value.IsOne() {
		switch op {
		case ArithMul, ArithDiv:
			return lhs, true
		case ArithRem:
			return w.zeroOf(typ, loc), true
		}
	}
	if (op == ArithShl || op == ArithShr) && rIsLit && rlit.Value.AsU64() >= uint64(pt.PrimKind.Bits()) {
		return w.Bottom(typ, loc), true
	}

	// xor-is-not: allset xor x is ~x. allset xor ~x is x (double negation
	// cancels), and allset xor (a cmp b) is the negated comparison.
	if op == ArithXor && isAllSetLiteral(lhs) {
		if notOperand, ok := isNot(rhs); ok {
			return notOperand, true
		}
		if cmp, ok := rhs.(*CmpDef); ok {
			return w.Cmp(cmp.Op.Negate(), cmp.ops[0], cmp.ops[1], loc), true
		}
	}

	// complementary comparison pairs: (a cmp b) or (a !cmp b) is always
	// true, (a cmp b) and (a !cmp b) is always false.
	if lcmp, lok := lhs.(*CmpDef); lok {
		if rcmp, rok := rhs.(*CmpDef); rok &&
			lcmp.ops[0] == rcmp.ops[0] && lcmp.ops[1] == rcmp.ops[1] && lcmp.Op == rcmp.Op.Negate() {
			switch op {
			case ArithOr:
				return w.LitBool(true), true
			case ArithAnd:
				return w.LitBool(false), true
			}
		}
	}

	// distributivity: (a and b) or (a and c) == a and (b or c), and the
	// and/or dual.
	if op == ArithOr {
		if land, lok := asArith(lhs, ArithAnd); lok {
			if rand, rok := asArith(rhs, ArithAnd); rok {
				if land.ops[0] == rand.ops[0] {
					return w.Arithop(ArithAnd, precision, land.ops[0], w.Arithop(ArithOr, precision, land.ops[1], rand.ops[1], loc), loc), true
				}
				if land.ops[1] == rand.ops[1] {
					return w.Arithop(ArithAnd, precision, land.ops[1], w.Arithop(ArithOr, precision, land.ops[0], rand.ops[0], loc), loc), true
				}
			}
		}
	}
	if op == ArithAnd {
		if lor, lok := asArith(lhs, ArithOr); lok {
			if ror, rok := asArith(rhs, ArithOr); rok {
				if lor.ops[0] == ror.ops[0] {
					return w.Arithop(ArithOr, precision, lor.ops[0], w.Arithop(ArithAnd, precision, lor.ops[1], ror.ops[1], loc), loc), true
				}
				if lor.ops[1] == ror.ops[1] {
					return w.Arithop(ArithOr, precision, lor.ops[1], w.Arithop(ArithAnd, precision, lor.ops[0], ror.ops[0], loc), loc), true
				}
			}
		}
	}

	// absorption: a and (a or b) and its or/and dual.
	if op == ArithAnd {
		if ror, ok := asArith(rhs, ArithOr); ok {
			if lhs == ror.ops[0] {
				return lhs, true
			}
			if lhs == ror.ops[1] {
				return lhs, true
			}
		}
		if lor, ok := asArith(lhs, ArithOr); ok {
			if lhs == lor.ops[0] {
				return lor.ops[1], true
			}
			if lhs == lor.ops[1] {
				return lor.ops[0], true
			}
		}
	}
	if op == ArithOr {
		if rand, ok := asArith(rhs, ArithAnd); ok {
			if lhs == rand.ops[0] {
				return lhs, true
			}
			if lhs == rand.ops[1] {
				return lhs, true
			}
		}
		if land, ok := asArith(lhs, ArithAnd); ok {
			if lhs == land.ops[0] {
				return land.ops[1], true
			}
			if lhs == land.ops[1] {
				return land.ops[0], true
			}
		}
	}

	// same-op merging: (a or b) or (a or c) == a or (b or c), and dual.
	if op == ArithOr {
		if lor, lok := asArith(lhs, ArithOr); lok {
			if ror, rok := asArith(rhs, ArithOr); rok {
				if lor.ops[0] == ror.ops[0] {
					return w.Arithop(ArithOr, precision, lor.ops[1], ror.ops[1], loc), true
				}
				if lor.ops[1] == ror.ops[1] {
					return w.Arithop(ArithOr, precision, lor.ops[0], ror.ops[0], loc), true
				}
			}
		}
	}
	if op == ArithAnd {
		if land, lok := asArith(lhs, ArithAnd); lok {
			if rand, rok := asArith(rhs, ArithAnd); rok {
				if land.ops[0] == rand.ops[0] {
					return w.Arithop(ArithAnd, precision, land.ops[1], rand.ops[1], loc), true
				}
				if land.ops[1] == rand.ops[1] {
					return w.Arithop(ArithAnd, precision, land.ops[0], rand.ops[0], loc), true
				}
			}
		}
	}

	// reassociation: reorder nested same-kind ops so a literal/vector
	// operand on either side floats to the left-most position, folding
	// it against a sibling literal/vector when one is found. Recursing
	// through Arithop lets repeated application fully constant-fold a
	// chain like (c1 op x) op c2.
	if op.IsAssociative() && isTypeI(pt.PrimKind) {
		aSame, aLV, aOK := sameOpLeftLiteralOrVector(lhs, op, precision)
		bSame, bLV, bOK := sameOpLeftLiteralOrVector(rhs, op, precision)
		_, lhsIsLit := lhs.(*Literal)
		_, lhsIsVec := lhs.(*VectorDef)

		if op.IsCommutative() {
			if aOK && bOK {
				return w.Arithop(op, precision, w.Arithop(op, precision, aLV, bLV, loc), w.Arithop(op, precision, aSame.ops[1], bSame.ops[1], loc), loc), true
			}
			if (lhsIsLit || lhsIsVec) && bOK {
				return w.Arithop(op, precision, w.Arithop(op, precision, lhs, bLV, loc), bSame.ops[1], loc), true
			}
			if bOK {
				return w.Arithop(op, precision, bLV, w.Arithop(op, precision, lhs, bSame.ops[1], loc), loc), true
			}
		}
		if aOK {
			return w.Arithop(op, precision, aLV, w.Arithop(op, precision, aSame.ops[1], rhs, loc), loc), true
		}
	}

	return nil, false
}

// isTypeI reports whether k is a signed or unsigned integer kind — the
// category that admits the self-inverse/distributive identity rules,
// distinct from bool (handled separately above) and float (never admits
// them).
func isTypeI(k Kind) bool { return k.IsInteger() }

func isZeroLiteral(d Def) bool {
	lit, ok := d.(*Literal)
	return ok && lit.Value.IsZero()
}

func isOneLiteral(d Def) bool {
	lit, ok := d.(*Literal)
	return ok && lit.Value.IsOne()
}

func isAllSetLiteral(d Def) bool {
	lit, ok := d.(*Literal)
	return ok && lit.Value.IsAllSet()
}

// isNot reports whether d is itself allset xor x (a bitwise/logical
// not), returning x.
func isNot(d Def) (Def, bool) {
	a, ok := d.(*ArithOpDef)
	if !ok || a.Op != ArithXor {
		return nil, false
	}
	if isAllSetLiteral(a.ops[0]) {
		return a.ops[1], true
	}
	if isAllSetLiteral(a.ops[1]) {
		return a.ops[0], true
	}
	return nil, false
}

// asArith reports whether d is an ArithOpDef of exactly kind.
func asArith(d Def, kind ArithKind) (*ArithOpDef, bool) {
	a, ok := d.(*ArithOpDef)
	if ok && a.Op == kind {
		return a, true
	}
	return nil, false
}

// sameOpLeftLiteralOrVector reports whether d is an ArithOpDef of kind
// and precision whose own left operand is a literal or vector (i.e. it
// was already normalized by Arithop's commutative-canonicalization), so
// that operand can float further left by reassociation.
func sameOpLeftLiteralOrVector(d Def, kind ArithKind, precision Precision) (*ArithOpDef, Def, bool) {
	a, ok := d.(*ArithOpDef)
	if !ok || a.Op != kind || a.Precision != precision {
		return nil, nil, false
	}
	left := a.ops[0]
	if _, isLit := left.(*Literal); isLit {
		return a, left, true
	}
	if _, isVec := left.(*VectorDef); isVec {
		return a, left, true
	}
	return nil, nil, false
}

func (w *World) zeroOf(typ Type, loc Location) Def {
	return w.intLiteral(typ, 0, loc)
}

// oneOf returns the literal one of typ's kind.
func (w *World) oneOf(typ Type, loc Location) Def {
	return w.intLiteral(typ, 1, loc)
}

// intLiteral returns the literal n of typ's kind, used to materialize
// the small integer constants (0, 1, 2) the identity rules fold in.
func (w *World) intLiteral(typ Type, n int64, loc Location) Def {
	pt := typ.(*PrimType)
	if pt.PrimKind.IsFloat() {
		if pt.PrimKind == KindF32 {
			return w.Literal(typ, NewBoxF32(float32(n)), loc)
		}
		return w.Literal(typ, NewBoxF64(float64(n)), loc)
	}
	if pt.PrimKind == KindBool {
		return w.Literal(typ, NewBoxBool(n != 0), loc)
	}
	if pt.PrimKind.IsUnsigned() {
		return w.Literal(typ, NewBoxU64(pt.PrimKind, uint64(n)), loc)
	}
	return w.Literal(typ, NewBoxI64(pt.PrimKind, n), loc)
}

// overflowsPrecise reports whether op(l, r) exceeds the representable
// range of l's kind, computed exactly via big.Int. Only add/sub/mul on
// integer kinds can overflow this way; div/rem-by-zero and out-of-range
// shifts are already caught as modeled-UB inside evalArith, and float
// arithmetic has no precise/quick distinction.
func overflowsPrecise(op ArithKind, l, r *Literal) bool {
	k := l.Value.Kind()
	if !k.IsInteger() {
		return false
	}
	if op != ArithAdd && op != ArithSub && op != ArithMul {
		return false
	}

	var a, b *big.Int
	if k.IsUnsigned() {
		a = new(big.Int).SetUint64(l.Value.AsU64())
		b = new(big.Int).SetUint64(r.Value.AsU64())
	} else {
		a = big.NewInt(l.Value.AsI64())
		b = big.NewInt(r.Value.AsI64())
	}

	exact := new(big.Int)
	switch op {
	case ArithAdd:
		exact.Add(a, b)
	case ArithSub:
		exact.Sub(a, b)
	case ArithMul:
		exact.Mul(a, b)
	}

	lo, hi := rangeOf(k)
	return exact.Cmp(lo) < 0 || exact.Cmp(hi) > 0
}

// rangeOf returns the inclusive [min, max] representable by k.
func rangeOf(k Kind) (*big.Int, *big.Int) {
	bits := uint(k.Bits())
	if k.IsUnsigned() {
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
		return big.NewInt(0), max
	}
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits-1), big.NewInt(1))
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
	return min, max
}

func isBottom(d Def) bool {
	_, ok := d.(*Bottom)
	return ok
}

// foldArith evaluates op on two literal operands, returning Bottom
// instead of a Literal when precision is Precise and the native result
// overflows the operand width.
func (w *World) foldArith(op ArithKind, precision Precision, typ Type, l, r *Literal, loc Location) Def {
	// div/rem-by-zero and out-of-range shifts are modeled-UB regardless of
	// precision (§7) and come back from evalArith as an error; precise
	// add/sub/mul overflow is checked separately by overflowsPrecise once
	// evalArith has succeeded.
	result, err := evalArith(op, l.Value, r.Value)
	if err != nil {
		return w.Bottom(typ, loc)
	}
	if precision == Precise && overflowsPrecise(op, l, r) {
		return w.Bottom(typ, loc)
	}
	return w.Literal(typ, result, loc)
}

// evalArith performs the native computation for op over two boxes of the
// same kind, returning an overflowSignal error for div/rem by zero or an
// out-of-range shift. Integer add/sub/mul always wrap here; precise-mode
// overflow of those ops is detected by overflowsPrecise, not by this
// function.
func evalArith(op ArithKind, l, r Box) (Box, error) {
	k := l.Kind()
	switch {
	case k.IsFloat():
		return evalArithFloat(op, l, r)
	case k == KindBool:
		return evalArithBool(op, l, r)
	default:
		return evalArithInt(op, l, r)
	}
}

func evalArithBool(op ArithKind, l, r Box) (Box, error) {
	a, b := l.AsBool(), r.AsBool()
	switch op {
	case ArithAnd:
		return NewBoxBool(a && b), nil
	case ArithOr:
		return NewBoxBool(a || b), nil
	case ArithXor:
		return NewBoxBool(a != b), nil
	default:
		panic(invariantf("evalArithBool: op %s not defined on bool", op))
	}
}

func evalArithFloat(op ArithKind, l, r Box) (Box, error) {
	k := l.Kind()
	if k == KindF32 {
		a, b := l.AsF32(), r.AsF32()
		switch op {
		case ArithAdd:
			return NewBoxF32(a + b), nil
		case ArithSub:
			return NewBoxF32(a - b), nil
		case ArithMul:
			return NewBoxF32(a * b), nil
		case ArithDiv:
			return NewBoxF32(a / b), nil
		default:
			panic(invariantf("evalArithFloat: op %s not defined on float", op))
		}
	}
	a, b := l.AsF64(), r.AsF64()
	switch op {
	case ArithAdd:
		return NewBoxF64(a + b), nil
	case ArithSub:
		return NewBoxF64(a - b), nil
	case ArithMul:
		return NewBoxF64(a * b), nil
	case ArithDiv:
		return NewBoxF64(a / b), nil
	default:
		panic(invariantf("evalArithFloat: op %s not defined on float", op))
	}
}

func evalArithInt(op ArithKind, l, r Box) (Box, error) {
	k := l.Kind()
	if k.IsUnsigned() {
		a, b := l.AsU64(), r.AsU64()
		switch op {
		case ArithAdd:
			return NewBoxU64(k, a+b), nil
		case ArithSub:
			return NewBoxU64(k, a-b), nil
		case ArithMul:
			return NewBoxU64(k, a*b), nil
		case ArithDiv:
			if b == 0 {
				return Box{}, overflowSignal{op: "div"}
			}
			return NewBoxU64(k, a/b), nil
		case ArithRem:
			if b == 0 {
				return Box{}, overflowSignal{op: "rem"}
			}
			return NewBoxU64(k, a%b), nil
		case ArithAnd:
			return NewBoxU64(k, a&b), nil
		case ArithOr:
			return NewBoxU64(k, a|b), nil
		case ArithXor:
			return NewBoxU64(k, a^b), nil
		case ArithShl:
			if b >= uint64(k.Bits()) {
				return Box{}, overflowSignal{op: "shl"}
			}
			return NewBoxU64(k, a<<b), nil
		case ArithShr:
			if b >= uint64(k.Bits()) {
				return Box{}, overflowSignal{op: "shr"}
			}
			return NewBoxU64(k, a>>b), nil
		}
		panic(invariantf("evalArithInt: unhandled op %s", op))
	}

	a, b := l.AsI64(), r.AsI64()
	switch op {
	case ArithAdd:
		return NewBoxI64(k, a+b), nil
	case ArithSub:
		return NewBoxI64(k, a-b), nil
	case ArithMul:
		return NewBoxI64(k, a*b), nil
	case ArithDiv:
		if b == 0 {
			return Box{}, overflowSignal{op: "div"}
		}
		return NewBoxI64(k, a/b), nil
	case ArithRem:
		if b == 0 {
			return Box{}, overflowSignal{op: "rem"}
		}
		return NewBoxI64(k, a%b), nil
	case ArithAnd:
		return NewBoxI64(k, a&b), nil
	case ArithOr:
		return NewBoxI64(k, a|b), nil
	case ArithXor:
		return NewBoxI64(k, a^b), nil
	case ArithShl:
		if uint64(b) >= uint64(k.Bits()) {
			return Box{}, overflowSignal{op: "shl"}
		}
		return NewBoxI64(k, a<<uint(b)), nil
	case ArithShr:
		if uint64(b) >= uint64(k.Bits()) {
			return Box{}, overflowSignal{op: "shr"}
		}
		return NewBoxI64(k, a>>uint(b)), nil
	}
	panic(invariantf("evalArithInt: unhandled op %s", op))
}
