// SPDX-License-Identifier: Apache-2.0
package ir

// ArithKind enumerates the arithmetic primop kinds of spec.md §3/§4.5.
type ArithKind uint8

const (
	ArithAdd ArithKind = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithRem
	ArithAnd
	ArithOr
	ArithXor
	ArithShl
	ArithShr
)

var arithNames = [...]string{"add", "sub", "mul", "div", "rem", "and", "or", "xor", "shl", "shr"}

func (k ArithKind) String() string { return arithNames[k] }

// IsCommutative reports whether operand order doesn't affect the result.
func (k ArithKind) IsCommutative() bool {
	switch k {
	case ArithAdd, ArithMul, ArithAnd, ArithOr, ArithXor:
		return true
	default:
		return false
	}
}

// IsAssociative reports whether the op may be reassociated by the builder.
func (k ArithKind) IsAssociative() bool {
	switch k {
	case ArithAdd, ArithMul, ArithAnd, ArithOr, ArithXor:
		return true
	default:
		return false
	}
}

// CmpKind enumerates comparison primop kinds. Gt/Ge are normalized away
// by the builder (World.Cmp) before a Cmp node is ever interned.
type CmpKind uint8

const (
	CmpEq CmpKind = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

var cmpNames = [...]string{"eq", "ne", "lt", "le", "gt", "ge"}

func (k CmpKind) String() string { return cmpNames[k] }

// Negate returns the logical complement of k (lt<->ge, le<->gt, eq<->ne).
func (k CmpKind) Negate() CmpKind {
	switch k {
	case CmpEq:
		return CmpNe
	case CmpNe:
		return CmpEq
	case CmpLt:
		return CmpGe
	case CmpGe:
		return CmpLt
	case CmpLe:
		return CmpGt
	case CmpGt:
		return CmpLe
	default:
		panic(invariantf("cmp: unknown kind %v", k))
	}
}

// Intrinsic tags the handful of lambda intrinsics the kernel recognizes.
type Intrinsic uint8

const (
	IntrinsicNone Intrinsic = iota
	IntrinsicBranch
	IntrinsicEndScope
	IntrinsicMmap
	IntrinsicMunmap
)

func (i Intrinsic) String() string {
	switch i {
	case IntrinsicNone:
		return "none"
	case IntrinsicBranch:
		return "branch"
	case IntrinsicEndScope:
		return "end_scope"
	case IntrinsicMmap:
		return "mmap"
	case IntrinsicMunmap:
		return "munmap"
	default:
		return "intrinsic(?)"
	}
}

// CC is the calling-convention tag; only CC is interpreted by the kernel
// and clients are free to define further opaque tags in their own int range.
type CC uint8

const CC_C CC = 0

// MemoryEffectType categorizes a memory/storage effect for §3's memory
// primops, mirroring kanso's ir.MemoryEffectType split between read,
// write, allocate and free.
type MemoryEffectType uint8

const (
	MemEffectRead MemoryEffectType = iota
	MemEffectWrite
	MemEffectAllocate
	MemEffectFree
)

// AddressSpace names the handful of address spaces Map/Unmap operate
// over; concrete values are implementation-defined beyond generic/global.
type AddressSpace uint8

const (
	AddrSpaceGeneric AddressSpace = iota
	AddrSpaceGlobal
	AddrSpaceTexture
	AddrSpaceShared
)
