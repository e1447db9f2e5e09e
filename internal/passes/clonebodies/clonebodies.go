// SPDX-License-Identifier: Apache-2.0

// Package clonebodies duplicates a lambda's parameter list and jump body
// against a fresh set of Params, rebuilding every primop through World so
// the clone is fully re-interned (and trivially CSEs back down to the
// original wherever the substitution changed nothing). internal/opt's
// clonebodies step uses Clone to give each extra call site of a shared
// lambda its own copy; the inliner uses Substitute to splice a callee in.
package clonebodies

import "thorin/internal/ir"

// Clone builds a fresh lambda with the same signature and intrinsic as
// template, rebuilds template's jump with every reference to template's
// own Params replaced by the clone's corresponding Param, and installs
// it as the new lambda's body. template must already have a body (a meta
// lambda has nothing to clone).
func Clone(world *ir.World, template *ir.Lambda) *ir.Lambda {
	fn := template.Type().(*ir.FnType)
	clone := world.Lambda(fn, template.CallConv, false, template.Location())
	clone.Intrinsic = template.Intrinsic

	subst := make(map[ir.Def]ir.Def, template.NumParams())
	for i := 0; i < template.NumParams(); i++ {
		subst[template.Param(i)] = clone.Param(i)
	}

	memo := make(map[ir.Def]ir.Def)
	to := rebuild(world, template.Body.To, subst, memo)
	args := make([]ir.Def, len(template.Body.Args))
	for i, a := range template.Body.Args {
		args[i] = rebuild(world, a, subst, memo)
	}
	clone.SetBody(to, args)
	return clone
}

// Substitute rebuilds d through world with every Def named in subst
// replaced by its mapped value, sharing one memo table across the whole
// call so a DAG with shared subexpressions is only rebuilt once. The
// inliner uses this directly (substituting a callee's Params for the
// actual call arguments) instead of going through Clone, since inlining
// doesn't need a fresh lambda — only a rebuilt jump.
func Substitute(world *ir.World, d ir.Def, subst map[ir.Def]ir.Def) ir.Def {
	return rebuild(world, d, subst, make(map[ir.Def]ir.Def))
}

// rebuild reconstructs d through world, substituting any Param named in
// subst and leaving every other Lambda reference untouched (cloning a
// body never clones the lambdas it calls out to — only its own
// operand graph).
func rebuild(world *ir.World, d ir.Def, subst map[ir.Def]ir.Def, memo map[ir.Def]ir.Def) ir.Def {
	if d == nil {
		return nil
	}
	if replacement, ok := subst[d]; ok {
		return replacement
	}
	if cached, ok := memo[d]; ok {
		return cached
	}
	if _, ok := d.(*ir.Lambda); ok {
		return d
	}
	if _, ok := d.(*ir.Literal); ok {
		return d // literals need no rebuilding: they carry no operands
	}
	if _, ok := d.(*ir.Bottom); ok {
		return d
	}
	if _, ok := d.(*ir.Global); ok {
		return d // module-level storage: never parameterized, never cloned
	}

	ops := make([]ir.Def, d.NumOps())
	for i := 0; i < d.NumOps(); i++ {
		ops[i] = rebuild(world, d.Op(i), subst, memo)
	}

	loc := d.Location()
	var out ir.Def
	switch v := d.(type) {
	case *ir.ArithOpDef:
		out = world.Arithop(v.Op, v.Precision, ops[0], ops[1], loc)
	case *ir.CmpDef:
		out = world.Cmp(v.Op, ops[0], ops[1], loc)
	case *ir.CastDef:
		out = world.Cast(ops[0], v.Type(), loc)
	case *ir.BitcastDef:
		out = world.Bitcast(ops[0], v.Type(), loc)
	case *ir.SelectDef:
		out = world.Select(ops[0], ops[1], ops[2], loc)
	case *ir.ExtractDef:
		out = world.Extract(ops[0], ops[1], v.Type(), loc)
	case *ir.InsertDef:
		out = world.Insert(ops[0], ops[1], ops[2], loc)
	case *ir.TupleDef:
		out = world.Tuple(ops, loc)
	case *ir.DefiniteArrayDef:
		out = world.DefiniteArray(v.Type(), ops, loc)
	case *ir.IndefiniteArrayDef:
		elemTy := v.Type().(*ir.IndefiniteArrayType).Elem
		out = world.IndefiniteArray(elemTy, ops[0], loc)
	case *ir.StructAggDef:
		out = world.StructAgg(v.Type(), ops, loc)
	case *ir.VectorDef:
		out = world.Vector(ops, loc)
	case *ir.SlotDef:
		elemTy := v.Type().(*ir.TupleType).Elems[1].(*ir.PtrType).Referenced
		out = world.Slot(ops[0], ops[1], elemTy, loc)
	case *ir.AllocDef:
		elemTy := v.Type().(*ir.TupleType).Elems[1].(*ir.PtrType).Referenced
		out = world.Alloc(ops[0], elemTy, ops[1], loc)
	case *ir.LoadDef:
		out = world.Load(ops[0], ops[1], loc)
	case *ir.StoreDef:
		out = world.Store(ops[0], ops[1], ops[2], loc)
	case *ir.EnterDef:
		out = world.Enter(ops[0], loc)
	case *ir.LEADef:
		out = world.LEA(ops[0], ops[1], loc)
	case *ir.MapDef:
		out = world.Map(ops[0], ops[1], ops[2], ops[3], loc)
	case *ir.UnmapDef:
		out = world.Unmap(ops[0], ops[1], ops[2], ops[3], loc)
	case *ir.RunDef:
		out = world.Run(ops[0], loc)
	case *ir.HltDef:
		out = world.Hlt(ops[0], loc)
	default:
		panic("clonebodies: unhandled def kind during rebuild")
	}

	memo[d] = out
	return out
}
