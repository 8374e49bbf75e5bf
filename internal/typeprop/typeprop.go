// Package typeprop implements the middle end's type pass (C4, spec.md
// §4.3): it records every function's signature and then, independent of
// whatever types the front end's checker assigned, re-derives a type
// record for every value-producing IR node directly from the IR's own
// Alloca/Imm/FnCall declarations. This is the middle end's own source of
// truth for node types — internal/cfg, internal/dom, internal/ssa and
// internal/opt only ever consult Node.Type(), never internal/sema.
package typeprop

import (
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

// Sig is a function's externally-visible type: its return type (spec.md
// §4.3 calls this "(ret_kind, ptr_depth, bytes)", i.e. a full Type).
type Sig struct {
	RetType types.Type
}

// Unit holds the per-unit signature table computed by phase 1.
type Unit struct {
	Sigs map[string]Sig
}

// Run executes both type-pass phases over u and returns the signature
// table built in phase 1.
func Run(u *ir.Unit) *Unit {
	out := &Unit{Sigs: map[string]Sig{}}
	for _, fn := range u.Funcs() {
		out.Sigs[fn.Name] = Sig{RetType: fn.RetType}
	}
	for _, fn := range u.Funcs() {
		propagateFunc(fn, out)
	}
	return out
}

// propagateFunc resets fn's local type map and walks its body in list
// order, installing and copying types per spec.md §4.3's per-node rules.
func propagateFunc(fn *ir.FnDecl, u *Unit) {
	typeMap := map[int]types.Type{}

	for n := fn.BodyHead; n != nil; n = n.Next() {
		propagateNode(n, typeMap, u)
	}
}

func propagateNode(n ir.Node, typeMap map[int]types.Type, u *Unit) {
	switch x := n.(type) {
	case *ir.Alloca:
		typeMap[x.Idx] = x.DataType
		x.SetType(x.DataType)
	case *ir.AllocaArray:
		typeMap[x.Idx] = x.DataType
		x.SetType(x.DataType)
	case *ir.Sym:
		if t, ok := typeMap[x.Idx]; ok {
			x.SetType(derefType(t, x))
		}
	case *ir.Imm:
		x.SetType(types.Scalar(x.ImmKind))
	case *ir.String:
		x.SetType(types.Scalar(types.String))
	case *ir.FnCall:
		if sig, ok := u.Sigs[x.Name]; ok {
			x.SetType(sig.RetType)
		}
		for _, a := range x.Args {
			propagateNode(a, typeMap, u)
		}
	case *ir.Bin:
		propagateNode(x.LHS, typeMap, u)
		propagateNode(x.RHS, typeMap, u)
		x.SetType(binType(x.Op, x.LHS.Type()))
	case *ir.Store:
		propagateNode(x.Body, typeMap, u)
		propagateNode(x.Dest, typeMap, u)
	case *ir.Cond:
		propagateNode(x.CondExpr, typeMap, u)
	case *ir.Ret:
		if x.Body != nil {
			propagateNode(x.Body, typeMap, u)
		}
	case *ir.Member:
		if t, ok := typeMap[x.Idx]; ok {
			x.SetType(t)
		}
	}
}

// derefType accounts for a Sym that reads through a pointer (Deref) or
// takes an address (AddrOf): neither changes the declared local's
// recorded Type slot, only the value the Sym node itself produces.
func derefType(t types.Type, s *ir.Sym) types.Type {
	if s.AddrOf {
		return types.Pointer(t)
	}
	if s.Deref && t.IsPointer() {
		if t.PtrDepth == 1 {
			return types.Scalar(t.Kind)
		}
		deref := t
		deref.PtrDepth--
		return deref
	}
	return t
}

// binType mirrors the common-data-kind dispatch spec.md §4.8 describes
// for the interpreter's own Bin evaluation: comparisons always yield
// Int, everything else keeps the operand kind.
func binType(op ir.BinOp, lhs types.Type) types.Type {
	if op.IsComparison() {
		return types.Scalar(types.Int)
	}
	return lhs
}
