package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/cfg"
	"github.com/weak-lang/weakc/internal/dom"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

// buildIfElse wires: if (x>0) { x = 1 } else { x = 2 } return x;
func buildIfElse() (fn *ir.FnDecl, thenStore, elseStore *ir.Store, ret *ir.Ret) {
	fn = ir.NewFnDecl("f", types.Scalar(types.Int))

	alloca := ir.NewAlloca(types.Scalar(types.Int), 0)
	condNode := ir.NewCond(ir.NewBin(ir.BGt, ir.NewSym(0), ir.NewImmInt(0)), nil)
	thenStore = ir.NewStore(ir.NewSym(0), ir.NewImmInt(1))
	thenJump := ir.NewJump(nil)
	elseStore = ir.NewStore(ir.NewSym(0), ir.NewImmInt(2))
	ret = ir.NewRet(ir.NewSym(0))

	fn.AppendBody(alloca)
	fn.AppendBody(condNode)
	fn.AppendBody(thenStore)
	fn.AppendBody(thenJump)
	fn.AppendBody(elseStore)
	fn.AppendBody(ret)

	condNode.Target = elseStore
	thenJump.Target = ret

	cfg.Build(fn)
	dom.Build(fn)
	return fn, thenStore, elseStore, ret
}

func findPhiBefore(n ir.Node) *ir.Phi {
	if phi, ok := n.Prev().(*ir.Phi); ok {
		return phi
	}
	return nil
}

func TestRunInsertsPhiAtMergePoint(t *testing.T) {
	fn, thenStore, elseStore, ret := buildIfElse()
	Run(fn)

	phi := findPhiBefore(ret)
	require.NotNil(t, phi, "expected a phi node linked immediately before the merge point")
	assert.Equal(t, 0, phi.SymIdx)
	require.Len(t, phi.Operands, 2)

	assert.NotEqual(t, thenStore.Dest.SSAIdx, elseStore.Dest.SSAIdx)
	assert.ElementsMatch(t, []int{thenStore.Dest.SSAIdx, elseStore.Dest.SSAIdx}, phi.Operands)
}

func TestRunPropagatesPhiVersionToUse(t *testing.T) {
	fn, _, _, ret := buildIfElse()
	Run(fn)

	phi := findPhiBefore(ret)
	require.NotNil(t, phi)
	retSym, ok := ret.Body.(*ir.Sym)
	require.True(t, ok)
	assert.Equal(t, phi.SSAIdx, retSym.SSAIdx)
}

func TestRunLeavesSingleDefUnambiguous(t *testing.T) {
	fn := ir.NewFnDecl("g", types.Scalar(types.Int))
	alloca := ir.NewAlloca(types.Scalar(types.Int), 0)
	store := ir.NewStore(ir.NewSym(0), ir.NewImmInt(7))
	ret := ir.NewRet(ir.NewSym(0))
	fn.AppendBody(alloca)
	fn.AppendBody(store)
	fn.AppendBody(ret)
	cfg.Build(fn)
	dom.Build(fn)

	Run(fn)

	retSym := ret.Body.(*ir.Sym)
	assert.Equal(t, store.Dest.SSAIdx, retSym.SSAIdx)
	assert.Nil(t, findPhiBefore(ret))
}
