package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

func TestReorderAllocasBubblesUpPreservingOrder(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	a0 := ir.NewAlloca(types.Scalar(types.Int), 0)
	store := ir.NewStore(ir.NewSym(0), ir.NewImmInt(1))
	a1 := ir.NewAlloca(types.Scalar(types.Int), 1)
	ret := ir.NewRet(ir.NewSym(1))

	fn.AppendBody(a0)
	fn.AppendBody(store)
	fn.AppendBody(a1)
	fn.AppendBody(ret)

	ReorderAllocas(fn)
	ir.Renumber(fn.BodyHead)

	got := ir.Nodes(fn.BodyHead)
	require.Len(t, got, 4)
	assert.Same(t, ir.Node(a0), got[0])
	assert.Same(t, ir.Node(a1), got[1])
	assert.Same(t, ir.Node(store), got[2])
	assert.Same(t, ir.Node(ret), got[3])
	assert.Equal(t, got[3], fn.BodyTail)
}

// TestReorderAllocasRetargetsLoopBackEdge mimics a while loop's shape: the
// back-edge jumps to the condition temp's Alloca so the condition gets
// re-evaluated each iteration. Once that Alloca is relocated to the
// prologue, the Jump must follow it and land on the condStore instead,
// or the loop would fall into the function's first statement forever.
func TestReorderAllocasRetargetsLoopBackEdge(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	ret := ir.NewRet(ir.NewSym(0))

	iVar := ir.NewAlloca(types.Scalar(types.Int), 0)
	initStore := ir.NewStore(ir.NewSym(0), ir.NewImmInt(0))
	condTemp := ir.NewAlloca(types.Scalar(types.Int), 1)
	condStore := ir.NewStore(ir.NewSym(1), ir.NewBin(ir.BLt, ir.NewSym(0), ir.NewImmInt(10)))
	cond := ir.NewCond(ir.NewBin(ir.BNeq, ir.NewSym(1), ir.NewImmInt(0)), ret)
	backEdge := ir.NewJump(condTemp)

	fn.AppendBody(iVar)
	fn.AppendBody(initStore)
	fn.AppendBody(condTemp)
	fn.AppendBody(condStore)
	fn.AppendBody(cond)
	fn.AppendBody(backEdge)
	fn.AppendBody(ret)

	ReorderAllocas(fn)

	assert.Same(t, ir.Node(condStore), backEdge.Target)
}
