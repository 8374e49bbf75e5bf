package ddg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/cfg"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

func TestBuildStraightLineReachesSingleStore(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	alloca := ir.NewAlloca(types.Scalar(types.Int), 0)
	store := ir.NewStore(ir.NewSym(0), ir.NewImmInt(5))
	ret := ir.NewRet(ir.NewSym(0))
	fn.AppendBody(alloca)
	fn.AppendBody(store)
	fn.AppendBody(ret)
	cfg.Build(fn)

	Build(fn)

	retSym := ret.Body.(*ir.Sym)
	assert.Equal(t, []ir.Node{store}, retSym.DDGStmts())
}

func TestBuildMergePointUnionsBothBranches(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	alloca := ir.NewAlloca(types.Scalar(types.Int), 0)
	condNode := ir.NewCond(ir.NewBin(ir.BGt, ir.NewSym(0), ir.NewImmInt(0)), nil)
	thenStore := ir.NewStore(ir.NewSym(0), ir.NewImmInt(1))
	thenJump := ir.NewJump(nil)
	elseStore := ir.NewStore(ir.NewSym(0), ir.NewImmInt(2))
	ret := ir.NewRet(ir.NewSym(0))

	fn.AppendBody(alloca)
	fn.AppendBody(condNode)
	fn.AppendBody(thenStore)
	fn.AppendBody(thenJump)
	fn.AppendBody(elseStore)
	fn.AppendBody(ret)
	condNode.Target = elseStore
	thenJump.Target = ret

	cfg.Build(fn)
	Build(fn)

	retSym := ret.Body.(*ir.Sym)
	require.Len(t, retSym.DDGStmts(), 2)
	assert.ElementsMatch(t, []ir.Node{thenStore, elseStore}, retSym.DDGStmts())
}
