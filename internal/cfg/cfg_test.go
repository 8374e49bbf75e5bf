package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

// buildDiamond wires up: entry -> cond -(false)-> thenBody -> join
//                                -(true)----------------> join
// where join is the function's Ret.
func buildDiamond() *ir.FnDecl {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))

	entry := ir.NewAlloca(types.Scalar(types.Int), 0)
	cond := ir.NewCond(ir.NewBin(ir.BGt, ir.NewSym(0), ir.NewImmInt(0)), nil)
	thenBody := ir.NewStore(ir.NewSym(0), ir.NewImmInt(1))
	join := ir.NewRet(ir.NewSym(0))

	fn.AppendBody(entry)
	fn.AppendBody(cond)
	fn.AppendBody(thenBody)
	fn.AppendBody(join)

	cond.Target = join // false-edge is fall-through (Next), true-edge jumps to join
	return fn
}

func TestBuildDiamondSuccsAndPreds(t *testing.T) {
	fn := buildDiamond()
	Build(fn)

	nodes := ir.Nodes(fn.BodyHead)
	require.Len(t, nodes, 4)
	entry, cond, thenBody, join := nodes[0], nodes[1], nodes[2], nodes[3]

	assert.Equal(t, []ir.Node{cond}, entry.Succs())
	assert.ElementsMatch(t, []ir.Node{join, thenBody}, cond.Succs())
	assert.Equal(t, []ir.Node{join}, thenBody.Succs())
	assert.Empty(t, join.Succs())

	assert.ElementsMatch(t, []ir.Node{entry}, cond.Preds())
	assert.ElementsMatch(t, []ir.Node{cond}, thenBody.Preds())
	assert.ElementsMatch(t, []ir.Node{cond, thenBody}, join.Preds())
}

func TestBuildBlockNumbering(t *testing.T) {
	fn := buildDiamond()
	Build(fn)

	nodes := ir.Nodes(fn.BodyHead)
	entry, cond, thenBody, join := nodes[0], nodes[1], nodes[2], nodes[3]

	// entry and cond share a block: cond doesn't follow a branch and has
	// only one predecessor.
	assert.Equal(t, entry.BlockNum(), cond.BlockNum())
	// thenBody starts a new block: it immediately follows the Cond branch.
	assert.NotEqual(t, cond.BlockNum(), thenBody.BlockNum())
	// join starts a new block too: it has two predecessors (a join point).
	assert.NotEqual(t, thenBody.BlockNum(), join.BlockNum())
	assert.NotEqual(t, cond.BlockNum(), join.BlockNum())
}

func TestJumpAndRetSuccs(t *testing.T) {
	target := ir.NewRet(nil)
	j := ir.NewJump(target)
	assert.Equal(t, []ir.Node{target}, succsOf(j))
	assert.Empty(t, succsOf(target))
}
