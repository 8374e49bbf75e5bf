package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/cfg"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

// buildDiamond wires: entry -> cond -(true)-> join
//                              -(false)-> thenBody -> join -> ret
func buildDiamond() (*ir.FnDecl, []ir.Node) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	entry := ir.NewAlloca(types.Scalar(types.Int), 0)
	condNode := ir.NewCond(ir.NewBin(ir.BGt, ir.NewSym(0), ir.NewImmInt(0)), nil)
	thenBody := ir.NewStore(ir.NewSym(0), ir.NewImmInt(1))
	join := ir.NewRet(ir.NewSym(0))

	fn.AppendBody(entry)
	fn.AppendBody(condNode)
	fn.AppendBody(thenBody)
	fn.AppendBody(join)
	condNode.Target = join

	cfg.Build(fn)
	return fn, []ir.Node{entry, condNode, thenBody, join}
}

func TestBuildIdomOverDiamond(t *testing.T) {
	fn, nodes := buildDiamond()
	Build(fn)
	entry, condNode, thenBody, join := nodes[0], nodes[1], nodes[2], nodes[3]

	assert.Equal(t, entry, entry.Idom())
	assert.Equal(t, entry, condNode.Idom())
	assert.Equal(t, condNode, thenBody.Idom())
	// join is reached from both condNode directly and via thenBody, so
	// its immediate dominator is condNode, the join point's common ancestor.
	assert.Equal(t, condNode, join.Idom())
}

func TestBuildDominanceFrontier(t *testing.T) {
	fn, nodes := buildDiamond()
	Build(fn)
	condNode, thenBody, join := nodes[1], nodes[2], nodes[3]

	// thenBody's only successor is the join point, and thenBody does not
	// dominate it through all paths (condNode's true edge bypasses it) —
	// join sits in thenBody's dominance frontier.
	assert.Contains(t, thenBody.DF(), join)
	// condNode dominates join directly, so join is not in condNode's own
	// frontier (a node is never in its own dominator's frontier here
	// because condNode == join.Idom()).
	assert.NotContains(t, condNode.DF(), join)
}

func TestDominatesAndDominatedBy(t *testing.T) {
	fn, nodes := buildDiamond()
	Build(fn)
	entry, condNode, thenBody, join := nodes[0], nodes[1], nodes[2], nodes[3]
	_ = fn

	require.True(t, Dominates(entry, join))
	require.True(t, Dominates(condNode, thenBody))
	require.False(t, Dominates(thenBody, join))
	require.True(t, DominatedBy(join, condNode))
}
