package dump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/cfg"
	"github.com/weak-lang/weakc/internal/dom"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

// buildCondFn builds a function with a single two-way branch to two
// separate Ret nodes (not a merge-back diamond — both arms terminate).
func buildCondFn() *ir.FnDecl {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	x := ir.NewAlloca(types.Scalar(types.Int), 0)
	storeX := ir.NewStore(ir.NewSym(0), ir.NewImmInt(5))
	retThen := ir.NewRet(ir.NewImmInt(1))
	retElse := ir.NewRet(ir.NewImmInt(2))
	cond := ir.NewCond(ir.NewBin(ir.BGt, ir.NewSym(0), ir.NewImmInt(0)), retThen)

	fn.AppendBody(x)
	fn.AppendBody(storeX)
	fn.AppendBody(cond)
	fn.AppendBody(retElse)
	fn.AppendBody(retThen)

	ir.Renumber(fn.BodyHead)
	cfg.Build(fn)
	dom.Build(fn)
	return fn
}

func TestTextIncludesEveryNode(t *testing.T) {
	fn := buildCondFn()
	u := &ir.Unit{}
	u.AddFn(fn)

	out := Text(u)
	assert.Contains(t, out, "fn f(")
	assert.Contains(t, out, "alloca %0")
	assert.Contains(t, out, "store %0 = 5")
	assert.Contains(t, out, "cond (%0 > 0)")
	assert.Contains(t, out, "ret 1")
	assert.Contains(t, out, "ret 2")
}

func TestDotCFGEmitsEveryEdge(t *testing.T) {
	fn := buildCondFn()
	out := DotCFG(fn)

	require.Contains(t, out, "digraph cfg_f {")
	// cond's fall-through to retElse and its branch to retThen must both
	// appear as edges, matching fn.Succs() after cfg.Build.
	condID := "n2"
	assert.Contains(t, out, condID+" -> n3;")
	assert.Contains(t, out, condID+" -> n4;")
}

func TestDotDomTreeHasOneRoot(t *testing.T) {
	fn := buildCondFn()
	out := DotDomTree(fn)

	require.Contains(t, out, "digraph domtree_f {")
	// the entry (n0) is the tree's root; the straight-line prefix makes
	// n1 its direct idom-child, and every later node hangs below n1.
	assert.Contains(t, out, "n0 -> n1;")
}

func TestDotDominanceFrontierOfTwoWayBranch(t *testing.T) {
	fn := buildCondFn()
	out := DotDominanceFrontier(fn)
	require.Contains(t, out, "digraph df_f {")
}
