package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/cfg"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

func TestRemoveUnreachableDropsCodeAfterUnconditionalJump(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	ret := ir.NewRet(ir.NewImmInt(0))
	j := ir.NewJump(ret)
	dead := ir.NewStore(ir.NewSym(0), ir.NewImmInt(9))

	fn.AppendBody(j)
	fn.AppendBody(dead)
	fn.AppendBody(ret)

	cfg.Build(fn)
	RemoveUnreachable(fn)

	got := ir.Nodes(fn.BodyHead)
	require.Len(t, got, 2)
	assert.Same(t, ir.Node(j), got[0])
	assert.Same(t, ir.Node(ret), got[1])
}
