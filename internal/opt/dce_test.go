package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/cfg"
	"github.com/weak-lang/weakc/internal/ddg"
	"github.com/weak-lang/weakc/internal/dom"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

func TestDCERemovesStoreWithNoLiveUse(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	alloca := ir.NewAlloca(types.Scalar(types.Int), 0)
	deadStore := ir.NewStore(ir.NewSym(0), ir.NewImmInt(42))
	ret := ir.NewRet(ir.NewImmInt(0))

	fn.AppendBody(alloca)
	fn.AppendBody(deadStore)
	fn.AppendBody(ret)

	cfg.Build(fn)
	dom.Build(fn)
	ddg.Build(fn)

	DCE(fn)

	got := ir.Nodes(fn.BodyHead)
	for _, n := range got {
		assert.NotSame(t, ir.Node(deadStore), n)
	}
}

func TestDCEKeepsStoreReachingARet(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	alloca := ir.NewAlloca(types.Scalar(types.Int), 0)
	liveStore := ir.NewStore(ir.NewSym(0), ir.NewImmInt(42))
	ret := ir.NewRet(ir.NewSym(0))

	fn.AppendBody(alloca)
	fn.AppendBody(liveStore)
	fn.AppendBody(ret)

	cfg.Build(fn)
	dom.Build(fn)
	ddg.Build(fn)

	DCE(fn)

	got := ir.Nodes(fn.BodyHead)
	found := false
	for _, n := range got {
		if n == ir.Node(liveStore) {
			found = true
		}
	}
	assert.True(t, found)
	require.Contains(t, got, ir.Node(ret))
	require.Contains(t, got, ir.Node(alloca))
}

func TestDCENeverDeletesAllocas(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	alloca := ir.NewAlloca(types.Scalar(types.Int), 0)
	ret := ir.NewRet(ir.NewImmInt(0))

	fn.AppendBody(alloca)
	fn.AppendBody(ir.NewStore(ir.NewSym(0), ir.NewImmInt(1)))
	fn.AppendBody(ret)

	cfg.Build(fn)
	dom.Build(fn)
	ddg.Build(fn)

	DCE(fn)

	got := ir.Nodes(fn.BodyHead)
	require.Contains(t, got, ir.Node(alloca))
}

func TestDCEKeepsUnreadGlobalStore(t *testing.T) {
	fn := ir.NewFnDecl(ir.InitFnName, types.Scalar(types.Void))
	globalStore := ir.NewStore(ir.NewSym(ir.GlobalBase), ir.NewImmInt(99))
	ret := ir.NewRet(nil)

	fn.AppendBody(globalStore)
	fn.AppendBody(ret)

	cfg.Build(fn)
	dom.Build(fn)
	ddg.Build(fn)

	DCE(fn)

	got := ir.Nodes(fn.BodyHead)
	require.Contains(t, got, ir.Node(globalStore))
}

func TestDCENeverDeletesRetOrFnCall(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	call := ir.NewFnCall("sideEffect", nil)
	store := ir.NewStore(ir.NewSym(0), call)
	ret := ir.NewRet(ir.NewImmInt(0))
	fn.AppendBody(ir.NewAlloca(types.Scalar(types.Int), 0))
	fn.AppendBody(store)
	fn.AppendBody(ret)

	cfg.Build(fn)
	dom.Build(fn)
	ddg.Build(fn)

	DCE(fn)

	got := ir.Nodes(fn.BodyHead)
	assert.Contains(t, got, ir.Node(ret))
}
