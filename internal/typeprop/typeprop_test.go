package typeprop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

func TestRunInstallsAllocaAndSymTypes(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	a := ir.NewAlloca(types.Scalar(types.Float), 0)
	store := ir.NewStore(ir.NewSym(0), ir.NewImmFloat(1.5))
	ret := ir.NewRet(ir.NewSym(0))
	fn.AppendBody(a)
	fn.AppendBody(store)
	fn.AppendBody(ret)

	unit := &ir.Unit{}
	unit.AddFn(fn)

	Run(unit)

	assert.Equal(t, types.Scalar(types.Float), a.Type())
	assert.Equal(t, types.Scalar(types.Float), store.Dest.Type())
	assert.Equal(t, types.Scalar(types.Float), ret.Body.Type())
}

func TestRunComparisonAlwaysInt(t *testing.T) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	a := ir.NewAlloca(types.Scalar(types.Float), 0)
	bin := ir.NewBin(ir.BLt, ir.NewSym(0), ir.NewImmFloat(0))
	cond := ir.NewCond(bin, nil)
	fn.AppendBody(a)
	fn.AppendBody(cond)

	unit := &ir.Unit{}
	unit.AddFn(fn)
	Run(unit)

	assert.Equal(t, types.Scalar(types.Int), bin.Type())
}

func TestRunFnCallUsesRecordedSignature(t *testing.T) {
	callee := ir.NewFnDecl("helper", types.Scalar(types.Bool))
	callee.AppendBody(ir.NewRet(ir.NewImmBool(true)))

	caller := ir.NewFnDecl("f", types.Scalar(types.Int))
	call := ir.NewFnCall("helper", nil)
	caller.AppendBody(ir.NewRet(call))

	unit := &ir.Unit{}
	unit.AddFn(callee)
	unit.AddFn(caller)

	Run(unit)

	assert.Equal(t, types.Scalar(types.Bool), call.Type())
}
