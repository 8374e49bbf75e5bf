package riscv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

func buildAddFn() *ir.Unit {
	fn := ir.NewFnDecl("main", types.Scalar(types.Int))
	a := ir.NewAlloca(types.Scalar(types.Int), 0)
	storeA := ir.NewStore(ir.NewSym(0), ir.NewImmInt(3))
	ret := ir.NewRet(ir.NewBin(ir.BAdd, ir.NewSym(0), ir.NewImmInt(4)))
	fn.AppendBody(a)
	fn.AppendBody(storeA)
	fn.AppendBody(ret)

	u := &ir.Unit{}
	u.AddFn(fn)
	return u
}

func TestEmitProducesFunctionLabelAndReturn(t *testing.T) {
	out := Emit(buildAddFn())
	assert.Contains(t, out, ".globl main")
	assert.Contains(t, out, "main:")
	assert.Contains(t, out, "add\tt0, t0, t1")
	assert.Contains(t, out, "main_ret:")
	assert.Contains(t, out, "\tret\n")
}
