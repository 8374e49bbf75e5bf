package x64

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

func TestEmitRendersMainAsStartWithSyscallExit(t *testing.T) {
	out := Emit(buildAddFn())
	assert.Contains(t, out, "global\t_start")
	assert.Contains(t, out, "_start:")
	assert.Contains(t, out, "add\trax, rbx")
	assert.Contains(t, out, "main_ret:")
	assert.Contains(t, out, "syscall")
}

func buildHelperFn() *ir.Unit {
	helper := ir.NewFnDecl("helper", types.Scalar(types.Int))
	p0 := ir.NewAlloca(types.Scalar(types.Int), 0)
	helper.Args = []*ir.Alloca{p0}
	helper.AppendBody(p0)
	helper.AppendBody(ir.NewRet(ir.NewSym(0)))

	u := &ir.Unit{}
	u.AddFn(helper)
	return u
}

func TestEmitNonMainUsesCdeclPrologueAndRet(t *testing.T) {
	out := Emit(buildHelperFn())
	assert.Contains(t, out, "helper:")
	assert.Contains(t, out, "push\trbp")
	assert.Contains(t, out, "mov\trbp, rsp")
	assert.Contains(t, out, "pop\trbp")
	assert.Contains(t, out, "\tret\n")
}
