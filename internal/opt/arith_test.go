package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

func storeFn(body ir.Node) (*ir.FnDecl, *ir.Store) {
	fn := ir.NewFnDecl("f", types.Scalar(types.Int))
	store := ir.NewStore(ir.NewSym(0), body)
	fn.AppendBody(ir.NewAlloca(types.Scalar(types.Int), 0))
	fn.AppendBody(store)
	return fn, store
}

func TestSimplifyArithIdentity(t *testing.T) {
	fn, store := storeFn(ir.NewBin(ir.BAdd, ir.NewSym(1), ir.NewImmInt(0)))
	SimplifyArith(fn)
	sym, ok := store.Body.(*ir.Sym)
	assert.True(t, ok)
	assert.Equal(t, 1, sym.Idx)
}

func TestSimplifyArithAbsorb(t *testing.T) {
	fn, store := storeFn(ir.NewBin(ir.BMul, ir.NewSym(1), ir.NewImmInt(0)))
	SimplifyArith(fn)
	imm, ok := store.Body.(*ir.Imm)
	assert.True(t, ok)
	assert.Equal(t, int32(0), imm.IntVal)
}

func TestSimplifyArithSelfSub(t *testing.T) {
	a := ir.NewSym(1)
	a.SSAIdx = 3
	b := ir.NewSym(1)
	b.SSAIdx = 3
	fn, store := storeFn(ir.NewBin(ir.BSub, a, b))
	SimplifyArith(fn)
	imm, ok := store.Body.(*ir.Imm)
	assert.True(t, ok)
	assert.Equal(t, int32(0), imm.IntVal)
}

func TestSimplifyArithPowerOfTwoMul(t *testing.T) {
	fn, store := storeFn(ir.NewBin(ir.BMul, ir.NewSym(1), ir.NewImmInt(8)))
	SimplifyArith(fn)
	bin, ok := store.Body.(*ir.Bin)
	if assert.True(t, ok) {
		assert.Equal(t, ir.BShl, bin.Op)
		imm := bin.RHS.(*ir.Imm)
		assert.Equal(t, int32(3), imm.IntVal)
	}
}

func TestSimplifyArithDoubleNeg(t *testing.T) {
	x := ir.NewSym(1)
	negX := ir.NewBin(ir.BSub, ir.NewImmInt(0), x)
	negNegX := ir.NewBin(ir.BSub, ir.NewImmInt(0), negX)
	fn, store := storeFn(negNegX)
	SimplifyArith(fn)
	assert.Same(t, ir.Node(x), store.Body)
}

func TestSimplifyArithSubNeg(t *testing.T) {
	a := ir.NewSym(1)
	b := ir.NewSym(2)
	negB := ir.NewBin(ir.BSub, ir.NewImmInt(0), b)
	fn, store := storeFn(ir.NewBin(ir.BSub, a, negB))
	SimplifyArith(fn)
	bin, ok := store.Body.(*ir.Bin)
	if assert.True(t, ok) {
		assert.Equal(t, ir.BAdd, bin.Op)
		assert.Same(t, ir.Node(a), bin.LHS)
		assert.Same(t, ir.Node(b), bin.RHS)
	}
}

func TestSimplifyArithDistribute(t *testing.T) {
	a := ir.NewSym(1)
	b := ir.NewSym(2)
	c := ir.NewSym(3)
	left := ir.NewBin(ir.BMul, a, b)
	right := ir.NewBin(ir.BMul, a, c)
	fn, store := storeFn(ir.NewBin(ir.BAdd, left, right))
	SimplifyArith(fn)
	bin, ok := store.Body.(*ir.Bin)
	if assert.True(t, ok) {
		assert.Equal(t, ir.BMul, bin.Op)
		assert.Same(t, ir.Node(a), bin.LHS)
		inner := bin.RHS.(*ir.Bin)
		assert.Equal(t, ir.BAdd, inner.Op)
	}
}
