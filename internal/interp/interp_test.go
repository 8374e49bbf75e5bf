package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/typeprop"
	"github.com/weak-lang/weakc/internal/types"
)

// unitOf links fns into a unit and runs internal/typeprop over it, since
// the interpreter reads and writes every Sym by its propagated type.
func unitOf(fns ...*ir.FnDecl) *ir.Unit {
	u := &ir.Unit{}
	for _, fn := range fns {
		u.AddFn(fn)
	}
	typeprop.Run(u)
	return u
}

func TestRunReturnsLiteralInt(t *testing.T) {
	main := ir.NewFnDecl("main", types.Scalar(types.Int))
	main.AppendBody(ir.NewRet(ir.NewImmInt(42)))

	got, err := Run(unitOf(main))
	require.NoError(t, err)
	require.Equal(t, int32(42), got)
}

func TestRunArithmeticThroughLocals(t *testing.T) {
	main := ir.NewFnDecl("main", types.Scalar(types.Int))
	a := ir.NewAlloca(types.Scalar(types.Int), 0)
	b := ir.NewAlloca(types.Scalar(types.Int), 1)
	sum := ir.NewAlloca(types.Scalar(types.Int), 2)

	storeA := ir.NewStore(ir.NewSym(0), ir.NewImmInt(3))
	storeB := ir.NewStore(ir.NewSym(1), ir.NewImmInt(4))
	storeSum := ir.NewStore(ir.NewSym(2), ir.NewBin(ir.BAdd, ir.NewSym(0), ir.NewSym(1)))
	ret := ir.NewRet(ir.NewSym(2))

	main.AppendBody(a)
	main.AppendBody(b)
	main.AppendBody(sum)
	main.AppendBody(storeA)
	main.AppendBody(storeB)
	main.AppendBody(storeSum)
	main.AppendBody(ret)

	got, err := Run(unitOf(main))
	require.NoError(t, err)
	require.Equal(t, int32(7), got)
}

// buildIfElse wires up a simplified form of the branch internal/ir.Builder
// produces for "if (x > 0) return 1; else return 2;", with x preset to
// initial: Cond's target is the then-Ret, and its fall-through reaches the
// else-Ret directly instead of through an exit Jump.
func buildIfElse(initial int32) *ir.FnDecl {
	main := ir.NewFnDecl("main", types.Scalar(types.Int))
	x := ir.NewAlloca(types.Scalar(types.Int), 0)
	storeX := ir.NewStore(ir.NewSym(0), ir.NewImmInt(initial))
	retThen := ir.NewRet(ir.NewImmInt(1))
	retElse := ir.NewRet(ir.NewImmInt(2))
	cond := ir.NewCond(ir.NewBin(ir.BGt, ir.NewSym(0), ir.NewImmInt(0)), retThen)

	main.AppendBody(x)
	main.AppendBody(storeX)
	main.AppendBody(cond)
	main.AppendBody(retElse)
	main.AppendBody(retThen)
	return main
}

func TestRunCondTakesTrueBranch(t *testing.T) {
	got, err := Run(unitOf(buildIfElse(5)))
	require.NoError(t, err)
	require.Equal(t, int32(1), got)
}

func TestRunCondFallsThroughToElse(t *testing.T) {
	got, err := Run(unitOf(buildIfElse(-5)))
	require.NoError(t, err)
	require.Equal(t, int32(2), got)
}

func TestRunFnCallPushesArgsAndReturns(t *testing.T) {
	add := ir.NewFnDecl("add", types.Scalar(types.Int))
	p0 := ir.NewAlloca(types.Scalar(types.Int), 0)
	p1 := ir.NewAlloca(types.Scalar(types.Int), 1)
	add.Args = []*ir.Alloca{p0, p1}
	add.AppendBody(p0)
	add.AppendBody(p1)
	add.AppendBody(ir.NewRet(ir.NewBin(ir.BAdd, ir.NewSym(0), ir.NewSym(1))))

	main := ir.NewFnDecl("main", types.Scalar(types.Int))
	call := ir.NewFnCall("add", []ir.Node{ir.NewImmInt(3), ir.NewImmInt(4)})
	main.AppendBody(ir.NewRet(call))

	got, err := Run(unitOf(add, main))
	require.NoError(t, err)
	require.Equal(t, int32(7), got)
}

func TestRunExecutesInitBeforeMain(t *testing.T) {
	const globalIdx = ir.GlobalBase

	initFn := ir.NewFnDecl(ir.InitFnName, types.Scalar(types.Void))
	initFn.AppendBody(ir.NewAlloca(types.Scalar(types.Int), globalIdx))
	initFn.AppendBody(ir.NewStore(ir.NewSym(globalIdx), ir.NewImmInt(99)))
	initFn.AppendBody(ir.NewRet(nil))

	main := ir.NewFnDecl("main", types.Scalar(types.Int))
	// typeprop types a global only inside the function that allocates
	// it, so main's read carries its type the way the builder sets it.
	g := ir.NewSym(globalIdx)
	g.SetType(types.Scalar(types.Int))
	main.AppendBody(ir.NewRet(g))

	got, err := Run(unitOf(initFn, main))
	require.NoError(t, err)
	require.Equal(t, int32(99), got)
}

func TestRunMissingMainIsInternalError(t *testing.T) {
	only := ir.NewFnDecl("notMain", types.Scalar(types.Int))
	only.AppendBody(ir.NewRet(ir.NewImmInt(0)))

	_, err := Run(unitOf(only))
	require.Error(t, err)
}
