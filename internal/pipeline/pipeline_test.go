package pipeline

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weak-lang/weakc/internal/interp"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	src, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return src
}

func TestBuildAndInterpretArith(t *testing.T) {
	src := readTestdata(t, "arith.weak")
	unit, err := Build(src, Options{Optimize: true})
	require.NoError(t, err)

	got, err := interp.Run(unit)
	require.NoError(t, err)
	require.Equal(t, int32(11), got)
}

func TestBuildAndInterpretCond(t *testing.T) {
	src := readTestdata(t, "cond.weak")
	unit, err := Build(src, Options{Optimize: false})
	require.NoError(t, err)

	got, err := interp.Run(unit)
	require.NoError(t, err)
	require.Equal(t, int32(1), got)
}

func TestBuildAndInterpretLoop(t *testing.T) {
	src := readTestdata(t, "loop.weak")
	unit, err := Build(src, Options{Optimize: true})
	require.NoError(t, err)

	got, err := interp.Run(unit)
	require.NoError(t, err)
	require.Equal(t, int32(45), got)
}

func TestBuildAndInterpretCall(t *testing.T) {
	src := readTestdata(t, "call.weak")
	unit, err := Build(src, Options{Optimize: true})
	require.NoError(t, err)

	got, err := interp.Run(unit)
	require.NoError(t, err)
	require.Equal(t, int32(7), got)
}

func TestBuildAndInterpretGlobal(t *testing.T) {
	src := readTestdata(t, "global.weak")
	unit, err := Build(src, Options{Optimize: true})
	require.NoError(t, err)

	got, err := interp.Run(unit)
	require.NoError(t, err)
	require.Equal(t, int32(99), got)
}

func TestBuildAndInterpretMainArgs(t *testing.T) {
	src := readTestdata(t, "args.weak")
	unit, err := Build(src, Options{Optimize: true})
	require.NoError(t, err)

	got, err := interp.Run(unit, 10, 32)
	require.NoError(t, err)
	require.Equal(t, int32(42), got)
}

func TestBuildRejectsSyntaxErrors(t *testing.T) {
	_, err := Build([]byte("int main( { return 0; }"), Options{})
	require.Error(t, err)
	_, ok := err.(*SourceErrors)
	require.True(t, ok)
}
