package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCommandEmitsRiscVText(t *testing.T) {
	out, err := execCmd(t, "build", "../../testdata/arith.weak")
	require.NoError(t, err)
	assert.Contains(t, out, ".globl main")
}

func TestBuildCommandEmitsX64Text(t *testing.T) {
	out, err := execCmd(t, "build", "-T", "x64", "../../testdata/arith.weak")
	require.NoError(t, err)
	assert.Contains(t, out, "_start:")
}

func TestDumpCommandPrintsText(t *testing.T) {
	out, err := execCmd(t, "dump", "../../testdata/cond.weak")
	require.NoError(t, err)
	assert.Contains(t, out, "fn main(")
}

func TestDumpCommandUnknownFormatIsAnError(t *testing.T) {
	_, err := execCmd(t, "dump", "--format", "bogus", "../../testdata/cond.weak")
	require.Error(t, err)
}

func TestBuildCommandUnknownTargetIsAnError(t *testing.T) {
	_, err := execCmd(t, "build", "-T", "bogus", "../../testdata/arith.weak")
	require.Error(t, err)
}
