package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/weak-lang/weakc/internal/interp"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/pipeline"
	"github.com/weak-lang/weakc/internal/types"
)

func runCmd() *cobra.Command {
	var argsFlag string

	cmd := &cobra.Command{
		Use:   "run <file.weak>",
		Short: "compile and interpret a weak source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}

			unit, err := pipeline.Build(src, pipeline.Options{Optimize: true})
			if err != nil {
				reportError(os.Stderr, err)
				return err
			}

			mainArgs, err := parseMainArgs(unit, argsFlag)
			if err != nil {
				reportError(os.Stderr, err)
				return err
			}

			code, err := interp.Run(unit, mainArgs...)
			if err != nil {
				reportError(os.Stderr, err)
				return err
			}
			os.Exit(int(code))
			return nil
		},
	}
	cmd.Flags().StringVar(&argsFlag, "args", "", "shell-quoted argument string passed to main's int parameters")
	return cmd
}

// parseMainArgs shell-splits argsFlag with go-shellquote, the same way
// a shell would split the words following weakc run prog.weak --args
// "1 2 3", and converts each word to the int32 main expects, per the
// positional-argc/argv model main declares its own Alloca parameters
// with. An empty flag with a zero-arg main is the common case and
// produces no work at all.
func parseMainArgs(unit *ir.Unit, argsFlag string) ([]int32, error) {
	mainFn := unit.Lookup("main")
	if mainFn == nil || len(mainFn.Args) == 0 {
		if argsFlag != "" {
			return nil, fmt.Errorf("--args given but main takes no parameters")
		}
		return nil, nil
	}

	words, err := shellquote.Split(argsFlag)
	if err != nil {
		return nil, fmt.Errorf("--args: %w", err)
	}
	if len(words) != len(mainFn.Args) {
		return nil, fmt.Errorf("main takes %d parameter(s), --args supplied %d", len(mainFn.Args), len(words))
	}

	out := make([]int32, len(words))
	for i, w := range words {
		if mainFn.Args[i].DataType.Kind != types.Int {
			return nil, fmt.Errorf("main parameter %d is %s, not int; --args only fills int parameters", i, mainFn.Args[i].DataType)
		}
		n, err := strconv.Atoi(w)
		if err != nil {
			return nil, fmt.Errorf("--args word %q is not an integer: %w", w, err)
		}
		out[i] = int32(n)
	}
	return out, nil
}
