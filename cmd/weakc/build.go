package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weak-lang/weakc/internal/backend/riscv"
	"github.com/weak-lang/weakc/internal/backend/x64"
	"github.com/weak-lang/weakc/internal/pipeline"
)

func buildCmd() *cobra.Command {
	var output string
	var target string

	cmd := &cobra.Command{
		Use:   "build <file.weak>",
		Short: "compile a weak source file to a textual assembly sketch",
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

			var text string
			switch target {
			case "riscv", "rv64", "":
				text = riscv.Emit(unit)
			case "x64", "x86_64", "amd64":
				warnf(os.Stderr, "x64 is a secondary sketch backend: no register allocator, not exercised by the default pipeline")
				text = x64.Emit(unit)
			default:
				return fmt.Errorf("unknown -T target %q: expected riscv or x64", target)
			}

			if output == "" || output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			return os.WriteFile(output, []byte(text), 0o644)
		},
	}
	// -o and -T keep std/compiler/main.go's original flag names; -run
	// has no build-command analogue since this subcommand never executes
	// the result.
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&target, "target", "T", "riscv", "backend sketch to emit: riscv (default) or x64")
	return cmd
}
