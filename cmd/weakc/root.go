package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/weak-lang/weakc/internal/pipeline"
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "weakc",
		Short:         "compiler and interpreter for the weak language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd(), buildCmd(), dumpCmd())
	return root
}

// reportError prints err the way every subcommand wants a fatal
// diagnostic printed: red for compile/runtime failures, following
// std/compiler/main.go's fmt.Fprintf(os.Stderr, ...) reporting but with
// fatih/color doing the severity coloring that plain fmt can't.
func reportError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	if serrs, ok := err.(*pipeline.SourceErrors); ok {
		for _, e := range serrs.Errs {
			red.Fprintf(w, "error: ")
			fmt.Fprintln(w, e)
		}
		return
	}
	red.Fprintf(w, "error: ")
	fmt.Fprintln(w, err)
}

func warnf(w io.Writer, format string, args ...any) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(w, "warning: ")
	fmt.Fprintf(w, format+"\n", args...)
}

func readSource(path string) ([]byte, error) {
	return os.ReadFile(path)
}
