package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weak-lang/weakc/internal/dump"
	"github.com/weak-lang/weakc/internal/pipeline"
)

func dumpCmd() *cobra.Command {
	var format string
	var fnName string
	var output string
	var optimize bool

	cmd := &cobra.Command{
		Use:   "dump <file.weak>",
		Short: "print the IR as text, or as Graphviz dot for the CFG/dominator tree/dominance frontier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}

			unit, err := pipeline.Build(src, pipeline.Options{Optimize: optimize})
			if err != nil {
				reportError(os.Stderr, err)
				return err
			}

			var text string
			switch format {
			case "text", "":
				text = dump.Text(unit)
			case "cfg", "domtree", "frontier":
				name := fnName
				if name == "" {
					name = "main"
				}
				fn := unit.Lookup(name)
				if fn == nil {
					return fmt.Errorf("no function named %q in %s", name, args[0])
				}
				switch format {
				case "cfg":
					text = dump.DotCFG(fn)
				case "domtree":
					text = dump.DotDomTree(fn)
				case "frontier":
					text = dump.DotDominanceFrontier(fn)
				}
			default:
				return fmt.Errorf("unknown -format %q: expected text, cfg, domtree, or frontier", format)
			}

			if output == "" || output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			return os.WriteFile(output, []byte(text), 0o644)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "text, cfg, domtree, or frontier")
	cmd.Flags().StringVar(&fnName, "func", "", "function to render for cfg/domtree/frontier (default: main)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&optimize, "optimize", false, "run the optimizer before dumping")
	return cmd
}
