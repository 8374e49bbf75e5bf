// Command weakc is the weak compiler driver: lexer/parser/sema through
// IR construction and optimization, then either the tree-walking
// interpreter or one of the two assembly-sketch backends. It replaces
// std/compiler/main.go's hand-rolled os.Args loop with a cobra command
// tree, keeping that original's flag shape (-o, -T target, -run) on the
// subcommands that inherit them.
package main

import "os"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
