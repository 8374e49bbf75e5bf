// Package pipeline wires the front end and the middle-end passes into
// the one order cmd/weakc's run, build and dump share: source through to
// (optionally optimized) IR, which each subcommand then hands to the
// tree-walking interpreter, a backend sketch or the dumper. It exists so cmd/weakc's subcommands
// don't each re-derive the same pass ordering, the way
// original_source/compiler/compiler.c's compile() drives its own fixed
// front-end/middle-end/back-end sequence for every entry point.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/weak-lang/weakc/internal/cfg"
	"github.com/weak-lang/weakc/internal/ddg"
	"github.com/weak-lang/weakc/internal/dom"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/lexer"
	"github.com/weak-lang/weakc/internal/opt"
	"github.com/weak-lang/weakc/internal/parser"
	"github.com/weak-lang/weakc/internal/sema"
	"github.com/weak-lang/weakc/internal/typeprop"
)

// Options controls which of the optional passes Build runs. Lexing,
// parsing, sema, ir.Build, typeprop and the cfg/dom/ddg analyses always
// run (internal/ssa is not part of this pipeline); only the opt rewrite
// passes are switchable, since dump needs to show pre-optimization IR on
// request, and spec.md §8's
// "optimization is sound" property only needs to hold when Optimize is
// actually enabled.
type Options struct {
	Optimize bool // run SimplifyArith/ReorderAllocas/RemoveUnreachable/DCE
}

// SourceErrors collects every parse or sema diagnostic found in one
// compile, formatted the way spec.md §7 assigns to upstream passes: one
// line per error, none of them fatal to collecting the rest.
type SourceErrors struct {
	Errs []error
}

func (e *SourceErrors) Error() string {
	var b strings.Builder
	for i, err := range e.Errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

// Build runs the front end and the middle end's IR construction and
// analysis passes over src, returning an IR unit ready for either
// interp.Run or a backend Emit call. A non-nil *SourceErrors means the
// front end rejected the program; any other error is an *diag.InternalError
// escaping from internal/ir.Build.
func Build(src []byte, opts Options) (*ir.Unit, error) {
	toks := lexer.New(src).Tokenize()

	astUnit, errs := parser.Parse(toks)
	if len(errs) > 0 {
		return nil, &SourceErrors{Errs: errs}
	}

	chk, serrs := sema.Check(astUnit)
	if len(serrs) > 0 {
		converted := make([]error, len(serrs))
		for i, e := range serrs {
			converted[i] = e
		}
		return nil, &SourceErrors{Errs: converted}
	}

	unit, err := ir.Build(astUnit, chk)
	if err != nil {
		return nil, err
	}

	typeprop.Run(unit)

	for _, fn := range unit.Funcs() {
		runAnalyses(fn)
		if opts.Optimize {
			runOptimizations(fn)
		}
	}

	return unit, nil
}

// runAnalyses brings fn's per-function analyses (CFG, dominator tree,
// dominance frontier, data-dependence graph) up to date. Every later
// pass that inspects Succs/Idom/DF/DDGStmts requires this to have run
// since the body list was last restructured.
func runAnalyses(fn *ir.FnDecl) {
	cfg.Build(fn)
	dom.Build(fn)
	ddg.Build(fn)
}

// runOptimizations applies spec.md §4.7's rewrite passes in the one
// order that keeps every pass's own "requires X to be current"
// precondition satisfied: algebraic simplification first (it only
// rewrites expression trees, so the CFG/dom/DDG state from runAnalyses
// is still valid going in), then the two passes that restructure the
// body list (ReorderAllocas, RemoveUnreachable), re-running the
// analyses each time the list changes shape, and DCE last since it
// needs dominance and DDG information for the list shape RemoveUnreachable
// produced.
func runOptimizations(fn *ir.FnDecl) {
	opt.SimplifyArith(fn)

	opt.ReorderAllocas(fn)
	cfg.Build(fn)

	opt.RemoveUnreachable(fn)
	cfg.Build(fn)
	dom.Build(fn)
	ddg.Build(fn)

	opt.DCE(fn)
	cfg.Build(fn)
	dom.Build(fn)
}

// FormatSourceError renders a single front-end error the way every
// other diagnostic in this compiler is rendered: plain text, no color
// decision made here (cmd/weakc's caller picks the color).
func FormatSourceError(err error) string {
	return fmt.Sprintf("error: %s", err)
}
