// Package diag implements the two error categories of spec.md §7:
// internal-invariant violations (fatal, compiler-internal) and
// source-level errors (produced only by internal/sema, upstream of the
// core). The core never produces the latter.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// InternalError is a fatal invariant violation raised by the middle end
// or the interpreter: a Sym referencing an unknown index, a Bin seeing
// mismatched operand kinds, an out-of-range jump target, and similar.
// spec.md §7 says these "cannot arise from well-formed input" — there is
// no recovery path, only reporting.
type InternalError struct {
	Component string
	Msg       string
	Err       error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weakc: internal error [%s]: %s: %v", e.Component, e.Msg, e.Err)
	}
	return fmt.Sprintf("weakc: internal error [%s]: %s", e.Component, e.Msg)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Bugf builds an InternalError for the named component. Use it at every
// assertion site the way original_source's weak_unreachable() is used.
func Bugf(component, format string, args ...any) *InternalError {
	return &InternalError{Component: component, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches component/msg context to an existing error, preserving it
// as the cause for %+v stack-trace formatting via github.com/pkg/errors.
func Wrap(component string, err error, msg string) *InternalError {
	return &InternalError{Component: component, Msg: msg, Err: errors.Wrap(err, msg)}
}

// SourceError is a line/column-addressed diagnostic produced by internal/
// sema (name resolution, type checking) or earlier. The core (internal/ir
// and beyond) never constructs one: spec.md §7 assigns source-level
// reporting entirely to upstream passes.
type SourceError struct {
	Line, Col int
	Msg       string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Sourcef builds a SourceError at the given position.
func Sourcef(line, col int, format string, args ...any) *SourceError {
	return &SourceError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}
