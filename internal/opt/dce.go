package opt

import (
	"github.com/weak-lang/weakc/internal/dom"
	"github.com/weak-lang/weakc/internal/ir"
)

// DCE is the data-flow dead-code-elimination pass (spec.md §4.7).
// Starting from every Ret, every FnCall, every Cond (a branch is never
// deleted, so the values its condition reads stay live) and every Store
// to a global, it walks backward over the data-dependence graph
// (internal/ddg must already have populated Sym.DDGStmts) marking every
// Store that can still be observed; it then extends the mark over every
// node in a loop body if any node in that loop is marked, since a loop's
// side effects on later iterations can't be judged by a single linear
// DDG walk. Unmarked nodes are deleted, except the kinds isControlNode
// protects: Cond, Jump, Ret and FnCall, since removing a branch or a
// call changes control flow rather than just dropping a dead value, plus
// allocas and Stores of a call's result. Requires internal/cfg and
// internal/dom to already be current for fn.
func DCE(fn *ir.FnDecl) {
	nodes := ir.Nodes(fn.BodyHead)
	mark := map[ir.Node]bool{}
	var worklist []ir.Node

	for _, n := range nodes {
		switch x := n.(type) {
		case *ir.Ret, *ir.FnCall, *ir.Cond:
			mark[n] = true
			worklist = append(worklist, n)
		case *ir.Store:
			// A store to a global outlives fn: some other function's DDG,
			// not this one, may hold the only read of it (e.g. $init's
			// initializers are read from main). Root it unconditionally
			// rather than relying on a reader this function can't see.
			if x.Dest.Idx >= ir.GlobalBase {
				mark[n] = true
				worklist = append(worklist, n)
			}
		}
	}

	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, store := range collectUseStores(n) {
			if !mark[store] {
				mark[store] = true
				worklist = append(worklist, store)
			}
		}
	}

	extendOverLoops(nodes, mark)
	deleteUnmarked(fn, mark)
}

// collectUseStores gathers, from n's own expression tree (a Store body,
// a Cond condition, a Ret operand, or a FnCall argument list), every Sym
// use's recorded reaching-store set.
func collectUseStores(n ir.Node) []ir.Node {
	var out []ir.Node
	var walk func(e ir.Node)
	walk = func(e ir.Node) {
		if e == nil {
			return
		}
		switch x := e.(type) {
		case *ir.Sym:
			out = append(out, x.DDGStmts()...)
		case *ir.Bin:
			walk(x.LHS)
			walk(x.RHS)
		case *ir.FnCall:
			for _, a := range x.Args {
				walk(a)
			}
		}
	}
	switch x := n.(type) {
	case *ir.Store:
		walk(x.Body)
	case *ir.Cond:
		walk(x.CondExpr)
	case *ir.Ret:
		if x.Body != nil {
			walk(x.Body)
		}
	case *ir.FnCall:
		for _, a := range x.Args {
			walk(a)
		}
	}
	return out
}

// extendOverLoops finds every back-edge (a CFG successor edge n -> h
// where h dominates n) and, for each one, pulls the whole natural loop
// body into the mark set if any node in it is already marked.
func extendOverLoops(nodes []ir.Node, mark map[ir.Node]bool) {
	for _, n := range nodes {
		for _, h := range n.Succs() {
			if h == n || !dom.Dominates(h, n) {
				continue
			}
			body := naturalLoopBody(n, h)
			anyMarked := false
			for m := range body {
				if mark[m] {
					anyMarked = true
					break
				}
			}
			if anyMarked {
				for m := range body {
					mark[m] = true
				}
			}
		}
	}
}

// naturalLoopBody walks predecessor edges backward from the latch n up
// to and including the header h, collecting every node in between: the
// standard "natural loop" reconstruction from a single back-edge.
func naturalLoopBody(n, h ir.Node) map[ir.Node]bool {
	body := map[ir.Node]bool{h: true, n: true}
	stack := []ir.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range cur.Preds() {
			if !body[p] {
				body[p] = true
				stack = append(stack, p)
			}
		}
	}
	return body
}

// isControlNode reports whether n must survive DCE regardless of
// marking. Cond/Jump/Ret/FnCall are protected as control flow; a Store
// whose body is a FnCall is protected the same way even though its own
// kind is Store, since the call's side effect would otherwise silently
// disappear whenever nothing reads the destination it assigns to.
// Alloca/AllocaArray are protected too: the interpreter treats them as
// executable instructions that establish a local's storage, so dropping
// one leaves every later Store/Sym against that index unresolvable even
// though nothing in the DDG ever names an alloca as a reaching store.
func isControlNode(n ir.Node) bool {
	switch x := n.(type) {
	case *ir.Cond, *ir.Jump, *ir.Ret, *ir.FnCall, *ir.Alloca, *ir.AllocaArray:
		return true
	case *ir.Store:
		_, isCall := x.Body.(*ir.FnCall)
		return isCall
	default:
		return false
	}
}

func deleteUnmarked(fn *ir.FnDecl, mark map[ir.Node]bool) {
	n := fn.BodyHead
	for n != nil {
		next := n.Next()
		if !mark[n] && !isControlNode(n) {
			if fn.BodyHead == n {
				fn.BodyHead = next
			}
			if fn.BodyTail == n {
				fn.BodyTail = n.Prev()
			}
			ir.Unlink(n)
		}
		n = next
	}
}
