// Package ddg computes the data-dependence graph, the seventh middle-end
// component: spec.md §4.6. It is consulted only by internal/opt's
// heuristics, never for correctness.
package ddg

import "github.com/weak-lang/weakc/internal/ir"

// Build walks fn's body linearly, tracking the live Store for each symbol
// index, and records on every use node the set of Store nodes that reach
// it along the CFG in that one forward pass; a Store that reaches a use
// only around a loop back-edge is not recorded. At a merge point (a node with >= 2 preds) the
// live-store set for a symbol is the union of every predecessor's live
// set for that symbol — spec.md §4.6's parenthetical rule, made precise
// as the merge-point decision recorded in the design ledger.
func Build(fn *ir.FnDecl) {
	nodes := ir.Nodes(fn.BodyHead)
	live := map[ir.Node]map[int][]ir.Node{} // node -> sym -> live stores reaching node's entry

	for _, n := range nodes {
		n.ResetDDGStmts()
	}

	for _, n := range nodes {
		liveIn := mergeIncoming(n, live)

		recordUses(n, liveIn)

		liveOut := copyLive(liveIn)
		if st, ok := n.(*ir.Store); ok {
			liveOut[st.Dest.Idx] = []ir.Node{n}
		}
		for _, s := range n.Succs() {
			live[s] = mergeTwo(live[s], liveOut)
		}
	}
}

// mergeIncoming returns the live-store map flowing into n: if n has no
// recorded incoming set yet (e.g. it's the entry node), it's empty.
func mergeIncoming(n ir.Node, live map[ir.Node]map[int][]ir.Node) map[int][]ir.Node {
	if m, ok := live[n]; ok {
		return m
	}
	return map[int][]ir.Node{}
}

// mergeTwo unions b into a (by symbol, deduplicated), returning a new map
// so callers never share backing slices across nodes.
func mergeTwo(a, b map[int][]ir.Node) map[int][]ir.Node {
	out := copyLive(a)
	for sym, stores := range b {
		out[sym] = unionStores(out[sym], stores)
	}
	return out
}

func copyLive(m map[int][]ir.Node) map[int][]ir.Node {
	out := make(map[int][]ir.Node, len(m))
	for sym, stores := range m {
		cp := make([]ir.Node, len(stores))
		copy(cp, stores)
		out[sym] = cp
	}
	return out
}

func unionStores(a, b []ir.Node) []ir.Node {
	out := append([]ir.Node{}, a...)
	for _, s := range b {
		found := false
		for _, e := range out {
			if e == s {
				found = true
				break
			}
		}
		if !found {
			out = append(out, s)
		}
	}
	return out
}

// recordUses adds the live stores for every symbol n uses to that use's
// ddg_stmts: a Sym operand inside a Store body, Cond condition, Ret
// operand, or FnCall argument list.
func recordUses(n ir.Node, liveIn map[int][]ir.Node) {
	switch x := n.(type) {
	case *ir.Store:
		recordExpr(x.Body, liveIn)
	case *ir.Cond:
		recordExpr(x.CondExpr, liveIn)
	case *ir.Ret:
		if x.Body != nil {
			recordExpr(x.Body, liveIn)
		}
	case *ir.FnCall:
		for _, a := range x.Args {
			recordExpr(a, liveIn)
		}
	}
}

func recordExpr(e ir.Node, liveIn map[int][]ir.Node) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ir.Sym:
		for _, s := range liveIn[x.Idx] {
			x.AddDDGStmt(s)
		}
	case *ir.Bin:
		recordExpr(x.LHS, liveIn)
		recordExpr(x.RHS, liveIn)
	case *ir.FnCall:
		for _, a := range x.Args {
			recordExpr(a, liveIn)
		}
	}
}
