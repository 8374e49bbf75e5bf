// Package ssa places φ-nodes and assigns SSA versions, the sixth
// middle-end component: spec.md §4.5. It assumes internal/cfg and
// internal/dom have already run on the function.
package ssa

import "github.com/weak-lang/weakc/internal/ir"

// Run places φ-nodes for every function-local symbol with more than one
// reaching definition and assigns every Store/Phi definition and every
// Sym/Ret/Cond/FnCall-argument use a version number (Sym.SSAIdx,
// Phi.SSAIdx). Global symbols (index >= ir.GlobalBase) are left alone:
// they are shared mutable state across calls, not a single function's
// local dataflow, so they fall outside SSA form here.
func Run(fn *ir.FnDecl) {
	phiAt := placePhis(fn)
	for sym := range storeSymbols(fn) {
		renameSymbol(fn.BodyHead, sym, phiAt)
	}
}

// storeSymbols collects every local symbol index assigned by at least
// one Store in fn's body.
func storeSymbols(fn *ir.FnDecl) map[int]bool {
	out := map[int]bool{}
	for n := fn.BodyHead; n != nil; n = n.Next() {
		if st, ok := n.(*ir.Store); ok && st.Dest.Idx < ir.GlobalBase {
			out[st.Dest.Idx] = true
		}
	}
	return out
}

// placePhis is phase 1 (spec.md §4.5): for each symbol's store set,
// compute the iterated dominance frontier and insert a φ-node, linked
// immediately before the frontier block's first node, at each block in
// it. Returns, per insertion point, the φ inserted there for each
// symbol.
func placePhis(fn *ir.FnDecl) map[ir.Node]map[int]*ir.Phi {
	stores := map[int][]ir.Node{}
	for n := fn.BodyHead; n != nil; n = n.Next() {
		if st, ok := n.(*ir.Store); ok && st.Dest.Idx < ir.GlobalBase {
			stores[st.Dest.Idx] = append(stores[st.Dest.Idx], n)
		}
	}

	phiAt := map[ir.Node]map[int]*ir.Phi{}
	for sym, defs := range stores {
		hasPhi := map[ir.Node]bool{}
		worklist := append([]ir.Node{}, defs...)
		for len(worklist) > 0 {
			n := worklist[0]
			worklist = worklist[1:]
			for _, join := range n.DF() {
				if hasPhi[join] {
					continue
				}
				hasPhi[join] = true
				phi := ir.NewPhi(sym, len(join.Preds()))
				ir.InsertBefore(join, phi)
				if phiAt[join] == nil {
					phiAt[join] = map[int]*ir.Phi{}
				}
				phiAt[join][sym] = phi
				// join is now itself a definition site for sym, so its
				// own frontier must be folded in too (the "iterated" in
				// iterated dominance frontier).
				worklist = append(worklist, join)
			}
		}
	}
	return phiAt
}

// renameSymbol is phase 2 (spec.md §4.5) for one symbol: a dominator-tree
// DFS from entry, maintaining a version stack. A φ at a node (if any for
// this symbol) is the node's own definition, visited before any use the
// node's own body makes of the symbol, which in turn is resolved before
// the node's own Store definition is pushed — so "x = x + 1" reads the
// prior version before the new one is recorded. This is the standard
// ordering Cytron's renaming pass uses; spec.md §4.5's bullet list states
// definitions and uses as separate steps without spelling out which
// comes first, so this is made concrete and documented here rather than
// left ambiguous.
func renameSymbol(entry ir.Node, sym int, phiAt map[ir.Node]map[int]*ir.Phi) {
	fresh := 0
	var stack []int

	top := func() int {
		if len(stack) == 0 {
			return -1
		}
		return stack[len(stack)-1]
	}

	var visit func(n ir.Node)
	visit = func(n ir.Node) {
		pushed := 0

		if phi, ok := phiFor(phiAt, n, sym); ok {
			v := fresh
			fresh++
			phi.SSAIdx = v
			stack = append(stack, v)
			pushed++
		}

		useSym(n, sym, top)

		if st, ok := n.(*ir.Store); ok && st.Dest.Idx == sym {
			v := fresh
			fresh++
			st.Dest.SSAIdx = v
			stack = append(stack, v)
			pushed++
		}

		for _, succ := range n.Succs() {
			if phi, ok := phiFor(phiAt, succ, sym); ok {
				if i := predIndex(succ, n); i >= 0 && len(stack) > 0 {
					phi.Operands[i] = top()
				}
			}
		}

		for _, child := range n.IdomBack() {
			visit(child)
		}

		stack = stack[:len(stack)-pushed]
	}
	visit(entry)
}

func phiFor(phiAt map[ir.Node]map[int]*ir.Phi, n ir.Node, sym int) (*ir.Phi, bool) {
	m, ok := phiAt[n]
	if !ok {
		return nil, false
	}
	phi, ok := m[sym]
	return phi, ok
}

// predIndex returns pred's position in succ.Preds(), matching how
// internal/cfg built that slice (program order of successor discovery),
// which is the same order a Phi's Operands slots were allocated in.
func predIndex(succ, pred ir.Node) int {
	for i, p := range succ.Preds() {
		if p == pred {
			return i
		}
	}
	return -1
}

// useSym resolves every use of sym directly inside n's own defining
// expression tree (a Store's body, a Cond's condition, a Ret's operand,
// or a FnCall's argument list) to the version currently on top of the
// stack.
func useSym(n ir.Node, sym int, top func() int) {
	switch x := n.(type) {
	case *ir.Store:
		useSymExpr(x.Body, sym, top)
	case *ir.Cond:
		useSymExpr(x.CondExpr, sym, top)
	case *ir.Ret:
		if x.Body != nil {
			useSymExpr(x.Body, sym, top)
		}
	case *ir.FnCall:
		for _, a := range x.Args {
			useSymExpr(a, sym, top)
		}
	}
}

func useSymExpr(e ir.Node, sym int, top func() int) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ir.Sym:
		if x.Idx == sym {
			x.SSAIdx = top()
		}
	case *ir.Bin:
		useSymExpr(x.LHS, sym, top)
		useSymExpr(x.RHS, sym, top)
	case *ir.FnCall:
		for _, a := range x.Args {
			useSymExpr(a, sym, top)
		}
	}
}
