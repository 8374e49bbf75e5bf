package opt

import "github.com/weak-lang/weakc/internal/ir"

// RemoveUnreachable marks every node reachable from fn's entry via CFG
// successor edges and deletes everything else, relinking the list
// through ir.Unlink (spec.md §4.7). Requires internal/cfg to have
// already populated Succs on fn's current body.
func RemoveUnreachable(fn *ir.FnDecl) {
	if fn.BodyHead == nil {
		return
	}
	reachable := map[ir.Node]bool{}
	var walk func(n ir.Node)
	walk = func(n ir.Node) {
		if reachable[n] {
			return
		}
		reachable[n] = true
		for _, s := range n.Succs() {
			walk(s)
		}
	}
	walk(fn.BodyHead)

	var n ir.Node = fn.BodyHead
	for n != nil {
		next := n.Next()
		if !reachable[n] {
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
