// Package cfg computes control-flow edges and block numbers over an
// internal/ir function body, the third middle-end component: spec.md §4.2.
package cfg

import "github.com/weak-lang/weakc/internal/ir"

// Build walks fn's body and sets every node's Succs/Preds and BlockNum.
// It may be re-run after any pass that inserts or deletes nodes; it
// always recomputes from scratch rather than patching edges incrementally,
// matching the "passes run to completion" model the rest of the middle
// end uses.
func Build(fn *ir.FnDecl) {
	nodes := ir.Nodes(fn.BodyHead)
	for _, n := range nodes {
		n.SetSuccs(succsOf(n))
		n.ClearPreds()
	}
	for _, n := range nodes {
		for _, s := range n.Succs() {
			s.AddPred(n)
		}
	}
	numberBlocks(nodes)
}

// succsOf returns n's CFG successors per spec.md §4.2's table.
func succsOf(n ir.Node) []ir.Node {
	switch x := n.(type) {
	case *ir.Cond:
		var out []ir.Node
		if x.Target != nil {
			out = append(out, x.Target)
		}
		if x.Next() != nil {
			out = append(out, x.Next())
		}
		return out
	case *ir.Jump:
		if x.Target != nil {
			return []ir.Node{x.Target}
		}
		return nil
	case *ir.Ret:
		return nil
	default:
		if n.Next() != nil {
			return []ir.Node{n.Next()}
		}
		return nil
	}
}

// numberBlocks assigns a new CFG-block number at every node that starts a
// block: the function's first node, a node immediately following a branch
// (Cond/Jump), or a node with two or more predecessors. Numbers are used
// only for reporting (dumps), never for control flow.
func numberBlocks(nodes []ir.Node) {
	num := -1
	for i, n := range nodes {
		starts := i == 0 || len(n.Preds()) >= 2 || followsBranch(n)
		if starts {
			num++
		}
		n.SetBlockNum(num)
	}
}

func followsBranch(n ir.Node) bool {
	p := n.Prev()
	if p == nil {
		return false
	}
	switch p.(type) {
	case *ir.Cond, *ir.Jump:
		return true
	default:
		return false
	}
}
