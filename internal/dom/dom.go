// Package dom computes immediate dominators and dominance frontiers over
// an internal/ir function body already processed by internal/cfg: the
// fifth middle-end component, spec.md §4.4.
package dom

import "github.com/weak-lang/weakc/internal/ir"

// Build computes idom/idom_back/df for every node reachable from fn's
// entry, using Cooper, Harvey & Kennedy's iterative data-flow algorithm
// (chosen over Lengauer-Tarjan: spec.md §4.4 accepts either, provided the
// result matches the fixed point of Dom, and the iterative version needs
// no union-find/path-compression machinery to get right by hand).
func Build(fn *ir.FnDecl) {
	nodes := ir.Nodes(fn.BodyHead)
	if len(nodes) == 0 {
		return
	}
	entry := nodes[0]

	// Reverse postorder over the CFG gives the iteration order Cooper et
	// al.'s fixpoint converges fastest in; it also gives each node a
	// dense index usable as a map key substitute.
	order := reversePostorder(entry)
	rpoNum := make(map[ir.Node]int, len(order))
	for i, n := range order {
		rpoNum[n] = i
	}

	idom := make(map[ir.Node]ir.Node, len(order))
	idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range order {
			if b == entry {
				continue
			}
			var newIdom ir.Node
			for _, p := range b.Preds() {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p, idom, rpoNum)
			}
			if newIdom == nil {
				continue
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	for n := range idom {
		n.SetIdom(idom[n])
	}
	entry.SetIdom(entry)
	for _, n := range order {
		if n == entry {
			continue
		}
		if d := n.Idom(); d != nil {
			d.AddIdomBack(n)
		}
	}

	buildFrontiers(order)
}

// intersect walks the two candidate idoms up their idom chains until they
// meet, per Cooper et al.'s "intersect" routine, using reverse-postorder
// number as the chain's monotonic ordering key.
func intersect(a, b ir.Node, idom map[ir.Node]ir.Node, rpo map[ir.Node]int) ir.Node {
	for a != b {
		for rpo[a] > rpo[b] {
			a = idom[a]
		}
		for rpo[b] > rpo[a] {
			b = idom[b]
		}
	}
	return a
}

// reversePostorder returns every node reachable from entry via CFG
// successor edges, in reverse postorder.
func reversePostorder(entry ir.Node) []ir.Node {
	visited := map[ir.Node]bool{}
	var post []ir.Node
	var visit func(n ir.Node)
	visit = func(n ir.Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, s := range n.Succs() {
			visit(s)
		}
		post = append(post, n)
	}
	visit(entry)
	out := make([]ir.Node, len(post))
	for i, n := range post {
		out[len(post)-1-i] = n
	}
	return out
}

// buildFrontiers implements spec.md §4.4's Cooper-algorithm dominance
// frontier: for every join point b (>= 2 predecessors), walk each
// predecessor p up the idom chain, adding b to every runner's df until
// runner == b's idom.
func buildFrontiers(order []ir.Node) {
	for _, n := range order {
		n.ResetDF()
	}
	for _, b := range order {
		if len(b.Preds()) < 2 {
			continue
		}
		for _, p := range b.Preds() {
			runner := p
			for runner != nil && runner != b.Idom() {
				runner.AddDF(b)
				runner = runner.Idom()
			}
		}
	}
}

// Dominates reports whether d dominates n (d == n counts as dominating),
// walking the idom chain spec.md §4.4 calls "dominates(d, n)".
func Dominates(d, n ir.Node) bool {
	for cur := n; ; {
		if cur == d {
			return true
		}
		if cur.Idom() == cur {
			return cur == d
		}
		cur = cur.Idom()
	}
}

// DominatedBy is Dominates with its arguments reversed, matching spec.md
// §4.4's "dominated_by(n, d)" naming.
func DominatedBy(n, d ir.Node) bool { return Dominates(d, n) }
