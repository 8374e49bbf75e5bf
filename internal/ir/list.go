package ir

// InsertAfter links n immediately after at in at's function body list,
// renumbering nothing (callers renumber instr_idx in a follow-up pass,
// per the reorder/SSA passes' own conventions).
func InsertAfter(at, n Node) {
	next := at.Next()
	n.SetPrev(at)
	n.SetNext(next)
	at.SetNext(n)
	if next != nil {
		next.SetPrev(n)
	}
}

// InsertBefore links n immediately before at. Used by SSA φ-insertion,
// which places a new node at the head of a block sharing its instr_idx
// (spec.md §4.5 phase 1).
func InsertBefore(at, n Node) {
	prev := at.Prev()
	n.SetNext(at)
	n.SetPrev(prev)
	at.SetPrev(n)
	if prev != nil {
		prev.SetNext(n)
	}
}

// Unlink removes n from its list in place, fixing prev/next so the list
// stays consistent; per spec.md §5 this is the sole primitive passes use
// to delete a node, keeping deletion atomic from the owning pass's point
// of view.
func Unlink(n Node) {
	prev, next := n.Prev(), n.Next()
	if prev != nil {
		prev.SetNext(next)
	}
	if next != nil {
		next.SetPrev(prev)
	}
	n.SetPrev(nil)
	n.SetNext(nil)
}

// Renumber walks head's list and assigns dense, zero-based instr_idx
// values, preserving the invariant spec.md §3.4 requires after any pass
// that inserts or deletes nodes (φ-nodes deliberately share the instr_idx
// of the node they precede, so they're numbered by their successor here
// rather than getting their own slot).
func Renumber(head Node) {
	idx := 0
	for n := head; n != nil; n = n.Next() {
		if _, isPhi := n.(*Phi); isPhi {
			if n.Next() != nil {
				n.SetInstrIdx(n.Next().InstrIdx())
			} else {
				n.SetInstrIdx(idx)
			}
			continue
		}
		n.SetInstrIdx(idx)
		idx++
	}
	// second pass to fix φ instr_idx values that depended on a later
	// node's not-yet-assigned index (φ's are rare and always precede a
	// real node, so a second short pass settles them).
	for n := head; n != nil; n = n.Next() {
		if _, isPhi := n.(*Phi); isPhi && n.Next() != nil {
			n.SetInstrIdx(n.Next().InstrIdx())
		}
	}
}

// Walk calls f for every node in head's list in order.
func Walk(head Node, f func(Node)) {
	for n := head; n != nil; n = n.Next() {
		f(n)
	}
}

// Nodes collects head's list into a slice, in order.
func Nodes(head Node) []Node {
	var out []Node
	Walk(head, func(n Node) { out = append(out, n) })
	return out
}
