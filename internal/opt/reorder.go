package opt

import "github.com/weak-lang/weakc/internal/ir"

// ReorderAllocas bubbles every Alloca/AllocaArray to the start of fn's
// body, preserving their relative order, so the interpreter and the
// back ends can compute one fixed stack-frame size up front instead of
// growing it as control flow reaches later declarations. A while/for
// loop's back-edge targets the condition temp's own Alloca (the builder
// re-enters the loop there so the condition gets re-evaluated); once
// that Alloca is relocated to the prologue, jumping to it would instead
// fall through the other relocated allocas into the function's first
// statement. retarget rewrites any such Jump/Cond before the move so
// the back-edge keeps resuming where it always meant to.
func ReorderAllocas(fn *ir.FnDecl) {
	nodes := ir.Nodes(fn.BodyHead)

	var allocas, rest []ir.Node
	for _, n := range nodes {
		if isAlloca(n) {
			allocas = append(allocas, n)
		} else {
			rest = append(rest, n)
		}
	}
	if len(allocas) == 0 {
		return
	}

	retarget(nodes)

	relink(append(append([]ir.Node{}, allocas...), rest...))
	fn.BodyHead = allocas[0]
	if len(rest) > 0 {
		fn.BodyTail = rest[len(rest)-1]
	} else {
		fn.BodyTail = allocas[len(allocas)-1]
	}
}

func isAlloca(n ir.Node) bool {
	switch n.(type) {
	case *ir.Alloca, *ir.AllocaArray:
		return true
	default:
		return false
	}
}

// retarget rewrites any Jump/Cond in nodes whose Target is an alloca
// about to be moved to the prologue, pointing it instead at that
// alloca's nearest non-alloca successor in the pre-move body order: the
// Alloca itself has no effect, so what a back-edge into it actually
// meant to resume at is whatever real instruction used to follow it.
func retarget(nodes []ir.Node) {
	cont := map[ir.Node]ir.Node{}
	for i, n := range nodes {
		if !isAlloca(n) {
			continue
		}
		j := i + 1
		for j < len(nodes) && isAlloca(nodes[j]) {
			j++
		}
		if j < len(nodes) {
			cont[n] = nodes[j]
		}
	}
	for _, n := range nodes {
		switch x := n.(type) {
		case *ir.Jump:
			if c, ok := cont[x.Target]; ok {
				x.Target = c
			}
		case *ir.Cond:
			if c, ok := cont[x.Target]; ok {
				x.Target = c
			}
		}
	}
}

// relink rewires prev/next across ordered so it forms a single list in
// that order, leaving the ends' outward pointers nil.
func relink(ordered []ir.Node) {
	for i, n := range ordered {
		if i == 0 {
			n.SetPrev(nil)
		} else {
			n.SetPrev(ordered[i-1])
		}
		if i == len(ordered)-1 {
			n.SetNext(nil)
		} else {
			n.SetNext(ordered[i+1])
		}
	}
}
