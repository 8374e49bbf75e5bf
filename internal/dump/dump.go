// Package dump renders an IR unit two ways, per spec.md §6: a plain
// textual form for debugging, and Graphviz dot text for the CFG, the
// dominator tree, and the dominance frontier. Dot output is hand-built
// with fmt.Fprintf, the same way aclements-go-misc/rtcheck/order.go's
// LockOrder.writeToDot builds its "digraph" text — there is no
// Graphviz-binding dependency anywhere in the example pack to reach for
// instead, and a lock-order graph and a CFG are the same kind of small,
// static, label-per-node/edge-per-successor structure.
package dump

import (
	"fmt"
	"strings"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

// Text renders every function in u as a flat, human-readable listing:
// one line per node, in list order, addressed by a display id (n0, n1,
// ...) that assignIDs gives each node independently of instr_idx.
func Text(u *ir.Unit) string {
	var b strings.Builder
	for fn := u.Head; fn != nil; fn = fn.UnitNext {
		writeFn(&b, fn)
	}
	return b.String()
}

func writeFn(b *strings.Builder, fn *ir.FnDecl) {
	fmt.Fprintf(b, "fn %s(", fn.Name)
	for i, a := range fn.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%%%d %s", a.Idx, a.DataType)
	}
	fmt.Fprintf(b, ") %s {\n", fn.RetType)

	ids := assignIDs(fn)
	for n := fn.BodyHead; n != nil; n = n.Next() {
		fmt.Fprintf(b, "  %s\n", nodeLine(n, ids))
	}
	b.WriteString("}\n")
}

// assignIDs gives every node in fn a stable display id, independent of
// instr_idx (which a φ shares with the node it precedes, per spec.md
// §3.4, and so cannot address a node uniquely on its own).
func assignIDs(fn *ir.FnDecl) map[ir.Node]int {
	ids := map[ir.Node]int{}
	i := 0
	for n := fn.BodyHead; n != nil; n = n.Next() {
		ids[n] = i
		i++
	}
	return ids
}

func ref(n ir.Node, ids map[ir.Node]int) string {
	if n == nil {
		return "<nil>"
	}
	if id, ok := ids[n]; ok {
		return fmt.Sprintf("n%d", id)
	}
	return "?"
}

func exprText(n ir.Node, ids map[ir.Node]int) string {
	switch x := n.(type) {
	case nil:
		return "<void>"
	case *ir.Imm:
		switch x.ImmKind {
		case types.Bool:
			return fmt.Sprintf("%t", x.BoolVal)
		case types.Char:
			return fmt.Sprintf("%q", x.CharVal)
		case types.Float:
			return fmt.Sprintf("%g", x.FloatVal)
		default:
			return fmt.Sprintf("%d", x.IntVal)
		}
	case *ir.String:
		return fmt.Sprintf("%q", x.Bytes)
	case *ir.Sym:
		prefix := ""
		if x.AddrOf {
			prefix = "&"
		}
		if x.Deref {
			prefix = "*"
		}
		if x.SSAIdx >= 0 {
			return fmt.Sprintf("%s%%%d.%d", prefix, x.Idx, x.SSAIdx)
		}
		return fmt.Sprintf("%s%%%d", prefix, x.Idx)
	case *ir.Bin:
		return fmt.Sprintf("(%s %s %s)", exprText(x.LHS, ids), x.Op, exprText(x.RHS, ids))
	case *ir.FnCall:
		var args []string
		for _, a := range x.Args {
			args = append(args, exprText(a, ids))
		}
		return fmt.Sprintf("%s(%s)", x.Name, strings.Join(args, ", "))
	case *ir.Member:
		return fmt.Sprintf("%%%d.field%d", x.Idx, x.FieldIdx)
	default:
		return fmt.Sprintf("<%s>", n.Kind())
	}
}

func nodeLine(n ir.Node, ids map[ir.Node]int) string {
	prefix := fmt.Sprintf("%s:", ref(n, ids))
	switch x := n.(type) {
	case *ir.Alloca:
		return fmt.Sprintf("%s alloca %%%d : %s", prefix, x.Idx, x.DataType)
	case *ir.AllocaArray:
		return fmt.Sprintf("%s alloca %%%d : %s", prefix, x.Idx, x.DataType)
	case *ir.Store:
		return fmt.Sprintf("%s store %s = %s", prefix, exprText(x.Dest, ids), exprText(x.Body, ids))
	case *ir.Jump:
		return fmt.Sprintf("%s jump %s", prefix, ref(x.Target, ids))
	case *ir.Cond:
		return fmt.Sprintf("%s cond %s -> %s", prefix, exprText(x.CondExpr, ids), ref(x.Target, ids))
	case *ir.Ret:
		if x.Body == nil {
			return fmt.Sprintf("%s ret", prefix)
		}
		return fmt.Sprintf("%s ret %s", prefix, exprText(x.Body, ids))
	case *ir.Phi:
		var ops []string
		for _, v := range x.Operands {
			ops = append(ops, fmt.Sprintf("%d", v))
		}
		return fmt.Sprintf("%s phi %%%d.%d = [%s]", prefix, x.SymIdx, x.SSAIdx, strings.Join(ops, ", "))
	case *ir.TypeDecl:
		return fmt.Sprintf("%s type %s (%d fields)", prefix, x.Name, len(x.Fields))
	default:
		return fmt.Sprintf("%s %s", prefix, n.Kind())
	}
}

// DotCFG renders fn's control-flow graph; requires internal/cfg.Build
// to have already populated Succs.
func DotCFG(fn *ir.FnDecl) string {
	ids := assignIDs(fn)
	var b strings.Builder
	fmt.Fprintf(&b, "digraph cfg_%s {\n", fn.Name)
	for n := fn.BodyHead; n != nil; n = n.Next() {
		fmt.Fprintf(&b, "  %s [label=%q];\n", ref(n, ids), nodeLine(n, ids))
	}
	for n := fn.BodyHead; n != nil; n = n.Next() {
		for _, s := range n.Succs() {
			fmt.Fprintf(&b, "  %s -> %s;\n", ref(n, ids), ref(s, ids))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// DotDomTree renders fn's dominator tree; requires internal/dom.Build
// to have already populated Idom/IdomBack.
func DotDomTree(fn *ir.FnDecl) string {
	ids := assignIDs(fn)
	var b strings.Builder
	fmt.Fprintf(&b, "digraph domtree_%s {\n", fn.Name)
	for n := fn.BodyHead; n != nil; n = n.Next() {
		fmt.Fprintf(&b, "  %s [label=%q];\n", ref(n, ids), nodeLine(n, ids))
	}
	for n := fn.BodyHead; n != nil; n = n.Next() {
		for _, child := range n.IdomBack() {
			fmt.Fprintf(&b, "  %s -> %s;\n", ref(n, ids), ref(child, ids))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// DotDominanceFrontier renders fn's dominance-frontier relation as a
// graph distinct from the dominator tree (a node's DF set is not its
// idom children); requires internal/dom.Build to have already run.
func DotDominanceFrontier(fn *ir.FnDecl) string {
	ids := assignIDs(fn)
	var b strings.Builder
	fmt.Fprintf(&b, "digraph df_%s {\n", fn.Name)
	for n := fn.BodyHead; n != nil; n = n.Next() {
		fmt.Fprintf(&b, "  %s [label=%q];\n", ref(n, ids), nodeLine(n, ids))
	}
	for n := fn.BodyHead; n != nil; n = n.Next() {
		for _, d := range n.DF() {
			fmt.Fprintf(&b, "  %s -> %s [style=dashed];\n", ref(n, ids), ref(d, ids))
		}
	}
	b.WriteString("}\n")
	return b.String()
}
