// Package x64 renders a weak IR unit as textual x86_64 assembly
// (System V cdecl/syscall ABI). It is the "secondary sketch" backend
// per spec.md §1 - explicitly not exercised by the CLI's default
// pipeline, kept around the way original_source/lib/back_end/x86_64.c
// keeps a minimal x86_64_gen next to the real RISC-V encoder: a
// function-at-a-time emitter, a bare prologue/epilogue pair
// (push rbp; mov rbp, rsp / mov rsp, rbp; pop rbp; ret), and main
// rendered as _start with a syscall exit instead of a ret, exactly as
// x86_64.c's emit_fn special-cases main.
//
// As with internal/backend/riscv, there is no encoder and no register
// allocator: every value keeps its interpreter stack slot, and
// expression evaluation spills through a small fixed rotation of
// scratch registers.
package x64

import (
	"fmt"
	"strings"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

var scratch = []string{"rax", "rbx", "rcx", "rdx", "rsi", "rdi"}

const exitSyscall = 60 // Linux x86_64 sys_exit

// Emit renders every function in u as x86_64 assembly text.
func Emit(u *ir.Unit) string {
	var b strings.Builder
	b.WriteString("section .text\n\tglobal\t_start\n")
	for fn := u.Head; fn != nil; fn = fn.UnitNext {
		b.WriteString("\n")
		emitFn(&b, fn)
	}
	return b.String()
}

func slotOffset(idx int) int {
	return -(idx + 1) * 8
}

func localAddr(idx int) string {
	return fmt.Sprintf("[rbp%+d]", slotOffset(idx))
}

func globalLabel(idx int) string {
	return fmt.Sprintf("global_%d", idx-ir.GlobalBase)
}

var curFn *ir.FnDecl

func emitFn(b *strings.Builder, fn *ir.FnDecl) {
	curFn = fn
	isMain := fn.Name == "main"
	if isMain {
		b.WriteString("_start:\n")
	} else {
		fmt.Fprintf(b, "%s:\n", fn.Name)
		b.WriteString("\tpush\trbp\n\tmov\trbp, rsp\n")
		fmt.Fprintf(b, "\tsub\trsp, %d\n", frameSize(fn))
	}

	argRegs := []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
	for i, a := range fn.Args {
		if i < len(argRegs) {
			fmt.Fprintf(b, "\tmov\t%s, %s\n", localAddr(a.Idx), argRegs[i])
		}
	}

	ids := assignIDs(fn)
	for n := fn.BodyHead; n != nil; n = n.Next() {
		if argIndexOf(fn, n) >= 0 {
			continue
		}
		emitNode(b, n, ids)
	}

	fmt.Fprintf(b, "%s_ret:\n", fn.Name)
	if isMain {
		fmt.Fprintf(b, "\tmov\trdi, rax\n\tmov\trax, %d\n\tsyscall\n", exitSyscall)
	} else {
		b.WriteString("\tmov\trsp, rbp\n\tpop\trbp\n\tret\n")
	}
}

func argIndexOf(fn *ir.FnDecl, n ir.Node) int {
	for i, a := range fn.Args {
		if ir.Node(a) == n {
			return i
		}
	}
	return -1
}

func frameSize(fn *ir.FnDecl) int {
	return (fn.NumLocals + 1) * 8
}

func assignIDs(fn *ir.FnDecl) map[ir.Node]int {
	ids := map[ir.Node]int{}
	i := 0
	for n := fn.BodyHead; n != nil; n = n.Next() {
		ids[n] = i
		i++
	}
	return ids
}

func refTarget(n ir.Node, ids map[ir.Node]int) string {
	return fmt.Sprintf(".L%d", ids[n])
}

func emitNode(b *strings.Builder, n ir.Node, ids map[ir.Node]int) {
	switch x := n.(type) {
	case *ir.Alloca, *ir.AllocaArray:
	case *ir.Store:
		reg := emitExpr(b, x.Body, 0)
		emitStoreDest(b, x.Dest, reg)
	case *ir.Jump:
		fmt.Fprintf(b, "\tjmp\t%s\n", refTarget(x.Target, ids))
	case *ir.Cond:
		reg := emitExpr(b, x.CondExpr, 0)
		fmt.Fprintf(b, "\ttest\t%s, %s\n\tjnz\t%s\n", reg, reg, refTarget(x.Target, ids))
	case *ir.Ret:
		if x.Body != nil {
			reg := emitExpr(b, x.Body, 0)
			fmt.Fprintf(b, "\tmov\trax, %s\n", reg)
		}
		fmt.Fprintf(b, "\tjmp\t%s_ret\n", curFn.Name)
	default:
		fmt.Fprintf(b, "\t; unhandled node %s\n", n.Kind())
	}
	if id, ok := ids[n]; ok {
		fmt.Fprintf(b, ".L%d:\n", id)
	}
}

func emitStoreDest(b *strings.Builder, dest ir.Node, valReg string) {
	s, ok := dest.(*ir.Sym)
	if !ok {
		fmt.Fprintf(b, "\t; unsupported store destination %s\n", dest.Kind())
		return
	}
	if s.Deref {
		addr := other(valReg)
		loadSlot(b, s.Idx, addr)
		fmt.Fprintf(b, "\tmov\t[%s], %s\n", addr, valReg)
		return
	}
	storeSlot(b, s.Idx, valReg)
}

func loadSlot(b *strings.Builder, idx int, reg string) {
	if idx >= ir.GlobalBase {
		fmt.Fprintf(b, "\tmov\t%s, %s\n", reg, globalLabel(idx))
		fmt.Fprintf(b, "\tmov\t%s, [%s]\n", reg, reg)
		return
	}
	fmt.Fprintf(b, "\tmov\t%s, %s\n", reg, localAddr(idx))
}

func storeSlot(b *strings.Builder, idx int, reg string) {
	if idx >= ir.GlobalBase {
		addr := other(reg)
		fmt.Fprintf(b, "\tmov\t%s, %s\n", addr, globalLabel(idx))
		fmt.Fprintf(b, "\tmov\t[%s], %s\n", addr, reg)
		return
	}
	fmt.Fprintf(b, "\tmov\t%s, %s\n", localAddr(idx), reg)
}

func other(reg string) string {
	if reg == scratch[0] {
		return scratch[1]
	}
	return scratch[0]
}

func emitExpr(b *strings.Builder, n ir.Node, depth int) string {
	reg := scratch[depth%len(scratch)]
	switch x := n.(type) {
	case *ir.Imm:
		fmt.Fprintf(b, "\tmov\t%s, %s\n", reg, immText(x))
	case *ir.String:
		fmt.Fprintf(b, "\t; string constant %q has no register representation\n", x.Bytes)
	case *ir.Sym:
		if x.AddrOf {
			if x.Idx >= ir.GlobalBase {
				fmt.Fprintf(b, "\tmov\t%s, %s\n", reg, globalLabel(x.Idx))
			} else {
				fmt.Fprintf(b, "\tlea\t%s, %s\n", reg, localAddr(x.Idx))
			}
			break
		}
		loadSlot(b, x.Idx, reg)
		if x.Deref {
			fmt.Fprintf(b, "\tmov\t%s, [%s]\n", reg, reg)
		}
	case *ir.Bin:
		l := emitExpr(b, x.LHS, depth)
		r := emitExpr(b, x.RHS, depth+1)
		emitBinOp(b, x.Op, reg, l, r)
	case *ir.FnCall:
		argRegs := []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
		for i, a := range x.Args {
			if i >= len(argRegs) {
				break
			}
			v := emitExpr(b, a, depth+1)
			fmt.Fprintf(b, "\tmov\t%s, %s\n", argRegs[i], v)
		}
		fmt.Fprintf(b, "\tcall\t%s\n", x.Name)
		fmt.Fprintf(b, "\tmov\t%s, rax\n", reg)
	default:
		fmt.Fprintf(b, "\t; unhandled expression %s\n", n.Kind())
	}
	return reg
}

func immText(x *ir.Imm) string {
	switch x.ImmKind {
	case types.Bool:
		if x.BoolVal {
			return "1"
		}
		return "0"
	case types.Char:
		return fmt.Sprintf("%d", x.CharVal)
	case types.Float:
		return fmt.Sprintf("%d", int64(x.FloatVal))
	default:
		return fmt.Sprintf("%d", x.IntVal)
	}
}

func emitBinOp(b *strings.Builder, op ir.BinOp, dst, l, r string) {
	switch op {
	case ir.BAdd:
		fmt.Fprintf(b, "\tmov\t%s, %s\n\tadd\t%s, %s\n", dst, l, dst, r)
	case ir.BSub:
		fmt.Fprintf(b, "\tmov\t%s, %s\n\tsub\t%s, %s\n", dst, l, dst, r)
	case ir.BMul:
		fmt.Fprintf(b, "\tmov\t%s, %s\n\timul\t%s, %s\n", dst, l, dst, r)
	case ir.BDiv:
		fmt.Fprintf(b, "\t; div %s, %s, %s (needs rax/rdx setup, sketch only)\n", dst, l, r)
	case ir.BMod:
		fmt.Fprintf(b, "\t; mod %s, %s, %s (needs rax/rdx setup, sketch only)\n", dst, l, r)
	case ir.BAnd:
		fmt.Fprintf(b, "\tmov\t%s, %s\n\tand\t%s, %s\n", dst, l, dst, r)
	case ir.BOr:
		fmt.Fprintf(b, "\tmov\t%s, %s\n\tor\t%s, %s\n", dst, l, dst, r)
	case ir.BXor:
		fmt.Fprintf(b, "\tmov\t%s, %s\n\txor\t%s, %s\n", dst, l, dst, r)
	case ir.BShl:
		fmt.Fprintf(b, "\tmov\t%s, %s\n\tshl\t%s, cl\n", dst, l, dst)
	case ir.BShr:
		fmt.Fprintf(b, "\tmov\t%s, %s\n\tsar\t%s, cl\n", dst, l, dst)
	case ir.BEq:
		fmt.Fprintf(b, "\tcmp\t%s, %s\n\tsete\tal\n\tmovzx\t%s, al\n", l, r, dst)
	case ir.BNeq:
		fmt.Fprintf(b, "\tcmp\t%s, %s\n\tsetne\tal\n\tmovzx\t%s, al\n", l, r, dst)
	case ir.BLt:
		fmt.Fprintf(b, "\tcmp\t%s, %s\n\tsetl\tal\n\tmovzx\t%s, al\n", l, r, dst)
	case ir.BGt:
		fmt.Fprintf(b, "\tcmp\t%s, %s\n\tsetg\tal\n\tmovzx\t%s, al\n", l, r, dst)
	case ir.BLeq:
		fmt.Fprintf(b, "\tcmp\t%s, %s\n\tsetle\tal\n\tmovzx\t%s, al\n", l, r, dst)
	case ir.BGeq:
		fmt.Fprintf(b, "\tcmp\t%s, %s\n\tsetge\tal\n\tmovzx\t%s, al\n", l, r, dst)
	default:
		fmt.Fprintf(b, "\t; unhandled binary op %s\n", op)
	}
}
