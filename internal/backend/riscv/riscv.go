// Package riscv renders a weak IR unit as textual RV64 assembly. It is
// the "primary" backend sketch per spec.md §1, grounded on
// original_source/lib/back_end/risc_v.c / risc_v.h for instruction
// mnemonics and the x0..x31 RISC-V ABI register names (risc_v_reg_zero,
// risc_v_reg_ra, risc_v_reg_sp, risc_v_reg_a0, risc_v_reg_t0, ...), and
// on original_source/lib/back_end/x86_64.c's emit()/emit_fn() shape for
// the overall "walk functions, print a label, print a body, print an
// epilogue" structure.
//
// This is explicitly a sketch: there is no instruction encoder, no ELF
// writer, and no register allocator (ir/regalloc.c's allocator is a
// Non-goal). Every value keeps the stack slot the interpreter would
// have given it; expression evaluation spills through a small fixed
// rotation of temporary registers (t0-t6) rather than allocating real
// ones.
package riscv

import (
	"fmt"
	"strings"

	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

var scratch = []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6"}

// Emit renders every function in u as RV64 assembly text.
func Emit(u *ir.Unit) string {
	var b strings.Builder
	b.WriteString(".text\n")
	for fn := u.Head; fn != nil; fn = fn.UnitNext {
		emitFn(&b, fn)
	}
	return b.String()
}

func slotOffset(idx int) int {
	if idx >= ir.GlobalBase {
		return -1
	}
	return -(idx + 1) * 8
}

func localAddr(idx int) string {
	return fmt.Sprintf("%d(s0)", slotOffset(idx))
}

func globalLabel(idx int) string {
	return fmt.Sprintf("global_%d", idx-ir.GlobalBase)
}

func emitFn(b *strings.Builder, fn *ir.FnDecl) {
	curFnName = fn.Name
	fmt.Fprintf(b, "\n.globl %s\n%s:\n", fn.Name, fn.Name)
	// Prologue: save frame pointer, reserve locals, same shape
	// x86_64.c's emit_fn uses for cdecl functions (push rbp; mov
	// rbp, rsp), translated to the RISC-V ra/s0 convention.
	fmt.Fprintf(b, "\taddi\tsp, sp, -%d\n", frameSize(fn))
	b.WriteString("\tsd\tra, 8(sp)\n")
	b.WriteString("\tsd\ts0, 0(sp)\n")
	fmt.Fprintf(b, "\taddi\ts0, sp, %d\n", frameSize(fn))

	ids := assignIDs(fn)
	for i, a := range fn.Args {
		fmt.Fprintf(b, "\tsd\ta%d, %s\n", i, localAddr(a.Idx))
	}
	for n := fn.BodyHead; n != nil; n = n.Next() {
		if i := argIndexOf(fn, n); i >= 0 {
			continue
		}
		emitNode(b, n, ids)
	}
	fmt.Fprintf(b, "%s_ret:\n", fn.Name)
	b.WriteString("\tld\tra, 8(sp)\n")
	b.WriteString("\tld\ts0, 0(sp)\n")
	fmt.Fprintf(b, "\taddi\tsp, sp, %d\n", frameSize(fn))
	b.WriteString("\tret\n")
}

func argIndexOf(fn *ir.FnDecl, n ir.Node) int {
	for i, a := range fn.Args {
		if ir.Node(a) == n {
			return i
		}
	}
	return -1
}

// frameSize is a sketch-level over-estimate: an 8-byte slot per local
// plus two spare slots, and 16 bytes for the saved ra/s0 pair. A real backend would size this from sema's layout
// information; this one just needs enough room to address every slot
// distinctly.
func frameSize(fn *ir.FnDecl) int {
	return (fn.NumLocals+2)*8 + 16
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

func label(fn *ir.FnDecl, n ir.Node, ids map[ir.Node]int) string {
	return fmt.Sprintf("%s_L%d", fn.Name, ids[n])
}

func emitNode(b *strings.Builder, n ir.Node, ids map[ir.Node]int) {
	switch x := n.(type) {
	case *ir.Alloca:
		// Space is already reserved by frameSize; nothing to emit.
	case *ir.AllocaArray:
	case *ir.Store:
		reg := emitExpr(b, x.Body, 0)
		emitStoreDest(b, x.Dest, reg)
	case *ir.Jump:
		fmt.Fprintf(b, "\tj\t%s\n", refTarget(x.Target, ids))
	case *ir.Cond:
		reg := emitExpr(b, x.CondExpr, 0)
		fmt.Fprintf(b, "\tbnez\t%s, %s\n", reg, refTarget(x.Target, ids))
	case *ir.Ret:
		if x.Body != nil {
			reg := emitExpr(b, x.Body, 0)
			fmt.Fprintf(b, "\tmv\ta0, %s\n", reg)
		}
		fmt.Fprintf(b, "\tj\t%s_ret\n", curFnName)
	default:
		fmt.Fprintf(b, "\t# unhandled node %s\n", n.Kind())
	}
	if id, ok := ids[n]; ok {
		fmt.Fprintf(b, "%s:\n", fmt.Sprintf("L%d", id))
	}
}

// curFnName is threaded through a package-level var rather than a
// parameter since emitNode's switch already has a wide signature and
// only Ret needs it; kept simple for a sketch backend.
var curFnName string

func refTarget(n ir.Node, ids map[ir.Node]int) string {
	return fmt.Sprintf("L%d", ids[n])
}

func emitStoreDest(b *strings.Builder, dest ir.Node, valReg string) {
	s, ok := dest.(*ir.Sym)
	if !ok {
		fmt.Fprintf(b, "\t# unsupported store destination %s\n", dest.Kind())
		return
	}
	if s.Deref {
		base := scratch[0]
		loadSlot(b, s.Idx, base)
		fmt.Fprintf(b, "\tsd\t%s, 0(%s)\n", valReg, base)
		return
	}
	storeSlot(b, s.Idx, valReg)
}

func loadSlot(b *strings.Builder, idx int, reg string) {
	if idx >= ir.GlobalBase {
		fmt.Fprintf(b, "\tla\t%s, %s\n", reg, globalLabel(idx))
		fmt.Fprintf(b, "\tld\t%s, 0(%s)\n", reg, reg)
		return
	}
	fmt.Fprintf(b, "\tld\t%s, %s\n", reg, localAddr(idx))
}

func storeSlot(b *strings.Builder, idx int, reg string) {
	if idx >= ir.GlobalBase {
		scratchAddr := pickOther(reg)
		fmt.Fprintf(b, "\tla\t%s, %s\n", scratchAddr, globalLabel(idx))
		fmt.Fprintf(b, "\tsd\t%s, 0(%s)\n", reg, scratchAddr)
		return
	}
	fmt.Fprintf(b, "\tsd\t%s, %s\n", reg, localAddr(idx))
}

func pickOther(reg string) string {
	if reg == scratch[0] {
		return scratch[1]
	}
	return scratch[0]
}

// emitExpr evaluates n and returns the scratch register holding the
// result. depth picks the register out of the fixed rotation, so
// nested binary expressions don't clobber their own operands as long
// as nesting stays under len(scratch) deep - adequate for a sketch
// backend with no spill code.
func emitExpr(b *strings.Builder, n ir.Node, depth int) string {
	reg := scratch[depth%len(scratch)]
	switch x := n.(type) {
	case *ir.Imm:
		fmt.Fprintf(b, "\tli\t%s, %s\n", reg, immText(x))
	case *ir.String:
		fmt.Fprintf(b, "\t# string constant %q has no register representation\n", x.Bytes)
	case *ir.Sym:
		if x.AddrOf {
			if x.Idx >= ir.GlobalBase {
				fmt.Fprintf(b, "\tla\t%s, %s\n", reg, globalLabel(x.Idx))
			} else {
				fmt.Fprintf(b, "\taddi\t%s, s0, %d\n", reg, slotOffset(x.Idx))
			}
			break
		}
		loadSlot(b, x.Idx, reg)
		if x.Deref {
			fmt.Fprintf(b, "\tld\t%s, 0(%s)\n", reg, reg)
		}
	case *ir.Bin:
		l := emitExpr(b, x.LHS, depth)
		r := emitExpr(b, x.RHS, depth+1)
		emitBinOp(b, x.Op, reg, l, r)
	case *ir.FnCall:
		for i, a := range x.Args {
			if i >= 8 {
				break
			}
			v := emitExpr(b, a, depth+1)
			fmt.Fprintf(b, "\tmv\ta%d, %s\n", i, v)
		}
		fmt.Fprintf(b, "\tcall\t%s\n", x.Name)
		fmt.Fprintf(b, "\tmv\t%s, a0\n", reg)
	default:
		fmt.Fprintf(b, "\t# unhandled expression %s\n", n.Kind())
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
		fmt.Fprintf(b, "\tadd\t%s, %s, %s\n", dst, l, r)
	case ir.BSub:
		fmt.Fprintf(b, "\tsub\t%s, %s, %s\n", dst, l, r)
	case ir.BMul:
		fmt.Fprintf(b, "\tmul\t%s, %s, %s\n", dst, l, r)
	case ir.BDiv:
		fmt.Fprintf(b, "\tdiv\t%s, %s, %s\n", dst, l, r)
	case ir.BMod:
		fmt.Fprintf(b, "\trem\t%s, %s, %s\n", dst, l, r)
	case ir.BAnd:
		fmt.Fprintf(b, "\tand\t%s, %s, %s\n", dst, l, r)
	case ir.BOr:
		fmt.Fprintf(b, "\tor\t%s, %s, %s\n", dst, l, r)
	case ir.BXor:
		fmt.Fprintf(b, "\txor\t%s, %s, %s\n", dst, l, r)
	case ir.BShl:
		fmt.Fprintf(b, "\tsll\t%s, %s, %s\n", dst, l, r)
	case ir.BShr:
		fmt.Fprintf(b, "\tsra\t%s, %s, %s\n", dst, l, r)
	case ir.BEq:
		fmt.Fprintf(b, "\tsub\t%s, %s, %s\n\tseqz\t%s, %s\n", dst, l, r, dst, dst)
	case ir.BNeq:
		fmt.Fprintf(b, "\tsub\t%s, %s, %s\n\tsnez\t%s, %s\n", dst, l, r, dst, dst)
	case ir.BLt:
		fmt.Fprintf(b, "\tslt\t%s, %s, %s\n", dst, l, r)
	case ir.BGt:
		fmt.Fprintf(b, "\tslt\t%s, %s, %s\n", dst, r, l)
	case ir.BLeq:
		fmt.Fprintf(b, "\tslt\t%s, %s, %s\n\txori\t%s, %s, 1\n", dst, r, l, dst, dst)
	case ir.BGeq:
		fmt.Fprintf(b, "\tslt\t%s, %s, %s\n\txori\t%s, %s, 1\n", dst, l, r, dst, dst)
	default:
		fmt.Fprintf(b, "\t# unhandled binary op %s\n", op)
	}
}
