package opt

import (
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

// SimplifyArith rewrites Bin expressions inside every Store/Ret body in
// fn per spec.md §4.7's algebraic rule table, applied top-down,
// bottom-up per expression tree, to a fixed point. Replaced nodes are
// simply dropped (Go's GC reclaims them); the IR's own free-list
// primitive (ir.Unlink) is for list-linked nodes, which Bin/Imm operand
// trees never are.
func SimplifyArith(fn *ir.FnDecl) {
	for n := fn.BodyHead; n != nil; n = n.Next() {
		switch x := n.(type) {
		case *ir.Store:
			x.Body = simplifyToFixedPoint(x.Body)
		case *ir.Ret:
			if x.Body != nil {
				x.Body = simplifyToFixedPoint(x.Body)
			}
		}
	}
}

func simplifyToFixedPoint(n ir.Node) ir.Node {
	for {
		next := simplifyOnce(n)
		if next == n {
			return next
		}
		n = next
	}
}

// simplifyOnce simplifies n's children first, then tries to rewrite n
// itself against spec.md §4.7's table.
func simplifyOnce(n ir.Node) ir.Node {
	bin, ok := n.(*ir.Bin)
	if !ok {
		return n
	}
	bin.LHS = simplifyToFixedPoint(bin.LHS)
	bin.RHS = simplifyToFixedPoint(bin.RHS)
	return applyRules(bin)
}

func applyRules(bin *ir.Bin) ir.Node {
	if r := ruleSelfSub(bin); r != nil {
		return r
	}
	if r := ruleIdentity(bin); r != nil {
		return r
	}
	if r := ruleAbsorb(bin); r != nil {
		return r
	}
	if r := rulePowerOfTwoMul(bin); r != nil {
		return r
	}
	if r := ruleDoubleNeg(bin); r != nil {
		return r
	}
	if r := ruleDoubleBitNot(bin); r != nil {
		return r
	}
	if r := ruleBitNotPlusOne(bin); r != nil {
		return r
	}
	if r := ruleSubNeg(bin); r != nil {
		return r
	}
	if r := ruleDistribute(bin); r != nil {
		return r
	}
	return bin
}

// ruleSelfSub: x - x (same symbol, same SSA version) -> Imm(0).
func ruleSelfSub(bin *ir.Bin) ir.Node {
	if bin.Op != ir.BSub {
		return nil
	}
	if sameSymbolValue(bin.LHS, bin.RHS) {
		return ir.NewImmInt(0)
	}
	return nil
}

// ruleIdentity: x+0, x-0, x|0 -> x.
func ruleIdentity(bin *ir.Bin) ir.Node {
	switch bin.Op {
	case ir.BAdd, ir.BSub, ir.BOr:
		if isIntZero(bin.RHS) {
			return bin.LHS
		}
		if bin.Op == ir.BAdd && isIntZero(bin.LHS) {
			return bin.RHS
		}
	}
	return nil
}

// ruleAbsorb: x*0, x&0 -> Imm(0).
func ruleAbsorb(bin *ir.Bin) ir.Node {
	switch bin.Op {
	case ir.BMul, ir.BAnd:
		if isIntZero(bin.RHS) || isIntZero(bin.LHS) {
			return ir.NewImmInt(0)
		}
	}
	return nil
}

// rulePowerOfTwoMul: x * 2^k -> x << k.
func rulePowerOfTwoMul(bin *ir.Bin) ir.Node {
	if bin.Op != ir.BMul {
		return nil
	}
	if k, ok := log2IntImm(bin.RHS); ok {
		return ir.NewBin(ir.BShl, bin.LHS, ir.NewImmInt(k))
	}
	if k, ok := log2IntImm(bin.LHS); ok {
		return ir.NewBin(ir.BShl, bin.RHS, ir.NewImmInt(k))
	}
	return nil
}

// ruleDoubleNeg: - -x -> x, where negation is modeled as Bin(BSub, Imm(0), v).
func ruleDoubleNeg(bin *ir.Bin) ir.Node {
	if bin.Op != ir.BSub || !isIntZero(bin.LHS) {
		return nil
	}
	inner, ok := bin.RHS.(*ir.Bin)
	if !ok || inner.Op != ir.BSub || !isIntZero(inner.LHS) {
		return nil
	}
	return inner.RHS
}

// ruleDoubleBitNot: ~ ~x -> x, where bitwise-not is modeled as Bin(BXor, v, Imm(-1)).
func ruleDoubleBitNot(bin *ir.Bin) ir.Node {
	if bin.Op != ir.BXor || !isIntImm(bin.RHS, -1) {
		return nil
	}
	inner, ok := bin.LHS.(*ir.Bin)
	if !ok || inner.Op != ir.BXor || !isIntImm(inner.RHS, -1) {
		return nil
	}
	return inner.LHS
}

// ruleBitNotPlusOne: ~x + 1 -> -x.
func ruleBitNotPlusOne(bin *ir.Bin) ir.Node {
	if bin.Op != ir.BAdd {
		return nil
	}
	notX, imm := bin.LHS, bin.RHS
	if !isIntImm(imm, 1) {
		notX, imm = bin.RHS, bin.LHS
		if !isIntImm(imm, 1) {
			return nil
		}
	}
	inner, ok := notX.(*ir.Bin)
	if !ok || inner.Op != ir.BXor || !isIntImm(inner.RHS, -1) {
		return nil
	}
	return ir.NewBin(ir.BSub, ir.NewImmInt(0), inner.LHS)
}

// ruleSubNeg: A - (-B) -> A + B, the named rule in the design decisions.
func ruleSubNeg(bin *ir.Bin) ir.Node {
	if bin.Op != ir.BSub {
		return nil
	}
	negB, ok := bin.RHS.(*ir.Bin)
	if !ok || negB.Op != ir.BSub || !isIntZero(negB.LHS) {
		return nil
	}
	return ir.NewBin(ir.BAdd, bin.LHS, negB.RHS)
}

// ruleDistribute: a*b + a*c -> a*(b+c), the named distributivity rule;
// only applied when it strictly shrinks the expression (3 binary ops
// down to 2), and only when the shared factor is trivially comparable
// (the same non-deref Sym index and SSA version), matching spec.md §4.7's "apply only when the result
// is strictly smaller" qualifier.
func ruleDistribute(bin *ir.Bin) ir.Node {
	if bin.Op != ir.BAdd {
		return nil
	}
	lm, lok := bin.LHS.(*ir.Bin)
	rm, rok := bin.RHS.(*ir.Bin)
	if !lok || !rok || lm.Op != ir.BMul || rm.Op != ir.BMul {
		return nil
	}
	if sameSymbolValue(lm.LHS, rm.LHS) {
		return ir.NewBin(ir.BMul, lm.LHS, ir.NewBin(ir.BAdd, lm.RHS, rm.RHS))
	}
	if sameSymbolValue(lm.RHS, rm.RHS) {
		return ir.NewBin(ir.BMul, lm.RHS, ir.NewBin(ir.BAdd, lm.LHS, rm.LHS))
	}
	return nil
}

func sameSymbolValue(a, b ir.Node) bool {
	as, aok := a.(*ir.Sym)
	bs, bok := b.(*ir.Sym)
	if !aok || !bok {
		return false
	}
	return as.Idx == bs.Idx && as.SSAIdx == bs.SSAIdx && !as.Deref && !bs.Deref
}

func isIntZero(n ir.Node) bool { return isIntImm(n, 0) }

func isIntImm(n ir.Node, v int32) bool {
	imm, ok := n.(*ir.Imm)
	return ok && isIntKind(imm) && imm.IntVal == v
}

func isIntKind(imm *ir.Imm) bool {
	return imm.ImmKind == types.Int
}

// log2IntImm reports whether n is an integer immediate equal to 2^k for
// some k >= 1, returning k.
func log2IntImm(n ir.Node) (int32, bool) {
	imm, ok := n.(*ir.Imm)
	if !ok || !isIntKind(imm) || imm.IntVal <= 1 {
		return 0, false
	}
	v := imm.IntVal
	k := int32(0)
	for v > 1 {
		if v%2 != 0 {
			return 0, false
		}
		v /= 2
		k++
	}
	return k, true
}
