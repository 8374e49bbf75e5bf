package ir

import (
	"github.com/weak-lang/weakc/internal/ast"
	"github.com/weak-lang/weakc/internal/diag"
	"github.com/weak-lang/weakc/internal/sema"
	"github.com/weak-lang/weakc/internal/types"
)

// symInfo is the builder's per-name bookkeeping: an IR local index plus
// its declared type, recorded at Alloca time (spec.md §4.1's "symbol
// storage").
type symInfo struct {
	idx    int
	typ    types.Type
	global bool
}

// loopCtx tracks the jump targets a break/continue inside the currently
// lowering loop must resolve to. continueTarget is nil until the node a
// `continue` should jump to (the condition recheck, or a `for` loop's
// post-expression) is actually known; continuePatches collects the Jump
// nodes emitted before that point so they can be patched once it is.
type loopCtx struct {
	continueTarget  Node
	continuePatches []*Jump
	breakPatches    []*Jump
}

// Builder lowers a type-checked AST into the IR's linearized node lists,
// one FnDecl per function, per spec.md §4.1 (C2).
type Builder struct {
	chk  *sema.Checker
	unit *Unit

	fn        *FnDecl
	syms      map[string]symInfo
	idxSeq    int
	loopStack []loopCtx
	globalSeq int
	globals   map[string]symInfo

	// pending holds forward-jump resolvers: closures waiting to learn the
	// first IR node of whatever statement gets lowered next, at any
	// nesting depth. A branch whose fall-through target is "whatever
	// comes after this construct" defers here instead of guessing, since
	// that node may not exist yet (or may never exist, if the construct
	// is the function's last statement — then lowerFunc appends an
	// implicit void Ret for it to target).
	pending []func(Node)
}

// deferPatch registers f to run once the next real IR node in program
// order is known.
func (b *Builder) deferPatch(f func(Node)) { b.pending = append(b.pending, f) }

// flushPending resolves every deferred patch against target, which is
// the first node of the statement that was just lowered.
func (b *Builder) flushPending(target Node) {
	if len(b.pending) == 0 {
		return
	}
	pending := b.pending
	b.pending = nil
	for _, f := range pending {
		f(target)
	}
}

// firstAfter returns the node appended immediately after marker, or the
// function's first node if marker is nil (nothing had been appended
// yet); nil if nothing was appended after marker either.
func (b *Builder) firstAfter(marker Node) Node {
	if marker == nil {
		return b.fn.BodyHead
	}
	return marker.Next()
}

func (b *Builder) pushLoop() { b.loopStack = append(b.loopStack, loopCtx{}) }

func (b *Builder) popLoop() loopCtx {
	top := len(b.loopStack) - 1
	ctx := b.loopStack[top]
	b.loopStack = b.loopStack[:top]
	return ctx
}

// resolveContinue fixes every `continue` jump emitted so far in the
// innermost loop to target, and records target for any continues lowered
// from here on.
func (b *Builder) resolveContinue(target Node) {
	top := len(b.loopStack) - 1
	ctx := &b.loopStack[top]
	ctx.continueTarget = target
	for _, j := range ctx.continuePatches {
		j.Target = target
	}
	ctx.continuePatches = nil
}

// GlobalBase is the first local index reserved for file-scope variables;
// indices below it are per-function locals, reset to 0 at every function
// entry, and indices at or above it name one persistent global each.
// internal/interp keys its global store (not a call frame's stack_map)
// off this partition.
const GlobalBase = 1 << 20

// Build lowers unit into IR. chk is the sema pass's output: it supplies
// function signatures and struct layouts the builder needs but never
// re-derives (spec.md §1: the core does not re-check types). Errors are
// always *diag.InternalError — the builder "never fails on a well-typed
// AST" (spec.md §4.1); a non-nil error here means chk and unit disagree,
// which is a bug in the pipeline wiring, not in the input program.
func Build(unit *ast.Unit, chk *sema.Checker) (out *Unit, err error) {
	b := &Builder{chk: chk, unit: &Unit{}, globalSeq: GlobalBase}
	defer func() {
		if r := recover(); r != nil {
			err = diag.Bugf("ir", "builder panic: %v", r)
		}
	}()

	globals := map[string]symInfo{}
	var globalDecls []*ast.GlobalVarDecl
	for _, d := range unit.Decls {
		if gd, ok := d.(*ast.GlobalVarDecl); ok {
			info := symInfo{idx: b.globalSeq, typ: gd.Typ, global: true}
			b.globalSeq++
			globals[gd.Name] = info
			globalDecls = append(globalDecls, gd)
		}
	}
	b.globals = globals
	if len(globalDecls) > 0 {
		b.lowerGlobalInit(globalDecls)
	}

	for _, d := range unit.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		b.lowerFunc(fd)
	}
	return b.unit, nil
}

func (b *Builder) bugf(format string, args ...any) {
	panic(diag.Bugf("ir", format, args...))
}

func (b *Builder) lowerFunc(fd *ast.FuncDecl) {
	fn := NewFnDecl(fd.Name, fd.RetType)
	b.fn = fn
	b.syms = map[string]symInfo{}
	b.idxSeq = 0
	b.loopStack = nil
	b.pending = nil

	for _, p := range fd.Params {
		idx := b.idxSeq
		b.idxSeq++
		alloca := NewAlloca(p.Typ, idx)
		alloca.SetType(p.Typ)
		fn.Args = append(fn.Args, alloca)
		fn.AppendBody(alloca)
		b.syms[p.Name] = symInfo{idx: idx, typ: p.Typ}
	}
	fn.NumLocals = len(fd.Params)

	b.lowerStmt(fd.Body)
	// A branch still waiting for a target here leads past the last
	// statement; give it an implicit void return to land on.
	if len(b.pending) > 0 {
		fn.AppendBody(NewRet(nil))
		b.flushPending(fn.BodyTail)
	}

	Renumber(fn.BodyHead)
	b.unit.AddFn(fn)
}

// InitFnName is the synthetic function internal/interp invokes once,
// before "main", to evaluate every file-scope variable's initializer
// into global storage.
const InitFnName = "$init"

// lowerGlobalInit builds the synthetic $init function that stores each
// global's initializer expression into its slot, in declaration order.
// Globals live at indices >= GlobalBase, distinguishing them from any
// function's per-call-frame locals (which always start at 0).
func (b *Builder) lowerGlobalInit(decls []*ast.GlobalVarDecl) {
	fn := NewFnDecl(InitFnName, types.Scalar(types.Void))
	b.fn = fn
	b.syms = map[string]symInfo{}
	b.idxSeq = 0
	b.loopStack = nil
	b.pending = nil

	for _, gd := range decls {
		if gd.Typ.IsArray() {
			a := NewAllocaArray(gd.Typ, b.globals[gd.Name].idx)
			a.SetType(gd.Typ)
			fn.AppendBody(a)
			continue
		}
		a := NewAlloca(gd.Typ, b.globals[gd.Name].idx)
		a.SetType(gd.Typ)
		fn.AppendBody(a)
		if gd.Init != nil {
			val := b.lowerExpr(gd.Init)
			dest := NewSym(b.globals[gd.Name].idx)
			fn.AppendBody(NewStore(dest, val))
		}
	}
	fn.AppendBody(NewRet(nil))

	Renumber(fn.BodyHead)
	b.unit.AddFn(fn)
}

func (b *Builder) declareLocal(name string, t types.Type) *Alloca {
	idx := b.idxSeq
	b.idxSeq++
	var n Node
	if t.IsArray() {
		a := NewAllocaArray(t, idx)
		a.SetType(t)
		n = a
	} else {
		a := NewAlloca(t, idx)
		a.SetType(t)
		n = a
	}
	b.fn.AppendBody(n)
	b.syms[name] = symInfo{idx: idx, typ: t}
	b.fn.NumLocals++
	if a, ok := n.(*Alloca); ok {
		return a
	}
	return nil
}

func (b *Builder) lookup(name string) symInfo {
	if info, ok := b.syms[name]; ok {
		return info
	}
	if info, ok := b.globals[name]; ok {
		return info
	}
	b.bugf("use of undeclared identifier %q reached the IR builder", name)
	return symInfo{}
}

func (b *Builder) lowerStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		for _, inner := range st.Stmts {
			marker := b.fn.BodyTail
			// Patches from earlier siblings resolve to inner's first node;
			// inner's own patches wait for whatever is lowered after it.
			earlier := b.pending
			b.pending = nil
			b.lowerStmt(inner)
			own := b.pending
			b.pending = earlier
			if first := b.firstAfter(marker); first != nil {
				b.flushPending(first)
			}
			b.pending = append(b.pending, own...)
		}
	case *ast.VarDecl:
		if st.Typ.IsArray() {
			b.declareLocal(st.Name, st.Typ)
			return
		}
		b.declareLocal(st.Name, st.Typ)
		if st.Init != nil {
			val := b.lowerExpr(st.Init)
			info := b.syms[st.Name]
			dest := NewSym(info.idx)
			store := NewStore(dest, val)
			b.fn.AppendBody(store)
		}
	case *ast.ExprStmt:
		b.lowerExprStmt(st.X)
	case *ast.If:
		b.lowerIf(st)
	case *ast.While:
		b.lowerWhile(st)
	case *ast.DoWhile:
		b.lowerDoWhile(st)
	case *ast.For:
		b.lowerFor(st)
	case *ast.Return:
		var body Node
		if st.X != nil {
			body = b.lowerExpr(st.X)
		}
		b.fn.AppendBody(NewRet(body))
	case *ast.Break:
		if len(b.loopStack) == 0 {
			b.bugf("break outside a loop reached the IR builder")
		}
		j := NewJump(nil)
		b.fn.AppendBody(j)
		top := len(b.loopStack) - 1
		b.loopStack[top].breakPatches = append(b.loopStack[top].breakPatches, j)
	case *ast.Continue:
		if len(b.loopStack) == 0 {
			b.bugf("continue outside a loop reached the IR builder")
		}
		top := len(b.loopStack) - 1
		ctx := &b.loopStack[top]
		j := NewJump(ctx.continueTarget)
		b.fn.AppendBody(j)
		if ctx.continueTarget == nil {
			ctx.continuePatches = append(ctx.continuePatches, j)
		}
	default:
		b.bugf("unhandled statement kind %T in IR builder", s)
	}
}

// lowerExprStmt lowers an expression used as a whole statement; its
// result value is computed for side effects only and discarded.
func (b *Builder) lowerExprStmt(e ast.Expr) {
	b.lowerExpr(e)
}

func asBoolCond(v Node) *Bin {
	if bin, ok := v.(*Bin); ok && bin.Op.IsComparison() {
		return bin
	}
	return NewBin(BNeq, v, NewImmInt(0))
}

// lowerIf implements spec.md §4.1's if-lowering. cond is emitted with
// its true-branch target fixed once "then"'s first node is lowered; the
// false-branch (an explicit exit Jump immediately following Cond, which
// doubles as Cond's CFG fall-through successor) targets the else
// branch's first node when there is one. Without an else, the exit Jump
// and any other unresolved branch defer to whatever statement follows
// the whole if, via the pending-patch mechanism, since that node does
// not exist yet.
func (b *Builder) lowerIf(st *ast.If) {
	condVal := b.lowerExpr(st.Cond)
	cond := NewCond(asBoolCond(condVal), nil)
	b.fn.AppendBody(cond)
	exitJump := NewJump(nil)
	b.fn.AppendBody(exitJump)

	thenMarker := b.fn.BodyTail
	b.lowerStmt(st.Then)
	if first := b.firstAfter(thenMarker); first != nil {
		cond.Target = first
	} else {
		b.deferPatch(func(n Node) { cond.Target = n })
	}

	if st.Else != nil {
		skipElse := NewJump(nil)
		b.fn.AppendBody(skipElse)
		elseMarker := b.fn.BodyTail
		b.lowerStmt(st.Else)
		if first := b.firstAfter(elseMarker); first != nil {
			exitJump.Target = first
		} else {
			b.deferPatch(func(n Node) { exitJump.Target = n })
		}
		b.deferPatch(func(n Node) { skipElse.Target = n })
	} else {
		b.deferPatch(func(n Node) { exitJump.Target = n })
	}
}

func (b *Builder) lowerWhile(st *ast.While) {
	condMarker := b.fn.BodyTail
	condVal := b.lowerExpr(st.Cond)
	cond := NewCond(asBoolCond(condVal), nil)
	b.fn.AppendBody(cond)
	loopEntry := b.firstAfter(condMarker)
	if loopEntry == nil {
		loopEntry = cond
	}
	exitJump := NewJump(nil)
	b.fn.AppendBody(exitJump)

	b.pushLoop()
	b.resolveContinue(loopEntry)
	bodyMarker := b.fn.BodyTail
	b.lowerStmt(st.Body)
	if first := b.firstAfter(bodyMarker); first != nil {
		cond.Target = first
	} else {
		b.deferPatch(func(n Node) { cond.Target = n })
	}

	b.fn.AppendBody(NewJump(loopEntry)) // back-edge

	ctx := b.popLoop()
	b.deferPatch(func(n Node) { exitJump.Target = n })
	for _, j := range ctx.breakPatches {
		j := j
		b.deferPatch(func(n Node) { j.Target = n })
	}
}

func (b *Builder) lowerDoWhile(st *ast.DoWhile) {
	b.pushLoop()
	bodyMarker := b.fn.BodyTail
	b.lowerStmt(st.Body)
	bodyFirst := b.firstAfter(bodyMarker)

	condMarker := b.fn.BodyTail
	condVal := b.lowerExpr(st.Cond)
	cond := NewCond(asBoolCond(condVal), bodyFirst)
	b.fn.AppendBody(cond)
	if bodyFirst == nil {
		cond.Target = cond // degenerate empty-body loop
	}

	condEntry := b.firstAfter(condMarker)
	if condEntry == nil {
		condEntry = cond
	}
	b.resolveContinue(condEntry)

	ctx := b.popLoop()
	for _, j := range ctx.breakPatches {
		j := j
		b.deferPatch(func(n Node) { j.Target = n })
	}
	// Cond's own fall-through (its linked-list Next()) is the implicit
	// false-branch exit; no separate exit Jump is needed here.
}

func (b *Builder) lowerFor(st *ast.For) {
	if st.Init != nil {
		b.lowerStmt(st.Init)
	}

	condMarker := b.fn.BodyTail
	var condVal Node
	if st.Cond != nil {
		condVal = b.lowerExpr(st.Cond)
	} else {
		condVal = NewImmInt(1)
	}
	cond := NewCond(asBoolCond(condVal), nil)
	b.fn.AppendBody(cond)
	loopEntry := b.firstAfter(condMarker)
	if loopEntry == nil {
		loopEntry = cond
	}
	exitJump := NewJump(nil)
	b.fn.AppendBody(exitJump)

	b.pushLoop()
	bodyMarker := b.fn.BodyTail
	b.lowerStmt(st.Body)
	if first := b.firstAfter(bodyMarker); first != nil {
		cond.Target = first
	} else {
		b.deferPatch(func(n Node) { cond.Target = n })
	}

	postMarker := b.fn.BodyTail
	if st.Post != nil {
		b.lowerStmt(st.Post)
	}
	continueTarget := b.firstAfter(postMarker)
	if continueTarget == nil {
		continueTarget = loopEntry
	}
	b.resolveContinue(continueTarget)

	b.fn.AppendBody(NewJump(loopEntry)) // back-edge, runs after the post-expression

	ctx := b.popLoop()
	b.deferPatch(func(n Node) { exitJump.Target = n })
	for _, j := range ctx.breakPatches {
		j := j
		b.deferPatch(func(n Node) { j.Target = n })
	}
}

// lowerExpr lowers e and returns the Node representing its value,
// per spec.md §4.1's expression-lowering rules.
func (b *Builder) lowerExpr(e ast.Expr) Node {
	switch x := e.(type) {
	case *ast.IntLit:
		return NewImmInt(x.Value)
	case *ast.FloatLit:
		return NewImmFloat(x.Value)
	case *ast.CharLit:
		return NewImmChar(x.Value)
	case *ast.BoolLit:
		return NewImmBool(x.Value)
	case *ast.StringLit:
		return NewString(x.Value)
	case *ast.Ident:
		info := b.lookup(x.Name)
		s := NewSym(info.idx)
		s.SetType(info.typ)
		return s
	case *ast.Unary:
		return b.lowerUnary(x)
	case *ast.Binary:
		return b.lowerBinary(x)
	case *ast.Assign:
		return b.lowerAssign(x)
	case *ast.Call:
		return b.lowerCall(x)
	case *ast.Index:
		return b.lowerIndex(x)
	case *ast.Member:
		return b.lowerMember(x)
	default:
		b.bugf("unhandled expression kind %T in IR builder", e)
		return nil
	}
}

func toBinOp(op ast.BinOp) BinOp {
	table := [...]BinOp{
		ast.BAdd: BAdd, ast.BSub: BSub, ast.BMul: BMul, ast.BDiv: BDiv, ast.BMod: BMod,
		ast.BAnd: BAnd, ast.BOr: BOr, ast.BXor: BXor, ast.BShl: BShl, ast.BShr: BShr,
		ast.BEq: BEq, ast.BNeq: BNeq, ast.BLt: BLt, ast.BGt: BGt, ast.BLeq: BLeq, ast.BGeq: BGeq,
		ast.BLogAnd: BLogAnd, ast.BLogOr: BLogOr,
	}
	return table[op]
}

func (b *Builder) lowerBinary(x *ast.Binary) Node {
	lhs := b.lowerExpr(x.X)
	rhs := b.lowerExpr(x.Y)
	bin := NewBin(toBinOp(x.Op), lhs, rhs)
	bin.SetType(x.Type())
	t := b.declareTemp(x.Type())
	dest := NewSym(t.idx)
	b.fn.AppendBody(NewStore(dest, bin))
	res := NewSym(t.idx)
	res.SetType(x.Type())
	return res
}

// declareTemp allocates a fresh, unnamed local of type t for an
// intermediate result, per spec.md §4.1's "allocates a fresh local t".
func (b *Builder) declareTemp(t types.Type) symInfo {
	idx := b.idxSeq
	b.idxSeq++
	a := NewAlloca(t, idx)
	a.SetType(t)
	b.fn.AppendBody(a)
	b.fn.NumLocals++
	return symInfo{idx: idx, typ: t}
}

func (b *Builder) lowerUnary(x *ast.Unary) Node {
	switch x.Op {
	case ast.UPreInc, ast.UPostInc, ast.UPreDec, ast.UPostDec:
		ident, ok := x.X.(*ast.Ident)
		if !ok {
			b.bugf("increment/decrement of a non-identifier reached the IR builder")
		}
		info := b.lookup(ident.Name)
		op := BAdd
		if x.Op == ast.UPreDec || x.Op == ast.UPostDec {
			op = BSub
		}
		before := NewSym(info.idx)
		before.SetType(info.typ)
		bin := NewBin(op, before, NewImmInt(1))
		bin.SetType(info.typ)
		dest := NewSym(info.idx)
		b.fn.AppendBody(NewStore(dest, bin))
		result := NewSym(info.idx)
		result.SetType(info.typ)
		return result
	case ast.UAddrOf:
		ident, ok := x.X.(*ast.Ident)
		if !ok {
			b.bugf("address-of a non-identifier reached the IR builder")
		}
		info := b.lookup(ident.Name)
		s := NewSym(info.idx)
		s.AddrOf = true
		s.SetType(x.Type())
		return s
	case ast.UDeref:
		inner := b.lowerExpr(x.X)
		s, ok := inner.(*Sym)
		if !ok {
			b.bugf("dereference of a non-symbol reached the IR builder")
		}
		deref := NewSym(s.Idx)
		deref.Deref = true
		deref.SetType(x.Type())
		return deref
	case ast.UNeg:
		v := b.lowerExpr(x.X)
		bin := NewBin(BSub, NewImmInt(0), v)
		bin.SetType(x.Type())
		t := b.declareTemp(x.Type())
		b.fn.AppendBody(NewStore(NewSym(t.idx), bin))
		res := NewSym(t.idx)
		res.SetType(x.Type())
		return res
	case ast.UNot:
		v := b.lowerExpr(x.X)
		bin := NewBin(BEq, v, NewImmInt(0))
		bin.SetType(types.Scalar(types.Int))
		t := b.declareTemp(types.Scalar(types.Int))
		b.fn.AppendBody(NewStore(NewSym(t.idx), bin))
		res := NewSym(t.idx)
		res.SetType(types.Scalar(types.Int))
		return res
	case ast.UBitNot:
		v := b.lowerExpr(x.X)
		bin := NewBin(BXor, v, NewImmInt(-1))
		bin.SetType(x.Type())
		t := b.declareTemp(x.Type())
		b.fn.AppendBody(NewStore(NewSym(t.idx), bin))
		res := NewSym(t.idx)
		res.SetType(x.Type())
		return res
	default:
		b.bugf("unhandled unary operator %v in IR builder", x.Op)
		return nil
	}
}

func (b *Builder) lowerAssign(x *ast.Assign) Node {
	switch lhs := x.LHS.(type) {
	case *ast.Ident:
		info := b.lookup(lhs.Name)
		rhs := b.lowerExpr(x.RHS)
		dest := NewSym(info.idx)
		b.fn.AppendBody(NewStore(dest, rhs))
		res := NewSym(info.idx)
		res.SetType(info.typ)
		return res
	case *ast.Unary:
		if lhs.Op != ast.UDeref {
			b.bugf("assignment to non-lvalue unary expression reached the IR builder")
		}
		ptrIdent, ok := lhs.X.(*ast.Ident)
		if !ok {
			b.bugf("assignment through a computed pointer expression reached the IR builder")
		}
		info := b.lookup(ptrIdent.Name)
		rhs := b.lowerExpr(x.RHS)
		dest := NewSym(info.idx)
		dest.Deref = true
		b.fn.AppendBody(NewStore(dest, rhs))
		res := NewSym(info.idx)
		res.Deref = true
		res.SetType(x.Type())
		return res
	default:
		b.bugf("unsupported assignment target %T reached the IR builder", x.LHS)
		return nil
	}
}

func (b *Builder) lowerCall(x *ast.Call) Node {
	var args []Node
	for _, a := range x.Args {
		args = append(args, b.lowerExpr(a))
	}
	call := NewFnCall(x.Callee, args)
	call.SetType(x.Type())
	t := b.declareTemp(x.Type())
	b.fn.AppendBody(NewStore(NewSym(t.idx), call))
	res := NewSym(t.idx)
	res.SetType(x.Type())
	return res
}

// lowerIndex computes a synthetic pointer to the indexed element and
// dereferences it: &base + idx*elem_size, then *ptr. Arrays degrade to
// pointer arithmetic over the byte stack the same way C arrays do, which
// keeps Index usable without adding a dedicated addressing node beyond
// what spec.md §3.2 already lists.
func (b *Builder) lowerIndex(x *ast.Index) Node {
	baseIdent, ok := x.X.(*ast.Ident)
	if !ok {
		b.bugf("indexing a non-identifier base reached the IR builder")
	}
	baseInfo := b.lookup(baseIdent.Name)
	elemType := x.Type()

	base := NewSym(baseInfo.idx)
	base.AddrOf = true
	base.SetType(types.Pointer(elemType))

	idxVal := b.lowerExpr(x.Idx)
	sizeImm := NewImmInt(int32(elemType.Bytes))
	offsetBin := NewBin(BMul, idxVal, sizeImm)
	offsetBin.SetType(types.Scalar(types.Int))
	offsetTemp := b.declareTemp(types.Scalar(types.Int))
	b.fn.AppendBody(NewStore(NewSym(offsetTemp.idx), offsetBin))
	offsetSym := NewSym(offsetTemp.idx)

	addrBin := NewBin(BAdd, base, offsetSym)
	addrBin.SetType(types.Pointer(elemType))
	addrTemp := b.declareTemp(types.Pointer(elemType))
	b.fn.AppendBody(NewStore(NewSym(addrTemp.idx), addrBin))

	deref := NewSym(addrTemp.idx)
	deref.Deref = true
	deref.SetType(elemType)
	return deref
}

// lowerMember computes the struct field's address the same way lowerIndex
// computes an array element's, using the field's byte offset from sema's
// struct layout.
func (b *Builder) lowerMember(x *ast.Member) Node {
	baseIdent, ok := x.X.(*ast.Ident)
	if !ok {
		b.bugf("member access on a non-identifier base reached the IR builder")
	}
	baseInfo := b.lookup(baseIdent.Name)
	info, ok := b.chk.Structs[baseInfo.typ.FieldsOf]
	if !ok {
		b.bugf("member access on a non-struct type reached the IR builder")
	}
	offset, ok := info.Offset[x.Field]
	if !ok {
		b.bugf("unknown struct field %q reached the IR builder", x.Field)
	}

	base := NewSym(baseInfo.idx)
	base.AddrOf = true
	base.SetType(types.Pointer(x.Type()))

	addrBin := NewBin(BAdd, base, NewImmInt(int32(offset)))
	addrBin.SetType(types.Pointer(x.Type()))
	addrTemp := b.declareTemp(types.Pointer(x.Type()))
	b.fn.AppendBody(NewStore(NewSym(addrTemp.idx), addrBin))

	deref := NewSym(addrTemp.idx)
	deref.Deref = true
	deref.SetType(x.Type())
	return deref
}
