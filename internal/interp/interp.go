// Package interp implements the tree-walking interpreter (spec.md §4.8):
// it runs directly over the linked IR built by internal/ir, internal/cfg
// and internal/typeprop, using each node's own Next()/Target links as its
// instruction pointer rather than re-deriving a CFG at run time.
//
// internal/ssa's φ-bearing form is not executed here. spec.md §4.8 gives
// per-instruction semantics for every node kind it names, and Phi is not
// among them — resolving a φ at run time would require knowing which
// predecessor edge control arrived on, which nothing in this model
// tracks. internal/ssa and internal/ddg exist to let internal/opt apply
// its rewrite rules safely; a driver interprets the builder's pre-SSA,
// optimized-with-arith/reorder/unreachable/DCE-only form. See DESIGN.md.
package interp

import (
	"encoding/binary"
	"math"

	"github.com/weak-lang/weakc/internal/diag"
	"github.com/weak-lang/weakc/internal/ir"
	"github.com/weak-lang/weakc/internal/types"
)

// DefaultStackSize is the reference byte-addressed stack size (spec.md §3.5).
const DefaultStackSize = 32768

// Value is the tagged run-time value spec.md §4.8 calls Bool|Char|Int|
// Float|String|Struct. A pointer is represented as an Int offset tagged
// with which of the interpreter's two byte arenas it indexes, since
// nothing in this model has a real machine address to hold.
type Value struct {
	Kind      types.Kind
	Bool      bool
	Char      byte
	Int       int32
	Float     float32
	Str       string
	Struct    []byte
	PtrGlobal bool
}

// Interp holds the stack machine state of spec.md §3.5: a fixed
// byte-addressed stack, a sym_idx -> sp_offset map for the active frame,
// and the "last value" register every expression leaves its result in.
// Globals (Sym.Idx >= ir.GlobalBase) live in a second, permanent arena
// that call frames never save or restore, since they outlive every call.
type Interp struct {
	unit *ir.Unit

	stack    []byte
	sp       int
	stackMap map[int]int

	globalStack []byte
	globalSP    int
	globalMap   map[int]int

	last Value
}

// New builds an interpreter for unit with the reference stack size.
func New(unit *ir.Unit) *Interp {
	return &Interp{
		unit:        unit,
		stack:       make([]byte, DefaultStackSize),
		stackMap:    map[int]int{},
		globalStack: make([]byte, DefaultStackSize),
		globalMap:   map[int]int{},
	}
}

// Run evaluates unit's ir.InitFnName function once, then calls "main"
// with mainArgs bound positionally to its int parameters (spec.md
// §4.8/§6) and returns the Int left in main's last-value register.
// Callers that never pass args (every case but cmd/weakc's "run
// --args") get the zero-argument main call spec.md always describes.
func Run(unit *ir.Unit, mainArgs ...int32) (int32, error) {
	return New(unit).Eval(mainArgs...)
}

// Eval is the entry point: look up "main" and invoke
// call_eval(fn_call{name:"main"}), same as spec.md §4.8 describes.
func (it *Interp) Eval(mainArgs ...int32) (result int32, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*diag.InternalError); ok {
				err = ie
				return
			}
			err = diag.Bugf("interp", "panic: %v", r)
		}
	}()

	if initFn := it.unit.Lookup(ir.InitFnName); initFn != nil {
		it.callFunction(initFn, nil)
	}

	mainFn := it.unit.Lookup("main")
	if mainFn == nil {
		it.bugf("no function named \"main\" in the unit")
	}
	args := make([]Value, len(mainArgs))
	for i, a := range mainArgs {
		args[i] = Value{Kind: types.Int, Int: a}
	}
	it.callFunction(mainFn, args)

	if it.last.Kind != types.Int {
		it.bugf("main returned a %s value, expected int", it.last.Kind)
	}
	return it.last.Int, nil
}

func (it *Interp) bugf(format string, args ...any) {
	panic(diag.Bugf("interp", format, args...))
}

// callFunction implements the FnCall prologue/body/epilogue of spec.md
// §4.8: save sp and stack_map, push the evaluated argument bytes into
// the callee's frame under its parameter indices, run the callee's body,
// then restore sp and stack_map. The caller's own instr_ptr survives
// implicitly on the Go call stack while this call is in progress.
func (it *Interp) callFunction(fn *ir.FnDecl, args []Value) Value {
	savedSP := it.sp
	savedMap := it.stackMap
	it.stackMap = map[int]int{}

	for i, param := range fn.Args {
		var v Value
		if i < len(args) {
			v = args[i]
		}
		off := it.sp
		it.writeValue(it.stack, off, v, param.DataType)
		it.sp += int(param.DataType.Bytes)
		it.stackMap[param.Idx] = off
	}

	// The callee's param Allocas are already linked at the head of its
	// body (internal/ir.Builder.lowerFunc appends them there); the
	// prologue above has already done their job, so execution starts
	// just past them rather than re-allocating the same slots.
	var start ir.Node
	if len(fn.Args) > 0 {
		start = fn.Args[len(fn.Args)-1].Next()
	} else {
		start = fn.BodyHead
	}
	it.run(start)

	it.sp = savedSP
	it.stackMap = savedMap
	return it.last
}

// run executes node-by-node until a Ret sets the instruction pointer to
// nil, per spec.md §4.8's "advance via node.succs[0] unless a branch sets
// it explicitly" rule — here Next()/Target stand in for succs[0]/Target.
func (it *Interp) run(start ir.Node) {
	ip := start
	for ip != nil {
		ip = it.step(ip)
	}
}

func (it *Interp) step(n ir.Node) ir.Node {
	switch x := n.(type) {
	case *ir.Alloca:
		it.alloc(x.Idx, x.DataType)
		return n.Next()
	case *ir.AllocaArray:
		it.alloc(x.Idx, x.DataType)
		return n.Next()
	case *ir.Store:
		v := it.evalExpr(x.Body)
		it.storeSym(x.Dest, v)
		it.last = v
		return n.Next()
	case *ir.Jump:
		if x.Target == nil {
			it.bugf("jump with an unresolved target reached the interpreter")
		}
		return x.Target
	case *ir.Cond:
		v := it.evalExpr(x.CondExpr)
		if isTruthy(v) {
			if x.Target == nil {
				it.bugf("conditional branch with an unresolved target reached the interpreter")
			}
			return x.Target
		}
		return n.Next()
	case *ir.Ret:
		if x.Body != nil {
			it.last = it.evalExpr(x.Body)
		}
		return nil
	default:
		it.bugf("node kind %s has no top-level interpreter semantics", n.Kind())
		return nil
	}
}

func (it *Interp) alloc(idx int, t types.Type) {
	if idx >= ir.GlobalBase {
		it.globalMap[idx] = it.globalSP
		it.globalSP += int(t.Bytes)
		return
	}
	it.stackMap[idx] = it.sp
	it.sp += int(t.Bytes)
}

// evalExpr evaluates any node that can appear inside a Store's body, a
// Cond's condition, a Ret's operand, or a FnCall's argument list.
func (it *Interp) evalExpr(n ir.Node) Value {
	switch x := n.(type) {
	case *ir.Imm:
		return valueFromImm(x)
	case *ir.String:
		return Value{Kind: types.String, Str: x.Bytes}
	case *ir.Sym:
		return it.loadSym(x)
	case *ir.Bin:
		return it.evalBin(x)
	case *ir.FnCall:
		return it.evalFnCall(x)
	default:
		it.bugf("node kind %s cannot be evaluated as an expression", n.Kind())
		return Value{}
	}
}

func valueFromImm(x *ir.Imm) Value {
	switch x.ImmKind {
	case types.Bool:
		return Value{Kind: types.Bool, Bool: x.BoolVal}
	case types.Char:
		return Value{Kind: types.Char, Char: x.CharVal}
	case types.Int:
		return Value{Kind: types.Int, Int: x.IntVal}
	case types.Float:
		return Value{Kind: types.Float, Float: x.FloatVal}
	default:
		panic(diag.Bugf("interp", "immediate of unsupported kind %s reached the interpreter", x.ImmKind))
	}
}

func (it *Interp) evalFnCall(call *ir.FnCall) Value {
	fn := it.unit.Lookup(call.Name)
	if fn == nil {
		it.bugf("call to unknown function %q reached the interpreter", call.Name)
	}
	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		args[i] = it.evalExpr(a)
	}
	return it.callFunction(fn, args)
}

func (it *Interp) evalBin(x *ir.Bin) Value {
	l := it.evalExpr(x.LHS)
	r := it.evalExpr(x.RHS)
	return it.applyBin(x.Op, l, r)
}

// resolve returns the backing arena and byte offset for a local's
// sym_idx, routing to the permanent global arena for any index at or
// above ir.GlobalBase rather than the current frame's stack_map.
func (it *Interp) resolve(idx int) (buf []byte, off int, isGlobal bool) {
	if idx >= ir.GlobalBase {
		off, ok := it.globalMap[idx]
		if !ok {
			it.bugf("global symbol %d has no allocated storage", idx)
		}
		return it.globalStack, off, true
	}
	off, ok := it.stackMap[idx]
	if !ok {
		it.bugf("local symbol %d has no allocated storage in the current frame", idx)
	}
	return it.stack, off, false
}

func (it *Interp) loadSym(s *ir.Sym) Value {
	buf, off, isGlobal := it.resolve(s.Idx)
	if s.AddrOf {
		return Value{Kind: types.Int, Int: int32(off), PtrGlobal: isGlobal}
	}
	if s.Deref {
		ptr := it.readValue(buf, off, types.Pointer(types.Scalar(types.Int)))
		target := it.arenaFor(ptr.PtrGlobal)
		return it.readValue(target, int(ptr.Int), s.Type())
	}
	return it.readValue(buf, off, s.Type())
}

func (it *Interp) storeSym(dest *ir.Sym, v Value) {
	buf, off, _ := it.resolve(dest.Idx)
	if dest.Deref {
		ptr := it.readValue(buf, off, types.Pointer(types.Scalar(types.Int)))
		target := it.arenaFor(ptr.PtrGlobal)
		it.writeValue(target, int(ptr.Int), v, dest.Type())
		return
	}
	it.writeValue(buf, off, v, dest.Type())
}

func (it *Interp) arenaFor(isGlobal bool) []byte {
	if isGlobal {
		return it.globalStack
	}
	return it.stack
}

func (it *Interp) writeValue(buf []byte, off int, v Value, t types.Type) {
	switch {
	case t.IsPointer():
		raw := int64(v.Int)
		if v.PtrGlobal {
			raw = -(raw + 1)
		}
		binary.LittleEndian.PutUint64(buf[off:], uint64(raw))
	case t.Kind == types.Bool:
		if v.Bool {
			buf[off] = 1
		} else {
			buf[off] = 0
		}
	case t.Kind == types.Char:
		buf[off] = v.Char
	case t.Kind == types.Int:
		binary.LittleEndian.PutUint32(buf[off:], uint32(v.Int))
	case t.Kind == types.Float:
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v.Float))
	case t.Kind == types.String:
		// String locals carry zero bytes (types.scalarSize(String) == 0);
		// the value travels only through the "last" register.
	case t.Kind == types.Struct:
		copy(buf[off:off+int(t.Bytes)], v.Struct)
	default:
		it.bugf("cannot store a value of kind %s", t.Kind)
	}
}

func (it *Interp) readValue(buf []byte, off int, t types.Type) Value {
	switch {
	case t.IsPointer():
		raw := int64(binary.LittleEndian.Uint64(buf[off:]))
		if raw < 0 {
			return Value{Kind: types.Int, Int: int32(-raw - 1), PtrGlobal: true}
		}
		return Value{Kind: types.Int, Int: int32(raw)}
	case t.Kind == types.Bool:
		return Value{Kind: types.Bool, Bool: buf[off] != 0}
	case t.Kind == types.Char:
		return Value{Kind: types.Char, Char: buf[off]}
	case t.Kind == types.Int:
		return Value{Kind: types.Int, Int: int32(binary.LittleEndian.Uint32(buf[off:]))}
	case t.Kind == types.Float:
		return Value{Kind: types.Float, Float: math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))}
	case t.Kind == types.String:
		return Value{Kind: types.String}
	case t.Kind == types.Struct:
		cp := make([]byte, t.Bytes)
		copy(cp, buf[off:off+int(t.Bytes)])
		return Value{Kind: types.Struct, Struct: cp}
	default:
		it.bugf("cannot load a value of kind %s", t.Kind)
		return Value{}
	}
}

func isTruthy(v Value) bool {
	switch v.Kind {
	case types.Int:
		return v.Int != 0
	case types.Bool:
		return v.Bool
	case types.Char:
		return v.Char != 0
	default:
		return false
	}
}

// applyBin dispatches a Bin by the operands' shared data-kind, per
// spec.md §4.8; Bool, Char, Int and Float each get their own rules, and
// a kind mismatch between the two operands is an internal error — the
// front end is responsible for ensuring Bin never sees one.
func (it *Interp) applyBin(op ir.BinOp, l, r Value) Value {
	if l.Kind != r.Kind {
		it.bugf("binary operator %s saw mismatched operand kinds %s/%s", op, l.Kind, r.Kind)
	}
	switch l.Kind {
	case types.Bool:
		return it.applyBoolBin(op, l, r)
	case types.Char:
		res := it.applyCharBin(op, l.Char, r.Char)
		return res
	case types.Int:
		res := it.applyIntBin(op, l.Int, r.Int)
		res.PtrGlobal = l.PtrGlobal || r.PtrGlobal
		return res
	case types.Float:
		return it.applyFloatBin(op, l.Float, r.Float)
	default:
		it.bugf("binary operator %s on unsupported operand kind %s", op, l.Kind)
		return Value{}
	}
}

// applyBoolBin implements spec.md §4.8's "bools support only & | ^".
func (it *Interp) applyBoolBin(op ir.BinOp, l, r Value) Value {
	switch op {
	case ir.BAnd:
		return Value{Kind: types.Bool, Bool: l.Bool && r.Bool}
	case ir.BOr:
		return Value{Kind: types.Bool, Bool: l.Bool || r.Bool}
	case ir.BXor:
		return Value{Kind: types.Bool, Bool: l.Bool != r.Bool}
	default:
		it.bugf("operator %s is not valid on bool operands", op)
		return Value{}
	}
}

func (it *Interp) applyCharBin(op ir.BinOp, l, r byte) Value {
	if op.IsComparison() {
		return Value{Kind: types.Int, Int: boolToInt(compareInt(op, int32(l), int32(r)))}
	}
	return Value{Kind: types.Char, Char: byte(it.intArith(op, int32(l), int32(r)))}
}

func (it *Interp) applyIntBin(op ir.BinOp, l, r int32) Value {
	if op.IsComparison() {
		return Value{Kind: types.Int, Int: boolToInt(compareInt(op, l, r))}
	}
	return Value{Kind: types.Int, Int: it.intArith(op, l, r)}
}

func (it *Interp) intArith(op ir.BinOp, l, r int32) int32 {
	switch op {
	case ir.BAdd:
		return l + r
	case ir.BSub:
		return l - r
	case ir.BMul:
		return l * r
	case ir.BDiv:
		return l / r
	case ir.BMod:
		return l % r
	case ir.BAnd:
		return l & r
	case ir.BOr:
		return l | r
	case ir.BXor:
		return l ^ r
	case ir.BShl:
		return l << uint32(r)
	case ir.BShr:
		return l >> uint32(r)
	default:
		it.bugf("operator %s is not valid on int/char operands", op)
		return 0
	}
}

func compareInt(op ir.BinOp, l, r int32) bool {
	switch op {
	case ir.BEq:
		return l == r
	case ir.BNeq:
		return l != r
	case ir.BLt:
		return l < r
	case ir.BGt:
		return l > r
	case ir.BLeq:
		return l <= r
	case ir.BGeq:
		return l >= r
	case ir.BLogAnd:
		return l != 0 && r != 0
	case ir.BLogOr:
		return l != 0 || r != 0
	default:
		return false
	}
}

// applyFloatBin implements spec.md §4.8's "floats support arithmetic and
// comparison; comparison yields Int".
func (it *Interp) applyFloatBin(op ir.BinOp, l, r float32) Value {
	if op.IsComparison() {
		return Value{Kind: types.Int, Int: boolToInt(compareFloat(op, l, r))}
	}
	var res float32
	switch op {
	case ir.BAdd:
		res = l + r
	case ir.BSub:
		res = l - r
	case ir.BMul:
		res = l * r
	case ir.BDiv:
		res = l / r
	default:
		it.bugf("operator %s is not valid on float operands", op)
	}
	return Value{Kind: types.Float, Float: res}
}

func compareFloat(op ir.BinOp, l, r float32) bool {
	switch op {
	case ir.BEq:
		return l == r
	case ir.BNeq:
		return l != r
	case ir.BLt:
		return l < r
	case ir.BGt:
		return l > r
	case ir.BLeq:
		return l <= r
	case ir.BGeq:
		return l >= r
	case ir.BLogAnd:
		return l != 0 && r != 0
	case ir.BLogOr:
		return l != 0 || r != 0
	default:
		return false
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
