// Package ir implements the middle end's core data model: tagged IR node
// variants plus the per-node metadata (CFG edges, dominator links,
// dominance-frontier and data-dependence-graph sets) every later pass
// (internal/cfg, internal/dom, internal/ssa, internal/ddg, internal/opt)
// attaches to the same nodes in place.
//
// Unlike the teacher's single universal Node struct with a Kind
// discriminant and generic child pointers (std/compiler/parser.go), every
// IR variant here is its own concrete Go type behind the Node interface —
// a real tagged union, so a missing type-switch case is caught at review
// time rather than falling through a "default: unreachable" branch.
package ir

import "github.com/weak-lang/weakc/internal/types"

// NodeKind tags which concrete variant a Node is, for dump labeling and
// fast dispatch; the authoritative discriminant is still the Go type
// itself (use a type switch to reach variant-specific fields).
type NodeKind int

const (
	KAlloca NodeKind = iota
	KAllocaArray
	KImm
	KString
	KSym
	KStore
	KBin
	KJump
	KCond
	KRet
	KMember
	KTypeDecl
	KFnDecl
	KFnCall
	KPhi
	KPush
	KPop
)

func (k NodeKind) String() string {
	switch k {
	case KAlloca:
		return "Alloca"
	case KAllocaArray:
		return "AllocaArray"
	case KImm:
		return "Imm"
	case KString:
		return "String"
	case KSym:
		return "Sym"
	case KStore:
		return "Store"
	case KBin:
		return "Bin"
	case KJump:
		return "Jump"
	case KCond:
		return "Cond"
	case KRet:
		return "Ret"
	case KMember:
		return "Member"
	case KTypeDecl:
		return "TypeDecl"
	case KFnDecl:
		return "FnDecl"
	case KFnCall:
		return "FnCall"
	case KPhi:
		return "Phi"
	case KPush:
		return "Push"
	case KPop:
		return "Pop"
	default:
		return "?"
	}
}

// LoopMeta is the loop-related metadata spec.md §3.2 attaches to every node.
type LoopMeta struct {
	LoopDepth int
	LoopIndex int // global-loop-index; -1 if not inside a loop
	LoopHead  bool
	LoopIncr  bool
}

// Node is implemented by every IR node variant. The metadata accessors
// (InstrIdx..Meta) are promoted from the embedded Base; the unexported
// isNode marker prevents other packages from inventing new node kinds.
type Node interface {
	Kind() NodeKind
	isNode()

	InstrIdx() int
	SetInstrIdx(int)

	Prev() Node
	SetPrev(Node)
	Next() Node
	SetNext(Node)

	Succs() []Node
	SetSuccs(succs []Node)
	Preds() []Node
	AddPred(Node)
	ClearPreds()

	Idom() Node
	SetIdom(Node)
	IdomBack() []Node
	AddIdomBack(Node)

	DF() []Node
	AddDF(Node)
	ResetDF()

	DDGStmts() []Node
	AddDDGStmt(Node)
	ResetDDGStmts()

	ClaimedReg() int
	SetClaimedReg(int)

	Meta() *LoopMeta

	BlockNum() int
	SetBlockNum(int)

	Type() types.Type
	SetType(types.Type)
}

// Base is embedded by every concrete node type; it holds everything that
// is common across variants per spec.md §3.2.
type Base struct {
	instrIdx  int
	blockNum  int
	prev      Node
	next      Node
	succs     []Node
	preds     []Node
	idom      Node
	idomBack  []Node
	df        []Node
	ddgStmts  []Node
	claimedReg int
	meta      LoopMeta
	typ       types.Type
}

func newBase() Base {
	return Base{claimedReg: -1, meta: LoopMeta{LoopIndex: -1}}
}

func (b *Base) isNode() {}

func (b *Base) InstrIdx() int      { return b.instrIdx }
func (b *Base) SetInstrIdx(i int)  { b.instrIdx = i }
func (b *Base) BlockNum() int      { return b.blockNum }
func (b *Base) SetBlockNum(n int)  { b.blockNum = n }

func (b *Base) Prev() Node     { return b.prev }
func (b *Base) SetPrev(n Node) { b.prev = n }
func (b *Base) Next() Node     { return b.next }
func (b *Base) SetNext(n Node) { b.next = n }

func (b *Base) Succs() []Node { return b.succs }
func (b *Base) SetSuccs(s []Node) { b.succs = s }
func (b *Base) Preds() []Node { return b.preds }
func (b *Base) AddPred(n Node) { b.preds = append(b.preds, n) }
func (b *Base) ClearPreds()    { b.preds = nil }

func (b *Base) Idom() Node         { return b.idom }
func (b *Base) SetIdom(n Node)     { b.idom = n }
func (b *Base) IdomBack() []Node   { return b.idomBack }
func (b *Base) AddIdomBack(n Node) { b.idomBack = append(b.idomBack, n) }

func (b *Base) DF() []Node { return b.df }
func (b *Base) AddDF(n Node) {
	for _, e := range b.df {
		if e == n {
			return
		}
	}
	b.df = append(b.df, n)
}
func (b *Base) ResetDF() { b.df = nil }

func (b *Base) DDGStmts() []Node    { return b.ddgStmts }
func (b *Base) AddDDGStmt(n Node)   { b.ddgStmts = append(b.ddgStmts, n) }
func (b *Base) ResetDDGStmts()      { b.ddgStmts = nil }

func (b *Base) ClaimedReg() int     { return b.claimedReg }
func (b *Base) SetClaimedReg(r int) { b.claimedReg = r }

func (b *Base) Meta() *LoopMeta { return &b.meta }

func (b *Base) Type() types.Type     { return b.typ }
func (b *Base) SetType(t types.Type) { b.typ = t }

// ---- Variants (spec.md §3.2) ----

// Alloca declares a scalar local with sequential index Idx.
type Alloca struct {
	Base
	DataType types.Type
	Idx      int
}

func NewAlloca(dt types.Type, idx int) *Alloca {
	return &Alloca{Base: newBase(), DataType: dt, Idx: idx}
}
func (*Alloca) Kind() NodeKind { return KAlloca }

// AllocaArray declares an array-typed local; DataType carries the arity.
type AllocaArray struct {
	Base
	DataType types.Type
	Idx      int
}

func NewAllocaArray(dt types.Type, idx int) *AllocaArray {
	return &AllocaArray{Base: newBase(), DataType: dt, Idx: idx}
}
func (*AllocaArray) Kind() NodeKind { return KAllocaArray }

// Imm is a literal value of one scalar kind.
type Imm struct {
	Base
	ImmKind  types.Kind
	BoolVal  bool
	CharVal  byte
	IntVal   int32
	FloatVal float32
}

func NewImmInt(v int32) *Imm {
	n := &Imm{Base: newBase(), ImmKind: types.Int, IntVal: v}
	n.SetType(types.Scalar(types.Int))
	return n
}
func NewImmFloat(v float32) *Imm {
	n := &Imm{Base: newBase(), ImmKind: types.Float, FloatVal: v}
	n.SetType(types.Scalar(types.Float))
	return n
}
func NewImmChar(v byte) *Imm {
	n := &Imm{Base: newBase(), ImmKind: types.Char, CharVal: v}
	n.SetType(types.Scalar(types.Char))
	return n
}
func NewImmBool(v bool) *Imm {
	n := &Imm{Base: newBase(), ImmKind: types.Bool, BoolVal: v}
	n.SetType(types.Scalar(types.Bool))
	return n
}
func (*Imm) Kind() NodeKind { return KImm }

// String is a string literal's byte content.
type String struct {
	Base
	Bytes string
}

func NewString(s string) *String {
	n := &String{Base: newBase(), Bytes: s}
	n.SetType(types.Scalar(types.String))
	return n
}
func (*String) Kind() NodeKind { return KString }

// Sym is a use of local Idx; SSAIdx is -1 until SSA construction assigns
// a version.
type Sym struct {
	Base
	Idx    int
	SSAIdx int
	Deref  bool
	AddrOf bool
}

func NewSym(idx int) *Sym {
	return &Sym{Base: newBase(), Idx: idx, SSAIdx: -1}
}
func (*Sym) Kind() NodeKind { return KSym }

// Store writes Body's value into the local referenced by Dest.
type Store struct {
	Base
	Dest *Sym
	Body Node // Imm, Sym, Bin, String, or FnCall
}

func NewStore(dest *Sym, body Node) *Store {
	return &Store{Base: newBase(), Dest: dest, Body: body}
}
func (*Store) Kind() NodeKind { return KStore }

// BinOp is the full arithmetic/logical/bitwise/comparison/shift set a Bin
// node may carry.
type BinOp int

const (
	BAdd BinOp = iota
	BSub
	BMul
	BDiv
	BMod
	BAnd
	BOr
	BXor
	BShl
	BShr
	BEq
	BNeq
	BLt
	BGt
	BLeq
	BGeq
	BLogAnd
	BLogOr
)

func (op BinOp) String() string {
	names := [...]string{"+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>",
		"==", "!=", "<", ">", "<=", ">=", "&&", "||"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// IsComparison reports whether op always yields an Int 0/1 result.
func (op BinOp) IsComparison() bool {
	switch op {
	case BEq, BNeq, BLt, BGt, BLeq, BGeq, BLogAnd, BLogOr:
		return true
	default:
		return false
	}
}

// Bin is a binary operation over two value-producing nodes.
type Bin struct {
	Base
	Op       BinOp
	LHS, RHS Node
}

func NewBin(op BinOp, lhs, rhs Node) *Bin {
	return &Bin{Base: newBase(), Op: op, LHS: lhs, RHS: rhs}
}
func (*Bin) Kind() NodeKind { return KBin }

// Jump is an unconditional branch to Target.
type Jump struct {
	Base
	Target Node
}

func NewJump(target Node) *Jump { return &Jump{Base: newBase(), Target: target} }
func (*Jump) Kind() NodeKind    { return KJump }

// Cond is a two-way branch: if CondExpr evaluates non-zero, control goes
// to Target, otherwise falls through to Next().
type Cond struct {
	Base
	CondExpr *Bin
	Target   Node
}

func NewCond(cond *Bin, target Node) *Cond {
	return &Cond{Base: newBase(), CondExpr: cond, Target: target}
}
func (*Cond) Kind() NodeKind { return KCond }

// Ret returns Body's value (nil for a void return) and ends the function.
type Ret struct {
	Base
	Body Node
}

func NewRet(body Node) *Ret { return &Ret{Base: newBase(), Body: body} }
func (*Ret) Kind() NodeKind { return KRet }

// Member is struct field access: local Idx, field FieldIdx.
type Member struct {
	Base
	Idx      int
	FieldIdx int
}

func NewMember(idx, fieldIdx int) *Member {
	return &Member{Base: newBase(), Idx: idx, FieldIdx: fieldIdx}
}
func (*Member) Kind() NodeKind { return KMember }

// TypeDecl records a struct type's field list.
type TypeDecl struct {
	Base
	Name   string
	Fields []types.Type
}

func NewTypeDecl(name string, fields []types.Type) *TypeDecl {
	return &TypeDecl{Base: newBase(), Name: name, Fields: fields}
}
func (*TypeDecl) Kind() NodeKind { return KTypeDecl }

// FnDecl is a function: its own Alloca argument list and a linked body.
type FnDecl struct {
	Base
	Name      string
	RetType   types.Type
	Args      []*Alloca
	BodyHead  Node
	BodyTail  Node
	NumLocals int // count of Alloca/AllocaArray, including args

	// unit-level linking
	UnitPrev *FnDecl
	UnitNext *FnDecl
}

func NewFnDecl(name string, retType types.Type) *FnDecl {
	return &FnDecl{Base: newBase(), Name: name, RetType: retType}
}
func (*FnDecl) Kind() NodeKind { return KFnDecl }

// FnCall is a call to a named function by value.
type FnCall struct {
	Base
	Name string
	Args []Node
}

func NewFnCall(name string, args []Node) *FnCall {
	return &FnCall{Base: newBase(), Name: name, Args: args}
}
func (*FnCall) Kind() NodeKind { return KFnCall }

// Phi selects among SSA versions of SymIdx based on the incoming CFG
// edge. The reference carries only two operand slots; per spec.md §9's
// design note this carries one operand per predecessor, indexed the same
// way as the owning block's Preds().
type Phi struct {
	Base
	SymIdx   int
	SSAIdx   int
	Operands []int // one SSA version per predecessor, parallel to Preds()
}

func NewPhi(symIdx int, numPreds int) *Phi {
	ops := make([]int, numPreds)
	for i := range ops {
		ops[i] = -1
	}
	return &Phi{Base: newBase(), SymIdx: symIdx, SSAIdx: -1, Operands: ops}
}
func (*Phi) Kind() NodeKind { return KPhi }

// Push/Pop are reserved register save/restore slots for a future register
// allocator; spec.md §9/§1 treats allocation itself as a Non-goal, so
// these are never emitted by this repository's builder.
type Push struct{ Base }
type Pop struct{ Base }

func (*Push) Kind() NodeKind { return KPush }
func (*Pop) Kind() NodeKind  { return KPop }
