// Package ast defines the weak language's abstract syntax tree: the
// typed, name- and type-checked input contract spec.md §6 describes for
// the IR builder. Unlike the teacher's single untyped Node struct (one
// discriminant field plus generic child slots), this package uses a real
// Go sum type (one concrete struct per production, behind small marker
// interfaces) so a missing case is a compile error, per spec.md §9's
// design note recommending tagged unions over void* payloads.
package ast

import (
	"github.com/weak-lang/weakc/internal/token"
	"github.com/weak-lang/weakc/internal/types"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Pos
}

// Expr is implemented by expression nodes. Once sema has run, Type()
// returns a concrete, non-Unknown types.Type.
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by top-level declaration nodes.
type Decl interface {
	Node
	declNode()
}

// ExprBase is embedded by every expression node; NewExprBase constructs
// one from a source position.
type ExprBase struct {
	P token.Pos
	T types.Type
}

// NewExprBase constructs an ExprBase at pos with an as-yet-unresolved type.
func NewExprBase(pos token.Pos) ExprBase { return ExprBase{P: pos, T: types.Scalar(types.Unknown)} }

func (b ExprBase) Pos() token.Pos        { return b.P }
func (b *ExprBase) Type() types.Type     { return b.T }
func (b *ExprBase) SetType(t types.Type) { b.T = t }
func (ExprBase) exprNode()               {}

// ---- Expressions ----

type IntLit struct {
	ExprBase
	Value int32
}

type FloatLit struct {
	ExprBase
	Value float32
}

type CharLit struct {
	ExprBase
	Value byte
}

type BoolLit struct {
	ExprBase
	Value bool
}

type StringLit struct {
	ExprBase
	Value string
}

// Ident is a use of a name: a local variable, parameter, global, or
// function name, resolved by sema to point at its Decl.
type Ident struct {
	ExprBase
	Name string
}

// Unary covers prefix !, ~, -, &, * and postfix ++/--.
type UnaryOp int

const (
	UNeg UnaryOp = iota
	UNot
	UBitNot
	UAddrOf
	UDeref
	UPreInc
	UPreDec
	UPostInc
	UPostDec
)

type Unary struct {
	ExprBase
	Op UnaryOp
	X  Expr
}

// Binary covers the full arithmetic/bitwise/comparison/logical/shift set.
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

type Binary struct {
	ExprBase
	Op   BinOp
	X, Y Expr
}

// Assign is `lhs = rhs`; lhs is an Ident, Index, or Member.
type Assign struct {
	ExprBase
	LHS Expr
	RHS Expr
}

// Call is a function call by name.
type Call struct {
	ExprBase
	Callee string
	Args   []Expr
}

// Index is array indexing `base[idx]`.
type Index struct {
	ExprBase
	X   Expr
	Idx Expr
}

// Member is struct field access `x.field`.
type Member struct {
	ExprBase
	X     Expr
	Field string
}

func (*IntLit) exprNode()    {}
func (*FloatLit) exprNode()  {}
func (*CharLit) exprNode()   {}
func (*BoolLit) exprNode()   {}
func (*StringLit) exprNode() {}
func (*Ident) exprNode()     {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Assign) exprNode()    {}
func (*Call) exprNode()      {}
func (*Index) exprNode()     {}
func (*Member) exprNode()    {}

// ---- Statements ----

// StmtBase is embedded by every statement node.
type StmtBase struct{ P token.Pos }

// NewStmtBase constructs a StmtBase at pos.
func NewStmtBase(pos token.Pos) StmtBase { return StmtBase{P: pos} }

func (b StmtBase) Pos() token.Pos { return b.P }
func (StmtBase) stmtNode()        {}

// VarDecl is a local (or global, at file scope) variable declaration,
// optionally with an array size and/or an initializer.
type VarDecl struct {
	StmtBase
	Name  string
	Typ   types.Type
	Init  Expr // nil if uninitialized
}

type Block struct {
	StmtBase
	Stmts []Stmt
}

type ExprStmt struct {
	StmtBase
	X Expr
}

type If struct {
	StmtBase
	Cond       Expr
	Then, Else Stmt // Else is nil if absent
}

type While struct {
	StmtBase
	Cond Expr
	Body Stmt
}

type DoWhile struct {
	StmtBase
	Body Stmt
	Cond Expr
}

type For struct {
	StmtBase
	Init Stmt // VarDecl or ExprStmt, may be nil
	Cond Expr // may be nil
	Post Stmt // ExprStmt, may be nil
	Body Stmt
}

type Return struct {
	StmtBase
	X Expr // nil for a void return
}

type Break struct{ StmtBase }
type Continue struct{ StmtBase }

func (*VarDecl) stmtNode()  {}
func (*Block) stmtNode()    {}
func (*ExprStmt) stmtNode() {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*DoWhile) stmtNode()  {}
func (*For) stmtNode()      {}
func (*Return) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}

// ---- Declarations ----

// Param is a function parameter.
type Param struct {
	Name string
	Typ  types.Type
}

// FuncDecl is a top-level function definition.
type FuncDecl struct {
	DeclBase
	Name    string
	Params  []Param
	RetType types.Type
	Body    *Block
}

// StructDecl is a top-level struct type definition.
type StructDecl struct {
	DeclBase
	Name   string
	Fields []Param // reuses Param as (name, type)
}

// GlobalVarDecl is a file-scope variable declaration.
type GlobalVarDecl struct {
	DeclBase
	Name string
	Typ  types.Type
	Init Expr
}

// DeclBase is embedded by every top-level declaration node.
type DeclBase struct{ P token.Pos }

// NewDeclBase constructs a DeclBase at pos.
func NewDeclBase(pos token.Pos) DeclBase { return DeclBase{P: pos} }

func (b DeclBase) Pos() token.Pos { return b.P }
func (DeclBase) declNode()        {}

func (*FuncDecl) declNode()      {}
func (*StructDecl) declNode()    {}
func (*GlobalVarDecl) declNode() {}

// Unit is a full translation unit: the top of the AST handed to the IR
// builder (spec.md §6).
type Unit struct {
	Decls []Decl
}
