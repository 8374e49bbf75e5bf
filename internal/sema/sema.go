// Package sema implements the semantic analysis spec.md §1/§6 treats as an
// external collaborator: name resolution, type checking, function-
// signature checking, and variable-use checking. The middle end
// (internal/ir and beyond) trusts its output completely and never
// re-checks types, exactly as spec.md §4.1 says.
package sema

import (
	"fmt"

	"github.com/weak-lang/weakc/internal/ast"
	"github.com/weak-lang/weakc/internal/diag"
	"github.com/weak-lang/weakc/internal/types"
)

// FuncSig is a checked function signature.
type FuncSig struct {
	Params  []types.Type
	RetType types.Type
}

// StructInfo is a checked struct layout: field order, offsets, and total
// size, computed the way original_source/lib/front_end/ana/type_ana.c's
// struct handling assigns sequential byte offsets.
type StructInfo struct {
	Name   string
	Fields []ast.Param
	Offset map[string]uint64
	Size   uint64
}

// Checker holds the whole-unit symbol tables sema builds before checking
// function bodies, mirroring the two-pass shape of spec.md §4.3 ("first
// record name -> signature for every function").
type Checker struct {
	Funcs   map[string]FuncSig
	Structs map[string]StructInfo
	Globals map[string]types.Type

	errs []*diag.SourceError

	// per-function state
	scopes []map[string]types.Type
	retT   types.Type
}

// Check resolves names and types across the whole unit and returns the
// populated symbol tables. Every ast.Expr in the unit has its Type() set
// on success. An empty error slice means the AST is a valid input to
// internal/ir; errors are *diag.SourceError values (spec.md §7: source-
// level errors are produced upstream, never by the core).
func Check(u *ast.Unit) (*Checker, []*diag.SourceError) {
	c := &Checker{
		Funcs:   map[string]FuncSig{},
		Structs: map[string]StructInfo{},
		Globals: map[string]types.Type{},
	}
	c.collectStructs(u)
	c.collectSignatures(u)
	for _, d := range u.Decls {
		if gd, ok := d.(*ast.GlobalVarDecl); ok && gd.Init != nil {
			c.checkExpr(gd.Init)
		}
	}
	for _, d := range u.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok && fd.Body != nil {
			c.checkFunc(fd)
		}
	}
	return c, c.errs
}

func (c *Checker) errorf(pos ast.Node, format string, args ...any) {
	p := pos.Pos()
	c.errs = append(c.errs, diag.Sourcef(p.Line, p.Col, format, args...))
}

func (c *Checker) collectStructs(u *ast.Unit) {
	for _, d := range u.Decls {
		sd, ok := d.(*ast.StructDecl)
		if !ok {
			continue
		}
		info := StructInfo{Name: sd.Name, Fields: sd.Fields, Offset: map[string]uint64{}}
		var off uint64
		for _, f := range sd.Fields {
			info.Offset[f.Name] = off
			off += f.Typ.Bytes
		}
		info.Size = off
		c.Structs[sd.Name] = info
	}
	// second pass: resolve struct-typed field/param/var sizes now that
	// every struct's size is known (supports one struct embedding another
	// by value).
	for name, info := range c.Structs {
		for i := range info.Fields {
			if info.Fields[i].Typ.Kind == types.Struct && info.Fields[i].Typ.PtrDepth == 0 {
				if dep, ok := c.Structs[info.Fields[i].Typ.FieldsOf]; ok {
					info.Fields[i].Typ.Bytes = dep.Size
				}
			}
		}
		c.Structs[name] = info
	}
}

func (c *Checker) resolveStructSize(t types.Type) types.Type {
	if t.Kind == types.Struct && t.PtrDepth == 0 && t.Bytes == 0 {
		if info, ok := c.Structs[t.FieldsOf]; ok {
			t.Bytes = info.Size
		}
	}
	return t
}

func (c *Checker) collectSignatures(u *ast.Unit) {
	for _, d := range u.Decls {
		switch dd := d.(type) {
		case *ast.FuncDecl:
			sig := FuncSig{RetType: c.resolveStructSize(dd.RetType)}
			for _, p := range dd.Params {
				sig.Params = append(sig.Params, c.resolveStructSize(p.Typ))
			}
			c.Funcs[dd.Name] = sig
		case *ast.GlobalVarDecl:
			c.Globals[dd.Name] = c.resolveStructSize(dd.Typ)
		}
	}
}

func (c *Checker) pushScope() { c.scopes = append(c.scopes, map[string]types.Type{}) }
func (c *Checker) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *Checker) declare(name string, t types.Type) {
	c.scopes[len(c.scopes)-1][name] = t
}

func (c *Checker) lookup(name string) (types.Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	if t, ok := c.Globals[name]; ok {
		return t, true
	}
	return types.Type{}, false
}

func (c *Checker) checkFunc(fd *ast.FuncDecl) {
	c.scopes = nil
	c.retT = fd.RetType
	c.pushScope()
	for _, p := range fd.Params {
		c.declare(p.Name, c.resolveStructSize(p.Typ))
	}
	c.checkStmt(fd.Body)
	c.popScope()
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		c.pushScope()
		for _, inner := range st.Stmts {
			c.checkStmt(inner)
		}
		c.popScope()
	case *ast.VarDecl:
		st.Typ = c.resolveStructSize(st.Typ)
		if st.Init != nil {
			c.checkExpr(st.Init)
		}
		c.declare(st.Name, st.Typ)
	case *ast.ExprStmt:
		c.checkExpr(st.X)
	case *ast.If:
		c.checkExpr(st.Cond)
		c.checkStmt(st.Then)
		if st.Else != nil {
			c.checkStmt(st.Else)
		}
	case *ast.While:
		c.checkExpr(st.Cond)
		c.checkStmt(st.Body)
	case *ast.DoWhile:
		c.checkStmt(st.Body)
		c.checkExpr(st.Cond)
	case *ast.For:
		c.pushScope()
		if st.Init != nil {
			c.checkStmt(st.Init)
		}
		if st.Cond != nil {
			c.checkExpr(st.Cond)
		}
		if st.Post != nil {
			c.checkStmt(st.Post)
		}
		c.checkStmt(st.Body)
		c.popScope()
	case *ast.Return:
		if st.X != nil {
			c.checkExpr(st.X)
			if st.X.Type().Kind != c.retT.Kind && c.retT.Kind != types.Void {
				c.errorf(st, "return type %s does not match function return type %s", st.X.Type(), c.retT)
			}
		} else if c.retT.Kind != types.Void {
			c.errorf(st, "missing return value in non-void function")
		}
	case *ast.Break, *ast.Continue:
		// nothing to check; the middle end's builder validates enclosing
		// loop context structurally.
	}
}

func (c *Checker) checkExpr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.IntLit:
		x.SetType(types.Scalar(types.Int))
	case *ast.FloatLit:
		x.SetType(types.Scalar(types.Float))
	case *ast.CharLit:
		x.SetType(types.Scalar(types.Char))
	case *ast.BoolLit:
		x.SetType(types.Scalar(types.Bool))
	case *ast.StringLit:
		x.SetType(types.Scalar(types.String))
	case *ast.Ident:
		t, ok := c.lookup(x.Name)
		if !ok {
			c.errorf(x, "use of undeclared identifier %q", x.Name)
			t = types.Scalar(types.Unknown)
		}
		x.SetType(t)
	case *ast.Unary:
		c.checkExpr(x.X)
		switch x.Op {
		case ast.UAddrOf:
			x.SetType(types.Pointer(x.X.Type()))
		case ast.UDeref:
			t := x.X.Type()
			if !t.IsPointer() {
				c.errorf(x, "cannot dereference non-pointer type %s", t)
				x.SetType(types.Scalar(types.Unknown))
			} else {
				deref := t
				deref.PtrDepth--
				if deref.PtrDepth == 0 {
					deref.Bytes = scalarBytes(deref)
				}
				x.SetType(deref)
			}
		default:
			x.SetType(x.X.Type())
		}
	case *ast.Binary:
		c.checkExpr(x.X)
		c.checkExpr(x.Y)
		x.SetType(binaryResultType(x.Op, x.X.Type(), x.Y.Type()))
	case *ast.Assign:
		c.checkExpr(x.LHS)
		c.checkExpr(x.RHS)
		x.SetType(x.LHS.Type())
	case *ast.Call:
		sig, ok := c.Funcs[x.Callee]
		if !ok {
			c.errorf(x, "call to undeclared function %q", x.Callee)
			x.SetType(types.Scalar(types.Unknown))
			for _, a := range x.Args {
				c.checkExpr(a)
			}
			return
		}
		if len(sig.Params) != len(x.Args) {
			c.errorf(x, "function %q expects %d arguments, got %d", x.Callee, len(sig.Params), len(x.Args))
		}
		for _, a := range x.Args {
			c.checkExpr(a)
		}
		x.SetType(sig.RetType)
	case *ast.Index:
		c.checkExpr(x.X)
		c.checkExpr(x.Idx)
		elem := x.X.Type()
		if elem.IsArray() {
			elem.ArityLen--
			elem.Bytes = scalarBytes(elem)
			if elem.ArityLen > 0 {
				product := uint64(1)
				for i := uint8(0); i < elem.ArityLen; i++ {
					product *= elem.Arity[i]
				}
				elem.Bytes = product * scalarBytes(types.Scalar(elem.Kind))
			}
		} else if elem.IsPointer() {
			elem.PtrDepth--
			elem.Bytes = scalarBytes(elem)
		} else {
			c.errorf(x, "cannot index non-array, non-pointer type %s", elem)
		}
		x.SetType(elem)
	case *ast.Member:
		c.checkExpr(x.X)
		base := x.X.Type()
		info, ok := c.Structs[base.FieldsOf]
		if !ok {
			c.errorf(x, "member access on non-struct type %s", base)
			x.SetType(types.Scalar(types.Unknown))
			return
		}
		for _, f := range info.Fields {
			if f.Name == x.Field {
				x.SetType(f.Typ)
				return
			}
		}
		c.errorf(x, "struct %s has no field %q", info.Name, x.Field)
		x.SetType(types.Scalar(types.Unknown))
	default:
		panic(fmt.Sprintf("sema: unhandled expression type %T", e))
	}
}

func scalarBytes(t types.Type) uint64 {
	s := types.Scalar(t.Kind)
	if t.PtrDepth > 0 {
		return 8
	}
	return s.Bytes
}

func binaryResultType(op ast.BinOp, lt, rt types.Type) types.Type {
	switch op {
	case ast.BEq, ast.BNeq, ast.BLt, ast.BGt, ast.BLeq, ast.BGeq, ast.BLogAnd, ast.BLogOr:
		return types.Scalar(types.Int) // comparisons yield Int 0/1, spec.md §4.8
	default:
		if lt.Kind == types.Float || rt.Kind == types.Float {
			return types.Scalar(types.Float)
		}
		return types.Scalar(types.Int)
	}
}
