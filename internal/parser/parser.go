// Package parser implements a hand-written recursive-descent parser for
// weak source, following the teacher's Parser shape in
// std/compiler/parser.go (peek/advance/at/expect helpers, one function per
// grammar production) with Pratt-style binary-operator precedence
// climbing for expressions, as original_source/lib/front_end's grammar
// requires (C-like operator precedence).
package parser

import (
	"fmt"

	"github.com/weak-lang/weakc/internal/ast"
	"github.com/weak-lang/weakc/internal/token"
	"github.com/weak-lang/weakc/internal/types"
)

// Parser parses a token stream into an *ast.Unit.
type Parser struct {
	toks   []token.Token
	pos    int
	errors []error
}

// New creates a Parser over toks (as produced by internal/lexer).
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.errorf("expected %s, got %s", k, p.peek().Kind)
		return p.peek()
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...any) {
	pos := p.peek().Pos
	p.errors = append(p.errors, fmt.Errorf("%d:%d: %s", pos.Line, pos.Col, fmt.Sprintf(format, args...)))
}

// Errors returns the parse errors accumulated so far.
func (p *Parser) Errors() []error { return p.errors }

// Parse parses a complete translation unit.
func Parse(toks []token.Token) (*ast.Unit, []error) {
	p := New(toks)
	u := &ast.Unit{}
	for !p.at(token.EOF) {
		d := p.parseTopLevel()
		if d != nil {
			u.Decls = append(u.Decls, d)
		}
	}
	return u, p.errors
}

func isTypeStart(k token.Kind) bool {
	switch k {
	case token.KwInt, token.KwChar, token.KwFloat, token.KwBool, token.KwVoid, token.KwString, token.KwStruct:
		return true
	}
	return false
}

func (p *Parser) parseType() types.Type {
	var base types.Type
	switch p.peek().Kind {
	case token.KwInt:
		p.advance()
		base = types.Scalar(types.Int)
	case token.KwChar:
		p.advance()
		base = types.Scalar(types.Char)
	case token.KwFloat:
		p.advance()
		base = types.Scalar(types.Float)
	case token.KwBool:
		p.advance()
		base = types.Scalar(types.Bool)
	case token.KwVoid:
		p.advance()
		base = types.Scalar(types.Void)
	case token.KwString:
		p.advance()
		base = types.Scalar(types.String)
	case token.KwStruct:
		p.advance()
		name := p.expect(token.Ident).Text
		base = types.StructOf(name, 0) // size resolved by sema from the struct table
	default:
		p.errorf("expected a type, got %s", p.peek().Kind)
		base = types.Scalar(types.Unknown)
	}
	for p.at(token.Star) {
		p.advance()
		base = types.Pointer(base)
	}
	return base
}

func (p *Parser) parseTopLevel() ast.Decl {
	pos := p.peek().Pos
	if p.at(token.KwStruct) && p.peekAt(2).Kind == token.LBrace {
		p.advance()
		name := p.expect(token.Ident).Text
		p.expect(token.LBrace)
		var fields []ast.Param
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			ft := p.parseType()
			fn := p.expect(token.Ident).Text
			p.expect(token.Semi)
			fields = append(fields, ast.Param{Name: fn, Typ: ft})
		}
		p.expect(token.RBrace)
		p.expect(token.Semi)
		return &ast.StructDecl{ast.NewDeclBase(pos), name, fields}
	}

	retType := p.parseType()
	name := p.expect(token.Ident).Text

	if p.at(token.LParen) {
		p.advance()
		var params []ast.Param
		for !p.at(token.RParen) {
			pt := p.parseType()
			pn := p.expect(token.Ident).Text
			params = append(params, ast.Param{Name: pn, Typ: pt})
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		p.expect(token.RParen)
		if p.at(token.Semi) { // prototype, no body
			p.advance()
			return &ast.FuncDecl{ast.NewDeclBase(pos), name, params, retType, nil}
		}
		body := p.parseBlock()
		return &ast.FuncDecl{ast.NewDeclBase(pos), name, params, retType, body}
	}

	// global variable
	var arity []uint64
	for p.at(token.LBracket) {
		p.advance()
		n := p.expect(token.IntLit)
		arity = append(arity, parseUint(n.Text))
		p.expect(token.RBracket)
	}
	if len(arity) > 0 {
		retType = types.Array(retType, arity...)
	}
	var init ast.Expr
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.Semi)
	return &ast.GlobalVarDecl{ast.NewDeclBase(pos), name, retType, init}
}

func parseUint(s string) uint64 {
	var v uint64
	for _, c := range s {
		v = v*10 + uint64(c-'0')
	}
	return v
}

func (p *Parser) parseBlock() *ast.Block {
	pos := p.expect(token.LBrace).Pos
	var stmts []ast.Stmt
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(token.RBrace)
	return &ast.Block{ast.NewStmtBase(pos), stmts}
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak:
		pos := p.advance().Pos
		p.expect(token.Semi)
		return &ast.Break{ast.NewStmtBase(pos)}
	case token.KwContinue:
		pos := p.advance().Pos
		p.expect(token.Semi)
		return &ast.Continue{ast.NewStmtBase(pos)}
	default:
		if isTypeStart(p.peek().Kind) {
			return p.parseVarDecl()
		}
		pos := p.peek().Pos
		e := p.parseExpr()
		p.expect(token.Semi)
		return &ast.ExprStmt{ast.NewStmtBase(pos), e}
	}
}

func (p *Parser) parseVarDecl() ast.Stmt {
	pos := p.peek().Pos
	typ := p.parseType()
	name := p.expect(token.Ident).Text
	var arity []uint64
	for p.at(token.LBracket) {
		p.advance()
		n := p.expect(token.IntLit)
		arity = append(arity, parseUint(n.Text))
		p.expect(token.RBracket)
	}
	if len(arity) > 0 {
		typ = types.Array(typ, arity...)
	}
	var init ast.Expr
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.Semi)
	return &ast.VarDecl{ast.NewStmtBase(pos), name, typ, init}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.advance().Pos // if
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	then := p.parseStmt()
	var els ast.Stmt
	if p.at(token.KwElse) {
		p.advance()
		els = p.parseStmt()
	}
	return &ast.If{ast.NewStmtBase(pos), cond, then, els}
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.advance().Pos
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseStmt()
	return &ast.While{ast.NewStmtBase(pos), cond, body}
}

func (p *Parser) parseDoWhile() ast.Stmt {
	pos := p.advance().Pos
	body := p.parseStmt()
	p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	p.expect(token.Semi)
	return &ast.DoWhile{ast.NewStmtBase(pos), body, cond}
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.advance().Pos
	p.expect(token.LParen)
	var init ast.Stmt
	if !p.at(token.Semi) {
		if isTypeStart(p.peek().Kind) {
			init = p.parseVarDecl() // consumes trailing semicolon
		} else {
			ipos := p.peek().Pos
			e := p.parseExpr()
			p.expect(token.Semi)
			init = &ast.ExprStmt{ast.NewStmtBase(ipos), e}
		}
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.at(token.Semi) {
		cond = p.parseExpr()
	}
	p.expect(token.Semi)
	var post ast.Stmt
	if !p.at(token.RParen) {
		ppos := p.peek().Pos
		e := p.parseExpr()
		post = &ast.ExprStmt{ast.NewStmtBase(ppos), e}
	}
	p.expect(token.RParen)
	body := p.parseStmt()
	return &ast.For{ast.NewStmtBase(pos), init, cond, post, body}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.advance().Pos
	var x ast.Expr
	if !p.at(token.Semi) {
		x = p.parseExpr()
	}
	p.expect(token.Semi)
	return &ast.Return{ast.NewStmtBase(pos), x}
}

// ---- Expressions ----
//
// Precedence climbing, C-style, lowest to highest:
//   assignment < logical-or < logical-and < bitwise-or < bitwise-xor <
//   bitwise-and < equality < relational < shift < additive <
//   multiplicative < unary < postfix < primary

func (p *Parser) parseExpr() ast.Expr { return p.parseAssign() }

func (p *Parser) parseAssign() ast.Expr {
	lhs := p.parseLogicalOr()
	if p.at(token.Assign) {
		pos := p.advance().Pos
		rhs := p.parseAssign()
		return &ast.Assign{ast.NewExprBase(pos), lhs, rhs}
	}
	return lhs
}

func (p *Parser) parseLogicalOr() ast.Expr {
	return p.parseBinLevel([]token.Kind{token.PipePipe}, []ast.BinOp{ast.BLogOr}, (*Parser).parseLogicalAnd)
}
func (p *Parser) parseLogicalAnd() ast.Expr {
	return p.parseBinLevel([]token.Kind{token.AmpAmp}, []ast.BinOp{ast.BLogAnd}, (*Parser).parseBitOr)
}
func (p *Parser) parseBitOr() ast.Expr {
	return p.parseBinLevel([]token.Kind{token.Pipe}, []ast.BinOp{ast.BOr}, (*Parser).parseBitXor)
}
func (p *Parser) parseBitXor() ast.Expr {
	return p.parseBinLevel([]token.Kind{token.Caret}, []ast.BinOp{ast.BXor}, (*Parser).parseBitAnd)
}
func (p *Parser) parseBitAnd() ast.Expr {
	return p.parseBinLevel([]token.Kind{token.Amp}, []ast.BinOp{ast.BAnd}, (*Parser).parseEquality)
}
func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinLevel([]token.Kind{token.Eq, token.Neq}, []ast.BinOp{ast.BEq, ast.BNeq}, (*Parser).parseRelational)
}
func (p *Parser) parseRelational() ast.Expr {
	return p.parseBinLevel(
		[]token.Kind{token.Lt, token.Gt, token.Leq, token.Geq},
		[]ast.BinOp{ast.BLt, ast.BGt, ast.BLeq, ast.BGeq},
		(*Parser).parseShift)
}
func (p *Parser) parseShift() ast.Expr {
	return p.parseBinLevel([]token.Kind{token.Shl, token.Shr}, []ast.BinOp{ast.BShl, ast.BShr}, (*Parser).parseAdditive)
}
func (p *Parser) parseAdditive() ast.Expr {
	return p.parseBinLevel([]token.Kind{token.Plus, token.Minus}, []ast.BinOp{ast.BAdd, ast.BSub}, (*Parser).parseMultiplicative)
}
func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseBinLevel(
		[]token.Kind{token.Star, token.Slash, token.Percent},
		[]ast.BinOp{ast.BMul, ast.BDiv, ast.BMod},
		(*Parser).parseUnary)
}

func (p *Parser) parseBinLevel(kinds []token.Kind, ops []ast.BinOp, next func(*Parser) ast.Expr) ast.Expr {
	lhs := next(p)
	for {
		matched := -1
		for i, k := range kinds {
			if p.at(k) {
				matched = i
				break
			}
		}
		if matched < 0 {
			return lhs
		}
		pos := p.advance().Pos
		rhs := next(p)
		lhs = &ast.Binary{ast.NewExprBase(pos), ops[matched], lhs, rhs}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.peek().Pos
	switch p.peek().Kind {
	case token.Minus:
		p.advance()
		return &ast.Unary{ast.NewExprBase(pos), ast.UNeg, p.parseUnary()}
	case token.Bang:
		p.advance()
		return &ast.Unary{ast.NewExprBase(pos), ast.UNot, p.parseUnary()}
	case token.Tilde:
		p.advance()
		return &ast.Unary{ast.NewExprBase(pos), ast.UBitNot, p.parseUnary()}
	case token.Amp:
		p.advance()
		return &ast.Unary{ast.NewExprBase(pos), ast.UAddrOf, p.parseUnary()}
	case token.Star:
		p.advance()
		return &ast.Unary{ast.NewExprBase(pos), ast.UDeref, p.parseUnary()}
	case token.Inc:
		p.advance()
		return &ast.Unary{ast.NewExprBase(pos), ast.UPreInc, p.parseUnary()}
	case token.Dec:
		p.advance()
		return &ast.Unary{ast.NewExprBase(pos), ast.UPreDec, p.parseUnary()}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		pos := p.peek().Pos
		switch p.peek().Kind {
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBracket)
			x = &ast.Index{ast.NewExprBase(pos), x, idx}
		case token.Dot:
			p.advance()
			name := p.expect(token.Ident).Text
			x = &ast.Member{ast.NewExprBase(pos), x, name}
		case token.Inc:
			p.advance()
			x = &ast.Unary{ast.NewExprBase(pos), ast.UPostInc, x}
		case token.Dec:
			p.advance()
			x = &ast.Unary{ast.NewExprBase(pos), ast.UPostDec, x}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.peek().Pos
	switch p.peek().Kind {
	case token.IntLit:
		t := p.advance()
		return &ast.IntLit{ast.NewExprBase(pos), int32(parseUint(t.Text))}
	case token.FloatLit:
		t := p.advance()
		return &ast.FloatLit{ast.NewExprBase(pos), parseFloat(t.Text)}
	case token.CharLit:
		t := p.advance()
		return &ast.CharLit{ast.NewExprBase(pos), []byte(t.Text)[0]}
	case token.StringLit:
		t := p.advance()
		return &ast.StringLit{ast.NewExprBase(pos), t.Text}
	case token.KwTrue:
		p.advance()
		return &ast.BoolLit{ast.NewExprBase(pos), true}
	case token.KwFalse:
		p.advance()
		return &ast.BoolLit{ast.NewExprBase(pos), false}
	case token.Ident:
		name := p.advance().Text
		if p.at(token.LParen) {
			p.advance()
			var args []ast.Expr
			for !p.at(token.RParen) {
				args = append(args, p.parseExpr())
				if p.at(token.Comma) {
					p.advance()
				}
			}
			p.expect(token.RParen)
			return &ast.Call{ast.NewExprBase(pos), name, args}
		}
		return &ast.Ident{ast.NewExprBase(pos), name}
	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RParen)
		return e
	default:
		p.errorf("unexpected token %s in expression", p.peek().Kind)
		p.advance()
		return &ast.IntLit{ast.NewExprBase(pos), 0}
	}
}

func parseFloat(s string) float32 {
	var intPart, fracPart uint64
	var fracDigits int
	seenDot := false
	for _, c := range s {
		if c == '.' {
			seenDot = true
			continue
		}
		d := uint64(c - '0')
		if !seenDot {
			intPart = intPart*10 + d
		} else {
			fracPart = fracPart*10 + d
			fracDigits++
		}
	}
	f := float32(intPart)
	if fracDigits > 0 {
		div := float32(1)
		for i := 0; i < fracDigits; i++ {
			div *= 10
		}
		f += float32(fracPart) / div
	}
	return f
}

