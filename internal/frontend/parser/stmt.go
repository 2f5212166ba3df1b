package parser

import (
	"fmt"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/tokens"
)

// parseBlock parses '{' stmt* '}'
func (p *Parser) parseBlock() *ast.Block {
	start := p.peek().Start
	p.expect(tokens.OPEN_CURLY)

	nodes := []ast.Statement{}
	for !p.match(tokens.CLOSE_CURLY) && !p.isAtEnd() {
		before := p.current
		if stmt := p.parseStmt(); stmt != nil {
			nodes = append(nodes, stmt)
		}
		if p.current == before {
			p.advance()
		}
	}
	p.expect(tokens.CLOSE_CURLY)

	return &ast.Block{
		Nodes:    nodes,
		Location: p.makeLocation(start),
	}
}

// parseStmt parses any statement that may appear inside a block.
func (p *Parser) parseStmt() ast.Statement {
	tok := p.peek()

	switch tok.Kind {
	case tokens.OPEN_CURLY:
		return p.parseBlock()
	case tokens.IF_TOKEN:
		return p.parseIfStmt()
	case tokens.WHILE_TOKEN:
		return p.parseWhileStmt()
	case tokens.DO_TOKEN:
		return p.parseDoWhileStmt()
	case tokens.FOR_TOKEN:
		return p.parseForStmt()
	case tokens.RETURN_TOKEN:
		return p.parseReturnStmt()
	case tokens.BREAK_TOKEN:
		p.advance()
		stmt := &ast.BreakStmt{Location: p.makeLocation(tok.Start)}
		p.expectSemicolon()
		return stmt
	case tokens.CONTINUE_TOKEN:
		p.advance()
		stmt := &ast.ContinueStmt{Location: p.makeLocation(tok.Start)}
		p.expectSemicolon()
		return stmt
	case tokens.SEMICOLON_TOKEN:
		p.advance()
		return nil
	}

	stmt := p.parseSimpleStmt()
	if stmt == nil {
		p.synchronize()
		return nil
	}
	p.expectSemicolon()
	return stmt
}

func (p *Parser) expectSemicolon() {
	if _, ok := p.expect(tokens.SEMICOLON_TOKEN); !ok {
		p.synchronize()
	}
}

// parseSimpleStmt parses a declaration, an assignment or an expression statement,
// without the trailing ';'. It is shared with for-loop headers.
func (p *Parser) parseSimpleStmt() ast.Statement {
	tok := p.peek()

	if tokens.IsType(tok.Kind) {
		return p.parseVarDecl()
	}

	// ++x / --x
	if tok.Kind == tokens.PLUS_PLUS_TOKEN || tok.Kind == tokens.MINUS_MINUS_TOKEN {
		p.advance()
		name := p.parseIdentifier()
		if name == nil {
			return nil
		}
		return p.incDec(name, tok.Kind, tok.Start)
	}

	if tok.Kind == tokens.IDENTIFIER_TOKEN {
		switch next := p.next().Kind; {
		case next == tokens.EQUALS_TOKEN:
			name := p.parseIdentifier()
			p.advance()
			rhs := p.parseExpr()
			if rhs == nil {
				return nil
			}
			return &ast.AssignStmt{Lhs: name, Rhs: rhs, Location: p.makeLocation(tok.Start)}
		case next == tokens.PLUS_PLUS_TOKEN || next == tokens.MINUS_MINUS_TOKEN:
			name := p.parseIdentifier()
			op := p.advance()
			return p.incDec(name, op.Kind, tok.Start)
		default:
			if op, ok := tokens.CompoundOp(next); ok {
				name := p.parseIdentifier()
				p.advance()
				rhs := p.parseExpr()
				if rhs == nil {
					return nil
				}
				return p.compound(name, op, rhs, tok.Start)
			}
		}
	}

	x := p.parseExpr()
	if x == nil {
		return nil
	}
	if p.match(tokens.EQUALS_TOKEN) {
		p.errorAt(p.peek(), diagnostics.ErrInvalidAssignment, "cannot assign to expression", "left side must be a variable")
		return nil
	}
	return &ast.ExprStmt{X: x, Location: p.makeLocation(tok.Start)}
}

// compound desugars name op= rhs into name = name op rhs.
func (p *Parser) compound(name *ast.IdentifierExpr, op tokens.TOKEN, rhs ast.Expression, start source.Position) *ast.AssignStmt {
	loc := p.makeLocation(start)
	read := &ast.IdentifierExpr{Name: name.Name, Location: name.Location}
	return &ast.AssignStmt{
		Lhs:      name,
		Rhs:      &ast.BinaryExpr{X: read, Op: op, Y: rhs, Location: loc},
		Location: loc,
	}
}

// incDec desugars x++ / ++x / x-- / --x into x = x +/- 1.
func (p *Parser) incDec(name *ast.IdentifierExpr, kind tokens.TOKEN, start source.Position) *ast.AssignStmt {
	op := tokens.PLUS_TOKEN
	if kind == tokens.MINUS_MINUS_TOKEN {
		op = tokens.MINUS_TOKEN
	}
	one := &ast.BasicLit{Kind: ast.IntLit, Value: "1", Location: name.Location}
	return p.compound(name, op, one, start)
}

// parseVarDecl parses: type name ('=' expr)?
func (p *Parser) parseVarDecl() ast.Statement {
	start := p.peek().Start
	typ := p.advance()
	if typ.Kind == tokens.VOID_TOKEN {
		p.errorAt(typ, diagnostics.ErrMissingType, "variable cannot have type void", "invalid type")
	}
	name := p.parseIdentifier()
	if name == nil {
		return nil
	}

	decl := &ast.VarDecl{Type: typ.Value, Name: name}
	if p.match(tokens.EQUALS_TOKEN) {
		p.advance()
		decl.Value = p.parseExpr()
		if decl.Value == nil {
			return nil
		}
	}
	decl.Location = p.makeLocation(start)
	return decl
}

func (p *Parser) parseCondition() ast.Expression {
	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		return nil
	}
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}
	return cond
}

// parseIfStmt parses: if '(' expr ')' block (else (if | block))?
func (p *Parser) parseIfStmt() ast.Statement {
	start := p.advance().Start

	cond := p.parseCondition()
	if cond == nil {
		p.synchronize()
		return nil
	}
	body := p.parseBlock()

	stmt := &ast.IfStmt{Cond: cond, Body: body}
	if p.match(tokens.ELSE_TOKEN) {
		p.advance()
		if p.match(tokens.IF_TOKEN) {
			stmt.Else = p.parseIfStmt()
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	stmt.Location = p.makeLocation(start)
	return stmt
}

// parseWhileStmt parses: while '(' expr ')' block
func (p *Parser) parseWhileStmt() ast.Statement {
	start := p.advance().Start

	cond := p.parseCondition()
	if cond == nil {
		p.synchronize()
		return nil
	}
	body := p.parseBlock()

	return &ast.WhileStmt{Cond: cond, Body: body, Location: p.makeLocation(start)}
}

// parseDoWhileStmt parses: do block while '(' expr ')' ';'
func (p *Parser) parseDoWhileStmt() ast.Statement {
	start := p.advance().Start

	body := p.parseBlock()
	if _, ok := p.expect(tokens.WHILE_TOKEN); !ok {
		p.synchronize()
		return nil
	}
	cond := p.parseCondition()
	if cond == nil {
		p.synchronize()
		return nil
	}
	stmt := &ast.DoWhileStmt{Body: body, Cond: cond, Location: p.makeLocation(start)}
	p.expectSemicolon()
	return stmt
}

// parseForStmt parses: for '(' simple? ';' expr? ';' simple? ')' block
func (p *Parser) parseForStmt() ast.Statement {
	start := p.advance().Start

	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		p.synchronize()
		return nil
	}

	stmt := &ast.ForStmt{}
	if !p.match(tokens.SEMICOLON_TOKEN) {
		if stmt.Init = p.parseSimpleStmt(); stmt.Init == nil {
			p.synchronize()
			return nil
		}
	}
	if _, ok := p.expect(tokens.SEMICOLON_TOKEN); !ok {
		p.synchronize()
		return nil
	}
	if !p.match(tokens.SEMICOLON_TOKEN) {
		if stmt.Cond = p.parseExpr(); stmt.Cond == nil {
			p.synchronize()
			return nil
		}
	}
	if _, ok := p.expect(tokens.SEMICOLON_TOKEN); !ok {
		p.synchronize()
		return nil
	}
	if !p.match(tokens.CLOSE_PAREN) {
		incr := p.parseSimpleStmt()
		if incr == nil {
			p.synchronize()
			return nil
		}
		if _, ok := incr.(*ast.VarDecl); ok {
			p.errorAt(p.previous(), diagnostics.ErrInvalidStatement, "declaration not allowed in for increment", "")
		}
		stmt.Incr = incr
	}
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		p.synchronize()
		return nil
	}

	stmt.Body = p.parseBlock()
	stmt.Location = p.makeLocation(start)
	return stmt
}

// parseReturnStmt parses: return expr? ';'
func (p *Parser) parseReturnStmt() ast.Statement {
	start := p.advance().Start

	stmt := &ast.ReturnStmt{}
	if !p.match(tokens.SEMICOLON_TOKEN) {
		stmt.Result = p.parseExpr()
		if stmt.Result == nil {
			p.synchronize()
			return nil
		}
	}
	stmt.Location = p.makeLocation(start)
	p.expectSemicolon()
	return stmt
}

func describe(tok tokens.Token) string {
	if tok.Kind == tokens.EOF_TOKEN {
		return "end of file"
	}
	return fmt.Sprintf("'%s'", tok.Value)
}
