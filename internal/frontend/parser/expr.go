package parser

import (
	"fmt"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/tokens"
)

// binaryLevels lists binary operators from lowest to highest precedence.
var binaryLevels = [][]tokens.TOKEN{
	{tokens.OR_TOKEN},
	{tokens.AND_TOKEN},
	{tokens.BIT_OR_TOKEN},
	{tokens.BIT_XOR_TOKEN},
	{tokens.BIT_AND_TOKEN},
	{tokens.DOUBLE_EQUAL_TOKEN, tokens.NOT_EQUAL_TOKEN},
	{tokens.LESS_TOKEN, tokens.LESS_EQUAL_TOKEN, tokens.GREATER_TOKEN, tokens.GREATER_EQUAL_TOKEN},
	{tokens.SHL_TOKEN, tokens.SHR_TOKEN},
	{tokens.PLUS_TOKEN, tokens.MINUS_TOKEN},
	{tokens.MUL_TOKEN, tokens.DIV_TOKEN, tokens.MOD_TOKEN},
}

// parseExpr parses an expression; nil means an error was reported.
func (p *Parser) parseExpr() ast.Expression {
	return p.parseBinary(0)
}

// parseBinary parses left-associative binary operators at the given precedence level.
func (p *Parser) parseBinary(level int) ast.Expression {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left := p.parseBinary(level + 1)
	if left == nil {
		return nil
	}
	for p.match(binaryLevels[level]...) {
		op := p.advance()
		right := p.parseBinary(level + 1)
		if right == nil {
			return nil
		}
		left = &ast.BinaryExpr{
			X:        left,
			Op:       op.Kind,
			Y:        right,
			Location: *source.Span(left.Loc(), right.Loc()),
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.match(tokens.MINUS_TOKEN, tokens.NOT_TOKEN) {
		op := p.advance()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.UnaryExpr{
			Op:       op.Kind,
			X:        x,
			Location: *source.NewLocation(p.filepath, op.Start, x.Loc().End),
		}
	}
	if p.match(tokens.PLUS_PLUS_TOKEN, tokens.MINUS_MINUS_TOKEN) {
		p.errorAt(p.peek(), diagnostics.ErrInvalidExpression,
			fmt.Sprintf("'%s' is a statement, not an expression", p.peek().Value), "")
		return nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.peek()
	loc := *source.NewLocation(p.filepath, tok.Start, tok.End)

	switch tok.Kind {
	case tokens.NUMBER_TOKEN:
		p.advance()
		kind := ast.IntLit
		for _, c := range tok.Value {
			if c == '.' {
				kind = ast.FloatLit
			}
		}
		return &ast.BasicLit{Kind: kind, Value: tok.Value, Location: loc}
	case tokens.STRING_TOKEN:
		p.advance()
		return &ast.BasicLit{Kind: ast.StringLit, Value: tok.Value, Location: loc}
	case tokens.CHAR_LIT:
		p.advance()
		return &ast.BasicLit{Kind: ast.CharLit, Value: tok.Value, Location: loc}
	case tokens.TRUE_TOKEN, tokens.FALSE_TOKEN:
		p.advance()
		return &ast.BasicLit{Kind: ast.BoolLit, Value: tok.Value, Location: loc}
	case tokens.IDENTIFIER_TOKEN:
		ident := p.parseIdentifier()
		if p.match(tokens.OPEN_PAREN) {
			return p.parseCallExpr(ident)
		}
		return ident
	case tokens.OPEN_PAREN:
		p.advance()
		x := p.parseExpr()
		if x == nil {
			return nil
		}
		if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
			return nil
		}
		return &ast.ParenExpr{X: x, Location: p.makeLocation(tok.Start)}
	}

	p.errorAt(tok, diagnostics.ErrInvalidExpression,
		fmt.Sprintf("expected expression, found %s", describe(tok)), "expected an expression")
	return nil
}

// parseCallExpr parses the argument list after a callee name.
func (p *Parser) parseCallExpr(fun *ast.IdentifierExpr) ast.Expression {
	p.advance() // (
	args := []ast.Expression{}
	if !p.match(tokens.CLOSE_PAREN) {
		for {
			arg := p.parseExpr()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.match(tokens.COMMA_TOKEN) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		return nil
	}
	return &ast.CallExpr{Fun: fun, Args: args, Location: p.makeLocation(fun.Start)}
}
