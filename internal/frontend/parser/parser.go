package parser

import (
	"fmt"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/tokens"
)

// Parser holds temporary state during parsing of a single file.
type Parser struct {
	tokens      []tokens.Token
	current     int // current position in tokens
	diagnostics *diagnostics.DiagnosticBag
	filepath    string
}

// Parse builds a module from a token stream. Syntax errors are reported to diag;
// the returned module holds every function that could be parsed.
func Parse(toks []tokens.Token, filepath string, diag *diagnostics.DiagnosticBag) *ast.Module {
	if len(toks) == 0 || toks[len(toks)-1].Kind != tokens.EOF_TOKEN {
		var end source.Position
		if len(toks) > 0 {
			end = toks[len(toks)-1].End
		}
		toks = append(toks, tokens.NewToken(tokens.EOF_TOKEN, "end of file", end, end))
	}

	parser := &Parser{
		tokens:      toks,
		current:     0,
		diagnostics: diag,
		filepath:    filepath,
	}

	return parser.parseModule()
}

// parseModule parses the entire module (all top-level function declarations)
func (p *Parser) parseModule() *ast.Module {
	start := p.peek().Start
	module := &ast.Module{
		FullPath: p.filepath,
		Funcs:    []*ast.FuncDecl{},
	}

	seen := make(map[string]*ast.FuncDecl)
	for !p.isAtEnd() {
		before := p.current
		fn := p.parseFuncDecl()
		if fn != nil {
			if prev, ok := seen[fn.Name.Name]; ok {
				p.diagnostics.Add(
					diagnostics.NewError(fmt.Sprintf("function '%s' redeclared", fn.Name.Name)).
						WithCode(diagnostics.ErrDuplicateFunction).
						WithPrimaryLabel(fn.Name.Loc(), "redeclared here").
						WithSecondaryLabel(prev.Name.Loc(), "first declared here"),
				)
			} else {
				seen[fn.Name.Name] = fn
				module.Funcs = append(module.Funcs, fn)
			}
		}
		if p.current == before {
			// no progress: drop the offending token
			p.advance()
		}
	}

	module.Location = p.makeLocation(start)
	return module
}

// parseFuncDecl parses: type name '(' params ')' block
func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	start := p.peek().Start
	if !tokens.IsType(p.peek().Kind) {
		p.errorAt(p.peek(), diagnostics.ErrMissingType,
			fmt.Sprintf("expected function declaration, found '%s'", p.peek().Value), "expected a return type")
		p.synchronizeTopLevel()
		return nil
	}
	result := p.advance().Value

	name := p.parseIdentifier()
	if name == nil {
		p.synchronizeTopLevel()
		return nil
	}

	if _, ok := p.expect(tokens.OPEN_PAREN); !ok {
		p.synchronizeTopLevel()
		return nil
	}
	params := p.parseParams()
	if _, ok := p.expect(tokens.CLOSE_PAREN); !ok {
		p.synchronizeTopLevel()
		return nil
	}

	if !p.match(tokens.OPEN_CURLY) {
		p.errorAt(p.peek(), diagnostics.ErrExpectedToken, "expected function body", "expected '{'")
		p.synchronizeTopLevel()
		return nil
	}
	body := p.parseBlock()

	return &ast.FuncDecl{
		Result:   result,
		Name:     name,
		Params:   params,
		Body:     body,
		Location: p.makeLocation(start),
	}
}

func (p *Parser) parseParams() []*ast.Param {
	params := []*ast.Param{}
	if p.match(tokens.CLOSE_PAREN) {
		return params
	}
	for {
		start := p.peek().Start
		if !tokens.IsType(p.peek().Kind) {
			p.errorAt(p.peek(), diagnostics.ErrMissingType, "expected parameter type", "expected a type")
			return params
		}
		typ := p.advance().Value
		name := p.parseIdentifier()
		if name == nil {
			return params
		}
		params = append(params, &ast.Param{Type: typ, Name: name, Location: p.makeLocation(start)})
		if !p.match(tokens.COMMA_TOKEN) {
			return params
		}
		p.advance()
	}
}

// parseIdentifier consumes an identifier or reports an error and returns nil.
func (p *Parser) parseIdentifier() *ast.IdentifierExpr {
	tok := p.peek()
	if tok.Kind != tokens.IDENTIFIER_TOKEN {
		p.errorAt(tok, diagnostics.ErrMissingIdentifier,
			fmt.Sprintf("expected identifier, found '%s'", tok.Value), "expected a name")
		return nil
	}
	p.advance()
	return &ast.IdentifierExpr{
		Name:     tok.Value,
		Location: *source.NewLocation(p.filepath, tok.Start, tok.End),
	}
}

// synchronizeTopLevel skips to the next token that can start a function.
func (p *Parser) synchronizeTopLevel() {
	depth := 0
	for !p.isAtEnd() {
		switch p.peek().Kind {
		case tokens.OPEN_CURLY:
			depth++
		case tokens.CLOSE_CURLY:
			depth--
			if depth <= 0 {
				p.advance()
				return
			}
		default:
			if depth == 0 && tokens.IsType(p.peek().Kind) {
				return
			}
		}
		p.advance()
	}
}

// synchronize skips tokens until just after the next ';' or before a '}' of the current block.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		switch p.peek().Kind {
		case tokens.SEMICOLON_TOKEN:
			p.advance()
			return
		case tokens.CLOSE_CURLY:
			return
		}
		p.advance()
	}
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == tokens.EOF_TOKEN
}

func (p *Parser) peek() tokens.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) next() tokens.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+1]
}

func (p *Parser) previous() tokens.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() tokens.Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

func (p *Parser) match(kinds ...tokens.TOKEN) bool {
	for _, kind := range kinds {
		if p.peek().Kind == kind {
			return true
		}
	}
	return false
}

// expect consumes a token of the given kind or reports an error without consuming.
func (p *Parser) expect(kind tokens.TOKEN) (tokens.Token, bool) {
	if p.match(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.errorAt(tok, diagnostics.ErrExpectedToken,
		fmt.Sprintf("unexpected token '%s', expected '%s'", tok.Value, kind),
		fmt.Sprintf("expected '%s'", kind))
	return tok, false
}

func (p *Parser) errorAt(tok tokens.Token, code, msg, label string) {
	end := tok.End
	if end == tok.Start {
		end.Column++
	}
	p.diagnostics.Add(
		diagnostics.NewError(msg).
			WithCode(code).
			WithPrimaryLabel(source.NewLocation(p.filepath, tok.Start, end), label),
	)
}

func (p *Parser) makeLocation(start source.Position) source.Location {
	return *source.NewLocation(p.filepath, start, p.previous().End)
}
