package gen

import (
	"fmt"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
)

// symbol is one declared variable. Name is the variable name the graph uses; it differs
// from the source spelling when an earlier declaration in the function had the same spelling.
type symbol struct {
	Name     string
	Decl     *ast.IdentifierExpr
	assigned bool
	firstUse *ast.IdentifierExpr
}

// scope holds the variables declared in one block
type scope struct {
	parent  *scope
	symbols map[string]*symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, symbols: make(map[string]*symbol)}
}

// declare adds a symbol; it returns the existing one when the name is taken in this scope.
func (s *scope) declare(spelling string, sym *symbol) (*symbol, bool) {
	if existing, ok := s.symbols[spelling]; ok {
		return existing, false
	}
	s.symbols[spelling] = sym
	return sym, true
}

// lookup finds a symbol in this scope or parent scopes
func (s *scope) lookup(spelling string) (*symbol, bool) {
	if sym, ok := s.symbols[spelling]; ok {
		return sym, true
	}
	if s.parent != nil {
		return s.parent.lookup(spelling)
	}
	return nil, false
}

// uniqueName returns spelling for its first declaration in a function and
// spelling.N for the N-th redeclaration. Identifiers cannot contain a dot.
func uniqueName(spelling string, seen map[string]int) string {
	n := seen[spelling]
	seen[spelling] = n + 1
	if n == 0 {
		return spelling
	}
	return fmt.Sprintf("%s.%d", spelling, n)
}
