package ast

import (
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

// Node is the base interface for all AST nodes.
// The node set is closed: only types in this package implement it.
type Node interface {
	Loc() *source.Location
	node()
}

// Expression represents any node that produces a value
type Expression interface {
	Node
	expr()
}

// Statement represents any node that performs an action
type Statement interface {
	Node
	stmt()
}

// Module represents one weak source file (pure syntax tree)
type Module struct {
	FullPath string
	Funcs    []*FuncDecl
	source.Location
}

func (m *Module) node()                 {}
func (m *Module) Loc() *source.Location { return &m.Location }

// Func returns the function declared with name, or nil.
func (m *Module) Func(name string) *FuncDecl {
	for _, fn := range m.Funcs {
		if fn.Name != nil && fn.Name.Name == name {
			return fn
		}
	}
	return nil
}

// Param is one function parameter
type Param struct {
	Type string
	Name *IdentifierExpr
	source.Location
}

func (p *Param) node()                 {}
func (p *Param) Loc() *source.Location { return &p.Location }

// FuncDecl is a function declaration with its body
type FuncDecl struct {
	Result string // return type name
	Name   *IdentifierExpr
	Params []*Param
	Body   *Block
	source.Location
}

func (f *FuncDecl) node()                 {}
func (f *FuncDecl) Loc() *source.Location { return &f.Location }
