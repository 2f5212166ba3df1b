package ast

import (
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/tokens"
)

// LitKind classifies a BasicLit
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	CharLit
	StringLit
	BoolLit
)

// BasicLit is a literal value kept in its source spelling
type BasicLit struct {
	Kind  LitKind
	Value string
	source.Location
}

func (b *BasicLit) node()                 {}
func (b *BasicLit) expr()                 {}
func (b *BasicLit) Loc() *source.Location { return &b.Location }

// IdentifierExpr represents an identifier
type IdentifierExpr struct {
	Name string
	source.Location
}

func (i *IdentifierExpr) node()                 {}
func (i *IdentifierExpr) expr()                 {}
func (i *IdentifierExpr) Loc() *source.Location { return &i.Location }

// BinaryExpr represents a binary expression
type BinaryExpr struct {
	X  Expression   // left operand
	Op tokens.TOKEN // operator
	Y  Expression   // right operand
	source.Location
}

func (b *BinaryExpr) node()                 {}
func (b *BinaryExpr) expr()                 {}
func (b *BinaryExpr) Loc() *source.Location { return &b.Location }

// UnaryExpr represents a prefix unary expression (-x, !x)
type UnaryExpr struct {
	Op tokens.TOKEN
	X  Expression
	source.Location
}

func (u *UnaryExpr) node()                 {}
func (u *UnaryExpr) expr()                 {}
func (u *UnaryExpr) Loc() *source.Location { return &u.Location }

// CallExpr represents a function call expression. The callee is a name, never a variable use.
type CallExpr struct {
	Fun  *IdentifierExpr
	Args []Expression
	source.Location
}

func (c *CallExpr) node()                 {}
func (c *CallExpr) expr()                 {}
func (c *CallExpr) Loc() *source.Location { return &c.Location }

// ParenExpr represents a parenthesized expression
type ParenExpr struct {
	X Expression
	source.Location
}

func (p *ParenExpr) node()                 {}
func (p *ParenExpr) expr()                 {}
func (p *ParenExpr) Loc() *source.Location { return &p.Location }
