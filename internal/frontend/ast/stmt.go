package ast

import (
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

// Block is a braced statement list
type Block struct {
	Nodes []Statement
	source.Location
}

func (b *Block) node()                 {}
func (b *Block) stmt()                 {}
func (b *Block) Loc() *source.Location { return &b.Location }

// VarDecl declares a variable with an optional initializer: int a = 1;
type VarDecl struct {
	Type  string
	Name  *IdentifierExpr
	Value Expression // can be nil
	source.Location
}

func (v *VarDecl) node()                 {}
func (v *VarDecl) stmt()                 {}
func (v *VarDecl) Loc() *source.Location { return &v.Location }

// AssignStmt represents an assignment statement.
// Compound forms (a += b, a++) are desugared by the parser into a = a op b.
type AssignStmt struct {
	Lhs *IdentifierExpr
	Rhs Expression
	source.Location
}

func (a *AssignStmt) node()                 {}
func (a *AssignStmt) stmt()                 {}
func (a *AssignStmt) Loc() *source.Location { return &a.Location }

// IfStmt represents an if statement; Else is nil, a *Block or an *IfStmt
type IfStmt struct {
	Cond Expression
	Body *Block
	Else Statement
	source.Location
}

func (i *IfStmt) node()                 {}
func (i *IfStmt) stmt()                 {}
func (i *IfStmt) Loc() *source.Location { return &i.Location }

// WhileStmt represents a while loop
type WhileStmt struct {
	Cond Expression
	Body *Block
	source.Location
}

func (w *WhileStmt) node()                 {}
func (w *WhileStmt) stmt()                 {}
func (w *WhileStmt) Loc() *source.Location { return &w.Location }

// DoWhileStmt represents a do { ... } while (cond); loop
type DoWhileStmt struct {
	Body *Block
	Cond Expression
	source.Location
}

func (d *DoWhileStmt) node()                 {}
func (d *DoWhileStmt) stmt()                 {}
func (d *DoWhileStmt) Loc() *source.Location { return &d.Location }

// ForStmt represents for (init; cond; incr) body. Each header part may be nil.
type ForStmt struct {
	Init Statement
	Cond Expression
	Incr Statement
	Body *Block
	source.Location
}

func (f *ForStmt) node()                 {}
func (f *ForStmt) stmt()                 {}
func (f *ForStmt) Loc() *source.Location { return &f.Location }

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Result Expression // can be nil for void functions
	source.Location
}

func (r *ReturnStmt) node()                 {}
func (r *ReturnStmt) stmt()                 {}
func (r *ReturnStmt) Loc() *source.Location { return &r.Location }

// BreakStmt represents a break statement
type BreakStmt struct {
	source.Location
}

func (b *BreakStmt) node()                 {}
func (b *BreakStmt) stmt()                 {}
func (b *BreakStmt) Loc() *source.Location { return &b.Location }

// ContinueStmt represents a continue statement
type ContinueStmt struct {
	source.Location
}

func (c *ContinueStmt) node()                 {}
func (c *ContinueStmt) stmt()                 {}
func (c *ContinueStmt) Loc() *source.Location { return &c.Location }

// ExprStmt represents an expression used as a statement
type ExprStmt struct {
	X Expression
	source.Location
}

func (e *ExprStmt) node()                 {}
func (e *ExprStmt) stmt()                 {}
func (e *ExprStmt) Loc() *source.Location { return &e.Location }
