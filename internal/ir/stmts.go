package ir

import (
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

// Stmt is the closed set of statements a basic block holds.
type Stmt interface {
	irStmt()
	Loc() *source.Location
}

// Assign defines Dst. Src is nil for function parameters.
type Assign struct {
	Dst      Var
	Src      ast.Expression
	Uses     []Use
	Param    bool
	Location source.Location
}

func (a *Assign) irStmt()               {}
func (a *Assign) Loc() *source.Location { return &a.Location }

// Branch transfers control. A nil Cond is an unconditional jump to Then.
type Branch struct {
	Cond     ast.Expression
	Then     BlockID
	Else     BlockID
	Uses     []Use
	Location source.Location
}

func (b *Branch) irStmt()               {}
func (b *Branch) Loc() *source.Location { return &b.Location }

// Conditional reports whether the branch has two targets.
func (b *Branch) Conditional() bool {
	return b.Cond != nil
}

// PhiEdge is the value a phi takes when control arrives from Pred.
type PhiEdge struct {
	Pred BlockID
	Arg  Var
}

// Phi merges the versions of one variable flowing in from each predecessor.
type Phi struct {
	Dst      Var
	Edges    []PhiEdge
	Location source.Location
}

func (p *Phi) irStmt()               {}
func (p *Phi) Loc() *source.Location { return &p.Location }

// Edge returns the edge for pred, or nil.
func (p *Phi) Edge(pred BlockID) *PhiEdge {
	for i := range p.Edges {
		if p.Edges[i].Pred == pred {
			return &p.Edges[i]
		}
	}
	return nil
}

type EvalKind int

const (
	EvalExpr EvalKind = iota
	EvalReturn
)

// Eval carries a statement the core passes through untouched apart from its uses:
// expression statements and returns.
type Eval struct {
	Kind     EvalKind
	X        ast.Expression // nil for a bare return
	Uses     []Use
	Location source.Location
}

func (e *Eval) irStmt()               {}
func (e *Eval) Loc() *source.Location { return &e.Location }

// NewAssign creates the definition name = src.
func NewAssign(name string, src ast.Expression, loc source.Location) *Assign {
	return &Assign{
		Dst:      Var{Name: name, Version: NoVersion},
		Src:      src,
		Uses:     CollectUses(src),
		Location: loc,
	}
}

// NewParam creates the entry definition of a function parameter.
func NewParam(name string, loc source.Location) *Assign {
	return &Assign{
		Dst:      Var{Name: name, Version: NoVersion},
		Param:    true,
		Location: loc,
	}
}

// NewBranch creates a conditional branch.
func NewBranch(cond ast.Expression, then, els BlockID, loc source.Location) *Branch {
	return &Branch{Cond: cond, Then: then, Else: els, Uses: CollectUses(cond), Location: loc}
}

// NewJump creates an unconditional branch.
func NewJump(target BlockID, loc source.Location) *Branch {
	return &Branch{Then: target, Location: loc}
}

// NewPhi creates a phi for name with one placeholder edge per predecessor.
func NewPhi(name string, preds []BlockID, loc source.Location) *Phi {
	edges := make([]PhiEdge, len(preds))
	for i, pred := range preds {
		edges[i] = PhiEdge{Pred: pred, Arg: Var{Name: name, Version: NoVersion}}
	}
	return &Phi{Dst: Var{Name: name, Version: NoVersion}, Edges: edges, Location: loc}
}

// NewEval creates an expression statement or a return.
func NewEval(kind EvalKind, x ast.Expression, loc source.Location) *Eval {
	return &Eval{Kind: kind, X: x, Uses: CollectUses(x), Location: loc}
}

// UsesOf returns the rewritable use slots of s. Phi arguments are not uses here.
func UsesOf(s Stmt) []Use {
	switch s := s.(type) {
	case *Assign:
		return s.Uses
	case *Branch:
		return s.Uses
	case *Eval:
		return s.Uses
	default:
		return nil
	}
}

// Defines returns the variable s defines, if any.
func Defines(s Stmt) (Var, bool) {
	switch s := s.(type) {
	case *Assign:
		return s.Dst, true
	case *Phi:
		return s.Dst, true
	default:
		return Var{}, false
	}
}
