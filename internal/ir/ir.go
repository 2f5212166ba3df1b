package ir

import (
	"fmt"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
)

// BlockID identifies a basic block within a function. IDs are 1-based.
type BlockID uint32

const InvalidBlock BlockID = 0

func (id BlockID) String() string {
	if id == InvalidBlock {
		return "b<invalid>"
	}
	return fmt.Sprintf("b%d", id)
}

const (
	NoVersion = -1 // not renamed yet
	Undef     = -2 // phi edge without a reaching definition
)

// Var is a variable name paired with its SSA version.
type Var struct {
	Name    string
	Version int
}

// Versioned reports whether renaming assigned a real version.
func (v Var) Versioned() bool {
	return v.Version >= 0
}

func (v Var) String() string {
	switch v.Version {
	case NoVersion:
		return v.Name
	case Undef:
		return "undef"
	default:
		return fmt.Sprintf("%s#%d", v.Name, v.Version)
	}
}

// Use is one read of a variable inside a borrowed AST expression.
// The identifier node is never modified; the version lives here.
type Use struct {
	Ident *ast.IdentifierExpr
	Var   Var
}

// CollectUses returns an unversioned Use for every variable read in x, left to right.
func CollectUses(x ast.Expression) []Use {
	idents := ast.Identifiers(x)
	if len(idents) == 0 {
		return nil
	}
	uses := make([]Use, 0, len(idents))
	for _, ident := range idents {
		uses = append(uses, Use{Ident: ident, Var: Var{Name: ident.Name, Version: NoVersion}})
	}
	return uses
}
