package ir

import (
	"fmt"
	"strings"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
)

// FormatStmt returns a one-line rendering of s with versioned names.
func FormatStmt(s Stmt) string {
	switch s := s.(type) {
	case *Assign:
		if s.Param {
			return fmt.Sprintf("%s = param", s.Dst)
		}
		return fmt.Sprintf("%s = %s", s.Dst, FormatExpr(s.Src, s.Uses))
	case *Branch:
		if !s.Conditional() {
			return fmt.Sprintf("br %s", s.Then)
		}
		return fmt.Sprintf("br %s, %s, %s", FormatExpr(s.Cond, s.Uses), s.Then, s.Else)
	case *Phi:
		return fmt.Sprintf("%s = phi %s", s.Dst, formatEdges(s.Edges))
	case *Eval:
		if s.Kind == EvalReturn {
			if s.X == nil {
				return "ret"
			}
			return "ret " + FormatExpr(s.X, s.Uses)
		}
		return FormatExpr(s.X, s.Uses)
	default:
		return "stmt <unknown>"
	}
}

func formatEdges(edges []PhiEdge) string {
	if len(edges) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(edges))
	for _, e := range edges {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Pred, e.Arg))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatExpr renders x, printing each identifier found in uses with its version.
func FormatExpr(x ast.Expression, uses []Use) string {
	versions := make(map[*ast.IdentifierExpr]Var, len(uses))
	for _, u := range uses {
		versions[u.Ident] = u.Var
	}
	var b strings.Builder
	writeExpr(&b, x, versions)
	return b.String()
}

func writeExpr(b *strings.Builder, x ast.Expression, versions map[*ast.IdentifierExpr]Var) {
	switch x := x.(type) {
	case nil:
		b.WriteString("<nil>")
	case *ast.BasicLit:
		switch x.Kind {
		case ast.StringLit:
			fmt.Fprintf(b, "%q", x.Value)
		case ast.CharLit:
			fmt.Fprintf(b, "'%s'", x.Value)
		default:
			b.WriteString(x.Value)
		}
	case *ast.IdentifierExpr:
		if v, ok := versions[x]; ok {
			b.WriteString(v.String())
			return
		}
		b.WriteString(x.Name)
	case *ast.BinaryExpr:
		writeOperand(b, x.X, versions)
		fmt.Fprintf(b, " %s ", x.Op)
		writeOperand(b, x.Y, versions)
	case *ast.UnaryExpr:
		b.WriteString(string(x.Op))
		writeOperand(b, x.X, versions)
	case *ast.CallExpr:
		b.WriteString(x.Fun.Name)
		b.WriteByte('(')
		for i, arg := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, arg, versions)
		}
		b.WriteByte(')')
	case *ast.ParenExpr:
		b.WriteByte('(')
		writeExpr(b, x.X, versions)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("ir: unexpected expression %T", x))
	}
}

// writeOperand parenthesizes nested operators so the rendering stays unambiguous.
func writeOperand(b *strings.Builder, x ast.Expression, versions map[*ast.IdentifierExpr]Var) {
	if _, ok := x.(*ast.BinaryExpr); ok {
		b.WriteByte('(')
		writeExpr(b, x, versions)
		b.WriteByte(')')
		return
	}
	writeExpr(b, x, versions)
}
