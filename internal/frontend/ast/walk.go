package ast

import "fmt"

// Inspect traverses an expression in depth-first order, calling f for every node.
// If f returns false the children of that node are skipped.
// The callee name of a CallExpr is not visited: it names a function, not a value.
func Inspect(x Expression, f func(Expression) bool) {
	if x == nil || !f(x) {
		return
	}
	switch n := x.(type) {
	case *BasicLit, *IdentifierExpr:
	case *BinaryExpr:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *UnaryExpr:
		Inspect(n.X, f)
	case *CallExpr:
		for _, arg := range n.Args {
			Inspect(arg, f)
		}
	case *ParenExpr:
		Inspect(n.X, f)
	default:
		panic(fmt.Sprintf("ast.Inspect: unexpected expression %T", x))
	}
}

// Identifiers returns the identifier occurrences of x that read a variable, left to right.
func Identifiers(x Expression) []*IdentifierExpr {
	var idents []*IdentifierExpr
	Inspect(x, func(e Expression) bool {
		if id, ok := e.(*IdentifierExpr); ok {
			idents = append(idents, id)
		}
		return true
	})
	return idents
}
