package parser

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/lexer"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/tokens"
)

func parse(t *testing.T, src string) (*ast.Module, *diagnostics.DiagnosticBag) {
	t.Helper()
	bag := diagnostics.NewDiagnosticBag("test.wk", src)
	toks := lexer.New("test.wk", src, bag).Tokenize(nil)
	return Parse(toks, "test.wk", bag), bag
}

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", bag.EmitAllToString())
	}
	return mod
}

func body(t *testing.T, src string) []ast.Statement {
	t.Helper()
	mod := parseOK(t, "void f(int p) {"+src+"}")
	assert.Assert(t, is.Len(mod.Funcs, 1))
	return mod.Funcs[0].Body.Nodes
}

func TestParseFunctionSignature(t *testing.T) {
	mod := parseOK(t, `int add(int a, float b) { return a; } void g() {}`)

	assert.Assert(t, is.Len(mod.Funcs, 2))
	add := mod.Func("add")
	assert.Assert(t, add != nil)
	assert.Equal(t, add.Result, "int")
	assert.Assert(t, is.Len(add.Params, 2))
	assert.Equal(t, add.Params[0].Name.Name, "a")
	assert.Equal(t, add.Params[1].Type, "float")
	assert.Equal(t, add.Name.Start.Line, 1)
	assert.Equal(t, add.Name.Start.Column, 5)

	g := mod.Func("g")
	assert.Assert(t, g != nil)
	assert.Assert(t, is.Len(g.Params, 0))
	assert.Assert(t, is.Len(g.Body.Nodes, 0))
}

func TestParseStatements(t *testing.T) {
	stmts := body(t, `
		int a = 1;
		int b;
		a = b;
		if (a < 2) { b = 1; } else if (a > 3) { b = 2; } else { b = 3; }
		while (a) { break; }
		do { continue; } while (b != 0);
		for (int i = 0; i < 10; i++) { }
		for (;;) { }
		f(a, 2);
		return a;
	`)

	assert.Assert(t, is.Len(stmts, 10))

	decl, ok := stmts[0].(*ast.VarDecl)
	assert.Assert(t, ok)
	assert.Equal(t, decl.Name.Name, "a")
	assert.Assert(t, decl.Value != nil)

	decl, ok = stmts[1].(*ast.VarDecl)
	assert.Assert(t, ok)
	assert.Assert(t, decl.Value == nil)

	_, ok = stmts[2].(*ast.AssignStmt)
	assert.Assert(t, ok)

	ifs, ok := stmts[3].(*ast.IfStmt)
	assert.Assert(t, ok)
	elif, ok := ifs.Else.(*ast.IfStmt)
	assert.Assert(t, ok)
	_, ok = elif.Else.(*ast.Block)
	assert.Assert(t, ok)

	loop, ok := stmts[4].(*ast.WhileStmt)
	assert.Assert(t, ok)
	_, ok = loop.Body.Nodes[0].(*ast.BreakStmt)
	assert.Assert(t, ok)

	do, ok := stmts[5].(*ast.DoWhileStmt)
	assert.Assert(t, ok)
	_, ok = do.Body.Nodes[0].(*ast.ContinueStmt)
	assert.Assert(t, ok)

	forLoop, ok := stmts[6].(*ast.ForStmt)
	assert.Assert(t, ok)
	assert.Assert(t, forLoop.Init != nil)
	assert.Assert(t, forLoop.Cond != nil)
	assert.Assert(t, forLoop.Incr != nil)

	empty, ok := stmts[7].(*ast.ForStmt)
	assert.Assert(t, ok)
	assert.Assert(t, empty.Init == nil)
	assert.Assert(t, empty.Cond == nil)
	assert.Assert(t, empty.Incr == nil)

	call, ok := stmts[8].(*ast.ExprStmt)
	assert.Assert(t, ok)
	assert.Assert(t, is.Len(call.X.(*ast.CallExpr).Args, 2))

	ret, ok := stmts[9].(*ast.ReturnStmt)
	assert.Assert(t, ok)
	assert.Equal(t, ret.Result.(*ast.IdentifierExpr).Name, "a")
}

func TestCompoundAssignmentIsDesugared(t *testing.T) {
	tests := []struct {
		src string
		op  tokens.TOKEN
	}{
		{"p += 2;", tokens.PLUS_TOKEN},
		{"p -= 2;", tokens.MINUS_TOKEN},
		{"p *= 2;", tokens.MUL_TOKEN},
		{"p /= 2;", tokens.DIV_TOKEN},
		{"p %= 2;", tokens.MOD_TOKEN},
		{"p++;", tokens.PLUS_TOKEN},
		{"++p;", tokens.PLUS_TOKEN},
		{"p--;", tokens.MINUS_TOKEN},
		{"--p;", tokens.MINUS_TOKEN},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmts := body(t, tt.src)
			assert.Assert(t, is.Len(stmts, 1))

			assign, ok := stmts[0].(*ast.AssignStmt)
			assert.Assert(t, ok, "got %T", stmts[0])
			assert.Equal(t, assign.Lhs.Name, "p")

			bin, ok := assign.Rhs.(*ast.BinaryExpr)
			assert.Assert(t, ok)
			assert.Equal(t, bin.Op, tt.op)

			read, ok := bin.X.(*ast.IdentifierExpr)
			assert.Assert(t, ok)
			assert.Equal(t, read.Name, "p")
			// the read and the write are distinct nodes
			assert.Assert(t, read != assign.Lhs)
		})
	}
}

func TestBinaryPrecedence(t *testing.T) {
	stmts := body(t, "p = 1 + 2 * 3 < 4 && !p || p == 5;")
	assign := stmts[0].(*ast.AssignStmt)

	or, ok := assign.Rhs.(*ast.BinaryExpr)
	assert.Assert(t, ok)
	assert.Equal(t, or.Op, tokens.OR_TOKEN)

	and := or.X.(*ast.BinaryExpr)
	assert.Equal(t, and.Op, tokens.AND_TOKEN)

	less := and.X.(*ast.BinaryExpr)
	assert.Equal(t, less.Op, tokens.LESS_TOKEN)

	plus := less.X.(*ast.BinaryExpr)
	assert.Equal(t, plus.Op, tokens.PLUS_TOKEN)
	mul := plus.Y.(*ast.BinaryExpr)
	assert.Equal(t, mul.Op, tokens.MUL_TOKEN)

	not := and.Y.(*ast.UnaryExpr)
	assert.Equal(t, not.Op, tokens.NOT_TOKEN)

	eq := or.Y.(*ast.BinaryExpr)
	assert.Equal(t, eq.Op, tokens.DOUBLE_EQUAL_TOKEN)
}

func TestLeftAssociativity(t *testing.T) {
	stmts := body(t, "p = 1 - 2 - 3;")
	outer := stmts[0].(*ast.AssignStmt).Rhs.(*ast.BinaryExpr)
	inner, ok := outer.X.(*ast.BinaryExpr)
	assert.Assert(t, ok)
	assert.Equal(t, inner.Op, tokens.MINUS_TOKEN)
	assert.Equal(t, outer.Y.(*ast.BasicLit).Value, "3")
}

func TestLiteralKinds(t *testing.T) {
	stmts := body(t, "f(1, 2.5, true, 'c');")
	args := stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr).Args

	kinds := []ast.LitKind{ast.IntLit, ast.FloatLit, ast.BoolLit, ast.CharLit}
	assert.Assert(t, is.Len(args, len(kinds)))
	for i, kind := range kinds {
		assert.Equal(t, args[i].(*ast.BasicLit).Kind, kind)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"missing semicolon", "int f() { int a = 1 }", diagnostics.ErrExpectedToken},
		{"missing expression", "int f() { return +; }", diagnostics.ErrInvalidExpression},
		{"bad assignment target", "int f() { 1 = 2; }", diagnostics.ErrInvalidAssignment},
		{"not a function", "a = 1;", diagnostics.ErrMissingType},
		{"missing name", "int () {}", diagnostics.ErrMissingIdentifier},
		{"duplicate function", "int f() {} int f() {}", diagnostics.ErrDuplicateFunction},
		{"increment as expression", "int f() { int a = b++; }", diagnostics.ErrExpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := parse(t, tt.src)
			assert.Assert(t, bag.HasErrors())

			found := false
			for _, d := range bag.Diagnostics() {
				if d.Code == tt.code {
					found = true
				}
			}
			assert.Assert(t, found, "no %s diagnostic in:\n%s", tt.code, bag.EmitAllToString())
		})
	}
}

func TestRecoveryKeepsLaterFunctions(t *testing.T) {
	mod, bag := parse(t, "int f() { int a = ; } int g() { return 1; }")
	assert.Assert(t, bag.HasErrors())
	assert.Assert(t, mod.Func("g") != nil)
}
