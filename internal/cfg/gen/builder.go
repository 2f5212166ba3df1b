// Package gen lowers a function body into a control-flow graph.
package gen

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/cfg"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

// ErrInvalidCode is returned when lowering reported user errors to the diagnostics bag.
var ErrInvalidCode = errors.New("gen: function has errors")

// Builder lowers one function. The current block is the only cursor; it is nil
// once the path ended in return, break or continue.
//
// Every declaration gets its own variable: a name declared again in a nested or later
// block is renamed (a, a.1, a.2, ...) so that def sites never mix two declarations.
type Builder struct {
	graph       *cfg.Graph
	defs        *DefSites
	diag        *diagnostics.DiagnosticBag
	current     *cfg.BasicBlock
	currentLoop *loopContext
	scope       *scope
	seen        map[string]int
	symbols     []*symbol
	errors      int
}

// loopContext tracks the innermost loop for break/continue statements
type loopContext struct {
	breakTarget    *cfg.BasicBlock
	continueTarget *cfg.BasicBlock
	parent         *loopContext
}

// NewBuilder creates a builder reporting user errors and warnings to diag.
func NewBuilder(diag *diagnostics.DiagnosticBag) *Builder {
	return &Builder{diag: diag}
}

// Build lowers fn into a graph whose blocks are all reachable from the entry.
// The graph is not committed.
func (b *Builder) Build(fn *ast.FuncDecl) (*cfg.Graph, *DefSites, error) {
	b.graph = cfg.New(fn.Name.Name)
	b.defs = NewDefSites()
	b.currentLoop = nil
	b.scope = newScope(nil)
	b.seen = make(map[string]int)
	b.symbols = nil
	b.errors = 0

	b.current = b.graph.NewBlock("entry")
	for _, param := range fn.Params {
		sym := b.declare(param.Name)
		b.define(sym, ir.NewParam(sym.Name, param.Location))
	}

	// the body shares the parameters' scope
	if fn.Body != nil {
		b.buildStmts(fn.Body.Nodes)
	}
	b.checkAssigned()

	if b.errors > 0 {
		return nil, nil, errors.Wrapf(ErrInvalidCode, "function %s: %d error(s)", fn.Name.Name, b.errors)
	}

	b.defs.remap(b.graph.Prune())
	return b.graph, b.defs, nil
}

// buildStmts lowers a statement list; statements after the path ended are reported once.
func (b *Builder) buildStmts(nodes []ast.Statement) {
	for _, node := range nodes {
		if b.current == nil {
			b.reportUnreachableCodeRange(node, nodes[len(nodes)-1])
			return
		}
		b.buildNode(node)
	}
}

func (b *Builder) buildNode(node ast.Statement) {
	switch n := node.(type) {
	case *ast.Block:
		b.withScope(func() { b.buildStmts(n.Nodes) })
	case *ast.VarDecl:
		// the initializer cannot see the variable it initializes
		var stmt *ir.Assign
		if n.Value != nil {
			stmt = ir.NewAssign(n.Name.Name, n.Value, n.Location)
			b.resolveUses(stmt.Uses)
		}
		sym := b.declare(n.Name)
		if stmt != nil {
			b.define(sym, stmt)
		}
	case *ast.AssignStmt:
		stmt := ir.NewAssign(n.Lhs.Name, n.Rhs, n.Location)
		b.resolveUses(stmt.Uses)
		if sym, ok := b.resolve(n.Lhs); ok {
			b.define(sym, stmt)
		}
	case *ast.ExprStmt:
		b.eval(ir.NewEval(ir.EvalExpr, n.X, n.Location))
	case *ast.ReturnStmt:
		b.eval(ir.NewEval(ir.EvalReturn, n.Result, n.Location))
		b.current = nil
	case *ast.BreakStmt:
		b.buildBreak(n)
	case *ast.ContinueStmt:
		b.buildContinue(n)
	case *ast.IfStmt:
		b.buildIf(n)
	case *ast.WhileStmt:
		b.buildWhile(n)
	case *ast.DoWhileStmt:
		b.buildDoWhile(n)
	case *ast.ForStmt:
		b.buildFor(n)
	default:
		panic(fmt.Sprintf("gen: unexpected statement %T", node))
	}
}

// define appends a definition of sym to the current block.
func (b *Builder) define(sym *symbol, stmt *ir.Assign) {
	stmt.Dst.Name = sym.Name
	sym.assigned = true
	b.current.Append(stmt)
	b.defs.Add(sym.Name, b.current.ID)
}

func (b *Builder) eval(stmt *ir.Eval) {
	b.resolveUses(stmt.Uses)
	b.current.Append(stmt)
}

// resolveUses binds every use to the declaration in scope.
func (b *Builder) resolveUses(uses []ir.Use) {
	for i := range uses {
		sym, ok := b.resolve(uses[i].Ident)
		if !ok {
			continue
		}
		if sym.firstUse == nil {
			sym.firstUse = uses[i].Ident
		}
		uses[i].Var.Name = sym.Name
		b.defs.Use(sym.Name)
	}
}

func (b *Builder) withScope(body func()) {
	b.scope = newScope(b.scope)
	body()
	b.scope = b.scope.parent
}

// declare adds ident to the innermost scope. A name already declared in that
// scope is reported and the earlier declaration is reused.
func (b *Builder) declare(ident *ast.IdentifierExpr) *symbol {
	sym, ok := b.scope.declare(ident.Name, &symbol{Decl: ident})
	if !ok {
		b.report(
			diagnostics.NewError(fmt.Sprintf("'%s' already declared", ident.Name)).
				WithCode(diagnostics.ErrRedeclaredVariable).
				WithPrimaryLabel(ident.Loc(), "already declared in this scope").
				WithSecondaryLabel(sym.Decl.Loc(), "previous declaration here"),
		)
		return sym
	}
	sym.Name = uniqueName(ident.Name, b.seen)
	b.symbols = append(b.symbols, sym)
	return sym
}

func (b *Builder) resolve(ident *ast.IdentifierExpr) (*symbol, bool) {
	sym, ok := b.scope.lookup(ident.Name)
	if !ok {
		b.report(
			diagnostics.NewError(fmt.Sprintf("undeclared variable '%s'", ident.Name)).
				WithCode(diagnostics.ErrUndeclaredVariable).
				WithPrimaryLabel(ident.Loc(), "not declared in this scope").
				WithNote("variables must be declared before they are used"),
		)
	}
	return sym, ok
}

// checkAssigned reports variables that are read but have no definition on any reachable path.
func (b *Builder) checkAssigned() {
	for _, sym := range b.symbols {
		if sym.assigned || sym.firstUse == nil {
			continue
		}
		b.report(
			diagnostics.NewError(fmt.Sprintf("variable '%s' is never assigned", sym.Decl.Name)).
				WithCode(diagnostics.ErrUnassignedVariable).
				WithPrimaryLabel(sym.firstUse.Loc(), "read here").
				WithSecondaryLabel(sym.Decl.Loc(), "declared without a value").
				WithNote(fmt.Sprintf("initialize it, e.g. int %s = 0;", sym.Decl.Name)),
		)
	}
}

// branch ends the current block with a conditional branch, linking then before els.
func (b *Builder) branch(cond ast.Expression, then, els *cfg.BasicBlock, loc source.Location) {
	stmt := ir.NewBranch(cond, then.ID, els.ID, loc)
	b.resolveUses(stmt.Uses)
	b.current.Append(stmt)
	b.graph.Link(b.current.ID, then.ID)
	b.graph.Link(b.current.ID, els.ID)
}

// jump ends the current block with an explicit unconditional branch.
func (b *Builder) jump(target *cfg.BasicBlock, loc source.Location) {
	b.current.Append(ir.NewJump(target.ID, loc))
	b.graph.Link(b.current.ID, target.ID)
}

// fallThrough links the current block, if any, to next.
func (b *Builder) fallThrough(next *cfg.BasicBlock) {
	if b.current != nil {
		b.graph.Link(b.current.ID, next.ID)
	}
}

// enter makes merge current, or ends the path when nothing reaches it.
func (b *Builder) enter(merge *cfg.BasicBlock) {
	if len(merge.Preds) == 0 {
		b.current = nil
		return
	}
	b.current = merge
}

func (b *Builder) buildBreak(stmt *ast.BreakStmt) {
	if b.currentLoop == nil {
		b.outsideLoop(diagnostics.ErrBreakOutsideLoop, "break statement outside loop", stmt.Loc())
		return
	}
	b.jump(b.currentLoop.breakTarget, stmt.Location)
	b.current = nil
}

func (b *Builder) buildContinue(stmt *ast.ContinueStmt) {
	if b.currentLoop == nil {
		b.outsideLoop(diagnostics.ErrContinueOutsideLoop, "continue statement outside loop", stmt.Loc())
		return
	}
	b.jump(b.currentLoop.continueTarget, stmt.Location)
	b.current = nil
}

// buildIf creates Condition, Then, Else (if present) and Merge, in that order.
func (b *Builder) buildIf(stmt *ast.IfStmt) {
	condBlock := b.graph.NewBlock("if.cond")
	thenBlock := b.graph.NewBlock("if.then")
	var elseBlock *cfg.BasicBlock
	if stmt.Else != nil {
		elseBlock = b.graph.NewBlock("if.else")
	}
	mergeBlock := b.graph.NewBlock("if.merge")

	b.graph.Link(b.current.ID, condBlock.ID)
	b.current = condBlock
	if elseBlock != nil {
		b.branch(stmt.Cond, thenBlock, elseBlock, stmt.Location)
	} else {
		b.branch(stmt.Cond, thenBlock, mergeBlock, stmt.Location)
	}

	b.current = thenBlock
	b.withScope(func() { b.buildStmts(stmt.Body.Nodes) })
	b.fallThrough(mergeBlock)

	if elseBlock != nil {
		b.current = elseBlock
		b.buildNode(stmt.Else)
		b.fallThrough(mergeBlock)
	}

	b.enter(mergeBlock)
}

// buildWhile creates the Condition header, Body and Merge. The body's exit jumps back to the header.
func (b *Builder) buildWhile(stmt *ast.WhileStmt) {
	condBlock := b.graph.NewBlock("while.cond")
	bodyBlock := b.graph.NewBlock("while.body")
	mergeBlock := b.graph.NewBlock("while.merge")

	b.graph.Link(b.current.ID, condBlock.ID)
	b.current = condBlock
	b.branch(stmt.Cond, bodyBlock, mergeBlock, stmt.Location)

	b.loop(condBlock, mergeBlock, func() {
		b.current = bodyBlock
		b.withScope(func() { b.buildStmts(stmt.Body.Nodes) })
		if b.current != nil {
			b.jump(condBlock, stmt.Location)
		}
	})

	b.enter(mergeBlock)
}

// buildDoWhile creates Body, Condition and Merge. Condition -> Body is the back edge.
func (b *Builder) buildDoWhile(stmt *ast.DoWhileStmt) {
	bodyBlock := b.graph.NewBlock("do.body")
	condBlock := b.graph.NewBlock("do.cond")
	mergeBlock := b.graph.NewBlock("do.merge")

	b.graph.Link(b.current.ID, bodyBlock.ID)

	b.loop(condBlock, mergeBlock, func() {
		b.current = bodyBlock
		b.withScope(func() { b.buildStmts(stmt.Body.Nodes) })
		b.fallThrough(condBlock)
	})

	if len(condBlock.Preds) > 0 {
		b.current = condBlock
		b.branch(stmt.Cond, bodyBlock, mergeBlock, stmt.Location)
	}

	b.enter(mergeBlock)
}

// buildFor creates Init, Condition, Increment, Body and Merge. Increment jumps back to Condition.
// The init declaration is scoped to the loop.
func (b *Builder) buildFor(stmt *ast.ForStmt) {
	b.withScope(func() { b.buildForScoped(stmt) })
}

func (b *Builder) buildForScoped(stmt *ast.ForStmt) {
	initBlock := b.graph.NewBlock("for.init")
	condBlock := b.graph.NewBlock("for.cond")
	incrBlock := b.graph.NewBlock("for.incr")
	bodyBlock := b.graph.NewBlock("for.body")
	mergeBlock := b.graph.NewBlock("for.merge")

	b.graph.Link(b.current.ID, initBlock.ID)
	b.current = initBlock
	if stmt.Init != nil {
		b.buildNode(stmt.Init)
	}
	b.graph.Link(initBlock.ID, condBlock.ID)

	b.current = condBlock
	if stmt.Cond != nil {
		b.branch(stmt.Cond, bodyBlock, mergeBlock, stmt.Location)
	} else {
		b.jump(bodyBlock, stmt.Location)
	}

	b.loop(incrBlock, mergeBlock, func() {
		b.current = bodyBlock
		b.withScope(func() { b.buildStmts(stmt.Body.Nodes) })
		b.fallThrough(incrBlock)
	})

	if len(incrBlock.Preds) > 0 {
		b.current = incrBlock
		if stmt.Incr != nil {
			b.buildNode(stmt.Incr)
		}
		b.jump(condBlock, stmt.Location)
	}

	b.enter(mergeBlock)
}

// loop runs body with break and continue bound to the given targets.
func (b *Builder) loop(continueTarget, breakTarget *cfg.BasicBlock, body func()) {
	b.currentLoop = &loopContext{
		breakTarget:    breakTarget,
		continueTarget: continueTarget,
		parent:         b.currentLoop,
	}
	body()
	b.currentLoop = b.currentLoop.parent
}

// report adds a user error; Build fails once any was reported.
func (b *Builder) report(d *diagnostics.Diagnostic) {
	b.errors++
	b.diag.Add(d)
}

func (b *Builder) outsideLoop(code, msg string, loc *source.Location) {
	b.report(diagnostics.NewError(msg).WithCode(code).WithPrimaryLabel(loc, "not inside a loop"))
}

// reportUnreachableCodeRange reports one warning spanning start..end.
func (b *Builder) reportUnreachableCodeRange(start, end ast.Statement) {
	rangeLocation := source.Span(start.Loc(), end.Loc())
	b.diag.Add(
		diagnostics.NewWarning("unreachable code").
			WithCode(diagnostics.WarnUnreachableCode).
			WithPrimaryLabel(rangeLocation, "this code will never execute").
			WithHelp("remove this code or restructure control flow"),
	)
}
