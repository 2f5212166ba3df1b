package ssa

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/cfg"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/cfg/gen"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/lexer"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/parser"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

// lower parses a single function and returns its committed graph.
func lower(t *testing.T, src string) (*cfg.Graph, *gen.DefSites) {
	t.Helper()
	bag := diagnostics.NewDiagnosticBag("test.wk", src)
	mod := parser.Parse(lexer.New("test.wk", src, bag).Tokenize(nil), "test.wk", bag)
	if bag.HasErrors() {
		t.Fatalf("parse errors:\n%s", bag.EmitAllToString())
	}
	g, defs, err := gen.NewBuilder(bag).Build(mod.Funcs[0])
	assert.NilError(t, err)
	assert.NilError(t, g.CommitAllChanges())
	return g, defs
}

func build(t *testing.T, src string) *cfg.Graph {
	t.Helper()
	g, defs := lower(t, src)
	logger, _ := test.NewNullLogger()
	assert.NilError(t, Build(g, defs, logger))
	assert.NilError(t, Verify(g))
	return g
}

func dump(g *cfg.Graph) map[ir.BlockID][]string {
	out := map[ir.BlockID][]string{}
	for _, b := range g.Blocks() {
		lines := []string{}
		for _, s := range b.Stmts {
			lines = append(lines, ir.FormatStmt(s))
		}
		out[b.ID] = lines
	}
	return out
}

func TestIfElseMerge(t *testing.T) {
	g := build(t, `int f(int cond) { int a = 1; if (cond) { a = 2; } else { a = 3; } return a; }`)

	want := map[ir.BlockID][]string{
		1: {"cond#0 = param", "a#0 = 1"},
		2: {"br cond#0, b3, b4"},
		3: {"a#1 = 2"},
		4: {"a#2 = 3"},
		5: {"a#3 = phi [b3: a#1, b4: a#2]", "ret a#3"},
	}
	if diff := cmp.Diff(want, dump(g)); diff != "" {
		t.Errorf("SSA mismatch (-want +got):\n%s", diff)
	}
}

func TestWhileLoopPhis(t *testing.T) {
	g := build(t, `int f(int n) { int s = 0; while (n) { s = s + n; n = n - 1; } return s; }`)

	want := map[ir.BlockID][]string{
		1: {"n#0 = param", "s#0 = 0"},
		2: {"s#1 = phi [b1: s#0, b3: s#2]", "n#1 = phi [b1: n#0, b3: n#2]", "br n#1, b3, b4"},
		3: {"s#2 = s#1 + n#1", "n#2 = n#1 - 1", "br b2"},
		4: {"ret s#1"},
	}
	if diff := cmp.Diff(want, dump(g)); diff != "" {
		t.Errorf("SSA mismatch (-want +got):\n%s", diff)
	}
}

func TestPhiEdgeWithoutDefinitionIsUndef(t *testing.T) {
	g := build(t, `int f(int c) { int a; if (c) { a = 1; } return a; }`)

	assert.DeepEqual(t, dump(g)[4], []string{"a#1 = phi [b2: undef, b3: a#0]", "ret a#1"})
}

func TestForLoop(t *testing.T) {
	g := build(t, `int f(int n) { int s = 0; for (int i = 0; i < n; i++) { if (i == 3) { continue; } s += i; } return s; }`)

	// for.cond merges the initial i and the incremented one
	cond := g.Block(3)
	assert.Equal(t, cond.Label, "for.cond")
	var phis []string
	for _, phi := range cond.Phis() {
		phis = append(phis, phi.Dst.Name)
	}
	assert.DeepEqual(t, phis, []string{"i", "s"})
}

func TestVersionsAreFreshPerVariable(t *testing.T) {
	g := build(t, `void f(int a, int b) { a = a + b; b = a; a = b; do { a = a - 1; } while (a); }`)

	seen := map[ir.Var]bool{}
	for _, b := range g.Blocks() {
		for _, s := range b.Stmts {
			if v, ok := ir.Defines(s); ok {
				assert.Assert(t, !seen[v], "%s defined twice", v)
				seen[v] = true
			}
		}
	}
	for _, v := range []ir.Var{{Name: "a", Version: 0}, {Name: "a", Version: 1}, {Name: "a", Version: 2}, {Name: "b", Version: 0}, {Name: "b", Version: 1}} {
		assert.Assert(t, seen[v], "missing %s", v)
	}
}

func TestNoReachingDefinition(t *testing.T) {
	tests := []string{
		`int f(int c) { int a; if (c) { a = 1; return a; } return a; }`,
		`int f(int c) { int a; if (c) { a = 1; } else { return a; } return a; }`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			g, defs := lower(t, src)
			logger, _ := test.NewNullLogger()
			err := Build(g, defs, logger)
			assert.Assert(t, errors.Is(err, ErrNoReachingDef), "got %v", err)
		})
	}
}

func TestMissingPhiEdge(t *testing.T) {
	g := cfg.New("f")
	g.NewBlock("entry")
	g.NewBlock("next")
	g.Link(1, 2)
	assert.NilError(t, g.CommitAllChanges())
	g.Block(2).Prepend(ir.NewPhi("a", nil, source.Location{}))

	err := Rename(g, "a")
	assert.Assert(t, errors.Is(err, ErrMissingPhiEdge), "got %v", err)
}

func TestBuildRequiresCommit(t *testing.T) {
	g := cfg.New("f")
	g.NewBlock("entry")
	err := Build(g, gen.NewDefSites(), logrus.New())
	assert.Assert(t, errors.Is(err, ErrNotCommitted))
}

func TestBuildLogsPerFunction(t *testing.T) {
	g, defs := lower(t, `int f(int a) { return a; }`)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	assert.NilError(t, Build(g, defs, logger))
	assert.Assert(t, len(hook.AllEntries()) > 0)
	assert.Equal(t, hook.LastEntry().Data["func"], "f")
}

func TestVerifyRejectsBrokenForm(t *testing.T) {
	src := `int f(int cond) { int a = 1; if (cond) { a = 2; } else { a = 3; } return a; }`

	tests := []struct {
		name    string
		corrupt func(g *cfg.Graph)
	}{
		{"unversioned use", func(g *cfg.Graph) {
			g.Block(2).Stmts[0].(*ir.Branch).Uses[0].Var.Version = ir.NoVersion
		}},
		{"duplicate definition", func(g *cfg.Graph) {
			g.Block(4).Stmts[0].(*ir.Assign).Dst.Version = 1
		}},
		{"use not dominated", func(g *cfg.Graph) {
			g.Block(5).Stmts[1].(*ir.Eval).Uses[0].Var.Version = 1
		}},
		{"unresolved phi edge", func(g *cfg.Graph) {
			g.Block(5).Stmts[0].(*ir.Phi).Edges[0].Arg.Version = ir.NoVersion
		}},
		{"phi argument not dominating predecessor", func(g *cfg.Graph) {
			g.Block(5).Stmts[0].(*ir.Phi).Edges[0].Arg.Version = 2
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, src)
			tt.corrupt(g)
			assert.Assert(t, errors.Is(Verify(g), ErrInvalid))
		})
	}
}
