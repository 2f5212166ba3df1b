package cfg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"golang.org/x/tools/container/intsets"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

// build creates a graph with n blocks and the given edges.
func build(n int, edges [][2]ir.BlockID) *Graph {
	g := New("test")
	for i := 0; i < n; i++ {
		g.NewBlock("")
	}
	for _, e := range edges {
		g.Link(e[0], e[1])
	}
	return g
}

func diamond() *Graph {
	return build(4, [][2]ir.BlockID{{1, 2}, {1, 3}, {2, 4}, {3, 4}})
}

func loop() *Graph {
	return build(4, [][2]ir.BlockID{{1, 2}, {2, 3}, {2, 4}, {3, 2}})
}

func frontierOf(g *Graph, id ir.BlockID) []int {
	return g.Frontier(id).AppendTo([]int{})
}

func set(ids ...int) *intsets.Sparse {
	var s intsets.Sparse
	for _, id := range ids {
		s.Insert(id)
	}
	return &s
}

func TestOrders(t *testing.T) {
	g := diamond()
	assert.DeepEqual(t, g.Preorder(), []ir.BlockID{1, 2, 4, 3})
	assert.DeepEqual(t, g.Postorder(), []ir.BlockID{4, 2, 3, 1})
}

func TestDiamondDominance(t *testing.T) {
	g := diamond()
	assert.NilError(t, g.CommitAllChanges())

	assert.Equal(t, g.Block(1).Idom, ir.InvalidBlock)
	for _, id := range []ir.BlockID{2, 3, 4} {
		assert.Equal(t, g.Block(id).Idom, ir.BlockID(1), "idom of %s", id)
	}
	assert.DeepEqual(t, g.Block(1).Dominees, []ir.BlockID{2, 3, 4})

	assert.DeepEqual(t, frontierOf(g, 1), []int{})
	assert.DeepEqual(t, frontierOf(g, 2), []int{4})
	assert.DeepEqual(t, frontierOf(g, 3), []int{4})
	assert.DeepEqual(t, frontierOf(g, 4), []int{})

	assert.Assert(t, g.Dominates(1, 4))
	assert.Assert(t, g.Dominates(4, 4))
	assert.Assert(t, !g.Dominates(2, 4))
}

func TestLoopDominance(t *testing.T) {
	g := loop()
	assert.NilError(t, g.CommitAllChanges())

	assert.Equal(t, g.Block(2).Idom, ir.BlockID(1))
	assert.Equal(t, g.Block(3).Idom, ir.BlockID(2))
	assert.Equal(t, g.Block(4).Idom, ir.BlockID(2))

	assert.DeepEqual(t, frontierOf(g, 2), []int{2})
	assert.DeepEqual(t, frontierOf(g, 3), []int{2})
	assert.DeepEqual(t, g.IteratedFrontier(set(3)).AppendTo([]int{}), []int{2})
}

func TestIteratedFrontierReachesFixedPoint(t *testing.T) {
	// 1 -> 2 -> 3 -> 5, 2 -> 4 -> 5, 5 -> 6, 1 -> 6
	g := build(6, [][2]ir.BlockID{{1, 2}, {2, 3}, {2, 4}, {3, 5}, {4, 5}, {5, 6}, {1, 6}})
	assert.NilError(t, g.CommitAllChanges())

	assert.DeepEqual(t, frontierOf(g, 3), []int{5})
	assert.DeepEqual(t, frontierOf(g, 5), []int{6})
	// DF(3) = {5}, DF(5) = {6}
	assert.DeepEqual(t, g.IteratedFrontier(set(3)).AppendTo([]int{}), []int{5, 6})
}

func TestLinkIsIdempotent(t *testing.T) {
	g := build(2, [][2]ir.BlockID{{1, 2}, {1, 2}})
	assert.DeepEqual(t, g.Block(1).Succs, []ir.BlockID{2})
	assert.DeepEqual(t, g.Block(2).Preds, []ir.BlockID{1})
}

func TestCommitTwice(t *testing.T) {
	g := diamond()
	assert.NilError(t, g.CommitAllChanges())

	before := g.String()
	err := g.CommitAllChanges()
	assert.Assert(t, errors.Is(err, ErrCommitted))
	assert.Equal(t, errors.Cause(err), ErrCommitted)
	assert.Equal(t, g.String(), before)
}

func TestAnalysesAreMemoized(t *testing.T) {
	g := diamond()
	pre := g.Preorder()
	g.ComputeDominators()
	f := g.Frontier(2)

	assert.NilError(t, g.CommitAllChanges())
	assert.Assert(t, &pre[0] == &g.Preorder()[0])
	assert.Assert(t, f == g.Frontier(2))
	assert.DeepEqual(t, g.Block(1).Dominees, []ir.BlockID{2, 3, 4})
}

func TestMutationAfterCommitPanics(t *testing.T) {
	g := diamond()
	assert.NilError(t, g.CommitAllChanges())

	for name, mutate := range map[string]func(){
		"NewBlock": func() { g.NewBlock("x") },
		"Link":     func() { g.Link(4, 1) },
		"Prune":    func() { g.Prune() },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s after commit did not panic", name)
				}
			}()
			mutate()
		})
	}
}

func TestPruneRenumbers(t *testing.T) {
	// 3 is unreachable and links into 4
	g := build(4, [][2]ir.BlockID{{1, 2}, {2, 4}, {3, 4}})
	g.Block(2).Append(ir.NewJump(4, source.Location{}))

	mapping := g.Prune()
	assert.DeepEqual(t, mapping, []ir.BlockID{0, 1, 2, 0, 3})
	assert.Equal(t, g.Len(), 3)
	assert.DeepEqual(t, g.Block(3).Preds, []ir.BlockID{2})
	assert.Equal(t, g.Block(2).Stmts[0].(*ir.Branch).Then, ir.BlockID(3))
	assert.NilError(t, g.Verify())
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name  string
		graph func() *Graph
		msg   string
	}{
		{"empty", func() *Graph { return New("f") }, "no entry"},
		{"entry with preds", func() *Graph { return build(2, [][2]ir.BlockID{{1, 2}, {2, 1}}) }, "entry b1 has predecessors"},
		{"orphan", func() *Graph { return build(2, nil) }, "no predecessors"},
		{"unreachable cycle", func() *Graph { return build(3, [][2]ir.BlockID{{2, 3}, {3, 2}}) }, "unreachable"},
		{"asymmetric", func() *Graph {
			g := build(2, [][2]ir.BlockID{{1, 2}})
			g.Block(2).Preds = append(g.Block(2).Preds, 2)
			return g
		}, "without an edge"},
		{"bad branch", func() *Graph {
			g := build(2, [][2]ir.BlockID{{1, 2}})
			g.Block(1).Append(ir.NewJump(1, source.Location{}))
			return g
		}, "not a successor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph().Verify()
			assert.Assert(t, errors.Is(err, ErrMalformed))
			assert.Assert(t, is.Contains(err.Error(), tt.msg))
		})
	}

	assert.NilError(t, diamond().Verify())
	assert.NilError(t, loop().Verify())
}

func TestDumps(t *testing.T) {
	g := loop()
	g.Block(1).Label = "entry"
	g.Block(3).Append(ir.NewJump(2, source.Location{}))
	assert.NilError(t, g.CommitAllChanges())

	text := g.String()
	assert.Assert(t, is.Contains(text, "b1 (entry):"))
	assert.Assert(t, is.Contains(text, "preds: [b1 b3]  succs: [b3 b4]  idom: b1"))
	assert.Assert(t, is.Contains(text, "br b2"))

	var dot bytes.Buffer
	assert.NilError(t, g.WriteDOT(&dot))
	assert.Assert(t, strings.HasPrefix(dot.String(), `digraph "test" {`))
	assert.Assert(t, is.Contains(dot.String(), "b2 -> b3;"))
	assert.Assert(t, is.Contains(dot.String(), "b2 -> b4 [style=dashed];"))

	var tree bytes.Buffer
	assert.NilError(t, g.WriteDomTree(&tree))
	want := "domtree test:\n  b1 (entry)\n    b2  df: [b2]\n      b3  df: [b2]\n      b4\n"
	if diff := cmp.Diff(want, tree.String()); diff != "" {
		t.Errorf("dominator tree mismatch (-want +got):\n%s", diff)
	}
}
