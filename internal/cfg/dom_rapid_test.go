package cfg

import (
	"fmt"
	"testing"

	"golang.org/x/tools/container/intsets"
	"pgregory.net/rapid"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
)

// randomGraph draws a graph whose blocks mostly hang off an earlier block,
// plus arbitrary extra edges (back edges, self loops, edges into the entry).
func randomGraph(t *rapid.T) *Graph {
	n := rapid.IntRange(1, 12).Draw(t, "n")
	g := New("rapid")
	for i := 0; i < n; i++ {
		g.NewBlock("")
	}
	for i := 2; i <= n; i++ {
		if rapid.Bool().Draw(t, fmt.Sprintf("attach%d", i)) {
			parent := rapid.IntRange(1, i-1).Draw(t, fmt.Sprintf("parent%d", i))
			g.Link(ir.BlockID(parent), ir.BlockID(i))
		}
	}
	extra := rapid.SliceOfN(rapid.IntRange(0, n*n-1), 0, 2*n).Draw(t, "extra")
	for _, e := range extra {
		g.Link(ir.BlockID(e/n+1), ir.BlockID(e%n+1))
	}
	return g
}

// reach returns the blocks reachable from the entry without entering skip.
func reach(g *Graph, skip ir.BlockID) map[ir.BlockID]bool {
	seen := map[ir.BlockID]bool{}
	if g.Entry().ID == skip {
		return seen
	}
	var visit func(ir.BlockID)
	visit = func(id ir.BlockID) {
		if id == skip || seen[id] {
			return
		}
		seen[id] = true
		for _, s := range g.Block(id).Succs {
			visit(s)
		}
	}
	visit(g.Entry().ID)
	return seen
}

type bruteDom struct {
	reachable map[ir.BlockID]bool
	dom       map[[2]ir.BlockID]bool
}

func newBruteDom(g *Graph) *bruteDom {
	d := &bruteDom{reachable: reach(g, ir.InvalidBlock), dom: map[[2]ir.BlockID]bool{}}
	for _, a := range g.Blocks() {
		if !d.reachable[a.ID] {
			continue
		}
		without := reach(g, a.ID)
		for b := range d.reachable {
			if a.ID == b || !without[b] {
				d.dom[[2]ir.BlockID{a.ID, b}] = true
			}
		}
	}
	return d
}

func (d *bruteDom) dominates(a, b ir.BlockID) bool {
	return d.dom[[2]ir.BlockID{a, b}]
}

func (d *bruteDom) frontier(g *Graph, x ir.BlockID) []int {
	out := []int{}
	for _, y := range g.Blocks() {
		if !d.reachable[y.ID] || (x != y.ID && d.dominates(x, y.ID)) {
			continue
		}
		for _, p := range y.Preds {
			if d.reachable[p] && d.dominates(x, p) {
				out = append(out, int(y.ID))
				break
			}
		}
	}
	return out
}

func TestDominatorsMatchBruteForce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := randomGraph(t)
		if err := g.CommitAllChanges(); err != nil {
			t.Fatal(err)
		}
		d := newBruteDom(g)

		for _, b := range g.Blocks() {
			if b.ID == g.Entry().ID || !d.reachable[b.ID] {
				if b.Idom != ir.InvalidBlock {
					t.Fatalf("%s: expected no idom, got %s", b.ID, b.Idom)
				}
				continue
			}
			idom := b.Idom
			if idom == b.ID || !d.dominates(idom, b.ID) {
				t.Fatalf("%s: idom %s is not a strict dominator", b.ID, idom)
			}
			for a := range d.reachable {
				if a != b.ID && d.dominates(a, b.ID) && !d.dominates(a, idom) {
					t.Fatalf("%s: strict dominator %s does not dominate idom %s", b.ID, a, idom)
				}
			}
		}

		for a := range d.reachable {
			for b := range d.reachable {
				if got, want := g.Dominates(a, b), d.dominates(a, b); got != want {
					t.Fatalf("Dominates(%s, %s) = %v, want %v", a, b, got, want)
				}
			}
		}
	})
}

func TestFrontiersMatchBruteForce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := randomGraph(t)
		if err := g.CommitAllChanges(); err != nil {
			t.Fatal(err)
		}
		d := newBruteDom(g)

		for id := range d.reachable {
			got := g.Frontier(id).AppendTo([]int{})
			want := d.frontier(g, id)
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Fatalf("DF(%s) = %v, want %v\n%s", id, got, want, g)
			}
		}
	})
}

func TestIteratedFrontierIsClosed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := randomGraph(t)
		if err := g.CommitAllChanges(); err != nil {
			t.Fatal(err)
		}
		d := newBruteDom(g)

		var start intsets.Sparse
		for _, id := range g.Preorder() {
			if rapid.Bool().Draw(t, fmt.Sprintf("in%d", id)) {
				start.Insert(int(id))
			}
		}

		// brute force: grow DF(start ∪ idf) until nothing changes
		var want intsets.Sparse
		for {
			var from intsets.Sparse
			from.Union(&start, &want)
			var next intsets.Sparse
			for _, x := range from.AppendTo(nil) {
				for _, y := range d.frontier(g, ir.BlockID(x)) {
					next.Insert(y)
				}
			}
			if next.Equals(&want) {
				break
			}
			want.Copy(&next)
		}

		got := g.IteratedFrontier(&start)
		if !got.Equals(&want) {
			t.Fatalf("IDF(%s) = %s, want %s", &start, got, &want)
		}
	})
}
