package cfg

import (
	"golang.org/x/tools/container/intsets"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
)

// computeFrontiers builds every dominance frontier at once (Cytron et al.),
// walking blocks in postorder so each dominee is done before its dominator.
func (g *Graph) computeFrontiers() {
	if g.dfDone {
		return
	}
	g.ComputeDominators()

	for _, b := range g.blocks {
		b.frontier = new(intsets.Sparse)
	}

	for _, id := range g.Postorder() {
		x := g.Block(id)
		// local: successors x does not immediately dominate
		for _, y := range x.Succs {
			if g.Block(y).Idom != id {
				x.frontier.Insert(int(y))
			}
		}
		// up: frontier entries of dominees that x does not immediately dominate
		for _, z := range x.Dominees {
			for _, y := range g.Block(z).frontier.AppendTo(nil) {
				if g.Block(ir.BlockID(y)).Idom != id {
					x.frontier.Insert(y)
				}
			}
		}
	}

	g.dfDone = true
}

// Frontier returns the dominance frontier of id. The set is shared; callers must not modify it.
func (g *Graph) Frontier(id ir.BlockID) *intsets.Sparse {
	g.computeFrontiers()
	b := g.Block(id)
	if b == nil {
		return new(intsets.Sparse)
	}
	return b.frontier
}

// IteratedFrontier returns DF+(set): the limit of DF(set ∪ DF(...)).
func (g *Graph) IteratedFrontier(set *intsets.Sparse) *intsets.Sparse {
	g.computeFrontiers()

	result := new(intsets.Sparse)
	var queued intsets.Sparse
	queued.Copy(set)
	work := set.AppendTo(nil)
	for len(work) > 0 {
		x := work[len(work)-1]
		work = work[:len(work)-1]
		for _, y := range g.Frontier(ir.BlockID(x)).AppendTo(nil) {
			if result.Insert(y) && queued.Insert(y) {
				work = append(work, y)
			}
		}
	}
	return result
}
