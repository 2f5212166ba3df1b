package cfg

import "github.com/epoll-reactor/weak-compiler-sub000/internal/ir"

// ComputeDominators fills Idom and Dominees of every block, once.
//
// It uses block elimination: for each candidate C in preorder, the blocks that become
// unreachable once C is removed are dominated by C. Dominators of a block are met in
// preorder before the block and before each other's dominees, so the last candidate
// to claim a block is its immediate dominator.
func (g *Graph) ComputeDominators() {
	if g.domDone {
		return
	}

	order := g.Preorder()
	reachable := make([]bool, len(g.blocks)+1)
	for _, id := range order {
		reachable[id] = true
	}

	for _, b := range g.blocks {
		b.Idom = ir.InvalidBlock
		b.Dominees = nil
	}

	for _, candidate := range order {
		visited, _ := g.dfs(candidate)
		seen := make([]bool, len(g.blocks)+1)
		for _, id := range visited {
			seen[id] = true
		}
		for _, id := range order {
			if id != candidate && !seen[id] {
				g.Block(id).Idom = candidate
			}
		}
	}

	for _, b := range g.blocks {
		if b.Idom != ir.InvalidBlock {
			idom := g.Block(b.Idom)
			idom.Dominees = append(idom.Dominees, b.ID)
		}
	}

	g.domDone = true
}

// Dominates reports whether a dominates b. Every reachable block dominates itself.
func (g *Graph) Dominates(a, b ir.BlockID) bool {
	g.ComputeDominators()
	if g.Block(a) == nil || g.Block(b) == nil {
		return false
	}
	for id := b; id != ir.InvalidBlock; id = g.Block(id).Idom {
		if id == a {
			return true
		}
	}
	return false
}

// DominatorTree returns the blocks of the dominator tree in preorder, each with its depth.
func (g *Graph) DominatorTree() []DomNode {
	g.ComputeDominators()
	entry := g.Entry()
	if entry == nil {
		return nil
	}
	var nodes []DomNode
	var walk func(id ir.BlockID, depth int)
	walk = func(id ir.BlockID, depth int) {
		nodes = append(nodes, DomNode{ID: id, Depth: depth})
		for _, child := range g.Block(id).Dominees {
			walk(child, depth+1)
		}
	}
	walk(entry.ID, 0)
	return nodes
}

// DomNode is one entry of a dominator tree walk.
type DomNode struct {
	ID    ir.BlockID
	Depth int
}
