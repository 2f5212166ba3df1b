package cfg

import "github.com/epoll-reactor/weak-compiler-sub000/internal/ir"

type blockAndIndex struct {
	id    ir.BlockID
	index int // number of successor edges of id already explored
}

// Preorder returns the blocks reachable from the entry in DFS visiting order.
// Successors are explored in link order. The result is cached.
func (g *Graph) Preorder() []ir.BlockID {
	if g.preorder == nil {
		g.preorder, g.postorder = g.dfs(ir.InvalidBlock)
	}
	return g.preorder
}

// Postorder returns the blocks reachable from the entry in DFS finishing order.
// The result is cached.
func (g *Graph) Postorder() []ir.BlockID {
	if g.postorder == nil {
		g.preorder, g.postorder = g.dfs(ir.InvalidBlock)
	}
	return g.postorder
}

// dfs walks the graph from the entry without ever entering skip.
func (g *Graph) dfs(skip ir.BlockID) (pre, post []ir.BlockID) {
	entry := g.Entry()
	if entry == nil || entry.ID == skip {
		return []ir.BlockID{}, []ir.BlockID{}
	}

	seen := make([]bool, len(g.blocks)+1)
	pre = make([]ir.BlockID, 0, len(g.blocks))
	post = make([]ir.BlockID, 0, len(g.blocks))

	s := make([]blockAndIndex, 0, 32)
	s = append(s, blockAndIndex{id: entry.ID})
	seen[entry.ID] = true
	pre = append(pre, entry.ID)
	for len(s) > 0 {
		tos := len(s) - 1
		x := s[tos]
		b := g.Block(x.id)
		if i := x.index; i < len(b.Succs) {
			s[tos].index++
			succ := b.Succs[i]
			if succ != skip && !seen[succ] {
				seen[succ] = true
				pre = append(pre, succ)
				s = append(s, blockAndIndex{id: succ})
			}
			continue
		}
		s = s[:tos]
		post = append(post, x.id)
	}
	return pre, post
}
