// Package cfg holds the control-flow graph of one function and its dominance analysis.
package cfg

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/tools/container/intsets"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
)

// ErrCommitted is returned by a second CommitAllChanges.
var ErrCommitted = errors.New("cfg: graph already committed")

// BasicBlock is a straight-line run of statements with its edges and dominance data.
type BasicBlock struct {
	ID    ir.BlockID
	Label string
	Stmts []ir.Stmt

	Succs []ir.BlockID // sequential edge first, then the conditional one
	Preds []ir.BlockID

	Idom     ir.BlockID // InvalidBlock for the entry and unreachable blocks
	Dominees []ir.BlockID

	frontier *intsets.Sparse
}

// Append adds s at the end of the block.
func (b *BasicBlock) Append(s ir.Stmt) {
	b.Stmts = append(b.Stmts, s)
}

// Prepend adds s at the start of the block.
func (b *BasicBlock) Prepend(s ir.Stmt) {
	b.Stmts = append([]ir.Stmt{s}, b.Stmts...)
}

// Phis returns the leading phi statements of the block.
func (b *BasicBlock) Phis() []*ir.Phi {
	var phis []*ir.Phi
	for _, s := range b.Stmts {
		phi, ok := s.(*ir.Phi)
		if !ok {
			break
		}
		phis = append(phis, phi)
	}
	return phis
}

func (b *BasicBlock) String() string {
	if b.Label == "" {
		return b.ID.String()
	}
	return fmt.Sprintf("%s (%s)", b.ID, b.Label)
}

// Graph owns the blocks of one function in creation order. The first block is the entry.
//
// Orders, dominators and frontiers are computed lazily, at most once.
// After CommitAllChanges the block structure is frozen; statements stay editable.
type Graph struct {
	Name   string
	blocks []*BasicBlock

	preorder  []ir.BlockID
	postorder []ir.BlockID
	domDone   bool
	dfDone    bool
	committed bool
}

// New creates an empty graph for the function name.
func New(name string) *Graph {
	return &Graph{Name: name}
}

func (g *Graph) mustBeMutable(op string) {
	if g.committed {
		panic(fmt.Sprintf("cfg: %s on committed graph %q", op, g.Name))
	}
}

// NewBlock appends a new block to the arena.
func (g *Graph) NewBlock(label string) *BasicBlock {
	g.mustBeMutable("NewBlock")
	b := &BasicBlock{
		ID:    ir.BlockID(len(g.blocks) + 1),
		Label: label,
	}
	g.blocks = append(g.blocks, b)
	return b
}

// Block returns the block with the given id, or nil.
func (g *Graph) Block(id ir.BlockID) *BasicBlock {
	if id == ir.InvalidBlock || int(id) > len(g.blocks) {
		return nil
	}
	return g.blocks[id-1]
}

// Blocks returns all blocks in creation order.
func (g *Graph) Blocks() []*BasicBlock {
	return g.blocks
}

// Len returns the number of blocks.
func (g *Graph) Len() int {
	return len(g.blocks)
}

// Entry returns the first block, or nil for an empty graph.
func (g *Graph) Entry() *BasicBlock {
	if len(g.blocks) == 0 {
		return nil
	}
	return g.blocks[0]
}

// Committed reports whether CommitAllChanges has run.
func (g *Graph) Committed() bool {
	return g.committed
}

// Link adds the edge from -> to. Linking an existing edge again is a no-op.
func (g *Graph) Link(from, to ir.BlockID) {
	g.mustBeMutable("Link")
	src, dst := g.Block(from), g.Block(to)
	if src == nil || dst == nil {
		panic(fmt.Sprintf("cfg: Link(%s, %s) outside graph %q", from, to, g.Name))
	}
	for _, s := range src.Succs {
		if s == to {
			return
		}
	}
	src.Succs = append(src.Succs, to)
	dst.Preds = append(dst.Preds, from)
}

// Prune drops every block unreachable from the entry and renumbers the rest,
// keeping creation order. It returns the old-to-new id mapping, indexed by old id;
// dropped blocks map to InvalidBlock.
func (g *Graph) Prune() []ir.BlockID {
	g.mustBeMutable("Prune")

	mapping := make([]ir.BlockID, len(g.blocks)+1)
	reachable := g.reachable()

	kept := g.blocks[:0]
	for _, b := range g.blocks {
		if reachable.Has(int(b.ID)) {
			kept = append(kept, b)
			mapping[b.ID] = ir.BlockID(len(kept))
		}
	}
	for i := len(kept); i < len(g.blocks); i++ {
		g.blocks[i] = nil
	}
	g.blocks = kept

	remap := func(ids []ir.BlockID) []ir.BlockID {
		out := ids[:0]
		for _, id := range ids {
			if n := mapping[id]; n != ir.InvalidBlock {
				out = append(out, n)
			}
		}
		return out
	}
	for _, b := range g.blocks {
		b.ID = mapping[b.ID]
		b.Succs = remap(b.Succs)
		b.Preds = remap(b.Preds)
		for _, s := range b.Stmts {
			switch s := s.(type) {
			case *ir.Branch:
				s.Then = mapping[s.Then]
				s.Else = mapping[s.Else]
			case *ir.Phi:
				for i := range s.Edges {
					s.Edges[i].Pred = mapping[s.Edges[i].Pred]
				}
			}
		}
	}

	g.preorder, g.postorder = nil, nil
	return mapping
}

// reachable returns the ids reachable from the entry, ignoring cached orders.
func (g *Graph) reachable() *intsets.Sparse {
	var seen intsets.Sparse
	if len(g.blocks) == 0 {
		return &seen
	}
	stack := []ir.BlockID{g.blocks[0].ID}
	seen.Insert(int(g.blocks[0].ID))
	for len(stack) > 0 {
		b := g.Block(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		for _, s := range b.Succs {
			if seen.Insert(int(s)) {
				stack = append(stack, s)
			}
		}
	}
	return &seen
}

// CommitAllChanges computes preorder, postorder, dominators and frontiers, in that order,
// and freezes the block structure.
func (g *Graph) CommitAllChanges() error {
	if g.committed {
		return errors.WithStack(ErrCommitted)
	}
	g.Preorder()
	g.Postorder()
	g.ComputeDominators()
	g.computeFrontiers()
	g.committed = true
	return nil
}
