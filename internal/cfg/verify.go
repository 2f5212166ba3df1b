package cfg

import (
	"github.com/pkg/errors"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
)

// ErrMalformed is the cause of every structural verification failure.
var ErrMalformed = errors.New("cfg: malformed graph")

// Verify checks the structural invariants: the entry has no predecessors, every other
// block is reachable and has one, edges are symmetric, and branch targets are successors.
func (g *Graph) Verify() error {
	entry := g.Entry()
	if entry == nil {
		return errors.Wrapf(ErrMalformed, "function %s has no entry block", g.Name)
	}
	if len(entry.Preds) != 0 {
		return errors.Wrapf(ErrMalformed, "entry %s has predecessors %v", entry.ID, entry.Preds)
	}

	reachable := g.reachable()
	for _, b := range g.blocks {
		if b != entry && len(b.Preds) == 0 {
			return errors.Wrapf(ErrMalformed, "block %s has no predecessors", b)
		}
		if !reachable.Has(int(b.ID)) {
			return errors.Wrapf(ErrMalformed, "block %s is unreachable", b)
		}
		for _, s := range b.Succs {
			succ := g.Block(s)
			if succ == nil {
				return errors.Wrapf(ErrMalformed, "block %s links to unknown %s", b, s)
			}
			if !contains(succ.Preds, b.ID) {
				return errors.Wrapf(ErrMalformed, "edge %s -> %s has no back-link", b.ID, s)
			}
		}
		for _, p := range b.Preds {
			pred := g.Block(p)
			if pred == nil || !contains(pred.Succs, b.ID) {
				return errors.Wrapf(ErrMalformed, "block %s lists %s as predecessor without an edge", b, p)
			}
		}
		for _, s := range b.Stmts {
			br, ok := s.(*ir.Branch)
			if !ok {
				continue
			}
			targets := []ir.BlockID{br.Then}
			if br.Conditional() {
				targets = append(targets, br.Else)
			}
			for _, t := range targets {
				if !contains(b.Succs, t) {
					return errors.Wrapf(ErrMalformed, "branch in %s targets %s which is not a successor", b, t)
				}
			}
		}
	}
	return nil
}

func contains(ids []ir.BlockID, id ir.BlockID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
