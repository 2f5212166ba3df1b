package ssa

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/cfg"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
)

type defSite struct {
	block ir.BlockID
	index int
}

// Verify checks that every version is defined exactly once, every use and phi argument
// is versioned, and every definition dominates its uses. A phi argument is used at the
// end of its predecessor; Undef arguments are allowed.
func Verify(g *cfg.Graph) error {
	defined := mapset.NewThreadUnsafeSet[ir.Var]()
	sites := make(map[ir.Var]defSite)

	for _, b := range g.Blocks() {
		for i, s := range b.Stmts {
			v, ok := ir.Defines(s)
			if !ok {
				continue
			}
			if !v.Versioned() {
				return errors.Wrapf(ErrInvalid, "%s: definition of %s has no version", b.ID, v.Name)
			}
			if !defined.Add(v) {
				return errors.Wrapf(ErrInvalid, "%s: %s is defined twice", b.ID, v)
			}
			sites[v] = defSite{block: b.ID, index: i}
		}
	}

	for _, b := range g.Blocks() {
		for i, s := range b.Stmts {
			if phi, ok := s.(*ir.Phi); ok {
				if err := verifyPhi(g, b, phi, sites); err != nil {
					return err
				}
				continue
			}
			for _, u := range ir.UsesOf(s) {
				if u.Var.Name != u.Ident.Name {
					return errors.Wrapf(ErrInvalid, "%s: use of %s is bound to %s", b.ID, u.Ident.Name, u.Var)
				}
				if !u.Var.Versioned() {
					return errors.Wrapf(ErrInvalid, "%s: use of %s has no version", b.ID, u.Var.Name)
				}
				def, ok := sites[u.Var]
				if !ok {
					return errors.Wrapf(ErrInvalid, "%s: %s is used but never defined", b.ID, u.Var)
				}
				if (def.block == b.ID && def.index >= i) || (def.block != b.ID && !g.Dominates(def.block, b.ID)) {
					return errors.Wrapf(ErrInvalid, "%s: definition of %s in %s does not dominate its use", b.ID, u.Var, def.block)
				}
			}
		}
	}
	return nil
}

func verifyPhi(g *cfg.Graph, b *cfg.BasicBlock, phi *ir.Phi, sites map[ir.Var]defSite) error {
	if len(phi.Edges) != len(b.Preds) {
		return errors.Wrapf(ErrInvalid, "%s: phi for %s has %d edges for %d predecessors", b.ID, phi.Dst, len(phi.Edges), len(b.Preds))
	}
	for _, pred := range b.Preds {
		edge := phi.Edge(pred)
		if edge == nil {
			return errors.Wrapf(ErrMissingPhiEdge, "%s: phi for %s from %s", b.ID, phi.Dst, pred)
		}
		switch {
		case edge.Arg.Version == ir.Undef:
		case !edge.Arg.Versioned():
			return errors.Wrapf(ErrInvalid, "%s: phi for %s has an unresolved edge from %s", b.ID, phi.Dst, pred)
		default:
			def, ok := sites[edge.Arg]
			if !ok {
				return errors.Wrapf(ErrInvalid, "%s: phi argument %s is never defined", b.ID, edge.Arg)
			}
			if !g.Dominates(def.block, pred) {
				return errors.Wrapf(ErrInvalid, "%s: definition of %s does not dominate predecessor %s", b.ID, edge.Arg, pred)
			}
		}
	}
	return nil
}
