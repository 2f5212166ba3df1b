// Package ssa turns a committed control-flow graph into SSA form:
// phi insertion at iterated dominance frontiers, then per-variable renaming.
package ssa

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/cfg"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/cfg/gen"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/source"
)

var (
	ErrNotCommitted   = errors.New("ssa: graph is not committed")
	ErrNoReachingDef  = errors.New("ssa: use without a reaching definition")
	ErrMissingPhiEdge = errors.New("ssa: phi has no edge for predecessor")
	ErrInvalid        = errors.New("ssa: invalid SSA form")
)

// Build inserts phis and renames every variable of g.
// Variables that are read but never defined are renamed too, so their uses fail.
func Build(g *cfg.Graph, defs *gen.DefSites, log logrus.FieldLogger) error {
	if !g.Committed() {
		return errors.WithStack(ErrNotCommitted)
	}
	log = log.WithField("func", g.Name)

	n := InsertPhis(g, defs)
	log.WithField("phis", n).Debug("inserted phis")

	if err := RenameAll(g, defs); err != nil {
		return err
	}
	log.Debug("renamed")
	return nil
}

// RenameAll renames every defined variable, then every variable read without a definition.
func RenameAll(g *cfg.Graph, defs *gen.DefSites) error {
	names := make([]string, 0, len(defs.Names()))
	names = append(names, defs.Names()...)
	names = append(names, defs.Undefined()...)
	for _, name := range names {
		if err := Rename(g, name); err != nil {
			return errors.Wrapf(err, "function %s", g.Name)
		}
	}
	return nil
}

// InsertPhis places, for each variable in first-definition order, a phi at the start of
// every block in the iterated frontier of its def sites, with one placeholder edge per
// predecessor. It returns the number of phis inserted.
func InsertPhis(g *cfg.Graph, defs *gen.DefSites) int {
	count := 0
	for _, name := range defs.Names() {
		for _, id := range g.IteratedFrontier(defs.Blocks(name)).AppendTo(nil) {
			block := g.Block(ir.BlockID(id))
			block.Prepend(ir.NewPhi(name, block.Preds, source.Location{}))
			count++
		}
	}
	return count
}

// renamer holds the version counter and the reaching-definition stack of one variable.
type renamer struct {
	g       *cfg.Graph
	name    string
	counter int
	stack   []int
}

// Rename assigns versions to every definition and use of name,
// walking the dominator tree in preorder from the entry.
func Rename(g *cfg.Graph, name string) error {
	entry := g.Entry()
	if entry == nil {
		return nil
	}
	g.ComputeDominators()
	r := &renamer{g: g, name: name}
	return r.walk(entry)
}

func (r *renamer) push() int {
	v := r.counter
	r.counter++
	r.stack = append(r.stack, v)
	return v
}

func (r *renamer) top() ir.Var {
	if len(r.stack) == 0 {
		return ir.Var{Name: r.name, Version: ir.Undef}
	}
	return ir.Var{Name: r.name, Version: r.stack[len(r.stack)-1]}
}

// resolve versions the uses of the variable with the reaching definition.
func (r *renamer) resolve(uses []ir.Use) error {
	for i := range uses {
		if uses[i].Var.Name != r.name {
			continue
		}
		if len(r.stack) == 0 {
			return errors.Wrapf(ErrNoReachingDef, "%s at %s", r.name, uses[i].Ident.Loc().Short())
		}
		uses[i].Var = r.top()
	}
	return nil
}

func (r *renamer) walk(b *cfg.BasicBlock) error {
	pushed := 0
	for _, s := range b.Stmts {
		switch s := s.(type) {
		case *ir.Phi:
			if s.Dst.Name == r.name {
				s.Dst.Version = r.push()
				pushed++
			}
		case *ir.Assign:
			if err := r.resolve(s.Uses); err != nil {
				return err
			}
			if s.Dst.Name == r.name {
				s.Dst.Version = r.push()
				pushed++
			}
		case *ir.Branch:
			if err := r.resolve(s.Uses); err != nil {
				return err
			}
		case *ir.Eval:
			if err := r.resolve(s.Uses); err != nil {
				return err
			}
		}
	}

	for _, succ := range b.Succs {
		for _, phi := range r.g.Block(succ).Phis() {
			if phi.Dst.Name != r.name {
				continue
			}
			edge := phi.Edge(b.ID)
			if edge == nil {
				return errors.Wrapf(ErrMissingPhiEdge, "phi for %s in %s from %s", r.name, succ, b.ID)
			}
			edge.Arg = r.top()
		}
	}

	for _, child := range b.Dominees {
		if err := r.walk(r.g.Block(child)); err != nil {
			return err
		}
	}

	r.stack = r.stack[:len(r.stack)-pushed]
	return nil
}
