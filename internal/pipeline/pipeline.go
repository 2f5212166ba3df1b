// Package pipeline runs lowering and SSA construction for every function of a module.
package pipeline

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/cfg"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/cfg/gen"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/ast"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/phase"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/ssa"
)

var (
	// ErrInternal wraps panics and impossible phase transitions.
	ErrInternal = errors.New("internal compiler error")
	// ErrHasErrors is returned without running anything when the bag already holds errors.
	ErrHasErrors = errors.New("compilation failed with errors")
)

// Options configure a pipeline run.
type Options struct {
	Jobs        int // functions processed in parallel; <= 0 means GOMAXPROCS
	Logger      logrus.FieldLogger
	Diagnostics *diagnostics.DiagnosticBag
}

// Function is one function in SSA form.
type Function struct {
	Name  string
	Graph *cfg.Graph
	Defs  *gen.DefSites
}

// Result holds every function of the module, in source order.
type Result struct {
	Functions []*Function
	Phases    *phase.Tracker
}

// Pipeline coordinates the per-function phases.
type Pipeline struct {
	opts   Options
	phases *phase.Tracker
	done   atomic.Int32
}

// New creates a pipeline. A nil logger discards everything; a nil bag collects warnings nobody reads.
func New(opts Options) *Pipeline {
	if opts.Logger == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.PanicLevel)
		opts.Logger = logger
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = diagnostics.NewDiagnosticBag("", "")
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	return &Pipeline{opts: opts, phases: phase.NewTracker()}
}

// Run processes every function of mod. Functions share no state, so they run in
// parallel; the first failure cancels the rest and no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, mod *ast.Module) (*Result, error) {
	if p.opts.Diagnostics.HasErrors() {
		return nil, errors.WithStack(ErrHasErrors)
	}

	log := p.opts.Logger.WithField("module", mod.FullPath)
	log.WithField("funcs", len(mod.Funcs)).Debug("pipeline started")

	out := make([]*Function, len(mod.Funcs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Jobs)
	for i, fn := range mod.Funcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := p.runFunction(fn)
			if err != nil {
				return err
			}
			out[i] = f
			p.done.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Debug("pipeline failed")
		return nil, err
	}

	log.WithField("done", p.done.Load()).Debug("pipeline finished")
	return &Result{Functions: out, Phases: p.phases}, nil
}

// runFunction takes one function through every phase, strictly in order.
func (p *Pipeline) runFunction(fn *ast.FuncDecl) (f *Function, err error) {
	name := "<unnamed>"
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, errors.Wrapf(ErrInternal, "function %s: %v", name, r)
		}
	}()
	name = fn.Name.Name
	log := p.opts.Logger.WithField("func", name)

	graph, defs, err := gen.NewBuilder(p.opts.Diagnostics).Build(fn)
	if err != nil {
		return nil, err
	}
	if err := graph.Verify(); err != nil {
		return nil, errors.Wrapf(err, "function %s", name)
	}
	if err := p.advance(name, phase.PhaseLowered); err != nil {
		return nil, err
	}
	log.WithField("blocks", graph.Len()).Debug("lowered")

	if err := graph.CommitAllChanges(); err != nil {
		return nil, errors.Wrapf(err, "function %s", name)
	}
	if err := p.advance(name, phase.PhaseCommitted); err != nil {
		return nil, err
	}

	phis := ssa.InsertPhis(graph, defs)
	if err := p.advance(name, phase.PhasePhisPlaced); err != nil {
		return nil, err
	}
	log.WithField("phis", phis).Debug("phis placed")

	if err := ssa.RenameAll(graph, defs); err != nil {
		return nil, err
	}
	if err := p.advance(name, phase.PhaseRenamed); err != nil {
		return nil, err
	}

	if err := ssa.Verify(graph); err != nil {
		return nil, errors.Wrapf(err, "function %s", name)
	}
	if err := p.advance(name, phase.PhaseVerified); err != nil {
		return nil, err
	}
	log.Debug("verified")

	return &Function{Name: name, Graph: graph, Defs: defs}, nil
}

func (p *Pipeline) advance(fn string, target phase.FunctionPhase) error {
	if !p.phases.Advance(fn, target) {
		return errors.Wrapf(ErrInternal, "function %s: cannot advance from %v to %v", fn, p.phases.Get(fn), target)
	}
	return nil
}
