package compiler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/epoll-reactor/weak-compiler-sub000/colors"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/config"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/diagnostics"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/lexer"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/frontend/parser"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/pipeline"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/ssa"
)

type FORMAT int

const (
	ANSI FORMAT = iota
	HTML
)

// Options for compilation
type Options struct {
	// For file-based compilation
	EntryFile string
	// For in-memory compilation (WASM)
	Code string
	// Nil means config.Default()
	Config *config.Config
	// Nil discards log entries
	Logger logrus.FieldLogger
	// Output format: ANSI writes to Out and Diag, HTML returns everything in Result.Output
	LogFormat FORMAT
	// Dumps go here unless Config.OutDir is set (default os.Stdout)
	Out io.Writer
	// Diagnostics go here (default os.Stderr)
	Diag io.Writer
	// Token listing, nil to disable
	Debug io.Writer
}

// Result of compilation
type Result struct {
	Success   bool
	Output    string
	Functions []*pipeline.Function
}

// Compile compiles weak code and returns the result
func Compile(opts *Options) Result {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	out, diagOut := opts.Out, opts.Diag
	if out == nil {
		out = os.Stdout
	}
	if diagOut == nil {
		diagOut = os.Stderr
	}
	var html bytes.Buffer
	if opts.LogFormat == HTML {
		out, diagOut = &html, &html
	}

	name, content := "<input>", opts.Code
	if opts.EntryFile != "" {
		data, err := os.ReadFile(opts.EntryFile)
		if err != nil {
			msg := fmt.Sprintf("cannot read %s: %v\n", opts.EntryFile, err)
			if opts.LogFormat == HTML {
				return Result{Output: colors.ConvertANSIToHTML(colors.RED.Sprint(msg))}
			}
			colors.RED.Fprint(diagOut, msg)
			return Result{}
		}
		name, content = opts.EntryFile, string(data)
	}

	bag := diagnostics.NewDiagnosticBag(name, content)
	toks := lexer.New(name, content, bag).Tokenize(opts.Debug)
	mod := parser.Parse(toks, name, bag)

	res, err := pipeline.New(pipeline.Options{
		Jobs:        cfg.Jobs,
		Logger:      opts.Logger,
		Diagnostics: bag,
	}).Run(context.Background(), mod)

	result := Result{Success: err == nil}
	switch {
	case err == nil, errors.Is(err, pipeline.ErrHasErrors), bag.HasErrors():
	case errors.Is(err, ssa.ErrNoReachingDef):
		// a read on a path where the variable was never assigned
		colors.RED.Fprintf(diagOut, "error: %v\n", err)
	default:
		colors.RED.Fprintf(diagOut, "internal error: %v\n", err)
	}
	if len(bag.Diagnostics()) > 0 {
		bag.EmitAll(diagOut)
	}

	if res != nil {
		result.Functions = res.Functions
		if err := writeDumps(cfg, res.Functions, out); err != nil {
			colors.RED.Fprintf(diagOut, "%v\n", err)
			result.Success = false
		}
	}

	if opts.LogFormat == HTML {
		result.Output = colors.ConvertANSIToHTML(html.String())
	}
	return result
}

// writeDumps renders every requested dump of every function, either to w or,
// when OutDir is set, to <OutDir>/<func>.<kind>.
func writeDumps(cfg *config.Config, funcs []*pipeline.Function, w io.Writer) error {
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return errors.Wrap(err, "create output directory")
		}
	}
	for _, kind := range []string{config.EmitSSA, config.EmitDOT, config.EmitDom} {
		if !cfg.Wants(kind) {
			continue
		}
		for _, fn := range funcs {
			var buf bytes.Buffer
			if err := dump(kind, fn, &buf); err != nil {
				return err
			}
			if cfg.OutDir == "" {
				if _, err := buf.WriteTo(w); err != nil {
					return errors.Wrap(err, "write dump")
				}
				continue
			}
			path := filepath.Join(cfg.OutDir, fn.Name+"."+kind)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return errors.Wrapf(err, "write %s", path)
			}
		}
	}
	return nil
}

func dump(kind string, fn *pipeline.Function, w io.Writer) error {
	switch kind {
	case config.EmitSSA:
		_, err := io.WriteString(w, fn.Graph.String())
		return err
	case config.EmitDOT:
		return fn.Graph.WriteDOT(w)
	case config.EmitDom:
		return fn.Graph.WriteDomTree(w)
	}
	return errors.Errorf("unknown dump kind %q", kind)
}
