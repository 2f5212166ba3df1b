//go:build !js && !wasm

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/moby/term"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/epoll-reactor/weak-compiler-sub000/colors"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/compiler"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/config"
)

const version = "0.1.0"

var errCompileFailed = errors.New("compilation failed")

type cliOptions struct {
	version    bool
	configFile string
	debug      bool
	conf       *config.Config
	flags      *pflag.FlagSet
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := cliOptions{conf: config.Default()}

	cmd := &cobra.Command{
		Use:           "weak [flags] <file>",
		Short:         "Build the SSA form of every function in a weak source file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(stdout, "weak compiler version %s\n", version)
				return nil
			}
			opts.flags = cmd.Flags()
			return run(opts, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.BoolVarP(&opts.version, "version", "v", false, "Print version information and quit")
	flags.StringVarP(&opts.configFile, "config", "c", config.FileName, "Configuration file")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "Print the token stream")
	flags.StringSliceVar(&opts.conf.Emit, "emit", opts.conf.Emit, "Dumps to produce: ssa, dot, dom")
	flags.StringVarP(&opts.conf.OutDir, "out-dir", "o", "", "Write dumps to <dir>/<func>.<kind> instead of stdout")
	flags.IntVarP(&opts.conf.Jobs, "jobs", "j", opts.conf.Jobs, "Functions processed in parallel")
	flags.StringVar(&opts.conf.LogLevel, "log-level", opts.conf.LogLevel, "Log level: debug, info, warning, error")
	flags.StringVar(&opts.conf.Color, "color", opts.conf.Color, "Colorize diagnostics: auto, always, never")
	return cmd
}

// loadConfig reads the config file and applies the flags the user set explicitly on top of it.
func loadConfig(opts cliOptions) (*config.Config, error) {
	var (
		conf *config.Config
		err  error
	)
	if opts.flags.Changed("config") {
		conf, err = config.Load(opts.configFile)
	} else {
		conf, err = config.LoadOptional(opts.configFile)
	}
	if err != nil {
		return nil, err
	}

	if opts.flags.Changed("emit") {
		conf.Emit = opts.conf.Emit
	}
	if opts.flags.Changed("out-dir") {
		conf.OutDir = opts.conf.OutDir
	}
	if opts.flags.Changed("jobs") {
		conf.Jobs = opts.conf.Jobs
	}
	if opts.flags.Changed("log-level") {
		conf.LogLevel = opts.conf.LogLevel
	}
	if opts.flags.Changed("color") {
		conf.Color = opts.conf.Color
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	_, isTerminal := term.GetFdInfo(w)
	return isTerminal
}

func run(opts cliOptions, file string, stdout, stderr io.Writer) error {
	conf, err := loadConfig(opts)
	if err != nil {
		return err
	}
	colors.SetEnabled(useColor(conf.Color, stderr))

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(conf.Level())

	var debug io.Writer
	if opts.debug {
		debug = stderr
	}

	result := compiler.Compile(&compiler.Options{
		EntryFile: file,
		Config:    conf,
		Logger:    logger,
		LogFormat: compiler.ANSI,
		Out:       stdout,
		Diag:      stderr,
		Debug:     debug,
	})
	if !result.Success {
		return errCompileFailed
	}
	return nil
}

func main() {
	_, stdout, stderr := term.StdStreams()

	cmd := newRootCommand(stdout, stderr)
	if err := cmd.Execute(); err != nil {
		// the compiler already reported its own failure
		if !errors.Is(err, errCompileFailed) {
			fmt.Fprintf(stderr, "weak: %s\n", err)
		}
		os.Exit(1)
	}
}
