package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sergev/fikl/config"
	"github.com/sergev/fikl/lang"
	"github.com/sergev/fikl/runtime"
)

type cliOptions struct {
	exprs      []string
	configPath string
	maxDepth   int
	logLevel   string
	noPrelude  bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts cliOptions
	cmd := &cobra.Command{
		Use:   "fikl [file | -] [args...]",
		Short: "Evaluate fikl programs",
		Long: `Run a fikl script, evaluate expressions given with -e, or start an
interactive session when no arguments are supplied.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, &opts, args)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "fikl: %v\n", err)
			}
			return err
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringArrayVarP(&opts.exprs, "eval", "e", nil,
		"Evaluate an expression and print its value (repeatable)")
	cmd.Flags().StringVar(&opts.configPath, "config", "",
		"Read settings from this YAML file instead of ~/"+config.DefaultFileName)
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", lang.DefaultMaxDepth,
		"Maximum nested evaluation depth")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn",
		"Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.noPrelude, "no-prelude", false,
		"Do not load the Lisp-level library")
	return cmd
}

func loadConfig(cmd *cobra.Command, opts *cliOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		cfg.MaxDepth = opts.maxDepth
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noPrelude {
		cfg.Prelude = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newEvaluator(cfg *config.Config, logOut io.Writer) *lang.Evaluator {
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	evOpts := []runtime.Option{
		runtime.WithMaxDepth(cfg.MaxDepth),
		runtime.WithLogger(logger),
	}
	if !cfg.Prelude {
		evOpts = append(evOpts, runtime.WithoutPrelude())
	}
	return runtime.NewEvaluator(evOpts...)
}

func run(cmd *cobra.Command, opts *cliOptions, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	ev := newEvaluator(cfg, cmd.ErrOrStderr())
	runtime.SetArgv(ev.Global, args)

	if len(opts.exprs) > 0 {
		for _, src := range opts.exprs {
			val, err := runtime.EvaluateString(ev, src)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), val.String())
		}
		return nil
	}

	if len(args) > 0 {
		if args[0] == "-" {
			_, err = runtime.EvaluateReader(ev, cmd.InOrStdin())
		} else {
			_, err = runtime.EvaluateFile(ev, args[0])
		}
		return err
	}

	runREPL(ev, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	return nil
}
