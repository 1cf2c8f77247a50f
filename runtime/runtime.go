package runtime

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sergev/fikl/lang"
	"github.com/sergev/fikl/reader"
)

type options struct {
	prelude  bool
	maxDepth int
	logger   *slog.Logger
}

// Option customizes NewEvaluator.
type Option func(*options)

// WithoutPrelude skips loading the Lisp-level library.
func WithoutPrelude() Option {
	return func(o *options) { o.prelude = false }
}

// WithMaxDepth overrides the evaluation depth limit.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithLogger routes evaluator tracing to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewGlobalEnv builds a root environment holding every builtin.
func NewGlobalEnv() *lang.Env {
	env := lang.NewEnv(nil)
	installBuiltins(env)
	return env
}

// NewEvaluator constructs an evaluator with the standard runtime installed.
func NewEvaluator(opts ...Option) *lang.Evaluator {
	o := options{prelude: true, maxDepth: lang.DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	ev := lang.NewEvaluator(NewGlobalEnv())
	ev.MaxDepth = o.maxDepth
	if o.logger != nil {
		ev.Logger = o.logger
	}
	if o.prelude {
		if err := installLibrary(ev); err != nil {
			panic(fmt.Errorf("runtime bootstrap failed: %w", err))
		}
	}
	return ev
}

// SetArgv stores the command-line arguments as a list in the given environment.
func SetArgv(env *lang.Env, args []string) {
	values := make([]lang.Value, len(args))
	for i, arg := range args {
		values[i] = lang.StringValue(arg)
	}
	env.Define("*argv*", lang.ListValue(values))
}

func installLibrary(ev *lang.Evaluator) error {
	for _, form := range preludeForms {
		if _, err := EvaluateString(ev, form); err != nil {
			return err
		}
	}
	return nil
}

func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return data[idx+1:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}

// EvaluateReader consumes all expressions from the reader and evaluates them.
func EvaluateReader(ev *lang.Evaluator, r io.Reader) (lang.Value, error) {
	forms, err := reader.ReadAll(r)
	if err != nil {
		return lang.Value{}, err
	}
	return ev.EvalAll(forms, nil)
}

// EvaluateString parses and evaluates every expression in src.
func EvaluateString(ev *lang.Evaluator, src string) (lang.Value, error) {
	return EvaluateReader(ev, strings.NewReader(src))
}

// EvaluateFile loads and executes a source file, allowing a #! first line.
func EvaluateFile(ev *lang.Evaluator, path string) (lang.Value, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return lang.Value{}, err
	}
	return EvaluateReader(ev, bytes.NewReader(data))
}
