package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergev/fikl/lang"
	"github.com/sergev/fikl/runtime"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestBufferedREPL(t *testing.T) {
	ev := runtime.NewEvaluator()
	var out, errOut bytes.Buffer
	input := "(define (sq x)\n  (* x x))\n(sq 7) (car '())\n\"s\"\n(+ 1"
	runBufferedREPL(ev, bufio.NewReader(strings.NewReader(input)), &out, &errOut)

	assert.Equal(t, "<closure sq>\n49\n\"s\"\n", out.String())
	assert.Contains(t, errOut.String(), "error: car: empty list")
	assert.Contains(t, errOut.String(), "parse error:")
}

func TestBufferedREPLRecoversFromParseError(t *testing.T) {
	ev := runtime.NewEvaluator()
	var out, errOut bytes.Buffer
	runBufferedREPL(ev, bufio.NewReader(strings.NewReader(")\n(+ 1 2)\n")), &out, &errOut)
	assert.Equal(t, "3\n", out.String())
	assert.Equal(t, "parse error: 1:1: unexpected )\n", errOut.String())
}

func TestEvalFlag(t *testing.T) {
	out, _, err := execute(t, "", "-e", "(+ 1 2)", "-e", "(define x 5)", "-e", "(* x x)")
	require.NoError(t, err)
	assert.Equal(t, "3\n5\n25\n", out)

	_, errOut, err := execute(t, "", "-e", "(undefined)")
	require.Error(t, err)
	assert.Equal(t, "fikl: unbound symbol: undefined\n", errOut)
}

func TestScriptFileAndArgv(t *testing.T) {
	script := filepath.Join(t.TempDir(), "args.fikl")
	require.NoError(t, os.WriteFile(script, []byte("#!/usr/bin/env fikl\n(define n (len *argv*))\n(car (cdr *argv*))\n"), 0o600))
	_, _, err := execute(t, "", script, "one", "-x")
	require.NoError(t, err)

	_, errOut, err := execute(t, "", filepath.Join(t.TempDir(), "missing.fikl"))
	require.Error(t, err)
	assert.Contains(t, errOut, "fikl: ")
}

func TestStdinScript(t *testing.T) {
	_, _, err := execute(t, "(define x 1) (car x)", "-")
	var typeErr *lang.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "car", typeErr.Name)
}

func TestREPLFromCommand(t *testing.T) {
	out, _, err := execute(t, "(list 1 2)\n(len '(a b c))\n")
	require.NoError(t, err)
	assert.Equal(t, "(1 2)\n3\n", out)
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "fikl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_depth: 50\nprelude: false\n"), 0o600))

	deep := "(define (down n) (if (== n 0) 0 (down (- n 1)))) (down 100)"
	_, errOut, err := execute(t, "", "--config", cfgPath, "-e", deep)
	require.ErrorIs(t, err, lang.ErrStackExhausted)
	assert.Contains(t, errOut, "stack exhausted")

	out, _, err := execute(t, "", "--config", cfgPath, "--max-depth", "5000", "-e", deep)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, _, err = execute(t, "", "--config", cfgPath, "-e", "(last '(1 2))")
	var unbound *lang.UnboundSymbolError
	require.ErrorAs(t, err, &unbound)

	_, _, err = execute(t, "", "--log-level", "loud", "-e", "1")
	assert.Error(t, err)
}

func TestDebugLogging(t *testing.T) {
	_, errOut, err := execute(t, "", "--log-level", "debug", "--no-prelude", "-e", "(define y 2)")
	require.NoError(t, err)
	assert.Contains(t, errOut, "msg=define name=y")
}

func TestSymbolCompleter(t *testing.T) {
	ev := runtime.NewEvaluator(runtime.WithoutPrelude())
	complete := symbolCompleter(ev.Global)

	got := complete("(app")
	assert.Equal(t, []string{"(append", "(apply"}, got)
	assert.Nil(t, complete("(car "))
	assert.Empty(t, complete("(zzz"))
}
