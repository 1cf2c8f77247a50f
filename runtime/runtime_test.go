package runtime

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergev/fikl/lang"
	"github.com/sergev/fikl/reader"
)

func TestReadFileSkippingShebang(t *testing.T) {
	dir := t.TempDir()

	withShebang := filepath.Join(dir, "script.fikl")
	require.NoError(t, os.WriteFile(withShebang, []byte("#!/usr/bin/env fikl\n(+ 1 2)\n"), 0o600))
	data, err := readFileSkippingShebang(withShebang)
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 2)\n", string(data))

	onlyShebang := filepath.Join(dir, "only_shebang.fikl")
	require.NoError(t, os.WriteFile(onlyShebang, []byte("#!/bin/true"), 0o600))
	data, err = readFileSkippingShebang(onlyShebang)
	require.NoError(t, err)
	assert.Empty(t, data)

	plain := filepath.Join(dir, "plain.fikl")
	require.NoError(t, os.WriteFile(plain, []byte("(len '(1 2))"), 0o600))
	data, err = readFileSkippingShebang(plain)
	require.NoError(t, err)
	assert.Equal(t, "(len '(1 2))", string(data))

	_, err = readFileSkippingShebang(filepath.Join(dir, "missing.fikl"))
	assert.Error(t, err)
}

func TestEvaluateFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fact.fikl")
	src := `#!/usr/bin/env fikl
(define (fact n)
  (if (< n 2)
      1
      (* n (fact (- n 1)))))
(fact 10)
`
	require.NoError(t, os.WriteFile(script, []byte(src), 0o600))

	ev := NewEvaluator()
	val, err := EvaluateFile(ev, script)
	require.NoError(t, err)
	assert.Equal(t, int64(3628800), val.Int())

	bad := filepath.Join(dir, "bad.fikl")
	require.NoError(t, os.WriteFile(bad, []byte("(+ 1"), 0o600))
	_, err = EvaluateFile(ev, bad)
	assert.ErrorIs(t, err, reader.ErrIncomplete)
}

func TestSetArgvProducesList(t *testing.T) {
	env := lang.NewEnv(nil)
	SetArgv(env, []string{"foo", "bar"})

	val, err := env.Lookup("*argv*")
	require.NoError(t, err)
	require.Equal(t, lang.TypeList, val.Type)
	items := val.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "foo", items[0].Str())
	assert.Equal(t, "bar", items[1].Str())

	SetArgv(env, nil)
	val, _ = env.Lookup("*argv*")
	assert.True(t, val.IsEmptyList())
}

func TestPrelude(t *testing.T) {
	ev := NewEvaluator()
	tests := []struct {
		src  string
		want string
	}{
		{"(map (lambda (x) (* x x)) '(1 2 3))", "(1 4 9)"},
		{"(map car '())", "()"},
		{"(filter (lambda (x) (> x 1)) '(0 1 2 3))", "(2 3)"},
		{"(foldl + 0 (range 5))", "10"},
		{"(reverse '(1 2 3))", "(3 2 1)"},
		{"(last '(1 2 3))", "3"},
		{"(nth '(a b c) 1)", "b"},
		{"(sum (range 101))", "5050"},
		{"(sum '())", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, evalSrc(t, ev, tt.src).String())
		})
	}

	bare := NewEvaluator(WithoutPrelude())
	_, err := EvaluateString(bare, "(last '(1 2))")
	var unbound *lang.UnboundSymbolError
	require.ErrorAs(t, err, &unbound)
	assert.Equal(t, "last", unbound.Name)
	assert.Equal(t, "(2 1)", evalSrc(t, bare, "(reverse '(1 2))").String())
}

func TestLexicalScopingEndToEnd(t *testing.T) {
	ev := NewEvaluator()
	src := `
(define (make-counter)
  (let ((n 0))
    (lambda ()
      (set! n (+ n 1))
      n)))
(define c1 (make-counter))
(define c2 (make-counter))
(c1)
(c1)
(c2)
(list (c1) (c2))
`
	assert.Equal(t, "(3 2)", evalSrc(t, ev, src).String())

	src = `
(define x 'global)
(define (show) x)
(define (caller x) (show))
(caller 'local)
`
	assert.Equal(t, "global", evalSrc(t, ev, src).String())
}

func TestSpecialFormExamples(t *testing.T) {
	ev := NewEvaluator()
	assert.Equal(t, "1", evalSrc(t, ev, "(if true 1 2)").String())
	assert.Equal(t, "2", evalSrc(t, ev, "(if false 1 2)").String())
	assert.Equal(t, "6", evalSrc(t, ev, "((lambda (x) (+ x 1)) 5)").String())

	err := evalErr(t, ev, "((lambda (x) (+ x 1)) 1 2)")
	var arity *lang.ArityError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 1, arity.Expected)
	assert.Equal(t, 2, arity.Got)

	err = evalErr(t, ev, "(undefined-symbol)")
	var unbound *lang.UnboundSymbolError
	require.ErrorAs(t, err, &unbound)
	assert.Equal(t, "undefined-symbol", unbound.Name)
}

func TestMaxDepthOption(t *testing.T) {
	ev := NewEvaluator(WithMaxDepth(500))
	assert.Equal(t, 500, ev.MaxDepth)
	_, err := EvaluateString(ev, "(define (down n) (if (== n 0) 0 (down (- n 1)))) (down 10000)")
	assert.ErrorIs(t, err, lang.ErrStackExhausted)

	ev = NewEvaluator()
	assert.Equal(t, "0", evalSrc(t, ev, "(define (down n) (if (== n 0) 0 (down (- n 1)))) (down 500)").String())
}

func TestLoggerOption(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ev := NewEvaluator(WithoutPrelude(), WithLogger(logger))

	evalSrc(t, ev, "(define (id x) x) (id 1)")
	out := buf.String()
	assert.True(t, strings.Contains(out, "msg=define name=id"), out)
	assert.True(t, strings.Contains(out, `msg="apply closure" closure="<closure id>" args=1`), out)
}

func TestQuasiquote(t *testing.T) {
	ev := NewEvaluator()
	evalSrc(t, ev, "(define x 5) (define xs '(1 2))")
	tests := []struct {
		src  string
		want string
	}{
		{"`x", "x"},
		{"`(a b)", "(a b)"},
		{"`(x ,x)", "(x 5)"},
		{"`(0 ,@xs 3)", "(0 1 2 3)"},
		{"`(,@xs)", "(1 2)"},
		{"`(,@'() end)", "(end)"},
		{"`(a (b ,(+ x 1)))", "(a (b 6))"},
		{"`(1 . ,x)", "(1 . 5)"},
		{"`,x", "5"},
		{"`(a `(b ,(c ,x)))", "(a (quasiquote (b (unquote (c 5)))))"},
		{"`(:k \"s\" 1.5)", `(:k "s" 1.5)`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, evalSrc(t, ev, tt.src).String())
		})
	}

	var syntaxErr *lang.SyntaxError
	require.ErrorAs(t, evalErr(t, ev, ",x"), &syntaxErr)
	assert.Equal(t, "unquote", syntaxErr.Form)
	require.ErrorAs(t, evalErr(t, ev, "`,@xs"), &syntaxErr)
	assert.Equal(t, "unquote-splicing", syntaxErr.Form)

	var typeErr *lang.TypeError
	require.ErrorAs(t, evalErr(t, ev, "`(a ,@x)"), &typeErr)
	assert.Equal(t, "unquote-splicing", typeErr.Name)
	assert.Equal(t, "int", typeErr.Got)

	var unbound *lang.UnboundSymbolError
	require.ErrorAs(t, evalErr(t, ev, "`(a ,missing)"), &unbound)
	assert.Equal(t, "missing", unbound.Name)
}

func TestEvalForm(t *testing.T) {
	ev := NewEvaluator()
	assert.Equal(t, "3", evalSrc(t, ev, "(eval '(+ 1 2))").String())
	assert.Equal(t, "7", evalSrc(t, ev, "(eval 7)").String())
	assert.Equal(t, "12", evalSrc(t, ev, "(define n 4) (eval `(* ,n 3))").String())
	assert.Equal(t, "local", evalSrc(t, ev, "(let ((y 'local)) (eval 'y))").String())

	evalSrc(t, ev, "(eval '(define from-eval 1))")
	assert.Equal(t, "1", evalSrc(t, ev, "from-eval").String())

	var syntaxErr *lang.SyntaxError
	require.ErrorAs(t, evalErr(t, ev, "(eval)"), &syntaxErr)
	assert.Equal(t, "eval", syntaxErr.Form)
}

func TestListFunctionsOnLongLists(t *testing.T) {
	ev := NewEvaluator()
	assert.Equal(t, "20000", evalSrc(t, ev, "(len (map (lambda (x) (* x 2)) (range 20000)))").String())
	assert.Equal(t, "10000", evalSrc(t, ev, "(len (filter (lambda (x) (== (% x 2) 0)) (range 20000)))").String())
	assert.Equal(t, "199990000", evalSrc(t, ev, "(sum (range 20000))").String())
	assert.Equal(t, "0", evalSrc(t, ev, "(last (reverse (range 20000)))").String())
}
