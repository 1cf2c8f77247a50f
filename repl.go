package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/sergev/fikl/config"
	"github.com/sergev/fikl/lang"
	"github.com/sergev/fikl/reader"
)

func runREPL(ev *lang.Evaluator, cfg *config.Config, in io.Reader, out, errOut io.Writer) {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		runInteractiveREPL(ev, cfg, out, errOut)
		return
	}
	runBufferedREPL(ev, bufio.NewReader(in), out, errOut)
}

func isIncomplete(err error) bool {
	return errors.Is(err, reader.ErrIncomplete)
}

// evalForms prints each value and stops at the first error.
func evalForms(ev *lang.Evaluator, forms []lang.Value, out, errOut io.Writer) {
	for _, expr := range forms {
		val, err := ev.Eval(expr, nil)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return
		}
		fmt.Fprintln(out, val.String())
	}
}

func runBufferedREPL(ev *lang.Evaluator, in *bufio.Reader, out, errOut io.Writer) {
	var buffer strings.Builder

	for {
		line, err := in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if buffer.Len() == 0 && line == "" {
					return
				}
			} else {
				fmt.Fprintf(errOut, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(line)
		forms, parseErr := reader.ReadString(buffer.String())
		if parseErr != nil {
			if isIncomplete(parseErr) && !errors.Is(err, io.EOF) {
				continue
			}
			fmt.Fprintf(errOut, "parse error: %v\n", parseErr)
			buffer.Reset()
			if errors.Is(err, io.EOF) {
				return
			}
			continue
		}
		buffer.Reset()
		evalForms(ev, forms, out, errOut)
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func runInteractiveREPL(ev *lang.Evaluator, cfg *config.Config, out, errOut io.Writer) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)
	state.SetCompleter(symbolCompleter(ev.Global))

	if historyPath := cfg.HistoryPath(); historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := cfg.Prompt
		if buffer.Len() > 0 {
			prompt = cfg.ContinuationPrompt
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(out)
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(out)
				return
			default:
				fmt.Fprintf(errOut, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		forms, parseErr := reader.ReadString(src)
		if parseErr != nil {
			if isIncomplete(parseErr) {
				continue
			}
			fmt.Fprintf(errOut, "parse error: %v\n", parseErr)
			buffer.Reset()
			continue
		}

		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		evalForms(ev, forms, out, errOut)
	}
}

// symbolCompleter completes the last word of the line against names bound
// in env.
func symbolCompleter(env *lang.Env) liner.Completer {
	return func(line string) []string {
		start := strings.LastIndexAny(line, " \t\n()'") + 1
		prefix, word := line[:start], line[start:]
		if word == "" {
			return nil
		}
		var matches []string
		for _, name := range env.Symbols() {
			if strings.HasPrefix(name, word) {
				matches = append(matches, prefix+name)
			}
		}
		return matches
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
