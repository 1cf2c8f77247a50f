package runtime

import (
	"cmp"
	"strings"

	"github.com/sergev/fikl/lang"
)

func builtinLess(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain("<", func(c int) bool { return c < 0 }, args)
}

func builtinGreater(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain(">", func(c int) bool { return c > 0 }, args)
}

func builtinLessEq(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain("<=", func(c int) bool { return c <= 0 }, args)
}

func builtinGreaterEq(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return compareChain(">=", func(c int) bool { return c >= 0 }, args)
}

// compareChain checks every adjacent pair so that a type mismatch anywhere
// in the arguments is reported even when an earlier pair already failed.
func compareChain(name string, holds func(int) bool, args []lang.Value) (lang.Value, error) {
	if err := expectAtLeast(name, args, 1); err != nil {
		return lang.Value{}, err
	}
	result := true
	for i := 1; i < len(args); i++ {
		c, err := compareValues(name, args[i-1], args[i])
		if err != nil {
			return lang.Value{}, err
		}
		if !holds(c) {
			result = false
		}
	}
	return lang.BoolValue(result), nil
}

func compareValues(name string, a, b lang.Value) (int, error) {
	switch {
	case a.IsNumber():
		if !b.IsNumber() {
			return 0, lang.NewTypeError(name, "numeric", b)
		}
		if a.Type == lang.TypeInt && b.Type == lang.TypeInt {
			return cmp.Compare(a.Int(), b.Int()), nil
		}
		return cmp.Compare(toFloat(a), toFloat(b)), nil
	case a.Type == lang.TypeString:
		if b.Type != lang.TypeString {
			return 0, lang.NewTypeError(name, "string", b)
		}
		return strings.Compare(a.Str(), b.Str()), nil
	default:
		return 0, lang.NewTypeError(name, "numeric or string", a)
	}
}

func builtinEqual(name string) lang.BuiltinFunc {
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		return equalityChain(name, lang.Equal, args)
	}
}

func builtinEq(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return equalityChain("eq?", lang.Identical, args)
}

func builtinNotEqual(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("!=", args, 2); err != nil {
		return lang.Value{}, err
	}
	return lang.BoolValue(!lang.Equal(args[0], args[1])), nil
}

func equalityChain(name string, eq func(a, b lang.Value) bool, args []lang.Value) (lang.Value, error) {
	if err := expectAtLeast(name, args, 1); err != nil {
		return lang.Value{}, err
	}
	for i := 1; i < len(args); i++ {
		if !eq(args[i-1], args[i]) {
			return lang.BoolValue(false), nil
		}
	}
	return lang.BoolValue(true), nil
}
