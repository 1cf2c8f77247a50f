package runtime

import (
	"fmt"

	"github.com/sergev/fikl/lang"
)

func builtinFirst(name string) lang.BuiltinFunc {
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if err := expectArgs(name, args, 1); err != nil {
			return lang.Value{}, err
		}
		arg := args[0]
		switch arg.Type {
		case lang.TypeList:
			items := arg.Items()
			if len(items) == 0 {
				return lang.Value{}, fmt.Errorf("%s: %w", name, lang.ErrEmptyList)
			}
			return items[0], nil
		case lang.TypePair:
			return arg.Pair().First, nil
		default:
			return lang.Value{}, lang.NewTypeError(name, "list", arg)
		}
	}
}

func builtinRest(name string) lang.BuiltinFunc {
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if err := expectArgs(name, args, 1); err != nil {
			return lang.Value{}, err
		}
		arg := args[0]
		switch arg.Type {
		case lang.TypeList:
			items := arg.Items()
			if len(items) <= 1 {
				return lang.EmptyList, nil
			}
			return lang.List(items[1:]...), nil
		case lang.TypePair:
			return arg.Pair().Second, nil
		default:
			return lang.Value{}, lang.NewTypeError(name, "list", arg)
		}
	}
}

// builtinCons prepends the first argument. With a list second argument the
// result is (x elems... rest...); with any other second argument and no
// further arguments it is the pair (x . y).
func builtinCons(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectAtLeast("cons", args, 1); err != nil {
		return lang.Value{}, err
	}
	if len(args) == 1 {
		return lang.List(args[0]), nil
	}
	second := args[1]
	if second.Type != lang.TypeList {
		if len(args) == 2 {
			return lang.PairValue(args[0], second), nil
		}
		return lang.Value{}, lang.NewTypeError("cons", "list", second)
	}
	items := second.Items()
	out := make([]lang.Value, 0, 1+len(items)+len(args)-2)
	out = append(out, args[0])
	out = append(out, items...)
	out = append(out, args[2:]...)
	return lang.ListValue(out), nil
}

func builtinLen(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("len", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeList {
		return lang.Value{}, lang.NewTypeError("len", "list", args[0])
	}
	return lang.IntValue(int64(len(args[0].Items()))), nil
}

func builtinAppend(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	var out []lang.Value
	for _, arg := range args {
		if arg.Type != lang.TypeList {
			return lang.Value{}, lang.NewTypeError("append", "list", arg)
		}
		out = append(out, arg.Items()...)
	}
	return lang.ListValue(out), nil
}

func builtinList(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return lang.List(args...), nil
}

// builtinRange accepts (range end), (range start end) or
// (range start end step) and returns the half-open sequence.
func builtinRange(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectAtLeast("range", args, 1); err != nil {
		return lang.Value{}, err
	}
	if len(args) > 3 {
		return lang.Value{}, &lang.ArityError{Name: "range", Expected: 3, Got: len(args)}
	}
	for _, arg := range args {
		if arg.Type != lang.TypeInt {
			return lang.Value{}, lang.NewTypeError("range", "int", arg)
		}
	}
	var start, end, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		end = args[0].Int()
	case 2:
		start, end = args[0].Int(), args[1].Int()
	case 3:
		start, end, step = args[0].Int(), args[1].Int(), args[2].Int()
	}
	if step == 0 {
		return lang.Value{}, fmt.Errorf("range: step must not be zero: %w", lang.ErrInvalidArgument)
	}
	var out []lang.Value
	for i := start; (step > 0 && i < end) || (step < 0 && i > end); {
		out = append(out, lang.IntValue(i))
		next := i + step
		if (step > 0) != (next > i) {
			// int64 overflow: the next element lies past the representable range.
			break
		}
		i = next
	}
	return lang.ListValue(out), nil
}

func builtinMap(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("map", args, 2); err != nil {
		return lang.Value{}, err
	}
	fn, xs := args[0], args[1]
	if !fn.IsCallable() {
		return lang.Value{}, lang.NewTypeError("map", "callable", fn)
	}
	if xs.Type != lang.TypeList {
		return lang.Value{}, lang.NewTypeError("map", "list", xs)
	}
	items := xs.Items()
	out := make([]lang.Value, 0, len(items))
	for _, item := range items {
		val, err := ev.Apply(fn, []lang.Value{item})
		if err != nil {
			return lang.Value{}, err
		}
		out = append(out, val)
	}
	return lang.ListValue(out), nil
}

func builtinFilter(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("filter", args, 2); err != nil {
		return lang.Value{}, err
	}
	pred, xs := args[0], args[1]
	if !pred.IsCallable() {
		return lang.Value{}, lang.NewTypeError("filter", "callable", pred)
	}
	if xs.Type != lang.TypeList {
		return lang.Value{}, lang.NewTypeError("filter", "list", xs)
	}
	var out []lang.Value
	for _, item := range xs.Items() {
		keep, err := ev.Apply(pred, []lang.Value{item})
		if err != nil {
			return lang.Value{}, err
		}
		if lang.IsTruthy(keep) {
			out = append(out, item)
		}
	}
	return lang.ListValue(out), nil
}

// builtinFoldl calls (f acc x) for each element from the left.
func builtinFoldl(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("foldl", args, 3); err != nil {
		return lang.Value{}, err
	}
	fn, acc, xs := args[0], args[1], args[2]
	if !fn.IsCallable() {
		return lang.Value{}, lang.NewTypeError("foldl", "callable", fn)
	}
	if xs.Type != lang.TypeList {
		return lang.Value{}, lang.NewTypeError("foldl", "list", xs)
	}
	for _, item := range xs.Items() {
		val, err := ev.Apply(fn, []lang.Value{acc, item})
		if err != nil {
			return lang.Value{}, err
		}
		acc = val
	}
	return acc, nil
}

func builtinReverse(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("reverse", args, 1); err != nil {
		return lang.Value{}, err
	}
	if args[0].Type != lang.TypeList {
		return lang.Value{}, lang.NewTypeError("reverse", "list", args[0])
	}
	items := args[0].Items()
	out := make([]lang.Value, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return lang.ListValue(out), nil
}
