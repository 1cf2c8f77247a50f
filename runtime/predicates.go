package runtime

import "github.com/sergev/fikl/lang"

// predicate wraps a total test of the first argument. Extra arguments are
// ignored.
func predicate(name string, test func(lang.Value) bool) lang.BuiltinFunc {
	return func(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
		if err := expectAtLeast(name, args, 1); err != nil {
			return lang.Value{}, err
		}
		return lang.BoolValue(test(args[0])), nil
	}
}

func isType(t lang.ValueType) func(lang.Value) bool {
	return func(v lang.Value) bool {
		return v.Type == t
	}
}
