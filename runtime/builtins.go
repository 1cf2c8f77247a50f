package runtime

import (
	"github.com/sergev/fikl/lang"
)

type builtin struct {
	name string
	fn   lang.BuiltinFunc
}

// builtinTable is the root environment bootstrap, in install order.
var builtinTable = []builtin{
	{"+", builtinAdd},
	{"-", builtinSub},
	{"*", builtinMul},
	{"/", builtinDiv},
	{"%", builtinMod},

	{"<", builtinLess},
	{">", builtinGreater},
	{"<=", builtinLessEq},
	{">=", builtinGreaterEq},
	{"==", builtinEqual("==")},
	{"!=", builtinNotEqual},
	{"eq?", builtinEq},
	{"equal?", builtinEqual("equal?")},
	{"null?", predicate("null?", lang.Value.IsEmptyList)},

	{"int?", predicate("int?", isType(lang.TypeInt))},
	{"float?", predicate("float?", isType(lang.TypeFloat))},
	{"double?", predicate("double?", isType(lang.TypeFloat))},
	{"string?", predicate("string?", isType(lang.TypeString))},
	{"symbol?", predicate("symbol?", isType(lang.TypeSymbol))},
	{"keyword?", predicate("keyword?", isType(lang.TypeKeyword))},
	{"list?", predicate("list?", isType(lang.TypeList))},
	{"pair?", predicate("pair?", isType(lang.TypePair))},
	{"bool?", predicate("bool?", isType(lang.TypeBool))},
	{"number?", predicate("number?", lang.Value.IsNumber)},
	{"callable?", predicate("callable?", lang.Value.IsCallable)},

	{"car", builtinFirst("car")},
	{"cdr", builtinRest("cdr")},
	{"head", builtinFirst("head")},
	{"tail", builtinRest("tail")},
	{"cons", builtinCons},
	{"len", builtinLen},
	{"append", builtinAppend},
	{"range", builtinRange},
	{"list", builtinList},
	{"map", builtinMap},
	{"filter", builtinFilter},
	{"foldl", builtinFoldl},
	{"reverse", builtinReverse},

	{"not", builtinNot},
	{"apply", builtinApply},
}

// Builtins returns the names of all builtins in install order.
func Builtins() []string {
	names := make([]string, len(builtinTable))
	for i, b := range builtinTable {
		names[i] = b.name
	}
	return names
}

func installBuiltins(env *lang.Env) {
	for _, b := range builtinTable {
		env.Define(b.name, lang.BuiltinValue(b.name, b.fn))
	}
}

func builtinNot(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("not", args, 1); err != nil {
		return lang.Value{}, err
	}
	return lang.BoolValue(!lang.IsTruthy(args[0])), nil
}

func builtinApply(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("apply", args, 2); err != nil {
		return lang.Value{}, err
	}
	proc, list := args[0], args[1]
	if !proc.IsCallable() {
		return lang.Value{}, lang.NewTypeError("apply", "callable", proc)
	}
	if list.Type != lang.TypeList {
		return lang.Value{}, lang.NewTypeError("apply", "list", list)
	}
	callArgs := make([]lang.Value, len(list.Items()))
	copy(callArgs, list.Items())
	return ev.Apply(proc, callArgs)
}

func expectArgs(name string, args []lang.Value, n int) error {
	if len(args) != n {
		return &lang.ArityError{Name: name, Expected: n, Got: len(args)}
	}
	return nil
}

func expectAtLeast(name string, args []lang.Value, n int) error {
	if len(args) < n {
		return &lang.ArityError{Name: name, Expected: n, Got: len(args), AtLeast: true}
	}
	return nil
}
