package runtime

import (
	"fmt"

	"github.com/sergev/fikl/lang"
)

// numericOp describes one arithmetic fold step for both representations.
type numericOp struct {
	name   string
	ints   func(a, b int64) (int64, error)
	floats func(a, b float64) (float64, error)
}

var (
	addOp = numericOp{
		name:   "+",
		ints:   func(a, b int64) (int64, error) { return a + b, nil },
		floats: func(a, b float64) (float64, error) { return a + b, nil },
	}
	subOp = numericOp{
		name:   "-",
		ints:   func(a, b int64) (int64, error) { return a - b, nil },
		floats: func(a, b float64) (float64, error) { return a - b, nil },
	}
	mulOp = numericOp{
		name:   "*",
		ints:   func(a, b int64) (int64, error) { return a * b, nil },
		floats: func(a, b float64) (float64, error) { return a * b, nil },
	}
)

func builtinAdd(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return foldNumeric(addOp, args)
}

func builtinSub(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return foldNumeric(subOp, args)
}

func builtinMul(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return foldNumeric(mulOp, args)
}

// builtinDiv always divides as floats, so (/ 7 2) is 3.5.
func builtinDiv(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectAtLeast("/", args, 1); err != nil {
		return lang.Value{}, err
	}
	for _, arg := range args {
		if !arg.IsNumber() {
			return lang.Value{}, lang.NewTypeError("/", "numeric", arg)
		}
	}
	acc := toFloat(args[0])
	for _, arg := range args[1:] {
		d := toFloat(arg)
		if d == 0 {
			return lang.Value{}, fmt.Errorf("/: %w", lang.ErrDivisionByZero)
		}
		acc /= d
	}
	return lang.FloatValue(acc), nil
}

// foldNumeric reduces args left to right. The accumulator stays an Int
// until a Float shows up, after which the result is a Float.
func foldNumeric(op numericOp, args []lang.Value) (lang.Value, error) {
	if err := expectAtLeast(op.name, args, 1); err != nil {
		return lang.Value{}, err
	}
	acc := args[0]
	if !acc.IsNumber() {
		return lang.Value{}, lang.NewTypeError(op.name, "numeric", acc)
	}
	for _, arg := range args[1:] {
		if !arg.IsNumber() {
			return lang.Value{}, lang.NewTypeError(op.name, "numeric", arg)
		}
		if acc.Type == lang.TypeInt && arg.Type == lang.TypeInt {
			r, err := op.ints(acc.Int(), arg.Int())
			if err != nil {
				return lang.Value{}, err
			}
			acc = lang.IntValue(r)
			continue
		}
		r, err := op.floats(toFloat(acc), toFloat(arg))
		if err != nil {
			return lang.Value{}, err
		}
		acc = lang.FloatValue(r)
	}
	return acc, nil
}

func builtinMod(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	if err := expectArgs("%", args, 2); err != nil {
		return lang.Value{}, err
	}
	for _, arg := range args {
		if arg.Type != lang.TypeInt {
			return lang.Value{}, lang.NewTypeError("%", "int", arg)
		}
	}
	if args[1].Int() == 0 {
		return lang.Value{}, fmt.Errorf("%%: %w", lang.ErrDivisionByZero)
	}
	return lang.IntValue(args[0].Int() % args[1].Int()), nil
}

func toFloat(v lang.Value) float64 {
	if v.Type == lang.TypeInt {
		return float64(v.Int())
	}
	return v.Float()
}
