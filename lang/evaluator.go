package lang

import (
	"fmt"
	"log/slog"
)

// DefaultMaxDepth bounds nested evaluation when no other limit is set.
const DefaultMaxDepth = 10000

// Evaluator executes programs by walking expression trees.
type Evaluator struct {
	Global *Env
	// MaxDepth bounds nested Eval calls. Zero or less disables the check.
	MaxDepth int
	Logger   *slog.Logger

	depth int
}

// NewEvaluator constructs an evaluator rooted at global, or at a new empty
// environment when global is nil.
func NewEvaluator(global *Env) *Evaluator {
	if global == nil {
		global = NewEnv(nil)
	}
	return &Evaluator{
		Global:   global,
		MaxDepth: DefaultMaxDepth,
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// Eval evaluates a single expression within the provided environment.
func (ev *Evaluator) Eval(expr Value, env *Env) (Value, error) {
	if env == nil {
		env = ev.Global
	}
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.MaxDepth > 0 && ev.depth > ev.MaxDepth {
		ev.Logger.Warn("evaluation depth limit reached", slog.Int("max-depth", ev.MaxDepth))
		return Value{}, ErrStackExhausted
	}

	switch expr.Type {
	case TypeSymbol:
		return env.Lookup(expr.Sym())
	case TypeList:
		items := expr.Items()
		if len(items) == 0 {
			return EmptyList, nil
		}
		return ev.evalList(items, env)
	default:
		return expr, nil
	}
}

// EvalAll evaluates a sequence of expressions and returns the last value.
func (ev *Evaluator) EvalAll(exprs []Value, env *Env) (Value, error) {
	result := EmptyList
	for _, expr := range exprs {
		val, err := ev.Eval(expr, env)
		if err != nil {
			return Value{}, err
		}
		result = val
	}
	return result, nil
}

// Apply invokes a procedure with already evaluated arguments.
func (ev *Evaluator) Apply(proc Value, args []Value) (Value, error) {
	switch proc.Type {
	case TypeBuiltin:
		b := proc.Builtin()
		if b == nil || b.Fn == nil {
			return Value{}, fmt.Errorf("invalid builtin")
		}
		return b.Fn(ev, args)
	case TypeClosure:
		c := proc.Closure()
		if c == nil {
			return Value{}, fmt.Errorf("invalid closure")
		}
		frame, err := c.bind(args)
		if err != nil {
			return Value{}, err
		}
		ev.Logger.Debug("apply closure",
			slog.String("closure", proc.String()),
			slog.Int("args", len(args)),
			slog.Int("depth", ev.depth))
		return ev.evalBody(c.Body, frame)
	default:
		return Value{}, NewTypeError("apply", "callable", proc)
	}
}

func (ev *Evaluator) evalBody(body []Value, env *Env) (Value, error) {
	result := EmptyList
	for _, expr := range body {
		val, err := ev.Eval(expr, env)
		if err != nil {
			return Value{}, err
		}
		result = val
	}
	return result, nil
}

func (ev *Evaluator) evalList(items []Value, env *Env) (Value, error) {
	head := items[0]
	args := items[1:]

	if head.Type == TypeSymbol {
		switch head.Sym() {
		case "quote":
			return ev.evalQuote(args)
		case "quasiquote":
			return ev.evalQuasiquote(args, env)
		case "unquote", "unquote-splicing":
			return Value{}, syntaxErrorf(head.Sym(), "used outside quasiquote")
		case "eval":
			return ev.evalEval(args, env)
		case "if":
			return ev.evalIf(args, env)
		case "define":
			return ev.evalDefine(args, env)
		case "lambda", "fn", "λ":
			return ev.evalLambda(head.Sym(), args, env)
		case "begin":
			return ev.evalBody(args, env)
		case "let":
			return ev.evalLet(args, env)
		case "cond":
			return ev.evalCond(args, env)
		case "set!":
			return ev.evalSet(args, env)
		case "and":
			return ev.evalAnd(args, env)
		case "or":
			return ev.evalOr(args, env)
		}
	}

	proc, err := ev.Eval(head, env)
	if err != nil {
		return Value{}, err
	}
	if !proc.IsCallable() {
		return Value{}, NewTypeError("apply", "callable", proc)
	}
	vals := make([]Value, 0, len(args))
	for _, arg := range args {
		val, err := ev.Eval(arg, env)
		if err != nil {
			return Value{}, err
		}
		vals = append(vals, val)
	}
	return ev.Apply(proc, vals)
}

func (ev *Evaluator) evalQuote(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, syntaxErrorf("quote", "expects 1 argument, got %d", len(args))
	}
	return args[0], nil
}

// evalEval evaluates its operand, then evaluates the resulting datum in the
// same environment.
func (ev *Evaluator) evalEval(args []Value, env *Env) (Value, error) {
	if len(args) != 1 {
		return Value{}, syntaxErrorf("eval", "expects 1 argument, got %d", len(args))
	}
	form, err := ev.Eval(args[0], env)
	if err != nil {
		return Value{}, err
	}
	return ev.Eval(form, env)
}

func (ev *Evaluator) evalIf(args []Value, env *Env) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Value{}, syntaxErrorf("if", "expects 2 or 3 arguments, got %d", len(args))
	}
	cond, err := ev.Eval(args[0], env)
	if err != nil {
		return Value{}, err
	}
	if IsTruthy(cond) {
		return ev.Eval(args[1], env)
	}
	if len(args) == 3 {
		return ev.Eval(args[2], env)
	}
	return EmptyList, nil
}

func (ev *Evaluator) evalDefine(args []Value, env *Env) (Value, error) {
	if len(args) < 2 {
		return Value{}, syntaxErrorf("define", "expects a name and a value")
	}
	target := args[0]
	switch target.Type {
	case TypeSymbol:
		if len(args) != 2 {
			return Value{}, syntaxErrorf("define", "expects a single value expression")
		}
		val, err := ev.Eval(args[1], env)
		if err != nil {
			return Value{}, err
		}
		env.Define(target.Sym(), val)
		ev.Logger.Debug("define", slog.String("name", target.Sym()), slog.String("type", val.Type.String()))
		return val, nil
	case TypeList:
		// (define (name params...) body...)
		sig := target.Items()
		if len(sig) == 0 || sig[0].Type != TypeSymbol {
			return Value{}, syntaxErrorf("define", "function name must be a symbol")
		}
		name := sig[0].Sym()
		params, err := parseParams("define", ListValue(sig[1:]))
		if err != nil {
			return Value{}, err
		}
		c, err := NewClosure(name, params, args[1:], env)
		if err != nil {
			return Value{}, err
		}
		val := ClosureValue(c)
		env.Define(name, val)
		ev.Logger.Debug("define", slog.String("name", name), slog.String("type", val.Type.String()))
		return val, nil
	default:
		return Value{}, syntaxErrorf("define", "cannot bind %s", target.Type)
	}
}

func (ev *Evaluator) evalLambda(form string, args []Value, env *Env) (Value, error) {
	if len(args) < 1 {
		return Value{}, syntaxErrorf(form, "expects a parameter list")
	}
	params, err := parseParams(form, args[0])
	if err != nil {
		return Value{}, err
	}
	c, err := NewClosure("", params, args[1:], env)
	if err != nil {
		return Value{}, err
	}
	return ClosureValue(c), nil
}

func (ev *Evaluator) evalLet(args []Value, env *Env) (Value, error) {
	if len(args) < 2 {
		return Value{}, syntaxErrorf("let", "expects bindings and body")
	}
	if args[0].Type != TypeList {
		return Value{}, syntaxErrorf("let", "bindings must be a list")
	}
	bindings := args[0].Items()
	names := make([]string, 0, len(bindings))
	vals := make([]Value, 0, len(bindings))
	for _, b := range bindings {
		pair := b.Items()
		if b.Type != TypeList || len(pair) != 2 || pair[0].Type != TypeSymbol {
			return Value{}, syntaxErrorf("let", "binding must be (name value), got %s", b)
		}
		val, err := ev.Eval(pair[1], env)
		if err != nil {
			return Value{}, err
		}
		names = append(names, pair[0].Sym())
		vals = append(vals, val)
	}
	frame := env.Child()
	for i, name := range names {
		frame.Define(name, vals[i])
	}
	return ev.evalBody(args[1:], frame)
}

func (ev *Evaluator) evalCond(args []Value, env *Env) (Value, error) {
	for i, clause := range args {
		parts := clause.Items()
		if clause.Type != TypeList || len(parts) == 0 {
			return Value{}, syntaxErrorf("cond", "clause must be a non-empty list")
		}
		test := parts[0]
		if isElse(test) {
			if i != len(args)-1 {
				return Value{}, syntaxErrorf("cond", "else clause must be last")
			}
			return ev.evalBody(parts[1:], env)
		}
		cond, err := ev.Eval(test, env)
		if err != nil {
			return Value{}, err
		}
		if !IsTruthy(cond) {
			continue
		}
		if len(parts) == 1 {
			return cond, nil
		}
		return ev.evalBody(parts[1:], env)
	}
	return EmptyList, nil
}

func isElse(v Value) bool {
	return (v.Type == TypeSymbol && v.Sym() == "else") ||
		(v.Type == TypeKeyword && v.Keyword() == "else")
}

func (ev *Evaluator) evalSet(args []Value, env *Env) (Value, error) {
	if len(args) != 2 {
		return Value{}, syntaxErrorf("set!", "expects a name and a value")
	}
	if args[0].Type != TypeSymbol {
		return Value{}, syntaxErrorf("set!", "target must be a symbol, got %s", args[0].Type)
	}
	name := args[0].Sym()
	val, err := ev.Eval(args[1], env)
	if err != nil {
		return Value{}, err
	}
	if err := env.Set(name, val); err != nil {
		return Value{}, err
	}
	ev.Logger.Debug("set!", slog.String("name", name), slog.String("type", val.Type.String()))
	return val, nil
}

func (ev *Evaluator) evalAnd(args []Value, env *Env) (Value, error) {
	result := BoolValue(true)
	for _, arg := range args {
		val, err := ev.Eval(arg, env)
		if err != nil {
			return Value{}, err
		}
		if !IsTruthy(val) {
			return val, nil
		}
		result = val
	}
	return result, nil
}

func (ev *Evaluator) evalOr(args []Value, env *Env) (Value, error) {
	result := BoolValue(false)
	for _, arg := range args {
		val, err := ev.Eval(arg, env)
		if err != nil {
			return Value{}, err
		}
		if IsTruthy(val) {
			return val, nil
		}
		result = val
	}
	return result, nil
}
