package lang

// quasiquoteTag returns the tag and operand of (quasiquote x), (unquote x)
// or (unquote-splicing x).
func quasiquoteTag(v Value) (string, Value, bool, error) {
	if v.Type != TypeList {
		return "", Value{}, false, nil
	}
	items := v.Items()
	if len(items) == 0 || items[0].Type != TypeSymbol {
		return "", Value{}, false, nil
	}
	switch tag := items[0].Sym(); tag {
	case "quasiquote", "unquote", "unquote-splicing":
		if len(items) != 2 {
			return "", Value{}, false, syntaxErrorf(tag, "expects 1 argument, got %d", len(items)-1)
		}
		return tag, items[1], true, nil
	}
	return "", Value{}, false, nil
}

func (ev *Evaluator) evalQuasiquote(args []Value, env *Env) (Value, error) {
	if len(args) != 1 {
		return Value{}, syntaxErrorf("quasiquote", "expects 1 argument, got %d", len(args))
	}
	return ev.expandQuasiquote(args[0], env, 1)
}

// expandQuasiquote builds the value of a template. depth counts enclosing
// quasiquotes; only unquotes at depth 1 are evaluated.
func (ev *Evaluator) expandQuasiquote(tmpl Value, env *Env, depth int) (Value, error) {
	switch tmpl.Type {
	case TypePair:
		p := tmpl.Pair()
		first, err := ev.expandQuasiquote(p.First, env, depth)
		if err != nil {
			return Value{}, err
		}
		second, err := ev.expandQuasiquote(p.Second, env, depth)
		if err != nil {
			return Value{}, err
		}
		return PairValue(first, second), nil
	case TypeList:
	default:
		return tmpl, nil
	}

	tag, operand, ok, err := quasiquoteTag(tmpl)
	if err != nil {
		return Value{}, err
	}
	if ok {
		switch {
		case tag == "unquote" && depth == 1:
			return ev.Eval(operand, env)
		case tag == "unquote-splicing" && depth == 1:
			return Value{}, syntaxErrorf(tag, "must appear inside a list")
		}
		next := depth - 1
		if tag == "quasiquote" {
			next = depth + 1
		}
		inner, err := ev.expandQuasiquote(operand, env, next)
		if err != nil {
			return Value{}, err
		}
		return List(SymbolValue(tag), inner), nil
	}

	items := tmpl.Items()
	out := make([]Value, 0, len(items))
	for _, item := range items {
		tag, operand, ok, err := quasiquoteTag(item)
		if err != nil {
			return Value{}, err
		}
		if ok && tag == "unquote-splicing" && depth == 1 {
			spliced, err := ev.Eval(operand, env)
			if err != nil {
				return Value{}, err
			}
			if spliced.Type != TypeList {
				return Value{}, NewTypeError(tag, "list", spliced)
			}
			out = append(out, spliced.Items()...)
			continue
		}
		val, err := ev.expandQuasiquote(item, env, depth)
		if err != nil {
			return Value{}, err
		}
		out = append(out, val)
	}
	return ListValue(out), nil
}
