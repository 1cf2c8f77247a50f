package lang

// Closure represents a user-defined function with lexical scope.
type Closure struct {
	Name   string
	Params []string
	Body   []Value
	Env    *Env
}

// NewClosure validates the parameter list and body and captures env.
func NewClosure(name string, params []string, body []Value, env *Env) (*Closure, error) {
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, dup := seen[p]; dup {
			return nil, &DuplicateParameterError{Name: p}
		}
		seen[p] = struct{}{}
	}
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	return &Closure{Name: name, Params: params, Body: body, Env: env}, nil
}

// bind creates the call frame for args.
func (c *Closure) bind(args []Value) (*Env, error) {
	if len(args) != len(c.Params) {
		return nil, &ArityError{Name: c.Name, Expected: len(c.Params), Got: len(args)}
	}
	frame := c.Env.Child()
	for i, name := range c.Params {
		frame.Define(name, args[i])
	}
	return frame, nil
}

func parseParams(form string, val Value) ([]string, error) {
	if val.Type != TypeList {
		return nil, syntaxErrorf(form, "parameter list must be a list, got %s", val.Type)
	}
	items := val.Items()
	params := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != TypeSymbol {
			return nil, syntaxErrorf(form, "parameter must be a symbol, got %s", item.Type)
		}
		params = append(params, item.Sym())
	}
	return params, nil
}
