package lang

import "sort"

// Env implements a lexical environment chain.
type Env struct {
	outer  *Env
	values map[string]Value
}

// NewEnv creates an environment with optional outer scope.
func NewEnv(outer *Env) *Env {
	return &Env{
		outer:  outer,
		values: make(map[string]Value),
	}
}

// Child creates an empty frame enclosed by e.
func (e *Env) Child() *Env {
	return NewEnv(e)
}

// Define binds name to value in the current frame only.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Find returns the nearest frame that binds name, or nil.
func (e *Env) Find(name string) *Env {
	for cur := e; cur != nil; cur = cur.outer {
		if _, ok := cur.values[name]; ok {
			return cur
		}
	}
	return nil
}

// Lookup retrieves a binding, searching outer frames if necessary.
func (e *Env) Lookup(name string) (Value, error) {
	frame := e.Find(name)
	if frame == nil {
		return Value{}, &UnboundSymbolError{Name: name}
	}
	return frame.values[name], nil
}

// Set updates an existing binding in the frame that owns it.
func (e *Env) Set(name string, val Value) error {
	frame := e.Find(name)
	if frame == nil {
		return &UnboundSymbolError{Name: name}
	}
	frame.values[name] = val
	return nil
}

// Outer returns the enclosing environment.
func (e *Env) Outer() *Env {
	return e.outer
}

// Symbols returns every name visible from e, sorted.
func (e *Env) Symbols() []string {
	seen := make(map[string]struct{})
	var names []string
	for cur := e; cur != nil; cur = cur.outer {
		for name := range cur.values {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
