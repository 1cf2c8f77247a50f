package lang

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyBody is returned when a lambda has no body expressions.
	ErrEmptyBody = errors.New("empty body")
	// ErrEmptyList is returned when taking the head of an empty list.
	ErrEmptyList = errors.New("empty list")
	// ErrDivisionByZero is returned by / and % on a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrStackExhausted is returned when evaluation nests deeper than
	// Evaluator.MaxDepth.
	ErrStackExhausted = errors.New("stack exhausted")
	// ErrInvalidArgument is returned for arguments of the right type but an
	// unusable value.
	ErrInvalidArgument = errors.New("invalid argument")
)

// UnboundSymbolError reports a lookup that reached the root environment.
type UnboundSymbolError struct {
	Name string
}

func (e *UnboundSymbolError) Error() string {
	return "unbound symbol: " + e.Name
}

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Name     string
	Expected int
	Got      int
	// AtLeast marks Expected as a lower bound.
	AtLeast bool
}

func (e *ArityError) Error() string {
	name := e.Name
	if name == "" {
		name = "lambda"
	}
	if e.AtLeast {
		return fmt.Sprintf("%s: expected at least %d arguments, got %d", name, e.Expected, e.Got)
	}
	return fmt.Sprintf("%s: expected %d arguments, got %d", name, e.Expected, e.Got)
}

// TypeError reports a value of the wrong variant.
type TypeError struct {
	Name     string
	Expected string
	Got      string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Name, e.Expected, e.Got)
}

// NewTypeError builds a TypeError for the variant of got.
func NewTypeError(name, expected string, got Value) *TypeError {
	return &TypeError{Name: name, Expected: expected, Got: got.Type.String()}
}

// DuplicateParameterError reports a parameter name used twice in a lambda.
type DuplicateParameterError struct {
	Name string
}

func (e *DuplicateParameterError) Error() string {
	return "duplicate parameter: " + e.Name
}

// SyntaxError reports a malformed special form.
type SyntaxError struct {
	Form string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return e.Form + ": " + e.Msg
}

func syntaxErrorf(form, format string, args ...interface{}) error {
	return &SyntaxError{Form: form, Msg: fmt.Sprintf(format, args...)}
}
