package lang

import (
	"reflect"
	"strconv"
	"strings"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeInt ValueType = iota
	TypeFloat
	TypeString
	TypeBool
	TypeSymbol
	TypeKeyword
	TypePair
	TypeList
	TypeClosure
	TypeBuiltin
)

var typeNames = [...]string{
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeString:  "string",
	TypeBool:    "bool",
	TypeSymbol:  "symbol",
	TypeKeyword: "keyword",
	TypePair:    "pair",
	TypeList:    "list",
	TypeClosure: "closure",
	TypeBuiltin: "builtin",
}

func (t ValueType) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// Value represents any runtime object in the interpreter.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Pair represents a cons cell.
type Pair struct {
	First  Value
	Second Value
}

// BuiltinFunc is the native implementation of a builtin. Arguments are
// already evaluated.
type BuiltinFunc func(*Evaluator, []Value) (Value, error)

// Builtin is a named native procedure.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// EmptyList is the empty list value.
var EmptyList = Value{Type: TypeList}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// IntValue constructs an integer Value.
func IntValue(i int64) Value {
	return Value{Type: TypeInt, payload: i}
}

// FloatValue constructs a floating-point Value.
func FloatValue(f float64) Value {
	return Value{Type: TypeFloat, payload: f}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// SymbolValue constructs a symbol Value.
func SymbolValue(s string) Value {
	return Value{Type: TypeSymbol, payload: s}
}

// KeywordValue constructs a keyword Value. The name excludes the leading colon.
func KeywordValue(s string) Value {
	return Value{Type: TypeKeyword, payload: s}
}

// PairValue constructs a pair Value.
func PairValue(first, second Value) Value {
	return Value{
		Type:    TypePair,
		payload: &Pair{First: first, Second: second},
	}
}

// ListValue wraps items as a list without copying. Callers hand over
// ownership of the slice.
func ListValue(items []Value) Value {
	if len(items) == 0 {
		return EmptyList
	}
	return Value{Type: TypeList, payload: items}
}

// List constructs a list from a copy of the provided values.
func List(vals ...Value) Value {
	if len(vals) == 0 {
		return EmptyList
	}
	items := make([]Value, len(vals))
	copy(items, vals)
	return Value{Type: TypeList, payload: items}
}

// ClosureValue wraps a closure.
func ClosureValue(c *Closure) Value {
	return Value{Type: TypeClosure, payload: c}
}

// BuiltinValue wraps a native function under the given name.
func BuiltinValue(name string, fn BuiltinFunc) Value {
	return Value{
		Type:    TypeBuiltin,
		payload: &Builtin{Name: name, Fn: fn},
	}
}

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Int() int64 {
	if i, ok := v.payload.(int64); ok {
		return i
	}
	return 0
}

func (v Value) Float() float64 {
	if f, ok := v.payload.(float64); ok {
		return f
	}
	return 0
}

func (v Value) Str() string {
	if v.Type != TypeString {
		return ""
	}
	s, _ := v.payload.(string)
	return s
}

func (v Value) Sym() string {
	if v.Type != TypeSymbol {
		return ""
	}
	s, _ := v.payload.(string)
	return s
}

func (v Value) Keyword() string {
	if v.Type != TypeKeyword {
		return ""
	}
	s, _ := v.payload.(string)
	return s
}

func (v Value) Pair() *Pair {
	if p, ok := v.payload.(*Pair); ok {
		return p
	}
	return nil
}

// Items returns the elements of a list. The slice must not be modified.
func (v Value) Items() []Value {
	if items, ok := v.payload.([]Value); ok {
		return items
	}
	return nil
}

func (v Value) Closure() *Closure {
	if c, ok := v.payload.(*Closure); ok {
		return c
	}
	return nil
}

func (v Value) Builtin() *Builtin {
	if b, ok := v.payload.(*Builtin); ok {
		return b
	}
	return nil
}

// IsNumber reports whether v is an Int or a Float.
func (v Value) IsNumber() bool {
	return v.Type == TypeInt || v.Type == TypeFloat
}

// IsEmptyList reports whether v is the empty list.
func (v Value) IsEmptyList() bool {
	return v.Type == TypeList && len(v.Items()) == 0
}

// IsCallable reports whether v can be applied.
func (v Value) IsCallable() bool {
	return v.Type == TypeClosure || v.Type == TypeBuiltin
}

// IsTruthy reports whether a value counts as true. Only false and the empty
// list are false.
func IsTruthy(v Value) bool {
	switch v.Type {
	case TypeBool:
		return v.Bool()
	case TypeList:
		return len(v.Items()) > 0
	default:
		return true
	}
}

// Equal reports structural equality. Closures and builtins compare by
// identity.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeInt:
		return a.Int() == b.Int()
	case TypeFloat:
		return a.Float() == b.Float()
	case TypeString:
		return a.Str() == b.Str()
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeSymbol:
		return a.Sym() == b.Sym()
	case TypeKeyword:
		return a.Keyword() == b.Keyword()
	case TypePair:
		ap, bp := a.Pair(), b.Pair()
		if ap == nil || bp == nil {
			return ap == bp
		}
		return Equal(ap.First, bp.First) && Equal(ap.Second, bp.Second)
	case TypeList:
		ai, bi := a.Items(), b.Items()
		if len(ai) != len(bi) {
			return false
		}
		for i := range ai {
			if !Equal(ai[i], bi[i]) {
				return false
			}
		}
		return true
	case TypeClosure:
		return a.Closure() == b.Closure()
	case TypeBuiltin:
		return a.Builtin() == b.Builtin()
	default:
		return false
	}
}

// Identical reports identity. Atomic values compare by value, composite
// values by the instance they refer to.
func Identical(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypePair:
		return a.Pair() == b.Pair()
	case TypeList:
		ai, bi := a.Items(), b.Items()
		if len(ai) != len(bi) {
			return false
		}
		if len(ai) == 0 {
			return true
		}
		return reflect.ValueOf(ai).Pointer() == reflect.ValueOf(bi).Pointer()
	default:
		return Equal(a, b)
	}
}

func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.Int(), 10)
	case TypeFloat:
		return formatFloat(v.Float())
	case TypeString:
		return strconv.Quote(v.Str())
	case TypeBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case TypeSymbol:
		return v.Sym()
	case TypeKeyword:
		return ":" + v.Keyword()
	case TypePair:
		p := v.Pair()
		if p == nil {
			return "(nil . nil)"
		}
		return "(" + p.First.String() + " . " + p.Second.String() + ")"
	case TypeList:
		return listToString(v.Items())
	case TypeClosure:
		c := v.Closure()
		if c == nil || c.Name == "" {
			return "<closure>"
		}
		return "<closure " + c.Name + ">"
	case TypeBuiltin:
		b := v.Builtin()
		if b == nil {
			return "<builtin>"
		}
		return "<builtin " + b.Name + ">"
	default:
		return "<unknown>"
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnI") {
		return s
	}
	return s + ".0"
}

func listToString(items []Value) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.String())
	}
	b.WriteByte(')')
	return b.String()
}
