package reader

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/sergev/fikl/lang"
)

// ErrIncomplete is wrapped by parse errors caused by input that ends in the
// middle of an expression. More input may complete it.
var ErrIncomplete = errors.New("incomplete input")

// ParseError reports malformed source text with its 1-based position.
type ParseError struct {
	Line int
	Col  int
	Msg  string

	incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *ParseError) Unwrap() error {
	if e.incomplete {
		return ErrIncomplete
	}
	return nil
}

// ReadString parses all expressions from a string.
func ReadString(src string) ([]lang.Value, error) {
	return readAll(newRuneReader(src))
}

// ReadAll parses all expressions from the provided reader.
func ReadAll(r io.Reader) ([]lang.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return readAll(newRuneReader(string(data)))
}

func readAll(rr *runeReader) ([]lang.Value, error) {
	var values []lang.Value
	for {
		rr.skipWhitespace()
		if rr.atEOF() {
			return values, nil
		}
		val, err := readExpr(rr)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
}

type runeReader struct {
	src []rune
	pos int
}

func newRuneReader(src string) *runeReader {
	return &runeReader{src: []rune(src)}
}

func (rr *runeReader) read() (rune, bool) {
	if rr.pos >= len(rr.src) {
		return 0, false
	}
	r := rr.src[rr.pos]
	rr.pos++
	return r, true
}

func (rr *runeReader) unread() {
	if rr.pos > 0 {
		rr.pos--
	}
}

func (rr *runeReader) peek() (rune, bool) {
	if rr.pos >= len(rr.src) {
		return 0, false
	}
	return rr.src[rr.pos], true
}

func (rr *runeReader) atEOF() bool {
	return rr.pos >= len(rr.src)
}

func (rr *runeReader) skipWhitespace() {
	for {
		r, ok := rr.peek()
		if !ok {
			return
		}
		switch {
		case unicode.IsSpace(r):
			rr.pos++
		case r == ';':
			rr.skipLine()
		default:
			return
		}
	}
}

func (rr *runeReader) skipLine() {
	for {
		r, ok := rr.read()
		if !ok || r == '\n' {
			return
		}
	}
}

// position returns the 1-based line and column of offset.
func (rr *runeReader) position(offset int) (int, int) {
	line, col := 1, 1
	for _, r := range rr.src[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

func (rr *runeReader) errorAt(offset int, format string, args ...interface{}) error {
	line, col := rr.position(offset)
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (rr *runeReader) incomplete(offset int, msg string) error {
	line, col := rr.position(offset)
	return &ParseError{Line: line, Col: col, Msg: msg, incomplete: true}
}

func readExpr(rr *runeReader) (lang.Value, error) {
	start := rr.pos
	r, ok := rr.read()
	if !ok {
		return lang.Value{}, rr.incomplete(start, "unexpected end of input")
	}
	switch r {
	case '(':
		return readList(rr, start)
	case ')':
		return lang.Value{}, rr.errorAt(start, "unexpected )")
	case '\'':
		return readPrefixed(rr, start, "quote")
	case '`':
		return readPrefixed(rr, start, "quasiquote")
	case ',':
		if r, ok := rr.peek(); ok && r == '@' {
			rr.pos++
			return readPrefixed(rr, start, "unquote-splicing")
		}
		return readPrefixed(rr, start, "unquote")
	case '"':
		return readString(rr, start)
	case '#':
		return readDispatch(rr, start)
	default:
		rr.unread()
		return readAtom(rr)
	}
}

// readPrefixed reads the form after a reader prefix and wraps it as
// (tag form).
func readPrefixed(rr *runeReader, start int, tag string) (lang.Value, error) {
	rr.skipWhitespace()
	if rr.atEOF() {
		return lang.Value{}, rr.incomplete(start, "unterminated "+tag)
	}
	expr, err := readExpr(rr)
	if err != nil {
		return lang.Value{}, err
	}
	return lang.List(lang.SymbolValue(tag), expr), nil
}

func readDispatch(rr *runeReader, start int) (lang.Value, error) {
	r, ok := rr.read()
	if !ok {
		return lang.Value{}, rr.incomplete(start, "unterminated dispatch sequence")
	}
	switch r {
	case 't':
		return lang.BoolValue(true), nil
	case 'f':
		return lang.BoolValue(false), nil
	default:
		return lang.Value{}, rr.errorAt(start, "unknown dispatch sequence: #%c", r)
	}
}

func readList(rr *runeReader, start int) (lang.Value, error) {
	var elems []lang.Value
	for {
		rr.skipWhitespace()
		r, ok := rr.peek()
		if !ok {
			return lang.Value{}, rr.incomplete(start, "unterminated list")
		}
		if r == ')' {
			rr.pos++
			return lang.ListValue(elems), nil
		}
		if r == '.' && isDelimiterAt(rr, rr.pos+1) {
			dot := rr.pos
			rr.pos++
			return readDottedTail(rr, start, dot, elems)
		}
		elem, err := readExpr(rr)
		if err != nil {
			return lang.Value{}, err
		}
		elems = append(elems, elem)
	}
}

// readDottedTail finishes (a b . c), producing nested pairs (a . (b . c)).
func readDottedTail(rr *runeReader, start, dot int, elems []lang.Value) (lang.Value, error) {
	if len(elems) == 0 {
		return lang.Value{}, rr.errorAt(dot, "dotted pair needs a first element")
	}
	rr.skipWhitespace()
	if rr.atEOF() {
		return lang.Value{}, rr.incomplete(start, "unterminated list")
	}
	tail, err := readExpr(rr)
	if err != nil {
		return lang.Value{}, err
	}
	rr.skipWhitespace()
	r, ok := rr.read()
	if !ok {
		return lang.Value{}, rr.incomplete(start, "unterminated list")
	}
	if r != ')' {
		return lang.Value{}, rr.errorAt(rr.pos-1, "expected ) after dotted pair, got %q", r)
	}
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		result = lang.PairValue(elems[i], result)
	}
	return result, nil
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' || r == ';'
}

func isDelimiterAt(rr *runeReader, offset int) bool {
	if offset >= len(rr.src) {
		return true
	}
	return isDelimiter(rr.src[offset])
}

func readAtom(rr *runeReader) (lang.Value, error) {
	start := rr.pos
	var builder strings.Builder
	for {
		r, ok := rr.peek()
		if !ok || isDelimiter(r) {
			break
		}
		rr.pos++
		builder.WriteRune(r)
	}
	token := builder.String()
	if len(token) == 0 {
		return lang.Value{}, rr.errorAt(start, "unexpected token")
	}
	switch token {
	case "true":
		return lang.BoolValue(true), nil
	case "false":
		return lang.BoolValue(false), nil
	}
	if strings.HasPrefix(token, ":") && len(token) > 1 {
		return lang.KeywordValue(token[1:]), nil
	}
	val, ok, err := tryNumber(token)
	if err != nil {
		return lang.Value{}, rr.errorAt(start, "%v", err)
	}
	if ok {
		return val, nil
	}
	return lang.SymbolValue(token), nil
}

func readString(rr *runeReader, start int) (lang.Value, error) {
	var builder strings.Builder
	for {
		r, ok := rr.read()
		if !ok {
			return lang.Value{}, rr.incomplete(start, "unterminated string")
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, ok := rr.read()
			if !ok {
				return lang.Value{}, rr.incomplete(start, "unterminated escape sequence")
			}
			switch esc {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			case '\\':
				builder.WriteRune('\\')
			case '"':
				builder.WriteRune('"')
			default:
				builder.WriteRune(esc)
			}
			continue
		}
		builder.WriteRune(r)
	}
	return lang.StringValue(builder.String()), nil
}

func tryNumber(token string) (lang.Value, bool, error) {
	if !looksNumeric(token) {
		return lang.Value{}, false, nil
	}
	i, err := strconv.ParseInt(token, 10, 64)
	if err == nil {
		return lang.IntValue(i), true, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return lang.Value{}, false, fmt.Errorf("integer literal out of range: %s", token)
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return lang.FloatValue(f), true, nil
	}
	return lang.Value{}, false, nil
}

// looksNumeric keeps names like "inf" and "nan" as symbols.
func looksNumeric(token string) bool {
	s := strings.TrimLeft(token, "+-")
	s = strings.TrimPrefix(s, ".")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
