package mathexpr

import (
	"strconv"
	"strings"
	"unicode"
)

type lexUnit struct {
	text string
	kind unitKind
	pos  int
}

func (u lexUnit) String() string {
	return u.kind.String() + ":" + u.text + "@" + strconv.Itoa(u.pos)
}

type unitKind int8

const (
	unitNone unitKind = iota
	// unitNum is a numeric literal, possibly with a leading unary minus.
	unitNum
	// unitOp is a binary operator.
	unitOp
	// unitFunc is a function name. The internal negation function has the
	// text "-".
	unitFunc
	// unitVar is a variable name without its delimiters.
	unitVar
	// unitOpen is a left parenthesis.
	unitOpen
	// unitClose is a right parenthesis.
	unitClose
)

func (k unitKind) String() string {
	switch k {
	case unitNone:
		return "None"
	case unitNum:
		return "Num"
	case unitOp:
		return "Op"
	case unitFunc:
		return "Func"
	case unitVar:
		return "Var"
	case unitOpen:
		return "Open"
	case unitClose:
		return "Close"
	default:
		return "unitKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be binary operators.
const Operators = "+-*/%^"

// Delimiter marks the start and end of a variable name.
const Delimiter = '\''

// piText is the literal substituted for 'pi'. It carries more digits than a
// float64 holds so that arbitrary-precision evaluation can use them.
const piText = "3.14159265358979323846264338327950288419716939937510582097494"

// lexer scans a whitespace-stripped expression. cols holds the original
// 1-based column of each rune in src.
type lexer struct {
	src  []rune
	cols []int
	at   int
	prev unitKind
	// neg records whether the previous unit was a unary minus.
	neg bool
}

// lex scans an expression into lexical units. Whitespace is never
// significant.
func lex(expr string) ([]lexUnit, error) {
	l := lexer{
		src:  make([]rune, 0, len(expr)),
		cols: make([]int, 0, len(expr)),
	}
	col := 0
	for _, r := range expr {
		col++
		if unicode.IsSpace(r) {
			continue
		}
		l.src = append(l.src, r)
		l.cols = append(l.cols, col)
	}
	if len(l.src) == 0 {
		return nil, ErrBadInit
	}
	units := make([]lexUnit, 0, len(l.src))
	for l.at < len(l.src) {
		u, err := l.next()
		if err != nil {
			return nil, err
		}
		units = append(units, u)
		l.neg = u.kind == unitFunc && u.text == "-"
		l.prev = u.kind
	}
	return units, nil
}

// unary reports whether a minus at the current position is a sign rather
// than a subtraction.
func (l *lexer) unary() bool {
	switch {
	case l.at == 0:
		return true
	case l.prev == unitOpen, l.prev == unitOp:
		return true
	default:
		return l.neg
	}
}

func (l *lexer) peek(k int) (rune, bool) {
	if l.at+k >= len(l.src) {
		return 0, false
	}
	return l.src[l.at+k], true
}

// next scans the unit starting at the current position.
func (l *lexer) next() (lexUnit, error) {
	r := l.src[l.at]
	u := lexUnit{pos: l.cols[l.at]}
	switch {
	case '0' <= r && r <= '9', r == '.':
		u.text = l.scanNum()
		u.kind = unitNum
	case r == '-' && l.unary():
		if n, ok := l.peek(1); ok && ('0' <= n && n <= '9' || n == '.') {
			l.at++
			u.text = "-" + l.scanNum()
			u.kind = unitNum
			break
		}
		// A sign on anything but a literal negates the following operand.
		l.at++
		u.text = "-"
		u.kind = unitFunc
	case strings.ContainsRune(Operators, r):
		l.at++
		u.text = string(r)
		u.kind = unitOp
	case r == '(':
		l.at++
		u.text = "("
		u.kind = unitOpen
	case r == ')':
		l.at++
		u.text = ")"
		u.kind = unitClose
	case r == Delimiter:
		name, err := l.scanVar()
		if err != nil {
			return u, err
		}
		if strings.EqualFold(name, "pi") {
			u.text = piText
			u.kind = unitNum
			break
		}
		u.text = name
		u.kind = unitVar
	case r == '_', unicode.IsLetter(r):
		u.text = l.scanIdent()
		u.kind = unitFunc
	default:
		return u, &SyntaxError{Col: u.pos, Text: string(r), Msg: "invalid character"}
	}
	return u, nil
}

// scanNum consumes a maximal run of digits and dots. Validation of the
// literal happens when it is converted.
func (l *lexer) scanNum() string {
	start := l.at
	for l.at < len(l.src) {
		r := l.src[l.at]
		if !('0' <= r && r <= '9' || r == '.') {
			break
		}
		l.at++
	}
	return string(l.src[start:l.at])
}

// scanVar consumes a delimited variable name, including both delimiters.
func (l *lexer) scanVar() (string, error) {
	open := l.cols[l.at]
	l.at++
	start := l.at
	for l.at < len(l.src) && l.src[l.at] != Delimiter {
		l.at++
	}
	if l.at >= len(l.src) {
		return "", &SyntaxError{Col: open, Text: string(l.src[start-1:]), Msg: "unterminated variable name"}
	}
	name := string(l.src[start:l.at])
	l.at++
	if name == "" {
		return "", &SyntaxError{Col: open, Text: "''", Msg: "empty variable name"}
	}
	return name, nil
}

func (l *lexer) scanIdent() string {
	start := l.at
	for l.at < len(l.src) {
		r := l.src[l.at]
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.at++
	}
	return string(l.src[start:l.at])
}
