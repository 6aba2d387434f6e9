package mathexpr

import (
	"math"
	"strconv"
	"strings"
)

// funcID identifies a function in the fixed function table.
type funcID int8

const (
	funcNone funcID = iota
	funcLog
	funcLog10
	funcSin
	funcCos
	funcTan
	funcCot
	funcAsin
	funcAcos
	funcAtan
	funcAtan2 // reserved; no name resolves to it
	funcAcot
	funcDeg
	funcRad
	funcSqrt
	funcExp
	funcAbs
	// funcNeg is unary minus applied to a non-literal operand. It has no name
	// in the table.
	funcNeg
)

var funcnames = [...]string{
	funcNone:  "",
	funcLog:   "log",
	funcLog10: "log10",
	funcSin:   "sin",
	funcCos:   "cos",
	funcTan:   "tan",
	funcCot:   "cot",
	funcAsin:  "asin",
	funcAcos:  "acos",
	funcAtan:  "atan",
	funcAtan2: "atan2",
	funcAcot:  "acot",
	funcDeg:   "deg",
	funcRad:   "rad",
	funcSqrt:  "sqrt",
	funcExp:   "exp",
	funcAbs:   "abs",
	funcNeg:   "-",
}

func (f funcID) String() string {
	if f < 0 || int(f) >= len(funcnames) {
		return "funcID(" + strconv.Itoa(int(f)) + ")"
	}
	return funcnames[f]
}

// globalfuncs maps lowercase function names to their IDs.
var globalfuncs = map[string]funcID{
	"log":   funcLog,
	"log10": funcLog10,
	"sin":   funcSin,
	"cos":   funcCos,
	"tan":   funcTan,
	"cot":   funcCot,
	"asin":  funcAsin,
	"acos":  funcAcos,
	"atan":  funcAtan,
	"acot":  funcAcot,
	"deg":   funcDeg,
	"rad":   funcRad,
	"sqrt":  funcSqrt,
	"exp":   funcExp,
	"abs":   funcAbs,
}

// Funcs returns the names of the functions usable in expressions, in table
// order.
func Funcs() []string {
	r := make([]string, 0, len(globalfuncs))
	for id := funcLog; id < funcNeg; id++ {
		if _, ok := globalfuncs[funcnames[id]]; ok {
			r = append(r, funcnames[id])
		}
	}
	return r
}

// lookupFunc resolves a function name case-insensitively. The negation
// function is only produced by the lexer, never by name.
func lookupFunc(name string) (funcID, bool) {
	if name == "-" {
		return funcNeg, true
	}
	id, ok := globalfuncs[strings.ToLower(name)]
	return id, ok
}

// call applies a function with IEEE semantics. Arguments outside a function's
// domain produce NaN or an infinity.
func (f funcID) call(x float64) float64 {
	switch f {
	case funcLog:
		return math.Log(x)
	case funcLog10:
		return math.Log10(x)
	case funcSin:
		return math.Sin(x)
	case funcCos:
		return math.Cos(x)
	case funcTan:
		return math.Tan(x)
	case funcCot:
		return 1 / math.Tan(x)
	case funcAsin:
		return math.Asin(x)
	case funcAcos:
		return math.Acos(x)
	case funcAtan:
		return math.Atan(x)
	case funcAcot:
		return math.Atan(1 / x)
	case funcDeg:
		return x / (2 * math.Pi) * 360
	case funcRad:
		return x / 360 * 2 * math.Pi
	case funcSqrt:
		return math.Sqrt(x)
	case funcExp:
		return math.Exp(x)
	case funcAbs:
		return math.Abs(x)
	case funcNeg:
		return -x
	default:
		panic("mathexpr: call of unresolved function " + f.String())
	}
}

// binop applies a binary operator with IEEE semantics.
func binop(op byte, l, r float64) float64 {
	switch op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	case '%':
		return math.Mod(l, r)
	case '^':
		return math.Pow(l, r)
	default:
		panic("mathexpr: invalid operator " + strconv.QuoteRune(rune(op)))
	}
}

// precedence gives the pop threshold of an operator stack entry. Higher binds
// tighter; parentheses are a barrier.
func precedence(u lexUnit) int {
	switch u.kind {
	case unitFunc:
		return 5
	case unitOp:
		switch u.text {
		case "+", "-":
			return 2
		case "*", "/", "%":
			return 3
		case "^":
			return 4
		}
	}
	return 1
}
