package mathexpr

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Expr is a compiled expression: a postfix program whose instructions are
// resolved once so that evaluation never reclassifies tokens. An Expr is
// immutable and safe for concurrent use.
type Expr struct {
	// code is the program in postfix order.
	code []instr
	// names is the variable table in registration order.
	names []string
	// index maps variable names to their positions in names.
	index map[string]int
	// src is the expression the program was compiled from.
	src string
}

// Compile converts an infix expression into a program. Variables used in the
// expression must be registered with Vars, and every registered variable must
// be used.
func Compile(src string, opts ...CompileOption) (*Expr, error) {
	p := compilectx{log: zerolog.Nop()}
	for _, opt := range opts {
		if err := opt.compileOption(&p); err != nil {
			return nil, err
		}
	}
	units, err := lex(src)
	if err != nil {
		return nil, err
	}
	out, err := shunt(units, &p)
	if err != nil {
		return nil, err
	}
	if err := checkused(units, &p); err != nil {
		return nil, err
	}
	code, err := resolve(out, &p)
	if err != nil {
		return nil, err
	}
	if err := checkdepth(code); err != nil {
		return nil, err
	}
	ex := Expr{
		code:  code,
		names: append(([]string)(nil), p.names...),
		index: p.index,
		src:   src,
	}
	p.log.Debug().
		Str("expr", src).
		Stringer("rpn", &ex).
		Int("units", len(units)).
		Strs("vars", ex.names).
		Msg("compiled expression")
	return &ex, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, opts ...CompileOption) *Expr {
	ex, err := Compile(src, opts...)
	if err != nil {
		panic("mathexpr: compiling " + strconv.Quote(src) + ": " + err.Error())
	}
	return ex
}

// shunt reorders lexical units into postfix order. Unclosed open parentheses
// are left in the output for the caller to report.
func shunt(units []lexUnit, p *compilectx) ([]lexUnit, error) {
	stack := make([]lexUnit, 0, 8)
	out := make([]lexUnit, 0, len(units))
	for _, u := range units {
		switch u.kind {
		case unitNum:
			out = append(out, u)
		case unitVar:
			if _, ok := p.index[u.text]; !ok {
				return nil, &NameError{Name: u.text, Col: u.pos}
			}
			out = append(out, u)
		case unitOp:
			// Pop everything that binds at least as tightly. Functions have
			// the highest precedence and open parentheses the lowest.
			prec := precedence(u)
			for len(stack) > 0 && precedence(stack[len(stack)-1]) >= prec {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, u)
		case unitOpen, unitFunc:
			stack = append(stack, u)
		case unitClose:
			for len(stack) > 0 && stack[len(stack)-1].kind != unitOpen {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, &BracketError{Col: u.pos, Right: u.text}
			}
			stack = stack[:len(stack)-1]
		default:
			panic("mathexpr: unknown unit: " + u.String())
		}
	}
	for len(stack) > 0 {
		out = append(out, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}
	return out, nil
}

// checkused reports the first registered name that no unit refers to.
func checkused(units []lexUnit, p *compilectx) error {
	used := make([]bool, len(p.names))
	for _, u := range units {
		if u.kind == unitVar {
			used[p.index[u.text]] = true
		}
	}
	for i, ok := range used {
		if !ok {
			return &NameError{Name: p.names[i], Unused: true}
		}
	}
	return nil
}

// VarsIn returns the names of the variables an expression refers to, in order
// of first appearance. The constant 'pi' is not a variable.
func VarsIn(src string) ([]string, error) {
	units, err := lex(src)
	if err != nil {
		return nil, err
	}
	var names []string
	seen := make(map[string]bool)
	for _, u := range units {
		if u.kind == unitVar && !seen[u.text] {
			seen[u.text] = true
			names = append(names, u.text)
		}
	}
	return names, nil
}

// resolve validates postfix units and turns them into instructions. An open
// parenthesis anywhere in the output is reported before anything else, since
// it would otherwise surface as a confusing operand error.
func resolve(out []lexUnit, p *compilectx) ([]instr, error) {
	for _, u := range out {
		if u.kind == unitOpen {
			return nil, &BracketError{Col: u.pos, Left: u.text}
		}
	}
	if len(out) == 0 {
		return nil, ErrBadRPN
	}
	code := make([]instr, len(out))
	for i, u := range out {
		in := instr{text: u.text, pos: u.pos}
		switch u.kind {
		case unitNum:
			v, err := strconv.ParseFloat(u.text, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, &SyntaxError{Col: u.pos, Text: u.text, Msg: "invalid number"}
			}
			in.kind = instrNum
			in.num = v
		case unitOp:
			in.kind = instrOp
			in.op = u.text[0]
		case unitFunc:
			fn, ok := lookupFunc(u.text)
			if !ok {
				return nil, &FuncError{Col: u.pos, Func: u.text}
			}
			in.kind = instrFunc
			in.fn = fn
		case unitVar:
			in.kind = instrVar
			in.index = p.index[u.text]
		default:
			panic("mathexpr: unit in postfix output: " + u.String())
		}
		code[i] = in
	}
	return code, nil
}

// checkdepth verifies that a program never pops an empty stack and leaves
// exactly one value.
func checkdepth(code []instr) error {
	d := 0
	for _, in := range code {
		need, eff := in.effect()
		if d < need {
			return &SyntaxError{Col: in.pos, Text: in.String(), Msg: "missing operand for"}
		}
		d += eff
	}
	if d != 1 {
		last := code[len(code)-1]
		return &SyntaxError{Col: last.pos, Text: last.String(), Msg: "missing operator near"}
	}
	return nil
}

// Vars returns the registered variable names in registration order.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// Len returns the number of instructions in the compiled program.
func (e *Expr) Len() int {
	return len(e.code)
}

// Source returns the expression the program was compiled from.
func (e *Expr) Source() string {
	return e.src
}

// String formats the program in reverse Polish notation with instructions
// separated by spaces. Unary minus on a non-literal operand appears as neg.
func (e *Expr) String() string {
	var b strings.Builder
	for i, in := range e.code {
		if i > 0 {
			b.WriteByte(' ')
		}
		in.fmt(&b)
	}
	return b.String()
}
