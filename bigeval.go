package mathexpr

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// EvalBig evaluates the program to prec bits of precision, with variable
// values given in registration order. A nil value is zero. If prec is 0, the
// precision is 64. Literals are parsed from their source text, so they are not
// rounded to float64 first. Trigonometric functions have no arbitrary-precision
// implementation and are computed in float64.
//
// Since big.Float has no NaN, operations outside their domain return a
// *DomainError instead of propagating.
func (e *Expr) EvalBig(prec uint, vals ...*big.Float) (r *big.Float, err error) {
	if len(e.code) == 0 {
		return nil, ErrBadRPN
	}
	if len(vals) != len(e.names) {
		return nil, ErrVarCount
	}
	if prec == 0 {
		prec = 64
	}
	var cur instr
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		// big.Float reports invalid operations like Inf-Inf by panicking.
		var nan big.ErrNaN
		if pe, ok := p.(error); ok && errors.As(pe, &nan) {
			r, err = nil, &DomainError{X: nan.Error(), Func: cur.String(), Col: cur.pos}
			return
		}
		panic(p)
	}()
	stack := make([]*big.Float, 0, 8)
	for _, in := range e.code {
		cur = in
		switch in.kind {
		case instrNum:
			x, _, err := new(big.Float).SetPrec(prec).Parse(in.text, 10)
			if err != nil {
				// The literal converted to float64 during compilation, so
				// this is only reachable for out-of-range exponents.
				x = new(big.Float).SetPrec(prec).SetFloat64(in.num)
			}
			stack = append(stack, x)
		case instrVar:
			x := new(big.Float).SetPrec(prec)
			if v := vals[in.index]; v != nil {
				x.Set(v)
			}
			stack = append(stack, x)
		case instrOp:
			n := len(stack)
			if n < 2 {
				return nil, &SyntaxError{Col: in.pos, Text: in.String(), Msg: "stack underflow at"}
			}
			l, r := stack[n-2], stack[n-1]
			if err := bigbinop(in, l, r); err != nil {
				return nil, err
			}
			stack = stack[:n-1]
		case instrFunc:
			n := len(stack)
			if n < 1 {
				return nil, &SyntaxError{Col: in.pos, Text: in.String(), Msg: "stack underflow at"}
			}
			if err := bigcall(in, stack[n-1]); err != nil {
				return nil, err
			}
		default:
			panic("mathexpr: invalid instruction " + in.kind.String())
		}
	}
	if len(stack) != 1 {
		return nil, &SyntaxError{Msg: "inconsistent stack: " + strconv.Itoa(len(stack)) + " values"}
	}
	return stack[0], nil
}

func domain(in instr, x *big.Float) error {
	return &DomainError{X: x.String(), Func: in.String(), Col: in.pos}
}

// bigbinop sets l to l op r.
func bigbinop(in instr, l, r *big.Float) error {
	switch in.op {
	case '+':
		l.Add(l, r)
	case '-':
		l.Sub(l, r)
	case '*':
		l.Mul(l, r)
	case '/':
		// Guard against invalid divisions, 0/0 or inf/inf.
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return domain(in, r)
		}
		l.Quo(l, r)
	case '%':
		return bigmod(in, l, r)
	case '^':
		return bigpow(in, l, r)
	default:
		panic("mathexpr: invalid operator " + strconv.QuoteRune(rune(in.op)))
	}
	return nil
}

// bigmod sets l to the remainder of l/r truncated toward zero, with the sign
// of l, like math.Mod.
func bigmod(in instr, l, r *big.Float) error {
	switch {
	case r.Sign() == 0, l.IsInf():
		return domain(in, r)
	case r.IsInf():
		return nil
	}
	// The quotient needs every integer bit, and q*r and l-q*r must be exact.
	prec := uint(max(l.MantExp(nil)-r.MantExp(nil), 0)) + max(l.Prec(), r.Prec()) + 64
	var q big.Float
	q.SetPrec(prec).Quo(l, r)
	t, _ := q.Int(nil)
	q.SetInt(t)
	q.Mul(&q, r)
	q.Sub(l, &q)
	l.Set(&q)
	return nil
}

// bigpow sets l to l^r. A negative base is allowed only with an integer
// exponent.
func bigpow(in instr, l, r *big.Float) error {
	switch {
	case r.Sign() == 0:
		l.SetInt64(1)
		return nil
	case l.Sign() == 0:
		if r.Sign() < 0 {
			l.SetInf(false)
		}
		return nil
	case l.IsInf() || r.IsInf():
		x, _ := l.Float64()
		y, _ := r.Float64()
		return setf(in, l, math.Pow(x, y))
	}
	neg := false
	if l.Sign() < 0 {
		if !r.IsInt() {
			return domain(in, l)
		}
		t, _ := r.Int(nil)
		neg = t.Bit(0) == 1
		l.Abs(l)
	}
	bigfloat.Pow(l, new(big.Float).Set(l), r)
	if neg {
		l.Neg(l)
	}
	return nil
}

// bigcall sets x to f(x).
func bigcall(in instr, x *big.Float) error {
	switch in.fn {
	case funcLog, funcLog10:
		switch {
		case x.Sign() < 0:
			return domain(in, x)
		case x.Sign() == 0:
			x.SetInf(true)
			return nil
		case x.IsInf():
			return nil
		}
		bigfloat.Log(x, new(big.Float).Set(x))
		if in.fn == funcLog10 {
			ten := new(big.Float).SetPrec(x.Prec()).SetInt64(10)
			x.Quo(x, bigfloat.Log(ten, ten))
		}
	case funcExp:
		if x.IsInf() {
			if x.Signbit() {
				x.SetInt64(0)
			}
			return nil
		}
		if x.Sign() == 0 {
			x.SetInt64(1)
			return nil
		}
		bigfloat.Exp(x, new(big.Float).Set(x))
	case funcSqrt:
		if x.Sign() < 0 {
			return domain(in, x)
		}
		if x.Sign() == 0 || x.IsInf() {
			return nil
		}
		x.Sqrt(x)
	case funcAbs:
		x.Abs(x)
	case funcNeg:
		x.Neg(x)
	case funcDeg:
		// x/(2π) * 360 = x * 180/π
		pi := bigfloat.Pi(new(big.Float).SetPrec(x.Prec()))
		x.Mul(x, big.NewFloat(180).SetPrec(x.Prec()))
		x.Quo(x, pi)
	case funcRad:
		pi := bigfloat.Pi(new(big.Float).SetPrec(x.Prec()))
		x.Mul(x, pi)
		x.Quo(x, big.NewFloat(180).SetPrec(x.Prec()))
	default:
		f, _ := x.Float64()
		return setf(in, x, in.fn.call(f))
	}
	return nil
}

// setf sets x to a float64 result, reporting NaN as a domain error.
func setf(in instr, x *big.Float, f float64) error {
	if math.IsNaN(f) {
		return domain(in, x)
	}
	x.SetFloat64(f)
	return nil
}
