package mathexpr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuncsResolve(t *testing.T) {
	want := []string{"log", "log10", "sin", "cos", "tan", "cot", "asin", "acos", "atan", "acot", "deg", "rad", "sqrt", "exp", "abs"}
	assert.Equal(t, want, Funcs())
	for _, name := range want {
		id, ok := lookupFunc(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, id.String())
		up, ok := lookupFunc(upper(name))
		assert.True(t, ok, upper(name))
		assert.Equal(t, id, up)
	}
	for _, name := range []string{"atan2", "ATAN2", "neg", "ln", "pi", ""} {
		_, ok := lookupFunc(name)
		assert.False(t, ok, "%q should not resolve", name)
	}
}

func TestFuncCall(t *testing.T) {
	cases := []struct {
		fn   funcID
		x, r float64
	}{
		{funcLog, math.E, 1},
		{funcLog10, 100, 2},
		{funcSin, math.Pi / 2, 1},
		{funcCos, 0, 1},
		{funcTan, math.Pi / 4, 1},
		{funcCot, math.Pi / 4, 1},
		{funcAsin, 1, math.Pi / 2},
		{funcAcos, 1, 0},
		{funcAtan, 1, math.Pi / 4},
		{funcAcot, 1, math.Pi / 4},
		{funcDeg, math.Pi, 180},
		{funcRad, 180, math.Pi},
		{funcSqrt, 16, 4},
		{funcExp, 0, 1},
		{funcAbs, -3, 3},
		{funcNeg, 3, -3},
	}
	for _, c := range cases {
		assert.InDelta(t, c.r, c.fn.call(c.x), 1e-12, "%v(%g)", c.fn, c.x)
	}
	assert.True(t, math.IsNaN(funcSqrt.call(-1)))
	assert.True(t, math.IsNaN(funcLog.call(-1)))
	assert.True(t, math.IsInf(funcLog.call(0), -1))
	assert.Panics(t, func() { funcAtan2.call(1) })
}

func TestBinop(t *testing.T) {
	cases := []struct {
		op      byte
		l, r, v float64
	}{
		{'+', 2, 3, 5},
		{'-', 2, 3, -1},
		{'*', 2, 3, 6},
		{'/', 3, 2, 1.5},
		{'%', 7, 3, 1},
		{'%', -7, 3, -1},
		{'%', 5.5, 2, 1.5},
		{'^', 2, 10, 1024},
		{'^', 4, 0.5, 2},
	}
	for _, c := range cases {
		assert.Equal(t, c.v, binop(c.op, c.l, c.r), "%g %c %g", c.l, c.op, c.r)
	}
	assert.True(t, math.IsInf(binop('/', 1, 0), 1))
	assert.True(t, math.IsNaN(binop('%', 1, 0)))
	assert.Panics(t, func() { binop('&', 1, 1) })
}
