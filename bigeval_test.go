package mathexpr_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/mathexpr"
)

func TestEvalBig(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"prec", "2 + 3 * 4", 14},
		{"paren", "(2 + 3) * 4", 20},
		{"neg", "-5 + 3", -2},
		{"negneg", "--5", 5},
		{"div", "1/8", 0.125},
		{"mod", "7 % 3", 1},
		{"modneg", "-7 % 3", -1},
		{"modfrac", "5.5 % 2", 1.5},
		{"modinf", "5 % (1/0)", 5},
		{"pow", "2^10", 1024},
		{"powneg", "(-2)^3", -8},
		{"powneg-even", "(-2)^2", 4},
		{"powzero", "0^0", 1},
		{"powzero-neg", "0^-1", math.Inf(1)},
		{"sqrt", "sqrt(16)", 4},
		{"abs", "abs(-3)", 3},
		{"exp", "exp(0)", 1},
		{"log", "log(1)", 0},
		{"log-zero", "log(0)", math.Inf(-1)},
		{"log10", "log10(1000)", 3},
		{"deg", "deg('pi')", 180},
		{"rad", "rad(180)", math.Pi},
		{"pi", "'pi'", math.Pi},
		{"div-zero", "1/0", math.Inf(1)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := mathexpr.Compile(c.src)
			require.NoError(t, err)
			r, err := e.EvalBig(128)
			require.NoError(t, err)
			f, _ := r.Float64()
			if math.IsInf(c.r, 0) {
				assert.Equal(t, c.r, f)
				return
			}
			assert.InDelta(t, c.r, f, 1e-15)
		})
	}
}

func TestEvalBigExact(t *testing.T) {
	// 0.1 + 0.2 is not 0.3 in float64, but it rounds to 0.3 when the sum is
	// computed with enough precision.
	e := mathexpr.MustCompile("0.1 + 0.2")
	fr, err := e.Eval(nil)
	require.NoError(t, err)
	assert.NotEqual(t, 0.3, fr)
	r, err := e.EvalBig(200)
	require.NoError(t, err)
	assert.Equal(t, uint(200), r.Prec())
	f, _ := r.Float64()
	assert.Equal(t, 0.3, f)
}

func TestEvalBigAgrees(t *testing.T) {
	srcs := []string{
		"sin(rad('theta')) + 'len'",
		"'theta'^2 / 'len' - 3 * 'theta'",
		"exp('len') * log('theta') + sqrt('theta')",
		"log10('theta') % 'len'",
		"deg(atan('len')) + acot('theta') + cot('len')",
		"-('theta' - 'len')^2",
	}
	for _, src := range srcs {
		e := mathexpr.MustCompile(src, mathexpr.Vars("theta", "len"))
		for _, v := range [][2]float64{{30, 2}, {45.5, 0.25}, {1, 7}} {
			want, err := e.Eval(v[:])
			require.NoError(t, err, src)
			r, err := e.EvalBig(64, big.NewFloat(v[0]), big.NewFloat(v[1]))
			require.NoError(t, err, src)
			got, _ := r.Float64()
			assert.InDelta(t, want, got, 1e-9*math.Max(1, math.Abs(want)), "%s with %v", src, v)
		}
	}
}

// TestEvalBigMod checks remainders whose quotients need more bits than either
// operand. Literals round identically at 53 bits, and remainders are exact,
// so both paths must agree exactly.
func TestEvalBigMod(t *testing.T) {
	srcs := []string{
		"10000000000000000000000000000000000000000 % 7",
		"-10000000000000000000000000000000000000000 % 7",
		"1208925819614629174706176 % 3",
		"123456789012345678901234567890 % 0.3",
		"98765432109876543210 % 1.5",
		"7 % 10000000000000000000000000000000000000000",
	}
	for _, src := range srcs {
		e := mathexpr.MustCompile(src)
		want, err := e.Eval(nil)
		require.NoError(t, err, src)
		r, err := e.EvalBig(53)
		require.NoError(t, err, src)
		got, _ := r.Float64()
		assert.Equal(t, want, got, src)
	}
	// At higher precision the literal is exact, so 10^40 % 7 is 4.
	r, err := mathexpr.MustCompile("10000000000000000000000000000000000000000 % 7").EvalBig(256)
	require.NoError(t, err)
	got, _ := r.Float64()
	assert.Equal(t, 4.0, got)
}

func TestEvalBigDomain(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"sqrt", "sqrt(-1)"},
		{"log", "log(-1)"},
		{"log10", "log10(-1)"},
		{"div-zero", "0/0"},
		{"div-inf", "(1/0)/(1/0)"},
		{"sub-inf", "1/0 - 1/0"},
		{"mod-zero", "1 % 0"},
		{"pow-neg", "(-8)^(1/3)"},
		{"asin", "asin(2)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := mathexpr.Compile(c.src)
			require.NoError(t, err)
			r, err := e.EvalBig(64)
			assert.Nil(t, r)
			var derr *mathexpr.DomainError
			require.True(t, errors.As(err, &derr), "%#v is not *DomainError", err)
			assert.Contains(t, err.Error(), "outside domain")
		})
	}
}

func TestEvalBigVars(t *testing.T) {
	e := mathexpr.MustCompile("'x' * 2 + 'y'", mathexpr.Vars("x", "y"))
	_, err := e.EvalBig(64, big.NewFloat(1))
	assert.ErrorIs(t, err, mathexpr.ErrVarCount)
	r, err := e.EvalBig(0, big.NewFloat(1.5), nil)
	require.NoError(t, err)
	assert.Equal(t, uint(64), r.Prec())
	f, _ := r.Float64()
	assert.Equal(t, 3.0, f)
}
