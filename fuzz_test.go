package mathexpr_test

import (
	"testing"

	"github.com/zephyrtronium/mathexpr"
)

// FuzzCompile checks that any program that compiles also evaluates, since
// compilation proves the stack discipline.
func FuzzCompile(f *testing.F) {
	f.Add("'x'")
	f.Add("2 + 3 * 4")
	f.Add("sin(rad('x')) + --'x'^-2 % 3")
	f.Add("sin)2(")
	f.Fuzz(func(t *testing.T, s string) {
		vals := []float64{1.5}
		e, err := mathexpr.Compile(s, mathexpr.Vars("x"))
		if err != nil {
			vals = nil
			e, err = mathexpr.Compile(s)
			if err != nil {
				return
			}
		}
		if _, err := e.Eval(vals); err != nil {
			t.Errorf("%q compiled to %q but failed to evaluate: %v", s, e, err)
		}
	})
}

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("1*2")
	f.Add("'pi'")
	f.Fuzz(func(t *testing.T, s string) {
		mathexpr.EvalString(s, mathexpr.Var{Name: "x", Value: 0})
	})
}
