package mathexpr

import (
	"strconv"
)

// Context holds variable bindings and an evaluation stack for one compiled
// expression. It is not safe to use a Context concurrently; use Clone to give
// each goroutine its own.
type Context struct {
	expr  *Expr
	vals  []float64
	stack []float64
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	setvaropt struct {
		name string
		val  float64
	}
	setvarsopt map[string]float64
)

func (setvaropt) ctxOption()  {}
func (setvarsopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val float64) ContextOption {
	return setvaropt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]float64) ContextOption {
	return setvarsopt(vars)
}

// NewContext creates an evaluation context for e. All variables start at
// zero. Setting a variable that e does not register is an error.
func NewContext(e *Expr, opts ...ContextOption) (*Context, error) {
	ctx := Context{
		expr:  e,
		vals:  make([]float64, len(e.names)),
		stack: make([]float64, 0, 8),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case setvaropt:
			if err := ctx.Set(opt.name, opt.val); err != nil {
				return nil, err
			}
		case setvarsopt:
			for k, v := range opt {
				if err := ctx.Set(k, v); err != nil {
					return nil, err
				}
			}
		default:
			panic("mathexpr: unknown option type")
		}
	}
	return &ctx, nil
}

// Expr returns the expression the context evaluates.
func (ctx *Context) Expr() *Expr {
	return ctx.expr
}

// Set sets the value of a registered variable.
func (ctx *Context) Set(name string, value float64) error {
	k, ok := ctx.expr.index[name]
	if !ok {
		return &NameError{Name: name}
	}
	ctx.vals[k] = value
	return nil
}

// SetValues sets all variables at once, in registration order.
func (ctx *Context) SetValues(vals ...float64) error {
	if len(vals) != len(ctx.vals) {
		return ErrVarCount
	}
	copy(ctx.vals, vals)
	return nil
}

// Lookup returns the value of a variable and whether it is registered.
func (ctx *Context) Lookup(name string) (float64, bool) {
	k, ok := ctx.expr.index[name]
	if !ok {
		return 0, false
	}
	return ctx.vals[k], true
}

// Clone creates a copy of a context with its own bindings and stack.
func (ctx *Context) Clone() *Context {
	return &Context{
		expr:  ctx.expr,
		vals:  append(([]float64)(nil), ctx.vals...),
		stack: make([]float64, 0, cap(ctx.stack)),
	}
}

// Eval evaluates the expression with the context's current bindings. Only the
// compiled program is executed; nothing is reparsed.
func (ctx *Context) Eval() (float64, error) {
	r, stack, err := ctx.expr.run(ctx.vals, ctx.stack[:0])
	ctx.stack = stack
	return r, err
}

// Sweep evaluates the expression n times with the named variable set to n
// evenly spaced values from from to to, inclusive. The variable's value is
// restored afterward.
func (ctx *Context) Sweep(name string, from, to float64, n int) ([]float64, error) {
	k, ok := ctx.expr.index[name]
	if !ok {
		return nil, &NameError{Name: name}
	}
	old := ctx.vals[k]
	defer func() { ctx.vals[k] = old }()
	if n <= 0 {
		return nil, nil
	}
	r := make([]float64, n)
	step := 0.0
	if n > 1 {
		step = (to - from) / float64(n-1)
	}
	for i := range r {
		x := from + float64(i)*step
		if i == n-1 && n > 1 {
			x = to
		}
		ctx.vals[k] = x
		y, err := ctx.Eval()
		if err != nil {
			return nil, err
		}
		r[i] = y
	}
	return r, nil
}

// Eval evaluates the program with variable values given in registration
// order.
func (e *Expr) Eval(vals []float64) (float64, error) {
	if len(e.code) == 0 {
		return 0, ErrBadRPN
	}
	if len(vals) != len(e.names) {
		return 0, ErrVarCount
	}
	r, _, err := e.run(vals, make([]float64, 0, 8))
	return r, err
}

// run executes the program on stack, returning the result and the stack for
// reuse.
func (e *Expr) run(vals, stack []float64) (float64, []float64, error) {
	if len(e.code) == 0 {
		return 0, stack, ErrBadRPN
	}
	for _, in := range e.code {
		switch in.kind {
		case instrNum:
			stack = append(stack, in.num)
		case instrVar:
			stack = append(stack, vals[in.index])
		case instrOp:
			n := len(stack)
			if n < 2 {
				return 0, stack, &SyntaxError{Col: in.pos, Text: in.String(), Msg: "stack underflow at"}
			}
			// The right operand was pushed last.
			stack[n-2] = binop(in.op, stack[n-2], stack[n-1])
			stack = stack[:n-1]
		case instrFunc:
			n := len(stack)
			if n < 1 {
				return 0, stack, &SyntaxError{Col: in.pos, Text: in.String(), Msg: "stack underflow at"}
			}
			stack[n-1] = in.fn.call(stack[n-1])
		default:
			panic("mathexpr: invalid instruction " + in.kind.String())
		}
	}
	if len(stack) != 1 {
		return 0, stack, &SyntaxError{Msg: "inconsistent stack: " + strconv.Itoa(len(stack)) + " values"}
	}
	return stack[0], stack, nil
}

// Var is a variable name and value for one-shot evaluation.
type Var struct {
	Name  string
	Value float64
}

// EvalString is a shortcut to compile and evaluate an expression once.
// Compiled programs are cached, so repeated calls with the same expression
// and variable names skip compilation.
func EvalString(src string, vars ...Var) (float64, error) {
	names := make([]string, len(vars))
	vals := make([]float64, len(vars))
	for i, v := range vars {
		names[i] = v.Name
		vals[i] = v.Value
	}
	e, err := defaultCache.GetOrCompile(cacheKey(src, names), func() (*Expr, error) {
		return Compile(src, Vars(names...))
	})
	if err != nil {
		return 0, err
	}
	return e.Eval(vals)
}
