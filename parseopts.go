package mathexpr

import (
	"github.com/rs/zerolog"
)

// CompileOption is an option for compiling.
type CompileOption interface {
	compileOption(*compilectx) error
}

type (
	regopt []string
	logopt struct{ log zerolog.Logger }
)

// compilectx holds the configuration for one Compile call.
type compilectx struct {
	// names is the variable table in registration order.
	names []string
	// index maps each name in names to its position.
	index map[string]int
	// log receives debug events. It is disabled unless set by Logger.
	log zerolog.Logger
}

// Vars registers variable names. The order of registration across all Vars
// options fixes the order of values passed to Expr.Eval and
// Context.SetValues. Registering the same name twice is an error, as is
// registering a name that does not appear in the expression.
func Vars(names ...string) CompileOption {
	return regopt(names)
}

func (o regopt) compileOption(p *compilectx) error {
	if p.index == nil {
		p.index = make(map[string]int, len(o))
	}
	for _, name := range o {
		if _, ok := p.index[name]; ok {
			return &NameError{Name: name, Dup: true}
		}
		p.index[name] = len(p.names)
		p.names = append(p.names, name)
	}
	return nil
}

// Logger sets a logger to receive debug events during compilation.
func Logger(log zerolog.Logger) CompileOption {
	return logopt{log}
}

func (o logopt) compileOption(p *compilectx) error {
	p.log = o.log
	return nil
}
