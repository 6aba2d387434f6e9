package mathexpr

import (
	"errors"
	"strconv"
)

var (
	// ErrBadInit is returned when an expression is empty or contains only
	// whitespace.
	ErrBadInit = errors.New("mathexpr: no expression")
	// ErrBadRPN is returned when evaluating an empty program.
	ErrBadRPN = errors.New("mathexpr: empty program")
	// ErrVarCount is returned when the number of values supplied for
	// evaluation differs from the number of registered variables.
	ErrVarCount = errors.New("mathexpr: number of values does not match number of variables")

	// ErrUnclosedLeft matches a BracketError for a close parenthesis with no
	// open parenthesis.
	ErrUnclosedLeft = errors.New("mathexpr: unclosed left parenthesis")
	// ErrUnclosedRight matches a BracketError for an open parenthesis with no
	// close parenthesis.
	ErrUnclosedRight = errors.New("mathexpr: unclosed right parenthesis")
)

// BracketError is an error indicating mismatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is the opening parenthesis, or empty if a close parenthesis had no
	// match.
	Left string
	// Right is the closing parenthesis, or empty if an open parenthesis was
	// never closed.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// Is matches ErrUnclosedLeft or ErrUnclosedRight according to which side is
// missing.
func (err *BracketError) Is(target error) bool {
	switch target {
	case ErrUnclosedLeft:
		return err.Left == ""
	case ErrUnclosedRight:
		return err.Right == ""
	default:
		return false
	}
}

// SyntaxError is an error indicating a malformed token or a token sequence
// that does not form an expression. It implements InputError.
type SyntaxError struct {
	// Col is the position of the offending token.
	Col int
	// Text is the offending token.
	Text string
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, "syntax error: "+err.Msg)
	}
	return errpos(err.Col, "syntax error: "+err.Msg+" "+strconv.Quote(err.Text))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// NameError is an error indicating a variable that was not registered, a
// registered name that the expression does not use, or a name registered
// twice.
type NameError struct {
	// Name is the variable name.
	Name string
	// Col is the position of the variable in the expression, or 0 if the
	// error did not come from parsing.
	Col int
	// Dup indicates the name was registered more than once.
	Dup bool
	// Unused indicates the name was registered but does not appear in the
	// expression.
	Unused bool
}

func (err *NameError) Error() string {
	msg := "undefined variable: " + strconv.Quote(err.Name)
	switch {
	case err.Dup:
		msg = "duplicate variable: " + strconv.Quote(err.Name)
	case err.Unused:
		msg = "variable not in expression: " + strconv.Quote(err.Name)
	}
	if err.Col > 0 {
		return errpos(err.Col, msg)
	}
	return msg
}

func (err *NameError) Pos() int {
	return err.Col
}

// FuncError is an error indicating an identifier that is not a known
// function. It implements InputError.
type FuncError struct {
	// Col is the position of the identifier.
	Col int
	// Func is the identifier.
	Func string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Func))
}

func (err *FuncError) Pos() int {
	return err.Col
}

// DomainError is an error returned by arbitrary-precision evaluation when an
// operation is outside its domain, since big.Float has no NaN.
type DomainError struct {
	// X is the out-of-domain argument, formatted.
	X string
	// Func names the function or operator.
	Func string
	// Col is the position of the instruction that failed.
	Col int
}

func (err *DomainError) Error() string {
	r := err.X + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Col > 0 {
		return errpos(err.Col, r)
	}
	return r
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*FuncError)(nil)
)
