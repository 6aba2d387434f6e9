// Package mathexpr compiles real-valued arithmetic expressions to postfix
// programs and evaluates them.
//
// Expressions use infix notation with the operators + - * / % ^, parentheses,
// decimal literals, and the functions log, log10, sin, cos, tan, cot, asin,
// acos, atan, acot, deg, rad, sqrt, exp, and abs. Function names are
// case-insensitive. Variables are written between apostrophes, e.g.
// "sin(rad('theta'))", and 'pi' is always the constant π. Whitespace is
// ignored everywhere, including inside names.
//
// All binary operators are left-associative: "2^3^2" is 64. A minus sign
// directly on a literal belongs to the literal, so "-2^2" is 4, while a minus
// on anything else negates the following operand.
//
// Compile an expression once and evaluate it for many inputs with a Context,
// or use EvalString for one-shot evaluation. Evaluation follows IEEE-754
// semantics: sqrt of a negative number is NaN and division by zero is an
// infinity, not an error. EvalBig evaluates the same program to arbitrary
// precision.
package mathexpr
