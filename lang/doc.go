// Package lang implements a small declarative formula language.
//
// A program declares params, whose values are supplied at run time, and
// cells, each an arithmetic expression over params and other cells:
//
//	# scores
//	param math_score;
//	param physics_score;
//
//	cell math:    math_score * 3;
//	cell physics: physics_score * 3;
//	cell total:   math + physics;
//
// # Grammar
//
//	Program := (Param | Cell)* EOF
//	Param   := 'param' Ident ';'
//	Cell    := 'cell' Ident ':' Expr ';'
//	Expr    := Term (('+' | '-') Term)*
//	Term    := Atom (('*' | '/') Atom)*
//	Atom    := Number | Ident | '(' Expr ')'
//
// Identifiers match [A-Za-z_][A-Za-z0-9_]*. Numbers are integer or decimal
// literals such as 12 or 1.5. A '-' immediately followed by a digit is part
// of the literal unless it follows an operand, so "10 -2" is a subtraction
// and "2 * -3" multiplies by negative three. Comments start with '#' or "//"
// and run to the end of the line.
//
// # Pipeline
//
// [Compile] runs the whole front end once: a [Scanner] produces tokens,
// [Parse] builds a [Decl] per declaration, [NewTable] rejects duplicate
// names, and [BuildGraph] rejects undefined references and cycles. The
// resulting [Program] is immutable.
//
// At run time a [Binding] supplies each param with one or more values.
// [Expand] broadcasts them into rows: lists of length one repeat on every
// row, and all longer lists must share one length, the row count.
// [Program.Records] then evaluates the queried cells on each row, computing
// each cell at most once per row.
//
// # Errors
//
// Every error matches one category with [errors.Is]: [ErrLex], [ErrParse],
// [ErrName], [ErrCycle], [ErrShape], or [ErrArithmetic]. The concrete types
// ([*LexError], [*ParseError], [*NameError], [*CycleError], [*ShapeError],
// [*ArithmeticError]) carry the position, names, or path needed for a
// diagnostic, and implement [log/slog.LogValuer].
//
// All arithmetic is IEEE-754 float64, except that a zero divisor is an
// error rather than an infinity.
package lang
