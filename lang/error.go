package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Error categories. Every error returned by this package matches exactly one
// of these with [errors.Is].
var (
	ErrLex        = NewError("lex error")
	ErrParse      = NewError("parse error")
	ErrName       = NewError("name error")
	ErrCycle      = NewError("cycle error")
	ErrShape      = NewError("shape error")
	ErrArithmetic = NewError("arithmetic error")
	ErrReadInput  = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", "<err>", or "" depending on which are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same non-empty message,
// so errors derived with [Error.Wrap] or [Error.With] still match their
// sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// LexError reports a character the scanner does not recognize, or a
// numeric literal (Number) outside the range of float64.
type LexError struct {
	Number string
	Pos    Position
	Char   rune
}

func (e *LexError) Error() string {
	if e.Number != "" {
		return ErrLex.msg + " at " + e.Pos.String() +
			": number " + abbrev(e.Number) + " out of range"
	}

	return ErrLex.msg + " at " + e.Pos.String() +
		": unexpected character " + strconv.QuoteRune(e.Char)
}

// abbrev quotes s, eliding the middle of long literals.
func abbrev(s string) string {
	const keep = 8

	if len(s) > 3*keep {
		s = s[:keep] + "..." + s[len(s)-keep:]
	}

	return strconv.Quote(s)
}

func (e *LexError) Unwrap() error { return ErrLex }

func (e *LexError) LogValue() slog.Value {
	if e.Number != "" {
		return slog.GroupValue(
			slog.String("error", ErrLex.msg),
			slog.String("number", abbrev(e.Number)),
			slog.String("pos", e.Pos.String()),
		)
	}

	return slog.GroupValue(
		slog.String("error", ErrLex.msg),
		slog.String("char", string(e.Char)),
		slog.String("pos", e.Pos.String()),
	)
}

// ParseError reports a token that does not fit the grammar.
type ParseError struct {
	Expected []Kind
	Found    Token
}

func (e *ParseError) Error() string {
	return ErrParse.msg + " at " + e.Found.Pos.String() +
		": expected " + joinKinds(e.Expected) + ", found " + e.Found.String()
}

func (e *ParseError) Unwrap() error { return ErrParse }

func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrParse.msg),
		slog.String("expected", joinKinds(e.Expected)),
		slog.String("found", e.Found.String()),
		slog.String("pos", e.Found.Pos.String()),
	)
}

// NameReason distinguishes the ways a name can be wrong.
type NameReason int

const (
	// NameDuplicate: the name is declared more than once.
	NameDuplicate NameReason = iota
	// NameUndefined: a cell references a name that is not declared.
	NameUndefined
	// NameNotCell: a query names something other than a declared cell.
	NameNotCell
	// NameUnknownParam: a binding supplies values for a name that is not a
	// declared param.
	NameUnknownParam
)

func (r NameReason) String() string {
	switch r {
	case NameDuplicate:
		return "duplicate declaration"
	case NameUndefined:
		return "undefined reference"
	case NameNotCell:
		return "not a cell"
	case NameUnknownParam:
		return "unknown param"
	default:
		return "NameReason(" + strconv.Itoa(int(r)) + ")"
	}
}

// NameError reports a missing, duplicate, or misused name.
type NameError struct {
	// Name is the offending identifier.
	Name string
	// Cell is the cell whose expression references Name, if any.
	Cell string
	// Suggestions lists declared names close to Name, best match first.
	Suggestions []string
	// Pos locates Name in source, if known. For duplicates it is the later
	// declaration, and Prev is the earlier one.
	Pos    Position
	Prev   Position
	Reason NameReason
}

func (e *NameError) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrName.msg)

	if e.Pos.IsValid() {
		sb.WriteString(" at ")
		sb.WriteString(e.Pos.String())
	}

	sb.WriteString(": ")
	sb.WriteString(e.Reason.String())
	sb.WriteString(" ")
	sb.WriteString(strconv.Quote(e.Name))

	if e.Cell != "" {
		sb.WriteString(" in cell ")
		sb.WriteString(strconv.Quote(e.Cell))
	}

	if e.Reason == NameDuplicate && e.Prev.IsValid() {
		sb.WriteString(" (first declared at ")
		sb.WriteString(e.Prev.String())
		sb.WriteString(")")
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("; did you mean ")

		for i, s := range e.Suggestions {
			if i > 0 {
				sb.WriteString(" or ")
			}

			sb.WriteString(strconv.Quote(s))
		}

		sb.WriteString("?")
	}

	return sb.String()
}

func (e *NameError) Unwrap() error { return ErrName }

func (e *NameError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrName.msg),
		slog.String("reason", e.Reason.String()),
		slog.String("name", e.Name),
	}

	if e.Cell != "" {
		attrs = append(attrs, slog.String("cell", e.Cell))
	}

	if e.Pos.IsValid() {
		attrs = append(attrs, slog.String("pos", e.Pos.String()))
	}

	if len(e.Suggestions) > 0 {
		attrs = append(attrs, slog.Any("suggestions", e.Suggestions))
	}

	return slog.GroupValue(attrs...)
}

// maxSuggestions bounds NameError.Suggestions.
const maxSuggestions = 3

// suggest returns up to maxSuggestions candidates that fuzzily match name.
func suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}

	var out []string

	for _, m := range fuzzy.Find(name, candidates) {
		if m.Str == name {
			continue
		}

		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}

	return out
}

// CycleError reports a cyclic chain of cell references.
type CycleError struct {
	// Path starts and ends with the same cell, e.g. [a b a].
	Path []string
}

func (e *CycleError) Error() string {
	return ErrCycle.msg + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrCycle }

func (e *CycleError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrCycle.msg),
		slog.String("path", strings.Join(e.Path, " -> ")),
	)
}

// ShapeError reports a param whose value list cannot be broadcast across
// the row count.
type ShapeError struct {
	Param string
	Len   int
	Rows  int
}

func (e *ShapeError) Error() string {
	if e.Len == 0 {
		return ErrShape.msg + ": param " + strconv.Quote(e.Param) +
			" has no values"
	}

	return ErrShape.msg + ": param " + strconv.Quote(e.Param) + " has " +
		strconv.Itoa(e.Len) + " values, want 1 or " + strconv.Itoa(e.Rows)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

func (e *ShapeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrShape.msg),
		slog.String("param", e.Param),
		slog.Int("len", e.Len),
		slog.Int("rows", e.Rows),
	)
}

// ArithmeticError reports a division by zero while computing Cell in Row.
type ArithmeticError struct {
	Cell string
	Row  int
}

func (e *ArithmeticError) Error() string {
	return ErrArithmetic.msg + ": division by zero in cell " +
		strconv.Quote(e.Cell) + " at row " + strconv.Itoa(e.Row)
}

func (e *ArithmeticError) Unwrap() error { return ErrArithmetic }

func (e *ArithmeticError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrArithmetic.msg),
		slog.String("cell", e.Cell),
		slog.Int("row", e.Row),
	)
}
