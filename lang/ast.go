package lang

import (
	"strconv"
	"strings"
)

// Expr is an immutable expression tree node: one of [*Number], [*Ident], or
// [*Binary].
//
// Parentheses only affect precedence during parsing and leave no node behind.
// String renders the canonical source form with the minimal parentheses
// needed to preserve the tree shape.
type Expr interface {
	String() string
	expr()
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

// Ident is a reference to a param or cell.
type Ident struct {
	Name string
	Pos  Position
}

// Op is a binary arithmetic operator.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
)

// String returns the operator symbol.
func (op Op) String() string { return string(rune(op)) }

func (op Op) precedence() int {
	switch op {
	case OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

// Binary applies Op to Left and Right.
// Pos is the position of the operator.
type Binary struct {
	Left  Expr
	Right Expr
	Pos   Position
	Op    Op
}

func (*Number) expr() {}
func (*Ident) expr()  {}
func (*Binary) expr() {}

func (n *Number) String() string { return formatNumber(n.Value) }

func (n *Ident) String() string { return n.Name }

func (b *Binary) String() string {
	var sb strings.Builder

	writeOperand(&sb, b.Left, b.Op.precedence())
	sb.WriteByte(' ')
	sb.WriteString(b.Op.String())
	sb.WriteByte(' ')
	// Right operands bind tighter: a - (b - c) keeps its parentheses.
	writeOperand(&sb, b.Right, b.Op.precedence()+1)

	return sb.String()
}

func writeOperand(sb *strings.Builder, e Expr, prec int) {
	if b, ok := e.(*Binary); ok && b.Op.precedence() < prec {
		sb.WriteByte('(')
		sb.WriteString(b.String())
		sb.WriteByte(')')

		return
	}

	sb.WriteString(e.String())
}

// formatNumber renders v without an exponent, since the scanner accepts
// only plain integer and decimal literals.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Walk calls fn for e and each of its descendants in depth-first,
// left-to-right order. If fn returns false, the children of that node are
// skipped.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	if b, ok := e.(*Binary); ok {
		Walk(b.Left, fn)
		Walk(b.Right, fn)
	}
}

// Decl is a top-level declaration: [*ParamDecl] or [*CellDecl].
type Decl interface {
	// DeclName returns the declared name.
	DeclName() string
	// DeclPos returns the position of the declared name.
	DeclPos() Position
	// String returns the canonical source form, including the trailing ';'.
	String() string
}

// ParamDecl declares a param. Its values are supplied at run time.
type ParamDecl struct {
	Name string
	Pos  Position
}

// CellDecl declares a cell computed from Expr.
type CellDecl struct {
	Expr Expr
	Name string
	Pos  Position
}

func (d *ParamDecl) DeclName() string  { return d.Name }
func (d *ParamDecl) DeclPos() Position { return d.Pos }
func (d *ParamDecl) String() string    { return "param " + d.Name + ";" }

func (d *CellDecl) DeclName() string  { return d.Name }
func (d *CellDecl) DeclPos() Position { return d.Pos }
func (d *CellDecl) String() string {
	return "cell " + d.Name + ": " + d.Expr.String() + ";"
}

// References returns the distinct identifiers referenced by e, in order of
// first appearance.
func References(e Expr) []string {
	var (
		refs []string
		seen = make(map[string]struct{})
	)

	Walk(e, func(e Expr) bool {
		if id, ok := e.(*Ident); ok {
			if _, dup := seen[id.Name]; !dup {
				seen[id.Name] = struct{}{}
				refs = append(refs, id.Name)
			}
		}

		return true
	})

	return refs
}
