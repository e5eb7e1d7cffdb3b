package lang

import (
	"strconv"
	"strings"
)

// Kind classifies a [Token].
type Kind int

const (
	KindEOF Kind = iota
	KindParam
	KindCell
	KindIdent
	KindNumber
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindColon
	KindSemicolon
	KindLParen
	KindRParen
)

var kindName = [...]string{
	KindEOF:       "end of input",
	KindParam:     `"param"`,
	KindCell:      `"cell"`,
	KindIdent:     "identifier",
	KindNumber:    "number",
	KindPlus:      `"+"`,
	KindMinus:     `"-"`,
	KindStar:      `"*"`,
	KindSlash:     `"/"`,
	KindColon:     `":"`,
	KindSemicolon: `";"`,
	KindLParen:    `"("`,
	KindRParen:    `")"`,
}

// String returns a human-readable name of the kind, as used in diagnostics.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// operand reports whether a token of kind k can end an operand. A '-' that
// follows such a token is always the subtraction operator.
func (k Kind) operand() bool {
	return k == KindNumber || k == KindIdent || k == KindRParen
}

var keywords = map[string]Kind{
	"param": KindParam,
	"cell":  KindCell,
}

// Position is a location in source text.
// Line and Column are 1-based; Column counts bytes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String formats the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position refers to a location in source.
func (p Position) IsValid() bool { return p.Line > 0 }

// Token is a classified lexical unit.
type Token struct {
	Text string
	Pos  Position
	Kind Kind
}

// String describes the token for diagnostics, e.g. `identifier "total"`.
func (t Token) String() string {
	switch t.Kind {
	case KindEOF:
		return t.Kind.String()
	case KindIdent, KindNumber:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	default:
		return t.Kind.String()
	}
}

// joinKinds renders kinds as `a`, `a or b`, or `a, b, or c`.
func joinKinds(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}

	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") +
			", or " + names[len(names)-1]
	}
}
