package lang

import (
	"context"
	"log/slog"
	"strconv"
)

// Parse parses src into its ordered declarations.
//
// Tokens are pulled from a [Scanner] one at a time. The first lexical or
// syntax error stops parsing and is returned as a [*LexError] or
// [*ParseError].
func Parse(ctx context.Context, src string, opts ...Option) ([]Decl, error) {
	cfg := makeConfig(opts...)

	p := &parser{scan: NewScanner(src)}

	decls, err := p.parseProgram()
	if err != nil {
		cfg.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(src)),
		slog.Int("decl_count", len(decls)))

	return decls, nil
}

// parser is a recursive-descent parser with one token of lookahead.
type parser struct {
	scan *Scanner
	tok  Token
}

// next advances the lookahead token.
func (p *parser) next() error {
	tok, err := p.scan.Next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

// expect consumes the lookahead if it has kind k.
func (p *parser) expect(k Kind) (Token, error) {
	if p.tok.Kind != k {
		return Token{}, &ParseError{Expected: []Kind{k}, Found: p.tok}
	}

	tok := p.tok

	return tok, p.next()
}

// parseProgram parses: (Param | Cell)* EOF.
func (p *parser) parseProgram() ([]Decl, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	var decls []Decl

	for {
		var (
			decl Decl
			err  error
		)

		switch p.tok.Kind {
		case KindEOF:
			return decls, nil
		case KindParam:
			decl, err = p.parseParam()
		case KindCell:
			decl, err = p.parseCell()
		default:
			err = &ParseError{
				Expected: []Kind{KindParam, KindCell, KindEOF},
				Found:    p.tok,
			}
		}

		if err != nil {
			return nil, err
		}

		decls = append(decls, decl)
	}
}

// parseParam parses: 'param' Ident ';'.
func (p *parser) parseParam() (*ParamDecl, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	name, err := p.expect(KindIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindSemicolon); err != nil {
		return nil, err
	}

	return &ParamDecl{Name: name.Text, Pos: name.Pos}, nil
}

// parseCell parses: 'cell' Ident ':' Expr ';'.
func (p *parser) parseCell() (*CellDecl, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	name, err := p.expect(KindIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindColon); err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.tok.Kind != KindSemicolon {
		return nil, &ParseError{
			Expected: []Kind{KindPlus, KindMinus, KindStar, KindSlash, KindSemicolon},
			Found:    p.tok,
		}
	}

	if err := p.next(); err != nil {
		return nil, err
	}

	return &CellDecl{Name: name.Text, Expr: expr, Pos: name.Pos}, nil
}

// parseExpr parses: Term (('+'|'-') Term)*.
func (p *parser) parseExpr() (Expr, error) {
	return p.parseBinary(p.parseTerm, KindPlus, KindMinus)
}

// parseTerm parses: Atom (('*'|'/') Atom)*.
func (p *parser) parseTerm() (Expr, error) {
	return p.parseBinary(p.parseAtom, KindStar, KindSlash)
}

// parseBinary parses a left-associative chain of operands separated by
// operators of the given kinds.
func (p *parser) parseBinary(
	operand func() (Expr, error),
	ops ...Kind,
) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.tok.Kind == ops[0] || p.tok.Kind == ops[1] {
		op := p.tok

		if err := p.next(); err != nil {
			return nil, err
		}

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: Op(op.Text[0]), Left: left, Right: right, Pos: op.Pos}
	}

	return left, nil
}

// parseAtom parses: Number | Ident | '(' Expr ')'.
func (p *parser) parseAtom() (Expr, error) {
	tok := p.tok

	switch tok.Kind {
	case KindNumber:
		if err := p.next(); err != nil {
			return nil, err
		}

		// The scanner only yields literals that parse within range.
		v, _ := strconv.ParseFloat(tok.Text, 64)

		return &Number{Value: v}, nil

	case KindIdent:
		if err := p.next(); err != nil {
			return nil, err
		}

		return &Ident{Name: tok.Text, Pos: tok.Pos}, nil

	case KindLParen:
		if err := p.next(); err != nil {
			return nil, err
		}

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if p.tok.Kind != KindRParen {
			return nil, &ParseError{
				Expected: []Kind{KindPlus, KindMinus, KindStar, KindSlash, KindRParen},
				Found:    p.tok,
			}
		}

		return inner, p.next()

	default:
		return nil, &ParseError{
			Expected: []Kind{KindNumber, KindIdent, KindLParen},
			Found:    tok,
		}
	}
}
