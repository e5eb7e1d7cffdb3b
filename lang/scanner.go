package lang

import (
	"iter"
	"strconv"
	"unicode/utf8"
)

// Scanner converts source text into tokens, one per call to [Scanner.Next].
//
// A Scanner is not restartable. Once it returns a [KindEOF] token it keeps
// returning one, and once it fails it keeps returning the same error.
type Scanner struct {
	src  string
	err  error
	pos  int
	line int
	col  int
	prev Kind
}

// NewScanner returns a Scanner reading src.
func NewScanner(src string) *Scanner {
	return &Scanner{
		src:  src,
		line: 1,
		col:  1,
		prev: KindEOF,
	}
}

// Next returns the next token.
//
// Whitespace is skipped, as are comments introduced by '#' or "//" which run
// to the end of the line. An unrecognized character, or a numeric literal
// too large for float64, yields a [*LexError].
func (s *Scanner) Next() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}

	s.skip()

	start := s.position()

	if s.eof() {
		return Token{Kind: KindEOF, Pos: start}, nil
	}

	var kind Kind

	c := s.src[s.pos]

	switch {
	case isIdentStart(c):
		s.advanceWhile(isIdentContinue)

		kind = KindIdent
		if kw, ok := keywords[s.src[start.Offset:s.pos]]; ok {
			kind = kw
		}

	case isDigit(c):
		s.number()

		kind = KindNumber

	case c == '-' && !s.prev.operand() && isDigit(s.peekAt(1)):
		s.advance()
		s.number()

		kind = KindNumber

	default:
		kind = punct(c)
		if kind == KindEOF {
			r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
			s.err = &LexError{Char: r, Pos: start}

			return Token{}, s.err
		}

		s.advance()
	}

	// Literals beyond float64 have no finite value or source form.
	if kind == KindNumber {
		text := s.src[start.Offset:s.pos]
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			s.err = &LexError{Number: text, Pos: start}

			return Token{}, s.err
		}
	}

	s.prev = kind

	return Token{
		Kind: kind,
		Text: s.src[start.Offset:s.pos],
		Pos:  start,
	}, nil
}

// All returns an iterator over the remaining tokens.
//
// The sequence ends after yielding the [KindEOF] token, or after yielding the
// first error (paired with a zero Token).
func (s *Scanner) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := s.Next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if !yield(tok, nil) || tok.Kind == KindEOF {
				return
			}
		}
	}
}

// number consumes digits with an optional fraction. A '.' must be followed
// by at least one digit to belong to the literal.
func (s *Scanner) number() {
	s.advanceWhile(isDigit)

	if s.peekAt(0) == '.' && isDigit(s.peekAt(1)) {
		s.advance()
		s.advanceWhile(isDigit)
	}
}

func (s *Scanner) skip() {
	for !s.eof() {
		switch c := s.src[s.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' ||
			c == '\f' || c == '\v':
			s.advance()

		case c == '#', c == '/' && s.peekAt(1) == '/':
			for !s.eof() && s.src[s.pos] != '\n' {
				s.advance()
			}

		default:
			return
		}
	}
}

func (s *Scanner) eof() bool { return s.pos >= len(s.src) }

func (s *Scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}

	return s.src[s.pos+n]
}

func (s *Scanner) advance() {
	if s.eof() {
		return
	}

	if s.src[s.pos] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.pos++
}

func (s *Scanner) advanceWhile(ok func(byte) bool) {
	for !s.eof() && ok(s.src[s.pos]) {
		s.advance()
	}
}

func (s *Scanner) position() Position {
	return Position{Offset: s.pos, Line: s.line, Column: s.col}
}

func punct(c byte) Kind {
	switch c {
	case '+':
		return KindPlus
	case '-':
		return KindMinus
	case '*':
		return KindStar
	case '/':
		return KindSlash
	case ':':
		return KindColon
	case ';':
		return KindSemicolon
	case '(':
		return KindLParen
	case ')':
		return KindRParen
	default:
		return KindEOF
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(c byte) bool { return isIdentStart(c) || isDigit(c) }
