package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func FuzzScanner(f *testing.F) {
	f.Add("param x; cell a: x * -2.5;")
	f.Add("# c\n// d\n(1-2)")
	f.Add("cell a: 1 % 2;")
	f.Add("1..2")

	f.Fuzz(func(t *testing.T, src string) {
		last := -1

		for tok, err := range NewScanner(src).All() {
			if err != nil {
				if !errors.Is(err, ErrLex) {
					t.Fatalf("non-lex error %v", err)
				}

				return
			}

			if tok.Pos.Offset <= last && tok.Kind != KindEOF {
				t.Fatalf("token %v does not advance past offset %d", tok, last)
			}

			last = tok.Pos.Offset
		}
	})
}

func FuzzParseFormat(f *testing.F) {
	f.Add(scores)
	f.Add(small)
	f.Add("cell a: 10 - (2 - 3) / -4;")
	f.Add("param")
	f.Add("cell a: 1" + strings.Repeat("0", 400) + ";")

	f.Fuzz(func(t *testing.T, src string) {
		decls, err := Parse(context.Background(), src)
		if err != nil {
			if !errors.Is(err, ErrLex) && !errors.Is(err, ErrParse) {
				t.Fatalf("unexpected error category: %v", err)
			}

			return
		}

		for _, d := range decls {
			again, err := Parse(context.Background(), d.String())
			if err != nil {
				t.Fatalf("reparse %q: %v", d, err)
			}

			if len(again) != 1 || again[0].String() != d.String() {
				t.Fatalf("reparse %q gave %v", d, again)
			}
		}
	})
}
