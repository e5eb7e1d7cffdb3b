package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/nrs/lang"
)

const fmtSource = "param a;param b;cell s:a+b;cell longer:(s*2);"

// capture runs fn with stdin set to in and returns what it wrote.
func capture(t *testing.T, in string, fn func(ctx context.Context) error) (string, error) {
	t.Helper()

	var out strings.Builder

	err := fn(WithStdio(context.Background(), strings.NewReader(in), &out))

	return out.String(), err
}

func TestNativeRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			name:   "single_line",
			indent: 0,
			want:   "param a; param b; cell s: a + b; cell longer: s * 2;\n",
		},
		{
			name:   "aligned",
			indent: 4,
			want: "param a;\n" +
				"param b;\n" +
				"\n" +
				"cell s       : a + b;\n" +
				"cell longer  : s * 2;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := Native{Indent: tt.indent, Source: []string{"-"}}

			got, err := capture(t, fmtSource, f.Run)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestNativeRunFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.nrs", "param a;")
	b := writeFile(t, dir, "b.nrs", "cell b: a / 2;")

	f := Native{Source: []string{a, b}}

	got, err := capture(t, "", f.Run)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if want := "param a; cell b: a / 2;\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJSONRun(t *testing.T) {
	t.Parallel()

	j := JSON{Indent: 0, Source: []string{"-"}}

	got, err := capture(t, "param x; cell y: x;", j.Run)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !strings.HasPrefix(got, "[{") || !strings.HasSuffix(got, "}]\n") {
		t.Errorf("got %q, want a compact JSON array", got)
	}

	for _, want := range []string{`"param"`, `"cell"`, `"x"`, `"y"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %s", got, want)
		}
	}
}

func TestYAMLRun(t *testing.T) {
	t.Parallel()

	y := YAML{Indent: 2, Source: []string{"-"}}

	got, err := capture(t, fmtSource, y.Run)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var docs []lang.DeclDoc
	if err := yaml.Unmarshal([]byte(got), &docs); err != nil {
		t.Fatalf("output does not decode: %v\n%s", err, got)
	}

	if len(docs) != 4 {
		t.Fatalf("decoded %d declarations, want 4", len(docs))
	}

	if docs[3].Name != "longer" || docs[3].Expr != "s * 2" {
		t.Errorf("last declaration = %+v", docs[3])
	}
}

func TestTokensRun(t *testing.T) {
	t.Parallel()

	tok := Tokens{Source: []string{"-"}}

	got, err := capture(t, "param x;", tok.Run)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d token lines, want 4:\n%s", len(lines), got)
	}

	if !strings.HasPrefix(lines[0], "1:1\t") || !strings.HasSuffix(lines[0], "\tparam") {
		t.Errorf("first token line = %q", lines[0])
	}
}

func TestFmtErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		run   func(ctx context.Context) error
		in    string
		cause error
	}{
		{"native_parse", (&Native{Source: []string{"-"}}).Run, "cell x 1;", lang.ErrParse},
		{"json_lex", (&JSON{Source: []string{"-"}}).Run, "cell x: 1 $ 2;", lang.ErrLex},
		{"yaml_parse", (&YAML{Source: []string{"-"}}).Run, "param;", lang.ErrParse},
		{"tokens_lex", (&Tokens{Source: []string{"-"}}).Run, "param @;", lang.ErrLex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := capture(t, tt.in, tt.run)
			if !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want %v", err, tt.cause)
			}
		})
	}
}

func TestFmtIgnoresNames(t *testing.T) {
	t.Parallel()

	// Formatting only parses, so undefined names and cycles are accepted.
	f := Native{Source: []string{"-"}}

	got, err := capture(t, "cell a: b; cell b: a + c;", f.Run)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if want := "cell a: b; cell b: a + c;\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
