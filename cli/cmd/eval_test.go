package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/nrs/lang"
)

const sumProgram = `
param a;
param b;
cell s: a + b;
cell d: s * 2;
`

// runEval runs e with stdout captured, reading "-" sources from stdin.
func runEval(t *testing.T, e *Eval, stdin string) (string, error) {
	t.Helper()

	var out strings.Builder

	ctx := WithStdio(context.Background(), strings.NewReader(stdin), &out)
	err := e.Run(ctx)

	return out.String(), err
}

func TestEvalRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	prog := writeFile(t, dir, "sum.nrs", sumProgram)
	yamlBind := writeFile(t, dir, "bind.yaml", "a: [1, 2]\nb: 5\n")
	tomlBind := writeFile(t, dir, "bind.toml", "b = [7, 8]\n")

	tests := []struct {
		name string
		eval Eval
		in   string
		want string
	}{
		{
			name: "csv_all_cells",
			eval: Eval{Params: []string{"a=1,2,3", "b=10"}, Format: "csv", Source: []string{prog}},
			want: "row,a,b,s,d\n0,1,10,11,22\n1,2,10,12,24\n2,3,10,13,26\n",
		},
		{
			name: "csv_query",
			eval: Eval{Params: []string{"a=1,2,3", "b=10"}, Query: []string{"d"}, Format: "csv", Source: []string{prog}},
			want: "row,a,b,d\n0,1,10,22\n1,2,10,24\n2,3,10,26\n",
		},
		{
			name: "where",
			eval: Eval{Params: []string{"a=1,2,3", "b=10"}, Query: []string{"d"}, Format: "csv", Where: "d > 22", Source: []string{prog}},
			want: "row,a,b,d\n1,2,10,24\n2,3,10,26\n",
		},
		{
			name: "parallel",
			eval: Eval{Params: []string{"a=1,2,3", "b=10"}, Query: []string{"s"}, Format: "csv", Jobs: 4, Source: []string{prog}},
			want: "row,a,b,s\n0,1,10,11\n1,2,10,12\n2,3,10,13\n",
		},
		{
			name: "binding_file",
			eval: Eval{Bindings: []string{yamlBind}, Query: []string{"s"}, Format: "csv", Source: []string{prog}},
			want: "row,a,b,s\n0,1,5,6\n1,2,5,7\n",
		},
		{
			name: "flags_override_files",
			eval: Eval{Bindings: []string{yamlBind}, Params: []string{"b=10"}, Query: []string{"s"}, Format: "csv", Source: []string{prog}},
			want: "row,a,b,s\n0,1,10,11\n1,2,10,12\n",
		},
		{
			name: "later_files_override",
			eval: Eval{Bindings: []string{yamlBind, tomlBind}, Query: []string{"s"}, Format: "csv", Source: []string{prog}},
			want: "row,a,b,s\n0,1,7,8\n1,2,8,10\n",
		},
		{
			name: "stdin_source",
			eval: Eval{Params: []string{"x=4"}, Format: "json", Source: []string{"-"}},
			in:   "param x; cell y: x * x;",
			want: "[\n  {\"row\":0,\"params\":{\"x\":4},\"cells\":{\"y\":16}}\n]\n",
		},
		{
			name: "no_params",
			eval: Eval{Format: "csv", Source: []string{"-"}},
			in:   "cell k: 6 * 7;",
			want: "row,k\n0,42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := runEval(t, &tt.eval, tt.in)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}

			if got != tt.want {
				t.Errorf("output:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestEvalRunErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	prog := writeFile(t, dir, "sum.nrs", sumProgram)
	cyclic := writeFile(t, dir, "cycle.nrs", "cell a: b; cell b: a;")
	div := writeFile(t, dir, "div.nrs", "param x; cell r: 1 / x;")
	badBind := writeFile(t, dir, "bad.yaml", "a: [1, nope]\n")

	tests := []struct {
		name     string
		eval     Eval
		sentinel error
		cause    error
	}{
		{
			name:     "missing_source",
			eval:     Eval{Format: "csv", Source: []string{dir + "/missing.nrs"}},
			sentinel: ErrReadSource,
		},
		{
			name:     "cycle",
			eval:     Eval{Format: "csv", Source: []string{cyclic}},
			sentinel: ErrCompile,
			cause:    lang.ErrCycle,
		},
		{
			name:     "bad_param_flag",
			eval:     Eval{Params: []string{"a"}, Format: "csv", Source: []string{prog}},
			sentinel: ErrLoadBinding,
		},
		{
			name:     "bad_binding_file",
			eval:     Eval{Bindings: []string{badBind}, Format: "csv", Source: []string{prog}},
			sentinel: ErrLoadBinding,
		},
		{
			name:     "shape",
			eval:     Eval{Params: []string{"a=1,2", "b=1,2,3"}, Format: "csv", Source: []string{prog}},
			sentinel: ErrEvaluate,
			cause:    lang.ErrShape,
		},
		{
			name:     "unbound_param",
			eval:     Eval{Params: []string{"a=1"}, Format: "csv", Source: []string{prog}},
			sentinel: ErrEvaluate,
			cause:    lang.ErrShape,
		},
		{
			name:     "unknown_query",
			eval:     Eval{Params: []string{"a=1", "b=1"}, Query: []string{"nope"}, Format: "csv", Source: []string{prog}},
			sentinel: ErrEvaluate,
			cause:    lang.ErrName,
		},
		{
			name:     "division_by_zero",
			eval:     Eval{Params: []string{"x=1,0"}, Format: "csv", Source: []string{div}},
			sentinel: ErrEvaluate,
			cause:    lang.ErrArithmetic,
		},
		{
			name:     "bad_where",
			eval:     Eval{Params: []string{"a=1", "b=1"}, Format: "csv", Where: "d +", Source: []string{prog}},
			sentinel: ErrInvalidQuery,
		},
		{
			name:     "bad_format",
			eval:     Eval{Params: []string{"a=1", "b=1"}, Format: "xml", Source: []string{prog}},
			sentinel: ErrWriteOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := runEval(t, &tt.eval, "")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}

			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want wrapped %v", err, tt.cause)
			}

			if out != "" {
				t.Errorf("output on error = %q, want none", out)
			}
		})
	}
}
