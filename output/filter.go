package output

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/nrs/lang"
)

// Filter is a compiled boolean predicate over a record.
//
// The predicate is an expr-lang expression. It sees every param and queried
// cell by name as a float64, and the row index as "row" unless a param or
// cell of that name shadows it:
//
//	total > 100 && row % 2 == 0
type Filter struct {
	source  string
	program *vm.Program
}

// NewFilter compiles source against the given param and cell names.
func NewFilter(source string, params, cells []string) (*Filter, error) {
	env := make(map[string]any, 1+len(params)+len(cells))
	env["row"] = 0

	for _, name := range params {
		env[name] = float64(0)
	}

	for _, name := range cells {
		env[name] = float64(0)
	}

	program, err := expr.Compile(source, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).
			With(slog.String("source", source))
	}

	return &Filter{source: source, program: program}, nil
}

// String returns the source of the predicate.
func (f *Filter) String() string { return f.source }

// Match reports whether rec satisfies the predicate.
func (f *Filter) Match(rec lang.Record) (bool, error) {
	env := make(map[string]any, 1+len(rec.Params)+len(rec.Cells))
	env["row"] = rec.Row

	for _, v := range rec.Params {
		env[v.Name] = v.Number
	}

	for _, v := range rec.Cells {
		env[v.Name] = v.Number
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, ErrFilter.Wrap(err).
			With(slog.String("source", f.source), slog.Int("row", rec.Row))
	}

	ok, isBool := out.(bool)
	if !isBool {
		return false, ErrFilter.Wrap(fmt.Errorf("result %v is not a bool", out)).
			With(slog.String("source", f.source))
	}

	return ok, nil
}

// Filtered returns a Writer passing to w only the records f matches. A nil
// f passes every record.
func Filtered(w Writer, f *Filter) Writer {
	if f == nil {
		return w
	}

	return &filterWriter{Writer: w, filter: f}
}

type filterWriter struct {
	Writer
	filter *Filter
}

func (fw *filterWriter) Write(rec lang.Record) error {
	ok, err := fw.filter.Match(rec)
	if err != nil || !ok {
		return err
	}

	return fw.Writer.Write(rec)
}
