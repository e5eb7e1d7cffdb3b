package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/nrs/lang"
	"github.com/ardnew/nrs/log"
)

// Fmt reads program source, parses it, and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical program source (default)."`
	JSON   JSON   `cmd:""                    help:"Format declarations as JSON."`
	YAML   YAML   `cmd:""                    help:"Format declarations as YAML."`
	Tokens Tokens `cmd:""                    help:"List the tokens of the source."`
}

// formatFunc writes parsed declarations to w.
type formatFunc func(ctx context.Context, w io.Writer, decls []lang.Decl, indent int) error

// format parses sources and writes them with fn.
func format(
	ctx context.Context,
	name string,
	sources []string,
	indent int,
	fn formatFunc,
) error {
	src, err := readSources(ctx, sources)
	if err != nil {
		return err
	}

	decls, err := lang.Parse(ctx, src, lang.WithLogger(log.FromContext(ctx)))
	if err != nil {
		return ErrCompile.
			With(slog.String("format", name)).
			Wrap(err)
	}

	if err := fn(ctx, stdoutFrom(ctx), decls, indent); err != nil {
		return ErrWriteOutput.
			With(slog.String("format", name)).
			Wrap(err)
	}

	return nil
}

// Native formats input as canonical program source.
type Native struct {
	Indent int `default:"4" help:"Align cell colons to a multiple of this width (0 writes one line)" short:"i"`

	Source []string `arg:"" default:"-" help:"Source input files or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return format(ctx, "native", f.Source, f.Indent, lang.Format)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source []string `arg:"" default:"-" help:"Source input files or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return format(ctx, "json", j.Source, j.Indent, lang.FormatJSON)
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source []string `arg:"" default:"-" help:"Source input files or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return format(ctx, "yaml", y.Source, y.Indent, lang.FormatYAML)
}

// Tokens writes the scanned tokens of the input, one per line.
type Tokens struct {
	Source []string `arg:"" default:"-" help:"Source input files or '-' for default stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSources(ctx, t.Source)
	if err != nil {
		return err
	}

	if err := lang.FormatTokens(ctx, stdoutFrom(ctx), src); err != nil {
		return ErrWriteOutput.
			With(slog.String("format", "tokens")).
			Wrap(err)
	}

	return nil
}
