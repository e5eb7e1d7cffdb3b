package cmd

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ardnew/nrs/binding"
	"github.com/ardnew/nrs/lang"
	"github.com/ardnew/nrs/log"
	"github.com/ardnew/nrs/output"
)

// Eval evaluates the queried cells of a program over every row of its bound
// params and writes one record per row.
type Eval struct {
	Params   []string `help:"Bind a param as NAME=V1,V2,... (repeatable)."                        placeholder:"NAME=VALUES" sep:"none"     short:"p"`
	Bindings []string `help:"Load param bindings from a YAML, JSON, TOML, or HCL file."           placeholder:"FILE"                      short:"b" type:"existingfile"`
	Query    []string `help:"Cells to evaluate, in output order (default all cells)."             placeholder:"CELL"                      short:"q"`
	Format   string   `default:"text"                                                             enum:"text,json,csv,yaml"               help:"Output format (${enum})." short:"o"`
	Where    string   `help:"Only write records for which this boolean expression holds."         placeholder:"EXPR"`
	Jobs     int      `default:"1"                                                                help:"Rows evaluated concurrently."     short:"j"`

	Source []string `arg:"" default:"-" help:"Program source files or '-' for stdin." name:"source"`
}

// Run executes the run command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	runID := uuid.New()
	logger := log.FromContext(ctx).With(slog.String("run_id", runID.String()))
	ctx = log.WithContext(ctx, logger)

	bind, err := e.binding(ctx)
	if err != nil {
		return err
	}

	prog, err := compileSources(ctx, e.Source,
		lang.WithLogger(logger),
		lang.WithWorkers(e.Jobs),
	)
	if err != nil {
		return err
	}

	queries := e.Query
	if len(queries) == 0 {
		queries = prog.Cells()
	}

	w, err := output.New(output.Format(e.Format), stdoutFrom(ctx), prog.Params(), queries)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if e.Where != "" {
		filter, err := output.NewFilter(e.Where, prog.Params(), queries)
		if err != nil {
			return ErrInvalidQuery.
				With(slog.String("where", e.Where)).
				Wrap(err)
		}

		w = output.Filtered(w, filter)
	}

	records, err := prog.Run(ctx, bind, queries)
	if err != nil {
		return ErrEvaluate.
			With(slog.String("run_id", runID.String())).
			Wrap(err)
	}

	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	if err := w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	logger.DebugContext(ctx, "run complete",
		slog.Int("rows", len(records)),
		slog.Int("cells", len(queries)),
		slog.String("format", e.Format))

	return nil
}

// binding merges every bindings file in order and then the --param flags,
// so flags override files.
func (e *Eval) binding(ctx context.Context) (lang.Binding, error) {
	var bind lang.Binding

	for _, path := range e.Bindings {
		b, err := binding.Load(ctx, path)
		if err != nil {
			return nil, ErrLoadBinding.
				With(slog.String("file", path)).
				Wrap(err)
		}

		bind = binding.Merge(bind, b)
	}

	flags, err := binding.ParseFlags(e.Params)
	if err != nil {
		return nil, ErrLoadBinding.
			With(slog.String("source", "flags")).
			Wrap(err)
	}

	return binding.Merge(bind, flags), nil
}
