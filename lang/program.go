package lang

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ardnew/nrs/log"
)

// ComputeHook is called each time a cell's expression is computed, i.e. on
// every memo miss. It must be safe for concurrent use when rows are
// evaluated by multiple workers.
type ComputeHook func(cell string, row int)

// config holds the settings applied by [Option]s.
type config struct {
	logger  log.Logger
	hook    ComputeHook
	workers int
}

// Option configures [Parse], [Compile], and the resulting [Program].
type Option func(*config)

// WithLogger sets the logger receiving trace events.
// The zero Logger, which is the default, discards them.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithComputeHook sets a function called whenever a cell is computed rather
// than read from the per-row memo.
func WithComputeHook(hook ComputeHook) Option {
	return func(c *config) { c.hook = hook }
}

// WithWorkers sets how many rows may be evaluated concurrently.
// Values below 2 evaluate rows sequentially, which is the default.
// Output order and error reporting do not depend on the worker count.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

func makeConfig(opts ...Option) config {
	cfg := config{workers: 1}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Program is a compiled, validated set of declarations.
//
// A Program is read-only and safe for concurrent use.
type Program struct {
	*compiled
	cfg config
}

// compiled is the option-independent result of compilation, shared between
// programs compiled from identical source.
type compiled struct {
	table *Table
	graph *Graph
}

// Compile parses src, indexes its declarations, and validates the
// dependency graph. Any [*LexError], [*ParseError], [*NameError], or
// [*CycleError] is returned before a Program exists.
func Compile(ctx context.Context, src string, opts ...Option) (*Program, error) {
	c, err := compile(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return newProgram(c, opts...), nil
}

// NewProgram validates already parsed declarations.
func NewProgram(ctx context.Context, decls []Decl, opts ...Option) (*Program, error) {
	c, err := link(ctx, decls, makeConfig(opts...))
	if err != nil {
		return nil, err
	}

	return newProgram(c, opts...), nil
}

func newProgram(c *compiled, opts ...Option) *Program {
	return &Program{compiled: c, cfg: makeConfig(opts...)}
}

func compile(ctx context.Context, src string, opts ...Option) (*compiled, error) {
	decls, err := Parse(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return link(ctx, decls, makeConfig(opts...))
}

func link(ctx context.Context, decls []Decl, cfg config) (*compiled, error) {
	table, err := NewTable(decls)
	if err != nil {
		cfg.logger.TraceContext(ctx, "table rejected", slog.Any("error", err))

		return nil, err
	}

	graph, err := BuildGraph(table)
	if err != nil {
		cfg.logger.TraceContext(ctx, "graph rejected", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "graph built",
		slog.Int("param_count", len(table.params)),
		slog.Int("cell_count", len(table.cells)),
		slog.Any("order", graph.Order()))

	return &compiled{table: table, graph: graph}, nil
}

// With returns a copy of p with opts applied on top of its current options.
func (p *Program) With(opts ...Option) *Program {
	cfg := p.cfg

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Program{compiled: p.compiled, cfg: cfg}
}

// Decls returns the program's declarations in source order.
func (p *Program) Decls() []Decl { return slices.Clone(p.table.decls) }

// Table returns the program's declaration table.
func (p *Program) Table() *Table { return p.table }

// Graph returns the program's dependency graph.
func (p *Program) Graph() *Graph { return p.graph }

// Params returns the declared param names in declaration order.
func (p *Program) Params() []string { return p.table.Params() }

// Cells returns the declared cell names in declaration order.
func (p *Program) Cells() []string { return p.table.Cells() }
