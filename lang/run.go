package lang

import (
	"context"
	"iter"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Value is a named number.
type Value struct {
	Name   string  `json:"name"   yaml:"name"`
	Number float64 `json:"number" yaml:"number"`
}

// Record is the result of evaluating one row.
type Record struct {
	// Params holds every param value in declaration order.
	Params []Value `json:"params" yaml:"params"`
	// Cells holds the queried cell values in query order.
	Cells []Value `json:"cells" yaml:"cells"`
	Row   int     `json:"row"   yaml:"row"`
}

// chunkRows is the number of rows each worker evaluates between yields when
// rows are evaluated concurrently.
const chunkRows = 64

// Records returns an iterator over the records produced by evaluating the
// queried cells on every row of b.
//
// Binding and query errors are yielded before any record. Evaluation stops
// at the first failing row, whose error is yielded after every record of the
// rows preceding it. Cancelling ctx stops the sequence after the current row
// and yields [context.Cause].
//
// With [WithWorkers], rows are evaluated concurrently in chunks but yielded
// in row order, and the yielded error is always that of the lowest failing
// row, exactly as in sequential evaluation.
func (p *Program) Records(
	ctx context.Context,
	b Binding,
	queries []string,
) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		rows, idx, err := p.prepare(ctx, b, queries)
		if err != nil {
			yield(Record{}, err)

			return
		}

		if p.cfg.workers > 1 && rows.Len() > 1 {
			p.parallel(ctx, rows, queries, idx, yield)

			return
		}

		for row := range rows.All() {
			if err := context.Cause(ctx); err != nil {
				yield(Record{}, err)

				return
			}

			rec, err := p.record(ctx, row, queries, idx)
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Run collects [Program.Records] into a slice. On error, no records are
// returned.
func (p *Program) Run(
	ctx context.Context,
	b Binding,
	queries []string,
) ([]Record, error) {
	var out []Record

	for rec, err := range p.Records(ctx, b, queries) {
		if err != nil {
			return nil, err
		}

		out = append(out, rec)
	}

	return out, nil
}

func (p *Program) prepare(
	ctx context.Context,
	b Binding,
	queries []string,
) (*Rows, []int, error) {
	idx, err := p.resolve(queries)
	if err != nil {
		return nil, nil, err
	}

	rows, err := Expand(p.table, b)
	if err != nil {
		return nil, nil, err
	}

	p.cfg.logger.TraceContext(ctx, "rows expanded",
		slog.Int("row_count", rows.Len()),
		slog.Int("query_count", len(queries)),
		slog.Int("workers", max(p.cfg.workers, 1)))

	return rows, idx, nil
}

// record evaluates one row into a Record.
func (p *Program) record(
	ctx context.Context,
	row Row,
	queries []string,
	idx []int,
) (Record, error) {
	values, err := p.evaluate(row, idx)
	if err != nil {
		p.cfg.logger.TraceContext(ctx, "row failed",
			slog.Int("row", row.Index),
			slog.Any("error", err))

		return Record{}, err
	}

	rec := Record{
		Row:    row.Index,
		Params: make([]Value, len(row.values)),
		Cells:  make([]Value, len(values)),
	}

	for k, name := range p.table.params {
		rec.Params[k] = Value{Name: name, Number: row.values[k]}
	}

	for k, v := range values {
		rec.Cells[k] = Value{Name: queries[k], Number: v}
	}

	if p.cfg.logger.TraceEnabled(ctx) {
		p.cfg.logger.TraceContext(ctx, "row evaluated",
			slog.Int("row", row.Index),
			slog.Any("cells", rec.Cells))
	}

	return rec, nil
}

// parallel evaluates rows in chunks using up to p.cfg.workers goroutines per
// chunk and yields the results in row order.
func (p *Program) parallel(
	ctx context.Context,
	rows *Rows,
	queries []string,
	idx []int,
	yield func(Record, error) bool,
) {
	size := p.cfg.workers * chunkRows

	for lo := 0; lo < rows.Len(); lo += size {
		if err := context.Cause(ctx); err != nil {
			yield(Record{}, err)

			return
		}

		hi := min(lo+size, rows.Len())
		recs := make([]Record, hi-lo)
		errs := make([]error, hi-lo)
		done := make([]bool, hi-lo)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.cfg.workers)

		for i := lo; i < hi; i++ {
			g.Go(func() error {
				// A failed row cancels gctx; rows not yet started are skipped
				// and evaluated below only if no lower row failed.
				if gctx.Err() != nil {
					return nil
				}

				recs[i-lo], errs[i-lo] = p.record(ctx, rows.Row(i), queries, idx)
				done[i-lo] = true

				return errs[i-lo]
			})
		}

		_ = g.Wait()

		for k := range recs {
			if err := context.Cause(ctx); err != nil {
				yield(Record{}, err)

				return
			}

			if !done[k] {
				recs[k], errs[k] = p.record(ctx, rows.Row(lo+k), queries, idx)
			}

			if !yield(recs[k], errs[k]) || errs[k] != nil {
				return
			}
		}
	}
}
