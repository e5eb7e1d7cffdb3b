package lang

import (
	"iter"
	"maps"
	"slices"
)

// Binding maps param names to their run-time values.
type Binding map[string][]float64

// Row is one scalar assignment to every declared param.
type Row struct {
	// values is parallel to Table.Params.
	values []float64
	Index  int
}

// Values returns the row's param values in param declaration order.
func (r Row) Values() []float64 { return slices.Clone(r.values) }

// Rows is the broadcast expansion of a [Binding] over a [Table]'s params.
type Rows struct {
	table *Table
	// cols is parallel to Table.Params; each has length 1 or n.
	cols [][]float64
	n    int
}

// Expand validates b against the params of t and returns the rows it
// generates.
//
// The row count N is the longest value list. Every declared param must have
// a list of length 1, which is repeated on every row, or exactly N, which is
// read by row index. A missing or empty list, or any other length, is a
// [*ShapeError]. Values for a name that is not a declared param are a
// [*NameError] with reason [NameUnknownParam].
//
// A table without params expands to a single empty row.
func Expand(t *Table, b Binding) (*Rows, error) {
	for _, name := range slices.Sorted(maps.Keys(b)) {
		if _, ok := t.param(name); !ok {
			return nil, &NameError{
				Name:        name,
				Reason:      NameUnknownParam,
				Suggestions: suggest(name, t.params),
			}
		}
	}

	rs := &Rows{
		table: t,
		cols:  make([][]float64, len(t.params)),
		n:     1,
	}

	for i, name := range t.params {
		rs.cols[i] = b[name]
		rs.n = max(rs.n, len(rs.cols[i]))
	}

	for i, col := range rs.cols {
		if len(col) != 1 && len(col) != rs.n {
			return nil, &ShapeError{
				Param: t.params[i],
				Len:   len(col),
				Rows:  rs.n,
			}
		}
	}

	return rs, nil
}

// Len returns the number of rows.
func (rs *Rows) Len() int { return rs.n }

// Row returns the row at index i, which must be in [0, Len).
func (rs *Rows) Row(i int) Row {
	values := make([]float64, len(rs.cols))

	for k, col := range rs.cols {
		if len(col) == 1 {
			values[k] = col[0]
		} else {
			values[k] = col[i]
		}
	}

	return Row{Index: i, values: values}
}

// All returns an iterator over the rows in index order.
func (rs *Rows) All() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for i := range rs.n {
			if !yield(rs.Row(i)) {
				return
			}
		}
	}
}
