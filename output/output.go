package output

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/ardnew/nrs/lang"
)

var (
	ErrFormat = lang.NewError("unsupported output format")
	ErrFilter = lang.NewError("invalid filter")
	ErrWrite  = lang.NewError("write output")
)

// Writer renders records.
//
// Records must be written in row order. Flush must be called once after
// the last record; some formats write nothing before it.
type Writer interface {
	Write(rec lang.Record) error
	Flush() error
}

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatYAML, FormatText}
}

// New returns a Writer encoding records to w. The params and cells name
// the columns of each record, in record order, for formats that write a
// header.
func New(format Format, w io.Writer, params, cells []string) (Writer, error) {
	switch format {
	case FormatJSON:
		return newJSONWriter(w), nil
	case FormatCSV:
		return newCSVWriter(w, params, cells), nil
	case FormatYAML:
		return newYAMLWriter(w), nil
	case FormatText:
		return newTextWriter(w, params, cells), nil
	default:
		return nil, ErrFormat.
			With(slog.String("format", string(format))).
			Wrap(fmt.Errorf("%q", format))
	}
}

// FormatNumber renders v in the shortest form that parses back to v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// finite reports whether v has a numeric literal form.
func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// header returns the column names shared by the tabular formats.
func header(params, cells []string) []string {
	cols := make([]string, 0, 1+len(params)+len(cells))
	cols = append(cols, "row")
	cols = append(cols, params...)

	return append(cols, cells...)
}

// fields returns the values of rec in header order.
func fields(rec lang.Record) []string {
	out := make([]string, 0, 1+len(rec.Params)+len(rec.Cells))
	out = append(out, strconv.Itoa(rec.Row))

	for _, v := range rec.Params {
		out = append(out, FormatNumber(v.Number))
	}

	for _, v := range rec.Cells {
		out = append(out, FormatNumber(v.Number))
	}

	return out
}
