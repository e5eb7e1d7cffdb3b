package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ardnew/nrs/lang"
)

// jsonWriter streams records as the elements of one JSON array:
//
//	[
//	  {"row":0,"params":{"x":1},"cells":{"y":2}},
//	  ...
//	]
//
// Keys keep declaration and query order. Infinities and NaN, which JSON
// cannot represent as numbers, are written as the strings "+Inf", "-Inf",
// and "NaN".
type jsonWriter struct {
	w     *bufio.Writer
	count int
}

func newJSONWriter(w io.Writer) *jsonWriter {
	return &jsonWriter{w: bufio.NewWriter(w)}
}

func (j *jsonWriter) Write(rec lang.Record) error {
	var sb strings.Builder

	if j.count == 0 {
		sb.WriteString("[\n  ")
	} else {
		sb.WriteString(",\n  ")
	}

	sb.WriteString(`{"row":`)
	sb.WriteString(strconv.Itoa(rec.Row))
	sb.WriteString(`,"params":`)
	writeJSONObject(&sb, rec.Params)
	sb.WriteString(`,"cells":`)
	writeJSONObject(&sb, rec.Cells)
	sb.WriteByte('}')

	j.count++

	if _, err := j.w.WriteString(sb.String()); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

func (j *jsonWriter) Flush() error {
	closing := "\n]\n"
	if j.count == 0 {
		closing = "[]\n"
	}

	if _, err := j.w.WriteString(closing); err != nil {
		return ErrWrite.Wrap(err)
	}

	if err := j.w.Flush(); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

func writeJSONObject(sb *strings.Builder, values []lang.Value) {
	sb.WriteByte('{')

	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}

		sb.WriteString(strconv.Quote(v.Name))
		sb.WriteByte(':')

		if finite(v.Number) {
			sb.WriteString(FormatNumber(v.Number))
		} else {
			sb.WriteString(strconv.Quote(FormatNumber(v.Number)))
		}
	}

	sb.WriteByte('}')
}
