package output

import (
	"io"
	"math"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/nrs/lang"
)

// yamlWriter streams records as the items of one YAML sequence, each an
// ordered mapping with keys row, params, and cells.
type yamlWriter struct {
	w     io.Writer
	count int
}

func newYAMLWriter(w io.Writer) *yamlWriter {
	return &yamlWriter{w: w}
}

// number marshals with [FormatNumber], or as a YAML special float.
type number float64

func (n number) MarshalYAML() ([]byte, error) {
	v := float64(n)

	switch {
	case math.IsNaN(v):
		return []byte(".nan"), nil
	case math.IsInf(v, 1):
		return []byte(".inf"), nil
	case math.IsInf(v, -1):
		return []byte("-.inf"), nil
	default:
		return []byte(FormatNumber(v)), nil
	}
}

func mapSlice(values []lang.Value) yaml.MapSlice {
	ms := make(yaml.MapSlice, len(values))
	for i, v := range values {
		ms[i] = yaml.MapItem{Key: v.Name, Value: number(v.Number)}
	}

	return ms
}

func (y *yamlWriter) Write(rec lang.Record) error {
	item := yaml.MapSlice{
		{Key: "row", Value: rec.Row},
		{Key: "params", Value: mapSlice(rec.Params)},
		{Key: "cells", Value: mapSlice(rec.Cells)},
	}

	data, err := yaml.MarshalWithOptions([]yaml.MapSlice{item},
		yaml.IndentSequence(false))
	if err != nil {
		return ErrWrite.Wrap(err)
	}

	y.count++

	if _, err := y.w.Write(data); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

func (y *yamlWriter) Flush() error {
	if y.count > 0 {
		return nil
	}

	if _, err := io.WriteString(y.w, "[]\n"); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}
