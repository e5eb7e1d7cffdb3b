package output

import (
	"encoding/csv"
	"io"

	"github.com/ardnew/nrs/lang"
)

// csvWriter writes a header of row, param, and cell names followed by one
// line per record.
type csvWriter struct {
	w      *csv.Writer
	header []string
	wrote  bool
}

func newCSVWriter(w io.Writer, params, cells []string) *csvWriter {
	return &csvWriter{w: csv.NewWriter(w), header: header(params, cells)}
}

func (c *csvWriter) writeHeader() error {
	if c.wrote {
		return nil
	}

	c.wrote = true

	if err := c.w.Write(c.header); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

func (c *csvWriter) Write(rec lang.Record) error {
	if err := c.writeHeader(); err != nil {
		return err
	}

	if err := c.w.Write(fields(rec)); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

func (c *csvWriter) Flush() error {
	if err := c.writeHeader(); err != nil {
		return err
	}

	c.w.Flush()

	if err := c.w.Error(); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}
