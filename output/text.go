package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/ardnew/nrs/lang"
)

// textWriter collects records and renders them as one table on Flush.
//
// On a terminal the table has rounded borders and a coloured header.
// Otherwise it uses ASCII borders and no styling, so output piped to a file
// is stable.
type textWriter struct {
	w      io.Writer
	header []string
	rows   [][]string
	tty    bool
}

func newTextWriter(w io.Writer, params, cells []string) *textWriter {
	return &textWriter{
		w:      w,
		header: header(params, cells),
		tty:    isTerminal(w),
	}
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })

	return ok && term.IsTerminal(int(f.Fd()))
}

func (t *textWriter) Write(rec lang.Record) error {
	t.rows = append(t.rows, fields(rec))

	return nil
}

func (t *textWriter) Flush() error {
	r := lipgloss.NewRenderer(t.w)

	cell := r.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	head := r.NewStyle().Padding(0, 1).Bold(true)
	border := lipgloss.ASCIIBorder()

	if t.tty {
		head = head.Foreground(lipgloss.Color("12"))
		border = lipgloss.RoundedBorder()
	}

	tbl := table.New().
		Border(border).
		BorderStyle(r.NewStyle().Faint(t.tty)).
		Headers(t.header...).
		Rows(t.rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return head
			}

			return cell
		})

	if _, err := io.WriteString(t.w, tbl.Render()+"\n"); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}
