package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// DeclDoc is the serializable form of a [Decl].
type DeclDoc struct {
	Kind string   `json:"kind"           yaml:"kind"`
	Name string   `json:"name"           yaml:"name"`
	Expr string   `json:"expr,omitempty" yaml:"expr,omitempty"`
	Refs []string `json:"refs,omitempty" yaml:"refs,omitempty"`
}

// Document converts decls to their serializable form.
func Document(decls []Decl) []DeclDoc {
	docs := make([]DeclDoc, 0, len(decls))

	for _, d := range decls {
		switch d := d.(type) {
		case *ParamDecl:
			docs = append(docs, DeclDoc{Kind: "param", Name: d.Name})
		case *CellDecl:
			docs = append(docs, DeclDoc{
				Kind: "cell",
				Name: d.Name,
				Expr: d.Expr.String(),
				Refs: References(d.Expr),
			})
		}
	}

	return docs
}

// Format writes decls in canonical source form.
//
// With indent > 0, each declaration is written on its own line and the
// colons of consecutive cells are aligned, padded to a multiple of indent.
// With indent == 0, declarations are separated by single spaces.
func Format(_ context.Context, w io.Writer, decls []Decl, indent int) error {
	if indent <= 0 {
		parts := make([]string, len(decls))
		for i, d := range decls {
			parts[i] = d.String()
		}

		_, err := fmt.Fprintln(w, strings.Join(parts, " "))

		return err
	}

	width := 0

	for _, d := range decls {
		if c, ok := d.(*CellDecl); ok {
			width = max(width, len(c.Name))
		}
	}

	// Round up to the next multiple of indent.
	width = (width + indent - 1) / indent * indent

	for i, d := range decls {
		// A blank line separates runs of params from runs of cells.
		if i > 0 && isCell(decls[i-1]) != isCell(d) {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		var err error

		switch d := d.(type) {
		case *CellDecl:
			_, err = fmt.Fprintf(w, "cell %-*s: %s;\n", width, d.Name, d.Expr)
		default:
			_, err = fmt.Fprintln(w, d.String())
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func isCell(d Decl) bool {
	_, ok := d.(*CellDecl)

	return ok
}

// FormatJSON writes decls as a JSON array of [DeclDoc].
func FormatJSON(_ context.Context, w io.Writer, decls []Decl, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(
			Document(decls), "", strings.Repeat(" ", indent),
		)
	} else {
		jsonData, err = json.Marshal(Document(decls))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes decls as a YAML sequence of [DeclDoc].
func FormatYAML(ctx context.Context, w io.Writer, decls []Decl, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, Document(decls), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatTokens scans src and writes one token per line as
// "line:column<TAB>kind<TAB>text", ending with the end-of-input token.
// A lexical error is returned after the tokens preceding it are written.
func FormatTokens(_ context.Context, w io.Writer, src string) error {
	for tok, err := range NewScanner(src).All() {
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
			tok.Pos, tok.Kind, tok.Text); err != nil {
			return err
		}
	}

	return nil
}

// CellSummary describes one cell of a compiled program.
type CellSummary struct {
	Name string   `json:"name"           yaml:"name"`
	Expr string   `json:"expr"           yaml:"expr"`
	Refs []string `json:"refs,omitempty" yaml:"refs,omitempty"`
	Deps []string `json:"deps,omitempty" yaml:"deps,omitempty"`
}

// Summary describes a compiled program: its params, its cells with their
// references, and an evaluation order.
type Summary struct {
	Params []string      `json:"params" yaml:"params"`
	Cells  []CellSummary `json:"cells"  yaml:"cells"`
	Order  []string      `json:"order"  yaml:"order"`
}

// Summary returns the program's [Summary].
func (p *Program) Summary() Summary {
	s := Summary{
		Params: p.table.Params(),
		Cells:  make([]CellSummary, len(p.table.cells)),
		Order:  p.graph.Order(),
	}

	for i, c := range p.table.cells {
		s.Cells[i] = CellSummary{
			Name: c.Name,
			Expr: c.Expr.String(),
			Refs: p.graph.Refs(c.Name),
			Deps: p.graph.Deps(c.Name),
		}
	}

	return s
}
