package lang

import (
	"iter"
	"slices"
)

// Table holds every declaration of a program by name, in declaration order.
// A Table is immutable once built.
type Table struct {
	decls  []Decl
	byName map[string]Decl
	params []string
	cells  []*CellDecl
	// Indices into params and cells.
	paramIdx map[string]int
	cellIdx  map[string]int
}

// NewTable indexes decls.
//
// A name declared twice, whether as param or cell, is a [*NameError] with
// reason [NameDuplicate] reported at the later declaration.
func NewTable(decls []Decl) (*Table, error) {
	t := &Table{
		decls:    slices.Clone(decls),
		byName:   make(map[string]Decl, len(decls)),
		paramIdx: make(map[string]int),
		cellIdx:  make(map[string]int),
	}

	for _, d := range decls {
		name := d.DeclName()

		if prev, dup := t.byName[name]; dup {
			return nil, &NameError{
				Name:   name,
				Reason: NameDuplicate,
				Pos:    d.DeclPos(),
				Prev:   prev.DeclPos(),
			}
		}

		t.byName[name] = d

		switch d := d.(type) {
		case *ParamDecl:
			t.paramIdx[name] = len(t.params)
			t.params = append(t.params, name)
		case *CellDecl:
			t.cellIdx[name] = len(t.cells)
			t.cells = append(t.cells, d)
		}
	}

	return t, nil
}

// Lookup returns the declaration of name.
func (t *Table) Lookup(name string) (Decl, bool) {
	d, ok := t.byName[name]

	return d, ok
}

// Len returns the number of declarations.
func (t *Table) Len() int { return len(t.decls) }

// All returns an iterator over the declarations in declaration order.
func (t *Table) All() iter.Seq[Decl] { return slices.Values(t.decls) }

// Names returns every declared name in declaration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.decls))
	for i, d := range t.decls {
		names[i] = d.DeclName()
	}

	return names
}

// Params returns the declared param names in declaration order.
func (t *Table) Params() []string { return slices.Clone(t.params) }

// Cells returns the declared cell names in declaration order.
func (t *Table) Cells() []string {
	names := make([]string, len(t.cells))
	for i, c := range t.cells {
		names[i] = c.Name
	}

	return names
}

// Cell returns the declaration of the named cell.
func (t *Table) Cell(name string) (*CellDecl, bool) {
	i, ok := t.cellIdx[name]
	if !ok {
		return nil, false
	}

	return t.cells[i], true
}

// param returns the index of the named param in Params.
func (t *Table) param(name string) (int, bool) {
	i, ok := t.paramIdx[name]

	return i, ok
}

// cell returns the index of the named cell in Cells.
func (t *Table) cell(name string) (int, bool) {
	i, ok := t.cellIdx[name]

	return i, ok
}
