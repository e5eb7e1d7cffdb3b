package lang

import "fmt"

// evalContext holds the state of one row's evaluation. Slices are indexed
// by cell position in Table.Cells.
type evalContext struct {
	prog *Program
	row  Row
	memo []float64
	done []bool
	// active marks cells currently being computed and stack records them in
	// order, so a re-entry can report its path.
	active []bool
	stack  []int
}

func (p *Program) newEvalContext(row Row) *evalContext {
	n := len(p.table.cells)

	return &evalContext{
		prog:   p,
		row:    row,
		memo:   make([]float64, n),
		done:   make([]bool, n),
		active: make([]bool, n),
		stack:  make([]int, 0, n),
	}
}

// Evaluate computes each queried cell for row, returning values in query
// order.
//
// Naming anything other than a declared cell is a [*NameError] with reason
// [NameNotCell]. Division by zero is an [*ArithmeticError]. Each cell is
// computed at most once per call, however many times it is referenced.
func (p *Program) Evaluate(row Row, queries []string) ([]float64, error) {
	idx, err := p.resolve(queries)
	if err != nil {
		return nil, err
	}

	return p.evaluate(row, idx)
}

// resolve maps cell names to their indices.
func (p *Program) resolve(queries []string) ([]int, error) {
	idx := make([]int, len(queries))

	for k, name := range queries {
		i, ok := p.table.cell(name)
		if !ok {
			return nil, &NameError{
				Name:        name,
				Reason:      NameNotCell,
				Suggestions: suggest(name, p.table.Cells()),
			}
		}

		idx[k] = i
	}

	return idx, nil
}

func (p *Program) evaluate(row Row, idx []int) ([]float64, error) {
	ec := p.newEvalContext(row)
	out := make([]float64, len(idx))

	for k, i := range idx {
		v, err := ec.cell(i)
		if err != nil {
			return nil, err
		}

		out[k] = v
	}

	return out, nil
}

// cell returns the value of cell i, computing it on a memo miss.
func (ec *evalContext) cell(i int) (float64, error) {
	if ec.done[i] {
		return ec.memo[i], nil
	}

	if ec.active[i] {
		return 0, &CycleError{Path: ec.guardPath(i)}
	}

	ec.active[i] = true
	ec.stack = append(ec.stack, i)

	decl := ec.prog.table.cells[i]
	if hook := ec.prog.cfg.hook; hook != nil {
		hook(decl.Name, ec.row.Index)
	}

	v, err := ec.eval(decl.Expr, decl.Name)

	ec.stack = ec.stack[:len(ec.stack)-1]
	ec.active[i] = false

	if err != nil {
		return 0, err
	}

	ec.memo[i] = v
	ec.done[i] = true

	return v, nil
}

// eval computes e, an expression belonging to the named cell.
func (ec *evalContext) eval(e Expr, cell string) (float64, error) {
	switch e := e.(type) {
	case *Number:
		return e.Value, nil

	case *Ident:
		t := ec.prog.table
		if k, ok := t.param(e.Name); ok {
			return ec.row.values[k], nil
		}

		if i, ok := t.cell(e.Name); ok {
			return ec.cell(i)
		}

		return 0, &NameError{
			Name:   e.Name,
			Cell:   cell,
			Reason: NameUndefined,
			Pos:    e.Pos,
		}

	case *Binary:
		l, err := ec.eval(e.Left, cell)
		if err != nil {
			return 0, err
		}

		r, err := ec.eval(e.Right, cell)
		if err != nil {
			return 0, err
		}

		switch e.Op {
		case OpAdd:
			return l + r, nil
		case OpSub:
			return l - r, nil
		case OpMul:
			return l * r, nil
		case OpDiv:
			if r == 0 {
				return 0, &ArithmeticError{Cell: cell, Row: ec.row.Index}
			}

			return l / r, nil
		}
	}

	panic(fmt.Sprintf("lang: cannot evaluate %T", e))
}

// guardPath names the active cells from the first occurrence of i, closed
// by i again.
func (ec *evalContext) guardPath(i int) []string {
	cells := ec.prog.table.cells
	path := []string{}
	found := false

	for _, j := range ec.stack {
		if j == i {
			found = true
		}

		if found {
			path = append(path, cells[j].Name)
		}
	}

	return append(path, cells[i].Name)
}
