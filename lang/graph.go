package lang

import "slices"

// Graph is the dependency graph over the cells of a [Table].
//
// Nodes are stored in cell declaration order and edges are indices into the
// same slice, so the graph holds no pointers between nodes. A Graph is
// immutable once built.
type Graph struct {
	table *Table
	nodes []node
	// order lists node indices with dependencies before dependents.
	order []int
}

type node struct {
	cell *CellDecl
	// refs holds every identifier referenced by the cell, params included,
	// in order of first appearance.
	refs []string
	// deps holds the indices of referenced cells, parallel to the cell
	// entries of refs.
	deps []int
}

type color uint8

const (
	white color = iota // unvisited
	gray               // on the current path
	black              // fully resolved
)

// BuildGraph collects the references of every cell in t and validates them.
//
// A reference to an undeclared name is a [*NameError] with reason
// [NameUndefined]. A cyclic chain of cell references is a [*CycleError]
// whose path starts and ends with the first cell re-entered.
func BuildGraph(t *Table) (*Graph, error) {
	g := &Graph{
		table: t,
		nodes: make([]node, len(t.cells)),
	}

	for i, c := range t.cells {
		n := node{cell: c, refs: References(c.Expr)}

		for _, ref := range n.refs {
			if j, ok := t.cell(ref); ok {
				n.deps = append(n.deps, j)

				continue
			}

			if _, ok := t.param(ref); ok {
				continue
			}

			return nil, &NameError{
				Name:        ref,
				Cell:        c.Name,
				Reason:      NameUndefined,
				Pos:         identPos(c.Expr, ref),
				Suggestions: suggest(ref, t.Names()),
			}
		}

		g.nodes[i] = n
	}

	if err := g.sort(); err != nil {
		return nil, err
	}

	return g, nil
}

// sort walks the graph depth-first in declaration order, colouring nodes,
// and records a post-order that places every cell after its dependencies.
func (g *Graph) sort() error {
	colors := make([]color, len(g.nodes))
	path := make([]int, 0, len(g.nodes))
	g.order = make([]int, 0, len(g.nodes))

	var visit func(i int) error

	visit = func(i int) error {
		switch colors[i] {
		case black:
			return nil
		case gray:
			return &CycleError{Path: g.cyclePath(path, i)}
		}

		colors[i] = gray
		path = append(path, i)

		for _, j := range g.nodes[i].deps {
			if err := visit(j); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		colors[i] = black
		g.order = append(g.order, i)

		return nil
	}

	for i := range g.nodes {
		if err := visit(i); err != nil {
			return err
		}
	}

	return nil
}

// cyclePath names the nodes of path from the first occurrence of i to its
// end, closed by i again.
func (g *Graph) cyclePath(path []int, i int) []string {
	start := slices.Index(path, i)
	names := make([]string, 0, len(path)-start+1)

	for _, j := range path[start:] {
		names = append(names, g.nodes[j].cell.Name)
	}

	return append(names, g.nodes[i].cell.Name)
}

// Table returns the table the graph was built from.
func (g *Graph) Table() *Table { return g.table }

// Refs returns the identifiers referenced by the named cell, in order of
// first appearance, or nil if no such cell exists.
func (g *Graph) Refs(cell string) []string {
	i, ok := g.table.cell(cell)
	if !ok {
		return nil
	}

	return slices.Clone(g.nodes[i].refs)
}

// Deps returns the cells referenced directly by the named cell.
func (g *Graph) Deps(cell string) []string {
	i, ok := g.table.cell(cell)
	if !ok {
		return nil
	}

	deps := make([]string, len(g.nodes[i].deps))
	for k, j := range g.nodes[i].deps {
		deps[k] = g.nodes[j].cell.Name
	}

	return deps
}

// Order returns every cell name such that each cell follows all the cells it
// depends on. Roots are visited in declaration order.
func (g *Graph) Order() []string {
	names := make([]string, len(g.order))
	for k, i := range g.order {
		names[k] = g.nodes[i].cell.Name
	}

	return names
}

// identPos returns the position of the first reference to name in e.
func identPos(e Expr, name string) Position {
	var pos Position

	Walk(e, func(e Expr) bool {
		if id, ok := e.(*Ident); ok && id.Name == name && !pos.IsValid() {
			pos = id.Pos
		}

		return !pos.IsValid()
	})

	return pos
}
