package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestExpand_Broadcast(t *testing.T) {
	table := mustTable(t, "param a; param b; param c;")

	rows, err := Expand(table, Binding{
		"a": {10, 11, 13},
		"b": {15},
		"c": {1, 2, 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	if rows.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", rows.Len())
	}

	want := [][]float64{
		{10, 15, 1},
		{11, 15, 2},
		{13, 15, 3},
	}

	i := 0
	for row := range rows.All() {
		if row.Index != i {
			t.Errorf("row %d has index %d", i, row.Index)
		}

		if got := row.Values(); !slices.Equal(got, want[i]) {
			t.Errorf("row %d = %v, want %v", i, got, want[i])
		}

		i++
	}

	if i != 3 {
		t.Errorf("All() yielded %d rows", i)
	}
}

func TestExpand_SingleValues(t *testing.T) {
	rows, err := Expand(mustTable(t, "param a; param b;"), Binding{
		"a": {1},
		"b": {2},
	})
	if err != nil {
		t.Fatal(err)
	}

	if rows.Len() != 1 || !slices.Equal(rows.Row(0).Values(), []float64{1, 2}) {
		t.Errorf("got %d rows, first %v", rows.Len(), rows.Row(0).Values())
	}
}

func TestExpand_NoParams(t *testing.T) {
	rows, err := Expand(mustTable(t, "cell a: 1;"), nil)
	if err != nil {
		t.Fatal(err)
	}

	if rows.Len() != 1 || len(rows.Row(0).Values()) != 0 {
		t.Errorf("got %d rows, want one empty row", rows.Len())
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		shape   *ShapeError
		unknown string
	}{
		{
			name:    "lengths 2 and 3",
			binding: Binding{"a": {1, 2}, "b": {1, 2, 3}},
			shape:   &ShapeError{Param: "a", Len: 2, Rows: 3},
		},
		{
			name:    "missing param",
			binding: Binding{"a": {1, 2}},
			shape:   &ShapeError{Param: "b", Len: 0, Rows: 2},
		},
		{
			name:    "empty list",
			binding: Binding{"a": {}, "b": {4}},
			shape:   &ShapeError{Param: "a", Len: 0, Rows: 1},
		},
		{
			name:    "unknown name",
			binding: Binding{"a": {1}, "b": {1}, "z": {1}},
			unknown: "z",
		},
		{
			name:    "unknown name reported before shape",
			binding: Binding{"a": {1, 2}, "b": {1, 2, 3}, "c": {1}},
			unknown: "c",
		},
	}

	table := mustTable(t, "param a; param b;")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rows, err := Expand(table, tt.binding)
			if rows != nil {
				t.Error("rows returned alongside error")
			}

			if tt.unknown != "" {
				var nerr *NameError
				if !errors.As(err, &nerr) || nerr.Reason != NameUnknownParam ||
					nerr.Name != tt.unknown {
					t.Errorf("error = %v, want unknown param %q", err, tt.unknown)
				}

				return
			}

			var serr *ShapeError
			if !errors.As(err, &serr) || !errors.Is(err, ErrShape) {
				t.Fatalf("error = %v, want *ShapeError", err)
			}

			if *serr != *tt.shape {
				t.Errorf("got %+v, want %+v", *serr, *tt.shape)
			}
		})
	}
}

func TestShapeError_Message(t *testing.T) {
	tests := []struct {
		err  *ShapeError
		want string
	}{
		{
			&ShapeError{Param: "a", Len: 2, Rows: 3},
			`shape error: param "a" has 2 values, want 1 or 3`,
		},
		{
			&ShapeError{Param: "b", Rows: 2},
			`shape error: param "b" has no values`,
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
