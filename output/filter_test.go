package output

import (
	"bytes"
	"errors"
	"testing"
)

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		source string
		rows   []int
	}{
		{"total > 106", []int{1, 2}},
		{"row % 2 == 0", []int{0, 2}},
		{"math_score == 11 || total < 106", []int{0, 1}},
		{"physics_score != 15", nil},
		{"true", []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			f, err := NewFilter(tt.source, params, cells)
			if err != nil {
				t.Fatal(err)
			}

			var rows []int

			for _, rec := range records() {
				ok, err := f.Match(rec)
				if err != nil {
					t.Fatal(err)
				}

				if ok {
					rows = append(rows, rec.Row)
				}
			}

			if len(rows) != len(tt.rows) {
				t.Fatalf("matched rows %v, want %v", rows, tt.rows)
			}

			for i := range rows {
				if rows[i] != tt.rows[i] {
					t.Errorf("matched rows %v, want %v", rows, tt.rows)
				}
			}
		})
	}
}

func TestNewFilter_Errors(t *testing.T) {
	for _, source := range []string{
		"total +",     // syntax
		"total + 1",   // not a bool
		"unknown > 1", // undeclared name
	} {
		if _, err := NewFilter(source, params, cells); !errors.Is(err, ErrFilter) {
			t.Errorf("NewFilter(%q) error = %v, want ErrFilter", source, err)
		}
	}
}

func TestFiltered(t *testing.T) {
	f, err := NewFilter("total >= 108", params, cells)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer

	w, err := New(FormatCSV, &buf, params, cells)
	if err != nil {
		t.Fatal(err)
	}

	w = Filtered(w, f)

	for _, rec := range records() {
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}

	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := "row,math_score,physics_score,total\n1,11,15,108\n2,13.5,15,114.5\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	if Filtered(w, nil) != w {
		t.Error("nil filter wrapped the writer")
	}
}
