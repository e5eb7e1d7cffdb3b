package lang

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// divisors returns n values counting up from 1, with zeros at each index in
// zeros.
func divisors(n int, zeros ...int) []float64 {
	d := make([]float64, n)
	for i := range d {
		d[i] = float64(i + 1)
	}

	for _, z := range zeros {
		d[z] = 0
	}

	return d
}

const ratio = "param n; param d; cell q: n / d; cell r: q * d - n;"

func TestRun_WorkersMatchSequential(t *testing.T) {
	b := Binding{"n": {12}, "d": divisors(1000)}
	queries := []string{"r", "q"}

	want, err := mustCompile(t, ratio).Run(context.Background(), b, queries)
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{0, 1, 2, 7, 16} {
		p := mustCompile(t, ratio, WithWorkers(workers))

		got, err := p.Run(context.Background(), b, queries)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("workers=%d: records differ from sequential run", workers)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	ctx := context.Background()

	for _, workers := range []int{1, 4} {
		p := mustCompile(t, scores, WithWorkers(workers))

		first, err := p.Run(ctx, scoresBinding(), p.Cells())
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}

		if len(first) != 3 {
			t.Fatalf("workers=%d: got %d records, want 3", workers, len(first))
		}

		again, err := p.Run(ctx, scoresBinding(), p.Cells())
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}

		if !reflect.DeepEqual(first, again) {
			t.Errorf("workers=%d: repeated run differs:\n%v\n%v", workers, first, again)
		}

		recompiled := mustCompile(t, scores, WithWorkers(workers))

		fresh, err := recompiled.Run(ctx, scoresBinding(), recompiled.Cells())
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}

		if !reflect.DeepEqual(first, fresh) {
			t.Errorf("workers=%d: recompiled run differs:\n%v\n%v", workers, first, fresh)
		}
	}
}

func TestRun_LowestFailingRow(t *testing.T) {
	b := Binding{"n": {1}, "d": divisors(600, 450, 130, 131, 599)}

	for _, workers := range []int{1, 3, 8} {
		p := mustCompile(t, ratio, WithWorkers(workers))

		var (
			rows int
			err  error
		)

		for rec, e := range p.Records(context.Background(), b, []string{"q"}) {
			if e != nil {
				err = e

				break
			}

			if rec.Row != rows {
				t.Fatalf("workers=%d: record %d has row %d", workers, rows, rec.Row)
			}

			rows++
		}

		var aerr *ArithmeticError
		if !errors.As(err, &aerr) || aerr.Row != 130 || aerr.Cell != "q" {
			t.Errorf("workers=%d: error = %v, want row 130", workers, err)
		}

		if rows != 130 {
			t.Errorf("workers=%d: %d records before the error, want 130", workers, rows)
		}
	}
}

func TestRun_ErrorDiscardsRecords(t *testing.T) {
	p := mustCompile(t, ratio)

	recs, err := p.Run(context.Background(),
		Binding{"n": {1}, "d": {1, 0}}, []string{"q"})
	if err == nil || recs != nil {
		t.Errorf("got %v, %v; want no records and an error", recs, err)
	}
}

func TestRecords_ValidatesBeforeRows(t *testing.T) {
	calls := 0
	p := mustCompile(t, ratio, WithComputeHook(func(string, int) { calls++ }))

	tests := []struct {
		name    string
		binding Binding
		queries []string
		target  error
	}{
		{"shape", Binding{"n": {1, 2}, "d": {1, 2, 3}}, []string{"q"}, ErrShape},
		{"unknown param", Binding{"n": {1}, "d": {1}, "x": {1}}, []string{"q"}, ErrName},
		{"query a param", Binding{"n": {1}, "d": {1}}, []string{"n"}, ErrName},
	}

	for _, tt := range tests {
		n := 0

		for rec, err := range p.Records(context.Background(), tt.binding, tt.queries) {
			n++

			if !errors.Is(err, tt.target) {
				t.Errorf("%s: got %+v, %v; want %v", tt.name, rec, err, tt.target)
			}
		}

		if n != 1 {
			t.Errorf("%s: yielded %d times, want once", tt.name, n)
		}
	}

	if calls != 0 {
		t.Errorf("%d cells computed despite validation errors", calls)
	}
}

func TestRecords_EmptyQueries(t *testing.T) {
	recs, err := mustCompile(t, ratio).Run(context.Background(),
		Binding{"n": {1}, "d": {1, 2}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(recs) != 2 || len(recs[1].Cells) != 0 || len(recs[1].Params) != 2 {
		t.Errorf("got %+v", recs)
	}
}

func TestRecords_Cancel(t *testing.T) {
	cause := errors.New("stop requested")

	for _, workers := range []int{1, 4} {
		ctx, cancel := context.WithCancelCause(context.Background())
		p := mustCompile(t, ratio, WithWorkers(workers))

		seen := 0

		var err error

		for _, e := range p.Records(ctx, Binding{"n": {1}, "d": divisors(2000)}, []string{"q"}) {
			if e != nil {
				err = e

				break
			}

			seen++
			if seen == 3 {
				cancel(cause)
			}
		}

		cancel(nil)

		if !errors.Is(err, cause) {
			t.Errorf("workers=%d: error = %v, want %v", workers, err, cause)
		}

		if seen != 3 {
			t.Errorf("workers=%d: %d records after cancel, want 3", workers, seen)
		}
	}
}

func TestRecords_StopEarly(t *testing.T) {
	p := mustCompile(t, ratio, WithWorkers(2))

	n := 0
	for range p.Records(context.Background(), Binding{"n": {1}, "d": divisors(500)}, []string{"q"}) {
		n++
		if n == 10 {
			break
		}
	}

	if n != 10 {
		t.Errorf("consumed %d records, want 10", n)
	}
}

func TestProgram_With(t *testing.T) {
	p := mustCompile(t, ratio)

	calls := 0
	q := p.With(WithComputeHook(func(string, int) { calls++ }))

	if _, err := p.Run(context.Background(), Binding{"n": {1}, "d": {1}}, []string{"q"}); err != nil {
		t.Fatal(err)
	}

	if calls != 0 {
		t.Error("With modified the original program")
	}

	if _, err := q.Run(context.Background(), Binding{"n": {1}, "d": {1}}, []string{"r"}); err != nil {
		t.Fatal(err)
	}

	if calls != 2 {
		t.Errorf("hook called %d times, want 2", calls)
	}

	if q.Table() != p.Table() || q.Graph() != p.Graph() {
		t.Error("With did not share the compiled program")
	}
}

func TestNewProgram(t *testing.T) {
	decls, err := Parse(context.Background(), ratio)
	if err != nil {
		t.Fatal(err)
	}

	p, err := NewProgram(context.Background(), decls)
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Params(); !reflect.DeepEqual(got, []string{"n", "d"}) {
		t.Errorf("Params() = %v", got)
	}

	if got := p.Cells(); !reflect.DeepEqual(got, []string{"q", "r"}) {
		t.Errorf("Cells() = %v", got)
	}

	if len(p.Decls()) != 4 {
		t.Errorf("Decls() has %d entries", len(p.Decls()))
	}
}

func TestCompile_RejectsBeforeRecords(t *testing.T) {
	tests := []struct {
		src    string
		target error
	}{
		{"cell a: b; cell b: a;", ErrCycle},
		{"cell a: nope;", ErrName},
		{"cell a: 1; cell a: 2;", ErrName},
		{"cell a 1;", ErrParse},
		{"cell a: 1 ? 2;", ErrLex},
	}

	for _, tt := range tests {
		p, err := Compile(context.Background(), tt.src)
		if p != nil || !errors.Is(err, tt.target) {
			t.Errorf("Compile(%q) = %v, %v; want %v", tt.src, p, err, tt.target)
		}
	}
}
