package lang_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardnew/nrs/lang"
)

func Example() {
	src := `
		param math_score;
		param physics_score;
		param data_structure_score;

		cell math:           math_score * 3;
		cell physics:        physics_score * 3;
		cell data_structure: data_structure_score * 2;
		cell total:          math + physics + data_structure;
	`

	prog, err := lang.Compile(context.Background(), src)
	if err != nil {
		fmt.Println(err)

		return
	}

	binding := lang.Binding{
		"math_score":           {10, 11, 13},
		"physics_score":        {15},
		"data_structure_score": {15},
	}

	for rec, err := range prog.Records(context.Background(), binding, []string{"total"}) {
		if err != nil {
			fmt.Println(err)

			return
		}

		fmt.Println(rec.Row, rec.Params[0].Number, rec.Cells[0].Number)
	}

	// Output:
	// 0 10 105
	// 1 11 108
	// 2 13 114
}

func ExampleCompile_cycle() {
	_, err := lang.Compile(context.Background(), "cell a: b; cell b: a;")

	var cerr *lang.CycleError
	fmt.Println(errors.As(err, &cerr), err)

	// Output:
	// true cycle error: a -> b -> a
}

func ExampleProgram_Evaluate() {
	prog, _ := lang.Compile(context.Background(), "cell x: 1 / 0;")

	_, err := prog.Evaluate(lang.Row{}, []string{"x"})
	fmt.Println(err)

	// Output:
	// arithmetic error: division by zero in cell "x" at row 0
}
