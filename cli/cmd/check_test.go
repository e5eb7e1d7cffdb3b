package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/nrs/lang"
	"github.com/ardnew/nrs/log"
)

const checkSource = `
param math_score;
param physics_score;
cell total: math + physics;
cell math: math_score * 3;
cell physics: physics_score * 3;
`

func TestCheckRunText(t *testing.T) {
	t.Parallel()

	c := Check{Format: "text", Source: []string{"-"}}

	got, err := capture(t, checkSource, c.Run)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := "params: math_score physics_score\n" +
		"cells:\n" +
		"  total = math + physics\n" +
		"    refs: math physics\n" +
		"    deps: math physics\n" +
		"  math = math_score * 3\n" +
		"    refs: math_score\n" +
		"  physics = physics_score * 3\n" +
		"    refs: physics_score\n" +
		"order: math physics total\n"

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCheckRunYAML(t *testing.T) {
	t.Parallel()

	c := Check{Format: "yaml", Source: []string{"-"}}

	got, err := capture(t, checkSource, c.Run)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var s lang.Summary
	if err := yaml.Unmarshal([]byte(got), &s); err != nil {
		t.Fatalf("output does not decode: %v\n%s", err, got)
	}

	if len(s.Params) != 2 || len(s.Cells) != 3 {
		t.Fatalf("decoded %d params and %d cells, want 2 and 3", len(s.Params), len(s.Cells))
	}

	if s.Order[len(s.Order)-1] != "total" {
		t.Errorf("order = %v, want total last", s.Order)
	}
}

func TestCheckRunLogsToContext(t *testing.T) {
	t.Parallel()

	var logs, out strings.Builder

	logger := log.Make(&logs,
		log.WithFormat(log.FormatText), log.WithLevel(log.LevelDebug))

	ctx := WithStdio(context.Background(), strings.NewReader(checkSource), &out)
	ctx = log.WithContext(ctx, logger)

	c := Check{Format: "text", Source: []string{"-"}}
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	got := logs.String()
	for _, want := range []string{`msg="program ok"`, "params=2", "cells=3"} {
		if !strings.Contains(got, want) {
			t.Errorf("context logger output %q does not contain %s", got, want)
		}
	}
}

func TestCheckRunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		cause error
	}{
		{"lex", "cell a: 1 $ 2;", lang.ErrLex},
		{"parse", "cell a 1;", lang.ErrParse},
		{"undefined", "cell a: b;", lang.ErrName},
		{"duplicate", "param a; cell a: 1;", lang.ErrName},
		{"cycle", "cell a: b; cell b: a;", lang.ErrCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := Check{Format: "text", Source: []string{"-"}}

			out, err := capture(t, tt.in, c.Run)
			if !errors.Is(err, ErrCompile) || !errors.Is(err, tt.cause) {
				t.Errorf("error = %v, want %v wrapping %v", err, ErrCompile, tt.cause)
			}

			if out != "" {
				t.Errorf("output on error = %q, want none", out)
			}
		})
	}
}
