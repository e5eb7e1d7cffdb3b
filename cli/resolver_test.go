package cli

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/alecthomas/kong"
)

const testConfig = `
log-level: debug
log_format: json
jobs: 2
run:
  format: csv
  jobs: 4
  query: [total, math]
  ratio: 0.5
check:
  format: yaml
`

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func commandPath(name string) *kong.Path {
	return &kong.Path{Command: &kong.Command{Name: name}}
}

func loadConfig(t *testing.T, text string) kong.Resolver {
	t.Helper()

	resolver, err := resolve(context.Background())(strings.NewReader(text))
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	return resolver
}

func TestResolve(t *testing.T) {
	t.Parallel()

	resolver := loadConfig(t, testConfig)

	tests := []struct {
		name   string
		parent *kong.Path
		flag   string
		want   any
	}{
		{"hyphen_key", nil, "log-level", "debug"},
		{"underscore_key", nil, "log-format", "json"},
		{"top_level_number", nil, "jobs", "2"},
		{"missing", nil, "where", nil},
		{"command_section", commandPath("run"), "format", "csv"},
		{"command_overrides_top_level", commandPath("run"), "jobs", "4"},
		{"command_list", commandPath("run"), "query", []any{"total", "math"}},
		{"command_float", commandPath("run"), "ratio", "0.5"},
		{"other_command", commandPath("check"), "format", "yaml"},
		{"falls_back_to_top_level", commandPath("check"), "jobs", "2"},
		{"global_from_command", commandPath("run"), "log-level", "debug"},
		{"section_not_a_flag", nil, "format", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolver.Resolve(nil, tt.parent, flagNamed(tt.flag))
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		loader func() (kong.Resolver, error)
	}{
		{"not_yaml", func() (kong.Resolver, error) {
			return resolve(context.Background())(strings.NewReader("log-level: [unclosed"))
		}},
		{"read_error", func() (kong.Resolver, error) {
			return resolve(context.Background())(iotest.ErrReader(iotest.ErrTimeout))
		}},
		{"empty", func() (kong.Resolver, error) {
			return resolve(context.Background())(strings.NewReader(""))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver, err := tt.loader()
			if err != nil {
				t.Fatalf("loader error: %v", err)
			}

			if err := resolver.Validate(nil); err != nil {
				t.Errorf("Validate() error: %v", err)
			}

			got, err := resolver.Resolve(nil, nil, flagNamed("log-level"))
			if err != nil || got != nil {
				t.Errorf("Resolve() = %v, %v; want nil, nil", got, err)
			}
		})
	}
}

func TestKongValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want any
	}{
		{int64(-3), "-3"},
		{uint64(7), "7"},
		{9, "9"},
		{1.25, "1.25"},
		{true, true},
		{"text", "text"},
		{[]any{uint64(1), "x"}, []any{"1", "x"}},
	}

	for _, tt := range tests {
		if got := kongValue(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("kongValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
