package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/nrs/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads a YAML
// configuration file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Top-level keys name flags, with hyphens or underscores. A key naming a
// command holds a mapping of that command's flags, which take precedence
// over top-level keys of the same name:
//
//	log-level: debug
//	log_format: text
//	run:
//	  format: csv
//	  jobs: 4
//
// Command-line flags override configuration values. A file that does not
// parse as a YAML mapping is ignored with a warning.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return config{}, nil
		}

		var m map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &m); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		return config(m), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := r[parent.Command.Name].(map[string]any); ok {
			if value, ok := config(section).lookup(flag.Name); ok {
				return value, nil
			}
		}
	}

	if value, ok := r.lookup(flag.Name); ok {
		return value, nil
	}

	// Not found, let kong use defaults.
	return nil, nil
}

// lookup finds name in either its hyphen or underscore form.
func (r config) lookup(name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if value, ok := r[key]; ok && value != nil {
			return kongValue(value), true
		}
	}

	return nil, false
}

// kongValue converts a decoded YAML value to a form kong's mappers accept.
// Kong parses numbers from strings.
func kongValue(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		list := make([]any, len(v))
		for i, elem := range v {
			list[i] = kongValue(elem)
		}

		return list
	default:
		return v
	}
}
