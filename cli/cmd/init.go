package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/nrs/log"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configFileMode is the permission of a generated configuration file.
const configFileMode os.FileMode = 0o600

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		i.buildConfig(ktx),
		yaml.Indent(defaultConfigIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrYAMLMarshal.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = os.WriteFile(confPath, data, configFileMode)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.FromContext(ctx).DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// prefixIgnore lists flag name prefixes excluded from the generated file.
var prefixIgnore = []string{"help", "pprof"}

// buildConfig collects the current value of every top-level flag, followed by
// a section for each command holding its own flags.
func (i *Init) buildConfig(ktx *kong.Context) yaml.MapSlice {
	config := flagItems(ktx, ktx.Model.Flags)

	for _, child := range ktx.Model.Children {
		if child.Hidden || child.Type != kong.CommandNode {
			continue
		}

		section := flagItems(ktx, child.Flags)
		if len(section) > 0 {
			config = append(config, yaml.MapItem{Key: child.Name, Value: section})
		}
	}

	return config
}

// flagItems returns the set values of flags.
func flagItems(ktx *kong.Context, flags []*kong.Flag) yaml.MapSlice {
	var items yaml.MapSlice

	for _, flag := range flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := configValue(ktx.FlagValue(flag)); ok {
			items = append(items, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return items
}

// configValue converts a flag value for YAML encoding. It reports false for
// values that should be omitted: nil, empty strings, and empty lists.
func configValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false

	case bool, int, int64, uint, uint64, float64:
		return v, true

	case string:
		return v, v != ""

	case []string:
		return v, len(v) > 0

	case []int:
		return v, len(v) > 0

	case []float64:
		return v, len(v) > 0

	case fmt.Stringer:
		s := v.String()

		return s, s != ""

	default:
		s := fmt.Sprint(v)

		return s, s != ""
	}
}
