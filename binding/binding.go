package binding

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/nrs/lang"
	"github.com/ardnew/nrs/log"
)

var (
	ErrSyntax = lang.NewError("invalid binding syntax")
	ErrValue  = lang.NewError("invalid binding value")
	ErrFormat = lang.NewError("unsupported binding format")
)

// Format identifies a bindings file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatYAML, FormatJSON, FormatTOML, FormatHCL}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", ErrFormat.With(
			slog.String("path", path),
			slog.String("extension", ext),
		).Wrap(fmt.Errorf("%q", ext))
	}
}

// ParseFlag parses a command-line binding of the form "name=v1,v2,...".
//
// The name must be a valid identifier. Values are separated by commas and
// may use any form accepted by [strconv.ParseFloat].
func ParseFlag(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, ErrSyntax.
			With(slog.String("flag", s)).
			Wrap(fmt.Errorf("%q: want name=value[,value...]", s))
	}

	name = strings.TrimSpace(name)
	if !isIdent(name) {
		return "", nil, ErrSyntax.
			With(slog.String("flag", s)).
			Wrap(fmt.Errorf("%q: invalid param name %q", s, name))
	}

	fields := strings.Split(list, ",")
	values := make([]float64, 0, len(fields))

	for _, f := range fields {
		f = strings.TrimSpace(f)

		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return "", nil, ErrValue.
				With(slog.String("param", name), slog.String("value", f)).
				Wrap(fmt.Errorf("param %q: %q is not a number", name, f))
		}

		values = append(values, v)
	}

	return name, values, nil
}

// ParseFlags parses each flag with [ParseFlag] into one binding. A name
// given more than once takes its last values.
func ParseFlags(flags []string) (lang.Binding, error) {
	b := make(lang.Binding, len(flags))

	for _, f := range flags {
		name, values, err := ParseFlag(f)
		if err != nil {
			return nil, err
		}

		b[name] = values
	}

	return b, nil
}

// isIdent reports whether s scans as exactly one identifier.
func isIdent(s string) bool {
	sc := lang.NewScanner(s)

	tok, err := sc.Next()
	if err != nil || tok.Kind != lang.KindIdent || tok.Text != s {
		return false
	}

	tok, err = sc.Next()

	return err == nil && tok.Kind == lang.KindEOF
}

// Load reads a bindings file, choosing the decoder by its extension.
func Load(ctx context.Context, path string) (lang.Binding, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	b, err := Decode(ctx, format, data)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	log.FromContext(ctx).DebugContext(ctx, "bindings loaded",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Any("params", slices.Sorted(maps.Keys(b))))

	return b, nil
}

// Decode parses data in the given format. The document must be a single
// mapping from param names to a number or a list of numbers.
func Decode(ctx context.Context, format Format, data []byte) (lang.Binding, error) {
	switch format {
	case FormatYAML, FormatJSON:
		return decodeYAML(ctx, data)
	case FormatTOML:
		return decodeTOML(data)
	case FormatHCL:
		return decodeHCL(data)
	default:
		return nil, ErrFormat.Wrap(fmt.Errorf("%q", format))
	}
}

// fromMap converts decoded document values to a binding.
func fromMap(m map[string]any) (lang.Binding, error) {
	b := make(lang.Binding, len(m))

	for _, name := range slices.Sorted(maps.Keys(m)) {
		if !isIdent(name) {
			return nil, ErrSyntax.
				With(slog.String("param", name)).
				Wrap(fmt.Errorf("invalid param name %q", name))
		}

		values, err := numbers(name, m[name])
		if err != nil {
			return nil, err
		}

		b[name] = values
	}

	return b, nil
}

// numbers converts a scalar or a list of scalars to float64 values.
func numbers(name string, v any) ([]float64, error) {
	list, ok := v.([]any)
	if !ok {
		list = []any{v}
	}

	out := make([]float64, 0, len(list))

	for _, elem := range list {
		f, ok := number(elem)
		if !ok {
			return nil, ErrValue.
				With(slog.String("param", name)).
				Wrap(fmt.Errorf("param %q: %v (%T) is not a number", name, elem, elem))
		}

		out = append(out, f)
	}

	return out, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Merge copies every name of src into dst, replacing values dst already
// holds, and returns dst. A nil dst is allocated.
func Merge(dst, src lang.Binding) lang.Binding {
	if dst == nil {
		dst = make(lang.Binding, len(src))
	}

	for name, values := range src {
		dst[name] = slices.Clone(values)
	}

	return dst
}
