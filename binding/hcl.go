package binding

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/ardnew/nrs/lang"
)

// decodeHCL decodes the top-level attributes of an HCL body. Attribute
// expressions are evaluated without variables, so constant arithmetic such
// as "x = 2 * 15" is allowed.
func decodeHCL(data []byte) (lang.Binding, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, "bindings.hcl")
	if diags.HasErrors() {
		return nil, ErrSyntax.Wrap(diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, ErrSyntax.Wrap(diags)
	}

	m := make(map[string]any, len(attrs))

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, ErrValue.
				With(slog.String("param", name)).
				Wrap(diags)
		}

		native, err := ctyToNative(val)
		if err != nil {
			return nil, ErrValue.
				With(slog.String("param", name)).
				Wrap(fmt.Errorf("param %q: %w", name, err))
		}

		m[name] = native
	}

	return fromMap(m)
}

// ctyToNative converts a number or a sequence of numbers. Other types are
// returned as their friendly type name so the caller reports them.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("value is null or unknown")
	}

	ty := v.Type()

	switch {
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, err
		}

		return f, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		list := make([]any, 0, v.LengthInt())

		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()

			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}

			if _, nested := native.([]any); nested {
				return nil, fmt.Errorf("nested %s", elem.Type().FriendlyName())
			}

			list = append(list, native)
		}

		return list, nil

	default:
		return nil, fmt.Errorf("%s is not a number", ty.FriendlyName())
	}
}
