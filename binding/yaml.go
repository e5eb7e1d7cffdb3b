package binding

import (
	"context"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/nrs/lang"
)

// decodeYAML decodes a YAML mapping. JSON documents are valid YAML and take
// the same path.
func decodeYAML(ctx context.Context, data []byte) (lang.Binding, error) {
	var m map[string]any

	if err := yaml.UnmarshalContext(ctx, data, &m); err != nil {
		return nil, ErrSyntax.Wrap(err)
	}

	return fromMap(m)
}
