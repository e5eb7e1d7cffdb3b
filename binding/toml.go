package binding

import (
	"github.com/BurntSushi/toml"

	"github.com/ardnew/nrs/lang"
)

// decodeTOML decodes top-level TOML keys. Tables are rejected as values.
func decodeTOML(data []byte) (lang.Binding, error) {
	var m map[string]any

	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, ErrSyntax.Wrap(err)
	}

	return fromMap(m)
}
