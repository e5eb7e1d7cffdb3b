package log

// Option returns a copy of a logger configuration with one setting changed.
type Option func(config) config

// apply folds opts over cfg in order.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}
