package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache holds one *entry per distinct source, keyed by its 128-bit
// xxh3 hash. Entries are never evicted; see [ClearCache].
var programCache sync.Map

// entry compiles its source exactly once, however many callers race on it.
type entry struct {
	once sync.Once
	c    *compiled
	err  error
}

// CompileReader reads a program from r and compiles it.
//
// The compiled declarations and graph are cached by the content hash of the
// source, so compiling the same text again, for example from different
// files, skips parsing and validation. Options are applied per call and do
// not affect the cache.
func CompileReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Read-ahead lets the next chunk load while the previous is copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return compileCached(ctx, string(data), opts...)
}

func compileCached(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Program, error) {
	cfg := makeConfig(opts...)

	key := xxh3.HashString128(src)

	value, hit := programCache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid cache entry type"))
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", hashString(key)),
		slog.Int("source_bytes", len(src)),
		slog.Bool("cache_hit", hit))

	e.once.Do(func() {
		e.c, e.err = compile(ctx, src, opts...)
	})

	if e.err != nil {
		return nil, e.err
	}

	return newProgram(e.c, opts...), nil
}

// ClearCache removes every cached compilation.
func ClearCache() {
	programCache.Clear()
}

func hashString(h xxh3.Uint128) string {
	return fmt.Sprintf("%016x%016x", h.Hi, h.Lo)
}
