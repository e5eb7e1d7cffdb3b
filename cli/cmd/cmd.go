package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nrs/lang"
	"github.com/ardnew/nrs/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	stdioKey struct{}
	stdio    struct {
		in  io.Reader
		out io.Writer
	}
)

// WithStdio returns a new context.Context whose commands read "-" sources
// from in and write their output to out instead of os.Stdin and os.Stdout.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func stdinFrom(ctx context.Context) io.Reader {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.in != nil {
		return s.in
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.out != nil {
		return s.out
	}

	return os.Stdout
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// sourceFiles reads program text from files and stdin as one stream, with a
// newline between consecutive sources.
type sourceFiles struct {
	reader io.Reader
	files  []*os.File
	names  []string
}

// Read implements io.Reader.
func (s *sourceFiles) Read(p []byte) (int, error) { return s.reader.Read(p) }

// Close closes every opened file.
func (s *sourceFiles) Close() error {
	errs := make([]error, 0, len(s.files))
	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// String returns the source names joined by commas.
func (s *sourceFiles) String() string { return strings.Join(s.names, ",") }

// openSources opens the given program sources in order.
//
// The same file named twice, through symlinks or different relative paths,
// is read once. Every occurrence of "-" refers to the single stdin reader,
// which is placed last so it reads after all regular files. An empty list
// reads stdin alone.
func openSources(ctx context.Context, sources []string) (*sourceFiles, error) {
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	var (
		srcs     sourceFiles
		readers  []io.Reader
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		file, ok, err := openUniqueFile(src, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrReadSource.
				With(slog.String("source", src)).
				Wrap(err)
		}

		if !ok {
			log.FromContext(ctx).DebugContext(ctx, "skipping duplicate source",
				slog.String("source", src))

			continue
		}

		srcs.files = append(srcs.files, file)
		srcs.names = append(srcs.names, src)
		readers = append(readers, file)
	}

	if hasStdin {
		srcs.names = append(srcs.names, stdinSource)
		readers = append(readers, stdinFrom(ctx))
	}

	joined := make([]io.Reader, 0, 2*len(readers))
	for i, r := range readers {
		if i > 0 {
			joined = append(joined, strings.NewReader("\n"))
		}

		joined = append(joined, r)
	}

	srcs.reader = io.MultiReader(joined...)

	return &srcs, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// It reports false without error if the file is a duplicate.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, bool, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// readSources returns the concatenated text of the given sources.
func readSources(ctx context.Context, sources []string) (string, error) {
	srcs, err := openSources(ctx, sources)
	if err != nil {
		return "", err
	}
	defer srcs.Close()

	data, err := io.ReadAll(srcs)
	if err != nil {
		return "", ErrReadSource.
			With(slog.String("source", srcs.String())).
			Wrap(err)
	}

	return string(data), nil
}

// compileSources compiles the program read from the given sources.
func compileSources(
	ctx context.Context,
	sources []string,
	opts ...lang.Option,
) (*lang.Program, error) {
	srcs, err := openSources(ctx, sources)
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	prog, err := lang.CompileReader(ctx, srcs, opts...)
	if err != nil {
		return nil, ErrCompile.
			With(slog.String("source", srcs.String())).
			Wrap(err)
	}

	return prog, nil
}
