package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/nrs/lang"
	"github.com/ardnew/nrs/log"
)

// Check compiles a program without evaluating it and prints a summary of
// its declarations and dependencies.
type Check struct {
	Format string `default:"text" enum:"text,yaml" help:"Summary format (${enum})." short:"o"`

	Source []string `arg:"" default:"-" help:"Program source files or '-' for stdin." name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := compileSources(ctx, c.Source,
		lang.WithLogger(log.FromContext(ctx)))
	if err != nil {
		return err
	}

	summary := prog.Summary()
	out := stdoutFrom(ctx)

	switch c.Format {
	case "yaml":
		data, err := yaml.MarshalContext(ctx, summary)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = out.Write(data)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	default:
		if err := writeSummary(out, summary); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	log.FromContext(ctx).DebugContext(ctx, "program ok",
		slog.Int("params", len(summary.Params)),
		slog.Int("cells", len(summary.Cells)))

	return nil
}

// writeSummary writes s as plain text:
//
//	params: a b
//	cells:
//	  x = a + b
//	    refs: a b
//	order: x
func writeSummary(w io.Writer, s lang.Summary) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "params: %s\n", strings.Join(s.Params, " "))
	sb.WriteString("cells:\n")

	for _, c := range s.Cells {
		fmt.Fprintf(&sb, "  %s = %s\n", c.Name, c.Expr)

		if len(c.Refs) > 0 {
			fmt.Fprintf(&sb, "    refs: %s\n", strings.Join(c.Refs, " "))
		}

		if len(c.Deps) > 0 {
			fmt.Fprintf(&sb, "    deps: %s\n", strings.Join(c.Deps, " "))
		}
	}

	fmt.Fprintf(&sb, "order: %s\n", strings.Join(s.Order, " "))

	_, err := io.WriteString(w, sb.String())

	return err
}
