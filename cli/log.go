package cli

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/ardnew/nrs/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, so errors reported during parsing already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"     enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"     enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                          help:"Set timestamp format (a time package layout name, a layout, or none)."`
	Caller     bool      `default:"false"                            help:"Include caller information."                                          negatable:""`
	Pretty     bool      `default:"true"                             help:"Colorize log output when writing to a terminal."                      negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// stderrIsTerminal reports whether log output goes to a terminal.
func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// start applies every parsed logging flag and returns a function that logs
// completion.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	pretty := f.Pretty && stderrIsTerminal()

	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", pretty),
	)

	return func() { log.TraceContext(ctx, "logger stopped") }
}

// scan performs an early pass over command-line arguments and applies
// logger flags before kong begins parsing, regardless of flag position.
//
// Level and format are also applied by their TextUnmarshalers during
// parsing; the boolean flags are only seen here.
func (f *logConfig) scan(args []string) {
	bools := map[string]func(bool){
		"pretty": func(v bool) {
			f.Pretty = v
			log.Config(log.WithPretty(v && stderrIsTerminal()))
		},
		"caller": func(v bool) {
			f.Caller = v
			log.Config(log.WithCaller(v))
		},
	}

	values := map[string]func(string){
		"level":  func(v string) { _ = f.Level.UnmarshalText([]byte(v)) },
		"format": func(v string) { _ = f.Format.UnmarshalText([]byte(v)) },
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		negated := strings.HasPrefix(arg, "--no-log-")

		var name string

		switch {
		case negated:
			name = strings.TrimPrefix(arg, "--no-log-")
		case strings.HasPrefix(arg, "--log-"):
			name = strings.TrimPrefix(arg, "--log-")
		default:
			continue
		}

		name, value, assigned := strings.Cut(name, "=")

		if set, ok := bools[name]; ok {
			v := true
			if assigned {
				parsed, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				v = parsed
			}

			set(v != negated)

			continue
		}

		if set, ok := values[name]; ok && !negated {
			// Consume the next argument as the value unless assigned.
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				value = args[i+1]
				i++
			}

			set(value)
		}
	}
}
