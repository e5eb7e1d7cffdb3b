package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/nrs/log"
	"github.com/ardnew/nrs/profile"
)

// pprofConfig selects a profiling mode. Without the pprof build tag the
// only accepted mode is the empty string.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling (${pprofModeHelp})." placeholder:"MODE"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory."            type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	help := "requires build tag " + profile.Tag
	if profile.Enabled() {
		help = strings.Join(profile.Modes(), ", ")
	}

	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofModeHelp": help,
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if a mode is selected and returns the function
// that stops it.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	log.DebugContext(ctx, "pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)

	p := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: true}.Start()

	return func() {
		p.Stop()
		log.DebugContext(ctx, "pprof stop",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
	}
}
