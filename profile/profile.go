package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Path is the directory receiving the profile. Empty means a temporary
	// directory chosen by the profiler.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Start begins profiling and returns a [Stopper] for ending it.
//
// If the binary was built without the pprof tag, or p.Mode is empty or
// unknown, Start returns a no-op. The returned Stopper is always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether profiling support was compiled in.
func Enabled() bool { return len(Modes()) > 0 }

type ignore struct{}

func (ignore) Stop() {}
