package profile

// Profiler selects a profiling mode and where its output is written.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode disables profiling.
	Mode string
	// Path is the output directory. Empty selects a temporary directory.
	Path string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Stopper ends a running profile and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling. The returned Stopper is always safe to call,
// even when profiling is disabled.
func (p Profiler) Start() Stopper {
	if p.Mode == "" || !Supported(p.Mode) {
		return ignore{}
	}

	return start(p)
}

// Supported reports whether mode is one of [Modes].
func Supported(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}

	return false
}

type ignore struct{}

func (ignore) Stop() {}
