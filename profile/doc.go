// Package profile starts optional runtime profiling of the phoenix
// interpreter using [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	phoenix --pprof-mode cpu build.phnx
//	go tool pprof -http=: ~/.cache/phoenix/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
// With it, the handlers of [net/http/pprof] are also registered on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
