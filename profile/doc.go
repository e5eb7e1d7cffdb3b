// Package profile provides optional runtime profiling for nrs.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof ./...
//
// Without the tag, [Modes] is empty and [Profiler.Start] is a no-op.
//
// A session writes one profile file named after its mode (cpu.pprof,
// mem.pprof, and so on) into [Profiler.Path]:
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}.Start()
//	defer stop.Stop()
//
// Analyze the result with go tool pprof:
//
//	go tool pprof -http=: ./nrs cpu.pprof
//
// The tagged build also imports [net/http/pprof], registering its handlers on
// [net/http.DefaultServeMux].
package profile
