// Package trace records structured events while forlang tokenizes,
// parses and runs programs.
//
// Tracing is off by default. The CLI enables it with:
//
//	forlang run --trace=- --trace-level=debug loop.fl
//
// Implementations:
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: buffered writer, flushed per event on stderr
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// Levels map onto scopes: phase shows driver and pass boundaries,
// detail adds loop begin/end, debug adds every init/update/output step.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
