// Package trace records what the compiler is doing while it does it.
//
// Spans follow the lowering pipeline (run, unit, pass, import, element) and
// are written either straight to a stream, into an in-memory ring dumped on
// failure, or both. Every event started under a unit carries the document
// path, so interleaved output of parallel units stays readable.
//
//	lumen lower --trace=- --trace-level=detail app.lumen.toml
//
// Tracers and the current span travel with the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopePass, "lower_menus")
//	defer span.End("")
package trace
