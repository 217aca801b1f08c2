// Package pkglog renders application logs and HTTP access logs as one JSON
// document per line, whatever web framework serves the requests.
//
// It is built around slog:
//   - Runtime hands out named *slog.Logger values whose Handler renders
//     records with a Formatter: LogFormatter outside a web context,
//     WebFormatter (adds correlation_id) once a framework is selected.
//   - A framework is a Binding of a RequestAdapter, a ResponseAdapter and an
//     Instrumentor, registered by name in a Registry. Framework packages
//     register themselves from init, so importing one makes it selectable.
//   - The Instrumentor installs middleware that tracks every request in a
//     RequestInfo and writes it with AccessFormatter when the response is
//     complete.
//   - CorrelationPolicy reads the correlation id from the request headers or
//     mints one, and stores it back on the request.
//
// Typical setup:
//
//	import _ "github.com/shandysiswandi/jsonlog/internal/pkg/pkglog/framework/nethttp"
//
//	if err := pkglog.Init(pkglog.WithFramework("nethttp"), pkglog.WithEnabled(true)); err != nil {
//		panic(err)
//	}
//	srv := &http.Server{Handler: mux}
//	if err := pkglog.InitRequestInstrument(srv); err != nil {
//		panic(err)
//	}
//
// JSON output is off unless ENABLE_JSON_LOGGING is true, 1, y or yes (or
// WithEnabled says so); loggers then keep slog's text format and a warning is
// logged once.
package pkglog
