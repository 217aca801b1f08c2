package nethttp

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
)

// Name is the framework name registered by this package.
const Name = "nethttp"

func init() {
	pkglog.DefaultRegistry().MustRegister(Binding())
}

// Binding returns the net/http framework binding.
func Binding() pkglog.Binding {
	return pkglog.Binding{
		Name:            Name,
		Instrumentor:    pkglog.InstrumentorFunc(instrumentServer),
		RequestAdapter:  RequestAdapter{},
		ResponseAdapter: ResponseAdapter{},
	}
}

func instrumentServer(app any, rl *pkglog.RequestLogger) error {
	srv, ok := app.(*http.Server)
	if !ok || srv == nil {
		return pkgerror.NewConfiguration(fmt.Errorf("%w: %s wants *http.Server, got %T", pkglog.ErrInvalidApp, Name, app))
	}

	h := srv.Handler
	if h == nil {
		h = http.DefaultServeMux
	}
	srv.Handler = Middleware(rl)(h)

	return nil
}

// Middleware resolves the correlation id of every request, echoes it in the
// X-Correlation-ID response header, makes the request reachable from its
// context and writes an access record once the handler returns.
//
// Requests whose handler panics are not logged.
func Middleware(rl *pkglog.RequestLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := rl.Util().CorrelationID(r)
			r = r.WithContext(pkglog.SetCorrelationID(r.Context(), cid))

			info, err := rl.Begin(r)
			if err != nil {
				slog.ErrorContext(r.Context(), "failed to track request", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if cid != pkglog.EmptyValue {
				w.Header().Set(pkglog.HeaderCorrelationID, cid)
			}

			r = r.WithContext(pkglog.ContextWithRequest(r.Context(), r))
			rec := NewResponseRecorder(w)

			next.ServeHTTP(rec, r)

			if err := info.Finalize(rec); err != nil {
				slog.ErrorContext(r.Context(), "failed to finalize request", "error", err)
				return
			}
			if err := rl.Log(r.Context(), info); err != nil {
				slog.ErrorContext(r.Context(), "failed to write access log", "error", err)
			}
		})
	}
}
