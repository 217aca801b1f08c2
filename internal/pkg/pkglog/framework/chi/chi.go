// Package chi plugs go-chi/chi into pkglog.
//
// Importing the package registers the "chi" framework. When chi's RequestID
// middleware ran before the request logger its id is used as the stored
// correlation id.
package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog/framework/nethttp"
)

// Name is the framework name registered by this package.
const Name = "chi"

func init() {
	pkglog.DefaultRegistry().MustRegister(Binding())
}

// Binding returns the chi framework binding.
func Binding() pkglog.Binding {
	return pkglog.Binding{
		Name:            Name,
		Instrumentor:    pkglog.InstrumentorFunc(instrument),
		RequestAdapter:  RequestAdapter{},
		ResponseAdapter: nethttp.ResponseAdapter{},
	}
}

// RequestAdapter extends the net/http adapter with chi's request id.
type RequestAdapter struct {
	nethttp.RequestAdapter
}

// CorrelationID returns the stored correlation id, falling back to the id set
// by chi's RequestID middleware.
func (a RequestAdapter) CorrelationID(req any) string {
	if cid := a.RequestAdapter.CorrelationID(req); cid != pkglog.EmptyValue {
		return cid
	}
	r, ok := req.(*http.Request)
	if !ok || r == nil {
		return pkglog.EmptyValue
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return pkglog.EmptyValue
}

// instrument adds the request logger to the router's middleware stack. chi
// requires middleware to be added before the first route.
func instrument(app any, rl *pkglog.RequestLogger) error {
	router, ok := app.(chi.Router)
	if !ok || router == nil {
		return pkgerror.NewConfiguration(fmt.Errorf("%w: %s wants chi.Router, got %T", pkglog.ErrInvalidApp, Name, app))
	}

	router.Use(nethttp.Middleware(rl))
	return nil
}

var _ pkglog.AmbientRequestAdapter = RequestAdapter{}
