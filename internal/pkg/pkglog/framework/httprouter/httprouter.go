// Package httprouter plugs the julienschmidt/httprouter based pkgrouter.Router
// into pkglog.
//
// Importing the package registers the "httprouter" framework. Requests are
// plain *http.Request values, so the net/http adapters are reused; the
// instrumentor wraps the whole router so unmatched routes are logged too.
package httprouter

import (
	"context"
	"fmt"

	"github.com/julienschmidt/httprouter"

	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgerror"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkglog/framework/nethttp"
	"github.com/shandysiswandi/jsonlog/internal/pkg/pkgrouter"
)

// Name is the framework name registered by this package.
const Name = "httprouter"

func init() {
	pkglog.DefaultRegistry().MustRegister(Binding())
}

// Binding returns the httprouter framework binding.
func Binding() pkglog.Binding {
	return pkglog.Binding{
		Name:            Name,
		Instrumentor:    pkglog.InstrumentorFunc(instrument),
		RequestAdapter:  RequestAdapter{},
		ResponseAdapter: nethttp.ResponseAdapter{},
	}
}

// RequestAdapter is the net/http adapter.
type RequestAdapter struct {
	nethttp.RequestAdapter
}

// Params returns the route parameters of the request being served in ctx.
func Params(ctx context.Context) httprouter.Params {
	return pkgrouter.Params(ctx)
}

func instrument(app any, rl *pkglog.RequestLogger) error {
	router, ok := app.(*pkgrouter.Router)
	if !ok || router == nil {
		return pkgerror.NewConfiguration(fmt.Errorf("%w: %s wants *pkgrouter.Router, got %T", pkglog.ErrInvalidApp, Name, app))
	}

	router.Wrap(nethttp.Middleware(rl))
	return nil
}

var _ pkglog.AmbientRequestAdapter = RequestAdapter{}
