package pkgrouter

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

// Params returns the route parameters matched for the request in ctx, or
// nil when the request was not served by a route.
func Params(ctx context.Context) httprouter.Params {
	return httprouter.ParamsFromContext(ctx)
}

// Param returns one named route parameter, empty when absent.
func Param(ctx context.Context, key string) string {
	return Params(ctx).ByName(key)
}
